package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemolab/mnemo-api/internal/api/shared"
	"github.com/mnemolab/mnemo-api/internal/domain"
	"github.com/mnemolab/mnemo-api/internal/service/review"
)

func testLogger() *slog.Logger {
	return slog.Default()
}

// authedRequest builds a request carrying an authenticated user ID, the way
// the auth middleware leaves it.
func authedRequest(
	t *testing.T,
	method, target string,
	userID uuid.UUID,
	body []byte,
) *http.Request {
	t.Helper()

	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	return req.WithContext(ctx)
}

// withURLParam injects a chi route parameter into the request context.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func testCard(userID uuid.UUID) *domain.MemoryCard {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return &domain.MemoryCard{
		ID:        uuid.New(),
		UserID:    userID,
		DeckID:    uuid.New(),
		Topic:     "biology",
		Front:     "front",
		Back:      "back",
		Ease:      2.5,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestGetDueCards(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	mock := &review.MockReviewService{
		Cards: []*domain.MemoryCard{testCard(userID)},
	}
	handler := NewReviewHandler(mock, testLogger())

	req := authedRequest(t, http.MethodGet, "/api/cards/due", userID, nil)
	rr := httptest.NewRecorder()
	handler.GetDueCards(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var cards []CardResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &cards))
	require.Len(t, cards, 1)
	assert.Equal(t, "biology", cards[0].Topic)
	assert.Equal(t, "new", cards[0].Stage)
}

func TestGetDueCardsNoneDue(t *testing.T) {
	t.Parallel()

	mock := &review.MockReviewService{Err: review.ErrNoCardsDue}
	handler := NewReviewHandler(mock, testLogger())

	req := authedRequest(t, http.MethodGet, "/api/cards/due", uuid.New(), nil)
	rr := httptest.NewRecorder()
	handler.GetDueCards(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestGetDueCardsInvalidDeckID(t *testing.T) {
	t.Parallel()

	handler := NewReviewHandler(&review.MockReviewService{}, testLogger())

	req := authedRequest(t, http.MethodGet, "/api/cards/due?deck_id=not-a-uuid", uuid.New(), nil)
	rr := httptest.NewRecorder()
	handler.GetDueCards(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetDueCardsUnauthenticated(t *testing.T) {
	t.Parallel()

	handler := NewReviewHandler(&review.MockReviewService{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/cards/due", nil)
	rr := httptest.NewRecorder()
	handler.GetDueCards(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSubmitReview(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	card := testCard(userID)
	card.Reps = 1
	card.IntervalDays = 1

	mock := &review.MockReviewService{
		Outcome: &review.ReviewOutcome{
			Card: card,
			Streak: &domain.StreakState{
				UserID:        userID,
				CurrentStreak: 3,
				LongestStreak: 3,
				TotalReviews:  9,
			},
		},
	}
	handler := NewReviewHandler(mock, testLogger())

	body := []byte(`{"grade":"good"}`)
	req := authedRequest(t, http.MethodPost, "/api/cards/"+card.ID.String()+"/review", userID, body)
	req = withURLParam(req, "id", card.ID.String())

	rr := httptest.NewRecorder()
	handler.SubmitReview(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp ReviewOutcomeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, card.ID.String(), resp.Card.ID)
	assert.Equal(t, 3, resp.Streak.CurrentStreak)
}

func TestSubmitReviewInvalidGrade(t *testing.T) {
	t.Parallel()

	handler := NewReviewHandler(&review.MockReviewService{}, testLogger())
	cardID := uuid.New()

	body := []byte(`{"grade":"perfect"}`)
	req := authedRequest(t, http.MethodPost, "/api/cards/"+cardID.String()+"/review", uuid.New(), body)
	req = withURLParam(req, "id", cardID.String())

	rr := httptest.NewRecorder()
	handler.SubmitReview(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSubmitReviewCardNotFound(t *testing.T) {
	t.Parallel()

	mock := &review.MockReviewService{Err: review.ErrCardNotFound}
	handler := NewReviewHandler(mock, testLogger())
	cardID := uuid.New()

	body := []byte(`{"grade":"good"}`)
	req := authedRequest(t, http.MethodPost, "/api/cards/"+cardID.String()+"/review", uuid.New(), body)
	req = withURLParam(req, "id", cardID.String())

	rr := httptest.NewRecorder()
	handler.SubmitReview(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSubmitReviewConflict(t *testing.T) {
	t.Parallel()

	mock := &review.MockReviewService{Err: review.ErrReviewConflict}
	handler := NewReviewHandler(mock, testLogger())
	cardID := uuid.New()

	body := []byte(`{"grade":"again"}`)
	req := authedRequest(t, http.MethodPost, "/api/cards/"+cardID.String()+"/review", uuid.New(), body)
	req = withURLParam(req, "id", cardID.String())

	rr := httptest.NewRecorder()
	handler.SubmitReview(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestSubmitReviewNotOwned(t *testing.T) {
	t.Parallel()

	mock := &review.MockReviewService{Err: review.ErrCardNotOwned}
	handler := NewReviewHandler(mock, testLogger())
	cardID := uuid.New()

	body := []byte(`{"grade":"good"}`)
	req := authedRequest(t, http.MethodPost, "/api/cards/"+cardID.String()+"/review", uuid.New(), body)
	req = withURLParam(req, "id", cardID.String())

	rr := httptest.NewRecorder()
	handler.SubmitReview(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestPostpone(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	card := testCard(userID)
	due := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	card.DueAt = &due

	mock := &review.MockReviewService{
		PostponeFunc: func(
			ctx context.Context,
			gotUser, gotCard uuid.UUID,
			days int,
		) (*domain.MemoryCard, error) {
			assert.Equal(t, userID, gotUser)
			assert.Equal(t, card.ID, gotCard)
			assert.Equal(t, 3, days)
			return card, nil
		},
	}
	handler := NewReviewHandler(mock, testLogger())

	body := []byte(`{"days":3}`)
	req := authedRequest(t, http.MethodPost, "/api/cards/"+card.ID.String()+"/postpone", userID, body)
	req = withURLParam(req, "id", card.ID.String())

	rr := httptest.NewRecorder()
	handler.Postpone(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp CardResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.DueAt)
	assert.True(t, resp.DueAt.Equal(due))
}

func TestPostponeInvalidDays(t *testing.T) {
	t.Parallel()

	handler := NewReviewHandler(&review.MockReviewService{}, testLogger())
	cardID := uuid.New()

	body := []byte(`{"days":0}`)
	req := authedRequest(t, http.MethodPost, "/api/cards/"+cardID.String()+"/postpone", uuid.New(), body)
	req = withURLParam(req, "id", cardID.String())

	rr := httptest.NewRecorder()
	handler.Postpone(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGetStreak(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	mock := &review.MockReviewService{
		StreakState: &domain.StreakState{
			UserID:        userID,
			CurrentStreak: 7,
			LongestStreak: 12,
			TotalReviews:  40,
			Freezes:       1,
		},
	}
	handler := NewReviewHandler(mock, testLogger())

	req := authedRequest(t, http.MethodGet, "/api/streak", userID, nil)
	rr := httptest.NewRecorder()
	handler.GetStreak(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp StreakResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.CurrentStreak)
	assert.Equal(t, 1, resp.Freezes)
}
