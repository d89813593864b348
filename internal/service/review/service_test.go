package review

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemolab/mnemo-api/internal/domain"
	"github.com/mnemolab/mnemo-api/internal/domain/srs"
	"github.com/mnemolab/mnemo-api/internal/domain/streak"
	"github.com/mnemolab/mnemo-api/internal/store"
)

// passthroughTxRunner runs the function directly without a real transaction.
type passthroughTxRunner struct{}

func (passthroughTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, nil)
}

// fakeCardStore is an in-memory CardStore for service tests.
type fakeCardStore struct {
	cards       map[uuid.UUID]*domain.MemoryCard
	updateErr   error
	schedulings int
}

func newFakeCardStore() *fakeCardStore {
	return &fakeCardStore{cards: make(map[uuid.UUID]*domain.MemoryCard)}
}

func (s *fakeCardStore) Create(ctx context.Context, card *domain.MemoryCard) error {
	s.cards[card.ID] = card
	return nil
}

func (s *fakeCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.MemoryCard, error) {
	card, ok := s.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	copied := *card
	return &copied, nil
}

func (s *fakeCardStore) ListForReview(
	ctx context.Context,
	userID, deckID uuid.UUID,
) ([]*domain.MemoryCard, error) {
	var cards []*domain.MemoryCard
	for _, card := range s.cards {
		if card.UserID != userID {
			continue
		}
		if deckID != uuid.Nil && card.DeckID != deckID {
			continue
		}
		copied := *card
		cards = append(cards, &copied)
	}
	return cards, nil
}

func (s *fakeCardStore) UpdateScheduling(ctx context.Context, card *domain.MemoryCard) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.schedulings++
	stored := *card
	s.cards[card.ID] = &stored
	return nil
}

func (s *fakeCardStore) UpdateDueAt(
	ctx context.Context,
	card *domain.MemoryCard,
	dueAt time.Time,
) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	stored := *card
	stored.DueAt = &dueAt
	s.cards[card.ID] = &stored
	card.DueAt = &dueAt
	return nil
}

func (s *fakeCardStore) WithTx(tx *sql.Tx) store.CardStore { return s }

// fakeStreakStore is an in-memory StreakStore for service tests.
type fakeStreakStore struct {
	states  map[uuid.UUID]*domain.StreakState
	creates int
	updates int
}

func newFakeStreakStore() *fakeStreakStore {
	return &fakeStreakStore{states: make(map[uuid.UUID]*domain.StreakState)}
}

func (s *fakeStreakStore) Get(ctx context.Context, userID uuid.UUID) (*domain.StreakState, error) {
	state, ok := s.states[userID]
	if !ok {
		return nil, store.ErrStreakNotFound
	}
	copied := *state
	return &copied, nil
}

func (s *fakeStreakStore) Create(ctx context.Context, state *domain.StreakState) error {
	s.creates++
	copied := *state
	s.states[state.UserID] = &copied
	return nil
}

func (s *fakeStreakStore) Update(ctx context.Context, state *domain.StreakState) error {
	s.updates++
	copied := *state
	s.states[state.UserID] = &copied
	return nil
}

func (s *fakeStreakStore) WithTx(tx *sql.Tx) store.StreakStore { return s }

// fakeQuizStore is an in-memory QuizResultStore for service tests.
type fakeQuizStore struct {
	results []*domain.QuizResult
}

func (s *fakeQuizStore) Create(ctx context.Context, result *domain.QuizResult) error {
	s.results = append(s.results, result)
	return nil
}

func (s *fakeQuizStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]*domain.QuizResult, error) {
	return s.results, nil
}

func (s *fakeQuizStore) WithTx(tx *sql.Tx) store.QuizResultStore { return s }

type serviceFixture struct {
	service     ReviewService
	cardStore   *fakeCardStore
	streakStore *fakeStreakStore
	quizStore   *fakeQuizStore
	now         time.Time
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	f := &serviceFixture{
		cardStore:   newFakeCardStore(),
		streakStore: newFakeStreakStore(),
		quizStore:   &fakeQuizStore{},
		now:         time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
	}

	svc := NewReviewService(
		passthroughTxRunner{},
		f.cardStore,
		f.streakStore,
		f.quizStore,
		srs.NewDefaultService(),
		streak.NewTracker(),
		nil,
	)
	svc.(*reviewServiceImpl).nowFn = func() time.Time { return f.now }
	f.service = svc
	return f
}

func (f *serviceFixture) addCard(t *testing.T, userID uuid.UUID) *domain.MemoryCard {
	t.Helper()

	card, err := domain.NewMemoryCard(userID, uuid.New(), "biology", "front", "back")
	require.NoError(t, err)
	require.NoError(t, f.cardStore.Create(context.Background(), card))
	return card
}

func TestSubmitReviewHappyPath(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	userID := uuid.New()
	card := f.addCard(t, userID)

	outcome, err := f.service.SubmitReview(context.Background(), userID, card.ID, domain.GradeGood)
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Card.IntervalDays)
	assert.Equal(t, 1, outcome.Card.Reps)
	require.NotNil(t, outcome.Card.DueAt)
	assert.Equal(t, f.now.AddDate(0, 0, 1), *outcome.Card.DueAt)

	assert.Equal(t, 1, outcome.Streak.CurrentStreak)
	assert.Equal(t, 1, outcome.Streak.TotalReviews)
	assert.Equal(t, 1, f.streakStore.creates, "first review should create the streak record")
	assert.Equal(t, 1, f.cardStore.schedulings)
}

func TestSubmitReviewInvalidGrade(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	userID := uuid.New()
	card := f.addCard(t, userID)

	_, err := f.service.SubmitReview(context.Background(), userID, card.ID, domain.Grade("perfect"))
	assert.ErrorIs(t, err, ErrInvalidGrade)
	assert.Zero(t, f.cardStore.schedulings)
}

func TestSubmitReviewCardNotFound(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)

	_, err := f.service.SubmitReview(context.Background(), uuid.New(), uuid.New(), domain.GradeGood)
	assert.ErrorIs(t, err, ErrCardNotFound)
}

func TestSubmitReviewCardNotOwned(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	owner := uuid.New()
	card := f.addCard(t, owner)

	_, err := f.service.SubmitReview(context.Background(), uuid.New(), card.ID, domain.GradeGood)
	assert.ErrorIs(t, err, ErrCardNotOwned)
	assert.Zero(t, f.cardStore.schedulings)
}

func TestSubmitReviewConflict(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	userID := uuid.New()
	card := f.addCard(t, userID)
	f.cardStore.updateErr = store.ErrConflict

	_, err := f.service.SubmitReview(context.Background(), userID, card.ID, domain.GradeGood)
	assert.ErrorIs(t, err, ErrReviewConflict)
}

func TestSubmitReviewAdvancesExistingStreak(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	userID := uuid.New()
	card := f.addCard(t, userID)

	yesterday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	f.streakStore.states[userID] = &domain.StreakState{
		UserID:         userID,
		CurrentStreak:  3,
		LongestStreak:  5,
		LastReviewDate: &yesterday,
		TotalReviews:   10,
	}

	outcome, err := f.service.SubmitReview(context.Background(), userID, card.ID, domain.GradeEasy)
	require.NoError(t, err)

	assert.Equal(t, 4, outcome.Streak.CurrentStreak)
	assert.Equal(t, 11, outcome.Streak.TotalReviews)
	assert.Equal(t, 1, f.streakStore.updates)
	assert.Zero(t, f.streakStore.creates)
}

func TestDueCards(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	userID := uuid.New()
	f.addCard(t, userID)

	cards, err := f.service.DueCards(context.Background(), userID, uuid.Nil, "")
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}

func TestDueCardsNoneDue(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	userID := uuid.New()
	card := f.addCard(t, userID)

	tomorrow := f.now.AddDate(0, 0, 1)
	card.DueAt = &tomorrow
	f.cardStore.cards[card.ID] = card

	_, err := f.service.DueCards(context.Background(), userID, uuid.Nil, "")
	assert.ErrorIs(t, err, ErrNoCardsDue)
}

func TestPostpone(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	userID := uuid.New()
	card := f.addCard(t, userID)

	postponed, err := f.service.Postpone(context.Background(), userID, card.ID, 3)
	require.NoError(t, err)

	require.NotNil(t, postponed.DueAt)
	assert.Equal(t, f.now.AddDate(0, 0, 3), *postponed.DueAt)
}

func TestPostponeInvalidDays(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)

	_, err := f.service.Postpone(context.Background(), uuid.New(), uuid.New(), 0)
	assert.ErrorIs(t, err, ErrInvalidPostpone)
}

func TestSubmitQuiz(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	userID := uuid.New()

	outcome, err := f.service.SubmitQuiz(context.Background(), userID, QuizAttempt{
		StartedAt: f.now.Add(-time.Minute),
		Items: []domain.QuizItem{
			{
				QuestionID:    "q1",
				CorrectAnswer: "mitochondria",
				AnswerType:    domain.AnswerTypeFreeText,
				UserAnswer:    "mitochondria",
				Topic:         "biology",
			},
			{
				QuestionID:    "q2",
				CorrectAnswer: "B",
				AnswerType:    domain.AnswerTypeMultipleChoice,
				UserAnswer:    "C",
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 50.0, outcome.Result.Score)
	assert.Equal(t, 60, outcome.Result.DurationSeconds)
	assert.Len(t, f.quizStore.results, 1)

	// The whole attempt moves the streak exactly once.
	assert.Equal(t, 1, outcome.Streak.CurrentStreak)
	assert.Equal(t, 1, outcome.Streak.TotalReviews)
}

func TestSubmitQuizEmptyAttempt(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)

	_, err := f.service.SubmitQuiz(context.Background(), uuid.New(), QuizAttempt{
		StartedAt: f.now,
	})
	assert.ErrorIs(t, err, ErrEmptyAttempt)
	assert.Empty(t, f.quizStore.results)
}

func TestStreakForNewUser(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	userID := uuid.New()

	state, err := f.service.Streak(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, userID, state.UserID)
	assert.Zero(t, state.CurrentStreak)
	assert.Zero(t, state.TotalReviews)
}

func TestProgress(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t)
	userID := uuid.New()
	f.addCard(t, userID)

	mature := f.addCard(t, userID)
	mature.Reps = 6
	mature.IntervalDays = 45
	f.cardStore.cards[mature.ID] = mature

	summary, err := f.service.Progress(context.Background(), userID, uuid.Nil)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.New)
	assert.Equal(t, 1, summary.Mastered)
	assert.Equal(t, 2, summary.Total)
}
