package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnemolab/mnemo-api/internal/domain"
	"github.com/mnemolab/mnemo-api/internal/service/review"
)

func TestGradeQuiz(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	resultID := uuid.New()

	mock := &review.MockReviewService{
		SubmitQuizFunc: func(
			ctx context.Context,
			gotUser uuid.UUID,
			attempt review.QuizAttempt,
		) (*review.QuizOutcome, error) {
			assert.Equal(t, userID, gotUser)
			require.Len(t, attempt.Items, 2)
			assert.Equal(t, domain.AnswerTypeMultipleChoice, attempt.Items[0].AnswerType)

			return &review.QuizOutcome{
				Result: &domain.QuizResult{
					ID:              resultID,
					UserID:          userID,
					Score:           50.0,
					DurationSeconds: 42,
					Questions: []domain.QuestionResult{
						{QuestionID: "q1", IsCorrect: true},
						{QuestionID: "q2", IsCorrect: false},
					},
					TopicPerformance: map[string]domain.TopicPerformance{},
				},
				Streak: &domain.StreakState{UserID: userID, CurrentStreak: 1},
			}, nil
		},
	}
	handler := NewQuizHandler(mock, testLogger())

	body := []byte(`{
		"started_at": "2026-03-10T09:00:00Z",
		"items": [
			{"question_id": "q1", "correct_answer": "B", "answer_type": "mcq", "user_answer": "B"},
			{"question_id": "q2", "correct_answer": "mitochondria", "answer_type": "free_text", "user_answer": "ribosome"}
		]
	}`)
	req := authedRequest(t, http.MethodPost, "/api/quizzes/grade", userID, body)

	rr := httptest.NewRecorder()
	handler.GradeQuiz(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp QuizOutcomeResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, resultID.String(), resp.ID)
	assert.Equal(t, 50.0, resp.Score)
	assert.Equal(t, 42, resp.DurationSeconds)
	assert.Equal(t, 1, resp.Streak.CurrentStreak)
}

func TestGradeQuizEmptyItems(t *testing.T) {
	t.Parallel()

	handler := NewQuizHandler(&review.MockReviewService{}, testLogger())

	body := []byte(`{"started_at": "2026-03-10T09:00:00Z", "items": []}`)
	req := authedRequest(t, http.MethodPost, "/api/quizzes/grade", uuid.New(), body)

	rr := httptest.NewRecorder()
	handler.GradeQuiz(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGradeQuizInvalidAnswerType(t *testing.T) {
	t.Parallel()

	handler := NewQuizHandler(&review.MockReviewService{}, testLogger())

	body := []byte(`{
		"started_at": "2026-03-10T09:00:00Z",
		"items": [
			{"question_id": "q1", "correct_answer": "B", "answer_type": "essay", "user_answer": "B"}
		]
	}`)
	req := authedRequest(t, http.MethodPost, "/api/quizzes/grade", uuid.New(), body)

	rr := httptest.NewRecorder()
	handler.GradeQuiz(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGradeQuizMalformedBody(t *testing.T) {
	t.Parallel()

	handler := NewQuizHandler(&review.MockReviewService{}, testLogger())

	body := []byte(`{not json`)
	req := authedRequest(t, http.MethodPost, "/api/quizzes/grade", uuid.New(), body)

	rr := httptest.NewRecorder()
	handler.GradeQuiz(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGradeQuizUnauthenticated(t *testing.T) {
	t.Parallel()

	handler := NewQuizHandler(&review.MockReviewService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/quizzes/grade", nil)
	rr := httptest.NewRecorder()
	handler.GradeQuiz(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
