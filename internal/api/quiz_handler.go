package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mnemolab/mnemo-api/internal/api/shared"
	"github.com/mnemolab/mnemo-api/internal/domain"
	"github.com/mnemolab/mnemo-api/internal/platform/logger"
	"github.com/mnemolab/mnemo-api/internal/redact"
	"github.com/mnemolab/mnemo-api/internal/service/review"
)

// QuizHandler handles quiz grading HTTP requests.
type QuizHandler struct {
	reviewService review.ReviewService
	logger        *slog.Logger
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(reviewService review.ReviewService, logger *slog.Logger) *QuizHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for QuizHandler")
	}

	return &QuizHandler{
		reviewService: reviewService,
		logger:        logger.With(slog.String("component", "quiz_handler")),
	}
}

// QuizItemRequest is one question of a quiz submission.
type QuizItemRequest struct {
	QuestionID    string `json:"question_id" validate:"required"`
	CorrectAnswer string `json:"correct_answer" validate:"required"`
	AnswerType    string `json:"answer_type" validate:"required,oneof=mcq free_text"`
	UserAnswer    string `json:"user_answer"`
	Topic         string `json:"topic"`
}

// GradeQuizRequest represents the request body for grading a quiz attempt.
type GradeQuizRequest struct {
	StartedAt time.Time         `json:"started_at" validate:"required"`
	Items     []QuizItemRequest `json:"items" validate:"required,min=1,dive"`
}

// GradeQuiz handles POST /quizzes/grade requests.
// It grades the full attempt, persists the result, and moves the streak
// once for the submission.
func (h *QuizHandler) GradeQuiz(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := authenticatedUserID(w, r, log)
	if !ok {
		return
	}

	var req GradeQuizRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error",
			slog.String("error", redact.Error(err)),
			slog.String("user_id", userID.String()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	items := make([]domain.QuizItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.QuizItem{
			QuestionID:    item.QuestionID,
			CorrectAnswer: item.CorrectAnswer,
			AnswerType:    domain.AnswerType(item.AnswerType),
			UserAnswer:    item.UserAnswer,
			Topic:         item.Topic,
		})
	}

	outcome, err := h.reviewService.SubmitQuiz(r.Context(), userID, review.QuizAttempt{
		StartedAt: req.StartedAt,
		Items:     items,
	})
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to grade quiz"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("quiz graded",
		slog.String("user_id", userID.String()),
		slog.String("quiz_result_id", outcome.Result.ID.String()),
		slog.Float64("score", outcome.Result.Score))
	shared.RespondWithJSON(w, r, http.StatusOK, QuizOutcomeResponse{
		ID:               outcome.Result.ID.String(),
		Score:            outcome.Result.Score,
		DurationSeconds:  outcome.Result.DurationSeconds,
		Questions:        outcome.Result.Questions,
		TopicPerformance: outcome.Result.TopicPerformance,
		Streak:           streakToResponse(outcome.Streak),
	})
}
