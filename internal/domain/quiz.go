package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// AnswerType distinguishes how a quiz question is answered and therefore
// how strictly it is graded.
type AnswerType string

// Possible answer types. Multiple-choice answers are compared exactly;
// free-text answers go through the fuzzy matching ladder.
const (
	AnswerTypeMultipleChoice AnswerType = "mcq"
	AnswerTypeFreeText       AnswerType = "free_text"
)

// Quiz-specific validation errors.
var (
	// ErrEmptyAttempt is returned when a quiz attempt carries no questions.
	ErrEmptyAttempt = errors.New("quiz attempt must contain at least one question")

	// ErrQuizResultUserIDEmpty is returned when a quiz result's user ID is empty or nil.
	ErrQuizResultUserIDEmpty = errors.New("quiz result user ID cannot be empty")
)

// QuizItem is one question of a quiz attempt: the expected answer, the
// user's submission, and the topic it counts toward. Topic may be empty;
// aggregation files it under a default label.
type QuizItem struct {
	QuestionID    string     `json:"question_id"`
	CorrectAnswer string     `json:"correct_answer"`
	AnswerType    AnswerType `json:"answer_type"`
	UserAnswer    string     `json:"user_answer"`
	Topic         string     `json:"topic,omitempty"`
}

// QuestionResult records the grading verdict for a single question.
type QuestionResult struct {
	QuestionID string `json:"question_id"`
	IsCorrect  bool   `json:"is_correct"`
	UserAnswer string `json:"user_answer"`
}

// TopicPerformance aggregates correctness per topic across an attempt.
// Accuracy is a percentage; IsWeak marks topics below the 70% threshold.
type TopicPerformance struct {
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
	Accuracy float64 `json:"accuracy"`
	IsWeak   bool    `json:"is_weak"`
}

// QuizResult is the graded outcome of a full quiz attempt.
type QuizResult struct {
	ID               uuid.UUID                   `json:"id"`
	UserID           uuid.UUID                   `json:"user_id"`
	Score            float64                     `json:"score"`
	DurationSeconds  int                         `json:"duration_seconds"`
	Questions        []QuestionResult            `json:"questions"`
	TopicPerformance map[string]TopicPerformance `json:"topic_performance"`
	CreatedAt        time.Time                   `json:"created_at"`
}

// Validate checks if the QuizResult has valid data.
func (r *QuizResult) Validate() error {
	if r.UserID == uuid.Nil {
		return ErrQuizResultUserIDEmpty
	}

	if len(r.Questions) == 0 {
		return ErrEmptyAttempt
	}

	return nil
}
