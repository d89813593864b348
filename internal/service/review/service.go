// Package review orchestrates study sessions: it pulls due cards, runs
// graded answers through the scheduler, grades quiz attempts, and keeps the
// daily streak in step, all within store transactions.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mnemolab/mnemo-api/internal/domain"
	"github.com/mnemolab/mnemo-api/internal/domain/srs"
)

// QuizAttempt is a user's full quiz submission awaiting grading.
type QuizAttempt struct {
	StartedAt time.Time         `json:"started_at"`
	Items     []domain.QuizItem `json:"items"`
}

// ReviewOutcome bundles the rescheduled card with the streak state the
// review produced.
type ReviewOutcome struct {
	Card   *domain.MemoryCard  `json:"card"`
	Streak *domain.StreakState `json:"streak"`
}

// QuizOutcome bundles the graded quiz result with the streak state the
// submission produced.
type QuizOutcome struct {
	Result *domain.QuizResult  `json:"result"`
	Streak *domain.StreakState `json:"streak"`
}

// ReviewService provides the study session operations.
type ReviewService interface {
	// DueCards returns the cards due for review right now, optionally
	// scoped to one deck (uuid.Nil means all decks) and one topic (empty
	// string means all topics), in session order.
	// Returns ErrNoCardsDue when nothing is due.
	DueCards(
		ctx context.Context,
		userID, deckID uuid.UUID,
		topic string,
	) ([]*domain.MemoryCard, error)

	// SubmitReview applies a graded answer to a card: the scheduler
	// computes the next memory state, the card is written back under its
	// version guard, and the streak advances, all in one transaction.
	// Returns ErrCardNotFound, ErrCardNotOwned, ErrInvalidGrade, or
	// ErrReviewConflict when a concurrent review won the write race.
	SubmitReview(
		ctx context.Context,
		userID, cardID uuid.UUID,
		grade domain.Grade,
	) (*ReviewOutcome, error)

	// Postpone pushes a card's due date forward by the given number of days
	// without touching its memory parameters.
	Postpone(
		ctx context.Context,
		userID, cardID uuid.UUID,
		days int,
	) (*domain.MemoryCard, error)

	// SubmitQuiz grades a full quiz attempt, persists the result, and
	// advances the streak once for the whole attempt.
	// Returns ErrEmptyAttempt when the attempt has no items.
	SubmitQuiz(ctx context.Context, userID uuid.UUID, attempt QuizAttempt) (*QuizOutcome, error)

	// Streak returns the user's current streak state. A user who has never
	// reviewed gets the empty initial state, not an error.
	Streak(ctx context.Context, userID uuid.UUID) (*domain.StreakState, error)

	// Progress tallies the user's cards per lifecycle stage, optionally
	// scoped to one deck (uuid.Nil means all decks).
	Progress(ctx context.Context, userID, deckID uuid.UUID) (*srs.ProgressSummary, error)
}

// Common error types for ReviewService
var (
	// ErrNoCardsDue indicates that the user has no cards due for review.
	ErrNoCardsDue = errors.New("no cards due for review")

	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardNotOwned indicates that the user does not own the card.
	ErrCardNotOwned = errors.New("unauthorized access: card not owned by user")

	// ErrInvalidGrade indicates an invalid review grade was provided.
	ErrInvalidGrade = errors.New("invalid review grade")

	// ErrInvalidPostpone indicates an invalid postpone day count.
	ErrInvalidPostpone = errors.New("postpone days must be at least 1")

	// ErrReviewConflict indicates a concurrent update won the write race;
	// the client can safely retry.
	ErrReviewConflict = errors.New("card was modified concurrently")

	// ErrEmptyAttempt mirrors the domain contract violation for quiz
	// attempts without questions.
	ErrEmptyAttempt = domain.ErrEmptyAttempt
)

// ServiceError wraps errors from the review service with additional context,
// so consumers can differentiate failures with errors.As instead of string
// matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "submit_review")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// newServiceError returns a ServiceError for the given operation.
func newServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
