package review

import (
	"context"

	"github.com/google/uuid"
	"github.com/mnemolab/mnemo-api/internal/domain"
	"github.com/mnemolab/mnemo-api/internal/domain/srs"
)

// MockReviewService is a mock implementation of the ReviewService interface
// for testing. This is the single canonical mock implementation to be used
// in all tests.
type MockReviewService struct {
	// Function fields for custom behaviors
	DueCardsFunc     func(ctx context.Context, userID, deckID uuid.UUID, topic string) ([]*domain.MemoryCard, error)
	SubmitReviewFunc func(ctx context.Context, userID, cardID uuid.UUID, grade domain.Grade) (*ReviewOutcome, error)
	PostponeFunc     func(ctx context.Context, userID, cardID uuid.UUID, days int) (*domain.MemoryCard, error)
	SubmitQuizFunc   func(ctx context.Context, userID uuid.UUID, attempt QuizAttempt) (*QuizOutcome, error)
	StreakFunc       func(ctx context.Context, userID uuid.UUID) (*domain.StreakState, error)
	ProgressFunc     func(ctx context.Context, userID, deckID uuid.UUID) (*srs.ProgressSummary, error)

	// Fixed fields for simple cases
	Cards       []*domain.MemoryCard
	Outcome     *ReviewOutcome
	QuizResult  *QuizOutcome
	StreakState *domain.StreakState
	Summary     *srs.ProgressSummary
	Err         error
}

// Ensure MockReviewService implements ReviewService interface
var _ ReviewService = (*MockReviewService)(nil)

// DueCards implements the ReviewService.DueCards method.
func (m *MockReviewService) DueCards(
	ctx context.Context,
	userID, deckID uuid.UUID,
	topic string,
) ([]*domain.MemoryCard, error) {
	if m.DueCardsFunc != nil {
		return m.DueCardsFunc(ctx, userID, deckID, topic)
	}
	return m.Cards, m.Err
}

// SubmitReview implements the ReviewService.SubmitReview method.
func (m *MockReviewService) SubmitReview(
	ctx context.Context,
	userID, cardID uuid.UUID,
	grade domain.Grade,
) (*ReviewOutcome, error) {
	if m.SubmitReviewFunc != nil {
		return m.SubmitReviewFunc(ctx, userID, cardID, grade)
	}
	return m.Outcome, m.Err
}

// Postpone implements the ReviewService.Postpone method.
func (m *MockReviewService) Postpone(
	ctx context.Context,
	userID, cardID uuid.UUID,
	days int,
) (*domain.MemoryCard, error) {
	if m.PostponeFunc != nil {
		return m.PostponeFunc(ctx, userID, cardID, days)
	}
	if m.Outcome != nil {
		return m.Outcome.Card, m.Err
	}
	return nil, m.Err
}

// SubmitQuiz implements the ReviewService.SubmitQuiz method.
func (m *MockReviewService) SubmitQuiz(
	ctx context.Context,
	userID uuid.UUID,
	attempt QuizAttempt,
) (*QuizOutcome, error) {
	if m.SubmitQuizFunc != nil {
		return m.SubmitQuizFunc(ctx, userID, attempt)
	}
	return m.QuizResult, m.Err
}

// Streak implements the ReviewService.Streak method.
func (m *MockReviewService) Streak(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.StreakState, error) {
	if m.StreakFunc != nil {
		return m.StreakFunc(ctx, userID)
	}
	return m.StreakState, m.Err
}

// Progress implements the ReviewService.Progress method.
func (m *MockReviewService) Progress(
	ctx context.Context,
	userID, deckID uuid.UUID,
) (*srs.ProgressSummary, error) {
	if m.ProgressFunc != nil {
		return m.ProgressFunc(ctx, userID, deckID)
	}
	return m.Summary, m.Err
}
