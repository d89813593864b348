package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mnemolab/mnemo-api/internal/domain"
	"github.com/mnemolab/mnemo-api/internal/domain/grading"
	"github.com/mnemolab/mnemo-api/internal/domain/srs"
	"github.com/mnemolab/mnemo-api/internal/domain/streak"
	"github.com/mnemolab/mnemo-api/internal/platform/logger"
	"github.com/mnemolab/mnemo-api/internal/store"
)

// Verify interface compliance at compile time
var _ ReviewService = (*reviewServiceImpl)(nil)

// reviewServiceImpl implements the ReviewService interface.
type reviewServiceImpl struct {
	txRunner    store.TxRunner
	cardStore   store.CardStore
	streakStore store.StreakStore
	quizStore   store.QuizResultStore
	scheduler   srs.Service
	tracker     streak.Tracker
	logger      *slog.Logger
	nowFn       func() time.Time // Injectable for testing
}

// NewReviewService creates a new ReviewService implementation.
func NewReviewService(
	txRunner store.TxRunner,
	cardStore store.CardStore,
	streakStore store.StreakStore,
	quizStore store.QuizResultStore,
	scheduler srs.Service,
	tracker streak.Tracker,
	logger *slog.Logger,
) ReviewService {
	if txRunner == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("txRunner cannot be nil")
	}
	if cardStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("cardStore cannot be nil")
	}
	if streakStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("streakStore cannot be nil")
	}
	if quizStore == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("quizStore cannot be nil")
	}
	if scheduler == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("scheduler cannot be nil")
	}
	if tracker == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("tracker cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &reviewServiceImpl{
		txRunner:    txRunner,
		cardStore:   cardStore,
		streakStore: streakStore,
		quizStore:   quizStore,
		scheduler:   scheduler,
		tracker:     tracker,
		logger:      logger.With(slog.String("component", "review_service")),
		nowFn:       time.Now,
	}
}

// DueCards implements ReviewService.DueCards.
func (s *reviewServiceImpl) DueCards(
	ctx context.Context,
	userID, deckID uuid.UUID,
	topic string,
) ([]*domain.MemoryCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	pool, err := s.cardStore.ListForReview(ctx, userID, deckID)
	if err != nil {
		log.Error("failed to load card pool",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, newServiceError("due_cards", "failed to load card pool", err)
	}

	due := srs.DueCards(pool, topic, s.nowFn())
	if len(due) == 0 {
		log.Debug("no cards due for review",
			slog.String("user_id", userID.String()),
			slog.String("topic", topic))
		return nil, ErrNoCardsDue
	}

	log.Debug("selected due cards",
		slog.String("user_id", userID.String()),
		slog.Int("pool_size", len(pool)),
		slog.Int("due_count", len(due)))
	return due, nil
}

// SubmitReview implements ReviewService.SubmitReview.
func (s *reviewServiceImpl) SubmitReview(
	ctx context.Context,
	userID, cardID uuid.UUID,
	grade domain.Grade,
) (*ReviewOutcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("processing review",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("grade", string(grade)))

	if !grade.IsValid() {
		log.Warn("invalid review grade",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("grade", string(grade)))
		return nil, ErrInvalidGrade
	}

	now := s.nowFn()
	var outcome *ReviewOutcome

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cardStore.WithTx(tx)

		card, err := s.getOwnedCard(ctx, cards, userID, cardID)
		if err != nil {
			return err
		}

		next, err := s.scheduler.Review(card, grade, now)
		if err != nil {
			return newServiceError("submit_review", "failed to compute next memory state", err)
		}

		if err := cards.UpdateScheduling(ctx, next); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrReviewConflict
			}
			return newServiceError("submit_review", "failed to write scheduling update", err)
		}

		state, err := s.advanceStreak(ctx, tx, userID, now)
		if err != nil {
			return err
		}

		outcome = &ReviewOutcome{Card: next, Streak: state}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug("review processed",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("interval_days", outcome.Card.IntervalDays),
		slog.Int("current_streak", outcome.Streak.CurrentStreak))
	return outcome, nil
}

// Postpone implements ReviewService.Postpone.
func (s *reviewServiceImpl) Postpone(
	ctx context.Context,
	userID, cardID uuid.UUID,
	days int,
) (*domain.MemoryCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if days < 1 {
		return nil, ErrInvalidPostpone
	}

	now := s.nowFn()
	var postponed *domain.MemoryCard

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cardStore.WithTx(tx)

		card, err := s.getOwnedCard(ctx, cards, userID, cardID)
		if err != nil {
			return err
		}

		next, err := s.scheduler.Postpone(card, days, now)
		if err != nil {
			return newServiceError("postpone", "failed to compute new due date", err)
		}

		if err := cards.UpdateDueAt(ctx, card, *next.DueAt); err != nil {
			if errors.Is(err, store.ErrConflict) {
				return ErrReviewConflict
			}
			return newServiceError("postpone", "failed to write new due date", err)
		}

		postponed = card
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug("card postponed",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("days", days))
	return postponed, nil
}

// SubmitQuiz implements ReviewService.SubmitQuiz.
func (s *reviewServiceImpl) SubmitQuiz(
	ctx context.Context,
	userID uuid.UUID,
	attempt QuizAttempt,
) (*QuizOutcome, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	now := s.nowFn()

	result, err := grading.GradeAttempt(userID, attempt.Items, attempt.StartedAt, now)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyAttempt) {
			log.Warn("empty quiz attempt", slog.String("user_id", userID.String()))
			return nil, ErrEmptyAttempt
		}
		return nil, newServiceError("submit_quiz", "failed to grade attempt", err)
	}

	var outcome *QuizOutcome

	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.quizStore.WithTx(tx).Create(ctx, result); err != nil {
			return newServiceError("submit_quiz", "failed to persist quiz result", err)
		}

		// One attempt counts once toward the streak, however many questions
		// it carried.
		state, err := s.advanceStreak(ctx, tx, userID, now)
		if err != nil {
			return err
		}

		outcome = &QuizOutcome{Result: result, Streak: state}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Debug("quiz graded",
		slog.String("user_id", userID.String()),
		slog.String("quiz_result_id", result.ID.String()),
		slog.Float64("score", result.Score),
		slog.Int("questions", len(result.Questions)))
	return outcome, nil
}

// Streak implements ReviewService.Streak.
func (s *reviewServiceImpl) Streak(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.StreakState, error) {
	state, err := s.streakStore.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrStreakNotFound) {
			return domain.NewStreakState(userID)
		}
		return nil, newServiceError("streak", "failed to load streak state", err)
	}
	return state, nil
}

// Progress implements ReviewService.Progress.
func (s *reviewServiceImpl) Progress(
	ctx context.Context,
	userID, deckID uuid.UUID,
) (*srs.ProgressSummary, error) {
	pool, err := s.cardStore.ListForReview(ctx, userID, deckID)
	if err != nil {
		return nil, newServiceError("progress", "failed to load card pool", err)
	}

	summary := srs.Summarize(pool)
	return &summary, nil
}

// getOwnedCard loads a card within the transaction and enforces ownership.
func (s *reviewServiceImpl) getOwnedCard(
	ctx context.Context,
	cards store.CardStore,
	userID, cardID uuid.UUID,
) (*domain.MemoryCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := cards.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			log.Warn("card not found for review",
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()))
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	if card.UserID != userID {
		log.Warn("user does not own card",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("owner_id", card.UserID.String()))
		return nil, ErrCardNotOwned
	}

	return card, nil
}

// advanceStreak moves the user's streak for one review-triggering action
// within the transaction, creating the record on first contact.
func (s *reviewServiceImpl) advanceStreak(
	ctx context.Context,
	tx *sql.Tx,
	userID uuid.UUID,
	now time.Time,
) (*domain.StreakState, error) {
	streaks := s.streakStore.WithTx(tx)

	created := false
	state, err := streaks.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrStreakNotFound) {
			return nil, newServiceError("advance_streak", "failed to load streak state", err)
		}
		state, err = domain.NewStreakState(userID)
		if err != nil {
			return nil, newServiceError("advance_streak", "failed to initialize streak state", err)
		}
		created = true
	}

	next, err := s.tracker.RecordReview(state, now)
	if err != nil {
		return nil, newServiceError("advance_streak", "failed to advance streak", err)
	}

	if created {
		if err := streaks.Create(ctx, next); err != nil {
			return nil, newServiceError("advance_streak", "failed to create streak record", err)
		}
		return next, nil
	}

	if err := streaks.Update(ctx, next); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrReviewConflict
		}
		return nil, newServiceError("advance_streak", "failed to update streak record", err)
	}

	return next, nil
}
