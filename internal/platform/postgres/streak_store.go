package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mnemolab/mnemo-api/internal/domain"
	"github.com/mnemolab/mnemo-api/internal/platform/logger"
	"github.com/mnemolab/mnemo-api/internal/store"
)

// PostgresStreakStore implements the store.StreakStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStreakStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStreakStore creates a new PostgreSQL implementation of the
// StreakStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, a default logger will be used.
func NewPostgresStreakStore(db store.DBTX, logger *slog.Logger) *PostgresStreakStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStreakStore{
		db:     db,
		logger: logger.With(slog.String("component", "streak_store")),
	}
}

// Ensure PostgresStreakStore implements store.StreakStore interface
var _ store.StreakStore = (*PostgresStreakStore)(nil)

// Get implements store.StreakStore.Get.
// Returns store.ErrStreakNotFound if the user has never reviewed.
func (s *PostgresStreakStore) Get(ctx context.Context, userID uuid.UUID) (*domain.StreakState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, current_streak, longest_streak, last_review_date,
			total_reviews, freezes, version, updated_at
		FROM streaks
		WHERE user_id = $1
	`

	var state domain.StreakState
	var lastReview sql.NullTime

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&state.UserID,
		&state.CurrentStreak,
		&state.LongestStreak,
		&lastReview,
		&state.TotalReviews,
		&state.Freezes,
		&state.Version,
		&state.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("streak not found", slog.String("user_id", userID.String()))
			return nil, store.ErrStreakNotFound
		}
		log.Error("failed to get streak",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	if lastReview.Valid {
		t := lastReview.Time.UTC()
		state.LastReviewDate = &t
	}

	return &state, nil
}

// Create implements store.StreakStore.Create.
func (s *PostgresStreakStore) Create(ctx context.Context, state *domain.StreakState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("streak validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", state.UserID.String()))
		return err
	}

	query := `
		INSERT INTO streaks (user_id, current_streak, longest_streak, last_review_date,
			total_reviews, freezes, version, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		state.UserID,
		state.CurrentStreak,
		state.LongestStreak,
		state.LastReviewDate,
		state.TotalReviews,
		state.Freezes,
		state.Version,
		state.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create streak",
			slog.String("error", err.Error()),
			slog.String("user_id", state.UserID.String()))
		return mapWriteError(err, "streak")
	}

	log.Debug("streak created", slog.String("user_id", state.UserID.String()))
	return nil
}

// Update implements store.StreakStore.Update with the same version guard
// as card scheduling updates.
func (s *PostgresStreakStore) Update(ctx context.Context, state *domain.StreakState) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := state.Validate(); err != nil {
		log.Warn("streak validation failed during update",
			slog.String("error", err.Error()),
			slog.String("user_id", state.UserID.String()))
		return err
	}

	query := `
		UPDATE streaks
		SET current_streak = $1, longest_streak = $2, last_review_date = $3,
			total_reviews = $4, freezes = $5, version = version + 1, updated_at = $6
		WHERE user_id = $7 AND version = $8
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		state.CurrentStreak,
		state.LongestStreak,
		state.LastReviewDate,
		state.TotalReviews,
		state.Freezes,
		state.UpdatedAt,
		state.UserID,
		state.Version,
	)
	if err != nil {
		log.Error("failed to update streak",
			slog.String("error", err.Error()),
			slog.String("user_id", state.UserID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("user_id", state.UserID.String()))
		return err
	}

	if rowsAffected == 0 {
		var exists bool
		err = s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM streaks WHERE user_id = $1)`, state.UserID).
			Scan(&exists)
		if err != nil {
			return err
		}
		if !exists {
			log.Debug("streak not found for update",
				slog.String("user_id", state.UserID.String()))
			return store.ErrStreakNotFound
		}
		log.Warn("streak update lost optimistic concurrency race",
			slog.String("user_id", state.UserID.String()))
		return store.ErrConflict
	}

	state.Version++

	log.Debug("streak updated",
		slog.String("user_id", state.UserID.String()),
		slog.Int("current_streak", state.CurrentStreak),
		slog.Int("freezes", state.Freezes))
	return nil
}

// WithTx implements store.StreakStore.WithTx.
func (s *PostgresStreakStore) WithTx(tx *sql.Tx) store.StreakStore {
	return &PostgresStreakStore{
		db:     tx,
		logger: s.logger,
	}
}
