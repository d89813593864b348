package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mnemolab/mnemo-api/internal/domain"
	"github.com/mnemolab/mnemo-api/internal/platform/logger"
	"github.com/mnemolab/mnemo-api/internal/store"
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

const cardColumns = `id, user_id, deck_id, topic, front, back,
	ease, interval_days, due_at, reps, lapses, version, created_at, updated_at`

// Create implements store.CardStore.Create.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.MemoryCard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.UserID,
		card.DeckID,
		card.Topic,
		card.Front,
		card.Back,
		card.Ease,
		card.IntervalDays,
		card.DueAt,
		card.Reps,
		card.Lapses,
		card.Version,
		card.CreatedAt,
		card.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()),
			slog.String("user_id", card.UserID.String()))
		return mapWriteError(err, "card")
	}

	log.Debug("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("user_id", card.UserID.String()))
	return nil
}

// GetByID implements store.CardStore.GetByID.
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.MemoryCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE id = $1
	`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found", slog.String("card_id", id.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card by ID",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, err
	}

	return card, nil
}

// ListForReview implements store.CardStore.ListForReview.
// A nil deck ID returns cards across all of the user's decks.
func (s *PostgresCardStore) ListForReview(
	ctx context.Context,
	userID, deckID uuid.UUID,
) ([]*domain.MemoryCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE user_id = $1 AND ($2::uuid = '00000000-0000-0000-0000-000000000000' OR deck_id = $2)
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query, userID, deckID)
	if err != nil {
		log.Error("failed to list cards for review",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var cards []*domain.MemoryCard
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row", slog.String("error", err.Error()))
			return nil, err
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if cards == nil {
		cards = []*domain.MemoryCard{}
	}

	log.Debug("listed cards for review",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(cards)))
	return cards, nil
}

// UpdateScheduling implements store.CardStore.UpdateScheduling. The update
// only lands if the row still carries the version the card was read at;
// otherwise the race is reported as store.ErrConflict.
func (s *PostgresCardStore) UpdateScheduling(ctx context.Context, card *domain.MemoryCard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during scheduling update",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query := `
		UPDATE cards
		SET ease = $1, interval_days = $2, due_at = $3, reps = $4, lapses = $5,
			version = version + 1, updated_at = $6
		WHERE id = $7 AND version = $8
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		card.Ease,
		card.IntervalDays,
		card.DueAt,
		card.Reps,
		card.Lapses,
		card.UpdatedAt,
		card.ID,
		card.Version,
	)
	if err != nil {
		log.Error("failed to update card scheduling",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	if err := s.checkVersionedUpdate(ctx, result, card.ID, log); err != nil {
		return err
	}

	card.Version++

	log.Debug("card scheduling updated",
		slog.String("card_id", card.ID.String()),
		slog.Int("interval_days", card.IntervalDays),
		slog.Float64("ease", card.Ease))
	return nil
}

// UpdateDueAt implements store.CardStore.UpdateDueAt.
func (s *PostgresCardStore) UpdateDueAt(
	ctx context.Context,
	card *domain.MemoryCard,
	dueAt time.Time,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE cards
		SET due_at = $1, version = version + 1, updated_at = $2
		WHERE id = $3 AND version = $4
	`

	result, err := s.db.ExecContext(ctx, query, dueAt, time.Now().UTC(), card.ID, card.Version)
	if err != nil {
		log.Error("failed to update card due date",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	if err := s.checkVersionedUpdate(ctx, result, card.ID, log); err != nil {
		return err
	}

	card.DueAt = &dueAt
	card.Version++
	return nil
}

// checkVersionedUpdate distinguishes a lost optimistic race from a missing
// row when a version-guarded UPDATE touched nothing.
func (s *PostgresCardStore) checkVersionedUpdate(
	ctx context.Context,
	result sql.Result,
	id uuid.UUID,
	log *slog.Logger,
) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return err
	}

	if rowsAffected > 0 {
		return nil
	}

	var exists bool
	err = s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM cards WHERE id = $1)`, id).
		Scan(&exists)
	if err != nil {
		return err
	}

	if !exists {
		log.Debug("card not found for update", slog.String("card_id", id.String()))
		return store.ErrCardNotFound
	}

	log.Warn("card update lost optimistic concurrency race",
		slog.String("card_id", id.String()))
	return store.ErrConflict
}

// WithTx implements store.CardStore.WithTx.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.MemoryCard, error) {
	var card domain.MemoryCard
	var dueAt sql.NullTime

	err := row.Scan(
		&card.ID,
		&card.UserID,
		&card.DeckID,
		&card.Topic,
		&card.Front,
		&card.Back,
		&card.Ease,
		&card.IntervalDays,
		&dueAt,
		&card.Reps,
		&card.Lapses,
		&card.Version,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if dueAt.Valid {
		t := dueAt.Time
		card.DueAt = &t
	}

	return &card, nil
}
