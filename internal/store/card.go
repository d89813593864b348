package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/mnemolab/mnemo-api/internal/domain"
)

// CardStore defines the interface for memory card persistence.
type CardStore interface {
	// Create saves a new card to the store.
	// Returns validation errors if the card data is invalid.
	// Returns ErrDuplicate if a card with the same ID already exists.
	Create(ctx context.Context, card *domain.MemoryCard) error

	// GetByID retrieves a card by its unique ID, including its current
	// version for the optimistic concurrency check on write-back.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MemoryCard, error)

	// ListForReview returns the card pool for a user, optionally scoped to
	// one deck (uuid.Nil means all decks). Due filtering and session
	// ordering happen in memory in the srs package; this only supplies the
	// pool.
	ListForReview(ctx context.Context, userID, deckID uuid.UUID) ([]*domain.MemoryCard, error)

	// UpdateScheduling writes the scheduler-owned fields (ease, interval,
	// due date, reps, lapses) back, guarded by the version the card was
	// read at. Returns ErrConflict if another review won the race since the
	// read, ErrCardNotFound if the card no longer exists. On success the
	// card's Version field is advanced to the stored value.
	UpdateScheduling(ctx context.Context, card *domain.MemoryCard) error

	// UpdateDueAt moves only the due date (postpone), under the same
	// version guard as UpdateScheduling.
	UpdateDueAt(ctx context.Context, card *domain.MemoryCard, dueAt time.Time) error

	// WithTx returns a CardStore bound to the given transaction, so several
	// operations can share one atomic unit managed by the caller.
	WithTx(tx *sql.Tx) CardStore
}

// StreakStore defines the interface for streak state persistence.
type StreakStore interface {
	// Get retrieves the streak state for a user.
	// Returns ErrStreakNotFound if the user has never reviewed; callers
	// treat that as the defined initial condition, not an error.
	Get(ctx context.Context, userID uuid.UUID) (*domain.StreakState, error)

	// Create saves a first streak record for a user.
	// Returns ErrDuplicate if a record already exists.
	Create(ctx context.Context, state *domain.StreakState) error

	// Update writes an updated streak state back, guarded by the version it
	// was read at. Returns ErrConflict on a lost race, ErrStreakNotFound if
	// the record disappeared.
	Update(ctx context.Context, state *domain.StreakState) error

	// WithTx returns a StreakStore bound to the given transaction.
	WithTx(tx *sql.Tx) StreakStore
}

// QuizResultStore defines the interface for graded quiz attempt persistence.
type QuizResultStore interface {
	// Create saves a graded quiz result.
	Create(ctx context.Context, result *domain.QuizResult) error

	// ListByUser returns a user's most recent quiz results, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.QuizResult, error)

	// WithTx returns a QuizResultStore bound to the given transaction.
	WithTx(tx *sql.Tx) QuizResultStore
}
