package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Grade represents the user's self-assessment of a card review.
type Grade string

// Possible grade values.
const (
	GradeAgain Grade = "again"
	GradeHard  Grade = "hard"
	GradeGood  Grade = "good"
	GradeEasy  Grade = "easy"
)

// IsValid reports whether g is one of the four known grades.
func (g Grade) IsValid() bool {
	switch g {
	case GradeAgain, GradeHard, GradeGood, GradeEasy:
		return true
	default:
		return false
	}
}

// Default memory parameters for a card that has never been reviewed.
const (
	DefaultEase = 2.5
	MinEase     = 1.3
	MaxEase     = 2.5
)

// Card-specific validation errors.
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardUserIDEmpty is returned when a card's user ID is empty or nil.
	ErrCardUserIDEmpty = errors.New("card user ID cannot be empty")

	// ErrCardFrontEmpty is returned when a card's front text is empty.
	ErrCardFrontEmpty = errors.New("card front cannot be empty")

	// ErrInvalidEase is returned when a card's ease leaves the [MinEase, MaxEase] range.
	ErrInvalidEase = errors.New("ease must be between 1.3 and 2.5")

	// ErrInvalidInterval is returned when a card's interval is negative.
	ErrInvalidInterval = errors.New("interval must be greater than or equal to 0")

	// ErrInvalidGrade is returned when a grade value is not one of again/hard/good/easy.
	ErrInvalidGrade = errors.New("invalid grade")
)

// MemoryCard is a single learnable fact together with its spaced repetition
// memory state. A nil DueAt means the card is new and due immediately.
// The memory fields (Ease, IntervalDays, DueAt, Reps, Lapses) are mutated
// only by the scheduler; Version guards the read-modify-write cycle against
// concurrent reviews of the same card.
type MemoryCard struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	DeckID       uuid.UUID  `json:"deck_id"`
	Topic        string     `json:"topic,omitempty"`
	Front        string     `json:"front"`
	Back         string     `json:"back"`
	Ease         float64    `json:"ease"`
	IntervalDays int        `json:"interval_days"`
	DueAt        *time.Time `json:"due_at,omitempty"`
	Reps         int        `json:"reps"`
	Lapses       int        `json:"lapses"`
	Version      int64      `json:"version"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewMemoryCard creates a new card for the given user and deck with default
// memory state: full ease, zero interval, no due date (due immediately).
// Returns an error if validation fails.
func NewMemoryCard(userID, deckID uuid.UUID, topic, front, back string) (*MemoryCard, error) {
	now := time.Now().UTC()
	card := &MemoryCard{
		ID:           uuid.New(),
		UserID:       userID,
		DeckID:       deckID,
		Topic:        topic,
		Front:        front,
		Back:         back,
		Ease:         DefaultEase,
		IntervalDays: 0,
		DueAt:        nil,
		Reps:         0,
		Lapses:       0,
		Version:      0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the MemoryCard has valid data.
// Returns an error if any field fails validation.
func (c *MemoryCard) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrCardUserIDEmpty
	}

	if c.Front == "" {
		return ErrCardFrontEmpty
	}

	if c.Ease < MinEase || c.Ease > MaxEase {
		return ErrInvalidEase
	}

	if c.IntervalDays < 0 {
		return ErrInvalidInterval
	}

	return nil
}

// IsDue reports whether the card should be shown at the given moment.
// A card with no due date has never been scheduled and is always due.
func (c *MemoryCard) IsDue(now time.Time) bool {
	return c.DueAt == nil || !c.DueAt.After(now)
}
