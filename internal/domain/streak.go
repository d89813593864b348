package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MaxFreezes caps the number of grace tokens a user can bank.
const MaxFreezes = 2

// Streak-specific validation errors.
var (
	// ErrStreakUserIDEmpty is returned when a streak's user ID is empty or nil.
	ErrStreakUserIDEmpty = errors.New("streak user ID cannot be empty")

	// ErrInvalidStreakCounts is returned when the longest streak is below the
	// current streak or any counter is negative.
	ErrInvalidStreakCounts = errors.New("streak counters are inconsistent")

	// ErrInvalidFreezes is returned when the freeze balance leaves [0, MaxFreezes].
	ErrInvalidFreezes = errors.New("freeze balance out of range")
)

// StreakState tracks a user's daily study continuity. LastReviewDate carries
// day granularity only; FreezeJustUsed is transient UI signal, true only on
// the update cycle that consumed a freeze, and is not meaningful once
// persisted. Version guards concurrent updates the same way as on cards.
type StreakState struct {
	UserID         uuid.UUID  `json:"user_id"`
	CurrentStreak  int        `json:"current_streak"`
	LongestStreak  int        `json:"longest_streak"`
	LastReviewDate *time.Time `json:"last_review_date,omitempty"`
	TotalReviews   int        `json:"total_reviews"`
	Freezes        int        `json:"freezes"`
	FreezeJustUsed bool       `json:"freeze_just_used"`
	Version        int64      `json:"version"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewStreakState creates an empty streak record for a user who has never
// reviewed. The first tracker update turns it into a one-day streak.
func NewStreakState(userID uuid.UUID) (*StreakState, error) {
	state := &StreakState{
		UserID:    userID,
		UpdatedAt: time.Now().UTC(),
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks if the StreakState has valid data.
// Returns an error if any field fails validation.
func (s *StreakState) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrStreakUserIDEmpty
	}

	if s.CurrentStreak < 0 || s.TotalReviews < 0 || s.LongestStreak < s.CurrentStreak {
		return ErrInvalidStreakCounts
	}

	if s.Freezes < 0 || s.Freezes > MaxFreezes {
		return ErrInvalidFreezes
	}

	return nil
}
