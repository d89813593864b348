// Package streak implements the daily study continuity tracker: consecutive
// day counting, the longest-streak record, and the freeze grace mechanism.
package streak

import (
	"errors"
	"time"

	"github.com/mnemolab/mnemo-api/internal/domain"
)

// Common errors
var ErrNilState = errors.New("streak state cannot be nil")

// freezeAwardInterval is the streak length multiple that earns a freeze.
const freezeAwardInterval = 7

// Tracker defines the interface for streak updates. The caller supplies
// "today" explicitly; the tracker never reads the wall clock.
type Tracker interface {
	// RecordReview computes the streak state after one review-triggering
	// action on the given day. It is called once per action, not once per
	// card. The input state is never mutated.
	RecordReview(state *domain.StreakState, today time.Time) (*domain.StreakState, error)
}

// defaultTracker is the standard implementation of the Tracker interface.
type defaultTracker struct{}

// NewTracker creates the standard streak tracker.
func NewTracker() Tracker {
	return defaultTracker{}
}

// RecordReview implements Tracker.RecordReview.
func (defaultTracker) RecordReview(
	state *domain.StreakState,
	today time.Time,
) (*domain.StreakState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	return advance(state, today), nil
}

// advance runs the streak state machine for one review-triggering action.
//
// Transitions, keyed by the relation between the last review date and today:
//  1. no prior review: the streak starts at one
//  2. same day: only the review counter moves; a second session on the
//     same day never double-counts
//  3. exactly one day later: the streak extends
//  4. two or more days later: one banked freeze covers the gap, whatever
//     its length, and the streak extends as if the gap had been a single
//     day; with no freeze left the streak restarts at one
//
// After the transition, a streak that has just reached a positive multiple
// of seven earns one freeze, capped at domain.MaxFreezes.
func advance(state *domain.StreakState, today time.Time) *domain.StreakState {
	next := *state
	next.FreezeJustUsed = false
	next.UpdatedAt = today

	day := dateOf(today)
	extended := false

	switch {
	case state.LastReviewDate == nil:
		next.CurrentStreak = 1
		extended = true

	case daysBetween(*state.LastReviewDate, day) == 0:
		next.TotalReviews++
		return &next

	case daysBetween(*state.LastReviewDate, day) == 1:
		next.CurrentStreak = state.CurrentStreak + 1
		extended = true

	default:
		if state.Freezes > 0 {
			next.Freezes = state.Freezes - 1
			next.FreezeJustUsed = true
			next.CurrentStreak = state.CurrentStreak + 1
			extended = true
		} else {
			next.CurrentStreak = 1
		}
	}

	next.LastReviewDate = &day
	next.TotalReviews++
	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}

	// Freeze award, evaluated on the post-transition streak. Only a cycle
	// that moved the streak can award; same-day repeats returned above.
	if extended && next.CurrentStreak%freezeAwardInterval == 0 && next.Freezes < domain.MaxFreezes {
		next.Freezes++
	}

	return &next
}

// dateOf truncates a moment to calendar-day granularity in UTC.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts whole calendar days from a to b.
func daysBetween(a, b time.Time) int {
	return int(dateOf(b).Sub(dateOf(a)).Hours() / 24)
}
