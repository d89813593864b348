package srs

import (
	"math"
	"time"

	"github.com/mnemolab/mnemo-api/internal/domain"
)

// clampEase keeps the ease within the configured bounds after an adjustment.
func clampEase(ease float64, params *Params) float64 {
	if ease < params.MinEase {
		return params.MinEase
	}
	if ease > params.MaxEase {
		return params.MaxEase
	}
	return ease
}

// calculateNewEase applies the per-grade ease adjustment and clamps the
// result. "Again" costs the most (-0.20), "hard" a little less (-0.15),
// "good" leaves ease untouched, and "easy" rewards with +0.15.
func calculateNewEase(currentEase float64, grade domain.Grade, params *Params) float64 {
	return clampEase(currentEase+params.EaseDelta[grade], params)
}

// calculateNewInterval determines the next interval in days.
//
// The algorithm runs in three regimes selected by the card's count of
// successful reviews since the last lapse:
//   - reps == 0: fixed first-review intervals (1/1/4 for hard/good/easy)
//   - reps == 1: fixed second-review intervals (1/6/10)
//   - reps >= 2: multiplicative growth; hard uses a flat 1.2 multiplier
//     (never below one day), good multiplies by the ease, easy adds a
//     further 1.3 bonus on top of the ease
//
// An "again" grade resets the interval to zero in every regime.
func calculateNewInterval(
	currentInterval int,
	reps int,
	ease float64,
	grade domain.Grade,
	params *Params,
) int {
	if grade == domain.GradeAgain {
		return 0
	}

	switch {
	case reps == 0:
		return params.FirstIntervals[grade]
	case reps == 1:
		return params.SecondIntervals[grade]
	}

	switch grade {
	case domain.GradeHard:
		return int(math.Round(math.Max(1, float64(currentInterval)*params.HardMultiplier)))
	case domain.GradeEasy:
		return int(math.Round(float64(currentInterval) * ease * params.EasyBonus))
	default: // good
		return int(math.Round(float64(currentInterval) * ease))
	}
}

// calculateDueAt converts an interval into the next due moment using
// calendar-day arithmetic, so a 1-day interval lands on the same wall-clock
// time tomorrow even across a DST boundary.
func calculateDueAt(interval int, now time.Time) time.Time {
	return now.AddDate(0, 0, interval)
}

// applyGrade computes the card's next memory state for a grade. It never
// mutates the input; callers receive a fresh copy with updated scheduling
// fields and timestamps. Reps reset to zero on every lapse, and the lapse
// counter only ever grows.
func applyGrade(
	card *domain.MemoryCard,
	grade domain.Grade,
	now time.Time,
	params *Params,
) *domain.MemoryCard {
	next := *card

	next.Ease = calculateNewEase(card.Ease, grade, params)
	next.IntervalDays = calculateNewInterval(card.IntervalDays, card.Reps, card.Ease, grade, params)

	if grade == domain.GradeAgain {
		next.Lapses = card.Lapses + 1
		next.Reps = 0
	} else {
		next.Reps = card.Reps + 1
	}

	dueAt := calculateDueAt(next.IntervalDays, now)
	next.DueAt = &dueAt
	next.UpdatedAt = now

	return &next
}
