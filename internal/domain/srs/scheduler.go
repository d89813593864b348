package srs

import (
	"sort"
	"time"

	"github.com/mnemolab/mnemo-api/internal/domain"
)

// Stage classifies how far along a card is in the learning lifecycle.
// It is a derived view over the memory state, never stored.
type Stage string

// Lifecycle stages. A card graduates from review to mastered once it has
// at least five successful reviews and a month-or-longer interval.
const (
	StageNew      Stage = "new"
	StageLearning Stage = "learning"
	StageReview   Stage = "review"
	StageMastered Stage = "mastered"
)

const (
	masteredMinReps     = 5
	masteredMinInterval = 30
)

// Classify returns the lifecycle stage for a card.
func Classify(card *domain.MemoryCard) Stage {
	switch {
	case card.Reps == 0:
		return StageNew
	case card.Reps < masteredMinReps:
		return StageLearning
	case card.IntervalDays < masteredMinInterval:
		return StageReview
	default:
		return StageMastered
	}
}

// ProgressSummary counts cards per lifecycle stage for dashboard views.
type ProgressSummary struct {
	New      int `json:"new"`
	Learning int `json:"learning"`
	Review   int `json:"review"`
	Mastered int `json:"mastered"`
	Total    int `json:"total"`
}

// Summarize classifies every card in the set and tallies the stages.
func Summarize(cards []*domain.MemoryCard) ProgressSummary {
	var summary ProgressSummary
	for _, card := range cards {
		switch Classify(card) {
		case StageNew:
			summary.New++
		case StageLearning:
			summary.Learning++
		case StageReview:
			summary.Review++
		case StageMastered:
			summary.Mastered++
		}
		summary.Total++
	}
	return summary
}

// DueCards filters the pool down to cards due at the given moment,
// optionally restricted to one topic, ordered for a study session:
// never-scheduled cards first, then by due date ascending.
func DueCards(pool []*domain.MemoryCard, topic string, now time.Time) []*domain.MemoryCard {
	due := make([]*domain.MemoryCard, 0, len(pool))
	for _, card := range pool {
		if topic != "" && card.Topic != topic {
			continue
		}
		if card.IsDue(now) {
			due = append(due, card)
		}
	}

	sort.SliceStable(due, func(i, j int) bool {
		a, b := due[i].DueAt, due[j].DueAt
		switch {
		case a == nil && b == nil:
			return false
		case a == nil:
			return true
		case b == nil:
			return false
		default:
			return a.Before(*b)
		}
	})

	return due
}
