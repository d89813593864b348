// Package api provides HTTP handlers for the API.
package api

import (
	"time"

	"github.com/mnemolab/mnemo-api/internal/domain"
	"github.com/mnemolab/mnemo-api/internal/domain/srs"
)

// CardResponse represents the response data for a memory card.
type CardResponse struct {
	ID           string     `json:"id"`
	DeckID       string     `json:"deck_id"`
	Topic        string     `json:"topic,omitempty"`
	Front        string     `json:"front"`
	Back         string     `json:"back"`
	Ease         float64    `json:"ease"`
	IntervalDays int        `json:"interval_days"`
	DueAt        *time.Time `json:"due_at,omitempty"`
	Reps         int        `json:"reps"`
	Lapses       int        `json:"lapses"`
	Stage        string     `json:"stage"`
}

// StreakResponse represents the response data for a user's streak state.
type StreakResponse struct {
	CurrentStreak  int        `json:"current_streak"`
	LongestStreak  int        `json:"longest_streak"`
	LastReviewDate *time.Time `json:"last_review_date,omitempty"`
	TotalReviews   int        `json:"total_reviews"`
	Freezes        int        `json:"freezes"`
	FreezeJustUsed bool       `json:"freeze_just_used"`
}

// ReviewOutcomeResponse bundles the rescheduled card with the streak it moved.
type ReviewOutcomeResponse struct {
	Card   CardResponse   `json:"card"`
	Streak StreakResponse `json:"streak"`
}

// QuizOutcomeResponse is the graded quiz attempt plus the streak it moved.
type QuizOutcomeResponse struct {
	ID               string                             `json:"id"`
	Score            float64                            `json:"score"`
	DurationSeconds  int                                `json:"duration_seconds"`
	Questions        []domain.QuestionResult            `json:"questions"`
	TopicPerformance map[string]domain.TopicPerformance `json:"topic_performance"`
	Streak           StreakResponse                     `json:"streak"`
}

// cardToResponse converts a domain.MemoryCard to a CardResponse.
func cardToResponse(card *domain.MemoryCard) CardResponse {
	return CardResponse{
		ID:           card.ID.String(),
		DeckID:       card.DeckID.String(),
		Topic:        card.Topic,
		Front:        card.Front,
		Back:         card.Back,
		Ease:         card.Ease,
		IntervalDays: card.IntervalDays,
		DueAt:        card.DueAt,
		Reps:         card.Reps,
		Lapses:       card.Lapses,
		Stage:        string(srs.Classify(card)),
	}
}

// streakToResponse converts a domain.StreakState to a StreakResponse.
func streakToResponse(state *domain.StreakState) StreakResponse {
	return StreakResponse{
		CurrentStreak:  state.CurrentStreak,
		LongestStreak:  state.LongestStreak,
		LastReviewDate: state.LastReviewDate,
		TotalReviews:   state.TotalReviews,
		Freezes:        state.Freezes,
		FreezeJustUsed: state.FreezeJustUsed,
	}
}
