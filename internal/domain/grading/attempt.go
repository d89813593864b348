package grading

import (
	"time"

	"github.com/google/uuid"

	"github.com/mnemolab/mnemo-api/internal/domain"
)

// DefaultTopic labels questions submitted without a topic.
const DefaultTopic = "general"

// weakAccuracyThreshold marks a topic as weak when its accuracy percentage
// falls below it.
const weakAccuracyThreshold = 70.0

// GradeAttempt grades a full quiz attempt: every item individually, then
// the aggregate score, per-topic performance, and elapsed duration (floored
// to whole seconds). An attempt with no items is a contract violation and
// returns domain.ErrEmptyAttempt.
func GradeAttempt(
	userID uuid.UUID,
	items []domain.QuizItem,
	startedAt time.Time,
	now time.Time,
) (*domain.QuizResult, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyAttempt
	}

	result := &domain.QuizResult{
		ID:               uuid.New(),
		UserID:           userID,
		Questions:        make([]domain.QuestionResult, 0, len(items)),
		TopicPerformance: make(map[string]domain.TopicPerformance),
		CreatedAt:        now,
	}

	correct := 0
	for _, item := range items {
		ok := IsCorrect(item)
		if ok {
			correct++
		}

		result.Questions = append(result.Questions, domain.QuestionResult{
			QuestionID: item.QuestionID,
			IsCorrect:  ok,
			UserAnswer: item.UserAnswer,
		})

		topic := item.Topic
		if topic == "" {
			topic = DefaultTopic
		}
		perf := result.TopicPerformance[topic]
		perf.Total++
		if ok {
			perf.Correct++
		}
		result.TopicPerformance[topic] = perf
	}

	for topic, perf := range result.TopicPerformance {
		perf.Accuracy = float64(perf.Correct) / float64(perf.Total) * 100
		perf.IsWeak = perf.Accuracy < weakAccuracyThreshold
		result.TopicPerformance[topic] = perf
	}

	result.Score = float64(correct) / float64(len(items)) * 100

	if elapsed := now.Sub(startedAt); elapsed > 0 {
		result.DurationSeconds = int(elapsed.Seconds())
	}

	if err := result.Validate(); err != nil {
		return nil, err
	}

	return result, nil
}
