package srs

import (
	"errors"
	"testing"
	"time"

	"github.com/mnemolab/mnemo-api/internal/domain"
)

func TestServiceReview(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("nil card is rejected", func(t *testing.T) {
		_, err := svc.Review(nil, domain.GradeGood, now)
		if !errors.Is(err, ErrNilCard) {
			t.Errorf("Expected ErrNilCard, got %v", err)
		}
	})

	t.Run("invalid grade is rejected", func(t *testing.T) {
		_, err := svc.Review(newTestCard(t), domain.Grade("perfect"), now)
		if !errors.Is(err, ErrInvalidGrade) {
			t.Errorf("Expected ErrInvalidGrade, got %v", err)
		}
	})

	t.Run("valid review reschedules the card", func(t *testing.T) {
		card := newTestCard(t)
		next, err := svc.Review(card, domain.GradeEasy, now)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if next.IntervalDays != 4 {
			t.Errorf("Expected interval 4, got %d", next.IntervalDays)
		}
		if next.Reps != 1 {
			t.Errorf("Expected reps 1, got %d", next.Reps)
		}
	})
}

func TestServicePostpone(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("invalid day count is rejected", func(t *testing.T) {
		_, err := svc.Postpone(newTestCard(t), 0, now)
		if !errors.Is(err, ErrInvalidDays) {
			t.Errorf("Expected ErrInvalidDays, got %v", err)
		}
	})

	t.Run("scheduled card postpones from its due date", func(t *testing.T) {
		card := newTestCard(t)
		due := now.AddDate(0, 0, 2)
		card.DueAt = &due

		next, err := svc.Postpone(card, 3, now)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		expected := due.AddDate(0, 0, 3)
		if next.DueAt == nil || !next.DueAt.Equal(expected) {
			t.Errorf("Expected due at %v, got %v", expected, next.DueAt)
		}
	})

	t.Run("unscheduled card postpones from now", func(t *testing.T) {
		card := newTestCard(t)

		next, err := svc.Postpone(card, 5, now)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		expected := now.AddDate(0, 0, 5)
		if next.DueAt == nil || !next.DueAt.Equal(expected) {
			t.Errorf("Expected due at %v, got %v", expected, next.DueAt)
		}
	})

	t.Run("memory parameters are untouched", func(t *testing.T) {
		card := newTestCard(t)
		card.Ease = 2.1
		card.IntervalDays = 8
		card.Reps = 3

		next, err := svc.Postpone(card, 2, now)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if next.Ease != 2.1 || next.IntervalDays != 8 || next.Reps != 3 {
			t.Error("Postpone changed memory parameters")
		}
	})
}
