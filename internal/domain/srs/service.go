package srs

import (
	"errors"
	"time"

	"github.com/mnemolab/mnemo-api/internal/domain"
)

// Common errors
var (
	ErrNilCard      = errors.New("memory card cannot be nil")
	ErrInvalidGrade = errors.New("invalid grade")
	ErrInvalidDays  = errors.New("postpone days must be at least 1")
)

// Service defines the interface for scheduling operations. Every method
// takes the current moment explicitly so behavior is deterministic and
// testable; nothing here reads the wall clock.
type Service interface {
	// Review computes the card's next memory state for a grade.
	// The input card is never mutated.
	Review(card *domain.MemoryCard, grade domain.Grade, now time.Time) (*domain.MemoryCard, error)

	// Postpone pushes the card's due date forward by a number of days
	// without touching its memory parameters.
	Postpone(card *domain.MemoryCard, days int, now time.Time) (*domain.MemoryCard, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// Review implements Service.Review.
func (s *defaultService) Review(
	card *domain.MemoryCard,
	grade domain.Grade,
	now time.Time,
) (*domain.MemoryCard, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	if !grade.IsValid() {
		return nil, ErrInvalidGrade
	}

	return applyGrade(card, grade, now, s.params), nil
}

// Postpone implements Service.Postpone.
func (s *defaultService) Postpone(
	card *domain.MemoryCard,
	days int,
	now time.Time,
) (*domain.MemoryCard, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	if days < 1 {
		return nil, ErrInvalidDays
	}

	next := *card

	// A new card postpones from now; a scheduled one from its due date.
	base := now
	if card.DueAt != nil {
		base = *card.DueAt
	}
	dueAt := base.AddDate(0, 0, days)
	next.DueAt = &dueAt
	next.UpdatedAt = now

	return &next, nil
}
