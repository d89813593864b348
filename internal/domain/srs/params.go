package srs

import (
	"github.com/mnemolab/mnemo-api/internal/domain"
)

// Params defines all configurable parameters for the scheduling algorithm.
type Params struct {
	// Ease bounds; every adjustment is clamped into [MinEase, MaxEase].
	MinEase float64
	MaxEase float64

	// Ease adjustment per grade.
	EaseDelta map[domain.Grade]float64

	// Fixed intervals (in days) for the first and second successful review.
	FirstIntervals  map[domain.Grade]int
	SecondIntervals map[domain.Grade]int

	// Multipliers used once a card is mature (two or more successful reviews).
	HardMultiplier float64
	EasyBonus      float64
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		MinEase: domain.MinEase,
		MaxEase: domain.MaxEase,

		EaseDelta: map[domain.Grade]float64{
			domain.GradeAgain: -0.20,
			domain.GradeHard:  -0.15,
			domain.GradeGood:  0.0,
			domain.GradeEasy:  0.15,
		},

		FirstIntervals: map[domain.Grade]int{
			domain.GradeHard: 1,
			domain.GradeGood: 1,
			domain.GradeEasy: 4,
		},

		SecondIntervals: map[domain.Grade]int{
			domain.GradeHard: 1,
			domain.GradeGood: 6,
			domain.GradeEasy: 10,
		},

		HardMultiplier: 1.2,
		EasyBonus:      1.3,
	}
}

// ParamsConfig allows overriding individual defaults when constructing Params.
// Zero values leave the corresponding default untouched.
type ParamsConfig struct {
	MinEase float64
	MaxEase float64

	AgainEaseDelta float64
	HardEaseDelta  float64
	EasyEaseDelta  float64

	FirstHardInterval  int
	FirstGoodInterval  int
	FirstEasyInterval  int
	SecondHardInterval int
	SecondGoodInterval int
	SecondEasyInterval int

	HardMultiplier float64
	EasyBonus      float64
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEase > 0 {
		params.MinEase = config.MinEase
	}
	if config.MaxEase > 0 {
		params.MaxEase = config.MaxEase
	}

	if config.AgainEaseDelta != 0 {
		params.EaseDelta[domain.GradeAgain] = config.AgainEaseDelta
	}
	if config.HardEaseDelta != 0 {
		params.EaseDelta[domain.GradeHard] = config.HardEaseDelta
	}
	if config.EasyEaseDelta != 0 {
		params.EaseDelta[domain.GradeEasy] = config.EasyEaseDelta
	}

	if config.FirstHardInterval > 0 {
		params.FirstIntervals[domain.GradeHard] = config.FirstHardInterval
	}
	if config.FirstGoodInterval > 0 {
		params.FirstIntervals[domain.GradeGood] = config.FirstGoodInterval
	}
	if config.FirstEasyInterval > 0 {
		params.FirstIntervals[domain.GradeEasy] = config.FirstEasyInterval
	}
	if config.SecondHardInterval > 0 {
		params.SecondIntervals[domain.GradeHard] = config.SecondHardInterval
	}
	if config.SecondGoodInterval > 0 {
		params.SecondIntervals[domain.GradeGood] = config.SecondGoodInterval
	}
	if config.SecondEasyInterval > 0 {
		params.SecondIntervals[domain.GradeEasy] = config.SecondEasyInterval
	}

	if config.HardMultiplier > 0 {
		params.HardMultiplier = config.HardMultiplier
	}
	if config.EasyBonus > 0 {
		params.EasyBonus = config.EasyBonus
	}

	return params
}
