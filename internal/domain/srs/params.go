package srs

// Params defines all configurable parameters for the review scheduling
// algorithm.
type Params struct {
	// Difficulty bounds. Difficulty is clamped here after every adjustment.
	MinDifficulty float64
	MaxDifficulty float64

	// Difficulty nudges applied after a review. CorrectNudge is only
	// applied when the card has at least one prior review.
	CorrectNudge   float64
	IncorrectNudge float64

	// BaseMultiplier compounds the interval per prior review: a correct
	// answer schedules the card BaseMultiplier^reviewCount * difficulty
	// days out.
	BaseMultiplier float64

	// Interval clamp in days.
	MinIntervalDays int
	MaxIntervalDays int

	// IncorrectIntervalDays is the flat interval after a wrong answer.
	IncorrectIntervalDays int
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		MinDifficulty:         1.0,
		MaxDifficulty:         5.0,
		CorrectNudge:          0.1,
		IncorrectNudge:        -0.5,
		BaseMultiplier:        2.5,
		MinIntervalDays:       1,
		MaxIntervalDays:       365,
		IncorrectIntervalDays: 1,
	}
}
