// Package srs implements the spaced-repetition scheduling algorithm used by
// the flashcard service. Each successive correct review multiplies the
// interval by a base factor and scales it by the card's difficulty; a wrong
// answer resets the interval to one day and makes the card easier to
// encounter again.
package srs

import (
	"math"
	"time"
)

// adjustDifficulty returns the card's difficulty after a review.
//
// A correct answer after at least one prior review nudges difficulty up by
// params.CorrectNudge; a correct first-ever review leaves it unchanged. An
// incorrect answer nudges it down by params.IncorrectNudge. The result is
// rounded to one decimal and clamped to [MinDifficulty, MaxDifficulty].
func adjustDifficulty(current float64, correct bool, priorReviews int, params *Params) float64 {
	next := current
	switch {
	case correct && priorReviews > 0:
		next = roundTenth(current + params.CorrectNudge)
	case !correct:
		next = roundTenth(current + params.IncorrectNudge)
	}

	if next < params.MinDifficulty {
		next = params.MinDifficulty
	}
	if next > params.MaxDifficulty {
		next = params.MaxDifficulty
	}
	return next
}

// nextIntervalDays returns the number of days until the next review.
//
// An incorrect answer schedules the card IncorrectIntervalDays out. A correct
// answer schedules it round(BaseMultiplier^priorReviews * difficulty) days
// out, clamped to [MinIntervalDays, MaxIntervalDays]. Both priorReviews and
// difficulty are the values from before this review was applied.
func nextIntervalDays(priorReviews int, difficulty float64, correct bool, params *Params) int {
	if !correct {
		return params.IncorrectIntervalDays
	}

	base := math.Pow(params.BaseMultiplier, float64(priorReviews)) * difficulty
	days := int(math.Round(base))

	if days < params.MinIntervalDays {
		days = params.MinIntervalDays
	}
	if days > params.MaxIntervalDays {
		days = params.MaxIntervalDays
	}
	return days
}

// nextReviewAt converts an interval in days into the next review timestamp.
func nextReviewAt(now time.Time, intervalDays int) time.Time {
	return now.AddDate(0, 0, intervalDays)
}

// roundTenth rounds to one decimal place.
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
