package srs

import (
	"math"
	"time"

	"github.com/lusolearn/lusolearn-api/internal/domain"
)

const millisPerDay = int64(24 * time.Hour / time.Millisecond)

// calculateNewInterval determines the interval in days after a review.
//
// A failure always resets the interval. Successes walk the fixed learning
// steps (0 -> FirstInterval -> SecondInterval) and then grow geometrically,
// multiplying by the ease factor the card had before this review.
func calculateNewInterval(currentInterval int, easeFactor float64, success bool, params *Params) int {
	if !success {
		return 0
	}

	switch {
	case currentInterval <= 0:
		return params.FirstInterval
	case currentInterval == params.FirstInterval:
		return params.SecondInterval
	default:
		return int(math.Round(float64(currentInterval) * easeFactor))
	}
}

// calculateNewEaseFactor adjusts the ease factor for the outcome, clamped to
// [MinEaseFactor, MaxEaseFactor].
func calculateNewEaseFactor(currentEF float64, success bool, params *Params) float64 {
	newEF := currentEF - params.FailureEasePenalty
	if success {
		newEF = currentEF + params.SuccessEaseBonus
	}

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}
	if newEF > params.MaxEaseFactor {
		newEF = params.MaxEaseFactor
	}

	return newEF
}

// calculateNextReviewDate returns the epoch-millisecond due time. Failed cards
// come back after the relearn delay, successful ones after interval days.
func calculateNextReviewDate(interval int, success bool, now time.Time, params *Params) int64 {
	if !success {
		return now.Add(params.RelearnDelay).UnixMilli()
	}
	return now.UnixMilli() + int64(interval)*millisPerDay
}

// calculateNextCard creates an updated copy of card; the input is not modified.
func calculateNextCard(card *domain.Card, success bool, now time.Time, params *Params) *domain.Card {
	next := card.Clone()

	next.Interval = calculateNewInterval(card.Interval, card.EaseFactor, success, params)
	next.EaseFactor = calculateNewEaseFactor(card.EaseFactor, success, params)
	next.NextReviewDate = calculateNextReviewDate(next.Interval, success, now, params)

	return next
}
