// Package srs implements the spaced-repetition interval calculation and
// difficulty assessment. Everything here is pure and safe for concurrent
// use; all time flows in through arguments.
package srs

import (
	"math"
	"time"

	"github.com/studypulse/studypulse/internal/models"
)

// Calculator tunables. These are fixed policy, not configuration: the
// review experience should be identical for every student.
const (
	hardMultiplier = 1.2
	easyBonus      = 1.3

	againEasePenalty = 0.20
	hardEasePenalty  = 0.15
	easyEaseReward   = 0.15

	// Forced reset after this many consecutive AGAIN feedbacks.
	failureResetThreshold = 3

	// Ease penalty per interval-length of lateness, and its cap. A review
	// finished one full interval late loses 0.05 ease.
	latePenaltyRate = 0.05
	maxLatePenalty  = 0.20
)

// ReviewState is the scheduling state fed into the calculator.
type ReviewState struct {
	IntervalDays        int
	EaseFactor          float64
	ConsecutiveFailures int
	Due                 time.Time
}

// ReviewResult is the next scheduling state.
type ReviewResult struct {
	IntervalDays        int
	EaseFactor          float64
	ConsecutiveFailures int
	NextReviewAt        time.Time
}

// StateOf extracts calculator input from a schedule.
func StateOf(s models.ReviewSchedule) ReviewState {
	return ReviewState{
		IntervalDays:        s.IntervalDays,
		EaseFactor:          s.EaseFactor,
		ConsecutiveFailures: s.ConsecutiveFailures,
		Due:                 s.NextReviewAt,
	}
}

// ShouldResetInterval reports whether accumulated failures force the
// interval back to one day regardless of the next feedback.
func ShouldResetInterval(consecutiveFailures int) bool {
	return consecutiveFailures >= failureResetThreshold
}

// Next computes the interval and ease factor after one review. The
// calculation runs on the effective elapsed time rather than the nominal
// interval, so late reviews do not inflate the next interval, and ease is
// penalized proportionally to lateness.
func Next(state ReviewState, feedback models.ReviewFeedback, now time.Time) ReviewResult {
	effective := effectiveIntervalDays(state, now)
	ease := nextEase(state, feedback, now)

	var interval int
	switch {
	case ShouldResetInterval(state.ConsecutiveFailures):
		interval = models.MinIntervalDays
	case feedback == models.FeedbackAgain:
		interval = models.MinIntervalDays
	case feedback == models.FeedbackHard:
		interval = grow(state.IntervalDays, effective*hardMultiplier)
	case feedback == models.FeedbackEasy:
		interval = grow(state.IntervalDays, effective*ease*easyBonus)
	default: // good
		interval = grow(state.IntervalDays, effective*ease)
	}

	failures := 0
	if feedback == models.FeedbackAgain {
		failures = state.ConsecutiveFailures + 1
	}

	return ReviewResult{
		IntervalDays:        interval,
		EaseFactor:          ease,
		ConsecutiveFailures: failures,
		NextReviewAt:        now.AddDate(0, 0, interval),
	}
}

// effectiveIntervalDays returns the days actually elapsed since the last
// review when the review is late, otherwise the nominal interval.
func effectiveIntervalDays(state ReviewState, now time.Time) float64 {
	nominal := float64(state.IntervalDays)
	if nominal < float64(models.MinIntervalDays) {
		nominal = float64(models.MinIntervalDays)
	}
	if !state.Due.IsZero() && now.After(state.Due) {
		nominal += now.Sub(state.Due).Hours() / 24
	}
	if nominal > float64(models.MaxIntervalDays) {
		nominal = float64(models.MaxIntervalDays)
	}
	return nominal
}

func nextEase(state ReviewState, feedback models.ReviewFeedback, now time.Time) float64 {
	ease := state.EaseFactor

	switch feedback {
	case models.FeedbackAgain:
		ease -= againEasePenalty
	case models.FeedbackHard:
		ease -= hardEasePenalty
	case models.FeedbackEasy:
		ease += easyEaseReward
		if ease > models.MaxAutoEaseFactor {
			ease = models.MaxAutoEaseFactor
		}
	}

	ease -= latePenalty(state, now)

	// Decrements floor at the operating-band minimum, unless a manual
	// override already put the schedule below it. Failing a review must
	// never raise ease.
	floor := models.MinAutoEaseFactor
	if state.EaseFactor < floor {
		floor = models.MinEaseFactor
	}
	if ease < floor {
		ease = floor
	}
	if ease > state.EaseFactor && feedback != models.FeedbackEasy {
		ease = state.EaseFactor
	}
	if ease > models.MaxEaseFactor {
		ease = models.MaxEaseFactor
	}
	return ease
}

// latePenalty scales with how many interval-lengths late the review is.
func latePenalty(state ReviewState, now time.Time) float64 {
	if state.Due.IsZero() || !now.After(state.Due) || state.IntervalDays < 1 {
		return 0
	}
	lateDays := now.Sub(state.Due).Hours() / 24
	penalty := latePenaltyRate * lateDays / float64(state.IntervalDays)
	if penalty > maxLatePenalty {
		penalty = maxLatePenalty
	}
	return penalty
}

// grow rounds the raised interval and guarantees strict growth over the
// prior interval, clamped to the allowed range.
func grow(prior int, raised float64) int {
	next := int(math.Round(raised))
	if next <= prior {
		next = prior + 1
	}
	if next < models.MinIntervalDays {
		next = models.MinIntervalDays
	}
	if next > models.MaxIntervalDays {
		next = models.MaxIntervalDays
	}
	return next
}
