package models

import "fmt"

// ReviewFeedback is the student's self-assessment after a review.
type ReviewFeedback string

const (
	FeedbackAgain ReviewFeedback = "again"
	FeedbackHard  ReviewFeedback = "hard"
	FeedbackGood  ReviewFeedback = "good"
	FeedbackEasy  ReviewFeedback = "easy"
)

// ParseReviewFeedback converts a raw string into a ReviewFeedback value.
func ParseReviewFeedback(s string) (ReviewFeedback, error) {
	switch ReviewFeedback(s) {
	case FeedbackAgain, FeedbackHard, FeedbackGood, FeedbackEasy:
		return ReviewFeedback(s), nil
	}
	return "", fmt.Errorf("unknown review feedback %q", s)
}

// Valid reports whether the feedback is one of the four known values.
func (f ReviewFeedback) Valid() bool {
	switch f {
	case FeedbackAgain, FeedbackHard, FeedbackGood, FeedbackEasy:
		return true
	}
	return false
}

// IsCorrect reports whether the feedback counts as a successful recall.
// Hard still means the student produced the answer.
func (f ReviewFeedback) IsCorrect() bool {
	return f != FeedbackAgain
}

func (f ReviewFeedback) String() string {
	return string(f)
}
