package models

import "time"

// StudyPattern is the quick/slow x correct/incorrect classification of a
// single review event, derived on read.
type StudyPattern string

const (
	PatternQuickCorrect   StudyPattern = "quick_correct"
	PatternQuickIncorrect StudyPattern = "quick_incorrect"
	PatternSlowCorrect    StudyPattern = "slow_correct"
	PatternSlowIncorrect  StudyPattern = "slow_incorrect"
)

// slowResponseMs is the response-time threshold separating quick from
// slow answers.
const slowResponseMs = 30000

// StudyRecord is the immutable audit record of one completed review.
// Records are created only by the projector and never updated, except
// for bulk anonymization when the owning schedule is hard-deleted.
type StudyRecord struct {
	ID             int64          `json:"id"`
	EventID        string         `json:"event_id"`
	StudentID      int64          `json:"student_id"`
	ProblemID      int64          `json:"problem_id"`
	Feedback       ReviewFeedback `json:"feedback"`
	IsCorrect      bool           `json:"is_correct"`
	ResponseTimeMs *int64         `json:"response_time_ms,omitempty"`
	AnswerContent  string         `json:"answer_content,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// PerformanceScore maps the review outcome to a 0-100 score. Slow but
// correct answers are docked slightly so hesitant recall reads below
// confident recall.
func (r StudyRecord) PerformanceScore() int {
	var score int
	switch r.Feedback {
	case FeedbackEasy:
		score = 100
	case FeedbackGood:
		score = 80
	case FeedbackHard:
		score = 60
	default:
		score = 25
	}
	if r.IsCorrect && r.ResponseTimeMs != nil && *r.ResponseTimeMs > slowResponseMs {
		score -= 10
	}
	if score < 0 {
		score = 0
	}
	return score
}

// Pattern classifies the record by speed and correctness. Records with
// no timing data are treated as quick.
func (r StudyRecord) Pattern() StudyPattern {
	slow := r.ResponseTimeMs != nil && *r.ResponseTimeMs > slowResponseMs
	switch {
	case slow && r.IsCorrect:
		return PatternSlowCorrect
	case slow:
		return PatternSlowIncorrect
	case r.IsCorrect:
		return PatternQuickCorrect
	default:
		return PatternQuickIncorrect
	}
}
