package srs

import (
	"fmt"

	"github.com/studypulse/studypulse/internal/models"
)

// ItemDifficulty classifies how a problem is going for a student.
type ItemDifficulty string

const (
	ItemEasy     ItemDifficulty = "easy"
	ItemMedium   ItemDifficulty = "medium"
	ItemHard     ItemDifficulty = "hard"
	ItemVeryHard ItemDifficulty = "very_hard"
)

// StudyAction is the recommended next step for an item.
type StudyAction string

const (
	ActionContinue           StudyAction = "continue"
	ActionIncreaseFrequency  StudyAction = "increase_frequency"
	ActionReviewFundamentals StudyAction = "review_fundamentals"
	ActionConsiderAdvanced   StudyAction = "consider_advanced"
)

// recentPatternWindow bounds how many trailing records drive the
// pattern-based recommendation.
const recentPatternWindow = 5

// ItemAssessment is the per-item difficulty report.
type ItemAssessment struct {
	Schedule           models.ReviewSchedule `json:"schedule"`
	Level              ItemDifficulty        `json:"level"`
	Action             StudyAction           `json:"action"`
	Accuracy           float64               `json:"accuracy"`
	AveragePerformance float64               `json:"average_performance"`
}

// Accuracy returns the fraction of correct reviews, or 1 when there is
// no history yet (a fresh item is not presumed hard).
func Accuracy(records []models.StudyRecord) float64 {
	if len(records) == 0 {
		return 1
	}
	correct := 0
	for _, r := range records {
		if r.IsCorrect {
			correct++
		}
	}
	return float64(correct) / float64(len(records))
}

// AveragePerformance returns the mean performance score, or 100 with no
// history.
func AveragePerformance(records []models.StudyRecord) float64 {
	if len(records) == 0 {
		return 100
	}
	sum := 0
	for _, r := range records {
		sum += r.PerformanceScore()
	}
	return float64(sum) / float64(len(records))
}

// ClassifyItem buckets an item from ease factor and recent accuracy.
func ClassifyItem(easeFactor, accuracy float64) ItemDifficulty {
	switch {
	case accuracy >= 0.9 && easeFactor >= 2.3:
		return ItemEasy
	case accuracy >= 0.75 && easeFactor >= 2.0:
		return ItemMedium
	case accuracy >= 0.6 && easeFactor >= 1.7:
		return ItemHard
	default:
		return ItemVeryHard
	}
}

// AssessItem produces the difficulty report for one schedule. Records
// should be the recent history for the same (student, problem), newest
// first; the assessment depends only on their contents, not their order
// of retrieval beyond recency.
func AssessItem(schedule models.ReviewSchedule, records []models.StudyRecord) ItemAssessment {
	accuracy := Accuracy(records)
	avgPerf := AveragePerformance(records)

	return ItemAssessment{
		Schedule:           schedule,
		Level:              ClassifyItem(schedule.EaseFactor, accuracy),
		Action:             recommend(schedule, records, avgPerf),
		Accuracy:           accuracy,
		AveragePerformance: avgPerf,
	}
}

func recommend(schedule models.ReviewSchedule, records []models.StudyRecord, avgPerf float64) StudyAction {
	if schedule.ConsecutiveFailures >= failureResetThreshold || avgPerf < 60 {
		return ActionReviewFundamentals
	}
	if incorrectRecentPattern(records) {
		return ActionIncreaseFrequency
	}
	if schedule.Level() == models.LevelAdvanced && schedule.EaseFactor >= 2.3 && avgPerf >= 85 {
		return ActionConsiderAdvanced
	}
	return ActionContinue
}

// incorrectRecentPattern reports whether incorrect answers dominate the
// trailing window of records.
func incorrectRecentPattern(records []models.StudyRecord) bool {
	window := records
	if len(window) > recentPatternWindow {
		window = window[:recentPatternWindow]
	}
	if len(window) == 0 {
		return false
	}
	incorrect := 0
	for _, r := range window {
		switch r.Pattern() {
		case models.PatternSlowIncorrect, models.PatternQuickIncorrect:
			incorrect++
		}
	}
	return incorrect*2 > len(window)
}

// StudentAssessment aggregates item difficulty across a student's active
// schedules. It is recomputable from persisted state alone.
type StudentAssessment struct {
	Counts          map[ItemDifficulty]int `json:"counts"`
	Struggling      int                    `json:"struggling"`
	Recommendations []string               `json:"recommendations,omitempty"`
}

// AssessStudent combines per-item assessments into a student-level view.
// The result is independent of input ordering.
func AssessStudent(items []ItemAssessment) StudentAssessment {
	out := StudentAssessment{Counts: make(map[ItemDifficulty]int)}
	for _, it := range items {
		out.Counts[it.Level]++
		if it.Level == ItemVeryHard || it.Action == ActionReviewFundamentals {
			out.Struggling++
		}
	}
	if out.Struggling > 0 {
		out.Recommendations = append(out.Recommendations,
			fmt.Sprintf("%d items need fundamental review before their next scheduled repetition", out.Struggling))
	}
	if easy := out.Counts[ItemEasy]; len(items) > 0 && easy*2 > len(items) {
		out.Recommendations = append(out.Recommendations,
			"most items are rated easy; consider introducing more advanced material")
	}
	return out
}
