package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studypulse/studypulse/internal/models"
	"github.com/studypulse/studypulse/internal/repository"
	"github.com/studypulse/studypulse/internal/repository/sqlite"
	"github.com/studypulse/studypulse/internal/testutil"
)

func insertRecord(t *testing.T, store repository.StudyRecordStore, eventID string, createdAt time.Time, mutate func(*models.StudyRecord)) models.StudyRecord {
	t.Helper()
	rec := models.StudyRecord{
		EventID:       eventID,
		StudentID:     7,
		ProblemID:     42,
		Feedback:      models.FeedbackGood,
		IsCorrect:     true,
		AnswerContent: "e4",
		CreatedAt:     createdAt,
	}
	if mutate != nil {
		mutate(&rec)
	}
	inserted, err := store.Insert(context.Background(), rec)
	require.NoError(t, err)
	require.True(t, inserted)
	return rec
}

func TestStudyRecordRepository_InsertIsIdempotent(t *testing.T) {
	store := sqlite.NewStudyRecordRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	rec := insertRecord(t, store, "ev-1", repoNow, nil)

	// Redelivery of the same event is absorbed silently.
	inserted, err := store.Insert(ctx, rec)
	require.NoError(t, err)
	assert.False(t, inserted)

	got, err := store.FindByStudent(ctx, 7, 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestStudyRecordRepository_FindByStudentAndProblem(t *testing.T) {
	store := sqlite.NewStudyRecordRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	insertRecord(t, store, "ev-1", repoNow.Add(-2*time.Hour), nil)
	insertRecord(t, store, "ev-2", repoNow.Add(-time.Hour), func(r *models.StudyRecord) {
		r.Feedback = models.FeedbackAgain
		r.IsCorrect = false
	})
	insertRecord(t, store, "ev-3", repoNow, func(r *models.StudyRecord) {
		r.ProblemID = 99
	})

	got, err := store.FindByStudentAndProblem(ctx, 7, 42, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ev-2", got[0].EventID, "newest first")
	assert.False(t, got[0].IsCorrect)
	assert.Equal(t, "ev-1", got[1].EventID)

	limited, err := store.FindByStudentAndProblem(ctx, 7, 42, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestStudyRecordRepository_CountByStudentSince(t *testing.T) {
	store := sqlite.NewStudyRecordRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	insertRecord(t, store, "ev-1", repoNow.AddDate(0, 0, -2), nil)
	insertRecord(t, store, "ev-2", repoNow.Add(-time.Hour), nil)
	insertRecord(t, store, "ev-3", repoNow, nil)

	n, err := store.CountByStudentSince(ctx, 7, repoNow.Add(-2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStudyRecordRepository_ReviewDays(t *testing.T) {
	store := sqlite.NewStudyRecordRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	insertRecord(t, store, "ev-1", repoNow, nil)
	insertRecord(t, store, "ev-2", repoNow.Add(-time.Hour), nil)
	insertRecord(t, store, "ev-3", repoNow.AddDate(0, 0, -1), nil)
	insertRecord(t, store, "ev-4", repoNow.AddDate(0, 0, -4), nil)

	days, err := store.ReviewDays(ctx, 7, repoNow.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-10", "2025-03-09", "2025-03-06"}, days,
		"distinct dates, newest first")
}

func TestStudyRecordRepository_SumResponseTime(t *testing.T) {
	store := sqlite.NewStudyRecordRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	// No records yet: the NULL sum reads as zero.
	total, err := store.SumResponseTime(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	fast := int64(3000)
	slow := int64(42000)
	insertRecord(t, store, "ev-1", repoNow, func(r *models.StudyRecord) { r.ResponseTimeMs = &fast })
	insertRecord(t, store, "ev-2", repoNow, func(r *models.StudyRecord) { r.ResponseTimeMs = &slow })
	insertRecord(t, store, "ev-3", repoNow, nil)

	total, err = store.SumResponseTime(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(45000), total, "records without a response time do not contribute")
}

func TestStudyRecordRepository_Anonymize(t *testing.T) {
	store := sqlite.NewStudyRecordRepository(testutil.NewTestDB(t))
	ctx := context.Background()

	insertRecord(t, store, "ev-1", repoNow, nil)
	insertRecord(t, store, "ev-2", repoNow, func(r *models.StudyRecord) {
		r.ProblemID = 99
		r.AnswerContent = "Nf3"
	})

	require.NoError(t, store.AnonymizeByStudentAndProblem(ctx, 7, 42))

	got, err := store.FindByStudentAndProblem(ctx, 7, 42, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].AnswerContent)

	other, err := store.FindByStudentAndProblem(ctx, 7, 99, 10)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, "Nf3", other[0].AnswerContent, "other problems keep their answers")
}
