package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/studypulse/studypulse/internal/logger"
	"github.com/studypulse/studypulse/internal/models"
	"github.com/studypulse/studypulse/internal/repository"
)

type settingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a read-only NotificationSettingsStore
// implementation.
func NewSettingsRepository(db *sql.DB) repository.NotificationSettingsStore {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetByStudent(ctx context.Context, studentID int64) (*models.NotificationSettings, error) {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")

	var s models.NotificationSettings
	err := r.db.QueryRowContext(ctx, `
SELECT student_id, review_due_enabled, overdue_enabled, streak_enabled, achievement_enabled,
    daily_summary_enabled, quiet_hours_start, quiet_hours_end, timezone
FROM notification_settings
WHERE student_id = ?`, studentID).Scan(&s.StudentID, &s.ReviewDueEnabled, &s.OverdueEnabled,
		&s.StreakEnabled, &s.AchievementEnabled, &s.DailySummaryEnabled,
		&s.QuietHoursStart, &s.QuietHoursEnd, &s.Timezone)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no settings for student_id=%d", studentID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get notification settings: %v", err)
		return nil, err
	}
	return &s, nil
}
