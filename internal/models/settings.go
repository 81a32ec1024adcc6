package models

import (
	"time"
)

// NotificationSettings are per-student delivery preferences. This core
// only reads them; they are owned by the settings subsystem.
type NotificationSettings struct {
	StudentID           int64  `json:"student_id"`
	ReviewDueEnabled    bool   `json:"review_due_enabled"`
	OverdueEnabled      bool   `json:"overdue_enabled"`
	StreakEnabled       bool   `json:"streak_enabled"`
	AchievementEnabled  bool   `json:"achievement_enabled"`
	DailySummaryEnabled bool   `json:"daily_summary_enabled"`
	QuietHoursStart     string `json:"quiet_hours_start"` // "HH:MM", empty disables quiet hours
	QuietHoursEnd       string `json:"quiet_hours_end"`   // "HH:MM", may be earlier than start (wraps midnight)
	Timezone            string `json:"timezone"`          // IANA name, e.g. "America/Sao_Paulo"
}

// DefaultNotificationSettings is used when a student has no stored
// preferences: everything enabled, no quiet hours, UTC.
func DefaultNotificationSettings(studentID int64) NotificationSettings {
	return NotificationSettings{
		StudentID:           studentID,
		ReviewDueEnabled:    true,
		OverdueEnabled:      true,
		StreakEnabled:       true,
		AchievementEnabled:  true,
		DailySummaryEnabled: true,
		Timezone:            "UTC",
	}
}

// TypeEnabled reports whether the student accepts the given type.
func (s NotificationSettings) TypeEnabled(t NotificationType) bool {
	switch t {
	case NotificationReviewDue:
		return s.ReviewDueEnabled
	case NotificationOverdue:
		return s.OverdueEnabled
	case NotificationStreak:
		return s.StreakEnabled
	case NotificationAchievement:
		return s.AchievementEnabled
	case NotificationDailySummary:
		return s.DailySummaryEnabled
	}
	return false
}

func (s NotificationSettings) location() *time.Location {
	if s.Timezone != "" {
		if loc, err := time.LoadLocation(s.Timezone); err == nil {
			return loc
		}
	}
	return time.UTC
}

// quietWindow returns the window bounds in minutes of the student's local
// day, and whether quiet hours are configured at all.
func (s NotificationSettings) quietWindow() (start, end int, ok bool) {
	start, okStart := parseClock(s.QuietHoursStart)
	end, okEnd := parseClock(s.QuietHoursEnd)
	if !okStart || !okEnd || start == end {
		return 0, 0, false
	}
	return start, end, true
}

// InQuietHours reports whether the given instant falls inside the
// student's quiet window, handling windows that wrap midnight.
func (s NotificationSettings) InQuietHours(now time.Time) bool {
	start, end, ok := s.quietWindow()
	if !ok {
		return false
	}
	local := now.In(s.location())
	minute := local.Hour()*60 + local.Minute()
	if start < end {
		return minute >= start && minute < end
	}
	// Window wraps midnight, e.g. 22:00-07:00.
	return minute >= start || minute < end
}

// QuietHoursEndAfter returns the end of the quiet window containing now.
// Callers must have checked InQuietHours first.
func (s NotificationSettings) QuietHoursEndAfter(now time.Time) time.Time {
	start, end, ok := s.quietWindow()
	if !ok {
		return now
	}
	local := now.In(s.location())
	minute := local.Hour()*60 + local.Minute()

	endToday := time.Date(local.Year(), local.Month(), local.Day(), end/60, end%60, 0, 0, s.location())
	if start < end {
		return endToday
	}
	if minute >= start {
		// Still before midnight; the window ends tomorrow.
		return endToday.AddDate(0, 0, 1)
	}
	return endToday
}

// parseClock parses "HH:MM" into minutes of day.
func parseClock(v string) (int, bool) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
