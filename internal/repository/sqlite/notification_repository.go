package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/studypulse/studypulse/internal/logger"
	"github.com/studypulse/studypulse/internal/models"
	"github.com/studypulse/studypulse/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type notificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new NotificationStore implementation
func NewNotificationRepository(db *sql.DB) repository.NotificationStore {
	return &notificationRepository{db: db}
}

const notificationColumns = `id, recipient_id, type, priority, delivery_method, title, body,
scheduled_for, status, retry_count, failure_reason, sent_at, created_at, updated_at`

func scanNotification(row interface{ Scan(...any) error }) (models.Notification, error) {
	var n models.Notification
	var sentAt sql.NullTime
	err := row.Scan(&n.ID, &n.RecipientID, &n.Type, &n.Priority, &n.Method, &n.Title, &n.Body,
		&n.ScheduledFor, &n.Status, &n.RetryCount, &n.FailureReason, &sentAt, &n.CreatedAt, &n.UpdatedAt)
	if sentAt.Valid {
		n.SentAt = &sentAt.Time
	}
	return n, err
}

func (r *notificationRepository) Insert(ctx context.Context, n models.Notification) error {
	log := logger.FromContext(ctx).WithPrefix("notification_repo")
	log.Debug("inserting notification: id=%s, recipient_id=%d, type=%s", n.ID, n.RecipientID, n.Type)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO notifications (id, recipient_id, type, priority, delivery_method, title, body,
    scheduled_for, status, retry_count, failure_reason, sent_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, n.ID, n.RecipientID, n.Type, n.Priority, n.Method, n.Title, n.Body,
		n.ScheduledFor, n.Status, n.RetryCount, n.FailureReason, n.SentAt, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		log.Error("failed to insert notification: %v", err)
	}
	return err
}

func (r *notificationRepository) Get(ctx context.Context, id string) (*models.Notification, error) {
	log := logger.FromContext(ctx).WithPrefix("notification_repo")

	row := r.db.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, id)
	n, err := scanNotification(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get notification: %v", err)
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) FindPending(ctx context.Context, f models.NotificationFilter, scheduledBefore time.Time, limit int) ([]models.Notification, error) {
	log := logger.FromContext(ctx).WithPrefix("notification_repo")
	log.Debug("fetching pending notifications: before=%s, limit=%d", scheduledBefore.Format(time.RFC3339), limit)

	query := sqlBuilder.Select(notificationColumns).From("notifications").
		Where(squirrel.Eq{"status": models.StatusPending}).
		Where(squirrel.LtOrEq{"scheduled_for": scheduledBefore})

	// Dynamic filters
	if f.Priority != "" {
		query = query.Where(squirrel.Eq{"priority": f.Priority})
	}
	if f.Method != "" {
		query = query.Where(squirrel.Eq{"delivery_method": f.Method})
	}

	sqlStr, args, err := query.
		OrderBy("scheduled_for ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query pending notifications: %v", err)
		return nil, err
	}
	defer rows.Close()
	var out []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			log.Error("failed to scan notification row: %v", err)
			return nil, err
		}
		out = append(out, n)
	}
	log.Debug("found %d pending notifications", len(out))
	return out, rows.Err()
}

func (r *notificationRepository) CountPending(ctx context.Context, scheduledBefore time.Time) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("notification_repo")
	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM notifications WHERE status = ? AND scheduled_for <= ?`,
		models.StatusPending, scheduledBefore).Scan(&n)
	if err != nil {
		log.Error("failed to count pending notifications: %v", err)
		return 0, err
	}
	return n, nil
}

func (r *notificationRepository) Claim(ctx context.Context, id string) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("notification_repo")

	// The pending->processing transition is the mutual-exclusion point
	// between concurrent processors.
	res, err := r.db.ExecContext(ctx, `
UPDATE notifications SET status = ? WHERE id = ? AND status = ?`,
		models.StatusProcessing, id, models.StatusPending)
	if err != nil {
		log.Error("failed to claim notification: %v", err)
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		log.Debug("notification already claimed: id=%s", id)
		return false, nil
	}
	return true, nil
}

func (r *notificationRepository) Update(ctx context.Context, n models.Notification) error {
	log := logger.FromContext(ctx).WithPrefix("notification_repo")
	log.Debug("updating notification: id=%s, status=%s, retry_count=%d", n.ID, n.Status, n.RetryCount)

	_, err := r.db.ExecContext(ctx, `
UPDATE notifications
SET scheduled_for = ?, status = ?, retry_count = ?, failure_reason = ?, sent_at = ?, updated_at = ?
WHERE id = ?
`, n.ScheduledFor, n.Status, n.RetryCount, n.FailureReason, n.SentAt, n.UpdatedAt, n.ID)
	if err != nil {
		log.Error("failed to update notification: %v", err)
	}
	return err
}

func (r *notificationRepository) FindByRecipient(ctx context.Context, recipientID int64, limit int) ([]models.Notification, error) {
	log := logger.FromContext(ctx).WithPrefix("notification_repo")

	rows, err := r.db.QueryContext(ctx, `
SELECT `+notificationColumns+` FROM notifications
WHERE recipient_id = ?
ORDER BY created_at DESC
LIMIT ?`, recipientID, limit)
	if err != nil {
		log.Error("failed to query notifications by recipient: %v", err)
		return nil, err
	}
	defer rows.Close()
	var out []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *notificationRepository) HasPendingForRecipient(ctx context.Context, recipientID int64, t models.NotificationType) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("notification_repo")
	var n int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM notifications WHERE recipient_id = ? AND type = ? AND status = ?`,
		recipientID, t, models.StatusPending).Scan(&n)
	if err != nil {
		log.Error("failed to check pending notifications: %v", err)
		return false, err
	}
	return n > 0, nil
}
