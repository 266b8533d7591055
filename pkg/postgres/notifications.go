package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/volunteer-platform/pkg/db"
)

func insertNotification(ctx context.Context, q querier, n *db.Notification) error {
	var relatedID *string
	if n.RelatedID != "" {
		relatedID = &n.RelatedID
	}

	_, err := q.Exec(ctx, `
		INSERT INTO notifications (id, user_id, type, title, content, related_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, n.ID, n.UserID, n.Type, n.Title, n.Content, relatedID, n.IsRead, n.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// InsertNotifications inserts notification records in one transaction
func (d *DB) InsertNotifications(ctx context.Context, notifications []db.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range notifications {
		if err := insertNotification(ctx, tx, &notifications[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListNotifications returns a user's most recent notifications, newest first
func (d *DB) ListNotifications(ctx context.Context, userID string, limit int) ([]db.Notification, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, user_id, type, title, content, COALESCE(related_id, ''), is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id ASC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := []db.Notification{}
	for rows.Next() {
		var n db.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Content, &n.RelatedID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return notifications, nil
}
