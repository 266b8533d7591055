package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-platform/internal/config"
	"github.com/jakechorley/volunteer-platform/pkg/core/model"
	"github.com/jakechorley/volunteer-platform/pkg/db"
)

// DigestStore defines the database operations needed to send the review digest
type DigestStore interface {
	GetReviewStats(ctx context.Context) (*model.ReviewStats, error)
	InsertNotifications(ctx context.Context, notifications []db.Notification) error
}

// DigestResult describes a digest run
type DigestResult struct {
	Date          string `json:"date"`
	Scheduled     bool   `json:"scheduled"`
	TotalPending  int    `json:"total_pending"`
	Notifications int    `json:"notifications"`
}

// scheduleAnchor is the DTSTART given to digest rules that do not carry one.
// It is a Monday at midnight UTC, so WEEKLY rules without BYDAY fire on Mondays.
var scheduleAnchor = time.Date(2000, 1, 3, 0, 0, 0, 0, time.UTC)

// isScheduledOn reports whether the schedule has an occurrence on the given date
func isScheduledOn(rule string, date time.Time) (bool, error) {
	option, err := rrule.StrToROption(rule)
	if err != nil {
		return false, fmt.Errorf("failed to parse digest rrule: %w", err)
	}
	if option.Dtstart.IsZero() {
		option.Dtstart = scheduleAnchor
	}

	schedule, err := rrule.NewRRule(*option)
	if err != nil {
		return false, fmt.Errorf("failed to build digest rrule: %w", err)
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return len(schedule.Between(day, day.AddDate(0, 0, 1).Add(-time.Second), true)) > 0, nil
}

// SendReviewDigest notifies the configured admins of the pending review counts
// when the digest schedule has an occurrence on date
func SendReviewDigest(ctx context.Context, store DigestStore, cfg *config.Config, logger *zap.Logger, date time.Time) (*DigestResult, error) {
	if cfg.Digest.RRule == "" {
		return nil, model.Validationf("digest schedule is not configured")
	}

	result := &DigestResult{Date: date.Format("2006-01-02")}

	scheduled, err := isScheduledOn(cfg.Digest.RRule, date)
	if err != nil {
		return nil, err
	}
	if !scheduled {
		logger.Info("No digest scheduled", zap.String("date", result.Date))
		return result, nil
	}
	result.Scheduled = true

	stats, err := GetReviewStats(ctx, store, logger)
	if err != nil {
		return nil, err
	}
	result.TotalPending = stats.Totals.TotalPending

	parts := make([]string, 0, len(model.ReviewTypes))
	for _, t := range model.ReviewTypes {
		parts = append(parts, fmt.Sprintf("%s: %d", t, stats.PendingFor(t)))
	}
	content := fmt.Sprintf("%d items awaiting review (%s)", stats.Totals.TotalPending, strings.Join(parts, ", "))

	now := time.Now().UTC()
	notifications := make([]db.Notification, 0, len(cfg.Digest.AdminUserIDs))
	for _, adminID := range cfg.Digest.AdminUserIDs {
		notifications = append(notifications, db.Notification{
			ID:        uuid.New().String(),
			UserID:    adminID,
			Type:      NotificationSystem,
			Title:     "Pending review digest " + result.Date,
			Content:   content,
			CreatedAt: now,
		})
	}

	if err := store.InsertNotifications(ctx, notifications); err != nil {
		return nil, fmt.Errorf("failed to insert digest notifications: %w", err)
	}
	result.Notifications = len(notifications)

	logger.Info("Review digest sent",
		zap.String("date", result.Date),
		zap.Int("total_pending", result.TotalPending),
		zap.Int("recipients", result.Notifications))

	return result, nil
}
