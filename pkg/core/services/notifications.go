package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-platform/pkg/core/model"
	"github.com/jakechorley/volunteer-platform/pkg/db"
)

// Notification types
const (
	NotificationSystem      = "system"
	NotificationActivity    = "activity"
	NotificationApplication = "application"
)

// notificationTemplate is the message sent for one review type
type notificationTemplate struct {
	notificationType string
	approveTitle     string
	rejectTitle      string
	// body formats the message for the subject name and decision
	body func(name string, action model.ReviewAction) string
}

var notificationTemplates = map[model.ReviewType]notificationTemplate{
	model.ReviewTypeOrganization: {
		notificationType: NotificationSystem,
		approveTitle:     "Organization review approved",
		rejectTitle:      "Organization review rejected",
		body: func(name string, action model.ReviewAction) string {
			if action == model.ActionApprove {
				return fmt.Sprintf("Your organization \"%s\" has been approved", name)
			}
			return fmt.Sprintf("Your organization \"%s\" was rejected", name)
		},
	},
	model.ReviewTypeActivity: {
		notificationType: NotificationActivity,
		approveTitle:     "Activity review approved",
		rejectTitle:      "Activity review rejected",
		body: func(name string, action model.ReviewAction) string {
			if action == model.ActionApprove {
				return fmt.Sprintf("Your activity \"%s\" has been approved and can now recruit volunteers", name)
			}
			return fmt.Sprintf("Your activity \"%s\" was rejected", name)
		},
	},
	model.ReviewTypeApplication: {
		notificationType: NotificationApplication,
		approveTitle:     "Application approved",
		rejectTitle:      "Application rejected",
		body: func(name string, action model.ReviewAction) string {
			if action == model.ActionApprove {
				return fmt.Sprintf("Your application for activity \"%s\" has been approved", name)
			}
			return fmt.Sprintf("Your application for activity \"%s\" was rejected", name)
		},
	},
	model.ReviewTypeVolunteer: {
		notificationType: NotificationSystem,
		approveTitle:     "Volunteer verification approved",
		rejectTitle:      "Volunteer verification rejected",
		body: func(_ string, action model.ReviewAction) string {
			if action == model.ActionApprove {
				return "Your volunteer identity verification has been approved, you can now apply for activities"
			}
			return "Your volunteer identity verification was rejected"
		},
	},
}

// renderDecisionNotification returns the type, title and body of a decision notification
func renderDecisionNotification(t model.ReviewType, action model.ReviewAction, name, message string) (string, string, string) {
	tmpl := notificationTemplates[t]

	title := tmpl.rejectTitle
	if action == model.ActionApprove {
		title = tmpl.approveTitle
	}

	body := tmpl.body(name, action)
	if message = strings.TrimSpace(message); message != "" {
		body += ". Reason: " + message
	}

	return tmpl.notificationType, title, body
}

// NotificationStore defines the database operations needed to read notifications
type NotificationStore interface {
	ListNotifications(ctx context.Context, userID string, limit int) ([]db.Notification, error)
}

// ListNotifications returns a user's most recent notifications
func ListNotifications(ctx context.Context, store NotificationStore, logger *zap.Logger, userID string, limit int) ([]db.Notification, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, model.Validationf("user id is required")
	}
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}

	notifications, err := store.ListNotifications(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	if notifications == nil {
		notifications = []db.Notification{}
	}

	logger.Debug("Listed notifications", zap.String("user_id", userID), zap.Int("count", len(notifications)))
	return notifications, nil
}

const (
	defaultNotificationLimit = 20
	maxNotificationLimit     = 100
)
