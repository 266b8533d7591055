package model

import "time"

// ReviewDecided is published after a review decision commits
type ReviewDecided struct {
	Type           ReviewType   `json:"type"`
	ID             string       `json:"id"`
	Action         ReviewAction `json:"action"`
	Status         string       `json:"status"`
	RecipientID    string       `json:"recipient_id,omitempty"`
	NotificationID string       `json:"notification_id,omitempty"`
	DecidedAt      time.Time    `json:"decided_at"`
}
