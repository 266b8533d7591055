package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-platform/internal/config"
	"github.com/jakechorley/volunteer-platform/pkg/core/model"
	"github.com/jakechorley/volunteer-platform/pkg/db"
)

// ReviewListStore defines the database operations needed to list review items
type ReviewListStore interface {
	ListReviewItems(ctx context.Context, q model.ReviewQuery) ([]model.ReviewItem, int, error)
}

// ReviewDetailStore defines the database operations needed to load a review item
type ReviewDetailStore interface {
	GetReviewDetail(ctx context.Context, reviewType model.ReviewType, id string) (model.ReviewDetail, error)
}

// ReviewStatsStore defines the database operations needed to compute review stats
type ReviewStatsStore interface {
	GetReviewStats(ctx context.Context) (*model.ReviewStats, error)
}

// EventPublisher publishes review events to the event bus
type EventPublisher interface {
	PublishReviewDecided(ctx context.Context, event model.ReviewDecided) error
}

// ListReviewsParams are the raw filters of a review queue request
type ListReviewsParams struct {
	Type   string
	Status string
	Page   int
	Limit  int
}

// ListPendingReviews returns one page of the moderation queue. Despite the name the
// status filter may select approved or rejected items; it defaults to pending.
func ListPendingReviews(ctx context.Context, store ReviewListStore, cfg *config.Config, logger *zap.Logger, params ListReviewsParams) (*model.ReviewPage, error) {
	types, err := model.ParseReviewTypeFilter(params.Type)
	if err != nil {
		return nil, err
	}

	state, err := model.ParseReviewState(params.Status)
	if err != nil {
		return nil, err
	}

	page, limit, err := resolvePaging(params.Page, params.Limit, cfg.Reviews.DefaultPageSize, cfg.Reviews.MaxPageSize)
	if err != nil {
		return nil, err
	}

	logger.Debug("Listing review items",
		zap.Int("types", len(types)),
		zap.String("state", string(state)),
		zap.Int("page", page),
		zap.Int("limit", limit))

	items, total, err := store.ListReviewItems(ctx, model.ReviewQuery{
		Types:  types,
		State:  state,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list review items: %w", err)
	}

	if items == nil {
		items = []model.ReviewItem{}
	}

	return &model.ReviewPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: model.TotalPages(total, limit),
	}, nil
}

// GetReviewDetail returns the denormalized record behind a review item
func GetReviewDetail(ctx context.Context, store ReviewDetailStore, logger *zap.Logger, reviewType, id string) (model.ReviewDetail, error) {
	t, err := model.ParseReviewType(reviewType)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, model.Validationf("id is required")
	}

	detail, err := store.GetReviewDetail(ctx, t, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get review detail: %w", err)
	}
	if detail == nil {
		return nil, model.NotFoundf("%s %s", t, id)
	}

	logger.Debug("Loaded review detail", zap.String("type", string(t)), zap.String("id", id))
	return detail, nil
}

// DecisionRequest is an admin's approve/reject decision
type DecisionRequest struct {
	Type    string
	ID      string
	Action  string
	Message string
}

// DecisionResult describes a committed decision
type DecisionResult struct {
	Type   model.ReviewType   `json:"type"`
	ID     string             `json:"id"`
	Action model.ReviewAction `json:"action"`
	Status string             `json:"status"`
	// NotificationID is empty when the recipient account no longer exists
	NotificationID string    `json:"notification_id,omitempty"`
	DecidedAt      time.Time `json:"decided_at"`
}

// DecideReview approves or rejects a pending review item. The status change, the
// capacity release of a rejected application and the recipient's notification
// commit together or not at all. A ReviewDecided event is published after commit.
func DecideReview(ctx context.Context, store db.Transactor, publisher EventPublisher, logger *zap.Logger, req DecisionRequest) (*DecisionResult, error) {
	t, err := model.ParseReviewType(req.Type)
	if err != nil {
		return nil, err
	}

	action, err := model.ParseReviewAction(req.Action)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.ID) == "" {
		return nil, model.Validationf("id is required")
	}

	message := strings.TrimSpace(req.Message)
	if action == model.ActionReject && message == "" {
		return nil, model.Validationf("a review message is required when rejecting")
	}

	result := &DecisionResult{
		Type:      t,
		ID:        req.ID,
		Action:    action,
		Status:    model.DecisionStatus(t, action),
		DecidedAt: time.Now().UTC(),
	}
	var recipientID string

	logger.Debug("Deciding review",
		zap.String("type", string(t)),
		zap.String("id", req.ID),
		zap.String("action", string(action)))

	err = store.InTx(ctx, func(tx db.Tx) error {
		subject, err := tx.LockReviewSubject(ctx, string(t), req.ID)
		if err != nil {
			return fmt.Errorf("failed to load review subject: %w", err)
		}
		if subject == nil {
			return model.NotFoundf("%s %s", t, req.ID)
		}

		if pending := model.PendingStatus(t); subject.Status != pending {
			return model.Conflictf("%s %s is %s, only %s items can be decided", t, req.ID, subject.Status, pending)
		}

		if err := tx.UpdateReviewStatus(ctx, string(t), req.ID, result.Status, message, result.DecidedAt); err != nil {
			return fmt.Errorf("failed to update review status: %w", err)
		}

		if t == model.ReviewTypeApplication && action == model.ActionReject && subject.ActivityID != "" {
			if err := tx.ReleaseActivitySlot(ctx, subject.ActivityID); err != nil {
				return fmt.Errorf("failed to release activity slot: %w", err)
			}
		}

		if subject.RecipientUserID == "" {
			logger.Warn("Review recipient not found, skipping notification",
				zap.String("type", string(t)),
				zap.String("id", req.ID))
			return nil
		}

		notificationType, title, body := renderDecisionNotification(t, action, subject.Name, message)
		notification := &db.Notification{
			ID:        uuid.New().String(),
			UserID:    subject.RecipientUserID,
			Type:      notificationType,
			Title:     title,
			Content:   body,
			RelatedID: req.ID,
			CreatedAt: result.DecidedAt,
		}
		if err := tx.InsertNotification(ctx, notification); err != nil {
			return fmt.Errorf("failed to insert notification: %w", err)
		}

		result.NotificationID = notification.ID
		recipientID = subject.RecipientUserID
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Review decided",
		zap.String("type", string(t)),
		zap.String("id", req.ID),
		zap.String("status", result.Status),
		zap.Bool("notified", result.NotificationID != ""))

	if publisher != nil {
		event := model.ReviewDecided{
			Type:           t,
			ID:             req.ID,
			Action:         action,
			Status:         result.Status,
			RecipientID:    recipientID,
			NotificationID: result.NotificationID,
			DecidedAt:      result.DecidedAt,
		}
		if err := publisher.PublishReviewDecided(ctx, event); err != nil {
			logger.Warn("Failed to publish review event", zap.String("id", req.ID), zap.Error(err))
		}
	}

	return result, nil
}

// GetReviewStats returns the moderation counters of every review type
func GetReviewStats(ctx context.Context, store ReviewStatsStore, logger *zap.Logger) (*model.ReviewStats, error) {
	stats, err := store.GetReviewStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get review stats: %w", err)
	}

	stats.Totals = model.SumStats(stats.Stats)
	if stats.Trend == nil {
		stats.Trend = []model.TrendPoint{}
	}

	logger.Debug("Computed review stats", zap.Int("total_pending", stats.Totals.TotalPending))
	return stats, nil
}
