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

// ApplyStore defines the database operations needed to apply to an activity
type ApplyStore interface {
	GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error)
	db.Transactor
}

// ApplicationListStore defines the database operations needed to list a volunteer's applications
type ApplicationListStore interface {
	GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error)
	ListVolunteerApplications(ctx context.Context, q db.ApplicationQuery) ([]db.ApplicationListing, int, error)
}

// ApplyToActivity creates a pending application and claims a volunteer slot.
// The volunteer must be verified and the activity open, not started and not full.
func ApplyToActivity(ctx context.Context, store ApplyStore, logger *zap.Logger, volunteerID, activityID, message string) (*db.Application, error) {
	if strings.TrimSpace(volunteerID) == "" || strings.TrimSpace(activityID) == "" {
		return nil, model.Validationf("volunteer id and activity id are required")
	}

	volunteer, err := store.GetVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteer: %w", err)
	}
	if volunteer == nil {
		return nil, model.NotFoundf("volunteer %s", volunteerID)
	}
	if volunteer.VerificationStatus != model.VolunteerVerified {
		return nil, model.Forbiddenf("volunteer %s is not verified", volunteerID)
	}

	now := time.Now().UTC()
	application := &db.Application{
		ID:                 uuid.New().String(),
		VolunteerID:        volunteerID,
		ActivityID:         activityID,
		Status:             model.ApplicationPending,
		ApplicationMessage: strings.TrimSpace(message),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err = store.InTx(ctx, func(tx db.Tx) error {
		activity, err := tx.LockActivity(ctx, activityID)
		if err != nil {
			return fmt.Errorf("failed to load activity: %w", err)
		}
		if activity == nil {
			return model.NotFoundf("activity %s", activityID)
		}
		if !model.IsOpenActivityStatus(activity.Status) {
			return model.Conflictf("activity %s is not accepting applications", activityID)
		}
		if !activity.StartTime.After(now) {
			return model.Conflictf("activity %s has already started", activityID)
		}

		applied, err := tx.HasApplied(ctx, volunteerID, activityID)
		if err != nil {
			return fmt.Errorf("failed to check existing application: %w", err)
		}
		if applied {
			return model.Conflictf("already applied to activity %s", activityID)
		}

		claimed, err := tx.ClaimActivitySlot(ctx, activityID)
		if err != nil {
			return fmt.Errorf("failed to claim activity slot: %w", err)
		}
		if !claimed {
			return model.Conflictf("activity %s is full", activityID)
		}

		return tx.InsertApplication(ctx, application)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Application submitted",
		zap.String("application_id", application.ID),
		zap.String("volunteer_id", volunteerID),
		zap.String("activity_id", activityID))

	return application, nil
}

// CancelApplication withdraws a pending application before its activity starts
// and releases the volunteer slot it held
func CancelApplication(ctx context.Context, store db.Transactor, logger *zap.Logger, volunteerID, applicationID string) error {
	if strings.TrimSpace(volunteerID) == "" || strings.TrimSpace(applicationID) == "" {
		return model.Validationf("volunteer id and application id are required")
	}

	now := time.Now().UTC()
	err := store.InTx(ctx, func(tx db.Tx) error {
		application, err := tx.LockApplication(ctx, applicationID)
		if err != nil {
			return fmt.Errorf("failed to load application: %w", err)
		}
		if application == nil || application.VolunteerID != volunteerID {
			return model.NotFoundf("application %s", applicationID)
		}
		if application.Status != model.ApplicationPending {
			return model.Conflictf("application %s is %s, only pending applications can be cancelled", applicationID, application.Status)
		}

		activity, err := tx.LockActivity(ctx, application.ActivityID)
		if err != nil {
			return fmt.Errorf("failed to load activity: %w", err)
		}
		if activity != nil && !activity.StartTime.After(now) {
			return model.Conflictf("activity %s has already started", application.ActivityID)
		}

		if err := tx.DeleteApplication(ctx, applicationID); err != nil {
			return err
		}
		if activity == nil {
			return nil
		}
		return tx.ReleaseActivitySlot(ctx, activity.ID)
	})
	if err != nil {
		return err
	}

	logger.Info("Application cancelled",
		zap.String("application_id", applicationID),
		zap.String("volunteer_id", volunteerID))
	return nil
}

// ApplicationPage is one page of a volunteer's applications
type ApplicationPage struct {
	Applications []db.ApplicationListing `json:"applications"`
	Total        int                     `json:"total"`
	Page         int                     `json:"page"`
	Limit        int                     `json:"limit"`
	TotalPages   int                     `json:"total_pages"`
}

// ListVolunteerApplications returns one page of a volunteer's applications
func ListVolunteerApplications(ctx context.Context, store ApplicationListStore, cfg *config.Config, logger *zap.Logger, volunteerID, filter string, page, limit int) (*ApplicationPage, error) {
	f, err := model.ParseApplicationFilter(filter)
	if err != nil {
		return nil, err
	}

	page, limit, err = resolvePaging(page, limit, cfg.Reviews.DefaultPageSize, cfg.Reviews.MaxPageSize)
	if err != nil {
		return nil, err
	}

	volunteer, err := store.GetVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteer: %w", err)
	}
	if volunteer == nil {
		return nil, model.NotFoundf("volunteer %s", volunteerID)
	}

	applications, total, err := store.ListVolunteerApplications(ctx, db.ApplicationQuery{
		VolunteerID: volunteerID,
		Filter:      string(f),
		Now:         time.Now().UTC(),
		Limit:       limit,
		Offset:      (page - 1) * limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list volunteer applications: %w", err)
	}
	if applications == nil {
		applications = []db.ApplicationListing{}
	}

	logger.Debug("Listed volunteer applications",
		zap.String("volunteer_id", volunteerID),
		zap.String("filter", string(f)),
		zap.Int("total", total))

	return &ApplicationPage{
		Applications: applications,
		Total:        total,
		Page:         page,
		Limit:        limit,
		TotalPages:   model.TotalPages(total, limit),
	}, nil
}
