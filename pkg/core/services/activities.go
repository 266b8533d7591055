package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-platform/internal/config"
	"github.com/jakechorley/volunteer-platform/pkg/core/model"
	"github.com/jakechorley/volunteer-platform/pkg/db"
	"github.com/jakechorley/volunteer-platform/pkg/utils/stringlist"
)

// ActivityAdminStore defines the database operations needed to manage activities
type ActivityAdminStore interface {
	db.Transactor
	ActivityStore
	ListActivities(ctx context.Context, q db.ActivityQuery) ([]db.ActivityListing, int, error)
	GetActivityListing(ctx context.Context, id string) (*db.ActivityListing, error)
}

// ActivityView is an activity with its organization and decoded skills
type ActivityView struct {
	db.ActivityListing
	RequiredSkills []string `json:"required_skills"`
}

func newActivityView(l db.ActivityListing) ActivityView {
	return ActivityView{ActivityListing: l, RequiredSkills: stringlist.Parse(l.RequiredSkills)}
}

// ActivityPage is one page of activities
type ActivityPage struct {
	Activities []ActivityView `json:"activities"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

// ListActivitiesParams filters and pages the activity list
type ListActivitiesParams struct {
	Search         string
	Category       string
	Status         string
	OrganizationID string
	Page           int
	Limit          int
}

// ListActivities returns one page of activities, newest first
func ListActivities(ctx context.Context, store ActivityAdminStore, cfg *config.Config, logger *zap.Logger, params ListActivitiesParams) (*ActivityPage, error) {
	if params.Status != "" && !model.IsActivityStatus(params.Status) {
		return nil, model.Validationf("invalid activity status %q", params.Status)
	}

	page, limit, err := resolvePaging(params.Page, params.Limit, cfg.Reviews.DefaultPageSize, cfg.Reviews.MaxPageSize)
	if err != nil {
		return nil, err
	}

	listings, total, err := store.ListActivities(ctx, db.ActivityQuery{
		Search:         params.Search,
		Category:       params.Category,
		Status:         params.Status,
		OrganizationID: params.OrganizationID,
		Limit:          limit,
		Offset:         (page - 1) * limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	views := make([]ActivityView, 0, len(listings))
	for _, l := range listings {
		views = append(views, newActivityView(l))
	}

	logger.Debug("Listed activities", zap.Int("total", total), zap.Int("page", page))

	return &ActivityPage{
		Activities: views,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: model.TotalPages(total, limit),
	}, nil
}

// GetActivity returns an activity with its organization
func GetActivity(ctx context.Context, store ActivityAdminStore, logger *zap.Logger, id string) (*ActivityView, error) {
	if strings.TrimSpace(id) == "" {
		return nil, model.Validationf("activity id is required")
	}

	listing, err := store.GetActivityListing(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	if listing == nil {
		return nil, model.NotFoundf("activity %s", id)
	}

	view := newActivityView(*listing)
	return &view, nil
}

// Statuses an administrator may create an activity in
var creatableActivityStatuses = []string{model.ActivityDraft, model.ActivityPendingReview, model.ActivityRecruiting}

// CreateActivityRequest is an activity created by an administrator. An empty
// Status creates a draft.
type CreateActivityRequest struct {
	ProposeActivityRequest
	Status string `json:"status"`
}

// CreateActivity records an activity for any existing organization
func CreateActivity(ctx context.Context, store ActivityAdminStore, logger *zap.Logger, req CreateActivityRequest) (*ActivityView, error) {
	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = model.ActivityDraft
	}
	if !slices.Contains(creatableActivityStatuses, status) {
		return nil, model.Validationf("activities cannot be created as %q", status)
	}

	activity, err := newActivity(req.ProposeActivityRequest, status, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	organization, err := store.GetOrganization(ctx, activity.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	if organization == nil {
		return nil, model.NotFoundf("organization %s", activity.OrganizationID)
	}

	if err := store.InsertActivity(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	logger.Info("Activity created",
		zap.String("id", activity.ID),
		zap.String("organization_id", activity.OrganizationID),
		zap.String("status", activity.Status))

	view := newActivityView(db.ActivityListing{
		Activity: *activity,
		Organization: db.OrganizationContact{
			Name:          organization.Name,
			ContactPerson: organization.ContactPerson,
			ContactPhone:  organization.ContactPhone,
			Address:       organization.Address,
		},
	})
	return &view, nil
}

// UpdateActivityRequest changes an activity. Nil fields are left as they are;
// an empty RequiredSkills list clears the skills.
type UpdateActivityRequest struct {
	Title              *string    `json:"title"`
	Description        *string    `json:"description"`
	Category           *string    `json:"category"`
	StartTime          *time.Time `json:"start_time"`
	EndTime            *time.Time `json:"end_time"`
	Location           *string    `json:"location"`
	RequiredVolunteers *int       `json:"required_volunteers"`
	RequiredSkills     []string   `json:"required_skills"`
	Status             *string    `json:"status"`
}

func (r *UpdateActivityRequest) empty() bool {
	return r.Title == nil && r.Description == nil && r.Category == nil && r.StartTime == nil &&
		r.EndTime == nil && r.Location == nil && r.RequiredVolunteers == nil &&
		r.RequiredSkills == nil && r.Status == nil
}

// apply merges the request into the activity
func (r *UpdateActivityRequest) apply(a *db.Activity) error {
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		if title == "" || len(title) > 200 {
			return model.Validationf("title must be 1 to 200 characters")
		}
		a.Title = title
	}
	if r.Description != nil {
		a.Description = *r.Description
	}
	if r.Category != nil {
		a.Category = strings.TrimSpace(*r.Category)
	}
	if r.StartTime != nil {
		a.StartTime = r.StartTime.UTC()
	}
	if r.EndTime != nil {
		a.EndTime = r.EndTime.UTC()
	}
	if r.Location != nil {
		location := strings.TrimSpace(*r.Location)
		if location == "" {
			return model.Validationf("location cannot be empty")
		}
		a.Location = location
	}
	if r.RequiredVolunteers != nil {
		if *r.RequiredVolunteers <= 0 {
			return model.Validationf("required_volunteers must be positive")
		}
		if *r.RequiredVolunteers < a.CurrentVolunteers {
			return model.Conflictf("activity %s already has %d volunteers", a.ID, a.CurrentVolunteers)
		}
		a.RequiredVolunteers = *r.RequiredVolunteers
	}
	if r.RequiredSkills != nil {
		a.RequiredSkills = stringlist.Encode(r.RequiredSkills)
	}
	if r.Status != nil {
		if !model.IsActivityStatus(*r.Status) {
			return model.Validationf("invalid activity status %q", *r.Status)
		}
		a.Status = *r.Status
	}

	if !a.StartTime.Before(a.EndTime) {
		return model.Validationf("start_time must be before end_time")
	}
	return nil
}

// UpdateActivity applies an activity update and returns the updated activity
func UpdateActivity(ctx context.Context, store ActivityAdminStore, logger *zap.Logger, id string, req UpdateActivityRequest) (*ActivityView, error) {
	if strings.TrimSpace(id) == "" {
		return nil, model.Validationf("activity id is required")
	}
	if req.empty() {
		return nil, model.Validationf("no fields to update")
	}

	err := store.InTx(ctx, func(tx db.Tx) error {
		activity, err := tx.LockActivity(ctx, id)
		if err != nil {
			return err
		}
		if activity == nil {
			return model.NotFoundf("activity %s", id)
		}

		if err := req.apply(activity); err != nil {
			return err
		}
		activity.UpdatedAt = time.Now().UTC()
		return tx.UpdateActivity(ctx, activity)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Activity updated", zap.String("id", id))
	return GetActivity(ctx, store, logger, id)
}

// DeleteActivity removes a draft activity
func DeleteActivity(ctx context.Context, store db.Transactor, logger *zap.Logger, id string) error {
	if strings.TrimSpace(id) == "" {
		return model.Validationf("activity id is required")
	}

	err := store.InTx(ctx, func(tx db.Tx) error {
		activity, err := tx.LockActivity(ctx, id)
		if err != nil {
			return err
		}
		if activity == nil {
			return model.NotFoundf("activity %s", id)
		}
		if activity.Status != model.ActivityDraft {
			return model.Conflictf("only draft activities can be deleted, activity %s is %s", id, activity.Status)
		}
		return tx.DeleteActivity(ctx, id)
	})
	if err != nil {
		return err
	}

	logger.Info("Activity deleted", zap.String("id", id))
	return nil
}
