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
	"github.com/jakechorley/volunteer-platform/pkg/utils/stringlist"
)

// OrganizationStore defines the database operations needed to register organizations
type OrganizationStore interface {
	InsertOrganization(ctx context.Context, organization *db.Organization) error
}

// ActivityStore defines the database operations needed to propose activities
type ActivityStore interface {
	GetOrganization(ctx context.Context, id string) (*db.Organization, error)
	InsertActivity(ctx context.Context, activity *db.Activity) error
}

// RegisterOrganizationRequest is an organization registration
type RegisterOrganizationRequest struct {
	UserID                  string `json:"user_id"`
	Name                    string `json:"organization_name" validate:"required,max=200"`
	UnifiedSocialCreditCode string `json:"unified_social_credit_code" validate:"required,max=50"`
	ContactPerson           string `json:"contact_person" validate:"required"`
	ContactPhone            string `json:"contact_phone" validate:"required"`
	ContactEmail            string `json:"contact_email" validate:"omitempty,email"`
	Address                 string `json:"address"`
	Description             string `json:"description"`
}

// RegisterOrganization records an organization awaiting review. A duplicate name
// or credit code is reported as ErrConflict by the store.
func RegisterOrganization(ctx context.Context, store OrganizationStore, logger *zap.Logger, req RegisterOrganizationRequest) (*db.Organization, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.UnifiedSocialCreditCode = strings.TrimSpace(req.UnifiedSocialCreditCode)
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	organization := &db.Organization{
		ID:                      uuid.New().String(),
		UserID:                  req.UserID,
		Name:                    req.Name,
		UnifiedSocialCreditCode: req.UnifiedSocialCreditCode,
		ContactPerson:           req.ContactPerson,
		ContactPhone:            req.ContactPhone,
		ContactEmail:            req.ContactEmail,
		Address:                 req.Address,
		Description:             req.Description,
		Status:                  model.OrganizationPendingReview,
		CreatedAt:               now,
		UpdatedAt:               now,
	}

	if err := store.InsertOrganization(ctx, organization); err != nil {
		return nil, fmt.Errorf("failed to register organization: %w", err)
	}

	logger.Info("Organization registered", zap.String("id", organization.ID), zap.String("name", organization.Name))
	return organization, nil
}

// ProposeActivityRequest is an activity submitted by an approved organization
type ProposeActivityRequest struct {
	OrganizationID     string    `json:"organization_id" validate:"required"`
	Title              string    `json:"title" validate:"required,max=200"`
	Description        string    `json:"description"`
	Category           string    `json:"category"`
	StartTime          time.Time `json:"start_time" validate:"required"`
	EndTime            time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	Location           string    `json:"location" validate:"required"`
	RequiredVolunteers int       `json:"required_volunteers" validate:"gt=0"`
	RequiredSkills     []string  `json:"required_skills"`
}

// newActivity validates an activity request and builds the row in the given status.
// The activity must start in the future.
func newActivity(req ProposeActivityRequest, status string, now time.Time) (*db.Activity, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Location = strings.TrimSpace(req.Location)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if !req.StartTime.After(now) {
		return nil, model.Validationf("start_time must be in the future")
	}

	return &db.Activity{
		ID:                 uuid.New().String(),
		OrganizationID:     req.OrganizationID,
		Title:              req.Title,
		Description:        req.Description,
		Category:           strings.TrimSpace(req.Category),
		StartTime:          req.StartTime.UTC(),
		EndTime:            req.EndTime.UTC(),
		Location:           req.Location,
		RequiredVolunteers: req.RequiredVolunteers,
		RequiredSkills:     stringlist.Encode(req.RequiredSkills),
		Status:             status,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// ProposeActivity records an activity awaiting review
func ProposeActivity(ctx context.Context, store ActivityStore, logger *zap.Logger, req ProposeActivityRequest) (*db.Activity, error) {
	activity, err := newActivity(req, model.ActivityPendingReview, time.Now().UTC())
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
	if organization.Status != model.OrganizationApproved {
		return nil, model.Forbiddenf("organization %s is not approved", activity.OrganizationID)
	}

	if err := store.InsertActivity(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to propose activity: %w", err)
	}

	logger.Info("Activity proposed",
		zap.String("id", activity.ID),
		zap.String("organization_id", activity.OrganizationID),
		zap.Time("start_time", activity.StartTime))
	return activity, nil
}

// OrganizationListStore defines the database operations needed to list organizations
type OrganizationListStore interface {
	ListOrganizations(ctx context.Context, q db.OrganizationQuery) ([]db.Organization, int, error)
}

// ListOrganizationsParams filters and pages the organization list.
// An empty Status lists approved organizations.
type ListOrganizationsParams struct {
	Search string
	Status string
	Page   int
	Limit  int
}

// OrganizationPage is one page of organizations
type OrganizationPage struct {
	Organizations []db.Organization `json:"organizations"`
	Total         int               `json:"total"`
	Page          int               `json:"page"`
	Limit         int               `json:"limit"`
	TotalPages    int               `json:"total_pages"`
}

// OrganizationOption is the short form of an organization used by pickers
type OrganizationOption struct {
	ID   string `json:"id"`
	Name string `json:"organization_name"`
}

func organizationStatusFilter(status string) (string, error) {
	if status == "" {
		return model.OrganizationApproved, nil
	}
	if !model.IsOrganizationStatus(status) {
		return "", model.Validationf("invalid organization status %q", status)
	}
	return status, nil
}

// ListOrganizations returns one page of organizations ordered by name
func ListOrganizations(ctx context.Context, store OrganizationListStore, cfg *config.Config, logger *zap.Logger, params ListOrganizationsParams) (*OrganizationPage, error) {
	status, err := organizationStatusFilter(params.Status)
	if err != nil {
		return nil, err
	}

	page, limit, err := resolvePaging(params.Page, params.Limit, cfg.Reviews.DefaultPageSize, cfg.Reviews.MaxPageSize)
	if err != nil {
		return nil, err
	}

	organizations, total, err := store.ListOrganizations(ctx, db.OrganizationQuery{
		Search: params.Search,
		Status: status,
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	if organizations == nil {
		organizations = []db.Organization{}
	}

	logger.Debug("Listed organizations", zap.String("status", status), zap.Int("total", total))

	return &OrganizationPage{
		Organizations: organizations,
		Total:         total,
		Page:          page,
		Limit:         limit,
		TotalPages:    model.TotalPages(total, limit),
	}, nil
}

// ListOrganizationOptions returns every matching organization as an id and name pair
func ListOrganizationOptions(ctx context.Context, store OrganizationListStore, logger *zap.Logger, search, status string) ([]OrganizationOption, error) {
	status, err := organizationStatusFilter(status)
	if err != nil {
		return nil, err
	}

	organizations, _, err := store.ListOrganizations(ctx, db.OrganizationQuery{Search: search, Status: status})
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}

	options := make([]OrganizationOption, 0, len(organizations))
	for _, o := range organizations {
		options = append(options, OrganizationOption{ID: o.ID, Name: o.Name})
	}
	return options, nil
}
