package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-platform/pkg/core/model"
	"github.com/jakechorley/volunteer-platform/pkg/db"
	"github.com/jakechorley/volunteer-platform/pkg/utils/stringlist"
)

// VolunteerProfileStore defines the database operations needed to read and update profiles
type VolunteerProfileStore interface {
	GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error)
	CountVolunteerApplications(ctx context.Context, volunteerID string) (approved, pending int, err error)
	UpdateVolunteerProfile(ctx context.Context, id string, update db.VolunteerProfileUpdate) (*db.Volunteer, error)
}

// VolunteerProfile is a volunteer with decoded list fields and application counts
type VolunteerProfile struct {
	db.Volunteer
	Skills             []string `json:"skills"`
	Interests          []string `json:"interests"`
	ApprovedActivities int      `json:"approved_activities"`
	PendingActivities  int      `json:"pending_activities"`
}

// UpdateProfileRequest holds the profile fields to change. Nil fields are left as they are.
type UpdateProfileRequest struct {
	Region    *string   `json:"region"`
	Skills    *[]string `json:"skills"`
	Interests *[]string `json:"interests"`
	Bio       *string   `json:"bio"`
}

// GetVolunteerProfile returns a volunteer's profile
func GetVolunteerProfile(ctx context.Context, store VolunteerProfileStore, logger *zap.Logger, volunteerID string) (*VolunteerProfile, error) {
	volunteer, err := store.GetVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteer: %w", err)
	}
	if volunteer == nil {
		return nil, model.NotFoundf("volunteer %s", volunteerID)
	}

	return buildProfile(ctx, store, logger, volunteer)
}

// UpdateVolunteerProfile applies a partial update. List fields are stored as JSON arrays.
func UpdateVolunteerProfile(ctx context.Context, store VolunteerProfileStore, logger *zap.Logger, volunteerID string, req UpdateProfileRequest) (*VolunteerProfile, error) {
	if req.Region == nil && req.Skills == nil && req.Interests == nil && req.Bio == nil {
		return nil, model.Validationf("no profile fields to update")
	}

	var update db.VolunteerProfileUpdate
	if req.Region != nil {
		region := strings.TrimSpace(*req.Region)
		update.Region = &region
	}
	if req.Skills != nil {
		skills := stringlist.Encode(*req.Skills)
		update.Skills = &skills
	}
	if req.Interests != nil {
		interests := stringlist.Encode(*req.Interests)
		update.Interests = &interests
	}
	if req.Bio != nil {
		update.Bio = req.Bio
	}

	volunteer, err := store.UpdateVolunteerProfile(ctx, volunteerID, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update volunteer profile: %w", err)
	}
	if volunteer == nil {
		return nil, model.NotFoundf("volunteer %s", volunteerID)
	}

	logger.Info("Volunteer profile updated", zap.String("volunteer_id", volunteerID))
	return buildProfile(ctx, store, logger, volunteer)
}

func buildProfile(ctx context.Context, store VolunteerProfileStore, logger *zap.Logger, volunteer *db.Volunteer) (*VolunteerProfile, error) {
	approved, pending, err := store.CountVolunteerApplications(ctx, volunteer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count volunteer applications: %w", err)
	}

	logger.Debug("Built volunteer profile",
		zap.String("volunteer_id", volunteer.ID),
		zap.Int("approved", approved),
		zap.Int("pending", pending))

	return &VolunteerProfile{
		Volunteer:          *volunteer,
		Skills:             stringlist.Parse(volunteer.Skills),
		Interests:          stringlist.Parse(volunteer.Interests),
		ApprovedActivities: approved,
		PendingActivities:  pending,
	}, nil
}
