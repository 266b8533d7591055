package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/volunteer-platform/pkg/db"
)

// GetVolunteer returns a volunteer by ID, or nil when no row exists
func (d *DB) GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error) {
	var v db.Volunteer
	err := d.pool.QueryRow(ctx, `
		SELECT `+volunteerColumns+`
		FROM volunteers v
		WHERE v.id = $1
	`, id).Scan(volunteerDest(&v)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteer: %w", err)
	}
	return &v, nil
}

// CountVolunteerApplications returns how many of the volunteer's applications
// are approved and pending
func (d *DB) CountVolunteerApplications(ctx context.Context, volunteerID string) (approved, pending int, err error) {
	err = d.pool.QueryRow(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE status = 'approved'),
			COUNT(*) FILTER (WHERE status = 'pending')
		FROM applications
		WHERE volunteer_id = $1
	`, volunteerID).Scan(&approved, &pending)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count volunteer applications: %w", err)
	}
	return approved, pending, nil
}

// UpdateVolunteerProfile applies a partial profile update and returns the updated row.
// Returns nil when no row exists.
func (d *DB) UpdateVolunteerProfile(ctx context.Context, id string, update db.VolunteerProfileUpdate) (*db.Volunteer, error) {
	var v db.Volunteer
	err := d.pool.QueryRow(ctx, `
		UPDATE volunteers v
		SET region = COALESCE($2, v.region),
			skills = COALESCE($3, v.skills),
			interests = COALESCE($4, v.interests),
			bio = COALESCE($5, v.bio),
			updated_at = NOW()
		WHERE v.id = $1
		RETURNING `+volunteerColumns,
		id, update.Region, update.Skills, update.Interests, update.Bio,
	).Scan(volunteerDest(&v)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update volunteer profile: %w", err)
	}
	return &v, nil
}

func insertVolunteer(ctx context.Context, q querier, v *db.Volunteer) error {
	var userID *string
	if v.UserID != "" {
		userID = &v.UserID
	}

	_, err := q.Exec(ctx, `
		INSERT INTO volunteers (id, user_id, real_name, id_card_number, region, skills, interests, bio,
			verification_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, v.ID, userID, v.RealName, v.IDCardNumber, v.Region, v.Skills, v.Interests, v.Bio,
		v.VerificationStatus, v.CreatedAt.UTC(), v.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert volunteer: %w", err)
	}
	return nil
}
