package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/volunteer-platform/pkg/db"
)

// InsertActivity inserts a new activity
func (d *DB) InsertActivity(ctx context.Context, a *db.Activity) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO activities (id, organization_id, title, description, category, start_time, end_time,
			location, required_volunteers, current_volunteers, required_skills, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, a.ID, a.OrganizationID, a.Title, a.Description, a.Category, a.StartTime.UTC(), a.EndTime.UTC(),
		a.Location, a.RequiredVolunteers, a.CurrentVolunteers, a.RequiredSkills, a.Status,
		a.CreatedAt.UTC(), a.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

// ListRecommendationCandidates returns the open activities a volunteer could still apply to:
// recruiting, not yet started, not full and not already applied to
func (d *DB) ListRecommendationCandidates(ctx context.Context, volunteerID string, openStatuses []string, now time.Time) ([]db.ActivityListing, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT `+activityColumns+`, `+organizationContactColumns+`
		FROM activities a
		LEFT JOIN organizations o ON o.id = a.organization_id
		WHERE a.status = ANY($2)
			AND a.start_time > $3
			AND a.current_volunteers < a.required_volunteers
			AND NOT EXISTS (
				SELECT 1 FROM applications ap
				WHERE ap.activity_id = a.id AND ap.volunteer_id = $1
			)
		ORDER BY a.start_time ASC, a.id ASC
	`, volunteerID, openStatuses, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query recommendation candidates: %w", err)
	}
	defer rows.Close()

	listings := []db.ActivityListing{}
	for rows.Next() {
		var l db.ActivityListing
		dest := append(activityDest(&l.Activity), organizationContactDest(&l.Organization)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation candidate: %w", err)
		}
		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recommendation candidates: %w", err)
	}

	return listings, nil
}

// ListActivities returns one page of activities with their organization, newest
// first, and the total number of matches
func (d *DB) ListActivities(ctx context.Context, q db.ActivityQuery) ([]db.ActivityListing, int, error) {
	var f filter
	f.addSearch("(a.title ILIKE %[1]s OR a.description ILIKE %[1]s OR a.location ILIKE %[1]s)", q.Search)
	f.addEqual("a.category", q.Category)
	f.addEqual("a.status", q.Status)
	f.addEqual("a.organization_id", q.OrganizationID)

	from := ` FROM activities a LEFT JOIN organizations o ON o.id = a.organization_id` + f.where()

	var total int
	if err := d.pool.QueryRow(ctx, `SELECT COUNT(*)`+from, f.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	query := `SELECT ` + activityColumns + `, ` + organizationContactColumns + from + `
		ORDER BY a.created_at DESC, a.id ASC
		LIMIT ` + f.next(1) + ` OFFSET ` + f.next(2)

	rows, err := d.pool.Query(ctx, query, append(f.args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	listings := []db.ActivityListing{}
	for rows.Next() {
		var l db.ActivityListing
		dest := append(activityDest(&l.Activity), organizationContactDest(&l.Organization)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity: %w", err)
		}
		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating activities: %w", err)
	}

	return listings, total, nil
}

// GetActivityListing returns an activity with its organization, or nil when no row exists
func (d *DB) GetActivityListing(ctx context.Context, id string) (*db.ActivityListing, error) {
	var l db.ActivityListing
	dest := append(activityDest(&l.Activity), organizationContactDest(&l.Organization)...)
	err := d.pool.QueryRow(ctx, `
		SELECT `+activityColumns+`, `+organizationContactColumns+`
		FROM activities a
		LEFT JOIN organizations o ON o.id = a.organization_id
		WHERE a.id = $1
	`, id).Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return &l, nil
}

func (t *pgTx) UpdateActivity(ctx context.Context, a *db.Activity) error {
	_, err := t.q.Exec(ctx, `
		UPDATE activities
		SET title = $2, description = $3, category = $4, start_time = $5, end_time = $6,
			location = $7, required_volunteers = $8, required_skills = $9, status = $10, updated_at = $11
		WHERE id = $1
	`, a.ID, a.Title, a.Description, a.Category, a.StartTime.UTC(), a.EndTime.UTC(),
		a.Location, a.RequiredVolunteers, a.RequiredSkills, a.Status, a.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to update activity: %w", err)
	}
	return nil
}

func (t *pgTx) DeleteActivity(ctx context.Context, id string) error {
	_, err := t.q.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil
}
