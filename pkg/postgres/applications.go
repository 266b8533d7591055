package postgres

import (
	"context"
	"fmt"

	"github.com/jakechorley/volunteer-platform/pkg/core/model"
	"github.com/jakechorley/volunteer-platform/pkg/db"
)

// applicationFilterClause returns the extra WHERE condition of a filter and
// whether it references the reference time as $2
func applicationFilterClause(filter string) (string, bool, error) {
	switch model.ApplicationFilter(filter) {
	case model.ApplicationFilterAll, "":
		return "", false, nil
	case model.ApplicationFilterUpcoming:
		return ` AND a.start_time > $2 AND ap.status = 'approved'`, true, nil
	case model.ApplicationFilterCompleted:
		return ` AND a.end_time < $2 AND ap.status = 'approved'`, true, nil
	case model.ApplicationFilterPending:
		return ` AND ap.status = 'pending'`, false, nil
	}
	return "", false, fmt.Errorf("unknown application filter %q", filter)
}

// ListVolunteerApplications returns one page of a volunteer's applications, newest
// first, and the total number of matching applications
func (d *DB) ListVolunteerApplications(ctx context.Context, q db.ApplicationQuery) ([]db.ApplicationListing, int, error) {
	clause, usesNow, err := applicationFilterClause(q.Filter)
	if err != nil {
		return nil, 0, err
	}

	args := []any{q.VolunteerID}
	if usesNow {
		args = append(args, q.Now.UTC())
	}

	from := `
		FROM applications ap
		JOIN activities a ON a.id = ap.activity_id
		LEFT JOIN organizations o ON o.id = a.organization_id
		WHERE ap.volunteer_id = $1` + clause

	var total int
	if err := d.pool.QueryRow(ctx, `SELECT COUNT(*) `+from, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count volunteer applications: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s %s
		ORDER BY ap.created_at DESC, ap.id ASC
		LIMIT $%d OFFSET $%d
	`, applicationColumns, activityColumns, organizationContactColumns, from, len(args)+1, len(args)+2)

	rows, err := d.pool.Query(ctx, query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query volunteer applications: %w", err)
	}
	defer rows.Close()
	listings := []db.ApplicationListing{}
	for rows.Next() {
		var l db.ApplicationListing
		dest := applicationDest(&l.Application)
		dest = append(dest, activityDest(&l.Activity)...)
		dest = append(dest, organizationContactDest(&l.Organization)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, 0, fmt.Errorf("failed to scan volunteer application: %w", err)
		}
		listings = append(listings, l)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating volunteer applications: %w", err)
	}

	return listings, total, nil
}
