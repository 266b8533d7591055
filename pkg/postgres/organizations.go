package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/volunteer-platform/pkg/core/model"
	"github.com/jakechorley/volunteer-platform/pkg/db"
)

// InsertOrganization inserts a new organization. A duplicate name or credit
// code is reported as model.ErrConflict.
func (d *DB) InsertOrganization(ctx context.Context, o *db.Organization) error {
	return insertOrganization(ctx, d.pool, o)
}

func insertOrganization(ctx context.Context, q querier, o *db.Organization) error {
	var userID *string
	if o.UserID != "" {
		userID = &o.UserID
	}

	_, err := q.Exec(ctx, `
		INSERT INTO organizations (id, user_id, organization_name, unified_social_credit_code,
			contact_person, contact_phone, contact_email, address, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, o.ID, userID, o.Name, o.UnifiedSocialCreditCode,
		o.ContactPerson, o.ContactPhone, o.ContactEmail, o.Address, o.Description,
		o.Status, o.CreatedAt.UTC(), o.UpdatedAt.UTC())
	if isUniqueViolation(err) {
		return model.Conflictf("organization already registered (%s)", constraintName(err))
	}
	if err != nil {
		return fmt.Errorf("failed to insert organization: %w", err)
	}
	return nil
}

// GetOrganization returns an organization by ID, or nil when no row exists
func (d *DB) GetOrganization(ctx context.Context, id string) (*db.Organization, error) {
	var o db.Organization
	err := d.pool.QueryRow(ctx, `
		SELECT `+organizationColumns+`
		FROM organizations o
		WHERE o.id = $1
	`, id).Scan(organizationDest(&o)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return &o, nil
}

// ListOrganizations returns organizations ordered by name and the total number of
// matches. A zero limit returns every match.
func (d *DB) ListOrganizations(ctx context.Context, q db.OrganizationQuery) ([]db.Organization, int, error) {
	var f filter
	f.addSearch("(o.organization_name ILIKE %[1]s OR o.contact_person ILIKE %[1]s OR o.contact_email ILIKE %[1]s)", q.Search)
	f.addEqual("o.status", q.Status)

	var total int
	if err := d.pool.QueryRow(ctx, `SELECT COUNT(*) FROM organizations o`+f.where(), f.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count organizations: %w", err)
	}

	query := `SELECT ` + organizationColumns + ` FROM organizations o` + f.where() + `
		ORDER BY o.organization_name ASC, o.id ASC`
	args := f.args
	if q.Limit > 0 {
		query += ` LIMIT ` + f.next(1) + ` OFFSET ` + f.next(2)
		args = append(args, q.Limit, q.Offset)
	}

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query organizations: %w", err)
	}
	defer rows.Close()

	organizations := []db.Organization{}
	for rows.Next() {
		var o db.Organization
		if err := rows.Scan(organizationDest(&o)...); err != nil {
			return nil, 0, fmt.Errorf("failed to scan organization: %w", err)
		}
		organizations = append(organizations, o)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating organizations: %w", err)
	}

	return organizations, total, nil
}
