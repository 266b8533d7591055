package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/volunteer-platform/pkg/core/model"
	"github.com/jakechorley/volunteer-platform/pkg/db"
)

// ListUsers returns one page of accounts, newest first, and the total number of matches
func (d *DB) ListUsers(ctx context.Context, q db.UserQuery) ([]db.Account, int, error) {
	var f filter
	f.addSearch("(u.username ILIKE %[1]s OR u.email ILIKE %[1]s OR u.phone_number ILIKE %[1]s)", q.Search)
	f.addEqual("u.user_type", q.UserType)
	f.addEqual("u.status", q.Status)

	var total int
	if err := d.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users u`+f.where(), f.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := `SELECT ` + accountColumns + ` FROM users u` + f.where() + `
		ORDER BY u.created_at DESC, u.id ASC
		LIMIT ` + f.next(1) + ` OFFSET ` + f.next(2)

	rows, err := d.pool.Query(ctx, query, append(f.args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	accounts := []db.Account{}
	for rows.Next() {
		var u db.Account
		if err := rows.Scan(accountDest(&u)...); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		accounts = append(accounts, u)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating users: %w", err)
	}

	return accounts, total, nil
}

// GetUserDetail returns an account with the volunteer profile or organization it
// owns, or nil when no account exists
func (d *DB) GetUserDetail(ctx context.Context, id string) (*db.UserDetail, error) {
	var detail db.UserDetail
	err := d.pool.QueryRow(ctx, `SELECT `+accountColumns+` FROM users u WHERE u.id = $1`, id).
		Scan(accountDest(&detail.Account)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var v db.Volunteer
	err = d.pool.QueryRow(ctx, `
		SELECT `+volunteerColumns+`
		FROM volunteers v
		WHERE v.user_id = $1
		ORDER BY v.created_at ASC
		LIMIT 1
	`, id).Scan(volunteerDest(&v)...)
	switch {
	case err == nil:
		detail.Volunteer = &v
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("failed to get user volunteer profile: %w", err)
	}

	var o db.Organization
	err = d.pool.QueryRow(ctx, `
		SELECT `+organizationColumns+`
		FROM organizations o
		WHERE o.user_id = $1
		ORDER BY o.created_at ASC
		LIMIT 1
	`, id).Scan(organizationDest(&o)...)
	switch {
	case err == nil:
		detail.Organization = &o
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("failed to get user organization: %w", err)
	}

	return &detail, nil
}

func (t *pgTx) FindAccountConflict(ctx context.Context, username, email, phoneNumber, excludeID string) (string, error) {
	var field string
	err := t.q.QueryRow(ctx, `
		SELECT CASE
			WHEN $1 <> '' AND username = $1 THEN 'username'
			WHEN $2 <> '' AND email = $2 THEN 'email'
			ELSE 'phone_number'
		END
		FROM users
		WHERE id <> $4
			AND (($1 <> '' AND username = $1)
				OR ($2 <> '' AND email = $2)
				OR ($3 <> '' AND phone_number = $3))
		ORDER BY id
		LIMIT 1
	`, username, email, phoneNumber, excludeID).Scan(&field)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to check account uniqueness: %w", err)
	}
	return field, nil
}

// InsertAccount inserts a new account. A taken username, email or phone number
// is reported as model.ErrConflict.
func (t *pgTx) InsertAccount(ctx context.Context, u *db.Account) error {
	_, err := t.q.Exec(ctx, `
		INSERT INTO users (id, username, email, phone_number, user_type, status, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, u.ID, u.Username, u.Email, u.PhoneNumber, u.UserType, u.Status, u.PasswordHash,
		u.CreatedAt.UTC(), u.UpdatedAt.UTC())
	if isUniqueViolation(err) {
		return model.Conflictf("account already exists (%s)", constraintName(err))
	}
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (t *pgTx) InsertVolunteer(ctx context.Context, v *db.Volunteer) error {
	return insertVolunteer(ctx, t.q, v)
}

func (t *pgTx) InsertOrganization(ctx context.Context, o *db.Organization) error {
	return insertOrganization(ctx, t.q, o)
}

// LockAccount loads an account with FOR UPDATE
func (t *pgTx) LockAccount(ctx context.Context, id string) (*db.Account, error) {
	var u db.Account
	err := t.q.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM users u
		WHERE u.id = $1
		FOR UPDATE
	`, id).Scan(accountDest(&u)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}
	return &u, nil
}

// UpdateAccount applies a partial account update and returns the updated row.
// Returns nil when no row exists.
func (t *pgTx) UpdateAccount(ctx context.Context, id string, update db.AccountUpdate) (*db.Account, error) {
	var u db.Account
	err := t.q.QueryRow(ctx, `
		UPDATE users u
		SET username = COALESCE($2, u.username),
			email = COALESCE($3, u.email),
			phone_number = COALESCE($4, u.phone_number),
			status = COALESCE($5, u.status),
			updated_at = NOW()
		WHERE u.id = $1
		RETURNING `+accountColumns,
		id, update.Username, update.Email, update.PhoneNumber, update.Status,
	).Scan(accountDest(&u)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if isUniqueViolation(err) {
		return nil, model.Conflictf("account already exists (%s)", constraintName(err))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return &u, nil
}

func (t *pgTx) UpdateOwnedVolunteer(ctx context.Context, userID string, update db.OwnedVolunteerUpdate) error {
	_, err := t.q.Exec(ctx, `
		UPDATE volunteers
		SET real_name = COALESCE($2, real_name),
			verification_status = COALESCE($3, verification_status),
			updated_at = NOW()
		WHERE user_id = $1
	`, userID, update.RealName, update.VerificationStatus)
	if err != nil {
		return fmt.Errorf("failed to update volunteer profile: %w", err)
	}
	return nil
}

// RenameOwnedOrganization renames the account's organizations. A taken name is
// reported as model.ErrConflict.
func (t *pgTx) RenameOwnedOrganization(ctx context.Context, userID, name string) error {
	_, err := t.q.Exec(ctx, `
		UPDATE organizations SET organization_name = $2, updated_at = NOW() WHERE user_id = $1
	`, userID, name)
	if isUniqueViolation(err) {
		return model.Conflictf("organization name %q is taken", name)
	}
	if err != nil {
		return fmt.Errorf("failed to rename organization: %w", err)
	}
	return nil
}

// DeleteAccount removes an account. Owned volunteer profiles and organizations
// are kept and lose their owner; notifications are removed with the account.
func (t *pgTx) DeleteAccount(ctx context.Context, id string) error {
	_, err := t.q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}
