package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/volunteer-platform/pkg/core/model"
	"github.com/jakechorley/volunteer-platform/pkg/db"
)

// InTx runs fn in a single transaction, committing when fn returns nil
func (d *DB) InTx(ctx context.Context, fn func(tx db.Tx) error) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&pgTx{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// pgTx implements db.Tx on top of an open transaction
type pgTx struct {
	q querier
}

// LockReviewSubject loads the subject of a review decision with FOR UPDATE and
// resolves the account to notify
func (t *pgTx) LockReviewSubject(ctx context.Context, reviewType, id string) (*db.ReviewSubject, error) {
	var query string
	switch model.ReviewType(reviewType) {
	case model.ReviewTypeOrganization:
		query = `
			SELECT o.id, o.status, o.organization_name, COALESCE(u.id, ''), ''
			FROM organizations o
			LEFT JOIN users u ON u.id = o.user_id
			WHERE o.id = $1
			FOR UPDATE OF o`
	case model.ReviewTypeActivity:
		query = `
			SELECT a.id, a.status, a.title, COALESCE(u.id, ''), ''
			FROM activities a
			LEFT JOIN organizations o ON o.id = a.organization_id
			LEFT JOIN users u ON u.id = o.user_id
			WHERE a.id = $1
			FOR UPDATE OF a`
	case model.ReviewTypeApplication:
		query = `
			SELECT ap.id, ap.status, COALESCE(act.title, ''), COALESCE(u.id, ''), ap.activity_id
			FROM applications ap
			LEFT JOIN activities act ON act.id = ap.activity_id
			LEFT JOIN volunteers v ON v.id = ap.volunteer_id
			LEFT JOIN users u ON u.id = v.user_id
			WHERE ap.id = $1
			FOR UPDATE OF ap`
	case model.ReviewTypeVolunteer:
		query = `
			SELECT v.id, v.verification_status, v.real_name, COALESCE(u.id, ''), ''
			FROM volunteers v
			LEFT JOIN users u ON u.id = v.user_id
			WHERE v.id = $1
			FOR UPDATE OF v`
	default:
		return nil, fmt.Errorf("unknown review type %q", reviewType)
	}

	var s db.ReviewSubject
	err := t.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.Status, &s.Name, &s.RecipientUserID, &s.ActivityID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s %s: %w", reviewType, id, err)
	}
	return &s, nil
}

// UpdateReviewStatus records a review decision on the subject row
func (t *pgTx) UpdateReviewStatus(ctx context.Context, reviewType, id, status, message string, reviewedAt time.Time) error {
	table, ok := reviewTables[model.ReviewType(reviewType)]
	if !ok {
		return fmt.Errorf("unknown review type %q", reviewType)
	}

	var err error
	if model.ReviewType(reviewType) == model.ReviewTypeApplication {
		_, err = t.q.Exec(ctx, `
			UPDATE applications
			SET status = $2, review_message = NULLIF($3, ''), reviewed_at = $4, updated_at = $4
			WHERE id = $1
		`, id, status, message, reviewedAt.UTC())
	} else {
		_, err = t.q.Exec(ctx, fmt.Sprintf(`
			UPDATE %s SET %s = $2, reviewed_at = $3, updated_at = $3 WHERE id = $1
		`, table.table, table.statusColumn), id, status, reviewedAt.UTC())
	}
	if err != nil {
		return fmt.Errorf("failed to update %s status: %w", reviewType, err)
	}
	return nil
}

// ReleaseActivitySlot frees one volunteer slot, never going below zero
func (t *pgTx) ReleaseActivitySlot(ctx context.Context, activityID string) error {
	_, err := t.q.Exec(ctx, `
		UPDATE activities
		SET current_volunteers = GREATEST(current_volunteers - 1, 0), updated_at = NOW()
		WHERE id = $1
	`, activityID)
	if err != nil {
		return fmt.Errorf("failed to release activity slot: %w", err)
	}
	return nil
}

// ClaimActivitySlot takes one volunteer slot if the activity is not full
func (t *pgTx) ClaimActivitySlot(ctx context.Context, activityID string) (bool, error) {
	tag, err := t.q.Exec(ctx, `
		UPDATE activities
		SET current_volunteers = current_volunteers + 1, updated_at = NOW()
		WHERE id = $1 AND current_volunteers < required_volunteers
	`, activityID)
	if err != nil {
		return false, fmt.Errorf("failed to claim activity slot: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (t *pgTx) InsertNotification(ctx context.Context, n *db.Notification) error {
	return insertNotification(ctx, t.q, n)
}

// LockActivity loads an activity with FOR UPDATE
func (t *pgTx) LockActivity(ctx context.Context, activityID string) (*db.Activity, error) {
	var a db.Activity
	err := t.q.QueryRow(ctx, `
		SELECT `+activityColumns+`
		FROM activities a
		WHERE a.id = $1
		FOR UPDATE
	`, activityID).Scan(activityDest(&a)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock activity: %w", err)
	}
	return &a, nil
}

func (t *pgTx) HasApplied(ctx context.Context, volunteerID, activityID string) (bool, error) {
	var exists bool
	err := t.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM applications WHERE volunteer_id = $1 AND activity_id = $2)
	`, volunteerID, activityID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check existing application: %w", err)
	}
	return exists, nil
}

// InsertApplication inserts a new application. A duplicate (volunteer, activity)
// pair is reported as model.ErrConflict.
func (t *pgTx) InsertApplication(ctx context.Context, ap *db.Application) error {
	_, err := t.q.Exec(ctx, `
		INSERT INTO applications (id, volunteer_id, activity_id, status, application_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, ap.ID, ap.VolunteerID, ap.ActivityID, ap.Status, ap.ApplicationMessage, ap.CreatedAt.UTC(), ap.UpdatedAt.UTC())
	if isUniqueViolation(err) {
		return model.Conflictf("already applied to activity %s", ap.ActivityID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert application: %w", err)
	}
	return nil
}

// LockApplication loads an application with FOR UPDATE
func (t *pgTx) LockApplication(ctx context.Context, applicationID string) (*db.Application, error) {
	var ap db.Application
	err := t.q.QueryRow(ctx, `
		SELECT `+applicationColumns+`
		FROM applications ap
		WHERE ap.id = $1
		FOR UPDATE
	`, applicationID).Scan(applicationDest(&ap)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock application: %w", err)
	}
	return &ap, nil
}

func (t *pgTx) DeleteApplication(ctx context.Context, applicationID string) error {
	_, err := t.q.Exec(ctx, `DELETE FROM applications WHERE id = $1`, applicationID)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	return nil
}
