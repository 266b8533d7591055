package db

import (
	"context"
	"time"
)

// ReviewSubject is the locked row behind a review decision
type ReviewSubject struct {
	ID     string
	Status string
	// Name is the organization name, activity title or volunteer real name.
	// For applications it is the title of the applied activity.
	Name string
	// RecipientUserID is the account notified of the decision. Empty when the
	// owning account no longer exists.
	RecipientUserID string
	// ActivityID is set for applications only
	ActivityID string
}

// ReviewTx holds the operations of a review decision. Every method runs inside
// the transaction it was obtained from.
type ReviewTx interface {
	// LockReviewSubject loads and row-locks the subject. Returns nil when no row exists.
	LockReviewSubject(ctx context.Context, reviewType, id string) (*ReviewSubject, error)
	// UpdateReviewStatus moves the subject to status and stamps reviewed_at/updated_at.
	// The message is stored for applications only.
	UpdateReviewStatus(ctx context.Context, reviewType, id, status, message string, reviewedAt time.Time) error
	// ReleaseActivitySlot decrements current_volunteers, never below zero
	ReleaseActivitySlot(ctx context.Context, activityID string) error
	InsertNotification(ctx context.Context, notification *Notification) error
}

// ApplicationTx holds the operations of applying to and withdrawing from activities
type ApplicationTx interface {
	// LockActivity loads and row-locks an activity. Returns nil when no row exists.
	LockActivity(ctx context.Context, activityID string) (*Activity, error)
	HasApplied(ctx context.Context, volunteerID, activityID string) (bool, error)
	// ClaimActivitySlot increments current_volunteers only while it is below
	// required_volunteers. Returns false when the activity is full.
	ClaimActivitySlot(ctx context.Context, activityID string) (bool, error)
	InsertApplication(ctx context.Context, application *Application) error
	// LockApplication loads and row-locks an application. Returns nil when no row exists.
	LockApplication(ctx context.Context, applicationID string) (*Application, error)
	DeleteApplication(ctx context.Context, applicationID string) error
	ReleaseActivitySlot(ctx context.Context, activityID string) error
}

// AccountTx holds the account management operations
type AccountTx interface {
	// FindAccountConflict returns the name of the first field among username, email
	// and phone_number already used by an account other than excludeID, or "" when
	// none is. Empty values are not checked.
	FindAccountConflict(ctx context.Context, username, email, phoneNumber, excludeID string) (string, error)
	InsertAccount(ctx context.Context, account *Account) error
	InsertVolunteer(ctx context.Context, volunteer *Volunteer) error
	InsertOrganization(ctx context.Context, organization *Organization) error
	// LockAccount loads and row-locks an account. Returns nil when no row exists.
	LockAccount(ctx context.Context, id string) (*Account, error)
	UpdateAccount(ctx context.Context, id string, update AccountUpdate) (*Account, error)
	// UpdateOwnedVolunteer changes the volunteer profiles owned by the account
	UpdateOwnedVolunteer(ctx context.Context, userID string, update OwnedVolunteerUpdate) error
	// RenameOwnedOrganization renames the organizations owned by the account
	RenameOwnedOrganization(ctx context.Context, userID, name string) error
	DeleteAccount(ctx context.Context, id string) error
}

// ActivityTx holds the activity management operations. Activities are
// locked with ApplicationTx.LockActivity.
type ActivityTx interface {
	// UpdateActivity writes every editable column of the activity
	UpdateActivity(ctx context.Context, activity *Activity) error
	DeleteActivity(ctx context.Context, id string) error
}

// Tx is a unit of work against the store
type Tx interface {
	ReviewTx
	ApplicationTx
	AccountTx
	ActivityTx
}

// Transactor runs fn inside a single transaction. The transaction commits when
// fn returns nil and rolls back otherwise.
type Transactor interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}
