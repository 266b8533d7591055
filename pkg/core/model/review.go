package model

import "fmt"

// ReviewType identifies which kind of entity a review item refers to
type ReviewType string

const (
	ReviewTypeOrganization ReviewType = "organization"
	ReviewTypeActivity     ReviewType = "activity"
	ReviewTypeApplication  ReviewType = "application"
	ReviewTypeVolunteer    ReviewType = "volunteer"
)

// ReviewTypes lists every review type in queue order
var ReviewTypes = []ReviewType{
	ReviewTypeOrganization,
	ReviewTypeActivity,
	ReviewTypeApplication,
	ReviewTypeVolunteer,
}

func (t ReviewType) IsValid() bool {
	switch t {
	case ReviewTypeOrganization, ReviewTypeActivity, ReviewTypeApplication, ReviewTypeVolunteer:
		return true
	}
	return false
}

// ParseReviewType validates a single review type
func ParseReviewType(s string) (ReviewType, error) {
	t := ReviewType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: invalid review type %q", ErrValidation, s)
	}
	return t, nil
}

// ParseReviewTypeFilter expands a type filter into concrete types.
// Empty string and "all" select every type.
func ParseReviewTypeFilter(s string) ([]ReviewType, error) {
	if s == "" || s == "all" {
		return ReviewTypes, nil
	}
	t, err := ParseReviewType(s)
	if err != nil {
		return nil, err
	}
	return []ReviewType{t}, nil
}

// ReviewAction is an admin decision
type ReviewAction string

const (
	ActionApprove ReviewAction = "approve"
	ActionReject  ReviewAction = "reject"
)

// ParseReviewAction validates a decision action
func ParseReviewAction(s string) (ReviewAction, error) {
	switch a := ReviewAction(s); a {
	case ActionApprove, ActionReject:
		return a, nil
	}
	if s == "" {
		return "", fmt.Errorf("%w: action is required", ErrValidation)
	}
	return "", fmt.Errorf("%w: invalid review action %q", ErrValidation, s)
}

// ReviewState is the type-independent moderation state used for filtering
type ReviewState string

const (
	StatePending  ReviewState = "pending"
	StateApproved ReviewState = "approved"
	StateRejected ReviewState = "rejected"
)

// ParseReviewState validates a status filter. Empty defaults to pending.
func ParseReviewState(s string) (ReviewState, error) {
	switch st := ReviewState(s); st {
	case "":
		return StatePending, nil
	case StatePending, StateApproved, StateRejected:
		return st, nil
	}
	return "", fmt.Errorf("%w: invalid review status %q", ErrValidation, s)
}

// Stored status values
const (
	OrganizationPendingReview = "pending_review"
	OrganizationApproved      = "approved"
	OrganizationRejected      = "rejected"

	ActivityDraft         = "draft"
	ActivityPendingReview = "pending_review"
	ActivityRecruiting    = "recruiting"
	ActivityPublished     = "published" // legacy alias of recruiting
	ActivityInProgress    = "in_progress"
	ActivityCompleted     = "completed"
	ActivityCancelled     = "cancelled"
	ActivityRejected      = "rejected"

	ApplicationPending  = "pending"
	ApplicationApproved = "approved"
	ApplicationRejected = "rejected"

	VolunteerPending  = "pending"
	VolunteerVerified = "verified"
	VolunteerRejected = "rejected"
)

// OpenActivityStatuses are the activity statuses that accept applications
var OpenActivityStatuses = []string{ActivityRecruiting, ActivityPublished}

// IsOpenActivityStatus reports whether an activity in this status accepts applications
func IsOpenActivityStatus(status string) bool {
	return status == ActivityRecruiting || status == ActivityPublished
}

// StateStatuses maps a type-independent state to the stored values it covers
// for the given type. Activities that went on to run or finish count as approved.
func StateStatuses(t ReviewType, state ReviewState) []string {
	switch state {
	case StateApproved:
		if t == ReviewTypeActivity {
			return []string{ActivityRecruiting, ActivityPublished, ActivityInProgress, ActivityCompleted}
		}
		return []string{ApprovedStatus(t)}
	case StateRejected:
		return []string{rejectedStatus}
	default:
		return []string{PendingStatus(t)}
	}
}

const rejectedStatus = "rejected"

// PendingStatus returns the stored status of an undecided item
func PendingStatus(t ReviewType) string {
	switch t {
	case ReviewTypeOrganization:
		return OrganizationPendingReview
	case ReviewTypeActivity:
		return ActivityPendingReview
	case ReviewTypeApplication:
		return ApplicationPending
	case ReviewTypeVolunteer:
		return VolunteerPending
	}
	return ""
}

// ApprovedStatus returns the approved-analogue status for the given type
func ApprovedStatus(t ReviewType) string {
	switch t {
	case ReviewTypeOrganization:
		return OrganizationApproved
	case ReviewTypeActivity:
		return ActivityRecruiting
	case ReviewTypeApplication:
		return ApplicationApproved
	case ReviewTypeVolunteer:
		return VolunteerVerified
	}
	return ""
}

// DecisionStatus returns the terminal status a decision moves an item to
func DecisionStatus(t ReviewType, action ReviewAction) string {
	if action == ActionApprove {
		return ApprovedStatus(t)
	}
	return rejectedStatus
}
