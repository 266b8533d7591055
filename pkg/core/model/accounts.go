package model

// Account types
const (
	UserTypeVolunteer         = "volunteer"
	UserTypeOrganizationAdmin = "organization_admin"
	UserTypePlatformAdmin     = "platform_admin"
)

// Account statuses
const (
	AccountActive              = "active"
	AccountInactive            = "inactive"
	AccountPendingVerification = "pending_verification"
)

// IsUserType reports whether s is a known account type
func IsUserType(s string) bool {
	switch s {
	case UserTypeVolunteer, UserTypeOrganizationAdmin, UserTypePlatformAdmin:
		return true
	}
	return false
}

// IsAccountStatus reports whether s is a known account status
func IsAccountStatus(s string) bool {
	switch s {
	case AccountActive, AccountInactive, AccountPendingVerification:
		return true
	}
	return false
}

// IsVolunteerStatus reports whether s is a known volunteer verification status
func IsVolunteerStatus(s string) bool {
	switch s {
	case VolunteerPending, VolunteerVerified, VolunteerRejected:
		return true
	}
	return false
}

// IsOrganizationStatus reports whether s is a known organization status
func IsOrganizationStatus(s string) bool {
	switch s {
	case OrganizationPendingReview, OrganizationApproved, OrganizationRejected:
		return true
	}
	return false
}

// IsActivityStatus reports whether s is a known activity status
func IsActivityStatus(s string) bool {
	switch s {
	case ActivityDraft, ActivityPendingReview, ActivityRecruiting, ActivityPublished,
		ActivityInProgress, ActivityCompleted, ActivityCancelled, ActivityRejected:
		return true
	}
	return false
}
