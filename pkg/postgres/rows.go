package postgres

import "github.com/jakechorley/volunteer-platform/pkg/db"

// Column lists and scan destinations shared by the queries of each table.
// Each list assumes the table alias used throughout this package.

const accountColumns = `u.id, u.username, u.email, u.phone_number, u.user_type, u.status,
	u.password_hash, u.created_at, u.updated_at`

func accountDest(u *db.Account) []any {
	return []any{&u.ID, &u.Username, &u.Email, &u.PhoneNumber, &u.UserType, &u.Status,
		&u.PasswordHash, &u.CreatedAt, &u.UpdatedAt}
}

const organizationColumns = `o.id, COALESCE(o.user_id, ''), o.organization_name, o.unified_social_credit_code,
	o.contact_person, o.contact_phone, o.contact_email, o.address, o.description,
	o.status, o.created_at, o.updated_at, o.reviewed_at`

func organizationDest(o *db.Organization) []any {
	return []any{&o.ID, &o.UserID, &o.Name, &o.UnifiedSocialCreditCode,
		&o.ContactPerson, &o.ContactPhone, &o.ContactEmail, &o.Address, &o.Description,
		&o.Status, &o.CreatedAt, &o.UpdatedAt, &o.ReviewedAt}
}

const activityColumns = `a.id, a.organization_id, a.title, a.description, a.category,
	a.start_time, a.end_time, a.location, a.required_volunteers, a.current_volunteers,
	a.required_skills, a.status, a.created_at, a.updated_at, a.reviewed_at`

func activityDest(a *db.Activity) []any {
	return []any{&a.ID, &a.OrganizationID, &a.Title, &a.Description, &a.Category,
		&a.StartTime, &a.EndTime, &a.Location, &a.RequiredVolunteers, &a.CurrentVolunteers,
		&a.RequiredSkills, &a.Status, &a.CreatedAt, &a.UpdatedAt, &a.ReviewedAt}
}

const applicationColumns = `ap.id, ap.volunteer_id, ap.activity_id, ap.status,
	ap.application_message, COALESCE(ap.review_message, ''),
	ap.created_at, ap.updated_at, ap.reviewed_at`

func applicationDest(ap *db.Application) []any {
	return []any{&ap.ID, &ap.VolunteerID, &ap.ActivityID, &ap.Status,
		&ap.ApplicationMessage, &ap.ReviewMessage,
		&ap.CreatedAt, &ap.UpdatedAt, &ap.ReviewedAt}
}

const volunteerColumns = `v.id, COALESCE(v.user_id, ''), v.real_name, v.id_card_number, v.region,
	v.skills, v.interests, v.bio, v.total_service_hours::float8, v.verification_status,
	v.created_at, v.updated_at, v.reviewed_at`

func volunteerDest(v *db.Volunteer) []any {
	return []any{&v.ID, &v.UserID, &v.RealName, &v.IDCardNumber, &v.Region,
		&v.Skills, &v.Interests, &v.Bio, &v.TotalServiceHours, &v.VerificationStatus,
		&v.CreatedAt, &v.UpdatedAt, &v.ReviewedAt}
}

const organizationContactColumns = `COALESCE(o.organization_name, ''), COALESCE(o.contact_person, ''),
	COALESCE(o.contact_phone, ''), COALESCE(o.address, '')`

func organizationContactDest(c *db.OrganizationContact) []any {
	return []any{&c.Name, &c.ContactPerson, &c.ContactPhone, &c.Address}
}
