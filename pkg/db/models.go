package db

import "time"

// Account represents a users row
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phone_number"`
	UserType     string    `json:"user_type"`
	Status       string    `json:"status"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserDetail is an account with the volunteer or organization it owns
type UserDetail struct {
	Account
	Volunteer    *Volunteer    `json:"volunteer,omitempty"`
	Organization *Organization `json:"organization,omitempty"`
}

// Organization represents an organizations row
type Organization struct {
	ID                      string     `json:"id"`
	UserID                  string     `json:"user_id"` // nullable
	Name                    string     `json:"organization_name"`
	UnifiedSocialCreditCode string     `json:"unified_social_credit_code"`
	ContactPerson           string     `json:"contact_person"`
	ContactPhone            string     `json:"contact_phone"`
	ContactEmail            string     `json:"contact_email"`
	Address                 string     `json:"address"`
	Description             string     `json:"description"`
	Status                  string     `json:"status"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`
	ReviewedAt              *time.Time `json:"reviewed_at,omitempty"`
}

// Activity represents an activities row.
// RequiredSkills holds the raw stored text; decode it with stringlist.Parse.
type Activity struct {
	ID                 string     `json:"id"`
	OrganizationID     string     `json:"organization_id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Category           string     `json:"category"`
	StartTime          time.Time  `json:"start_time"`
	EndTime            time.Time  `json:"end_time"`
	Location           string     `json:"location"`
	RequiredVolunteers int        `json:"required_volunteers"`
	CurrentVolunteers  int        `json:"current_volunteers"`
	RequiredSkills     string     `json:"required_skills"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	ReviewedAt         *time.Time `json:"reviewed_at,omitempty"`
}

// Volunteer represents a volunteers row (the volunteer profile).
// Skills and Interests hold the raw stored text.
type Volunteer struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"` // nullable
	RealName           string     `json:"real_name"`
	IDCardNumber       string     `json:"id_card_number"`
	Region             string     `json:"region"`
	Skills             string     `json:"skills"`
	Interests          string     `json:"interests"`
	Bio                string     `json:"bio"`
	TotalServiceHours  float64    `json:"total_service_hours"`
	VerificationStatus string     `json:"verification_status"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	ReviewedAt         *time.Time `json:"reviewed_at,omitempty"`
}

// Application represents an applications row
type Application struct {
	ID                 string     `json:"id"`
	VolunteerID        string     `json:"volunteer_id"`
	ActivityID         string     `json:"activity_id"`
	Status             string     `json:"status"`
	ApplicationMessage string     `json:"application_message"`
	ReviewMessage      string     `json:"review_message"` // nullable
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	ReviewedAt         *time.Time `json:"reviewed_at,omitempty"`
}

// Notification represents a notifications row
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	RelatedID string    `json:"related_id"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// OrganizationContact is the public contact card of an organization
type OrganizationContact struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	ContactPhone  string `json:"contact_phone"`
	Address       string `json:"address"`
}

// ActivityListing is an activity joined with its organization
type ActivityListing struct {
	Activity
	Organization OrganizationContact `json:"organization"`
}

// ApplicationListing is an application joined with its activity and organization
type ApplicationListing struct {
	Application
	Activity     Activity            `json:"activity"`
	Organization OrganizationContact `json:"organization"`
}

// VolunteerProfileUpdate holds the profile fields to change. Nil fields are left as they are.
// Skills and Interests hold the encoded stored form.
type VolunteerProfileUpdate struct {
	Region    *string
	Skills    *string
	Interests *string
	Bio       *string
}

// ApplicationQuery selects a page of a volunteer's applications
type ApplicationQuery struct {
	VolunteerID string
	Filter      string
	Now         time.Time
	Limit       int
	Offset      int
}

// UserQuery selects a page of accounts. Empty fields do not filter.
type UserQuery struct {
	// Search matches username, email or phone number
	Search   string
	UserType string
	Status   string
	Limit    int
	Offset   int
}

// AccountUpdate holds the account fields to change. Nil fields are left as they are.
type AccountUpdate struct {
	Username    *string
	Email       *string
	PhoneNumber *string
	Status      *string
}

// OwnedVolunteerUpdate holds the volunteer fields an account update may change
type OwnedVolunteerUpdate struct {
	RealName           *string
	VerificationStatus *string
}

// ActivityQuery selects a page of activities. Empty fields do not filter.
type ActivityQuery struct {
	// Search matches title, description or location
	Search         string
	Category       string
	Status         string
	OrganizationID string
	Limit          int
	Offset         int
}

// OrganizationQuery selects organizations. Empty fields do not filter and
// a Limit of 0 returns every match.
type OrganizationQuery struct {
	// Search matches name, contact person or contact email
	Search string
	Status string
	Limit  int
	Offset int
}
