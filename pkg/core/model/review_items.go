package model

import (
	"time"

	"github.com/jakechorley/volunteer-platform/pkg/db"
)

// ReviewSummary is the shape shared by every entry of the moderation queue
type ReviewSummary struct {
	ID               string     `json:"id"`
	Type             ReviewType `json:"type"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	ApplicantName    string     `json:"applicant_name"`
	ApplicantContact string     `json:"applicant_contact,omitempty"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ReviewItem is one entry of the unified moderation queue.
// The concrete type is one of OrganizationReview, ActivityReview,
// ApplicationReview or VolunteerReview.
type ReviewItem interface {
	Summary() ReviewSummary
	isReviewItem()
}

// OrganizationReview is a pending (or decided) organization registration
type OrganizationReview struct {
	ReviewSummary
	UnifiedSocialCreditCode string `json:"unified_social_credit_code,omitempty"`
	ContactEmail            string `json:"contact_email,omitempty"`
	Address                 string `json:"address,omitempty"`
}

// ActivityReview is a proposed activity awaiting moderation
type ActivityReview struct {
	ReviewSummary
	Location           string    `json:"location"`
	StartTime          time.Time `json:"start_time"`
	EndTime            time.Time `json:"end_time"`
	RequiredVolunteers int       `json:"required_volunteers"`
}

// ApplicationReview is a volunteer's application to an activity
type ApplicationReview struct {
	ReviewSummary
	ActivityTitle      string `json:"activity_title"`
	VolunteerName      string `json:"volunteer_name"`
	ApplicationMessage string `json:"application_message,omitempty"`
}

// VolunteerReview is a volunteer identity verification request
type VolunteerReview struct {
	ReviewSummary
	IDCardNumber string   `json:"id_card_number,omitempty"`
	Region       string   `json:"region,omitempty"`
	Skills       []string `json:"skills"`
	Interests    []string `json:"interests"`
}

func (r OrganizationReview) Summary() ReviewSummary { return r.ReviewSummary }
func (r ActivityReview) Summary() ReviewSummary     { return r.ReviewSummary }
func (r ApplicationReview) Summary() ReviewSummary  { return r.ReviewSummary }
func (r VolunteerReview) Summary() ReviewSummary    { return r.ReviewSummary }

func (OrganizationReview) isReviewItem() {}
func (ActivityReview) isReviewItem()     {}
func (ApplicationReview) isReviewItem()  {}
func (VolunteerReview) isReviewItem()    {}

// ReviewDetail is the denormalized record behind a review item.
// The concrete type is one of OrganizationDetail, ActivityDetail,
// ApplicationDetail or VolunteerDetail.
type ReviewDetail interface {
	Kind() ReviewType
}

type OrganizationDetail struct {
	db.Organization
	Username string `json:"username"`
	Email    string `json:"email"`
}

type ActivityDetail struct {
	db.Activity
	RequiredSkills   []string `json:"required_skills"`
	OrganizationName string   `json:"organization_name"`
	ContactPerson    string   `json:"contact_person"`
	ContactPhone     string   `json:"contact_phone"`
}

type ApplicationDetail struct {
	db.Application
	RealName            string   `json:"real_name"`
	Region              string   `json:"region"`
	Skills              []string `json:"skills"`
	Interests           []string `json:"interests"`
	ActivityTitle       string   `json:"activity_title"`
	ActivityDescription string   `json:"activity_description"`
	PhoneNumber         string   `json:"phone_number"`
	Email               string   `json:"email"`
}

type VolunteerDetail struct {
	db.Volunteer
	Skills      []string `json:"skills"`
	Interests   []string `json:"interests"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phone_number"`
}

func (OrganizationDetail) Kind() ReviewType { return ReviewTypeOrganization }
func (ActivityDetail) Kind() ReviewType     { return ReviewTypeActivity }
func (ApplicationDetail) Kind() ReviewType  { return ReviewTypeApplication }
func (VolunteerDetail) Kind() ReviewType    { return ReviewTypeVolunteer }
