package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jakechorley/volunteer-platform/pkg/core/model"
	"github.com/jakechorley/volunteer-platform/pkg/utils/stringlist"
)

// reviewProjections select the common review summary columns of each type plus
// a jsonb "extra" column with the type-specific fields. %s is the placeholder of
// the accepted status values.
var reviewProjections = map[model.ReviewType]string{
	model.ReviewTypeOrganization: `
		SELECT 'organization' AS type, o.id, o.organization_name AS title, o.description,
			o.contact_person AS applicant_name, o.contact_phone AS applicant_contact,
			o.status, o.created_at, o.updated_at,
			jsonb_build_object(
				'unified_social_credit_code', o.unified_social_credit_code,
				'contact_email', o.contact_email,
				'address', o.address
			) AS extra
		FROM organizations o
		WHERE o.status = ANY(%s)`,
	model.ReviewTypeActivity: `
		SELECT 'activity' AS type, a.id, a.title, a.description,
			COALESCE(o.organization_name, '') AS applicant_name, COALESCE(o.contact_phone, '') AS applicant_contact,
			a.status, a.created_at, a.updated_at,
			jsonb_build_object(
				'location', a.location,
				'start_time', a.start_time,
				'end_time', a.end_time,
				'required_volunteers', a.required_volunteers
			) AS extra
		FROM activities a
		LEFT JOIN organizations o ON o.id = a.organization_id
		WHERE a.status = ANY(%s)`,
	model.ReviewTypeApplication: `
		SELECT 'application' AS type, ap.id, COALESCE(act.title, '') AS title, ap.application_message AS description,
			COALESCE(v.real_name, '') AS applicant_name, COALESCE(u.phone_number, '') AS applicant_contact,
			ap.status, ap.created_at, ap.updated_at,
			jsonb_build_object(
				'activity_title', COALESCE(act.title, ''),
				'volunteer_name', COALESCE(v.real_name, ''),
				'application_message', ap.application_message
			) AS extra
		FROM applications ap
		LEFT JOIN activities act ON act.id = ap.activity_id
		LEFT JOIN volunteers v ON v.id = ap.volunteer_id
		LEFT JOIN users u ON u.id = v.user_id
		WHERE ap.status = ANY(%s)`,
	model.ReviewTypeVolunteer: `
		SELECT 'volunteer' AS type, v.id, v.real_name AS title, v.bio AS description,
			v.real_name AS applicant_name, COALESCE(u.phone_number, '') AS applicant_contact,
			v.verification_status AS status, v.created_at, v.updated_at,
			jsonb_build_object(
				'id_card_number', v.id_card_number,
				'region', v.region,
				'skills', v.skills,
				'interests', v.interests
			) AS extra
		FROM volunteers v
		LEFT JOIN users u ON u.id = v.user_id
		WHERE v.verification_status = ANY(%s)`,
}

// buildReviewUnion returns the UNION ALL of the projections for the given types
// together with its status arguments, one []string per branch
func buildReviewUnion(types []model.ReviewType, state model.ReviewState) (string, []any, error) {
	branches := make([]string, 0, len(types))
	args := make([]any, 0, len(types))
	for _, t := range types {
		projection, ok := reviewProjections[t]
		if !ok {
			return "", nil, fmt.Errorf("no projection for review type %q", t)
		}
		args = append(args, model.StateStatuses(t, state))
		branches = append(branches, fmt.Sprintf(projection, fmt.Sprintf("$%d", len(args))))
	}
	return strings.Join(branches, "\nUNION ALL\n"), args, nil
}

// ListReviewItems returns one page of review items and the total number of matching items
func (d *DB) ListReviewItems(ctx context.Context, q model.ReviewQuery) ([]model.ReviewItem, int, error) {
	union, args, err := buildReviewUnion(q.Types, q.State)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := d.pool.QueryRow(ctx, `SELECT COUNT(*) FROM (`+union+`) AS review_items`, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count review items: %w", err)
	}

	pageArgs := append(args, q.Limit, q.Offset)
	query := fmt.Sprintf(`
		SELECT * FROM (%s) AS review_items
		ORDER BY created_at DESC, type ASC, id ASC
		LIMIT $%d OFFSET $%d
	`, union, len(args)+1, len(args)+2)

	rows, err := d.pool.Query(ctx, query, pageArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query review items: %w", err)
	}
	defer rows.Close()

	items := []model.ReviewItem{}
	for rows.Next() {
		var s model.ReviewSummary
		var extra []byte
		if err := rows.Scan(&s.Type, &s.ID, &s.Title, &s.Description, &s.ApplicantName,
			&s.ApplicantContact, &s.Status, &s.CreatedAt, &s.UpdatedAt, &extra); err != nil {
			return nil, 0, fmt.Errorf("failed to scan review item: %w", err)
		}

		item, err := decodeReviewItem(s, extra)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating review items: %w", err)
	}

	return items, total, nil
}

// decodeReviewItem builds the typed review item from the summary and its extra fields
func decodeReviewItem(s model.ReviewSummary, extra []byte) (model.ReviewItem, error) {
	switch s.Type {
	case model.ReviewTypeOrganization:
		item := model.OrganizationReview{ReviewSummary: s}
		if err := json.Unmarshal(extra, &item); err != nil {
			return nil, fmt.Errorf("failed to decode organization review %s: %w", s.ID, err)
		}
		return item, nil
	case model.ReviewTypeActivity:
		var fields struct {
			Location           string    `json:"location"`
			StartTime          time.Time `json:"start_time"`
			EndTime            time.Time `json:"end_time"`
			RequiredVolunteers int       `json:"required_volunteers"`
		}
		if err := json.Unmarshal(extra, &fields); err != nil {
			return nil, fmt.Errorf("failed to decode activity review %s: %w", s.ID, err)
		}
		return model.ActivityReview{
			ReviewSummary:      s,
			Location:           fields.Location,
			StartTime:          fields.StartTime,
			EndTime:            fields.EndTime,
			RequiredVolunteers: fields.RequiredVolunteers,
		}, nil
	case model.ReviewTypeApplication:
		item := model.ApplicationReview{ReviewSummary: s}
		if err := json.Unmarshal(extra, &item); err != nil {
			return nil, fmt.Errorf("failed to decode application review %s: %w", s.ID, err)
		}
		return item, nil
	case model.ReviewTypeVolunteer:
		var fields struct {
			IDCardNumber string `json:"id_card_number"`
			Region       string `json:"region"`
			Skills       string `json:"skills"`
			Interests    string `json:"interests"`
		}
		if err := json.Unmarshal(extra, &fields); err != nil {
			return nil, fmt.Errorf("failed to decode volunteer review %s: %w", s.ID, err)
		}
		return model.VolunteerReview{
			ReviewSummary: s,
			IDCardNumber:  fields.IDCardNumber,
			Region:        fields.Region,
			Skills:        stringlist.Parse(fields.Skills),
			Interests:     stringlist.Parse(fields.Interests),
		}, nil
	}
	return nil, fmt.Errorf("unknown review type %q", s.Type)
}

// GetReviewDetail returns the denormalized record behind a review item.
// Returns nil when no row exists.
func (d *DB) GetReviewDetail(ctx context.Context, reviewType model.ReviewType, id string) (model.ReviewDetail, error) {
	var (
		detail model.ReviewDetail
		err    error
	)

	switch reviewType {
	case model.ReviewTypeOrganization:
		detail, err = d.getOrganizationDetail(ctx, id)
	case model.ReviewTypeActivity:
		detail, err = d.getActivityDetail(ctx, id)
	case model.ReviewTypeApplication:
		detail, err = d.getApplicationDetail(ctx, id)
	case model.ReviewTypeVolunteer:
		detail, err = d.getVolunteerDetail(ctx, id)
	default:
		return nil, fmt.Errorf("unknown review type %q", reviewType)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s detail: %w", reviewType, err)
	}
	return detail, nil
}

func (d *DB) getOrganizationDetail(ctx context.Context, id string) (model.ReviewDetail, error) {
	var detail model.OrganizationDetail
	o := &detail.Organization
	err := d.pool.QueryRow(ctx, `
		SELECT `+organizationColumns+`,
			COALESCE(u.username, ''), COALESCE(u.email, '')
		FROM organizations o
		LEFT JOIN users u ON u.id = o.user_id
		WHERE o.id = $1
	`, id).Scan(append(organizationDest(o), &detail.Username, &detail.Email)...)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (d *DB) getActivityDetail(ctx context.Context, id string) (model.ReviewDetail, error) {
	var detail model.ActivityDetail
	a := &detail.Activity
	err := d.pool.QueryRow(ctx, `
		SELECT `+activityColumns+`,
			COALESCE(o.organization_name, ''), COALESCE(o.contact_person, ''), COALESCE(o.contact_phone, '')
		FROM activities a
		LEFT JOIN organizations o ON o.id = a.organization_id
		WHERE a.id = $1
	`, id).Scan(append(activityDest(a), &detail.OrganizationName, &detail.ContactPerson, &detail.ContactPhone)...)
	if err != nil {
		return nil, err
	}
	detail.RequiredSkills = stringlist.Parse(a.RequiredSkills)
	return detail, nil
}

func (d *DB) getApplicationDetail(ctx context.Context, id string) (model.ReviewDetail, error) {
	var detail model.ApplicationDetail
	var skills, interests string
	ap := &detail.Application
	err := d.pool.QueryRow(ctx, `
		SELECT `+applicationColumns+`,
			COALESCE(v.real_name, ''), COALESCE(v.region, ''), COALESCE(v.skills, ''), COALESCE(v.interests, ''),
			COALESCE(act.title, ''), COALESCE(act.description, ''),
			COALESCE(u.phone_number, ''), COALESCE(u.email, '')
		FROM applications ap
		LEFT JOIN volunteers v ON v.id = ap.volunteer_id
		LEFT JOIN activities act ON act.id = ap.activity_id
		LEFT JOIN users u ON u.id = v.user_id
		WHERE ap.id = $1
	`, id).Scan(append(applicationDest(ap),
		&detail.RealName, &detail.Region, &skills, &interests,
		&detail.ActivityTitle, &detail.ActivityDescription,
		&detail.PhoneNumber, &detail.Email)...)
	if err != nil {
		return nil, err
	}
	detail.Skills = stringlist.Parse(skills)
	detail.Interests = stringlist.Parse(interests)
	return detail, nil
}

func (d *DB) getVolunteerDetail(ctx context.Context, id string) (model.ReviewDetail, error) {
	var detail model.VolunteerDetail
	v := &detail.Volunteer
	err := d.pool.QueryRow(ctx, `
		SELECT `+volunteerColumns+`,
			COALESCE(u.username, ''), COALESCE(u.email, ''), COALESCE(u.phone_number, '')
		FROM volunteers v
		LEFT JOIN users u ON u.id = v.user_id
		WHERE v.id = $1
	`, id).Scan(append(volunteerDest(v), &detail.Username, &detail.Email, &detail.PhoneNumber)...)
	if err != nil {
		return nil, err
	}
	detail.Skills = stringlist.Parse(v.Skills)
	detail.Interests = stringlist.Parse(v.Interests)
	return detail, nil
}
