package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/jakechorley/volunteer-platform/internal/config"
	"github.com/jakechorley/volunteer-platform/pkg/core/model"
	"github.com/jakechorley/volunteer-platform/pkg/db"
)

var errStore = errors.New("store unavailable")

// memStore is an in-memory store implementing every service store interface.
// InTx snapshots the rows and restores them when the callback fails.
type memStore struct {
	accounts      map[string]*db.Account
	organizations map[string]*db.Organization
	activities    map[string]*db.Activity
	volunteers    map[string]*db.Volunteer
	applications  map[string]*db.Application
	notifications []db.Notification

	// review queue fixtures
	reviewItems []model.ReviewItem
	reviewTotal int
	lastQuery   *model.ReviewQuery
	listCalls   int
	details     map[string]model.ReviewDetail
	stats       *model.ReviewStats

	// failOn makes the named method return errStore
	failOn map[string]bool

	commits   int
	rollbacks int
}

func newMemStore() *memStore {
	return &memStore{
		accounts:      map[string]*db.Account{},
		organizations: map[string]*db.Organization{},
		activities:    map[string]*db.Activity{},
		volunteers:    map[string]*db.Volunteer{},
		applications:  map[string]*db.Application{},
		details:       map[string]model.ReviewDetail{},
		failOn:        map[string]bool{},
	}
}

func cloneRows[T any](rows map[string]*T) map[string]*T {
	out := make(map[string]*T, len(rows))
	for k, v := range rows {
		c := *v
		out[k] = &c
	}
	return out
}

func (m *memStore) fail(method string) error {
	if m.failOn[method] {
		return errStore
	}
	return nil
}

// InTx implements db.Transactor
func (m *memStore) InTx(ctx context.Context, fn func(tx db.Tx) error) error {
	accounts := cloneRows(m.accounts)
	organizations := cloneRows(m.organizations)
	activities := cloneRows(m.activities)
	volunteers := cloneRows(m.volunteers)
	applications := cloneRows(m.applications)
	notifications := append([]db.Notification(nil), m.notifications...)

	if err := fn(&memTx{m: m}); err != nil {
		m.accounts = accounts
		m.organizations = organizations
		m.activities = activities
		m.volunteers = volunteers
		m.applications = applications
		m.notifications = notifications
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

func (m *memStore) ListReviewItems(ctx context.Context, q model.ReviewQuery) ([]model.ReviewItem, int, error) {
	m.listCalls++
	m.lastQuery = &q
	if err := m.fail("ListReviewItems"); err != nil {
		return nil, 0, err
	}
	return m.reviewItems, m.reviewTotal, nil
}

func (m *memStore) GetReviewDetail(ctx context.Context, reviewType model.ReviewType, id string) (model.ReviewDetail, error) {
	if err := m.fail("GetReviewDetail"); err != nil {
		return nil, err
	}
	return m.details[string(reviewType)+"/"+id], nil
}

func (m *memStore) GetReviewStats(ctx context.Context) (*model.ReviewStats, error) {
	if err := m.fail("GetReviewStats"); err != nil {
		return nil, err
	}
	stats := *m.stats
	return &stats, nil
}

func (m *memStore) GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error) {
	if err := m.fail("GetVolunteer"); err != nil {
		return nil, err
	}
	v, ok := m.volunteers[id]
	if !ok {
		return nil, nil
	}
	c := *v
	return &c, nil
}

func (m *memStore) CountVolunteerApplications(ctx context.Context, volunteerID string) (int, int, error) {
	approved, pending := 0, 0
	for _, ap := range m.applications {
		if ap.VolunteerID != volunteerID {
			continue
		}
		switch ap.Status {
		case model.ApplicationApproved:
			approved++
		case model.ApplicationPending:
			pending++
		}
	}
	return approved, pending, nil
}

func (m *memStore) UpdateVolunteerProfile(ctx context.Context, id string, update db.VolunteerProfileUpdate) (*db.Volunteer, error) {
	v, ok := m.volunteers[id]
	if !ok {
		return nil, nil
	}
	if update.Region != nil {
		v.Region = *update.Region
	}
	if update.Skills != nil {
		v.Skills = *update.Skills
	}
	if update.Interests != nil {
		v.Interests = *update.Interests
	}
	if update.Bio != nil {
		v.Bio = *update.Bio
	}
	c := *v
	return &c, nil
}

// ListRecommendationCandidates mirrors the SQL filter of the Postgres store
func (m *memStore) ListRecommendationCandidates(ctx context.Context, volunteerID string, openStatuses []string, now time.Time) ([]db.ActivityListing, error) {
	if err := m.fail("ListRecommendationCandidates"); err != nil {
		return nil, err
	}

	applied := map[string]bool{}
	for _, ap := range m.applications {
		if ap.VolunteerID == volunteerID {
			applied[ap.ActivityID] = true
		}
	}

	listings := []db.ActivityListing{}
	for _, a := range m.activities {
		open := false
		for _, s := range openStatuses {
			if a.Status == s {
				open = true
			}
		}
		if !open || !a.StartTime.After(now) || a.CurrentVolunteers >= a.RequiredVolunteers || applied[a.ID] {
			continue
		}
		listing := db.ActivityListing{Activity: *a}
		if o, ok := m.organizations[a.OrganizationID]; ok {
			listing.Organization = db.OrganizationContact{Name: o.Name, ContactPerson: o.ContactPerson, ContactPhone: o.ContactPhone, Address: o.Address}
		}
		listings = append(listings, listing)
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].ID < listings[j].ID })
	return listings, nil
}

func (m *memStore) ListVolunteerApplications(ctx context.Context, q db.ApplicationQuery) ([]db.ApplicationListing, int, error) {
	listings := []db.ApplicationListing{}
	for _, ap := range m.applications {
		if ap.VolunteerID != q.VolunteerID {
			continue
		}
		if q.Filter == string(model.ApplicationFilterPending) && ap.Status != model.ApplicationPending {
			continue
		}
		listing := db.ApplicationListing{Application: *ap}
		if a, ok := m.activities[ap.ActivityID]; ok {
			listing.Activity = *a
		}
		listings = append(listings, listing)
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].ID < listings[j].ID })
	total := len(listings)
	if q.Offset >= len(listings) {
		return []db.ApplicationListing{}, total, nil
	}
	end := q.Offset + q.Limit
	if end > len(listings) {
		end = len(listings)
	}
	return listings[q.Offset:end], total, nil
}

func (m *memStore) InsertOrganization(ctx context.Context, o *db.Organization) error {
	for _, existing := range m.organizations {
		if existing.Name == o.Name || existing.UnifiedSocialCreditCode == o.UnifiedSocialCreditCode {
			return model.Conflictf("organization already registered")
		}
	}
	c := *o
	m.organizations[o.ID] = &c
	return nil
}

func (m *memStore) GetOrganization(ctx context.Context, id string) (*db.Organization, error) {
	o, ok := m.organizations[id]
	if !ok {
		return nil, nil
	}
	c := *o
	return &c, nil
}

func (m *memStore) InsertActivity(ctx context.Context, a *db.Activity) error {
	if err := m.fail("InsertActivity"); err != nil {
		return err
	}
	c := *a
	m.activities[a.ID] = &c
	return nil
}

func (m *memStore) InsertNotifications(ctx context.Context, notifications []db.Notification) error {
	if err := m.fail("InsertNotifications"); err != nil {
		return err
	}
	m.notifications = append(m.notifications, notifications...)
	return nil
}

func (m *memStore) ListNotifications(ctx context.Context, userID string, limit int) ([]db.Notification, error) {
	result := []db.Notification{}
	for _, n := range m.notifications {
		if n.UserID == userID && len(result) < limit {
			result = append(result, n)
		}
	}
	return result, nil
}

func (m *memStore) ListUsers(ctx context.Context, q db.UserQuery) ([]db.Account, int, error) {
	if err := m.fail("ListUsers"); err != nil {
		return nil, 0, err
	}
	accounts := []db.Account{}
	for _, u := range m.accounts {
		if q.Search != "" && !strings.Contains(u.Username+" "+u.Email+" "+u.PhoneNumber, q.Search) {
			continue
		}
		if (q.UserType != "" && u.UserType != q.UserType) || (q.Status != "" && u.Status != q.Status) {
			continue
		}
		accounts = append(accounts, *u)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return pageOf(accounts, q.Offset, q.Limit), len(accounts), nil
}

func (m *memStore) GetUserDetail(ctx context.Context, id string) (*db.UserDetail, error) {
	if err := m.fail("GetUserDetail"); err != nil {
		return nil, err
	}
	u, ok := m.accounts[id]
	if !ok {
		return nil, nil
	}
	detail := &db.UserDetail{Account: *u}
	for _, v := range m.volunteers {
		if v.UserID == id {
			c := *v
			detail.Volunteer = &c
		}
	}
	for _, o := range m.organizations {
		if o.UserID == id {
			c := *o
			detail.Organization = &c
		}
	}
	return detail, nil
}

func (m *memStore) ListActivities(ctx context.Context, q db.ActivityQuery) ([]db.ActivityListing, int, error) {
	if err := m.fail("ListActivities"); err != nil {
		return nil, 0, err
	}
	listings := []db.ActivityListing{}
	for _, a := range m.activities {
		if q.Search != "" && !strings.Contains(a.Title+" "+a.Description+" "+a.Location, q.Search) {
			continue
		}
		if (q.Category != "" && a.Category != q.Category) || (q.Status != "" && a.Status != q.Status) ||
			(q.OrganizationID != "" && a.OrganizationID != q.OrganizationID) {
			continue
		}
		listings = append(listings, m.listing(a))
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].ID < listings[j].ID })
	return pageOf(listings, q.Offset, q.Limit), len(listings), nil
}

func (m *memStore) GetActivityListing(ctx context.Context, id string) (*db.ActivityListing, error) {
	a, ok := m.activities[id]
	if !ok {
		return nil, nil
	}
	l := m.listing(a)
	return &l, nil
}

func (m *memStore) listing(a *db.Activity) db.ActivityListing {
	l := db.ActivityListing{Activity: *a}
	if o, ok := m.organizations[a.OrganizationID]; ok {
		l.Organization = db.OrganizationContact{Name: o.Name, ContactPerson: o.ContactPerson, ContactPhone: o.ContactPhone, Address: o.Address}
	}
	return l
}

func (m *memStore) ListOrganizations(ctx context.Context, q db.OrganizationQuery) ([]db.Organization, int, error) {
	if err := m.fail("ListOrganizations"); err != nil {
		return nil, 0, err
	}
	organizations := []db.Organization{}
	for _, o := range m.organizations {
		if q.Search != "" && !strings.Contains(o.Name+" "+o.ContactPerson+" "+o.ContactEmail, q.Search) {
			continue
		}
		if q.Status != "" && o.Status != q.Status {
			continue
		}
		organizations = append(organizations, *o)
	}
	sort.Slice(organizations, func(i, j int) bool { return organizations[i].Name < organizations[j].Name })
	if q.Limit == 0 {
		return organizations, len(organizations), nil
	}
	return pageOf(organizations, q.Offset, q.Limit), len(organizations), nil
}

func pageOf[T any](rows []T, offset, limit int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

// memTx implements db.Tx against the memStore rows
type memTx struct {
	m *memStore
}

func (t *memTx) recipient(userID string) string {
	if _, ok := t.m.accounts[userID]; ok {
		return userID
	}
	return ""
}

func (t *memTx) LockReviewSubject(ctx context.Context, reviewType, id string) (*db.ReviewSubject, error) {
	if err := t.m.fail("LockReviewSubject"); err != nil {
		return nil, err
	}

	switch model.ReviewType(reviewType) {
	case model.ReviewTypeOrganization:
		if o, ok := t.m.organizations[id]; ok {
			return &db.ReviewSubject{ID: id, Status: o.Status, Name: o.Name, RecipientUserID: t.recipient(o.UserID)}, nil
		}
	case model.ReviewTypeActivity:
		if a, ok := t.m.activities[id]; ok {
			s := &db.ReviewSubject{ID: id, Status: a.Status, Name: a.Title}
			if o, ok := t.m.organizations[a.OrganizationID]; ok {
				s.RecipientUserID = t.recipient(o.UserID)
			}
			return s, nil
		}
	case model.ReviewTypeApplication:
		if ap, ok := t.m.applications[id]; ok {
			s := &db.ReviewSubject{ID: id, Status: ap.Status, ActivityID: ap.ActivityID}
			if a, ok := t.m.activities[ap.ActivityID]; ok {
				s.Name = a.Title
			}
			if v, ok := t.m.volunteers[ap.VolunteerID]; ok {
				s.RecipientUserID = t.recipient(v.UserID)
			}
			return s, nil
		}
	case model.ReviewTypeVolunteer:
		if v, ok := t.m.volunteers[id]; ok {
			return &db.ReviewSubject{ID: id, Status: v.VerificationStatus, Name: v.RealName, RecipientUserID: t.recipient(v.UserID)}, nil
		}
	}
	return nil, nil
}

func (t *memTx) UpdateReviewStatus(ctx context.Context, reviewType, id, status, message string, reviewedAt time.Time) error {
	if err := t.m.fail("UpdateReviewStatus"); err != nil {
		return err
	}

	switch model.ReviewType(reviewType) {
	case model.ReviewTypeOrganization:
		o := t.m.organizations[id]
		o.Status, o.ReviewedAt = status, &reviewedAt
	case model.ReviewTypeActivity:
		a := t.m.activities[id]
		a.Status, a.ReviewedAt = status, &reviewedAt
	case model.ReviewTypeApplication:
		ap := t.m.applications[id]
		ap.Status, ap.ReviewedAt, ap.ReviewMessage = status, &reviewedAt, message
	case model.ReviewTypeVolunteer:
		v := t.m.volunteers[id]
		v.VerificationStatus, v.ReviewedAt = status, &reviewedAt
	}
	return nil
}

func (t *memTx) ReleaseActivitySlot(ctx context.Context, activityID string) error {
	if a, ok := t.m.activities[activityID]; ok && a.CurrentVolunteers > 0 {
		a.CurrentVolunteers--
	}
	return nil
}

func (t *memTx) InsertNotification(ctx context.Context, n *db.Notification) error {
	if err := t.m.fail("InsertNotification"); err != nil {
		return err
	}
	t.m.notifications = append(t.m.notifications, *n)
	return nil
}

func (t *memTx) LockActivity(ctx context.Context, activityID string) (*db.Activity, error) {
	a, ok := t.m.activities[activityID]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (t *memTx) HasApplied(ctx context.Context, volunteerID, activityID string) (bool, error) {
	for _, ap := range t.m.applications {
		if ap.VolunteerID == volunteerID && ap.ActivityID == activityID {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) ClaimActivitySlot(ctx context.Context, activityID string) (bool, error) {
	a, ok := t.m.activities[activityID]
	if !ok || a.CurrentVolunteers >= a.RequiredVolunteers {
		return false, nil
	}
	a.CurrentVolunteers++
	return true, nil
}

func (t *memTx) InsertApplication(ctx context.Context, ap *db.Application) error {
	if err := t.m.fail("InsertApplication"); err != nil {
		return err
	}
	c := *ap
	t.m.applications[ap.ID] = &c
	return nil
}

func (t *memTx) LockApplication(ctx context.Context, applicationID string) (*db.Application, error) {
	ap, ok := t.m.applications[applicationID]
	if !ok {
		return nil, nil
	}
	c := *ap
	return &c, nil
}

func (t *memTx) DeleteApplication(ctx context.Context, applicationID string) error {
	delete(t.m.applications, applicationID)
	return nil
}

func (t *memTx) FindAccountConflict(ctx context.Context, username, email, phoneNumber, excludeID string) (string, error) {
	if err := t.m.fail("FindAccountConflict"); err != nil {
		return "", err
	}
	ids := make([]string, 0, len(t.m.accounts))
	for id := range t.m.accounts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		u := t.m.accounts[id]
		switch {
		case id == excludeID:
		case username != "" && u.Username == username:
			return "username", nil
		case email != "" && u.Email == email:
			return "email", nil
		case phoneNumber != "" && u.PhoneNumber == phoneNumber:
			return "phone_number", nil
		}
	}
	return "", nil
}

func (t *memTx) InsertAccount(ctx context.Context, u *db.Account) error {
	if err := t.m.fail("InsertAccount"); err != nil {
		return err
	}
	c := *u
	t.m.accounts[u.ID] = &c
	return nil
}

func (t *memTx) InsertVolunteer(ctx context.Context, v *db.Volunteer) error {
	c := *v
	t.m.volunteers[v.ID] = &c
	return nil
}

func (t *memTx) InsertOrganization(ctx context.Context, o *db.Organization) error {
	if err := t.m.fail("InsertOrganization"); err != nil {
		return err
	}
	return t.m.InsertOrganization(ctx, o)
}

func (t *memTx) LockAccount(ctx context.Context, id string) (*db.Account, error) {
	u, ok := t.m.accounts[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (t *memTx) UpdateAccount(ctx context.Context, id string, update db.AccountUpdate) (*db.Account, error) {
	u, ok := t.m.accounts[id]
	if !ok {
		return nil, nil
	}
	if update.Username != nil {
		u.Username = *update.Username
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	if update.PhoneNumber != nil {
		u.PhoneNumber = *update.PhoneNumber
	}
	if update.Status != nil {
		u.Status = *update.Status
	}
	c := *u
	return &c, nil
}

func (t *memTx) UpdateOwnedVolunteer(ctx context.Context, userID string, update db.OwnedVolunteerUpdate) error {
	for _, v := range t.m.volunteers {
		if v.UserID != userID {
			continue
		}
		if update.RealName != nil {
			v.RealName = *update.RealName
		}
		if update.VerificationStatus != nil {
			v.VerificationStatus = *update.VerificationStatus
		}
	}
	return nil
}

func (t *memTx) RenameOwnedOrganization(ctx context.Context, userID, name string) error {
	for _, o := range t.m.organizations {
		if o.UserID != userID && o.Name == name {
			return model.Conflictf("organization name %q is taken", name)
		}
	}
	for _, o := range t.m.organizations {
		if o.UserID == userID {
			o.Name = name
		}
	}
	return nil
}

func (t *memTx) DeleteAccount(ctx context.Context, id string) error {
	if err := t.m.fail("DeleteAccount"); err != nil {
		return err
	}
	delete(t.m.accounts, id)
	return nil
}

func (t *memTx) UpdateActivity(ctx context.Context, a *db.Activity) error {
	if err := t.m.fail("UpdateActivity"); err != nil {
		return err
	}
	c := *a
	t.m.activities[a.ID] = &c
	return nil
}

func (t *memTx) DeleteActivity(ctx context.Context, id string) error {
	delete(t.m.activities, id)
	return nil
}

// mockPublisher records published events
type mockPublisher struct {
	events []model.ReviewDecided
	err    error
}

func (p *mockPublisher) PublishReviewDecided(ctx context.Context, event model.ReviewDecided) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func testConfig() *config.Config {
	threshold := 5
	return &config.Config{
		Reviews: config.ReviewsConfig{DefaultPageSize: 10, MaxPageSize: 100},
		Recommendations: config.RecommendationsConfig{
			DefaultLimit:     10,
			MaxLimit:         50,
			UrgencyThreshold: &threshold,
		},
	}
}

// seedReviewFixtures adds one pending item of every review type, each owned by an existing account
func seedReviewFixtures(m *memStore) {
	future := time.Now().Add(72 * time.Hour)

	m.accounts["user-org"] = &db.Account{ID: "user-org", Username: "greenearth", UserType: model.UserTypeOrganizationAdmin, Status: model.AccountActive}
	m.accounts["user-vol"] = &db.Account{ID: "user-vol", Username: "liwei", UserType: model.UserTypeVolunteer, Status: model.AccountActive}

	m.organizations["org-1"] = &db.Organization{ID: "org-1", UserID: "user-org", Name: "Green Earth", Status: model.OrganizationPendingReview}
	m.organizations["org-approved"] = &db.Organization{ID: "org-approved", UserID: "user-org", Name: "City Helpers", Status: model.OrganizationApproved}
	m.activities["act-1"] = &db.Activity{
		ID: "act-1", OrganizationID: "org-approved", Title: "River cleanup", Status: model.ActivityPendingReview,
		StartTime: future, EndTime: future.Add(3 * time.Hour), RequiredVolunteers: 10,
	}
	m.activities["act-open"] = &db.Activity{
		ID: "act-open", OrganizationID: "org-approved", Title: "Food bank", Status: model.ActivityRecruiting,
		StartTime: future, EndTime: future.Add(2 * time.Hour), RequiredVolunteers: 10, CurrentVolunteers: 5,
	}
	m.volunteers["vol-1"] = &db.Volunteer{ID: "vol-1", UserID: "user-vol", RealName: "Li Wei", VerificationStatus: model.VolunteerPending}
	m.volunteers["vol-verified"] = &db.Volunteer{ID: "vol-verified", UserID: "user-vol", RealName: "Zhang Min", VerificationStatus: model.VolunteerVerified}
	m.applications["app-1"] = &db.Application{ID: "app-1", VolunteerID: "vol-verified", ActivityID: "act-open", Status: model.ApplicationPending}
}
