package rest

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jakechorley/volunteer-platform/internal/config"
	"github.com/jakechorley/volunteer-platform/pkg/core/model"
	"github.com/jakechorley/volunteer-platform/pkg/db"
)

var errDatabase = errors.New("connection refused")

// fakeStore serves fixed rows. broken makes every read fail.
type fakeStore struct {
	volunteers    map[string]*db.Volunteer
	organizations map[string]*db.Organization
	subjects      map[string]*db.ReviewSubject
	accounts      map[string]*db.Account
	activities    map[string]*db.Activity
	listings      []db.ActivityListing
	notifications []db.Notification
	reviewItems   []model.ReviewItem
	lastQuery     model.ReviewQuery
	broken        bool

	decided []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		volunteers: map[string]*db.Volunteer{
			"vol-1": {ID: "vol-1", RealName: "Li Wei", Region: "Beijing", Skills: `["first aid"]`, VerificationStatus: model.VolunteerVerified},
		},
		organizations: map[string]*db.Organization{
			"org-1": {ID: "org-1", Name: "Green Earth", Status: model.OrganizationPendingReview},
		},
		accounts: map[string]*db.Account{
			"user-2": {ID: "user-2", Username: "liwei", Email: "li@example.com", PhoneNumber: "13800000002", UserType: model.UserTypeVolunteer, Status: model.AccountActive},
		},
		activities: map[string]*db.Activity{
			"act-1": {
				ID: "act-1", OrganizationID: "org-1", Title: "River cleanup", Status: model.ActivityRecruiting,
				StartTime: time.Now().Add(24 * time.Hour), EndTime: time.Now().Add(27 * time.Hour),
				RequiredVolunteers: 2, CurrentVolunteers: 2,
			},
			"act-draft": {
				ID: "act-draft", OrganizationID: "org-1", Title: "Tree planting", Status: model.ActivityDraft,
				StartTime: time.Now().Add(48 * time.Hour), EndTime: time.Now().Add(50 * time.Hour), RequiredVolunteers: 5,
			},
		},
		subjects: map[string]*db.ReviewSubject{
			"organization/org-1": {ID: "org-1", Status: model.OrganizationPendingReview, Name: "Green Earth", RecipientUserID: "user-1"},
			"volunteer/vol-1":    {ID: "vol-1", Status: model.VolunteerVerified, Name: "Li Wei", RecipientUserID: "user-2"},
		},
	}
}

func (f *fakeStore) InTx(ctx context.Context, fn func(tx db.Tx) error) error {
	return fn(&fakeTx{f: f})
}

func (f *fakeStore) ListReviewItems(ctx context.Context, q model.ReviewQuery) ([]model.ReviewItem, int, error) {
	if f.broken {
		return nil, 0, errDatabase
	}
	f.lastQuery = q
	return f.reviewItems, len(f.reviewItems), nil
}

func (f *fakeStore) GetReviewDetail(ctx context.Context, reviewType model.ReviewType, id string) (model.ReviewDetail, error) {
	if reviewType == model.ReviewTypeOrganization {
		if o, ok := f.organizations[id]; ok {
			return model.OrganizationDetail{Organization: *o, Username: "greenearth"}, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetReviewStats(ctx context.Context) (*model.ReviewStats, error) {
	if f.broken {
		return nil, errDatabase
	}
	return &model.ReviewStats{Stats: []model.TypeStats{
		{Type: model.ReviewTypeOrganization, PendingCount: 2, ApprovedCount: 1},
		{Type: model.ReviewTypeActivity, PendingCount: 3},
	}}, nil
}

func (f *fakeStore) InsertOrganization(ctx context.Context, o *db.Organization) error {
	for _, existing := range f.organizations {
		if existing.Name == o.Name {
			return model.Conflictf("organization name %q is taken", o.Name)
		}
	}
	f.organizations[o.ID] = o
	return nil
}

func (f *fakeStore) GetOrganization(ctx context.Context, id string) (*db.Organization, error) {
	return f.organizations[id], nil
}

func (f *fakeStore) InsertActivity(ctx context.Context, a *db.Activity) error {
	f.activities[a.ID] = a
	return nil
}

func (f *fakeStore) GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error) {
	if f.broken {
		return nil, errDatabase
	}
	return f.volunteers[id], nil
}

func (f *fakeStore) CountVolunteerApplications(ctx context.Context, volunteerID string) (int, int, error) {
	return 3, 1, nil
}

func (f *fakeStore) UpdateVolunteerProfile(ctx context.Context, id string, update db.VolunteerProfileUpdate) (*db.Volunteer, error) {
	v, ok := f.volunteers[id]
	if !ok {
		return nil, nil
	}
	if update.Region != nil {
		v.Region = *update.Region
	}
	if update.Skills != nil {
		v.Skills = *update.Skills
	}
	return v, nil
}

func (f *fakeStore) ListRecommendationCandidates(ctx context.Context, volunteerID string, openStatuses []string, now time.Time) ([]db.ActivityListing, error) {
	return f.listings, nil
}

func (f *fakeStore) ListVolunteerApplications(ctx context.Context, q db.ApplicationQuery) ([]db.ApplicationListing, int, error) {
	return nil, 0, nil
}

func (f *fakeStore) ListNotifications(ctx context.Context, userID string, limit int) ([]db.Notification, error) {
	var result []db.Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result, nil
}

func (f *fakeStore) ListUsers(ctx context.Context, q db.UserQuery) ([]db.Account, int, error) {
	if f.broken {
		return nil, 0, errDatabase
	}
	accounts := []db.Account{}
	for _, u := range f.accounts {
		if q.UserType == "" || u.UserType == q.UserType {
			accounts = append(accounts, *u)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, len(accounts), nil
}

func (f *fakeStore) GetUserDetail(ctx context.Context, id string) (*db.UserDetail, error) {
	u, ok := f.accounts[id]
	if !ok {
		return nil, nil
	}
	return &db.UserDetail{Account: *u}, nil
}

func (f *fakeStore) ListActivities(ctx context.Context, q db.ActivityQuery) ([]db.ActivityListing, int, error) {
	listings := []db.ActivityListing{}
	for _, a := range f.activities {
		if q.Status == "" || a.Status == q.Status {
			listings = append(listings, db.ActivityListing{Activity: *a})
		}
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].ID < listings[j].ID })
	return listings, len(listings), nil
}

func (f *fakeStore) GetActivityListing(ctx context.Context, id string) (*db.ActivityListing, error) {
	a, ok := f.activities[id]
	if !ok {
		return nil, nil
	}
	return &db.ActivityListing{Activity: *a}, nil
}

func (f *fakeStore) ListOrganizations(ctx context.Context, q db.OrganizationQuery) ([]db.Organization, int, error) {
	organizations := []db.Organization{}
	for _, o := range f.organizations {
		if o.Status == q.Status {
			organizations = append(organizations, *o)
		}
	}
	sort.Slice(organizations, func(i, j int) bool { return organizations[i].Name < organizations[j].Name })
	return organizations, len(organizations), nil
}

type fakeTx struct {
	f *fakeStore
}

func (t *fakeTx) LockReviewSubject(ctx context.Context, reviewType, id string) (*db.ReviewSubject, error) {
	return t.f.subjects[reviewType+"/"+id], nil
}

func (t *fakeTx) UpdateReviewStatus(ctx context.Context, reviewType, id, status, message string, reviewedAt time.Time) error {
	t.f.subjects[reviewType+"/"+id].Status = status
	t.f.decided = append(t.f.decided, reviewType+"/"+id)
	return nil
}

func (t *fakeTx) ReleaseActivitySlot(ctx context.Context, activityID string) error { return nil }

func (t *fakeTx) InsertNotification(ctx context.Context, n *db.Notification) error {
	t.f.notifications = append(t.f.notifications, *n)
	return nil
}

func (t *fakeTx) LockActivity(ctx context.Context, activityID string) (*db.Activity, error) {
	a, ok := t.f.activities[activityID]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (t *fakeTx) HasApplied(ctx context.Context, volunteerID, activityID string) (bool, error) {
	return false, nil
}

func (t *fakeTx) ClaimActivitySlot(ctx context.Context, activityID string) (bool, error) {
	return false, nil
}

func (t *fakeTx) InsertApplication(ctx context.Context, a *db.Application) error { return nil }

func (t *fakeTx) LockApplication(ctx context.Context, applicationID string) (*db.Application, error) {
	return nil, nil
}

func (t *fakeTx) DeleteApplication(ctx context.Context, applicationID string) error { return nil }

func (t *fakeTx) FindAccountConflict(ctx context.Context, username, email, phoneNumber, excludeID string) (string, error) {
	for id, u := range t.f.accounts {
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

func (t *fakeTx) InsertAccount(ctx context.Context, u *db.Account) error {
	t.f.accounts[u.ID] = u
	return nil
}

func (t *fakeTx) InsertVolunteer(ctx context.Context, v *db.Volunteer) error {
	t.f.volunteers[v.ID] = v
	return nil
}

func (t *fakeTx) InsertOrganization(ctx context.Context, o *db.Organization) error {
	return t.f.InsertOrganization(ctx, o)
}

func (t *fakeTx) LockAccount(ctx context.Context, id string) (*db.Account, error) {
	u, ok := t.f.accounts[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (t *fakeTx) UpdateAccount(ctx context.Context, id string, update db.AccountUpdate) (*db.Account, error) {
	u := t.f.accounts[id]
	if update.Status != nil {
		u.Status = *update.Status
	}
	if update.Email != nil {
		u.Email = *update.Email
	}
	return u, nil
}

func (t *fakeTx) UpdateOwnedVolunteer(ctx context.Context, userID string, update db.OwnedVolunteerUpdate) error {
	return nil
}

func (t *fakeTx) RenameOwnedOrganization(ctx context.Context, userID, name string) error {
	return nil
}

func (t *fakeTx) DeleteAccount(ctx context.Context, id string) error {
	delete(t.f.accounts, id)
	return nil
}

func (t *fakeTx) UpdateActivity(ctx context.Context, a *db.Activity) error {
	t.f.activities[a.ID] = a
	return nil
}

func (t *fakeTx) DeleteActivity(ctx context.Context, id string) error {
	delete(t.f.activities, id)
	return nil
}

func testConfig() *config.Config {
	threshold := 5
	return &config.Config{
		Server:  config.ServerConfig{ListenAddr: ":0", AdminAPIToken: "secret-token"},
		Reviews: config.ReviewsConfig{DefaultPageSize: 10, MaxPageSize: 100},
		Recommendations: config.RecommendationsConfig{
			DefaultLimit:     10,
			MaxLimit:         50,
			UrgencyThreshold: &threshold,
		},
	}
}
