package rest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-platform/pkg/core/model"
	"github.com/jakechorley/volunteer-platform/pkg/db"
)

type testResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *errorBody      `json:"error"`
}

func doRequest(t *testing.T, s *Server, method, path, body string, headers map[string]string) (int, testResponse) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out testResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

var adminAuth = map[string]string{"Authorization": "Bearer secret-token"}

func newTestServer(store *fakeStore) *Server {
	return NewServer(store, nil, testConfig(), zap.NewNop())
}

func TestHealthCheck(t *testing.T) {
	status, resp := doRequest(t, newTestServer(newFakeStore()), http.MethodGet, "/", "", nil)

	assert.Equal(t, http.StatusOK, status)
	assert.True(t, resp.Success)
	assert.JSONEq(t, `{"status":"ok"}`, string(resp.Data))
}

func TestAdminRoutes_RequireToken(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{name: "missing", headers: nil, want: http.StatusUnauthorized},
		{name: "wrong token", headers: map[string]string{"Authorization": "Bearer nope"}, want: http.StatusUnauthorized},
		{name: "wrong scheme", headers: map[string]string{"Authorization": "Basic secret-token"}, want: http.StatusUnauthorized},
		{name: "valid", headers: adminAuth, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := doRequest(t, newTestServer(newFakeStore()), http.MethodGet, "/api/v1/admin/reviews", "", tt.headers)
			assert.Equal(t, tt.want, status)
			if tt.want == http.StatusUnauthorized {
				assert.False(t, resp.Success)
				require.NotNil(t, resp.Error)
				assert.Equal(t, CodeUnauthorized, resp.Error.Code)
			}
		})
	}
}

func TestAdminRoutes_OpenWithoutConfiguredToken(t *testing.T) {
	cfg := testConfig()
	cfg.Server.AdminAPIToken = ""
	s := NewServer(newFakeStore(), nil, cfg, zap.NewNop())

	status, _ := doRequest(t, s, http.MethodGet, "/api/v1/admin/reviews/stats", "", nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestListReviews(t *testing.T) {
	store := newFakeStore()
	store.reviewItems = []model.ReviewItem{
		model.OrganizationReview{ReviewSummary: model.ReviewSummary{ID: "org-1", Type: model.ReviewTypeOrganization, Title: "Green Earth"}},
	}

	status, resp := doRequest(t, newTestServer(store), http.MethodGet, "/api/v1/admin/reviews?type=organization&page=1&limit=5", "", adminAuth)
	require.Equal(t, http.StatusOK, status)

	var page struct {
		Items []map[string]any `json:"items"`
		Total int              `json:"total"`
		Limit int              `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &page))
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 5, page.Limit)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "organization", page.Items[0]["type"])
	assert.Equal(t, []model.ReviewType{model.ReviewTypeOrganization}, store.lastQuery.Types)
}

func TestListReviews_ValidationErrors(t *testing.T) {
	paths := []string{
		"/api/v1/admin/reviews?type=event",
		"/api/v1/admin/reviews?status=archived",
		"/api/v1/admin/reviews?page=two",
		"/api/v1/admin/reviews?limit=1000",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			status, resp := doRequest(t, newTestServer(newFakeStore()), http.MethodGet, path, "", adminAuth)
			assert.Equal(t, http.StatusBadRequest, status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, CodeValidation, resp.Error.Code)
		})
	}
}

func TestReviewStats(t *testing.T) {
	status, resp := doRequest(t, newTestServer(newFakeStore()), http.MethodGet, "/api/v1/admin/reviews/stats", "", adminAuth)
	require.Equal(t, http.StatusOK, status)

	var stats model.ReviewStats
	require.NoError(t, json.Unmarshal(resp.Data, &stats))
	assert.Equal(t, 5, stats.Totals.TotalPending)
	assert.Equal(t, 1, stats.Totals.TotalApproved)
}

func TestInternalErrorIsOpaque(t *testing.T) {
	store := newFakeStore()
	store.broken = true

	status, resp := doRequest(t, newTestServer(store), http.MethodGet, "/api/v1/admin/reviews/stats", "", adminAuth)
	assert.Equal(t, http.StatusInternalServerError, status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInternal, resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "connection refused")
}

func TestGetReview(t *testing.T) {
	s := newTestServer(newFakeStore())

	status, resp := doRequest(t, s, http.MethodGet, "/api/v1/admin/reviews/org-1?type=organization", "", adminAuth)
	require.Equal(t, http.StatusOK, status)
	var detail map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &detail))
	assert.Equal(t, "Green Earth", detail["organization_name"])
	assert.Equal(t, "greenearth", detail["username"])

	status, resp = doRequest(t, s, http.MethodGet, "/api/v1/admin/reviews/missing?type=organization", "", adminAuth)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, CodeNotFound, resp.Error.Code)

	status, _ = doRequest(t, s, http.MethodGet, "/api/v1/admin/reviews/org-1", "", adminAuth)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDecideReview(t *testing.T) {
	store := newFakeStore()
	s := newTestServer(store)

	status, resp := doRequest(t, s, http.MethodPut, "/api/v1/admin/reviews/org-1",
		`{"type":"organization","action":"reject","review_message":"Missing licence"}`, adminAuth)
	require.Equal(t, http.StatusOK, status)

	var result map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, "rejected", result["status"])
	assert.NotEmpty(t, result["notification_id"])
	assert.Equal(t, []string{"organization/org-1"}, store.decided)
	require.Len(t, store.notifications, 1)
	assert.Contains(t, store.notifications[0].Content, "Reason: Missing licence")
}

func TestDecideReview_Errors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		body     string
		wantCode string
		want     int
	}{
		{
			name:     "reject without message",
			path:     "/api/v1/admin/reviews/org-1",
			body:     `{"type":"organization","action":"reject"}`,
			want:     http.StatusBadRequest,
			wantCode: CodeValidation,
		},
		{
			name:     "malformed body",
			path:     "/api/v1/admin/reviews/org-1",
			body:     `{"type":`,
			want:     http.StatusBadRequest,
			wantCode: CodeValidation,
		},
		{
			name:     "unknown item",
			path:     "/api/v1/admin/reviews/ghost",
			body:     `{"type":"activity","action":"approve"}`,
			want:     http.StatusNotFound,
			wantCode: CodeNotFound,
		},
		{
			name:     "already decided",
			path:     "/api/v1/admin/reviews/vol-1",
			body:     `{"type":"volunteer","action":"approve"}`,
			want:     http.StatusConflict,
			wantCode: CodeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			status, resp := doRequest(t, newTestServer(store), http.MethodPut, tt.path, tt.body, adminAuth)
			assert.Equal(t, tt.want, status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Empty(t, store.notifications)
		})
	}
}

func TestRegisterOrganization(t *testing.T) {
	s := newTestServer(newFakeStore())
	body := `{"organization_name":"City Helpers","unified_social_credit_code":"91110000X","contact_person":"Chen","contact_phone":"13800000000"}`

	status, resp := doRequest(t, s, http.MethodPost, "/api/v1/organizations", body, nil)
	require.Equal(t, http.StatusCreated, status)
	var org db.Organization
	require.NoError(t, json.Unmarshal(resp.Data, &org))
	assert.Equal(t, "pending_review", org.Status)

	status, resp = doRequest(t, s, http.MethodPost, "/api/v1/organizations", body, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, CodeConflict, resp.Error.Code)
}

func TestProposeActivity_OrganizationNotApproved(t *testing.T) {
	start := time.Now().Add(48 * time.Hour).UTC()
	body := `{"organization_id":"org-1","title":"River cleanup","location":"Beijing","required_volunteers":5,` +
		`"start_time":"` + start.Format(time.RFC3339) + `","end_time":"` + start.Add(time.Hour).Format(time.RFC3339) + `"}`

	status, resp := doRequest(t, newTestServer(newFakeStore()), http.MethodPost, "/api/v1/activities", body, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, CodeForbidden, resp.Error.Code)
}

func TestRecommendations(t *testing.T) {
	store := newFakeStore()
	store.listings = []db.ActivityListing{
		{Activity: db.Activity{ID: "act-2", Location: "Shanghai", StartTime: time.Now().Add(time.Hour), RequiredVolunteers: 10, CurrentVolunteers: 9}},
		{Activity: db.Activity{ID: "act-1", Location: "Beijing", RequiredSkills: "first aid", StartTime: time.Now().Add(2 * time.Hour), RequiredVolunteers: 10, CurrentVolunteers: 9}},
	}

	status, resp := doRequest(t, newTestServer(store), http.MethodGet, "/api/v1/volunteers/vol-1/recommendations?limit=1", "", nil)
	require.Equal(t, http.StatusOK, status)

	var result struct {
		Recommendations []struct {
			ID        string `json:"id"`
			MatchInfo struct {
				TotalScore    int      `json:"total_score"`
				SkillMatches  []string `json:"skill_matches"`
				LocationMatch bool     `json:"location_match"`
			} `json:"match_info"`
		} `json:"recommendations"`
		Profile struct {
			Region string `json:"region"`
		} `json:"volunteer_profile"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "act-1", result.Recommendations[0].ID)
	assert.Equal(t, 30, result.Recommendations[0].MatchInfo.TotalScore)
	assert.Equal(t, []string{"first aid"}, result.Recommendations[0].MatchInfo.SkillMatches)
	assert.True(t, result.Recommendations[0].MatchInfo.LocationMatch)
	assert.Equal(t, "Beijing", result.Profile.Region)

	status, resp = doRequest(t, newTestServer(store), http.MethodGet, "/api/v1/volunteers/ghost/recommendations", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, CodeNotFound, resp.Error.Code)
}

func TestVolunteerProfile(t *testing.T) {
	s := newTestServer(newFakeStore())

	status, resp := doRequest(t, s, http.MethodGet, "/api/v1/volunteers/vol-1/profile", "", nil)
	require.Equal(t, http.StatusOK, status)
	var profile map[string]any
	require.NoError(t, json.Unmarshal(resp.Data, &profile))
	assert.Equal(t, []any{"first aid"}, profile["skills"])
	assert.EqualValues(t, 3, profile["approved_activities"])

	status, resp = doRequest(t, s, http.MethodPut, "/api/v1/volunteers/vol-1/profile", `{"skills":["cooking","driving"]}`, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(resp.Data, &profile))
	assert.Equal(t, []any{"cooking", "driving"}, profile["skills"])

	status, _ = doRequest(t, s, http.MethodPut, "/api/v1/volunteers/vol-1/profile", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestApply_ActivityFull(t *testing.T) {
	status, resp := doRequest(t, newTestServer(newFakeStore()), http.MethodPost, "/api/v1/volunteers/vol-1/applications",
		`{"activity_id":"act-1","application_message":"hi"}`, nil)

	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, CodeConflict, resp.Error.Code)
}

func TestCancelApplication_NotFound(t *testing.T) {
	status, resp := doRequest(t, newTestServer(newFakeStore()), http.MethodDelete, "/api/v1/volunteers/vol-1/applications/app-9", "", nil)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, CodeNotFound, resp.Error.Code)
}

func TestListApplications_EmptyPage(t *testing.T) {
	status, resp := doRequest(t, newTestServer(newFakeStore()), http.MethodGet, "/api/v1/volunteers/vol-1/applications?type=upcoming", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"applications":[],"total":0,"page":1,"limit":10,"total_pages":0}`, string(resp.Data))
}

func TestListNotifications(t *testing.T) {
	store := newFakeStore()
	store.notifications = []db.Notification{{ID: "n-1", UserID: "user-1", Title: "hello"}}

	status, resp := doRequest(t, newTestServer(store), http.MethodGet, "/api/v1/users/user-1/notifications", "", nil)
	require.Equal(t, http.StatusOK, status)
	var notifications []db.Notification
	require.NoError(t, json.Unmarshal(resp.Data, &notifications))
	require.Len(t, notifications, 1)
	assert.Equal(t, "n-1", notifications[0].ID)

	status, resp = doRequest(t, newTestServer(store), http.MethodGet, "/api/v1/users/nobody/notifications", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(resp.Data))
}

func TestUnknownRoute(t *testing.T) {
	status, resp := doRequest(t, newTestServer(newFakeStore()), http.MethodGet, "/api/v1/nothing-here", "", nil)

	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, resp.Success)
	assert.Equal(t, CodeNotFound, resp.Error.Code)
}
