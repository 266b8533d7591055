package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/volunteer-platform/internal/config"
	"github.com/jakechorley/volunteer-platform/pkg/core/matcher"
	"github.com/jakechorley/volunteer-platform/pkg/core/matcher/criteria"
	"github.com/jakechorley/volunteer-platform/pkg/core/model"
	"github.com/jakechorley/volunteer-platform/pkg/db"
	"github.com/jakechorley/volunteer-platform/pkg/utils/stringlist"
)

// RecommendationStore defines the database operations needed to recommend activities
type RecommendationStore interface {
	GetVolunteer(ctx context.Context, id string) (*db.Volunteer, error)
	ListRecommendationCandidates(ctx context.Context, volunteerID string, openStatuses []string, now time.Time) ([]db.ActivityListing, error)
}

// Recommendation is an open activity with the reasons it was recommended
type Recommendation struct {
	db.ActivityListing
	RequiredSkills []string          `json:"required_skills"`
	MatchInfo      matcher.MatchInfo `json:"match_info"`
}

// ProfileSnapshot is the part of the volunteer profile used for matching
type ProfileSnapshot struct {
	Region    string   `json:"region"`
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
}

// RecommendationResult is the ranked list of activities for a volunteer
type RecommendationResult struct {
	Recommendations []Recommendation `json:"recommendations"`
	Profile         ProfileSnapshot  `json:"volunteer_profile"`
}

// criteriaFromConfig builds the scoring criteria from the configured weights
func criteriaFromConfig(cfg *config.Config) []matcher.Criterion {
	weights := criteria.DefaultWeights
	if w := cfg.Recommendations.Weights; w != nil {
		override(&weights.Location, w.Location)
		override(&weights.Skill, w.Skill)
		override(&weights.Interest, w.Interest)
		override(&weights.Urgency, w.Urgency)
	}
	if threshold := cfg.Recommendations.UrgencyThreshold; threshold != nil {
		weights.UrgencyThreshold = *threshold
	}
	return criteria.Default(weights)
}

func override(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// RecommendActivities ranks the open activities a volunteer can still apply to.
// Every candidate is scored before the list is cut to limit.
func RecommendActivities(ctx context.Context, store RecommendationStore, cfg *config.Config, logger *zap.Logger, volunteerID string, limit int) (*RecommendationResult, error) {
	if strings.TrimSpace(volunteerID) == "" {
		return nil, model.Validationf("volunteer id is required")
	}

	if limit <= 0 {
		limit = cfg.Recommendations.DefaultLimit
	}
	if limit > cfg.Recommendations.MaxLimit {
		limit = cfg.Recommendations.MaxLimit
	}

	volunteer, err := store.GetVolunteer(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteer: %w", err)
	}
	if volunteer == nil {
		return nil, model.NotFoundf("volunteer %s", volunteerID)
	}

	profile := &matcher.Profile{
		Region:    volunteer.Region,
		Skills:    stringlist.Parse(volunteer.Skills),
		Interests: stringlist.Parse(volunteer.Interests),
	}

	listings, err := store.ListRecommendationCandidates(ctx, volunteerID, model.OpenActivityStatuses, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendation candidates: %w", err)
	}

	logger.Debug("Scoring recommendation candidates",
		zap.String("volunteer_id", volunteerID),
		zap.Int("candidates", len(listings)),
		zap.Int("limit", limit))

	candidates := make([]*matcher.Candidate, 0, len(listings))
	byID := make(map[string]*db.ActivityListing, len(listings))
	for i := range listings {
		l := &listings[i]
		byID[l.ID] = l
		candidates = append(candidates, &matcher.Candidate{
			ID:                 l.ID,
			Title:              l.Title,
			Description:        l.Description,
			Category:           l.Category,
			Location:           l.Location,
			StartTime:          l.StartTime,
			RequiredVolunteers: l.RequiredVolunteers,
			CurrentVolunteers:  l.CurrentVolunteers,
			RequiredSkills:     stringlist.Parse(l.RequiredSkills),
		})
	}

	ranked := matcher.Rank(profile, candidates, criteriaFromConfig(cfg), limit)

	recommendations := make([]Recommendation, 0, len(ranked))
	for _, r := range ranked {
		recommendations = append(recommendations, Recommendation{
			ActivityListing: *byID[r.Candidate.ID],
			RequiredSkills:  r.Candidate.RequiredSkills,
			MatchInfo:       r.MatchInfo(),
		})
	}

	return &RecommendationResult{
		Recommendations: recommendations,
		Profile: ProfileSnapshot{
			Region:    profile.Region,
			Skills:    profile.Skills,
			Interests: profile.Interests,
		},
	}, nil
}
