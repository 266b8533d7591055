package criteria

import (
	"strings"

	"github.com/jakechorley/volunteer-platform/pkg/core/matcher"
)

// InterestCriterion rewards each volunteer interest the activity speaks to.
//
// An interest matches when, ignoring case, it is contained in the category,
// contains the category (only when the category is non-empty), or appears in
// the title or description. Each interest counts at most once.
type InterestCriterion struct {
	points int
}

// NewInterestCriterion creates a new InterestCriterion worth the given points per interest
func NewInterestCriterion(points int) *InterestCriterion {
	return &InterestCriterion{points: points}
}

func (c *InterestCriterion) Name() string {
	return matcher.NameInterest
}

// Matches returns the matching interests as the volunteer wrote them
func (c *InterestCriterion) Matches(profile *matcher.Profile, candidate *matcher.Candidate) []string {
	category := strings.ToLower(strings.TrimSpace(candidate.Category))
	title := strings.ToLower(candidate.Title)
	description := strings.ToLower(candidate.Description)

	var matched []string
	for _, original := range trimAll(profile.Interests) {
		interest := strings.ToLower(original)
		switch {
		case strings.Contains(category, interest):
		case category != "" && strings.Contains(interest, category):
		case strings.Contains(title, interest):
		case strings.Contains(description, interest):
		default:
			continue
		}
		matched = append(matched, original)
	}
	return matched
}

func (c *InterestCriterion) Points() int {
	return c.points
}
