package criteria

import (
	"strings"

	"github.com/jakechorley/volunteer-platform/pkg/core/matcher"
)

// LocationCriterion rewards activities held in the volunteer's region.
//
// The activity location must contain the region as written (case-sensitive).
// A volunteer without a region never matches.
type LocationCriterion struct {
	points int
}

// NewLocationCriterion creates a new LocationCriterion worth the given points
func NewLocationCriterion(points int) *LocationCriterion {
	return &LocationCriterion{points: points}
}

func (c *LocationCriterion) Name() string {
	return matcher.NameLocation
}

// Matches returns the region when the activity is held there
func (c *LocationCriterion) Matches(profile *matcher.Profile, candidate *matcher.Candidate) []string {
	region := strings.TrimSpace(profile.Region)
	if region == "" {
		return nil
	}
	if strings.Contains(candidate.Location, region) {
		return []string{region}
	}
	return nil
}

func (c *LocationCriterion) Points() int {
	return c.points
}
