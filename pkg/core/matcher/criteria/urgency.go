package criteria

import (
	"strconv"

	"github.com/jakechorley/volunteer-platform/pkg/core/matcher"
)

// UrgencyCriterion promotes activities that are still far from full.
//
// Matches when required - current volunteers is strictly greater than the threshold.
type UrgencyCriterion struct {
	points    int
	threshold int
}

// NewUrgencyCriterion creates a new UrgencyCriterion
func NewUrgencyCriterion(points, threshold int) *UrgencyCriterion {
	return &UrgencyCriterion{points: points, threshold: threshold}
}

func (c *UrgencyCriterion) Name() string {
	return matcher.NameUrgency
}

// Matches returns the number of open slots when there are enough of them
func (c *UrgencyCriterion) Matches(profile *matcher.Profile, candidate *matcher.Candidate) []string {
	if remaining := candidate.RemainingCapacity(); remaining > c.threshold {
		return []string{strconv.Itoa(remaining)}
	}
	return nil
}

func (c *UrgencyCriterion) Points() int {
	return c.points
}
