// Package criteria holds the scoring rules used to rank activity recommendations.
package criteria

import "github.com/jakechorley/volunteer-platform/pkg/core/matcher"

// Weights configures the points awarded by each default criterion
type Weights struct {
	Location         int
	Skill            int
	Interest         int
	Urgency          int
	UrgencyThreshold int
}

// DefaultWeights are the standard recommendation points
var DefaultWeights = Weights{
	Location:         10,
	Skill:            20,
	Interest:         15,
	Urgency:          5,
	UrgencyThreshold: 5,
}

// Default returns the standard criteria set
func Default(w Weights) []matcher.Criterion {
	return []matcher.Criterion{
		NewLocationCriterion(w.Location),
		NewSkillCriterion(w.Skill),
		NewInterestCriterion(w.Interest),
		NewUrgencyCriterion(w.Urgency, w.UrgencyThreshold),
	}
}
