package criteria

import (
	"strings"

	"github.com/jakechorley/volunteer-platform/pkg/core/matcher"
)

// SkillCriterion rewards each required skill the volunteer covers.
//
// A required skill is covered when any volunteer skill contains it or is
// contained by it, ignoring case. Each required skill counts at most once.
type SkillCriterion struct {
	points int
}

// NewSkillCriterion creates a new SkillCriterion worth the given points per skill
func NewSkillCriterion(points int) *SkillCriterion {
	return &SkillCriterion{points: points}
}

func (c *SkillCriterion) Name() string {
	return matcher.NameSkill
}

// Matches returns the covered required skills as the activity lists them
func (c *SkillCriterion) Matches(profile *matcher.Profile, candidate *matcher.Candidate) []string {
	volunteerSkills := lowerAll(profile.Skills)
	if len(volunteerSkills) == 0 {
		return nil
	}

	var matched []string
	for _, required := range trimAll(candidate.RequiredSkills) {
		lower := strings.ToLower(required)
		for _, skill := range volunteerSkills {
			if strings.Contains(skill, lower) || strings.Contains(lower, skill) {
				matched = append(matched, required)
				break
			}
		}
	}
	return matched
}

func (c *SkillCriterion) Points() int {
	return c.points
}

// trimAll returns the non-blank entries with surrounding space removed
func trimAll(items []string) []string {
	result := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}

// lowerAll returns lowercased copies of the non-blank entries
func lowerAll(items []string) []string {
	result := trimAll(items)
	for i, item := range result {
		result[i] = strings.ToLower(item)
	}
	return result
}
