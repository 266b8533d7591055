// Package matcher ranks open activities for a volunteer. Scoring is additive:
// every Criterion reports the entries a candidate matches on and each
// entry is worth the criterion's points.
package matcher

import (
	"sort"
)

// Criterion names, used as keys of Result.Matches
const (
	NameLocation = "Location"
	NameSkill    = "Skill"
	NameInterest = "Interest"
	NameUrgency  = "Urgency"
)

// Criterion defines the interface for recommendation scoring rules
type Criterion interface {
	// Name returns a human-readable identifier for this criterion
	Name() string

	// Matches returns the entries on which the candidate satisfies this criterion
	// Return nil if the criterion doesn't apply to the candidate
	Matches(profile *Profile, candidate *Candidate) []string

	// Points returns the score awarded per match
	Points() int
}

// Score evaluates a single candidate against every criterion.
// Candidates are scored independently of each other.
func Score(profile *Profile, candidate *Candidate, criteria []Criterion) Result {
	result := Result{
		Candidate: candidate,
		Matches:   make(map[string][]string, len(criteria)),
	}

	for _, criterion := range criteria {
		matched := criterion.Matches(profile, candidate)
		if len(matched) == 0 {
			continue
		}
		result.Matches[criterion.Name()] = append(result.Matches[criterion.Name()], matched...)
		result.TotalScore += len(matched) * criterion.Points()
	}

	return result
}

// Rank scores the whole candidate set, orders it and keeps the best `limit` entries.
// Ordering is total score descending, then start time ascending, then activity ID.
// A limit <= 0 keeps every candidate.
func Rank(profile *Profile, candidates []*Candidate, criteria []Criterion, limit int) []Result {
	results := make([]Result, 0, len(candidates))
	for _, candidate := range candidates {
		results = append(results, Score(profile, candidate, criteria))
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		if !a.Candidate.StartTime.Equal(b.Candidate.StartTime) {
			return a.Candidate.StartTime.Before(b.Candidate.StartTime)
		}
		return a.Candidate.ID < b.Candidate.ID
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results
}
