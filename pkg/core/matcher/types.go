package matcher

import "time"

// Urgency levels reported in MatchInfo
const (
	UrgencyHigh   = "high"
	UrgencyNormal = "normal"
)

// Profile is the part of a volunteer used for matching
type Profile struct {
	Region    string
	Skills    []string
	Interests []string
}

// Candidate is an open activity being considered for a volunteer.
// Text fields are compared as stored; criteria lowercase where they need to.
type Candidate struct {
	ID                 string
	Title              string
	Description        string
	Category           string
	Location           string
	StartTime          time.Time
	RequiredVolunteers int
	CurrentVolunteers  int
	RequiredSkills     []string
}

// RemainingCapacity returns how many more volunteers the activity needs
func (c *Candidate) RemainingCapacity() int {
	return c.RequiredVolunteers - c.CurrentVolunteers
}

// Result is a scored candidate
type Result struct {
	Candidate  *Candidate
	TotalScore int
	// Matches holds the matched entries per criterion name
	Matches map[string][]string
}

// MatchInfo summarizes why a candidate was recommended
type MatchInfo struct {
	TotalScore      int      `json:"total_score"`
	SkillMatches    []string `json:"skill_matches"`
	InterestMatches []string `json:"interest_matches"`
	LocationMatch   bool     `json:"location_match"`
	UrgencyLevel    string   `json:"urgency_level"`
}

// MatchInfo builds the public summary of the result
func (r Result) MatchInfo() MatchInfo {
	urgency := UrgencyNormal
	if len(r.Matches[NameUrgency]) > 0 {
		urgency = UrgencyHigh
	}

	return MatchInfo{
		TotalScore:      r.TotalScore,
		SkillMatches:    entries(r.Matches[NameSkill]),
		InterestMatches: entries(r.Matches[NameInterest]),
		LocationMatch:   len(r.Matches[NameLocation]) > 0,
		UrgencyLevel:    urgency,
	}
}

// entries copies the matched entries so an empty match encodes as [] rather than null
func entries(matched []string) []string {
	return append([]string{}, matched...)
}
