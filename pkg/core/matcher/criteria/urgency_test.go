package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/volunteer-platform/pkg/core/matcher"
)

func TestUrgencyCriterion_Name(t *testing.T) {
	criterion := NewUrgencyCriterion(5, 5)
	assert.Equal(t, "Urgency", criterion.Name())
	assert.Equal(t, 5, criterion.Points())
}

func TestUrgencyCriterion_Matches(t *testing.T) {
	criterion := NewUrgencyCriterion(5, 5)
	profile := &matcher.Profile{}

	tests := []struct {
		name     string
		required int
		current  int
		expected []string
	}{
		{"six remaining is urgent", 20, 14, []string{"6"}},
		{"ten remaining is urgent", 20, 10, []string{"10"}},
		{"exactly threshold is not urgent", 20, 15, nil},
		{"four remaining is not urgent", 20, 16, nil},
		{"full", 20, 20, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := &matcher.Candidate{RequiredVolunteers: tt.required, CurrentVolunteers: tt.current}
			assert.Equal(t, tt.expected, criterion.Matches(profile, candidate))
		})
	}
}
