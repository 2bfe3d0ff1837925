package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPlainHealth(t *testing.T) {
	tests := []struct {
		name      string
		predicted int
		committed float64
		expected  string
	}{
		{"meets commitment exactly", 40, 40, OnTrackValue},
		{"overdelivers", 52, 40, OnTrackValue},
		{"just inside risk band", 34, 40, AtRiskValue},
		{"well short", 20, 40, OffTrackValue},
		{"zero commitment", 10, 0, UnknownValue},
		{"negative prediction", -1, 40, UnknownValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainHealth(tt.predicted, tt.committed))
		})
	}
}

func TestGetColorHealth(t *testing.T) {
	// The colored variant must carry the same text as the plain one.
	assert.Contains(t, GetColorHealth(40, 40), OnTrackValue)
	assert.Contains(t, GetColorHealth(34, 40), AtRiskValue)
	assert.Contains(t, GetColorHealth(20, 40), OffTrackValue)
	assert.Contains(t, GetColorHealth(0, 0), UnknownValue)
}

func TestSlugForFilename(t *testing.T) {
	assert.Equal(t, "sprint-42", SlugForFilename("Sprint 42"))
	assert.Equal(t, "q3-platform-push", SlugForFilename("  Q3   Platform Push "))
	assert.Equal(t, "sprint", SlugForFilename("   "))
}
