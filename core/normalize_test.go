package core

import (
	"testing"

	"github.com/sprintlens/sprintlens/internal/contract"
	"github.com/sprintlens/sprintlens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig builds a minimal validated config for pipeline tests.
func testConfig(t *testing.T) *contract.Config {
	t.Helper()
	table, err := contract.NewCategoryTable(contract.DefaultCategoryMapping)
	require.NoError(t, err)
	return &contract.Config{
		DefaultPoints:    2.0,
		EstimableTypes:   map[string]struct{}{"story": {}, "bug": {}},
		Categories:       table,
		CompletedTargets: contract.DefaultCompletedTargets,
		Policy:           schema.MostRecent,
		Dimension:        schema.ByCategory,
	}
}

func ptr(v float64) *float64 { return &v }

func TestNormalizePoints(t *testing.T) {
	cfg := testConfig(t)

	t.Run("positive estimate passes through", func(t *testing.T) {
		issue := &schema.Issue{Type: "Story", Points: ptr(5)}
		points, defaulted := NormalizePoints(issue, cfg)
		assert.Equal(t, 5.0, points)
		assert.False(t, defaulted)
	})

	t.Run("missing estimate on story gets the default", func(t *testing.T) {
		issue := &schema.Issue{Type: "Story"}
		points, defaulted := NormalizePoints(issue, cfg)
		assert.Equal(t, 2.0, points)
		assert.True(t, defaulted)
	})

	t.Run("zero estimate on bug gets the default", func(t *testing.T) {
		issue := &schema.Issue{Type: "Bug", Points: ptr(0)}
		points, defaulted := NormalizePoints(issue, cfg)
		assert.Equal(t, 2.0, points)
		assert.True(t, defaulted)
	})

	t.Run("type match is case insensitive", func(t *testing.T) {
		issue := &schema.Issue{Type: "STORY"}
		points, defaulted := NormalizePoints(issue, cfg)
		assert.Equal(t, 2.0, points)
		assert.True(t, defaulted)
	})

	t.Run("non-estimable type without estimate stays zero", func(t *testing.T) {
		issue := &schema.Issue{Type: "Epic"}
		points, defaulted := NormalizePoints(issue, cfg)
		assert.Equal(t, 0.0, points)
		assert.False(t, defaulted)
	})
}

func TestNormalize(t *testing.T) {
	cfg := testConfig(t)

	t.Run("status resolves to its category", func(t *testing.T) {
		n := Normalize(schema.Issue{Type: "Story", Status: "In Progress", Points: ptr(3)}, cfg)
		assert.Equal(t, "In Dev", n.Category)
		assert.Equal(t, 3.0, n.NormPoints)
	})

	t.Run("unknown status keeps its raw name", func(t *testing.T) {
		n := Normalize(schema.Issue{Type: "Story", Status: "Blocked on Vendor", Points: ptr(3)}, cfg)
		assert.Equal(t, "Blocked on Vendor", n.Category)
	})
}

func TestFilterTypes(t *testing.T) {
	issues := []schema.Issue{
		{Key: "PLAT-1", Type: "Story"},
		{Key: "PLAT-2", Type: "Epic"},
		{Key: "PLAT-3", Type: "Bug"},
	}

	t.Run("empty include set keeps everything", func(t *testing.T) {
		cfg := testConfig(t)
		assert.Len(t, FilterTypes(issues, cfg), 3)
	})

	t.Run("include set restricts by type", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.IncludeTypes = map[string]struct{}{"story": {}}
		filtered := FilterTypes(issues, cfg)
		require.Len(t, filtered, 1)
		assert.Equal(t, "PLAT-1", filtered[0].Key)
	})
}
