package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategoryTable(t *testing.T) {
	t.Run("default mapping builds", func(t *testing.T) {
		table, err := NewCategoryTable(DefaultCategoryMapping)
		require.NoError(t, err)
		assert.Equal(t, []string{"Completed", "In Dev", "In QA", "In Review", "To Do"}, table.Categories())
	})

	t.Run("empty mapping is rejected", func(t *testing.T) {
		_, err := NewCategoryTable(nil)
		assert.Error(t, err)
	})

	t.Run("category without synonyms is rejected", func(t *testing.T) {
		_, err := NewCategoryTable(map[string][]string{"To Do": nil})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no status synonyms")
	})

	t.Run("blank synonym is rejected", func(t *testing.T) {
		_, err := NewCategoryTable(map[string][]string{"To Do": {"Open", "  "}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "blank")
	})

	t.Run("synonym claimed twice is rejected", func(t *testing.T) {
		_, err := NewCategoryTable(map[string][]string{
			"In Dev": {"Doing"},
			"In QA":  {"doing"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "claimed by both")
	})

	t.Run("repeating a synonym inside one category is fine", func(t *testing.T) {
		_, err := NewCategoryTable(map[string][]string{"In Dev": {"Doing", "DOING"}})
		assert.NoError(t, err)
	})
}

func TestCategoryTableResolve(t *testing.T) {
	table, err := NewCategoryTable(DefaultCategoryMapping)
	require.NoError(t, err)

	t.Run("case and whitespace insensitive", func(t *testing.T) {
		for _, raw := range []string{"In Progress", "in progress", "  IN PROGRESS  "} {
			category, ok := table.Resolve(raw)
			require.True(t, ok, raw)
			assert.Equal(t, "In Dev", category)
		}
	})

	t.Run("unmapped status misses", func(t *testing.T) {
		_, ok := table.Resolve("Blocked")
		assert.False(t, ok)
	})
}

func TestCategoryTableSynonyms(t *testing.T) {
	table, err := NewCategoryTable(map[string][]string{
		"In QA": {"Testing", "QA"},
		"To Do": {"Open"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"qa", "testing"}, table.Synonyms("In QA"))
	assert.Empty(t, table.Synonyms("Completed"))
}
