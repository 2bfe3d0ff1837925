package contract

import (
	"fmt"
	"sort"
	"strings"
)

// CategoryTable maps raw workflow status names onto a fixed small set of
// category labels. It is built and validated once at startup and passed by
// value into every component, so a wrong or missing label is a single early
// error rather than a silent default scattered across call sites.
type CategoryTable struct {
	categories []string          // display order
	bySynonym  map[string]string // lowercased status name -> category label
}

// DefaultCategoryMapping is the synonym set used when the config file does
// not define one. Matching is case-insensitive.
var DefaultCategoryMapping = map[string][]string{
	"To Do":     {"To Do", "Open", "Backlog", "Selected for Development"},
	"In Dev":    {"In Dev", "In Progress", "In Development", "Doing"},
	"In Review": {"In Review", "Code Review", "Peer Review"},
	"In QA":     {"In QA", "QA", "Testing", "In Test"},
	"Completed": {"Completed", "Done", "Closed", "Resolved"},
}

// NewCategoryTable validates a category -> synonyms mapping and builds the
// reverse lookup. A synonym claimed by two categories is an error: the table
// must partition status names unambiguously.
func NewCategoryTable(mapping map[string][]string) (CategoryTable, error) {
	if len(mapping) == 0 {
		return CategoryTable{}, fmt.Errorf("category mapping is empty")
	}

	categories := make([]string, 0, len(mapping))
	for category := range mapping {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	bySynonym := make(map[string]string)
	for _, category := range categories {
		synonyms := mapping[category]
		if len(synonyms) == 0 {
			return CategoryTable{}, fmt.Errorf("category %q has no status synonyms", category)
		}
		for _, syn := range synonyms {
			key := strings.ToLower(strings.TrimSpace(syn))
			if key == "" {
				return CategoryTable{}, fmt.Errorf("category %q has a blank status synonym", category)
			}
			if prev, ok := bySynonym[key]; ok && prev != category {
				return CategoryTable{}, fmt.Errorf("status %q is claimed by both %q and %q", syn, prev, category)
			}
			bySynonym[key] = category
		}
	}

	return CategoryTable{categories: categories, bySynonym: bySynonym}, nil
}

// Resolve returns the category label for a raw status name. The second
// return value is false when the status is not in the table.
func (t CategoryTable) Resolve(status string) (string, bool) {
	category, ok := t.bySynonym[strings.ToLower(strings.TrimSpace(status))]
	return category, ok
}

// Categories returns the category labels in display order.
func (t CategoryTable) Categories() []string {
	out := make([]string, len(t.categories))
	copy(out, t.categories)
	return out
}

// Synonyms returns the raw status names mapped to a category label.
func (t CategoryTable) Synonyms(category string) []string {
	var out []string
	for syn, cat := range t.bySynonym {
		if cat == category {
			out = append(out, syn)
		}
	}
	sort.Strings(out)
	return out
}
