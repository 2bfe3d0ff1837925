package core

import (
	"strings"

	"github.com/sprintlens/sprintlens/internal/contract"
	"github.com/sprintlens/sprintlens/schema"
)

// NormalizePoints applies the story-point substitution policy to one issue.
// A positive stored value passes through unchanged. A missing or zero value
// on an estimable type (commonly Story and Bug) is replaced by the configured
// default, and the substitution is recorded so downstream reports can surface
// measured and assumed totals separately. Every other case yields 0 with no
// default recorded: an Epic without points is genuinely unestimated, not
// assumed.
func NormalizePoints(issue *schema.Issue, cfg *contract.Config) (points float64, defaulted bool) {
	if issue.Points != nil && *issue.Points > 0 {
		return *issue.Points, false
	}
	if _, ok := cfg.EstimableTypes[strings.ToLower(issue.Type)]; ok {
		return cfg.DefaultPoints, true
	}
	return 0, false
}

// Normalize builds a NormalizedIssue: point substitution plus status-category
// resolution through the validated lookup table. A status missing from the
// table keeps its raw name as the category so it stays visible in reports
// instead of vanishing into a catch-all.
func Normalize(issue schema.Issue, cfg *contract.Config) schema.NormalizedIssue {
	points, defaulted := NormalizePoints(&issue, cfg)
	category, ok := cfg.Categories.Resolve(issue.Status)
	if !ok {
		category = issue.Status
	}
	return schema.NormalizedIssue{
		Issue:      issue,
		NormPoints: points,
		Defaulted:  defaulted,
		Category:   category,
	}
}

// FilterTypes restricts issues to the configured include set. An empty set
// means no filtering. This is the only place issues are dropped by policy;
// the partition-sum invariant is stated over the filtered set.
func FilterTypes(issues []schema.Issue, cfg *contract.Config) []schema.Issue {
	if len(cfg.IncludeTypes) == 0 {
		return issues
	}
	out := make([]schema.Issue, 0, len(issues))
	for _, issue := range issues {
		if _, ok := cfg.IncludeTypes[strings.ToLower(issue.Type)]; ok {
			out = append(out, issue)
		}
	}
	return out
}
