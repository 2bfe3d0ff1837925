// Package agg has the bucket aggregation logic for normalized issues.
package agg

import (
	"sort"

	"github.com/sprintlens/sprintlens/schema"
)

// KeyFunc extracts the partition key for one normalized issue. An empty key
// is replaced by the Unassigned label so no issue silently leaves the
// partition.
type KeyFunc func(issue *schema.NormalizedIssue) string

// Unassigned is the bucket key for issues whose dimension value is empty.
const Unassigned = "(unassigned)"

// Aggregate partitions issues by key and sums counts and points per bucket.
// Aggregation is commutative and associative over the issue set, so the
// result is independent of input order up to the final sort: descending
// points, ties broken by the key's lexical order for determinism.
// PercentOfTotal is 0 for every bucket when the point total is 0.
func Aggregate(issues []schema.NormalizedIssue, keyFn KeyFunc) []schema.Bucket {
	byKey := make(map[string]*schema.Bucket)
	var total float64

	for i := range issues {
		key := keyFn(&issues[i])
		if key == "" {
			key = Unassigned
		}
		b, ok := byKey[key]
		if !ok {
			b = &schema.Bucket{Key: key}
			byKey[key] = b
		}
		b.Count++
		b.Points += issues[i].NormPoints
		total += issues[i].NormPoints
	}

	buckets := make([]schema.Bucket, 0, len(byKey))
	for _, b := range byKey {
		if total > 0 {
			b.PercentOfTotal = b.Points / total * 100
		}
		buckets = append(buckets, *b)
	}

	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Points != buckets[j].Points {
			return buckets[i].Points > buckets[j].Points
		}
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}

// KeyForDimension returns the key extractor for a partition dimension.
func KeyForDimension(dim schema.Dimension) KeyFunc {
	switch dim {
	case schema.ByAssignee:
		return func(issue *schema.NormalizedIssue) string {
			if issue.Assignee == nil {
				return ""
			}
			return issue.Assignee.DisplayName
		}
	case schema.ByType:
		return func(issue *schema.NormalizedIssue) string { return issue.Type }
	case schema.ByFixVersion:
		// Issues carry a set of fix versions; the first label wins so the
		// partition stays disjoint and the sum invariant holds.
		return func(issue *schema.NormalizedIssue) string {
			if len(issue.FixVersions) == 0 {
				return ""
			}
			return issue.FixVersions[0]
		}
	case schema.ByTeam:
		return func(issue *schema.NormalizedIssue) string { return issue.Team }
	default:
		return func(issue *schema.NormalizedIssue) string { return issue.Category }
	}
}

// Totals sums normalized points over the issue set, split into measured and
// assumed portions by the Defaulted flag.
func Totals(issues []schema.NormalizedIssue) (total, measured, assumed float64) {
	for i := range issues {
		total += issues[i].NormPoints
		if issues[i].Defaulted {
			assumed += issues[i].NormPoints
		} else {
			measured += issues[i].NormPoints
		}
	}
	return total, measured, assumed
}
