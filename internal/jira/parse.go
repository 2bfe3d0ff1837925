package jira

import (
	"fmt"
	"strings"
	"time"

	"github.com/sprintlens/sprintlens/schema"
)

// searchResponse is the wire shape of a JQL search result. Issue records are
// kept loose because half their interesting content lives in dynamically
// named custom fields.
type searchResponse struct {
	Issues []map[string]any `json:"issues"`
}

// timeLayouts are the timestamp formats observed across JIRA deployments.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	"2006-01-02",
}

// parseIssue maps a raw issue record onto the schema type. pointsField is
// the discovered story-point custom field id; fieldTable resolves the other
// named custom fields (Epic Link, Team) when present.
func parseIssue(raw map[string]any, pointsField string, fieldTable map[string]string) schema.Issue {
	fields, _ := raw["fields"].(map[string]any)

	issue := schema.Issue{
		Key:     toStr(raw["key"]),
		Summary: toStr(fields["summary"]),
		Type:    nestedStr(fields, "issuetype", "name"),
		Status:  nestedStr(fields, "status", "name"),
		Created: parseTimeUTC(fields["created"]),
		Updated: parseTimeUTC(fields["updated"]),
	}

	if pr, ok := fields["priority"].(map[string]any); ok {
		issue.Priority = toStr(pr["name"])
	}
	if as, ok := fields["assignee"].(map[string]any); ok {
		acct := toStr(as["accountId"])
		if acct == "" {
			acct = toStr(as["name"]) // Server/DC has no accountId
		}
		issue.Assignee = &schema.Assignee{DisplayName: toStr(as["displayName"]), AccountID: acct}
	}
	if fvs, ok := fields["fixVersions"].([]any); ok {
		for _, fv := range fvs {
			if m, ok := fv.(map[string]any); ok {
				if name := toStr(m["name"]); name != "" {
					issue.FixVersions = append(issue.FixVersions, name)
				}
			}
		}
	}

	if pointsField != "" {
		if v, ok := fields[pointsField].(float64); ok {
			pts := v
			issue.Points = &pts
		}
	}

	issue.EpicKey = nestedStr(fields, "epic", "key")
	if issue.EpicKey == "" {
		if id := fieldTable["Epic Link"]; id != "" {
			issue.EpicKey = toStr(fields[id])
		}
	}

	issue.Team = teamOf(fields, fieldTable)
	issue.History = parseChangelog(raw["changelog"])
	return issue
}

// teamOf resolves the team label: a "Team" custom field when the catalog
// knows one, else the first component name, which many projects use as the
// owning team.
func teamOf(fields map[string]any, fieldTable map[string]string) string {
	if id := fieldTable["Team"]; id != "" {
		if v := optionToStr(fields[id]); v != "" {
			return v
		}
	}
	if comps, ok := fields["components"].([]any); ok && len(comps) > 0 {
		if m, ok := comps[0].(map[string]any); ok {
			return toStr(m["name"])
		}
	}
	return ""
}

// parseChangelog flattens the changelog's histories into ordered entries.
// The source data is chronological and the order is preserved.
func parseChangelog(raw any) []schema.ChangeEntry {
	ch, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	histories, ok := ch["histories"].([]any)
	if !ok {
		return nil
	}
	var entries []schema.ChangeEntry
	for _, h := range histories {
		hv, ok := h.(map[string]any)
		if !ok {
			continue
		}
		at := parseTimeUTC(hv["created"])
		author := nestedStr(hv, "author", "displayName")
		items, _ := hv["items"].([]any)
		for _, it := range items {
			itm, ok := it.(map[string]any)
			if !ok {
				continue
			}
			entries = append(entries, schema.ChangeEntry{
				At:     at,
				Author: author,
				Field:  toStr(itm["field"]),
				From:   toStr(itm["fromString"]),
				To:     toStr(itm["toString"]),
			})
		}
	}
	return entries
}

// parseTimeUTC tries the known timestamp layouts and returns the zero time
// when none fit.
func parseTimeUTC(v any) time.Time {
	s, _ := v.(string)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// toStr renders a loose JSON value as a string, empty for nil.
func toStr(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// nestedStr reads m[key][sub] as a string.
func nestedStr(m map[string]any, key, sub string) string {
	if inner, ok := m[key].(map[string]any); ok {
		return toStr(inner[sub])
	}
	return ""
}

// optionToStr extracts JIRA option objects, which wrap their label in a
// "value" or "name" key, and joins multi-select options with commas.
func optionToStr(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case map[string]any:
		if s := toStr(t["value"]); s != "" {
			return s
		}
		return toStr(t["name"])
	case []any:
		vals := make([]string, 0, len(t))
		for _, it := range t {
			if s := optionToStr(it); s != "" {
				vals = append(vals, s)
			}
		}
		return strings.Join(vals, ", ")
	default:
		return toStr(v)
	}
}
