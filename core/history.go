package core

import (
	"strings"
	"time"

	"github.com/sprintlens/sprintlens/schema"
)

// statusField is the only changelog field the resolver consults.
const statusField = "status"

// Window is an inclusive time range constraint for transition resolution.
// A zero From or To leaves that side unbounded; the zero Window matches
// every entry.
type Window struct {
	From time.Time
	To   time.Time
}

// Contains reports whether t satisfies the window.
func (w Window) Contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && t.After(w.To) {
		return false
	}
	return true
}

// ResolveTransition scans a chronological changelog for transitions into one
// of the target status names, case-insensitively, constrained to the given
// window. The policy decides which qualifying entry wins: FirstMatch returns
// the earliest ("when was the issue first added to this status"), MostRecent
// the latest ("did the issue reach this status within the window"). It
// returns nil when no entry qualifies.
func ResolveTransition(history []schema.ChangeEntry, targets []string, window Window, policy schema.ResolvePolicy) *time.Time {
	var match *time.Time
	for i := range history {
		entry := &history[i]
		if !strings.EqualFold(entry.Field, statusField) {
			continue
		}
		if !matchesTarget(entry.To, targets) {
			continue
		}
		if !window.Contains(entry.At) {
			continue
		}
		if match == nil {
			at := entry.At
			match = &at
			if policy == schema.FirstMatch {
				break // entries are chronological, the first hit is final
			}
			continue
		}
		if entry.At.After(*match) {
			at := entry.At
			match = &at
		}
	}
	return match
}

// ResolveTransitionOrCurrent applies ResolveTransition and falls back to the
// issue's own timestamps when the changelog never recorded a transition but
// the current status already matches a target. Issues created directly in a
// target status have no such changelog entry, so the fallback substitutes the
// creation time (or last-updated time when creation is unknown).
//
// The fallback is deliberately approximate: the returned time is when the
// issue appeared, not when a transition was observed, and callers that need
// exactness should use ResolveTransition alone.
func ResolveTransitionOrCurrent(issue *schema.Issue, targets []string, window Window, policy schema.ResolvePolicy) *time.Time {
	if at := ResolveTransition(issue.History, targets, window, policy); at != nil {
		return at
	}
	if !matchesTarget(issue.Status, targets) {
		return nil
	}
	at := issue.Created
	if at.IsZero() {
		at = issue.Updated
	}
	if at.IsZero() || !window.Contains(at) {
		return nil
	}
	return &at
}

// matchesTarget reports whether a status name equals one of the targets,
// ignoring case and surrounding whitespace.
func matchesTarget(status string, targets []string) bool {
	status = strings.TrimSpace(status)
	for _, t := range targets {
		if strings.EqualFold(status, strings.TrimSpace(t)) {
			return true
		}
	}
	return false
}
