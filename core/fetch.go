package core

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sprintlens/sprintlens/internal/contract"
	"github.com/sprintlens/sprintlens/schema"
)

// FetchIssues runs the resolved JQL search and then fetches each issue's
// full record (changelog included) through a bounded worker pool. The search
// call is fatal on failure; a single issue's detail fetch failing is not —
// the issue is skipped with a warning and the partial set continues, so a
// report is still produced with a smaller issue count.
//
// Workers collect into a channel and the results are reduced and sorted by
// key afterwards, keeping the final ordering independent of fetch completion
// order.
func FetchIssues(ctx context.Context, client contract.JiraClient, cfg *contract.Config, log zerolog.Logger) ([]schema.Issue, []string, error) {
	stubs, err := client.SearchIssues(ctx, cfg.JQL, cfg.MaxResults)
	if err != nil {
		return nil, nil, fmt.Errorf("issue search failed: %w", err)
	}
	if len(stubs) == 0 {
		return nil, nil, nil // a valid empty result, distinct from a failed run
	}

	type fetched struct {
		issue *schema.Issue
		key   string
		err   error
	}

	jobs := make(chan schema.Issue)
	results := make(chan fetched)

	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for stub := range jobs {
				issue, err := client.IssueDetail(ctx, stub.Key, true)
				results <- fetched{issue: issue, key: stub.Key, err: err}
			}
		}()
	}
	go func() {
		for _, stub := range stubs {
			jobs <- stub
		}
		close(jobs)
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	issues := make([]schema.Issue, 0, len(stubs))
	var warnings []string
	for r := range results {
		if r.err != nil {
			msg := fmt.Sprintf("skipping issue %s: detail fetch failed: %v", r.key, r.err)
			log.Warn().Str("key", r.key).Err(r.err).Msg("issue detail fetch failed, skipping")
			warnings = append(warnings, msg)
			continue
		}
		if r.issue != nil {
			issues = append(issues, *r.issue)
		}
	}

	sort.Slice(issues, func(i, j int) bool { return issues[i].Key < issues[j].Key })
	sort.Strings(warnings)
	return issues, warnings, nil
}
