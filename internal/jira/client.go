// Package jira is the REST client for JIRA Cloud and Server/DC.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sprintlens/sprintlens/internal/contract"
	"github.com/sprintlens/sprintlens/schema"
)

// ErrUnauthorized marks a 401 from the tracker so callers can distinguish a
// credential failure from a network one and print a remediation hint.
var ErrUnauthorized = errors.New("jira: unauthorized (401): check JIRA_EMAIL and JIRA_API_TOKEN")

// retryAttempts bounds the retry loop for 429/5xx and transport errors.
const retryAttempts = 3

// fallbackPointsField is the conventional story-point custom field on JIRA
// Cloud, used when field discovery cannot locate one by name.
const fallbackPointsField = "customfield_10016"

// Client talks to the JIRA REST API. It authenticates with email+token basic
// auth, or a bearer PAT when configured, and applies a blanket client-level
// timeout per request.
type Client struct {
	baseURL string
	email   string
	token   string
	bearer  string
	apiVer  string
	http    *http.Client
	log     zerolog.Logger

	fieldTable  map[string]string // display name -> field id, discovered once
	pointsField string
}

var _ contract.JiraClient = &Client{} // Compile-time check

// NewClient builds a Client from validated configuration.
func NewClient(cfg *contract.Config, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		email:   cfg.Email,
		token:   cfg.APIToken,
		bearer:  cfg.BearerToken,
		apiVer:  cfg.APIVersion,
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
		log:     log,
	}
}

// SearchIssues runs a JQL search with a raised result cap. Zero matches is a
// valid empty slice, not an error. The corpus never exceeds a few thousand
// issues, so a raised maxResults stands in for true pagination.
func (c *Client) SearchIssues(ctx context.Context, jql string, maxResults int) ([]schema.Issue, error) {
	if strings.TrimSpace(jql) == "" {
		return nil, errors.New("jira: empty jql")
	}
	if err := c.ensureFieldTable(ctx); err != nil {
		// Discovery failure degrades to the conventional field id.
		c.log.Warn().Err(err).Str("fallback", fallbackPointsField).Msg("field discovery failed, using fallback story-point field")
	}

	var out searchResponse
	if c.apiVer == "3" {
		body := map[string]any{"jql": jql, "startAt": 0, "maxResults": maxResults, "fields": []string{"*all"}}
		if err := c.doJSON(ctx, http.MethodPost, c.apiURL("/rest/api/3/search", nil), body, &out); err != nil {
			return nil, err
		}
	} else {
		q := url.Values{}
		q.Set("jql", jql)
		q.Set("maxResults", fmt.Sprint(maxResults))
		q.Set("fields", "*all")
		if err := c.doJSON(ctx, http.MethodGet, c.apiURL("/rest/api/2/search", q), nil, &out); err != nil {
			return nil, err
		}
	}

	issues := make([]schema.Issue, 0, len(out.Issues))
	for _, raw := range out.Issues {
		issues = append(issues, parseIssue(raw, c.pointsField, c.fieldTable))
	}
	return issues, nil
}

// IssueDetail fetches one issue with full fields, expanding the changelog
// when requested.
func (c *Client) IssueDetail(ctx context.Context, key string, expandChangelog bool) (*schema.Issue, error) {
	if key == "" {
		return nil, errors.New("jira: empty issue key")
	}
	q := url.Values{}
	q.Set("fields", "*all")
	if expandChangelog {
		q.Set("expand", "changelog")
	}
	var raw map[string]any
	path := "/rest/api/" + c.apiVer + "/issue/" + url.PathEscape(key)
	if err := c.doJSON(ctx, http.MethodGet, c.apiURL(path, q), nil, &raw); err != nil {
		return nil, err
	}
	issue := parseIssue(raw, c.pointsField, c.fieldTable)
	return &issue, nil
}

// FieldTable returns the display-name to field-id mapping from the tracker's
// field catalog. The endpoint returns a bare array.
func (c *Client) FieldTable(ctx context.Context) (map[string]string, error) {
	var fields []struct {
		ID   string `json:"id"`
		Key  string `json:"key"`
		Name string `json:"name"`
	}
	if err := c.doJSON(ctx, http.MethodGet, c.apiURL("/rest/api/"+c.apiVer+"/field", nil), nil, &fields); err != nil {
		return nil, err
	}
	table := make(map[string]string, len(fields))
	for _, f := range fields {
		id := f.ID
		if id == "" {
			id = f.Key
		}
		if f.Name != "" && id != "" {
			table[f.Name] = id
		}
	}
	return table, nil
}

// ensureFieldTable discovers the field catalog once and resolves the
// story-point custom field by its display name.
func (c *Client) ensureFieldTable(ctx context.Context) error {
	if c.pointsField != "" {
		return nil
	}
	c.pointsField = fallbackPointsField
	table, err := c.FieldTable(ctx)
	if err != nil {
		return err
	}
	c.fieldTable = table
	for name, id := range table {
		ln := strings.ToLower(strings.TrimSpace(name))
		if ln == "story points" || ln == "story point estimate" {
			c.pointsField = id
			break
		}
	}
	c.log.Debug().Str("points_field", c.pointsField).Int("fields", len(table)).Msg("field table discovered")
	return nil
}

// apiURL joins the base URL, path and query.
func (c *Client) apiURL(path string, q url.Values) string {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// doJSON performs one authenticated request with bounded retries on 429 and
// 5xx, decoding the response into out. 401 maps to ErrUnauthorized; exhausted
// transport errors are returned wrapped for the caller to classify as fatal
// or per-issue, depending on the call site.
func (c *Client) doJSON(ctx context.Context, method, u string, body any, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("jira: encode request: %w", err)
		}
		payload = b
	}

	var lastErr error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(300*(1<<attempt)) * time.Millisecond):
			}
		}

		var r io.Reader
		if payload != nil {
			r = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, r)
		if err != nil {
			return err
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		c.authorize(req)

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("jira: request failed: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusUnauthorized {
			_ = resp.Body.Close()
			return ErrUnauthorized
		}
		if resp.StatusCode >= 300 {
			b, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			err := fmt.Errorf("jira: api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				lastErr = err
				continue
			}
			return err
		}

		decodeErr := json.NewDecoder(resp.Body).Decode(out)
		_ = resp.Body.Close()
		if decodeErr != nil {
			return fmt.Errorf("jira: decode response: %w", decodeErr)
		}
		return nil
	}
	return lastErr
}

// authorize sets the Authorization header: bearer PAT when configured,
// otherwise basic auth from email and API token.
func (c *Client) authorize(req *http.Request) {
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
		return
	}
	req.SetBasicAuth(c.email, c.token)
}
