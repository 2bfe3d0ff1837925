package contract

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/sprintlens/sprintlens/schema"
)

// Default values for configuration.
const (
	DefaultWorkers       = 6
	DefaultMaxResults    = 2000
	MaxResults           = 5000
	DefaultPrecision     = 1
	DefaultPointFallback = 2.0
	DefaultHTTPTimeout   = 30 * time.Second
)

// DateFormat is the layout for date-valued flags and arguments.
const DateFormat = "2006-01-02"

// DefaultEstimableTypes are the issue types that receive the point fallback
// when their stored estimate is missing or zero.
var DefaultEstimableTypes = []string{"Story", "Bug"}

// DefaultCompletedTargets are the status names treated as delivery for
// velocity accounting when the config file does not override them.
var DefaultCompletedTargets = []string{"Done", "Closed", "Resolved", "Completed"}

// Config holds the final, validated runtime configuration.
type Config struct {
	// Tracker connection
	BaseURL     string
	Email       string
	APIToken    string
	BearerToken string // PAT alternative to email+token basic auth
	APIVersion  string // "2" or "3"
	HTTPTimeout time.Duration

	// Query scope
	ProjectKey string
	Sprint     string
	JQL        string // fully resolved filter; the core never builds JQL itself
	MaxResults int
	Workers    int

	// Sprint calendar
	SprintStart time.Time
	SprintEnd   time.Time // deadline for overrun projection

	// Normalization policy
	DefaultPoints  float64
	EstimableTypes map[string]struct{}
	IncludeTypes   map[string]struct{} // empty = no type filtering

	// Status resolution
	Categories       CategoryTable
	CompletedTargets []string
	Policy           schema.ResolvePolicy
	WindowFrom       time.Time
	WindowTo         time.Time

	// Aggregation & output
	Dimension  schema.Dimension
	Output     schema.OutputMode
	OutputFile string
	Precision  int
	UseColors  bool
	Width      int // Terminal width override (0 = auto-detect)

	// Snapshot archive
	SnapshotBackend   schema.DatabaseBackend
	SnapshotDBConnect string // Please use env var as this is plaintext
}

// Clone returns a copy of the config safe for per-request mutation. Maps and
// slices are copied so a handler can adjust scope without racing.
func (c *Config) Clone() *Config {
	clone := *c
	clone.EstimableTypes = maps.Clone(c.EstimableTypes)
	clone.IncludeTypes = maps.Clone(c.IncludeTypes)
	clone.CompletedTargets = slices.Clone(c.CompletedTargets)
	return &clone
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	SprintArg string

	// --- Tracker connection ---
	BaseURL     string `mapstructure:"base-url"`
	Email       string `mapstructure:"email"`
	APIToken    string `mapstructure:"api-token"`
	BearerToken string `mapstructure:"bearer-token"`
	APIVersion  string `mapstructure:"api-version"`
	Timeout     string `mapstructure:"timeout"`

	// --- Query scope ---
	Project    string `mapstructure:"project"`
	JQL        string `mapstructure:"jql"`
	MaxResults int    `mapstructure:"max-results"`
	Workers    int    `mapstructure:"workers"`

	// --- Sprint calendar ---
	SprintStart string `mapstructure:"sprint-start"`
	SprintEnd   string `mapstructure:"sprint-end"`

	// --- Normalization policy ---
	DefaultPoints  float64 `mapstructure:"default-points"`
	EstimableTypes string  `mapstructure:"estimable-types"`
	Types          string  `mapstructure:"types"`

	// --- Status resolution ---
	Categories       map[string][]string `mapstructure:"categories"`
	CompletedTargets string              `mapstructure:"completed-statuses"`
	Policy           string              `mapstructure:"policy"`
	From             string              `mapstructure:"from"`
	To               string              `mapstructure:"to"`
	On               string              `mapstructure:"on"`

	// --- Aggregation & output ---
	By         string `mapstructure:"by"`
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Color      string `mapstructure:"color"`
	Width      int    `mapstructure:"width"`

	// --- Snapshot archive ---
	SnapshotBackend   string `mapstructure:"snapshot-backend"`
	SnapshotDBConnect string `mapstructure:"snapshot-db-connect"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and populates the final Config struct. Credential checks run first so a
// misconfigured run fails before any network call.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateCredentials(cfg, input); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processCalendar(cfg, input); err != nil {
		return err
	}
	if err := processTransitionWindow(cfg, input); err != nil {
		return err
	}
	if err := processCategories(cfg, input); err != nil {
		return err
	}
	if err := processScope(cfg, input); err != nil {
		return err
	}
	return ValidateDatabaseConnectionString(cfg.SnapshotBackend, cfg.SnapshotDBConnect)
}

// validateCredentials checks that the tracker connection settings are usable.
func validateCredentials(cfg *Config, input *ConfigRawInput) error {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(input.BaseURL), "/")
	cfg.Email = strings.TrimSpace(input.Email)
	cfg.APIToken = strings.TrimSpace(input.APIToken)
	cfg.BearerToken = strings.TrimSpace(input.BearerToken)

	if cfg.BaseURL == "" {
		return fmt.Errorf("tracker base URL is required: set JIRA_BASE_URL or base-url in .sprintlens.yaml")
	}
	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		return fmt.Errorf("tracker base URL %q must start with http:// or https://", cfg.BaseURL)
	}
	if cfg.BearerToken == "" {
		if cfg.Email == "" || cfg.APIToken == "" {
			return fmt.Errorf("tracker credentials are required: set JIRA_EMAIL and JIRA_API_TOKEN (or bearer-token for PAT auth)")
		}
	}

	cfg.APIVersion = input.APIVersion
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2"
	}
	if cfg.APIVersion != "2" && cfg.APIVersion != "3" {
		return fmt.Errorf("api-version must be 2 or 3, got %q", input.APIVersion)
	}

	cfg.HTTPTimeout = DefaultHTTPTimeout
	if input.Timeout != "" {
		d, err := time.ParseDuration(input.Timeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid timeout %q: use a Go duration like 30s", input.Timeout)
		}
		cfg.HTTPTimeout = d
	}
	return nil
}

// validateSimpleInputs validates scalar options with no cross-field logic.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Workers = input.Workers
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}

	cfg.MaxResults = input.MaxResults
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.MaxResults > MaxResults {
		return fmt.Errorf("max-results %d exceeds the cap of %d", cfg.MaxResults, MaxResults)
	}

	cfg.Precision = input.Precision
	if cfg.Precision < 0 || cfg.Precision > 6 {
		return fmt.Errorf("precision must be between 0 and 6, got %d", input.Precision)
	}

	cfg.DefaultPoints = input.DefaultPoints
	if cfg.DefaultPoints == 0 {
		cfg.DefaultPoints = DefaultPointFallback
	}
	if cfg.DefaultPoints < 0 {
		return fmt.Errorf("default-points must not be negative, got %g", input.DefaultPoints)
	}

	dim := schema.Dimension(input.By)
	if dim == "" {
		dim = schema.ByCategory
	}
	if _, ok := schema.ValidDimensions[dim]; !ok {
		return fmt.Errorf("unknown dimension %q: use category, assignee, type, fixversion or team", input.By)
	}
	cfg.Dimension = dim

	out := schema.OutputMode(input.Output)
	if out == "" {
		out = schema.TableOut
	}
	if _, ok := schema.ValidOutputModes[out]; !ok {
		return fmt.Errorf("unknown output mode %q: use table, json, csv, excel or pdf", input.Output)
	}
	cfg.Output = out
	cfg.OutputFile = input.OutputFile

	policy := schema.ResolvePolicy(input.Policy)
	if policy == "" {
		policy = schema.MostRecent
	}
	if _, ok := schema.ValidResolvePolicies[policy]; !ok {
		return fmt.Errorf("unknown policy %q: use first or latest", input.Policy)
	}
	cfg.Policy = policy

	backend := schema.DatabaseBackend(input.SnapshotBackend)
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("unknown snapshot backend %q: use sqlite, mysql, postgresql or none", input.SnapshotBackend)
	}
	cfg.SnapshotBackend = backend
	cfg.SnapshotDBConnect = input.SnapshotDBConnect

	cfg.UseColors = input.Color != "no"
	cfg.Width = input.Width
	return nil
}

// processCalendar parses the sprint date range.
func processCalendar(cfg *Config, input *ConfigRawInput) error {
	var err error
	if input.SprintStart != "" {
		cfg.SprintStart, err = time.Parse(DateFormat, input.SprintStart)
		if err != nil {
			return fmt.Errorf("invalid sprint-start %q: use YYYY-MM-DD", input.SprintStart)
		}
	}
	if input.SprintEnd != "" {
		cfg.SprintEnd, err = time.Parse(DateFormat, input.SprintEnd)
		if err != nil {
			return fmt.Errorf("invalid sprint-end %q: use YYYY-MM-DD", input.SprintEnd)
		}
	}
	if !cfg.SprintStart.IsZero() && !cfg.SprintEnd.IsZero() && cfg.SprintEnd.Before(cfg.SprintStart) {
		return fmt.Errorf("sprint-end %s is before sprint-start %s", input.SprintEnd, input.SprintStart)
	}
	return nil
}

// processTransitionWindow parses the --from/--to/--on transition constraint.
// --on is shorthand for an inclusive single-day window and excludes --from/--to.
func processTransitionWindow(cfg *Config, input *ConfigRawInput) error {
	if input.On != "" {
		if input.From != "" || input.To != "" {
			return fmt.Errorf("--on cannot be combined with --from or --to")
		}
		day, err := time.Parse(DateFormat, input.On)
		if err != nil {
			return fmt.Errorf("invalid date %q for --on: use YYYY-MM-DD", input.On)
		}
		cfg.WindowFrom = day
		cfg.WindowTo = day.Add(24*time.Hour - time.Nanosecond)
		return nil
	}
	var err error
	if input.From != "" {
		cfg.WindowFrom, err = time.Parse(DateFormat, input.From)
		if err != nil {
			return fmt.Errorf("invalid date %q for --from: use YYYY-MM-DD", input.From)
		}
	}
	if input.To != "" {
		day, err := time.Parse(DateFormat, input.To)
		if err != nil {
			return fmt.Errorf("invalid date %q for --to: use YYYY-MM-DD", input.To)
		}
		cfg.WindowTo = day.Add(24*time.Hour - time.Nanosecond)
	}
	if !cfg.WindowFrom.IsZero() && !cfg.WindowTo.IsZero() && cfg.WindowTo.Before(cfg.WindowFrom) {
		return fmt.Errorf("--to %s is before --from %s", input.To, input.From)
	}
	return nil
}

// processCategories builds the validated status-category lookup table.
func processCategories(cfg *Config, input *ConfigRawInput) error {
	mapping := input.Categories
	if len(mapping) == 0 {
		mapping = DefaultCategoryMapping
	}
	table, err := NewCategoryTable(mapping)
	if err != nil {
		return fmt.Errorf("invalid category mapping: %w", err)
	}
	cfg.Categories = table

	cfg.CompletedTargets = splitCSV(input.CompletedTargets)
	if len(cfg.CompletedTargets) == 0 {
		cfg.CompletedTargets = DefaultCompletedTargets
	}
	return nil
}

// processScope resolves the issue filter and type sets.
func processScope(cfg *Config, input *ConfigRawInput) error {
	cfg.ProjectKey = strings.TrimSpace(input.Project)
	cfg.Sprint = strings.TrimSpace(input.SprintArg)

	cfg.JQL = strings.TrimSpace(input.JQL)
	if cfg.JQL == "" {
		var clauses []string
		if cfg.ProjectKey != "" {
			clauses = append(clauses, fmt.Sprintf("project = %s", cfg.ProjectKey))
		}
		if cfg.Sprint != "" {
			clauses = append(clauses, fmt.Sprintf("sprint = %q", cfg.Sprint))
		}
		if len(clauses) == 0 {
			return fmt.Errorf("nothing to query: provide a sprint argument, --project or --jql")
		}
		cfg.JQL = strings.Join(clauses, " AND ")
	}

	cfg.EstimableTypes = toTypeSet(splitCSV(input.EstimableTypes), DefaultEstimableTypes)
	cfg.IncludeTypes = toTypeSet(splitCSV(input.Types), nil)
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL snapshot backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("snapshot-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("invalid MySQL connection string: expected format user:password@tcp(host:port)/dbname")
		}
		return nil
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("snapshot-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "://") && !strings.Contains(connStr, "host=") {
			return fmt.Errorf("invalid PostgreSQL connection string: expected a postgres:// URL or host=... key/value form")
		}
		return nil
	default:
		return fmt.Errorf("unsupported snapshot backend: %s", backend)
	}
}

// splitCSV splits a comma-separated option into trimmed, non-empty parts.
func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// toTypeSet lowercases type names into a membership set, falling back to
// defaults when the input list is empty.
func toTypeSet(names []string, defaults []string) map[string]struct{} {
	if len(names) == 0 {
		names = defaults
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return set
}
