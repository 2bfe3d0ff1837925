package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// Dimension represents the partition dimension used for aggregation.
	Dimension string

	// ResolvePolicy selects which qualifying status transition wins.
	ResolvePolicy string

	// DatabaseBackend represents the database backend for the snapshot archive.
	DatabaseBackend string
)

// All output modes supported.
const (
	TableOut OutputMode = "table" // default
	JSONOut  OutputMode = "json"
	CSVOut   OutputMode = "csv"
	ExcelOut OutputMode = "excel"
	PDFOut   OutputMode = "pdf"
)

// All partition dimensions supported.
const (
	ByCategory   Dimension = "category" // default
	ByAssignee   Dimension = "assignee"
	ByType       Dimension = "type"
	ByFixVersion Dimension = "fixversion"
	ByTeam       Dimension = "team"
)

// Transition resolution policies.
//
// FirstMatch answers "when was the issue first added to this status"
// (scope/burndown analysis). MostRecent answers "did the issue reach a
// terminal status within this window". The caller always picks explicitly;
// there is no implicit default wired to a particular report.
const (
	FirstMatch ResolvePolicy = "first"
	MostRecent ResolvePolicy = "latest"
)

// All snapshot archive backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TableOut: {},
	JSONOut:  {},
	CSVOut:   {},
	ExcelOut: {},
	PDFOut:   {},
}

// ValidDimensions lists all valid partition dimensions.
var ValidDimensions = map[Dimension]struct{}{
	ByCategory:   {},
	ByAssignee:   {},
	ByType:       {},
	ByFixVersion: {},
	ByTeam:       {},
}

// ValidResolvePolicies lists all valid transition resolution policies.
var ValidResolvePolicies = map[ResolvePolicy]struct{}{
	FirstMatch: {},
	MostRecent: {},
}

// ValidDatabaseBackends lists all valid snapshot archive backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
