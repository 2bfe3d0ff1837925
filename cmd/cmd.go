// Package cmd defines the command-line interface for sprintlens.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sprintlens/sprintlens/internal/contract"
	"github.com/sprintlens/sprintlens/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(burndownCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the snapshot subcommands to the parent snapshot command
	snapshotCmd.AddCommand(snapshotStatusCmd)
	snapshotCmd.AddCommand(snapshotRecordCmd)
	snapshotCmd.AddCommand(snapshotClearCmd)
	snapshotCmd.AddCommand(snapshotMigrateCmd)
	snapshotCmd.AddCommand(snapshotExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("base-url", "", "JIRA base URL, e.g. https://company.atlassian.net")
	rootCmd.PersistentFlags().String("email", "", "Account email for basic auth")
	rootCmd.PersistentFlags().String("api-token", "", "API token for basic auth")
	rootCmd.PersistentFlags().String("bearer-token", "", "Personal access token for bearer auth (Server/DC)")
	rootCmd.PersistentFlags().String("api-version", "2", "JIRA REST API version: 2 or 3")
	rootCmd.PersistentFlags().String("timeout", "", "HTTP timeout as a Go duration, e.g. 30s")
	rootCmd.PersistentFlags().StringP("project", "p", "", "Project key used to build the default filter")
	rootCmd.PersistentFlags().String("jql", "", "Raw JQL filter (overrides project/sprint)")
	rootCmd.PersistentFlags().Int("max-results", contract.DefaultMaxResults, "Maximum issues fetched per run")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent detail fetchers")
	rootCmd.PersistentFlags().String("sprint-start", "", "First day of the sprint (YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("sprint-end", "", "Deadline of the sprint (YYYY-MM-DD)")
	rootCmd.PersistentFlags().Float64("default-points", contract.DefaultPointFallback, "Fallback points for unestimated estimable issues")
	rootCmd.PersistentFlags().String("estimable-types", "", "Comma-separated issue types that receive the fallback")
	rootCmd.PersistentFlags().String("types", "", "Comma-separated issue types to include (empty = all)")
	rootCmd.PersistentFlags().String("completed-statuses", "", "Comma-separated statuses that count as delivered")
	rootCmd.PersistentFlags().String("policy", string(schema.MostRecent), "Transition resolution policy: first or latest")
	rootCmd.PersistentFlags().String("from", "", "Only count transitions on or after this date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("to", "", "Only count transitions on or before this date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("on", "", "Only count transitions on this single date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().String("by", string(schema.ByCategory), "Aggregation dimension: category, assignee, type, fixversion or team")
	rootCmd.PersistentFlags().String("output", string(schema.TableOut), "Output format: table, json, csv, excel or pdf")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("snapshot-backend", string(schema.NoneBackend), "Snapshot archive backend: sqlite, mysql, postgresql or none")
	rootCmd.PersistentFlags().String("snapshot-db-connect", "", "Database connection string for mysql/postgresql archives")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of snapshotMigrateCmd to Viper
	snapshotMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(snapshotMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding snapshot migrate flags", err)
	}
}
