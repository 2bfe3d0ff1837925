package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sprintlens/sprintlens/internal/contract"
	"github.com/sprintlens/sprintlens/internal/jira"
	"github.com/sprintlens/sprintlens/internal/logger"
	"github.com/sprintlens/sprintlens/internal/snapstore"
	"github.com/sprintlens/sprintlens/schema"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// log is the process-wide structured logger, configured during setup.
var log zerolog.Logger

// client is the tracker client created after validation.
var client contract.JiraClient

// store is the snapshot archive handle. It is a no-op store when the
// snapshot backend is "none".
var store contract.SnapshotStore

// rootCmd is the base command for sprintlens.
var rootCmd = &cobra.Command{
	Use:                "sprintlens",
	Short:              "Analyze JIRA sprints for story-point totals, velocity and burndown.",
	Long:               `Sprintlens pulls a sprint's issues from JIRA and turns them into point totals, per-team breakdowns, velocity projections and daily burn targets.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setConfigLocations points viper at the config file: an explicit --config
// path when given, else .sprintlens.yaml in the current or home directory.
// Both the full setup and the snapshot-only setup resolve through here.
func setConfigLocations() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".sprintlens") // Name of config file (without extension)
		viper.SetConfigType("yaml")        // We'll use YAML format
		viper.AddConfigPath(".")           // Look in the current directory
		viper.AddConfigPath("$HOME")       // Look in the home directory
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigLocations()

	// Set environment variable prefix
	viper.SetEnvPrefix("SPRINTLENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// The standard Atlassian credential variables work without the prefix.
	_ = viper.BindEnv("base-url", "SPRINTLENS_BASE_URL", "JIRA_BASE_URL")
	_ = viper.BindEnv("email", "SPRINTLENS_EMAIL", "JIRA_EMAIL")
	_ = viper.BindEnv("api-token", "SPRINTLENS_API_TOKEN", "JIRA_API_TOKEN")
	_ = viper.BindEnv("bearer-token", "SPRINTLENS_BEARER_TOKEN", "JIRA_BEARER_TOKEN")

	// Set defaults in Viper
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("max-results", contract.DefaultMaxResults)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("default-points", contract.DefaultPointFallback)
	viper.SetDefault("by", schema.ByCategory)
	viper.SetDefault("output", schema.TableOut)
	viper.SetDefault("policy", schema.MostRecent)
	viper.SetDefault("snapshot-backend", schema.NoneBackend)
	viper.SetDefault("snapshot-db-connect", "")
	viper.SetDefault("color", "yes")
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.SprintArg = args[0]
	}

	// 4. Run all validation and complex parsing.
	// This function now populates the global 'cfg' from 'input'.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 5. Wire the ambient pieces from validated config.
	log = logger.New(viper.GetBool("verbose"))
	color.NoColor = !cfg.UseColors

	client = jira.NewClient(cfg, log)

	var err error
	store, err = snapstore.New(cfg.SnapshotBackend, cfg.SnapshotDBConnect)
	if err != nil {
		return fmt.Errorf("failed to initialize snapshot archive: %w", err)
	}

	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	setConfigLocations()

	// Load config file if present
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// closeStore releases the snapshot archive handle after a command runs.
func closeStore(_ *cobra.Command, _ []string) {
	if store != nil {
		_ = store.Close()
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
