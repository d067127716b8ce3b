// Package cmd implements the trigger command tree: listing tasks, runs and
// schedules, and triggering or cancelling by id or by number from the last
// listing.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/apimgr/trigger/src/api"
	"github.com/apimgr/trigger/src/credentials"
	"github.com/apimgr/trigger/src/display"
	"github.com/apimgr/trigger/src/logging"
	"github.com/apimgr/trigger/src/paths"
	"github.com/apimgr/trigger/src/selection"
	"github.com/apimgr/trigger/src/tui"
)

var (
	// Build info - set via -ldflags at build time
	ProjectName = "trigger"
	Version     = "dev"
	CommitID    = "unknown"
	BuildDate   = "unknown"

	cfgFile   string
	token     string
	output    string
	noColor   bool
	debug     bool
	assumeYes bool
	openAfter bool
	payload   string

	logCloser io.Closer
)

// Platform is the subset of the API client the commands use
type Platform interface {
	ListRuns(ctx context.Context, pageSize int) ([]api.Run, error)
	ListSchedules(ctx context.Context) ([]api.Schedule, error)
	Trigger(ctx context.Context, taskID string, payload json.RawMessage) (*api.TriggerResponse, error)
	CancelRun(ctx context.Context, runID string) error
}

// Package-level function variables for testing
var (
	newPlatform = func(baseURL, token string, timeout int) Platform {
		return api.NewClient(baseURL, token, timeout)
	}
	newSelectionStore = func() *selection.Store {
		return selection.NewStore(paths.SelectionFile())
	}
	resolveCredentials = func() (credentials.Credentials, error) {
		return credentials.Resolver{}.Resolve()
	}
	detectDisplay = display.Detect
	openURL       = display.OpenURL
	pickTask      = tui.Pick
)

var rootCmd = &cobra.Command{
	Use:   getBinaryName() + " [number|task-id]",
	Short: "List, run and cancel tasks on Trigger.dev",
	Long: `List, search, trigger and cancel tasks from the command line.

Listings are numbered. A later command can refer to an entry by that number:
'` + getBinaryName() + ` 2' runs the second task of the last 'list', and
'` + getBinaryName() + ` cancel 1' cancels the first run of the last 'runs'.

Environment:
  TRIGGER_SECRET_KEY   API key (tr_dev_... / tr_prod_...)
  TRIGGER_PROJECT_ID   Project ID (for dashboard URLs)

Both may also be set in ./.env or ./.env.local.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if output != "plain" && output != "json" {
			return &UsageError{Msg: fmt.Sprintf("unknown output format %q (use plain or json)", output)}
		}
		initLogging()
		slog.Debug("command start", "command", cmd.CommandPath(), "args", args)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return execute(cmd, Request{Action: ActionListTasks})
		}
		// A bare argument runs a task: a number from the last listing or a
		// literal task id.
		req, err := newTriggerRequest(args[0], payload)
		if err != nil {
			return err
		}
		return execute(cmd, req)
	},
}

// Execute runs the command tree with the given context
func Execute(ctx context.Context) error {
	defer func() {
		if logCloser != nil {
			logCloser.Close()
			logCloser = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVarP(&token, "token", "t", "", "API key (overrides TRIGGER_SECRET_KEY)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "plain", "output format: plain, json")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "write debug records to the log file")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation")
	rootCmd.PersistentFlags().BoolVar(&openAfter, "open", false, "open the run in the dashboard afterwards")

	rootCmd.Flags().StringVarP(&payload, "payload", "p", "", "JSON payload")

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(schedulesCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(pickCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(shellCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(paths.ResolveConfigPath(cfgFile))
	} else {
		viper.AddConfigPath(paths.ConfigDir())
		viper.SetConfigName("cli")
		viper.SetConfigType("yaml")
	}

	// Defaults
	viper.SetDefault("api.url", api.DefaultBaseURL)
	viper.SetDefault("api.timeout", 30)
	viper.SetDefault("dashboard.url", api.DefaultDashboardURL)
	viper.SetDefault("list.page_size", 100)
	viper.SetDefault("runs.page_size", 50)
	viper.SetDefault("scanner.root", "tasks")
	viper.SetDefault("scanner.include", []string{"**/*.ts"})
	viper.SetDefault("scanner.exclude", []string{"**/node_modules/**"})
	viper.SetDefault("logging.level", "warn")
	viper.SetDefault("logging.file", "")
	viper.SetDefault("logging.max_size", 10)
	viper.SetDefault("logging.max_files", 5)
	viper.SetDefault("output.color", true)

	// A missing config file is fine; everything has a default
	_ = viper.ReadInConfig()
}

// initLogging installs the file logger. Failure only costs the log.
func initLogging() {
	level := viper.GetString("logging.level")
	if debug {
		level = "debug"
	}

	closer, err := logging.Init(logging.Config{
		Level:    level,
		File:     viper.GetString("logging.file"),
		MaxSize:  viper.GetInt("logging.max_size"),
		MaxFiles: viper.GetInt("logging.max_files"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not initialize log file: %v\n", err)
		return
	}
	if logCloser != nil {
		logCloser.Close()
	}
	logCloser = closer
}

func getBinaryName() string {
	return filepath.Base(os.Args[0])
}

func getOutputFormat() string {
	if output != "" {
		return output
	}
	return "plain"
}
