package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var listLocal bool

var listCmd = &cobra.Command{
	Use:   "list [search]",
	Short: "List tasks (numbered)",
	Long: `List tasks seen in recent runs, numbered for '` + getBinaryName() + ` <number>'.

With --local the ./tasks folder is scanned for task definitions instead and
no API key is needed.

Examples:
  ` + getBinaryName() + ` list
  ` + getBinaryName() + ` list email
  ` + getBinaryName() + ` list --local`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := Request{
			Action: ActionListTasks,
			Search: strings.Join(args, " "),
		}
		if listLocal {
			req.Action = ActionListLocal
		}
		return execute(cmd, req)
	},
}

var schedulesCmd = &cobra.Command{
	Use:   "schedules",
	Short: "List scheduled tasks (numbered)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return execute(cmd, Request{Action: ActionListSchedules})
	},
}

var runsActive bool

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent runs with run IDs (numbered)",
	Long: `List recent runs, numbered for '` + getBinaryName() + ` cancel <number>'.

Examples:
  ` + getBinaryName() + ` runs
  ` + getBinaryName() + ` runs --active`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return execute(cmd, Request{Action: ActionListRuns, Active: runsActive})
	},
}

func init() {
	listCmd.Flags().BoolVar(&listLocal, "local", false, "scan the local tasks folder instead of the API")
	runsCmd.Flags().BoolVarP(&runsActive, "active", "a", false, "only in-progress runs")
}
