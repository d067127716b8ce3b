package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <task-id|number>",
	Short: "Trigger a task",
	Long: `Trigger a task by id, or by its number in the last listing.
Asks for confirmation unless -y is given.

Examples:
  ` + getBinaryName() + ` run send-email-batch
  ` + getBinaryName() + ` run 2 -y
  ` + getBinaryName() + ` run send-email-batch -p '{"to":"a@example.com"}' --open`,
	Args: targetArg("run <task-id|number>"),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := newTriggerRequest(args[0], payload)
		if err != nil {
			return err
		}
		return execute(cmd, req)
	},
}

var cancelCmd = &cobra.Command{
	Use:   "cancel <run-id|number>",
	Short: "Cancel an in-progress run",
	Long: `Cancel a run by id, or by its number in the last 'runs' listing.
Asks for confirmation unless -y is given.

Examples:
  ` + getBinaryName() + ` cancel run_cm1abc2def3
  ` + getBinaryName() + ` cancel 1 -y`,
	Args: targetArg("cancel <run-id|number>"),
	RunE: func(cmd *cobra.Command, args []string) error {
		return execute(cmd, newCancelRequest(args[0]))
	},
}

// targetArg requires exactly one positional argument
func targetArg(usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 || args[0] == "" {
			return &UsageError{Msg: fmt.Sprintf("usage: %s %s", getBinaryName(), usage)}
		}
		return nil
	}
}

func init() {
	runCmd.Flags().StringVarP(&payload, "payload", "p", "", "JSON payload")
}
