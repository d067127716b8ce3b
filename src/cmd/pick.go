package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var pickLocal bool

var pickCmd = &cobra.Command{
	Use:   "pick [search]",
	Short: "Choose a task interactively and trigger it",
	Long: `Show the task listing in an interactive picker. Type to filter, move with
the arrow keys and press Enter to trigger the highlighted task.

Examples:
  ` + getBinaryName() + ` pick
  ` + getBinaryName() + ` pick email -p '{"dryRun":true}'
  ` + getBinaryName() + ` pick --local`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := parsePayload(payload)
		if err != nil {
			return err
		}
		return execute(cmd, Request{
			Action:  ActionPick,
			Search:  strings.Join(args, " "),
			Local:   pickLocal,
			Payload: p,
			Yes:     assumeYes,
			Open:    openAfter,
		})
	},
}

func init() {
	pickCmd.Flags().BoolVar(&pickLocal, "local", false, "pick from the local tasks folder")
	pickCmd.Flags().StringVarP(&payload, "payload", "p", "", "JSON payload")
}
