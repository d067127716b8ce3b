package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Shell completion scripts",
}

var completionsCmd = &cobra.Command{
	Use:       "completions [bash|zsh|fish|powershell]",
	Short:     "Print the completion script for a shell (default: $SHELL)",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"bash", "zsh", "fish", "powershell", "pwsh"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return printCompletions(cmd.OutOrStdout(), shellArg(args))
	},
}

var initCmd = &cobra.Command{
	Use:   "init [bash|zsh|fish|powershell]",
	Short: "Print a line that loads completions, for your shell rc file",
	Example: `  eval "$(` + getBinaryName() + ` shell init)"
  ` + getBinaryName() + ` shell init fish >> ~/.config/fish/config.fish`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"bash", "zsh", "fish", "powershell", "pwsh"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return printInit(cmd.OutOrStdout(), shellArg(args))
	},
}

func init() {
	shellCmd.AddCommand(completionsCmd)
	shellCmd.AddCommand(initCmd)
}

func shellArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return detectShell()
}

// detectShell names the shell in $SHELL, bash when unset. Windows paths
// such as C:\...\pwsh.exe are handled on every platform.
func detectShell() string {
	shellPath := os.Getenv("SHELL")
	if shellPath == "" {
		return "bash"
	}
	base := filepath.Base(shellPath)
	if idx := strings.LastIndex(base, "\\"); idx >= 0 {
		base = base[idx+1:]
	}
	return strings.TrimSuffix(base, ".exe")
}

func printCompletions(w io.Writer, shell string) error {
	switch shell {
	case "bash":
		return rootCmd.GenBashCompletionV2(w, true)
	case "zsh":
		return rootCmd.GenZshCompletion(w)
	case "fish":
		return rootCmd.GenFishCompletion(w, true)
	case "powershell", "pwsh":
		return rootCmd.GenPowerShellCompletionWithDesc(w)
	default:
		return unsupportedShell(shell)
	}
}

func printInit(w io.Writer, shell string) error {
	bin := getBinaryName()

	var line string
	switch shell {
	case "bash", "zsh":
		line = fmt.Sprintf("source <(%s shell completions %s)", bin, shell)
	case "fish":
		line = fmt.Sprintf("%s shell completions fish | source", bin)
	case "powershell", "pwsh":
		line = fmt.Sprintf("Invoke-Expression (& %s shell completions powershell | Out-String)", bin)
	default:
		return unsupportedShell(shell)
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

func unsupportedShell(shell string) error {
	return &UsageError{Msg: fmt.Sprintf("unsupported shell %q (use bash, zsh, fish or powershell)", shell)}
}
