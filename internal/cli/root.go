package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gdblint/gdblint/internal/config"
)

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gdblint [flags] [FILE]",
		Short: "Lint GDB scripts",
		Long: `gdblint reports user-defined commands and convenience variables that a
GDB script references without defining, and ones it defines but never uses.

The script is read from FILE, or from standard input when FILE is omitted or
"-". Commands, registers and convenience variables built into gdb are
discovered by running gdb once and cached for later runs.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          RunLint,
	}

	flags := rootCmd.Flags()
	flags.BoolP("script", "s", false, "Print diagnostics as a shell array assignment")
	flags.BoolP("clear", "c", false, "Remove the definitions and commands cache")
	flags.BoolP("list", "l", false, "List architectures available with gdb")
	flags.StringP("arch", "a", "", "gdb architecture used for register names")
	flags.Bool("wno-unused", false, "Disable warnings for unused functions and variables")
	flags.Bool("wno-unused-function", false, "Disable warnings for unused functions")
	flags.Bool("wno-unused-variable", false, "Disable warnings for unused variables")
	flags.Bool("wno-undefined", false, "Disable warnings for undefined functions and variables")
	flags.Bool("wno-undefined-function", false, "Disable warnings for undefined functions")
	flags.Bool("wno-undefined-variable", false, "Disable warnings for undefined variables")
	flags.String("config", "", "Path to config file (default: ./"+config.FileName+" when present)")
	flags.Bool("refresh", false, "Query gdb even when a cache exists")
	flags.Bool("no-cache", false, "Neither read nor write the cache")
	flags.Bool("json", false, "Print machine-readable run summary")
	flags.BoolP("verbose", "v", false, "Log debug details to stderr")

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default " + config.FileName + " in the current directory",
		Args:  cobra.NoArgs,
		RunE:  RunInit,
	}

	installHookCmd := &cobra.Command{
		Use:   "install-hook",
		Short: "Install a git pre-commit hook that lints staged GDB scripts",
		Args:  cobra.NoArgs,
		RunE:  RunInstallHook,
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gdblint %s\n", version)
		},
	}

	rootCmd.AddCommand(initCmd, installHookCmd, versionCmd)

	return rootCmd
}
