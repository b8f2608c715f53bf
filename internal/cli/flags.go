package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func OptionalStringFlag(cmd *cobra.Command, name string) (string, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return "", nil
	}
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return strings.TrimSpace(value), nil
}

func OptionalBoolFlag(cmd *cobra.Command, name string, defaultValue bool) (bool, error) {
	if cmd == nil || cmd.Flags().Lookup(name) == nil {
		return defaultValue, nil
	}
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}

// lintFlags are the root command flags.
type lintFlags struct {
	Script     bool
	Clear      bool
	List       bool
	Arch       string
	ConfigPath string
	Refresh    bool
	NoCache    bool
	JSON       bool
	Verbose    bool

	NoUnused        bool
	NoUnusedFunc    bool
	NoUnusedVar     bool
	NoUndefined     bool
	NoUndefinedFunc bool
	NoUndefinedVar  bool
}

func parseLintFlags(cmd *cobra.Command) (lintFlags, error) {
	var f lintFlags
	bools := []struct {
		name string
		dst  *bool
	}{
		{"script", &f.Script},
		{"clear", &f.Clear},
		{"list", &f.List},
		{"refresh", &f.Refresh},
		{"no-cache", &f.NoCache},
		{"json", &f.JSON},
		{"verbose", &f.Verbose},
		{"wno-unused", &f.NoUnused},
		{"wno-unused-function", &f.NoUnusedFunc},
		{"wno-unused-variable", &f.NoUnusedVar},
		{"wno-undefined", &f.NoUndefined},
		{"wno-undefined-function", &f.NoUndefinedFunc},
		{"wno-undefined-variable", &f.NoUndefinedVar},
	}
	for _, b := range bools {
		value, err := OptionalBoolFlag(cmd, b.name, false)
		if err != nil {
			return lintFlags{}, err
		}
		*b.dst = value
	}

	var err error
	if f.Arch, err = OptionalStringFlag(cmd, "arch"); err != nil {
		return lintFlags{}, err
	}
	if f.ConfigPath, err = OptionalStringFlag(cmd, "config"); err != nil {
		return lintFlags{}, err
	}
	return f, nil
}
