package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

var symbolNameRE = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func validateFormat(cfg *Config) error {
	if cfg.Format != "plain" && cfg.Format != "script" {
		return fmt.Errorf("format must be one of: plain, script (got %q)", cfg.Format)
	}
	return nil
}

func validateGDB(cfg *Config) error {
	if strings.ContainsAny(cfg.GDB.Path, "\n\x00") {
		return fmt.Errorf("gdb.path contains invalid characters")
	}
	return nil
}

func validateSymbols(cfg *Config) error {
	for i, pattern := range cfg.Symbols.Ignore {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("symbols.ignore[%d]: invalid pattern %q: %w", i, pattern, err)
		}
	}
	for i, name := range cfg.Symbols.Commands {
		if !printable(name) {
			return fmt.Errorf("symbols.commands[%d]: invalid name %q", i, name)
		}
	}
	for i, name := range cfg.Symbols.Variables {
		name = strings.TrimPrefix(name, "$")
		if !symbolNameRE.MatchString(name) {
			return fmt.Errorf("symbols.variables[%d]: invalid name %q", i, cfg.Symbols.Variables[i])
		}
		cfg.Symbols.Variables[i] = name
	}
	return nil
}

// printable reports whether name is non-empty and made only of printable,
// non-space ASCII, the alphabet command names are stored in.
func printable(name string) bool {
	for i := 0; i < len(name); i++ {
		if name[i] < '!' || name[i] > '~' {
			return false
		}
	}
	return name != ""
}
