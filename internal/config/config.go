// Package config loads gdblint settings from a TOML file.
package config

import (
	"time"
)

// FileName is the project-local config file looked up when no path is given.
const FileName = ".gdblint.toml"

type Config struct {
	Arch     string   `toml:"arch"`
	Format   string   `toml:"format"`
	Warnings Warnings `toml:"warnings"`
	GDB      GDB      `toml:"gdb"`
	Cache    Cache    `toml:"cache"`
	Symbols  Symbols  `toml:"symbols"`
}

// Warnings enables or disables each diagnostic category.
type Warnings struct {
	Unused            bool `toml:"unused"`
	UnusedFunction    bool `toml:"unused_function"`
	UnusedVariable    bool `toml:"unused_variable"`
	Undefined         bool `toml:"undefined"`
	UndefinedFunction bool `toml:"undefined_function"`
	UndefinedVariable bool `toml:"undefined_variable"`
}

type GDB struct {
	Path    string        `toml:"path"`
	Timeout time.Duration `toml:"timeout"`
}

type Cache struct {
	Disabled bool   `toml:"disabled"`
	Path     string `toml:"path"`
}

// Symbols extends what the linter treats as known.
type Symbols struct {
	// Ignore holds glob patterns; matching names are never reported.
	Ignore []string `toml:"ignore"`
	// Commands are recognized as built-in commands.
	Commands []string `toml:"commands"`
	// Variables are treated as environment-provided convenience variables.
	Variables []string `toml:"variables"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		Arch:   "auto",
		Format: "plain",
		Warnings: Warnings{
			Unused:            true,
			UnusedFunction:    true,
			UnusedVariable:    true,
			Undefined:         true,
			UndefinedFunction: true,
			UndefinedVariable: true,
		},
		GDB: GDB{
			Path:    "gdb",
			Timeout: 30 * time.Second,
		},
	}
}

// Template is written by "gdblint init".
const Template = `# gdblint configuration

# gdb architecture used to look up register names ("auto" uses the host).
arch = "auto"
# Output format: plain | script
format = "plain"

[warnings]
unused = true
unused_function = true
unused_variable = true
undefined = true
undefined_function = true
undefined_variable = true

[gdb]
path = "gdb"
timeout = "30s"

[cache]
disabled = false
# Defaults to <user cache dir>/gdblint.
path = ""

[symbols]
# Glob patterns for names that are never reported.
ignore = []
# Extra names recognized as commands.
commands = []
# Extra names treated as environment convenience variables.
variables = []
`
