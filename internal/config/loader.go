package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gdblint/gdblint/internal/fileutil"
)

// Load reads the config at path on top of Default. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		slog.Warn("unknown config key", "path", path, "key", key.String())
	}

	applyDefaults(cfg)

	if err := validateFormat(cfg); err != nil {
		return nil, err
	}
	if err := validateGDB(cfg); err != nil {
		return nil, err
	}
	if err := validateSymbols(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Find returns the config path to load: explicit when set, otherwise
// FileName in dir when it exists, otherwise "".
func Find(explicit, dir string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, nil
	}
	candidate := filepath.Join(dir, FileName)
	if _, err := os.Stat(candidate); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to inspect %s: %w", candidate, err)
	}
	return candidate, nil
}

func applyDefaults(cfg *Config) {
	defaults := Default()
	if strings.TrimSpace(cfg.Arch) == "" {
		cfg.Arch = defaults.Arch
	}
	if strings.TrimSpace(cfg.Format) == "" {
		cfg.Format = defaults.Format
	}
	if strings.TrimSpace(cfg.GDB.Path) == "" {
		cfg.GDB.Path = defaults.GDB.Path
	}
	if cfg.GDB.Timeout <= 0 {
		cfg.GDB.Timeout = defaults.GDB.Timeout
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	cfg.Symbols.Ignore = fileutil.SortedUnique(cfg.Symbols.Ignore)
	cfg.Symbols.Commands = fileutil.DedupeStrings(cfg.Symbols.Commands)
}
