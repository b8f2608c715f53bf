package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/gdblint/gdblint/internal/cache"
	"github.com/gdblint/gdblint/internal/config"
	"github.com/gdblint/gdblint/internal/gdbenv"
	"github.com/gdblint/gdblint/internal/lint"
	"github.com/gdblint/gdblint/internal/report"
)

// ErrIssuesFound is returned when the script produced diagnostics. It is
// not printed; it only sets the exit status.
var ErrIssuesFound = errors.New("issues found")

const programName = "gdblint"

var newEnvironment = func(cfg *config.Config) gdbenv.Environment {
	return gdbenv.New(cfg.GDB.Path, cfg.GDB.Timeout)
}

func RunLint(cmd *cobra.Command, args []string) error {
	start := time.Now()

	flags, err := parseLintFlags(cmd)
	if err != nil {
		return err
	}
	setupLogging(cmd.ErrOrStderr(), flags.Verbose)

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg, flags)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if flags.Clear {
		return runClear(out, cfg)
	}

	env := newEnvironment(cfg)
	if flags.List {
		return runList(ctx, out, lint.NewSession(env, nil, lint.Options{}))
	}

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	ignore, err := report.CompileIgnores(cfg.Symbols.Ignore)
	if err != nil {
		return err
	}

	script, file, err := openScript(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer script.Close()

	var store *cache.Store
	if !cfg.Cache.Disabled {
		if store, err = cacheStore(cfg); err != nil {
			slog.Warn("cache disabled", "error", err)
		}
	}

	progress := newQueryProgressReporter("gdb", 4, flags.JSON)
	session := lint.NewSession(env, store, lint.Options{
		Arch:           cfg.Arch,
		Refresh:        flags.Refresh,
		Filter:         filterFromConfig(cfg, ignore),
		ExtraCommands:  cfg.Symbols.Commands,
		ExtraVariables: cfg.Symbols.Variables,
		Progress:       progress.Step,
	})

	source, err := session.Prepare(ctx)
	if err != nil {
		return err
	}
	progress.Done(source.String())

	diags, err := session.Lint(script)
	if err != nil {
		return err
	}

	displayName := file
	if displayName == "" {
		displayName = report.StdinName
	}
	stats := session.Stats()
	summary := RunSummary{
		Mode:        "lint",
		File:        displayName,
		Format:      string(format),
		Source:      source.String(),
		Lines:       stats.Lines,
		Definitions: stats.Definitions,
		References:  stats.References,
		Commands:    stats.Commands,
		Issues:      len(diags),
		DurationMS:  time.Since(start).Milliseconds(),
	}

	if flags.JSON {
		summary.Diagnostics = summarizeDiagnostics(diags, filepath.Base(displayName), session.Width())
		if err := PrintRunSummary(out, summary, true); err != nil {
			return err
		}
	} else {
		if err := report.NewWriter(out, format).Write(file, session.Width(), diags); err != nil {
			return fmt.Errorf("failed to write diagnostics: %w", err)
		}
		if flags.Verbose {
			if err := PrintRunSummary(cmd.ErrOrStderr(), summary, false); err != nil {
				return err
			}
		}
	}

	if len(diags) > 0 {
		return ErrIssuesFound
	}
	return nil
}

func loadConfig(flags lintFlags) (*config.Config, error) {
	path, err := config.Find(flags.ConfigPath, "")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if path != "" {
		slog.Debug("loaded config", "path", path)
	}
	return cfg, nil
}

func applyFlagOverrides(cfg *config.Config, flags lintFlags) {
	if flags.Arch != "" {
		cfg.Arch = flags.Arch
	}
	if flags.Script {
		cfg.Format = string(report.FormatScript)
	}
	if flags.NoCache {
		cfg.Cache.Disabled = true
	}

	w := &cfg.Warnings
	w.Unused = w.Unused && !flags.NoUnused
	w.UnusedFunction = w.UnusedFunction && !flags.NoUnusedFunc
	w.UnusedVariable = w.UnusedVariable && !flags.NoUnusedVar
	w.Undefined = w.Undefined && !flags.NoUndefined
	w.UndefinedFunction = w.UndefinedFunction && !flags.NoUndefinedFunc
	w.UndefinedVariable = w.UndefinedVariable && !flags.NoUndefinedVar
}

func filterFromConfig(cfg *config.Config, ignore []glob.Glob) report.Filter {
	w := cfg.Warnings
	return report.Filter{
		NoUnused:        !w.Unused,
		NoUnusedFunc:    !w.UnusedFunction,
		NoUnusedVar:     !w.UnusedVariable,
		NoUndefined:     !w.Undefined,
		NoUndefinedFunc: !w.UndefinedFunction,
		NoUndefinedVar:  !w.UndefinedVariable,
		Ignore:          ignore,
	}
}

func cacheStore(cfg *config.Config) (*cache.Store, error) {
	if cfg.Cache.Path != "" {
		return cache.New(cfg.Cache.Path), nil
	}
	path, err := cache.DefaultPath(programName)
	if err != nil {
		return nil, err
	}
	return cache.New(path), nil
}

func runClear(out io.Writer, cfg *config.Config) error {
	store, err := cacheStore(cfg)
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(out, "Definitions and commands cache has been removed")
	return nil
}

func runList(ctx context.Context, out io.Writer, session *lint.Session) error {
	archs, err := session.Architectures(ctx)
	if err != nil {
		return fmt.Errorf("failed to list architectures: %w", err)
	}
	fmt.Fprintf(out, "%s - lint GDB scripts\n\n", programName)
	fmt.Fprint(out, "ARCHITECTURES\n\tAvailable GDB architectures\n\n")
	for _, arch := range archs {
		fmt.Fprintf(out, "\t%s\n", arch)
	}
	fmt.Fprintln(out)
	return nil
}
