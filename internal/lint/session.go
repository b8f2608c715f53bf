// Package lint runs one linting pass over a gdb script. A Session owns every
// table for the run; nothing is shared between sessions.
package lint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/gdblint/gdblint/internal/cache"
	"github.com/gdblint/gdblint/internal/extract"
	"github.com/gdblint/gdblint/internal/gdbenv"
	"github.com/gdblint/gdblint/internal/report"
	"github.com/gdblint/gdblint/internal/script"
	"github.com/gdblint/gdblint/internal/symtab"
	"github.com/gdblint/gdblint/internal/trie"
)

// Source tells where the environment symbols of a run came from.
type Source int

const (
	SourceNone Source = iota
	SourceCache
	SourceGDB
)

func (s Source) String() string {
	switch s {
	case SourceCache:
		return "cache"
	case SourceGDB:
		return "gdb"
	default:
		return "none"
	}
}

// Options configures a Session.
type Options struct {
	// Arch is the gdb architecture hint used for register names.
	Arch string
	// Refresh queries gdb even when a cache exists.
	Refresh bool
	Filter  report.Filter
	// ExtraCommands and ExtraVariables are known for this run only and are
	// never written to the cache.
	ExtraCommands  []string
	ExtraVariables []string
	// Progress, when set, is called before each gdb query.
	Progress func(step string)
}

// Session holds the state of one lint run.
type Session struct {
	env   gdbenv.Environment
	store *cache.Store
	opts  Options

	defs  *symtab.Table
	refs  *symtab.Table
	cmds  *trie.Trie
	lines *script.Lines
}

// Stats summarizes what a run saw.
type Stats struct {
	Lines       int
	Definitions int
	References  int
	Commands    int
}

// NewSession creates a session. env may be nil to skip gdb, and store may be
// nil to disable the cache.
func NewSession(env gdbenv.Environment, store *cache.Store, opts Options) *Session {
	return &Session{
		env:   env,
		store: store,
		opts:  opts,
		defs:  symtab.New(symtab.WithDuplicateCheck()),
		refs:  symtab.New(symtab.WithDuplicateCheck()),
		cmds:  trie.New(),
		lines: &script.Lines{},
	}
}

// Prepare loads the environment symbols, from the cache or from gdb, and
// reports which one was used. Failures of either are logged and the run
// continues with whatever could be loaded. The only error returned is a
// cancelled ctx.
func (s *Session) Prepare(ctx context.Context) (Source, error) {
	source := SourceNone
	cacheTried := !s.opts.Refresh
	if cacheTried && s.loadCache() {
		source = SourceCache
	}

	if source == SourceNone && s.env != nil {
		env, complete := s.query(ctx)
		if err := ctx.Err(); err != nil {
			return SourceNone, err
		}
		switch {
		case complete:
			env.apply(s.defs, s.cmds)
			source = SourceGDB
			s.saveCache()
		case !cacheTried && s.loadCache():
			source = SourceCache
		case !env.empty():
			// Partial results are used for this run but not cached.
			env.apply(s.defs, s.cmds)
			source = SourceGDB
		}
		cacheTried = true
	}

	if source == SourceNone && !cacheTried && s.loadCache() {
		source = SourceCache
	}

	s.addExtras()
	slog.Debug("environment prepared", "source", source, "symbols", s.defs.Len(), "commands", s.cmds.Len())
	return source, nil
}

func (s *Session) loadCache() bool {
	if s.store == nil {
		return false
	}
	err := s.store.Load(s.defs, s.refs, s.cmds)
	switch {
	case err == nil:
		return true
	case errors.Is(err, cache.ErrNotFound):
		slog.Debug("no environment cache", "path", s.store.Path)
	default:
		slog.Warn("ignoring environment cache", "path", s.store.Path, "error", err)
	}
	return false
}

func (s *Session) saveCache() {
	if s.store == nil {
		return
	}
	if err := s.store.Save(s.defs, s.refs, s.cmds); err != nil {
		slog.Warn("failed to write environment cache", "path", s.store.Path, "error", err)
	}
}

// environment is the staged result of querying gdb.
type environment struct {
	commands  []string
	variables []string
}

func (e environment) empty() bool {
	return len(e.commands) == 0 && len(e.variables) == 0
}

func (e environment) apply(defs *symtab.Table, cmds *trie.Trie) {
	for _, name := range e.commands {
		cmds.Insert(name)
	}
	for _, name := range e.variables {
		defs.Insert(name, symtab.Variable, 0)
	}
}

// query asks gdb for every category. complete is false when any query
// failed; the categories that did succeed are still returned.
func (s *Session) query(ctx context.Context) (env environment, complete bool) {
	complete = true
	failed := func(step string, err error) {
		complete = false
		slog.Warn("gdb query failed", "section", step, "error", err)
	}

	s.progress("architectures")
	archs, err := s.env.Architectures(ctx)
	if err != nil {
		failed("architectures", err)
	}
	arch := gdbenv.ResolveArch(s.opts.Arch, archs)
	slog.Debug("resolved architecture", "hint", s.opts.Arch, "arch", arch)

	s.progress("commands")
	if env.commands, err = s.env.Commands(ctx); err != nil {
		failed("commands", err)
	}

	s.progress("convenience variables")
	vars, err := s.env.ConvenienceVariables(ctx)
	if err != nil {
		failed("convenience variables", err)
	}
	env.variables = append(env.variables, vars...)

	s.progress("registers")
	regs, err := s.env.Registers(ctx, arch)
	if err != nil {
		failed("registers", err)
	}
	env.variables = append(env.variables, regs...)

	return env, complete
}

func (s *Session) progress(step string) {
	if s.opts.Progress != nil {
		s.opts.Progress(step)
	}
}

func (s *Session) addExtras() {
	for _, name := range s.opts.ExtraCommands {
		if !s.cmds.Insert(name) {
			slog.Warn("ignoring extra command", "name", name)
		}
	}
	for _, name := range s.opts.ExtraVariables {
		s.defs.Insert(name, symtab.Variable, 0)
	}
}

// Lint reads a script from r and returns its diagnostics ordered by line.
// A session lints a single script.
func (s *Session) Lint(r io.Reader) ([]report.Diagnostic, error) {
	lines, err := script.Assemble(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	s.lines = lines

	defs := extract.Definitions(lines, s.defs)
	refs := extract.References(lines, s.refs, extract.NewClassifier(s.cmds))
	slog.Debug("extracted symbols", "lines", lines.Len(), "definitions", defs, "references", refs)

	diags := report.Undefined(s.defs, s.refs, s.opts.Filter)
	diags = append(diags, report.Unused(s.defs, s.refs, s.opts.Filter)...)
	report.Sort(diags)
	return diags, nil
}

// Width returns the digit width line numbers are padded to.
func (s *Session) Width() int {
	return s.lines.Width()
}

// Stats reports counts for the last Lint call.
func (s *Session) Stats() Stats {
	st := Stats{Lines: s.lines.Len(), Commands: s.cmds.Len()}
	for sym := range s.defs.All() {
		if !sym.Environment() {
			st.Definitions++
		}
	}
	st.References = s.refs.Len()
	return st
}

// Architectures lists the architectures gdb supports.
func (s *Session) Architectures(ctx context.Context) ([]string, error) {
	if s.env == nil {
		return nil, gdbenv.ErrUnavailable
	}
	return s.env.Architectures(ctx)
}
