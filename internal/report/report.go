// Package report turns the definition and reference tables of a linted
// script into diagnostics and renders them.
package report

import (
	"fmt"
	"sort"

	"github.com/gobwas/glob"

	"github.com/gdblint/gdblint/internal/symtab"
)

// Issue is the category of a diagnostic.
type Issue int

const (
	IssueUndefined Issue = iota
	IssueUnused
)

func (i Issue) String() string {
	switch i {
	case IssueUndefined:
		return "undefined"
	case IssueUnused:
		return "unused"
	default:
		return "unknown"
	}
}

// Diagnostic is one reported symbol.
type Diagnostic struct {
	Issue Issue
	Kind  symtab.Kind
	Name  string
	Line  int
}

// Message renders d the way it is printed, with the line number
// zero-padded to width digits.
func (d Diagnostic) Message(file string, width int) string {
	switch d.Issue {
	case IssueUnused:
		return fmt.Sprintf("%s:%0*d: Unused %s: '%s' defined at line %d is never used",
			file, width, d.Line, d.Kind, d.Name, d.Line)
	default:
		return fmt.Sprintf("%s:%0*d: Undefined %s: '%s' is referenced at line %d but never defined",
			file, width, d.Line, d.Kind, d.Name, d.Line)
	}
}

// Filter selects which diagnostics are reported.
type Filter struct {
	NoUnused        bool
	NoUnusedFunc    bool
	NoUnusedVar     bool
	NoUndefined     bool
	NoUndefinedFunc bool
	NoUndefinedVar  bool
	Ignore          []glob.Glob
}

// CompileIgnores compiles the name patterns whose symbols are never reported.
func CompileIgnores(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
		out = append(out, g)
	}
	return out, nil
}

// Ignored reports whether name matches an ignore pattern.
func (f Filter) Ignored(name string) bool {
	for _, g := range f.Ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func (f Filter) skipUnused(kind symtab.Kind) bool {
	return f.NoUnused ||
		(f.NoUnusedFunc && kind == symtab.Function) ||
		(f.NoUnusedVar && kind == symtab.Variable)
}

func (f Filter) skipUndefined(kind symtab.Kind) bool {
	return f.NoUndefined ||
		(f.NoUndefinedFunc && kind == symtab.Function) ||
		(f.NoUndefinedVar && kind == symtab.Variable)
}

// Unused reports script definitions that nothing references. Symbols from
// the gdb environment are never reported.
func Unused(defs, refs *symtab.Table, f Filter) []Diagnostic {
	if f.NoUnused {
		return nil
	}
	var out []Diagnostic
	for def := range defs.All() {
		if def.Environment() || f.skipUnused(def.Kind) || f.Ignored(def.Name) {
			continue
		}
		if refs.Contains(def.Name, def.Kind) {
			continue
		}
		out = append(out, Diagnostic{Issue: IssueUnused, Kind: def.Kind, Name: def.Name, Line: def.Line})
	}
	return out
}

// Undefined reports references with no definition of the same kind.
func Undefined(defs, refs *symtab.Table, f Filter) []Diagnostic {
	if f.NoUndefined {
		return nil
	}
	var out []Diagnostic
	for ref := range refs.All() {
		if f.skipUndefined(ref.Kind) || f.Ignored(ref.Name) {
			continue
		}
		if defs.Contains(ref.Name, ref.Kind) {
			continue
		}
		out = append(out, Diagnostic{Issue: IssueUndefined, Kind: ref.Kind, Name: ref.Name, Line: ref.Line})
	}
	return out
}

// Sort orders diagnostics by line, then undefined before unused, then name.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Issue != b.Issue {
			return a.Issue < b.Issue
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Kind < b.Kind
	})
}
