// Package extract scans logical lines for symbol definitions and references.
//
// Extraction is line oriented: each statement is matched against a small set
// of regular expressions rather than parsed.
package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/gdblint/gdblint/internal/script"
	"github.com/gdblint/gdblint/internal/symtab"
)

// CommentMarker starts a comment that runs to the end of the line.
const CommentMarker = "#"

type definitionPattern struct {
	re   *regexp.Regexp
	kind symtab.Kind
}

// Checked in order; the first match wins.
var definitionPatterns = []definitionPattern{
	{regexp.MustCompile(`^\s*define\s+([a-zA-Z0-9_-]+)`), symtab.Function},
	{regexp.MustCompile(`^\s*set\s+(?:var(?:iable)?\s+)?\$([a-zA-Z0-9_-]+)`), symtab.Variable},
	{regexp.MustCompile(`^\s*python.*set_convenience_variable\("?([a-zA-Z0-9_-]+)"?,`), symtab.Variable},
}

var (
	callPattern = regexp.MustCompile(`(^\s*|;\s*)([a-zA-Z0-9_-]+)(\s+[$a-zA-Z0-9_-]+)*\s*(;|$)`)
	varPattern  = regexp.MustCompile(`\$([a-zA-Z0-9_-]+)`)
	setPattern  = regexp.MustCompile(`(^|\s)set\s`)
	// gdb.convenience_variable("name") read from embedded python.
	pyVarPattern = regexp.MustCompile(`(?:^|[^_a-zA-Z])convenience_variable\(\s*"([a-zA-Z0-9_-]+)"`)
)

// StripComment removes everything from the first comment marker onward.
func StripComment(text string) string {
	if i := strings.Index(text, CommentMarker); i >= 0 {
		return text[:i]
	}
	return text
}

// Definition returns the symbol defined by a single statement, if any.
func Definition(text string) (name string, kind symtab.Kind, ok bool) {
	text = StripComment(text)
	for _, p := range definitionPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		return m[1], p.kind, true
	}
	return "", symtab.Any, false
}

// Definitions inserts every definition found in lines into defs and returns
// how many were found.
func Definitions(lines *script.Lines, defs *symtab.Table) int {
	found := 0
	for _, line := range lines.Lines {
		name, kind, ok := Definition(line.Text)
		if !ok {
			continue
		}
		slog.Debug("definition", "name", name, "kind", kind, "line", line.Number)
		defs.Insert(name, kind, line.Number)
		found++
	}
	return found
}

// Reference is a candidate symbol use found in a statement.
type Reference struct {
	Name string
	Kind symtab.Kind
}

// scanRegion returns the part of a statement that may contain references.
// Definition headers contain none. For a set statement only the text from
// the assignment operator onward is scanned, so the assigned variable is not
// counted as a use and a bare right-hand identifier is not mistaken for a
// command.
func scanRegion(text string) (string, bool) {
	text = StripComment(text)
	if definitionPatterns[0].re.MatchString(text) {
		return "", false
	}
	loc := setPattern.FindStringIndex(text)
	if loc == nil {
		return text, true
	}
	eq := strings.Index(text[loc[1]:], "=")
	if eq < 0 {
		return "", false
	}
	return text[loc[1]+eq:], true
}

// LineReferences returns the call-style and sigil tokens of one statement,
// in scan order, before classification.
func LineReferences(text string) []Reference {
	region, ok := scanRegion(text)
	if !ok {
		return nil
	}

	var refs []Reference
	for _, tok := range scan(callPattern, region, 2) {
		refs = append(refs, Reference{Name: tok, Kind: symtab.Function})
	}
	for _, tok := range scan(varPattern, region, 1) {
		refs = append(refs, Reference{Name: tok, Kind: symtab.Variable})
	}
	for _, tok := range scan(pyVarPattern, region, 1) {
		refs = append(refs, Reference{Name: tok, Kind: symtab.Variable})
	}
	return refs
}

// scan applies re repeatedly, each time starting after the previous match,
// and collects the given capture group.
func scan(re *regexp.Regexp, text string, group int) []string {
	var out []string
	cursor := 0
	for cursor < len(text) {
		m := re.FindStringSubmatchIndex(text[cursor:])
		if m == nil {
			break
		}
		if m[2*group] >= 0 {
			out = append(out, text[cursor+m[2*group]:cursor+m[2*group+1]])
		}
		if m[1] == 0 {
			break
		}
		cursor += m[1]
	}
	return out
}

// References inserts every classified reference found in lines into refs
// and returns how many were inserted.
func References(lines *script.Lines, refs *symtab.Table, classifier *Classifier) int {
	inserted := 0
	for _, line := range lines.Lines {
		for _, ref := range LineReferences(line.Text) {
			if !classifier.IsValidReference(ref.Name) {
				continue
			}
			slog.Debug("reference", "name", ref.Name, "kind", ref.Kind, "line", line.Number)
			if refs.Insert(ref.Name, ref.Kind, line.Number) {
				inserted++
			}
		}
	}
	return inserted
}
