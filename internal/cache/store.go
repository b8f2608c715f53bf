// Package cache persists the gdb-derived symbols and command names between
// runs so gdb does not have to be queried on every invocation.
//
// The file holds three count-tagged sections:
//
//	defs <n>
//	<bucket>,<name>,<kind>,0
//	refs <m>
//	<bucket>,<name>,<kind>,0
//	cmds <k>
//	<encoded command trie>
package cache

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gdblint/gdblint/internal/fileutil"
	"github.com/gdblint/gdblint/internal/symtab"
	"github.com/gdblint/gdblint/internal/trie"
)

const (
	sectionDefs = "defs"
	sectionRefs = "refs"
	sectionCmds = "cmds"
)

var (
	// ErrNotFound means there is no cache to load.
	ErrNotFound = errors.New("cache not found")
	// ErrCorrupt means the cache exists but cannot be trusted.
	ErrCorrupt = errors.New("cache corrupt")
)

// Store is a cache file on disk.
type Store struct {
	Path string
}

// DefaultPath returns the per-user cache location for program.
func DefaultPath(program string) (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve user cache dir: %w", err)
	}
	return filepath.Join(dir, program), nil
}

// New returns a store at path.
func New(path string) *Store {
	return &Store{Path: path}
}

type staged struct {
	defs []row
	refs []row
	cmds *trie.Trie
}

type row struct {
	bucket int
	sym    symtab.Symbol
}

// Load fills defs, refs and cmds from the cache file. The whole file is
// validated before anything is applied, so on error the arguments are left
// untouched.
func (s *Store) Load(defs, refs *symtab.Table, cmds *trie.Trie) error {
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to open cache %s: %w", s.Path, err)
	}
	defer f.Close()

	st, err := parse(bufio.NewReader(f))
	if err != nil {
		return err
	}

	// Rows are saved newest first; insert oldest first to keep lookup order.
	for i := len(st.defs) - 1; i >= 0; i-- {
		defs.InsertAt(st.defs[i].bucket, st.defs[i].sym)
	}
	for i := len(st.refs) - 1; i >= 0; i-- {
		refs.InsertAt(st.refs[i].bucket, st.refs[i].sym)
	}
	for _, name := range st.cmds.Words() {
		cmds.Insert(name)
	}

	slog.Debug("loaded environment cache",
		"path", s.Path,
		"defs", len(st.defs),
		"refs", len(st.refs),
		"cmds", st.cmds.Len(),
	)
	return nil
}

type lineReader struct {
	r    *bufio.Reader
	line int
}

// next returns the next line without its newline. A final line without a
// newline is returned with a nil error.
func (lr *lineReader) next() (string, error) {
	text, err := lr.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && text != "") {
		return "", err
	}
	lr.line++
	return strings.TrimSuffix(text, "\n"), nil
}

func (lr *lineReader) corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrCorrupt, lr.line, fmt.Sprintf(format, args...))
}

func parse(r *bufio.Reader) (*staged, error) {
	lr := &lineReader{r: r}

	first, err := lr.next()
	if errors.Is(err, io.EOF) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}

	st := &staged{}
	n, err := sectionCount(lr, first, sectionDefs)
	if err != nil {
		return nil, err
	}
	if st.defs, err = readRows(lr, n); err != nil {
		return nil, err
	}

	header, err := lr.next()
	if err != nil {
		return nil, lr.corrupt("missing %s section", sectionRefs)
	}
	if n, err = sectionCount(lr, header, sectionRefs); err != nil {
		return nil, err
	}
	if st.refs, err = readRows(lr, n); err != nil {
		return nil, err
	}

	header, err = lr.next()
	if err != nil {
		return nil, lr.corrupt("missing %s section", sectionCmds)
	}
	if n, err = sectionCount(lr, header, sectionCmds); err != nil {
		return nil, err
	}
	encoded, err := lr.next()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}
	st.cmds = trie.New()
	if err := st.cmds.UnmarshalText([]byte(encoded)); err != nil {
		return nil, lr.corrupt("%v", err)
	}
	if st.cmds.Len() != n {
		return nil, lr.corrupt("%s holds %d names, header says %d", sectionCmds, st.cmds.Len(), n)
	}

	if rest, err := lr.next(); err == nil && strings.TrimSpace(rest) != "" {
		return nil, lr.corrupt("unexpected trailing data")
	}
	return st, nil
}

func sectionCount(lr *lineReader, header, want string) (int, error) {
	tag, count, ok := strings.Cut(header, " ")
	if !ok || tag != want {
		return 0, lr.corrupt("expected %s section, got %q", want, header)
	}
	n, err := strconv.Atoi(count)
	if err != nil || n < 0 {
		return 0, lr.corrupt("bad %s count %q", want, count)
	}
	return n, nil
}

// readRows reads n rows. n comes from the file, so rows are not
// preallocated; a short file fails at its first missing row.
func readRows(lr *lineReader, n int) ([]row, error) {
	var rows []row
	for i := 0; i < n; i++ {
		text, err := lr.next()
		if err != nil {
			return nil, lr.corrupt("expected %d rows, found %d", n, i)
		}
		r, err := parseRow(text)
		if err != nil {
			return nil, lr.corrupt("%v", err)
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func parseRow(text string) (row, error) {
	fields := strings.Split(text, ",")
	if len(fields) != 4 {
		return row{}, fmt.Errorf("malformed row %q", text)
	}
	bucket, err := strconv.Atoi(fields[0])
	if err != nil {
		return row{}, fmt.Errorf("bad bucket in %q", text)
	}
	name := fields[1]
	if name == "" || bucket != symtab.Hash(name) {
		return row{}, fmt.Errorf("bucket %d does not match name %q", bucket, name)
	}
	kind, err := strconv.Atoi(fields[2])
	if err != nil || !symtab.Kind(kind).Valid() {
		return row{}, fmt.Errorf("bad kind in %q", text)
	}
	if fields[3] != "0" {
		return row{}, fmt.Errorf("row %q is not an environment symbol", text)
	}
	return row{bucket: bucket, sym: symtab.Symbol{Name: name, Kind: symtab.Kind(kind)}}, nil
}

// Save writes the environment symbols of defs and refs, and every name in
// cmds, replacing any previous cache.
func (s *Store) Save(defs, refs *symtab.Table, cmds *trie.Trie) error {
	encoded, err := cmds.MarshalText()
	if err != nil {
		return fmt.Errorf("failed to encode commands: %w", err)
	}

	var b strings.Builder
	writeSection(&b, sectionDefs, defs)
	writeSection(&b, sectionRefs, refs)
	fmt.Fprintf(&b, "%s %d\n", sectionCmds, cmds.Len())
	b.Write(encoded)
	b.WriteByte('\n')

	if err := fileutil.WriteAtomic(s.Path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to save cache: %w", err)
	}
	slog.Debug("saved environment cache", "path", s.Path, "cmds", cmds.Len())
	return nil
}

func writeSection(b *strings.Builder, tag string, table *symtab.Table) {
	var rows []string
	for bucket, sym := range table.Environment() {
		rows = append(rows, fmt.Sprintf("%d,%s,%d,0", bucket, sym.Name, int(sym.Kind)))
	}
	fmt.Fprintf(b, "%s %d\n", tag, len(rows))
	for _, r := range rows {
		b.WriteString(r)
		b.WriteByte('\n')
	}
}

// Clear removes the cache file. A missing file is not an error.
func (s *Store) Clear() error {
	if err := fileutil.RemoveIfExists(s.Path); err != nil {
		return fmt.Errorf("failed to remove cache %s: %w", s.Path, err)
	}
	return nil
}
