package symtab

import (
	"hash/fnv"
	"iter"
)

// HashSize is the number of buckets in every table.
const HashSize = 1024

// Kind distinguishes user-defined commands from convenience variables.
type Kind int

const (
	Variable Kind = iota
	Function
	// Any matches every kind during lookups. It is never stored.
	Any Kind = -1
)

func (k Kind) String() string {
	switch k {
	case Variable:
		return "var"
	case Function:
		return "func"
	case Any:
		return "any"
	default:
		return "unknown"
	}
}

// Valid reports whether k can be stored in a table.
func (k Kind) Valid() bool {
	return k == Variable || k == Function
}

// Symbol is a named command or variable. Line is zero for symbols supplied by
// the gdb environment and the logical line number for symbols found in a
// script.
type Symbol struct {
	Name string
	Kind Kind
	Line int
}

// Environment reports whether the symbol came from gdb rather than the script.
func (s Symbol) Environment() bool {
	return s.Line == 0
}

// Option configures a Table.
type Option func(*Table)

// WithDuplicateCheck makes Insert skip a symbol whose name, kind and line are
// already present.
func WithDuplicateCheck() Option {
	return func(t *Table) {
		t.checkDuplicates = true
	}
}

// Table maps (name, kind) to symbols through a fixed array of hash buckets.
// Each bucket keeps symbols in insertion order; lookups walk it newest first.
type Table struct {
	buckets         [HashSize][]Symbol
	count           int
	checkDuplicates bool
}

// New creates an empty table.
func New(opts ...Option) *Table {
	t := &Table{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Hash returns the bucket index for name: 32-bit FNV-1a reduced by HashSize.
func Hash(name string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return int(h.Sum32() % HashSize)
}

// Insert adds a symbol. Empty names and invalid kinds are ignored. It returns
// false when nothing was added.
func (t *Table) Insert(name string, kind Kind, line int) bool {
	if name == "" || !kind.Valid() || line < 0 {
		return false
	}
	return t.InsertAt(Hash(name), Symbol{Name: name, Kind: kind, Line: line})
}

// InsertAt adds sym to the given bucket. Callers restoring a persisted table
// must have checked that bucket == Hash(sym.Name).
func (t *Table) InsertAt(bucket int, sym Symbol) bool {
	if bucket < 0 || bucket >= HashSize {
		return false
	}
	if t.checkDuplicates {
		for _, existing := range t.buckets[bucket] {
			if existing == sym {
				return false
			}
		}
	}
	t.buckets[bucket] = append(t.buckets[bucket], sym)
	t.count++
	return true
}

// Find returns the most recently inserted symbol with the given name and kind.
// Kind Any matches every kind.
func (t *Table) Find(name string, kind Kind) (Symbol, bool) {
	chain := t.buckets[Hash(name)]
	for i := len(chain) - 1; i >= 0; i-- {
		sym := chain[i]
		if sym.Name != name {
			continue
		}
		if kind != Any && kind != sym.Kind {
			continue
		}
		return sym, true
	}
	return Symbol{}, false
}

// Contains reports whether a symbol with name and kind exists.
func (t *Table) Contains(name string, kind Kind) bool {
	_, ok := t.Find(name, kind)
	return ok
}

// Len returns the number of stored symbols, duplicates included.
func (t *Table) Len() int {
	return t.count
}

// All yields every symbol in bucket order, newest first within a bucket.
func (t *Table) All() iter.Seq[Symbol] {
	return func(yield func(Symbol) bool) {
		for _, bucket := range t.Buckets() {
			for _, sym := range bucket {
				if !yield(sym) {
					return
				}
			}
		}
	}
}

// Buckets yields each non-empty bucket index with its chain, newest first.
func (t *Table) Buckets() iter.Seq2[int, []Symbol] {
	return func(yield func(int, []Symbol) bool) {
		for i := range t.buckets {
			chain := t.buckets[i]
			if len(chain) == 0 {
				continue
			}
			ordered := make([]Symbol, len(chain))
			for j, sym := range chain {
				ordered[len(chain)-1-j] = sym
			}
			if !yield(i, ordered) {
				return
			}
		}
	}
}

// Environment yields (bucket, symbol) for every gdb-supplied symbol, in the
// same order as All.
func (t *Table) Environment() iter.Seq2[int, Symbol] {
	return func(yield func(int, Symbol) bool) {
		for bucket, chain := range t.Buckets() {
			for _, sym := range chain {
				if !sym.Environment() {
					continue
				}
				if !yield(bucket, sym) {
					return
				}
			}
		}
	}
}
