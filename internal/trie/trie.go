// Package trie implements the prefix tree used to recognize gdb command
// names, together with its text encoding.
//
// Nodes live in an arena addressed by index. The root is node 0 and owns the
// whole tree; every other node has exactly one parent.
package trie

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	// First and Last bound the printable alphabet a command may use.
	First    = '!'
	Last     = '~'
	Alphabet = Last - First + 1

	terminalMarker = ' '
	ascendMarker   = '\t'
)

// ErrMalformed is returned when an encoded trie cannot be decoded.
var ErrMalformed = errors.New("malformed command trie")

type node struct {
	children [Alphabet]int32
	terminal bool
}

// Trie recognizes a set of command names.
type Trie struct {
	nodes []node
	words int
}

// New returns an empty trie.
func New() *Trie {
	return &Trie{nodes: make([]node, 1, 64)}
}

func index(c byte) (int, bool) {
	if c < First || c > Last {
		return 0, false
	}
	return int(c - First), true
}

// Insert adds name. Names that are empty or use characters outside the
// alphabet are rejected.
func (t *Trie) Insert(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if _, ok := index(name[i]); !ok {
			return false
		}
	}

	cur := int32(0)
	for i := 0; i < len(name); i++ {
		slot, _ := index(name[i])
		next := t.nodes[cur].children[slot]
		if next == 0 {
			next = t.newNode()
			t.nodes[cur].children[slot] = next
		}
		cur = next
	}
	if !t.nodes[cur].terminal {
		t.nodes[cur].terminal = true
		t.words++
	}
	return true
}

func (t *Trie) newNode() int32 {
	t.nodes = append(t.nodes, node{})
	return int32(len(t.nodes) - 1)
}

// Recognize walks token as far as the trie allows. It returns the number of
// bytes matched and whether the whole token spelled an inserted name.
func (t *Trie) Recognize(token string) (matched int, whole bool) {
	cur := int32(0)
	for matched < len(token) {
		slot, ok := index(token[matched])
		if !ok {
			return matched, false
		}
		next := t.nodes[cur].children[slot]
		if next == 0 {
			return matched, false
		}
		cur = next
		matched++
	}
	return matched, matched > 0 && t.nodes[cur].terminal
}

// Contains reports whether token is exactly one of the inserted names.
func (t *Trie) Contains(token string) bool {
	_, whole := t.Recognize(token)
	return whole
}

// Len returns the number of distinct names.
func (t *Trie) Len() int {
	return t.words
}

// Words returns every name in sorted order.
func (t *Trie) Words() []string {
	out := make([]string, 0, t.words)
	var prefix []byte
	var walk func(n int32)
	walk = func(n int32) {
		if t.nodes[n].terminal {
			out = append(out, string(prefix))
		}
		for slot, child := range t.nodes[n].children {
			if child == 0 {
				continue
			}
			prefix = append(prefix, byte(First+slot))
			walk(child)
			prefix = prefix[:len(prefix)-1]
		}
	}
	walk(0)
	sort.Strings(out)
	return out
}

// MarshalText encodes the trie in pre-order. Each child is written as its
// character, followed by a space when it ends a name, then its own children,
// then a tab to return to the parent.
func (t *Trie) MarshalText() ([]byte, error) {
	var b strings.Builder
	var walk func(n int32)
	walk = func(n int32) {
		for slot, child := range t.nodes[n].children {
			if child == 0 {
				continue
			}
			b.WriteByte(byte(First + slot))
			if t.nodes[child].terminal {
				b.WriteByte(terminalMarker)
			}
			walk(child)
			b.WriteByte(ascendMarker)
		}
	}
	walk(0)
	return []byte(b.String()), nil
}

// UnmarshalText replaces the contents of t with the decoded trie.
func (t *Trie) UnmarshalText(data []byte) error {
	decoded := New()
	stack := []int32{0}

	for i, c := range data {
		top := stack[len(stack)-1]
		switch c {
		case terminalMarker:
			if top == 0 {
				return fmt.Errorf("%w: terminal marker at root (offset %d)", ErrMalformed, i)
			}
			if !decoded.nodes[top].terminal {
				decoded.nodes[top].terminal = true
				decoded.words++
			}
		case ascendMarker:
			if len(stack) == 1 {
				return fmt.Errorf("%w: ascend past root (offset %d)", ErrMalformed, i)
			}
			stack = stack[:len(stack)-1]
		default:
			slot, ok := index(c)
			if !ok {
				return fmt.Errorf("%w: unexpected byte %q (offset %d)", ErrMalformed, c, i)
			}
			child := decoded.nodes[top].children[slot]
			if child == 0 {
				child = decoded.newNode()
				decoded.nodes[top].children[slot] = child
			}
			stack = append(stack, child)
		}
	}
	if len(stack) != 1 {
		return fmt.Errorf("%w: %d unclosed nodes", ErrMalformed, len(stack)-1)
	}

	*t = *decoded
	return nil
}
