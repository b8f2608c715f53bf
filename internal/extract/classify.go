package extract

import (
	"strings"

	"github.com/gdblint/gdblint/internal/trie"
)

// Sigil prefixes convenience variables and value-history references.
const Sigil = '$'

// Keywords are control-flow words of the gdb command language.
var Keywords = []string{
	"if", "else", "while", "for", "break", "continue", "end", "quit",
	"loop_break", "loop_continue",
}

// Classifier decides whether a token extracted from a script names a user
// symbol.
type Classifier struct {
	Commands *trie.Trie
	keywords map[string]bool
}

// NewClassifier returns a classifier that treats every name in commands as a
// built-in.
func NewClassifier(commands *trie.Trie) *Classifier {
	keywords := make(map[string]bool, len(Keywords))
	for _, kw := range Keywords {
		keywords[kw] = true
	}
	return &Classifier{Commands: commands, keywords: keywords}
}

// IsValidReference reports whether token survives every non-identifier
// filter.
func (c *Classifier) IsValidReference(token string) bool {
	return !IsHistoryVar(token) &&
		!IsFuncArg(token) &&
		!c.IsCommand(token) &&
		!c.IsKeyword(token) &&
		!IsInteger(token) &&
		!IsFloat(token)
}

// IsCommand reports whether token is exactly a known command name.
func (c *Classifier) IsCommand(token string) bool {
	if c.Commands == nil {
		return false
	}
	return c.Commands.Contains(token)
}

// IsKeyword reports whether token is a control-flow keyword.
func (c *Classifier) IsKeyword(token string) bool {
	return c.keywords[token]
}

// IsHistoryVar matches value-history slots: "$", "$$", "$N" and "$$N", with
// or without the leading sigil.
func IsHistoryVar(token string) bool {
	rest := strings.TrimPrefix(token, string(Sigil))
	rest = strings.TrimPrefix(rest, string(Sigil))
	return rest == "" || allDigits(rest)
}

// IsFuncArg matches the implicit arguments of a user-defined command: $argN
// and $argc.
func IsFuncArg(token string) bool {
	rest := strings.TrimPrefix(token, string(Sigil))
	rest, ok := strings.CutPrefix(rest, "arg")
	if !ok {
		return false
	}
	return rest == "c" || (rest != "" && allDigits(rest))
}

// IsInteger matches an optional sign followed by digits. A bare sign counts.
func IsInteger(token string) bool {
	if token == "" {
		return false
	}
	return allDigits(trimSign(token))
}

// IsFloat matches an optional sign, digits, one decimal point and at least
// one digit after it.
func IsFloat(token string) bool {
	whole, frac, ok := strings.Cut(trimSign(token), ".")
	if !ok || frac == "" {
		return false
	}
	return allDigits(whole) && allDigits(frac)
}

func trimSign(token string) string {
	if strings.HasPrefix(token, "-") || strings.HasPrefix(token, "+") {
		return token[1:]
	}
	return token
}

// allDigits reports whether s is empty or made only of ASCII digits.
func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
