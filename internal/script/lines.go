package script

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

// ContinuationMarker joins a physical line with the one that follows it.
const ContinuationMarker = `\`

// Line is one logical statement after continuation joining.
type Line struct {
	Text string
	// Number is the physical line on which the statement ends.
	Number int
}

// Lines holds the logical lines of a script in source order.
type Lines struct {
	Lines     []Line
	MaxNumber int
}

// Append adds a logical line and tracks the largest line number seen.
func (l *Lines) Append(text string, number int) {
	if number <= 0 {
		return
	}
	l.Lines = append(l.Lines, Line{Text: text, Number: number})
	if number > l.MaxNumber {
		l.MaxNumber = number
	}
}

// Len returns the number of logical lines.
func (l *Lines) Len() int {
	return len(l.Lines)
}

// Width returns the number of digits needed to print any line number. It
// is the exact digit count with no extra leading zero: a 23-line script
// prints "09", not "009".
func (l *Lines) Width() int {
	if l.MaxNumber <= 0 {
		return 1
	}
	return len(strconv.Itoa(l.MaxNumber))
}

// Assemble reads physical lines from r and joins continuation-marked lines
// into logical lines.
func Assemble(r io.Reader) (*Lines, error) {
	lines := &Lines{}
	reader := bufio.NewReader(r)

	var current strings.Builder
	pending := false
	number := 0

	for {
		raw, err := reader.ReadString('\n')
		if raw == "" && err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		number++

		text := strings.TrimSuffix(raw, "\n")
		text = strings.TrimSuffix(text, "\r")

		if strings.HasSuffix(text, ContinuationMarker) {
			current.WriteString(strings.TrimSuffix(text, ContinuationMarker))
			pending = true
		} else {
			current.WriteString(text)
			lines.Append(current.String(), number)
			current.Reset()
			pending = false
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
	}

	// A continuation on the last line still ends a statement.
	if pending {
		lines.Append(current.String(), number)
	}

	return lines, nil
}
