package report

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Format selects how diagnostics are printed.
type Format string

const (
	FormatPlain  Format = "plain"
	FormatScript Format = "script"
)

// ParseFormat validates a format name. An empty name selects plain output.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatPlain:
		return FormatPlain, nil
	case FormatScript:
		return FormatScript, nil
	default:
		return "", fmt.Errorf("unsupported format %q (supported: plain, script)", value)
	}
}

// StdinName is used in place of a file name when the script came from stdin.
const StdinName = "STDIN"

// Writer prints diagnostics for one script.
type Writer struct {
	out    io.Writer
	format Format
}

func NewWriter(out io.Writer, format Format) *Writer {
	return &Writer{out: out, format: format}
}

// Write prints diags for file. Messages carry the base name of file and the
// plain trailer carries file as given. width is the number of digits line
// numbers are padded to.
func (w *Writer) Write(file string, width int, diags []Diagnostic) error {
	if file == "" {
		file = StdinName
	}
	name := filepath.Base(file)

	bw := bufio.NewWriter(w.out)
	switch w.format {
	case FormatScript:
		fmt.Fprint(bw, "export GDBLINT_REPORTS=(\\\n")
		for _, d := range diags {
			fmt.Fprintf(bw, "  \"%s\\n\"\\\n", shellEscape(d.Message(name, width)))
		}
		fmt.Fprint(bw, ");\n")
		fmt.Fprintf(bw, "export GDBLINT_NREPORTS=%d;\n", len(diags))
	default:
		for _, d := range diags {
			fmt.Fprintln(bw, d.Message(name, width))
		}
		if len(diags) > 0 {
			fmt.Fprintf(bw, "File: %s\nFound: %d issue(s)\n", file, len(diags))
		}
	}
	return bw.Flush()
}

var shellEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")

// shellEscape makes s safe inside a double-quoted shell string.
func shellEscape(s string) string {
	return shellEscaper.Replace(s)
}
