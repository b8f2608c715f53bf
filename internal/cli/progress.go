package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// queryProgressReporter draws a one-line spinner on stderr while gdb is
// queried. It stays silent unless stderr is a terminal.
type queryProgressReporter struct {
	enabled bool
	out     io.Writer
	label   string
	total   int
	count   int
	start   time.Time
	spinner int
	lastLen int
}

func newQueryProgressReporter(label string, total int, asJSON bool) *queryProgressReporter {
	stat, err := os.Stderr.Stat()
	enabled := err == nil && (stat.Mode()&os.ModeCharDevice) != 0 && !asJSON
	return &queryProgressReporter{
		enabled: enabled,
		out:     os.Stderr,
		label:   label,
		total:   total,
		start:   time.Now(),
	}
}

func (r *queryProgressReporter) Step(step string) {
	r.count++
	if !r.enabled {
		return
	}
	frames := [4]string{"-", "\\", "|", "/"}
	frame := frames[r.spinner%len(frames)]
	r.spinner++

	status := fmt.Sprintf("%s %s querying %s", frame, r.label, strings.TrimSpace(step))
	if r.total > 0 {
		status = fmt.Sprintf("%s %s %d/%d querying %s", frame, r.label, r.count, r.total, strings.TrimSpace(step))
	}
	r.printStatus(status)
}

// Done finishes the line if any step was shown.
func (r *queryProgressReporter) Done(source string) {
	if !r.enabled || r.count == 0 {
		return
	}
	elapsed := time.Since(r.start).Round(time.Millisecond)
	r.printStatus(fmt.Sprintf("%s complete (symbols from %s in %s)", r.label, source, elapsed))
	fmt.Fprintln(r.out)
}

func (r *queryProgressReporter) printStatus(status string) {
	if r.lastLen > len(status) {
		status = status + strings.Repeat(" ", r.lastLen-len(status))
	}
	r.lastLen = len(status)
	fmt.Fprintf(r.out, "\r%s", status)
}
