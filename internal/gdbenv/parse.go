package gdbenv

import (
	"bufio"
	"bytes"
	"regexp"
	"runtime"
	"strings"
)

// ExtraCommands are accepted inside command lists but missing from "help all".
var ExtraCommands = []string{"silent"}

// ExtraVariables are convenience variables gdb creates on demand, so "show
// convenience" does not list them on a fresh session.
var ExtraVariables = []string{
	"_", "__",
	"_exitcode", "_exitsignal", "_exception", "_ada_exception",
	"_probe_argc",
	"_probe_arg0", "_probe_arg1", "_probe_arg2", "_probe_arg3",
	"_probe_arg4", "_probe_arg5", "_probe_arg6", "_probe_arg7",
	"_probe_arg8", "_probe_arg9", "_probe_arg10", "_probe_arg11",
	"_sdata", "_siginfo", "_thread", "_gthread", "_inferior_thread_count",
	"_gdb_major", "_gdb_minor", "_shell_exitcode", "_shell_exitsignal",
	"bpnum", "cdir",
}

var nameRE = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func lines(out []byte) []string {
	var result []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		result = append(result, scanner.Text())
	}
	return result
}

// ParseCommands extracts command names from "help all" output. Entries look
// like "break, brea, bre, br, b -- Set breakpoint at specified location."
func ParseCommands(out []byte) []string {
	var names []string
	seen := make(map[string]bool)
	for _, line := range lines(out) {
		if line == "" || line[0] < 'a' || line[0] > 'z' {
			continue
		}
		head, _, _ := strings.Cut(line, " -- ")
		for _, alias := range strings.Split(head, ",") {
			fields := strings.Fields(alias)
			if len(fields) == 0 {
				continue
			}
			name := fields[0]
			if strings.HasPrefix(name, "--") || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// ParseRegisters extracts register names from the tables printed by
// "maintenance print registers" and "maintenance print user-registers".
func ParseRegisters(out []byte) []string {
	var names []string
	seen := make(map[string]bool)
	for _, line := range lines(out) {
		line = strings.TrimLeft(line, " ")
		if line == "" || (line[0] >= 'A' && line[0] <= 'Z') {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		name := fields[0]
		// user-registers rows lead with the register number.
		if allDigits(name) && len(fields) > 1 {
			name = fields[1]
		}
		name = strings.TrimRight(name, ",")
		if strings.HasPrefix(name, "'") || !nameRE.MatchString(name) || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// ParseConvenience extracts variable names from "show convenience" output,
// skipping internal functions.
func ParseConvenience(out []byte) []string {
	var names []string
	for _, line := range lines(out) {
		if !strings.HasPrefix(line, "$") || strings.Contains(line, "internal function") {
			continue
		}
		name := strings.FieldsFunc(line[1:], func(r rune) bool {
			return r == ' ' || r == '\t' || r == ',' || r == '='
		})
		if len(name) == 0 || !nameRE.MatchString(name[0]) {
			continue
		}
		names = append(names, name[0])
	}
	return names
}

const validArgumentsPrefix = "Valid arguments are "

// ParseArchitectures extracts the list printed after "Valid arguments are "
// when "set architecture" is given no argument.
func ParseArchitectures(out []byte) []string {
	var archs []string
	for _, line := range lines(out) {
		_, list, ok := strings.Cut(line, validArgumentsPrefix)
		if !ok {
			continue
		}
		list = strings.TrimSpace(list)
		list = strings.TrimSuffix(list, ".")
		for _, arch := range strings.Split(list, ",") {
			arch = strings.TrimSpace(arch)
			if arch == "" {
				continue
			}
			if strings.HasPrefix(arch, "--") {
				break
			}
			archs = append(archs, arch)
		}
	}
	return archs
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// hostArch maps runtime.GOARCH to the spelling uname uses, with underscores
// replaced by dashes as gdb's architecture names do.
func hostArch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x86-64"
	case "386":
		return "i386"
	case "arm64":
		return "aarch64"
	case "riscv64":
		return "riscv:rv64"
	case "ppc64le", "ppc64":
		return "powerpc:common64"
	case "s390x":
		return "s390:64-bit"
	default:
		return strings.ReplaceAll(runtime.GOARCH, "_", "-")
	}
}

// ResolveArch picks the gdb architecture for hint. An empty or "auto" hint
// selects the host architecture. The first listed architecture containing
// the hint wins; with no match the hint is returned unchanged.
func ResolveArch(hint string, archs []string) string {
	if hint == "" || hint == "auto" {
		hint = hostArch()
	}
	hint = strings.ReplaceAll(hint, "_", "-")
	for _, arch := range archs {
		if arch == hint {
			return arch
		}
	}
	for _, arch := range archs {
		if strings.Contains(arch, hint) {
			return arch
		}
	}
	return hint
}
