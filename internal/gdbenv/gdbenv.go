// Package gdbenv queries a gdb installation for the names a script may use
// without defining them: commands, registers, convenience variables and
// architectures.
package gdbenv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrUnavailable is returned when gdb cannot be run or produced nothing
// usable.
var ErrUnavailable = errors.New("gdb environment unavailable")

// Environment is the set of queries the linter needs.
type Environment interface {
	Commands(ctx context.Context) ([]string, error)
	Registers(ctx context.Context, arch string) ([]string, error)
	ConvenienceVariables(ctx context.Context) ([]string, error)
	Architectures(ctx context.Context) ([]string, error)
}

// Runner executes gdb with args and returns its combined output.
type Runner func(ctx context.Context, args ...string) ([]byte, error)

// ExecRunner runs the gdb binary at path.
func ExecRunner(path string) Runner {
	return func(ctx context.Context, args ...string) ([]byte, error) {
		cmd := exec.CommandContext(ctx, path, args...)
		var out bytes.Buffer
		cmd.Stdout = &out
		cmd.Stderr = &out
		err := cmd.Run()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// gdb exits non-zero for "set architecture" without an argument while
		// still printing what we need.
		var exitErr *exec.ExitError
		if err != nil && !errors.As(err, &exitErr) {
			return nil, err
		}
		return out.Bytes(), nil
	}
}

// GDB answers Environment queries by running gdb in batch mode.
type GDB struct {
	Run     Runner
	Timeout time.Duration
}

// New returns a GDB environment backed by the binary at path.
func New(path string, timeout time.Duration) *GDB {
	if path == "" {
		path = "gdb"
	}
	return &GDB{Run: ExecRunner(path), Timeout: timeout}
}

func (g *GDB) batch(ctx context.Context, commands ...string) ([]byte, error) {
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}
	args := []string{"-nx", "-batch"}
	for _, c := range commands {
		args = append(args, "-ex", c)
	}
	out, err := g.Run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return out, nil
}

// Commands returns every command name and alias listed by "help all",
// plus names gdb accepts but does not list.
func (g *GDB) Commands(ctx context.Context) ([]string, error) {
	out, err := g.batch(ctx, "help all")
	if err != nil {
		return nil, err
	}
	names := ParseCommands(out)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no commands in help output", ErrUnavailable)
	}
	return append(names, ExtraCommands...), nil
}

// Registers returns the raw and user register names for arch.
func (g *GDB) Registers(ctx context.Context, arch string) ([]string, error) {
	if arch == "" {
		arch = "auto"
	}
	out, err := g.batch(ctx,
		"set architecture "+arch,
		"maintenance print registers",
		"maintenance print user-registers",
	)
	if err != nil {
		return nil, err
	}
	names := ParseRegisters(out)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no registers for architecture %q", ErrUnavailable, arch)
	}
	return names, nil
}

// ConvenienceVariables returns the variables listed by "show convenience"
// together with those gdb sets lazily.
func (g *GDB) ConvenienceVariables(ctx context.Context) ([]string, error) {
	out, err := g.batch(ctx, "show convenience")
	if err != nil {
		return nil, err
	}
	return append(ParseConvenience(out), ExtraVariables...), nil
}

// Architectures returns the values accepted by "set architecture".
func (g *GDB) Architectures(ctx context.Context) ([]string, error) {
	out, err := g.batch(ctx, "set architecture")
	if err != nil {
		return nil, err
	}
	archs := ParseArchitectures(out)
	if len(archs) == 0 {
		return nil, fmt.Errorf("%w: no architectures listed", ErrUnavailable)
	}
	return archs, nil
}
