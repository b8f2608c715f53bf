package gdbenv

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helpAllOutput = `
Command class: aliases

ni -- Step one instruction, but proceed through subroutine calls.
si -- Step one instruction exactly.

Command class: breakpoints

break, brea, bre, br, b -- Set breakpoint at specified location.
commands -- Set commands to be executed when the given breakpoints are hit.
  Give a space-separated breakpoint list as argument after "commands".
set architecture, set processor -- Set architecture of target.
info registers, info r -- List of integer registers and their contents.

Unclassified commands

add-symbol-file -- Load symbols from FILE.
`

const registersOutput = ` Name         Nr  Rel Offset    Size  Type
 rax           0    0      0       8 int64_t
 rbx           1    1      8       8 int64_t
 rip          16   16    128       8 *1
 ''           57   57    512       0 int0_t
*1: Register type's name NULL.
 Nr  Name
   0  pc
   1  sp
   2  fp
`

const convenienceOutput = `$_gdb_setting_str = <internal function _gdb_setting_str>
$bpnum = 2
$_siginfo = void
$counter = 10
No debugger convenience values now defined.
`

const archOutput = `Requires an argument. Valid arguments are i386, i386:x86-64, i386:x64-32, aarch64, riscv:rv64, auto.
`

func TestParseCommands(t *testing.T) {
	got := ParseCommands([]byte(helpAllOutput))
	assert.Equal(t, []string{"ni", "si", "break", "brea", "bre", "br", "b", "commands", "set", "info", "add-symbol-file"}, got)
}

func TestParseRegisters(t *testing.T) {
	got := ParseRegisters([]byte(registersOutput))
	assert.Equal(t, []string{"rax", "rbx", "rip", "pc", "sp", "fp"}, got)
}

func TestParseConvenience(t *testing.T) {
	got := ParseConvenience([]byte(convenienceOutput))
	assert.Equal(t, []string{"bpnum", "_siginfo", "counter"}, got)
}

func TestParseArchitectures(t *testing.T) {
	got := ParseArchitectures([]byte(archOutput))
	assert.Equal(t, []string{"i386", "i386:x86-64", "i386:x64-32", "aarch64", "riscv:rv64", "auto"}, got)
	assert.Empty(t, ParseArchitectures([]byte("nothing useful\n")))
}

func TestResolveArch(t *testing.T) {
	archs := []string{"i386", "i386:x86-64", "aarch64", "auto"}

	assert.Equal(t, "i386:x86-64", ResolveArch("x86_64", archs))
	assert.Equal(t, "aarch64", ResolveArch("aarch64", archs))
	assert.Equal(t, "i386", ResolveArch("i386", archs))
	assert.Equal(t, "mips", ResolveArch("mips", archs))
	assert.NotEmpty(t, ResolveArch("auto", archs))
}

type fakeGDB map[string]string

func (f fakeGDB) runner(calls *[][]string) Runner {
	return func(ctx context.Context, args ...string) ([]byte, error) {
		*calls = append(*calls, args)
		var commands []string
		for i := 0; i < len(args); i++ {
			if args[i] == "-ex" && i+1 < len(args) {
				commands = append(commands, args[i+1])
				i++
			}
		}
		out, ok := f[strings.Join(commands, ";")]
		if !ok {
			return nil, errors.New("unexpected invocation")
		}
		return []byte(out), nil
	}
}

func TestGDBQueries(t *testing.T) {
	var calls [][]string
	fake := fakeGDB{}
	fake["help all"] = helpAllOutput
	fake["show convenience"] = convenienceOutput
	fake["set architecture"] = archOutput
	fake["set architecture aarch64;maintenance print registers;maintenance print user-registers"] = registersOutput
	g := &GDB{Run: fake.runner(&calls)}
	ctx := context.Background()

	cmds, err := g.Commands(ctx)
	require.NoError(t, err)
	assert.Contains(t, cmds, "break")
	assert.Contains(t, cmds, "silent")

	vars, err := g.ConvenienceVariables(ctx)
	require.NoError(t, err)
	assert.Contains(t, vars, "counter")
	assert.Contains(t, vars, "_exitcode")

	archs, err := g.Architectures(ctx)
	require.NoError(t, err)
	assert.Len(t, archs, 6)

	regs, err := g.Registers(ctx, "aarch64")
	require.NoError(t, err)
	assert.Contains(t, regs, "pc")

	require.NotEmpty(t, calls)
	assert.Equal(t, []string{"-nx", "-batch", "-ex", "help all"}, calls[0])
}

func TestGDBUnavailable(t *testing.T) {
	g := &GDB{Run: func(ctx context.Context, args ...string) ([]byte, error) {
		return nil, errors.New("exec: \"gdb\": executable file not found in $PATH")
	}}
	ctx := context.Background()

	_, err := g.Commands(ctx)
	require.ErrorIs(t, err, ErrUnavailable)
	_, err = g.Registers(ctx, "")
	require.ErrorIs(t, err, ErrUnavailable)
	_, err = g.ConvenienceVariables(ctx)
	require.ErrorIs(t, err, ErrUnavailable)
	_, err = g.Architectures(ctx)
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestGDBEmptyOutputIsUnavailable(t *testing.T) {
	g := &GDB{Run: func(ctx context.Context, args ...string) ([]byte, error) {
		return []byte("\n"), nil
	}}
	_, err := g.Commands(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}
