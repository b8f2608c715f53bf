package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdblint/gdblint/internal/script"
	"github.com/gdblint/gdblint/internal/symtab"
)

func assemble(t *testing.T, src string) *script.Lines {
	t.Helper()
	lines, err := script.Assemble(strings.NewReader(src))
	require.NoError(t, err)
	return lines
}

func TestDefinition(t *testing.T) {
	cases := []struct {
		text string
		name string
		kind symtab.Kind
		ok   bool
	}{
		{"define myproc", "myproc", symtab.Function, true},
		{"  define  my-proc  # helper", "my-proc", symtab.Function, true},
		{"set $count = 0", "count", symtab.Variable, true},
		{"set var $total = $a + $b", "total", symtab.Variable, true},
		{"set variable $v=1", "v", symtab.Variable, true},
		{`python gdb.set_convenience_variable("pyvar", 3)`, "pyvar", symtab.Variable, true},
		{`python gdb.set_convenience_variable(pyname, 3)`, "pyname", symtab.Variable, true},
		{"set pagination off", "", symtab.Any, false},
		{"# define commented", "", symtab.Any, false},
		{"print $x", "", symtab.Any, false},
		{"document myproc", "", symtab.Any, false},
	}
	for _, tc := range cases {
		name, kind, ok := Definition(tc.text)
		assert.Equal(t, tc.ok, ok, tc.text)
		assert.Equal(t, tc.name, name, tc.text)
		assert.Equal(t, tc.kind, kind, tc.text)
	}
}

func TestDefinitionsUsesLogicalLineNumber(t *testing.T) {
	lines := assemble(t, "# header\ndefine \\\n  joined\nend\nset $a = 1\n")
	defs := symtab.New()

	assert.Equal(t, 2, Definitions(lines, defs))

	sym, ok := defs.Find("joined", symtab.Function)
	require.True(t, ok)
	assert.Equal(t, 3, sym.Line)

	sym, ok = defs.Find("a", symtab.Variable)
	require.True(t, ok)
	assert.Equal(t, 5, sym.Line)
}

func TestLineReferences(t *testing.T) {
	cases := []struct {
		text string
		want []Reference
	}{
		{"myproc", []Reference{{"myproc", symtab.Function}}},
		{"  myproc 1 $x", []Reference{{"myproc", symtab.Function}, {"x", symtab.Variable}}},
		{"print $a + $b", []Reference{{"a", symtab.Variable}, {"b", symtab.Variable}}},
		{"first; second arg; third", []Reference{
			{"first", symtab.Function}, {"second", symtab.Function}, {"third", symtab.Function},
		}},
		{"define myproc", nil},
		{"set $a = $b * 2", []Reference{{"b", symtab.Variable}}},
		{"set $a = count", nil},
		{"set confirm off", nil},
		{"print $x # and $y", []Reference{{"print", symtab.Function}, {"x", symtab.Variable}}},
		{"if $n == 3", []Reference{{"n", symtab.Variable}}},
		{`python print(gdb.convenience_variable("pyvar"))`, []Reference{{"pyvar", symtab.Variable}}},
		{`python gdb.set_convenience_variable("pyvar", 1)`, nil},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LineReferences(tc.text), tc.text)
	}
}

func TestReferencesFiltersThroughClassifier(t *testing.T) {
	c := newTestClassifier(t, "print", "echo")
	lines := assemble(t, "define myproc\n  print $myvar\n  print $arg0 $1 $$\n  echo done\nend\nmyproc\nwhile $i < 3\nend\n")
	refs := symtab.New()

	References(lines, refs, c)

	sym, ok := refs.Find("myvar", symtab.Variable)
	require.True(t, ok)
	assert.Equal(t, 2, sym.Line)

	sym, ok = refs.Find("myproc", symtab.Function)
	require.True(t, ok)
	assert.Equal(t, 6, sym.Line)

	assert.True(t, refs.Contains("i", symtab.Variable))

	for _, name := range []string{"print", "echo", "end", "arg0", "1", "while"} {
		assert.False(t, refs.Contains(name, symtab.Any), name)
	}
	assert.Equal(t, 3, refs.Len())
}

func TestStripComment(t *testing.T) {
	assert.Equal(t, "print 1 ", StripComment("print 1 # note"))
	assert.Equal(t, "", StripComment("# whole line"))
	assert.Equal(t, "no comment", StripComment("no comment"))
}
