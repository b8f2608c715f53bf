package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdblint/gdblint/internal/symtab"
)

func tables(t *testing.T) (*symtab.Table, *symtab.Table) {
	t.Helper()
	defs := symtab.New(symtab.WithDuplicateCheck())
	refs := symtab.New(symtab.WithDuplicateCheck())

	require.True(t, defs.Insert("pc", symtab.Variable, 0))
	require.True(t, defs.Insert("envcmd", symtab.Function, 0))
	require.True(t, defs.Insert("myproc", symtab.Function, 1))
	require.True(t, defs.Insert("used", symtab.Function, 5))
	require.True(t, defs.Insert("counter", symtab.Variable, 9))

	require.True(t, refs.Insert("used", symtab.Function, 12))
	require.True(t, refs.Insert("myvar", symtab.Variable, 2))
	require.True(t, refs.Insert("pc", symtab.Variable, 3))
	require.True(t, refs.Insert("helper", symtab.Function, 7))
	return defs, refs
}

func TestUnused(t *testing.T) {
	defs, refs := tables(t)
	got := Unused(defs, refs, Filter{})
	Sort(got)
	assert.Equal(t, []Diagnostic{
		{Issue: IssueUnused, Kind: symtab.Function, Name: "myproc", Line: 1},
		{Issue: IssueUnused, Kind: symtab.Variable, Name: "counter", Line: 9},
	}, got)
}

func TestUndefined(t *testing.T) {
	defs, refs := tables(t)
	got := Undefined(defs, refs, Filter{})
	Sort(got)
	assert.Equal(t, []Diagnostic{
		{Issue: IssueUndefined, Kind: symtab.Variable, Name: "myvar", Line: 2},
		{Issue: IssueUndefined, Kind: symtab.Function, Name: "helper", Line: 7},
	}, got)
}

func TestKindMustMatch(t *testing.T) {
	defs := symtab.New()
	refs := symtab.New()
	require.True(t, defs.Insert("same", symtab.Variable, 1))
	require.True(t, refs.Insert("same", symtab.Function, 2))

	assert.Len(t, Unused(defs, refs, Filter{}), 1)
	assert.Len(t, Undefined(defs, refs, Filter{}), 1)
}

func TestFunctionOnlyUnusedFilter(t *testing.T) {
	defs, refs := tables(t)
	f := Filter{NoUnusedFunc: true}

	unused := Unused(defs, refs, f)
	require.Len(t, unused, 1)
	assert.Equal(t, "counter", unused[0].Name)

	assert.Len(t, Undefined(defs, refs, f), 2)
}

func TestFilters(t *testing.T) {
	defs, refs := tables(t)

	assert.Empty(t, Unused(defs, refs, Filter{NoUnused: true}))
	assert.Empty(t, Undefined(defs, refs, Filter{NoUndefined: true}))

	undefined := Undefined(defs, refs, Filter{NoUndefinedVar: true})
	require.Len(t, undefined, 1)
	assert.Equal(t, "helper", undefined[0].Name)

	undefined = Undefined(defs, refs, Filter{NoUndefinedFunc: true})
	require.Len(t, undefined, 1)
	assert.Equal(t, "myvar", undefined[0].Name)

	unused := Unused(defs, refs, Filter{NoUnusedVar: true})
	require.Len(t, unused, 1)
	assert.Equal(t, "myproc", unused[0].Name)
}

func TestIgnoreGlobs(t *testing.T) {
	defs, refs := tables(t)
	ignore, err := CompileIgnores([]string{"my*"})
	require.NoError(t, err)
	f := Filter{Ignore: ignore}

	unused := Unused(defs, refs, f)
	require.Len(t, unused, 1)
	assert.Equal(t, "counter", unused[0].Name)

	undefined := Undefined(defs, refs, f)
	require.Len(t, undefined, 1)
	assert.Equal(t, "helper", undefined[0].Name)

	_, err = CompileIgnores([]string{"[unclosed"})
	require.Error(t, err)
}

func TestSortOrdersByLineThenIssue(t *testing.T) {
	diags := []Diagnostic{
		{Issue: IssueUnused, Kind: symtab.Variable, Name: "b", Line: 4},
		{Issue: IssueUnused, Kind: symtab.Function, Name: "z", Line: 1},
		{Issue: IssueUndefined, Kind: symtab.Variable, Name: "c", Line: 4},
		{Issue: IssueUnused, Kind: symtab.Variable, Name: "a", Line: 4},
	}
	Sort(diags)
	names := make([]string, 0, len(diags))
	for _, d := range diags {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"z", "c", "a", "b"}, names)
}

func TestMessage(t *testing.T) {
	unused := Diagnostic{Issue: IssueUnused, Kind: symtab.Function, Name: "myproc", Line: 7}
	assert.Equal(t, "init.gdb:007: Unused func: 'myproc' defined at line 7 is never used", unused.Message("init.gdb", 3))

	undefined := Diagnostic{Issue: IssueUndefined, Kind: symtab.Variable, Name: "myvar", Line: 12}
	assert.Equal(t, "STDIN:12: Undefined var: 'myvar' is referenced at line 12 but never defined", undefined.Message("STDIN", 1))
}
