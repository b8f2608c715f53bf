package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildHookBlockLintsStagedScripts(t *testing.T) {
	block := BuildHookBlock("/repo/path")

	for _, expected := range []string{
		HookStart,
		`repo_root="/repo/path"`,
		"--diff-filter=ACM -- '*.gdb' '*.gdbinit' '.gdbinit'",
		`gdblint "$repo_root/$file" || exit 1`,
		HookEnd,
	} {
		assert.Contains(t, block, expected)
	}
}

func TestUpsertHookReplacesExistingBlock(t *testing.T) {
	existing := "#!/bin/sh\n\necho before\n" + HookStart + "\nold block\n" + HookEnd + "\n\necho after\n"
	updated := UpsertHook(existing, "/repo/path")

	assert.NotContains(t, updated, "old block")
	assert.Equal(t, 1, strings.Count(updated, HookStart))
	assert.Equal(t, 1, strings.Count(updated, HookEnd))
	assert.Contains(t, updated, "echo before")
	assert.Contains(t, updated, "echo after")
}

func TestUpsertHookAddsShebang(t *testing.T) {
	updated := UpsertHook("echo existing", "/repo")
	assert.True(t, strings.HasPrefix(updated, "#!/bin/sh\necho existing\n"))
	assert.True(t, strings.HasSuffix(updated, HookEnd+"\n"))

	fresh := UpsertHook("", "/repo")
	assert.True(t, strings.HasPrefix(fresh, "#!/bin/sh\n\n"+HookStart))
}
