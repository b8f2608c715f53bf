package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gdblint/gdblint/internal/fileutil"
)

const (
	HookStart = "# >>> gdblint pre-commit hook >>>"
	HookEnd   = "# <<< gdblint pre-commit hook <<<"
)

// ScriptPatterns select the staged files the hook lints.
var ScriptPatterns = []string{"*.gdb", "*.gdbinit", ".gdbinit"}

func RunInstallHook(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}

	repoRoot, gitDir, err := ResolveGitPaths(rootPath)
	if err != nil {
		return err
	}

	hookPath := filepath.Join(gitDir, "hooks", "pre-commit")
	if err := os.MkdirAll(filepath.Dir(hookPath), 0755); err != nil {
		return fmt.Errorf("failed to create hook directory: %w", err)
	}

	existing := ""
	if data, err := os.ReadFile(hookPath); err == nil {
		existing = string(data)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read existing hook: %w", err)
	}

	updated := UpsertHook(existing, repoRoot)
	if err := os.WriteFile(hookPath, []byte(updated), 0755); err != nil {
		return fmt.Errorf("failed to write hook: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Installed pre-commit hook at %s\n", hookPath)
	return nil
}

func ResolveGitPaths(workingDir string) (repoRoot string, gitDir string, err error) {
	repoRootOut, err := exec.Command("git", "-C", workingDir, "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", "", fmt.Errorf("not inside a git repository")
	}

	gitDirOut, err := exec.Command("git", "-C", workingDir, "rev-parse", "--git-dir").Output()
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve git directory: %w", err)
	}

	repoRoot = strings.TrimSpace(string(repoRootOut))
	gitDir = strings.TrimSpace(string(gitDirOut))
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(repoRoot, gitDir)
	}
	return repoRoot, gitDir, nil
}

// UpsertHook adds the gdblint block to a pre-commit hook, replacing an
// earlier gdblint block and keeping everything else.
func UpsertHook(existingHook, repoRoot string) string {
	block := BuildHookBlock(repoRoot)

	if existingHook == "" {
		return "#!/bin/sh\n\n" + block + "\n"
	}

	start := strings.Index(existingHook, HookStart)
	end := strings.Index(existingHook, HookEnd)
	if start >= 0 && end >= start {
		end += len(HookEnd)
		updated := existingHook[:start] + block + existingHook[end:]
		return fileutil.EnsureTrailingNewline(updated)
	}

	base := fileutil.EnsureTrailingNewline(existingHook)
	if !strings.HasPrefix(base, "#!") {
		base = "#!/bin/sh\n" + base
	}
	return base + "\n" + block + "\n"
}

// BuildHookBlock returns a shell fragment that lints every staged script and
// fails the commit when any of them has issues.
func BuildHookBlock(repoRoot string) string {
	quoted := make([]string, 0, len(ScriptPatterns))
	for _, p := range ScriptPatterns {
		quoted = append(quoted, "'"+p+"'")
	}
	return fmt.Sprintf(
		"%s\nrepo_root=%q\nif command -v gdblint >/dev/null 2>&1; then\n"+
			"  git -C \"$repo_root\" diff --cached --name-only --diff-filter=ACM -- %s |\n"+
			"    while IFS= read -r file; do\n"+
			"      gdblint \"$repo_root/$file\" || exit 1\n"+
			"    done || exit 1\n"+
			"fi\n%s",
		HookStart,
		repoRoot,
		strings.Join(quoted, " "),
		HookEnd,
	)
}
