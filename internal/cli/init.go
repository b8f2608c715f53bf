package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gdblint/gdblint/internal/config"
	"github.com/gdblint/gdblint/internal/fileutil"
)

// RunInit writes the default config template unless one already exists.
func RunInit(cmd *cobra.Command, args []string) error {
	rootPath, err := resolveWorkingDirectory()
	if err != nil {
		return err
	}

	path := filepath.Join(rootPath, config.FileName)
	if err := fileutil.WriteIfMissing(path, []byte(config.Template), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config ready at %s\n", path)
	return nil
}
