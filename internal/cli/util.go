package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

func resolveWorkingDirectory() (string, error) {
	rootPath, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	return rootPath, nil
}

// openScript opens the script named by args, or stdin when there is none or
// it is "-". The returned name is empty for stdin.
func openScript(args []string, stdin io.Reader) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(stdin), "", nil
	}
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open script: %w", err)
	}
	return f, path, nil
}

// setupLogging installs the default slog logger. Only warnings reach w
// unless verbose is set.
func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
