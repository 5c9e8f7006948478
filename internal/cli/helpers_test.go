package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// runCLI executes the root command with args and returns stdout.
// Flag globals are reset first since cobra keeps them between runs.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	configDir = defaultConfigDir
	notifySince = ""
	notifyFormat = ""
	notifyWorkers = -1
	notifyNoSave = false
	noColor = false
	historyLimit = 3

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
