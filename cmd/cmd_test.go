package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/focusforge/internal/kv"
	"github.com/fakeyudi/focusforge/internal/progress"
)

// executeCommand runs a cobra command with the given args and captures combined output.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	_, err = root.ExecuteC()
	return buf.String(), err
}

// isolate points HOME and XDG_DATA_HOME at fresh temp dirs so commands never
// touch real state, and returns a progress store on the default backend.
func isolate(t testing.TB) *progress.Store {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("FOCUSFORGE_DEBUG", "")
	backend, err := kv.Open(kv.BackendJSON)
	if err != nil {
		t.Fatalf("kv.Open: %v", err)
	}
	return progress.NewStore(backend)
}

func TestSetupIsRegisteredAndSkipsFirstRunCheck(t *testing.T) {
	isolate(t)
	found, _, err := rootCmd.Find([]string{"setup"})
	if err != nil || found != setupCmd {
		t.Fatalf("setup command not registered: %v", err)
	}
	// The root pre-run would load or create a profile; setup must not.
	if err := setupCmd.PersistentPreRunE(setupCmd, nil); err != nil {
		t.Fatalf("setup pre-run: %v", err)
	}
}
