package platform

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBrowserCommandSelection(t *testing.T) {
	originalExec := execCommand
	originalGoos := goos
	defer func() {
		execCommand = originalExec
		goos = originalGoos
	}()

	var gotName string
	var gotArgs []string
	execCommand = func(name string, args ...string) *exec.Cmd {
		gotName = name
		gotArgs = args
		// "true" exits immediately so Start() succeeds without side effects.
		return exec.Command("true")
	}

	cases := []struct {
		goos     string
		wantName string
	}{
		{"darwin", "open"},
		{"linux", "xdg-open"},
		{"windows", "rundll32"},
	}
	for _, tc := range cases {
		goos = tc.goos
		require.NoError(t, OpenBrowser("https://platform.runloop.ai/devboxes/dbx_1"))
		assert.Equal(t, tc.wantName, gotName, "goos=%s", tc.goos)
		assert.Contains(t, gotArgs, "https://platform.runloop.ai/devboxes/dbx_1")
	}
}
