// Package platform wraps the OS-specific bits: opening URLs in the
// default browser and copying text to the clipboard.
package platform

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
)

// For mocking in tests
var execCommand = exec.Command
var goos = runtime.GOOS

// OpenBrowser opens url in the user's default browser.
func OpenBrowser(url string) error {
	var cmd *exec.Cmd
	switch goos {
	case "darwin":
		cmd = execCommand("open", url)
	case "windows":
		cmd = execCommand("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = execCommand("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening browser: %w", err)
	}
	return nil
}

// CopyToClipboard copies text to the system clipboard.
func CopyToClipboard(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	return nil
}
