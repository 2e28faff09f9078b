// Package clipboard copies rendered output to the system clipboard by
// shelling out to the platform utility. It is a best-effort adapter:
// exports fall back to writing files when no utility is available.
package clipboard

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// linuxTools lists the clipboard commands tried in order on Linux
var linuxTools = [][]string{
	{"xclip", "-selection", "clipboard"},
	{"xsel", "--clipboard", "--input"},
	{"wl-copy"},
}

// ClipboardError indicates no clipboard utility is available
type ClipboardError struct {
	OS      string
	Message string
}

func (e *ClipboardError) Error() string {
	return e.Message
}

// NewClipboardError creates a ClipboardError with installation hints
func NewClipboardError() *ClipboardError {
	var msg string
	switch runtime.GOOS {
	case "linux":
		msg = "no clipboard utility found; install xclip, xsel, or wl-clipboard"
	case "darwin":
		msg = "pbcopy not available (this should not happen on macOS)"
	case "windows":
		msg = "clip command not available (this should not happen on Windows)"
	default:
		msg = fmt.Sprintf("clipboard not supported on %s", runtime.GOOS)
	}
	return &ClipboardError{OS: runtime.GOOS, Message: msg}
}

// Copy copies text to the system clipboard
func Copy(text string) error {
	switch runtime.GOOS {
	case "darwin":
		return pipe(text, "pbcopy")
	case "windows":
		return pipe(text, "cmd", "/c", "clip")
	case "linux":
		return copyLinux(text)
	default:
		return NewClipboardError()
	}
}

func copyLinux(text string) error {
	var lastErr error
	for _, tool := range linuxTools {
		if !commandAvailable(tool[0]) {
			continue
		}
		if err := pipe(text, tool[0], tool[1:]...); err != nil {
			lastErr = fmt.Errorf("%s failed: %w", tool[0], err)
			continue
		}
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("clipboard utilities available but failed: %w", lastErr)
	}
	return NewClipboardError()
}

func pipe(text, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

func commandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// IsClipboardAvailable checks whether Copy can possibly succeed
func IsClipboardAvailable() bool {
	switch runtime.GOOS {
	case "darwin":
		return commandAvailable("pbcopy")
	case "windows":
		return true
	case "linux":
		for _, tool := range linuxTools {
			if commandAvailable(tool[0]) {
				return true
			}
		}
	}
	return false
}

// CopyWithFallback attempts the copy and returns a user-facing status
// message on success. Missing-utility errors pass through unwrapped so
// callers can offer a file export instead.
func CopyWithFallback(text string) (string, error) {
	if err := Copy(text); err != nil {
		var clipErr *ClipboardError
		if errors.As(err, &clipErr) {
			return "", err
		}
		return "", fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return "Copied to clipboard!", nil
}
