// Package storage keeps a BadgerDB journal of the games the engine played
// and the searches it ran.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "fixedply"

// GetDatabaseDir returns the default journal directory, creating it if
// needed. It is fixedply/journal under the user config directory on macOS
// and Windows, and under $XDG_DATA_HOME (default ~/.local/share) elsewhere.
func GetDatabaseDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	var err error
	switch {
	case runtime.GOOS == "darwin" || runtime.GOOS == "windows":
		base, err = os.UserConfigDir()
	case base == "":
		var home string
		home, err = os.UserHomeDir()
		base = filepath.Join(home, ".local", "share")
	}
	if err != nil {
		return "", fmt.Errorf("locate journal directory: %w", err)
	}

	dir := filepath.Join(base, appName, "journal")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
