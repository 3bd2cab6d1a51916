// Package storage persists preferences, game records and statistics in BadgerDB.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chessgame"

// DataDir returns the application data directory, creating it if needed.
// A non-empty override wins; otherwise the platform location is used:
//   - macOS: ~/Library/Application Support/chessgame/
//   - Linux: $XDG_DATA_HOME/chessgame/ or ~/.local/share/chessgame/
//   - Windows: %APPDATA%/chessgame/
func DataDir(override string) (string, error) {
	dir := override
	if dir == "" {
		base, err := platformBase()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(base, appName)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

func platformBase() (string, error) {
	var env string
	switch runtime.GOOS {
	case "darwin":
	case "windows":
		env = "APPDATA"
	default:
		env = "XDG_DATA_HOME"
	}
	if env != "" {
		if v := os.Getenv(env); v != "" {
			return v, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support"), nil
	case "windows":
		return filepath.Join(home, "AppData", "Roaming"), nil
	default:
		return filepath.Join(home, ".local", "share"), nil
	}
}

// DatabaseDir returns the BadgerDB directory inside dataDir.
func DatabaseDir(dataDir string) (string, error) {
	dbDir := filepath.Join(dataDir, "db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}
	return dbDir, nil
}
