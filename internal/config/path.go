package config

import (
	"os"
	"path/filepath"
)

// DefaultDataDir returns where uidgen keeps its ledger when no data dir is
// configured: $XDG_DATA_HOME/uidgen, then ~/.local/share/uidgen, falling back
// to ./data without a home directory.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "uidgen")
	}
	homeDir, err := os.UserHomeDir()
	if err != nil || homeDir == "" {
		return "./data"
	}
	return filepath.Join(homeDir, ".local", "share", "uidgen")
}

// LedgerDir is the Pebble directory of the ID ledger under dataDir.
func LedgerDir(dataDir string) string {
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}
	return filepath.Join(dataDir, "ledger")
}
