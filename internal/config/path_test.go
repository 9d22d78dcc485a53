package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultDataDir(t *testing.T) {
	tests := []struct {
		name     string
		xdg      string
		home     string
		expected string
	}{
		{name: "XDG_DATA_HOME override", xdg: "/custom/data", home: "/home/u", expected: "/custom/data/uidgen"},
		{name: "home fallback", home: "/home/u", expected: "/home/u/.local/share/uidgen"},
		{name: "no home", expected: "./data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_DATA_HOME", tt.xdg)
			t.Setenv("HOME", tt.home)
			if got := DefaultDataDir(); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestLedgerDir(t *testing.T) {
	if got := LedgerDir("/srv/uidgen"); got != filepath.Join("/srv/uidgen", "ledger") {
		t.Fatalf("ledger dir %s", got)
	}
	t.Setenv("XDG_DATA_HOME", "/x")
	if got := LedgerDir(""); got != "/x/uidgen/ledger" {
		t.Fatalf("default ledger dir %s", got)
	}
}
