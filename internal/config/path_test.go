package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("Failed to get home directory: %v", err)
	}
	t.Setenv("BILLFOLD_TEST_DIR", "/tmp/billfold-test")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty path",
			input: "",
			want:  "",
		},
		{
			name:  "absolute path untouched",
			input: "/var/lib/billfold.db",
			want:  "/var/lib/billfold.db",
		},
		{
			name:  "tilde expands to home",
			input: "~/data/billfold.db",
			want:  filepath.Join(home, "data", "billfold.db"),
		},
		{
			name:  "bare tilde",
			input: "~",
			want:  home,
		},
		{
			name:  "environment variable",
			input: "$BILLFOLD_TEST_DIR/billfold.db",
			want:  "/tmp/billfold-test/billfold.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandPath(tt.input)
			if got != tt.want {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestStateDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	dir, err := StateDir()
	if err != nil {
		t.Fatalf("Failed to get state dir: %v", err)
	}
	if !strings.HasSuffix(dir, filepath.Join(".local", "share", "billfold")) {
		t.Errorf("StateDir = %q, want .local/share/billfold suffix", dir)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("State dir should exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("State dir should be a directory")
	}
}
