package server

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/population-forecast/pkg/constants"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, path := range []string{"", "testdata/does-not-exist.yaml"} {
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig(%q) returned error: %v", path, err)
		}
		if cfg.Address != constants.DefaultServerAddress {
			t.Errorf("address = %q, expected default", cfg.Address)
		}
		if cfg.BaseYear != constants.DefaultBaseYear || cfg.EndYear != constants.DefaultEndYear {
			t.Errorf("year defaults = %d..%d", cfg.BaseYear, cfg.EndYear)
		}
		if cfg.AnchorStep != constants.DefaultAnchorStep {
			t.Errorf("anchor step = %d, expected default", cfg.AnchorStep)
		}
		if cfg.BodySizeBytes() != constants.DefaultMaxBodySizeBytes {
			t.Errorf("body size = %d, expected default", cfg.BodySizeBytes())
		}
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yaml")
	content := "address: \":9090\"\nmaxBodySize: 256K\nbaseYear: 2030\nendYear: 2080\nanchorStep: 10\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Address != ":9090" {
		t.Errorf("address = %q, expected :9090", cfg.Address)
	}
	if cfg.BodySizeBytes() != 256*1024 {
		t.Errorf("body size = %d, expected 256K", cfg.BodySizeBytes())
	}
	if cfg.BaseYear != 2030 || cfg.EndYear != 2080 || cfg.AnchorStep != 10 {
		t.Errorf("years = %d..%d step %d", cfg.BaseYear, cfg.EndYear, cfg.AnchorStep)
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
		wantErr  bool
	}{
		{"Plain bytes", "1024", 1024, false},
		{"Bytes suffix", "512B", 512, false},
		{"Kilobytes", "256K", 256 * 1024, false},
		{"Kilobytes long suffix", "2KB", 2 * 1024, false},
		{"Megabytes", "10M", 10 * 1024 * 1024, false},
		{"Gigabytes", "1G", 1024 * 1024 * 1024, false},
		{"Whitespace tolerated", " 5M ", 5 * 1024 * 1024, false},
		{"Empty falls back to default", "", constants.DefaultMaxBodySizeBytes, false},
		{"Unknown unit", "10T", 0, true},
		{"No digits", "MB", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseSize(%q) succeeded, expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSize(%q) returned error: %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseSize(%q) = %d, expected %d", tt.input, got, tt.expected)
			}
		})
	}
}
