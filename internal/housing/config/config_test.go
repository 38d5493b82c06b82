package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxHousesPerUser != 5 || cfg.DefineTimeout != 60*time.Second || cfg.ScanRadius != 200 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "housing.yaml")
	doc := `version: "1.0"
max_houses_per_user: 2
min_size: {width: 5, height: 5, total_tiles: 30}
max_size: {width: 50, height: 40, total_tiles: 1000}
allow_foreign_overlap: true
default_priority: 3
define_timeout: 90s
previews:
  scan: 15s
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxHousesPerUser != 2 || !cfg.AllowForeignOverlap || cfg.DefaultPriority != 3 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.MaxSize.Height != 40 || cfg.MinSize.TotalTiles != 30 {
		t.Fatalf("unexpected sizes: %+v / %+v", cfg.MinSize, cfg.MaxSize)
	}
	if cfg.DefineTimeout != 90*time.Second || cfg.Previews.Scan != 15*time.Second {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
	// Unset previews keep their defaults.
	if cfg.Previews.Info != 5*time.Second || cfg.Previews.Resize != 2*time.Second {
		t.Fatalf("unexpected preview defaults: %+v", cfg.Previews)
	}
}

func TestParseMissingVersionIsCurrent(t *testing.T) {
	cfg, err := Parse([]byte("max_houses_per_user: 0\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Version != CurrentVersion || cfg.MaxHousesPerUser != 0 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"version":       `version: "2.0"`,
		"unknown field": `max_houses: 3`,
		"negative":      `max_houses_per_user: -1`,
		"wrong type":    `allow_foreign_overlap: "yes please"`,
		"bad duration":  `define_timeout: soon`,
		"min over max":  "min_size: {width: 10, height: 10, total_tiles: 100}\nmax_size: {width: 5, height: 50, total_tiles: 1000}",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		} else if !strings.Contains(err.Error(), "housing.yaml") {
			t.Fatalf("%s: error not prefixed: %v", name, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
