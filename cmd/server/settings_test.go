package main

import (
	"io"
	"path/filepath"
	"testing"
)

func TestParseSettingsDefaults(t *testing.T) {
	s, err := parseSettings(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseSettings: %v", err)
	}
	if s.Addr != ":8080" || s.WorldID != "world_1" {
		t.Fatalf("defaults: %+v", s)
	}
	want := filepath.Join("./data", "worlds", "world_1", "regions.sqlite")
	if s.DBPath != want {
		t.Fatalf("db path: got %q want %q", s.DBPath, want)
	}
}

func TestParseSettingsEnvThenFlags(t *testing.T) {
	t.Setenv("HOUSES_ADDR", ":9090")
	t.Setenv("HOUSES_WORLD", "env_world")
	t.Setenv("HOUSES_DISABLE_AUDIT", "true")

	s, err := parseSettings([]string{"-world", "flag_world", "-data", "/tmp/h"}, io.Discard)
	if err != nil {
		t.Fatalf("parseSettings: %v", err)
	}
	if s.Addr != ":9090" {
		t.Fatalf("env addr ignored: %q", s.Addr)
	}
	if s.WorldID != "flag_world" {
		t.Fatalf("flag should override env: %q", s.WorldID)
	}
	if !s.DisableAudit {
		t.Fatalf("expected audit disabled from env")
	}
	if s.DBPath != filepath.Join("/tmp/h", "worlds", "flag_world", "regions.sqlite") {
		t.Fatalf("db path: %q", s.DBPath)
	}
}

func TestParseSettingsRejectsBadInput(t *testing.T) {
	t.Setenv("HOUSES_DISABLE_AUDIT", "maybe")
	if _, err := parseSettings(nil, io.Discard); err == nil {
		t.Fatalf("expected env parse error")
	}
	t.Setenv("HOUSES_DISABLE_AUDIT", "false")
	if _, err := parseSettings([]string{"-world", "  "}, io.Discard); err == nil {
		t.Fatalf("expected empty world error")
	}
}
