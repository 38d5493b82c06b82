package main

import (
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// settings are the process level knobs. Environment values become the flag
// defaults, so an explicit flag always wins.
type settings struct {
	Addr          string `env:"HOUSES_ADDR" envDefault:":8080"`
	WorldID       string `env:"HOUSES_WORLD" envDefault:"world_1"`
	DataDir       string `env:"HOUSES_DATA" envDefault:"./data"`
	ConfigPath    string `env:"HOUSES_CONFIG" envDefault:"./configs/housing.yaml"`
	DirectoryPath string `env:"HOUSES_DIRECTORY" envDefault:"./configs/directory.yaml"`
	DBPath        string `env:"HOUSES_DB"`
	DisableAudit  bool   `env:"HOUSES_DISABLE_AUDIT" envDefault:"false"`
}

func parseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func parseSettings(args []string, errOut io.Writer) (settings, error) {
	var s settings
	if err := parseEnv(&s); err != nil {
		return s, err
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.StringVar(&s.Addr, "addr", s.Addr, "http listen address")
	fs.StringVar(&s.WorldID, "world", s.WorldID, "world id")
	fs.StringVar(&s.DataDir, "data", s.DataDir, "runtime data directory")
	fs.StringVar(&s.ConfigPath, "config", s.ConfigPath, "path to housing.yaml (empty for defaults)")
	fs.StringVar(&s.DirectoryPath, "directory", s.DirectoryPath, "path to directory.yaml")
	fs.StringVar(&s.DBPath, "db", s.DBPath, "region store path (default: <data>/worlds/<world>/regions.sqlite)")
	fs.BoolVar(&s.DisableAudit, "disable_audit", s.DisableAudit, "do not write the zstd audit log")
	if err := fs.Parse(args); err != nil {
		return s, err
	}

	s.WorldID = strings.TrimSpace(s.WorldID)
	if s.WorldID == "" {
		return s, fmt.Errorf("world id is required")
	}
	if strings.TrimSpace(s.DirectoryPath) == "" {
		return s, fmt.Errorf("directory path is required")
	}
	if strings.TrimSpace(s.DBPath) == "" {
		s.DBPath = filepath.Join(s.DataDir, "worlds", s.WorldID, "regions.sqlite")
	}
	return s, nil
}
