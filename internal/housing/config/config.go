package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"houseregions.ai/internal/housing/geometry"
)

const CurrentVersion = "1.0"

//go:embed housing.schema.json
var schemaJSON string

type Config struct {
	Version string `yaml:"version"`

	// MaxHousesPerUser of 0 means unlimited.
	MaxHousesPerUser    int                 `yaml:"max_houses_per_user"`
	MinSize             geometry.SizeLimits `yaml:"min_size"`
	MaxSize             geometry.SizeLimits `yaml:"max_size"`
	AllowForeignOverlap bool                `yaml:"allow_foreign_overlap"`
	DefaultPriority     int                 `yaml:"default_priority"`

	DefineTimeout time.Duration `yaml:"define_timeout"`
	ScanRadius    int           `yaml:"scan_radius"`
	Previews      Previews      `yaml:"previews"`
}

// Previews controls how long temporary outlines stay visible.
type Previews struct {
	Info   time.Duration `yaml:"info"`
	Resize time.Duration `yaml:"resize"`
	Scan   time.Duration `yaml:"scan"`
}

func Defaults() Config {
	return Config{
		Version:          CurrentVersion,
		MaxHousesPerUser: 5,
		MinSize:          geometry.SizeLimits{Width: 5, Height: 5, TotalTiles: 30},
		MaxSize:          geometry.SizeLimits{Width: 200, Height: 200, TotalTiles: 10000},
		DefaultPriority:  0,
		DefineTimeout:    60 * time.Second,
		ScanRadius:       200,
		Previews: Previews{
			Info:   5 * time.Second,
			Resize: 2 * time.Second,
			Scan:   10 * time.Second,
		},
	}
}

// Load reads a housing.yaml file. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	return Parse(b)
}

func Parse(b []byte) (Config, error) {
	cfg := Defaults()
	if err := validateDocument(b); err != nil {
		return cfg, fmt.Errorf("housing.yaml: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("housing.yaml: %w", err)
	}
	if strings.TrimSpace(cfg.Version) == "" {
		cfg.Version = CurrentVersion
	}
	if cfg.Version != CurrentVersion {
		return cfg, fmt.Errorf("housing.yaml: the configuration file is either outdated or too new: expected version %s, file version is %s", CurrentVersion, cfg.Version)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("housing.yaml: %w", err)
	}
	return cfg, nil
}

func (c *Config) Normalize() {
	if c == nil {
		return
	}
	d := Defaults()
	if c.DefineTimeout <= 0 {
		c.DefineTimeout = d.DefineTimeout
	}
	if c.ScanRadius <= 0 {
		c.ScanRadius = d.ScanRadius
	}
	if c.Previews.Info <= 0 {
		c.Previews.Info = d.Previews.Info
	}
	if c.Previews.Resize <= 0 {
		c.Previews.Resize = d.Previews.Resize
	}
	if c.Previews.Scan <= 0 {
		c.Previews.Scan = d.Previews.Scan
	}
}

func (c Config) Validate() error {
	if c.MaxHousesPerUser < 0 {
		return fmt.Errorf("max_houses_per_user must be >= 0")
	}
	for name, s := range map[string]geometry.SizeLimits{"min_size": c.MinSize, "max_size": c.MaxSize} {
		if s.Width < 0 || s.Height < 0 || s.TotalTiles < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if c.MinSize.Width > c.MaxSize.Width || c.MinSize.Height > c.MaxSize.Height || c.MinSize.TotalTiles > c.MaxSize.TotalTiles {
		return fmt.Errorf("min_size must not exceed max_size")
	}
	return nil
}

// validateDocument checks the raw YAML document against the embedded schema.
func validateDocument(b []byte) error {
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return err
	}
	if doc == nil {
		doc = map[string]any{}
	}
	// Round-trip through JSON so the validator sees JSON value types.
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	schema, err := jsonschema.CompileString("housing.schema.json", schemaJSON)
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	return schema.Validate(v)
}
