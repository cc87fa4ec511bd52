// Package config loads the YAML configuration shared by the deployables.
// Connection credentials stay in environment variables; the file holds the
// non-secret tunables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from the usual "30s" / "5m"
// YAML form.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	Feed     FeedConfig     `yaml:"feed" validate:"required"`
	Update   UpdateConfig   `yaml:"update"`
	API      APIConfig      `yaml:"api"`
	Database DatabaseConfig `yaml:"database"`
}

// FeedConfig points at the timetable extract download.
type FeedConfig struct {
	URL string `yaml:"url" validate:"required,url"`
	// Gzipped is true when the endpoint serves a gzip compressed extract.
	Gzipped bool     `yaml:"gzipped"`
	Timeout Duration `yaml:"timeout" validate:"min=0"`
}

// UpdateConfig names the update feed topic and the report queue.
type UpdateConfig struct {
	Topic       string `yaml:"topic" validate:"required"`
	ReportQueue string `yaml:"report_queue" validate:"required"`
}

type APIConfig struct {
	Port     int      `yaml:"port" validate:"min=1,max=65535"`
	CacheTTL Duration `yaml:"cache_ttl" validate:"min=0"`
}

// DatabaseConfig controls apply behaviour, not connectivity.
type DatabaseConfig struct {
	// FailFast aborts an apply pass at the first bad record instead of
	// collecting errors and continuing.
	FailFast bool `yaml:"fail_fast"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Feed: FeedConfig{
			URL:     "https://publicdatafeeds.networkrail.co.uk/ntrod/CifFileAuthenticate?type=CIF_ALL_FULL_DAILY&day=toc-full",
			Gzipped: true,
			Timeout: Duration(5 * time.Minute),
		},
		Update: UpdateConfig{
			Topic:       "/topic/CIF_ALL_UPDATE",
			ReportQueue: "timetable-reports",
		},
		API: APIConfig{
			Port:     3000,
			CacheTTL: Duration(5 * time.Minute),
		},
	}
}

// Load reads and validates a config file. Fields the file omits keep their
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// FromEnv loads the file named by CONFIG_PATH, or the defaults when the
// variable is unset.
func FromEnv() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}
