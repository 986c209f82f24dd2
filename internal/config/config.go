package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

const envPrefix = "ROOMDIR_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (ROOMDIR_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// ROOMDIR_HTTP_ADDR -> http_addr, ROOMDIR_OCCUPANCY_POLL_INTERVAL -> occupancy.poll_interval.
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// sections are the nested config blocks; their env names use the first
// underscore as the separator.
var sections = []string{"occupancy"}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	for _, sec := range sections {
		if rest, ok := strings.CutPrefix(key, sec+"_"); ok {
			return sec + "." + rest
		}
	}
	return key
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validSources = map[OccupancySource]bool{
	OccupancyField:    true,
	OccupancyRandom:   true,
	OccupancyPostgres: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("api_base_url is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("invalid api_base_url %q: must be an absolute http(s) URL", c.APIBaseURL)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}

	if c.Occupancy.Source != "" && !validSources[c.Occupancy.Source] {
		return fmt.Errorf("invalid occupancy.source %q: must be one of field, random, postgres", c.Occupancy.Source)
	}
	if c.Occupancy.Source == OccupancyPostgres && strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("database_url is required when occupancy.source is postgres")
	}
	if c.Occupancy.PollInterval < 0 {
		return fmt.Errorf("occupancy.poll_interval must be non-negative")
	}
	if c.Occupancy.MaxAge < 0 {
		return fmt.Errorf("occupancy.max_age must be non-negative")
	}

	return nil
}
