package config

import "time"

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "roomdir.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:     "http://127.0.0.1:5000/",
		HTTPAddr:       ":8081",
		LogLevel:       "info",
		RequestTimeout: 10 * time.Second,
		Occupancy: OccupancyConfig{
			Source:       OccupancyField,
			PollInterval: 30 * time.Second,
			MaxAge:       15 * time.Minute,
		},
	}
}
