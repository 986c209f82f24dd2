package config

import "time"

// OccupancySource selects where overlay occupancy comes from.
type OccupancySource string

const (
	// OccupancyField reads the occupied flag the backend sends per room.
	OccupancyField OccupancySource = "field"
	// OccupancyRandom is the placeholder feed that flags rooms at random.
	OccupancyRandom OccupancySource = "random"
	// OccupancyPostgres polls the room_occupancy table.
	OccupancyPostgres OccupancySource = "postgres"
)

// Config is the top-level roomdir configuration, corresponding to roomdir.yml.
type Config struct {
	APIBaseURL     string          `yaml:"api_base_url" koanf:"api_base_url"`
	HTTPAddr       string          `yaml:"http_addr" koanf:"http_addr"`
	LogLevel       string          `yaml:"log_level" koanf:"log_level"`
	RequestTimeout time.Duration   `yaml:"request_timeout" koanf:"request_timeout"`
	FloorplanPath  string          `yaml:"floorplan_path" koanf:"floorplan_path"`
	DatabaseURL    string          `yaml:"database_url" koanf:"database_url"`
	Occupancy      OccupancyConfig `yaml:"occupancy" koanf:"occupancy"`
}

// OccupancyConfig holds the overlay occupancy feed settings.
type OccupancyConfig struct {
	Source       OccupancySource `yaml:"source" koanf:"source"`
	PollInterval time.Duration   `yaml:"poll_interval" koanf:"poll_interval"`
	MaxAge       time.Duration   `yaml:"max_age" koanf:"max_age"`
	RandomSeed   int64           `yaml:"random_seed" koanf:"random_seed"`
}
