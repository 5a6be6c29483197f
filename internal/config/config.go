// Package config loads hexworld settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/talgya/hexworld/internal/hexgrid"
	"github.com/talgya/hexworld/internal/world"
)

// Config holds all hexworld configuration.
type Config struct {
	Map     MapConfig     `yaml:"map"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Entropy EntropyConfig `yaml:"entropy"`
}

// MapConfig holds map generation settings.
type MapConfig struct {
	Width             int     `yaml:"width"`
	Height            int     `yaml:"height"`
	Regions           int     `yaml:"regions"`
	Seed              int64   `yaml:"seed"` // 0 = fresh seed per run
	RelaxationRounds  int     `yaml:"relaxation_rounds"`
	ObstacleThreshold float64 `yaml:"obstacle_threshold"`
	ObstacleSource    string  `yaml:"obstacle_source"` // uniform or simplex
	HexSize           int     `yaml:"hex_size"`        // pixels
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port          int `yaml:"port"`
	PathRateLimit int `yaml:"path_rate_limit"` // path queries per minute per IP
}

// StorageConfig holds the run catalog location.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn or error
}

// EntropyConfig holds the random.org settings used for fresh seeds.
type EntropyConfig struct {
	RandomOrgKey string `yaml:"random_org_key"`
}

// Default returns the built-in configuration.
func Default() *Config {
	gen := world.DefaultGenConfig()
	return &Config{
		Map: MapConfig{
			Width:             gen.Width,
			Height:            gen.Height,
			Regions:           gen.Regions,
			Seed:              gen.Seed,
			RelaxationRounds:  gen.RelaxRounds,
			ObstacleThreshold: gen.ObstacleThreshold,
			ObstacleSource:    string(gen.ObstacleSource),
			HexSize:           gen.HexSize,
		},
		Server: ServerConfig{
			Port:          8080,
			PathRateLimit: 600,
		},
		Storage: StorageConfig{Path: "data/hexworld.db"},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads configuration from a YAML file over the defaults, then applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	// Set defaults if zeroed by the file
	if cfg.Map.Regions == 0 {
		cfg.Map.Regions = world.DefaultRegions
	}
	if cfg.Map.HexSize == 0 {
		cfg.Map.HexSize = hexgrid.DefaultHexSize
	}
	if cfg.Server.PathRateLimit == 0 {
		cfg.Server.PathRateLimit = 600
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("HEXWORLD_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("HEXWORLD_SEED: %w", err)
		}
		c.Map.Seed = seed
	}
	if v := os.Getenv("HEXWORLD_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("HEXWORLD_PORT: %w", err)
		}
		c.Server.Port = port
	}
	c.Storage.Path = envOrDefault("HEXWORLD_DB", c.Storage.Path)
	c.Log.Level = envOrDefault("HEXWORLD_LOG_LEVEL", c.Log.Level)
	c.Entropy.RandomOrgKey = envOrDefault("RANDOM_ORG_API_KEY", c.Entropy.RandomOrgKey)
	return nil
}

// Validate checks the settings that would otherwise panic during generation.
func (c *Config) Validate() error {
	var errs []error
	if c.Map.Width <= 0 || c.Map.Height <= 0 {
		errs = append(errs, fmt.Errorf("map size %dx%d must be positive", c.Map.Width, c.Map.Height))
	}
	if c.Map.Regions < 1 {
		errs = append(errs, fmt.Errorf("regions must be positive, got %d", c.Map.Regions))
	}
	if c.Map.RelaxationRounds < 0 {
		errs = append(errs, fmt.Errorf("relaxation_rounds must not be negative, got %d", c.Map.RelaxationRounds))
	}
	if c.Map.ObstacleThreshold < 0 || c.Map.ObstacleThreshold > 1 {
		errs = append(errs, fmt.Errorf("obstacle_threshold %v outside [0,1]", c.Map.ObstacleThreshold))
	}
	if _, err := world.ParseObstacleSource(c.Map.ObstacleSource); err != nil {
		errs = append(errs, err)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Server.Port))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SlogLevel parses the configured log level.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level: %w", err)
	}
	return level, nil
}

// GenConfig converts the map settings into generation parameters.
func (c *Config) GenConfig() world.GenConfig {
	source, err := world.ParseObstacleSource(c.Map.ObstacleSource)
	if err != nil {
		source = world.UniformObstacles
	}
	return world.GenConfig{
		Width:             c.Map.Width,
		Height:            c.Map.Height,
		Regions:           c.Map.Regions,
		Seed:              c.Map.Seed,
		RelaxRounds:       c.Map.RelaxationRounds,
		ObstacleThreshold: c.Map.ObstacleThreshold,
		ObstacleSource:    source,
		HexSize:           c.Map.HexSize,
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
