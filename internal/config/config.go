package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config holds the service configuration.
type Config struct {
	Port      string `toml:"port"`
	DBPath    string `toml:"db_path"`
	JWTSecret string `toml:"jwt_secret"`
	MaxMemory int64  `toml:"max_memory"` // multipart memory limit in bytes

	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`

	// Static site resources
	DataDir        string `toml:"data_dir"`
	DataSource     string `toml:"data_source"` // file, http, sqlite
	DataBaseURL    string `toml:"data_base_url"`
	DataExt        string `toml:"data_ext"`
	CacheSize      int    `toml:"cache_size"`
	CitySummary    string `toml:"city_summary"`
	CityModel      string `toml:"city_model"`
	RateLimit      int    `toml:"rate_limit"`
	RateWindowSecs int    `toml:"rate_window_secs"`

	Grid    GridConfig          `toml:"grid"`
	Thermal ThermalConfig       `toml:"thermal"`
	Periods map[string][]string `toml:"periods"` // year -> available months
}

// GridConfig holds the fixed projection from grid indices to world space.
type GridConfig struct {
	Width   int     `toml:"width"`
	Height  int     `toml:"height"`
	SpanX   float64 `toml:"span_x"`
	SpanZ   float64 `toml:"span_z"`
	BaseY   float64 `toml:"base_y"`
	RowAxis string  `toml:"row_axis"` // "z" or "x"
	FlipX   bool    `toml:"flip_x"`
	FlipZ   bool    `toml:"flip_z"`
}

// ThermalConfig holds the temperature range and cooling falloff.
type ThermalConfig struct {
	MinTemp float64       `toml:"min_temp"`
	MaxTemp float64       `toml:"max_temp"`
	Falloff []FalloffBand `toml:"falloff"`
}

// FalloffBand cools by Cooling degrees when distance < Below.
type FalloffBand struct {
	Below   float64 `toml:"below"`
	Cooling float64 `toml:"cooling"`
}

// Default returns the built-in configuration for the Málaga demo.
func Default() *Config {
	return &Config{
		Port:           ":8080",
		DBPath:         "./data/heatgrid.db",
		JWTSecret:      "your-secret-key-change-in-production",
		MaxMemory:      1024 * 1024 * 800, // 800MB
		LogLevel:       "info",
		DataDir:        "./public/data",
		DataSource:     "file",
		DataExt:        "csv",
		CacheSize:      12,
		CitySummary:    "./public/data/city.json",
		CityModel:      "./public/models/malaga/scene.glb",
		RateLimit:      120,
		RateWindowSecs: 60,
		Grid: GridConfig{
			Width:   94,
			Height:  68,
			SpanX:   250,
			SpanZ:   220,
			BaseY:   3,
			RowAxis: "z",
		},
		Thermal: ThermalConfig{
			MinTemp: 15,
			MaxTemp: 45,
			Falloff: []FalloffBand{
				{Below: 5, Cooling: 5},
				{Below: 10, Cooling: 4},
				{Below: 15, Cooling: 3},
				{Below: 20, Cooling: 2},
				{Below: 25, Cooling: 1},
			},
		},
		Periods: map[string][]string{
			"2023": {"06", "07", "08"},
			"2024": {"05", "06", "07", "08", "09"},
		},
	}
}

// Load reads the file named by CONFIG_FILE, if any.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("CONFIG_FILE"))
}

// LoadFile reads a TOML file on top of the defaults and then applies
// environment overrides. An empty path skips the file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Port = port
	}
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		c.DBPath = dbPath
	}
	if jwtSecret := os.Getenv("JWT_SECRET"); jwtSecret != "" {
		c.JWTSecret = jwtSecret
	}
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
	if src := os.Getenv("DATA_SOURCE"); src != "" {
		c.DataSource = src
	}
	if u := os.Getenv("DATA_BASE_URL"); u != "" {
		c.DataBaseURL = u
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		c.LogLevel = lvl
	}
	if f := os.Getenv("LOG_FILE"); f != "" {
		c.LogFile = f
	}
	if n, err := strconv.Atoi(os.Getenv("CACHE_SIZE")); err == nil {
		c.CacheSize = n
	}
}

// Validate checks the constants the thermal engine depends on.
func (c *Config) Validate() error {
	if c.Grid.Width <= 0 || c.Grid.Height <= 0 {
		return fmt.Errorf("grid size must be positive, got %dx%d", c.Grid.Height, c.Grid.Width)
	}
	if c.Grid.RowAxis != "z" && c.Grid.RowAxis != "x" {
		return fmt.Errorf("grid row_axis must be \"x\" or \"z\", got %q", c.Grid.RowAxis)
	}
	if c.Thermal.MaxTemp <= c.Thermal.MinTemp {
		return fmt.Errorf("thermal max_temp (%v) must exceed min_temp (%v)", c.Thermal.MaxTemp, c.Thermal.MinTemp)
	}
	for i, b := range c.Thermal.Falloff {
		if b.Below <= 0 {
			return fmt.Errorf("falloff band %d: below must be positive, got %v", i, b.Below)
		}
		if b.Cooling < 0 {
			return fmt.Errorf("falloff band %d: cooling must not be negative, got %v", i, b.Cooling)
		}
		if i > 0 && b.Below <= c.Thermal.Falloff[i-1].Below {
			return fmt.Errorf("falloff bands must be ascending by distance")
		}
	}
	switch c.DataSource {
	case "file", "sqlite":
	case "http":
		if c.DataBaseURL == "" {
			return fmt.Errorf("data_source http requires data_base_url")
		}
	default:
		return fmt.Errorf("unknown data_source %q", c.DataSource)
	}
	return nil
}
