// Package config loads application configuration from a JSON file, with
// environment-variable overrides on top and sensible defaults below.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config represents the complete application configuration.
type Config struct {
	Observer Observer `json:"observer"`
	Feed     Feed     `json:"feed"`
	Announce Announce `json:"announce"`
	Display  Display  `json:"display"`
	Database Database `json:"database"`
}

// Observer is the fixed position announcements are computed relative to.
type Observer struct {
	// Name is a friendly identifier for this observer location
	Name string `json:"name"`

	// Latitude in decimal degrees (-90 to +90)
	Latitude float64 `json:"latitude"`

	// Longitude in decimal degrees (-180 to +180)
	Longitude float64 `json:"longitude"`

	// Altitude in feet above mean sea level
	Altitude float64 `json:"altitude"`
}

// Feed configures where the SBS stream comes from.
type Feed struct {
	// Address of the ADS-B decoder's SBS output
	Address string `json:"address"`

	// Port of the SBS output (dump1090 default: 30003)
	Port int `json:"port"`

	// Dump1090Path is an explicit decoder binary to spawn. Empty means
	// look for a running decoder first and fall back to the usual
	// binary names on $PATH.
	Dump1090Path string `json:"dump1090_path"`

	// NoDump1090 disables spawning a decoder entirely
	NoDump1090 bool `json:"no_dump1090"`

	// RawLogPath receives a verbatim copy of every received line,
	// replayable later with sbs-replay. Empty disables the tee.
	RawLogPath string `json:"raw_log_path"`
}

// Announce configures the announcement scheduling policy and the speech
// child process.
type Announce struct {
	// EspeakPath is the text-to-speech binary to execute
	EspeakPath string `json:"espeak_path"`

	// MinAngleDeg suppresses routine announcements for aircraft below
	// this elevation angle
	MinAngleDeg float64 `json:"min_angle_deg"`

	// WaitSeconds delays announcements until all data fields are known
	// and none is staler than this. 0 announces on bare position.
	WaitSeconds int `json:"wait_seconds"`

	// RoutineCooldownSeconds is the minimum gap between routine
	// announcements of the same aircraft
	RoutineCooldownSeconds int `json:"routine_cooldown_seconds"`

	// EmergencyCooldownSeconds is the separate, longer gap between
	// emergency announcements of the same aircraft
	EmergencyCooldownSeconds int `json:"emergency_cooldown_seconds"`
}

// Display configures the live tabular view.
type Display struct {
	// Enabled turns the live screen on
	Enabled bool `json:"enabled"`

	// RefreshMillis is the minimum interval between screen refreshes
	RefreshMillis int `json:"refresh_millis"`

	// MaxRows caps the table; the remainder is shown as an overflow
	// count
	MaxRows int `json:"max_rows"`
}

// Database configures the optional Postgres sighting log. When disabled
// nothing is ever written anywhere.
type Database struct {
	// Enabled turns the sighting log on
	Enabled bool `json:"enabled"`

	// Host is the database server hostname
	Host string `json:"host"`

	// Port is the database server port
	Port int `json:"port"`

	// Database is the database name
	Database string `json:"database"`

	// Username for database authentication
	Username string `json:"username"`

	// Password for database authentication (prefer the environment
	// override to keep it out of config files)
	Password string `json:"password"`

	// SSLMode for PostgreSQL connections (disable, require, verify-ca,
	// verify-full)
	SSLMode string `json:"ssl_mode"`

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int `json:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int `json:"max_idle_conns"`
}

// Load reads configuration from a JSON file. If the file doesn't exist,
// returns the default configuration.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cfg.applyEnvironmentOverrides()
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()
	return &cfg, nil
}

// Save writes the configuration to a JSON file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Observer: Observer{
			Name: "Primary Observer",
		},
		Feed: Feed{
			Address: "localhost",
			Port:    30003,
		},
		Announce: Announce{
			EspeakPath:               "espeak",
			MinAngleDeg:              45,
			WaitSeconds:              0,
			RoutineCooldownSeconds:   300,
			EmergencyCooldownSeconds: 600,
		},
		Display: Display{
			Enabled:       false,
			RefreshMillis: 500,
			MaxRows:       30,
		},
		Database: Database{
			Enabled:      false,
			Host:         "localhost",
			Port:         5432,
			Database:     "planeyeller",
			Username:     "planeyeller",
			SSLMode:      "disable",
			MaxOpenConns: 5,
			MaxIdleConns: 2,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to
// the config. This keeps sensitive data like passwords out of config
// files.
func (c *Config) applyEnvironmentOverrides() {
	if addr := os.Getenv("PLANEYELLER_FEED_ADDRESS"); addr != "" {
		c.Feed.Address = addr
	}
	if port := os.Getenv("PLANEYELLER_FEED_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Feed.Port = p
		}
	}
	if espeak := os.Getenv("PLANEYELLER_ESPEAK"); espeak != "" {
		c.Announce.EspeakPath = espeak
	}
	if dbPassword := os.Getenv("PLANEYELLER_DB_PASSWORD"); dbPassword != "" {
		c.Database.Password = dbPassword
	}
}
