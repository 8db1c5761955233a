package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// TestDefaultConfig verifies that DefaultConfig returns valid defaults.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Feed defaults
	if cfg.Feed.Address != "localhost" {
		t.Errorf("Expected default address localhost, got %s", cfg.Feed.Address)
	}
	if cfg.Feed.Port != 30003 {
		t.Errorf("Expected default SBS port 30003, got %d", cfg.Feed.Port)
	}
	if cfg.Feed.NoDump1090 {
		t.Error("Expected decoder spawning enabled by default")
	}

	// Announce defaults
	if cfg.Announce.EspeakPath != "espeak" {
		t.Errorf("Expected espeak on PATH, got %s", cfg.Announce.EspeakPath)
	}
	if cfg.Announce.MinAngleDeg != 45 {
		t.Errorf("Expected minimum angle 45, got %f", cfg.Announce.MinAngleDeg)
	}
	if cfg.Announce.RoutineCooldownSeconds != 300 {
		t.Errorf("Expected routine cooldown 300s, got %d", cfg.Announce.RoutineCooldownSeconds)
	}
	if cfg.Announce.EmergencyCooldownSeconds != 600 {
		t.Errorf("Expected emergency cooldown 600s, got %d", cfg.Announce.EmergencyCooldownSeconds)
	}
	if cfg.Announce.WaitSeconds != 0 {
		t.Errorf("Expected no completeness wait by default, got %d", cfg.Announce.WaitSeconds)
	}

	// Display defaults
	if cfg.Display.Enabled {
		t.Error("Expected display disabled by default")
	}
	if cfg.Display.RefreshMillis != 500 {
		t.Errorf("Expected 500ms refresh, got %d", cfg.Display.RefreshMillis)
	}
	if cfg.Display.MaxRows != 30 {
		t.Errorf("Expected 30 row cap, got %d", cfg.Display.MaxRows)
	}

	// Database defaults
	if cfg.Database.Enabled {
		t.Error("Expected sighting log disabled by default")
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Expected default postgres port 5432, got %d", cfg.Database.Port)
	}
}

// TestLoadNonExistentFile tests that Load returns default config when
// the file doesn't exist.
func TestLoadNonExistentFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.json")
	if err != nil {
		t.Fatalf("Expected no error for non-existent file, got: %v", err)
	}
	if cfg == nil {
		t.Fatal("Expected default config, got nil")
	}
	if cfg.Feed.Port != 30003 {
		t.Error("Did not get default config for non-existent file")
	}
}

// TestLoadValidConfig tests loading a valid configuration file.
func TestLoadValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.json")

	testConfig := &Config{
		Observer: Observer{
			Name:      "Backyard",
			Latitude:  37.77,
			Longitude: -122.42,
			Altitude:  52,
		},
		Feed: Feed{
			Address: "10.0.0.5",
			Port:    30003,
		},
		Announce: Announce{
			EspeakPath:  "/usr/bin/espeak",
			MinAngleDeg: 30,
		},
	}

	data, err := json.MarshalIndent(testConfig, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal test config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Observer.Latitude != 37.77 {
		t.Errorf("Expected latitude 37.77, got %f", cfg.Observer.Latitude)
	}
	if cfg.Feed.Address != "10.0.0.5" {
		t.Errorf("Expected feed address 10.0.0.5, got %s", cfg.Feed.Address)
	}
	if cfg.Announce.MinAngleDeg != 30 {
		t.Errorf("Expected minimum angle 30, got %f", cfg.Announce.MinAngleDeg)
	}
}

// TestLoadInvalidJSON tests that malformed config files are rejected.
func TestLoadInvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.json")
	if err := os.WriteFile(configPath, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Expected error for invalid JSON")
	}
}

// TestSaveRoundTrip tests saving and reloading a configuration.
func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "sub", "config.json")

	cfg := DefaultConfig()
	cfg.Observer.Latitude = 40.0
	cfg.Announce.WaitSeconds = 5

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Observer.Latitude != 40.0 {
		t.Errorf("Latitude lost on round trip: %f", loaded.Observer.Latitude)
	}
	if loaded.Announce.WaitSeconds != 5 {
		t.Errorf("WaitSeconds lost on round trip: %d", loaded.Announce.WaitSeconds)
	}
}

// TestEnvironmentOverrides tests the environment variable layer.
func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("PLANEYELLER_FEED_ADDRESS", "feeder.local")
	t.Setenv("PLANEYELLER_FEED_PORT", "30103")
	t.Setenv("PLANEYELLER_ESPEAK", "/opt/espeak-ng/bin/espeak")
	t.Setenv("PLANEYELLER_DB_PASSWORD", "hunter2")

	cfg, err := Load("/nonexistent/path/config.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Feed.Address != "feeder.local" {
		t.Errorf("Feed address override not applied: %s", cfg.Feed.Address)
	}
	if cfg.Feed.Port != 30103 {
		t.Errorf("Feed port override not applied: %d", cfg.Feed.Port)
	}
	if cfg.Announce.EspeakPath != "/opt/espeak-ng/bin/espeak" {
		t.Errorf("Espeak override not applied: %s", cfg.Announce.EspeakPath)
	}
	if cfg.Database.Password != "hunter2" {
		t.Errorf("Password override not applied: %s", cfg.Database.Password)
	}
}
