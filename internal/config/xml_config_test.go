package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_CreatesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Expected config file to be created: %v", err)
	}
	if cfg.Server.Port != 8089 {
		t.Errorf("Expected default port 8089, got %d", cfg.Server.Port)
	}
	if cfg.Dashboard.PageSize != 3 {
		t.Errorf("Expected page size 3, got %d", cfg.Dashboard.PageSize)
	}
	if want := filepath.Join(dir, "data", "settings.yaml"); cfg.Storage.SettingsFile != want {
		t.Errorf("Expected settings file %s, got %s", want, cfg.Storage.SettingsFile)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "<CargoTrack>") {
		t.Errorf("Expected CargoTrack root element, got:\n%s", data)
	}
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<CargoTrack>
  <Server><Port>9000</Port><BindAddress>127.0.0.1</BindAddress></Server>
  <Storage><DataDirectory>/srv/cargo</DataDirectory><Backend>duckdb</Backend></Storage>
  <Dashboard><PageSize>5</PageSize></Dashboard>
</CargoTrack>`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if got := cfg.GetServerAddr(); got != "127.0.0.1:9000" {
		t.Errorf("Expected 127.0.0.1:9000, got %s", got)
	}
	if cfg.Storage.Backend != "duckdb" || cfg.GetDataDir() != "/srv/cargo" {
		t.Errorf("Unexpected storage config: %+v", cfg.Storage)
	}
	if cfg.Dashboard.PageSize != 5 {
		t.Errorf("Expected page size 5, got %d", cfg.Dashboard.PageSize)
	}
	// Omitted elements keep their defaults.
	if cfg.Dashboard.MaxPageSize != 100 {
		t.Errorf("Expected default max page size, got %d", cfg.Dashboard.MaxPageSize)
	}
}

func TestLoadConfig_InvalidXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	os.WriteFile(path, []byte("<CargoTrack><Server>"), 0644)

	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected parse error")
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("STORE_BACKEND", "duckdb")
	t.Setenv("MAPBOX_TOKEN", "pk.env")
	t.Setenv("DATA_DIR", "/tmp/cargo-data")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Expected port 7070, got %d", cfg.Server.Port)
	}
	if cfg.Storage.Backend != "duckdb" {
		t.Errorf("Expected duckdb backend, got %s", cfg.Storage.Backend)
	}
	if cfg.Map.DefaultToken != "pk.env" {
		t.Errorf("Expected env token, got %s", cfg.Map.DefaultToken)
	}
	if cfg.GetDataDir() != "/tmp/cargo-data" {
		t.Errorf("Expected env data dir, got %s", cfg.GetDataDir())
	}
}

func TestDurations(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.SessionTimeout() != 30*time.Minute {
		t.Errorf("Expected 30m, got %v", cfg.SessionTimeout())
	}
	cfg.Dashboard.CleanupIntervalMinutes = 0
	if cfg.CleanupInterval() != 5*time.Minute {
		t.Errorf("Expected fallback 5m, got %v", cfg.CleanupInterval())
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.resolvePaths(dir)

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "data")); err != nil {
		t.Errorf("Expected data directory: %v", err)
	}
}
