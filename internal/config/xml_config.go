// Package config provides XML-based configuration for the CargoTrack server.
package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// FileName is the default configuration file name.
const FileName = "CargoTrack.config"

// AppConfig represents the root XML configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"CargoTrack"`

	// Server configuration
	Server ServerConfig `xml:"Server"`

	// Storage configuration
	Storage StorageConfig `xml:"Storage"`

	// Map widget configuration
	Map MapConfig `xml:"Map"`

	// Dashboard sessions
	Dashboard DashboardConfig `xml:"Dashboard"`

	// Advanced options
	Advanced AdvancedConfig `xml:"Advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int    `xml:"Port"`
	BindAddress  string `xml:"BindAddress"`
	EnableCORS   bool   `xml:"EnableCORS"`
	AllowOrigins string `xml:"AllowOrigins"`
	ReadTimeout  int    `xml:"ReadTimeoutSeconds"`
	WriteTimeout int    `xml:"WriteTimeoutSeconds"`
	IdleTimeout  int    `xml:"IdleTimeoutSeconds"`
	BodyLimit    string `xml:"BodyLimit"`
}

// StorageConfig selects the order store and where settings live
type StorageConfig struct {
	DataDirectory string `xml:"DataDirectory"`
	Backend       string `xml:"Backend"`
	SettingsFile  string `xml:"SettingsFile"`
}

// MapConfig contains map widget settings
type MapConfig struct {
	StyleURL     string `xml:"StyleURL"`
	CitiesFile   string `xml:"CitiesFile"`
	DefaultToken string `xml:"DefaultToken"`
}

// DashboardConfig contains view session settings
type DashboardConfig struct {
	PageSize               int `xml:"PageSize"`
	MaxPageSize            int `xml:"MaxPageSize"`
	SessionTimeoutMinutes  int `xml:"SessionTimeoutMinutes"`
	CleanupIntervalMinutes int `xml:"CleanupIntervalMinutes"`
}

// AdvancedConfig contains advanced/tuning options
type AdvancedConfig struct {
	LogLevel             string `xml:"LogLevel"`
	EnableRequestLogging bool   `xml:"EnableRequestLogging"`
	EnableGzip           bool   `xml:"EnableGzip"`
	RequestTimeout       int    `xml:"RequestTimeoutSeconds"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8089,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
			BodyLimit:    "1M",
		},
		Storage: StorageConfig{
			DataDirectory: "./data",
			Backend:       "memory",
			SettingsFile:  "./data/settings.yaml",
		},
		Map: MapConfig{
			StyleURL:   "mapbox://styles/mapbox/light-v11",
			CitiesFile: "./data/cities.yaml",
		},
		Dashboard: DashboardConfig{
			PageSize:               3,
			MaxPageSize:            100,
			SessionTimeoutMinutes:  30,
			CleanupIntervalMinutes: 5,
		},
		Advanced: AdvancedConfig{
			LogLevel:             "info",
			EnableRequestLogging: true,
			EnableGzip:           true,
			RequestTimeout:       30,
		},
	}
}

// LoadConfig loads configuration from XML file, writing the defaults first if
// the file does not exist.
func LoadConfig(configPath string) (*AppConfig, error) {
	config := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := xml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnvironmentOverrides()
	config.resolvePaths(filepath.Dir(configPath))

	return config, nil
}

// Save saves the configuration to XML file
func (c *AppConfig) Save(configPath string) error {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "\n<!-- CargoTrack Configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
	content := append(header, output...)

	if dir := filepath.Dir(configPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
	}

	if backend := os.Getenv("STORE_BACKEND"); backend != "" {
		c.Storage.Backend = backend
	}

	if token := os.Getenv("MAPBOX_TOKEN"); token != "" {
		c.Map.DefaultToken = token
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	for _, p := range []*string{&c.Storage.DataDirectory, &c.Storage.SettingsFile, &c.Map.CitiesFile} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(configDir, *p)
		}
	}
}

// GetDataDir returns the absolute data directory path
func (c *AppConfig) GetDataDir() string {
	return c.Storage.DataDirectory
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// SessionTimeout returns the idle time after which a dashboard session expires.
func (c *AppConfig) SessionTimeout() time.Duration {
	return minutesOr(c.Dashboard.SessionTimeoutMinutes, 30)
}

// CleanupInterval returns how often expired sessions are removed.
func (c *AppConfig) CleanupInterval() time.Duration {
	return minutesOr(c.Dashboard.CleanupIntervalMinutes, 5)
}

func minutesOr(v, fallback int) time.Duration {
	if v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Minute
}

// EnsureDirectories creates all necessary directories
func (c *AppConfig) EnsureDirectories() error {
	dirs := []string{c.Storage.DataDirectory}
	if c.Storage.SettingsFile != "" {
		dirs = append(dirs, filepath.Dir(c.Storage.SettingsFile))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
