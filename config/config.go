// Package config loads the application configuration from a JSON file with
// environment-variable fallback for the narrator API key.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Defaults applied when the config file leaves a field unset.
const (
	DefaultTankWidth    = 5
	DefaultTankHeight   = 5
	DefaultSnapshotPath = "fish_tank_state.db"
)

// Config holds the application configuration.
type Config struct {
	GeminiAPIKey string `json:"gemini_api_key"`
	TankWidth    int    `json:"tank_width"`
	TankHeight   int    `json:"tank_height"`
	SnapshotPath string `json:"snapshot_path"`
}

// Load loads the configuration from a file. A missing file is not an
// error: the defaults are used and the API key is read from the
// GEMINI_API_KEY environment variable.
func Load(configPath string, logger *log.Logger) (*Config, error) {
	if logger == nil {
		logger = log.Default()
	}

	config := &Config{
		TankWidth:    DefaultTankWidth,
		TankHeight:   DefaultTankHeight,
		SnapshotPath: DefaultSnapshotPath,
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		logger.Printf("Config file not found at %s, checking environment variables", configPath)
		config.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
		if config.GeminiAPIKey != "" {
			logger.Println("Loaded API key from environment variable")
		}
		return config, nil
	}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("opening config file: %w", err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if config.TankWidth <= 0 {
		config.TankWidth = DefaultTankWidth
	}
	if config.TankHeight <= 0 {
		config.TankHeight = DefaultTankHeight
	}
	if config.SnapshotPath == "" {
		config.SnapshotPath = DefaultSnapshotPath
	}

	if config.GeminiAPIKey == "" {
		logger.Println("No API key found in config file, checking environment variables")
		config.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
		if config.GeminiAPIKey != "" {
			logger.Println("Loaded API key from environment variable")
		}
	}

	logger.Println("Configuration loaded successfully")
	return config, nil
}

// DefaultPath returns the default path for the config file, next to the
// executable.
func DefaultPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(filepath.Dir(execPath), "config.json")
}

// SaveDefault creates a default config file if it doesn't exist, so the
// user has something to fill in.
func SaveDefault(configPath string, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer file.Close()

	defaultConfig := &Config{
		TankWidth:    DefaultTankWidth,
		TankHeight:   DefaultTankHeight,
		SnapshotPath: DefaultSnapshotPath,
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(defaultConfig); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}

	logger.Printf("Created default config file at %s", configPath)
	logger.Printf("Add your Gemini API key to the 'gemini_api_key' field or set the GEMINI_API_KEY environment variable")
	return nil
}
