package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/gridward/adequacy_sim/pkg/pathing"
	"github.com/gridward/adequacy_sim/pkg/types"
)

// LoadBatchConfig reads batch.toml from the config dir, creating a
// default file first if none exists.
func LoadBatchConfig() (*BatchConfig, error) {
	configPath := filepath.Join(pathing.GetConfigDir(), "batch.toml")

	// Create default if not exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := &BatchConfig{
			DatasetDir:    filepath.Join(pathing.GetDataDir(), "datasets"),
			CacheDbPath:   pathing.GetCacheDbPath(),
			TargetYear:    2035,
			WeatherYear:   2012,
			WindowHours:   types.DefaultWindowHours,
			Workers:       1,
			ListenAddress: "",
			ListenPort:    9047,
		}
		cfgFile, err := os.Create(configPath)
		if err != nil {
			return nil, err
		}
		defer cfgFile.Close()
		if err := toml.NewEncoder(cfgFile).Encode(cfg); err != nil {
			return nil, err
		}
		// Same validation as the load path, so a bad default change
		// fails here instead of on the next load.
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	// Load existing config
	var cfg BatchConfig
	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fails fast on values that would otherwise surface as
// confusing errors mid-simulation.
func (c *BatchConfig) Validate() error {
	if c.WindowHours == 0 {
		c.WindowHours = types.DefaultWindowHours
	}
	if c.WindowHours < 1 || c.WindowHours > types.HoursPerYear {
		return fmt.Errorf("window_hours %d out of range [1, %d]", c.WindowHours, types.HoursPerYear)
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.DatasetDir == "" {
		return fmt.Errorf("dataset_dir must be set")
	}
	if c.CacheDbPath == "" {
		c.CacheDbPath = pathing.GetCacheDbPath()
	}
	return nil
}
