package pathing

import (
	"os"
	"path/filepath"
)

// EnsureDirs creates the data directory if needed. Call on startup
// from commands that persist results; library code never creates
// directories on import.
func EnsureDirs() error {
	dirs := []string{
		GetDataDir(),
	}
	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
		}
	}
	return nil
}

func GetCacheDbPath() string {
	return filepath.Join(GetDataDir(), "adequacy-results.db")
}

func GetDataDir() string {
	if dir := os.Getenv("ADEQUACY_DATA_DIR"); dir != "" {
		return dir
	}
	return "/var/lib/adequacy_sim"
}

func GetConfigDir() string {
	if dir := os.Getenv("ADEQUACY_CONFIG_DIR"); dir != "" {
		return dir
	}
	return "/etc/adequacy_sim"
}
