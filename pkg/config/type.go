package config

// BatchConfig drives the batch orchestrator and the dataset provider.
// Malformed values fail at load time, not deep inside a simulation.
type BatchConfig struct {
	// DatasetDir holds the provider's CSV series and TOML tables.
	DatasetDir string `toml:"dataset_dir"`
	// CacheDbPath overrides the default result cache location when set.
	CacheDbPath string `toml:"cache_db_path"`

	TargetYear  int `toml:"target_year"`
	WeatherYear int `toml:"weather_year"`
	// WindowHours is the stress window length. Defaults to one week.
	WindowHours int `toml:"window_hours"`

	// Workers is the number of concurrent (scenario, region) pipelines.
	// 1 keeps log and progress output in a reproducible order.
	Workers int `toml:"workers"`

	// Progress feed endpoint. Empty address disables the feed.
	ListenAddress string `toml:"listen_address"`
	ListenPort    int    `toml:"listen_port"`
}
