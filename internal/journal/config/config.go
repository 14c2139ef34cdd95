package config

import (
	"trading-journal/pkg/config"
)

// Draft holds draft-store specific configuration.
type Draft struct {
	Retention string `mapstructure:"retention"`
	SweepCron string `mapstructure:"sweep_cron"`
}

// Cache holds the trade list cache configuration.
type Cache struct {
	TTL             string `mapstructure:"ttl"`
	CleanupInterval string `mapstructure:"cleanup_interval"`
}

// Config holds the full configuration for the journal service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	API      config.API      `mapstructure:"api"`
	Media    config.Media    `mapstructure:"media"`
	Telegram config.Telegram `mapstructure:"telegram"`
	Draft    Draft           `mapstructure:"draft"`
	Cache    Cache           `mapstructure:"cache"`
}

// Load loads the journal configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
