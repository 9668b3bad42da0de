package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"happy-thoughts/internal/config"
)

// Config holds the worker-only settings on top of the shared config
type Config struct {
	*config.Config
	HealthPort string
}

// loadConfig wraps the application config with the worker settings
func loadConfig(appCfg *config.Config) *Config {
	cfg := &Config{
		Config:     appCfg,
		HealthPort: os.Getenv("WORKER_HEALTH_PORT"),
	}
	if cfg.HealthPort == "" {
		cfg.HealthPort = "9999"
	}

	log.Info().
		Str("redis", cfg.Redis.Host).
		Int("concurrency", cfg.Jobs.Concurrency).
		Str("backfill_cron", cfg.Jobs.BackfillCron).
		Msg("[Config] Worker configuration loaded")

	return cfg
}

// Validate rejects settings the worker cannot run with
func (c *Config) Validate() error {
	if c.Storage.Driver == config.DriverFile {
		return fmt.Errorf("the worker needs a shared database, STORAGE_DRIVER=%s is single-process", c.Storage.Driver)
	}
	if !c.Jobs.Enabled {
		return fmt.Errorf("JOBS_ENABLED must be true to run the worker")
	}
	return nil
}
