package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the file-based tunables; connection settings come from the
// environment.
type Config struct {
	Scheduler struct {
		TickIntervalSeconds  int `yaml:"tick_interval_seconds"`
		SweepIntervalSeconds int `yaml:"sweep_interval_seconds"`
		StaleAfterMinutes    int `yaml:"stale_after_minutes"`
		NumWorkers           int `yaml:"num_workers"`
	} `yaml:"scheduler"`
	Gateway struct {
		PingIntervalSeconds int `yaml:"ping_interval_seconds"`
		ReadTimeoutSeconds  int `yaml:"read_timeout_seconds"`
	} `yaml:"gateway"`
	NATS struct {
		Enabled       bool   `yaml:"enabled"`
		URL           string `yaml:"url"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"nats"`
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// defaultConfig returns the tunables used when no config file is present.
func defaultConfig() *Config {
	var c Config
	c.Scheduler.TickIntervalSeconds = 1
	c.Scheduler.SweepIntervalSeconds = 60
	c.Scheduler.StaleAfterMinutes = 60
	c.Scheduler.NumWorkers = 4
	c.Gateway.PingIntervalSeconds = 30
	c.Gateway.ReadTimeoutSeconds = 60
	c.NATS.URL = "nats://localhost:4222"
	c.NATS.SubjectPrefix = "fastbreak"
	return &c
}

func (c *Config) tickInterval() time.Duration {
	return time.Duration(c.Scheduler.TickIntervalSeconds) * time.Second
}

func (c *Config) sweepInterval() time.Duration {
	return time.Duration(c.Scheduler.SweepIntervalSeconds) * time.Second
}

func (c *Config) staleAfter() time.Duration {
	return time.Duration(c.Scheduler.StaleAfterMinutes) * time.Minute
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
