package main

import (
	"time"

	"github.com/BurntSushi/toml"
)

// config is the optional .jgraph.toml file a user may point --config at,
// the same role stacktower's own dotfile config plays for its CLI.
type config struct {
	Endpoints []string      `toml:"endpoints"`
	Workers   int           `toml:"workers"`
	RateLimit float64       `toml:"rate_limit"`
	Burst     int           `toml:"burst"`
	Timeout   time.Duration `toml:"timeout"`
}

func defaultConfig() config {
	return config{
		Endpoints: []string{"localhost:2379"},
		Workers:   4,
		RateLimit: 100,
		Burst:     20,
		Timeout:   5 * time.Second,
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	_, err := toml.DecodeFile(path, &cfg)
	return cfg, err
}
