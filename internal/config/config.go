// Package config loads the server configuration from the environment and
// an optional YAML pipeline descriptor.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gridforge.dev/internal/builder"
	"gridforge.dev/internal/pipeline"
)

// Config holds all server configuration.
type Config struct {
	ServerAddr string
	DataPath   string
	Width      uint32
	Height     uint32
	Pipeline   *pipeline.Pipeline
}

// Load reads the configuration. PIPELINE_FILE points at a YAML stage list;
// without it the stock pipeline is used. WORLD_WIDTH and WORLD_HEIGHT
// default to 256.
func Load() (*Config, error) {
	cfg := &Config{
		ServerAddr: envOr("SERVER_ADDR", ":8080"),
		DataPath:   envOr("DATA_PATH", "data"),
	}

	var err error
	if cfg.Width, err = envDim("WORLD_WIDTH", 256); err != nil {
		return nil, err
	}
	if cfg.Height, err = envDim("WORLD_HEIGHT", 256); err != nil {
		return nil, err
	}

	if path := os.Getenv("PIPELINE_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading pipeline file: %w", err)
		}
		cfg.Pipeline, err = pipeline.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else {
		cfg.Pipeline = builder.Default()
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDim(key string, fallback uint32) (uint32, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return uint32(n), nil
}
