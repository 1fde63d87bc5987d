package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultCapacity bounds how many header bytes the circuit hashes directly.
const defaultCapacity = 1024

// Config is the CLI configuration. Flags override file values.
type Config struct {
	Capacity          int    `yaml:"capacity"`
	Format            string `yaml:"format"` // "json" or "cbor"
	DNSTimeoutSeconds int    `yaml:"dns_timeout_seconds"`
	// KeyRecord is an inline DKIM key record ("v=DKIM1; k=rsa; p=...").
	// When set, DNS resolution is skipped.
	KeyRecord string `yaml:"key_record"`
	Logging   struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

func loadConfig(path string) (*Config, error) {
	cfg := &Config{
		Capacity:          defaultCapacity,
		Format:            "json",
		DNSTimeoutSeconds: 10,
	}
	cfg.Logging.Level = "info"
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if cfg.Format != "json" && cfg.Format != "cbor" {
		return nil, fmt.Errorf("unknown output format %q", cfg.Format)
	}
	return cfg, nil
}
