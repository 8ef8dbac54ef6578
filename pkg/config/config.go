// Package config loads service settings from defaults, an optional YAML file
// and environment variables, in that order of precedence (last wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the service.
type Config struct {
	Addr          string        `yaml:"addr"`
	DBPath        string        `yaml:"db_path"`
	DatabaseURL   string        `yaml:"database_url"`
	DocumentName  string        `yaml:"document_name"`
	RedisAddr     string        `yaml:"redis_addr"`
	OTelHost      string        `yaml:"otel_host"`
	TraceRatio    float64       `yaml:"trace_ratio"`
	StaticDir     string        `yaml:"static_dir"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	ResetTokenTTL time.Duration `yaml:"reset_token_ttl"`
	LogLevel      string        `yaml:"log_level"`
	TLSCert       string        `yaml:"tls_cert"`
	TLSKey        string        `yaml:"tls_key"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Addr:          ":3001",
		DBPath:        "db.json",
		DocumentName:  "storefront",
		TraceRatio:    1.0,
		StaticDir:     "dist",
		SessionTTL:    24 * time.Hour,
		ResetTokenTTL: 15 * time.Minute,
		LogLevel:      "info",
	}
}

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load reads path (if not empty) over the defaults and applies the process
// environment on top.
func Load(path string) (Config, error) {
	return LoadWith(path, os.LookupEnv)
}

// LoadWith is Load with an explicit environment lookup.
func LoadWith(path string, lookup LookupFunc) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("config: addr is required")
	}
	if c.DBPath == "" && c.DatabaseURL == "" {
		return errors.New("config: one of db_path or database_url is required")
	}
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return errors.New("config: tls_cert and tls_key must be set together")
	}
	if c.SessionTTL <= 0 || c.ResetTokenTTL <= 0 {
		return errors.New("config: token ttls must be positive")
	}
	if c.TraceRatio < 0 || c.TraceRatio > 1 {
		return errors.New("config: trace_ratio must be within [0,1]")
	}
	return nil
}

func (c *Config) applyEnv(lookup LookupFunc) error {
	if v, ok := lookup("PORT"); ok && v != "" {
		c.Addr = ":" + v
	}
	strs := map[string]*string{
		"DB_PATH":       &c.DBPath,
		"DATABASE_URL":  &c.DatabaseURL,
		"DOCUMENT_NAME": &c.DocumentName,
		"REDIS_ADDR":    &c.RedisAddr,
		"OTEL_HOST":     &c.OTelHost,
		"STATIC_DIR":    &c.StaticDir,
		"LOG_LEVEL":     &c.LogLevel,
		"TLS_CERT":      &c.TLSCert,
		"TLS_KEY":       &c.TLSKey,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	durs := map[string]*time.Duration{
		"SESSION_TTL":     &c.SessionTTL,
		"RESET_TOKEN_TTL": &c.ResetTokenTTL,
	}
	for key, dst := range durs {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = d
	}
	return nil
}
