package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ferdiebergado/gopherkit/env"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr             string `json:"addr" yaml:"addr" toml:"addr"`
	DBPath           string `json:"db_path" yaml:"db_path" toml:"db_path"`
	OllamaURL        string `json:"ollama_url" yaml:"ollama_url" toml:"ollama_url"`
	DescriptionModel string `json:"description_model" yaml:"description_model" toml:"description_model"`
	EmbeddingModel   string `json:"embedding_model" yaml:"embedding_model" toml:"embedding_model"`
	// Seconds between scheduled scan+describe runs. 0 disables the scheduler.
	ScanIntervalSec int  `json:"scan_interval_sec" yaml:"scan_interval_sec" toml:"scan_interval_sec"`
	Watch           bool `json:"watch" yaml:"watch" toml:"watch"`
	LogLevel        string `json:"log_level" yaml:"log_level" toml:"log_level"`
	MaxBodyBytes    int64  `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`

	CORSEnabled bool     `json:"cors_enabled" yaml:"cors_enabled" toml:"cors_enabled"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Addr:             ":8000",
		DBPath:           "curator.db",
		OllamaURL:        "http://localhost:11434",
		DescriptionModel: "gemma3:4b",
		EmbeddingModel:   "nomic-embed-text",
		ScanIntervalSec:  3600,
		LogLevel:         "info",
		MaxBodyBytes:     1 << 20,
	}
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// LoadDotEnv loads a .env file into the process environment when one exists.
// Missing files are not an error; a local service should start without one.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return env.Load(path)
}

// FromEnv overlays CURATOR_* environment variables on cfg. Unset or malformed
// values leave the existing field untouched.
func FromEnv(cfg Config) Config {
	if v := os.Getenv("CURATOR_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("CURATOR_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CURATOR_OLLAMA_URL"); v != "" {
		cfg.OllamaURL = v
	}
	if v := os.Getenv("CURATOR_DESCRIPTION_MODEL"); v != "" {
		cfg.DescriptionModel = v
	}
	if v := os.Getenv("CURATOR_EMBEDDING_MODEL"); v != "" {
		cfg.EmbeddingModel = v
	}
	if v := os.Getenv("CURATOR_SCAN_INTERVAL_SEC"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.ScanIntervalSec = n
		}
	}
	if v := os.Getenv("CURATOR_WATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Watch = b
		}
	}
	if v := os.Getenv("CURATOR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CURATOR_MAX_BODY_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.MaxBodyBytes = n
		}
	}
	if v := os.Getenv("CURATOR_CORS_ORIGINS"); v != "" {
		cfg.CORSEnabled = true
		cfg.CORSOrigins = splitCSV(v)
	}
	return cfg
}

// Merge overlays non-zero fields of over onto base.
func Merge(base, over Config) Config {
	if over.Addr != "" {
		base.Addr = over.Addr
	}
	if over.DBPath != "" {
		base.DBPath = over.DBPath
	}
	if over.OllamaURL != "" {
		base.OllamaURL = over.OllamaURL
	}
	if over.DescriptionModel != "" {
		base.DescriptionModel = over.DescriptionModel
	}
	if over.EmbeddingModel != "" {
		base.EmbeddingModel = over.EmbeddingModel
	}
	if over.ScanIntervalSec != 0 {
		base.ScanIntervalSec = over.ScanIntervalSec
	}
	if over.Watch {
		base.Watch = true
	}
	if over.LogLevel != "" {
		base.LogLevel = over.LogLevel
	}
	if over.MaxBodyBytes != 0 {
		base.MaxBodyBytes = over.MaxBodyBytes
	}
	if over.CORSEnabled {
		base.CORSEnabled = true
		base.CORSOrigins = over.CORSOrigins
	}
	return base
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
