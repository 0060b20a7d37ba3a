// Package config handles loading and parsing application configuration.
// It supports two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// A .env file in the working directory is loaded first, so every
// env:"..." tagged field can also be supplied the twelve-factor way.
package config

import (
	"flag"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root configuration structure. Every field maps to a key
// in the YAML file and can be overridden by the corresponding
// environment variable.
//
// env-required:"true" means the app refuses to start if that value is
// missing — better to crash at boot than to run with a wrong default.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// StorageDriver selects the backend for the local collection
	// resource: "memory" (the in-process fallback store, seeded empty
	// at startup) or "sqlite" (persistent).
	StorageDriver string `yaml:"storage_driver" env:"STORAGE_DRIVER" env-default:"memory"`

	// StoragePath is the filesystem path to the SQLite .db file.
	// Only consulted when StorageDriver is "sqlite".
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"storage/students.db"`

	HTTPServer `yaml:"http_server"`
	Upstream   `yaml:"upstream"`
	Session    `yaml:"session"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`
}

// Upstream points the data-access client at a remote collection
// resource. When BaseURL is empty, the pages fall back to this
// process's own /api surface, so the application is fully usable with
// no external service configured.
type Upstream struct {
	BaseURL string `yaml:"base_url" env:"UPSTREAM_BASE_URL"`
}

// Session configures the authentication gate.
type Session struct {
	// Secret signs the session tokens the login endpoint issues.
	Secret string `yaml:"secret" env:"SESSION_SECRET" env-required:"true"`
}

// MustLoad reads, validates, and returns the application config.
// Functions prefixed with "Must" are allowed to fatal on failure;
// if this returns, the config is valid.
func MustLoad() *Config {
	// Best effort: a missing .env file is not an error.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}

	return &cfg
}
