// Package config loads the loader and CLI settings from a YAML file,
// then applies overrides from the environment and a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aleksaelezovic/rdfxml/pkg/rdfxml"
)

// Environment variables overriding the file settings
const (
	EnvStorePath  = "RDFXML_STORE_PATH"
	EnvBaseIRI    = "RDFXML_BASE_IRI"
	EnvLogLevel   = "RDFXML_LOG_LEVEL"
	EnvWorkers    = "RDFXML_WORKERS"
	EnvBatchSize  = "RDFXML_BATCH_SIZE"
	EnvTypedNodes = "RDFXML_TYPED_NODES"
)

// DefaultEnvFile is read when present and no other env file is named
const DefaultEnvFile = ".env"

// Config is the application configuration
type Config struct {
	Store  StoreConfig  `yaml:"store"`
	Parser ParserConfig `yaml:"parser"`
	Loader LoaderConfig `yaml:"loader"`
	Log    LogConfig    `yaml:"log"`
}

// StoreConfig locates the Badger database
type StoreConfig struct {
	// Path of the database directory; empty keeps it in memory
	Path string `yaml:"path"`
}

// ParserConfig carries the RDF/XML parser options
type ParserConfig struct {
	// BaseIRI overrides the per-file base IRI
	BaseIRI string `yaml:"base_iri"`

	// TypedNodes emits rdf:type triples for typed node elements
	TypedNodes bool `yaml:"typed_nodes"`
}

// LoaderConfig tunes the loading pipeline
type LoaderConfig struct {
	Workers   int `yaml:"workers"`
	BatchSize int `yaml:"batch_size"`
}

// LogConfig selects the log level
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Store:  StoreConfig{Path: "./data"},
		Loader: LoaderConfig{Workers: 4, BatchSize: 1000},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path (skipped when empty), applies
// environment overrides and validates the result. Variables set in the
// process environment win over those from envFiles; with no envFiles an
// optional DefaultEnvFile is consulted.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	env, err := readEnvFiles(envFiles)
	if err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(env); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readEnvFiles(files []string) (map[string]string, error) {
	if len(files) == 0 {
		if _, err := os.Stat(DefaultEnvFile); errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		files = []string{DefaultEnvFile}
	}

	env, err := godotenv.Read(files...)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file: %w", err)
	}
	return env, nil
}

func (c *Config) applyEnv(file map[string]string) error {
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}

	if v, ok := lookup(EnvStorePath); ok {
		c.Store.Path = v
	}
	if v, ok := lookup(EnvBaseIRI); ok {
		c.Parser.BaseIRI = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvTypedNodes); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTypedNodes, err)
		}
		c.Parser.TypedNodes = b
	}
	for key, dst := range map[string]*int{EnvWorkers: &c.Loader.Workers, EnvBatchSize: &c.Loader.BatchSize} {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
	}
	return nil
}

// Validate checks the configuration for values the loader cannot run with
func (c *Config) Validate() error {
	if c.Loader.Workers < 1 {
		return fmt.Errorf("loader.workers must be at least 1, got %d", c.Loader.Workers)
	}
	if c.Loader.BatchSize < 1 {
		return fmt.Errorf("loader.batch_size must be at least 1, got %d", c.Loader.BatchSize)
	}
	if c.Parser.BaseIRI != "" {
		if _, err := rdfxml.ResolveIRI(c.Parser.BaseIRI, ""); err != nil {
			return fmt.Errorf("parser.base_iri: %w", err)
		}
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses the configured log level
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level))); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
