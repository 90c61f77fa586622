package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	AI struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		APIKey   string `yaml:"api_key"`
		BaseURL  string `yaml:"base_url"`
	} `yaml:"ai"`
	Session struct {
		Store      string `yaml:"store"` // "memory" or "sqlite"
		DBPath     string `yaml:"db_path"`
		TTLMinutes int    `yaml:"ttl_minutes"`
	} `yaml:"session"`
	Typeset struct {
		Binary         string `yaml:"binary"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"typeset"`
}

func defaults() *Config {
	var cfg Config
	cfg.Server.Addr = ":8000"
	cfg.AI.Provider = "openai"
	cfg.AI.Model = "anthropic/claude-3.5-sonnet"
	cfg.Session.Store = "sqlite"
	cfg.Session.DBPath = "tailor.db"
	cfg.Session.TTLMinutes = 60
	cfg.Typeset.Binary = "pdflatex"
	cfg.Typeset.TimeoutSeconds = 60
	return &cfg
}

// LoadConfig reads the YAML config file and applies environment overrides.
// A missing config file is not an error; defaults apply.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := defaults()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if apiKey := os.Getenv("TAILOR_API_KEY"); apiKey != "" {
		cfg.AI.APIKey = apiKey
	}
	if provider := os.Getenv("TAILOR_AI_PROVIDER"); provider != "" {
		cfg.AI.Provider = provider
	}
	if model := os.Getenv("TAILOR_AI_MODEL"); model != "" {
		cfg.AI.Model = model
	}
	if baseURL := os.Getenv("TAILOR_AI_BASE_URL"); baseURL != "" {
		cfg.AI.BaseURL = baseURL
	}
	if addr := os.Getenv("TAILOR_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if dbPath := os.Getenv("TAILOR_DB_PATH"); dbPath != "" {
		cfg.Session.DBPath = dbPath
	}

	return cfg, nil
}

// SessionTTL returns the configured session lifetime.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

// TypesetTimeout returns the configured compile timeout.
func (c *Config) TypesetTimeout() time.Duration {
	return time.Duration(c.Typeset.TimeoutSeconds) * time.Second
}
