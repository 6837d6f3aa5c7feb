package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

type LLMConfig struct {
	URL    string `json:"url"`
	Model  string `json:"model"`
	APIKey string `json:"api_key"`
}

type EmbeddingConfig struct {
	URL   string `json:"url"`
	Model string `json:"model"`
}

type QdrantConfig struct {
	URL        string `json:"url"`
	Collection string `json:"collection"`
	APIKey     string `json:"api_key"`
}

type AnalyzerConfig struct {
	SampleLimit      int    `json:"sample_limit"` // max chars fed to a prompt
	UserAgent        string `json:"user_agent"`
	FetchTimeoutSecs int    `json:"fetch_timeout_secs"`
	MaxPageSizeMB    int    `json:"max_page_size_mb"`
}

type Config struct {
	Server struct {
		Host      string `json:"host"`
		Port      int    `json:"port"`
		Subpath   string `json:"subpath"`
		JWTSecret string `json:"jwtSecret"`
	} `json:"server"`
	Database struct {
		Driver string `json:"driver"` // "sqlite" or "postgres"
		DSN    string `json:"dsn"`
	} `json:"database"`
	Redis struct {
		Addr     string `json:"addr"`
		Password string `json:"password"`
		DB       int    `json:"db"`
	} `json:"redis"`
	LLM       LLMConfig       `json:"llm"`
	Embedding EmbeddingConfig `json:"embedding"`
	Qdrant    QdrantConfig    `json:"qdrant"`
	Analyzer  AnalyzerConfig  `json:"analyzer"`
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

var (
	once   sync.Once
	cfg    *Config
	cfgErr error
)

// LoadConfig reads config.json from disk (singleton)
func LoadConfig(path string) (*Config, error) {
	once.Do(func() {
		raw, err := os.ReadFile(path)
		if err != nil {
			cfgErr = fmt.Errorf("failed to read config file: %w", err)
			return
		}
		var c Config
		if err := json.Unmarshal(raw, &c); err != nil {
			cfgErr = fmt.Errorf("invalid config format: %w", err)
			return
		}
		// Minimal validation
		if c.Server.JWTSecret == "" {
			cfgErr = errors.New("jwtSecret must be set in config")
			return
		}
		if c.LLM.URL == "" {
			cfgErr = errors.New("llm.url must be set in config")
			return
		}
		applyDefaults(&c)
		cfg = &c
	})
	return cfg, cfgErr
}

func applyDefaults(c *Config) {
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Driver == "sqlite" && c.Database.DSN == "" {
		c.Database.DSN = "gutenlens.db"
	}
	if c.Analyzer.SampleLimit <= 0 {
		c.Analyzer.SampleLimit = 16000
	}
	if c.Analyzer.UserAgent == "" {
		c.Analyzer.UserAgent = defaultUserAgent
	}
	if c.Analyzer.FetchTimeoutSecs <= 0 {
		c.Analyzer.FetchTimeoutSecs = 60
	}
	if c.Analyzer.MaxPageSizeMB <= 0 {
		c.Analyzer.MaxPageSizeMB = 10
	}
}

// ChatURL returns the chat completions endpoint for an OpenAI-compatible base URL.
func ChatURL(base string) string {
	return joinEndpoint(base, "/v1/chat/completions")
}

// EmbeddingsURL returns the embeddings endpoint for an OpenAI-compatible base URL.
func EmbeddingsURL(base string) string {
	return joinEndpoint(base, "/v1/embeddings")
}

func joinEndpoint(base, suffix string) string {
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return base + suffix
}

// ResetConfigForTest resets the singleton state (for testing only)
func ResetConfigForTest() {
	once = sync.Once{}
	cfg = nil
	cfgErr = nil
}
