package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"timed-quiz-service/internal/domain"
)

const (
	DefaultPort     = "5000"
	DefaultDatabase = "quiz"
	DefaultBaseURL  = "http://localhost:5000"
	DefaultPath     = "config/config.yaml"
)

type Config struct {
	Server struct {
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowedOrigins"`
	} `yaml:"server"`
	Store struct {
		URI      string `yaml:"uri"`
		Database string `yaml:"database"`
	} `yaml:"store"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Questions struct {
		CacheTTL string `yaml:"cacheTTL"`
	} `yaml:"questions"`
	Client struct {
		BaseURL  string `yaml:"baseURL"`
		Duration string `yaml:"duration"`
	} `yaml:"client"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// LoadDotEnv loads .env from the working directory without overriding variables
// that are already set. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	err := godotenv.Load(files...)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Load reads YAML config from path and applies environment overrides.
// A missing file yields defaults plus environment.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv(os.LookupEnv)
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, keys ...string) {
		for _, key := range keys {
			if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
				*dst = strings.TrimSpace(v)
				return
			}
		}
	}
	set(&c.Store.URI, "MONGODB_URI")
	set(&c.Server.Port, "PORT")
	set(&c.Client.BaseURL, "VITE_API_BASE_URL", "API_BASE_URL")
	set(&c.Redis.Addr, "REDIS_ADDR")
	set(&c.Log.Level, "LOG_LEVEL")
	set(&c.Log.Format, "LOG_FORMAT")
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Store.Database == "" {
		c.Store.Database = DefaultDatabase
	}
	if c.Client.BaseURL == "" {
		c.Client.BaseURL = DefaultBaseURL
	}
	c.Client.BaseURL = strings.TrimRight(c.Client.BaseURL, "/")
}

// RequireStore reports a missing store URI.
func (c Config) RequireStore() error {
	if strings.TrimSpace(c.Store.URI) == "" {
		return domain.ErrMissingStoreURI
	}
	return nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// Seconds parses a duration string into whole seconds, or returns fallback.
func Seconds(raw string, fallback int) int {
	d := TTLDuration(raw, 0)
	if d <= 0 {
		return fallback
	}
	return int(d / time.Second)
}
