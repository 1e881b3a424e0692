package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Entity is one tracked company.
type Entity struct {
	ID          string `yaml:"id" validate:"required"`
	Symbol      string `yaml:"symbol" validate:"required"`
	DisplayName string `yaml:"display_name" validate:"required"`
	Sector      string `yaml:"sector" validate:"required"`
}

// ProviderConfig is shared by the REST data providers.
type ProviderConfig struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url" default:"https://www.alphavantage.co/query" validate:"required,url"`
	MinInterval time.Duration `yaml:"min_interval" default:"12s" validate:"gte=0"`
	Timeout     time.Duration `yaml:"timeout" default:"10s" validate:"gt=0"`
}

type Config struct {
	Environment string `yaml:"environment" default:"development" validate:"required"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080" validate:"gt=0,lte=65535"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		RequestsPerSec  float64       `yaml:"requests_per_sec" default:"2"`
		Burst           int           `yaml:"burst" default:"5"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error fatal panic"`
		Format string `yaml:"format" default:"console" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Providers struct {
		AlphaVantage struct {
			ProviderConfig `yaml:",inline"`
			HistoryDays    int `yaml:"history_days" default:"90" validate:"gte=2,lte=100"`
		} `yaml:"alphavantage"`
		News struct {
			ProviderConfig `yaml:",inline"`
			Limit          int `yaml:"limit" default:"10" validate:"gte=0,lte=1000"`
		} `yaml:"news"`
	} `yaml:"providers"`
	Entities []Entity `yaml:"entities" validate:"dive"`
	Cache    struct {
		SnapshotTTL time.Duration `yaml:"snapshot_ttl" default:"6m"`
		MemorySize  int           `yaml:"memory_size" default:"64"`
		Redis       struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"risklens"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"risklens.alerts"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		Compression  string        `yaml:"compression" default:"gzip"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled     bool          `yaml:"enabled"`
		Host        string        `yaml:"host" default:"localhost"`
		Port        int           `yaml:"port" default:"9000"`
		Database    string        `yaml:"database" default:"risklens"`
		User        string        `yaml:"user" default:"default"`
		Password    string        `yaml:"password"`
		UseHTTP     bool          `yaml:"use_http"`
		DialTimeout time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout time.Duration `yaml:"read_timeout" default:"10s"`
	} `yaml:"clickhouse"`
	Summarizer struct {
		Provider    string        `yaml:"provider" default:"none" validate:"oneof=none gemini claude"`
		Model       string        `yaml:"model"`
		APIKey      string        `yaml:"api_key"`
		Timeout     time.Duration `yaml:"timeout" default:"20s"`
		MaxTokens   int           `yaml:"max_tokens" default:"512"`
		Temperature float32       `yaml:"temperature" default:"0.3"`
		Inline      bool          `yaml:"inline"`
	} `yaml:"summarizer"`
	Refresh struct {
		Schedule string `yaml:"schedule" default:"@every 5m"`
	} `yaml:"refresh"`
	Breaker struct {
		ConsecutiveFailures uint32        `yaml:"consecutive_failures" default:"5"`
		OpenTimeout         time.Duration `yaml:"open_timeout" default:"60s"`
	} `yaml:"breaker"`
}

// DefaultEntities is the bundled tracked-company list.
func DefaultEntities() []Entity {
	return []Entity{
		{ID: "alpha", Symbol: "AAPL", DisplayName: "Alpha Corp", Sector: "Technology"},
		{ID: "beta", Symbol: "CAT", DisplayName: "Beta Industries", Sector: "Industrials"},
		{ID: "gamma", Symbol: "JPM", DisplayName: "Gamma Financials", Sector: "Financials"},
		{ID: "delta", Symbol: "XOM", DisplayName: "Delta Energy", Sector: "Energy"},
		{ID: "epsilon", Symbol: "JNJ", DisplayName: "Epsilon Health", Sector: "Healthcare"},
		{ID: "zeta", Symbol: "PG", DisplayName: "Zeta Consumer", Sector: "Consumer Staples"},
	}
}

var validate = validator.New()

// Default returns a config populated from struct defaults only.
func Default() (*Config, error) {
	var c Config
	if err := c.applyDefaults(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.applyDefaults(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML (or defaults when path is empty or
// missing) and overrides with environment variables. A .env file in the
// working directory is honoured if present.
func LoadWithEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	var (
		c   *Config
		err error
	)
	if path != "" {
		c, err = Load(path)
		if errors.Is(err, os.ErrNotExist) {
			c, err = Default()
		}
	} else {
		c, err = Default()
	}
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		c.Providers.AlphaVantage.APIKey = v
	}
	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		c.Providers.News.APIKey = v
	}
	if v := os.Getenv("SUMMARIZER_PROVIDER"); v != "" {
		c.Summarizer.Provider = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && c.Summarizer.Provider == "gemini" {
		c.Summarizer.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && c.Summarizer.Provider == "claude" {
		c.Summarizer.APIKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		c.Cache.Redis.Enabled = true
		c.Cache.Redis.Host = host
		if ok {
			if p, err := strconv.Atoi(port); err == nil {
				c.Cache.Redis.Port = p
			}
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Enabled = true
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyDefaults() error {
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("config defaults: %w", err)
	}
	if len(c.Entities) == 0 {
		c.Entities = DefaultEntities()
	}
	return nil
}

// Validate checks if the configuration is valid. Missing provider
// credentials are valid: fetchers fall back to bundled sample data.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(c.Entities))
	for _, e := range c.Entities {
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("entities: duplicate id %q", e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}
