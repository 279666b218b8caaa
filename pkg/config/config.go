package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" validate:"required"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"15s"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Storage struct {
		// Backend selects the blob store implementation: "fs" or "badger".
		Backend      string `yaml:"backend" default:"fs" validate:"oneof=fs badger"`
		Root         string `yaml:"root" default:"data"`
		BronzePrefix string `yaml:"bronze_prefix" default:"raw/"`
		SilverKey    string `yaml:"silver_key" default:"silver/market_history.parquet"`
		GoldKey      string `yaml:"gold_key" default:"gold/market_indicators.parquet"`
	} `yaml:"storage"`
	CoinGecko struct {
		BaseURL     string        `yaml:"base_url" default:"https://api.coingecko.com/api/v3"`
		APIKey      string        `yaml:"api_key"`
		Currency    string        `yaml:"vs_currency" default:"usd"`
		Timeout     time.Duration `yaml:"timeout" default:"15s"`
		RetryMax    int           `yaml:"retry_max" default:"4"`
		RetryWaitMin time.Duration `yaml:"retry_wait_min" default:"1s"`
		RetryWaitMax time.Duration `yaml:"retry_wait_max" default:"30s"`
	} `yaml:"coingecko"`
	Pipeline struct {
		// Coins is the list of tracked asset identifiers (CoinGecko ids).
		Coins []string `yaml:"coins" validate:"min=1"`
		// MAWindow is N: trailing rows for the moving average and volatility.
		MAWindow int `yaml:"ma_window" default:"7" validate:"gt=1"`
		// MomentumWindow is M: trailing day-over-day deltas for the oscillator.
		MomentumWindow int `yaml:"momentum_window" default:"14" validate:"gt=1"`
		// DipThreshold and RallyThreshold are fractions of the moving average.
		// Price below SMA*(1-dip) reads BUY, above SMA*(1+rally) reads SELL.
		DipThreshold   float64 `yaml:"dip_threshold" default:"0.05" validate:"gt=0"`
		RallyThreshold float64 `yaml:"rally_threshold" default:"0.05" validate:"gt=0"`
		// Oscillator override levels.
		OversoldLevel   float64 `yaml:"oversold_level" default:"30"`
		OverboughtLevel float64 `yaml:"overbought_level" default:"70"`
		// ReprocessDays forces recomputation of aggregate rows within the
		// trailing window even when no new history arrived for them.
		ReprocessDays int `yaml:"reprocess_days" default:"0" validate:"gte=0"`
	} `yaml:"pipeline"`
	Notify struct {
		// Channel selects the alert sink: "kafka", "webhook", "log" or "none".
		Channel    string `yaml:"channel" default:"log" validate:"oneof=kafka webhook log none"`
		WebhookURL string `yaml:"webhook_url"`
	} `yaml:"notify"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"coinlake.alerts"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"1s"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"coinlake"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"60s"`
	} `yaml:"clickhouse"`
}

var validate = validator.New()

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

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		c.CoinGecko.APIKey = v
	}
	if v := os.Getenv("COINS"); v != "" {
		c.Pipeline.Coins = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("NOTIFY_WEBHOOK_URL"); v != "" {
		c.Notify.WebhookURL = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Notify.Channel == "kafka" && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers are required when notify.channel is 'kafka'")
	}
	if c.Notify.Channel == "webhook" && c.Notify.WebhookURL == "" {
		return fmt.Errorf("notify.webhook_url is required when notify.channel is 'webhook'")
	}
	if c.ClickHouse.Enabled && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required when clickhouse.enabled is true")
	}
	return nil
}
