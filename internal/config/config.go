package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"PriceScan/internal/dataset"
)

// Default values.
const (
	DefaultPath        = "configs/config.yaml"
	DefaultProvider    = "alphavantage"
	DefaultSymbol      = "NVDA"
	DefaultSince       = "2023-01-01"
	DefaultOutputDir   = "public"
	DefaultThreshold   = 5.0
	DefaultTimeout     = 30 * time.Second
	DefaultScanInput   = "public/nvidia_clean_data.csv"
	DefaultPriceColumn = "close"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider     string        `yaml:"provider"`
		APIKey       string        `yaml:"api_key"`
		Symbol       string        `yaml:"symbol"`
		Since        string        `yaml:"since"`
		Intervals    []string      `yaml:"intervals"`
		IncludeDaily *bool         `yaml:"include_daily"`
		OutputDir    string        `yaml:"output_dir"`
		Timeout      time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Scan struct {
		InputPath    string   `yaml:"input_path"`
		ThresholdPct *float64 `yaml:"threshold_pct"`
	} `yaml:"scan"`
	Reshape struct {
		InputPath   string `yaml:"input_path"`
		OutputPath  string `yaml:"output_path"`
		TimeColumn  string `yaml:"time_column"`
		PriceColumn string `yaml:"price_column"`
	} `yaml:"reshape"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("PRICESCAN_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("PRICESCAN_SYMBOL"); v != "" {
		cfg.DataSource.Symbol = v
	}
	if v := os.Getenv("SCAN_INPUT_PATH"); v != "" {
		cfg.Scan.InputPath = v
	}
	if v := os.Getenv("SCAN_THRESHOLD_PCT"); v != "" {
		var threshold float64
		if _, err := fmt.Sscanf(v, "%f", &threshold); err != nil {
			return nil, fmt.Errorf("invalid SCAN_THRESHOLD_PCT %q: %w", v, err)
		}
		cfg.Scan.ThresholdPct = &threshold
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = DefaultProvider
	}
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = DefaultSymbol
	}
	if cfg.DataSource.Since == "" {
		cfg.DataSource.Since = DefaultSince
	}
	if cfg.DataSource.Intervals == nil {
		cfg.DataSource.Intervals = []string{"15min", "60min"}
	}
	if cfg.DataSource.IncludeDaily == nil {
		include := true
		cfg.DataSource.IncludeDaily = &include
	}
	if cfg.DataSource.OutputDir == "" {
		cfg.DataSource.OutputDir = DefaultOutputDir
	}
	if cfg.DataSource.Timeout == 0 {
		cfg.DataSource.Timeout = DefaultTimeout
	}
	if cfg.Scan.InputPath == "" {
		cfg.Scan.InputPath = DefaultScanInput
	}
	if cfg.Scan.ThresholdPct == nil {
		threshold := DefaultThreshold
		cfg.Scan.ThresholdPct = &threshold
	}
	// Reshape reads what fetch writes: the first intraday series, or the
	// daily one when no intervals are configured.
	rawInterval := dataset.IntervalDaily
	if len(cfg.DataSource.Intervals) > 0 {
		rawInterval = cfg.DataSource.Intervals[0]
	}
	if cfg.Reshape.InputPath == "" {
		cfg.Reshape.InputPath = dataset.SeriesPath(cfg.DataSource.OutputDir, cfg.DataSource.Symbol, rawInterval)
	}
	if cfg.Reshape.OutputPath == "" {
		cfg.Reshape.OutputPath = cfg.Scan.InputPath
	}
	if cfg.Reshape.TimeColumn == "" {
		cfg.Reshape.TimeColumn = dataset.TimeColumn(rawInterval)
	}
	if cfg.Reshape.PriceColumn == "" {
		cfg.Reshape.PriceColumn = DefaultPriceColumn
	}

	return cfg, nil
}

// Threshold returns the configured significance threshold in percent.
func (c *Config) Threshold() float64 {
	if c.Scan.ThresholdPct == nil {
		return DefaultThreshold
	}
	return *c.Scan.ThresholdPct
}

// TelegramEnabled reports whether report delivery to Telegram is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks the settings shared by every command.
func (c *Config) Validate() error {
	th := c.Threshold()
	if th < 0 || math.IsNaN(th) || math.IsInf(th, 0) {
		return fmt.Errorf("scan.threshold_pct must be a finite value >= 0, got %v", th)
	}
	switch c.DataSource.Provider {
	case "alphavantage", "yahoo", "mock":
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.DataSource.Symbol == "" {
		return fmt.Errorf("data_source.symbol is required")
	}
	return nil
}

// ValidateFetch checks the settings needed to download data.
func (c *Config) ValidateFetch() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DataSource.Provider == "alphavantage" && c.DataSource.APIKey == "" {
		return fmt.Errorf("data_source.api_key is required for alphavantage (or set ALPHAVANTAGE_API_KEY)")
	}
	if len(c.DataSource.Intervals) == 0 && !*c.DataSource.IncludeDaily {
		return fmt.Errorf("nothing to fetch: no intervals and include_daily is false")
	}
	return nil
}
