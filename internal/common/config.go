package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Logging     LoggingConfig  `toml:"logging"`
	Storage     StorageConfig  `toml:"storage"`
	Scrape      ScrapeConfig   `toml:"scrape"`
	LLM         LLMConfig      `toml:"llm"`
	Analysis    AnalysisConfig `toml:"analysis"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

// ScrapeConfig holds the source catalog and shared transport settings.
type ScrapeConfig struct {
	UserAgent      string             `toml:"user_agent"`      // Browser-like user agent sent on every request
	RequestTimeout string             `toml:"request_timeout"` // e.g. "15s" - slow government endpoints need the longer end
	RatePerSecond  int                `toml:"rate_per_second"` // Requests per second across scrape targets (0 = unlimited)
	Feeds          []FeedSource       `toml:"feeds" validate:"dive"`
	Indicators     []IndicatorSource  `toml:"indicators" validate:"dive"`
	Instruments    []InstrumentSource `toml:"instruments" validate:"dive"`
	Bulletin       BulletinConfig     `toml:"bulletin"`
}

// FeedSource is one configured RSS/Atom feed.
type FeedSource struct {
	Name string `toml:"name" validate:"required"`
	URL  string `toml:"url" validate:"required,url"`
}

// IndicatorSource is one page carrying a single CSS-addressable value.
type IndicatorSource struct {
	Code      string `toml:"code" validate:"required"`
	Name      string `toml:"name"`
	URL       string `toml:"url" validate:"required,url"`
	Selector  string `toml:"selector" validate:"required"` // CSS selector for the value cell
	Category  string `toml:"category"`
	DateKeyed bool   `toml:"date_keyed"` // Upsert by (code, date) instead of code alone
}

// InstrumentSource is one page carrying price, change and change-percent
// cells for an index, commodity, stock or sector value.
type InstrumentSource struct {
	Symbol          string `toml:"symbol" validate:"required"`
	Name            string `toml:"name"`
	URL             string `toml:"url" validate:"required,url"`
	Kind            string `toml:"kind" validate:"required,oneof=market_index commodity tech_stock sector_index"`
	PriceSelector   string `toml:"price_selector" validate:"required"`
	ChangeSelector  string `toml:"change_selector"`
	PercentSelector string `toml:"percent_selector"`
}

// BulletinConfig describes the statistics-portal bulletin endpoint and the
// series extracted from it.
type BulletinConfig struct {
	URL           string `toml:"url" validate:"omitempty,url"` // Bulletin-list endpoint (form POST)
	CategoryID    int    `toml:"category_id"`                  // UstId form field
	LanguageID    int    `toml:"language_id"`                  // DilId form field, fixed to one locale
	Page          int    `toml:"page"`
	Count         int    `toml:"count"`
	Years         []int  `toml:"years"`          // VeriYillari form fields
	TargetTitle   string `toml:"target_title"`   // Title phrase that selects the bulletin
	IndicatorCode string `toml:"indicator_code"` // Destination indicator code for the extracted rate
	IndicatorName string `toml:"indicator_name"`
	Category      string `toml:"category"`
	ForceFallback bool   `toml:"force_fallback"` // Skip the primary transport and go straight to curl
	CurlBinary    string `toml:"curl_binary"`    // External HTTP client binary for the fallback path
}

// LLMConfig holds the text-generation endpoint settings.
type LLMConfig struct {
	APIKey      string  `toml:"api_key"` // Absence short-circuits to the unavailable stub, never an error
	BaseURL     string  `toml:"base_url" validate:"omitempty,url"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
	Timeout     string  `toml:"timeout"` // e.g. "60s"
}

// AnalysisConfig bounds the context handed to the completion service.
type AnalysisConfig struct {
	NewsLimit        int `toml:"news_limit"`        // Max news items in the context
	ObservationLimit int `toml:"observation_limit"` // Rows per market kind in the context (>= 5)
	MaxContextChars  int `toml:"max_context_chars"` // Hard truncation bound for the rendered context
}

// LoadFromFiles loads configuration with merge order: defaults -> file1 -> file2 -> ... -> env.
// Later config files override earlier ones; environment variables override everything.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("MERCATUS_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Logging configuration
	if level := os.Getenv("MERCATUS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("MERCATUS_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Storage configuration
	if badgerPath := os.Getenv("MERCATUS_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Scrape configuration
	if ua := os.Getenv("MERCATUS_USER_AGENT"); ua != "" {
		config.Scrape.UserAgent = ua
	}
	if timeout := os.Getenv("MERCATUS_REQUEST_TIMEOUT"); timeout != "" {
		config.Scrape.RequestTimeout = timeout
	}
	if force := os.Getenv("MERCATUS_BULLETIN_FORCE_FALLBACK"); force != "" {
		if f, err := strconv.ParseBool(force); err == nil {
			config.Scrape.Bulletin.ForceFallback = f
		}
	}

	// LLM configuration
	if apiKey := os.Getenv("MERCATUS_LLM_API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("MERCATUS_LLM_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
	if model := os.Getenv("MERCATUS_LLM_MODEL"); model != "" {
		config.LLM.Model = model
	}
}

// RequestTimeoutDuration parses the configured scrape timeout, clamping
// malformed or missing values to the default.
func (c *ScrapeConfig) RequestTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return DefaultRequestTimeout
	}
	return d
}

// TimeoutDuration parses the configured completion-call timeout.
func (c *LLMConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return DefaultLLMTimeout
	}
	return d
}
