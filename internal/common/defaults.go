// Package common provides shared utilities and default configuration.
package common

import "time"

const (
	// DefaultUserAgent mimics a current desktop browser; several scrape
	// targets reject obviously non-browser clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	// DefaultRequestTimeout covers ordinary scrape targets. The bulletin
	// portal is slow; its calls stretch toward DefaultSlowTimeout.
	DefaultRequestTimeout = 10 * time.Second
	DefaultSlowTimeout    = 20 * time.Second

	// DefaultLLMTimeout bounds one completion call.
	DefaultLLMTimeout = 60 * time.Second

	// DefaultFeedItemLimit caps how many entries are taken per feed.
	DefaultFeedItemLimit = 5
)

// NewDefaultConfig returns the configuration used when no file overrides
// are present. The source catalog ships empty except for the bulletin
// endpoint; deployments provide their own targets in mercatus.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/mercatus",
			},
		},
		Scrape: ScrapeConfig{
			UserAgent:      DefaultUserAgent,
			RequestTimeout: "15s",
			RatePerSecond:  4,
			Bulletin: BulletinConfig{
				URL:           "https://data.tuik.gov.tr/Bulten/GetBultenList",
				CategoryID:    106, // inflation and prices
				LanguageID:    1,
				Count:         20,
				TargetTitle:   "Tüketici Fiyat Endeksi",
				IndicatorCode: "tufe_yillik",
				IndicatorName: "TÜFE (Yıllık)",
				Category:      "enflasyon",
				CurlBinary:    "curl",
			},
		},
		LLM: LLMConfig{
			BaseURL:     "https://api.groq.com/openai/v1",
			Model:       "llama-3.3-70b-versatile",
			Temperature: 0.4,
			Timeout:     "60s",
		},
		Analysis: AnalysisConfig{
			NewsLimit:        20,
			ObservationLimit: 5,
			MaxContextChars:  24000,
		},
	}
}
