package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mercatus.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFiles_DefaultsOnly(t *testing.T) {
	config, err := LoadFromFiles()

	require.NoError(t, err)
	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, DefaultUserAgent, config.Scrape.UserAgent)
	assert.NotEmpty(t, config.Scrape.Bulletin.URL)
	assert.Equal(t, "Tüketici Fiyat Endeksi", config.Scrape.Bulletin.TargetTitle)
}

func TestLoadFromFiles_FileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
environment = "production"

[scrape]
request_timeout = "15s"

[llm]
model = "test-model"
`)

	config, err := LoadFromFiles(path)

	require.NoError(t, err)
	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, 15*time.Second, config.Scrape.RequestTimeoutDuration())
	assert.Equal(t, "test-model", config.LLM.Model)
	// Untouched fields keep their defaults.
	assert.Equal(t, DefaultUserAgent, config.Scrape.UserAgent)
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	first := writeConfigFile(t, `environment = "staging"`)
	second := writeConfigFile(t, `environment = "production"`)

	config, err := LoadFromFiles(first, second)

	require.NoError(t, err)
	assert.Equal(t, "production", config.Environment)
}

func TestLoadFromFiles_EnvOverridesEverything(t *testing.T) {
	path := writeConfigFile(t, `
[llm]
api_key = "from-file"
`)
	t.Setenv("MERCATUS_LLM_API_KEY", "from-env")
	t.Setenv("MERCATUS_BULLETIN_FORCE_FALLBACK", "true")

	config, err := LoadFromFiles(path)

	require.NoError(t, err)
	assert.Equal(t, "from-env", config.LLM.APIKey)
	assert.True(t, config.Scrape.Bulletin.ForceFallback)
}

func TestLoadFromFiles_MissingFileFails(t *testing.T) {
	_, err := LoadFromFiles("/nonexistent/mercatus.toml")
	assert.Error(t, err)
}

func TestLoadFromFiles_InvalidSourceRejected(t *testing.T) {
	path := writeConfigFile(t, `
[[scrape.instruments]]
symbol = "XU100"
url = "https://example.com"
kind = "crypto_meme"
price_selector = "span"
`)

	_, err := LoadFromFiles(path)
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestTimeoutDurations_ClampMalformedValues(t *testing.T) {
	scrape := &ScrapeConfig{RequestTimeout: "not-a-duration"}
	assert.Equal(t, DefaultRequestTimeout, scrape.RequestTimeoutDuration())

	scrape.RequestTimeout = "-5s"
	assert.Equal(t, DefaultRequestTimeout, scrape.RequestTimeoutDuration())

	llm := &LLMConfig{}
	assert.Equal(t, DefaultLLMTimeout, llm.TimeoutDuration())

	llm.Timeout = "90s"
	assert.Equal(t, 90*time.Second, llm.TimeoutDuration())
}
