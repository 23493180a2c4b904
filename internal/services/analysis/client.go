package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/mercatus/internal/common"
	"github.com/ternarybob/mercatus/internal/models"
)

const systemPrompt = `You are a financial market analyst. Using only the data provided,
produce a daily market analysis as a single JSON object with exactly these fields:
market_summary (string), technical_analysis (string), sector_analysis (string),
forecast (string), outlook (object with short_term, medium_term, long_term strings),
economic_calendar (array of {date, event, importance}), sentiment_score (number 0-10),
volatility (string: low|medium|high), top_gainers (array of strings),
top_losers (array of strings). Respond with JSON only, no commentary.`

// chatRequest is the OpenAI-compatible completion request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client talks to an OpenAI-compatible chat-completions endpoint. It
// never returns an error from Analyze: a missing credential yields the
// unavailable stub and every service or parse failure yields the
// service-error stub, so a broken endpoint cannot fail the daily run.
type Client struct {
	config     common.LLMConfig
	httpClient *http.Client
	logger     arbor.ILogger
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a completion client from the configured endpoint.
func NewClient(config common.LLMConfig, logger arbor.ILogger, opts ...ClientOption) *Client {
	c := &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.TimeoutDuration(),
		},
		logger: logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Analyze sends the rendered context to the completion service and
// parses the JSON reply into an analysis result.
func (c *Client) Analyze(ctx context.Context, contextText string) *models.AnalysisResult {
	if strings.TrimSpace(c.config.APIKey) == "" {
		c.logger.Info().Msg("No completion API credential configured, returning unavailable stub")
		return models.NewUnavailableResult()
	}

	content, err := c.complete(ctx, contextText)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Completion call failed, returning service-error stub")
		return models.NewServiceErrorResult()
	}

	result, err := parseAnalysis(content)
	if err != nil {
		c.logger.Warn().Err(err).Str("content", truncateForLog(content)).Msg("Completion reply not parseable, returning service-error stub")
		return models.NewServiceErrorResult()
	}

	return result
}

func (c *Client) complete(ctx context.Context, contextText string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: contextText},
		},
		Temperature: c.config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	endpoint := strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute completion request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read completion response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("completion service returned status %d: %s", resp.StatusCode, truncateForLog(string(payload)))
	}

	var envelope chatResponse
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return "", fmt.Errorf("failed to decode completion envelope: %w", err)
	}
	if len(envelope.Choices) == 0 {
		return "", fmt.Errorf("completion envelope carried no choices")
	}

	c.logger.Debug().
		Str("model", c.config.Model).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("Completion call succeeded")

	return envelope.Choices[0].Message.Content, nil
}

// parseAnalysis strips markdown fences and decodes the model's JSON into
// a result, defaulting the fields stub readers rely on.
func parseAnalysis(content string) (*models.AnalysisResult, error) {
	cleaned := cleanMarkdownFences(content)

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis JSON: %w", err)
	}
	if strings.TrimSpace(result.MarketSummary) == "" {
		return nil, fmt.Errorf("analysis JSON missing market_summary")
	}

	if result.EconomicCalendar == nil {
		result.EconomicCalendar = []models.CalendarEntry{}
	}
	if result.TopGainers == nil {
		result.TopGainers = []string{}
	}
	if result.TopLosers == nil {
		result.TopLosers = []string{}
	}
	if result.Volatility == "" {
		result.Volatility = "unknown"
	}

	return &result, nil
}

var fencePattern = regexp.MustCompile(`(?s)^\s*` + "```" + `(?:json|JSON)?\s*\n?(.*?)\n?\s*` + "```" + `\s*$`)

// cleanMarkdownFences removes markdown code fences the model wraps its
// JSON in despite being told not to.
func cleanMarkdownFences(s string) string {
	s = strings.TrimSpace(s)

	if matches := fencePattern.FindStringSubmatch(s); len(matches) > 1 {
		s = matches[1]
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	return strings.TrimSpace(s)
}

func truncateForLog(s string) string {
	const max = 500
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
