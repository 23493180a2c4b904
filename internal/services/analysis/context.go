// Package analysis turns the day's persisted data into a structured
// market analysis via an OpenAI-compatible completion service. Every
// failure mode short of the final persist degrades to a schema-complete
// stub result rather than an error.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/mercatus/internal/common"
	"github.com/ternarybob/mercatus/internal/interfaces"
	"github.com/ternarybob/mercatus/internal/models"
)

const (
	defaultNewsLimit        = 10
	defaultObservationLimit = 5
	defaultMaxContextChars  = 12000
)

var kindHeadings = map[models.DatumKind]string{
	models.KindMarketIndex: "Market indices",
	models.KindCommodity:   "Commodities",
	models.KindTechStock:   "Technology stocks",
	models.KindSectorIndex: "Sector indices",
}

// ContextBuilder renders the prompt context for the completion call:
// latest indicators, recent observations per market kind, and the run's
// news headlines with HTML snippets converted to markdown.
type ContextBuilder struct {
	indicators   interfaces.IndicatorStorage
	observations interfaces.ObservationStorage
	converter    *md.Converter
	config       common.AnalysisConfig
	logger       arbor.ILogger
}

func NewContextBuilder(indicators interfaces.IndicatorStorage, observations interfaces.ObservationStorage, config common.AnalysisConfig, logger arbor.ILogger) *ContextBuilder {
	if config.NewsLimit <= 0 {
		config.NewsLimit = defaultNewsLimit
	}
	if config.ObservationLimit < defaultObservationLimit {
		config.ObservationLimit = defaultObservationLimit
	}
	if config.MaxContextChars <= 0 {
		config.MaxContextChars = defaultMaxContextChars
	}
	return &ContextBuilder{
		indicators:   indicators,
		observations: observations,
		converter:    md.NewConverter("", true, nil),
		config:       config,
		logger:       logger,
	}
}

// Build renders the context document. Storage read failures degrade to a
// thinner context rather than failing the build: the section is dropped
// and a warning logged.
func (b *ContextBuilder) Build(ctx context.Context, news []models.NewsItem) string {
	var sb strings.Builder

	b.writeIndicators(ctx, &sb)
	for _, kind := range models.MarketKinds() {
		b.writeObservations(ctx, &sb, kind)
	}
	b.writeNews(&sb, news)

	text := sb.String()
	if len(text) > b.config.MaxContextChars {
		// Walk back to a rune start so the cut never leaves a broken
		// UTF-8 sequence at the end of the prompt.
		cut := b.config.MaxContextChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}

func (b *ContextBuilder) writeIndicators(ctx context.Context, sb *strings.Builder) {
	records, err := b.indicators.GetLatest(ctx, 0)
	if err != nil {
		b.logger.Warn().Err(err).Msg("Indicator read failed, building context without indicators")
		return
	}
	if len(records) == 0 {
		return
	}

	sb.WriteString("## Economic indicators\n")
	for _, r := range records {
		fmt.Fprintf(sb, "- %s (%s): %.2f as of %s\n", r.Name, r.Code, r.Value, r.Date.Format("2006-01-02"))
	}
	sb.WriteString("\n")
}

func (b *ContextBuilder) writeObservations(ctx context.Context, sb *strings.Builder, kind models.DatumKind) {
	records, err := b.observations.GetRecent(ctx, kind, b.config.ObservationLimit)
	if err != nil {
		b.logger.Warn().Err(err).Str("kind", string(kind)).Msg("Observation read failed, dropping section from context")
		return
	}
	if len(records) == 0 {
		return
	}

	fmt.Fprintf(sb, "## %s\n", kindHeadings[kind])
	for _, r := range records {
		fmt.Fprintf(sb, "- %s: %.2f", r.Symbol, r.Price)
		if r.ChangePercent != 0 {
			fmt.Fprintf(sb, " (%+.2f%%)", r.ChangePercent)
		}
		fmt.Fprintf(sb, " at %s\n", r.ObservedAt.Format("2006-01-02 15:04"))
	}
	sb.WriteString("\n")
}

func (b *ContextBuilder) writeNews(sb *strings.Builder, news []models.NewsItem) {
	if len(news) == 0 {
		return
	}
	if len(news) > b.config.NewsLimit {
		news = news[:b.config.NewsLimit]
	}

	sb.WriteString("## Today's headlines\n")
	for _, item := range news {
		fmt.Fprintf(sb, "- [%s] %s", item.Source, item.Title)
		if snippet := b.snippet(item.Snippet); snippet != "" {
			fmt.Fprintf(sb, " - %s", snippet)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// snippet converts a feed's HTML description to plain markdown. Feeds
// routinely embed anchors and images in descriptions; the converter
// flattens those so the prompt stays readable.
func (b *ContextBuilder) snippet(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	text, err := b.converter.ConvertString(html)
	if err != nil {
		return strings.TrimSpace(html)
	}
	return strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
}
