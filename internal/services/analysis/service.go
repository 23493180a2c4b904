package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/mercatus/internal/common"
	"github.com/ternarybob/mercatus/internal/interfaces"
	"github.com/ternarybob/mercatus/internal/models"
)

// Service runs the daily analysis pass: build the context from storage
// and the run's news, call the completion service, persist the result.
// Only the final persist can fail the pass; everything upstream degrades
// to a stub result that still gets persisted.
type Service struct {
	builder *ContextBuilder
	client  *Client
	storage interfaces.AnalysisStorage
	logger  arbor.ILogger
}

func NewService(builder *ContextBuilder, client *Client, storage interfaces.AnalysisStorage, logger arbor.ILogger) *Service {
	return &Service{
		builder: builder,
		client:  client,
		storage: storage,
		logger:  logger,
	}
}

// Run produces and persists one analysis record for today.
func (s *Service) Run(ctx context.Context, news []models.NewsItem) (*models.AnalysisResult, error) {
	contextText := s.builder.Build(ctx, news)

	result := s.client.Analyze(ctx, contextText)
	result.ID = common.NewAnalysisID()
	result.Date = time.Now().Format("2006-01-02")
	result.News = news
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now()
	}

	if err := s.storage.SaveAnalysis(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to persist analysis: %w", err)
	}

	s.logger.Info().
		Str("id", result.ID).
		Str("date", result.Date).
		Bool("stub", result.IsStub()).
		Msg("Daily analysis persisted")

	return result, nil
}
