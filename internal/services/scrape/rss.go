package scrape

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/mercatus/internal/common"
	"github.com/ternarybob/mercatus/internal/models"
)

// RSSScraper reads the configured news feeds. One dead feed never aborts
// the batch: failures are logged, recorded on the result, and the next
// feed is tried.
type RSSScraper struct {
	feeds     []common.FeedSource
	itemLimit int
	userAgent string
	logger    arbor.ILogger
}

// NewRSSScraper creates the feed reader. itemLimit <= 0 falls back to the
// default cap per feed.
func NewRSSScraper(feeds []common.FeedSource, itemLimit int, userAgent string, logger arbor.ILogger) *RSSScraper {
	if itemLimit <= 0 {
		itemLimit = common.DefaultFeedItemLimit
	}
	return &RSSScraper{
		feeds:     feeds,
		itemLimit: itemLimit,
		userAgent: userAgent,
		logger:    logger,
	}
}

func (s *RSSScraper) Name() string {
	return "rss"
}

// Scrape fetches every configured feed and maps the first entries of each
// to NewsItems. Feed failures are recorded on the result, never returned:
// the feed reader as a whole always settles successfully.
func (s *RSSScraper) Scrape(ctx context.Context) (*Result, error) {
	parser := gofeed.NewParser()
	parser.UserAgent = s.userAgent

	result := &Result{}
	for _, feed := range s.feeds {
		items, err := s.fetchFeed(ctx, parser, feed)
		if err != nil {
			s.logger.Warn().Err(err).Str("feed", feed.Name).Str("url", feed.URL).Msg("Feed fetch failed, continuing with remaining feeds")
			result.FailedFeeds = append(result.FailedFeeds, feed.Name)
			continue
		}
		result.News = append(result.News, items...)
	}

	return result, nil
}

func (s *RSSScraper) fetchFeed(ctx context.Context, parser *gofeed.Parser, feed common.FeedSource) ([]models.NewsItem, error) {
	parsed, err := parser.ParseURLWithContext(feed.URL, ctx)
	if err != nil {
		return nil, err
	}

	count := len(parsed.Items)
	if count > s.itemLimit {
		count = s.itemLimit
	}

	items := make([]models.NewsItem, 0, count)
	for i := 0; i < count; i++ {
		entry := parsed.Items[i]

		var published time.Time
		if entry.PublishedParsed != nil {
			published = *entry.PublishedParsed
		} else if entry.UpdatedParsed != nil {
			published = *entry.UpdatedParsed
		}

		items = append(items, models.NewsItem{
			Title:       entry.Title,
			Link:        entry.Link,
			Source:      feed.Name,
			PublishedAt: published,
			Snippet:     entry.Description,
		})
	}

	return items, nil
}
