package httpclient

import (
	"context"

	"github.com/ternarybob/arbor"
)

// FallbackFetcher composes two transports: try the primary, and on any
// failure re-issue the same request through the secondary. Force skips
// the primary entirely for targets known to reject it.
type FallbackFetcher struct {
	primary   Fetcher
	secondary Fetcher
	force     bool
	logger    arbor.ILogger
}

// NewFallbackFetcher builds the try-A-then-B policy.
func NewFallbackFetcher(primary, secondary Fetcher, force bool, logger arbor.ILogger) *FallbackFetcher {
	return &FallbackFetcher{
		primary:   primary,
		secondary: secondary,
		force:     force,
		logger:    logger,
	}
}

// Do implements Fetcher. The secondary's error is the one returned when
// both transports fail; the primary's failure is only logged.
func (f *FallbackFetcher) Do(ctx context.Context, req *Request) (*Response, error) {
	if !f.force {
		resp, err := f.primary.Do(ctx, req)
		if err == nil {
			return resp, nil
		}
		if f.logger != nil {
			f.logger.Warn().Err(err).Str("url", req.URL).Msg("Primary transport failed, retrying via fallback")
		}
	}

	return f.secondary.Do(ctx, req)
}
