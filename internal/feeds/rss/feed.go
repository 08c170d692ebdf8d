// Package rss implements news source feeds backed by RSS endpoints.
// Every feed absorbs its own failures: a fetch that times out, returns
// a bad status, or yields an unparseable payload logs a warning and
// produces zero headlines. Callers never see an error.
package rss

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/ternarybob/arbor"

	"github.com/twokomi/oneclick-reports-backend/internal/interfaces"
	"github.com/twokomi/oneclick-reports-backend/internal/models"
)

// Feed is a fixed-URL RSS news feed (general or business wire).
type Feed struct {
	name   string
	url    string
	parser *gofeed.Parser
	logger arbor.ILogger
}

var _ interfaces.NewsFeed = (*Feed)(nil)

// NewFeed creates a news feed for a fixed RSS endpoint.
func NewFeed(name, feedURL string, timeout time.Duration, logger arbor.ILogger) *Feed {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	return &Feed{
		name:   name,
		url:    feedURL,
		parser: parser,
		logger: logger,
	}
}

// Name identifies the provider in headline source tags and logs.
func (f *Feed) Name() string {
	return f.name
}

// Fetch returns up to limit headlines in feed order. The report kind is
// ignored for fixed feeds.
func (f *Feed) Fetch(ctx context.Context, _ models.ReportKind, limit int) []models.Headline {
	return fetchHeadlines(ctx, f.parser, f.name, f.url, limit, f.logger)
}

// SearchFeed is a keyword-search RSS feed (Google News). The keyword
// query is a fixed mapping from report kind, not user input.
type SearchFeed struct {
	name    string
	baseURL string
	queries map[models.ReportKind]string
	parser  *gofeed.Parser
	logger  arbor.ILogger
}

var _ interfaces.NewsFeed = (*SearchFeed)(nil)

// NewSearchFeed creates a keyword-search news feed. The query map must
// cover every report kind the aggregator will request.
func NewSearchFeed(name, baseURL string, queries map[models.ReportKind]string, timeout time.Duration, logger arbor.ILogger) *SearchFeed {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	return &SearchFeed{
		name:    name,
		baseURL: baseURL,
		queries: queries,
		parser:  parser,
		logger:  logger,
	}
}

// Name identifies the provider in headline source tags and logs.
func (f *SearchFeed) Name() string {
	return f.name
}

// Fetch returns up to limit headlines for the query mapped to kind.
func (f *SearchFeed) Fetch(ctx context.Context, kind models.ReportKind, limit int) []models.Headline {
	query, ok := f.queries[kind]
	if !ok {
		if f.logger != nil {
			f.logger.Warn().Str("feed", f.name).Str("kind", string(kind)).Msg("no search query mapped for report kind")
		}
		return nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("hl", "ko")
	params.Set("gl", "KR")
	params.Set("ceid", "KR:ko")

	return fetchHeadlines(ctx, f.parser, f.name, f.baseURL+"?"+params.Encode(), limit, f.logger)
}

// fetchHeadlines parses an RSS endpoint and maps its items to
// headlines, converting any failure to an empty result.
func fetchHeadlines(ctx context.Context, parser *gofeed.Parser, source, feedURL string, limit int, logger arbor.ILogger) []models.Headline {
	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		if logger != nil {
			logger.Warn().Err(err).Str("feed", source).Msg("RSS fetch failed, returning no headlines")
		}
		return nil
	}

	items := feed.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	headlines := make([]models.Headline, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		headlines = append(headlines, models.Headline{
			Title:     item.Title,
			URL:       item.Link,
			Source:    source,
			Published: item.Published,
		})
	}

	if logger != nil {
		logger.Debug().Str("feed", source).Int("count", len(headlines)).Msg("RSS feed fetched")
	}
	return headlines
}
