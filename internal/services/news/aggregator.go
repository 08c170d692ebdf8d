// Package news collects headlines from the configured RSS source feeds.
package news

import (
	"context"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/twokomi/oneclick-reports-backend/internal/common"
	"github.com/twokomi/oneclick-reports-backend/internal/feeds/rss"
	"github.com/twokomi/oneclick-reports-backend/internal/interfaces"
	"github.com/twokomi/oneclick-reports-backend/internal/models"
)

// searchQueries maps each report kind to a fixed Google News keyword
// query. Daily tracks market indices, weekly tracks trade and industry,
// monthly tracks the macro outlook.
var searchQueries = map[models.ReportKind]string{
	models.ReportKindDaily:   "KOSPI OR KOSDAQ OR 한국경제 OR 증시",
	models.ReportKindWeekly:  "수출 OR 무역 OR 산업동향",
	models.ReportKindMonthly: "경제전망 OR 금리 OR 인플레이션",
}

// Aggregator fans out to the configured news feeds and merges their
// headlines: up to perFeedLimit items from each feed in feed order,
// concatenated in provider-priority order, truncated to maxHeadlines.
type Aggregator struct {
	feeds        []interfaces.NewsFeed // priority order
	perFeedLimit int
	maxHeadlines int
	logger       arbor.ILogger
}

// NewAggregator creates an aggregator over the standard feed set:
// general wire, business wire, then keyword search.
func NewAggregator(config *common.NewsConfig, logger arbor.ILogger) *Aggregator {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	feeds := []interfaces.NewsFeed{
		rss.NewFeed("Yonhap News", config.GeneralFeedURL, timeout, logger),
		rss.NewFeed("Korea Economic Daily", config.BusinessFeedURL, timeout, logger),
		rss.NewSearchFeed("Google News", config.SearchBaseURL, searchQueries, timeout, logger),
	}
	return NewAggregatorWithFeeds(feeds, config.PerFeedLimit, config.MaxHeadlines, logger)
}

// NewAggregatorWithFeeds creates an aggregator over explicit feeds,
// which tests use to inject fakes.
func NewAggregatorWithFeeds(feeds []interfaces.NewsFeed, perFeedLimit, maxHeadlines int, logger arbor.ILogger) *Aggregator {
	return &Aggregator{
		feeds:        feeds,
		perFeedLimit: perFeedLimit,
		maxHeadlines: maxHeadlines,
		logger:       logger,
	}
}

// Collect returns the merged headline list for a report kind. The
// result is never nil-for-error: a feed that fails contributes zero
// items, and all feeds failing yields an empty list, which callers
// treat as a valid state.
func (a *Aggregator) Collect(ctx context.Context, kind models.ReportKind) []models.Headline {
	// Feeds have no ordering dependency on each other, so fetch them
	// concurrently into indexed slots to preserve priority order.
	perFeed := make([][]models.Headline, len(a.feeds))
	var wg sync.WaitGroup
	for i, feed := range a.feeds {
		wg.Add(1)
		go func(i int, feed interfaces.NewsFeed) {
			defer wg.Done()
			perFeed[i] = feed.Fetch(ctx, kind, a.perFeedLimit)
		}(i, feed)
	}
	wg.Wait()

	headlines := make([]models.Headline, 0, a.maxHeadlines)
	for _, batch := range perFeed {
		headlines = append(headlines, batch...)
	}
	if len(headlines) > a.maxHeadlines {
		headlines = headlines[:a.maxHeadlines]
	}

	if len(headlines) == 0 && a.logger != nil {
		a.logger.Warn().Str("kind", string(kind)).Msg("all news feeds returned no items")
	}
	return headlines
}
