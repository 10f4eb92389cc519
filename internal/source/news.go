package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	"github.com/quantav/stockscope/internal/infra"
	"github.com/quantav/stockscope/pkg/models"
)

const newsFeedURL = "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US"

// maxHeadlines caps how many feed items one request keeps.
const maxHeadlines = 10

// NewsFeed fetches recent headlines for a symbol from an RSS feed. It serves
// only the recent-developments section, as the fallback behind the scraped
// headlines.
type NewsFeed struct {
	feedURL string
	parser  *gofeed.Parser
	cache   *infra.Cache
	limiter *infra.RateLimiter
	log     zerolog.Logger
}

// NewNewsFeed creates the RSS headline source.
func NewNewsFeed(cacheTTL time.Duration, log zerolog.Logger) *NewsFeed {
	return &NewsFeed{
		feedURL: newsFeedURL,
		parser:  gofeed.NewParser(),
		cache:   infra.NewCache(cacheTTL),
		limiter: infra.NewRateLimiter(2, time.Second),
		log:     log.With().Str("source", "newsfeed").Logger(),
	}
}

// NewNewsFeedForURL creates the source against a custom feed URL template
// (must contain one %s for the symbol). Used by tests.
func NewNewsFeedForURL(tmpl string, log zerolog.Logger) *NewsFeed {
	n := NewNewsFeed(time.Minute, log)
	n.feedURL = tmpl
	return n
}

func (n *NewsFeed) Name() string { return "rss" }

func (n *NewsFeed) Sections() []models.Section {
	return []models.Section{models.SectionNews}
}

// Fetch returns recent headlines for the symbol.
func (n *NewsFeed) Fetch(ctx context.Context, symbol string, section models.Section) (models.SectionData, error) {
	if section != models.SectionNews {
		return models.SectionData{}, fmt.Errorf("rss: section %s not served", section)
	}

	cacheKey := "rss:" + symbol
	if cached, ok := n.cache.Get(cacheKey); ok {
		return models.SectionData{Headlines: cached.([]string)}, nil
	}

	if err := n.limiter.Wait(ctx); err != nil {
		return models.SectionData{}, err
	}

	feed, err := n.parser.ParseURLWithContext(fmt.Sprintf(n.feedURL, symbol), ctx)
	if err != nil {
		return models.SectionData{}, fmt.Errorf("rss %s: %w", symbol, err)
	}

	headlines := make([]string, 0, maxHeadlines)
	for _, item := range feed.Items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		headlines = append(headlines, title)
		if len(headlines) >= maxHeadlines {
			break
		}
	}

	n.cache.Set(cacheKey, headlines)
	return models.SectionData{Headlines: headlines}, nil
}
