package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// Topic is one Google News search feed: Name tags candidates, Query is the
// search term sent upstream.
type Topic struct {
	Name  string
	Query string
}

// GoogleNewsClient reads per-topic Google News RSS search feeds restricted to
// the last 24 hours. There is no popularity gate; each topic is capped at the
// per-call limit and summaries are truncated after HTML markup is stripped.
type GoogleNewsClient struct {
	baseURL    string
	topics     []Topic
	summaryCap int
	parser     *gofeed.Parser
	logger     *slog.Logger
}

func NewGoogleNewsClient(topics []Topic, summaryCap int, logger *slog.Logger) *GoogleNewsClient {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 10 * time.Second}
	return &GoogleNewsClient{
		baseURL:    "https://news.google.com/rss/search",
		topics:     topics,
		summaryCap: summaryCap,
		parser:     parser,
		logger:     logger,
	}
}

func (c *GoogleNewsClient) Name() string {
	return "Google News"
}

func (c *GoogleNewsClient) Fetch(ctx context.Context, limit int) []Candidate {
	var candidates []Candidate

	for _, topic := range c.topics {
		feed, err := c.parser.ParseURLWithContext(c.feedURL(topic), ctx)
		if err != nil {
			c.logger.Warn("feed fetch failed", "topic", topic.Name, "error", err)
			continue
		}

		count := 0
		for _, item := range feed.Items {
			if count >= limit {
				break
			}
			if item.Title == "" {
				continue
			}

			candidates = append(candidates, Candidate{
				Source:       SourceNews,
				OriginTag:    topic.Name,
				Title:        item.Title,
				URL:          item.Link,
				PublishedAt:  item.Published,
				Summary:      truncate(stripHTML(item.Description), c.summaryCap),
				CategoryHint: capitalize(topic.Name),
			})
			count++
		}

		c.logger.Info("feed fetched", "topic", topic.Name, "count", count)
	}

	return candidates
}

func (c *GoogleNewsClient) feedURL(topic Topic) string {
	query := url.QueryEscape(topic.Query + " when:24h")
	return fmt.Sprintf("%s?q=%s&hl=en-US&gl=US&ceid=US:en", c.baseURL, query)
}

// stripHTML flattens feed summaries that arrive as HTML fragments.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
