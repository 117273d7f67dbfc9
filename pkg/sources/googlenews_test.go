package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
)

func rssFeed(items []string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Search results</title>%s</channel></rss>`, strings.Join(items, ""))
}

func rssItem(title, link, published, description string) string {
	return fmt.Sprintf(`<item><title>%s</title><link>%s</link><pubDate>%s</pubDate><description>%s</description></item>`,
		title, link, published, description)
}

func newTestGoogleNewsClient(srvURL string, topics []Topic, summaryCap int) *GoogleNewsClient {
	c := NewGoogleNewsClient(topics, summaryCap, slog.Default())
	c.baseURL = srvURL
	return c
}

func TestGoogleNewsFetchMapsEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssFeed([]string{
			rssItem("Congress passes budget at 3am", "https://example.com/budget", "Thu, 27 Aug 2026 23:10:00 GMT",
				`&lt;a href="https://example.com/budget"&gt;Congress passes budget&lt;/a&gt; after marathon session`),
		}))
	}))
	defer srv.Close()

	client := newTestGoogleNewsClient(srv.URL, []Topic{{Name: "politics", Query: "politics"}}, 200)
	got := client.Fetch(context.Background(), 8)

	assert.Equal(t, 1, len(got))
	a := got[0]
	assert.Equal(t, SourceNews, a.Source)
	assert.Equal(t, "politics", a.OriginTag)
	assert.Equal(t, "Congress passes budget at 3am", a.Title)
	assert.Equal(t, "https://example.com/budget", a.URL)
	assert.Equal(t, "Thu, 27 Aug 2026 23:10:00 GMT", a.PublishedAt)
	assert.Equal(t, "Politics", a.CategoryHint)
	// HTML markup stripped from the summary.
	assert.Equal(t, false, strings.Contains(a.Summary, "<"))
	assert.Equal(t, true, strings.Contains(a.Summary, "Congress passes budget"))
}

func TestGoogleNewsFetchCapsPerTopic(t *testing.T) {
	items := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		items = append(items, rssItem(fmt.Sprintf("Story %d", i+1), fmt.Sprintf("https://example.com/%d", i+1), "", "plain summary"))
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssFeed(items))
	}))
	defer srv.Close()

	client := newTestGoogleNewsClient(srv.URL, []Topic{{Name: "economy", Query: "economy"}}, 200)
	got := client.Fetch(context.Background(), 8)

	assert.Equal(t, 8, len(got))
}

func TestGoogleNewsFetchTruncatesSummary(t *testing.T) {
	long := strings.Repeat("a", 400)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssFeed([]string{rssItem("Long story", "https://example.com/long", "", long)}))
	}))
	defer srv.Close()

	client := newTestGoogleNewsClient(srv.URL, []Topic{{Name: "tech", Query: "technology policy"}}, 200)
	got := client.Fetch(context.Background(), 8)

	assert.Equal(t, 1, len(got))
	assert.Equal(t, 200, len(got[0].Summary))
}

func TestGoogleNewsFetchIsolatesFailingTopic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.RawQuery, "economy") {
			http.Error(w, "feed unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssFeed([]string{rssItem("Politics story", "https://example.com/p", "", "summary")}))
	}))
	defer srv.Close()

	client := newTestGoogleNewsClient(srv.URL, []Topic{
		{Name: "economy", Query: "economy"},
		{Name: "politics", Query: "politics"},
	}, 200)
	got := client.Fetch(context.Background(), 8)

	assert.Equal(t, 1, len(got))
	assert.Equal(t, "politics", got[0].OriginTag)
}

func TestGoogleNewsFeedURL(t *testing.T) {
	client := newTestGoogleNewsClient("https://news.google.com/rss/search", []Topic{}, 200)
	got := client.feedURL(Topic{Name: "tech", Query: "technology policy"})

	assert.Equal(t, "https://news.google.com/rss/search?q=technology+policy+when%3A24h&hl=en-US&gl=US&ceid=US:en", got)
}

func TestTruncateKeepsRuneBoundary(t *testing.T) {
	// "é" is two bytes; a cap landing mid-rune backs up to the rune start.
	assert.Equal(t, "a", truncate("aé", 2))
	assert.Equal(t, "aé", truncate("aé", 3))
	assert.Equal(t, "日本", truncate("日本語", 8))
	assert.Equal(t, "ascii", truncate("ascii", 10))
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "plain text", stripHTML("plain text"))
	assert.Equal(t, "linked headline rest", stripHTML(`<a href="https://x.test">linked headline</a> rest`))
}
