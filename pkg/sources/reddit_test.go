package sources

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func redditListingBody(posts []map[string]any) []byte {
	children := make([]map[string]any, 0, len(posts))
	for _, p := range posts {
		children = append(children, map[string]any{"data": p})
	}
	body, _ := json.Marshal(map[string]any{
		"data": map[string]any{"children": children},
	})
	return body
}

func newTestRedditClient(srvURL string, subs []string, minScore int, viral bool) *RedditClient {
	c := NewRedditClient(subs, minScore, slog.Default())
	c.viral = viral
	c.baseURL = srvURL
	return c
}

func TestRedditFetchAppliesAdmissionGate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(redditListingBody([]map[string]any{
			{"title": "Senator caught contradicting own bill", "permalink": "/r/politics/1", "score": 5400, "num_comments": 320},
			{"title": "Weekly discussion thread", "permalink": "/r/politics/2", "score": 9000, "num_comments": 100, "stickied": true},
			{"title": "Minor local story", "permalink": "/r/politics/3", "score": 42, "num_comments": 5},
			{"title": "", "permalink": "/r/politics/4", "score": 800, "num_comments": 60},
		}))
	}))
	defer srv.Close()

	client := newTestRedditClient(srv.URL, []string{"politics"}, 100, false)
	got := client.Fetch(context.Background(), 10)

	assert.Equal(t, 1, len(got))
	a := got[0]
	assert.Equal(t, SourceSocial, a.Source)
	assert.Equal(t, "r/politics", a.OriginTag)
	assert.Equal(t, "Senator caught contradicting own bill", a.Title)
	assert.Equal(t, "https://reddit.com/r/politics/1", a.URL)
	assert.Equal(t, 5400, a.Engagement.Score)
	assert.Equal(t, 320, a.Engagement.Comments)
	assert.Equal(t, "Political", a.CategoryHint)
}

func TestRedditViralGate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(redditListingBody([]map[string]any{
			{"title": "Absolutely unhinged city council meeting", "permalink": "/r/facepalm/1", "score": 12000, "num_comments": 900},
			{"title": "NSFW post", "permalink": "/r/facepalm/2", "score": 25000, "num_comments": 2000, "over_18": true},
			{"title": "Mildly popular post", "permalink": "/r/facepalm/3", "score": 450, "num_comments": 80},
		}))
	}))
	defer srv.Close()

	client := newTestRedditClient(srv.URL, []string{"facepalm"}, 500, true)
	got := client.Fetch(context.Background(), 5)

	assert.Equal(t, 1, len(got))
	assert.Equal(t, "Absolutely unhinged city council meeting", got[0].Title)
	assert.Equal(t, "Culture", got[0].CategoryHint)
}

func TestRedditFetchIsolatesFailingSubreddit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/r/news/") {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(redditListingBody([]map[string]any{
			{"title": "World story", "permalink": "/r/worldnews/1", "score": 900, "num_comments": 40},
		}))
	}))
	defer srv.Close()

	client := newTestRedditClient(srv.URL, []string{"news", "worldnews"}, 100, false)
	got := client.Fetch(context.Background(), 10)

	// The failing sub contributes zero candidates without blocking the rest.
	assert.Equal(t, 1, len(got))
	assert.Equal(t, "r/worldnews", got[0].OriginTag)
}

func TestRedditFetchSendsUserAgentAndLimit(t *testing.T) {
	var gotUA, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write(redditListingBody(nil))
	}))
	defer srv.Close()

	client := newTestRedditClient(srv.URL, []string{"politics"}, 100, false)
	client.Fetch(context.Background(), 10)

	assert.Equal(t, "WeekdayDowntime/1.0", gotUA)
	assert.Equal(t, "limit=10", gotQuery)
}

func TestEngagement(t *testing.T) {
	e := &Engagement{Score: 1200, Comments: 300}

	assert.Equal(t, 1500, e.Total())
	assert.Equal(t, "1200 upvotes, 300 comments", e.String())

	var none *Engagement
	assert.Equal(t, 0, none.Total())
	assert.Equal(t, "", none.String())
}

func TestRedditFetchTimeoutReturnsGathered(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			time.Sleep(50 * time.Millisecond)
			http.Error(w, "slow", http.StatusGatewayTimeout)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(redditListingBody([]map[string]any{
			{"title": "First sub story", "permalink": "/r/politics/1", "score": 300, "num_comments": 10},
		}))
	}))
	defer srv.Close()

	client := newTestRedditClient(srv.URL, []string{"politics", "news"}, 100, false)
	got := client.Fetch(context.Background(), 10)

	assert.Equal(t, 1, len(got))
}
