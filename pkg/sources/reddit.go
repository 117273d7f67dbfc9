package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	redditOrigin    = "https://reddit.com"
	redditUserAgent = "WeekdayDowntime/1.0"
)

// RedditClient pulls hot listings from a set of subreddits. The editorial
// variant drops stickied and sub-100-score posts; the viral variant covers a
// broader, noisier sub list with a 5x score bar and additionally drops NSFW
// posts.
type RedditClient struct {
	baseURL    string
	subreddits []string
	minScore   int
	viral      bool
	httpClient *http.Client
	logger     *slog.Logger
}

func NewRedditClient(subreddits []string, minScore int, logger *slog.Logger) *RedditClient {
	return &RedditClient{
		baseURL:    "https://www.reddit.com",
		subreddits: subreddits,
		minScore:   minScore,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

func NewViralRedditClient(subreddits []string, minScore int, logger *slog.Logger) *RedditClient {
	c := NewRedditClient(subreddits, minScore, logger)
	c.viral = true
	return c
}

func (c *RedditClient) Name() string {
	if c.viral {
		return "Reddit Viral"
	}
	return "Reddit"
}

func (c *RedditClient) Fetch(ctx context.Context, limit int) []Candidate {
	var candidates []Candidate

	for _, sub := range c.subreddits {
		posts, err := c.fetchListing(ctx, sub, limit)
		if err != nil {
			c.logger.Warn("subreddit fetch failed", "subreddit", sub, "error", err)
			continue
		}

		count := 0
		for _, post := range posts {
			if !c.admit(post) {
				continue
			}
			candidates = append(candidates, c.toCandidate(sub, post))
			count++
		}

		c.logger.Info("subreddit fetched", "subreddit", sub, "count", count)
	}

	return candidates
}

func (c *RedditClient) fetchListing(ctx context.Context, sub string, limit int) ([]redditPost, error) {
	url := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", c.baseURL, sub, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("reddit request: %w", err)
	}
	req.Header.Set("User-Agent", redditUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reddit fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit status %s", resp.Status)
	}

	var raw redditListing
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("reddit decode: %w", err)
	}

	posts := make([]redditPost, 0, len(raw.Data.Children))
	for _, child := range raw.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}

func (c *RedditClient) admit(post redditPost) bool {
	if post.Stickied || post.Title == "" {
		return false
	}
	if post.Score < c.minScore {
		return false
	}
	if c.viral && post.Over18 {
		return false
	}
	return true
}

func (c *RedditClient) toCandidate(sub string, post redditPost) Candidate {
	return Candidate{
		Source:       SourceSocial,
		OriginTag:    "r/" + sub,
		Title:        post.Title,
		URL:          redditOrigin + post.Permalink,
		Engagement:   &Engagement{Score: post.Score, Comments: post.NumComments},
		CategoryHint: c.categoryHint(sub),
	}
}

func (c *RedditClient) categoryHint(sub string) string {
	if c.viral {
		return "Culture"
	}
	if sub == "politics" {
		return "Political"
	}
	return "Social"
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title       string `json:"title"`
	Permalink   string `json:"permalink"`
	Score       int    `json:"score"`
	NumComments int    `json:"num_comments"`
	Stickied    bool   `json:"stickied"`
	Over18      bool   `json:"over_18"`
}
