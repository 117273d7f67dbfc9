package sources

import (
	"context"
	"fmt"
	"unicode/utf8"
)

const (
	SourceSocial = "social"
	SourceNews   = "syndicated-news"
)

// Candidate is one unranked item pulled from a single source.
type Candidate struct {
	Source       string
	OriginTag    string
	Title        string
	URL          string
	PublishedAt  string
	Summary      string
	Engagement   *Engagement
	CategoryHint string
}

// Engagement carries the source-specific popularity numbers. For Reddit the
// primary metric is upvotes and the secondary is comment count.
type Engagement struct {
	Score    int
	Comments int
}

func (e *Engagement) Total() int {
	if e == nil {
		return 0
	}
	return e.Score + e.Comments
}

func (e *Engagement) String() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%d upvotes, %d comments", e.Score, e.Comments)
}

// SourceClient fetches candidates from one upstream listing source. A client
// applies its own admission gate and never returns an error: fetch or parse
// failures are logged and yield whatever was gathered before the failure.
type SourceClient interface {
	Fetch(ctx context.Context, limit int) []Candidate
	Name() string
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
