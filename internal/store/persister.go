package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmgreenberg-gethub/week-down-scanner/pkg/llm"
	"github.com/jmgreenberg-gethub/week-down-scanner/pkg/sources"
)

// Store column limits and defaults.
const (
	maxHeadlineChars = 255
	maxTextChars     = 5000

	defaultViralScore = 50
	viralWatchScore   = 100
	defaultCategory   = "Other"

	statusToReview   = "To Review"
	statusViralWatch = "Viral Watch"
)

// Persister maps ranked stories onto the record-store schema and writes them
// one at a time. A failed upsert is logged and counted, never fatal.
type Persister struct {
	client *Client
	logger *slog.Logger
	now    func() time.Time
}

func NewPersister(client *Client, logger *slog.Logger) *Persister {
	return &Persister{client: client, logger: logger, now: time.Now}
}

// PersistAll writes the ranked set in order, then the promoted picks with
// ranks continuing after the ranked set's maximum rank. Returns how many
// upserts succeeded out of how many items were attempted.
func (p *Persister) PersistAll(ctx context.Context, stories []llm.RankedStory, promoted []sources.Candidate) (succeeded, attempted int) {
	today := p.now().Format("2006-01-02")

	maxRank := 0
	for _, story := range stories {
		attempted++
		if story.Rank > maxRank {
			maxRank = story.Rank
		}

		if strings.TrimSpace(story.Headline) == "" {
			p.logger.Warn("skipping story without headline", "rank", story.Rank)
			continue
		}

		fields := p.storyFields(story, today)
		if err := p.client.CreateRecord(ctx, fields); err != nil {
			p.logger.Error("record upsert failed", "rank", story.Rank, "error", err)
			continue
		}
		p.logger.Info("record added", "rank", story.Rank, "headline", truncate(story.Headline, 50))
		succeeded++
	}

	for i, pick := range promoted {
		attempted++
		rank := maxRank + i + 1

		fields := p.viralFields(pick, rank, today)
		if err := p.client.CreateRecord(ctx, fields); err != nil {
			p.logger.Error("viral record upsert failed", "rank", rank, "error", err)
			continue
		}
		p.logger.Info("viral record added", "rank", rank, "title", truncate(pick.Title, 50))
		succeeded++
	}

	return succeeded, attempted
}

func (p *Persister) storyFields(story llm.RankedStory, today string) map[string]any {
	score := story.ViralScore
	if score == 0 {
		score = defaultViralScore
	}
	category := story.Category
	if category == "" {
		category = defaultCategory
	}
	origin := story.OriginalSource
	if origin == "" {
		origin = "Unknown"
	}

	fields := map[string]any{
		"Date":         today,
		"Rank":         story.Rank,
		"Headline":     truncate(story.Headline, maxHeadlineChars),
		"Summary":      truncate(story.Summary, maxTextChars),
		"Viral Score":  score,
		"Why Trending": truncate(story.TrendingReason, maxTextChars),
		"Comedy Angle": truncate(story.ComedyAngle, maxTextChars),
		"Category":     category,
		"Source 1":     story.SourceURL,
		"Status":       statusToReview,
		"Notes":        "Source: " + origin,
	}
	dropEmpty(fields)
	return fields
}

func (p *Persister) viralFields(pick sources.Candidate, rank int, today string) map[string]any {
	category := pick.CategoryHint
	if category == "" {
		category = "Culture"
	}

	fields := map[string]any{
		"Date":         today,
		"Rank":         rank,
		"Headline":     "VIRAL: " + truncate(pick.Title, 200),
		"Summary":      fmt.Sprintf("Trending on %s with %s. Pure virality pick - not editorial selection.", pick.OriginTag, pick.Engagement),
		"Viral Score":  viralWatchScore,
		"Why Trending": fmt.Sprintf("Top post on %s - massive social media engagement", pick.OriginTag),
		"Comedy Angle": "Use this to stay culturally relevant or find unexpected angles",
		"Category":     category,
		"Source 1":     pick.URL,
		"Status":       statusViralWatch,
		"Notes":        "Source: Reddit Viral Watch | " + pick.OriginTag,
	}
	dropEmpty(fields)
	return fields
}

// dropEmpty strips columns whose resolved value is an empty string so the
// store never receives blank cells.
func dropEmpty(fields map[string]any) {
	for k, v := range fields {
		if s, ok := v.(string); ok && s == "" {
			delete(fields, k)
		}
	}
}

// truncate cuts s to at most max bytes without splitting a rune, so the
// store never receives an invalid UTF-8 tail.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
