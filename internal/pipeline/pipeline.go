package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jmgreenberg-gethub/week-down-scanner/pkg/llm"
	"github.com/jmgreenberg-gethub/week-down-scanner/pkg/sources"
)

// Collector gathers the candidate pool and the pure-virality picks.
type Collector interface {
	Collect(ctx context.Context) (pool, promoted []sources.Candidate)
}

// Persister writes the run's stories to the record store, best-effort per
// item, and reports succeeded out of attempted.
type Persister interface {
	PersistAll(ctx context.Context, stories []llm.RankedStory, promoted []sources.Candidate) (succeeded, attempted int)
}

// RunStats aggregates the per-stage counts of one scan.
type RunStats struct {
	Candidates int
	Promoted   int
	Ranked     int
	Persisted  int
	Attempted  int
}

// Deps wires the pipeline stages together.
type Deps struct {
	Collector   Collector
	Ranker      llm.Ranker
	Persister   Persister
	WebSearch   bool
	SearchCount int
	Logger      *slog.Logger
}

const defaultSearchCount = 5

// Pipeline sequences collect -> prompt -> rank -> persist. Failures inside a
// source or a single upsert are absorbed by those stages; anything that
// escapes here is fatal to the run.
type Pipeline struct {
	collector   Collector
	ranker      llm.Ranker
	persister   Persister
	webSearch   bool
	searchCount int
	logger      *slog.Logger
}

func New(deps Deps) *Pipeline {
	count := deps.SearchCount
	if count <= 0 {
		count = defaultSearchCount
	}
	return &Pipeline{
		collector:   deps.Collector,
		ranker:      deps.Ranker,
		persister:   deps.Persister,
		webSearch:   deps.WebSearch,
		searchCount: count,
		logger:      deps.Logger,
	}
}

// Run executes one batch scan.
func (p *Pipeline) Run(ctx context.Context) (RunStats, error) {
	log := p.logger.With("run_id", uuid.NewString())
	var stats RunStats

	var prompt string
	var promoted []sources.Candidate

	if p.webSearch {
		// Self-sourced variant: the model searches the web itself.
		prompt = llm.BuildWebSearchPrompt(time.Now(), p.searchCount)
		log.Info("using web search mode, skipping source collection", "stories", p.searchCount)
	} else {
		pool, picks := p.collector.Collect(ctx)
		promoted = picks
		stats.Candidates = len(pool)
		stats.Promoted = len(promoted)
		log.Info("collection complete", "candidates", len(pool), "promoted", len(promoted))

		social, news := splitBySource(pool)
		prompt = llm.BuildRankingPrompt(llm.PromptInput{
			Social:   social,
			News:     news,
			Promoted: promoted,
			Today:    time.Now(),
		})
	}

	stories, err := p.ranker.Rank(ctx, prompt)
	if err != nil {
		return stats, fmt.Errorf("rank stories: %w", err)
	}
	stats.Ranked = len(stories)
	log.Info("ranking complete", "stories", len(stories))

	stats.Persisted, stats.Attempted = p.persister.PersistAll(ctx, stories, promoted)
	log.Info("scan complete",
		"candidates", stats.Candidates,
		"ranked", stats.Ranked,
		"promoted", stats.Promoted,
		"persisted", stats.Persisted,
		"attempted", stats.Attempted,
	)

	return stats, nil
}

func splitBySource(pool []sources.Candidate) (social, news []sources.Candidate) {
	for _, c := range pool {
		if c.Source == sources.SourceSocial {
			social = append(social, c)
		} else {
			news = append(news, c)
		}
	}
	return social, news
}
