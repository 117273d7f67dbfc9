package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/jmgreenberg-gethub/week-down-scanner/internal/config"
	"github.com/jmgreenberg-gethub/week-down-scanner/internal/pipeline"
	"github.com/jmgreenberg-gethub/week-down-scanner/internal/store"
	"github.com/jmgreenberg-gethub/week-down-scanner/pkg/llm"
	"github.com/jmgreenberg-gethub/week-down-scanner/pkg/sources"
)

func main() {
	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	logger := slog.Default()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	feeds := []sources.Feed{
		{
			Client: sources.NewRedditClient(cfg.Sources.Subreddits, cfg.Sources.MinScore, logger.With("component", "reddit")),
			Limit:  cfg.Sources.PerSubreddit,
		},
		{
			Client: sources.NewGoogleNewsClient(feedTopics(cfg.Sources.FeedTopics), cfg.Sources.SummaryMaxChars, logger.With("component", "googlenews")),
			Limit:  cfg.Sources.PerFeedTopic,
		},
	}
	viral := sources.Feed{
		Client: sources.NewViralRedditClient(cfg.Sources.ViralSubreddits, cfg.Sources.ViralMinScore, logger.With("component", "reddit-viral")),
		Limit:  cfg.Sources.PerViralSub,
	}
	collector := sources.NewCollector(feeds, viral, cfg.Sources.ViralKeep, logger.With("component", "collector"))

	var ranker llm.Ranker
	switch cfg.Ranker.Provider {
	case config.ProviderOpenAI:
		ranker = llm.NewOpenAIRanker(cfg.Ranker.OpenAIKey, cfg.Ranker.Model, logger.With("component", "ranker"))
	default:
		ranker = llm.NewAnthropicRanker(cfg.Ranker.APIKey, cfg.Ranker.Model, cfg.Ranker.MaxTokens, cfg.Ranker.WebSearch, logger.With("component", "ranker"))
	}

	persister := store.NewPersister(
		store.NewClient(cfg.Airtable.Token, cfg.Airtable.BaseID, cfg.Airtable.Table),
		logger.With("component", "store"),
	)

	pipe := pipeline.New(pipeline.Deps{
		Collector:   collector,
		Ranker:      ranker,
		Persister:   persister,
		WebSearch:   cfg.Ranker.WebSearch,
		SearchCount: cfg.Ranker.WebSearchCount,
		Logger:      logger.With("component", "pipeline"),
	})

	stats, err := pipe.Run(context.Background())
	if err != nil {
		logger.Error("scan failed", "error", err)
		os.Exit(1)
	}

	logger.Info("scan finished",
		"persisted", stats.Persisted,
		"attempted", stats.Attempted,
		"failed", stats.Attempted-stats.Persisted,
	)
}

func feedTopics(topics []config.FeedTopic) []sources.Topic {
	out := make([]sources.Topic, 0, len(topics))
	for _, t := range topics {
		out = append(out, sources.Topic{Name: t.Name, Query: t.Query})
	}
	return out
}
