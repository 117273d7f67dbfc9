package llm

import "context"

// RankedStory is the model's verdict on one story. Field names match the
// output schema the prompt asks for; items with missing fields decode to zero
// values and are defaulted at persistence time.
type RankedStory struct {
	Rank           int    `json:"rank"`
	Headline       string `json:"headline"`
	Summary        string `json:"summary"`
	ViralScore     int    `json:"viral_score"`
	TrendingReason string `json:"trending_reason"`
	ComedyAngle    string `json:"comedy_angle"`
	Category       string `json:"category"`
	SourceURL      string `json:"source_url"`
	OriginalSource string `json:"original_source"`
}

// Ranker sends a built prompt to a reasoning service and returns the ranked
// stories extracted from its reply.
type Ranker interface {
	Rank(ctx context.Context, prompt string) ([]RankedStory, error)
}
