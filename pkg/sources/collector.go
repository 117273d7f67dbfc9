package sources

import (
	"context"
	"log/slog"
	"sort"
)

// Feed pairs a source client with the per-call item cap it is fetched with.
type Feed struct {
	Client SourceClient
	Limit  int
}

// Collector runs the configured source clients sequentially and concatenates
// their output into one candidate pool. Each client isolates its own
// failures, so one bad source never blocks the others.
type Collector struct {
	feeds     []Feed
	viral     Feed
	viralKeep int
	logger    *slog.Logger
}

func NewCollector(feeds []Feed, viral Feed, viralKeep int, logger *slog.Logger) *Collector {
	return &Collector{feeds: feeds, viral: viral, viralKeep: viralKeep, logger: logger}
}

// Collect returns the candidate pool and the pure-virality picks. The viral
// pass ranks its gated items by combined engagement, descending, keeping the
// configured top count; ties keep encounter order.
func (c *Collector) Collect(ctx context.Context) (pool, promoted []Candidate) {
	for _, feed := range c.feeds {
		items := feed.Client.Fetch(ctx, feed.Limit)
		c.logger.Info("source complete", "source", feed.Client.Name(), "count", len(items))
		pool = append(pool, items...)
	}

	if c.viral.Client != nil {
		promoted = c.viral.Client.Fetch(ctx, c.viral.Limit)
		sort.SliceStable(promoted, func(i, j int) bool {
			return promoted[i].Engagement.Total() > promoted[j].Engagement.Total()
		})
		if len(promoted) > c.viralKeep {
			promoted = promoted[:c.viralKeep]
		}
		c.logger.Info("viral watch selected", "count", len(promoted))
	}

	return pool, promoted
}
