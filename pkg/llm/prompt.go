package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/jmgreenberg-gethub/week-down-scanner/pkg/sources"
)

// EditorialCount is the fixed number of ranked stories requested per run.
const EditorialCount = 13

// Per-group caps keep the request bounded no matter how large the pool is.
const (
	maxSocialItems = 15
	maxNewsItems   = 30
)

const jsonOnlySystemPrompt = `You are a JSON API. Return only valid JSON arrays. Never include explanatory text, markdown formatting, or preamble. Your entire response must be parseable JSON starting with [ or {.`

// PromptInput is the candidate pool split by source group, plus the promoted
// picks that bypass ranking.
type PromptInput struct {
	Social   []sources.Candidate
	News     []sources.Candidate
	Promoted []sources.Candidate
	Today    time.Time
}

// BuildRankingPrompt serializes the pool into one bounded request document:
// enumerated candidate groups, the already-selected viral block, the editorial
// policy, and the exact output schema.
func BuildRankingPrompt(in PromptInput) string {
	var sb strings.Builder

	sb.WriteString("You are a content curator for a political satire show (Daily Show/Last Week Tonight style) targeting 18-35 year olds.\n\n")
	fmt.Fprintf(&sb, "Below are trending Reddit posts and Google News articles from the last 24 hours (today is %s). Analyze ALL of them and return the TOP %d stories ranked by comedy potential and editorial fit.\n\n",
		in.Today.Format("January 2, 2006"), EditorialCount)

	sb.WriteString("REDDIT TRENDING POSTS:\n")
	for i, c := range capGroup(in.Social, maxSocialItems) {
		fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, c.OriginTag, c.Title)
		if c.Engagement != nil {
			fmt.Fprintf(&sb, "   Engagement: %s\n", c.Engagement)
		}
		fmt.Fprintf(&sb, "   URL: %s\n\n", c.URL)
	}

	sb.WriteString("GOOGLE NEWS ARTICLES:\n")
	for i, c := range capGroup(in.News, maxNewsItems) {
		fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, c.OriginTag, c.Title)
		if c.Summary != "" {
			fmt.Fprintf(&sb, "   Summary: %s\n", c.Summary)
		}
		fmt.Fprintf(&sb, "   URL: %s\n\n", c.URL)
	}

	if len(in.Promoted) > 0 {
		fmt.Fprintf(&sb, "\n--- VIRAL WATCH (These %d are already selected for pure virality) ---\n", len(in.Promoted))
		for i, c := range in.Promoted {
			fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, c.OriginTag, c.Title)
			if c.Engagement != nil {
				fmt.Fprintf(&sb, "   %s\n", c.Engagement)
			}
			fmt.Fprintf(&sb, "   URL: %s\n\n", c.URL)
		}
		fmt.Fprintf(&sb, "NOTE: The %d viral watch posts listed above are ALREADY SELECTED for pure engagement. You do NOT need to rank them. Just focus on selecting the best %d editorial stories from the Reddit/Google News lists above.\n\n",
			len(in.Promoted), EditorialCount)
	}

	sb.WriteString(`EDITORIAL PRIORITIES (Daily Show style):
1. POLITICAL HYPOCRISY - Politicians contradicting themselves, getting caught
2. POLICY IMPACT - Healthcare, economy, housing, student debt, climate
3. CORPORATE ACCOUNTABILITY - Tech scandals, monopolies, worker exploitation
4. GOVERNMENT DYSFUNCTION - Bureaucratic absurdity, wasteful spending
5. INTERNATIONAL NEWS - Foreign policy blunders, global conflicts
6. SYSTEMIC ISSUES - Inequality, corruption, institutional failures

SCORING CRITERIA:
- HIGH (80-100): Clear hypocrisy/contradiction, affects millions, has quotable moment
- MEDIUM (60-79): Important policy, corporate scandal, international significance
- LOW (40-59): Newsworthy but niche

CRITICAL RULES:
1. IGNORE THE SOURCE - Don't favor Reddit or Google News. Judge ONLY on story substance.
2. Reddit engagement != quality - High upvotes might just mean it's clickbait. Focus on editorial merit.
3. Prefer credible news stories - If both Reddit and Google News cover the same event, prefer the Google News version (better sourcing).
4. Substance > Virality - A healthcare policy affecting 40M people > a viral celebrity drama with 10K upvotes.
5. Mix sources - Aim for a balanced mix of Reddit and Google News in your top 13, not all from one source.
6. Deduplicate - If multiple items cover the SAME EVENT, select only the best-sourced one; your picks must cover distinct topics.

`)

	fmt.Fprintf(&sb, `For EACH of the top %d stories, provide:
- rank (1-%d, based on editorial fit, NOT platform)
- headline (sharp satirical headline, under 12 words - WRITE YOUR OWN, don't copy)
- original_source (Reddit or Google News)
- summary (2-3 sentences explaining: what happened, why it matters, who's affected - WRITE YOUR OWN synthesis)
- viral_score (1-100, based on editorial criteria above)
- trending_reason (why this is newsworthy RIGHT NOW - IGNORE Reddit upvotes, focus on actual news hook)
- comedy_angle (the satirical hook: hypocrisy, absurdity, who to skewer)
- category (Political/Economic/Social/Tech/International)
- source_url (the URL from the original story)

RETURN ONLY A JSON ARRAY. No explanations, no markdown, no code blocks. Just [ ... ] with the %d stories.`,
		EditorialCount, EditorialCount, EditorialCount)

	return sb.String()
}

// BuildWebSearchPrompt is the self-sourced variant: no local pool, the model
// searches the web itself and returns the requested number of stories.
func BuildWebSearchPrompt(today time.Time, count int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Search the web for trending news from the last 12-24 hours. Return exactly %d stories ranked by viral potential for a comedy news show targeting 18-35 year olds. Today is %s.\n\n",
		count, today.Format("January 2, 2006"))
	sb.WriteString(`Scoring: HIGH priority for stories trending on Twitter/X/Reddit/TikTok in last 12 hours, stories with absurdity/hypocrisy, stories affecting 18-35 year olds. SKIP stories requiring extensive background.

`)
	fmt.Fprintf(&sb, `For each story: rank (1-%d), headline (under 12 words), summary (2-3 sentences), viral_score (1-100), trending_reason (why it's viral now), comedy_angle (the joke hook), category (Political/Economic/Social/Tech/Culture), source_url (a news URL).

RETURN ONLY THE JSON ARRAY. DO NOT include any text before or after the array. DO NOT use markdown code blocks. DO NOT explain your reasoning. Your response must be ONLY valid JSON starting with [ and ending with ]. Nothing else.`, count)

	return sb.String()
}

func capGroup(items []sources.Candidate, max int) []sources.Candidate {
	if len(items) > max {
		return items[:max]
	}
	return items
}
