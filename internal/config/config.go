package config

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "SCANNER_CONFIG"
	claudeAPIKeyEnv   = "CLAUDE_API_KEY"
	openAIAPIKeyEnv   = "OPENAI_API_KEY"
	airtableTokenEnv  = "AIRTABLE_TOKEN"
	airtableBaseEnv   = "AIRTABLE_BASE_ID"
	airtableTableEnv  = "AIRTABLE_TABLE"
	rankerProviderEnv = "RANKER_PROVIDER"
	rankerModelEnv    = "RANKER_MODEL"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// MissingError reports a required credential or identifier absent from the
// environment. It is raised before any network work starts.
type MissingError struct {
	Name string
}

func (e *MissingError) Error() string {
	return e.Name + " is not set"
}

// Config holds everything the pipeline needs, built once at process start.
type Config struct {
	Ranker   RankerConfig   `yaml:"ranker"`
	Airtable AirtableConfig `yaml:"airtable"`
	Sources  SourcesConfig  `yaml:"sources"`
}

// RankerConfig selects and configures the reasoning-service provider.
type RankerConfig struct {
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	MaxTokens      int64  `yaml:"maxTokens"`
	WebSearch      bool   `yaml:"webSearch"`
	WebSearchCount int    `yaml:"webSearchCount"`
	APIKey         string `yaml:"-"`
	OpenAIKey      string `yaml:"-"`
}

// AirtableConfig identifies the record-store table. Token and base are
// secrets and only ever come from the environment.
type AirtableConfig struct {
	Token  string `yaml:"-"`
	BaseID string `yaml:"-"`
	Table  string `yaml:"table"`
}

// SourcesConfig lists the upstream sources with their gates and caps.
type SourcesConfig struct {
	Subreddits      []string    `yaml:"subreddits"`
	ViralSubreddits []string    `yaml:"viralSubreddits"`
	FeedTopics      []FeedTopic `yaml:"feedTopics"`
	MinScore        int         `yaml:"minScore"`
	ViralMinScore   int         `yaml:"viralMinScore"`
	PerSubreddit    int         `yaml:"perSubreddit"`
	PerViralSub     int         `yaml:"perViralSub"`
	PerFeedTopic    int         `yaml:"perFeedTopic"`
	ViralKeep       int         `yaml:"viralKeep"`
	SummaryMaxChars int         `yaml:"summaryMaxChars"`
}

// FeedTopic is one Google News search feed: Name tags candidates, Query is
// the upstream search term.
type FeedTopic struct {
	Name  string `yaml:"name"`
	Query string `yaml:"query"`
}

// Load builds the configuration: defaults, then an optional YAML file, then
// environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			slog.Warn("cannot read config file, using defaults", "path", path, "error", err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			slog.Warn("cannot parse config file, using defaults", "path", path, "error", err)
			cfg = defaultConfig()
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

// Validate returns a MissingError for the first absent required credential.
func (c Config) Validate() error {
	switch c.Ranker.Provider {
	case ProviderOpenAI:
		if c.Ranker.OpenAIKey == "" {
			return &MissingError{Name: openAIAPIKeyEnv}
		}
	default:
		if c.Ranker.APIKey == "" {
			return &MissingError{Name: claudeAPIKeyEnv}
		}
	}
	if c.Airtable.Token == "" {
		return &MissingError{Name: airtableTokenEnv}
	}
	if c.Airtable.BaseID == "" {
		return &MissingError{Name: airtableBaseEnv}
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(claudeAPIKeyEnv); v != "" {
		c.Ranker.APIKey = v
	}
	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.Ranker.OpenAIKey = v
	}
	if v := os.Getenv(rankerProviderEnv); v != "" {
		c.Ranker.Provider = v
	}
	if v := os.Getenv(rankerModelEnv); v != "" {
		c.Ranker.Model = v
	}
	if v := os.Getenv(airtableTokenEnv); v != "" {
		c.Airtable.Token = v
	}
	if v := os.Getenv(airtableBaseEnv); v != "" {
		c.Airtable.BaseID = v
	}
	if v := os.Getenv(airtableTableEnv); v != "" {
		c.Airtable.Table = v
	}
}

func defaultConfig() Config {
	return Config{
		Ranker: RankerConfig{
			Provider:       ProviderAnthropic,
			MaxTokens:      6000,
			WebSearchCount: 5,
		},
		Airtable: AirtableConfig{
			Table: "Daily Stories",
		},
		Sources: SourcesConfig{
			Subreddits: []string{"politics", "news", "worldnews"},
			ViralSubreddits: []string{
				"all",
				"meirl",
				"facepalm",
				"WhitePeopleTwitter",
				"BlackPeopleTwitter",
				"LateStageCapitalism",
			},
			FeedTopics: []FeedTopic{
				{Name: "politics", Query: "politics"},
				{Name: "economy", Query: "economy"},
				{Name: "tech", Query: "technology policy"},
				{Name: "international", Query: "international"},
			},
			MinScore:        100,
			ViralMinScore:   500,
			PerSubreddit:    10,
			PerViralSub:     5,
			PerFeedTopic:    8,
			ViralKeep:       3,
			SummaryMaxChars: 200,
		},
	}
}
