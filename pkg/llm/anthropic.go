package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultClaudeModel = "claude-sonnet-4-20250514"

// AnthropicRanker sends the ranking prompt through the Claude messages API.
// With web search enabled the model sources its own stories and the reply
// interleaves tool traces with text, so only text blocks are consumed.
type AnthropicRanker struct {
	client    *anthropic.Client
	model     anthropic.Model
	maxTokens int64
	webSearch bool
	logger    *slog.Logger
}

func NewAnthropicRanker(apiKey, model string, maxTokens int64, webSearch bool, logger *slog.Logger, opts ...option.RequestOption) *AnthropicRanker {
	if model == "" {
		model = defaultClaudeModel
	}
	client := anthropic.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &AnthropicRanker{
		client:    &client,
		model:     anthropic.Model(model),
		maxTokens: maxTokens,
		webSearch: webSearch,
		logger:    logger,
	}
}

func (r *AnthropicRanker) Rank(ctx context.Context, prompt string) ([]RankedStory, error) {
	params := anthropic.MessageNewParams{
		Model:     r.model,
		MaxTokens: r.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if r.webSearch {
		params.System = []anthropic.TextBlockParam{{Text: jsonOnlySystemPrompt}}
		params.Tools = []anthropic.ToolUnionParam{{
			OfWebSearchTool20250305: &anthropic.WebSearchTool20250305Param{},
		}}
	}

	resp, err := r.client.Messages.New(ctx, params)
	if err != nil {
		r.logger.Error("ranking service call failed", "error", preview(err.Error()))
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}

	text, ok := lastTextBlock(resp)
	if !ok {
		return nil, ErrNoTextContent
	}
	r.logger.Debug("model reply", "preview", preview(text))

	return extractStories(text)
}

// lastTextBlock picks the final text block: with tools enabled, earlier
// blocks are search and reasoning traces.
func lastTextBlock(msg *anthropic.Message) (string, bool) {
	for i := len(msg.Content) - 1; i >= 0; i-- {
		block := msg.Content[i]
		if block.Type == "text" && block.Text != "" {
			return block.Text, true
		}
	}
	return "", false
}
