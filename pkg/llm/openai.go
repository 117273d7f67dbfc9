package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIRanker is the alternative provider behind the same Ranker contract.
// Chat completions return a single text choice, so the first choice is the
// one consumed.
type OpenAIRanker struct {
	client *openai.Client
	model  openai.ChatModel
	logger *slog.Logger
}

func NewOpenAIRanker(apiKey, model string, logger *slog.Logger, opts ...option.RequestOption) *OpenAIRanker {
	chatModel := openai.ChatModelGPT4oMini
	if model != "" {
		chatModel = openai.ChatModel(model)
	}
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &OpenAIRanker{
		client: &client,
		model:  chatModel,
		logger: logger,
	}
}

func (r *OpenAIRanker) Rank(ctx context.Context, prompt string) ([]RankedStory, error) {
	resp, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: r.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(jsonOnlySystemPrompt),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		r.logger.Error("ranking service call failed", "error", preview(err.Error()))
		return nil, fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, ErrNoTextContent
	}
	text := resp.Choices[0].Message.Content
	r.logger.Debug("model reply", "preview", preview(text))

	return extractStories(text)
}
