package classify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider adapts the OpenAI chat completion API to the Completer
// interface. Decoding is deterministic (temperature 0) and the output budget
// is a handful of tokens — the model only needs to name a category.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	logger zerolog.Logger
}

const completionMaxTokens = 8

func NewOpenAIProvider(apiKey, model string, logger zerolog.Logger) *OpenAIProvider {
	if model == "" {
		model = openai.GPT3Dot5Turbo
	}
	return &OpenAIProvider{
		client: openai.NewClient(apiKey),
		model:  model,
		logger: logger,
	}
}

func (p *OpenAIProvider) Complete(ctx context.Context, prompt string) ([]string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0,
		MaxTokens:   completionMaxTokens,
	})
	if err != nil {
		p.logger.Error().Err(err).Msg("openai completion request failed")
		return nil, fmt.Errorf("openai completion: %w", err)
	}

	choices := make([]string, 0, len(resp.Choices))
	for _, choice := range resp.Choices {
		choices = append(choices, choice.Message.Content)
	}

	p.logger.Debug().
		Str("model", resp.Model).
		Int("choices", len(choices)).
		Msg("openai completion returned")
	return choices, nil
}
