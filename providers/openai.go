package providers

import (
	"context"
	"fmt"
	"net/http"

	config "github.com/inference-gateway/calendar-assistant/config"
	openai "github.com/sashabaranov/go-openai"
)

// openAICompatible talks to any backend exposing the OpenAI chat API
type openAICompatible struct {
	id          string
	name        string
	model       string
	temperature float32
	client      *openai.Client
}

func newOpenAICompatible(entry Config, cfg *config.CompletionConfig, httpClient *http.Client) *openAICompatible {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = entry.URL + entry.Endpoints.Generate
	clientConfig.HTTPClient = httpClient

	return &openAICompatible{
		id:          entry.ID,
		name:        entry.Name,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		client:      openai.NewClientWithConfig(clientConfig),
	}
}

func (p *openAICompatible) GetID() string   { return p.id }
func (p *openAICompatible) GetName() string { return p.name }

func (p *openAICompatible) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: p.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", p.id, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
