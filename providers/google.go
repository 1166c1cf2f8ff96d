package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	config "github.com/inference-gateway/calendar-assistant/config"
)

type GeminiPart struct {
	Text string `json:"text"`
}

type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

type GeminiGenerationConfig struct {
	Temperature      float32 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type GenerateRequestGoogle struct {
	Contents         []GeminiContent        `json:"contents"`
	GenerationConfig GeminiGenerationConfig `json:"generationConfig"`
}

type GeminiCandidate struct {
	Content      GeminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type GenerateResponseGoogle struct {
	Candidates []GeminiCandidate `json:"candidates"`
}

type GoogleErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// google calls the Gemini generateContent REST API
type google struct {
	id          string
	name        string
	endpoint    string
	apiKey      string
	temperature float32
	client      *http.Client
}

func newGoogle(entry Config, cfg *config.CompletionConfig, httpClient *http.Client) *google {
	path := strings.ReplaceAll(entry.Endpoints.Generate, "{model}", url.PathEscape(cfg.Model))
	return &google{
		id:          entry.ID,
		name:        entry.Name,
		endpoint:    entry.URL + path,
		apiKey:      cfg.APIKey,
		temperature: cfg.Temperature,
		client:      httpClient,
	}
}

func (p *google) GetID() string   { return p.id }
func (p *google) GetName() string { return p.name }

func (p *google) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(GenerateRequestGoogle{
		Contents: []GeminiContent{
			{Role: "user", Parts: []GeminiPart{{Text: prompt}}},
		},
		GenerationConfig: GeminiGenerationConfig{
			Temperature:      p.temperature,
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"?key="+url.QueryEscape(p.apiKey), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("google generate content: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		var errResp GoogleErrorResponse
		if json.Unmarshal(raw, &errResp) == nil && errResp.Error.Message != "" {
			return "", fmt.Errorf("google generate content: status %d: %s", resp.StatusCode, errResp.Error.Message)
		}
		return "", fmt.Errorf("google generate content: status %d", resp.StatusCode)
	}

	var out GenerateResponseGoogle
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("google generate content: decode response: %w", err)
	}

	var text strings.Builder
	for _, c := range out.Candidates {
		for _, part := range c.Content.Parts {
			text.WriteString(part.Text)
		}
		if text.Len() > 0 {
			break
		}
	}
	if text.Len() == 0 {
		return "", ErrEmptyCompletion
	}
	return text.String(), nil
}
