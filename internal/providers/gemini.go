package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/dukaan-ai/salesbot/internal/domain"
	ai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider is the designated cascade fallback: a single known-good
// large model reserved as last resort.
type GeminiProvider struct {
	apiKey string
	model  string
}

func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiProvider{apiKey: apiKey, model: model}
}

func (p *GeminiProvider) Name() string { return "gemini/" + p.model }

func (p *GeminiProvider) Generate(ctx context.Context, prompt domain.Prompt) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("gemini: api key not configured")
	}

	client, err := ai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return "", fmt.Errorf("gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	model.SetTemperature(prompt.Temperature)
	model.SetMaxOutputTokens(int32(prompt.MaxTokens))
	model.SystemInstruction = &ai.Content{Parts: []ai.Part{ai.Text(prompt.System)}}

	resp, err := model.GenerateContent(ctx, ai.Text(prompt.User))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}

	var sb strings.Builder
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if t, ok := part.(ai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("gemini: empty completion")
	}
	return sb.String(), nil
}
