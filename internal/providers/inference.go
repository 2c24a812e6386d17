package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dukaan-ai/salesbot/internal/domain"
)

// InferenceProvider talks to a Hugging Face style text-generation inference
// endpoint. The API is loose about its response shape: some models return a
// list of generation objects, others a single object. decodeGeneration
// resolves that once, as a small tagged union with an explicit unknown-shape
// branch.
type InferenceProvider struct {
	name     string
	endpoint string // full URL of the model resource
	apiKey   string
	client   *http.Client
}

func NewInferenceProvider(name, endpoint, apiKey string, client *http.Client) *InferenceProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &InferenceProvider{name: name, endpoint: endpoint, apiKey: apiKey, client: client}
}

func (p *InferenceProvider) Name() string { return p.name }

type inferenceRequest struct {
	Inputs     string              `json:"inputs"`
	Parameters inferenceParameters `json:"parameters"`
}

type inferenceParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float32 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type generation struct {
	GeneratedText string `json:"generated_text"`
	Error         string `json:"error"`
}

func (p *InferenceProvider) Generate(ctx context.Context, prompt domain.Prompt) (string, error) {
	body, err := json.Marshal(inferenceRequest{
		Inputs: prompt.System + "\n\n" + prompt.User,
		Parameters: inferenceParameters{
			MaxNewTokens:   prompt.MaxTokens,
			Temperature:    prompt.Temperature,
			ReturnFullText: false,
		},
	})
	if err != nil {
		return "", fmt.Errorf("%s: marshal request: %w", p.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", p.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("%s: status %d: %s", p.name, resp.StatusCode, snippet)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: read response: %w", p.name, err)
	}
	text, err := decodeGeneration(raw)
	if err != nil {
		return "", fmt.Errorf("%s: %w", p.name, err)
	}
	return text, nil
}

// decodeGeneration handles the two known payload shapes: a JSON array of
// generation objects, or a single generation object.
func decodeGeneration(raw []byte) (string, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return "", fmt.Errorf("empty response body")
	}

	switch trimmed[0] {
	case '[':
		var list []generation
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return "", fmt.Errorf("decode generation list: %w", err)
		}
		if len(list) == 0 {
			return "", fmt.Errorf("empty generation list")
		}
		return firstText(list)
	case '{':
		var one generation
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return "", fmt.Errorf("decode generation object: %w", err)
		}
		return firstText([]generation{one})
	default:
		return "", fmt.Errorf("unknown response shape: %s", snippetOf(trimmed))
	}
}

func firstText(gens []generation) (string, error) {
	g := gens[0]
	if g.Error != "" {
		return "", fmt.Errorf("upstream error: %s", g.Error)
	}
	if strings.TrimSpace(g.GeneratedText) == "" {
		return "", fmt.Errorf("empty generated_text")
	}
	return g.GeneratedText, nil
}

func snippetOf(b []byte) string {
	if len(b) > 64 {
		b = b[:64]
	}
	return string(b)
}
