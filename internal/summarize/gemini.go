package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const bulletPrompt = `Summarize the following content as concise bullet-point study notes.
Return only the bullets, one per line, each starting with "- ".
Do not add headings, numbering, or commentary.

Content:
%s`

// GeminiClient implements Client using the Google Gemini API.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient constructs a Gemini summarizer client.
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiClient{client: cl, modelName: modelName}, nil
}

// Close releases the underlying API client.
func (g *GeminiClient) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Name identifies the provider.
func (g *GeminiClient) Name() string { return "gemini" }

// Summarize asks the model for bullet notes and returns the raw lines.
func (g *GeminiClient) Summarize(ctx context.Context, text string) ([]string, error) {
	m := g.client.GenerativeModel(g.modelName)
	temp := float32(0.3)
	m.Temperature = &temp
	m.SetMaxOutputTokens(2048)

	resp, err := m.GenerateContent(ctx, genai.Text(fmt.Sprintf(bulletPrompt, text)))
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini: empty response")
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return strings.Split(b.String(), "\n"), nil
}

var _ Client = (*GeminiClient)(nil)
