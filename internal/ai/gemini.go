package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Client wraps the Gemini API for both generation and embeddings.
type Client struct {
	genaiClient *genai.Client
	model       *genai.GenerativeModel
	embedder    *genai.EmbeddingModel
}

var (
	_ Generator = (*Client)(nil)
	_ Embedder  = (*Client)(nil)
)

// NewClient creates a Gemini-backed client. model and embeddingModel name
// the generation and embedding models respectively.
func NewClient(ctx context.Context, apiKey, model, embeddingModel string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{
		genaiClient: client,
		model:       client.GenerativeModel(model),
		embedder:    client.EmbeddingModel(embeddingModel),
	}, nil
}

// Close closes the underlying client.
func (c *Client) Close() error {
	return c.genaiClient.Close()
}

// GenerateText generates a completion for a prompt. Transport errors and
// timeouts surface as ErrBackendUnavailable so callers can degrade.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no candidates returned", ErrBackendUnavailable)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	return sb.String(), nil
}

// Embed returns the embedding vector for text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := c.embedder.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("%w: empty embedding returned", ErrBackendUnavailable)
	}
	return res.Embedding.Values, nil
}
