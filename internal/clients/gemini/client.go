package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tapfolio/cardscan-backend/internal/logger"
	"github.com/tapfolio/cardscan-backend/internal/scan"
)

// Client implements scan.TextGenerator over the Gemini API.
type Client struct {
	log       *logger.Logger
	client    *genai.Client
	modelName string
	timeout   time.Duration
}

func NewClient(log *logger.Logger, apiKey, modelName string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Client{
		log:       log.With("service", "GeminiClient"),
		client:    client,
		modelName: modelName,
		timeout:   30 * time.Second,
	}, nil
}

func (c *Client) ModelName() string {
	return c.modelName
}

func (c *Client) GenerateText(ctx context.Context, prompt string, opts *scan.GenerateOptions) (*scan.Generated, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := c.client.GenerativeModel(c.modelName)
	if opts != nil {
		model.SetTemperature(opts.Temperature)
		if opts.MaxOutputTokens > 0 {
			model.SetMaxOutputTokens(opts.MaxOutputTokens)
		}
		if opts.SystemInstruction != "" {
			model.SystemInstruction = &genai.Content{
				Parts: []genai.Part{genai.Text(opts.SystemInstruction)},
			}
		}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from gemini")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	// Models occasionally wrap JSON in markdown fences despite instructions.
	text := strings.TrimSpace(b.String())
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	out := &scan.Generated{Text: text}
	if resp.UsageMetadata != nil {
		out.Usage = &scan.TokenUsage{
			InputTokens:  resp.UsageMetadata.PromptTokenCount,
			OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
		}
	}
	return out, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
