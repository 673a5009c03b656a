package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"moodmix/config"
	"moodmix/sentryhelper"
)

var ErrEmptyResponse = errors.New("gemini returned no candidates")

// Client sends prompts to the Gemini API and returns the raw text reply.
type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, cfg config.GeminiConfig) (*Client, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Client{client: client, model: model}, nil
}

// GenerateRaw sends a single prompt and concatenates the text parts of the
// first candidate.
func (c *Client) GenerateRaw(ctx context.Context, prompt string) (string, error) {
	span := sentryhelper.StartSpan(ctx, "gemini.generate", "Generate content with Gemini")
	span.SetTag("model", c.model)
	defer span.Finish()

	log.Tracef("sending %d character prompt to %s", len(prompt), c.model)

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		span.Status = sentry.SpanStatusInternalError
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	response := sb.String()

	log.Debugf("gemini replied with %d characters", len(response))
	span.Status = sentry.SpanStatusOK
	return response, nil
}
