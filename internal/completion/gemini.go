package completion

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/julianstephens/helpme/internal/config"
	"github.com/julianstephens/helpme/internal/constants"
	"github.com/julianstephens/helpme/internal/logger"
)

// GeminiClient calls Gemini through the genai SDK.
type GeminiClient struct {
	client      *genai.Client
	model       string
	maxTokens   int
	temperature float64
	timeout     time.Duration
}

func NewGeminiClient(ctx context.Context, cfg config.ModelConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = constants.DefaultGeminiModel
	}
	return &GeminiClient{
		client:      client,
		model:       model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}, nil
}

func (c *GeminiClient) Complete(ctx context.Context, req Request) (Response, error) {
	ctx, cancel := withDefaultTimeout(ctx, c.timeout)
	defer cancel()

	contents, cfg := geminiRequest(req, c.maxTokens, c.temperature)

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return Response{}, fmt.Errorf("Gemini generate failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return Response{}, errNoContent
	}

	var stop string
	if len(resp.Candidates) > 0 {
		stop = string(resp.Candidates[0].FinishReason)
	}
	logger.Debug("Gemini completion finished", "model", c.model, "duration", time.Since(start), "finish_reason", stop)
	return Response{Text: text, StopReason: stop}, nil
}

// geminiRequest maps a Request onto genai contents and generation config.
func geminiRequest(req Request, defaultMaxTokens int, defaultTemperature float64) ([]*genai.Content, *genai.GenerateContentConfig) {
	contents := make([]*genai.Content, 0, len(req.Messages))
	for _, m := range req.Messages {
		var role genai.Role = genai.RoleUser
		if m.Role != RoleUser {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens(req, defaultMaxTokens)),
		Temperature:     genai.Ptr(float32(temperature(req, defaultTemperature))),
	}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	return contents, cfg
}
