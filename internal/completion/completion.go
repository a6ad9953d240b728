// Package completion adapts hosted text-completion services to a single
// request/response shape. Callers treat every error as opaque.
package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/helpme/internal/config"
	"github.com/julianstephens/helpme/internal/constants"
)

const RoleUser = "user"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Request struct {
	SystemPrompt string
	Messages     []Message
	MaxTokens    int
	// Temperature is used when non-nil; otherwise the client default applies.
	Temperature *float64
}

type Response struct {
	Text       string
	StopReason string
}

// Client is implemented by each provider adapter.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

var errNoContent = errors.New("no completion returned")

// UserRequest is the common single-turn request.
func UserRequest(system, user string, maxTokens int) Request {
	return Request{
		SystemPrompt: system,
		Messages:     []Message{{Role: RoleUser, Content: user}},
		MaxTokens:    maxTokens,
	}
}

// New builds the client for cfg. It returns nil, nil when the provider is
// disabled or no key is available, leaving callers on their fallback path.
func New(cfg config.ModelConfig) (Client, error) {
	if cfg.Provider == config.ProviderNone || cfg.APIKey == "" {
		return nil, nil
	}
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return NewAnthropicClient(cfg), nil
	case config.ProviderGemini:
		c, err := NewGeminiClient(context.Background(), cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}

// withDefaultTimeout bounds ctx by d. An earlier parent deadline still wins.
func withDefaultTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = constants.DefaultModelTimeout
	}
	return context.WithTimeout(ctx, d)
}

func maxTokens(req Request, fallback int) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if fallback > 0 {
		return fallback
	}
	return constants.DefaultModelMaxTokens
}

func temperature(req Request, fallback float64) float64 {
	if req.Temperature != nil {
		return *req.Temperature
	}
	return fallback
}

// ClientFunc adapts a function to Client.
type ClientFunc func(ctx context.Context, req Request) (Response, error)

func (f ClientFunc) Complete(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}
