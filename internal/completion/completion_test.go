package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"

	"github.com/julianstephens/helpme/internal/config"
)

func anthropicConfig(url string) config.ModelConfig {
	return config.ModelConfig{
		Provider:    config.ProviderAnthropic,
		Model:       "test-model",
		BaseURL:     url,
		APIKey:      "secret",
		Timeout:     5 * time.Second,
		MaxTokens:   1000,
		Temperature: 0.3,
	}
}

func TestAnthropicComplete(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "secret" || r.Header.Get("anthropic-version") != anthropicVersion {
			t.Errorf("headers = %v", r.Header)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"hello "},{"type":"tool_use"},{"type":"text","text":"world"}],"stop_reason":"end_turn"}`))
	}))
	defer srv.Close()

	client := NewAnthropicClient(anthropicConfig(srv.URL + "/"))
	resp, err := client.Complete(context.Background(), UserRequest("sys", "hi", 2000))
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Text != "hello world" || resp.StopReason != "end_turn" {
		t.Errorf("resp = %+v", resp)
	}

	want := anthropicRequest{
		Model:       "test-model",
		MaxTokens:   2000,
		System:      "sys",
		Messages:    []Message{{Role: RoleUser, Content: "hi"}},
		Temperature: 0.3,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestAnthropicFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":{"message":"boom"}}`},
		{"unauthorized", http.StatusUnauthorized, `{}`},
		{"not json", http.StatusOK, `<html>`},
		{"api error", http.StatusOK, `{"error":{"type":"overloaded","message":"busy"}}`},
		{"empty content", http.StatusOK, `{"content":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			if _, err := NewAnthropicClient(anthropicConfig(srv.URL)).Complete(context.Background(), UserRequest("", "hi", 0)); err == nil {
				t.Error("Complete() expected error")
			}
		})
	}
}

func TestAnthropicTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	cfg := anthropicConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	start := time.Now()
	if _, err := NewAnthropicClient(cfg).Complete(context.Background(), UserRequest("", "hi", 0)); err == nil {
		t.Fatal("Complete() expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("timeout not applied, took %v", elapsed)
	}
}

func TestAnthropicTimeoutUnderLongerDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	cfg := anthropicConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	start := time.Now()
	if _, err := NewAnthropicClient(cfg).Complete(ctx, UserRequest("", "hi", 0)); err == nil {
		t.Fatal("Complete() expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("configured timeout ignored under a longer deadline, took %v", elapsed)
	}
}

func TestWithDefaultTimeout(t *testing.T) {
	t.Run("shorter configured timeout wins", func(t *testing.T) {
		parent, cancel := context.WithTimeout(context.Background(), time.Hour)
		defer cancel()
		ctx, done := withDefaultTimeout(parent, time.Second)
		defer done()
		deadline, ok := ctx.Deadline()
		if !ok || time.Until(deadline) > 2*time.Second {
			t.Errorf("deadline = %v, want about one second", deadline)
		}
	})
	t.Run("earlier parent deadline wins", func(t *testing.T) {
		parent, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		want, _ := parent.Deadline()
		ctx, done := withDefaultTimeout(parent, time.Minute)
		defer done()
		if got, _ := ctx.Deadline(); !got.Equal(want) {
			t.Errorf("deadline = %v, want %v", got, want)
		}
	})
	t.Run("zero uses the default", func(t *testing.T) {
		ctx, done := withDefaultTimeout(context.Background(), 0)
		defer done()
		if _, ok := ctx.Deadline(); !ok {
			t.Error("expected a deadline")
		}
	})
}

func TestAnthropicMissingKey(t *testing.T) {
	cfg := anthropicConfig("http://127.0.0.1:1")
	cfg.APIKey = ""
	if _, err := NewAnthropicClient(cfg).Complete(context.Background(), UserRequest("", "hi", 0)); err == nil {
		t.Error("expected error without API key")
	}
}

func TestNew(t *testing.T) {
	c, err := New(config.ModelConfig{Provider: config.ProviderNone, APIKey: "k"})
	if err != nil || c != nil {
		t.Errorf("provider none: client=%v err=%v", c, err)
	}

	c, err = New(config.ModelConfig{Provider: config.ProviderAnthropic})
	if err != nil || c != nil {
		t.Errorf("missing key: client=%v err=%v", c, err)
	}

	c, err = New(config.ModelConfig{Provider: config.ProviderAnthropic, APIKey: "k"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := c.(*AnthropicClient); !ok {
		t.Errorf("New() = %T, want *AnthropicClient", c)
	}

	if _, err := New(config.ModelConfig{Provider: "openai", APIKey: "k"}); err == nil {
		t.Error("unknown provider should fail")
	}
}

func TestGeminiRequest(t *testing.T) {
	temp := 0.9
	req := Request{
		SystemPrompt: "be brief",
		Messages:     []Message{{Role: RoleUser, Content: "hi"}, {Role: "assistant", Content: "hello"}},
		Temperature:  &temp,
	}

	contents, cfg := geminiRequest(req, 700, 0.3)
	if len(contents) != 2 || contents[0].Role != string(genai.RoleUser) || contents[1].Role != string(genai.RoleModel) {
		t.Fatalf("contents = %+v", contents)
	}
	if contents[1].Parts[0].Text != "hello" {
		t.Errorf("content text = %q", contents[1].Parts[0].Text)
	}
	if cfg.MaxOutputTokens != 700 {
		t.Errorf("MaxOutputTokens = %d", cfg.MaxOutputTokens)
	}
	if cfg.Temperature == nil || *cfg.Temperature != float32(0.9) {
		t.Errorf("Temperature = %v", cfg.Temperature)
	}
	if cfg.SystemInstruction == nil || !strings.Contains(cfg.SystemInstruction.Parts[0].Text, "be brief") {
		t.Errorf("SystemInstruction = %+v", cfg.SystemInstruction)
	}

	_, cfg = geminiRequest(Request{Messages: req.Messages[:1], MaxTokens: 150}, 700, 0.3)
	if cfg.SystemInstruction != nil || cfg.MaxOutputTokens != 150 || *cfg.Temperature != float32(0.3) {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestClientFunc(t *testing.T) {
	var c Client = ClientFunc(func(_ context.Context, req Request) (Response, error) {
		return Response{Text: req.Messages[0].Content}, nil
	})
	resp, err := c.Complete(context.Background(), UserRequest("", "echo", 0))
	if err != nil || resp.Text != "echo" {
		t.Errorf("resp=%+v err=%v", resp, err)
	}
}
