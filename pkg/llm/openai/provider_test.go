package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"nexusai-be/internal/pkg/apperrors"
	"nexusai-be/pkg/llm"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) (*OpenAIProvider, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	p := NewOpenAIProvider("test-key", "gpt-3.5-turbo")
	p.BaseURL = srv.URL
	return p, srv
}

func TestChatSendsExpectedPayload(t *testing.T) {
	var got openaiChatRequest
	var gotAuth string

	p, srv := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(openaiChatResponse{
			Choices: []struct {
				Message openaiMessage `json:"message"`
			}{{Message: openaiMessage{Role: "assistant", Content: "hello there"}}},
		})
	})
	defer srv.Close()

	resp, err := p.Chat(context.Background(), []llm.Message{
		{Role: "system", Content: "be helpful"},
		{Role: "user", Content: "hi"},
	})
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if resp != "hello there" {
		t.Errorf("response = %q, want %q", resp, "hello there")
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if got.Model != "gpt-3.5-turbo" {
		t.Errorf("model = %q", got.Model)
	}
	if got.MaxTokens != 500 {
		t.Errorf("max_tokens = %d, want 500", got.MaxTokens)
	}
	if got.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", got.Temperature)
	}
	if got.PresencePenalty != 0.3 || got.FrequencyPenalty != 0.2 {
		t.Errorf("penalties = %v/%v, want 0.3/0.2", got.PresencePenalty, got.FrequencyPenalty)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "hi" {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestChatOptionsOverrideDefaults(t *testing.T) {
	var got openaiChatRequest
	p, srv := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(openaiChatResponse{
			Choices: []struct {
				Message openaiMessage `json:"message"`
			}{{Message: openaiMessage{Content: "ok"}}},
		})
	})
	defer srv.Close()

	_, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}},
		llm.WithModel("gpt-4"), llm.WithMaxTokens(50), llm.WithTemperature(0.2))
	if err != nil {
		t.Fatalf("Chat returned error: %v", err)
	}
	if got.Model != "gpt-4" {
		t.Errorf("model = %q, want gpt-4", got.Model)
	}
	if got.MaxTokens != 50 {
		t.Errorf("max_tokens = %d, want 50", got.MaxTokens)
	}
	if got.Temperature != 0.2 {
		t.Errorf("temperature = %v, want 0.2", got.Temperature)
	}
}

func TestChatErrorMapping(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantTransient bool
	}{
		{"rate limited", http.StatusTooManyRequests, true},
		{"server error", http.StatusInternalServerError, true},
		{"bad gateway", http.StatusBadGateway, true},
		{"unauthorized", http.StatusUnauthorized, false},
		{"bad request", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, srv := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":{"message":"boom","type":"test_error"}}`))
			})
			defer srv.Close()

			_, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var upErr *apperrors.UpstreamError
			if !errors.As(err, &upErr) {
				t.Fatalf("error type = %T, want *apperrors.UpstreamError", err)
			}
			if upErr.Provider != "openai" {
				t.Errorf("provider = %q", upErr.Provider)
			}
			if upErr.Transient != tt.wantTransient {
				t.Errorf("transient = %v, want %v", upErr.Transient, tt.wantTransient)
			}
		})
	}
}

func TestChatConnectionFailureIsTransient(t *testing.T) {
	p := NewOpenAIProvider("test-key", "gpt-3.5-turbo")
	p.BaseURL = "http://127.0.0.1:1" // nothing listens here

	_, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	var upErr *apperrors.UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("error type = %T, want *apperrors.UpstreamError", err)
	}
	if !upErr.Transient {
		t.Error("connection failure should be transient")
	}
}

func TestChatEmptyChoices(t *testing.T) {
	p, srv := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(openaiChatResponse{})
	})
	defer srv.Close()

	_, err := p.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})
	var upErr *apperrors.UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("error type = %T, want *apperrors.UpstreamError", err)
	}
}
