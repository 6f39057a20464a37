package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newGroqTestServer(t *testing.T, handler func(payload map[string]any) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(handler(payload)))
	}))
}

func newTestGroqClient(baseURL string) *GroqClient {
	cfg := newTestConfig()
	cfg.GroqAPIKey = "test-key"
	cfg.GroqBaseURL = baseURL
	return NewGroqClient(cfg)
}

func TestGroqCompleteSendsChatPayload(t *testing.T) {
	t.Parallel()

	var received map[string]any
	server := newGroqTestServer(t, func(payload map[string]any) string {
		received = payload
		return `{"choices":[{"message":{"role":"assistant","content":"Luna: I'm here with you. 💙"}}]}`
	})
	defer server.Close()

	client := newTestGroqClient(server.URL)
	reply, err := client.Complete(context.Background(), "Sam", "Luna", "rough day")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if reply != "I'm here with you. 💙" {
		t.Fatalf("expected echo prefix stripped, got %q", reply)
	}

	if received["model"] != "llama3-8b-8192" {
		t.Fatalf("unexpected model %v", received["model"])
	}
	if received["temperature"] != 0.5 {
		t.Fatalf("unexpected temperature %v", received["temperature"])
	}
	if received["max_tokens"] != float64(120) {
		t.Fatalf("unexpected max_tokens %v", received["max_tokens"])
	}

	messages, ok := received["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("expected system+user messages, got %v", received["messages"])
	}
	system := messages[0].(map[string]any)
	if system["role"] != "system" || !strings.Contains(system["content"].(string), "Luna") {
		t.Fatalf("unexpected system message: %v", system)
	}
	user := messages[1].(map[string]any)
	if user["role"] != "user" || !strings.Contains(user["content"].(string), "rough day") {
		t.Fatalf("unexpected user message: %v", user)
	}
}

func TestGroqCompleteErrorsOnEmptyChoices(t *testing.T) {
	t.Parallel()

	server := newGroqTestServer(t, func(map[string]any) string {
		return `{"choices":[]}`
	})
	defer server.Close()

	client := newTestGroqClient(server.URL)
	if _, err := client.Complete(context.Background(), "Sam", "Luna", "hello"); err == nil {
		t.Fatal("expected error when no choices are returned")
	}
}
