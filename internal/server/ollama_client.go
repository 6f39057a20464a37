package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"empathyai/backend/internal/config"
)

// CompletionClient is the primary response generator: a local model-serving
// endpoint that is probed for availability before use and may fail at any
// time. Failures are recovered by the fallback chain, never surfaced to the
// end user.
type CompletionClient interface {
	Available(ctx context.Context) bool
	Complete(ctx context.Context, prompt, botName, userName string) (string, error)
}

type OllamaClient struct {
	baseURL        string
	model          string
	probeClient    *http.Client
	generateClient *http.Client
}

func NewOllamaClient(cfg config.Config) *OllamaClient {
	return &OllamaClient{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.OllamaBaseURL), "/"),
		model:   strings.TrimSpace(cfg.OllamaModel),
		probeClient: &http.Client{
			Timeout: time.Duration(cfg.ProbeTimeoutSeconds) * time.Second,
		},
		generateClient: &http.Client{
			Timeout: time.Duration(cfg.CompleteTimeoutSeconds) * time.Second,
		},
	}
}

// Available reports whether the configured model is served right now. Any
// transport error or non-200 status means "no": the caller falls through to
// the next tier instead of seeing an error.
func (c *OllamaClient) Available(ctx context.Context) bool {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	response, err := c.probeClient.Do(request)
	if err != nil {
		return false
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return false
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return false
	}
	parsed := parseJSONStringMap(body)
	models, ok := parsed["models"].([]any)
	if !ok {
		return false
	}

	// Model tags carry an optional ":variant" suffix; "empathy-support"
	// matches "empathy-support:latest".
	wantPrefix := c.model
	if idx := strings.Index(wantPrefix, ":"); idx > 0 {
		wantPrefix = wantPrefix[:idx]
	}
	for _, item := range models {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		name := strings.TrimSpace(toString(entry["name"]))
		if name == "" {
			continue
		}
		if strings.Contains(name, c.model) || strings.HasPrefix(name, wantPrefix) {
			return true
		}
	}
	return false
}

func (c *OllamaClient) Complete(ctx context.Context, prompt, botName, userName string) (string, error) {
	payload := map[string]any{
		"model":  c.model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature":    0.4,
			"num_predict":    80,
			"repeat_penalty": 1.4,
			"top_p":          0.8,
		},
	}
	bodyRaw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/generate",
		bytes.NewReader(bodyRaw),
	)
	if err != nil {
		return "", err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.generateClient.Do(request)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return "", err
	}
	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama generate error (%d): %s", response.StatusCode, strings.TrimSpace(string(responseBody)))
	}

	parsed := parseJSONStringMap(responseBody)
	generated := stripEchoPrefix(toString(parsed["response"]), botName)
	if generated == "" {
		// Empty generations happen with aggressive sampling settings; the
		// user still gets a real sentence.
		return fmt.Sprintf("I'm here for you, %s. How can I support you today? 😊", userName), nil
	}
	return generated, nil
}
