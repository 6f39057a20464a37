package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"empathyai/backend/internal/config"
)

// ChatCompleter is the hosted fallback tier, used when the local model is
// unavailable or errors. Groq exposes an OpenAI-compatible surface, so the
// client is go-openai pointed at the Groq base URL.
type ChatCompleter interface {
	Complete(ctx context.Context, userName, botName, message string) (string, error)
}

type GroqClient struct {
	client *openai.Client
	model  string
	tokens int
}

func NewGroqClient(cfg config.Config) *GroqClient {
	clientConfig := openai.DefaultConfig(strings.TrimSpace(cfg.GroqAPIKey))
	if baseURL := strings.TrimRight(strings.TrimSpace(cfg.GroqBaseURL), "/"); baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout: time.Duration(cfg.CompleteTimeoutSeconds) * time.Second,
	}

	tokens := cfg.MaxReplyTokens
	if tokens <= 0 {
		tokens = 120
	}
	return &GroqClient{
		client: openai.NewClientWithConfig(clientConfig),
		model:  strings.TrimSpace(cfg.GroqModel),
		tokens: tokens,
	}
}

func (c *GroqClient) Complete(ctx context.Context, userName, botName, message string) (string, error) {
	systemPrompt := fmt.Sprintf(
		"You are %s, a compassionate AI companion with interactive wellness features.\n\n"+
			"Available features to suggest:\n"+
			"- Calming music (rain, forest, ocean, birds, meditation)\n"+
			"- Bubble popping game for stress relief 🫧\n"+
			"- Memory game for focus 🧠\n"+
			"- Breathing exercises for anxiety 🫁\n"+
			"- Color therapy for mood 🎨\n\n"+
			"Keep responses to 1-2 sentences. Be warm, validating, suggest appropriate activities, and use emojis.",
		botName,
	)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("User (%s): %s", userName, message)},
		},
		Temperature: 0.5,
		MaxTokens:   c.tokens,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("groq chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("groq chat completion returned no choices")
	}

	answer := stripEchoPrefix(resp.Choices[0].Message.Content, botName)
	if answer == "" {
		return "", errors.New("groq chat completion returned empty content")
	}
	return answer, nil
}
