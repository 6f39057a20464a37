package server

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Message string `json:"message"`
}

// chat runs the full companion pipeline: crisis check, sentiment, tone,
// context window, prompt, and the three-tier completion chain. Whatever the
// providers do, the response carries a non-empty bot_response.
func (a *App) chat(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Missing identity")
		return
	}

	var payload chatRequest
	if !mustJSON(c, &payload) {
		return
	}
	message := strings.TrimSpace(payload.Message)
	if message == "" {
		writeError(c, http.StatusBadRequest, "Message must not be empty")
		return
	}

	ctx := c.Request.Context()
	prefs, err := a.loadPreferences(ctx, identity.UserName)
	if err != nil {
		log.Printf("chat: load preferences for %q: %v", identity.UserName, err)
	}

	sentimentScore := a.sentiment.Score(message)

	if containsCrisisLanguage(message) {
		reply := crisisResponse(identity.UserName)
		a.persistExchange(ctx, prefs, message, reply, sentimentScore)
		c.JSON(http.StatusOK, gin.H{
			"bot_response":    reply,
			"bot_avatar":      prefs.BotAvatar,
			"sentiment_score": sentimentScore,
			"source":          "crisis",
		})
		return
	}

	toneInstruction := empathyContext(message, sentimentScore)
	turns, err := a.loadRecentTurns(ctx, identity.UserName, prefs.BotName, a.cfg.ContextTurnLimit)
	if err != nil {
		log.Printf("chat: load recent turns for %q: %v", identity.UserName, err)
		turns = nil
	}
	prompt := buildCompanionPrompt(turns, toneInstruction, identity.UserName, prefs.BotName, message)

	reply, source := a.generateReply(ctx, prompt, message, identity.UserName, prefs.BotName)
	a.persistExchange(ctx, prefs, message, reply, sentimentScore)

	c.JSON(http.StatusOK, gin.H{
		"bot_response":    reply,
		"bot_avatar":      prefs.BotAvatar,
		"sentiment_score": sentimentScore,
		"source":          source,
	})
}

// generateReply walks the fallback chain. The heuristic responder is the
// terminal tier and cannot fail, so a reply always comes back.
func (a *App) generateReply(ctx context.Context, prompt, message, userName, botName string) (string, string) {
	if a.primary != nil && a.primary.Available(ctx) {
		reply, err := a.primary.Complete(ctx, prompt, botName, userName)
		if err == nil && strings.TrimSpace(reply) != "" {
			return reply, "ollama"
		}
		if err != nil {
			log.Printf("chat: primary completion failed, falling back: %v", err)
		}
	}

	if a.fallback != nil {
		reply, err := a.fallback.Complete(ctx, userName, botName, message)
		if err == nil && strings.TrimSpace(reply) != "" {
			return reply, "groq"
		}
		if err != nil {
			log.Printf("chat: fallback completion failed, using local responder: %v", err)
		}
	}

	return a.responder.Respond(message, userName), "local"
}

// persistExchange records the turn after the reply is computed. A failed
// write is logged, never surfaced: the user already has their response.
func (a *App) persistExchange(ctx context.Context, prefs Preferences, userMessage, botResponse string, sentimentScore float64) {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := a.recordExchange(writeCtx, prefs.UserName, prefs.BotName, prefs.BotAvatar, userMessage, botResponse, sentimentScore); err != nil {
		log.Printf("chat: persist exchange for %q: %v", prefs.UserName, err)
	}
}

func (a *App) getHistory(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Missing identity")
		return
	}

	ctx := c.Request.Context()
	prefs, err := a.loadPreferences(ctx, identity.UserName)
	if err != nil {
		log.Printf("history: load preferences for %q: %v", identity.UserName, err)
	}

	records, err := a.loadFullHistory(ctx, identity.UserName, prefs.BotName)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load history")
		return
	}

	history := make([]gin.H, 0, len(records))
	for _, record := range records {
		history = append(history, gin.H{
			"user":       record.UserMessage,
			"bot":        record.BotResponse,
			"bot_avatar": record.BotAvatar,
			"timestamp":  record.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (a *App) clearHistory(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Missing identity")
		return
	}

	ctx := c.Request.Context()
	prefs, err := a.loadPreferences(ctx, identity.UserName)
	if err != nil {
		log.Printf("clear: load preferences for %q: %v", identity.UserName, err)
	}

	deleted, err := a.clearExchanges(ctx, identity.UserName, prefs.BotName)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to clear history")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"deleted": deleted,
	})
}
