package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (a *App) getStatus(c *gin.Context) {
	ctx := c.Request.Context()
	ollamaAvailable := a.primary != nil && a.primary.Available(ctx)

	fallbackLabel := "Not needed"
	if !ollamaAvailable {
		if a.fallback != nil {
			fallbackLabel = "Groq API"
		} else {
			fallbackLabel = "Enhanced local responses"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"ollama_available":    ollamaAvailable,
		"empathy_model":       a.cfg.OllamaModel,
		"fallback":            fallbackLabel,
		"total_conversations": a.countRows(ctx, `SELECT COUNT(*) FROM "Exchange"`),
		"total_users":         a.countRows(ctx, `SELECT COUNT(*) FROM "UserPreference"`),
		"total_activities":    a.countRows(ctx, `SELECT COUNT(*) FROM "ActivityLog"`),
		"interactive_features": []string{
			"music", "bubble_game", "memory_game", "breathing", "color_therapy",
		},
	})
}

// countRows is status-page plumbing; a failed count reads as zero rather
// than failing the whole status response.
func (a *App) countRows(ctx context.Context, query string) int64 {
	var count int64
	if err := a.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0
	}
	return count
}

// exportUserData bundles everything stored under the caller's name into one
// JSON document.
func (a *App) exportUserData(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Missing identity")
		return
	}

	ctx := c.Request.Context()
	prefs, err := a.loadPreferences(ctx, identity.UserName)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to export data")
		return
	}

	records, err := a.loadFullHistory(ctx, identity.UserName, prefs.BotName)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to export data")
		return
	}
	conversations := make([]gin.H, 0, len(records))
	for _, record := range records {
		conversations = append(conversations, gin.H{
			"user_message":    record.UserMessage,
			"bot_response":    record.BotResponse,
			"sentiment_score": record.SentimentScore,
			"timestamp":       record.Timestamp.UTC().Format(time.RFC3339),
		})
	}

	activities, err := a.exportActivities(ctx, identity.UserName)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to export data")
		return
	}
	moodEntries, err := a.exportMoodEntries(ctx, identity.UserName)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to export data")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"exported_at":  time.Now().UTC().Format(time.RFC3339),
		"settings":     settingsPayload(prefs),
		"history":      conversations,
		"activities":   activities,
		"mood_entries": moodEntries,
	})
}

func (a *App) exportActivities(ctx context.Context, userName string) ([]gin.H, error) {
	rows, err := a.db.Query(
		ctx,
		`SELECT "activityType", "activityData", "timestamp" FROM "ActivityLog"
		 WHERE "userName" = $1 ORDER BY "timestamp" ASC`,
		userName,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]gin.H, 0)
	for rows.Next() {
		var activityType, activityData string
		var timestamp time.Time
		if err := rows.Scan(&activityType, &activityData, &timestamp); err != nil {
			return nil, err
		}
		activities = append(activities, gin.H{
			"activity_type": activityType,
			"activity_data": parseJSONStringMap([]byte(activityData)),
			"timestamp":     timestamp.UTC().Format(time.RFC3339),
		})
	}
	return activities, rows.Err()
}

func (a *App) exportMoodEntries(ctx context.Context, userName string) ([]gin.H, error) {
	rows, err := a.db.Query(
		ctx,
		`SELECT score, note, "timestamp" FROM "MoodEntry"
		 WHERE "userName" = $1 ORDER BY "timestamp" ASC`,
		userName,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]gin.H, 0)
	for rows.Next() {
		var score float64
		var note string
		var timestamp time.Time
		if err := rows.Scan(&score, &note, &timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, gin.H{
			"score":     score,
			"note":      note,
			"timestamp": timestamp.UTC().Format(time.RFC3339),
		})
	}
	return entries, rows.Err()
}
