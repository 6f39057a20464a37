package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type activityRequest struct {
	ActivityType string         `json:"activity_type"`
	ActivityData map[string]any `json:"activity_data"`
}

func (a *App) logActivity(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Missing identity")
		return
	}

	var payload activityRequest
	if !mustJSON(c, &payload) {
		return
	}
	activityType := strings.TrimSpace(payload.ActivityType)
	if activityType == "" {
		writeError(c, http.StatusBadRequest, "activity_type is required")
		return
	}

	activityData := payload.ActivityData
	if activityData == nil {
		activityData = map[string]any{}
	}
	if err := a.insertActivityLog(c.Request.Context(), identity.UserName, activityType, mustMarshalJSON(activityData)); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to log activity")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

type moodPoint struct {
	Timestamp      time.Time
	SentimentScore float64
	UserMessage    string
}

// moodTrend compares the average of the last windowSize points against the
// average of everything before them. Points are chronological, oldest first.
func moodTrend(points []moodPoint, windowSize int) string {
	if len(points) < 2 {
		return "insufficient_data"
	}
	split := len(points) - windowSize
	if split < 0 {
		split = 0
	}

	var recentSum, olderSum float64
	for _, point := range points[split:] {
		recentSum += point.SentimentScore
	}
	for _, point := range points[:split] {
		olderSum += point.SentimentScore
	}
	recentAvg := recentSum / float64(len(points)-split)
	olderAvg := 0.0
	if split > 0 {
		olderAvg = olderSum / float64(split)
	}

	switch {
	case recentAvg > olderAvg:
		return "improving"
	case recentAvg < olderAvg:
		return "declining"
	default:
		return "stable"
	}
}

const moodTrendWindow = 5

func (a *App) moodAnalytics(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Missing identity")
		return
	}

	rows, err := a.db.Query(
		c.Request.Context(),
		`SELECT "timestamp", "sentimentScore", "userMessage" FROM "Exchange"
		 WHERE "userName" = $1
		 ORDER BY "timestamp" DESC LIMIT 20`,
		identity.UserName,
	)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load mood analytics")
		return
	}
	defer rows.Close()

	points := make([]moodPoint, 0, 20)
	for rows.Next() {
		var point moodPoint
		if err := rows.Scan(&point.Timestamp, &point.SentimentScore, &point.UserMessage); err != nil {
			writeError(c, http.StatusInternalServerError, "Failed to load mood analytics")
			return
		}
		points = append(points, point)
	}
	if err := rows.Err(); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load mood analytics")
		return
	}

	// Newest-first from the query; flip to chronological for the trend math
	// and the chart payload.
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}

	moodHistory := make([]gin.H, 0, len(points))
	var total float64
	for _, point := range points {
		total += point.SentimentScore
		moodHistory = append(moodHistory, gin.H{
			"timestamp":       point.Timestamp.UTC().Format(time.RFC3339),
			"sentiment":       point.SentimentScore,
			"message_preview": truncateRunes(point.UserMessage, 50),
		})
	}

	averageMood := 0.0
	if len(points) > 0 {
		averageMood = total / float64(len(points))
	}

	c.JSON(http.StatusOK, gin.H{
		"mood_history":        moodHistory,
		"average_mood":        averageMood,
		"total_conversations": len(points),
		"mood_trend":          moodTrend(points, moodTrendWindow),
	})
}

func (a *App) activityStats(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Missing identity")
		return
	}

	ctx := c.Request.Context()
	rows, err := a.db.Query(
		ctx,
		`SELECT "activityType", COUNT(*) FROM "ActivityLog"
		 WHERE "userName" = $1 GROUP BY "activityType"`,
		identity.UserName,
	)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load activity stats")
		return
	}
	defer rows.Close()

	breakdown := map[string]int64{}
	var totalActivities int64
	mostUsed := ""
	var mostUsedCount int64
	for rows.Next() {
		var activityType string
		var count int64
		if err := rows.Scan(&activityType, &count); err != nil {
			writeError(c, http.StatusInternalServerError, "Failed to load activity stats")
			return
		}
		breakdown[activityType] = count
		totalActivities += count
		if count > mostUsedCount {
			mostUsed = activityType
			mostUsedCount = count
		}
	}
	if err := rows.Err(); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load activity stats")
		return
	}

	var recentWeekCount int64
	err = a.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM "ActivityLog"
		 WHERE "userName" = $1 AND "timestamp" >= now() - INTERVAL '7 days'`,
		identity.UserName,
	).Scan(&recentWeekCount)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load activity stats")
		return
	}

	response := gin.H{
		"total_activities":   totalActivities,
		"activity_breakdown": breakdown,
		"recent_week_count":  recentWeekCount,
	}
	if mostUsed != "" {
		response["most_used_activity"] = mostUsed
	} else {
		response["most_used_activity"] = nil
	}
	c.JSON(http.StatusOK, response)
}

type activitySuggestion struct {
	Activity string `json:"activity"`
	Icon     string `json:"icon"`
	Reason   string `json:"reason"`
}

// suggestActivities picks candidates for the latest sentiment bucket and
// deprioritizes anything used in the last three logged activities. When every
// candidate was just used, the first two come back anyway with a nudge to
// try something new.
func suggestActivities(latestScore *float64, recentlyUsed []string) []activitySuggestion {
	if latestScore == nil {
		return []activitySuggestion{
			{Activity: "breathing", Icon: "🫁", Reason: "Start with some calming breaths"},
			{Activity: "music", Icon: "🎵", Reason: "Set a peaceful mood with nature sounds"},
		}
	}

	var candidates []activitySuggestion
	switch score := *latestScore; {
	case score < -0.4:
		candidates = []activitySuggestion{
			{Activity: "breathing", Icon: "🫁", Reason: "Help reduce stress and anxiety"},
			{Activity: "music", Icon: "🎵", Reason: "Calming sounds to soothe your mind"},
			{Activity: "bubbles", Icon: "🫧", Reason: "Pop bubbles to release tension"},
		}
	case score < 0.2:
		candidates = []activitySuggestion{
			{Activity: "memory", Icon: "🧠", Reason: "Gentle mental stimulation"},
			{Activity: "music", Icon: "🎵", Reason: "Background sounds for relaxation"},
			{Activity: "colors", Icon: "🎨", Reason: "Color therapy for mood enhancement"},
		}
	default:
		candidates = []activitySuggestion{
			{Activity: "memory", Icon: "🧠", Reason: "Challenge yourself while feeling good"},
			{Activity: "colors", Icon: "🎨", Reason: "Enhance your positive energy"},
			{Activity: "bubbles", Icon: "🫧", Reason: "Fun and playful stress relief"},
		}
	}

	lastThree := recentlyUsed
	if len(lastThree) > 3 {
		lastThree = lastThree[:3]
	}
	suggestions := make([]activitySuggestion, 0, len(candidates))
	for _, candidate := range candidates {
		if !containsString(lastThree, candidate.Activity) {
			suggestions = append(suggestions, candidate)
		}
	}
	if len(suggestions) == 0 {
		suggestions = candidates[:2]
		for i := range suggestions {
			suggestions[i].Reason += " (try something new!)"
		}
	}
	return suggestions
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

func (a *App) activitySuggestions(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Missing identity")
		return
	}

	ctx := c.Request.Context()
	var latestScore *float64
	var score float64
	err := a.db.QueryRow(
		ctx,
		`SELECT "sentimentScore" FROM "Exchange"
		 WHERE "userName" = $1 ORDER BY "timestamp" DESC LIMIT 1`,
		identity.UserName,
	).Scan(&score)
	if err == nil {
		latestScore = &score
	}

	rows, err := a.db.Query(
		ctx,
		`SELECT "activityType" FROM "ActivityLog"
		 WHERE "userName" = $1 ORDER BY "timestamp" DESC LIMIT 10`,
		identity.UserName,
	)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load activity suggestions")
		return
	}
	defer rows.Close()

	recentlyUsed := make([]string, 0, 10)
	for rows.Next() {
		var activityType string
		if err := rows.Scan(&activityType); err != nil {
			writeError(c, http.StatusInternalServerError, "Failed to load activity suggestions")
			return
		}
		recentlyUsed = append(recentlyUsed, activityType)
	}
	if err := rows.Err(); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load activity suggestions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestActivities(latestScore, recentlyUsed)})
}
