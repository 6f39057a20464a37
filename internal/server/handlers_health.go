package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type symptomRequest struct {
	Symptoms string `json:"symptoms"`
}

func (a *App) analyzeSymptoms(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Missing identity")
		return
	}

	var payload symptomRequest
	if !mustJSON(c, &payload) {
		return
	}
	symptoms := strings.TrimSpace(payload.Symptoms)
	if symptoms == "" {
		writeError(c, http.StatusBadRequest, "symptoms is required")
		return
	}

	analysis := analyzeSymptomText(symptoms)
	recordID, err := a.insertHealthRecord(
		c.Request.Context(),
		identity.UserName,
		symptoms,
		analysis.SeverityScore,
		mustMarshalJSON(analysis),
	)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to save health record")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"record_id":           recordID,
		"detected_symptoms":   analysis.DetectedSymptoms,
		"risk_level":          analysis.RiskLevel,
		"severity_score":      analysis.SeverityScore,
		"urgency":             analysis.Urgency,
		"recommendations":     analysis.Recommendations,
		"categories_affected": analysis.CategoriesAffected,
	})
}

type vitalsRequest struct {
	HeartRate   int     `json:"heart_rate"`
	BPSystolic  int     `json:"bp_systolic"`
	BPDiastolic int     `json:"bp_diastolic"`
	Temperature float64 `json:"temperature"`
	Weight      float64 `json:"weight"`
	Notes       string  `json:"notes"`
}

func (a *App) addVitals(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Missing identity")
		return
	}

	var payload vitalsRequest
	if !mustJSON(c, &payload) {
		return
	}

	err := a.insertVitalSigns(
		c.Request.Context(),
		identity.UserName,
		payload.HeartRate,
		payload.BPSystolic,
		payload.BPDiastolic,
		payload.Temperature,
		payload.Weight,
		strings.TrimSpace(payload.Notes),
	)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to save vitals")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vitals recorded successfully"})
}

func (a *App) getHealthHistory(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Missing identity")
		return
	}

	ctx := c.Request.Context()
	recordRows, err := a.db.Query(
		ctx,
		`SELECT symptoms, analysis, "timestamp" FROM "HealthRecord"
		 WHERE "userName" = $1 ORDER BY "timestamp" DESC LIMIT 10`,
		identity.UserName,
	)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load health history")
		return
	}
	defer recordRows.Close()

	healthRecords := make([]gin.H, 0, 10)
	for recordRows.Next() {
		var symptoms, analysis string
		var timestamp time.Time
		if err := recordRows.Scan(&symptoms, &analysis, &timestamp); err != nil {
			writeError(c, http.StatusInternalServerError, "Failed to load health history")
			return
		}
		healthRecords = append(healthRecords, gin.H{
			"symptoms":  symptoms,
			"analysis":  parseJSONStringMap([]byte(analysis)),
			"timestamp": timestamp.UTC().Format(time.RFC3339),
		})
	}
	if err := recordRows.Err(); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load health history")
		return
	}

	vitalRows, err := a.db.Query(
		ctx,
		`SELECT "heartRate", "bloodPressureSystolic", "bloodPressureDiastolic", temperature, weight, "timestamp" FROM "VitalSigns"
		 WHERE "userName" = $1 ORDER BY "timestamp" DESC LIMIT 10`,
		identity.UserName,
	)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load health history")
		return
	}
	defer vitalRows.Close()

	vitalSigns := make([]gin.H, 0, 10)
	for vitalRows.Next() {
		var heartRate, systolic, diastolic int
		var temperature, weight float64
		var timestamp time.Time
		if err := vitalRows.Scan(&heartRate, &systolic, &diastolic, &temperature, &weight, &timestamp); err != nil {
			writeError(c, http.StatusInternalServerError, "Failed to load health history")
			return
		}
		var bloodPressure any
		if systolic > 0 && diastolic > 0 {
			bloodPressure = fmt.Sprintf("%d/%d", systolic, diastolic)
		}
		vitalSigns = append(vitalSigns, gin.H{
			"heart_rate":     heartRate,
			"blood_pressure": bloodPressure,
			"temperature":    temperature,
			"weight":         weight,
			"timestamp":      timestamp.UTC().Format(time.RFC3339),
		})
	}
	if err := vitalRows.Err(); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load health history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"health_records": healthRecords,
		"vital_signs":    vitalSigns,
	})
}

func (a *App) healthInsights(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Missing identity")
		return
	}

	rows, err := a.db.Query(
		c.Request.Context(),
		`SELECT "severityScore", "timestamp" FROM "HealthRecord"
		 WHERE "userName" = $1 ORDER BY "timestamp" DESC LIMIT 30`,
		identity.UserName,
	)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load health insights")
		return
	}
	defer rows.Close()

	severityTrend := make([]gin.H, 0, 30)
	recentScores := make([]int, 0, 7)
	for rows.Next() {
		var score int
		var timestamp time.Time
		if err := rows.Scan(&score, &timestamp); err != nil {
			writeError(c, http.StatusInternalServerError, "Failed to load health insights")
			return
		}
		severityTrend = append(severityTrend, gin.H{
			"score": score,
			"date":  timestamp.UTC().Format(time.RFC3339),
		})
		if len(recentScores) < 7 {
			recentScores = append(recentScores, score)
		}
	}
	if err := rows.Err(); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load health insights")
		return
	}

	status, color := healthStatusFromScores(recentScores)
	c.JSON(http.StatusOK, gin.H{
		"health_status":  status,
		"status_color":   color,
		"severity_trend": severityTrend,
	})
}

type moodEntryRequest struct {
	Score *float64 `json:"score"`
	Note  string   `json:"note"`
}

// addMoodEntry stores an explicit check-in. Without an explicit score the
// note text is scored the same way chat messages are.
func (a *App) addMoodEntry(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Missing identity")
		return
	}

	var payload moodEntryRequest
	if !mustJSON(c, &payload) {
		return
	}
	note := strings.TrimSpace(payload.Note)
	if payload.Score == nil && note == "" {
		writeError(c, http.StatusBadRequest, "score or note is required")
		return
	}

	score := 0.0
	if payload.Score != nil {
		score = *payload.Score
	} else {
		score = a.sentiment.Score(note)
	}

	if err := a.insertMoodEntry(c.Request.Context(), identity.UserName, score, note); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to save mood entry")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"score":  score,
	})
}

type goalRequest struct {
	Title string `json:"title"`
}

func (a *App) createGoal(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Missing identity")
		return
	}

	var payload goalRequest
	if !mustJSON(c, &payload) {
		return
	}
	title := strings.TrimSpace(payload.Title)
	if title == "" {
		writeError(c, http.StatusBadRequest, "title is required")
		return
	}

	goalID, err := a.insertGoal(c.Request.Context(), identity.UserName, title)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to create goal")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":     goalID,
		"title":  title,
		"status": "active",
	})
}

type goalStatusRequest struct {
	Status string `json:"status"`
}

var goalStatuses = map[string]bool{
	"active":    true,
	"completed": true,
	"abandoned": true,
}

func (a *App) updateGoalStatus(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Missing identity")
		return
	}

	goalID := strings.TrimSpace(c.Param("id"))
	var payload goalStatusRequest
	if !mustJSON(c, &payload) {
		return
	}
	status := strings.TrimSpace(strings.ToLower(payload.Status))
	if !goalStatuses[status] {
		writeError(c, http.StatusBadRequest, "status must be active, completed, or abandoned")
		return
	}

	updated, err := a.setGoalStatus(c.Request.Context(), identity.UserName, goalID, status)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to update goal")
		return
	}
	if !updated {
		writeError(c, http.StatusNotFound, "Goal not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":     goalID,
		"status": status,
	})
}

func (a *App) listGoals(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Missing identity")
		return
	}

	rows, err := a.db.Query(
		c.Request.Context(),
		`SELECT id, title, status, "createdAt" FROM "Goal"
		 WHERE "userName" = $1 ORDER BY "createdAt" DESC`,
		identity.UserName,
	)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load goals")
		return
	}
	defer rows.Close()

	goals := make([]gin.H, 0)
	for rows.Next() {
		var id, title, status string
		var createdAt time.Time
		if err := rows.Scan(&id, &title, &status, &createdAt); err != nil {
			writeError(c, http.StatusInternalServerError, "Failed to load goals")
			return
		}
		goals = append(goals, gin.H{
			"id":         id,
			"title":      title,
			"status":     status,
			"created_at": createdAt.UTC().Format(time.RFC3339),
		})
	}
	if err := rows.Err(); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load goals")
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": goals})
}
