package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"empathyai/backend/internal/config"
)

type dbQuerier interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

var _ dbQuerier = (*pgxpool.Pool)(nil)

type App struct {
	cfg       config.Config
	db        *pgxpool.Pool
	primary   CompletionClient
	fallback  ChatCompleter
	sentiment SentimentScorer
	responder *HeuristicResponder
}

// Identity is the per-request chat identity. There is no account system:
// a bearer session token (issued by POST /session) or the X-User-Name header
// names the caller, and everything else keys off that name.
type Identity struct {
	UserName string
}

func New(cfg config.Config, pool *pgxpool.Pool) *App {
	app := &App{
		cfg:       cfg,
		db:        pool,
		primary:   NewOllamaClient(cfg),
		sentiment: NewVaderScorer(),
		responder: NewHeuristicResponder(rand.New(rand.NewSource(time.Now().UnixNano()))),
	}
	if strings.TrimSpace(cfg.GroqAPIKey) != "" {
		app.fallback = NewGroqClient(cfg)
	}
	return app
}

func (a *App) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-User-Name"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", a.health)

	api := router.Group(a.cfg.APIPrefix)
	api.POST("/session", a.createSession)
	api.Use(a.identityMiddleware())

	api.POST("/chat", a.chat)
	api.GET("/history", a.getHistory)
	api.POST("/clear", a.clearHistory)
	api.GET("/settings", a.getSettings)
	api.POST("/settings", a.updateSettings)
	api.POST("/activities", a.logActivity)
	api.GET("/analytics/mood", a.moodAnalytics)
	api.GET("/analytics/activities", a.activityStats)
	api.GET("/analytics/suggestions", a.activitySuggestions)
	api.POST("/health/symptoms", a.analyzeSymptoms)
	api.POST("/health/vitals", a.addVitals)
	api.GET("/health/history", a.getHealthHistory)
	api.GET("/health/insights", a.healthInsights)
	api.POST("/mood", a.addMoodEntry)
	api.POST("/goals", a.createGoal)
	api.PATCH("/goals/:id", a.updateGoalStatus)
	api.GET("/goals", a.listGoals)
	api.GET("/export", a.exportUserData)
	api.GET("/status", a.getStatus)

	return router
}

func (a *App) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "empathyai-api",
	})
}

type sessionRequest struct {
	UserName string `json:"user_name"`
}

func (a *App) createSession(c *gin.Context) {
	var payload sessionRequest
	if !mustJSON(c, &payload) {
		return
	}

	userName := strings.TrimSpace(payload.UserName)
	if userName == "" {
		userName = a.cfg.DefaultUserName
	}

	claims := jwt.MapClaims{
		"name": userName,
		"iat":  time.Now().UTC().Unix(),
		"exp":  time.Now().UTC().Add(30 * 24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.cfg.SessionSecret))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to issue session token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     signed,
		"user_name": userName,
	})
}

func (a *App) identityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			tokenString := strings.TrimSpace(authHeader[len("Bearer "):])
			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
				if token.Method == nil || token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(a.cfg.SessionSecret), nil
			})
			if err != nil || !token.Valid {
				writeError(c, http.StatusUnauthorized, "Invalid session token")
				return
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				writeError(c, http.StatusUnauthorized, "Invalid session token payload")
				return
			}
			name, _ := claims["name"].(string)
			name = strings.TrimSpace(name)
			if name == "" {
				name = a.cfg.DefaultUserName
			}
			c.Set("identity", Identity{UserName: name})
			c.Next()
			return
		}

		name := strings.TrimSpace(c.GetHeader("X-User-Name"))
		if name == "" {
			name = a.cfg.DefaultUserName
		}
		c.Set("identity", Identity{UserName: name})
		c.Next()
	}
}

func identityFromContext(c *gin.Context) (Identity, bool) {
	raw, ok := c.Get("identity")
	if !ok {
		return Identity{}, false
	}
	identity, ok := raw.(Identity)
	return identity, ok
}

func writeError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func mustJSON(c *gin.Context, payload any) bool {
	if err := c.ShouldBindJSON(payload); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

func mustMarshalJSON(input any) string {
	encoded, err := json.Marshal(input)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}

func parseJSONStringMap(input []byte) map[string]any {
	if len(input) == 0 {
		return map[string]any{}
	}
	var result map[string]any
	if err := json.Unmarshal(input, &result); err != nil || result == nil {
		return map[string]any{}
	}
	return result
}

func toString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}

func truncateRunes(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max]) + "..."
}
