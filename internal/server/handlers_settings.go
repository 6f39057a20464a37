package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type settingsRequest struct {
	BotName    string `json:"bot_name"`
	UserName   string `json:"user_name"`
	BotAvatar  string `json:"bot_avatar"`
	AvatarType string `json:"avatar_type"`
}

func (a *App) getSettings(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Missing identity")
		return
	}

	prefs, err := a.loadPreferences(c.Request.Context(), identity.UserName)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	c.JSON(http.StatusOK, settingsPayload(prefs))
}

// updateSettings trims every field and substitutes the configured default for
// anything left empty, then upserts the single row for this user.
func (a *App) updateSettings(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "Missing identity")
		return
	}

	var payload settingsRequest
	if !mustJSON(c, &payload) {
		return
	}

	prefs := Preferences{
		UserName:   resolveName(payload.UserName, identity.UserName),
		BotName:    resolveName(payload.BotName, a.cfg.DefaultBotName),
		BotAvatar:  resolveName(payload.BotAvatar, a.cfg.DefaultBotAvatar),
		AvatarType: resolveName(payload.AvatarType, a.cfg.DefaultAvatarType),
	}

	if err := a.upsertPreferences(c.Request.Context(), prefs); err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to save settings")
		return
	}
	c.JSON(http.StatusOK, settingsPayload(prefs))
}

func settingsPayload(prefs Preferences) gin.H {
	return gin.H{
		"user_name":   prefs.UserName,
		"bot_name":    prefs.BotName,
		"bot_avatar":  prefs.BotAvatar,
		"avatar_type": prefs.AvatarType,
	}
}

// resolveName collapses whitespace-only input to the fallback.
func resolveName(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
