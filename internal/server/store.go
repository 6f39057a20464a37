package server

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Preferences is one row of "UserPreference": the caller's chosen companion
// identity. Missing rows resolve to the configured defaults.
type Preferences struct {
	UserName   string
	BotName    string
	BotAvatar  string
	AvatarType string
}

type exchangeRecord struct {
	UserMessage    string
	BotResponse    string
	BotAvatar      string
	SentimentScore float64
	Timestamp      time.Time
}

func (a *App) recordExchange(ctx context.Context, userName, botName, botAvatar, userMessage, botResponse string, sentimentScore float64) error {
	_, err := a.db.Exec(
		ctx,
		`INSERT INTO "Exchange" (id, "userName", "botName", "botAvatar", "userMessage", "botResponse", "sentimentScore", "timestamp")
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
		uuid.NewString(), userName, botName, botAvatar, userMessage, botResponse, sentimentScore,
	)
	return err
}

// loadRecentTurns returns the last `limit` exchanges of the thread in
// chronological order, ready to splice into a prompt.
func (a *App) loadRecentTurns(ctx context.Context, userName, botName string, limit int) ([]ChatTurn, error) {
	rows, err := a.db.Query(
		ctx,
		`SELECT "userMessage", "botResponse" FROM "Exchange"
		 WHERE "userName" = $1 AND "botName" = $2
		 ORDER BY "timestamp" DESC LIMIT $3`,
		userName, botName, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	turns := make([]ChatTurn, 0, limit)
	for rows.Next() {
		var turn ChatTurn
		if err := rows.Scan(&turn.UserMessage, &turn.BotResponse); err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Query is newest-first so LIMIT keeps the right window; reverse for
	// oldest-first prompt order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

func (a *App) loadFullHistory(ctx context.Context, userName, botName string) ([]exchangeRecord, error) {
	rows, err := a.db.Query(
		ctx,
		`SELECT "userMessage", "botResponse", "botAvatar", "sentimentScore", "timestamp" FROM "Exchange"
		 WHERE "userName" = $1 AND "botName" = $2
		 ORDER BY "timestamp" ASC`,
		userName, botName,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]exchangeRecord, 0)
	for rows.Next() {
		var record exchangeRecord
		if err := rows.Scan(&record.UserMessage, &record.BotResponse, &record.BotAvatar, &record.SentimentScore, &record.Timestamp); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (a *App) clearExchanges(ctx context.Context, userName, botName string) (int64, error) {
	tag, err := a.db.Exec(
		ctx,
		`DELETE FROM "Exchange" WHERE "userName" = $1 AND "botName" = $2`,
		userName, botName,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// upsertPreferences keeps exactly one row per user name.
func (a *App) upsertPreferences(ctx context.Context, prefs Preferences) error {
	_, err := a.db.Exec(
		ctx,
		`INSERT INTO "UserPreference" (id, "userName", "botName", "botAvatar", "avatarType", "updatedAt")
		 VALUES ($1, $2, $3, $4, $5, now())
		 ON CONFLICT ("userName") DO UPDATE SET
		   "botName" = EXCLUDED."botName",
		   "botAvatar" = EXCLUDED."botAvatar",
		   "avatarType" = EXCLUDED."avatarType",
		   "updatedAt" = now()`,
		uuid.NewString(), prefs.UserName, prefs.BotName, prefs.BotAvatar, prefs.AvatarType,
	)
	return err
}

// loadPreferences returns the stored row, or the configured defaults when the
// user has never saved settings. The absence of a row is not an error.
func (a *App) loadPreferences(ctx context.Context, userName string) (Preferences, error) {
	prefs := Preferences{
		UserName:   userName,
		BotName:    a.cfg.DefaultBotName,
		BotAvatar:  a.cfg.DefaultBotAvatar,
		AvatarType: a.cfg.DefaultAvatarType,
	}

	rows, err := a.db.Query(
		ctx,
		`SELECT "botName", "botAvatar", "avatarType" FROM "UserPreference" WHERE "userName" = $1`,
		userName,
	)
	if err != nil {
		return prefs, err
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&prefs.BotName, &prefs.BotAvatar, &prefs.AvatarType); err != nil {
			return prefs, err
		}
	}
	return prefs, rows.Err()
}

func (a *App) insertActivityLog(ctx context.Context, userName, activityType, activityData string) error {
	_, err := a.db.Exec(
		ctx,
		`INSERT INTO "ActivityLog" (id, "userName", "activityType", "activityData", "timestamp")
		 VALUES ($1, $2, $3, $4, now())`,
		uuid.NewString(), userName, activityType, activityData,
	)
	return err
}

func (a *App) insertHealthRecord(ctx context.Context, userName, symptoms string, severityScore int, analysis string) (string, error) {
	recordID := uuid.NewString()
	_, err := a.db.Exec(
		ctx,
		`INSERT INTO "HealthRecord" (id, "userName", symptoms, "severityScore", analysis, "timestamp")
		 VALUES ($1, $2, $3, $4, $5, now())`,
		recordID, userName, symptoms, severityScore, analysis,
	)
	return recordID, err
}

func (a *App) insertVitalSigns(ctx context.Context, userName string, heartRate, systolic, diastolic int, temperature, weight float64, notes string) error {
	_, err := a.db.Exec(
		ctx,
		`INSERT INTO "VitalSigns" (id, "userName", "heartRate", "bloodPressureSystolic", "bloodPressureDiastolic", temperature, weight, notes, "timestamp")
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())`,
		uuid.NewString(), userName, heartRate, systolic, diastolic, temperature, weight, notes,
	)
	return err
}

func (a *App) insertMoodEntry(ctx context.Context, userName string, score float64, note string) error {
	_, err := a.db.Exec(
		ctx,
		`INSERT INTO "MoodEntry" (id, "userName", score, note, "timestamp")
		 VALUES ($1, $2, $3, $4, now())`,
		uuid.NewString(), userName, score, note,
	)
	return err
}

func (a *App) insertGoal(ctx context.Context, userName, title string) (string, error) {
	goalID := uuid.NewString()
	_, err := a.db.Exec(
		ctx,
		`INSERT INTO "Goal" (id, "userName", title, status, "createdAt")
		 VALUES ($1, $2, $3, 'active', now())`,
		goalID, userName, title,
	)
	return goalID, err
}

func (a *App) setGoalStatus(ctx context.Context, userName, goalID, status string) (bool, error) {
	tag, err := a.db.Exec(
		ctx,
		`UPDATE "Goal" SET status = $1 WHERE id = $2 AND "userName" = $3`,
		status, goalID, userName,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
