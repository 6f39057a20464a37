package server

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS "Exchange" (
		id TEXT PRIMARY KEY,
		"userName" TEXT NOT NULL,
		"botName" TEXT NOT NULL,
		"botAvatar" TEXT NOT NULL DEFAULT '🤖',
		"userMessage" TEXT NOT NULL,
		"botResponse" TEXT NOT NULL,
		"sentimentScore" DOUBLE PRECISION NOT NULL DEFAULT 0,
		"timestamp" TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS "Exchange_thread_idx" ON "Exchange" ("userName", "botName", "timestamp")`,
	`CREATE TABLE IF NOT EXISTS "UserPreference" (
		id TEXT PRIMARY KEY,
		"userName" TEXT NOT NULL UNIQUE,
		"botName" TEXT NOT NULL,
		"botAvatar" TEXT NOT NULL,
		"avatarType" TEXT NOT NULL,
		"updatedAt" TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS "ActivityLog" (
		id TEXT PRIMARY KEY,
		"userName" TEXT NOT NULL,
		"activityType" TEXT NOT NULL,
		"activityData" TEXT NOT NULL DEFAULT '{}',
		"timestamp" TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS "HealthRecord" (
		id TEXT PRIMARY KEY,
		"userName" TEXT NOT NULL,
		symptoms TEXT NOT NULL,
		"severityScore" INTEGER NOT NULL DEFAULT 0,
		analysis TEXT NOT NULL DEFAULT '',
		"timestamp" TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS "VitalSigns" (
		id TEXT PRIMARY KEY,
		"userName" TEXT NOT NULL,
		"heartRate" INTEGER NOT NULL DEFAULT 0,
		"bloodPressureSystolic" INTEGER NOT NULL DEFAULT 0,
		"bloodPressureDiastolic" INTEGER NOT NULL DEFAULT 0,
		temperature DOUBLE PRECISION NOT NULL DEFAULT 0,
		weight DOUBLE PRECISION NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		"timestamp" TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS "MoodEntry" (
		id TEXT PRIMARY KEY,
		"userName" TEXT NOT NULL,
		score DOUBLE PRECISION NOT NULL DEFAULT 0,
		note TEXT NOT NULL DEFAULT '',
		"timestamp" TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS "Goal" (
		id TEXT PRIMARY KEY,
		"userName" TEXT NOT NULL,
		title TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		"createdAt" TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// EnsureSchema creates the runtime tables when they are missing. Every
// statement is idempotent, so repeated boots against the same database are
// safe.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if pool == nil {
		return fmt.Errorf("database pool is nil")
	}
	for _, statement := range schemaStatements {
		if _, err := pool.Exec(ctx, statement); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
