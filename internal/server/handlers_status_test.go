package server

import (
	"context"
	"net/http"
	"testing"
)

func TestStatusReportsAvailabilityAndCounts(t *testing.T) {
	resetDatabase(t)

	app := newTestApp(t, &stubPrimary{available: false}, nil)
	ctx := context.Background()
	if err := app.recordExchange(ctx, "Sam", "EmpathyBot", "🤖", "hi", "hello", 0.2); err != nil {
		t.Fatalf("record exchange: %v", err)
	}
	if err := app.insertActivityLog(ctx, "Sam", "breathing", "{}"); err != nil {
		t.Fatalf("insert activity: %v", err)
	}

	rec := performRequest(t, app.Router(), http.MethodGet, "/api/v1/status", nil, userHeaders("Sam"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeJSONMap(t, rec)
	if body["ollama_available"] != false {
		t.Fatalf("expected ollama_available=false, got %v", body["ollama_available"])
	}
	if body["empathy_model"] != "empathy-support" {
		t.Fatalf("unexpected model: %v", body["empathy_model"])
	}
	if body["fallback"] != "Enhanced local responses" {
		t.Fatalf("unexpected fallback label: %v", body["fallback"])
	}
	if body["total_conversations"] != float64(1) || body["total_activities"] != float64(1) {
		t.Fatalf("unexpected counts: %v", body)
	}
}

func TestStatusLabelsGroqFallbackWhenConfigured(t *testing.T) {
	resetDatabase(t)

	app := newTestApp(t, &stubPrimary{available: false}, &stubFallback{reply: "ok"})
	rec := performRequest(t, app.Router(), http.MethodGet, "/api/v1/status", nil, userHeaders("Sam"))
	if body := decodeJSONMap(t, rec); body["fallback"] != "Groq API" {
		t.Fatalf("unexpected fallback label: %v", body["fallback"])
	}
}

func TestExportBundlesUserData(t *testing.T) {
	resetDatabase(t)

	app := newTestApp(t, &stubPrimary{available: false}, nil)
	ctx := context.Background()
	if err := app.recordExchange(ctx, "Sam", "EmpathyBot", "🤖", "hello", "hi there", 0.3); err != nil {
		t.Fatalf("record exchange: %v", err)
	}
	if err := app.insertActivityLog(ctx, "Sam", "music", `{"sound":"rain"}`); err != nil {
		t.Fatalf("insert activity: %v", err)
	}
	if err := app.insertMoodEntry(ctx, "Sam", 0.6, "feeling better"); err != nil {
		t.Fatalf("insert mood entry: %v", err)
	}

	rec := performRequest(t, app.Router(), http.MethodGet, "/api/v1/export", nil, userHeaders("Sam"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeJSONMap(t, rec)
	if history, _ := body["history"].([]any); len(history) != 1 {
		t.Fatalf("expected one exchange in export, got %v", body["history"])
	}
	if activities, _ := body["activities"].([]any); len(activities) != 1 {
		t.Fatalf("expected one activity in export, got %v", body["activities"])
	}
	if entries, _ := body["mood_entries"].([]any); len(entries) != 1 {
		t.Fatalf("expected one mood entry in export, got %v", body["mood_entries"])
	}
	if _, ok := body["settings"].(map[string]any); !ok {
		t.Fatalf("expected settings block in export, got %v", body["settings"])
	}
}
