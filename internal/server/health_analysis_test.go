package server

import (
	"reflect"
	"testing"
)

func TestAnalyzeSymptomTextScoresAndCategorizes(t *testing.T) {
	t.Parallel()

	analysis := analyzeSymptomText("I have a bad Cough and a slight fever")
	if !reflect.DeepEqual(analysis.DetectedSymptoms, []string{"cough", "fever"}) {
		t.Fatalf("unexpected detected symptoms: %v", analysis.DetectedSymptoms)
	}
	if analysis.SeverityScore != 9 {
		t.Fatalf("expected severity 9 (cough 3 + fever 6), got %d", analysis.SeverityScore)
	}
	if analysis.RiskLevel != "Medium" {
		t.Fatalf("expected Medium risk, got %q", analysis.RiskLevel)
	}
	if !reflect.DeepEqual(analysis.CategoriesAffected, []string{"infection", "respiratory"}) {
		t.Fatalf("unexpected categories: %v", analysis.CategoriesAffected)
	}
	if len(analysis.Recommendations) == 0 {
		t.Fatal("expected category recommendations")
	}
}

func TestAnalyzeSymptomTextRiskLevels(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		symptoms string
		want     string
	}{
		{name: "high", symptoms: "chest pain and shortness of breath", want: "High"},
		{name: "medium", symptoms: "fever and nausea", want: "Medium"},
		{name: "low", symptoms: "a mild rash", want: "Low"},
		{name: "nothing recognized", symptoms: "just feeling off", want: "Low"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := analyzeSymptomText(tc.symptoms).RiskLevel; got != tc.want {
				t.Fatalf("analyzeSymptomText(%q).RiskLevel = %q, want %q", tc.symptoms, got, tc.want)
			}
		})
	}
}

func TestHealthStatusFromScores(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		scores    []int
		want      string
		wantColor string
	}{
		{name: "no data", scores: nil, want: "No Data", wantColor: "gray"},
		{name: "good", scores: []int{2, 3, 4}, want: "Good", wantColor: "green"},
		{name: "fair", scores: []int{8, 6, 9}, want: "Fair", wantColor: "orange"},
		{name: "needs attention", scores: []int{12, 15}, want: "Needs Attention", wantColor: "red"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			status, color := healthStatusFromScores(tc.scores)
			if status != tc.want || color != tc.wantColor {
				t.Fatalf("healthStatusFromScores(%v) = (%q, %q), want (%q, %q)", tc.scores, status, color, tc.want, tc.wantColor)
			}
		})
	}
}
