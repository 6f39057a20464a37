package server

import (
	"sort"
	"strings"
)

type symptomProfile struct {
	severity int
	category string
}

// symptomDatabase maps known symptom phrases to a coarse severity weight and
// a body-system category. Matching is substring based on the lower-cased
// description, so "high fever" still hits "fever".
var symptomDatabase = map[string]symptomProfile{
	"fever":               {severity: 6, category: "infection"},
	"headache":            {severity: 4, category: "neurological"},
	"chest pain":          {severity: 9, category: "cardiac"},
	"shortness of breath": {severity: 8, category: "respiratory"},
	"cough":               {severity: 3, category: "respiratory"},
	"fatigue":             {severity: 3, category: "general"},
	"nausea":              {severity: 4, category: "gastrointestinal"},
	"dizziness":           {severity: 5, category: "neurological"},
	"abdominal pain":      {severity: 6, category: "gastrointestinal"},
	"rash":                {severity: 3, category: "dermatological"},
}

var categoryRecommendations = map[string][]string{
	"infection":        {"Rest and hydration", "Monitor temperature", "Consider consulting doctor if fever persists"},
	"cardiac":          {"Seek immediate medical attention", "Avoid physical exertion", "Call emergency services if severe"},
	"respiratory":      {"Ensure adequate ventilation", "Stay hydrated", "Monitor breathing patterns"},
	"neurological":     {"Rest in quiet environment", "Stay hydrated", "Monitor symptoms"},
	"gastrointestinal": {"Stay hydrated", "Eat bland foods", "Monitor symptoms"},
	"dermatological":   {"Keep area clean", "Avoid irritants", "Monitor for changes"},
	"general":          {"Ensure adequate rest", "Maintain healthy diet", "Stay hydrated"},
}

type symptomAnalysis struct {
	DetectedSymptoms   []string `json:"detected_symptoms"`
	RiskLevel          string   `json:"risk_level"`
	SeverityScore      int      `json:"severity_score"`
	Urgency            string   `json:"urgency"`
	Recommendations    []string `json:"recommendations"`
	CategoriesAffected []string `json:"categories_affected"`
}

// analyzeSymptomText scores a free-text symptom description against the
// fixed symptom table. Not a diagnostic tool; the output is triage-flavored
// guidance only.
func analyzeSymptomText(symptomsText string) symptomAnalysis {
	lower := strings.ToLower(symptomsText)

	detected := make([]string, 0, 4)
	categories := make(map[string]bool)
	totalSeverity := 0
	for symptom, profile := range symptomDatabase {
		if strings.Contains(lower, symptom) {
			detected = append(detected, symptom)
			totalSeverity += profile.severity
			categories[profile.category] = true
		}
	}
	sort.Strings(detected)

	riskLevel := "Low"
	urgency := "Monitor symptoms and rest"
	switch {
	case totalSeverity >= 15:
		riskLevel = "High"
		urgency = "Seek immediate medical attention"
	case totalSeverity >= 8:
		riskLevel = "Medium"
		urgency = "Consider consulting a healthcare provider"
	}

	categoryList := make([]string, 0, len(categories))
	for category := range categories {
		categoryList = append(categoryList, category)
	}
	sort.Strings(categoryList)

	seen := make(map[string]bool)
	recommendations := make([]string, 0, 8)
	for _, category := range categoryList {
		for _, recommendation := range categoryRecommendations[category] {
			if !seen[recommendation] {
				seen[recommendation] = true
				recommendations = append(recommendations, recommendation)
			}
		}
	}

	return symptomAnalysis{
		DetectedSymptoms:   detected,
		RiskLevel:          riskLevel,
		SeverityScore:      totalSeverity,
		Urgency:            urgency,
		Recommendations:    recommendations,
		CategoriesAffected: categoryList,
	}
}

// healthStatusFromScores maps the average severity of the most recent
// records to a coarse status label.
func healthStatusFromScores(recentScores []int) (string, string) {
	if len(recentScores) == 0 {
		return "No Data", "gray"
	}
	total := 0
	for _, score := range recentScores {
		total += score
	}
	average := float64(total) / float64(len(recentScores))
	switch {
	case average < 5:
		return "Good", "green"
	case average < 10:
		return "Fair", "orange"
	default:
		return "Needs Attention", "red"
	}
}
