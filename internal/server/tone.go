package server

import "strings"

type keywordTone struct {
	words       []string
	instruction string
}

// Keyword overrides are checked in order and win over the sentiment buckets:
// "I feel really anxious" should get the anxiety guidance even when the
// compound score alone would land in a generic bucket.
var keywordTones = []keywordTone{
	{
		words:       []string{"anxious", "anxiety", "panic", "worried", "stress"},
		instruction: "The user is experiencing anxiety. Be calming and suggest relaxation activities like breathing exercises or calming music.",
	},
	{
		words:       []string{"depressed", "depression", "sad", "empty", "hopeless"},
		instruction: "The user may be dealing with depression. Be extra supportive, gentle, and suggest uplifting activities.",
	},
	{
		words:       []string{"angry", "furious", "mad", "frustrated"},
		instruction: "The user is angry or frustrated. Validate their feelings and suggest stress-relief activities like bubble popping.",
	},
	{
		words:       []string{"lonely", "alone", "isolated", "nobody cares"},
		instruction: "The user feels lonely. Provide warmth, companionship, and suggest interactive activities.",
	},
	{
		words:       []string{"confused", "lost", "don't know", "unclear"},
		instruction: "The user is confused or lost. Offer clarity, gentle guidance, and suggest calming activities.",
	},
	{
		words:       []string{"music", "sound", "song"},
		instruction: "The user mentioned music. Suggest the music features and ask about their preferences.",
	},
	{
		words:       []string{"game", "play", "fun", "activity"},
		instruction: "The user is interested in activities. Suggest the available games and interactive features.",
	},
}

// empathyContext selects the tone instruction injected into the model prompt.
func empathyContext(userInput string, sentimentScore float64) string {
	lower := strings.ToLower(userInput)

	for _, tone := range keywordTones {
		for _, word := range tone.words {
			if strings.Contains(lower, word) {
				return tone.instruction
			}
		}
	}

	switch {
	case sentimentScore <= -0.6:
		return "The user is feeling very negative. Provide strong emotional support and suggest calming activities."
	case sentimentScore <= -0.2:
		return "The user seems down. Offer gentle encouragement, validation, and suggest mood-lifting activities."
	case sentimentScore <= 0.2:
		return "The user has neutral feelings. Be supportive and gently suggest interactive features."
	case sentimentScore <= 0.6:
		return "The user seems positive. Match their energy while staying supportive and suggest fun activities."
	default:
		return "The user is very positive. Share in their happiness and suggest engaging activities to maintain the mood."
	}
}
