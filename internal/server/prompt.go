package server

import "strings"

// ChatTurn is one persisted user-message/bot-response pair, oldest first when
// used as prompt context.
type ChatTurn struct {
	UserMessage string
	BotResponse string
}

const companionPersona = "You are an empathetic AI companion with interactive wellness features."

const companionFeatures = `You have access to these interactive features to suggest to users:
- Calming music (rain, forest, ocean, birds, meditation sounds)
- Bubble popping game for stress relief
- Memory game for mental focus
- Breathing exercises for anxiety
- Color therapy for mood enhancement

Suggest these activities when appropriate based on the user's emotional state.`

// buildCompanionPrompt assembles the single prompt string sent verbatim to the
// generate endpoint: persona, feature block, up to the last few turns as
// alternating Human:/AI: lines, the tone instruction, and the final cue that
// the model is expected to continue.
func buildCompanionPrompt(turns []ChatTurn, toneInstruction, userName, botName, message string) string {
	var b strings.Builder
	b.WriteString(companionPersona)
	b.WriteString("\n\n")
	b.WriteString(companionFeatures)
	b.WriteString("\n\n")

	if len(turns) > 0 {
		b.WriteString("Previous conversation:\n")
		for _, turn := range turns {
			b.WriteString("Human: ")
			b.WriteString(turn.UserMessage)
			b.WriteString("\nAI: ")
			b.WriteString(turn.BotResponse)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(toneInstruction)
	b.WriteString("\n\n")
	b.WriteString("Human (")
	b.WriteString(userName)
	b.WriteString("): ")
	b.WriteString(strings.TrimSpace(message))
	b.WriteString("\nAI (")
	b.WriteString(botName)
	b.WriteString("):")
	return b.String()
}

// stripEchoPrefix removes the speaker tag some models echo back at the start
// of a generation.
func stripEchoPrefix(response, botName string) string {
	cleaned := strings.TrimSpace(response)
	for _, prefix := range []string{"AI (" + botName + "):", botName + ":", "AI:"} {
		if strings.HasPrefix(cleaned, prefix) {
			return strings.TrimSpace(cleaned[len(prefix):])
		}
	}
	return cleaned
}
