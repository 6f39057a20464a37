package server

import (
	"strings"
	"testing"
)

func TestBuildCompanionPromptWithHistory(t *testing.T) {
	t.Parallel()

	turns := []ChatTurn{
		{UserMessage: "hi there", BotResponse: "hello!"},
		{UserMessage: "I had a rough day", BotResponse: "that sounds hard"},
	}
	prompt := buildCompanionPrompt(turns, "Be gentle.", "Sam", "Luna", "can we talk?")

	if !strings.HasPrefix(prompt, companionPersona) {
		t.Fatalf("prompt should open with the persona, got %q", prompt)
	}
	if !strings.Contains(prompt, "Previous conversation:\nHuman: hi there\nAI: hello!\n") {
		t.Fatalf("prompt missing conversation context: %q", prompt)
	}
	if !strings.Contains(prompt, "Be gentle.") {
		t.Fatalf("prompt missing tone instruction: %q", prompt)
	}
	if !strings.HasSuffix(prompt, "Human (Sam): can we talk?\nAI (Luna):") {
		t.Fatalf("prompt should end with the completion cue, got %q", prompt)
	}
}

func TestBuildCompanionPromptWithoutHistory(t *testing.T) {
	t.Parallel()

	prompt := buildCompanionPrompt(nil, "Be supportive.", "Sam", "Luna", "hello")
	if strings.Contains(prompt, "Previous conversation:") {
		t.Fatalf("empty history must not emit a conversation block: %q", prompt)
	}
}

func TestStripEchoPrefix(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		response string
		want     string
	}{
		{name: "full tag", response: "AI (Luna): I'm here for you.", want: "I'm here for you."},
		{name: "bot name tag", response: "Luna: hello!", want: "hello!"},
		{name: "bare tag", response: "AI: how are you?", want: "how are you?"},
		{name: "no tag", response: "just a reply", want: "just a reply"},
		{name: "whitespace", response: "  AI (Luna):   trimmed  ", want: "trimmed"},
		{name: "empty", response: "", want: ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := stripEchoPrefix(tc.response, "Luna"); got != tc.want {
				t.Fatalf("stripEchoPrefix(%q) = %q, want %q", tc.response, got, tc.want)
			}
		})
	}
}
