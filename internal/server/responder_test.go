package server

import (
	"math/rand"
	"strings"
	"testing"
)

func TestHeuristicResponderIsDeterministicWhenSeeded(t *testing.T) {
	t.Parallel()

	first := NewHeuristicResponder(rand.New(rand.NewSource(42))).Respond("I feel so sad today", "Mia")
	second := NewHeuristicResponder(rand.New(rand.NewSource(42))).Respond("I feel so sad today", "Mia")
	if first != second {
		t.Fatalf("same seed should produce the same reply: %q vs %q", first, second)
	}
}

func TestHeuristicResponderPicksEmotionCategory(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		message  string
		fragment string
	}{
		{name: "sad", message: "I'm feeling really sad", fragment: "feeling down"},
		{name: "anxious", message: "so worried about tomorrow", fragment: "Anxiety"},
		{name: "angry", message: "I'm so mad right now", fragment: "frustration"},
		{name: "happy", message: "today was wonderful", fragment: "positive"},
		{name: "music", message: "put on a song", fragment: "Music"},
		{name: "tired", message: "I'm exhausted", fragment: "rest"},
		{name: "lonely", message: "I feel so alone", fragment: "not alone"},
	}

	responder := NewHeuristicResponder(rand.New(rand.NewSource(7)))
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			reply := responder.Respond(tc.message, "Mia")
			if !strings.Contains(reply, tc.fragment) {
				t.Fatalf("Respond(%q) = %q, want fragment %q", tc.message, reply, tc.fragment)
			}
			if !strings.Contains(reply, "Mia") {
				t.Fatalf("reply should address the user by name: %q", reply)
			}
		})
	}
}

func TestHeuristicResponderAlwaysAnswers(t *testing.T) {
	t.Parallel()

	responder := NewHeuristicResponder(rand.New(rand.NewSource(3)))
	for _, message := range []string{"", "zzz", "what do you think about quantum physics"} {
		if reply := responder.Respond(message, "Mia"); strings.TrimSpace(reply) == "" {
			t.Fatalf("Respond(%q) returned an empty reply", message)
		}
	}
}
