package server

import (
	"fmt"
	"math/rand"
	"strings"
)

// HeuristicResponder is the terminal tier of the fallback chain. It never
// errors: whatever happens upstream, the user gets a supportive sentence with
// an activity suggestion.
type HeuristicResponder struct {
	rng *rand.Rand
}

func NewHeuristicResponder(rng *rand.Rand) *HeuristicResponder {
	return &HeuristicResponder{rng: rng}
}

func (r *HeuristicResponder) Respond(message, userName string) string {
	lower := strings.ToLower(message)

	if containsAny(lower, "sad", "down", "depressed", "upset") {
		activity := r.pick("calming music 🎵", "bubble popping game 🫧", "breathing exercises 🫁")
		return fmt.Sprintf("I hear that you're feeling down, %s. That's completely valid. Would you like to try some %s? I'm here for you. 💙", userName, activity)
	}
	if containsAny(lower, "anxious", "worried", "stress", "nervous") {
		activity := r.pick("deep breathing 🫁", "bubble popping 🫧", "calming ocean sounds 🌊")
		return fmt.Sprintf("Anxiety can be overwhelming, %s. Let's try %s to help calm your mind. You're not alone in this! 🤗", userName, activity)
	}
	if containsAny(lower, "angry", "mad", "frustrated", "annoyed") {
		return fmt.Sprintf("I can sense your frustration, %s. Those feelings are completely valid. Try popping some bubbles 🫧 to release that tension! Let it all out safely.", userName)
	}
	if containsAny(lower, "happy", "good", "great", "wonderful", "excited") {
		activity := r.pick("memory game 🧠", "color therapy 🎨", "uplifting music 🎵")
		return fmt.Sprintf("I'm so glad to hear you're feeling positive, %s! 😊 Want to try the %s to keep those good vibes going? Your happiness makes me happy too! ✨", userName, activity)
	}
	if containsAny(lower, "music", "sound", "song", "listen") {
		return fmt.Sprintf("Music is such a wonderful healer, %s! 🎵 Try the different nature sounds - rain, forest, or ocean waves. Which type of sounds usually calm you the most?", userName)
	}
	if containsAny(lower, "game", "play", "fun", "activity", "bored") {
		return fmt.Sprintf("Games can be great for relaxation, %s! 🎮 Try bubble popping for stress relief, memory game for focus, or breathing exercise for calmness. What sounds fun to you?", userName)
	}
	if containsAny(lower, "tired", "exhausted", "sleepy") {
		return fmt.Sprintf("It sounds like you need some rest, %s. Try the breathing exercise 🫁 or some gentle forest sounds 🌲 to help you unwind. Self-care is important! 😴", userName)
	}
	if containsAny(lower, "lonely", "alone", "isolated") {
		return fmt.Sprintf("You're not alone, %s. I'm here with you! 🤗 Let's do something together - maybe the memory game 🧠 or just chat while listening to some calming sounds? You matter! 💕", userName)
	}

	return r.pick(
		fmt.Sprintf("I'm here to listen and support you, %s. How can I help you feel better today? Try the activities above! 💙", userName),
		fmt.Sprintf("Thank you for sharing with me, %s. Your feelings are important and valid. What would help you right now? 🤗", userName),
		fmt.Sprintf("I care about how you're feeling, %s. Would you like to try one of the relaxing activities above? 🌟", userName),
		fmt.Sprintf("You're not alone in whatever you're going through, %s. I'm here for you. What's on your mind? 💕", userName),
		fmt.Sprintf("Every feeling you have is valid, %s. Let's work through this together. What would bring you some peace right now? 🌸", userName),
	)
}

func (r *HeuristicResponder) pick(options ...string) string {
	return options[r.rng.Intn(len(options))]
}

func containsAny(haystack string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
