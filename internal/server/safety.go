package server

import (
	"fmt"
	"strings"
)

// crisisPhrases is matched by plain substring containment, not token
// boundaries. That means short entries like "die" also fire inside longer
// words. The over-matching is intentional: for self-harm language a false
// positive costs one canned reply, a false negative costs a missed
// intervention. Do not narrow this list without product sign-off.
var crisisPhrases = []string{
	"kill myself",
	"suicide",
	"want to die",
	"end my life",
	"die",
	"kms",
	"ending it all",
	"i don't want to live",
	"life is meaningless",
	"worthless",
	"no way out",
	"self harm",
	"hurt myself",
	"cut myself",
	"overdose",
	"jump off",
}

func containsCrisisLanguage(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range crisisPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// crisisResponse is returned without ever invoking a completion provider.
func crisisResponse(userName string) string {
	return fmt.Sprintf(
		"Hey %s, I'm really concerned about you. You matter, and you're not alone. 💙\n\n"+
			"**🆘 Crisis Support:**\n"+
			"**Mauritius:** 800 93 93 (free, 24/7)\n"+
			"**International:** 988 or https://findahelpline.com/\n\n"+
			"Please reach out for professional help. I care about you and want you to be safe.",
		userName,
	)
}
