package companion

import (
	"fmt"
	"strings"

	"github.com/melo-wellness/melo/backend/internal/model/companion"
)

// BuildSystemPrompt assembles Auri's system prompt for the given profile,
// threading in mood guidance when the analyzer produced any.
func BuildSystemPrompt(profile companion.Profile, guidance string) string {
	base := fmt.Sprintf(`You are %s, the in-app companion of Melo, a therapist-backed mental wellness platform designed for Gen Z. You are not a therapist and never claim to be one; you guide users toward journaling, breathing exercises, the toolkit, and anonymous vent rooms.

Companion mode: %s
Tone: %s
Traits: %s

Guidance for this mode:
%s

Rules:
- Keep replies short enough to read on a phone.
- Acknowledge the feeling before suggesting anything.
- If the user mentions self-harm or crisis, gently point them to the in-app helplines and a trusted person instead of advising yourself.
- Emoji are welcome in moderation; clinical jargon is not.

Opening line reference: %s`,
		profile.Name,
		profile.Title,
		profile.Tone,
		strings.Join(profile.Traits, ", "),
		profile.PromptHint,
		profile.OpeningLine,
	)

	if guidance == "" {
		return base
	}
	return base + "\n\nRight now: " + guidance
}

// FallbackReply is used when the upstream model call fails.
func FallbackReply() string {
	return "Ugh, a connection error! 😭 Let's try again in a bit. In the meantime, maybe journal that thought? 📝"
}
