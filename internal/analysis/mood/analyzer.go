package mood

import "strings"

// Label is one of the five moods tracked on the journal scale.
type Label string

const (
	Overwhelmed Label = "overwhelmed"
	Low         Label = "low"
	Numb        Label = "numb"
	Tired       Label = "tired"
	Upbeat      Label = "upbeat"
	Unknown     Label = "unknown"
)

// Decision gives the inferred mood, its journal score and the evidence weight.
type Decision struct {
	Mood   Label
	Emoji  string
	Score  int
	Weight int
}

// moodEmoji and moodScore mirror the journal's five-point scale
// (1 is the worst day, 5 the best).
var moodEmoji = map[Label]string{
	Overwhelmed: "🤯",
	Low:         "😔",
	Numb:        "😶",
	Tired:       "😴",
	Upbeat:      "😀",
}

var moodScore = map[Label]int{
	Overwhelmed: 1,
	Low:         2,
	Numb:        3,
	Tired:       4,
	Upbeat:      5,
}

var keywordBuckets = map[Label][]string{
	Overwhelmed: {
		"overwhelmed", "panic", "stressed", "anxious", "anxiety", "too much", "can't cope",
		"freaking out", "spiraling", "breaking down", "drowning", "losing it", "deadline",
	},
	Low: {
		"sad", "down", "depressed", "cry", "crying", "lonely", "hopeless", "miserable",
		"heartbroken", "hurt", "worthless", "empty inside", "grief", "miss them",
	},
	Numb: {
		"numb", "nothing", "whatever", "don't care", "dont care", "blank", "flat",
		"disconnected", "checked out", "autopilot", "going through the motions",
	},
	Tired: {
		"tired", "exhausted", "sleepy", "drained", "burnt out", "burned out", "no energy",
		"can't sleep", "insomnia", "worn out", "fatigued", "need rest",
	},
	Upbeat: {
		"happy", "great", "good day", "excited", "grateful", "thankful", "proud",
		"amazing", "awesome", "love", "relieved", "hopeful", "better today", "lol",
	},
}

// Analyze infers a mood from free text by keyword evidence. Exclamation
// marks push ambiguous text toward the overwhelmed end rather than the
// upbeat one, which fits venting better than cheering.
func Analyze(text string) Decision {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return Decision{Mood: Unknown}
	}

	scores := make(map[Label]int)
	for label, keywords := range keywordBuckets {
		for _, word := range keywords {
			if strings.Contains(normalized, word) {
				scores[label] += 3
			}
		}
	}

	if exclamations := strings.Count(text, "!"); exclamations > 1 {
		if scores[Upbeat] == 0 {
			scores[Overwhelmed] += exclamations
		} else {
			scores[Upbeat] += exclamations
		}
	}

	best := Unknown
	bestWeight := 0
	for label, weight := range scores {
		if weight > bestWeight {
			bestWeight = weight
			best = label
		}
	}
	if best == Unknown {
		return Decision{Mood: Unknown}
	}

	return Decision{
		Mood:   best,
		Emoji:  moodEmoji[best],
		Score:  moodScore[best],
		Weight: bestWeight,
	}
}

// ScoreFor maps a journal mood emoji onto the numeric scale. Unrecognized
// emojis score zero.
func ScoreFor(emoji string) int {
	for label, e := range moodEmoji {
		if e == emoji {
			return moodScore[label]
		}
	}
	return 0
}

// Guidance phrases the decision as a steer for the companion's system
// prompt. Unknown moods yield an empty string.
func Guidance(d Decision) string {
	switch d.Mood {
	case Overwhelmed:
		return "The user sounds overwhelmed. Slow the pace, validate the pressure they are under, and offer one small grounding step such as a breathing exercise."
	case Low:
		return "The user sounds low. Lead with warmth and validation before any suggestion, and never minimize what they are feeling."
	case Numb:
		return "The user sounds emotionally flat. Gently invite them to name one concrete thing from their day rather than asking how they feel."
	case Tired:
		return "The user sounds exhausted. Keep the reply short and soothing, and nudge toward rest rather than productivity."
	case Upbeat:
		return "The user sounds upbeat. Match their energy, celebrate the win, and encourage journaling it."
	default:
		return ""
	}
}
