package mood

import "testing"

func TestAnalyzeOverwhelmed(t *testing.T) {
	decision := Analyze("I'm so stressed, this deadline is too much!!!")
	if decision.Mood != Overwhelmed {
		t.Fatalf("expected overwhelmed mood, got %s", decision.Mood)
	}
	if decision.Score != 1 {
		t.Fatalf("expected score 1, got %d", decision.Score)
	}
	if decision.Emoji != "🤯" {
		t.Fatalf("unexpected emoji %q", decision.Emoji)
	}
}

func TestAnalyzeUpbeat(t *testing.T) {
	decision := Analyze("Had a good day, feeling grateful and proud!")
	if decision.Mood != Upbeat {
		t.Fatalf("expected upbeat mood, got %s", decision.Mood)
	}
	if decision.Score != 5 {
		t.Fatalf("expected score 5, got %d", decision.Score)
	}
}

func TestAnalyzeEmptyText(t *testing.T) {
	decision := Analyze("   ")
	if decision.Mood != Unknown {
		t.Fatalf("expected unknown mood, got %s", decision.Mood)
	}
	if Guidance(decision) != "" {
		t.Fatal("unknown mood should produce no guidance")
	}
}

func TestScoreFor(t *testing.T) {
	if got := ScoreFor("😔"); got != 2 {
		t.Fatalf("low emoji score: got %d want 2", got)
	}
	if got := ScoreFor("🍕"); got != 0 {
		t.Fatalf("unknown emoji score: got %d want 0", got)
	}
}

func TestGuidanceMentionsMood(t *testing.T) {
	decision := Analyze("I'm exhausted and drained, can't sleep at all")
	if decision.Mood != Tired {
		t.Fatalf("expected tired mood, got %s", decision.Mood)
	}
	if Guidance(decision) == "" {
		t.Fatal("expected guidance for a recognized mood")
	}
}
