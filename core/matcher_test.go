package dispatch

import (
	"testing"

	events "github.com/pathwise/voicepilot-core/core/events"
)

func TestMatchCommandExactBeatsSubstring(t *testing.T) {
	table := []commandEntry{
		{"go to dashboard profile", navigateAction{path: "/wrong"}},
		{"go to profile", navigateAction{path: "/profile"}},
	}

	entry, tier, ok := matchCommand("go to profile", table)
	if !ok {
		t.Fatalf("expected a match")
	}
	if tier != events.MatchTierExact {
		t.Fatalf("expected exact tier, got %v", tier)
	}
	if entry.phrase != "go to profile" {
		t.Fatalf("expected the exact key to win over an earlier substring key, got %q", entry.phrase)
	}
}

func TestMatchCommandSubstringToleratesFillerWords(t *testing.T) {
	entry, tier, ok := matchCommand("please go to dashboard now", defaultCommandTable())
	if !ok {
		t.Fatalf("expected a match")
	}
	if tier != events.MatchTierSubstring {
		t.Fatalf("expected substring tier, got %v", tier)
	}
	if entry.phrase != "go to dashboard" {
		t.Fatalf("expected go to dashboard, got %q", entry.phrase)
	}
}

func TestMatchCommandSubstringToleratesTruncatedRecognition(t *testing.T) {
	// Spoken text shorter than the stored key still matches when it is a
	// substring of that key.
	entry, _, ok := matchCommand("show learning", defaultCommandTable())
	if !ok {
		t.Fatalf("expected a match")
	}
	if entry.phrase != "show learning graph" {
		t.Fatalf("expected show learning graph, got %q", entry.phrase)
	}
}

func TestMatchCommandFirstEntryWins(t *testing.T) {
	table := []commandEntry{
		{"show progress", progressAction{}},
		{"progress", statsAction{}},
	}

	entry, _, ok := matchCommand("show progress right now", table)
	if !ok {
		t.Fatalf("expected a match")
	}
	if entry.phrase != "show progress" {
		t.Fatalf("expected the first matching entry in table order, got %q", entry.phrase)
	}
}

func TestProcessCommandFuzzyDispatchNavigates(t *testing.T) {
	navigator := &navigatorStub{}
	engine := newTestEngine(t, &manualTimers{},
		WithTextToSpeechClient(&ttsClientStub{}),
		WithNavigator(navigator),
	)

	engine.processCommand("Please go to dashboard now")

	if len(navigator.paths) != 1 || navigator.paths[0] != "/" {
		t.Fatalf("expected navigation to /, got %v", navigator.paths)
	}
}

func TestProcessCommandHeuristicLearningHint(t *testing.T) {
	ttsClient := &ttsClientStub{}
	engine := newTestEngine(t, &manualTimers{}, WithTextToSpeechClient(ttsClient))

	engine.processCommand("i want to learn more")

	if len(ttsClient.spoken) != 1 || ttsClient.spoken[0] != learningHintResponse {
		t.Fatalf("expected learning suggestion, got %v", ttsClient.spoken)
	}
}

func TestProcessCommandHeuristicApology(t *testing.T) {
	ttsClient := &ttsClientStub{}
	navigator := &navigatorStub{}
	engine := newTestEngine(t, &manualTimers{},
		WithTextToSpeechClient(ttsClient),
		WithNavigator(navigator),
	)

	engine.processCommand("banana telescope")

	if len(ttsClient.spoken) != 1 || ttsClient.spoken[0] != unknownCommandResponse {
		t.Fatalf("expected generic apology, got %v", ttsClient.spoken)
	}

	if len(navigator.paths) != 0 {
		t.Fatalf("expected no navigation for unmatched input, got %v", navigator.paths)
	}
}

func TestProcessCommandEmitsMatchEvents(t *testing.T) {
	engine := newTestEngine(t, &manualTimers{},
		WithTextToSpeechClient(&ttsClientStub{}),
		WithNavigator(&navigatorStub{}),
	)

	matched := []string{}
	unmatched := []string{}
	engine.emitEvent = func(event events.Event) {
		switch typedEvent := event.(type) {
		case events.CommandMatched:
			matched = append(matched, typedEvent.Command)
		case events.CommandUnmatched:
			unmatched = append(unmatched, typedEvent.Phrase)
		}
	}

	engine.processCommand("go to dashboard")
	engine.processCommand("banana telescope")

	if len(matched) != 1 || matched[0] != "go to dashboard" {
		t.Fatalf("expected one matched event, got %v", matched)
	}

	if len(unmatched) != 1 || unmatched[0] != "banana telescope" {
		t.Fatalf("expected one unmatched event, got %v", unmatched)
	}
}
