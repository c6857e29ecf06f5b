package dispatch

import (
	"context"
	"strings"

	events "github.com/pathwise/voicepilot-core/core/events"
)

// heuristicLearningHints mark phrases that are probably about the learning
// content even when no command matched.
var heuristicLearningHints = []string{"concept", "learn"}

// normalizePhrase reduces a spoken phrase to the command table's key form.
func normalizePhrase(phrase string) string {
	return strings.ToLower(strings.TrimSpace(phrase))
}

// processCommand runs a finalized transcript through the three matching
// tiers and executes whatever action wins. Unmatched input is not an error;
// the heuristic tier always produces some spoken response.
func (e *Engine) processCommand(phrase string) {
	normalized := normalizePhrase(phrase)
	if normalized == "" {
		return
	}

	ctx, span := tracer.Start(e.baseContext, "dispatch.processCommand")
	defer span.End()

	if entry, tier, ok := matchCommand(normalized, e.commands); ok {
		e.emitEvent(events.NewCommandMatched(normalized, entry.phrase, tier))
		entry.action.run(ctx, e)
		return
	}

	e.emitEvent(events.NewCommandUnmatched(normalized))
	e.runHeuristic(ctx, normalized)
}

// matchCommand resolves a normalized phrase against the table: an exact key
// lookup first, then an in-order scan where containment in either direction
// counts. The scan tolerates filler words around a command and recognition
// truncating a stored phrase, at the price of false positives on short keys.
func matchCommand(normalized string, table []commandEntry) (commandEntry, events.MatchTier, bool) {
	for _, entry := range table {
		if entry.phrase == normalized {
			return entry, events.MatchTierExact, true
		}
	}

	for _, entry := range table {
		if strings.Contains(normalized, entry.phrase) || strings.Contains(entry.phrase, normalized) {
			return entry, events.MatchTierSubstring, true
		}
	}

	return commandEntry{}, "", false
}

// runHeuristic is the last tier: guess intent from domain hint words, or
// apologize.
func (e *Engine) runHeuristic(ctx context.Context, normalized string) {
	for _, hint := range heuristicLearningHints {
		if strings.Contains(normalized, hint) {
			e.Speak(learningHintResponse)
			return
		}
	}

	if strings.Contains(normalized, "help") {
		helpAction{}.run(ctx, e)
		return
	}

	e.Speak(unknownCommandResponse)
}
