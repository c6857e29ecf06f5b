package dispatch

import (
	"strings"

	events "github.com/pathwise/voicepilot-core/core/events"
	"github.com/pathwise/voicepilot-core/core/speechtotext"
)

// handleResultBatch splits a recognition batch into finalized and interim
// text. Finalized text feeds the command matcher; interim text is emitted
// last so live displays end up showing the freshest snapshot. Interim text
// is never matched.
func (e *Engine) handleResultBatch(batch []speechtotext.Hypothesis) {
	finalText, interimText := partitionHypotheses(batch)

	if finalText != "" {
		e.emitEvent(events.NewTranscriptFinal(finalText))
	}
	if interimText != "" {
		e.emitEvent(events.NewTranscriptInterimUpdated(interimText))
	}

	if finalText != "" {
		e.processCommand(finalText)
	}
}

// partitionHypotheses joins the batch into one finalized and one interim
// string, preserving arrival order within each.
func partitionHypotheses(batch []speechtotext.Hypothesis) (finalText, interimText string) {
	var finals, interims []string
	for _, hypothesis := range batch {
		text := strings.TrimSpace(hypothesis.Transcript)
		if text == "" {
			continue
		}

		if hypothesis.IsFinal {
			finals = append(finals, text)
		} else {
			interims = append(interims, text)
		}
	}

	return strings.Join(finals, " "), strings.Join(interims, " ")
}
