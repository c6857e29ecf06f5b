package dispatch

import (
	events "github.com/pathwise/voicepilot-core/core/events"
)

func (e *Engine) handleListeningStarted() {
	e.mu.Lock()
	e.listening = true
	e.mu.Unlock()

	e.emitEvent(events.NewListeningStarted())
	e.emitState()
}

// handleListeningEnded runs when a recognition session closes for any
// reason. If the assistant is still enabled the session ended on its own
// (network hiccup, silence timeout) and a fresh one is scheduled after a
// short pause.
func (e *Engine) handleListeningEnded() {
	e.mu.Lock()
	e.listening = false
	enabled := e.enabled
	generation := e.generation
	e.mu.Unlock()

	e.emitEvent(events.NewListeningEnded())
	e.emitState()

	if enabled {
		e.afterFunc(e.restartDelay, func() { e.restartListening(generation) })
	}
}

// restartListening fires from the restart timer. The generation snapshot
// makes stale timers harmless: any enable/disable since scheduling bumps the
// counter and the restart becomes a no-op.
func (e *Engine) restartListening(generation uint64) {
	e.mu.Lock()
	stale := generation != e.generation || !e.enabled || e.listening
	e.mu.Unlock()

	if stale {
		return
	}

	e.StartListening()
}

// handleRecognitionError surfaces a recognition failure to the user. Errors
// do not trigger a restart; the listening-ended path owns resilience.
func (e *Engine) handleRecognitionError(err error) {
	if err == nil {
		return
	}

	logger.Warn("recognition error", "error", err)
	e.emitEvent(events.NewRecognitionFailed(err.Error()))
	e.speaker.Speak(e.baseContext, recognitionApology)
}
