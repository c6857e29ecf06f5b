package dispatch

import events "github.com/pathwise/voicepilot-core/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

func newCallbackEventEmitter(opts DispatchOptions) eventEmitter {
	return func(event events.Event) {
		switch typedEvent := event.(type) {
		case events.TranscriptInterimUpdated:
			if opts.onInterimTranscript != nil {
				opts.onInterimTranscript(typedEvent.Transcript)
			}
		case events.TranscriptFinal:
			if opts.onFinalTranscript != nil {
				opts.onFinalTranscript(typedEvent.Transcript)
			}
		case events.StateChanged:
			if opts.onStateChanged != nil {
				opts.onStateChanged(typedEvent.Enabled, typedEvent.Listening)
			}
		case events.CommandMatched:
			if opts.onCommandMatched != nil {
				opts.onCommandMatched(typedEvent.Phrase, typedEvent.Command)
			}
		case events.CommandUnmatched:
			if opts.onCommandUnmatched != nil {
				opts.onCommandUnmatched(typedEvent.Phrase)
			}
		case events.UtteranceStarted:
			if opts.onUtterance != nil {
				opts.onUtterance(typedEvent.Text)
			}
		case events.RecognitionFailed:
			if opts.onRecognitionError != nil {
				opts.onRecognitionError(typedEvent.Reason)
			}
		}
	}
}
