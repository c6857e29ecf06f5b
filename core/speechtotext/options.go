package speechtotext

import "github.com/pathwise/voicepilot-core/core/audio"

// Hypothesis is a single ranked transcript produced by the recognition
// capability. IsFinal marks the hypothesis as complete and stable; anything
// else is an interim read that may still change.
type Hypothesis struct {
	Transcript string
	IsFinal    bool
}

type TranscriptionOptions struct {
	// ListeningStartedCallback is called when the capability begins capturing.
	ListeningStartedCallback func()
	// ListeningEndedCallback is called when the capability stops capturing,
	// whether requested or not.
	ListeningEndedCallback func()
	// ErrorCallback is called on transient recognition errors. The capability
	// is expected to follow up with ListeningEndedCallback on its own.
	ErrorCallback func(err error)
	// ResultBatchCallback is called with hypotheses in capture order. A batch
	// may mix interim and final entries.
	ResultBatchCallback func(batch []Hypothesis)

	EncodingInfo audio.EncodingInfo
	Language     string
}

type TranscriptionOption func(*TranscriptionOptions)

func WithListeningStartedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.ListeningStartedCallback = callback
	}
}

func WithListeningEndedCallback(callback func()) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.ListeningEndedCallback = callback
	}
}

func WithErrorCallback(callback func(err error)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.ErrorCallback = callback
	}
}

func WithResultBatchCallback(callback func(batch []Hypothesis)) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.ResultBatchCallback = callback
	}
}

func WithLanguage(language string) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.Language = language
	}
}

func WithEncodingInfo(encodingInfo audio.EncodingInfo) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		if encodingInfo.IsZero() {
			return
		}

		o.EncodingInfo = encodingInfo
	}
}
