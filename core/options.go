package dispatch

import (
	"context"
	"time"

	"github.com/pathwise/voicepilot-core/core/audio"
	"github.com/pathwise/voicepilot-core/core/platform"
	"github.com/pathwise/voicepilot-core/core/speechtotext"
	"github.com/pathwise/voicepilot-core/core/texttospeech"
)

type EngineOption func(*Engine)

// SpeechToText is the recognition capability consumed by the engine. The
// engine treats a missing client as "recognition unsupported" and degrades to
// spoken notices instead of failing.
type SpeechToText interface {
	Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error
	SendAudio(audio []byte) error
}

func WithSpeechToTextClient(client SpeechToText) EngineOption {
	return func(e *Engine) {
		e.speechToText.set(client)
	}
}

// TextToSpeech is the synthesis capability consumed by the engine. Submitting
// an utterance is fire-and-forget; cancellation drops whatever is in flight.
type TextToSpeech interface {
	Speak(ctx context.Context, text string, opts ...texttospeech.UtteranceOption) error
	CancelAll() error
	Voices() []texttospeech.Voice
}

func WithTextToSpeechClient(client TextToSpeech) EngineOption {
	return func(e *Engine) {
		e.speaker.set(client)
	}
}

// Navigator performs page navigation on behalf of matched commands.
type Navigator interface {
	Navigate(path string) error
}

func WithNavigator(navigator Navigator) EngineOption {
	return func(e *Engine) { e.navigator = navigator }
}

// PlatformAPI is the subset of the learning platform REST surface the command
// actions consume.
type PlatformAPI interface {
	AdaptiveLearningPath(ctx context.Context) (*platform.LearningPath, error)
	Progress(ctx context.Context) (*platform.Progress, error)
	UserStats(ctx context.Context) (*platform.UserStats, error)
	Recommendations(ctx context.Context) (*platform.Recommendations, error)
	MarkConceptComplete(ctx context.Context, conceptID string) error
	Concept(ctx context.Context, conceptID string) (*platform.Concept, error)
}

func WithPlatformClient(client PlatformAPI) EngineOption {
	return func(e *Engine) { e.platform = client }
}

// PageBinding is an optional page-local function a command may invoke. A
// binding is only available while the page that defines it is open.
type PageBinding func() error

func WithPageBinding(name string, binding PageBinding) EngineOption {
	return func(e *Engine) {
		if binding != nil {
			e.bindings[name] = binding
		}
	}
}

// WithRestartDelay overrides the pause between a recognition session ending
// on its own and the engine starting a new one.
func WithRestartDelay(delay time.Duration) EngineOption {
	return func(e *Engine) {
		if delay > 0 {
			e.restartDelay = delay
		}
	}
}

type AudioInput interface {
	audioInputBase
}

type AudioInputFine interface {
	StartCapture(ctx context.Context, onAudio func(audio []byte)) error
	StopCapture() error
}

func WithAudioInput(client AudioInput) EngineOption {
	return func(e *Engine) { e.audioInput.Set(client) }
}

type audioInputBase interface {
	EncodingInfo() audio.EncodingInfo
	Stream(ctx context.Context, onAudio func(audio []byte)) error
	Close()
}

// AudioOutput is the playback sink synthesized assistant speech is streamed
// into. Clearing the buffer drops audio that has not been played yet, which
// is how a superseded utterance is silenced.
type AudioOutput interface {
	SendAudio(audio []byte) error
	ClearBuffer()
	EncodingInfo() audio.EncodingInfo
}

func WithAudioOutput(client AudioOutput) EngineOption {
	return func(e *Engine) { e.audioOutput.Set(client) }
}

type DispatchOptions struct {
	onInterimTranscript func(transcript string)
	onFinalTranscript   func(transcript string)
	onStateChanged      func(enabled, listening bool)
	onCommandMatched    func(phrase, command string)
	onCommandUnmatched  func(phrase string)
	onUtterance         func(text string)
	onRecognitionError  func(reason string)
}

type DispatchOption func(*DispatchOptions)

// WithInterimTranscriptCallback registers a callback for live, still-changing
// transcript snapshots. Interim text is display-only and never matched
// against commands.
func WithInterimTranscriptCallback(callback func(transcript string)) DispatchOption {
	return func(o *DispatchOptions) {
		o.onInterimTranscript = callback
	}
}

// WithFinalTranscriptCallback registers a callback for finalized transcripts,
// fired before the phrase is handed to the command matcher.
func WithFinalTranscriptCallback(callback func(transcript string)) DispatchOption {
	return func(o *DispatchOptions) {
		o.onFinalTranscript = callback
	}
}

func WithStateChangedCallback(callback func(enabled, listening bool)) DispatchOption {
	return func(o *DispatchOptions) {
		o.onStateChanged = callback
	}
}

func WithCommandMatchedCallback(callback func(phrase, command string)) DispatchOption {
	return func(o *DispatchOptions) {
		o.onCommandMatched = callback
	}
}

func WithCommandUnmatchedCallback(callback func(phrase string)) DispatchOption {
	return func(o *DispatchOptions) {
		o.onCommandUnmatched = callback
	}
}

func WithUtteranceCallback(callback func(text string)) DispatchOption {
	return func(o *DispatchOptions) {
		o.onUtterance = callback
	}
}

func WithRecognitionErrorCallback(callback func(reason string)) DispatchOption {
	return func(o *DispatchOptions) {
		o.onRecognitionError = callback
	}
}
