// Package dispatch implements the voice command dispatch engine: the
// enable/disable and listening state machine, the phrase matcher that maps
// noisy transcripts onto discrete actions, and the spoken/visual feedback
// loop around them.
package dispatch

import (
	"context"
	"errors"
	"sync"
	"time"

	events "github.com/pathwise/voicepilot-core/core/events"
	"github.com/pathwise/voicepilot-core/internal/utils"
)

const defaultRestartDelay = time.Second

// Engine owns the assistant session state and drives every collaborator:
// recognition, synthesis, navigation, page bindings, and the platform API.
//
// Enabled is user intent; Listening is the observed capability state. The
// two drift apart briefly while a recognition session winds down after a
// disable request.
type Engine struct {
	restartDelay time.Duration

	mu        sync.Mutex
	enabled   bool
	listening bool
	// generation increments on every enable/disable so scheduled restarts can
	// detect they are stale without being cancelled.
	generation uint64
	// currentConceptID is the concept last navigated to, empty elsewhere.
	currentConceptID string

	speechToText speechToText
	speaker      *speaker
	audioInput   audioInput
	audioOutput  audioOutput
	navigator    Navigator
	platform     PlatformAPI
	bindings     map[string]PageBinding
	commands     []commandEntry

	dispatchOptions DispatchOptions
	emitEvent       eventEmitter
	baseContext     context.Context

	// afterFunc schedules the restart and navigation delays; replaced in
	// tests to run timers synchronously.
	afterFunc func(delay time.Duration, fn func())

	closeOnce sync.Once
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		restartDelay: defaultRestartDelay,
		bindings:     map[string]PageBinding{},
		emitEvent:    noopEventEmitter,
		baseContext:  context.Background(),
		afterFunc:    func(delay time.Duration, fn func()) { time.AfterFunc(delay, fn) },
	}

	e.speechToText = *newSpeechToText(nil)
	e.speaker = newSpeaker(nil)
	e.audioInput = *newAudioInput(nil, func(chunk []byte) {
		e.speechToText.SendAudio(chunk)
	})
	e.audioOutput = *newAudioOutput(nil)
	e.speaker.SetAudioOutput(&e.audioOutput)

	for _, opt := range opts {
		opt(e)
	}

	e.commands = defaultCommandTable()

	return e
}

// Supported reports whether a recognition capability was configured. It never
// changes after construction.
func (e *Engine) Supported() bool {
	return e.speechToText.isConfigured()
}

// Dispatch wires the feedback callbacks and starts streaming captured audio
// into the recognition capability. It does not enable the assistant; that
// stays a user decision.
//
// Contract: call Dispatch at most once per engine instance.
func (e *Engine) Dispatch(ctx context.Context, opts ...DispatchOption) {
	e.dispatchOptions = DispatchOptions{}
	for _, opt := range opts {
		opt(&e.dispatchOptions)
	}

	e.baseContext = ctx
	e.emitEvent = newCallbackEventEmitter(e.dispatchOptions)
	e.speaker.SetEventEmitter(e.emitEvent)

	if !e.Supported() {
		e.emitEvent(events.NewRecognitionUnsupported())
	}

	e.audioInput.Start(ctx)

	go func() {
		<-ctx.Done()
		e.Close()
	}()
}

// Toggle flips the assistant between enabled and disabled. When recognition
// is unsupported it only emits a spoken notice.
func (e *Engine) Toggle() {
	if !e.Supported() {
		e.speaker.Speak(e.baseContext, unsupportedResponse)
		return
	}

	e.mu.Lock()
	enabled := e.enabled
	e.mu.Unlock()

	if enabled {
		e.Disable()
	} else {
		e.Enable()
	}
}

// Enable marks the assistant active, starts listening, and speaks a
// greeting. Calling it while already enabled re-affirms the greeting rather
// than no-opping; callers that want silence must check state first.
func (e *Engine) Enable() {
	if !e.Supported() {
		e.speaker.Speak(e.baseContext, unsupportedResponse)
		return
	}

	e.mu.Lock()
	e.enabled = true
	e.generation++
	e.mu.Unlock()

	e.StartListening()
	e.speaker.Speak(e.baseContext, greetingResponse)
	e.emitState()
}

// Disable marks the assistant inactive, requests a capture stop, and speaks
// a farewell. Listening flips to false asynchronously once the capability
// confirms.
func (e *Engine) Disable() {
	e.mu.Lock()
	e.enabled = false
	e.generation++
	e.mu.Unlock()

	e.StopListening()
	e.speaker.Speak(e.baseContext, farewellResponse)
	e.emitState()
}

// StartListening opens a recognition session if one is wanted and not
// already running. Starting is best-effort: capability failures are logged,
// never returned.
func (e *Engine) StartListening() {
	e.mu.Lock()
	shouldStart := e.Supported() && e.enabled && !e.listening
	e.mu.Unlock()

	if !shouldStart {
		return
	}

	err := e.speechToText.Start(
		e.baseContext,
		speechToTextCallbacks{
			onListeningStarted: e.handleListeningStarted,
			onListeningEnded:   e.handleListeningEnded,
			onError:            e.handleRecognitionError,
			onResultBatch:      e.handleResultBatch,
		},
		utils.Ptr(e.audioInput.EncodingInfo()),
	)
	if err != nil && !errors.Is(err, errRecognitionAlreadyStarted) {
		logger.Warn("failed to start listening", "error", err)
	}

	if err == nil {
		if captureErr := e.audioInput.RequestCapture(e.baseContext); captureErr != nil {
			logger.Warn("failed to request audio capture", "error", captureErr)
		}
	}
}

// StopListening requests the capability to stop capturing. No-op when not
// listening.
func (e *Engine) StopListening() {
	e.mu.Lock()
	listening := e.listening
	e.mu.Unlock()

	if !listening {
		return
	}

	if err := e.speechToText.Stop(); err != nil {
		logger.Warn("failed to stop listening", "error", err)
	}
	if err := e.audioInput.ReleaseCapture(e.baseContext); err != nil {
		logger.Warn("failed to release audio capture", "error", err)
	}
}

// State reports the current session state snapshot.
func (e *Engine) State() (enabled, listening bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled, e.listening
}

// UIState derives the toggle affordance state from the current snapshot.
func (e *Engine) UIState() UIState {
	enabled, listening := e.State()
	return DeriveUIState(e.Supported(), enabled, listening)
}

func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.mu.Lock()
		e.enabled = false
		e.generation++
		e.mu.Unlock()

		if err := e.audioInput.Close(); err != nil {
			logger.Warn("failed to close audio input", "error", err)
		}

		if err := e.speechToText.Close(e.baseContext); err != nil {
			logger.Warn("failed to close speech-to-text client", "error", err)
		}
	})
}

func (e *Engine) emitState() {
	enabled, listening := e.State()
	e.emitEvent(events.NewStateChanged(enabled, listening))
}
