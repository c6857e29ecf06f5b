package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pathwise/voicepilot-core/core/platform"
	"github.com/pathwise/voicepilot-core/core/speechtotext"
	"github.com/pathwise/voicepilot-core/core/texttospeech"
)

type sttClientStub struct {
	transcribe func(opts speechtotext.TranscriptionOptions)

	transcribeCalls int
	sent            [][]byte
	stops           int
}

func (s *sttClientStub) Transcribe(_ context.Context, opts ...speechtotext.TranscriptionOption) error {
	options := speechtotext.TranscriptionOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	s.transcribeCalls++
	if s.transcribe != nil {
		s.transcribe(options)
	}
	return nil
}

func (s *sttClientStub) SendAudio(audio []byte) error {
	s.sent = append(s.sent, audio)
	return nil
}

func (s *sttClientStub) StopStream() error {
	s.stops++
	return nil
}

type ttsClientStub struct {
	spoken  []string
	options []texttospeech.UtteranceOptions
	cancels int
	voices  []texttospeech.Voice
}

func (s *ttsClientStub) Speak(_ context.Context, text string, opts ...texttospeech.UtteranceOption) error {
	options := texttospeech.UtteranceOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	s.spoken = append(s.spoken, text)
	s.options = append(s.options, options)
	return nil
}

func (s *ttsClientStub) CancelAll() error {
	s.cancels++
	return nil
}

func (s *ttsClientStub) Voices() []texttospeech.Voice { return s.voices }

type navigatorStub struct {
	paths []string
}

func (n *navigatorStub) Navigate(path string) error {
	n.paths = append(n.paths, path)
	return nil
}

type platformStub struct {
	learningPath    func() (*platform.LearningPath, error)
	progress        func() (*platform.Progress, error)
	userStats       func() (*platform.UserStats, error)
	recommendations func() (*platform.Recommendations, error)
	markComplete    func(conceptID string) error
	concept         func(conceptID string) (*platform.Concept, error)
}

var errStubUnset = errors.New("stub not configured")

func (p *platformStub) AdaptiveLearningPath(context.Context) (*platform.LearningPath, error) {
	if p.learningPath == nil {
		return nil, errStubUnset
	}
	return p.learningPath()
}

func (p *platformStub) Progress(context.Context) (*platform.Progress, error) {
	if p.progress == nil {
		return nil, errStubUnset
	}
	return p.progress()
}

func (p *platformStub) UserStats(context.Context) (*platform.UserStats, error) {
	if p.userStats == nil {
		return nil, errStubUnset
	}
	return p.userStats()
}

func (p *platformStub) Recommendations(context.Context) (*platform.Recommendations, error) {
	if p.recommendations == nil {
		return nil, errStubUnset
	}
	return p.recommendations()
}

func (p *platformStub) MarkConceptComplete(_ context.Context, conceptID string) error {
	if p.markComplete == nil {
		return errStubUnset
	}
	return p.markComplete(conceptID)
}

func (p *platformStub) Concept(_ context.Context, conceptID string) (*platform.Concept, error) {
	if p.concept == nil {
		return nil, errStubUnset
	}
	return p.concept(conceptID)
}

// manualTimers replaces the engine's timer seam so tests fire scheduled
// restarts and navigations deterministically.
type manualTimers struct {
	delays []time.Duration
	fns    []func()
}

func (m *manualTimers) afterFunc(delay time.Duration, fn func()) {
	m.delays = append(m.delays, delay)
	m.fns = append(m.fns, fn)
}

func (m *manualTimers) fireAll() {
	fns := m.fns
	m.fns = nil
	m.delays = nil
	for _, fn := range fns {
		fn()
	}
}

func newTestEngine(t *testing.T, timers *manualTimers, opts ...EngineOption) *Engine {
	t.Helper()

	engine := NewEngine(opts...)
	if timers != nil {
		engine.afterFunc = timers.afterFunc
	}
	return engine
}

// autoStartTranscribe wires a stub so opening a session immediately reports
// listening, like a healthy capability would.
func autoStartTranscribe(captured *speechtotext.TranscriptionOptions) func(speechtotext.TranscriptionOptions) {
	return func(opts speechtotext.TranscriptionOptions) {
		*captured = opts
		if opts.ListeningStartedCallback != nil {
			opts.ListeningStartedCallback()
		}
	}
}

func TestToggleWithoutRecognitionSpeaksNotice(t *testing.T) {
	ttsClient := &ttsClientStub{}
	engine := newTestEngine(t, nil, WithTextToSpeechClient(ttsClient))

	engine.Toggle()

	if len(ttsClient.spoken) != 1 || ttsClient.spoken[0] != unsupportedResponse {
		t.Fatalf("expected unsupported notice, got %v", ttsClient.spoken)
	}

	if enabled, _ := engine.State(); enabled {
		t.Fatalf("expected engine to stay disabled without recognition support")
	}
}

func TestEnableStartsListeningAndGreets(t *testing.T) {
	var captured speechtotext.TranscriptionOptions
	sttClient := &sttClientStub{transcribe: autoStartTranscribe(&captured)}
	ttsClient := &ttsClientStub{}
	engine := newTestEngine(t, &manualTimers{},
		WithSpeechToTextClient(sttClient),
		WithTextToSpeechClient(ttsClient),
	)

	engine.Enable()

	if sttClient.transcribeCalls != 1 {
		t.Fatalf("expected one transcription session, got %d", sttClient.transcribeCalls)
	}

	enabled, listening := engine.State()
	if !enabled || !listening {
		t.Fatalf("expected enabled and listening, got enabled=%v listening=%v", enabled, listening)
	}

	if len(ttsClient.spoken) != 1 || ttsClient.spoken[0] != greetingResponse {
		t.Fatalf("expected greeting, got %v", ttsClient.spoken)
	}

	if captured.Language != "en-US" {
		t.Fatalf("expected fixed en-US locale, got %q", captured.Language)
	}
}

func TestEnableWhileEnabledRepeatsGreeting(t *testing.T) {
	var captured speechtotext.TranscriptionOptions
	sttClient := &sttClientStub{transcribe: autoStartTranscribe(&captured)}
	ttsClient := &ttsClientStub{}
	engine := newTestEngine(t, &manualTimers{},
		WithSpeechToTextClient(sttClient),
		WithTextToSpeechClient(ttsClient),
	)

	engine.Enable()
	engine.Enable()

	if sttClient.transcribeCalls != 1 {
		t.Fatalf("expected the second enable to leave the session alone, got %d sessions", sttClient.transcribeCalls)
	}

	if len(ttsClient.spoken) != 2 || ttsClient.spoken[1] != greetingResponse {
		t.Fatalf("expected the greeting to repeat, got %v", ttsClient.spoken)
	}
}

func TestDisableStopsListeningAndSaysFarewell(t *testing.T) {
	var captured speechtotext.TranscriptionOptions
	sttClient := &sttClientStub{transcribe: autoStartTranscribe(&captured)}
	ttsClient := &ttsClientStub{}
	engine := newTestEngine(t, &manualTimers{},
		WithSpeechToTextClient(sttClient),
		WithTextToSpeechClient(ttsClient),
	)

	engine.Enable()
	engine.Disable()

	if sttClient.stops != 1 {
		t.Fatalf("expected one stop request, got %d", sttClient.stops)
	}

	if enabled, _ := engine.State(); enabled {
		t.Fatalf("expected engine disabled")
	}

	last := ttsClient.spoken[len(ttsClient.spoken)-1]
	if last != farewellResponse {
		t.Fatalf("expected farewell, got %q", last)
	}
}

func TestAudioForwardedOnlyWhileSessionActive(t *testing.T) {
	var captured speechtotext.TranscriptionOptions
	sttClient := &sttClientStub{transcribe: autoStartTranscribe(&captured)}
	engine := newTestEngine(t, &manualTimers{},
		WithSpeechToTextClient(sttClient),
		WithTextToSpeechClient(&ttsClientStub{}),
	)

	if err := engine.speechToText.SendAudio([]byte{1}); err != nil {
		t.Fatalf("expected audio before a session to be dropped silently, got %v", err)
	}
	if len(sttClient.sent) != 0 {
		t.Fatalf("expected no audio forwarded before a session, got %d chunks", len(sttClient.sent))
	}

	engine.Enable()
	if err := engine.speechToText.SendAudio([]byte{2}); err != nil {
		t.Fatalf("expected audio during a session to forward, got %v", err)
	}
	if len(sttClient.sent) != 1 {
		t.Fatalf("expected one forwarded chunk, got %d", len(sttClient.sent))
	}
}
