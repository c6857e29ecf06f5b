package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/pathwise/voicepilot-core/core/audio"
	"github.com/pathwise/voicepilot-core/core/speechtotext"
)

// recognitionLanguage is the fixed locale requested from the capability.
const recognitionLanguage = "en-US"

var errRecognitionAlreadyStarted = errors.New("recognition already started")

// speechToTextCallbacks is how the engine hears about the recognition
// session lifecycle and its transcripts.
type speechToTextCallbacks struct {
	onListeningStarted func()
	onListeningEnded   func()
	onError            func(err error)
	onResultBatch      func(batch []speechtotext.Hypothesis)
}

type speechToText struct {
	// client stores the configured speech-to-text implementation.
	client SpeechToText

	// active reports whether a recognition session is currently open. It
	// clears when the capability delivers its listening-ended callback.
	active atomic.Bool
}

func newSpeechToText(client SpeechToText) *speechToText {
	return &speechToText{client: client}
}

func (s *speechToText) set(client SpeechToText) {
	if s != nil {
		s.client = client
	}
}

func (s *speechToText) isConfigured() bool {
	return s != nil && s.client != nil
}

func (s *speechToText) Start(ctx context.Context, callbacks speechToTextCallbacks, encodingInfo *audio.EncodingInfo) error {
	if !s.isConfigured() {
		return nil
	}

	if !s.active.CompareAndSwap(false, true) {
		return errRecognitionAlreadyStarted
	}

	sttOptions := []speechtotext.TranscriptionOption{
		speechtotext.WithListeningStartedCallback(callbacks.onListeningStarted),
		speechtotext.WithListeningEndedCallback(func() {
			s.active.Store(false)
			if callbacks.onListeningEnded != nil {
				callbacks.onListeningEnded()
			}
		}),
		speechtotext.WithErrorCallback(callbacks.onError),
		speechtotext.WithResultBatchCallback(callbacks.onResultBatch),
		speechtotext.WithLanguage(recognitionLanguage),
	}
	if encodingInfo != nil {
		sttOptions = append(sttOptions, speechtotext.WithEncodingInfo(*encodingInfo))
	}

	if err := s.client.Transcribe(ctx, sttOptions...); err != nil {
		s.active.Store(false)
		return fmt.Errorf("failed to start transcribing: %w", err)
	}

	return nil
}

// Stop asks the capability to end the current session. The listening-ended
// callback is expected to follow asynchronously.
func (s *speechToText) Stop() error {
	if !s.isConfigured() || !s.active.Load() {
		return nil
	}

	if stoppable, ok := s.client.(interface{ StopStream() error }); ok {
		if err := stoppable.StopStream(); err != nil {
			return fmt.Errorf("failed to stop transcription stream: %w", err)
		}
	}

	return nil
}

func (s *speechToText) SendAudio(audio []byte) error {
	if !s.isConfigured() || !s.active.Load() {
		return nil
	}

	return s.client.SendAudio(audio)
}

func (s *speechToText) Close(ctx context.Context) error {
	if !s.isConfigured() {
		return nil
	}

	switch c := s.client.(type) {
	case interface{ Close(context.Context) error }:
		if err := c.Close(ctx); err != nil {
			return fmt.Errorf("failed to close speech-to-text client: %w", err)
		}
	case interface{ Close(context.Context) }:
		c.Close(ctx)
	case interface{ Close() error }:
		if err := c.Close(); err != nil {
			return fmt.Errorf("failed to close speech-to-text client: %w", err)
		}
	case interface{ Close() }:
		c.Close()
	}

	return nil
}
