package dispatch

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	events "github.com/pathwise/voicepilot-core/core/events"
	"github.com/pathwise/voicepilot-core/core/texttospeech"
)

// Fixed prosody applied to every assistant utterance.
var defaultProsody = texttospeech.Prosody{Rate: 0.9, Pitch: 1.1, Volume: 0.8}

// preferredVoiceVendors are tried first when picking a synthesizer voice.
var preferredVoiceVendors = []string{"Google", "Microsoft"}

type speaker struct {
	// client stores the configured synthesis implementation.
	client TextToSpeech

	// output receives the synthesized audio stream for playback.
	output *audioOutput

	prosody   texttospeech.Prosody
	emitEvent eventEmitter

	mu sync.Mutex
	// activeUtteranceID tracks the single in-flight utterance so a newer one
	// can report the cancellation it caused.
	activeUtteranceID string
}

func newSpeaker(client TextToSpeech) *speaker {
	return &speaker{
		client:    client,
		output:    newAudioOutput(nil),
		prosody:   defaultProsody,
		emitEvent: noopEventEmitter,
	}
}

func (s *speaker) set(client TextToSpeech) {
	if s != nil {
		s.client = client
	}
}

func (s *speaker) SetAudioOutput(output *audioOutput) {
	if s != nil && output != nil {
		s.output = output
	}
}

func (s *speaker) SetEventEmitter(emitEvent eventEmitter) {
	if s != nil {
		if emitEvent != nil {
			s.emitEvent = emitEvent
		} else {
			s.emitEvent = noopEventEmitter
		}
	}
}

func (s *speaker) isConfigured() bool {
	return s != nil && s.client != nil
}

// Speak submits text for playback, cancelling whatever is in flight first so
// at most one utterance is ever audible. It never blocks on playback.
func (s *speaker) Speak(ctx context.Context, text string) {
	if !s.isConfigured() || text == "" {
		return
	}

	s.mu.Lock()
	cancelledID := s.activeUtteranceID
	utteranceID := uuid.NewString()
	s.activeUtteranceID = utteranceID

	prosody := texttospeech.Prosody{}
	if err := copier.Copy(&prosody, &s.prosody); err != nil {
		prosody = defaultProsody
	}
	s.mu.Unlock()

	if err := s.client.CancelAll(); err != nil {
		logger.Warn("failed to cancel in-flight utterance", "error", err)
	}
	// Audio from the cancelled utterance that is still queued must not play.
	s.output.Clear()
	if cancelledID != "" {
		s.emitEvent(events.NewUtteranceCancelled(cancelledID))
	}

	utteranceOptions := []texttospeech.UtteranceOption{
		texttospeech.WithProsody(prosody),
		texttospeech.WithSpeechAudioCallback(s.output.SendAudio),
		texttospeech.WithSpeechEndedCallback(func() { s.clearActive(utteranceID) }),
		texttospeech.WithErrorCallback(func(err error) {
			logger.Warn("utterance playback failed", "error", err)
			s.clearActive(utteranceID)
		}),
	}
	if voice := preferredVoice(s.client.Voices()); voice != nil {
		utteranceOptions = append(utteranceOptions, texttospeech.WithVoice(*voice))
	}

	s.emitEvent(events.NewUtteranceStarted(utteranceID, text))
	if err := s.client.Speak(ctx, text, utteranceOptions...); err != nil {
		logger.Warn("failed to submit utterance", "error", err)
		s.clearActive(utteranceID)
	}
}

func (s *speaker) clearActive(utteranceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeUtteranceID == utteranceID {
		s.activeUtteranceID = ""
	}
}

// preferredVoice picks the first voice from a known vendor, then the first
// English-locale voice, then gives up and lets the synthesizer use its
// default.
func preferredVoice(voices []texttospeech.Voice) *texttospeech.Voice {
	for _, voice := range voices {
		for _, vendor := range preferredVoiceVendors {
			if strings.Contains(voice.Name, vendor) {
				return &voice
			}
		}
	}

	for _, voice := range voices {
		if strings.HasPrefix(voice.Locale, "en") {
			return &voice
		}
	}

	return nil
}
