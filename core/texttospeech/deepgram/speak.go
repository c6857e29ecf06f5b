package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pathwise/voicepilot-core/core/audio"
	"github.com/pathwise/voicepilot-core/core/texttospeech"
)

// SpeechClient synthesizes utterances through deepgram's speak endpoint. At
// most one utterance is in flight at a time; submitting a new one cancels the
// previous request.
type SpeechClient struct {
	voice        deepgramVoice
	encodingInfo audio.EncodingInfo

	mu     sync.Mutex
	active *speakRequest
}

func NewSpeechClient(ctx context.Context, voice deepgramVoice) (*SpeechClient, error) {
	client := &SpeechClient{voice: defaultVoice, encodingInfo: audio.GetDefaultEncodingInfo()}

	if !slices.Contains(GetAvailableVoices(), voice) {
		return nil, fmt.Errorf("invalid voice")
	}

	client.voice = voice

	return client, nil
}

func (c *SpeechClient) SetVoice(voice deepgramVoice) {
	c.voice = voice
}

// Voices reports the catalog in stable model order.
func (c *SpeechClient) Voices() []texttospeech.Voice {
	voices := []texttospeech.Voice{}
	for _, model := range GetAvailableVoices() {
		voices = append(voices, voiceCatalog[model])
	}
	return voices
}

func (c *SpeechClient) Speak(ctx context.Context, text string, opts ...texttospeech.UtteranceOption) error {
	options := texttospeech.UtteranceOptions{
		SpeechAudioCallback: func([]byte) {},
		SpeechEndedCallback: func() {},
		ErrorCallback:       func(error) {},
	}
	for _, opt := range opts {
		opt(&options)
	}

	voice := c.voice
	if options.Voice != nil {
		voice = deepgramVoice(options.Voice.Name)
		if !slices.Contains(GetAvailableVoices(), voice) {
			voice = c.voice
		}
	}

	if err := c.CancelAll(); err != nil {
		log.Println("Failed to cancel in-flight utterance", err)
	}

	conn, err := connectWebsocket(voice, c.encodingInfo)
	if err != nil {
		return fmt.Errorf("failed to open websocket: %w", err)
	}

	request := &speakRequest{ws: conn, options: options}

	c.mu.Lock()
	c.active = request
	c.mu.Unlock()

	go request.run(ctx, text)

	return nil
}

// CancelAll drops the in-flight utterance, if any. Audio that already left
// the synthesizer is the playback sink's problem.
func (c *SpeechClient) CancelAll() error {
	c.mu.Lock()
	request := c.active
	c.active = nil
	c.mu.Unlock()

	if request == nil {
		return nil
	}

	if err := request.cancel(); err != nil {
		return fmt.Errorf("failed to cancel utterance: %w", err)
	}
	return nil
}

func connectWebsocket(voice deepgramVoice, encodingInfo audio.EncodingInfo) (*websocket.Conn, error) {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	urlValues := url.Values{}
	urlValues.Set("encoding", encodingInfo.Format.Name())
	urlValues.Set("sample_rate", strconv.Itoa(encodingInfo.SampleRate))
	urlValues.Set("model", string(voice))
	urlValues.Set("container", "none")

	conn, _, err := websocket.DefaultDialer.Dial(
		(&url.URL{
			Scheme: "wss",
			Host:   "api.deepgram.com", Path: "/v1/speak",
			RawQuery: urlValues.Encode(),
		}).String(),
		http.Header{"Authorization": {"token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, nil
}

type speakRequest struct {
	ws *websocket.Conn
	mu sync.Mutex

	options texttospeech.UtteranceOptions

	cancelled bool
	closed    bool
}

func (r *speakRequest) run(_ context.Context, text string) {
	if err := r.sendWebsocketMessage(sendTextMsg(text)); err != nil {
		r.options.ErrorCallback(fmt.Errorf("failed to send utterance text: %w", err))
		_ = r.close()
		return
	}
	if err := r.sendWebsocketMessage(flushMsg); err != nil {
		r.options.ErrorCallback(fmt.Errorf("failed to flush utterance: %w", err))
		_ = r.close()
		return
	}

	for {
		msgType, msg, err := r.ws.ReadMessage()
		if err != nil {
			if r.isCancelled() {
				return
			}
			if err.Error() != "websocket: close 1000 (normal)" {
				log.Printf("Websocket read error: %v", err)
				r.options.ErrorCallback(err)
			}
			_ = r.close()
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			if !r.isCancelled() {
				r.options.SpeechAudioCallback(msg)
			}
		case websocket.TextMessage:
			var parsedMsg struct {
				Type string `json:"type"`
			}
			if err := json.Unmarshal(msg, &parsedMsg); err != nil {
				continue
			}

			switch parsedMsg.Type {
			case "Flushed":
				if !r.isCancelled() {
					r.options.SpeechEndedCallback()
				}
				_ = r.close()
				return
			}
		}
	}
}

func (r *speakRequest) isCancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelled
}

func (r *speakRequest) cancel() error {
	r.mu.Lock()
	if r.cancelled || r.closed {
		r.mu.Unlock()
		return nil
	}
	r.cancelled = true
	r.mu.Unlock()

	err := r.sendWebsocketMessage(clearMsg)
	closeErr := r.close()
	if err != nil {
		return err
	}
	return closeErr
}

func (r *speakRequest) close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	ws := r.ws
	r.mu.Unlock()

	if err := ws.WriteJSON(closeMsg); err != nil {
		if aggressiveCloseErr := ws.Close(); aggressiveCloseErr != nil {
			return fmt.Errorf("failed to close websocket: %w", errors.Join(err, aggressiveCloseErr))
		}
	}
	return nil
}

type websocketMessage struct {
	Type string `json:"type"`
}

var (
	sendTextMsg = func(text string) struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} {
		return struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{Type: "Speak", Text: text}
	}
	flushMsg = websocketMessage{Type: "Flush"}
	clearMsg = websocketMessage{Type: "Clear"}
	closeMsg = websocketMessage{Type: "Close"}
)

func (r *speakRequest) sendWebsocketMessage(msg any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return fmt.Errorf("websocket connection closed")
	} else if r.ws == nil {
		return fmt.Errorf("websocket connection closed")
	}

	if err := r.ws.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write to websocket: %w", err)
	}
	return nil
}
