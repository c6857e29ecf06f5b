package deepgram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	api "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/websocket/interfaces"
	"github.com/gorilla/websocket"
	"github.com/pathwise/voicepilot-core/core/audio"
	"github.com/pathwise/voicepilot-core/core/speechtotext"
	"github.com/pathwise/voicepilot-core/internal/utils"
)

const defaultLanguage = "en-US"

// TranscriptionClient streams audio to deepgram's listen endpoint and maps
// its responses onto the speechtotext callback contract.
type TranscriptionClient struct {
	conn      *websocket.Conn
	connMu    sync.Mutex
	lastMsgTs time.Time
}

func NewTranscriptionClient() *TranscriptionClient {
	return &TranscriptionClient{}
}

func (s *TranscriptionClient) Transcribe(ctx context.Context, opts ...speechtotext.TranscriptionOption) error {
	options := &speechtotext.TranscriptionOptions{
		EncodingInfo: audio.GetDefaultEncodingInfo(),
		Language:     defaultLanguage,
	}
	for _, opt := range opts {
		opt(options)
	}

	callbacks := newCallbackConfig(*options)

	encoding, err := convertEncoding(options.EncodingInfo)
	if err != nil {
		return fmt.Errorf("invalid encoding: %w", err)
	}

	conn, err := connectWebsocket(connectionOptions{
		sampleRate: encoding.SampleRate,
		encoding:   encoding.Format.Name(),
		language:   options.Language,
	})
	if err != nil {
		return fmt.Errorf("failed to open websocket: %w", err)
	}

	s.conn = conn
	callbacks.listeningStarted()
	go s.readAndProcessMessages(ctx, conn, *encoding, callbacks)

	return nil
}

// transcriptionCallbacks is the noop-defaulted view of TranscriptionOptions
// used by the message loop so it never has to nil-check.
type transcriptionCallbacks struct {
	listeningStarted func()
	listeningEnded   func()
	onError          func(error)
	onResultBatch    func([]speechtotext.Hypothesis)
}

func newCallbackConfig(options speechtotext.TranscriptionOptions) transcriptionCallbacks {
	callbacks := transcriptionCallbacks{
		listeningStarted: func() {},
		listeningEnded:   func() {},
		onError:          func(error) {},
		onResultBatch:    func([]speechtotext.Hypothesis) {},
	}

	if options.ListeningStartedCallback != nil {
		callbacks.listeningStarted = options.ListeningStartedCallback
	}
	if options.ListeningEndedCallback != nil {
		callbacks.listeningEnded = options.ListeningEndedCallback
	}
	if options.ErrorCallback != nil {
		callbacks.onError = options.ErrorCallback
	}
	if options.ResultBatchCallback != nil {
		callbacks.onResultBatch = options.ResultBatchCallback
	}

	return callbacks
}

type connectionOptions struct {
	sampleRate int
	encoding   string
	language   string
}

func connectWebsocket(options connectionOptions) (*websocket.Conn, error) {
	apiKey, ok := os.LookupEnv("DEEPGRAM_API_KEY")
	if !ok {
		return nil, fmt.Errorf("deepgram api key not found")
	}

	listenUrl, _ := url.Parse("wss://api.deepgram.com/v1/listen")
	queryParams := listenUrl.Query()
	queryParams.Set("encoding", options.encoding)
	queryParams.Set("sample_rate", strconv.Itoa(options.sampleRate))
	queryParams.Set("channels", "1")
	queryParams.Set("model", "nova-3")
	queryParams.Set("language", options.language)
	queryParams.Set("smart_format", "true")
	queryParams.Set("interim_results", "true")
	queryParams.Set("endpointing", "300")

	listenUrl.RawQuery = queryParams.Encode()
	conn, _, err := websocket.DefaultDialer.Dial(listenUrl.String(),
		http.Header{"Authorization": {"Token " + apiKey}})
	if err != nil {
		return nil, fmt.Errorf("failed to open socket connection to deepgram: %w", err)
	}

	return conn, err
}

func (s *TranscriptionClient) sendKeepAlive() {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if err := s.conn.WriteJSON(
		struct {
			Type string `json:"type"`
		}{
			Type: "KeepAlive",
		}); err != nil {
		log.Println("Failed to write to deepgram client", "error", err)
	}
}

func (s *TranscriptionClient) SendAudio(audio []byte) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.conn == nil {
		return fmt.Errorf("transcription stream is not open")
	}

	s.lastMsgTs = time.Now()
	if err := s.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("failed to write to deepgram client: %w", err)
	}
	return nil
}

func (s *TranscriptionClient) sendSilence(audio []byte) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.conn == nil {
		return nil
	}

	if err := s.conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return fmt.Errorf("failed to write to deepgram client: %w", err)
	}
	return nil
}

// StopStream asks deepgram to finalize and close the current session. The
// listening-ended callback fires once the read loop observes the close.
func (s *TranscriptionClient) StopStream() error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.conn != nil {
		if err := s.conn.WriteJSON(struct {
			Type string `json:"type"`
		}{Type: string(api.TypeCloseStreamResponse)}); err != nil {
			return fmt.Errorf("failed to close deepgram stream through websocket: %w", err)
		}
	}
	return nil
}

func (s *TranscriptionClient) readAndProcessMessages(ctx context.Context, conn *websocket.Conn, encoding encodingInfo, callbacks transcriptionCallbacks) {
	silenceCtx, silenceCancel := context.WithCancel(ctx)
	defer silenceCancel()

	go s.generateSilence(silenceCtx, encoding)

	defer callbacks.listeningEnded()
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if err.Error() != "websocket: close 1000 (normal)" {
				log.Println("Failed to read deepgram websocket message", "error", err)
				callbacks.onError(err)
			}

			s.connMu.Lock()
			s.conn = nil
			s.connMu.Unlock()
			conn.Close()
			return
		}
		if msgType != websocket.BinaryMessage {
			s.processMessage(msg, callbacks)
		}
	}
}

func (s *TranscriptionClient) processMessage(msg []byte, callbacks transcriptionCallbacks) {
	var parsedMsg struct {
		Type string `json:"type"`
	}
	err := json.Unmarshal(msg, &parsedMsg)
	if err != nil {
		log.Println("Failed to unmarshal deepgram message", "error", err)
		return
	}

	switch api.TypeResponse(parsedMsg.Type) {
	case api.TypeMessageResponse:
		var msgResp api.MessageResponse
		if err := json.Unmarshal(msg, &msgResp); err != nil {
			log.Println("Failed to unmarshal deepgram message", err)
			return
		}

		batch := hypothesesFromMessage(msgResp)
		if len(batch) > 0 {
			callbacks.onResultBatch(batch)
		}

	case api.TypeResponse(api.TypeErrorResponse):
		callbacks.onError(fmt.Errorf("deepgram reported an error: %s", string(msg)))
	}
}

// hypothesesFromMessage flattens a deepgram message into hypotheses in rank
// order, carrying the message finality flag on every entry.
func hypothesesFromMessage(msg api.MessageResponse) []speechtotext.Hypothesis {
	batch := []speechtotext.Hypothesis{}
	for _, alternative := range msg.Channel.Alternatives {
		transcript := strings.TrimSpace(alternative.Transcript)
		if len(transcript) == 0 {
			continue
		}

		batch = append(batch, speechtotext.Hypothesis{
			Transcript: transcript,
			IsFinal:    msg.IsFinal,
		})
	}
	return batch
}

func (s *TranscriptionClient) generateSilence(ctx context.Context, encoding encodingInfo) {
	type silenceGeneratorState string
	const (
		silenceGeneratorStateWaiting   silenceGeneratorState = "waiting"
		silenceGeneratorStateSilence   silenceGeneratorState = "silence"
		silenceGeneratorStateKeepAlive silenceGeneratorState = "keepAlive"
	)

	const durationMs = 50
	const millisecondsPerSecond = 1000
	ticker := time.NewTicker(durationMs * time.Millisecond)

	byteSize := 2
	if encoding.Format != encodingLinear16 {
		byteSize = 1
	}
	chunk := make([]byte, encoding.SampleRate*byteSize*durationMs/millisecondsPerSecond)

	var state = silenceGeneratorStateWaiting
	var firstSilenceTime *time.Time
	var lastKeepAliveTime *time.Time
	for {
		select {
		case <-ctx.Done():
			ticker.Stop()
			return
		case <-ticker.C:
			switch state {
			case silenceGeneratorStateWaiting:
				if time.Since(s.lastMsgTs).Milliseconds() > 50 {
					state = silenceGeneratorStateSilence
					firstSilenceTime = utils.Ptr(time.Now())
					continue
				}

			case silenceGeneratorStateSilence:
				if time.Since(s.lastMsgTs).Milliseconds() < 50 {
					state = silenceGeneratorStateWaiting
					firstSilenceTime = nil
					continue
				}
				if time.Since(*firstSilenceTime).Milliseconds() >= 1000 {
					state = silenceGeneratorStateKeepAlive
					lastKeepAliveTime = utils.Ptr(time.Now())
					firstSilenceTime = nil
					continue
				}

				if err := s.sendSilence(chunk); err != nil {
					log.Println("Sending silence audio error", err)
				}

			case silenceGeneratorStateKeepAlive:
				if time.Since(s.lastMsgTs).Milliseconds() < 50 {
					state = silenceGeneratorStateWaiting
					continue
				}

				if time.Since(*lastKeepAliveTime).Seconds() >= 5 {
					lastKeepAliveTime = utils.Ptr(time.Now())
					s.sendKeepAlive()
				}
			}
		}
	}
}
