package events

const (
	// KindUtteranceStarted identifies text submitted for synthesis.
	KindUtteranceStarted Kind = "assistant_speech.utterance_started"
	// KindUtteranceCancelled identifies superseded in-flight speech.
	KindUtteranceCancelled Kind = "assistant_speech.utterance_cancelled"
)

// UtteranceStarted carries the id and text of a submitted utterance.
type UtteranceStarted struct {
	Base
	UtteranceID string
	Text        string
}

// NewUtteranceStarted creates an utterance started event.
func NewUtteranceStarted(id, text string) UtteranceStarted {
	return UtteranceStarted{Base: NewBase(KindUtteranceStarted), UtteranceID: id, Text: text}
}

// UtteranceCancelled carries the id of a cancelled utterance.
type UtteranceCancelled struct {
	Base
	UtteranceID string
}

// NewUtteranceCancelled creates an utterance cancelled event.
func NewUtteranceCancelled(id string) UtteranceCancelled {
	return UtteranceCancelled{Base: NewBase(KindUtteranceCancelled), UtteranceID: id}
}
