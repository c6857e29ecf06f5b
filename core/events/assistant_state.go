package events

const (
	// KindStateChanged identifies enabled/listening state snapshots.
	KindStateChanged Kind = "assistant_state.changed"
	// KindRecognitionUnsupported identifies the permanent no-capability state.
	KindRecognitionUnsupported Kind = "assistant_state.unsupported"
)

// StateChanged carries a snapshot of the assistant session state.
type StateChanged struct {
	Base
	Enabled   bool
	Listening bool
}

// NewStateChanged creates a session state snapshot event.
func NewStateChanged(enabled, listening bool) StateChanged {
	return StateChanged{Base: NewBase(KindStateChanged), Enabled: enabled, Listening: listening}
}

// RecognitionUnsupported marks that no recognition capability is available.
type RecognitionUnsupported struct{ Base }

// NewRecognitionUnsupported creates a recognition unsupported event.
func NewRecognitionUnsupported() RecognitionUnsupported {
	return RecognitionUnsupported{Base: NewBase(KindRecognitionUnsupported)}
}
