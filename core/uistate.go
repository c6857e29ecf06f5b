package dispatch

// UIState is what a toggle affordance should display for the current
// session state.
type UIState string

const (
	UIStateUnsupported UIState = "unsupported"
	UIStateListening   UIState = "listening"
	UIStateReady       UIState = "ready"
	UIStateOff         UIState = "off"
)

// DeriveUIState is a pure projection of the session snapshot. Listening
// outranks enabled: while a session is still winding down after a disable,
// the affordance keeps showing the live state the user can observe.
func DeriveUIState(supported, enabled, listening bool) UIState {
	switch {
	case !supported:
		return UIStateUnsupported
	case listening:
		return UIStateListening
	case enabled:
		return UIStateReady
	default:
		return UIStateOff
	}
}

func (s UIState) Label() string {
	switch s {
	case UIStateUnsupported:
		return "Voice unavailable"
	case UIStateListening:
		return "Listening..."
	case UIStateReady:
		return "Voice ready"
	default:
		return "Voice off"
	}
}

func (s UIState) Prompt() string {
	switch s {
	case UIStateUnsupported:
		return "Voice recognition is not supported here"
	case UIStateListening:
		return "Say a command, or goodbye to stop"
	case UIStateReady:
		return "Starting to listen"
	default:
		return "Toggle to start the voice assistant"
	}
}
