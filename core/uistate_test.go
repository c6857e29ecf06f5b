package dispatch

import "testing"

func TestDeriveUIState(t *testing.T) {
	cases := []struct {
		name      string
		supported bool
		enabled   bool
		listening bool
		want      UIState
	}{
		{"unsupported always wins", false, true, true, UIStateUnsupported},
		{"listening", true, true, true, UIStateListening},
		{"listening outlives disable", true, false, true, UIStateListening},
		{"enabled but waiting", true, true, false, UIStateReady},
		{"off", true, false, false, UIStateOff},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := DeriveUIState(c.supported, c.enabled, c.listening); got != c.want {
				t.Fatalf("expected %v, got %v", c.want, got)
			}
		})
	}
}

func TestUIStateLabelsAreDistinct(t *testing.T) {
	states := []UIState{UIStateUnsupported, UIStateListening, UIStateReady, UIStateOff}

	seen := map[string]UIState{}
	for _, state := range states {
		label := state.Label()
		if label == "" {
			t.Fatalf("expected a label for %v", state)
		}
		if prev, ok := seen[label]; ok {
			t.Fatalf("expected distinct labels, %v and %v share %q", prev, state, label)
		}
		seen[label] = state
	}
}
