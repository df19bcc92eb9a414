package lifecycle

import "testing"

func TestMachine_ForwardOnly(t *testing.T) {
	var seen []State
	m := &machine{observer: func(s State) { seen = append(seen, s) }}

	for _, s := range []State{ConfigLoaded, Connected, Listening, Terminated} {
		if err := m.advance(s); err != nil {
			t.Fatalf("advance(%s): %v", s, err)
		}
	}
	if len(seen) != 4 {
		t.Fatalf("observer saw %v", seen)
	}
}

func TestMachine_RejectsSkipsAndBackwards(t *testing.T) {
	m := &machine{}
	if err := m.advance(Connected); err == nil {
		t.Error("expected NotStarted -> Connected to be rejected")
	}
	if err := m.advance(ConfigLoaded); err != nil {
		t.Fatalf("advance(ConfigLoaded): %v", err)
	}
	if err := m.advance(ConfigLoaded); err == nil {
		t.Error("expected repeated ConfigLoaded to be rejected")
	}
	if err := m.advance(NotStarted); err == nil {
		t.Error("expected backward transition to be rejected")
	}
}

func TestMachine_TerminatedIsFinal(t *testing.T) {
	m := &machine{}
	if err := m.advance(Terminated); err != nil {
		t.Fatalf("advance(Terminated) from NotStarted: %v", err)
	}
	if err := m.advance(ConfigLoaded); err == nil {
		t.Error("expected no transition out of Terminated")
	}
	if err := m.advance(Terminated); err == nil {
		t.Error("expected Terminated -> Terminated to be rejected")
	}
}

func TestState_String(t *testing.T) {
	if Listening.String() != "listening" {
		t.Errorf("Listening.String() = %q", Listening.String())
	}
	if State(42).String() != "state(42)" {
		t.Errorf("unknown state String() = %q", State(42).String())
	}
}
