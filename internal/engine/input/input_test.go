package input

import "testing"

func TestInputFrame(t *testing.T) {
	in := New()
	in.Push(Event{Type: EventMouseMove, MouseX: 10, MouseY: 20})
	in.Push(Event{Type: EventKeyDown, Key: KeyF12})

	if len(in.Events()) != 2 {
		t.Fatalf("expected 2 events, got %d", len(in.Events()))
	}
	if !in.IsKeyPressed(KeyF12) {
		t.Error("expected F12 to be pressed")
	}
	if in.IsKeyPressed(KeyEscape) {
		t.Error("escape was not pressed")
	}
	if in.QuitRequested() {
		t.Error("no quit event was pushed")
	}

	in.Reset()
	if len(in.Events()) != 0 {
		t.Errorf("expected no events after Reset, got %d", len(in.Events()))
	}

	in.Push(Event{Type: EventQuit})
	if !in.QuitRequested() {
		t.Error("expected quit to be requested")
	}
}

func TestKeyUpIsNotPress(t *testing.T) {
	in := New()
	in.Push(Event{Type: EventKeyUp, Key: KeyR})
	if in.IsKeyPressed(KeyR) {
		t.Error("key up should not count as a press")
	}
}
