// Package input defines the window-system-neutral events the viewer reacts
// to. The window package translates SDL events into these.
package input

// EventType identifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Key is a keyboard key the viewer binds.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyF12
	KeyR
)

// Button is a mouse button.
type Button uint8

const (
	ButtonLeft   Button = 1
	ButtonMiddle Button = 2
	ButtonRight  Button = 3
)

// Event represents a processed input event.
type Event struct {
	Type EventType
	Key  Key

	// Window resize, logical pixels plus device pixel ratio
	Width      int
	Height     int
	PixelRatio float32

	// Pointer, logical pixels
	MouseX float32
	MouseY float32
	Button Button
	WheelY float32 // Positive away from the user
}

// Input collects the events of one frame.
type Input struct {
	events []Event
}

// New creates a new input buffer.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Reset clears the events of the previous frame.
func (i *Input) Reset() {
	i.events = i.events[:0]
}

// Push records an event for this frame.
func (i *Input) Push(e Event) {
	i.events = append(i.events, e)
}

// Events returns the events recorded since the last Reset.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(key Key) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == key {
			return true
		}
	}
	return false
}

// QuitRequested reports whether a quit event arrived this frame.
func (i *Input) QuitRequested() bool {
	for _, e := range i.events {
		if e.Type == EventQuit {
			return true
		}
	}
	return false
}
