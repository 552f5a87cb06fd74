package inputs

// Key identifies a keyboard key. Values match GLFW key codes so the window
// owner can convert with a plain cast.
type Key int

// MouseButton identifies a mouse button. Values match GLFW button codes.
type MouseButton int

// Action is the kind of key or button event. Values match GLFW actions.
type Action int

const (
	Release Action = 0
	Press   Action = 1
	Repeat  Action = 2
)

const (
	KeyA      Key = 65
	KeyD      Key = 68
	KeyE      Key = 69
	KeyI      Key = 73
	KeyJ      Key = 74
	KeyK      Key = 75
	KeyL      Key = 76
	KeyO      Key = 79
	KeyQ      Key = 81
	KeyS      Key = 83
	KeyU      Key = 85
	KeyW      Key = 87
	KeyEscape Key = 256
)

const (
	MouseButtonLeft   MouseButton = 0
	MouseButtonRight  MouseButton = 1
	MouseButtonMiddle MouseButton = 2
)

// Reader is the read-only view of the input state handed to pipeline stages.
type Reader interface {
	// PressCount returns how many times key has been pressed this session.
	PressCount(key Key) int
	// KeyDown reports whether key is currently held.
	KeyDown(key Key) bool
	// ButtonDown reports whether button is currently held.
	ButtonDown(button MouseButton) bool
	// Cursor returns the last known cursor position in window coordinates.
	Cursor() (x, y float64)
}

// State records keyboard and mouse input for one window. It is mutated only
// by the window's event callbacks, which run during event polling on the
// render thread, so it carries no lock.
type State struct {
	keyCounter      map[Key]int
	keyDown         map[Key]bool
	mouseButtonDown map[MouseButton]bool
	cursorX         float64
	cursorY         float64
}

func NewState() *State {
	return &State{
		keyCounter:      make(map[Key]int),
		keyDown:         make(map[Key]bool),
		mouseButtonDown: make(map[MouseButton]bool),
	}
}

// OnKey records a key event. Repeats leave the state untouched.
func (s *State) OnKey(key Key, action Action) {
	switch action {
	case Press:
		s.keyCounter[key]++
		s.keyDown[key] = true
	case Release:
		s.keyDown[key] = false
	}
}

// OnMouseButton records a mouse button event.
func (s *State) OnMouseButton(button MouseButton, action Action) {
	switch action {
	case Press:
		s.mouseButtonDown[button] = true
	case Release:
		s.mouseButtonDown[button] = false
	}
}

// OnCursor records the cursor position.
func (s *State) OnCursor(x, y float64) {
	s.cursorX = x
	s.cursorY = y
}

func (s *State) PressCount(key Key) int {
	return s.keyCounter[key]
}

func (s *State) KeyDown(key Key) bool {
	return s.keyDown[key]
}

func (s *State) ButtonDown(button MouseButton) bool {
	return s.mouseButtonDown[button]
}

func (s *State) Cursor() (float64, float64) {
	return s.cursorX, s.cursorY
}

// Axis returns +1 when only positive is held, -1 when only negative is held,
// and 0 when both or neither are held.
func Axis(r Reader, positive, negative Key) float32 {
	var v float32
	if r.KeyDown(positive) {
		v++
	}
	if r.KeyDown(negative) {
		v--
	}
	return v
}
