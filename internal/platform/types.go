package platform

import "viewerhost/internal/render"

type WindowConfig struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	Resizable  bool
	Samples    int
}

type Action int

const (
	Release Action = iota
	Press
	Repeat
)

// ModifierKey is a bitmask of held modifier keys.
type ModifierKey int

const (
	ModShift   ModifierKey = 0x0001
	ModControl ModifierKey = 0x0002
	ModAlt     ModifierKey = 0x0004
	ModSuper   ModifierKey = 0x0008
)

// MouseButton is the native button index. Button 1 is left, 2 is right and 3
// is middle.
type MouseButton int

const (
	MouseButton1 MouseButton = iota
	MouseButton2
	MouseButton3
)

// Key is a native key code. Printable keys use their uppercase ASCII value.
type Key int

const (
	KeyUnknown   Key = -1
	KeySpace     Key = 32
	KeyComma     Key = 44
	KeyMinus     Key = 45
	KeyPeriod    Key = 46
	KeySlash     Key = 47
	Key0         Key = 48
	Key9         Key = 57
	KeySemicolon Key = 59
	KeyEqual     Key = 61
	KeyA         Key = 65
	KeyZ         Key = 90
	KeyEscape    Key = 256
	KeyEnter     Key = 257
	KeyTab       Key = 258
	KeyBackspace Key = 259
	KeyInsert    Key = 260
	KeyDelete    Key = 261
	KeyRight     Key = 262
	KeyLeft      Key = 263
	KeyDown      Key = 264
	KeyUp        Key = 265
	KeyPageUp    Key = 266
	KeyPageDown  Key = 267
	KeyHome      Key = 268
	KeyEnd       Key = 269
	KeyF1        Key = 290
	KeyF12       Key = 301
)

type EventType int

const (
	EventUnknown EventType = iota
	EventClose
	EventResize
	EventKey
	EventChar
	EventCursorPos
	EventMouseButton
	EventScroll
	EventDrop
)

type Event struct {
	Type   EventType
	Key    Key
	Action Action
	Mods   ModifierKey
	Button MouseButton
	Rune   rune
	X      float64
	Y      float64
	Width  int
	Height int
	Paths  []string
}

// Callbacks are the native event adapters installed on a window. Nil entries
// are skipped.
type Callbacks struct {
	Key         func(key Key, action Action, mods ModifierKey)
	CursorPos   func(x, y float64)
	WindowSize  func(width, height int)
	MouseButton func(button MouseButton, action Action, mods ModifierKey)
	Scroll      func(dx, dy float64)
	CharMods    func(r rune, mods ModifierKey)
	Drop        func(paths []string)
}

type Platform interface {
	Name() string
	Init() error
	Terminate()
	PrimaryVideoMode() (width, height int, err error)
	CreateWindow(cfg WindowConfig) (Window, error)
	// PollEvents delivers pending events to the window callbacks and returns.
	PollEvents()
	// WaitEvents blocks until at least one event is pending, then delivers it.
	WaitEvents()
}

type Window interface {
	MakeContextCurrent()
	LoadGraphics() error
	Surface() *render.FrameBuffer
	SetCallbacks(cb Callbacks)
	FramebufferSize() (int, int)
	WindowSize() (int, int)
	Maximize()
	SwapBuffers()
	ShouldClose() bool
	SetShouldClose(v bool)
	SetTitle(title string)
	Destroy()
}

// Dispatch routes a queued event to the matching callback. Close events set
// the should-close flag on w.
func Dispatch(w Window, cb Callbacks, ev Event) {
	switch ev.Type {
	case EventClose:
		w.SetShouldClose(true)
	case EventResize:
		if cb.WindowSize != nil {
			cb.WindowSize(ev.Width, ev.Height)
		}
	case EventKey:
		if cb.Key != nil {
			cb.Key(ev.Key, ev.Action, ev.Mods)
		}
	case EventChar:
		if cb.CharMods != nil {
			cb.CharMods(ev.Rune, ev.Mods)
		}
	case EventCursorPos:
		if cb.CursorPos != nil {
			cb.CursorPos(ev.X, ev.Y)
		}
	case EventMouseButton:
		if cb.MouseButton != nil {
			cb.MouseButton(ev.Button, ev.Action, ev.Mods)
		}
	case EventScroll:
		if cb.Scroll != nil {
			cb.Scroll(ev.X, ev.Y)
		}
	case EventDrop:
		if cb.Drop != nil && len(ev.Paths) > 0 {
			cb.Drop(ev.Paths)
		}
	}
}
