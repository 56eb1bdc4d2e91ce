package viewer

import (
	"errors"
	"io"
	"log/slog"

	"viewerhost/internal/platform"
	"viewerhost/internal/render"
)

const (
	DefaultWidth       = 1280
	DefaultHeight      = 800
	DefaultExtraFrames = 5

	densityEpsilon = 1e-8
)

var (
	ErrPlatformInit = errors.New("viewer: could not initialize windowing layer")
	ErrWindowCreate = errors.New("viewer: could not create window")
	ErrGraphicsLoad = errors.New("viewer: could not load graphics entry points")
)

type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonMiddle
	MouseButtonRight
)

func (b MouseButton) String() string {
	switch b {
	case MouseButtonLeft:
		return "left"
	case MouseButtonMiddle:
		return "middle"
	case MouseButtonRight:
		return "right"
	}
	return "unknown"
}

type MouseMode int

const (
	MouseModeNone MouseMode = iota
	MouseModeRotation
	MouseModeZoom
	MouseModePan
	MouseModeTranslation
)

func (m MouseMode) String() string {
	switch m {
	case MouseModeNone:
		return "none"
	case MouseModeRotation:
		return "rotation"
	case MouseModeZoom:
		return "zoom"
	case MouseModePan:
		return "pan"
	case MouseModeTranslation:
		return "translation"
	}
	return "unknown"
}

// Callbacks are the legacy per-event hooks. They run after every plugin has
// declined an event. A true return from Init cancels plugin initialization.
type Callbacks struct {
	Init        func(v *Viewer) bool
	PreDraw     func(v *Viewer) bool
	PostDraw    func(v *Viewer) bool
	PostResize  func(v *Viewer, w, h int) bool
	MouseDown   func(v *Viewer, button MouseButton, mods platform.ModifierKey) bool
	MouseUp     func(v *Viewer, button MouseButton, mods platform.ModifierKey) bool
	MouseMove   func(v *Viewer, x, y int) bool
	MouseScroll func(v *Viewer, deltaY float32) bool
	KeyPressed  func(v *Viewer, key rune, mods platform.ModifierKey) bool
	KeyDown     func(v *Viewer, key platform.Key, mods platform.ModifierKey) bool
	KeyUp       func(v *Viewer, key platform.Key, mods platform.ModifierKey) bool
	KeyRepeat   func(v *Viewer, key platform.Key, mods platform.ModifierKey) bool
}

// Drag is the normalized pointer travel since the last mouse down, recorded
// while a button is held.
type Drag struct {
	Mode MouseMode
	DX   float64
	DY   float64
}

type LaunchOptions struct {
	Resizable  bool
	Fullscreen bool
	Maximize   bool
	Name       string
	Width      int
	Height     int
}

func DefaultLaunchOptions() LaunchOptions {
	return LaunchOptions{Resizable: true, Name: "viewer"}
}

// Viewer owns the native window and routes its events through the plugin
// chain. Only one goroutine may drive a Viewer; native adapters run inside
// PollEvents and WaitEvents on that goroutine.
type Viewer struct {
	Callbacks Callbacks

	IsAnimating bool

	CurrentMouseX  int
	CurrentMouseY  int
	DownMouseX     int
	DownMouseY     int
	Down           bool
	MouseMode      MouseMode
	ScrollPosition float32
	Drag           Drag

	platform platform.Platform
	window   platform.Window
	plugins  []Plugin
	draw     func()
	logger   *slog.Logger
	name     string

	scale            float64
	extraFrames      int
	framesSinceEvent int
	platformUp       bool
	pluginsShut      bool
}

type Option func(*Viewer)

func WithLogger(l *slog.Logger) Option {
	return func(v *Viewer) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithExtraFrames sets how many frames keep polling after an event before
// the loop goes back to blocking.
func WithExtraFrames(n int) Option {
	return func(v *Viewer) {
		if n >= 0 {
			v.extraFrames = n
		}
	}
}

func New(p platform.Platform, opts ...Option) *Viewer {
	v := &Viewer{
		platform:    p,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		scale:       1,
		extraFrames: DefaultExtraFrames,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.framesSinceEvent = v.extraFrames
	return v
}

// AddPlugin appends p to the dispatch chain. Plugins must be registered
// before LaunchInit.
func (v *Viewer) AddPlugin(p Plugin) {
	v.plugins = append(v.plugins, p)
}

func (v *Viewer) Plugins() []Plugin {
	out := make([]Plugin, len(v.plugins))
	copy(out, v.plugins)
	return out
}

// SetDrawAction installs the per-frame draw procedure. The last call wins.
func (v *Viewer) SetDrawAction(fn func()) {
	v.draw = fn
}

func (v *Viewer) Window() platform.Window { return v.window }
func (v *Viewer) Logger() *slog.Logger    { return v.logger }

// Surface returns the window's frame buffer, or nil before LaunchInit.
func (v *Viewer) Surface() *render.FrameBuffer {
	if v.window == nil {
		return nil
	}
	return v.window.Surface()
}

// DensityScale is the stored ratio of framebuffer pixels to window units.
func (v *Viewer) DensityScale() float64 { return v.scale }

func (v *Viewer) FramebufferSize() (int, int) {
	if v.window == nil {
		return 0, 0
	}
	return v.window.FramebufferSize()
}

// Close asks the frame loop to stop after the current iteration.
func (v *Viewer) Close() {
	if v.window != nil {
		v.window.SetShouldClose(true)
	}
}
