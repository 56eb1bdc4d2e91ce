package headless

import (
	"errors"

	"viewerhost/internal/platform"
	"viewerhost/internal/render"
)

var (
	ErrInitFailed     = errors.New("headless: init failed")
	ErrCreateFailed   = errors.New("headless: window creation failed")
	ErrGraphicsFailed = errors.New("headless: graphics loader failed")
)

// Options configures the simulated display. Zero sizes default to a
// 1920x1080 monitor with a density scale of 1.
type Options struct {
	MonitorWidth  int
	MonitorHeight int
	Scale         int
	// MaxFrames, when positive, requests close once that many frames have
	// been swapped. Animating loops never wait, so they need it to end.
	MaxFrames int

	FailInit     bool
	FailCreate   bool
	FailGraphics bool
}

// Backend is an in-memory platform. Events are queued with Inject and
// delivered from PollEvents or WaitEvents on the calling goroutine.
type Backend struct {
	opts Options

	Initialized bool
	Terminated  int
	Polls       int
	Waits       int

	win   *Window
	queue []platform.Event
}

func New(opts Options) *Backend {
	if opts.MonitorWidth <= 0 {
		opts.MonitorWidth = 1920
	}
	if opts.MonitorHeight <= 0 {
		opts.MonitorHeight = 1080
	}
	if opts.Scale <= 0 {
		opts.Scale = 1
	}
	return &Backend{opts: opts}
}

func (b *Backend) Name() string { return "headless" }

func (b *Backend) Init() error {
	if b.opts.FailInit {
		return ErrInitFailed
	}
	b.Initialized = true
	return nil
}

func (b *Backend) Terminate() {
	b.Initialized = false
	b.Terminated++
}

func (b *Backend) PrimaryVideoMode() (int, int, error) {
	return b.opts.MonitorWidth, b.opts.MonitorHeight, nil
}

func (b *Backend) CreateWindow(cfg platform.WindowConfig) (platform.Window, error) {
	if b.opts.FailCreate {
		return nil, ErrCreateFailed
	}
	b.win = &Window{
		backend: b,
		Config:  cfg,
		title:   cfg.Title,
		w:       cfg.Width,
		h:       cfg.Height,
		fbW:     cfg.Width * b.opts.Scale,
		fbH:     cfg.Height * b.opts.Scale,
	}
	return b.win, nil
}

// Window returns the most recently created window.
func (b *Backend) Window() *Window { return b.win }

// Inject queues an event for the next PollEvents or WaitEvents call.
func (b *Backend) Inject(evs ...platform.Event) {
	b.queue = append(b.queue, evs...)
}

func (b *Backend) Pending() int { return len(b.queue) }

func (b *Backend) PollEvents() {
	b.Polls++
	b.drain()
}

// WaitEvents delivers queued events. With nothing queued there is no source
// that could ever wake it, so the window is asked to close instead.
func (b *Backend) WaitEvents() {
	b.Waits++
	if len(b.queue) == 0 {
		if b.win != nil {
			b.win.shouldClose = true
		}
		return
	}
	b.drain()
}

func (b *Backend) drain() {
	for len(b.queue) > 0 {
		ev := b.queue[0]
		b.queue = b.queue[1:]
		if b.win == nil || b.win.destroyed {
			continue
		}
		if ev.Type == platform.EventResize {
			b.win.w, b.win.h = ev.Width, ev.Height
			b.win.fbW, b.win.fbH = ev.Width*b.opts.Scale, ev.Height*b.opts.Scale
		}
		platform.Dispatch(b.win, b.win.callbacks, ev)
	}
}

type Window struct {
	backend *Backend
	Config  platform.WindowConfig

	title       string
	w, h        int
	fbW, fbH    int
	callbacks   platform.Callbacks
	surface     *render.FrameBuffer
	shouldClose bool
	destroyed   bool

	Current   bool
	Maximized bool
	Swaps     int
}

func (w *Window) MakeContextCurrent() { w.Current = true }

func (w *Window) LoadGraphics() error {
	if w.backend.opts.FailGraphics {
		return ErrGraphicsFailed
	}
	w.surface = render.NewFrameBuffer(w.fbW, w.fbH)
	return nil
}

func (w *Window) Surface() *render.FrameBuffer {
	if w.surface == nil {
		w.surface = render.NewFrameBuffer(w.fbW, w.fbH)
	}
	w.surface.Resize(w.fbW, w.fbH)
	return w.surface
}

func (w *Window) SetCallbacks(cb platform.Callbacks) { w.callbacks = cb }
func (w *Window) FramebufferSize() (int, int)        { return w.fbW, w.fbH }
func (w *Window) WindowSize() (int, int)             { return w.w, w.h }

func (w *Window) Maximize() {
	w.Maximized = true
	w.w, w.h = w.backend.opts.MonitorWidth, w.backend.opts.MonitorHeight
	w.fbW, w.fbH = w.w*w.backend.opts.Scale, w.h*w.backend.opts.Scale
}

func (w *Window) SwapBuffers() {
	w.Swaps++
	if limit := w.backend.opts.MaxFrames; limit > 0 && w.Swaps >= limit {
		w.shouldClose = true
	}
}

func (w *Window) ShouldClose() bool     { return w.shouldClose }
func (w *Window) SetShouldClose(v bool) { w.shouldClose = v }
func (w *Window) SetTitle(title string) { w.title = title }
func (w *Window) Title() string         { return w.title }
func (w *Window) Destroy()              { w.destroyed = true }
func (w *Window) Destroyed() bool       { return w.destroyed }

// SetFramebufferSize changes the framebuffer without notifying callbacks,
// the way a display density change does.
func (w *Window) SetFramebufferSize(width, height int) {
	w.fbW, w.fbH = width, height
}
