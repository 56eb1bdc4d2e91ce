package ebitenwin

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sync"

	"viewerhost/internal/platform"
	"viewerhost/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
)

var ErrStopped = errors.New("ebitenwin: game loop stopped")

// Backend adapts ebiten's game loop to the poll/wait windowing model. ebiten
// runs on the main goroutine while the host runs on its own goroutine; input
// gathered in Update is queued and delivered when the host polls or waits.
type Backend struct {
	logger *slog.Logger

	mu       sync.Mutex
	queue    []platform.Event
	win      *Window
	tempDirs []string

	wake     chan struct{}
	quit     chan struct{}
	quitOnce sync.Once
}

func New(logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Backend{
		logger: logger,
		wake:   make(chan struct{}, 1),
		quit:   make(chan struct{}),
	}
}

// Run drives ebiten on the calling goroutine, which must be the main one,
// and runs host concurrently. It returns once both have finished.
func (b *Backend) Run(host func(p platform.Platform) error) error {
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetScreenClearedEveryFrame(false)
	ebiten.SetRunnableOnUnfocused(true)

	errc := make(chan error, 1)
	go func() {
		defer b.stop()
		errc <- host(b)
	}()

	runErr := ebiten.RunGame(&game{b: b})
	b.stop()
	hostErr := <-errc
	b.cleanup()
	if runErr != nil {
		return fmt.Errorf("run game loop: %w", runErr)
	}
	return hostErr
}

func (b *Backend) Name() string { return "ebiten" }

func (b *Backend) Init() error {
	if b.stopped() {
		return ErrStopped
	}
	return nil
}

func (b *Backend) Terminate() {
	b.stop()
}

func (b *Backend) PrimaryVideoMode() (int, int, error) {
	w, h := ebiten.Monitor().Size()
	if w <= 0 || h <= 0 {
		return 0, 0, errors.New("ebitenwin: primary monitor size unavailable")
	}
	return w, h, nil
}

func (b *Backend) CreateWindow(cfg platform.WindowConfig) (platform.Window, error) {
	if b.stopped() {
		return nil, ErrStopped
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	} else {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	}
	ebiten.SetFullscreen(cfg.Fullscreen)

	scale := ebiten.Monitor().DeviceScaleFactor()
	w := &Window{
		b:    b,
		winW: cfg.Width,
		winH: cfg.Height,
		fbW:  scaled(cfg.Width, scale),
		fbH:  scaled(cfg.Height, scale),
	}
	b.mu.Lock()
	b.win = w
	b.mu.Unlock()
	return w, nil
}

func (b *Backend) PollEvents() {
	b.deliver(b.take())
}

func (b *Backend) WaitEvents() {
	for {
		if evs := b.take(); len(evs) > 0 {
			b.deliver(evs)
			return
		}
		select {
		case <-b.wake:
		case <-b.quit:
			return
		}
	}
}

func (b *Backend) push(evs []platform.Event) {
	if len(evs) == 0 {
		return
	}
	b.mu.Lock()
	b.queue = append(b.queue, evs...)
	b.mu.Unlock()
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

func (b *Backend) take() []platform.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	evs := b.queue
	b.queue = nil
	return evs
}

func (b *Backend) deliver(evs []platform.Event) {
	b.mu.Lock()
	w := b.win
	b.mu.Unlock()
	if w == nil {
		return
	}
	for _, ev := range evs {
		platform.Dispatch(w, w.callbacks, ev)
	}
}

func (b *Backend) stop() {
	b.quitOnce.Do(func() { close(b.quit) })
}

func (b *Backend) stopped() bool {
	select {
	case <-b.quit:
		return true
	default:
		return false
	}
}

func (b *Backend) cleanup() {
	b.mu.Lock()
	dirs := b.tempDirs
	b.tempDirs = nil
	b.mu.Unlock()
	for _, dir := range dirs {
		if err := os.RemoveAll(dir); err != nil {
			b.logger.Warn("remove drop staging dir", "dir", dir, "err", err)
		}
	}
}

// layout records the logical and framebuffer sizes reported by ebiten and
// queues a resize when the logical size changed.
func (b *Backend) layout(winW, winH, fbW, fbH int) {
	b.mu.Lock()
	w := b.win
	if w == nil || w.destroyed {
		b.mu.Unlock()
		return
	}
	resized := w.winW != winW || w.winH != winH
	w.winW, w.winH, w.fbW, w.fbH = winW, winH, fbW, fbH
	b.mu.Unlock()
	if resized {
		b.push([]platform.Event{{Type: platform.EventResize, Width: winW, Height: winH}})
	}
}

func scaled(v int, scale float64) int {
	return int(math.Ceil(float64(v) * scale))
}

// Window is the single ebiten window. Size fields and the front buffer are
// shared with the ebiten goroutine and guarded by the backend mutex.
type Window struct {
	b *Backend

	winW, winH int
	fbW, fbH   int

	front          []byte
	frontW, frontH int
	shouldClose    bool
	destroyed      bool

	callbacks platform.Callbacks
	surface   *render.FrameBuffer
}

// MakeContextCurrent is a no-op: ebiten owns the graphics context on its own
// goroutine and only the swapped frame crosses over.
func (w *Window) MakeContextCurrent() {}

func (w *Window) LoadGraphics() error {
	fbW, fbH := w.FramebufferSize()
	w.surface = render.NewFrameBuffer(fbW, fbH)
	return nil
}

func (w *Window) Surface() *render.FrameBuffer {
	fbW, fbH := w.FramebufferSize()
	if w.surface == nil {
		w.surface = render.NewFrameBuffer(fbW, fbH)
	}
	w.surface.Resize(fbW, fbH)
	return w.surface
}

func (w *Window) SetCallbacks(cb platform.Callbacks) { w.callbacks = cb }

func (w *Window) FramebufferSize() (int, int) {
	w.b.mu.Lock()
	defer w.b.mu.Unlock()
	return w.fbW, w.fbH
}

func (w *Window) WindowSize() (int, int) {
	w.b.mu.Lock()
	defer w.b.mu.Unlock()
	return w.winW, w.winH
}

func (w *Window) Maximize() { ebiten.MaximizeWindow() }

// SwapBuffers publishes the surface as the next frame ebiten presents.
func (w *Window) SwapBuffers() {
	if w.surface == nil {
		return
	}
	w.b.mu.Lock()
	defer w.b.mu.Unlock()
	if len(w.front) != len(w.surface.Pixels) {
		w.front = make([]byte, len(w.surface.Pixels))
	}
	copy(w.front, w.surface.Pixels)
	w.frontW, w.frontH = w.surface.W, w.surface.H
}

func (w *Window) ShouldClose() bool {
	if w.b.stopped() {
		return true
	}
	w.b.mu.Lock()
	defer w.b.mu.Unlock()
	return w.shouldClose
}

func (w *Window) SetShouldClose(v bool) {
	w.b.mu.Lock()
	w.shouldClose = v
	w.b.mu.Unlock()
}

func (w *Window) SetTitle(title string) { ebiten.SetWindowTitle(title) }

func (w *Window) Destroy() {
	w.b.mu.Lock()
	w.destroyed = true
	w.front = nil
	w.b.mu.Unlock()
}
