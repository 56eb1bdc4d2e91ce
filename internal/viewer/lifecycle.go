package viewer

import (
	"fmt"
	"math"

	"viewerhost/internal/platform"
)

// Launch initializes the window, runs the frame loop until the window closes
// and shuts everything down. It returns the initialization error, if any.
func (v *Viewer) Launch(opts LaunchOptions) error {
	if err := v.LaunchInit(opts); err != nil {
		v.LaunchShut()
		return err
	}
	defer v.LaunchShut()
	v.RenderGuarded(true)
	return nil
}

// LaunchInit creates the window and graphics context, installs the native
// adapters and initializes plugins. On error the caller must still call
// LaunchShut to release whatever was acquired.
func (v *Viewer) LaunchInit(opts LaunchOptions) error {
	v.pluginsShut = false
	if err := v.platform.Init(); err != nil {
		v.logger.Error("windowing layer init failed", "platform", v.platform.Name(), "err", err)
		return fmt.Errorf("%w: %w", ErrPlatformInit, err)
	}
	v.platformUp = true

	if opts.Name == "" {
		opts.Name = "viewer"
	}
	v.name = opts.Name
	cfg := platform.WindowConfig{
		Title:     opts.Name,
		Resizable: opts.Resizable,
		Samples:   8,
	}
	if opts.Fullscreen {
		w, h, err := v.platform.PrimaryVideoMode()
		if err != nil {
			v.logger.Error("primary video mode unavailable", "err", err)
			return fmt.Errorf("%w: %w", ErrWindowCreate, err)
		}
		cfg.Width, cfg.Height, cfg.Fullscreen = w, h, true
	} else {
		cfg.Width, cfg.Height = opts.Width, opts.Height
		if cfg.Width <= 0 {
			cfg.Width = DefaultWidth
		}
		if cfg.Height <= 0 {
			cfg.Height = DefaultHeight
		}
	}

	win, err := v.platform.CreateWindow(cfg)
	if err != nil {
		v.logger.Error("window creation failed", "width", cfg.Width, "height", cfg.Height, "err", err)
		return fmt.Errorf("%w: %w", ErrWindowCreate, err)
	}
	if win == nil {
		return ErrWindowCreate
	}
	v.window = win
	if !opts.Fullscreen && opts.Maximize {
		win.Maximize()
	}

	win.MakeContextCurrent()
	if err := win.LoadGraphics(); err != nil {
		v.logger.Error("graphics loader failed", "err", err)
		return fmt.Errorf("%w: %w", ErrGraphicsLoad, err)
	}
	win.SetCallbacks(v.nativeCallbacks())

	fbW, _ := win.FramebufferSize()
	winW, winH := win.WindowSize()
	if fbW > 0 && winW > 0 {
		v.scale = float64(fbW) / float64(winW)
	}
	v.logger.Info("window created",
		"platform", v.platform.Name(),
		"width", winW,
		"height", winH,
		"fullscreen", cfg.Fullscreen,
		"density", v.scale,
	)
	v.resizeFromWindow(winW, winH)

	v.Init()
	return nil
}

// Init runs the init callback and then every plugin's Init. A true return
// from the callback skips plugin initialization.
func (v *Viewer) Init() {
	if cb := v.Callbacks.Init; cb != nil {
		if cb(v) {
			v.logger.Info("plugin initialization cancelled by init callback")
			return
		}
	}
	for _, p := range v.plugins {
		p.Init(v)
	}
}

// LaunchRendering runs the frame loop. With loop false it returns after a
// single iteration.
func (v *Viewer) LaunchRendering(loop bool) {
	if v.window == nil {
		return
	}
	first := true
	for !v.window.ShouldClose() {
		v.ReconcileDensity()
		v.Draw(first)
		first = false
		v.window.SwapBuffers()

		if v.IsAnimating || v.framesSinceEvent < v.extraFrames {
			v.framesSinceEvent++
			v.platform.PollEvents()
		} else {
			v.platform.WaitEvents()
		}
		if !loop {
			return
		}
	}
}

// RenderGuarded runs LaunchRendering and recovers a panic raised by a
// plugin, callback or the draw action. It reports whether the loop ended
// without one. The panic is logged and not re-raised.
func (v *Viewer) RenderGuarded(loop bool) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("render loop aborted", "panic", r)
			ok = false
		}
	}()
	v.LaunchRendering(loop)
	return true
}

// LaunchShut shuts plugins down, destroys the window and terminates the
// windowing layer. Calling it again, or after a failed LaunchInit, is safe.
func (v *Viewer) LaunchShut() {
	if !v.pluginsShut {
		for _, p := range v.plugins {
			p.Shutdown()
		}
		v.pluginsShut = true
	}
	if v.window != nil {
		v.window.Destroy()
		v.window = nil
	}
	if v.platformUp {
		v.platform.Terminate()
		v.platformUp = false
		v.logger.Info("windowing layer terminated")
	}
}

// nativeCallbacks builds the adapters from native events into the router.
// They close over v, so no process-wide viewer pointer is needed.
func (v *Viewer) nativeCallbacks() platform.Callbacks {
	return platform.Callbacks{
		Key: func(key platform.Key, action platform.Action, mods platform.ModifierKey) {
			v.markEvent()
			if key == platform.KeyEscape && action == platform.Press && v.window != nil {
				v.window.SetShouldClose(true)
			}
			switch action {
			case platform.Press:
				v.KeyDown(key, mods)
			case platform.Release:
				v.KeyUp(key, mods)
			case platform.Repeat:
				v.KeyRepeat(key, mods)
			}
		},
		CursorPos: func(x, y float64) {
			v.markEvent()
			v.MouseMove(int(x*v.scale), int(y*v.scale))
		},
		WindowSize: func(width, height int) {
			v.markEvent()
			v.resizeFromWindow(width, height)
		},
		MouseButton: func(button platform.MouseButton, action platform.Action, mods platform.ModifierKey) {
			v.markEvent()
			mb := nativeButton(button)
			if action == platform.Press {
				v.MouseDown(mb, mods)
			} else {
				v.MouseUp(mb, mods)
			}
		},
		Scroll: func(_, dy float64) {
			v.markEvent()
			v.MouseScroll(float32(dy))
		},
		CharMods: func(r rune, mods platform.ModifierKey) {
			v.markEvent()
			v.KeyPressed(r, mods)
		},
		Drop: func(paths []string) {
			v.markEvent()
			for _, path := range paths {
				if !v.LoadFile(path) {
					v.logger.Warn("dropped file not handled", "path", path)
				}
			}
		},
	}
}

func nativeButton(b platform.MouseButton) MouseButton {
	switch b {
	case platform.MouseButton1:
		return MouseButtonLeft
	case platform.MouseButton2:
		return MouseButtonRight
	default:
		return MouseButtonMiddle
	}
}

// markEvent restarts the debounce window so the loop keeps polling for a
// few frames after input.
func (v *Viewer) markEvent() {
	v.framesSinceEvent = 0
}

func (v *Viewer) resizeFromWindow(width, height int) {
	v.PostResize(int(math.Round(float64(width)*v.scale)), int(math.Round(float64(height)*v.scale)))
}
