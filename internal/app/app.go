package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"viewerhost/internal/config"
	"viewerhost/internal/platform"
	"viewerhost/internal/platform/ebitenwin"
	"viewerhost/internal/platform/headless"
	"viewerhost/internal/plugins/clip"
	"viewerhost/internal/plugins/filedialog"
	"viewerhost/internal/plugins/hud"
	"viewerhost/internal/plugins/imageview"
	"viewerhost/internal/ui"
	"viewerhost/internal/viewer"
	"viewerhost/pkg/scene"
)

type Options struct {
	ConfigPath string
	Headless   bool
	// Snapshot, when set, is where a headless run writes its last frame.
	Snapshot string
	// Frames caps a headless run. Zero means DefaultHeadlessFrames.
	Frames int
	Files  []string
	LogOut io.Writer
}

// DefaultHeadlessFrames bounds headless runs, which would otherwise never
// end while animating.
const DefaultHeadlessFrames = 120

type App struct {
	cfg    *config.Config
	opts   Options
	logger *slog.Logger
	theme  ui.Theme
	viewer *viewer.Viewer
	hud    *hud.Plugin
}

func New(opts Options) (*App, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.LoadFromPath(opts.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if opts.Headless {
		cfg.Backend = config.BackendHeadless
	}
	out := opts.LogOut
	if out == nil {
		out = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	return &App{cfg: cfg, opts: opts, logger: logger, theme: ui.DefaultTheme()}, nil
}

func (a *App) Config() *config.Config { return a.cfg }

// Viewer is the viewer built by the last Run, or nil.
func (a *App) Viewer() *viewer.Viewer { return a.viewer }

func (a *App) Run() error {
	a.logger.Info("starting viewer", "backend", a.cfg.Backend)
	switch a.cfg.Backend {
	case config.BackendHeadless:
		frames := a.opts.Frames
		if frames <= 0 {
			frames = DefaultHeadlessFrames
		}
		return a.runHeadless(headless.New(headless.Options{MaxFrames: frames}))
	default:
		return ebitenwin.New(a.logger).Run(a.host)
	}
}

// host runs a full Launch against p. It is handed to the ebiten backend,
// which calls it off the main goroutine.
func (a *App) host(p platform.Platform) (err error) {
	v := a.build(p)
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("viewer aborted", "panic", r)
			v.LaunchShut()
			err = fmt.Errorf("viewer aborted: %v", r)
		}
	}()
	if err := v.LaunchInit(a.launchOptions()); err != nil {
		v.LaunchShut()
		return err
	}
	defer v.LaunchShut()
	a.openInitial(v)
	v.RenderGuarded(true)
	return nil
}

func (a *App) runHeadless(b *headless.Backend) error {
	v := a.build(b)
	if err := v.LaunchInit(a.launchOptions()); err != nil {
		v.LaunchShut()
		return err
	}
	defer v.LaunchShut()
	a.openInitial(v)
	if !v.RenderGuarded(true) {
		return errors.New("render loop aborted")
	}
	if a.opts.Snapshot == "" {
		return nil
	}
	fb := v.Surface()
	if fb == nil {
		return errors.New("no surface to snapshot")
	}
	blob, err := fb.EncodePNG()
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(a.opts.Snapshot, blob, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	a.logger.Info("snapshot written", "path", a.opts.Snapshot, "bytes", len(blob))
	return nil
}

func (a *App) build(p platform.Platform) *viewer.Viewer {
	v := viewer.New(p, viewer.WithLogger(a.logger), viewer.WithExtraFrames(a.cfg.ExtraFrames))
	v.IsAnimating = a.cfg.Animating

	a.hud = hud.New(a.theme)
	a.hud.Visible = a.cfg.HUD.Enabled

	v.AddPlugin(imageview.New(a.theme))
	v.AddPlugin(filedialog.New(a.sceneOptions()))
	v.AddPlugin(clip.New(a.hud.Status))
	v.AddPlugin(a.hud)

	names := make([]string, 0, 4)
	for _, pl := range v.Plugins() {
		names = append(names, pl.Name())
	}
	a.logger.Debug("plugins registered", "plugins", names)

	v.SetDrawAction(func() { a.drawViewport(v) })
	a.viewer = v
	return v
}

func (a *App) drawViewport(v *viewer.Viewer) {
	fb := v.Surface()
	if fb == nil {
		return
	}
	layout := ui.ComputeLayout(fb.W, fb.H, a.theme, v.DensityScale())
	ui.DrawViewport(fb, layout, a.theme, ui.Pointer{
		X:     v.CurrentMouseX,
		Y:     v.CurrentMouseY,
		Down:  v.Down,
		DownX: v.DownMouseX,
		DownY: v.DownMouseY,
	})
}

func (a *App) launchOptions() viewer.LaunchOptions {
	w := a.cfg.Window
	return viewer.LaunchOptions{
		Resizable:  w.Resizable,
		Fullscreen: w.Fullscreen,
		Maximize:   w.Maximize,
		Name:       w.Title,
		Width:      w.Width,
		Height:     w.Height,
	}
}

func (a *App) sceneOptions() scene.SaveOptions {
	s := a.cfg.Scene
	return scene.SaveOptions{
		Compression: s.Compress,
		Encryption:  scene.EncryptionOptions{Enabled: s.Password != "", Password: s.Password},
	}
}

func (a *App) openInitial(v *viewer.Viewer) {
	if path := a.cfg.Scene.Path; path != "" {
		if err := v.LoadScene(path, scene.LoadOptions{Password: a.cfg.Scene.Password}); err != nil {
			a.logger.Warn("startup scene not loaded", "err", err)
		}
	}
	for _, path := range a.opts.Files {
		if !v.LoadFile(path) {
			a.logger.Warn("no plugin could load file", "path", path)
		}
	}
}
