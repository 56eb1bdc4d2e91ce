package ebitenwin

import (
	"io/fs"
	"os"
	"path/filepath"

	"viewerhost/internal/platform"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	repeatDelayTicks    = 30
	repeatIntervalTicks = 3
)

var nativeButtons = []struct {
	eb  ebiten.MouseButton
	nat platform.MouseButton
}{
	{ebiten.MouseButtonLeft, platform.MouseButton1},
	{ebiten.MouseButtonRight, platform.MouseButton2},
	{ebiten.MouseButtonMiddle, platform.MouseButton3},
}

type game struct {
	b *Backend

	keys   []ebiten.Key
	chars  []rune
	lastX  int
	lastY  int
	moved  bool
	events []platform.Event
}

func (g *game) Update() error {
	if g.b.stopped() {
		return ebiten.Termination
	}
	g.events = g.collect(g.events[:0])
	if ebiten.IsWindowBeingClosed() {
		g.events = append(g.events, platform.Event{Type: platform.EventClose})
	}
	if len(g.events) > 0 {
		evs := make([]platform.Event, len(g.events))
		copy(evs, g.events)
		g.b.push(evs)
	}
	return nil
}

func (g *game) collect(evs []platform.Event) []platform.Event {
	mods := currentMods()
	scale := ebiten.Monitor().DeviceScaleFactor()
	if scale <= 0 {
		scale = 1
	}

	g.keys = inpututil.AppendJustPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		if code := keyCode(k); code != platform.KeyUnknown {
			evs = append(evs, platform.Event{Type: platform.EventKey, Key: code, Action: platform.Press, Mods: mods})
		}
	}
	g.keys = inpututil.AppendPressedKeys(g.keys[:0])
	for _, k := range g.keys {
		d := inpututil.KeyPressDuration(k)
		if d <= repeatDelayTicks || (d-repeatDelayTicks)%repeatIntervalTicks != 0 {
			continue
		}
		if code := keyCode(k); code != platform.KeyUnknown {
			evs = append(evs, platform.Event{Type: platform.EventKey, Key: code, Action: platform.Repeat, Mods: mods})
		}
	}
	g.keys = inpututil.AppendJustReleasedKeys(g.keys[:0])
	for _, k := range g.keys {
		if code := keyCode(k); code != platform.KeyUnknown {
			evs = append(evs, platform.Event{Type: platform.EventKey, Key: code, Action: platform.Release, Mods: mods})
		}
	}

	g.chars = ebiten.AppendInputChars(g.chars[:0])
	for _, r := range g.chars {
		evs = append(evs, platform.Event{Type: platform.EventChar, Rune: r, Mods: mods})
	}

	x, y := ebiten.CursorPosition()
	if !g.moved || x != g.lastX || y != g.lastY {
		g.lastX, g.lastY, g.moved = x, y, true
		evs = append(evs, platform.Event{Type: platform.EventCursorPos, X: float64(x) / scale, Y: float64(y) / scale})
	}

	for _, mb := range nativeButtons {
		if inpututil.IsMouseButtonJustPressed(mb.eb) {
			evs = append(evs, platform.Event{Type: platform.EventMouseButton, Button: mb.nat, Action: platform.Press, Mods: mods})
		}
		if inpututil.IsMouseButtonJustReleased(mb.eb) {
			evs = append(evs, platform.Event{Type: platform.EventMouseButton, Button: mb.nat, Action: platform.Release, Mods: mods})
		}
	}

	if wx, wy := ebiten.Wheel(); wx != 0 || wy != 0 {
		evs = append(evs, platform.Event{Type: platform.EventScroll, X: wx, Y: wy})
	}

	if files := ebiten.DroppedFiles(); files != nil {
		if paths := g.b.stage(files); len(paths) > 0 {
			evs = append(evs, platform.Event{Type: platform.EventDrop, Paths: paths})
		}
	}
	return evs
}

func (g *game) Draw(screen *ebiten.Image) {
	g.b.mu.Lock()
	defer g.b.mu.Unlock()
	w := g.b.win
	if w == nil || w.destroyed || w.front == nil {
		return
	}
	bounds := screen.Bounds()
	if bounds.Dx() != w.frontW || bounds.Dy() != w.frontH {
		return
	}
	screen.WritePixels(w.front)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	if scale <= 0 {
		scale = 1
	}
	fbW, fbH := scaled(outsideWidth, scale), scaled(outsideHeight, scale)
	g.b.layout(outsideWidth, outsideHeight, fbW, fbH)
	return fbW, fbH
}

// stage copies dropped files out of ebiten's virtual file system so loaders
// can open them by path.
func (b *Backend) stage(files fs.FS) []string {
	dir, err := os.MkdirTemp("", "viewer-drop-*")
	if err != nil {
		b.logger.Error("create drop staging dir", "err", err)
		return nil
	}
	b.mu.Lock()
	b.tempDirs = append(b.tempDirs, dir)
	b.mu.Unlock()

	var paths []string
	err = fs.WalkDir(files, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(files, p)
		if err != nil {
			return err
		}
		dst := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return err
		}
		paths = append(paths, dst)
		return nil
	})
	if err != nil {
		b.logger.Error("stage dropped files", "err", err)
	}
	return paths
}

func currentMods() platform.ModifierKey {
	var mods platform.ModifierKey
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= platform.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= platform.ModControl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= platform.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= platform.ModSuper
	}
	return mods
}
