package filedialog

import (
	"io"
	"path/filepath"
	"testing"

	"viewerhost/internal/platform"
	"viewerhost/internal/platform/headless"
	"viewerhost/internal/viewer"
	"viewerhost/pkg/scene"

	"github.com/sqweek/dialog"
)

type store struct {
	viewer.PluginBase
	loaded, saved []string
	state         string
}

func (s *store) Load(path string, _ bool) bool {
	s.loaded = append(s.loaded, path)
	return true
}

func (s *store) Save(path string, _ bool) bool {
	s.saved = append(s.saved, path)
	return true
}

func (s *store) Serialize(w io.Writer) bool {
	_, err := w.Write([]byte(s.state))
	return err == nil
}

type harness struct {
	v      *viewer.Viewer
	p      *Plugin
	s      *store
	errors []string
}

func setup(t *testing.T, picked string, pickErr error) *harness {
	t.Helper()
	h := &harness{}
	h.v = viewer.New(headless.New(headless.Options{}))
	h.p = New(scene.SaveOptions{Compression: true})
	pick := func(string, string, ...string) (string, error) { return picked, pickErr }
	h.p.PickOpen = pick
	h.p.PickSave = pick
	h.p.ShowError = func(_, msg string) { h.errors = append(h.errors, msg) }
	h.s = &store{PluginBase: viewer.NewPluginBase("store")}
	h.v.AddPlugin(h.p)
	h.v.AddPlugin(h.s)
	if err := h.v.LaunchInit(viewer.LaunchOptions{Width: 16, Height: 16}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(h.v.LaunchShut)
	return h
}

func TestOpenRoutesToLoadChain(t *testing.T) {
	h := setup(t, "/data/../data/mesh.off", nil)
	if !h.v.KeyDown('O', platform.ModControl) {
		t.Fatal("expected ctrl+o to be consumed")
	}
	if len(h.s.loaded) != 1 || h.s.loaded[0] != "/data/mesh.off" {
		t.Fatalf("unexpected loads: %v", h.s.loaded)
	}
}

func TestSaveRoutesToSaveChain(t *testing.T) {
	h := setup(t, "/data/out.obj", nil)
	h.v.KeyDown('S', platform.ModControl)
	if len(h.s.saved) != 1 || h.s.saved[0] != "/data/out.obj" {
		t.Fatalf("unexpected saves: %v", h.s.saved)
	}
}

func TestCancelIsSilent(t *testing.T) {
	h := setup(t, "", dialog.ErrCancelled)
	h.v.KeyDown('O', platform.ModControl)
	if len(h.errors) != 0 || len(h.s.loaded) != 0 {
		t.Fatalf("cancel should do nothing, errors=%v loads=%v", h.errors, h.s.loaded)
	}
}

func TestEmptySelectionReportsError(t *testing.T) {
	h := setup(t, "", nil)
	h.v.KeyDown('S', platform.ModControl)
	if len(h.errors) != 1 || h.errors[0] != ErrNoSelection.Error() {
		t.Fatalf("unexpected errors: %v", h.errors)
	}
}

func TestSaveSceneAppendsExtension(t *testing.T) {
	base := filepath.Join(t.TempDir(), "session")
	h := setup(t, base, nil)

	h.v.KeyDown('S', platform.ModControl|platform.ModShift)
	if len(h.errors) != 0 {
		t.Fatalf("unexpected errors: %v", h.errors)
	}
	if got := h.p.LastScene(); got != base+".vwscene" {
		t.Fatalf("unexpected scene path %q", got)
	}
	if _, err := scene.Load(h.p.LastScene(), scene.LoadOptions{}); err != nil {
		t.Fatalf("saved scene does not load: %v", err)
	}
}

func TestOpenSceneFailureIsReported(t *testing.T) {
	h := setup(t, filepath.Join(t.TempDir(), "missing.vwscene"), nil)
	h.v.KeyDown('O', platform.ModControl|platform.ModShift)
	if len(h.errors) != 1 {
		t.Fatalf("expected one reported error, got %v", h.errors)
	}
}
