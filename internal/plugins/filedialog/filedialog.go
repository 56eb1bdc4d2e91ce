package filedialog

import (
	"errors"
	"fmt"
	"path/filepath"

	"viewerhost/internal/platform"
	"viewerhost/internal/viewer"
	"viewerhost/pkg/scene"

	"github.com/sqweek/dialog"
)

const Name = "file-dialog"

// ErrNoSelection is returned when a picker closes without a path.
var ErrNoSelection = errors.New("no file selected")

// Plugin binds the native open/save dialogs:
//
//	Ctrl+O        load a file through the plugin chain
//	Ctrl+S        save through the plugin chain
//	Ctrl+Shift+O  load a scene
//	Ctrl+Shift+S  save a scene
type Plugin struct {
	viewer.PluginBase

	Scene scene.SaveOptions

	PickOpen  func(title, filterDesc string, exts ...string) (string, error)
	PickSave  func(title, filterDesc string, exts ...string) (string, error)
	ShowError func(title, msg string)

	lastScene string
}

func New(sceneOpts scene.SaveOptions) *Plugin {
	return &Plugin{
		PluginBase: viewer.NewPluginBase(Name),
		Scene:      sceneOpts,
		PickOpen:   pickOpen,
		PickSave:   pickSave,
		ShowError:  showError,
	}
}

func pickOpen(title, filterDesc string, exts ...string) (string, error) {
	b := dialog.File().Title(title)
	if len(exts) > 0 {
		b = b.Filter(filterDesc, exts...)
	}
	return b.Load()
}

func pickSave(title, filterDesc string, exts ...string) (string, error) {
	b := dialog.File().Title(title)
	if len(exts) > 0 {
		b = b.Filter(filterDesc, exts...)
	}
	return b.Save()
}

func showError(title, msg string) {
	dialog.Message("%s", msg).Title(title).Error()
}

func (p *Plugin) KeyDown(key platform.Key, mods platform.ModifierKey) bool {
	if p.Viewer == nil || mods&platform.ModControl == 0 {
		return false
	}
	shift := mods&platform.ModShift != 0
	var err error
	switch {
	case key == 'O' && shift:
		err = p.openScene()
	case key == 'S' && shift:
		err = p.saveScene()
	case key == 'O':
		err = p.openFile()
	case key == 'S':
		err = p.saveFile()
	default:
		return false
	}
	p.report(err)
	return true
}

func (p *Plugin) report(err error) {
	if err == nil || errors.Is(err, dialog.ErrCancelled) {
		return
	}
	p.Viewer.Logger().Warn("file dialog", "err", err)
	if p.ShowError != nil {
		p.ShowError("Viewer", err.Error())
	}
}

func (p *Plugin) openFile() error {
	path, err := p.pick(p.PickOpen, "Open", "", nil)
	if err != nil {
		return err
	}
	if !p.Viewer.LoadFile(path) {
		return fmt.Errorf("no plugin could load %s", filepath.Base(path))
	}
	return nil
}

func (p *Plugin) saveFile() error {
	path, err := p.pick(p.PickSave, "Save", "", nil)
	if err != nil {
		return err
	}
	if !p.Viewer.SaveFile(path) {
		return fmt.Errorf("no plugin could save %s", filepath.Base(path))
	}
	return nil
}

func (p *Plugin) openScene() error {
	path, err := p.pick(p.PickOpen, "Open scene", "Viewer scenes", []string{"vwscene"})
	if err != nil {
		return err
	}
	if err := p.Viewer.LoadScene(path, scene.LoadOptions{Password: p.Scene.Encryption.Password}); err != nil {
		return err
	}
	p.lastScene = path
	return nil
}

func (p *Plugin) saveScene() error {
	path, err := p.pick(p.PickSave, "Save scene", "Viewer scenes", []string{"vwscene"})
	if err != nil {
		return err
	}
	if filepath.Ext(path) == "" {
		path += ".vwscene"
	}
	if err := p.Viewer.SaveScene(path, p.Scene); err != nil {
		return err
	}
	p.lastScene = path
	return nil
}

func (p *Plugin) pick(fn func(string, string, ...string) (string, error), title, desc string, exts []string) (string, error) {
	path, err := fn(title, desc, exts...)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", ErrNoSelection
	}
	return filepath.Clean(path), nil
}

// LastScene is the most recent scene path opened or saved.
func (p *Plugin) LastScene() string { return p.lastScene }
