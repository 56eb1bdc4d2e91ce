package clip

import (
	"errors"
	"strings"

	"viewerhost/internal/platform"
	"viewerhost/internal/viewer"

	textclip "github.com/atotto/clipboard"
	imageclip "golang.design/x/clipboard"
)

const Name = "clipboard"

var ErrImageClipboardUnavailable = errors.New("clip: image clipboard unavailable")

// Plugin binds clipboard shortcuts:
//
//	Ctrl+C        copy the current frame as PNG
//	Ctrl+Shift+C  copy the status text
//	Ctrl+V        load the file whose path is on the clipboard
type Plugin struct {
	viewer.PluginBase

	Status func() string

	WriteText  func(string) error
	ReadText   func() (string, error)
	WriteImage func([]byte) error

	imageReady bool
}

func New(status func() string) *Plugin {
	p := &Plugin{
		PluginBase: viewer.NewPluginBase(Name),
		Status:     status,
		WriteText:  textclip.WriteAll,
		ReadText:   textclip.ReadAll,
	}
	p.WriteImage = p.writeImage
	return p
}

func (p *Plugin) Init(v *viewer.Viewer) {
	p.PluginBase.Init(v)
	if err := imageclip.Init(); err != nil {
		v.Logger().Warn("image clipboard unavailable", "err", err)
		return
	}
	p.imageReady = true
}

func (p *Plugin) writeImage(png []byte) error {
	if !p.imageReady {
		return ErrImageClipboardUnavailable
	}
	imageclip.Write(imageclip.FmtImage, png)
	return nil
}

func (p *Plugin) KeyDown(key platform.Key, mods platform.ModifierKey) bool {
	if p.Viewer == nil || mods&platform.ModControl == 0 {
		return false
	}
	switch {
	case key == 'C' && mods&platform.ModShift != 0:
		return p.copyStatus()
	case key == 'C':
		return p.copyFrame()
	case key == 'V':
		return p.pastePath()
	}
	return false
}

func (p *Plugin) copyFrame() bool {
	fb := p.Viewer.Surface()
	if fb == nil {
		return false
	}
	blob, err := fb.EncodePNG()
	if err != nil {
		p.Viewer.Logger().Error("encode frame", "err", err)
		return true
	}
	if err := p.WriteImage(blob); err != nil {
		p.Viewer.Logger().Warn("copy frame", "err", err)
		return true
	}
	p.Viewer.Logger().Info("frame copied to clipboard", "bytes", len(blob))
	return true
}

func (p *Plugin) copyStatus() bool {
	if p.Status == nil {
		return false
	}
	if err := p.WriteText(p.Status()); err != nil {
		p.Viewer.Logger().Warn("copy status", "err", err)
	}
	return true
}

func (p *Plugin) pastePath() bool {
	text, err := p.ReadText()
	if err != nil {
		p.Viewer.Logger().Warn("read clipboard", "err", err)
		return true
	}
	path := strings.TrimSpace(text)
	if path == "" {
		return false
	}
	if !p.Viewer.LoadFile(path) {
		p.Viewer.Logger().Warn("pasted path not handled", "path", path)
	}
	return true
}
