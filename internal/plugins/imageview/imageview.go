package imageview

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"viewerhost/internal/ui"
	"viewerhost/internal/viewer"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const Name = "image"

var readable = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// Plugin loads a raster image and paints it, fitted and centered, into the
// viewport after the draw action runs. Save writes the current frame.
type Plugin struct {
	viewer.PluginBase

	theme ui.Theme
	img   image.Image
	path  string
}

func New(theme ui.Theme) *Plugin {
	return &Plugin{PluginBase: viewer.NewPluginBase(Name), theme: theme}
}

// Path is the loaded image file, or "" when nothing is loaded.
func (p *Plugin) Path() string { return p.path }

func (p *Plugin) Load(path string, _ bool) bool {
	if !readable[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	img, err := decodeFile(path)
	if err != nil {
		if p.Viewer != nil {
			p.Viewer.Logger().Warn("image load failed", "path", path, "err", err)
		}
		return false
	}
	p.img, p.path = img, path
	return true
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

func (p *Plugin) Unload() bool {
	if p.img == nil {
		return false
	}
	p.img, p.path = nil, ""
	return true
}

func (p *Plugin) Save(path string, _ bool) bool {
	if p.Viewer == nil || p.Viewer.Surface() == nil {
		return false
	}
	frame := p.Viewer.Surface().RGBA()
	var buf bytes.Buffer
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		err = png.Encode(&buf, frame)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(&buf, frame, &jpeg.Options{Quality: 92})
	case ".bmp":
		err = bmp.Encode(&buf, frame)
	case ".tif", ".tiff":
		err = tiff.Encode(&buf, frame, &tiff.Options{Compression: tiff.Deflate})
	default:
		return false
	}
	if err == nil {
		err = os.WriteFile(path, buf.Bytes(), 0o644)
	}
	if err != nil {
		p.Viewer.Logger().Error("frame save failed", "path", path, "err", err)
		return false
	}
	return true
}

func (p *Plugin) PostDraw(bool) bool {
	if p.img == nil || p.Viewer == nil {
		return false
	}
	fb := p.Viewer.Surface()
	if fb == nil {
		return false
	}
	layout := ui.ComputeLayout(fb.W, fb.H, p.theme, p.Viewer.DensityScale())
	dst := fit(p.img.Bounds(), fb.W, layout.ViewportH)
	if dst.Empty() {
		return false
	}
	xdraw.ApproxBiLinear.Scale(fb.RGBA(), dst, p.img, p.img.Bounds(), xdraw.Over, nil)
	return false
}

// fit scales src to the largest rectangle inside w×h keeping its aspect
// ratio, centered.
func fit(src image.Rectangle, w, h int) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if sw <= 0 || sh <= 0 || w <= 0 || h <= 0 {
		return image.Rectangle{}
	}
	dw, dh := w, sh*w/sw
	if dh > h {
		dw, dh = sw*h/sh, h
	}
	x0, y0 := (w-dw)/2, (h-dh)/2
	return image.Rect(x0, y0, x0+dw, y0+dh)
}

func (p *Plugin) Serialize(w io.Writer) bool {
	if p.path == "" {
		return false
	}
	_, err := io.WriteString(w, p.path)
	return err == nil
}

func (p *Plugin) Deserialize(data []byte) bool {
	path := strings.TrimSpace(string(data))
	if path == "" {
		return false
	}
	if p.Viewer != nil {
		return p.Viewer.LoadFile(path)
	}
	return p.Load(path, false)
}
