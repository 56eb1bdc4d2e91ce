package hud

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"viewerhost/internal/platform"
	"viewerhost/internal/render"
	"viewerhost/internal/ui"
	"viewerhost/internal/viewer"
)

const Name = "hud"

// Plugin draws a status bar over every frame. Pressing 'h' toggles it.
type Plugin struct {
	viewer.PluginBase

	Visible bool

	theme  ui.Theme
	fonts  *render.FontBank
	frames uint64
	width  int
	height int
}

func New(theme ui.Theme) *Plugin {
	return &Plugin{
		PluginBase: viewer.NewPluginBase(Name),
		Visible:    true,
		theme:      theme,
		fonts:      render.NewFontBank(),
	}
}

func (p *Plugin) PostResize(w, h int) bool {
	p.width, p.height = w, h
	return false
}

func (p *Plugin) KeyPressed(key rune, mods platform.ModifierKey) bool {
	if mods&(platform.ModControl|platform.ModAlt|platform.ModSuper) != 0 {
		return false
	}
	if key != 'h' && key != 'H' {
		return false
	}
	p.Visible = !p.Visible
	return true
}

func (p *Plugin) PostDraw(first bool) bool {
	p.frames++
	if !p.Visible || p.Viewer == nil {
		return false
	}
	fb := p.Viewer.Surface()
	if fb == nil {
		return false
	}
	layout := ui.ComputeLayout(fb.W, fb.H, p.theme, p.Viewer.DensityScale())
	ui.DrawStatus(fb, p.fonts.Face(layout.FontPx), layout, p.theme, p.Status())
	return false
}

// Status is the text shown in the status bar.
func (p *Plugin) Status() string {
	if p.Viewer == nil {
		return ""
	}
	v := p.Viewer
	parts := []string{
		fmt.Sprintf("%dx%d @%.2gx", p.width, p.height, v.DensityScale()),
		fmt.Sprintf("mouse %d,%d", v.CurrentMouseX, v.CurrentMouseY),
		"mode " + v.MouseMode.String(),
		fmt.Sprintf("scroll %.1f", v.ScrollPosition),
		fmt.Sprintf("frame %d", p.frames),
	}
	if v.IsAnimating {
		parts = append(parts, "animating")
	}
	return strings.Join(parts, " | ")
}

func (p *Plugin) Serialize(w io.Writer) bool {
	_, err := fmt.Fprintf(w, "visible=%t\n", p.Visible)
	return err == nil
}

func (p *Plugin) Deserialize(data []byte) bool {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok || key != "visible" {
			continue
		}
		visible, err := strconv.ParseBool(value)
		if err != nil {
			return false
		}
		p.Visible = visible
		return true
	}
	return false
}
