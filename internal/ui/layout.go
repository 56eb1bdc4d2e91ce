package ui

import (
	"viewerhost/internal/render"

	"golang.org/x/image/font"
)

type Layout struct {
	ViewportH int
	StatusY   int
	StatusH   int
	Padding   int
	FontPx    int
	GridStep  int
}

// ComputeLayout converts the theme's density-independent sizes to pixels for
// a w×h framebuffer at the given density scale.
func ComputeLayout(w, h int, theme Theme, scale float64) Layout {
	if scale <= 0 {
		scale = 1
	}
	dp := func(v int) int {
		px := int(float64(v) * scale)
		if px < 1 {
			px = 1
		}
		return px
	}

	statusH := dp(theme.StatusHeightDp)
	if statusH > h {
		statusH = h
	}
	return Layout{
		ViewportH: h - statusH,
		StatusY:   h - statusH,
		StatusH:   statusH,
		Padding:   dp(theme.PaddingDp),
		FontPx:    dp(theme.FontSizeDp),
		GridStep:  dp(theme.GridStepDp),
	}
}

// Pointer is the interaction state drawn over the viewport.
type Pointer struct {
	X, Y         int
	Down         bool
	DownX, DownY int
}

// DrawViewport clears fb and draws the background grid plus the pointer and
// drag indicators.
func DrawViewport(fb *render.FrameBuffer, layout Layout, theme Theme, p Pointer) {
	fb.Clear(theme.Background)
	if layout.GridStep > 1 {
		for x := layout.GridStep; x < fb.W; x += layout.GridStep {
			fb.FillRect(x, 0, 1, layout.ViewportH, theme.Grid)
		}
		for y := layout.GridStep; y < layout.ViewportH; y += layout.GridStep {
			fb.FillRect(0, y, fb.W, 1, theme.Grid)
		}
	}

	if p.Down {
		x0, y0 := min(p.DownX, p.X), min(p.DownY, p.Y)
		x1, y1 := max(p.DownX, p.X), max(p.DownY, p.Y)
		fb.StrokeRect(x0, y0, x1-x0+1, y1-y0+1, 1, theme.DragLine)
	}

	arm := layout.Padding
	fb.FillRect(p.X-arm, p.Y, arm*2+1, 1, theme.Cursor)
	fb.FillRect(p.X, p.Y-arm, 1, arm*2+1, theme.Cursor)
}

// DrawStatus paints the status bar with text left-aligned inside it.
func DrawStatus(fb *render.FrameBuffer, face font.Face, layout Layout, theme Theme, text string) {
	if layout.StatusH <= 0 {
		return
	}
	fb.FillRect(0, layout.StatusY, fb.W, layout.StatusH, theme.StatusBar)
	fb.FillRect(0, layout.StatusY, fb.W, 1, theme.Border)

	ascent, height := render.LineMetrics(face)
	baseline := layout.StatusY + (layout.StatusH-height)/2 + ascent
	fb.DrawText(face, layout.Padding, baseline, text, theme.StatusText)
}
