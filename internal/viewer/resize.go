package viewer

import "math"

// ReconcileDensity re-derives the density scale from the current framebuffer
// and window sizes. A change means the window moved to a display with a
// different pixel density, which is reported as a resize to the framebuffer
// size. Reports whether a resize was issued.
func (v *Viewer) ReconcileDensity() bool {
	if v.window == nil {
		return false
	}
	fbW, fbH := v.window.FramebufferSize()
	winW, _ := v.window.WindowSize()

	observed := v.scale
	if winW != 0 && fbW != 0 {
		observed = float64(fbW) / float64(winW)
	}
	if math.Abs(observed-v.scale) <= densityEpsilon {
		return false
	}
	v.logger.Info("density scale changed", "from", v.scale, "to", observed)
	v.PostResize(fbW, fbH)
	v.scale = observed
	return true
}
