package viewer

import "viewerhost/internal/platform"

// chain offers an event to every plugin in order and stops at the first
// consumer. When no plugin consumes it the legacy callback runs; its result
// is only logged. Reports whether a plugin consumed the event.
func (v *Viewer) chain(event string, offer func(Plugin) bool, legacy func() bool) bool {
	for _, p := range v.plugins {
		if offer(p) {
			v.logger.Debug("event consumed", "event", event, "plugin", p.Name())
			return true
		}
	}
	if legacy != nil {
		if legacy() {
			v.logger.Debug("event consumed by callback", "event", event)
		}
	}
	return false
}

func (v *Viewer) KeyPressed(key rune, mods platform.ModifierKey) bool {
	var legacy func() bool
	if cb := v.Callbacks.KeyPressed; cb != nil {
		legacy = func() bool { return cb(v, key, mods) }
	}
	return v.chain("key_pressed", func(p Plugin) bool { return p.KeyPressed(key, mods) }, legacy)
}

func (v *Viewer) KeyDown(key platform.Key, mods platform.ModifierKey) bool {
	var legacy func() bool
	if cb := v.Callbacks.KeyDown; cb != nil {
		legacy = func() bool { return cb(v, key, mods) }
	}
	return v.chain("key_down", func(p Plugin) bool { return p.KeyDown(key, mods) }, legacy)
}

func (v *Viewer) KeyUp(key platform.Key, mods platform.ModifierKey) bool {
	var legacy func() bool
	if cb := v.Callbacks.KeyUp; cb != nil {
		legacy = func() bool { return cb(v, key, mods) }
	}
	return v.chain("key_up", func(p Plugin) bool { return p.KeyUp(key, mods) }, legacy)
}

func (v *Viewer) KeyRepeat(key platform.Key, mods platform.ModifierKey) bool {
	var legacy func() bool
	if cb := v.Callbacks.KeyRepeat; cb != nil {
		legacy = func() bool { return cb(v, key, mods) }
	}
	return v.chain("key_repeat", func(p Plugin) bool { return p.KeyRepeat(key, mods) }, legacy)
}

// MouseDown remembers the pointer location before dispatch, even when a
// plugin consumes the press, and enters rotation mode afterwards.
func (v *Viewer) MouseDown(button MouseButton, mods platform.ModifierKey) bool {
	v.DownMouseX = v.CurrentMouseX
	v.DownMouseY = v.CurrentMouseY

	var legacy func() bool
	if cb := v.Callbacks.MouseDown; cb != nil {
		legacy = func() bool { return cb(v, button, mods) }
	}
	consumed := v.chain("mouse_down", func(p Plugin) bool { return p.MouseDown(button, mods) }, legacy)

	v.Down = true
	v.MouseMode = MouseModeRotation
	v.Drag = Drag{Mode: v.MouseMode}
	return consumed
}

func (v *Viewer) MouseUp(button MouseButton, mods platform.ModifierKey) bool {
	v.Down = false

	var legacy func() bool
	if cb := v.Callbacks.MouseUp; cb != nil {
		legacy = func() bool { return cb(v, button, mods) }
	}
	consumed := v.chain("mouse_up", func(p Plugin) bool { return p.MouseUp(button, mods) }, legacy)

	v.MouseMode = MouseModeNone
	return consumed
}

func (v *Viewer) MouseMove(x, y int) bool {
	v.CurrentMouseX = x
	v.CurrentMouseY = y

	var legacy func() bool
	if cb := v.Callbacks.MouseMove; cb != nil {
		legacy = func() bool { return cb(v, x, y) }
	}
	consumed := v.chain("mouse_move", func(p Plugin) bool { return p.MouseMove(x, y) }, legacy)

	if v.Down {
		v.interact(x, y)
	}
	return consumed
}

// interact records the drag vector for the active mode, normalized by the
// framebuffer so it is independent of window size.
func (v *Viewer) interact(x, y int) {
	w, h := v.FramebufferSize()
	if w <= 0 || h <= 0 {
		return
	}
	dx := float64(x-v.DownMouseX) / float64(w)
	dy := float64(y-v.DownMouseY) / float64(h)
	switch v.MouseMode {
	case MouseModeRotation, MouseModeTranslation, MouseModePan:
		v.Drag = Drag{Mode: v.MouseMode, DX: dx, DY: dy}
	case MouseModeZoom:
		v.Drag = Drag{Mode: v.MouseMode, DY: dy}
	}
}

func (v *Viewer) MouseScroll(deltaY float32) bool {
	v.ScrollPosition += deltaY

	var legacy func() bool
	if cb := v.Callbacks.MouseScroll; cb != nil {
		legacy = func() bool { return cb(v, deltaY) }
	}
	return v.chain("mouse_scroll", func(p Plugin) bool { return p.MouseScroll(deltaY) }, legacy)
}

// PostResize is a broadcast: every plugin sees it regardless of what the
// others return.
func (v *Viewer) PostResize(w, h int) {
	for _, p := range v.plugins {
		p.PostResize(w, h)
	}
	if cb := v.Callbacks.PostResize; cb != nil {
		cb(v, w, h)
	}
}

// Draw runs the pre-draw stage, the draw action and the post-draw stage. The
// draw action runs even when a plugin consumes pre-draw.
func (v *Viewer) Draw(first bool) {
	var pre func() bool
	if cb := v.Callbacks.PreDraw; cb != nil {
		pre = func() bool { return cb(v) }
	}
	v.chain("pre_draw", func(p Plugin) bool { return p.PreDraw(first) }, pre)

	if v.draw != nil {
		v.draw()
	}

	var post func() bool
	if cb := v.Callbacks.PostDraw; cb != nil {
		post = func() bool { return cb(v) }
	}
	v.chain("post_draw", func(p Plugin) bool { return p.PostDraw(first) }, post)
}
