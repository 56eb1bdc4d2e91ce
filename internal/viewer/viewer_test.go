package viewer

import (
	"io"
	"strings"
	"testing"

	"viewerhost/internal/platform"
	"viewerhost/internal/platform/headless"
)

type recorder struct {
	PluginBase
	log     *[]string
	consume map[string]bool
	resizes [][2]int
	inits   int
	shuts   int
	state   string
	seen    func(hook string)
}

func newRecorder(name string, log *[]string, consume ...string) *recorder {
	r := &recorder{PluginBase: NewPluginBase(name), log: log, consume: map[string]bool{}}
	for _, hook := range consume {
		r.consume[hook] = true
	}
	return r
}

func (r *recorder) hit(hook string) bool {
	*r.log = append(*r.log, r.Name()+":"+hook)
	if r.seen != nil {
		r.seen(hook)
	}
	return r.consume[hook]
}

func (r *recorder) Init(v *Viewer) {
	r.PluginBase.Init(v)
	r.inits++
	r.hit("init")
}

func (r *recorder) Shutdown() {
	r.shuts++
	r.hit("shutdown")
}

func (r *recorder) Load(string, bool) bool { return r.hit("load") }
func (r *recorder) PostLoad() bool         { return r.hit("post_load") }
func (r *recorder) Save(string, bool) bool { return r.hit("save") }
func (r *recorder) Unload() bool           { return r.hit("unload") }

func (r *recorder) Serialize(w io.Writer) bool {
	if r.state == "" {
		return false
	}
	_, err := io.WriteString(w, r.state)
	return err == nil
}

func (r *recorder) Deserialize(data []byte) bool {
	r.state = string(data)
	return true
}

func (r *recorder) PreDraw(bool) bool  { return r.hit("pre_draw") }
func (r *recorder) PostDraw(bool) bool { return r.hit("post_draw") }

func (r *recorder) PostResize(w, h int) bool {
	r.resizes = append(r.resizes, [2]int{w, h})
	return r.hit("post_resize")
}

func (r *recorder) MouseDown(MouseButton, platform.ModifierKey) bool { return r.hit("mouse_down") }
func (r *recorder) MouseUp(MouseButton, platform.ModifierKey) bool   { return r.hit("mouse_up") }
func (r *recorder) MouseMove(int, int) bool                          { return r.hit("mouse_move") }
func (r *recorder) MouseScroll(float32) bool                         { return r.hit("mouse_scroll") }

func (r *recorder) KeyPressed(rune, platform.ModifierKey) bool        { return r.hit("key_pressed") }
func (r *recorder) KeyDown(platform.Key, platform.ModifierKey) bool   { return r.hit("key_down") }
func (r *recorder) KeyUp(platform.Key, platform.ModifierKey) bool     { return r.hit("key_up") }
func (r *recorder) KeyRepeat(platform.Key, platform.ModifierKey) bool { return r.hit("key_repeat") }

// legacyCallbacks installs every callback slot, each appending to log and
// reporting consumed.
func legacyCallbacks(log *[]string) Callbacks {
	mark := func(name string) bool {
		*log = append(*log, "callback:"+name)
		return true
	}
	return Callbacks{
		PreDraw:     func(*Viewer) bool { return mark("pre_draw") },
		PostDraw:    func(*Viewer) bool { return mark("post_draw") },
		PostResize:  func(*Viewer, int, int) bool { return mark("post_resize") },
		MouseDown:   func(*Viewer, MouseButton, platform.ModifierKey) bool { return mark("mouse_down") },
		MouseUp:     func(*Viewer, MouseButton, platform.ModifierKey) bool { return mark("mouse_up") },
		MouseMove:   func(*Viewer, int, int) bool { return mark("mouse_move") },
		MouseScroll: func(*Viewer, float32) bool { return mark("mouse_scroll") },
		KeyPressed:  func(*Viewer, rune, platform.ModifierKey) bool { return mark("key_pressed") },
		KeyDown:     func(*Viewer, platform.Key, platform.ModifierKey) bool { return mark("key_down") },
		KeyUp:       func(*Viewer, platform.Key, platform.ModifierKey) bool { return mark("key_up") },
		KeyRepeat:   func(*Viewer, platform.Key, platform.ModifierKey) bool { return mark("key_repeat") },
	}
}

func contains(log []string, entry string) bool {
	for _, e := range log {
		if e == entry {
			return true
		}
	}
	return false
}

func TestKeyDownStopsAtFirstConsumer(t *testing.T) {
	var log []string
	v := New(headless.New(headless.Options{}))
	v.AddPlugin(newRecorder("a", &log))
	v.AddPlugin(newRecorder("b", &log, "key_down"))
	v.Callbacks = legacyCallbacks(&log)

	if !v.KeyDown(65, 0) {
		t.Fatal("expected key_down to be consumed")
	}
	want := []string{"a:key_down", "b:key_down"}
	if strings.Join(log, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected dispatch: %v", log)
	}
}

func TestUnconsumedEventFallsBackToCallback(t *testing.T) {
	var log []string
	v := New(headless.New(headless.Options{}))
	v.AddPlugin(newRecorder("a", &log))
	v.Callbacks = legacyCallbacks(&log)

	if v.KeyUp(65, platform.ModShift) {
		t.Fatal("callback result must not fold into the dispatch result")
	}
	if !contains(log, "a:key_up") || !contains(log, "callback:key_up") {
		t.Fatalf("expected plugin then callback, got %v", log)
	}
}

func TestConsumerShortCircuitsEveryChainedEvent(t *testing.T) {
	events := map[string]func(v *Viewer){
		"key_pressed":  func(v *Viewer) { v.KeyPressed('x', 0) },
		"key_down":     func(v *Viewer) { v.KeyDown(65, 0) },
		"key_up":       func(v *Viewer) { v.KeyUp(65, 0) },
		"key_repeat":   func(v *Viewer) { v.KeyRepeat(65, 0) },
		"mouse_down":   func(v *Viewer) { v.MouseDown(MouseButtonLeft, 0) },
		"mouse_up":     func(v *Viewer) { v.MouseUp(MouseButtonLeft, 0) },
		"mouse_move":   func(v *Viewer) { v.MouseMove(3, 4) },
		"mouse_scroll": func(v *Viewer) { v.MouseScroll(1) },
		"pre_draw":     func(v *Viewer) { v.Draw(true) },
		"post_draw":    func(v *Viewer) { v.Draw(true) },
	}
	for hook, fire := range events {
		var log []string
		v := New(headless.New(headless.Options{}))
		v.AddPlugin(newRecorder("first", &log, hook))
		v.AddPlugin(newRecorder("second", &log))
		v.Callbacks = legacyCallbacks(&log)

		fire(v)

		if !contains(log, "first:"+hook) {
			t.Fatalf("%s: first plugin not offered the event: %v", hook, log)
		}
		if contains(log, "second:"+hook) {
			t.Fatalf("%s: later plugin received a consumed event: %v", hook, log)
		}
		if contains(log, "callback:"+hook) {
			t.Fatalf("%s: callback received a consumed event: %v", hook, log)
		}
	}
}

func TestPostResizeIsBroadcast(t *testing.T) {
	var log []string
	v := New(headless.New(headless.Options{}))
	a := newRecorder("a", &log, "post_resize")
	b := newRecorder("b", &log, "post_resize")
	v.AddPlugin(a)
	v.AddPlugin(b)
	v.Callbacks = legacyCallbacks(&log)

	v.PostResize(640, 480)

	want := "a:post_resize,b:post_resize,callback:post_resize"
	if got := strings.Join(log, ","); got != want {
		t.Fatalf("unexpected resize delivery: %s", got)
	}
	if len(b.resizes) != 1 || b.resizes[0] != [2]int{640, 480} {
		t.Fatalf("unexpected resize payload: %v", b.resizes)
	}
}

func TestMouseDownRecordsPositionEvenWhenConsumed(t *testing.T) {
	var log []string
	v := New(headless.New(headless.Options{}))
	p := newRecorder("grab", &log, "mouse_down")
	var seenX, seenY int
	p.seen = func(hook string) {
		if hook == "mouse_down" {
			seenX, seenY = v.DownMouseX, v.DownMouseY
		}
	}
	v.AddPlugin(p)
	v.CurrentMouseX, v.CurrentMouseY = 42, 17

	if !v.MouseDown(MouseButtonRight, 0) {
		t.Fatal("expected mouse_down to be consumed")
	}
	if seenX != 42 || seenY != 17 {
		t.Fatalf("plugin saw down position %d,%d", seenX, seenY)
	}
	if !v.Down || v.MouseMode != MouseModeRotation {
		t.Fatalf("expected held rotation state, got down=%v mode=%v", v.Down, v.MouseMode)
	}
}

func TestMouseUpResetsModeEvenWhenConsumed(t *testing.T) {
	var log []string
	v := New(headless.New(headless.Options{}))
	v.AddPlugin(newRecorder("grab", &log, "mouse_up"))
	v.MouseDown(MouseButtonLeft, 0)

	var downDuringDispatch bool
	v.plugins[0].(*recorder).seen = func(hook string) {
		if hook == "mouse_up" {
			downDuringDispatch = v.Down
		}
	}
	v.MouseUp(MouseButtonLeft, 0)

	if downDuringDispatch {
		t.Fatal("held flag must be cleared before dispatch")
	}
	if v.MouseMode != MouseModeNone {
		t.Fatalf("expected mode none, got %v", v.MouseMode)
	}
}

func TestMouseScrollAccumulatesBeforeDispatch(t *testing.T) {
	v := New(headless.New(headless.Options{}))
	var seen []float32
	v.Callbacks.MouseScroll = func(v *Viewer, dy float32) bool {
		seen = append(seen, v.ScrollPosition)
		return false
	}
	v.MouseScroll(1.5)
	v.MouseScroll(-0.5)

	if len(seen) != 2 || seen[0] != 1.5 || seen[1] != 1 {
		t.Fatalf("unexpected scroll positions: %v", seen)
	}
}

func TestMouseMoveRecordsDragOnlyWhileHeld(t *testing.T) {
	b := headless.New(headless.Options{})
	v := New(b)
	if err := v.LaunchInit(LaunchOptions{Width: 200, Height: 100}); err != nil {
		t.Fatal(err)
	}
	defer v.LaunchShut()

	v.MouseMove(50, 50)
	if v.Drag != (Drag{}) {
		t.Fatalf("unexpected drag without button: %#v", v.Drag)
	}
	v.MouseDown(MouseButtonLeft, 0)
	v.MouseMove(150, 100)

	if v.CurrentMouseX != 150 || v.CurrentMouseY != 100 {
		t.Fatalf("current mouse not updated: %d,%d", v.CurrentMouseX, v.CurrentMouseY)
	}
	if v.Drag.Mode != MouseModeRotation || v.Drag.DX != 0.5 || v.Drag.DY != 0.5 {
		t.Fatalf("unexpected drag: %#v", v.Drag)
	}
}

func TestDrawRunsActionBetweenStages(t *testing.T) {
	var log []string
	v := New(headless.New(headless.Options{}))
	v.AddPlugin(newRecorder("a", &log, "pre_draw"))
	v.SetDrawAction(func() { log = append(log, "draw") })
	v.SetDrawAction(func() { log = append(log, "draw-last") })

	v.Draw(true)

	want := "a:pre_draw,draw-last,a:post_draw"
	if got := strings.Join(log, ","); got != want {
		t.Fatalf("unexpected draw sequence: %s", got)
	}
}

func TestDrawWithoutActionStillRunsStages(t *testing.T) {
	var log []string
	v := New(headless.New(headless.Options{}))
	v.AddPlugin(newRecorder("a", &log))
	v.Draw(false)
	if got := strings.Join(log, ","); got != "a:pre_draw,a:post_draw" {
		t.Fatalf("unexpected draw sequence: %s", got)
	}
}
