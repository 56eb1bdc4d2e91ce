package viewer

import (
	"io"

	"viewerhost/internal/platform"
)

// Plugin receives lifecycle and input hooks in registration order. Any hook
// returning true consumes the event. Embed PluginBase to get not-consumed
// defaults for every hook.
type Plugin interface {
	Name() string
	Init(v *Viewer)
	Shutdown()

	Load(filename string, onlyVertices bool) bool
	Unload() bool
	Save(filename string, onlyVertices bool) bool
	Serialize(w io.Writer) bool
	Deserialize(data []byte) bool
	PostLoad() bool

	PreDraw(first bool) bool
	PostDraw(first bool) bool
	PostResize(w, h int) bool

	MouseDown(button MouseButton, mods platform.ModifierKey) bool
	MouseUp(button MouseButton, mods platform.ModifierKey) bool
	MouseMove(x, y int) bool
	MouseScroll(deltaY float32) bool

	KeyPressed(key rune, mods platform.ModifierKey) bool
	KeyDown(key platform.Key, mods platform.ModifierKey) bool
	KeyUp(key platform.Key, mods platform.ModifierKey) bool
	KeyRepeat(key platform.Key, mods platform.ModifierKey) bool
}

// PluginBase holds the back-reference to the owning viewer. It does not own
// the viewer.
type PluginBase struct {
	Viewer     *Viewer
	PluginName string
}

func NewPluginBase(name string) PluginBase {
	return PluginBase{PluginName: name}
}

func (p *PluginBase) Name() string   { return p.PluginName }
func (p *PluginBase) Init(v *Viewer) { p.Viewer = v }
func (p *PluginBase) Shutdown()      {}

func (p *PluginBase) Load(string, bool) bool   { return false }
func (p *PluginBase) Unload() bool             { return false }
func (p *PluginBase) Save(string, bool) bool   { return false }
func (p *PluginBase) Serialize(io.Writer) bool { return false }
func (p *PluginBase) Deserialize([]byte) bool  { return false }
func (p *PluginBase) PostLoad() bool           { return false }

func (p *PluginBase) PreDraw(bool) bool        { return false }
func (p *PluginBase) PostDraw(bool) bool       { return false }
func (p *PluginBase) PostResize(int, int) bool { return false }

func (p *PluginBase) MouseDown(MouseButton, platform.ModifierKey) bool { return false }
func (p *PluginBase) MouseUp(MouseButton, platform.ModifierKey) bool   { return false }
func (p *PluginBase) MouseMove(int, int) bool                          { return false }
func (p *PluginBase) MouseScroll(float32) bool                         { return false }

func (p *PluginBase) KeyPressed(rune, platform.ModifierKey) bool        { return false }
func (p *PluginBase) KeyDown(platform.Key, platform.ModifierKey) bool   { return false }
func (p *PluginBase) KeyUp(platform.Key, platform.ModifierKey) bool     { return false }
func (p *PluginBase) KeyRepeat(platform.Key, platform.ModifierKey) bool { return false }
