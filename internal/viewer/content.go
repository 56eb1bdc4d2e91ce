package viewer

import (
	"bytes"
	"fmt"
	"path/filepath"

	"viewerhost/pkg/scene"
)

// LoadFile offers path to each plugin's Load hook in order. The first plugin
// that accepts it wins and PostLoad then runs through the chain.
func (v *Viewer) LoadFile(path string) bool {
	for _, p := range v.plugins {
		if p.Load(path, false) {
			v.logger.Info("file loaded", "path", path, "plugin", p.Name())
			v.setTitle(filepath.Base(path))
			for _, q := range v.plugins {
				if q.PostLoad() {
					break
				}
			}
			return true
		}
	}
	return false
}

func (v *Viewer) SaveFile(path string) bool {
	for _, p := range v.plugins {
		if p.Save(path, false) {
			v.logger.Info("file saved", "path", path, "plugin", p.Name())
			return true
		}
	}
	return false
}

// UnloadAll tells every plugin to drop loaded content and reports whether
// any of them had something to unload.
func (v *Viewer) UnloadAll() bool {
	unloaded := false
	for _, p := range v.plugins {
		if p.Unload() {
			unloaded = true
		}
	}
	if unloaded {
		v.setTitle("")
	}
	return unloaded
}

// setTitle shows the loaded document after the window name.
func (v *Viewer) setTitle(doc string) {
	if v.window == nil {
		return
	}
	if doc == "" {
		v.window.SetTitle(v.name)
		return
	}
	v.window.SetTitle(v.name + " - " + doc)
}

// Snapshot collects the serialized state of every plugin that provides one,
// keyed by plugin name.
func (v *Viewer) Snapshot() *scene.Scene {
	s := scene.New()
	for _, p := range v.plugins {
		var buf bytes.Buffer
		if p.Serialize(&buf) {
			s.Add(p.Name(), buf.Bytes())
		}
	}
	return s
}

// Restore hands each plugin its entry from s. It returns how many plugins
// accepted their state.
func (v *Viewer) Restore(s *scene.Scene) int {
	restored := 0
	for _, p := range v.plugins {
		payload, ok := s.Lookup(p.Name())
		if !ok {
			continue
		}
		if p.Deserialize(payload) {
			restored++
		} else {
			v.logger.Warn("plugin rejected scene state", "plugin", p.Name())
		}
	}
	return restored
}

func (v *Viewer) SaveScene(path string, opts scene.SaveOptions) error {
	s := v.Snapshot()
	if err := scene.Save(path, s, opts); err != nil {
		return fmt.Errorf("save scene %s: %w", path, err)
	}
	v.logger.Info("scene saved", "path", path, "entries", len(s.Entries))
	return nil
}

func (v *Viewer) LoadScene(path string, opts scene.LoadOptions) error {
	s, err := scene.Load(path, opts)
	if err != nil {
		return fmt.Errorf("load scene %s: %w", path, err)
	}
	n := v.Restore(s)
	v.logger.Info("scene loaded", "path", path, "restored", n)
	return nil
}
