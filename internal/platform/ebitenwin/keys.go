package ebitenwin

import (
	"viewerhost/internal/platform"

	"github.com/hajimehoshi/ebiten/v2"
)

var keyCodes = map[ebiten.Key]platform.Key{
	ebiten.KeyA: 'A', ebiten.KeyB: 'B', ebiten.KeyC: 'C', ebiten.KeyD: 'D',
	ebiten.KeyE: 'E', ebiten.KeyF: 'F', ebiten.KeyG: 'G', ebiten.KeyH: 'H',
	ebiten.KeyI: 'I', ebiten.KeyJ: 'J', ebiten.KeyK: 'K', ebiten.KeyL: 'L',
	ebiten.KeyM: 'M', ebiten.KeyN: 'N', ebiten.KeyO: 'O', ebiten.KeyP: 'P',
	ebiten.KeyQ: 'Q', ebiten.KeyR: 'R', ebiten.KeyS: 'S', ebiten.KeyT: 'T',
	ebiten.KeyU: 'U', ebiten.KeyV: 'V', ebiten.KeyW: 'W', ebiten.KeyX: 'X',
	ebiten.KeyY: 'Y', ebiten.KeyZ: 'Z',

	ebiten.KeyDigit0: '0', ebiten.KeyDigit1: '1', ebiten.KeyDigit2: '2',
	ebiten.KeyDigit3: '3', ebiten.KeyDigit4: '4', ebiten.KeyDigit5: '5',
	ebiten.KeyDigit6: '6', ebiten.KeyDigit7: '7', ebiten.KeyDigit8: '8',
	ebiten.KeyDigit9: '9',

	ebiten.KeySpace:      platform.KeySpace,
	ebiten.KeyComma:      platform.KeyComma,
	ebiten.KeyMinus:      platform.KeyMinus,
	ebiten.KeyPeriod:     platform.KeyPeriod,
	ebiten.KeySlash:      platform.KeySlash,
	ebiten.KeySemicolon:  platform.KeySemicolon,
	ebiten.KeyEqual:      platform.KeyEqual,
	ebiten.KeyEscape:     platform.KeyEscape,
	ebiten.KeyEnter:      platform.KeyEnter,
	ebiten.KeyTab:        platform.KeyTab,
	ebiten.KeyBackspace:  platform.KeyBackspace,
	ebiten.KeyInsert:     platform.KeyInsert,
	ebiten.KeyDelete:     platform.KeyDelete,
	ebiten.KeyArrowRight: platform.KeyRight,
	ebiten.KeyArrowLeft:  platform.KeyLeft,
	ebiten.KeyArrowDown:  platform.KeyDown,
	ebiten.KeyArrowUp:    platform.KeyUp,
	ebiten.KeyPageUp:     platform.KeyPageUp,
	ebiten.KeyPageDown:   platform.KeyPageDown,
	ebiten.KeyHome:       platform.KeyHome,
	ebiten.KeyEnd:        platform.KeyEnd,

	ebiten.KeyF1: platform.KeyF1, ebiten.KeyF2: platform.KeyF1 + 1,
	ebiten.KeyF3: platform.KeyF1 + 2, ebiten.KeyF4: platform.KeyF1 + 3,
	ebiten.KeyF5: platform.KeyF1 + 4, ebiten.KeyF6: platform.KeyF1 + 5,
	ebiten.KeyF7: platform.KeyF1 + 6, ebiten.KeyF8: platform.KeyF1 + 7,
	ebiten.KeyF9: platform.KeyF1 + 8, ebiten.KeyF10: platform.KeyF1 + 9,
	ebiten.KeyF11: platform.KeyF1 + 10, ebiten.KeyF12: platform.KeyF12,
}

func keyCode(k ebiten.Key) platform.Key {
	if code, ok := keyCodes[k]; ok {
		return code
	}
	return platform.KeyUnknown
}
