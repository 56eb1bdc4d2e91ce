package ui

import "image/color"

type Theme struct {
	Background     color.RGBA
	Grid           color.RGBA
	Cursor         color.RGBA
	DragLine       color.RGBA
	StatusBar      color.RGBA
	StatusText     color.RGBA
	Border         color.RGBA
	Accent         color.RGBA
	StatusHeightDp int
	PaddingDp      int
	FontSizeDp     int
	GridStepDp     int
}

func DefaultTheme() Theme {
	return Theme{
		Background:     color.RGBA{0x99, 0x99, 0x99, 0xFF},
		Grid:           color.RGBA{0x8A, 0x8A, 0x8A, 0xFF},
		Cursor:         color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		DragLine:       color.RGBA{0x2B, 0x57, 0x9A, 0xFF},
		StatusBar:      color.RGBA{0x1E, 0x22, 0x28, 0xE0},
		StatusText:     color.RGBA{0xEA, 0xEF, 0xF6, 0xFF},
		Border:         color.RGBA{0xB2, 0xBF, 0xD0, 0xFF},
		Accent:         color.RGBA{0x2B, 0x57, 0x9A, 0xFF},
		StatusHeightDp: 24,
		PaddingDp:      8,
		FontSizeDp:     13,
		GridStepDp:     48,
	}
}
