// Package ui renders the simulation with raylib and turns mouse and
// keyboard input into calls on the game driver. Nothing here mutates the
// world directly.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// PanelAnchor specifies where a panel is anchored on screen.
type PanelAnchor int

const (
	AnchorTopLeft PanelAnchor = iota
	AnchorTopRight
	AnchorBottomLeft
	AnchorBottomRight
)

// Place returns the top-left corner of a w×h panel anchored inside the
// screen with the given margin.
func (a PanelAnchor) Place(screenW, screenH, w, h, margin int32) (int32, int32) {
	switch a {
	case AnchorTopRight:
		return screenW - w - margin, margin
	case AnchorBottomLeft:
		return margin, screenH - h - margin
	case AnchorBottomRight:
		return screenW - w - margin, screenH - h - margin
	default:
		return margin, margin
	}
}

// Theme holds UI styling constants.
type Theme struct {
	Background     rl.Color
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	MutedColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	BarFillLow     rl.Color
	BarFillMedium  rl.Color
	BarFillHigh    rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		Background:     rl.GetColor(0x0b0e14ff),
		PanelBg:        rl.Color{R: 17, G: 21, B: 30, A: 235},
		PanelBorder:    rl.Color{R: 48, G: 56, B: 72, A: 255},
		SectionHeader:  rl.Color{R: 230, G: 200, B: 110, A: 255},
		LabelColor:     rl.Color{R: 160, G: 168, B: 184, A: 255},
		ValueColor:     rl.Color{R: 225, G: 230, B: 240, A: 255},
		MutedColor:     rl.Color{R: 110, G: 118, B: 134, A: 255},
		BarBg:          rl.Color{R: 36, G: 40, B: 50, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		BarFillLow:     rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillMedium:  rl.Color{R: 200, G: 180, B: 100, A: 255},
		BarFillHigh:    rl.Color{R: 100, G: 200, B: 100, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     90,
		BarHeight:      10,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
