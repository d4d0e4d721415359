package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	WarnColor     rl.Color
	BarBg         rl.Color
	BarLow        rl.Color
	BarMid        rl.Color
	BarHigh       rl.Color

	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
	ButtonWidth    float32
	ButtonHeight   float32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 10, G: 12, B: 16, A: 200},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Color{R: 229, G: 193, B: 111, A: 255},
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		WarnColor:      rl.Color{R: 220, G: 110, B: 100, A: 255},
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarLow:         rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarMid:         rl.Color{R: 200, G: 180, B: 100, A: 255},
		BarHigh:        rl.Color{R: 100, G: 170, B: 220, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     70,
		BarHeight:      10,
		FontSize:       12,
		HeaderFontSize: 14,
		ButtonWidth:    64,
		ButtonHeight:   22,
	}
}
