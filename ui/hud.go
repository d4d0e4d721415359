package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/reimyaku/audio"
	"github.com/pthm-cable/reimyaku/game"
)

const (
	hudX     = 10
	hudY     = 10
	hudWidth = 260
)

// HUDAction is a button pressed on the HUD this frame.
type HUDAction uint8

const (
	HUDNone HUDAction = iota
	HUDMic
	HUDSave
	HUDRecord
	HUDFullscreen
)

// HUDData holds everything the HUD shows.
type HUDData struct {
	Status game.Status
	FPS    int32
}

// HUD renders the status panel and its buttons.
type HUD struct {
	renderer *Renderer
	visible  bool
	height   int32
}

// NewHUD creates a visible HUD.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer(), visible: true}
}

// Toggle shows or hides the HUD and returns the new visibility.
func (h *HUD) Toggle() bool {
	h.visible = !h.visible
	return h.visible
}

// Contains reports whether a window point is over the panel, so clicks there do not
// reach the field.
func (h *HUD) Contains(x, y float32) bool {
	return h.visible && x >= hudX && x < hudX+hudWidth && y >= hudY && y < float32(hudY+h.height)
}

// Draw renders the HUD and returns the button pressed, if any.
func (h *HUD) Draw(data HUDData) HUDAction {
	if !h.visible {
		return HUDNone
	}
	r := h.renderer
	th := r.Theme
	s := data.Status

	r.DrawPanel(hudX, hudY, hudWidth, h.height)
	x := int32(hudX) + th.Padding
	y := int32(hudY) + th.Padding

	y = r.DrawSectionHeader(x, y, "REIMYAKU")

	micColor := th.ValueColor
	if s.Audio == audio.StateDenied {
		micColor = th.WarnColor
	}
	y = r.DrawLabelValue(x, y, "Mic", s.Audio.String(), micColor)
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", data.FPS), th.ValueColor)

	inner := int32(hudWidth) - 2*th.Padding
	y = r.DrawBar(x, y, "Low", s.Bands.Low, inner, th.BarLow)
	y = r.DrawBar(x, y, "Mid", s.Bands.Mid, inner, th.BarMid)
	y = r.DrawBar(x, y, "High", s.Bands.High, inner, th.BarHigh)

	y = r.DrawLabelValue(x, y, "Psy", fmt.Sprintf("%.2f", s.Psy), th.ValueColor)
	y = r.DrawLabelValue(x, y, "Posterize", posterizeLabel(s.Posterize), th.ValueColor)
	y = r.DrawLabelValue(x, y, "Palette", fmt.Sprintf("%s #%d", schemeLabel(s.Scheme.String()), s.Palette+1), th.ValueColor)
	y = r.DrawLabelValue(x, y, "Sides", fmt.Sprintf("%d", s.Sides), th.ValueColor)
	y += 4

	action := HUDNone
	bx := float32(x)
	by := float32(y)
	bw, bh := th.ButtonWidth, th.ButtonHeight
	if gui.Button(rl.Rectangle{X: bx, Y: by, Width: bw - 4, Height: bh}, "Mic") {
		action = HUDMic
	}
	if gui.Button(rl.Rectangle{X: bx + bw, Y: by, Width: bw - 4, Height: bh}, "Save") {
		action = HUDSave
	}
	recLabel := "Rec"
	if s.Recording {
		recLabel = "Stop"
	}
	if gui.Button(rl.Rectangle{X: bx + 2*bw, Y: by, Width: bw - 4, Height: bh}, recLabel) {
		action = HUDRecord
	}
	if gui.Button(rl.Rectangle{X: bx + 3*bw, Y: by, Width: bw - 12, Height: bh}, "Full") {
		action = HUDFullscreen
	}
	y += int32(bh) + th.Padding

	if s.Recording {
		rl.DrawCircle(hudX+hudWidth-14, hudY+16, 5, th.WarnColor)
	}

	h.height = y - hudY
	return action
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32) {
	if !h.visible {
		return
	}
	rl.DrawText(controlsLegend, 10, screenHeight-22, 12, rl.Gray)
}

func posterizeLabel(levels int) string {
	if levels == 0 {
		return "OFF"
	}
	return fmt.Sprintf("%d", levels)
}

func schemeLabel(name string) string {
	switch name {
	case "cosine":
		return "Cosine"
	case "sinebow":
		return "Sinebow"
	}
	return name
}
