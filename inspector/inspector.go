// Package inspector draws a reflection-driven panel listing the fields of a live state
// struct. Fields are laid out from their inspect tags.
package inspector

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Panel dimensions
const (
	PanelWidth   = 300
	PanelPadding = 10
	HeaderHeight = 30
	panelMargin  = 10
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 10, G: 12, B: 16, A: 220}
	ColorPanelHeader = rl.Color{R: 30, G: 34, B: 42, A: 255}
	ColorPanelBorder = rl.Color{R: 60, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 229, G: 193, B: 111, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
)

// Inspector is a toggleable panel anchored to the top right of the window.
type Inspector struct {
	title       string
	visible     bool
	panelX      int32
	panelY      int32
	panelHeight int32
}

// NewInspector creates a hidden inspector for a window of the given width.
func NewInspector(title string, screenWidth int32) *Inspector {
	ins := &Inspector{title: title, panelY: panelMargin}
	ins.Resize(screenWidth)
	return ins
}

// Resize re-anchors the panel after the window width changed.
func (ins *Inspector) Resize(screenWidth int32) {
	ins.panelX = screenWidth - PanelWidth - panelMargin
}

// Toggle shows or hides the panel and returns the new visibility.
func (ins *Inspector) Toggle() bool {
	ins.visible = !ins.visible
	return ins.visible
}

// Visible reports whether the panel is shown.
func (ins *Inspector) Visible() bool { return ins.visible }

// Contains reports whether a window point is over the panel.
func (ins *Inspector) Contains(x, y float32) bool {
	return ins.visible &&
		x >= float32(ins.panelX) && x < float32(ins.panelX+PanelWidth) &&
		y >= float32(ins.panelY) && y < float32(ins.panelY+ins.panelHeight)
}

// HandleInput closes the panel on a click on its close button.
func (ins *Inspector) HandleInput(mouseX, mouseY float32) {
	if !ins.visible || !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	if int32(mouseX) >= closeX && int32(mouseX) <= closeX+20 &&
		int32(mouseY) >= closeY && int32(mouseY) <= closeY+20 {
		ins.visible = false
	}
}

// Draw renders the exported fields of state, a struct or struct pointer.
func (ins *Inspector) Draw(state any) {
	if !ins.visible {
		return
	}
	fields := ExtractFields(state)
	ins.panelHeight = panelHeight(fields)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, ins.panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(ins.panelHeight)},
		1,
		ColorPanelBorder,
	)
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(ins.title, ins.panelX+PanelPadding, ins.panelY+8, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding
	for _, f := range fields {
		y += DrawField(x, y, f)
	}
}

func panelHeight(fields []Field) int32 {
	h := int32(HeaderHeight + 2*PanelPadding)
	for _, f := range fields {
		h += fieldHeight(f)
	}
	return h
}
