// Package ui shows the rendered frame in a raylib window, draws the raygui HUD and turns
// keyboard and pointer input into game commands.
package ui

import (
	"image/color"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/reimyaku/camera"
	"github.com/pthm-cable/reimyaku/components"
	"github.com/pthm-cable/reimyaku/game"
	"github.com/pthm-cable/reimyaku/inspector"
)

// maxFrameDT caps the simulated step after stalls such as window drags.
const maxFrameDT = 0.1

// Viewer runs the interactive loop. Create it after rl.InitWindow.
type Viewer struct {
	game        *game.Game
	renderScale float64

	cam     *camera.Camera
	hud     *HUD
	inspect *inspector.Inspector
	texture rl.Texture2D
	pixels  []color.RGBA
	texW    int
	texH    int

	screenW, screenH int
}

// NewViewer creates a viewer sized to the current window.
func NewViewer(g *game.Game, renderScale float64) *Viewer {
	v := &Viewer{
		game:        g,
		renderScale: renderScale,
		hud:         NewHUD(),
	}
	v.screenW, v.screenH = int(rl.GetScreenWidth()), int(rl.GetScreenHeight())
	v.inspect = inspector.NewInspector("FRAME", int32(v.screenW))
	fw, fh := camera.FrameSize(v.screenW, v.screenH, renderScale)
	g.Resize(fw, fh)
	v.cam = camera.New(float32(v.screenW), float32(v.screenH), float32(fw), float32(fh))
	v.ensureTexture(fw, fh)
	return v
}

// Run drives the game until the window closes or maxFrames frames have run (0 = no limit).
func (v *Viewer) Run(maxFrames int64) {
	for !rl.WindowShouldClose() {
		v.handleResize()
		v.handleInput()

		dt := float64(rl.GetFrameTime())
		if dt <= 0 {
			dt = game.DT
		}
		v.game.Update(min(dt, maxFrameDT))
		v.upload()
		v.draw()
		v.game.Perf().RecordPresent()

		if maxFrames > 0 && v.game.FrameIndex() >= maxFrames {
			slog.Info("max frames reached", "frame", v.game.FrameIndex())
			return
		}
	}
}

// Close releases GPU resources.
func (v *Viewer) Close() {
	if v.texture.ID != 0 {
		rl.UnloadTexture(v.texture)
	}
}

// handleResize reallocates the game and texture when the window size changes.
func (v *Viewer) handleResize() {
	w, h := int(rl.GetScreenWidth()), int(rl.GetScreenHeight())
	if w == v.screenW && h == v.screenH {
		return
	}
	v.screenW, v.screenH = w, h
	fw, fh := camera.FrameSize(w, h, v.renderScale)
	v.game.Resize(fw, fh)
	v.cam.Resize(float32(w), float32(h))
	v.cam.SetFrame(float32(fw), float32(fh))
	v.inspect.Resize(int32(w))
	v.ensureTexture(fw, fh)
}

func (v *Viewer) handleInput() {
	if rl.IsKeyPressed(rl.KeyF) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyH) {
		v.hud.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyI) {
		v.inspect.Toggle()
	}
	for _, cmd := range pressedCommands() {
		v.apply(cmd)
	}

	mouse := rl.GetMousePosition()
	v.inspect.HandleInput(mouse.X, mouse.Y)
	u, w := v.cam.ScreenToNormalized(mouse.X, mouse.Y)
	pressed := rl.IsMouseButtonDown(rl.MouseButtonLeft) &&
		v.cam.Contains(mouse.X, mouse.Y) &&
		!v.hud.Contains(mouse.X, mouse.Y) &&
		!v.inspect.Contains(mouse.X, mouse.Y)
	v.game.SetPointer(components.Pointer{
		Pos:     components.Vec2{X: u, Y: w},
		Pressed: pressed,
	})
}

func (v *Viewer) apply(cmd game.Command) {
	if err := v.game.Apply(cmd); err != nil {
		slog.Warn("command failed", "command", cmd.String(), "error", err)
	}
}

// ensureTexture recreates the frame texture when its size changes.
func (v *Viewer) ensureTexture(w, h int) {
	if v.texture.ID != 0 && w == v.texW && h == v.texH {
		return
	}
	if v.texture.ID != 0 {
		rl.UnloadTexture(v.texture)
	}
	img := rl.GenImageColor(w, h, rl.Black)
	v.texture = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(v.texture, rl.FilterBilinear)
	v.texW, v.texH = w, h
	v.pixels = make([]color.RGBA, w*h)
}

// upload copies the composited frame into the texture.
func (v *Viewer) upload() {
	frame := v.game.Frame()
	b := frame.Bounds()
	if b.Dx() != v.texW || b.Dy() != v.texH {
		return
	}
	for y := 0; y < v.texH; y++ {
		off := frame.PixOffset(b.Min.X, b.Min.Y+y)
		row := frame.Pix[off : off+v.texW*4]
		dst := v.pixels[y*v.texW : (y+1)*v.texW]
		for x := range dst {
			o := x * 4
			dst[x] = color.RGBA{R: row[o], G: row[o+1], B: row[o+2], A: row[o+3]}
		}
	}
	rl.UpdateTexture(v.texture, v.pixels)
}

func (v *Viewer) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	x, y, w, h := v.cam.Dest()
	rl.DrawTexturePro(
		v.texture,
		rl.Rectangle{X: 0, Y: 0, Width: float32(v.texW), Height: float32(v.texH)},
		rl.Rectangle{X: x, Y: y, Width: w, Height: h},
		rl.Vector2{X: 0, Y: 0},
		0,
		rl.White,
	)

	action := v.hud.Draw(HUDData{Status: v.game.Status(), FPS: rl.GetFPS()})
	v.hud.DrawControls(int32(v.screenH))
	v.inspect.Draw(v.game.Inspect())
	rl.EndDrawing()

	switch action {
	case HUDMic:
		v.apply(game.CmdToggleMic)
	case HUDSave:
		v.apply(game.CmdSavePNG)
	case HUDRecord:
		v.apply(game.CmdToggleRecording)
	case HUDFullscreen:
		rl.ToggleFullscreen()
	}
}
