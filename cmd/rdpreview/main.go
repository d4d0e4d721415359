// Reaction-diffusion preview tool - runs the Gray-Scott field with fixed parameters
// and sliders, without audio or the kaleidoscope.
//
// Usage: go run ./cmd/rdpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/reimyaku/components"
	"github.com/pthm-cable/reimyaku/config"
	"github.com/pthm-cable/reimyaku/palette"
	"github.com/pthm-cable/reimyaku/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
	gridW        = 256
	gridH        = 256
)

// previewParams are the slider-controlled values.
type previewParams struct {
	Du, Dv float32
	F, K   float32
	Steps  int
	Inject float32
}

func defaultParams(cfg config.RDConfig) previewParams {
	return previewParams{
		Du:     float32(cfg.Du),
		Dv:     float32(cfg.Dv),
		F:      float32((cfg.Feed[0] + cfg.Feed[1]) / 2),
		K:      float32((cfg.Kill[0] + cfg.Kill[1]) / 2),
		Steps:  4,
		Inject: 0.6,
	}
}

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	rdCfg := cfg.ReactionDiffusion
	anchors := cfg.Derived.Anchors[0]

	pool, err := systems.NewPool(0)
	if err != nil {
		log.Fatalf("failed to create worker pool: %v", err)
	}
	defer pool.Close()

	rd := systems.NewReactionDiffusion(gridW, gridH, pool)
	rd.Seed(systems.DefaultSeed(rdCfg))

	rl.InitWindow(windowWidth, windowHeight, "Reaction-Diffusion Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	img := rl.GenImageColor(gridW, gridH, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)
	pixels := make([]color.RGBA, gridW*gridH)

	params := defaultParams(rdCfg)
	running := true
	var steps int64

	for !rl.WindowShouldClose() {
		// Clicking the preview injects at the pointer, like the main viewer.
		mouse := rl.GetMousePosition()
		ptr := components.Pointer{
			Pos: components.Vec2{
				X: float64(mouse.X-10) / previewSize,
				Y: float64(mouse.Y-10) / previewSize,
			},
		}
		inside := ptr.Pos.X >= 0 && ptr.Pos.X <= 1 && ptr.Pos.Y >= 0 && ptr.Pos.Y <= 1
		ptr.Pressed = inside && rl.IsMouseButtonDown(rl.MouseButtonLeft)

		if running {
			p := systems.RDParams{
				Du:        float64(params.Du),
				Dv:        float64(params.Dv),
				F:         float64(params.F),
				K:         float64(params.K),
				DT:        rdCfg.DT,
				InjectPos: ptr.Pos,
				InjectR:   rdCfg.InjectRadius,
			}
			if ptr.Pressed {
				p.InjectAmt = float64(params.Inject)
			}
			for range params.Steps {
				rd.Step(p)
				rd.Swap()
				steps++
			}
		}
		fieldToPixels(pixels, rd.Current(), anchors)
		rl.UpdateTexture(texture, pixels)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridW, Height: gridH},
			rl.Rectangle{X: 10, Y: 10, Width: previewSize, Height: previewSize},
			rl.Vector2{},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		vMin, vMax, vAvg := fieldRange(rd.Current().V)
		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("V min: %.3f  max: %.3f  avg: %.3f", vMin, vMax, vAvg), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Steps: %d", steps), 15, statsY+20, 16, rl.DarkGray)
		rl.DrawText("Hold the left button on the field to inject", 15, statsY+40, 14, rl.Gray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)
		rl.DrawText("Gray-Scott Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		params.Du = slider(&panelY, panelX, "Du (U diffusion)", params.Du, 0.02, 0.3, "%.3f")
		params.Dv = slider(&panelY, panelX, "Dv (V diffusion)", params.Dv, 0.01, 0.15, "%.3f")
		params.F = slider(&panelY, panelX, "Feed", params.F, 0.005, 0.1, "%.4f")
		params.K = slider(&panelY, panelX, "Kill", params.K, 0.03, 0.075, "%.4f")
		params.Inject = slider(&panelY, panelX, "Injection amount", params.Inject, 0, 2, "%.2f")
		params.Steps = int(slider(&panelY, panelX, "Steps per frame", float32(params.Steps), 1, 16, "%.0f"))

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(running, "Pause", "Run")) {
			running = !running
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reseed") {
			rd.Seed(systems.DefaultSeed(rdCfg))
			steps = 0
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			seed := systems.DefaultSeed(rdCfg)
			seed.Center = components.Vec2{
				X: float64(rl.GetRandomValue(20, 80)) / 100,
				Y: float64(rl.GetRandomValue(20, 80)) / 100,
			}
			rd.Seed(seed)
			steps = 0
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams(rdCfg)
			rd.Seed(systems.DefaultSeed(rdCfg))
			steps = 0
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := yamlSnippet(params)
		for _, line := range yaml {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			out := ""
			for _, line := range yaml {
				out += line + "\n"
			}
			rl.SetClipboardText(out)
		}

		rl.EndDrawing()
	}
}

// slider draws a labeled SliderBar at *y, advances *y and returns the new value.
func slider(y *float32, x float32, label string, value, lo, hi float32, format string) float32 {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprintf(format, lo), fmt.Sprintf(format, hi),
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, v), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return v
}

// yamlSnippet renders the parameters as a pinned feed/kill range.
func yamlSnippet(p previewParams) []string {
	return []string{
		"reaction_diffusion:",
		fmt.Sprintf("  du: %.3f", p.Du),
		fmt.Sprintf("  dv: %.3f", p.Dv),
		fmt.Sprintf("  feed: [%.4f, %.4f]", p.F, p.F),
		fmt.Sprintf("  kill: [%.4f, %.4f]", p.K, p.K),
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// fieldToPixels maps U-V through the anchor gradient.
func fieldToPixels(dst []color.RGBA, g *systems.Grid, a palette.Anchors) {
	for i := range dst {
		t := float64(g.U[i]-g.V[i])*0.5 + 0.5
		r, gg, b := a.Lerp(1 - t).Clamped().RGB255()
		dst[i] = color.RGBA{R: r, G: gg, B: b, A: 255}
	}
}

func fieldRange(v []float32) (lo, hi, avg float32) {
	if len(v) == 0 {
		return 0, 0, 0
	}
	lo, hi = v[0], v[0]
	var sum float32
	for _, x := range v {
		lo = min(lo, x)
		hi = max(hi, x)
		sum += x
	}
	return lo, hi, sum / float32(len(v))
}
