package inspector

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorBarBg       = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill     = rl.Color{R: 100, G: 170, B: 220, A: 255}
	ColorBarLow      = rl.Color{R: 120, G: 90, B: 160, A: 255}
	ColorText        = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim     = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorAngleBg     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorAngleNeedle = rl.Color{R: 229, G: 193, B: 111, A: 255}
	ColorBoolOn      = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff     = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

const labelWidth = 96

// DrawLabel renders name: value and returns the row height.
func DrawLabel(x, y int32, name string, value any, options map[string]string) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)
	rl.DrawText(FormatValue(value, options["fmt"]), x+labelWidth, y, 14, ColorText)
	return 18
}

// DrawBar renders a horizontal bar scaled by the max option.
func DrawBar(x, y int32, name string, value float32, options map[string]string) int32 {
	ratio := min(max(value/GetMax(options), 0), 1)
	const barWidth, barHeight = int32(120), int32(12)

	rl.DrawText(name, x, y, 14, ColorTextDim)
	barX := x + labelWidth
	rl.DrawRectangle(barX, y+1, barWidth, barHeight, ColorBarBg)
	rl.DrawRectangle(barX, y+1, int32(float32(barWidth)*ratio), barHeight, lerpColor(ColorBarLow, ColorBarFill, ratio))
	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barWidth+5, y, 14, ColorTextDim)
	return 18
}

// DrawBarGroup renders one vertical mini-bar per value.
func DrawBarGroup(x, y int32, name string, values []float32, options map[string]string) int32 {
	maxVal := GetMax(options)
	const barWidth, barHeight, gap = int32(24), int32(30), int32(4)
	labels := parseLabels(options, len(values))
	labelHeight := int32(0)
	if labels != nil {
		labelHeight = 12
	}

	rl.DrawText(name, x, y, 14, ColorTextDim)
	barX := x + labelWidth
	for i, v := range values {
		ratio := min(max(v/maxVal, 0), 1)
		bx := barX + int32(i)*(barWidth+gap)
		rl.DrawRectangle(bx, y, barWidth, barHeight, ColorBarBg)
		fill := int32(float32(barHeight) * ratio)
		rl.DrawRectangle(bx, y+barHeight-fill, barWidth, fill, lerpColor(ColorBarLow, ColorBarFill, ratio))
	}
	for i, label := range labels {
		lx := barX + int32(i)*(barWidth+gap) + barWidth/2
		w := rl.MeasureText(label, 10)
		rl.DrawText(label, lx-w/2, y+barHeight+2, 10, ColorTextDim)
	}
	return barHeight + labelHeight + 4
}

// DrawAngle renders a dial with a needle at radians.
func DrawAngle(x, y int32, name string, radians float32, options map[string]string) int32 {
	const size = int32(36)
	cx := x + labelWidth + size/2
	cy := y + size/2

	rl.DrawText(name, x, cy-7, 14, ColorTextDim)
	rl.DrawCircle(cx, cy, float32(size/2), ColorAngleBg)
	rl.DrawCircleLines(cx, cy, float32(size/2), ColorTextDim)

	r := float32(size/2 - 4)
	a := float64(radians)
	rl.DrawLineEx(
		rl.Vector2{X: float32(cx), Y: float32(cy)},
		rl.Vector2{X: float32(cx) + r*float32(math.Cos(a)), Y: float32(cy) + r*float32(math.Sin(a))},
		2,
		ColorAngleNeedle,
	)
	rl.DrawText(fmt.Sprintf("%.0f deg", a*180/math.Pi), cx+size/2+6, cy-7, 14, ColorTextDim)
	return size + 4
}

// DrawBool renders an on/off indicator.
func DrawBool(x, y int32, name string, value bool) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)
	c, text := ColorBoolOff, "OFF"
	if value {
		c, text = ColorBoolOn, "ON"
	}
	rl.DrawRectangle(x+labelWidth, y+1, 12, 12, c)
	rl.DrawText(text, x+labelWidth+17, y, 14, c)
	return 18
}

// fieldHeight returns the height DrawField will use for f.
func fieldHeight(f Field) int32 {
	switch f.Widget {
	case WidgetBar:
		if values, ok := GetFloatSlice(f.Value); ok {
			if parseLabels(f.Options, len(values)) != nil {
				return 46
			}
			return 34
		}
	case WidgetAngle:
		if _, ok := GetFloatValue(f.Value); ok {
			return 40
		}
	}
	return 18
}

// DrawField renders a field with its widget and returns the row height.
func DrawField(x, y int32, f Field) int32 {
	switch f.Widget {
	case WidgetBar:
		if values, ok := GetFloatSlice(f.Value); ok {
			return DrawBarGroup(x, y, f.Name, values, f.Options)
		}
		if v, ok := GetFloatValue(f.Value); ok {
			return DrawBar(x, y, f.Name, v, f.Options)
		}
	case WidgetAngle:
		if v, ok := GetFloatValue(f.Value); ok {
			return DrawAngle(x, y, f.Name, v, f.Options)
		}
	case WidgetBool:
		if v, ok := f.Value.(bool); ok {
			return DrawBool(x, y, f.Name, v)
		}
	}
	return DrawLabel(x, y, f.Name, f.Value, f.Options)
}

func lerpColor(a, b rl.Color, t float32) rl.Color {
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: 255,
	}
}
