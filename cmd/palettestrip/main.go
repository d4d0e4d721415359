// Palette strip tool - renders every color scheme and anchor gradient to a PNG file
// for inspection.
//
// Usage: go run ./cmd/palettestrip -out palettes.png
package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/reimyaku/config"
	"github.com/pthm-cable/reimyaku/palette"
)

// strip is one horizontal band of the output.
type strip struct {
	label  string
	sample func(t float64) colorful.Color
}

func main() {
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	outPath := flag.String("out", "palettes.png", "Output PNG path")
	width := flag.Int("width", 512, "Strip width")
	rowHeight := flag.Int("row-height", 32, "Height of each strip")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	strips := []strip{
		{label: palette.SchemeCosine.String(), sample: palette.CosPal},
		{label: palette.SchemeSinebow.String(), sample: palette.Sinebow},
	}
	for i, a := range cfg.Derived.Anchors {
		strips = append(strips, strip{label: fmt.Sprintf("anchors %d", i), sample: a.Lerp})
	}

	w, rh := int32(*width), int32(*rowHeight)
	img := rl.GenImageColor(int(w), int(rh)*len(strips), rl.Black)
	defer rl.UnloadImage(img)

	for row, s := range strips {
		y0 := int32(row) * rh
		for x := int32(0); x < w; x++ {
			t := float64(x) / float64(max(w-1, 1))
			r, g, b := s.sample(t).Clamped().RGB255()
			rl.ImageDrawRectangle(img, x, y0, 1, rh, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}

	if !rl.ExportImage(*img, *outPath) {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
	fmt.Printf("Palettes rendered to: %s (%dx%d)\n", *outPath, w, rh*int32(len(strips)))
	for i, s := range strips {
		fmt.Printf("  row %d: %s\n", i, s.label)
	}
}
