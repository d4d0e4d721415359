package camera

import (
	"math"
	"testing"
)

func TestNewFitsExactly(t *testing.T) {
	cam := New(1280, 720, 640, 360)
	if cam.Zoom != 2 {
		t.Errorf("expected zoom 2, got %f", cam.Zoom)
	}
	if cam.OffsetX != 0 || cam.OffsetY != 0 {
		t.Errorf("expected no bars, got offset (%f, %f)", cam.OffsetX, cam.OffsetY)
	}
}

func TestLetterbox(t *testing.T) {
	tests := []struct {
		name           string
		vw, vh, fw, fh float32
		zoom, ox, oy   float32
	}{
		{"wider window", 1600, 720, 640, 360, 2, 160, 0},
		{"taller window", 1280, 1000, 640, 360, 2, 0, 140},
		{"shrunk", 320, 180, 640, 360, 0.5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := New(tt.vw, tt.vh, tt.fw, tt.fh)
			if cam.Zoom != tt.zoom || cam.OffsetX != tt.ox || cam.OffsetY != tt.oy {
				t.Errorf("got zoom %f offset (%f, %f), want %f (%f, %f)",
					cam.Zoom, cam.OffsetX, cam.OffsetY, tt.zoom, tt.ox, tt.oy)
			}
			x, y, w, h := cam.Dest()
			if x != tt.ox || y != tt.oy || w != tt.fw*tt.zoom || h != tt.fh*tt.zoom {
				t.Errorf("dest (%f, %f, %f, %f)", x, y, w, h)
			}
		})
	}
}

func TestScreenToFrameRoundtrip(t *testing.T) {
	cam := New(1600, 720, 640, 360)

	testCases := []struct{ sx, sy float32 }{
		{800, 360},
		{200, 100},
		{1400, 700},
	}
	for _, tc := range testCases {
		fx, fy := cam.ScreenToFrame(tc.sx, tc.sy)
		sx, sy := cam.FrameToScreen(fx, fy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, fx, fy, sx, sy)
		}
	}
}

func TestScreenToNormalized(t *testing.T) {
	cam := New(1600, 720, 640, 360)

	u, v := cam.ScreenToNormalized(800, 360)
	if math.Abs(u-0.5) > 1e-6 || math.Abs(v-0.5) > 1e-6 {
		t.Errorf("center maps to (%f, %f)", u, v)
	}

	// Left bar clamps to the frame edge
	u, _ = cam.ScreenToNormalized(10, 360)
	if u != 0 {
		t.Errorf("bar point maps to u=%f, want 0", u)
	}
	if cam.Contains(10, 360) {
		t.Error("bar point should not be on the frame")
	}
	if !cam.Contains(800, 360) {
		t.Error("center should be on the frame")
	}
}

func TestResizeRefits(t *testing.T) {
	cam := New(1280, 720, 640, 360)
	cam.Resize(640, 720)
	if cam.Zoom != 1 || cam.OffsetY != 180 {
		t.Errorf("after resize zoom %f offset y %f", cam.Zoom, cam.OffsetY)
	}
	cam.SetFrame(320, 360)
	if cam.Zoom != 2 || cam.OffsetX != 0 || cam.OffsetY != 0 {
		t.Errorf("after SetFrame zoom %f offset (%f, %f)", cam.Zoom, cam.OffsetX, cam.OffsetY)
	}
}

func TestFrameSize(t *testing.T) {
	w, h := FrameSize(1280, 720, 0.5)
	if w != 640 || h != 360 {
		t.Errorf("FrameSize = %dx%d", w, h)
	}
	w, h = FrameSize(1, 1, 0.25)
	if w != 1 || h != 1 {
		t.Errorf("FrameSize should keep one pixel, got %dx%d", w, h)
	}
}
