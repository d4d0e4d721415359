// Package export writes rendered frames to disk: PNG stills and MJPEG AVI clips.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/icza/mjpeg"

	"github.com/pthm-cable/reimyaku/config"
)

// ErrNotRecording is returned when a recorder operation needs an open clip.
var ErrNotRecording = errors.New("recorder is not recording")

// SavePNG writes img as <dir>/<prefix>_<frame>.png and returns the path.
func SavePNG(dir, prefix string, frame int64, img image.Image) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%d.png", prefix, frame))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encoding png: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}

// Recorder streams frames into numbered MJPEG AVI clips at a fixed video frame rate,
// independent of the simulation frame rate.
type Recorder struct {
	dir     string
	prefix  string
	fps     int
	quality int

	writer mjpeg.AviWriter
	path   string
	width  int
	height int
	frames int
	clip   int

	due float64 // seconds until the next frame is written
	buf bytes.Buffer
}

// NewRecorder creates an idle recorder.
func NewRecorder(cfg config.ExportConfig) *Recorder {
	return &Recorder{
		dir:     cfg.Dir,
		prefix:  cfg.ClipPrefix,
		fps:     max(cfg.VideoFPS, 1),
		quality: cfg.JPEGQuality,
	}
}

// Recording reports whether a clip is open.
func (r *Recorder) Recording() bool { return r.writer != nil }

// Size returns the frame size of the open clip.
func (r *Recorder) Size() (w, h int) { return r.width, r.height }

// Start opens the next free clip file for w×h frames and returns its path.
func (r *Recorder) Start(w, h int) (string, error) {
	if r.writer != nil {
		return r.path, nil
	}
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}

	var path string
	for {
		r.clip++
		path = filepath.Join(r.dir, fmt.Sprintf("%s_%d.avi", r.prefix, r.clip))
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			break
		}
	}

	aw, err := mjpeg.New(path, int32(w), int32(h), int32(r.fps))
	if err != nil {
		return "", fmt.Errorf("creating video writer: %w", err)
	}
	r.writer = aw
	r.path = path
	r.width, r.height = w, h
	r.frames = 0
	r.due = 0
	return path, nil
}

// Capture offers a frame covering dt seconds of simulation. Frames are written at the
// video rate; the first offer after Start is always written. A long frame never
// produces a burst of catch-up frames.
func (r *Recorder) Capture(img image.Image, dt float64) error {
	if r.writer == nil {
		return ErrNotRecording
	}
	if r.due > 1e-9 {
		r.due -= dt
		return nil
	}
	if b := img.Bounds(); b.Dx() != r.width || b.Dy() != r.height {
		return fmt.Errorf("frame size %dx%d does not match clip size %dx%d", b.Dx(), b.Dy(), r.width, r.height)
	}

	r.buf.Reset()
	if err := jpeg.Encode(&r.buf, img, &jpeg.Options{Quality: r.quality}); err != nil {
		return fmt.Errorf("encoding jpeg: %w", err)
	}
	if err := r.writer.AddFrame(r.buf.Bytes()); err != nil {
		return fmt.Errorf("adding video frame: %w", err)
	}
	r.frames++
	r.due = max(r.due, 0) + 1/float64(r.fps) - dt
	return nil
}

// Stop finalizes the clip and returns its path and frame count.
func (r *Recorder) Stop() (string, int, error) {
	if r.writer == nil {
		return "", 0, ErrNotRecording
	}
	err := r.writer.Close()
	path, frames := r.path, r.frames
	r.writer = nil
	r.path = ""
	if err != nil {
		return path, frames, fmt.Errorf("closing video: %w", err)
	}
	return path, frames, nil
}
