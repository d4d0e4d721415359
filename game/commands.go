package game

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/pthm-cable/reimyaku/audio"
)

// Command is a discrete user action applied between frames.
type Command uint8

const (
	CmdResetField Command = iota
	CmdCyclePalette
	CmdFlash
	CmdSides1
	CmdSides2
	CmdSides3
	CmdSides4
	CmdCyclePsy
	CmdCyclePosterize
	CmdToggleScheme
	CmdToggleMic
	CmdSavePNG
	CmdToggleRecording
)

var commandNames = [...]string{
	CmdResetField:      "reset_field",
	CmdCyclePalette:    "cycle_palette",
	CmdFlash:           "flash",
	CmdSides1:          "sides_1",
	CmdSides2:          "sides_2",
	CmdSides3:          "sides_3",
	CmdSides4:          "sides_4",
	CmdCyclePsy:        "cycle_psy",
	CmdCyclePosterize:  "cycle_posterize",
	CmdToggleScheme:    "toggle_scheme",
	CmdToggleMic:       "toggle_mic",
	CmdSavePNG:         "save_png",
	CmdToggleRecording: "toggle_recording",
}

func (c Command) String() string {
	if int(c) < len(commandNames) {
		return commandNames[c]
	}
	return fmt.Sprintf("command(%d)", uint8(c))
}

// toggler is implemented by sources that can be switched on and off, such as the microphone.
type toggler interface {
	Toggle() error
}

// Apply executes a command. Export and microphone failures are returned; the frame loop
// keeps running either way.
func (g *Game) Apply(cmd Command) error {
	ctx := &g.ctx
	switch cmd {
	case CmdResetField:
		g.ResetField()
		slog.Info("field reset", "frame", ctx.Frame)

	case CmdCyclePalette:
		ctx.Palette.Cycle()
		slog.Info("palette changed", "index", ctx.Palette.Index)

	case CmdFlash:
		g.flash(g.cfg.Audio.ManualFlash)
		g.collector.RecordManualFlash()

	case CmdSides1, CmdSides2, CmdSides3, CmdSides4:
		g.selectSides(int(cmd - CmdSides1))

	case CmdCyclePsy:
		ctx.Psy = nextInCycle(g.cfg.Psy.Cycle, ctx.Psy)
		slog.Info("psy changed", "psy", ctx.Psy)

	case CmdCyclePosterize:
		ctx.Posterize = nextInCycle(g.cfg.Posterize.Cycle, ctx.Posterize)
		slog.Info("posterize changed", "levels", ctx.Posterize)

	case CmdToggleScheme:
		ctx.Palette.ToggleScheme()
		slog.Info("palette scheme changed", "scheme", ctx.Palette.Scheme.String())

	case CmdToggleMic:
		return g.toggleMic()

	case CmdSavePNG:
		_, err := g.SavePNG()
		return err

	case CmdToggleRecording:
		return g.ToggleRecording()

	default:
		return fmt.Errorf("unknown command %v", cmd)
	}
	return nil
}

func (g *Game) selectSides(i int) {
	cycle := g.cfg.Kaleido.SidesCycle
	if i < 0 || i >= len(cycle) {
		return
	}
	g.ctx.Sides = cycle[i]
	slog.Info("sides changed", "sides", g.ctx.Sides)
}

func (g *Game) toggleMic() error {
	t, ok := g.source.(toggler)
	if !ok {
		return fmt.Errorf("%w: current source cannot be toggled", audio.ErrNoInput)
	}
	if err := t.Toggle(); err != nil {
		slog.Warn("microphone unavailable", "error", err)
		return err
	}
	return nil
}

// nextInCycle returns the entry after cur in cycle, or the first entry when cur is not in
// the cycle.
func nextInCycle[T comparable](cycle []T, cur T) T {
	if len(cycle) == 0 {
		return cur
	}
	i := slices.Index(cycle, cur)
	return cycle[(i+1)%len(cycle)]
}
