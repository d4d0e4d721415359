package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/reimyaku/game"
)

// keyBinding maps a key press to a game command.
type keyBinding struct {
	key int32
	cmd game.Command
}

var keyBindings = []keyBinding{
	{rl.KeyR, game.CmdResetField},
	{rl.KeyC, game.CmdCyclePalette},
	{rl.KeySpace, game.CmdFlash},
	{rl.KeyP, game.CmdSavePNG},
	{rl.KeyOne, game.CmdSides1},
	{rl.KeyTwo, game.CmdSides2},
	{rl.KeyThree, game.CmdSides3},
	{rl.KeyFour, game.CmdSides4},
	{rl.KeyV, game.CmdCyclePsy},
	{rl.KeyB, game.CmdCyclePosterize},
	{rl.KeyX, game.CmdToggleScheme},
	{rl.KeyM, game.CmdToggleMic},
	{rl.KeyEnter, game.CmdToggleRecording},
	{rl.KeyKpEnter, game.CmdToggleRecording},
}

const controlsLegend = "R reset  C palette  Space flash  1-4 sides  V psy  B posterize  X scheme  M mic  P save  Enter rec  F fullscreen  H hud  I inspect"

// pressedCommands returns the commands whose keys were pressed this frame.
func pressedCommands() []game.Command {
	var cmds []game.Command
	for _, b := range keyBindings {
		if rl.IsKeyPressed(b.key) {
			cmds = append(cmds, b.cmd)
		}
	}
	return cmds
}
