package game

import "math"

// Snapshot is a flat view of the live frame state. The inspect tags drive the
// inspector panel.
type Snapshot struct {
	Frame int64   `inspect:"label"`
	Time  float64 `inspect:"label,fmt:%.1fs"`

	Bands       [3]float64 `inspect:"bar,labels:low|mid|high"`
	AudioActive bool       `inspect:"bool"`
	Pressed     bool       `inspect:"bool"`

	Feed         float64 `inspect:"label,fmt:%.4f"`
	Kill         float64 `inspect:"label,fmt:%.4f"`
	Inject       float64 `inspect:"bar,max:1.5"`
	InjectRadius float64 `inspect:"bar,max:0.4"`
	FlashLeft    float64 `inspect:"label,fmt:%.2fs"`

	Psy        float64 `inspect:"bar,max:1.2"`
	Spin       float64 `inspect:"angle"`
	Aberration float64 `inspect:"label,fmt:%.4f"`
	HueBase    float64 `inspect:"bar"`

	Particles int `inspect:"label"`
	Respawns  int `inspect:"label"`
	Stamps    int `inspect:"label"`
}

// Inspect returns the state of the last completed frame.
func (g *Game) Inspect() Snapshot {
	ctx := &g.ctx
	return Snapshot{
		Frame:        ctx.Frame,
		Time:         ctx.Time,
		Bands:        [3]float64{ctx.Bands.Low, ctx.Bands.Mid, ctx.Bands.High},
		AudioActive:  ctx.AudioActive,
		Pressed:      ctx.Pointer.Pressed,
		Feed:         g.lastRD.F,
		Kill:         g.lastRD.K,
		Inject:       g.lastRD.InjectAmt,
		InjectRadius: ctx.InjectRadius,
		FlashLeft:    ctx.FlashLeft,
		Psy:          ctx.Psy,
		Spin:         math.Mod(ctx.Spin, 2*math.Pi),
		Aberration:   g.aberration,
		HueBase:      ctx.Palette.HueBase,
		Particles:    g.particles.Len(),
		Respawns:     g.lastRespawns,
		Stamps:       g.lastStamps,
	}
}
