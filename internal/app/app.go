//go:build ebiten

package app

import (
	"log/slog"
	"time"

	"mycelium-ca/internal/core"
	"mycelium-ca/internal/render"
	"mycelium-ca/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// maxCatchUp bounds the steps run in one frame after a stall.
const maxCatchUp = 4

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     core.Sim
	painter *render.GridPainter
	hud     *ui.HUD
	pacer   *core.FixedStep
	log     *slog.Logger

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
	err      error
}

// New constructs a Game for the provided simulation. Steps are paced at sps
// regardless of the frame rate.
func New(sim core.Sim, c *Config, logger *slog.Logger) *Game {
	size := sim.Size()
	return &Game{
		sim:     sim,
		painter: render.NewGridPainter(size.W, size.H),
		hud:     ui.NewHUD(sim, c.HUDWidth),
		pacer:   core.NewFixedStep(c.SPS),
		log:     logger,
		scale:   c.Scale,
		seed:    c.Seed,
	}
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.tickOnce = false
	g.err = g.sim.Reset(seed)
	if g.err != nil {
		g.log.Error("reset failed", "seed", seed, "err", g.err)
	}
}

// Update handles input and advances the simulation when steps are due.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}

	steps := g.pacer.Due(time.Now(), maxCatchUp)
	if g.paused || g.err != nil {
		steps = 0
	}
	if g.tickOnce && g.err == nil {
		steps = max(steps, 1)
		g.tickOnce = false
	}
	for i := 0; i < steps; i++ {
		if err := g.sim.Step(); err != nil {
			// The previous frame stays on screen until the user resets.
			g.err = err
			g.paused = true
			g.log.Error("step failed", "err", err)
			break
		}
	}
	g.hud.Update(ui.PanelState{Paused: g.paused, Err: g.err})
	return nil
}

// Draw renders the current simulation state and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.sim.Palette(), g.scale)
	g.hud.Draw(screen, g.sim.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.hud.Width(), s.H * g.scale
}
