//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"

	"mycelium-ca/internal/app"
	"mycelium-ca/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	sim, err := app.BuildSim(cfg)
	if err != nil {
		log.Fatalf("building %s: %v", cfg.Sim, err)
	}
	if pp, ok := sim.(core.ParameterProvider); ok {
		for _, p := range pp.Parameters().Flatten() {
			logger.Debug("parameter", "key", p.Key, "value", p.Value)
		}
	}

	game := app.New(sim, cfg, logger)
	size := sim.Size()

	ebiten.SetWindowTitle("mycelium-ca: " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+max(cfg.HUDWidth, 0), size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
