//go:build ebiten

package ui

import (
	"image/color"

	"mycelium-ca/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the status and parameter panel to the right of the grid.
type HUD struct {
	sim        core.Sim
	width      int
	panel      *ebiten.Image
	lastHeight int
	lines      []Line

	pixel *ebiten.Image
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{sim: sim, width: width}
	if width > 0 {
		h.pixel = ebiten.NewImage(1, 1)
		h.pixel.Fill(color.White)
	}
	return h
}

// Width returns the panel width in pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Update refreshes the cached panel lines.
func (h *HUD) Update(st PanelState) {
	if h == nil {
		return
	}
	h.lines = PanelLines(h.sim, st)
}

// Draw paints the HUD panel at offsetX, sized to the scaled grid height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := h.sim.Size().H * scale
	if height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	h.drawLines()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawLines() {
	face := basicfont.Face7x13
	palette := h.sim.Palette()
	y := panelPadding + lineHeight
	for _, l := range h.lines {
		if y > h.lastHeight {
			return
		}
		x := panelPadding
		if l.Swatch >= 0 && l.Swatch < len(palette) {
			h.drawSwatch(x, y-swatchSize, palette[l.Swatch])
			x += swatchSize + swatchGap
		}
		fg := color.RGBA{R: 220, G: 220, B: 230, A: 255}
		switch {
		case l.Header:
			fg = color.RGBA{R: 200, G: 200, B: 210, A: 255}
		case l.Dim:
			fg = color.RGBA{R: 160, G: 160, B: 170, A: 255}
		}
		if l.Text != "" {
			text.Draw(h.panel, l.Text, face, x, y, fg)
		}
		y += lineHeight
	}
}

func (h *HUD) drawSwatch(x, y int, c color.RGBA) {
	if h.pixel == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(swatchSize, swatchSize)
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	h.panel.DrawImage(h.pixel, op)
}

const (
	panelPadding = 12
	lineHeight   = 16
	swatchSize   = 10
	swatchGap    = 6
)
