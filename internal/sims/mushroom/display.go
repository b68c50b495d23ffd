package mushroom

import "image/color"

var mushroomPalette = buildPalette()

// Palette exposes the per-state colors used for rendering. Display values are
// the raw CellState bytes, so the palette is indexed by state.
func (s *Sim) Palette() []color.RGBA {
	return mushroomPalette
}

func buildPalette() []color.RGBA {
	palette := make([]color.RGBA, NumStates)
	for i := range palette {
		palette[i] = StateColor(CellState(i))
	}
	return palette
}

// StateColor returns the display color of a state. Maturing and older hyphae
// share a color.
func StateColor(s CellState) color.RGBA {
	switch s {
	case Empty:
		return color.RGBA{R: 0, G: 255, B: 0, A: 255}
	case Spore:
		return color.RGBA{R: 0, G: 0, B: 0, A: 255}
	case Young:
		return color.RGBA{R: 64, G: 64, B: 64, A: 255}
	case Maturing, Older:
		return color.RGBA{R: 192, G: 192, B: 192, A: 255}
	case Mushroom:
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	case Decaying:
		return color.RGBA{R: 255, G: 255, B: 128, A: 255}
	case Dead1:
		return color.RGBA{R: 128, G: 128, B: 0, A: 255}
	case Dead2:
		return color.RGBA{R: 0, G: 128, B: 0, A: 255}
	case Inert:
		return color.RGBA{R: 255, G: 255, B: 0, A: 255}
	default:
		return color.RGBA{R: 255, G: 0, B: 255, A: 255}
	}
}

// Legend names the palette entries in index order.
func (s *Sim) Legend() []string {
	names := make([]string, NumStates)
	for i := range names {
		names[i] = CellState(i).String()
	}
	return names
}
