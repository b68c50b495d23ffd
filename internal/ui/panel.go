package ui

import (
	"strconv"
	"strings"

	"mycelium-ca/internal/core"
)

// Line is one row of the HUD panel.
type Line struct {
	Text   string
	Header bool
	Dim    bool
	// Swatch is the palette index drawn before the text, or -1 for none.
	Swatch int
}

// PanelState carries front-end state that the sim itself does not know.
type PanelState struct {
	Paused bool
	Err    error
}

// PanelLines lays out the HUD text for sim: live status, run state, the
// configuration groups and the color legend.
func PanelLines(sim core.Sim, st PanelState) []Line {
	if sim == nil {
		return nil
	}
	lines := []Line{header(title(sim.Name()))}
	if sp, ok := sim.(core.StatusProvider); ok {
		for _, p := range sp.Status() {
			lines = append(lines, textLine(p.Label+": "+formatValue(p)))
		}
	}
	switch {
	case st.Err != nil:
		lines = append(lines, textLine("halted: "+st.Err.Error()))
	case st.Paused:
		lines = append(lines, textLine("paused"))
	}

	if pp, ok := sim.(core.ParameterProvider); ok {
		for _, g := range pp.Parameters().Groups {
			lines = append(lines, Line{Swatch: -1}, header(g.Name))
			for _, p := range g.Params {
				lines = append(lines, Line{Text: p.Label + ": " + formatValue(p), Dim: true, Swatch: -1})
			}
		}
	}

	if lp, ok := sim.(core.LegendProvider); ok {
		lines = append(lines, Line{Swatch: -1}, header("Legend"))
		for i, name := range lp.Legend() {
			lines = append(lines, Line{Text: name, Swatch: i})
		}
	}
	return lines
}

func header(s string) Line { return Line{Text: s, Header: true, Swatch: -1} }

func textLine(s string) Line { return Line{Text: s, Swatch: -1} }

func title(name string) string {
	if name == "" {
		return "Simulation"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// formatValue trims float parameters to four significant digits.
func formatValue(p core.Parameter) string {
	if p.Type != core.ParamTypeFloat {
		return p.Value
	}
	v, err := strconv.ParseFloat(p.Value, 64)
	if err != nil {
		return p.Value
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}
