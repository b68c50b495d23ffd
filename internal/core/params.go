package core

import "strconv"

// ParamType enumerates supported parameter value kinds.
type ParamType string

const (
	// ParamTypeInt denotes integer-valued parameters.
	ParamTypeInt ParamType = "int"
	// ParamTypeFloat denotes floating-point parameters.
	ParamTypeFloat ParamType = "float"
	// ParamTypeString denotes selector parameters such as policy names.
	ParamTypeString ParamType = "string"
)

// Parameter describes a single run-time constant exposed by a simulation.
type Parameter struct {
	Key   string
	Label string
	Type  ParamType
	Value string
}

// ParameterGroup clusters related parameters for presentation purposes.
type ParameterGroup struct {
	Name   string
	Params []Parameter
}

// ParameterSnapshot captures the set of values a sim was configured with.
type ParameterSnapshot struct {
	Groups []ParameterGroup
}

// ParameterProvider is implemented by sims that can describe their
// configuration to the HUD and to run logs.
type ParameterProvider interface {
	Parameters() ParameterSnapshot
}

// StatusProvider is implemented by sims that expose live counters such as
// the current step.
type StatusProvider interface {
	Status() []Parameter
}

// LegendProvider names the palette entries of a sim in index order.
type LegendProvider interface {
	Legend() []string
}

// Flatten returns the snapshot as key/value pairs in group order.
func (s ParameterSnapshot) Flatten() []Parameter {
	var out []Parameter
	for _, g := range s.Groups {
		out = append(out, g.Params...)
	}
	return out
}

// IntParam builds an integer parameter entry.
func IntParam(key, label string, value int) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeInt, Value: strconv.Itoa(value)}
}

// Int64Param builds an integer parameter entry from an int64.
func Int64Param(key, label string, value int64) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeInt, Value: strconv.FormatInt(value, 10)}
}

// FloatParam builds a floating point parameter entry.
func FloatParam(key, label string, value float64) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeFloat, Value: strconv.FormatFloat(value, 'f', -1, 64)}
}

// StringParam builds a selector parameter entry.
func StringParam(key, label, value string) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeString, Value: value}
}
