// Package indicator defines the computation boundary the dispatch engine
// consumes: a synchronous pure function from bars and inputs to a Result.
// The engine treats the function as opaque; panics are recovered at the
// dispatch boundary and rendered as a blank pane, never a partial one.
package indicator

import (
	"sort"

	"chartkit/internal/model"
)

// Inputs holds the user-editable parameters of one computation. Typed
// getters fall back to a default on missing or mistyped values.
type Inputs map[string]any

// Int returns an integer input, accepting float64 values from JSON decoding.
func (in Inputs) Int(name string, def int) int {
	switch v := in[name].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

// Float returns a float input.
func (in Inputs) Float(name string, def float64) float64 {
	switch v := in[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

// Bool returns a boolean input and whether it was present.
func (in Inputs) Bool(name string) (value, ok bool) {
	v, ok := in[name].(bool)
	return v, ok
}

// InputSpec declares one editable input.
type InputSpec struct {
	Name    string  `json:"name"`
	Title   string  `json:"title,omitempty"`
	Type    string  `json:"type"` // "int", "float", "bool"
	Default any     `json:"default,omitempty"`
	Min     float64 `json:"min,omitempty"`
	Max     float64 `json:"max,omitempty"`
}

// Func computes a Result from bars and inputs. Implementations must be pure:
// same bars and inputs, same result.
type Func func(bars []model.Bar, in Inputs) (*model.Result, error)

// Definition is everything the engine knows about one indicator: its
// identity, whether its plots share the primary price pane, its editable
// inputs, its declared plots, and the computation itself.
type Definition struct {
	Name    string           `json:"name"`
	Overlay bool             `json:"overlay"`
	Inputs  []InputSpec      `json:"inputs,omitempty"`
	Plots   []model.PlotSpec `json:"plots"`
	Compute Func             `json:"-"`
}

// DefaultInputs builds the input map from the declared defaults.
func (d *Definition) DefaultInputs() Inputs {
	in := make(Inputs, len(d.Inputs))
	for _, spec := range d.Inputs {
		if spec.Default != nil {
			in[spec.Name] = spec.Default
		}
	}
	return in
}

var registry = make(map[string]*Definition)

// Register adds a definition to the registry. Last registration per name
// wins; registration happens from init funcs on the main goroutine.
func Register(d *Definition) {
	registry[d.Name] = d
}

// Get returns a registered definition by name.
func Get(name string) (*Definition, bool) {
	d, ok := registry[name]
	return d, ok
}

// Names returns the registered indicator names, sorted.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
