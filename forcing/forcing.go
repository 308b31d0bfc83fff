// Package forcing ingests the per-timestep water input and potential
// evapotranspiration series driving a model instance.
package forcing

import "time"

// Forcing is one spatial unit's forcing record.
type Forcing struct {
	T           []time.Time // timestep start times
	Input       []float64   // water input depth per interval [m]
	Ep          []float64   // potential ET per interval [m]
	IntervalSec float64
}

// Nsteps returns the record length.
func (f *Forcing) Nsteps() int { return len(f.T) }
