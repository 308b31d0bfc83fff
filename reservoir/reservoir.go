// Package reservoir implements the nonlinear reservoir cell, its discharge
// outlets, and the Nash cascade used for subsurface lateral-flow routing.
package reservoir

import (
	"errors"
	"fmt"
)

// ErrInvalidState flags a degenerate numeric input (e.g. negative storage)
// passed into a kernel routine.
var ErrInvalidState = errors.New("invalid state")

// Role identifies an outlet within a multi-outlet reservoir by what it does
// rather than by a magic index. Reservoirs are constructed with outlets in
// Role order.
type Role int

const (
	LateralFlow Role = iota
	Percolation
)

// Res is a bounded storage cell with one or more discharge outlets.
type Res struct {
	minSto, maxSto float64
	sto            float64
	outlets        []Outlet
	vel            []float64 // effective outlet velocities from the last Response
}

// New builds a reservoir. maxSto must be positive and initial storage is
// clamped into [minSto, maxSto].
func New(minSto, maxSto, sto float64, outlets []Outlet) (*Res, error) {
	if maxSto <= 0. || maxSto < minSto {
		return nil, fmt.Errorf("reservoir.New: invalid storage bounds [%g, %g]", minSto, maxSto)
	}
	if len(outlets) == 0 {
		return nil, fmt.Errorf("reservoir.New: at least one outlet required")
	}
	if sto < minSto {
		sto = minSto
	} else if sto > maxSto {
		sto = maxSto
	}
	return &Res{
		minSto:  minSto,
		maxSto:  maxSto,
		sto:     sto,
		outlets: outlets,
		vel:     make([]float64, len(outlets)),
	}, nil
}

// Response advances the reservoir one timestep: inflow [m/s] is added over
// dt [s], each outlet discharges, and any storage beyond maxSto is returned
// as excess [m]. Outlet velocities are evaluated against the post-inflow
// storage snapshot, not re-evaluated after each subtraction; only the
// min-storage cap makes discharge order-dependent. The returned slice aliases
// internal state and is valid until the next Response call.
func (r *Res) Response(inflow, dt float64) ([]float64, float64, error) {
	r.sto += inflow * dt
	snap := r.sto
	for i := range r.outlets {
		v, err := r.outlets[i].Velocity(snap, r.maxSto)
		if err != nil {
			return nil, 0., err
		}
		if r.sto-v*dt < r.minSto {
			// cap the draw so storage bottoms out exactly at minSto
			v = (r.sto - r.minSto) / dt
			r.sto = r.minSto
		} else {
			r.sto -= v * dt
		}
		r.vel[i] = v
	}
	var excess float64
	if r.sto > r.maxSto {
		excess = r.sto - r.maxSto
		r.sto = r.maxSto
	}
	return r.vel, excess, nil
}

// Velocity returns the effective velocity computed for the given outlet role
// during the last Response call.
func (r *Res) Velocity(role Role) float64 { return r.vel[role] }

// Storage returns the current storage height [m].
func (r *Res) Storage() float64 { return r.sto }

// SetStorage overwrites the storage height, clamping into bounds. Used when
// an external process (evapotranspiration) withdraws water directly.
func (r *Res) SetStorage(sto float64) {
	if sto < r.minSto {
		sto = r.minSto
	} else if sto > r.maxSto {
		sto = r.maxSto
	}
	r.sto = sto
}
