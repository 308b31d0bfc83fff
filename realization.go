// Package ngen wraps the rainfall-runoff kernel into per-catchment
// realizations: initial-storage handling, GIUH surface routing, serial
// evaluation over a forcing record, and hydrograph skill scoring.
package ngen

import (
	"fmt"

	"github.com/rlmcdaniel/ngen/model"
)

// Realization binds one kernel instance to a catchment: it owns the GIUH
// surface-routing queue and steps the kernel through time.
type Realization struct {
	ID  string
	mdl *model.Model

	kernel []float64 // per-interval runoff fractions; nil routes undelayed
	queue  []float64 // pending routed surface runoff [m/s]
}

// NewRealization builds a realization. soilSto and gwSto give initial
// storages, either in meters or, when ratios is set, as fractions of the
// respective maximum. giuhCDF supplies the routing ordinates (nil for
// pass-through); nash supplies initial cascade storages (nil for zeros).
func NewRealization(id string, par model.Params, soilSto, gwSto float64, ratios bool, nash, giuhCDF []float64) (*Realization, error) {
	if ratios {
		soilSto *= par.MaxSoilStorage
		gwSto *= par.MaxGroundwaterStorage
	}
	mdl, err := model.New(par, &model.State{
		SoilStorage:        soilSto,
		GroundwaterStorage: gwSto,
		NashCascadeStorage: nash,
	})
	if err != nil {
		return nil, fmt.Errorf("ngen.NewRealization %s: %w", id, err)
	}
	k, err := giuhKernel(giuhCDF)
	if err != nil {
		return nil, fmt.Errorf("ngen.NewRealization %s: %w", id, err)
	}
	return &Realization{
		ID:     id,
		mdl:    mdl,
		kernel: k,
		queue:  make([]float64, len(k)),
	}, nil
}

// Model exposes the wrapped kernel.
func (r *Realization) Model() *model.Model { return r.mdl }

// Step advances one timestep and routes the surface runoff through the GIUH
// kernel. The returned error, if any, wraps model.ErrMassBalance and does
// not invalidate the fluxes.
func (r *Realization) Step(dt, input float64, et *model.EtParams) (model.Fluxes, error) {
	fx, err := r.mdl.Run(dt, input, et)
	fx.SurfaceRunoff = r.route(fx.SurfaceRunoff)
	return fx, err
}

// route spreads the step's runoff over the kernel's future intervals and
// releases the amount due now.
func (r *Realization) route(runoff float64) float64 {
	if r.kernel == nil {
		return runoff
	}
	for i, f := range r.kernel {
		r.queue[i] += runoff * f
	}
	out := r.queue[0]
	copy(r.queue, r.queue[1:])
	r.queue[len(r.queue)-1] = 0.
	return out
}

// QueuedRunoff returns the total surface runoff [m/s] still in transit.
func (r *Realization) QueuedRunoff() float64 {
	var s float64
	for _, v := range r.queue {
		s += v
	}
	return s
}
