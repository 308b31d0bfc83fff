package model

import (
	"fmt"
	"math"

	"github.com/rlmcdaniel/ngen/reservoir"
)

// Model owns the parameter set, the previous/current state double buffer and
// the reservoir instances, and executes one timestep end-to-end. A Model is
// Ready once construction succeeds; each Run call is synchronous and atomic
// from the caller's perspective. Instances share nothing: one per spatial
// unit, strictly ordered Run calls per instance.
type Model struct {
	par  Params
	prev State
	cur  State

	soil *reservoir.Res
	gw   *reservoir.Res
	casc *reservoir.Cascade

	fx        Fluxes
	sfc       float64 // soil field capacity storage
	massBound float64
}

// New validates parameters and initial state and assembles the reservoirs.
// A nil initial state means empty storages. An empty Nash storage vector
// with NashN > 0 is initialized to zeros; any other length mismatch is a
// fatal configuration error.
func New(par Params, initial *State) (*Model, error) {
	if err := par.Check(); err != nil {
		return nil, err
	}
	var init State
	if initial != nil {
		init = initial.clone()
	}
	if len(init.NashCascadeStorage) != par.NashN {
		if len(init.NashCascadeStorage) == 0 && par.NashN > 0 {
			init.NashCascadeStorage = make([]float64, par.NashN)
		} else {
			return nil, fmt.Errorf("model.New: Nash cascade size %d does not match state storage vector length %d",
				par.NashN, len(init.NashCascadeStorage))
		}
	}

	m := Model{par: par, massBound: DefaultMassBalanceTolerance}
	m.sfc = par.FieldCapacityStorage()

	// soil reservoir: lateral-flow and percolation outlets in role order,
	// both activating at field capacity; percolation's coefficient derives
	// from conductivity and slope
	soilOutlets := []reservoir.Outlet{
		reservoir.LateralFlow: {Kind: reservoir.Linear, Coeff: par.Klf, Expon: 1., Threshold: m.sfc, MaxVel: par.MaxLateralFlow},
		reservoir.Percolation: {Kind: reservoir.Linear, Coeff: par.Satdk * par.Slope, Expon: 1., Threshold: m.sfc, MaxVel: math.Inf(1)},
	}
	soil, err := reservoir.New(0., par.MaxSoilStorage, init.SoilStorage, soilOutlets)
	if err != nil {
		return nil, fmt.Errorf("model.New: soil reservoir: %w", err)
	}

	gw, err := reservoir.New(0., par.MaxGroundwaterStorage, init.GroundwaterStorage, []reservoir.Outlet{
		{Kind: reservoir.Exponential, Coeff: par.Cgw, Expon: par.Expon, MaxVel: math.Inf(1)},
	})
	if err != nil {
		return nil, fmt.Errorf("model.New: groundwater reservoir: %w", err)
	}

	casc, err := reservoir.NewCascade(par.NashN, par.Kc, par.MaxSoilStorage, par.MaxLateralFlow, init.NashCascadeStorage)
	if err != nil {
		return nil, fmt.Errorf("model.New: %w", err)
	}

	m.soil, m.gw, m.casc = soil, gw, casc
	m.cur = init
	m.prev = init.clone()
	return &m, nil
}

// Run advances the model one timestep of dt seconds given the water input
// depth [m] and the ET forcing for the step. The returned fluxes are always
// valid; a non-nil error wrapping ErrMassBalance reports a conservation
// audit failure without rolling back state.
func (m *Model) Run(dt, inputFlux float64, et *EtParams) (Fluxes, error) {
	if dt <= 0. {
		return Fluxes{}, fmt.Errorf("model.Run: non-positive timestep %g", dt)
	}

	// advance the double buffer
	m.prev = m.cur
	m.cur = State{NashCascadeStorage: make([]float64, m.par.NashN)}
	m.fx = Fluxes{}

	deficit := m.par.MaxSoilStorage - m.prev.SoilStorage
	runoff, infiltration := SchaakePartition(dt, m.par.Cschaake, deficit, inputFlux)

	_, soilExcess, err := m.soil.Response(infiltration/dt, dt)
	if err != nil {
		return m.fx, fmt.Errorf("model.Run: soil reservoir: %w", err)
	}
	qlf := m.soil.Velocity(reservoir.LateralFlow)
	qperc := m.soil.Velocity(reservoir.Percolation)

	// withdraw ET from the post-response soil storage, keeping the
	// reservoir store and the state snapshot consistent
	m.fx.EtLoss = EtLoss(m.soil.Storage(), et)
	m.cur.SoilStorage = m.soil.Storage() - m.fx.EtLoss
	m.soil.SetStorage(m.cur.SoilStorage)

	qlfRouted, nashSto, err := m.casc.Route(qlf, dt)
	if err != nil {
		return m.fx, fmt.Errorf("model.Run: %w", err)
	}
	m.cur.NashCascadeStorage = nashSto

	gwVel, gwExcess, err := m.gw.Response(qperc, dt)
	if err != nil {
		return m.fx, fmt.Errorf("model.Run: groundwater reservoir: %w", err)
	}
	m.fx.GroundwaterFlow = gwVel[0]
	m.cur.GroundwaterStorage = m.gw.Storage()

	m.fx.SoilLateralFlow = qlfRouted
	m.fx.SoilPercolationFlow = qperc
	m.fx.SurfaceRunoff = (runoff + soilExcess + gwExcess) / dt

	return m.fx, CheckMassBalance(&m.prev, &m.cur, &m.fx, inputFlux, dt, m.massBound)
}

// CurrentState returns a copy of the state being exposed to callers.
func (m *Model) CurrentState() State { return m.cur.clone() }

// PreviousState returns a copy of the last completed step's state.
func (m *Model) PreviousState() State { return m.prev.clone() }

// Fluxes returns the fluxes computed by the last Run call.
func (m *Model) Fluxes() Fluxes { return m.fx }

// Params returns the immutable parameter set.
func (m *Model) Params() Params { return m.par }

// FieldCapacity returns Sfc, the activation threshold of the soil outlets.
func (m *Model) FieldCapacity() float64 { return m.sfc }

// MassBalanceTolerance returns the audit bound [m].
func (m *Model) MassBalanceTolerance() float64 { return m.massBound }

// SetMassBalanceTolerance sets the audit bound to |bound|.
func (m *Model) SetMassBalanceTolerance(bound float64) { m.massBound = math.Abs(bound) }
