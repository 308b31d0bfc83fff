package model

// State is one snapshot of the model's storages. Two snapshots are live at
// any time: the previous step's (immutable once assigned) and the one being
// computed.
type State struct {
	SoilStorage        float64   // [m]
	GroundwaterStorage float64   // [m]
	NashCascadeStorage []float64 // per-stage storage [m], length == Params.NashN
}

// clone deep-copies the snapshot so the previous/current slots never alias.
func (s *State) clone() State {
	c := *s
	if s.NashCascadeStorage != nil {
		c.NashCascadeStorage = make([]float64, len(s.NashCascadeStorage))
		copy(c.NashCascadeStorage, s.NashCascadeStorage)
	}
	return c
}

// totalStorage sums all storages [m].
func (s *State) totalStorage() float64 {
	t := s.SoilStorage + s.GroundwaterStorage
	for _, v := range s.NashCascadeStorage {
		t += v
	}
	return t
}

// Fluxes holds the water fluxes produced by one timestep. They are recreated
// zeroed every step, never carried over.
type Fluxes struct {
	EtLoss              float64 // [m]
	SurfaceRunoff       float64 // [m/s]
	SoilLateralFlow     float64 // [m/s]
	SoilPercolationFlow float64 // [m/s]
	GroundwaterFlow     float64 // [m/s]
}
