package bmi

import "fmt"

// VarID enumerates the engine's exchanged quantities. The adapter keys its
// buffers by VarID; the string names exist only at the coupling boundary.
type VarID int

const (
	VarWaterInput VarID = iota
	VarPotentialEt
	VarEtLoss
	VarSurfaceRunoff
	VarSoilLateralFlow
	VarSoilPercolationFlow
	VarGroundwaterFlow
	VarSoilStorage
	VarGroundwaterStorage
)

type varInfo struct {
	id    VarID
	name  string
	units string
	input bool
}

// every exposed quantity is a single float64 scalar on grid 0
var varTable = []varInfo{
	{VarWaterInput, "water_input_flux", "m", true},
	{VarPotentialEt, "potential_evapotranspiration", "m", true},
	{VarEtLoss, "et_loss", "m", false},
	{VarSurfaceRunoff, "surface_runoff", "m s-1", false},
	{VarSoilLateralFlow, "soil_lateral_flow", "m s-1", false},
	{VarSoilPercolationFlow, "soil_percolation_flow", "m s-1", false},
	{VarGroundwaterFlow, "groundwater_flow", "m s-1", false},
	{VarSoilStorage, "soil_storage", "m", false},
	{VarGroundwaterStorage, "groundwater_storage", "m", false},
}

func lookupVar(name string) (varInfo, error) {
	for _, vi := range varTable {
		if vi.name == name {
			return vi, nil
		}
	}
	return varInfo{}, fmt.Errorf("bmi: %w: %q", ErrUnknownVariable, name)
}

// InputVarNames returns the names of the settable forcing quantities.
func InputVarNames() []string {
	var ns []string
	for _, vi := range varTable {
		if vi.input {
			ns = append(ns, vi.name)
		}
	}
	return ns
}

// OutputVarNames returns the names of the readable result quantities.
func OutputVarNames() []string {
	var ns []string
	for _, vi := range varTable {
		if !vi.input {
			ns = append(ns, vi.name)
		}
	}
	return ns
}
