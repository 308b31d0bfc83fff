// Package model implements the conceptual rainfall-runoff kernel: a soil
// reservoir with lateral-flow and percolation outlets, a groundwater
// reservoir with an exponential outlet, a Nash cascade routing the lateral
// flow, Schaake partitioning of water input, a probability-distributed
// evapotranspiration adjustment, and a per-timestep mass-balance audit.
package model

import (
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/maseology/mmio"
)

const (
	atmosphericPressurePa = 101325.
	waterSpecificWeight   = 9810. // N/m³
)

// Params is the immutable parameter set of one model instance.
type Params struct {
	Maxsmc  float64 // saturated soil moisture content [-]
	Wltsmc  float64 // wilting-point soil moisture content [-]
	Satdk   float64 // saturated hydraulic conductivity [m/s]
	Satpsi  float64 // saturated soil suction head [m]
	Slope   float64 // land-surface slope [-]
	B       float64 // pore-size distribution exponent
	AlphaFc float64 // field-capacity coefficient

	Klf            float64 // lateral-flow discharge coefficient
	MaxLateralFlow float64 // lateral-flow velocity ceiling [m/s]

	NashN int     // number of Nash cascade stages
	Kc    float64 // Nash cascade discharge coefficient

	Cgw   float64 // groundwater discharge coefficient
	Expon float64 // groundwater discharge exponent

	Cschaake float64 // Schaake partitioning coefficient

	MaxSoilStorage        float64 // [m]
	MaxGroundwaterStorage float64 // [m]
}

// Check validates the construction-time invariants: capacities positive,
// cascade size non-negative.
func (p *Params) Check() error {
	if p.MaxSoilStorage <= 0. {
		return fmt.Errorf("model.Params.Check: max soil storage %g must be positive", p.MaxSoilStorage)
	}
	if p.MaxGroundwaterStorage <= 0. {
		return fmt.Errorf("model.Params.Check: max groundwater storage %g must be positive", p.MaxGroundwaterStorage)
	}
	if p.NashN < 0 {
		return fmt.Errorf("model.Params.Check: negative Nash cascade size %d", p.NashN)
	}
	return nil
}

// FieldCapacityStorage returns Sfc, the storage level at which free drainage
// stops, from the suction head above the water table and the Clapp-Hornberger
// pore-size exponent.
func (p *Params) FieldCapacityStorage() float64 {
	hwt := p.AlphaFc * (atmosphericPressurePa / waterSpecificWeight)
	z1 := hwt - 0.5
	z2 := z1 + 2.
	// z^(1-1/b)/(1-1/b) == b * z^((b-1)/b) / (b-1)
	return p.Maxsmc * math.Pow(1./p.Satpsi, -1./p.B) *
		(p.B*math.Pow(z2, (p.B-1.)/p.B)/(p.B-1.) -
			p.B*math.Pow(z1, (p.B-1.)/p.B)/(p.B-1.))
}

// ReadParams loads a parameter set from a key=value text file.
func ReadParams(fp string) (Params, error) {
	var p Params
	if _, ok := mmio.FileExists(fp); !ok {
		return p, fmt.Errorf("model.ReadParams: file %s does not exist", fp)
	}
	lns, err := mmio.ReadTextLines(fp)
	if err != nil {
		return p, fmt.Errorf("model.ReadParams: %v", err)
	}
	set := map[string]*float64{
		"maxsmc":           &p.Maxsmc,
		"wltsmc":           &p.Wltsmc,
		"satdk":            &p.Satdk,
		"satpsi":           &p.Satpsi,
		"slope":            &p.Slope,
		"b":                &p.B,
		"alpha_fc":         &p.AlphaFc,
		"klf":              &p.Klf,
		"max_lateral_flow": &p.MaxLateralFlow,
		"kn":               &p.Kc,
		"cgw":              &p.Cgw,
		"expon":            &p.Expon,
		"cschaake":         &p.Cschaake,
		"max_soil_storage": &p.MaxSoilStorage,
		"max_gw_storage":   &p.MaxGroundwaterStorage,
	}
	for _, ln := range lns {
		ln = strings.TrimSpace(ln)
		if len(ln) == 0 {
			continue
		}
		k, v, ok := strings.Cut(ln, "=")
		if !ok {
			return p, fmt.Errorf("model.ReadParams: malformed line %q", ln)
		}
		k = strings.TrimSpace(strings.ToLower(k))
		if k == "nash_n" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return p, fmt.Errorf("model.ReadParams: nash_n: %v", err)
			}
			p.NashN = n
			continue
		}
		dst, ok := set[k]
		if !ok {
			return p, fmt.Errorf("model.ReadParams: unrecognized key %q", k)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return p, fmt.Errorf("model.ReadParams: %s: %v", k, err)
		}
		*dst = f
	}
	if err := p.Check(); err != nil {
		return p, err
	}
	return p, nil
}

// SaveGob persists the parameter set.
func (p *Params) SaveGob(fp string) error {
	f, err := os.Create(fp)
	if err != nil {
		return fmt.Errorf(" Params.SaveGob %v", err)
	}
	if err := gob.NewEncoder(f).Encode(p); err != nil {
		return fmt.Errorf(" Params.SaveGob %v", err)
	}
	return f.Close()
}

// LoadGobParams reads a parameter set saved with SaveGob.
func LoadGobParams(fp string) (*Params, error) {
	var p Params
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}
