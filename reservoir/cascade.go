package reservoir

import "fmt"

// Cascade is an ordered chain of single-outlet linear reservoirs (a Nash
// cascade): each stage's outflow becomes the next stage's inflow, producing a
// delayed, attenuated routing of the input signal.
type Cascade struct {
	stages []*Res
}

// NewCascade builds an n-stage cascade of identical single-outlet reservoirs
// with discharge coefficient k, bounds [0, maxSto] and outflow ceiling
// maxVel. sto supplies initial per-stage storages; nil means all-zero, any
// other length mismatch is a configuration error.
func NewCascade(n int, k, maxSto, maxVel float64, sto []float64) (*Cascade, error) {
	if n < 0 {
		return nil, fmt.Errorf("reservoir.NewCascade: negative cascade size %d", n)
	}
	if sto == nil {
		sto = make([]float64, n)
	} else if len(sto) != n {
		return nil, fmt.Errorf("reservoir.NewCascade: cascade size %d does not match storage vector length %d", n, len(sto))
	}
	c := Cascade{stages: make([]*Res, n)}
	for i := 0; i < n; i++ {
		res, err := New(0., maxSto, sto[i], []Outlet{{Kind: Linear, Coeff: k, Expon: 1., MaxVel: maxVel}})
		if err != nil {
			return nil, fmt.Errorf("reservoir.NewCascade: stage %d: %w", i, err)
		}
		c.stages[i] = res
	}
	return &c, nil
}

// Size returns the number of stages.
func (c *Cascade) Size() int { return len(c.stages) }

// Route pushes inflow [m/s] through the chain over dt [s], returning the
// velocity leaving the last stage and the resulting per-stage storages.
// Stage excess is folded back into the downstream inflow so a saturated
// stage cannot silently discard mass.
func (c *Cascade) Route(inflow, dt float64) (float64, []float64, error) {
	q := inflow
	sto := make([]float64, len(c.stages))
	for i, s := range c.stages {
		vel, excess, err := s.Response(q, dt)
		if err != nil {
			return 0., nil, fmt.Errorf("reservoir.Cascade.Route: stage %d: %w", i, err)
		}
		q = vel[0] + excess/dt
		sto[i] = s.Storage()
	}
	return q, sto, nil
}
