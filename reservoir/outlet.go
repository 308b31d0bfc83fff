package reservoir

import (
	"fmt"
	"math"
)

// OutletKind selects the discharge law of an outlet. The set of laws is
// closed; dispatch is by tag, not by interface.
type OutletKind int

const (
	// Linear : discharge = coeff * (storage - threshold)^expon
	Linear OutletKind = iota
	// Exponential : discharge = coeff * (exp(expon * storage/storageMax) - 1)
	Exponential
)

// Outlet is a discharge function attached to a reservoir. It is a pure
// function of storage and its fixed coefficients.
type Outlet struct {
	Kind      OutletKind
	Coeff     float64 // discharge coefficient
	Expon     float64 // exponent (1 for simple linear outlets)
	Threshold float64 // activation threshold; no discharge at or below
	MaxVel    float64 // clamp ceiling [m/s]
}

// Velocity returns the outgoing velocity [m/s] for the given storage [m].
// stoMax is the owning reservoir's maximum storage, needed by the
// exponential law. Negative storage is a caller precondition violation.
func (o *Outlet) Velocity(sto, stoMax float64) (float64, error) {
	if sto < 0. {
		return 0., fmt.Errorf("reservoir.Outlet.Velocity: %w: negative storage %g", ErrInvalidState, sto)
	}
	if sto <= o.Threshold {
		return 0., nil
	}
	var v float64
	switch o.Kind {
	case Exponential:
		v = o.Coeff * (math.Exp(o.Expon*sto/stoMax) - 1.)
	default:
		v = o.Coeff * math.Pow(sto-o.Threshold, o.Expon)
	}
	if v < 0. {
		v = 0.
	} else if v > o.MaxVel {
		v = o.MaxVel
	}
	return v, nil
}
