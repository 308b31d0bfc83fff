package model

import (
	"errors"
	"fmt"
	"math"
)

// DefaultMassBalanceTolerance is the acceptable absolute difference [m]
// between mass entering and leaving the system over one timestep.
const DefaultMassBalanceTolerance = 1e-6

// ErrMassBalance flags a timestep whose numerics diverged from the
// conservation tolerance. It is a status value, not a fatal condition: the
// step's state remains committed and the caller decides policy.
var ErrMassBalance = errors.New("mass balance error")

// MassBalanceError reports the audit quantities of a failed check.
type MassBalanceError struct {
	MassIn, MassOut, Bound float64
}

func (e *MassBalanceError) Error() string {
	return fmt.Sprintf("mass balance error: in %g m, out %g m, |diff| %g > %g",
		e.MassIn, e.MassOut, math.Abs(e.MassIn-e.MassOut), e.Bound)
}

func (e *MassBalanceError) Unwrap() error { return ErrMassBalance }

// CheckMassBalance audits one timestep: previous storages plus input against
// current storages plus the fluxes leaving the system (percolation is
// internal and excluded). It never mutates state; it only signals.
func CheckMassBalance(prev, cur *State, fx *Fluxes, inputFlux, dt, bound float64) error {
	massIn := prev.totalStorage() + inputFlux
	massOut := cur.totalStorage() + fx.EtLoss +
		(fx.SurfaceRunoff+fx.SoilLateralFlow+fx.GroundwaterFlow)*dt
	if math.Abs(massIn-massOut) > bound {
		return &MassBalanceError{MassIn: massIn, MassOut: massOut, Bound: bound}
	}
	return nil
}
