package ngen

import (
	"errors"
	"fmt"

	"github.com/gosuri/uiprogress"
	"github.com/maseology/objfunc"
	"github.com/rlmcdaniel/ngen/forcing"
	"github.com/rlmcdaniel/ngen/model"
)

// Evaluator drives one realization over a forcing record.
type Evaluator struct {
	Rlz *Realization
	Frc *forcing.Forcing
	Et  model.EtParams // capacity/shape terms; per-step demand comes from Frc.Ep
}

// EvaluateSerial runs the full record, returning the outflow hydrograph
// [m/s per unit area] and the number of steps whose mass-balance audit
// failed. Audit failures are counted, not fatal; any other kernel error
// aborts.
func (ev *Evaluator) EvaluateSerial(print bool) (hyd []float64, nMassErr int, err error) {
	nt := ev.Frc.Nsteps()
	dt := ev.Frc.IntervalSec
	hyd = make([]float64, nt)

	var bar *uiprogress.Bar
	if print {
		uiprogress.Start()
		bar = uiprogress.AddBar(nt).AppendCompleted().PrependElapsed()
	}
	for j := 0; j < nt; j++ {
		et := ev.Et
		et.PotentialEt = ev.Frc.Ep[j]
		fx, stepErr := ev.Rlz.Step(dt, ev.Frc.Input[j], &et)
		if stepErr != nil {
			if _, ok := AsMassBalance(stepErr); !ok {
				return nil, nMassErr, fmt.Errorf("ngen.EvaluateSerial: step %d: %w", j, stepErr)
			}
			nMassErr++
		}
		hyd[j] = fx.SurfaceRunoff + fx.SoilLateralFlow + fx.GroundwaterFlow
		if bar != nil {
			bar.Incr()
		}
	}
	if print {
		uiprogress.Stop()
	}
	return hyd, nMassErr, nil
}

// AsMassBalance reports whether err is (or wraps) a mass-balance audit
// failure.
func AsMassBalance(err error) (*model.MassBalanceError, bool) {
	var mbe *model.MassBalanceError
	if errors.As(err, &mbe) {
		return mbe, true
	}
	return nil, false
}

// Score summarizes hydrograph skill against observations.
type Score struct {
	KGE, NSE, RMSE, Bias float64
}

// Skill scores a simulated series against an observed one.
func Skill(obs, sim []float64) Score {
	return Score{
		KGE:  objfunc.KGE(obs, sim),
		NSE:  objfunc.NSE(obs, sim),
		RMSE: objfunc.RMSE(obs, sim),
		Bias: objfunc.Bias(obs, sim),
	}
}

func (s Score) String() string {
	return fmt.Sprintf("KGE: %.3f  NSE: %.3f  RMSE: %.3e  Bias: %.3f", s.KGE, s.NSE, s.RMSE, s.Bias)
}
