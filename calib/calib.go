// Package calib calibrates kernel parameters against an observed
// hydrograph, using shuffled complex evolution over a unit hypercube.
package calib

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/maseology/glbopt"
	"github.com/maseology/mmaths"
	"github.com/maseology/montecarlo/smpln"
	mrg63k3a "github.com/maseology/pnrg/MRG63k3a"

	"github.com/rlmcdaniel/ngen"
	"github.com/rlmcdaniel/ngen/forcing"
	"github.com/rlmcdaniel/ngen/model"
)

// NDim is the number of sampled dimensions.
const NDim = 7

// Problem holds everything needed to score one parameter set.
type Problem struct {
	Base    model.Params // fixed (soil-texture) terms; sampled terms get overwritten
	Et      model.EtParams
	Frc     *forcing.Forcing
	Obs     []float64
	GiuhCDF []float64
	SoilFrac, GwFrac float64 // initial storages as fraction of capacity
}

// par7 maps a unit-hypercube sample to the calibrated subset.
func par7(u []float64) (cgw, expon, klf, kn, cschaake, satdk, gwMax float64) {
	cgw = mmaths.LogLinearTransform(1e-5, .1, u[0])
	expon = mmaths.LinearTransform(1., 8., u[1])
	klf = mmaths.LogLinearTransform(1e-5, .1, u[2])
	kn = mmaths.LinearTransform(.01, .3, u[3])
	cschaake = mmaths.LinearTransform(.5, 5., u[4])
	satdk = mmaths.LogLinearTransform(1e-8, 1e-4, u[5])
	gwMax = mmaths.LinearTransform(.1, 5., u[6])
	return
}

// Apply returns a copy of the base parameter set with the sampled
// dimensions substituted.
func (p *Problem) Apply(u []float64) model.Params {
	par := p.Base
	par.Cgw, par.Expon, par.Klf, par.Kc, par.Cschaake, par.Satdk, par.MaxGroundwaterStorage = par7(u)
	return par
}

// objective scores one sample as 1-KGE (0 is a perfect fit). Samples that
// fail to build or run are penalized rather than aborting the search.
func (p *Problem) objective(u []float64) float64 {
	par := p.Apply(u)
	rlz, err := ngen.NewRealization("calib", par, p.SoilFrac, p.GwFrac, true, nil, p.GiuhCDF)
	if err != nil {
		return 9999.
	}
	ev := ngen.Evaluator{Rlz: rlz, Frc: p.Frc, Et: p.Et}
	hyd, _, err := ev.EvaluateSerial(false)
	if err != nil {
		return 9999.
	}
	return 1. - ngen.Skill(p.Obs, hyd).KGE
}

// OptimizeSCE runs shuffled complex evolution and returns the best
// parameter set and its 1-KGE objective value.
func (p *Problem) OptimizeSCE(ncomplexes int) (model.Params, float64, error) {
	if len(p.Obs) != p.Frc.Nsteps() {
		return model.Params{}, 0., fmt.Errorf("calib.OptimizeSCE: %d observations for %d forcing steps", len(p.Obs), p.Frc.Nsteps())
	}
	rng := rand.New(mrg63k3a.New())
	rng.Seed(time.Now().UnixNano())

	uFinal, of := glbopt.SCE(ncomplexes, NDim, rng, p.objective, true)
	return p.Apply(uFinal), of, nil
}

// SampleLHC scores a Latin hypercube of nsmpl parameter sets, returning
// each sample's parameters and objective value.
func (p *Problem) SampleLHC(nsmpl int) ([]model.Params, []float64, error) {
	if len(p.Obs) != p.Frc.Nsteps() {
		return nil, nil, fmt.Errorf("calib.SampleLHC: %d observations for %d forcing steps", len(p.Obs), p.Frc.Nsteps())
	}
	rng := rand.New(mrg63k3a.New())
	rng.Seed(time.Now().UnixNano())

	sp := smpln.NewLHC(rng, nsmpl, NDim, false)
	pars := make([]model.Params, nsmpl)
	ofs := make([]float64, nsmpl)
	for k := 0; k < nsmpl; k++ {
		ut := make([]float64, NDim)
		for j := 0; j < NDim; j++ {
			ut[j] = sp.U[j][k]
		}
		pars[k] = p.Apply(ut)
		ofs[k] = p.objective(ut)
	}
	return pars, ofs, nil
}
