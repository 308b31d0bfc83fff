package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/maseology/mmio"

	"github.com/rlmcdaniel/ngen"
	"github.com/rlmcdaniel/ngen/calib"
	"github.com/rlmcdaniel/ngen/forcing"
	"github.com/rlmcdaniel/ngen/model"
	"github.com/rlmcdaniel/ngen/results"
)

func main() {
	var (
		parFP     = flag.String("params", "", "parameter file (key=value)")
		frcFP     = flag.String("forcing", "", "forcing CSV (date,input,pet or date,input,tC,kglobal)")
		giuhFP    = flag.String("giuh", "", "optional GIUH ordinates JSON")
		obsFP     = flag.String("obs", "", "optional daily observations CSV (date,flow)")
		outFP     = flag.String("o", "hydrograph.csv", "output hydrograph CSV")
		dbFP      = flag.String("db", "", "optional results database")
		catchment = flag.String("catchment", "cat-0", "catchment id")
		interval  = flag.Float64("dt", 3600., "forcing interval [s]")
		calibrate = flag.Bool("calibrate", false, "calibrate against observations before the final run")
		ncplx     = flag.Int("nc", 32, "SCE complexes")
	)
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if *parFP == "" || *frcFP == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(*parFP, *frcFP, *giuhFP, *obsFP, *outFP, *dbFP, *catchment, *interval, *calibrate, *ncplx); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

func run(parFP, frcFP, giuhFP, obsFP, outFP, dbFP, catchment string, interval float64, calibrate bool, ncplx int) error {
	tt := mmio.NewTimer()

	par, err := model.ReadParams(parFP)
	if err != nil {
		return err
	}
	frc, err := forcing.LoadCSV(frcFP, interval)
	if err != nil {
		return err
	}
	slog.Info("forcing loaded", "steps", frc.Nsteps(), "interval_s", frc.IntervalSec)

	var giuhCDF []float64
	if giuhFP != "" {
		if giuhCDF, err = ngen.LoadGiuhOrdinates(giuhFP, catchment); err != nil {
			return err
		}
	}
	var obs []float64
	if obsFP != "" {
		if obs, err = forcing.LoadObs(obsFP, frc); err != nil {
			return err
		}
	}

	et := model.EtParams{
		B:                   par.B,
		Kv:                  1.,
		MaxStorageHeight:    par.MaxSoilStorage,
		MaxCombinedContents: par.MaxSoilStorage,
	}

	if calibrate {
		if obs == nil {
			return fmt.Errorf("calibration requires -obs")
		}
		prob := calib.Problem{
			Base: par, Et: et, Frc: frc, Obs: obs, GiuhCDF: giuhCDF,
			SoilFrac: 0.667, GwFrac: 0.5,
		}
		slog.Info("calibrating", "dims", calib.NDim, "complexes", ncplx)
		best, of, err := prob.OptimizeSCE(ncplx)
		if err != nil {
			return err
		}
		slog.Info("calibration complete", "objective", of, "cgw", best.Cgw, "satdk", best.Satdk)
		par = best
		tt.Lap("calibration complete")
	}

	rlz, err := ngen.NewRealization(catchment, par, 0.667, 0.5, true, nil, giuhCDF)
	if err != nil {
		return err
	}
	ev := ngen.Evaluator{Rlz: rlz, Frc: frc, Et: et}
	hyd, nMassErr, err := ev.EvaluateSerial(true)
	if err != nil {
		return err
	}
	if nMassErr > 0 {
		slog.Warn("mass-balance audit failures", "steps", nMassErr)
	}

	ngen.WriteHydrograph(outFP, frc, hyd, obs)
	slog.Info("hydrograph written", "file", outFP)
	if obs != nil {
		fmt.Println(ngen.Skill(obs, hyd))
	}

	if dbFP != "" {
		store, err := results.Open(dbFP)
		if err != nil {
			return err
		}
		defer store.Close()
		recs := make([]results.StepRecord, 0, frc.Nsteps())
		// re-run to capture per-step state; EvaluateSerial keeps only the hydrograph
		rlz2, err := ngen.NewRealization(catchment, par, 0.667, 0.5, true, nil, giuhCDF)
		if err != nil {
			return err
		}
		for j := 0; j < frc.Nsteps(); j++ {
			etj := et
			etj.PotentialEt = frc.Ep[j]
			fx, stepErr := rlz2.Step(frc.IntervalSec, frc.Input[j], &etj)
			if stepErr != nil {
				if _, ok := ngen.AsMassBalance(stepErr); !ok {
					return stepErr
				}
			}
			recs = append(recs, results.Record(j, frc.T[j], frc.Input[j], fx, rlz2.Model().CurrentState()))
		}
		runID, err := store.SaveRun(catchment, nMassErr, recs)
		if err != nil {
			return err
		}
		slog.Info("results persisted", "db", dbFP, "run_id", runID)
	}

	tt.Lap("simulation complete")
	return nil
}
