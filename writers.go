package ngen

import (
	"github.com/maseology/mmio"
	"github.com/rlmcdaniel/ngen/forcing"
)

// WriteHydrograph writes the simulated (and optionally observed) series to a
// date-indexed CSV.
func WriteHydrograph(fp string, frc *forcing.Forcing, sim, obs []float64) {
	if obs != nil {
		mmio.WriteCsvDateFloats(fp, "date,obs,sim", frc.T, obs, sim)
		return
	}
	mmio.WriteCsvDateFloats(fp, "date,sim", frc.T, sim)
}
