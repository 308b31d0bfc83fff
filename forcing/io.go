package forcing

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/maseology/goHydro/pet"
	"github.com/maseology/mmio"
)

const dateFormat = "2006-01-02 15:04:05"

// LoadCSV reads a forcing record. Three columns (date, input, pet) are taken
// as-is; four columns (date, input, tC, kglobal) derive potential ET from
// air temperature [°C] and global radiation [W/m²] with the Makkink
// formulation. Depths are meters per interval.
func LoadCSV(fp string, intervalSec float64) (*Forcing, error) {
	if _, ok := mmio.FileExists(fp); !ok {
		return nil, fmt.Errorf("forcing.LoadCSV: file %s does not exist", fp)
	}
	if intervalSec <= 0. {
		return nil, fmt.Errorf("forcing.LoadCSV: non-positive interval %g", intervalSec)
	}
	f, err := os.Open(fp)
	if err != nil {
		return nil, fmt.Errorf("forcing.LoadCSV: %v", err)
	}
	defer f.Close()

	frc := Forcing{IntervalSec: intervalSec}
	for rec := range mmio.LoadCSV(io.Reader(f)) {
		var dt time.Time
		if dt, err = time.Parse(dateFormat, rec[0]); err != nil {
			if dt, err = time.Parse("2006-01-02", rec[0]); err != nil {
				return nil, fmt.Errorf("forcing.LoadCSV: %v", err)
			}
		}
		in, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("forcing.LoadCSV: %v", err)
		}
		var ep float64
		switch len(rec) {
		case 3:
			if ep, err = strconv.ParseFloat(rec[2], 64); err != nil {
				return nil, fmt.Errorf("forcing.LoadCSV: %v", err)
			}
		case 4:
			tc, err := strconv.ParseFloat(rec[2], 64)
			if err != nil {
				return nil, fmt.Errorf("forcing.LoadCSV: %v", err)
			}
			kg, err := strconv.ParseFloat(rec[3], 64)
			if err != nil {
				return nil, fmt.Errorf("forcing.LoadCSV: %v", err)
			}
			ep = pet.Makkink(kg, tc, 101300.) * intervalSec // [m/s] to depth per interval
		default:
			return nil, fmt.Errorf("forcing.LoadCSV: record has %d fields, want 3 or 4", len(rec))
		}
		frc.T = append(frc.T, dt)
		frc.Input = append(frc.Input, in)
		frc.Ep = append(frc.Ep, ep)
	}
	if len(frc.T) == 0 {
		return nil, fmt.Errorf("forcing.LoadCSV: no records in %s", fp)
	}
	return &frc, nil
}

// LoadObs reads an observed hydrograph CSV (date, value) aligned to the
// given forcing record; observations outside the record window are dropped
// and each daily value is repeated over the record's sub-daily steps.
func LoadObs(fp string, frc *Forcing) ([]float64, error) {
	if _, ok := mmio.FileExists(fp); !ok {
		return nil, fmt.Errorf("forcing.LoadObs: file %s does not exist", fp)
	}
	f, err := os.Open(fp)
	if err != nil {
		return nil, fmt.Errorf("forcing.LoadObs: %v", err)
	}
	defer f.Close()

	pday := 1
	if frc.IntervalSec < 86400. {
		pday = int(86400. / frc.IntervalSec)
	}
	day := func(dt time.Time) time.Time {
		return time.Date(dt.Year(), dt.Month(), dt.Day(), 0, 0, 0, 0, dt.Location())
	}
	dtb, dte := day(frc.T[0]), day(frc.T[len(frc.T)-1])

	vs, ii := make([]float64, len(frc.T)), 0
	for rec := range mmio.LoadCSV(io.Reader(f)) {
		dt, err := time.Parse("2006-01-02", rec[0])
		if err != nil {
			return nil, fmt.Errorf("forcing.LoadObs: %v", err)
		}
		if dt.Before(dtb) || dt.After(dte) {
			continue
		}
		v, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("forcing.LoadObs: %v", err)
		}
		for i := 0; i < pday && ii < len(vs); i++ {
			vs[ii] = v
			ii++
		}
	}
	return vs, nil
}
