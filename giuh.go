package ngen

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadGiuhOrdinates reads a JSON file mapping catchment id to GIUH CDF
// ordinates and returns the ordinates for the given catchment.
func LoadGiuhOrdinates(fp, catchmentID string) ([]float64, error) {
	b, err := os.ReadFile(fp)
	if err != nil {
		return nil, fmt.Errorf("ngen.LoadGiuhOrdinates: %v", err)
	}
	var m map[string][]float64
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("ngen.LoadGiuhOrdinates: %v", err)
	}
	ord, ok := m[catchmentID]
	if !ok {
		return nil, fmt.Errorf("ngen.LoadGiuhOrdinates: no ordinates for catchment %q", catchmentID)
	}
	return ord, nil
}

// giuhKernel differences CDF ordinates into per-interval fractions,
// normalized to sum to one so routing conserves runoff volume.
func giuhKernel(cdf []float64) ([]float64, error) {
	if len(cdf) == 0 {
		return nil, nil
	}
	k := make([]float64, len(cdf))
	last, sum := 0., 0.
	for i, v := range cdf {
		if v < last {
			return nil, fmt.Errorf("ngen.giuhKernel: ordinates not non-decreasing at %d", i)
		}
		k[i] = v - last
		sum += k[i]
		last = v
	}
	if sum <= 0. {
		return nil, fmt.Errorf("ngen.giuhKernel: degenerate ordinates")
	}
	for i := range k {
		k[i] /= sum
	}
	return k, nil
}
