package model

import "testing"

func etp(pe float64) *EtParams {
	return &EtParams{B: 1.3, Kv: 0.99, MaxStorageHeight: 0.4, MaxCombinedContents: 0.4, PotentialEt: pe}
}

func TestEtLossBounded(t *testing.T) {
	for _, sto := range []float64{0., 0.001, 0.1, 0.4, 0.9} {
		for _, pe := range []float64{0., 1e-4, 0.01, 10.} {
			loss := EtLoss(sto, etp(pe))
			if loss < 0. {
				t.Fatalf("negative loss %g for sto %g pe %g", loss, sto, pe)
			}
			if loss > sto {
				t.Fatalf("loss %g exceeds storage %g (pe %g)", loss, sto, pe)
			}
		}
	}
}

func TestEtLossZeroDemand(t *testing.T) {
	if l := EtLoss(0.2, etp(0.)); l != 0. {
		t.Errorf("loss %g with zero demand", l)
	}
	if l := EtLoss(0.2, nil); l != 0. {
		t.Errorf("loss %g with nil params", l)
	}
}

func TestEtLossMonotoneInDemand(t *testing.T) {
	last := -1.
	for _, pe := range []float64{0., 1e-5, 1e-4, 1e-3, 1e-2} {
		l := EtLoss(0.2, etp(pe))
		if l < last {
			t.Fatalf("loss decreased with demand: %g < %g at pe %g", l, last, pe)
		}
		last = l
	}
}
