package model

import "math"

// EtParams carries the climate and capacity inputs of the
// probability-distributed moisture-capacity evapotranspiration model. The
// kernel treats these as opaque forcing: only the loss contract matters.
type EtParams struct {
	B                   float64 // shape of the Pareto capacity distribution
	Kv                  float64 // vegetation adjustment factor
	MaxStorageHeight    float64 // Huz: maximum point storage height [m]
	MaxCombinedContents float64 // Cpar: maximum areally-averaged contents [m]
	PotentialEt         float64 // demand for this timestep [m]
}

// EtLoss returns the depth [m] evaporated from the given storage height this
// timestep. The distributed-capacity formulation converts the point height to
// areal contents, withdraws moisture-limited ET, and converts back; the loss
// never exceeds the available storage.
func EtLoss(storage float64, p *EtParams) float64 {
	if p == nil || storage <= 0. || p.PotentialEt <= 0. {
		return 0.
	}
	if p.MaxStorageHeight <= 0. || p.MaxCombinedContents <= 0. {
		return 0.
	}
	h := storage
	if h > p.MaxStorageHeight {
		h = p.MaxStorageHeight
	}
	b1 := p.B + 1.
	cbeg := p.MaxCombinedContents * (1. - math.Pow(1.-h/p.MaxStorageHeight, b1))
	et := p.Kv * p.PotentialEt * h / p.MaxStorageHeight
	if et > cbeg {
		et = cbeg
	}
	cend := cbeg - et
	hend := p.MaxStorageHeight * (1. - math.Pow(1.-cend/p.MaxCombinedContents, 1./b1))
	loss := h - hend
	if loss < 0. {
		return 0.
	}
	if loss > storage {
		loss = storage
	}
	return loss
}
