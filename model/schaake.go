package model

import "math"

// SchaakePartition splits a timestep's water input [m] into direct surface
// runoff and infiltration [m], both non-negative and summing exactly to the
// input. The infiltrating fraction shrinks with the soil moisture deficit;
// an exhausted deficit sends everything to runoff (saturation excess).
func SchaakePartition(dt, coeff, deficit, input float64) (runoff, infiltration float64) {
	if input <= 0. {
		return 0., 0.
	}
	if deficit <= 0. {
		return input, 0.
	}
	td := dt / 86400. // coefficient is calibrated against daily steps
	ic := deficit * (1. - math.Exp(-coeff*td))
	runoff = input * input / (input + ic)
	infiltration = input - runoff
	if infiltration > deficit {
		runoff += infiltration - deficit
		infiltration = deficit
	}
	return
}
