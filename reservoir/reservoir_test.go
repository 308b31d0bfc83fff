package reservoir

import (
	"math"
	"testing"
)

// single linear outlet, unit inflow over one step: storage ends at
// inflow*dt - coeff*(storage after inflow)*dt = 1 - 0.1 = 0.9
func TestResponseScenario(t *testing.T) {
	r, err := New(0., 1., 0., []Outlet{{Kind: Linear, Coeff: 0.1, Expon: 1., MaxVel: math.Inf(1)}})
	if err != nil {
		t.Fatal(err)
	}
	vel, excess, err := r.Response(1., 1.)
	if err != nil {
		t.Fatal(err)
	}
	if excess != 0. {
		t.Errorf("excess = %g, want 0", excess)
	}
	if math.Abs(vel[0]-0.1) > 1e-12 {
		t.Errorf("velocity = %g, want 0.1", vel[0])
	}
	if math.Abs(r.Storage()-0.9) > 1e-12 {
		t.Errorf("storage = %g, want 0.9", r.Storage())
	}
}

func TestResponseBounds(t *testing.T) {
	r, err := New(0., 0.5, 0.25, []Outlet{
		{Kind: Linear, Coeff: 0.2, Expon: 1., MaxVel: math.Inf(1)},
		{Kind: Linear, Coeff: 0.05, Expon: 1., MaxVel: math.Inf(1)},
	})
	if err != nil {
		t.Fatal(err)
	}
	inflows := []float64{0., 1., 0.003, 2.5, 0., 0., 0.8, 0.0001, 5., 0.}
	for i, q := range inflows {
		if _, _, err := r.Response(q, 1.); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if s := r.Storage(); s < 0. || s > 0.5 {
			t.Fatalf("step %d: storage %g out of [0, 0.5]", i, s)
		}
	}
}

func TestResponseExcess(t *testing.T) {
	r, err := New(0., 1., 0.9, []Outlet{{Kind: Linear, Coeff: 0.01, Expon: 1., MaxVel: math.Inf(1)}})
	if err != nil {
		t.Fatal(err)
	}
	vel, excess, err := r.Response(2., 1.) // 0.9 + 2.0 - v, far above max
	if err != nil {
		t.Fatal(err)
	}
	wantV := 0.01 * 2.9
	if math.Abs(vel[0]-wantV) > 1e-12 {
		t.Errorf("velocity = %g, want %g", vel[0], wantV)
	}
	wantX := 0.9 + 2.0 - wantV - 1.0
	if math.Abs(excess-wantX) > 1e-12 {
		t.Errorf("excess = %g, want %g", excess, wantX)
	}
	if r.Storage() != 1. {
		t.Errorf("storage = %g, want clamp to max", r.Storage())
	}
}

// when draw-down would undershoot minSto the outlet's effective velocity is
// reduced so mass still balances
func TestResponseMinClamp(t *testing.T) {
	r, err := New(0., 1., 0.05, []Outlet{{Kind: Linear, Coeff: 2., Expon: 1., MaxVel: math.Inf(1)}})
	if err != nil {
		t.Fatal(err)
	}
	vel, _, err := r.Response(0., 1.)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(vel[0]-0.05) > 1e-12 {
		t.Errorf("effective velocity = %g, want capped at 0.05", vel[0])
	}
	if r.Storage() != 0. {
		t.Errorf("storage = %g, want 0", r.Storage())
	}
}

// both outlets see the same post-inflow snapshot
func TestResponseSnapshotEvaluation(t *testing.T) {
	r, err := New(0., 10., 1., []Outlet{
		{Kind: Linear, Coeff: 0.1, Expon: 1., MaxVel: math.Inf(1)},
		{Kind: Linear, Coeff: 0.1, Expon: 1., MaxVel: math.Inf(1)},
	})
	if err != nil {
		t.Fatal(err)
	}
	vel, _, err := r.Response(1., 1.)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(vel[0]-vel[1]) > 1e-12 {
		t.Errorf("identical outlets diverged: %g vs %g", vel[0], vel[1])
	}
	if math.Abs(vel[0]-0.2) > 1e-12 {
		t.Errorf("velocity = %g, want 0.2 from snapshot storage 2.0", vel[0])
	}
}

func TestNewRejectsBadBounds(t *testing.T) {
	if _, err := New(0., 0., 0., []Outlet{{}}); err == nil {
		t.Error("expected error for zero max storage")
	}
	if _, err := New(1., 0.5, 0., []Outlet{{}}); err == nil {
		t.Error("expected error for min > max")
	}
	if _, err := New(0., 1., 0., nil); err == nil {
		t.Error("expected error for no outlets")
	}
}
