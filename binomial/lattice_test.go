package binomial

import (
	"errors"
	"math"
	"testing"

	"github.com/charlerive/optionkit/blackscholes"
	"github.com/charlerive/optionkit/option"
)

func TestLattice_PutCallParity(t *testing.T) {
	tests := []struct {
		n                 int
		r, S, sigma, k, t float64
	}{
		{10, 0, 100, .2, 100, .25},
		{10, 0, 100, .1, 90, .25},
		{10, 0, 110, .1, 100, .25},
		{100, 0.05, 100, .3, 110, 1},
	}
	for _, tt := range tests {
		c := Value(tt.n, tt.r, tt.S, tt.sigma, option.Call, tt.k, tt.t, false)
		p := Value(tt.n, tt.r, tt.S, tt.sigma, option.Put, tt.k, tt.t, false)
		if err := (c - p) - (tt.S - tt.k*math.Exp(-tt.r*tt.t)); math.Abs(err) > 1e-10 {
			t.Errorf("parity %+v: err=%v", tt, err)
		}
		dc := Value(tt.n, tt.r, tt.S, tt.sigma, option.DigitalCall, tt.k, tt.t, false)
		dp := Value(tt.n, tt.r, tt.S, tt.sigma, option.DigitalPut, tt.k, tt.t, false)
		if err := dc + dp - math.Exp(-tt.r*tt.t); math.Abs(err) > 1e-12 {
			t.Errorf("digital parity %+v: err=%v", tt, err)
		}
	}
}

func TestLattice_American(t *testing.T) {
	for _, r := range []float64{0, 0.05} {
		for _, k := range []float64{90, 100, 110} {
			p := Value(100, r, 100, .2, option.Put, k, 1, false)
			ap := Value(100, r, 100, .2, option.Put, k, 1, true)
			if ap < p {
				t.Errorf("american put %v < european %v (r=%v k=%v)", ap, p, r, k)
			}
			c := Value(100, r, 100, .2, option.Call, k, 1, false)
			ac := Value(100, r, 100, .2, option.Call, k, 1, true)
			if math.Abs(ac-c) > 1e-12 {
				t.Errorf("american call %v != european %v (r=%v k=%v)", ac, c, r, k)
			}
		}
	}

	l, err := New(100, 0.05, 100, .2, option.Put, 100, 1, true)
	if err != nil {
		t.Fatal(err)
	}
	if !l.American() || l.Steps() != 100 {
		t.Fatalf("lattice fields")
	}
	if l.Price() <= Value(100, 0.05, 100, .2, option.Put, 100, 1, false) {
		t.Errorf("early exercise premium should be positive with r > 0")
	}
	// deep in the money nodes near expiration exercise early
	if !l.Exercised(99, 99) || l.Exercised(0, 99) {
		t.Errorf("exercise region")
	}
	if l.Value(99, 99) != 100-l.Spot(99, 99) {
		t.Errorf("exercised node should hold intrinsic value")
	}
}

func TestLattice_Convergence(t *testing.T) {
	// at the money on unit spot
	bs := blackscholes.Value(nil, 0, 1, .2, option.Call, 1, 1)
	if err := Value(50, 0, 1, .2, option.Call, 1, 1, false) - bs; math.Abs(err) > 1e-3 {
		t.Errorf("n=50: err=%v", err)
	}

	for _, c := range []option.Contract{option.Put, option.Call} {
		bs := blackscholes.Value(nil, 0.05, 100, .2, c, 100, 1)
		e50 := math.Abs(Value(50, 0.05, 100, .2, c, 100, 1, false) - bs)
		e250 := math.Abs(Value(250, 0.05, 100, .2, c, 100, 1, false) - bs)
		if e50 > 0.05 || e250 > 0.005 || e250 >= e50 {
			t.Errorf("%v: err(50)=%v err(250)=%v", c, e50, e250)
		}
	}
}

func TestLattice_Node(t *testing.T) {
	l, err := New(4, 0, 100, .2, option.Call, 100, 1, false)
	if err != nil {
		t.Fatal(err)
	}
	// interior nodes are the average of their successors
	for j := 0; j < 4; j++ {
		for i := 0; i <= j; i++ {
			if want := (l.Value(i, j+1) + l.Value(i+1, j+1)) / 2; math.Abs(l.Value(i, j)-want) > 1e-14 {
				t.Errorf("node (%d, %d)", i, j)
			}
		}
	}
	if l.Spot(0, 0) != 100 || math.Abs(l.Forward(0, 1)+l.Forward(1, 1)-200) > 1e-12 {
		t.Errorf("forward is not a martingale")
	}
	if l.Value(0, 0) != l.Price() {
		t.Errorf("root value")
	}
	for _, ij := range [][2]int{{-1, 2}, {3, 2}, {0, 5}, {0, -1}} {
		if !math.IsNaN(l.Value(ij[0], ij[1])) || l.Exercised(ij[0], ij[1]) {
			t.Errorf("node %v is not on the lattice", ij)
		}
	}
}

func TestLattice_Invalid(t *testing.T) {
	if _, err := New(0, 0, 100, .2, option.Call, 100, 1, false); !errors.Is(err, ErrSteps) {
		t.Errorf("steps: %v", err)
	}
	for _, p := range [][4]float64{{0, .2, 100, 1}, {100, 0, 100, 1}, {100, .2, -100, 1}, {100, .2, 100, 0}} {
		if _, err := New(10, 0, p[0], p[1], option.Call, p[2], p[3], false); !errors.Is(err, ErrDomain) {
			t.Errorf("%v: %v", p, err)
		}
		if !math.IsNaN(Value(10, 0, p[0], p[1], option.Call, p[2], p[3], false)) {
			t.Errorf("%v: want NaN", p)
		}
	}
	if _, err := New(10, 0, 100, .2, option.Contract(9), 100, 1, false); !errors.Is(err, option.ErrUnknownContract) {
		t.Errorf("contract: %v", err)
	}
}

func BenchmarkLattice(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = Value(500, 0.05, 100, .2, option.Put, 100, 1, true)
	}
}
