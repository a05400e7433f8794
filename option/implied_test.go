package option

import (
	"errors"
	"math"
	"testing"

	"github.com/charlerive/optionkit/variate"
	"gonum.org/v1/gonum/optimize"
)

func TestImplied_RoundTrip(t *testing.T) {
	f := 100.0
	for _, k := range []float64{90, 95, 100, 105, 110} {
		for _, sigma := range []float64{0.2, 0.4} {
			for _, tt := range []float64{0.25, 1} {
				s := sigma * math.Sqrt(tt)
				for _, k := range []float64{k, -k} {
					price := Value(N, f, s, k)
					got := Implied(N, f, price, k)
					if !almostEqual(got, s, 1e-7) {
						t.Errorf("implied k=%v s=%v: got=%v", k, s, got)
					}
				}
			}
		}
	}
}

func TestImplied_Triangular(t *testing.T) {
	tri, err := variate.NewTriangular(-1.5, 0, 1.5)
	if err != nil {
		t.Fatal(err)
	}
	f, s := 100.0, 0.2
	for _, k := range []float64{95, 100, 105, -95, -100, -105} {
		sol, err := Solver{Law: tri}.Solve(f, Value(tri, f, s, k), k)
		if err != nil {
			t.Fatalf("k=%v: %v", k, err)
		}
		if !almostEqual(sol.Vol, s, 1e-7) {
			t.Errorf("triangular implied k=%v: got=%v", k, sol.Vol)
		}
	}
}

func TestImplied_Errors(t *testing.T) {
	cases := []struct {
		name     string
		f, p, k  float64
		expected error
	}{
		{"zero forward", 0, 1, 100, ErrDomain},
		{"zero strike", 100, 1, 0, ErrDomain},
		{"nan strike", 100, 1, math.NaN(), ErrDomain},
		{"nan value", 100, math.NaN(), 100, ErrDomain},
		{"call above forward", 100, 100, 100, ErrArbitrage},
		{"call below intrinsic", 100, 9, 90, ErrArbitrage},
		{"put above strike", 100, 100, -100, ErrArbitrage},
		{"put below intrinsic", 100, 9, -110, ErrArbitrage},
		{"negative value", 100, -1, -100, ErrArbitrage},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sol, err := Solver{}.Solve(c.f, c.p, c.k)
			if !errors.Is(err, c.expected) {
				t.Fatalf("got err=%v want %v", err, c.expected)
			}
			if !math.IsNaN(sol.Vol) {
				t.Fatalf("vol should be NaN, got %v", sol.Vol)
			}
			if !math.IsNaN(Implied(N, c.f, c.p, c.k)) {
				t.Fatalf("Implied should be NaN")
			}
		})
	}
}

func TestImplied_NotConverged(t *testing.T) {
	price := Value(N, 100, 0.2, 100)
	sol, err := Solver{MaxIter: 1}.Solve(100, price, 100)
	if !errors.Is(err, ErrNotConverged) {
		t.Fatalf("got err=%v", err)
	}
	if sol.Iterations != 1 || !math.IsNaN(sol.Vol) {
		t.Fatalf("unexpected solution %+v", sol)
	}
}

func TestImplied_FarOutOfTheMoney(t *testing.T) {
	price := Value(N, 100, 0.2, 150)
	if _, err := (Solver{}).Solve(100, price, 150); !errors.Is(err, ErrNotConverged) {
		t.Fatalf("got err=%v", err)
	}
	if got := Implied(N, 100, price, 150); !math.IsNaN(got) {
		t.Fatalf("got %v, want NaN", got)
	}
	sol, err := Solver{Guess: 0.3}.Solve(100, price, 150)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(sol.Vol, 0.2, 1e-7) {
		t.Fatalf("got %v", sol.Vol)
	}
}

func TestImplied_LargeGuess(t *testing.T) {
	// the first Newton step from 3 is negative and is halved
	price := Value(N, 100, 0.2, 100)
	sol, err := Solver{Guess: 3}.Solve(100, price, 100)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(sol.Vol, 0.2, 1e-7) {
		t.Fatalf("got %v", sol.Vol)
	}
	if sol.Iterations < 2 {
		t.Fatalf("expected halving steps, got %d iterations", sol.Iterations)
	}
}

func TestImplied_NelderMead(t *testing.T) {
	f := 100.0
	for _, k := range []float64{90, -100, 110} {
		price := Value(N, f, 0.25, k)
		problem := optimize.Problem{
			Func: func(x []float64) float64 {
				d := Value(N, f, math.Abs(x[0]), k) - price
				return d * d
			},
		}
		result, err := optimize.Minimize(problem, []float64{0.1}, nil, &optimize.NelderMead{})
		if err != nil {
			t.Fatal(err)
		}
		want := math.Abs(result.X[0])
		if got := Implied(N, f, price, k); !almostEqual(got, want, 1e-4) {
			t.Errorf("k=%v: newton=%v nelder-mead=%v", k, got, want)
		}
	}
}

func BenchmarkImplied(b *testing.B) {
	price := Value(N, 100, 0.2, 110)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Implied(N, 100, price, 110)
	}
}
