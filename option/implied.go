package option

import (
	"errors"
	"fmt"
	"math"

	"github.com/charlerive/optionkit/variate"
	"github.com/golang/glog"
)

const (
	DefaultGuess   = 0.1
	DefaultMaxIter = 100
)

// DefaultTol is the square root of machine epsilon.
var DefaultTol = math.Sqrt(2.220446049250313e-16)

var (
	ErrDomain       = errors.New("option: forward, strike and value must be positive")
	ErrArbitrage    = errors.New("option: value outside of no-arbitrage bounds")
	ErrNotConverged = errors.New("option: implied volatility did not converge")
)

// Solver finds the total volatility s with Value(f, s, k) equal to a target
// by Newton-Raphson on s. Zero fields use the defaults.
//
// A negative step halves s instead. Far out of the money targets started
// below the root, such as f=100, k=150 at s=0.2 from the default guess, can
// overshoot to a total volatility where vega underflows to zero. Halving from
// there does not reach the root within MaxIter and Solve returns
// ErrNotConverged. A guess nearer the root avoids this.
type Solver struct {
	Law     variate.Law
	Guess   float64
	MaxIter int
	Tol     float64
}

type Solution struct {
	Vol        float64 // total volatility s = sigma sqrt(t)
	Iterations int
}

func (sv Solver) defaults() Solver {
	if !(sv.Guess > 0) {
		sv.Guess = DefaultGuess
	}
	if sv.MaxIter <= 0 {
		sv.MaxIter = DefaultMaxIter
	}
	if !(sv.Tol > 0) {
		sv.Tol = DefaultTol
	}
	return sv
}

// Bounds returns the open interval of put (k < 0) or call (k > 0) values
// consistent with static arbitrage.
func Bounds(f, k float64) (lo, hi float64) {
	if k < 0 {
		// max(k - F, 0) >= k - f and <= k
		return math.Max(-k-f, 0), -k
	}
	// max(F - k, 0) >= f - k and <= f
	return math.Max(f-k, 0), f
}

// Solve returns the total implied volatility of the put (k < 0) or call
// (k > 0) with forward f and value price.
func (sv Solver) Solve(f, price, k float64) (Solution, error) {
	sv = sv.defaults()
	nan := Solution{Vol: math.NaN()}

	if !(f > 0) || k == 0 || math.IsNaN(k) || math.IsNaN(price) {
		return nan, fmt.Errorf("%w: f=%v v=%v k=%v", ErrDomain, f, price, k)
	}
	if lo, hi := Bounds(f, k); !(price > lo && price < hi) {
		return nan, fmt.Errorf("%w: v=%v not in (%v, %v)", ErrArbitrage, price, lo, hi)
	}

	s := sv.Guess
	for n := 1; n <= sv.MaxIter; n++ {
		v, dv := Value(sv.Law, f, s, k), Vega(sv.Law, f, s, k)
		next := s - (v-price)/dv
		if next < 0 {
			next = s / 2
		}
		if glog.V(2) {
			glog.Infof("implied: n=%d s=%v v=%v vega=%v next=%v", n, s, v, dv, next)
		}
		if math.IsNaN(next) || math.IsInf(next, 0) {
			nan.Iterations = n
			return nan, fmt.Errorf("%w: step from s=%v is %v", ErrNotConverged, s, next)
		}
		if math.Abs(next-s) <= sv.Tol {
			return Solution{Vol: next, Iterations: n}, nil
		}
		s = next
	}

	glog.V(1).Infof("implied: no convergence after %d iterations, f=%v v=%v k=%v", sv.MaxIter, f, price, k)
	nan.Iterations = sv.MaxIter
	return nan, fmt.Errorf("%w: after %d iterations", ErrNotConverged, sv.MaxIter)
}

// Implied is the total implied volatility, or NaN if it does not exist or
// the solver fails.
func Implied(v variate.Law, f, price, k float64) float64 {
	sol, err := Solver{Law: v}.Solve(f, price, k)
	if err != nil {
		return math.NaN()
	}
	return sol.Vol
}
