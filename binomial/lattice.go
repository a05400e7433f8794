// Package binomial values options on a recombining binomial lattice.
//
// With per step volatility s = sigma sqrt(t/n) the forward at time step j
// after i down moves is F_j(i) = f e^{s(j - 2i)}/cosh(s)^j. Up and down moves
// have probability 1/2 so the forward is a martingale on the lattice and the
// terminal law converges to the lognormal as n grows.
package binomial

import (
	"errors"
	"fmt"
	"math"

	"github.com/charlerive/optionkit/option"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrSteps  = errors.New("binomial: number of steps must be positive")
	ErrDomain = errors.New("binomial: spot, volatility, strike and time must be positive")
)

// Lattice holds the option value at every node, filled from expiration back
// to the valuation date.
type Lattice struct {
	n        int
	american bool
	r, t     float64
	f, s     float64 // forward and per step volatility
	logCosh  float64
	value    *mat.Dense // value.At(j, i)
	exercise []bool     // exercise[j*(n+1)+i]
}

func payoff(c option.Contract, k float64) func(x float64) float64 {
	switch c {
	case option.Put:
		return func(x float64) float64 { return math.Max(k-x, 0) }
	case option.Call:
		return func(x float64) float64 { return math.Max(x-k, 0) }
	case option.DigitalPut:
		return func(x float64) float64 {
			if x <= k {
				return 1
			}
			return 0
		}
	case option.DigitalCall:
		return func(x float64) float64 {
			if x > k {
				return 1
			}
			return 0
		}
	}
	return nil
}

// New builds an n step lattice for contract c with strike k on spot S.
// If american is true every interior node takes the larger of the
// continuation value and immediate exercise.
func New(n int, r, S, sigma float64, c option.Contract, k, t float64, american bool) (*Lattice, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: n=%d", ErrSteps, n)
	}
	if !(S > 0 && sigma > 0 && k > 0 && t > 0) || math.IsNaN(r) {
		return nil, fmt.Errorf("%w: S=%v sigma=%v k=%v t=%v r=%v", ErrDomain, S, sigma, k, t, r)
	}
	nu := payoff(c, k)
	if nu == nil {
		return nil, fmt.Errorf("%w: %d", option.ErrUnknownContract, uint16(c))
	}

	s := sigma * math.Sqrt(t/float64(n))
	l := &Lattice{
		n:        n,
		american: american,
		r:        r,
		t:        t,
		f:        S * math.Exp(r*t),
		s:        s,
		logCosh:  math.Log(math.Cosh(s)),
		value:    mat.NewDense(n+1, n+1, nil),
		exercise: make([]bool, (n+1)*(n+1)),
	}
	disc := math.Exp(-r * t / float64(n))

	for i := 0; i <= n; i++ {
		l.value.Set(n, i, nu(l.Spot(i, n)))
	}
	for j := n - 1; j >= 0; j-- {
		for i := 0; i <= j; i++ {
			v := disc * (l.value.At(j+1, i) + l.value.At(j+1, i+1)) / 2
			if american {
				if x := nu(l.Spot(i, j)); x > v {
					v = x
					l.exercise[j*(n+1)+i] = true
				}
			}
			l.value.Set(j, i, v)
		}
	}

	return l, nil
}

// Forward is F_j(i), the forward to expiration at time step j after i down moves.
func (l *Lattice) Forward(i, j int) float64 {
	return l.f * math.Exp(l.s*float64(j-2*i)-float64(j)*l.logCosh)
}

// Spot is the forward at node (i, j) discounted from expiration to t_j.
func (l *Lattice) Spot(i, j int) float64 {
	tj := l.t * float64(j) / float64(l.n)
	return l.Forward(i, j) * math.Exp(-l.r*(l.t-tj))
}

func (l *Lattice) Steps() int {
	return l.n
}

func (l *Lattice) American() bool {
	return l.american
}

// Value is the option value at time step j after i down moves, or NaN if
// the node is not on the lattice.
func (l *Lattice) Value(i, j int) float64 {
	if j < 0 || j > l.n || i < 0 || i > j {
		return math.NaN()
	}
	return l.value.At(j, i)
}

// Price is the value at the root.
func (l *Lattice) Price() float64 {
	return l.value.At(0, 0)
}

// Exercised reports whether early exercise is optimal at the node.
func (l *Lattice) Exercised(i, j int) bool {
	if j < 0 || j > l.n || i < 0 || i > j {
		return false
	}
	return l.exercise[j*(l.n+1)+i]
}

// Value is the lattice price, or NaN on invalid input.
func Value(n int, r, S, sigma float64, c option.Contract, k, t float64, american bool) float64 {
	l, err := New(n, r, S, sigma, c, k, t, american)
	if err != nil {
		return math.NaN()
	}
	return l.Price()
}
