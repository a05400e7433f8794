package variate

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// H returns the Hermite polynomial H_n(x) using
// H_{n+1}(x) = x H_n(x) - n H_{n-1}(x), H_0(x) = 1, H_1(x) = x.
func H(n int, x float64) float64 {
	if n < 0 {
		return math.NaN()
	}
	if n == 0 {
		return 1
	}
	h0, h1 := 1.0, x
	for k := 1; k < n; k++ {
		h0, h1 = h1, x*h1-float64(k)*h0
	}
	return h1
}

// N returns the n-th derivative of the standard normal cdf at x.
func N(x float64, n int) float64 {
	switch {
	case n < 0:
		return math.NaN()
	case n == 0:
		return distuv.UnitNormal.CDF(x)
	}

	phi := distuv.UnitNormal.Prob(x)
	if n == 1 {
		return phi
	}

	// (d/dx)^m phi(x) = (-1)^m H_m(x) phi(x)
	if n&1 == 1 {
		return phi * H(n-1, x)
	}
	return -phi * H(n-1, x)
}

// Normal is the standard normal variate.
type Normal struct{}

// Cdf is P^s(X <= x) = P(X <= x - s) and its derivatives.
func (Normal) Cdf(x, s float64, nx, ns int) float64 {
	v := N(x-s, nx+ns)
	if ns&1 == 1 {
		return -v
	}
	return v
}

// Cumulant is κ(s) = s^2/2 and its derivatives.
func (Normal) Cumulant(s float64, n int) float64 {
	switch n {
	case 0:
		return s * s / 2
	case 1:
		return s
	case 2:
		return 1
	}
	return 0
}

// Brownian is the distribution function of a Brownian motion at time t
// tilted by sigma, P^sigma(B_t <= x) = P(X <= x/sqrt(t) - sigma sqrt(t)),
// with its nx-th x derivative and ns-th sigma derivative.
func (Normal) Brownian(t, x, sigma float64, nx, ns int) float64 {
	if t <= 0 || nx < 0 || ns < 0 {
		return math.NaN()
	}
	sqrtT := math.Sqrt(t)
	v := N(x/sqrtT-sigma*sqrtT, nx+ns) * math.Pow(sqrtT, float64(ns-nx))
	if ns&1 == 1 {
		return -v
	}
	return v
}
