// Package variate defines the probability laws used to price options under
// a forward measure. A law is described by its Esscher-tilted distribution
// function and its cumulant generating function.
package variate

import "math"

// Law is a random variate X with finite moment generating function.
//
// Cdf returns the nx-th x derivative and ns-th s derivative of
// P^s(X <= x) = E[e^{sX - κ(s)} 1(X <= x)].
// Cumulant returns the n-th derivative of κ(s) = log E[e^{sX}].
type Law interface {
	Cdf(x, s float64, nx, ns int) float64
	Cumulant(s float64, n int) float64
}

// Cdf validates the derivative orders and evaluates the shifted distribution
// function of v. A nil law is the standard normal.
func Cdf(v Law, x, s float64, nx, ns int) float64 {
	if nx < 0 || ns < 0 {
		return math.NaN()
	}
	return or(v).Cdf(x, s, nx, ns)
}

// Cumulant validates the derivative order and evaluates the n-th derivative
// of the cumulant generating function of v. A nil law is the standard normal.
func Cumulant(v Law, s float64, n int) float64 {
	if n < 0 {
		return math.NaN()
	}
	return or(v).Cumulant(s, n)
}

// or returns v, or the standard normal if v is nil.
func or(v Law) Law {
	if v == nil {
		return Normal{}
	}
	return v
}
