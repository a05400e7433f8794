// Package option values European options on a forward F = f e^{sX - κ(s)}
// where X is any variate.Law and κ is its cumulant generating function.
//
// Strikes are signed: k < 0 is a put with strike -k and k > 0 is a call.
// Use Strike to build a signed strike from a Contract. Every function returns
// NaN when the forward, total volatility or strike is not positive.
package option

import (
	"math"

	"github.com/charlerive/optionkit/variate"
)

// DefaultDt is the calendar time step used by Theta, one trading day.
const DefaultDt = 1. / 250

func valid(f, s float64) bool {
	return f > 0 && s > 0
}

// Moneyness is (log(k/f) + κ(s))/s, the value of X at which F = k.
func Moneyness(v variate.Law, f, s, k float64) float64 {
	if !valid(f, s) || !(k > 0) {
		return math.NaN()
	}
	return (math.Log(k/f) + variate.Cumulant(v, s, 0)) / s
}

// Value is E[max(-k - F, 0)] for k < 0 and E[max(F - k, 0)] for k > 0.
func Value(v variate.Law, f, s, k float64) float64 {
	switch {
	case k < 0:
		m := Moneyness(v, f, s, -k)
		return -k*variate.Cdf(v, m, 0, 0, 0) - f*variate.Cdf(v, m, s, 0, 0)
	case k > 0:
		// c = p + f - k
		return Value(v, f, s, -k) + f - k
	case k == 0 && valid(f, s):
		if math.Signbit(k) {
			return 0
		}
		return f
	}
	return math.NaN()
}

// Delta is dv/df.
func Delta(v variate.Law, f, s, k float64) float64 {
	switch {
	case k < 0:
		m := Moneyness(v, f, s, -k)
		return -variate.Cdf(v, m, s, 0, 0)
	case k > 0:
		// dc/df = dp/df + 1
		return Delta(v, f, s, -k) + 1
	case k == 0 && valid(f, s):
		if math.Signbit(k) {
			return 0
		}
		return 1
	}
	return math.NaN()
}

// Gamma is d^2v/df^2, the same for puts and calls.
func Gamma(v variate.Law, f, s, k float64) float64 {
	if k == 0 && valid(f, s) {
		return 0
	}
	m := Moneyness(v, f, s, math.Abs(k))
	return variate.Cdf(v, m, s, 1, 0) / (f * s)
}

// Vega is dv/ds, the same for puts and calls.
func Vega(v variate.Law, f, s, k float64) float64 {
	if k == 0 && valid(f, s) {
		return 0
	}
	m := Moneyness(v, f, s, math.Abs(k))
	return -f * variate.Cdf(v, m, s, 0, 1)
}

// ValueN is the n-th derivative of value with respect to the forward.
func ValueN(v variate.Law, f, s, k float64, n int) float64 {
	switch {
	case n < 0:
		return math.NaN()
	case n == 0:
		return Value(v, f, s, k)
	case n == 1:
		return Delta(v, f, s, k)
	case k == 0 && valid(f, s):
		return 0
	}

	m := Moneyness(v, f, s, math.Abs(k))

	// d^j v/df^j = f^{-a} sum_i c[i] P^{(i)}(m) with P(x) = cdf(x, s).
	// Starting from delta = -P(m), d/df [f^{-a} Q(m)] = f^{-a-1}(-a Q(m) - Q'(m)/s).
	c := make([]float64, n)
	c[0] = -1
	for a := 0; a < n-1; a++ {
		for i := a + 1; i >= 0; i-- {
			c[i] *= -float64(a)
			if i > 0 {
				c[i] -= c[i-1] / s
			}
		}
	}

	var sum float64
	for i, ci := range c {
		if ci != 0 {
			sum += ci * variate.Cdf(v, m, s, i, 0)
		}
	}
	return sum / math.Pow(f, float64(n-1))
}

// Theta is the change in value per unit of calendar time,
// (v(t - dt) - v(t))/dt with s = sigma sqrt(t). A non-positive dt uses
// DefaultDt and dt is reduced to t/2 near expiration.
func Theta(v variate.Law, f, sigma, k, t, dt float64) float64 {
	if !(t > 0) {
		return math.NaN()
	}
	if !(dt > 0) {
		dt = DefaultDt
	}
	if dt >= t {
		dt = t / 2
	}

	v0 := Value(v, f, sigma*math.Sqrt(t), k)
	v1 := Value(v, f, sigma*math.Sqrt(t-dt), k)
	return (v1 - v0) / dt
}
