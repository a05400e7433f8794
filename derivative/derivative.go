// Package derivative checks analytic derivatives against symmetric
// difference quotients.
package derivative

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
)

const epsilon = 2.220446049250313e-16

// DifferenceQuotient returns x -> (f(x + h) - f(x - h))/2h.
func DifferenceQuotient(f func(float64) float64, h float64) func(float64) float64 {
	settings := &fd.Settings{Formula: fd.Central, Step: h}
	return func(x float64) float64 {
		return fd.Derivative(f, x, settings)
	}
}

// Check reports whether df is the derivative of f at x.
// (f(x + h) - f(x - h))/2h = f'(x) + f'''(x) h^2/3! + O(h^4), so the
// difference quotient must be within tol times the truncation error,
// allowing for round-off in f.
func Check(f func(float64) float64, x, h, df, dddf, tol float64) bool {
	Df := DifferenceQuotient(f, h)(x)
	bound := tol*(math.Abs(dddf)*h*h/6+h*h*h*h) + 64*epsilon*(1+math.Abs(f(x)))/h

	return math.Abs(Df-df) <= bound
}
