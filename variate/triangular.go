package variate

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

var (
	ErrTriangular     = errors.New("variate: triangular requires l <= m <= h and l < h")
	ErrNotImplemented = errors.New("variate: derivative order not implemented")
)

// legendre is the number of Gauss-Legendre nodes used on each linear piece
// of the triangular density. The integrands are a polynomial times e^{su}.
const legendre = 32

// Triangular is the triangular distribution on [L, H] with mode M. Its
// density is linear from (L, 0) to (M, 2/(H - L)) and from there to (H, 0).
type Triangular struct {
	L, M, H float64
}

// NewTriangular checks l <= m <= h with l < h.
func NewTriangular(l, m, h float64) (*Triangular, error) {
	if !(l <= m && m <= h && l < h) {
		return nil, fmt.Errorf("%w: got l=%v m=%v h=%v", ErrTriangular, l, m, h)
	}
	return &Triangular{L: l, M: m, H: h}, nil
}

// density returns f, f' and f'' at x. f'' vanishes off the kinks.
func (t Triangular) density(x float64) [3]float64 {
	switch {
	case x < t.L || x > t.H:
		return [3]float64{}
	case x < t.M:
		a := 2 / ((t.M - t.L) * (t.H - t.L))
		return [3]float64{a * (x - t.L), a, 0}
	case x > t.M:
		b := 2 / ((t.H - t.M) * (t.H - t.L))
		return [3]float64{b * (t.H - x), -b, 0}
	}
	// at the mode use the descending piece unless it is degenerate
	if t.H > t.M {
		b := 2 / ((t.H - t.M) * (t.H - t.L))
		return [3]float64{b * (t.H - x), -b, 0}
	}
	a := 2 / ((t.M - t.L) * (t.H - t.L))
	return [3]float64{a * (x - t.L), a, 0}
}

// shift is the point the exponential is scaled around so e^{s(u - c)} <= 1 on the support.
func (t Triangular) shift(s float64) float64 {
	if s > 0 {
		return t.H
	}
	return t.L
}

// integral returns int_l^x g(u) e^{s(u - c)} f(u) du, x clamped to the support.
func (t Triangular) integral(s, c, x float64, g func(float64) float64) float64 {
	x = math.Min(x, t.H)
	integrand := func(u float64) float64 {
		return g(u) * math.Exp(s*(u-c)) * t.density(u)[0]
	}
	var sum float64
	if t.M > t.L && x > t.L {
		sum += quad.Fixed(integrand, t.L, math.Min(x, t.M), legendre, nil, 0)
	}
	if t.H > t.M && x > t.M {
		sum += quad.Fixed(integrand, t.M, x, legendre, nil, 0)
	}
	return sum
}

func one(float64) float64 { return 1 }

// MGF returns E[e^{sX}].
func (t Triangular) MGF(s float64) float64 {
	c := t.shift(s)
	return math.Exp(s*c) * t.integral(s, c, t.H, one)
}

// Cumulant returns the n-th derivative of κ(s) = log E[e^{sX}]. The
// derivatives are the cumulants of the law tilted by s, computed from its
// moments about the midpoint of the support.
func (t Triangular) Cumulant(s float64, n int) float64 {
	c := t.shift(s)
	i0 := t.integral(s, c, t.H, one)
	if n == 0 {
		return s*c + math.Log(i0)
	}

	a := (t.L + t.H) / 2
	mu := make([]float64, n+1)
	mu[0] = 1
	for p := 1; p <= n; p++ {
		mu[p] = t.integral(s, c, t.H, func(u float64) float64 {
			return math.Pow(u-a, float64(p))
		}) / i0
	}

	// κ_p = μ_p - sum_{j=1}^{p-1} C(p-1, j-1) κ_j μ_{p-j}
	kappa := make([]float64, n+1)
	for p := 1; p <= n; p++ {
		kappa[p] = mu[p]
		binom := 1.0
		for j := 1; j < p; j++ {
			kappa[p] -= binom * kappa[j] * mu[p-j]
			binom = binom * float64(p-j) / float64(j)
		}
	}
	if n == 1 {
		return kappa[1] + a
	}
	return kappa[n]
}

// Supported reports whether Cdf has an implementation for the derivative orders.
func (t Triangular) Supported(nx, ns int) error {
	if nx < 0 || ns < 0 || ns > 1 {
		return fmt.Errorf("%w: nx=%d ns=%d", ErrNotImplemented, nx, ns)
	}
	return nil
}

// Cdf returns P^s(X <= x) = E[e^{sX - κ(s)} 1(X <= x)] and its derivatives.
// Derivatives of order two or more in s are not implemented and return NaN.
func (t Triangular) Cdf(x, s float64, nx, ns int) float64 {
	if t.Supported(nx, ns) != nil {
		return math.NaN()
	}
	if x < t.L {
		return 0
	}

	c := t.shift(s)
	i0 := t.integral(s, c, t.H, one)
	var kp float64 // κ'(s)
	if ns == 1 {
		kp = t.Cumulant(s, 1)
	}

	if nx == 0 {
		if ns == 0 {
			if x >= t.H {
				return 1
			}
			return t.integral(s, c, x, one) / i0
		}
		if x >= t.H {
			return 0
		}
		return t.integral(s, c, x, func(u float64) float64 { return u - kp }) / i0
	}
	if x > t.H {
		return 0
	}

	// (d/dx)^p [e^{sx} g(x)] = e^{sx} sum_j C(p, j) s^{p-j} g^{(j)}(x), g'' is the last nonzero term
	f := t.density(x)
	g := f
	if ns == 1 {
		g = [3]float64{
			(x - kp) * f[0],
			f[0] + (x-kp)*f[1],
			2 * f[1],
		}
	}
	p := nx - 1
	var sum float64
	binom := 1.0
	for j := 0; j <= p && j < len(g); j++ {
		sum += binom * math.Pow(s, float64(p-j)) * g[j]
		binom = binom * float64(p-j) / float64(j+1)
	}
	return math.Exp(s*(x-c)) / i0 * sum
}
