package option

import (
	"math"

	"github.com/charlerive/optionkit/variate"
)

// DigitalValue is P(F <= -k) for k < 0 and P(F > k) for k > 0.
func DigitalValue(v variate.Law, f, s, k float64) float64 {
	switch {
	case k < 0:
		m := Moneyness(v, f, s, -k)
		return variate.Cdf(v, m, 0, 0, 0)
	case k > 0:
		return 1 - DigitalValue(v, f, s, -k)
	case k == 0 && valid(f, s):
		if math.Signbit(k) {
			return 0
		}
		return 1
	}
	return math.NaN()
}

// digital returns the put greek g for k < 0 and -g for k > 0.
func digital(v variate.Law, f, s, k float64, g func(m float64) float64) float64 {
	if k == 0 && valid(f, s) {
		return 0
	}
	m := Moneyness(v, f, s, math.Abs(k))
	if k > 0 {
		return -g(m)
	}
	return g(m)
}

// DigitalDelta is the derivative of DigitalValue with respect to f.
func DigitalDelta(v variate.Law, f, s, k float64) float64 {
	return digital(v, f, s, k, func(m float64) float64 {
		// dm/df = -1/(f s)
		return -variate.Cdf(v, m, 0, 1, 0) / (f * s)
	})
}

// DigitalGamma is the second derivative of DigitalValue with respect to f.
func DigitalGamma(v variate.Law, f, s, k float64) float64 {
	return digital(v, f, s, k, func(m float64) float64 {
		fs := f * s
		return variate.Cdf(v, m, 0, 2, 0)/(fs*fs) + variate.Cdf(v, m, 0, 1, 0)/(f*fs)
	})
}

// DigitalVega is the derivative of DigitalValue with respect to s.
func DigitalVega(v variate.Law, f, s, k float64) float64 {
	return digital(v, f, s, k, func(m float64) float64 {
		// dm/ds = (κ'(s) - m)/s
		return variate.Cdf(v, m, 0, 1, 0) * (variate.Cumulant(v, s, 1) - m) / s
	})
}
