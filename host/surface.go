package host

import (
	"math"

	"github.com/charlerive/optionkit/binomial"
	"github.com/charlerive/optionkit/blackscholes"
	"github.com/charlerive/optionkit/option"
	"github.com/charlerive/optionkit/variate"
	"github.com/golang/glog"
	"github.com/google/uuid"
)

// call resolves h and evaluates fn, turning a bad handle or a panic into NaN.
func (r *Registry) call(name string, h uuid.UUID, fn func(v variate.Law) float64) (x float64) {
	defer func() {
		if err := recover(); err != nil {
			glog.Errorf("%s: recovered: %v", name, err)
			x = math.NaN()
		}
	}()

	v, err := r.Get(h)
	if err != nil {
		glog.Errorf("%s: %v", name, err)
		return math.NaN()
	}
	return fn(v)
}

func normal(v variate.Law) bool {
	switch v.(type) {
	case variate.Normal, *variate.Normal:
		return true
	}
	return false
}

// Moneyness is the value of X at which the forward f equals the strike k,
// with total volatility sigma sqrt(t).
func (r *Registry) Moneyness(h uuid.UUID, f, sigma, k, t float64) float64 {
	return r.call("moneyness", h, func(v variate.Law) float64 {
		return option.Moneyness(v, f, sigma*math.Sqrt(t), k)
	})
}

// Value prices contract c. If n is not zero the option is valued on a
// binomial lattice with |n| steps, American for n > 0 and European for n < 0.
// The lattice is lognormal, so it is only available for a normal handle and
// other laws give NaN.
func (r *Registry) Value(h uuid.UUID, S, sigma float64, c option.Contract, k, t, rate float64, n int) float64 {
	return r.call("value", h, func(v variate.Law) float64 {
		if n != 0 && !normal(v) {
			glog.Errorf("value: no binomial lattice for %T", v)
			return math.NaN()
		}
		switch {
		case n > 0:
			return binomial.Value(n, rate, S, sigma, c, k, t, true)
		case n < 0:
			return binomial.Value(-n, rate, S, sigma, c, k, t, false)
		}
		return blackscholes.Value(v, rate, S, sigma, c, k, t)
	})
}

func (r *Registry) Delta(h uuid.UUID, S, sigma float64, c option.Contract, k, t, rate float64) float64 {
	return r.call("delta", h, func(v variate.Law) float64 {
		return blackscholes.Delta(v, rate, S, sigma, c, k, t)
	})
}

func (r *Registry) Gamma(h uuid.UUID, S, sigma float64, c option.Contract, k, t, rate float64) float64 {
	return r.call("gamma", h, func(v variate.Law) float64 {
		return blackscholes.Gamma(v, rate, S, sigma, c, k, t)
	})
}

func (r *Registry) Vega(h uuid.UUID, S, sigma float64, c option.Contract, k, t, rate float64) float64 {
	return r.call("vega", h, func(v variate.Law) float64 {
		return blackscholes.Vega(v, rate, S, sigma, c, k, t)
	})
}

// Theta uses calendar step dt, option.DefaultDt if dt is not positive.
func (r *Registry) Theta(h uuid.UUID, S, sigma float64, c option.Contract, k, t, rate, dt float64) float64 {
	return r.call("theta", h, func(v variate.Law) float64 {
		return blackscholes.Theta(v, rate, S, sigma, c, k, t, dt)
	})
}

// Implied is the volatility sigma at which the put (k < 0) or call (k > 0)
// on forward f has value price. Zero sigma0, n or tol use the solver defaults.
func (r *Registry) Implied(h uuid.UUID, f, price, k, t, sigma0 float64, n int, tol float64) float64 {
	return r.call("implied", h, func(v variate.Law) float64 {
		if !(t > 0) {
			return math.NaN()
		}
		sv := option.Solver{Law: v, Guess: sigma0 * math.Sqrt(t), MaxIter: n, Tol: tol}
		sol, err := sv.Solve(f, price, k)
		if err != nil {
			glog.V(1).Infof("implied: %v", err)
			return math.NaN()
		}
		return sol.Vol / math.Sqrt(t)
	})
}
