// Package blackscholes maps spot, rate, volatility and time to the forward
// measure used by package option and dispatches on the contract type.
//
// Strikes are positive here: the contract selects put or call. Results are
// per unit of spot currency, discounted by D = e^{-rt}.
package blackscholes

import (
	"fmt"
	"math"

	"github.com/charlerive/optionkit/option"
	"github.com/charlerive/optionkit/variate"
	"github.com/golang/glog"
)

// Dfs returns the discount D = e^{-rt}, forward f = S/D and total volatility s = sigma sqrt(t).
func Dfs(r, S, sigma, t float64) (D, f, s float64) {
	D = math.Exp(-r * t)
	return D, S / D, sigma * math.Sqrt(t)
}

func Moneyness(v variate.Law, r, S, sigma, k, t float64) float64 {
	_, f, s := Dfs(r, S, sigma, t)
	return option.Moneyness(v, f, s, k)
}

// Value is the discounted expected payoff of contract c with strike k.
// Unknown contracts and negative strikes give NaN.
func Value(v variate.Law, r, S, sigma float64, c option.Contract, k, t float64) float64 {
	if !c.Valid() {
		return math.NaN()
	}
	D, f, s := Dfs(r, S, sigma, t)
	k = option.Strike(c, k)
	if c.Digital() {
		return D * option.DigitalValue(v, f, s, k)
	}
	return D * option.Value(v, f, s, k)
}

// Delta is dV/dS. Since f = S/D it equals the forward delta.
func Delta(v variate.Law, r, S, sigma float64, c option.Contract, k, t float64) float64 {
	if !c.Valid() {
		return math.NaN()
	}
	_, f, s := Dfs(r, S, sigma, t)
	k = option.Strike(c, k)
	if c.Digital() {
		return option.DigitalDelta(v, f, s, k)
	}
	return option.Delta(v, f, s, k)
}

// Gamma is d^2V/dS^2.
func Gamma(v variate.Law, r, S, sigma float64, c option.Contract, k, t float64) float64 {
	if !c.Valid() {
		return math.NaN()
	}
	D, f, s := Dfs(r, S, sigma, t)
	k = option.Strike(c, k)
	if c.Digital() {
		return option.DigitalGamma(v, f, s, k) / D
	}
	return option.Gamma(v, f, s, k) / D
}

// Vega is dV/dsigma.
func Vega(v variate.Law, r, S, sigma float64, c option.Contract, k, t float64) float64 {
	if !c.Valid() {
		return math.NaN()
	}
	D, f, s := Dfs(r, S, sigma, t)
	k = option.Strike(c, k)
	if c.Digital() {
		return D * math.Sqrt(t) * option.DigitalVega(v, f, s, k)
	}
	return D * math.Sqrt(t) * option.Vega(v, f, s, k)
}

// Rho is dV/dr = t(S Delta - V).
func Rho(v variate.Law, r, S, sigma float64, c option.Contract, k, t float64) float64 {
	return t * (S*Delta(v, r, S, sigma, c, k, t) - Value(v, r, S, sigma, c, k, t))
}

// Theta is (V(t - dt) - V(t))/dt holding spot, rate and volatility fixed.
// A non-positive dt uses option.DefaultDt and dt is reduced to t/2 near
// expiration.
func Theta(v variate.Law, r, S, sigma float64, c option.Contract, k, t, dt float64) float64 {
	if !(t > 0) {
		return math.NaN()
	}
	if !(dt > 0) {
		dt = option.DefaultDt
	}
	if dt >= t {
		dt = t / 2
	}
	return (Value(v, r, S, sigma, c, k, t-dt) - Value(v, r, S, sigma, c, k, t)) / dt
}

// ImpliedVol returns the volatility sigma at which the put or call value is
// price. The solver guess is a total volatility sigma sqrt(t).
func ImpliedVol(sv option.Solver, r, S, price float64, c option.Contract, k, t float64) (float64, error) {
	if c != option.Put && c != option.Call {
		return math.NaN(), fmt.Errorf("%w: no implied volatility for %v", option.ErrUnknownContract, c)
	}
	if !(t > 0) {
		return math.NaN(), fmt.Errorf("%w: t=%v", option.ErrDomain, t)
	}
	D, f, _ := Dfs(r, S, 0, t)
	sol, err := sv.Solve(f, price/D, option.Strike(c, k))
	if err != nil {
		return math.NaN(), err
	}
	return sol.Vol / math.Sqrt(t), nil
}

// Black–Scholes model under any law, see wiki: https://en.wikipedia.org/wiki/Black%E2%80%93Scholes_model
type BSM struct {
	Law       variate.Law     `json:"-"`             // nil is the standard normal
	C         option.Contract `json:"contract"`      // put, call, digital put or digital call
	S         float64         `json:"subject_price"` // spot
	X         float64         `json:"strike_price"`  // strike
	T         float64         `json:"rest_time"`     // years to expiration
	R         float64         `json:"price_rate"`    // continuously compounded rate
	Iv        float64         `json:"volatility"`    // annualized volatility
	Op        float64         `json:"option_price"`  // option price
	Moneyness float64         `json:"moneyness"`
	Delta     float64         `json:"delta"`
	Gamma     float64         `json:"gamma"`
	Vega      float64         `json:"vega"`
	Theta     float64         `json:"theta"` // per year
	Rho       float64         `json:"rho"`
}

// NewBS solves the implied volatility of the quoted option price op and
// fills in the greeks at that volatility.
func NewBS(law variate.Law, c option.Contract, S, X, T, r, op float64) (*BSM, error) {
	bsm := BSM{
		Law: law,
		C:   c,
		S:   S,
		X:   X,
		T:   T,
		R:   r,
		Op:  op,
	}
	iv, err := ImpliedVol(option.Solver{Law: law}, r, S, op, c, X, T)
	if err != nil {
		glog.V(1).Infof("blackscholes: %v S=%v X=%v T=%v op=%v: %v", c, S, X, T, op, err)
		return nil, err
	}
	bsm.Iv = iv
	bsm.init()
	return &bsm, nil
}

func NewBSWithIv(law variate.Law, c option.Contract, S, X, T, r, iv float64) *BSM {
	bsm := BSM{
		Law: law,
		C:   c,
		S:   S,
		X:   X,
		T:   T,
		R:   r,
		Iv:  iv,
	}
	bsm.Op = bsm.GetOptionPriceFromIv(iv)
	bsm.init()
	return &bsm
}

func (bsm *BSM) init() {
	bsm.Moneyness = Moneyness(bsm.Law, bsm.R, bsm.S, bsm.Iv, bsm.X, bsm.T)
	bsm.Delta = Delta(bsm.Law, bsm.R, bsm.S, bsm.Iv, bsm.C, bsm.X, bsm.T)
	bsm.Gamma = Gamma(bsm.Law, bsm.R, bsm.S, bsm.Iv, bsm.C, bsm.X, bsm.T)
	bsm.Vega = Vega(bsm.Law, bsm.R, bsm.S, bsm.Iv, bsm.C, bsm.X, bsm.T)
	bsm.Theta = Theta(bsm.Law, bsm.R, bsm.S, bsm.Iv, bsm.C, bsm.X, bsm.T, 0)
	bsm.Rho = Rho(bsm.Law, bsm.R, bsm.S, bsm.Iv, bsm.C, bsm.X, bsm.T)
}

// GetOptionPriceFromIv is the option price at volatility iv.
func (bsm *BSM) GetOptionPriceFromIv(iv float64) float64 {
	return Value(bsm.Law, bsm.R, bsm.S, iv, bsm.C, bsm.X, bsm.T)
}
