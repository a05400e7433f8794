package option

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Contract is the payoff family. The numeric tags are stable across bindings.
type Contract uint16

const (
	Put         Contract = 1
	Call        Contract = 2
	DigitalPut  Contract = 3
	DigitalCall Contract = 4
)

var ErrUnknownContract = errors.New("option: unknown contract type")

func (c Contract) Valid() bool {
	return c >= Put && c <= DigitalCall
}

func (c Contract) Digital() bool {
	return c == DigitalPut || c == DigitalCall
}

func (c Contract) String() string {
	switch c {
	case Put:
		return "put"
	case Call:
		return "call"
	case DigitalPut:
		return "digital_put"
	case DigitalCall:
		return "digital_call"
	}
	return fmt.Sprintf("contract(%d)", uint16(c))
}

// ParseContract accepts p/put, c/call, dp/digital_put and dc/digital_call in any case.
func ParseContract(s string) (Contract, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "p", "put":
		return Put, nil
	case "c", "call":
		return Call, nil
	case "dp", "digital_put", "digitalput":
		return DigitalPut, nil
	case "dc", "digital_call", "digitalcall":
		return DigitalCall, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownContract, s)
}

// Strike returns the signed strike used by the forward analytics: negative
// for puts, positive for calls. Zero strikes keep the sign so the degenerate
// limits of Value and DigitalValue are selected correctly. A negative or NaN
// k is not a strike and gives NaN.
func Strike(c Contract, k float64) float64 {
	if !(k >= 0) {
		return math.NaN()
	}
	switch c {
	case Put, DigitalPut:
		return math.Copysign(k, -1)
	case Call, DigitalCall:
		return math.Copysign(k, 1)
	}
	return math.NaN()
}
