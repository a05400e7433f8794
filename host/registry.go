// Package host exposes the pricing analytics to a calling environment that
// refers to variates by opaque handles and expects NaN, not errors or panics,
// for invalid input.
package host

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charlerive/optionkit/variate"
	"github.com/google/uuid"
)

var ErrHandle = errors.New("host: unknown variate handle")

// Registry owns the variates created by the host. The zero handle uuid.Nil
// always refers to the standard normal.
type Registry struct {
	mu   sync.RWMutex
	laws map[uuid.UUID]variate.Law
}

func NewRegistry() *Registry {
	return &Registry{laws: make(map[uuid.UUID]variate.Law)}
}

// Add stores v and returns its handle.
func (r *Registry) Add(v variate.Law) uuid.UUID {
	h := uuid.New()
	r.mu.Lock()
	r.laws[h] = v
	r.mu.Unlock()
	return h
}

func (r *Registry) Get(h uuid.UUID) (variate.Law, error) {
	if h == uuid.Nil {
		return variate.Normal{}, nil
	}
	r.mu.RLock()
	v, ok := r.laws[h]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandle, h)
	}
	return v, nil
}

// Release forgets h and reports whether it was registered.
func (r *Registry) Release(h uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.laws[h]; !ok {
		return false
	}
	delete(r.laws, h)
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.laws)
}

// Normal registers a standard normal variate.
func (r *Registry) Normal() uuid.UUID {
	return r.Add(variate.Normal{})
}

// Triangular registers the triangular variate on [l, h] with mode m.
func (r *Registry) Triangular(l, m, h float64) (uuid.UUID, error) {
	t, err := variate.NewTriangular(l, m, h)
	if err != nil {
		return uuid.Nil, err
	}
	return r.Add(t), nil
}
