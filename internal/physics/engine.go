package physics

import (
	"github.com/san-kum/gravsim/internal/body"
)

const (
	DefaultG        = 1.0
	DefaultTimestep = 0.01
)

// Engine advances a registry by one fixed step of semi-implicit Euler.
type Engine struct {
	G        float64
	Timestep float64
	// Ignore excludes one body id from collision resolution.
	Ignore uint64
	// Workers splits the force evaluation of large registries across
	// goroutines. Zero or one keeps it on the calling goroutine.
	Workers int
}

func NewEngine(g, timestep float64) Engine {
	return Engine{G: g, Timestep: timestep}
}

func DefaultEngine() Engine {
	return NewEngine(DefaultG, DefaultTimestep)
}

// Advance moves every body by one timestep and then resolves at most one
// collision. Forces are evaluated against the positions at the start of the
// step, so the result does not depend on body order.
func (e Engine) Advance(reg *body.Registry) (Merge, bool) {
	next := reg.Duplicate()

	dst := make([]*body.Body, 0, next.Len())
	for b := range next.All() {
		dst = append(dst, b)
	}
	e.kick(reg.Bodies(), dst)

	for b := range next.All() {
		b.Integrate(e.Timestep)
	}

	reg.Replace(next)

	return Resolve(reg, e.Ignore)
}

// Steps runs n consecutive Advance calls and returns the merges they made.
func (e Engine) Steps(reg *body.Registry, n int) []Merge {
	var merges []Merge
	for i := 0; i < n; i++ {
		if m, ok := e.Advance(reg); ok {
			merges = append(merges, m)
		}
	}
	return merges
}
