package body

import (
	"iter"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// Registry is an insertion-ordered set of bodies with a monotonic id counter.
type Registry struct {
	bodies []Body
	next   uint64
}

func NewRegistry() *Registry {
	return &Registry{bodies: make([]Body, 0)}
}

// Insert stores a copy of b under a fresh id and returns that id.
func (r *Registry) Insert(b Body) uint64 {
	r.next++
	b.ID = r.next
	r.bodies = append(r.bodies, b)
	return b.ID
}

// Remove deletes the body with the given id. Unknown ids are ignored.
func (r *Registry) Remove(id uint64) {
	i := r.index(id)
	if i < 0 {
		return
	}
	r.bodies = slices.Delete(r.bodies, i, i+1)
}

// Get returns a pointer into the registry. It stays valid until the next
// Insert, Remove or Replace.
func (r *Registry) Get(id uint64) (*Body, bool) {
	i := r.index(id)
	if i < 0 {
		return nil, false
	}
	return &r.bodies[i], true
}

func (r *Registry) Contains(id uint64) bool {
	return r.index(id) >= 0
}

func (r *Registry) index(id uint64) int {
	if id == Unassigned {
		return -1
	}
	for i := range r.bodies {
		if r.bodies[i].ID == id {
			return i
		}
	}
	return -1
}

// BodiesInRadius returns copies of every body whose surface lies within
// radius of center. Ids and the counter are kept.
func (r *Registry) BodiesInRadius(center mgl64.Vec3, radius float64) *Registry {
	out := &Registry{bodies: make([]Body, 0), next: r.next}
	for _, b := range r.bodies {
		if b.Position.Sub(center).Len()-b.Radius <= radius {
			out.bodies = append(out.bodies, b)
		}
	}
	return out
}

// Duplicate returns a deep copy sharing nothing with r.
func (r *Registry) Duplicate() *Registry {
	return &Registry{
		bodies: slices.Clone(r.bodies),
		next:   r.next,
	}
}

// Replace makes r hold other's bodies and counter. other must not be used
// afterwards.
func (r *Registry) Replace(other *Registry) {
	r.bodies = other.bodies
	r.next = other.next
	other.bodies = nil
}

// All yields every body in insertion order. Bodies may be modified in
// place but the registry must not be restructured during iteration.
func (r *Registry) All() iter.Seq[*Body] {
	return func(yield func(*Body) bool) {
		for i := range r.bodies {
			if !yield(&r.bodies[i]) {
				return
			}
		}
	}
}

// Bodies returns a snapshot copy in insertion order.
func (r *Registry) Bodies() []Body {
	return slices.Clone(r.bodies)
}

func (r *Registry) IDs() []uint64 {
	ids := make([]uint64, len(r.bodies))
	for i, b := range r.bodies {
		ids[i] = b.ID
	}
	return ids
}

func (r *Registry) Len() int { return len(r.bodies) }

// NextID is the id the next Insert will assign.
func (r *Registry) NextID() uint64 { return r.next + 1 }

func (r *Registry) TotalMass() float64 {
	m := 0.0
	for _, b := range r.bodies {
		m += b.Mass
	}
	return m
}

func (r *Registry) Momentum() mgl64.Vec3 {
	var p mgl64.Vec3
	for _, b := range r.bodies {
		p = p.Add(b.Momentum())
	}
	return p
}
