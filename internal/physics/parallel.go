package physics

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravsim/internal/body"
)

// parallelThreshold is the body count below which the kick runs serially.
const parallelThreshold = 16

// kick applies one timestep of gravity from the bodies in src to the
// matching bodies in dst. Each body sums its forces over src in the same
// order whether or not the work is split, so the split never changes the
// result.
func (e Engine) kick(src []body.Body, dst []*body.Body) {
	apply := func(lo, hi int) {
		for _, b := range dst[lo:hi] {
			var f mgl64.Vec3
			for i := range src {
				o := &src[i]
				if o.ID == b.ID {
					continue
				}
				f = f.Add(GravitationalForce(b.Mass, o.Mass, e.G, o.Position.Sub(b.Position)))
			}
			b.AddVelocity(VelocityDelta(f, b.Mass, e.Timestep))
		}
	}

	n := len(dst)
	workers := min(e.Workers, n)
	if workers <= 1 || n < parallelThreshold {
		apply(0, n)
		return
	}

	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			apply(lo, hi)
		}()
	}
	wg.Wait()
}
