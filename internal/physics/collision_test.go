package physics_test

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/physics"
)

var (
	red  = colorful.Color{R: 1, G: 0, B: 0}
	blue = colorful.Color{R: 0, G: 0, B: 1}
)

func sphere(x float64, vx, mass, radius float64, c colorful.Color) body.Body {
	return body.New(mgl64.Vec3{x, 0, 0}, mgl64.Vec3{vx, 0, 0}, mass, radius, c)
}

var _ = Describe("Resolve", func() {
	var reg *body.Registry

	BeforeEach(func() {
		reg = body.NewRegistry()
	})

	Context("with two equal bodies approaching head-on", func() {
		var a, b uint64

		BeforeEach(func() {
			a = reg.Insert(sphere(-0.5, 1, 1, 1, red))
			b = reg.Insert(sphere(0.5, -1, 1, 1, blue))
		})

		It("replaces them with one body of double mass at rest", func() {
			m, ok := physics.Resolve(reg, body.Unassigned)
			Expect(ok).To(BeTrue())
			Expect(reg.Len()).To(Equal(1))

			merged, found := reg.Get(m.Result)
			Expect(found).To(BeTrue())
			Expect(merged.Mass).To(Equal(2.0))
			Expect(merged.Velocity.Len()).To(BeNumerically("~", 0, 1e-12))
			Expect(merged.Radius).To(Equal(2.0))
			Expect([]mgl64.Vec3{{-0.5, 0, 0}, {0.5, 0, 0}}).To(ContainElement(merged.Position))
		})

		It("mints a new id and drops both originals", func() {
			m, _ := physics.Resolve(reg, body.Unassigned)
			Expect(m.Result).NotTo(Or(Equal(a), Equal(b)))
			Expect(reg.Contains(a)).To(BeFalse())
			Expect(reg.Contains(b)).To(BeFalse())
			Expect([]uint64{m.A, m.B}).To(ConsistOf(a, b))
		})

		It("blends colours half way", func() {
			m, _ := physics.Resolve(reg, body.Unassigned)
			merged, _ := reg.Get(m.Result)
			Expect(merged.Color.R).To(BeNumerically("~", 0.5, 1e-12))
			Expect(merged.Color.B).To(BeNumerically("~", 0.5, 1e-12))
		})
	})

	Context("with a heavy body and a light body", func() {
		BeforeEach(func() {
			reg.Insert(sphere(0, 0, 1, 1, blue))
			reg.Insert(sphere(1, 2, 9, 1, red))
		})

		It("keeps the heavy body's position and conserves momentum", func() {
			m, ok := physics.Resolve(reg, body.Unassigned)
			Expect(ok).To(BeTrue())

			merged, _ := reg.Get(m.Result)
			Expect(merged.Position).To(Equal(mgl64.Vec3{1, 0, 0}))
			Expect(merged.Mass).To(Equal(10.0))
			Expect(merged.Velocity[0]).To(BeNumerically("~", 1.8, 1e-12))
		})

		It("tints the colour by the mass ratio", func() {
			m, _ := physics.Resolve(reg, body.Unassigned)
			merged, _ := reg.Get(m.Result)
			Expect(merged.Color.R).To(BeNumerically("~", 0.9, 1e-12))
			Expect(merged.Color.B).To(BeNumerically("~", 0.1, 1e-12))
		})
	})

	It("does not merge bodies that only touch", func() {
		reg.Insert(sphere(0, 0, 1, 1, red))
		reg.Insert(sphere(2, 0, 1, 1, blue))

		_, ok := physics.Resolve(reg, body.Unassigned)
		Expect(ok).To(BeFalse())
		Expect(reg.Len()).To(Equal(2))
	})

	It("performs at most one merge per call", func() {
		reg.Insert(sphere(0, 0, 1, 1, red))
		reg.Insert(sphere(0.5, 0, 1, 1, red))
		reg.Insert(sphere(10, 0, 1, 1, blue))
		reg.Insert(sphere(10.5, 0, 1, 1, blue))

		_, ok := physics.Resolve(reg, body.Unassigned)
		Expect(ok).To(BeTrue())
		Expect(reg.Len()).To(Equal(3))

		_, ok = physics.Resolve(reg, body.Unassigned)
		Expect(ok).To(BeTrue())
		Expect(reg.Len()).To(Equal(2))
	})

	It("conserves mass exactly", func() {
		reg.Insert(sphere(0, 0, 0.3, 1, red))
		reg.Insert(sphere(0.1, 0, 7.25, 1, blue))
		before := reg.TotalMass()

		m, ok := physics.Resolve(reg, body.Unassigned)
		Expect(ok).To(BeTrue())
		Expect(m.Mass).To(Equal(0.3 + 7.25))
		Expect(reg.TotalMass()).To(Equal(before))
	})

	It("skips the ignored body", func() {
		ghost := reg.Insert(sphere(0, 0, 1, 1, red))
		reg.Insert(sphere(0.5, 0, 1, 1, blue))

		_, ok := physics.Resolve(reg, ghost)
		Expect(ok).To(BeFalse())
		Expect(reg.Len()).To(Equal(2))
	})
})

var _ = Describe("Combine", func() {
	It("leaves the colour untouched when both bodies are massless", func() {
		merged := physics.Combine(sphere(0, 1, 0, 1, red), sphere(0, 3, 0, 1, blue))
		Expect(merged.Mass).To(BeZero())
		Expect(merged.Color).To(Equal(red))
		Expect(merged.Velocity[0]).To(Equal(2.0))
		Expect(merged.ID).To(Equal(body.Unassigned))
	})

	It("prefers the first body on a mass tie", func() {
		a := sphere(-3, 0, 5, 1, red)
		b := sphere(3, 0, 5, 1, blue)
		Expect(physics.Combine(a, b).Position).To(Equal(a.Position))
	})
})
