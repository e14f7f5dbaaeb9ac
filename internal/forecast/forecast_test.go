package forecast_test

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/body"
	"github.com/san-kum/gravsim/internal/forecast"
	"github.com/san-kum/gravsim/internal/physics"
)

func ball(pos, vel mgl64.Vec3, mass, radius float64) body.Body {
	return body.New(pos, vel, mass, radius, colorful.Color{R: 0.5, G: 0.5, B: 0.5})
}

var _ = Describe("Forecaster", func() {
	var (
		ctx context.Context
		reg *body.Registry
		f   *forecast.Forecaster
	)

	BeforeEach(func() {
		ctx = context.Background()
		reg = body.NewRegistry()
		f = forecast.New(physics.NewEngine(1, 0.25), 5, 2)
		f.MaxDistance = 0
	})

	Describe("Forecast", func() {
		It("draws a straight, evenly spaced line when nothing pulls on the body", func() {
			ghost := ball(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 1, 0.5)

			traj, err := f.Forecast(ctx, ghost, reg)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Ended).To(BeFalse())
			Expect(traj.Points).To(Equal([]mgl64.Vec3{
				{0.5, 0, 0}, {1, 0, 0}, {1.5, 0, 0}, {2, 0, 0}, {2.5, 0, 0},
			}))
		})

		It("inserts a hypothetical body only into its private copy", func() {
			reg.Insert(ball(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{}, 5, 1))
			next := reg.NextID()

			traj, err := f.Forecast(ctx, ball(mgl64.Vec3{}, mgl64.Vec3{}, 1, 0.5), reg)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.ID).To(Equal(next))
			Expect(reg.Len()).To(Equal(1))
			Expect(reg.NextID()).To(Equal(next))
		})

		It("tracks an existing body by id and leaves the live registry alone", func() {
			id := reg.Insert(ball(mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, 1, 0.5))
			reg.Insert(ball(mgl64.Vec3{20, 0, 0}, mgl64.Vec3{}, 50, 1))
			before := reg.Bodies()

			tracked, _ := reg.Get(id)
			traj, err := f.Forecast(ctx, *tracked, reg)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.ID).To(Equal(id))
			Expect(traj.Len()).To(Equal(5))
			Expect(reg.Bodies()).To(Equal(before))
		})

		It("ends early when the body is predicted to merge", func() {
			reg.Insert(ball(mgl64.Vec3{}, mgl64.Vec3{}, 1, 1))
			f = forecast.New(physics.NewEngine(1, 0.01), 100, 1)
			f.MaxDistance = 0

			traj, err := f.Forecast(ctx, ball(mgl64.Vec3{-5, 0, 0}, mgl64.Vec3{10, 0, 0}, 0.1, 0.5), reg)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Ended).To(BeTrue())
			Expect(traj.Len()).To(BeNumerically("<", 100))
			Expect(traj.Len()).To(BeNumerically(">", 0))

			last, ok := traj.Last()
			Expect(ok).To(BeTrue())
			Expect(last[0]).To(BeNumerically("<", 0))
		})

		It("returns an empty trajectory for a zero horizon", func() {
			f.Points = 0
			traj, err := f.Forecast(ctx, ball(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 1, 1), reg)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Points).To(BeEmpty())
			Expect(traj.Ended).To(BeFalse())
		})

		It("treats a non-positive stride as one", func() {
			f.Stride = 0
			traj, err := f.Forecast(ctx, ball(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 1, 1), reg)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Points).To(HaveLen(5))
			Expect(traj.Points[0]).To(Equal(mgl64.Vec3{0.25, 0, 0}))
		})

		It("stops sampling a body that wanders past MaxDistance", func() {
			f.Stride = 1
			f.Points = 10
			f.MaxDistance = 1

			traj, err := f.Forecast(ctx, ball(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 1, 1), reg)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Escaped).To(BeTrue())
			Expect(traj.Ended).To(BeFalse())
			Expect(traj.Points).To(HaveLen(5))
		})

		It("gives up when the context is canceled", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()

			traj, err := f.Forecast(canceled, ball(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 1, 1), reg)
			Expect(err).To(MatchError(context.Canceled))
			Expect(traj.Points).To(BeEmpty())
		})
	})

	Describe("ForecastAll", func() {
		var a, b, c uint64

		BeforeEach(func() {
			a = reg.Insert(ball(mgl64.Vec3{-2, 0, 0}, mgl64.Vec3{5, 0, 0}, 1, 0.5))
			b = reg.Insert(ball(mgl64.Vec3{2, 0, 0}, mgl64.Vec3{-5, 0, 0}, 1, 0.5))
			c = reg.Insert(ball(mgl64.Vec3{0, 100, 0}, mgl64.Vec3{}, 1, 0.5))
			f = forecast.New(physics.NewEngine(1, 0.01), 50, 2)
			f.MaxDistance = 0
		})

		It("returns one trajectory per tracked body", func() {
			out, err := f.ForecastAll(ctx, reg)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(HaveLen(3))
			Expect(out).To(HaveKey(a))
			Expect(out).To(HaveKey(b))
			Expect(out).To(HaveKey(c))
		})

		It("ends the colliding pair and keeps sampling the survivor", func() {
			out, err := f.ForecastAll(ctx, reg)
			Expect(err).NotTo(HaveOccurred())

			Expect(out[a].Ended).To(BeTrue())
			Expect(out[b].Ended).To(BeTrue())
			Expect(out[a].Len()).To(Equal(out[b].Len()))
			Expect(out[a].Len()).To(BeNumerically("<", 50))

			Expect(out[c].Ended).To(BeFalse())
			Expect(out[c].Len()).To(Equal(50))
		})

		It("does not modify the source registry", func() {
			before := reg.Bodies()
			_, err := f.ForecastAll(ctx, reg)
			Expect(err).NotTo(HaveOccurred())
			Expect(reg.Bodies()).To(Equal(before))
		})
	})

	Describe("ForecastBatch", func() {
		It("matches sequential forecasts", func() {
			reg.Insert(ball(mgl64.Vec3{}, mgl64.Vec3{}, 100, 1))
			f = forecast.New(physics.NewEngine(1, 0.01), 200, 2)

			tracked := []body.Body{
				ball(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{0, 3, 0}, 1, 0.2),
				ball(mgl64.Vec3{0, 0, 15}, mgl64.Vec3{2.5, 0, 0}, 1, 0.2),
				ball(mgl64.Vec3{-5, 0, 0}, mgl64.Vec3{8, 0, 0}, 1, 0.2),
			}

			batch, err := f.ForecastBatch(ctx, reg, tracked)
			Expect(err).NotTo(HaveOccurred())
			Expect(batch).To(HaveLen(len(tracked)))

			for i, tb := range tracked {
				single, err := f.Forecast(ctx, tb, reg)
				Expect(err).NotTo(HaveOccurred())
				Expect(batch[i].Points).To(Equal(single.Points))
				Expect(batch[i].Ended).To(Equal(single.Ended))
			}
		})
	})
})
