package experiment

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/sim"
)

// EnsembleRun is one member of an ensemble.
type EnsembleRun struct {
	Seed   int64
	Result *sim.Result
	// Bodies is the body count once the run finished.
	Bodies int
	// Bound reports whether every remaining body stayed within the forecast
	// escape distance of the origin.
	Bound bool
}

// RunEnsemble runs cfg once per seed in [cfg.Seed, cfg.Seed+runs) in
// parallel. Only generated scenes differ between seeds. newMetrics is called
// once per run so metrics are never shared between goroutines.
func RunEnsemble(ctx context.Context, cfg *config.Config, runs int, newMetrics func(g float64) []sim.Metric) ([]EnsembleRun, error) {
	out := make([]EnsembleRun, runs)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range runs {
		g.Go(func() error {
			member := cfg.Clone()
			member.Seed = cfg.Seed + int64(i)

			exp, err := New(member)
			if err != nil {
				return err
			}
			if newMetrics != nil {
				exp.Setup(newMetrics(member.G))
			}

			result, err := exp.Run(gctx)
			if err != nil {
				return err
			}

			limit := member.Forecast.MaxDistance
			if limit <= 0 {
				limit = config.DefaultMaxDistance
			}
			bound := true
			for b := range exp.Bodies().All() {
				if b.Position.Len() > limit {
					bound = false
					break
				}
			}

			out[i] = EnsembleRun{
				Seed:   member.Seed,
				Result: result,
				Bodies: exp.Bodies().Len(),
				Bound:  bound,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// EnsembleStats returns the mean and sample standard deviation of a metric
// across runs. Runs without the metric are skipped.
func EnsembleStats(runs []EnsembleRun, metric string) (mean, std float64) {
	values := make([]float64, 0, len(runs))
	for _, r := range runs {
		if r.Result == nil {
			continue
		}
		if v, ok := r.Result.Metrics[metric]; ok {
			values = append(values, v)
		}
	}
	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return values[0], 0
	}
	return stat.MeanStdDev(values, nil)
}
