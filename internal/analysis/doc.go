// Package analysis provides tools for characterizing forecast trajectories.
//
//   - [PowerSpectrum] and [DominantPeriod]: FFT of an evenly sampled series
//   - [OrbitalPeriod]: period of a bound orbit around a centre
//   - [Apsides] and [Eccentricity]: closest and farthest approach
//   - [Divergence]: exponential growth rate of a small position perturbation
//   - [SpeedSweep]: orbit outcome as a function of launch speed
//   - [OrbitToASCII]: top-down plot of one or more trajectories
//
// # Orbital Period
//
// Trajectories from the forecast package are sampled every Stride steps, so
// the sample spacing is Stride*Timestep:
//
//	traj, _ := f.Forecast(ctx, planet, reg)
//	period, ok := analysis.OrbitalPeriod(traj.Points, sun.Position, f.SampleInterval())
//	if ok {
//	    fmt.Printf("period %.2f\n", period)
//	}
package analysis
