// Package forecast predicts where bodies will go by running the physics
// engine forward on a private copy of a registry.
//
// A [Forecaster] never touches the registry it is given beyond reading it:
// each call works on [body.Registry.Duplicate], so forecasts may run off the
// main loop as long as nobody mutates the source while they copy it.
//
// The run length is bounded by Points*Stride engine steps. The context is
// checked between steps so a caller on a frame budget can give up early.
package forecast
