// Package body holds the simulated bodies and the registry that owns them.
//
// A [Body] is a point mass with a position, velocity, mass, collision radius
// and a display colour. Bodies are created with ID 0 and only receive an
// identifier when inserted into a [Registry]:
//
//   - [Registry.Insert]: mint the next id and store a copy
//   - [Registry.Remove]: drop a body by id (absent ids are ignored)
//   - [Registry.Get]: look a body up by id
//   - [Registry.BodiesInRadius]: copies of the bodies near a point
//   - [Registry.Duplicate]: independent deep copy for speculative runs
//
// Identifiers are never reused within one registry, so callers hold ids
// rather than pointers and treat a failed lookup as "that body is gone".
//
// # Thread Safety
//
// A Registry is NOT safe for concurrent mutation. Concurrent readers are
// fine as long as nobody writes; forecasts running off the main loop should
// be handed a [Registry.Duplicate].
package body
