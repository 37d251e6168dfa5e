// Package burst simulates short-lived bursts of coin particles.
//
// A [Simulation] owns the live set. [Simulation.SpawnBurst] appends a batch
// sharing one origin, and [Simulation.Advance] steps every particle by one
// frame:
//
//   - position integrates velocity, velocity integrates gravity
//   - rotation integrates angular velocity
//   - life counts down by [LifeStep]; the last [FadeLife] units fade opacity
//   - particles whose life reaches zero are culled in place
//
// # Live Tuning
//
// The simulation reads gravity through a pointer to a [Params] value owned
// by the caller, so edits apply to every live particle on the next frame:
//
//	params := burst.DefaultParams()
//	s := burst.New(&params, nil)
//	params.Gravity = 0.03
package burst
