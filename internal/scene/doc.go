// Package scene hosts coin bursts in a 3D scene.
//
// A [Host] is created once per mount with [Initialize] and destroyed with
// [Host.Teardown]. In between it:
//
//   - maps screen pixels to the z=0 world plane through a perspective [Camera]
//   - spawns bursts on request ([Host.Burst])
//   - advances and renders every frame through a [Scheduler]
//
// Rendering is delegated to a [Surface]. Surfaces receive a [Frame] with
// shaded, back-to-front coin [Instance]s, so they need no lighting of their
// own. [Headless] draws nothing and is used for batch runs.
//
// # Frame Loop
//
// The host requests one callback per refresh. [FrameQueue] is the
// single-threaded scheduler used by every front-end: call Pump once per
// display refresh.
//
//	q := scene.NewFrameQueue()
//	h, err := scene.Initialize(vp, surface, q, burst.DefaultParams(), nil)
//	for running {
//	    q.Pump()
//	}
//	h.Teardown()
package scene
