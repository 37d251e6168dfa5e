package scene

import "errors"

var (
	// ErrNoSurface indicates the render surface could not be created.
	ErrNoSurface = errors.New("scene: no render surface")

	// ErrNoScheduler indicates no frame scheduler was supplied.
	ErrNoScheduler = errors.New("scene: no frame scheduler")

	// ErrEmptyViewport indicates a zero or negative viewport size.
	ErrEmptyViewport = errors.New("scene: empty viewport")

	// ErrTornDown indicates the host was already torn down.
	ErrTornDown = errors.New("scene: host torn down")
)
