// Package viz is the terminal front-end for coinburst.
//
// The scene is rasterized into a braille [Canvas] by [CanvasSurface], two
// dots wide and four tall per cell, with fading coins dithered out. [App]
// wraps it in a Bubble Tea program with the switch in the status line.
//
// # Key Bindings
//
//	Space/Enter - Toggle the switch
//	Up/Down     - Raise or lower gravity
//	T           - Cycle themes
//	Q           - Quit
//
// The switch also responds to mouse clicks.
package viz
