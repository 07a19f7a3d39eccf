// Package viz draws the orrery in the terminal.
//
// [Model] is a Bubble Tea program around an [orrery.Engine]. Each frame ticks
// the engine and renders bodies, orbit paths and labels onto a braille
// [Canvas] through the engine camera. Mouse drags orbit the camera, the wheel
// zooms, and a click focuses the body under the pointer.
//
// # Key Bindings
//
//	Space  - Pause/Resume body motion
//	Tab    - Focus the next star or planet
//	Esc    - Unfocus
//	C      - Fly the camera home
//	B      - Body list
//	?      - Show help overlay
package viz
