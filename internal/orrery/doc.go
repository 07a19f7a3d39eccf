// Package orrery wires the celestial system, the orbit camera and the focus
// controller into one Engine driven by a fixed-rate tick.
//
// The Engine is not safe for concurrent use. Callers on other goroutines
// must hand their requests to the goroutine that calls Tick.
package orrery
