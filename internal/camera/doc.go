// Package camera implements a perspective camera and the spherical orbit
// controller that drives it from pointer, wheel and touch input.
//
// The controller keeps the camera on a sphere around a movable target. Input
// handlers only accumulate pending deltas; Update consumes them once per
// frame, clamps the polar angle and radius, and writes the camera.
package camera
