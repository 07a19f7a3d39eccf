// Package celestial advances the prescribed motion of a star system.
//
// A [System] owns one [BodyState] per body and writes resulting transforms
// into scene nodes every tick. The hierarchy is fixed:
//
//	root
//	└── galactic group (slow rotation, frozen while the camera follows a body)
//	    ├── star (self-rotation only)
//	    ├── planets (elliptical orbit + self-rotation)
//	    │   └── moons (circular orbit in the parent's local frame)
//	    ├── orbit paths
//	    └── labels
//
// Bodies are addressed by stable string ids; the id → {node, parent} mapping
// is explicit, so no tree walk is needed to resolve a body.
package celestial
