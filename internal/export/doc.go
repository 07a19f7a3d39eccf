// Package export writes recordings and rendered canvases as SVG.
package export
