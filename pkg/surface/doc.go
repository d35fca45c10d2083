// Package surface implements draw.Surface backends: an SVG document writer
// and a styled rune grid for terminals.
package surface
