// Package render holds the cell grid, the drawing primitives over it, and the
// differential renderer that brings a terminal in line with successive grids.
package render
