// Package models defines core data structures for search-box centers, docking trials, and run results.
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Center is a search-box center in receptor coordinates (Angstrom).
type Center struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// String renders the center as "(x, y, z)" using the shortest float representation,
// so integral coordinates print as "75" and grid values as "60.36".
func (c Center) String() string {
	return "(" + formatCoord(c.X) + ", " + formatCoord(c.Y) + ", " + formatCoord(c.Z) + ")"
}

// Slug renders the center as "x_y_z" for use in file names.
func (c Center) Slug() string {
	return formatCoord(c.X) + "_" + formatCoord(c.Y) + "_" + formatCoord(c.Z)
}

// ParseCenter parses "x,y,z" (spaces and surrounding parentheses allowed).
func ParseCenter(s string) (Center, error) {
	vals, err := parseTriple(s)
	if err != nil {
		return Center{}, fmt.Errorf("invalid center %q: %w", s, err)
	}
	return Center{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

// BoxSize holds the search-box edge lengths passed to the engine as size_x, size_y, size_z.
type BoxSize struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// String renders the box as "[x, y, z]".
func (b BoxSize) String() string {
	return "[" + formatCoord(b.X) + ", " + formatCoord(b.Y) + ", " + formatCoord(b.Z) + "]"
}

// Valid reports whether every dimension is positive.
func (b BoxSize) Valid() bool {
	return b.X > 0 && b.Y > 0 && b.Z > 0
}

// ParseBoxSize parses "x,y,z".
func ParseBoxSize(s string) (BoxSize, error) {
	vals, err := parseTriple(s)
	if err != nil {
		return BoxSize{}, fmt.Errorf("invalid box size %q: %w", s, err)
	}
	return BoxSize{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

func parseTriple(s string) ([3]float64, error) {
	var out [3]float64
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return out, fmt.Errorf("expected 3 comma-separated values, got %d", len(parts))
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
