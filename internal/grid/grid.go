// Package grid builds the set of search-box centers a run docks over.
package grid

import (
	"fmt"

	"github.com/hyperjump/vinagrid/internal/models"
	"github.com/hyperjump/vinagrid/pkg/utils"
)

// Axis is one linearly spaced coordinate range. Both Min and Max are included.
type Axis struct {
	Min   float64 `yaml:"min" json:"min"`
	Max   float64 `yaml:"max" json:"max"`
	Steps int     `yaml:"steps" json:"steps"`
}

// Values returns the axis values (see Linspace).
func (a Axis) Values() []float64 {
	return Linspace(a.Min, a.Max, a.Steps)
}

// Spec describes a three-axis grid.
type Spec struct {
	X Axis `yaml:"x" json:"x"`
	Y Axis `yaml:"y" json:"y"`
	Z Axis `yaml:"z" json:"z"`
}

// Size is the number of centers Centers will return.
func (s Spec) Size() int {
	if s.X.Steps <= 0 || s.Y.Steps <= 0 || s.Z.Steps <= 0 {
		return 0
	}
	return s.X.Steps * s.Y.Steps * s.Z.Steps
}

// Validate reports an error when any axis has no steps.
func (s Spec) Validate() error {
	for name, a := range map[string]Axis{"x": s.X, "y": s.Y, "z": s.Z} {
		if a.Steps <= 0 {
			return fmt.Errorf("grid axis %s: steps must be positive, got %d", name, a.Steps)
		}
	}
	return nil
}

// Linspace returns n evenly spaced values from start to end inclusive, each rounded to
// two decimals. n == 1 yields [start]; n <= 0 yields an empty slice.
func Linspace(start, end float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	if n == 1 {
		return []float64{utils.Round(start, 2)}
	}
	out := make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := 0; i < n; i++ {
		out[i] = utils.Round(start+float64(i)*step, 2)
	}
	// Pin the last value so accumulated error never drops the endpoint.
	out[n-1] = utils.Round(end, 2)
	return out
}

// Centers returns the Cartesian product of the three axes, x outermost and z innermost.
func Centers(s Spec) []models.Center {
	xs, ys, zs := s.X.Values(), s.Y.Values(), s.Z.Values()
	out := make([]models.Center, 0, len(xs)*len(ys)*len(zs))
	for _, x := range xs {
		for _, y := range ys {
			for _, z := range zs {
				out = append(out, models.Center{X: x, Y: y, Z: z})
			}
		}
	}
	return out
}

// Single returns a one-point grid.
func Single(c models.Center) []models.Center {
	return []models.Center{c}
}
