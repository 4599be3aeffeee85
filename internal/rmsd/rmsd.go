// Package rmsd computes per-pose RMSD of docked poses against a reference ligand, either
// through Open Babel's obrms or in place in the receptor frame.
package rmsd

import (
	"context"
	"fmt"
)

// DefaultThreshold is the bound at or above which a value is treated as a failed match.
const DefaultThreshold = 50.0

// Calculator returns one RMSD per pose in the poses file, in file order.
type Calculator interface {
	Compute(ctx context.Context, reference, poses string) ([]float64, error)
}

// Filter keeps values strictly below threshold. A non-positive threshold keeps everything.
func Filter(values []float64, threshold float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if threshold > 0 && v >= threshold {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Backend names accepted by New.
const (
	BackendOBRMS   = "obrms"
	BackendInPlace = "inplace"
)

// Options configures New.
type Options struct {
	Backend      string
	OBRMSBinary  string
	ObabelBinary string
	Convert      bool
	ConvertArgs  []string
	MaxPoses     int
}

// New returns the calculator named by opts.Backend.
func New(opts Options) (Calculator, error) {
	switch opts.Backend {
	case "", BackendOBRMS:
		o := []OBRMSOption{WithMaxPoses(opts.MaxPoses)}
		if opts.Convert {
			o = append(o, WithConversion(opts.ObabelBinary, opts.ConvertArgs...))
		}
		return NewOBRMS(opts.OBRMSBinary, o...), nil
	case BackendInPlace:
		return NewInPlace(opts.MaxPoses), nil
	default:
		return nil, fmt.Errorf("unknown rmsd backend %q", opts.Backend)
	}
}
