package rmsd

import (
	"context"
	"fmt"
	"math"

	"github.com/hyperjump/vinagrid/internal/pdbqt"
)

// InPlace compares each pose to the reference without superposition: every reference heavy
// atom is paired with the nearest heavy atom of the pose and the RMSD of those pairs is
// reported. Poses and reference share the receptor frame, so no alignment is applied.
type InPlace struct {
	maxPoses int
}

// NewInPlace returns an in-place calculator keeping at most maxPoses values (0 = all).
func NewInPlace(maxPoses int) *InPlace {
	return &InPlace{maxPoses: maxPoses}
}

// Compute implements Calculator. Poses without heavy atoms are skipped.
func (c *InPlace) Compute(ctx context.Context, reference, poses string) ([]float64, error) {
	refModels, err := pdbqt.ReadFile(reference)
	if err != nil {
		return nil, fmt.Errorf("read reference: %w", err)
	}
	ref := pdbqt.HeavyAtoms(refModels[0].Atoms)
	if len(ref) == 0 {
		return nil, fmt.Errorf("reference %s has no heavy atoms", reference)
	}
	poseModels, err := pdbqt.ReadFile(poses)
	if err != nil {
		return nil, fmt.Errorf("read poses: %w", err)
	}
	var out []float64
	for _, m := range poseModels {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if c.maxPoses > 0 && len(out) >= c.maxPoses {
			break
		}
		mobile := pdbqt.HeavyAtoms(m.Atoms)
		if len(mobile) == 0 {
			continue
		}
		out = append(out, NearestAtomRMSD(ref, mobile))
	}
	return out, nil
}

// NearestAtomRMSD pairs every atom of ref with its nearest atom in mobile and returns the
// root-mean-square of the pair distances. mobile must not be empty.
func NearestAtomRMSD(ref, mobile []pdbqt.Atom) float64 {
	var sum float64
	for _, r := range ref {
		best := math.Inf(1)
		for _, m := range mobile {
			if d := sqDist(r, m); d < best {
				best = d
			}
		}
		sum += best
	}
	return math.Sqrt(sum / float64(len(ref)))
}

func sqDist(a, b pdbqt.Atom) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return dx*dx + dy*dy + dz*dz
}
