// Package vina drives the AutoDock Vina docking engine: one Dock call computes the maps for a
// search box, runs the pose search and returns the per-pose energy table.
package vina

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/vinagrid/internal/models"
)

// ErrNoPoses is returned when the engine finished without producing any pose.
var ErrNoPoses = errors.New("docking produced no poses")

// Request is a single docking call.
type Request struct {
	Receptor       string
	Ligand         string
	Center         models.Center
	Box            models.BoxSize
	Exhaustiveness int
	NumPoses       int
	// Seed is passed to the engine when non-zero; zero lets the engine pick one.
	Seed int64
	// CPU limits engine threads; zero means engine default.
	CPU int
	// Output is the PDBQT file the poses are written to (overwritten).
	Output string
}

// Validate reports the first missing or out-of-range field.
func (r Request) Validate() error {
	switch {
	case r.Receptor == "":
		return errors.New("receptor is required")
	case r.Ligand == "":
		return errors.New("ligand is required")
	case r.Output == "":
		return errors.New("output path is required")
	case !r.Box.Valid():
		return fmt.Errorf("box size must be positive, got %s", r.Box)
	case r.Exhaustiveness <= 0:
		return fmt.Errorf("exhaustiveness must be positive, got %d", r.Exhaustiveness)
	case r.NumPoses <= 0:
		return fmt.Errorf("num_poses must be positive, got %d", r.NumPoses)
	}
	return nil
}

// Result is the outcome of a docking call. Poses are ordered best first.
type Result struct {
	Output string
	Poses  []models.Pose
	Stdout string
}

// Engine docks a ligand into a receptor inside one search box.
type Engine interface {
	Dock(ctx context.Context, req Request) (*Result, error)
}
