package models

import "time"

// DockingParams are the engine settings shared by every center of a run.
type DockingParams struct {
	Receptor       string  `json:"receptor"`
	Ligand         string  `json:"ligand"`
	Box            BoxSize `json:"box_size"`
	Exhaustiveness int     `json:"exhaustiveness"`
	NumPoses       int     `json:"num_poses"`
	Repeats        int     `json:"repeats"`
	Seed           int64   `json:"seed,omitempty"`
}

// Run is one docking experiment over a set of centers.
type Run struct {
	ID         string         `json:"id"`
	LigandID   string         `json:"ligand_id,omitempty"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Params     DockingParams  `json:"params"`
	WithRMSD   bool           `json:"with_rmsd"`
	Points     []*PointResult `json:"points,omitempty"`
}

// Duration is the wall-clock time the run took.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Best returns the point with the lowest mean affinity among points that produced a pose,
// or nil if none did.
func (r *Run) Best() *PointResult {
	var best *PointResult
	for _, p := range r.Points {
		if p == nil || !p.HasPose {
			continue
		}
		if best == nil || p.Mean < best.Mean {
			best = p
		}
	}
	return best
}

// RunSummary is a lightweight listing entry for stored runs.
type RunSummary struct {
	ID         string    `json:"id"`
	Ligand     string    `json:"ligand"`
	LigandID   string    `json:"ligand_id,omitempty"`
	Receptor   string    `json:"receptor"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Points     int64     `json:"points"`
	WithPose   int64     `json:"points_with_pose"`
	BestMean   *float64  `json:"best_mean_affinity,omitempty"`
}
