package models

import (
	"strconv"
	"strings"
	"time"
)

// Placeholders written in place of numbers when a center produced nothing usable.
const (
	NoPose       = "No Pose"
	NotAvailable = "N/A"
)

// TimestampLayout is the layout of the Timestamp column in result tables.
const TimestampLayout = "2006-01-02 15:04:05"

// Pose is one row of the engine's per-pose energy table.
type Pose struct {
	Mode           int     `json:"mode"`
	Affinity       float64 `json:"affinity"`
	RMSDLowerBound float64 `json:"rmsd_lb"`
	RMSDUpperBound float64 `json:"rmsd_ub"`
}

// Trial is a single docking repeat at one center.
type Trial struct {
	Repeat     int    `json:"repeat"`
	OutputPath string `json:"output_path,omitempty"`
	Poses      []Pose `json:"poses,omitempty"`
	Error      string `json:"error,omitempty"`
}

// OK reports whether the trial produced at least one pose.
func (t *Trial) OK() bool {
	return t.Error == "" && len(t.Poses) > 0
}

// BestAffinity returns the affinity of the top-ranked pose.
func (t *Trial) BestAffinity() float64 {
	if len(t.Poses) == 0 {
		return 0
	}
	return t.Poses[0].Affinity
}

// PointResult is the aggregated outcome at one grid center. It is computed once and
// never mutated after being appended to a run.
type PointResult struct {
	Index      int       `json:"index"`
	Timestamp  time.Time `json:"timestamp"`
	Center     Center    `json:"center"`
	Affinities []float64 `json:"affinities"`
	RMSDs      []float64 `json:"rmsds"`
	Mean       float64   `json:"mean_affinity"`
	StdDev     float64   `json:"std_dev"`
	HasPose    bool      `json:"has_pose"`
	Trials     []Trial   `json:"trials,omitempty"`
}

// MeanCell renders the mean affinity or the "No Pose" placeholder.
func (p *PointResult) MeanCell() string {
	if !p.HasPose {
		return NoPose
	}
	return formatScore(p.Mean)
}

// StdDevCell renders the standard deviation or "N/A".
func (p *PointResult) StdDevCell() string {
	if !p.HasPose {
		return NotAvailable
	}
	return formatScore(p.StdDev)
}

// AffinitiesCell renders all per-trial affinities as "a, b, c" or "N/A".
func (p *PointResult) AffinitiesCell() string {
	if !p.HasPose {
		return NotAvailable
	}
	return JoinScores(p.Affinities)
}

// RMSDsCell renders per-pose RMSDs as "a, b, c" or "N/A". A center without poses
// never reports RMSDs.
func (p *PointResult) RMSDsCell() string {
	if !p.HasPose || len(p.RMSDs) == 0 {
		return NotAvailable
	}
	return JoinScores(p.RMSDs)
}

// Cells renders one result-table row. The RMSD column is included only when withRMSD is set.
func (p *PointResult) Cells(withRMSD bool) []string {
	row := []string{
		p.Timestamp.Format(TimestampLayout),
		p.Center.String(),
		p.MeanCell(),
		p.StdDevCell(),
		p.AffinitiesCell(),
	}
	if withRMSD {
		row = append(row, p.RMSDsCell())
	}
	return row
}

// JoinScores formats values with two decimals joined by ", ". Empty input yields "N/A".
func JoinScores(values []float64) string {
	if len(values) == 0 {
		return NotAvailable
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatScore(v)
	}
	return strings.Join(parts, ", ")
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
