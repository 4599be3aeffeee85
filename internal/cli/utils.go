// Package cli provides output helpers for the vinagrid commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/hyperjump/vinagrid/internal/models"
	"github.com/hyperjump/vinagrid/internal/results"
	"github.com/hyperjump/vinagrid/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat accepts "text" or "json".
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, OutputJSON:
		return OutputFormat(s), nil
	}
	return "", fmt.Errorf("unknown output format %q (want text or json)", s)
}

const maxPathWidth = 40

// RunReport is what the run command prints when a run finishes.
type RunReport struct {
	RunID    string              `json:"run_id"`
	Ligand   string              `json:"ligand"`
	Centers  int                 `json:"centers"`
	WithPose int                 `json:"centers_with_pose"`
	Elapsed  string              `json:"elapsed"`
	Best     *models.PointResult `json:"best,omitempty"`
	Files    []string            `json:"files"`
}

// NewRunReport summarizes run and the result files written for it.
func NewRunReport(run *models.Run, files []string) *RunReport {
	rep := &RunReport{
		RunID:   run.ID,
		Ligand:  run.Params.Ligand,
		Centers: len(run.Points),
		Elapsed: run.Duration().Round(time.Millisecond).String(),
		Best:    run.Best(),
		Files:   files,
	}
	for _, p := range run.Points {
		if p.HasPose {
			rep.WithPose++
		}
	}
	return rep
}

// WriteRunReport writes a finished run summary to w in the given format.
func WriteRunReport(w io.Writer, rep *RunReport, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, rep)
	}
	fmt.Fprintf(w, "Run %s finished in %s\n", rep.RunID, rep.Elapsed)
	fmt.Fprintf(w, "Ligand: %s\n", rep.Ligand)
	fmt.Fprintf(w, "Centers: %d (%d with pose)\n", rep.Centers, rep.WithPose)
	if rep.Best != nil {
		fmt.Fprintf(w, "Best center: %s mean %s ± %s kcal/mol\n",
			rep.Best.Center, rep.Best.MeanCell(), rep.Best.StdDevCell())
	} else {
		fmt.Fprintln(w, "Best center: none (no poses)")
	}
	for _, f := range rep.Files {
		fmt.Fprintf(w, "Wrote %s\n", f)
	}
	return nil
}

// WriteRunList writes stored run summaries as a table or JSON.
func WriteRunList(w io.Writer, runs []*models.RunSummary, total int64, format OutputFormat) error {
	if format == OutputJSON {
		if runs == nil {
			runs = []*models.RunSummary{}
		}
		return writeJSON(w, map[string]interface{}{"runs": runs, "total": total})
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs stored.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tLIGAND\tCENTERS\tWITH POSE\tBEST MEAN")
	for _, r := range runs {
		best := models.NotAvailable
		if r.BestMean != nil {
			best = strconv.FormatFloat(*r.BestMean, 'f', 2, 64)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			r.ID,
			r.StartedAt.Local().Format(models.TimestampLayout),
			utils.Truncate(filepath.Base(r.Ligand), maxPathWidth),
			r.Points, r.WithPose, best,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d of %d runs\n", len(runs), total)
	return nil
}

// WriteRun writes a stored run: parameters followed by the result table, or JSON.
func WriteRun(w io.Writer, run *models.Run, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, run)
	}
	p := run.Params
	fmt.Fprintf(w, "Run:            %s\n", run.ID)
	fmt.Fprintf(w, "Started:        %s\n", run.StartedAt.Local().Format(models.TimestampLayout))
	fmt.Fprintf(w, "Duration:       %s\n", run.Duration().Round(time.Millisecond))
	fmt.Fprintf(w, "Receptor:       %s\n", p.Receptor)
	fmt.Fprintf(w, "Ligand:         %s\n", p.Ligand)
	fmt.Fprintf(w, "Box size:       %s\n", p.Box)
	fmt.Fprintf(w, "Exhaustiveness: %d\n", p.Exhaustiveness)
	fmt.Fprintf(w, "Poses:          %d\n", p.NumPoses)
	fmt.Fprintf(w, "Repeats:        %d\n\n", p.Repeats)
	return results.WriteTSV(w, run.Points, run.WithRMSD)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
