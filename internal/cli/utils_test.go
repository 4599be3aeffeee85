package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/vinagrid/internal/models"
)

func sampleRun() *models.Run {
	start := time.Date(2025, 2, 13, 10, 0, 0, 0, time.UTC)
	return &models.Run{
		ID:         "run-1",
		StartedAt:  start,
		FinishedAt: start.Add(90 * time.Second),
		Params: models.DockingParams{
			Receptor:       "/data/receptor.pdbqt",
			Ligand:         "/data/ligand.pdbqt",
			Box:            models.BoxSize{X: 18, Y: 10, Z: 13},
			Exhaustiveness: 8,
			NumPoses:       1,
			Repeats:        3,
		},
		Points: []*models.PointResult{
			{Timestamp: start, Center: models.Center{X: 1, Y: 2, Z: 3}, Affinities: []float64{-7}, Mean: -7, HasPose: true},
			{Timestamp: start, Center: models.Center{X: 4, Y: 5, Z: 6}, Affinities: []float64{-9}, Mean: -9, HasPose: true},
			{Timestamp: start, Center: models.Center{X: 7, Y: 8, Z: 9}},
		},
	}
}

func TestParseOutputFormat(t *testing.T) {
	for _, s := range []string{"text", "json"} {
		if _, err := ParseOutputFormat(s); err != nil {
			t.Errorf("ParseOutputFormat(%q): %v", s, err)
		}
	}
	if _, err := ParseOutputFormat("yaml"); err == nil {
		t.Error("expected error for yaml")
	}
}

func TestWriteRunReport_Text(t *testing.T) {
	rep := NewRunReport(sampleRun(), []string{"out/affinity_results.txt"})
	if rep.Centers != 3 || rep.WithPose != 2 {
		t.Errorf("report = %+v", rep)
	}
	if rep.Best == nil || rep.Best.Center.X != 4 {
		t.Errorf("best = %+v", rep.Best)
	}
	var buf bytes.Buffer
	if err := WriteRunReport(&buf, rep, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Run run-1 finished in 1m30s", "Centers: 3 (2 with pose)", "(4, 5, 6) mean -9.00", "Wrote out/affinity_results.txt"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteRunReport_NoPose(t *testing.T) {
	run := sampleRun()
	run.Points = run.Points[2:]
	var buf bytes.Buffer
	if err := WriteRunReport(&buf, NewRunReport(run, nil), OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "none (no poses)") {
		t.Errorf("output = %s", buf.String())
	}
}

func TestWriteRunReport_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRunReport(&buf, NewRunReport(sampleRun(), []string{"a.csv"}), OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded RunReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.RunID != "run-1" || len(decoded.Files) != 1 || decoded.Best == nil {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteRunList(t *testing.T) {
	best := -8.25
	runs := []*models.RunSummary{
		{ID: "a", Ligand: "/x/" + strings.Repeat("l", 60) + ".pdbqt", StartedAt: time.Now(), Points: 125, WithPose: 120, BestMean: &best},
		{ID: "b", Ligand: "lig.pdbqt", StartedAt: time.Now(), Points: 1},
	}
	var buf bytes.Buffer
	if err := WriteRunList(&buf, runs, 5, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "BEST MEAN") || !strings.Contains(out, "-8.25") || !strings.Contains(out, "N/A") {
		t.Errorf("table = %s", out)
	}
	if !strings.Contains(out, "...") {
		t.Error("long ligand names should be truncated")
	}
	if !strings.Contains(out, "2 of 5 runs") {
		t.Errorf("footer missing: %s", out)
	}

	buf.Reset()
	if err := WriteRunList(&buf, nil, 0, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No runs stored") {
		t.Errorf("empty list = %q", buf.String())
	}

	buf.Reset()
	if err := WriteRunList(&buf, nil, 0, OutputJSON); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"runs": []`) {
		t.Errorf("empty JSON list = %s", buf.String())
	}
}

func TestWriteRun_Text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRun(&buf, sampleRun(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Run:            run-1", "Box size:       [18, 10, 13]", "Timestamp\tGrid Center", "No Pose"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
