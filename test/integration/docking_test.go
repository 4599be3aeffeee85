// Package integration provides end-to-end tests (fake engine, real storage and result files).
package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/vinagrid/internal/docking"
	"github.com/hyperjump/vinagrid/internal/grid"
	"github.com/hyperjump/vinagrid/internal/models"
	"github.com/hyperjump/vinagrid/internal/results"
	"github.com/hyperjump/vinagrid/internal/rmsd"
	"github.com/hyperjump/vinagrid/internal/storage"
	"github.com/hyperjump/vinagrid/internal/vina"
)

// fakeVina fails at z == 1 and otherwise writes one pose at (75, -30, -60) scored by x.
const fakeVina = `#!/bin/sh
out=""; cx=""; cz=""
while [ $# -gt 0 ]; do
  case "$1" in
    --out) out="$2" ;;
    --center_x) cx="$2" ;;
    --center_z) cz="$2" ;;
  esac
  shift
done
if [ "$cz" = "1" ]; then
  echo "Error: search space out of receptor" >&2
  exit 1
fi
aff="-7.500"
if [ "$cx" = "2" ]; then aff="-8.500"; fi
cat > "$out" <<PDBQT
MODEL 1
REMARK VINA RESULT:    $aff      0.000      0.000
ATOM      1  C   UNL     1      75.000 -30.000 -60.000  0.00  0.00    +0.123 C 
ENDMDL
PDBQT
`

const reference = "ATOM      1  C   LIG     1      75.000 -30.000 -60.000  1.00  0.00           C\n"

func writeFile(t *testing.T, path, content string, perm os.FileMode) string {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), perm); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIntegration_GridRun(t *testing.T) {
	dir := t.TempDir()
	bin := writeFile(t, filepath.Join(dir, "vina"), fakeVina, 0755)
	ref := writeFile(t, filepath.Join(dir, "ref.pdb"), reference, 0644)
	ligand := writeFile(t, filepath.Join(dir, "aspirin.pdbqt"), "ROOT\nENDROOT\n", 0644)

	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "runs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	calc, err := rmsd.New(rmsd.Options{Backend: rmsd.BackendInPlace, MaxPoses: 1})
	if err != nil {
		t.Fatal(err)
	}
	runner, err := docking.NewRunner(vina.NewCLI(bin), docking.Config{
		Params: models.DockingParams{
			Receptor:       "receptor.pdbqt",
			Ligand:         ligand,
			Box:            models.BoxSize{X: 18, Y: 10, Z: 13},
			Exhaustiveness: 8,
			NumPoses:       1,
			Repeats:        2,
		},
		PoseDir: filepath.Join(dir, "poses"),
		Workers: 2,
	}, docking.WithRMSD(calc, ref))
	if err != nil {
		t.Fatal(err)
	}

	centers := grid.Centers(grid.Spec{
		X: grid.Axis{Min: 1, Max: 2, Steps: 2},
		Y: grid.Axis{Min: 0, Max: 0, Steps: 1},
		Z: grid.Axis{Min: 0, Max: 1, Steps: 2},
	})
	ctx := context.Background()
	run, err := runner.Run(ctx, centers)
	if err != nil {
		t.Fatal(err)
	}
	if len(run.Points) != 4 {
		t.Fatalf("points = %d, want 4", len(run.Points))
	}
	for i, p := range run.Points {
		if p.Center != centers[i] {
			t.Errorf("point %d center = %v, want %v", i, p.Center, centers[i])
		}
		if wantPose := p.Center.Z == 0; p.HasPose != wantPose {
			t.Errorf("point %v HasPose = %v", p.Center, p.HasPose)
		}
	}
	if best := run.Best(); best == nil || best.Center != (models.Center{X: 2, Y: 0, Z: 0}) || best.Mean != -8.5 {
		t.Errorf("best = %+v", best)
	}
	if got := run.Points[0].RMSDs; len(got) != 1 || got[0] != 0 {
		t.Errorf("rmsds = %v, want [0]", got)
	}
	if _, err := os.Stat(runner.PosePath(centers[0], 2)); err != nil {
		t.Errorf("pose file missing: %v", err)
	}

	w, err := results.NewWriter(dir, "affinity_results", results.FormatTSV, results.FormatCSV, results.FormatXLSX)
	if err != nil {
		t.Fatal(err)
	}
	files, err := w.Write(run)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("files = %v", files)
	}
	tsv, err := os.ReadFile(w.Path(results.FormatTSV))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(tsv), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("tsv has %d lines, want header, separator and 4 rows", len(lines))
	}
	if !strings.Contains(lines[3], models.NoPose) {
		t.Errorf("row for (1, 0, 1) should carry the placeholder: %q", lines[3])
	}

	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatal(err)
	}
	got, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Points) != 4 || got.Points[2].Mean != -8.5 || got.Points[1].HasPose {
		t.Errorf("stored run points = %+v", got.Points)
	}
	runs, err := store.ListRuns(ctx, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Points != 4 || runs[0].WithPose != 2 {
		t.Errorf("run summaries = %+v", runs)
	}
}
