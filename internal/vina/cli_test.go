package vina

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/vinagrid/internal/models"
)

const modeTable = `AutoDock Vina v1.2.5
Performing docking (random seed: 42) ...
0%   10   20   30   40   50   60   70   80   90   100%
|----|----|----|----|----|----|----|----|----|----|
***************************************************

mode |   affinity | dist from best mode
     | (kcal/mol) | rmsd l.b.| rmsd u.b.
-----+------------+----------+----------
   1       -7.512          0          0
   2       -6.900      1.812      2.904
   3       -6.410      2.205      4.117
`

// fakeVina writes an executable shell script standing in for the engine.
func fakeVina(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vina")
	script := "#!/bin/sh\n" + body
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func testRequest(t *testing.T) Request {
	t.Helper()
	return Request{
		Receptor:       "receptor.pdbqt",
		Ligand:         "ligand.pdbqt",
		Center:         models.Center{X: 75, Y: -30, Z: -60},
		Box:            models.BoxSize{X: 18, Y: 10, Z: 13},
		Exhaustiveness: 8,
		NumPoses:       3,
		Output:         filepath.Join(t.TempDir(), "out", "ligand_docked.pdbqt"),
	}
}

func TestCLI_Args(t *testing.T) {
	c := NewCLI("", WithScoring("vina"), WithExtraArgs("--verbosity", "0"))
	req := testRequest(t)
	req.Seed = 7
	req.CPU = 2
	got := strings.Join(c.Args(req), " ")
	for _, want := range []string{
		"--receptor receptor.pdbqt",
		"--center_x 75 --center_y -30 --center_z -60",
		"--size_x 18 --size_y 10 --size_z 13",
		"--exhaustiveness 8",
		"--num_modes 3",
		"--scoring vina",
		"--seed 7",
		"--cpu 2",
		"--verbosity 0",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("args %q missing %q", got, want)
		}
	}
	if c.binary != "vina" {
		t.Errorf("default binary = %q", c.binary)
	}
	req.Seed, req.CPU = 0, 0
	if got := strings.Join(NewCLI("vina").Args(req), " "); strings.Contains(got, "--seed") || strings.Contains(got, "--cpu") {
		t.Errorf("zero seed/cpu should be omitted: %q", got)
	}
}

func TestCLI_DockReadsOutputFile(t *testing.T) {
	bin := fakeVina(t, `out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "--out" ]; then out="$2"; fi
  shift
done
cat > "$out" <<'PDBQT'
MODEL 1
REMARK VINA RESULT:    -8.100      0.000      0.000
ATOM      1  C   UNL     1      76.123 -30.456 -60.789  0.00  0.00    +0.123 C 
ENDMDL
MODEL 2
REMARK VINA RESULT:    -7.300      1.500      2.000
ATOM      1  C   UNL     1      75.000 -31.000 -61.000  0.00  0.00    +0.123 C 
ENDMDL
PDBQT
echo done
`)
	res, err := NewCLI(bin).Dock(context.Background(), testRequest(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Poses) != 2 || res.Poses[0].Affinity != -8.1 || res.Poses[1].RMSDLowerBound != 1.5 {
		t.Errorf("poses = %+v", res.Poses)
	}
	if strings.TrimSpace(res.Stdout) != "done" {
		t.Errorf("stdout = %q", res.Stdout)
	}
}

func TestCLI_DockFallsBackToStdoutTable(t *testing.T) {
	bin := fakeVina(t, "cat <<'EOF'\n"+modeTable+"EOF\n")
	res, err := NewCLI(bin).Dock(context.Background(), testRequest(t))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Poses) != 3 || res.Poses[0].Affinity != -7.512 {
		t.Errorf("poses = %+v", res.Poses)
	}
}

func TestCLI_DockNoPoses(t *testing.T) {
	bin := fakeVina(t, "echo nothing\n")
	_, err := NewCLI(bin).Dock(context.Background(), testRequest(t))
	if !errors.Is(err, ErrNoPoses) {
		t.Errorf("err = %v, want ErrNoPoses", err)
	}
}

func TestCLI_DockFailure(t *testing.T) {
	bin := fakeVina(t, "echo 'loading receptor' >&2\necho 'Error: could not open receptor.pdbqt' >&2\nexit 1\n")
	_, err := NewCLI(bin).Dock(context.Background(), testRequest(t))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "could not open receptor.pdbqt") {
		t.Errorf("error should carry the last stderr line: %v", err)
	}
}

func TestCLI_DockTimeout(t *testing.T) {
	bin := fakeVina(t, "exec sleep 5\n")
	start := time.Now()
	_, err := NewCLI(bin, WithTimeout(100*time.Millisecond)).Dock(context.Background(), testRequest(t))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
	if time.Since(start) > 4*time.Second {
		t.Error("timeout did not stop the engine")
	}
}

func TestCLI_DockInvalidRequest(t *testing.T) {
	req := testRequest(t)
	req.Box = models.BoxSize{X: 18, Y: 0, Z: 13}
	if _, err := NewCLI("vina").Dock(context.Background(), req); err == nil {
		t.Error("expected validation error")
	}
}

func TestParseModeTable(t *testing.T) {
	poses := ParseModeTable(modeTable)
	if len(poses) != 3 {
		t.Fatalf("got %d poses", len(poses))
	}
	if poses[2].Mode != 3 || poses[2].Affinity != -6.41 || poses[2].RMSDUpperBound != 4.117 {
		t.Errorf("pose 3 = %+v", poses[2])
	}
	if got := ParseModeTable("no table here"); len(got) != 0 {
		t.Errorf("got %v", got)
	}
}
