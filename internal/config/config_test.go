package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/vinagrid/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
workers: 4
docking:
  receptor: receptor.pdbqt
  ligand: ./ligands/ligand.pdbqt
  box_size: {x: 20, y: 12, z: 14}
  exhaustiveness: 32
  num_poses: 10
  repeats: 2
  seed: 7
  timeout: 45m
grid:
  x: {min: 60.36, max: 79.24, steps: 5}
  y: {min: -37.89, max: -14.18, steps: 5}
  z: {min: -71.77, max: -52.21, steps: 5}
rmsd:
  enabled: true
  reference: /data/ref.pdb
server:
  host: "127.0.0.1"
  port: 9000
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Dir(path)
	if cfg.Workers != 4 {
		t.Errorf("workers = %d", cfg.Workers)
	}
	d := cfg.Docking
	if d.Receptor != filepath.Join(dir, "receptor.pdbqt") || d.Ligand != filepath.Join(dir, "ligands", "ligand.pdbqt") {
		t.Errorf("paths not resolved against config dir: %q, %q", d.Receptor, d.Ligand)
	}
	if d.BoxSize != (models.BoxSize{X: 20, Y: 12, Z: 14}) || d.Exhaustiveness != 32 || d.NumPoses != 10 || d.Repeats != 2 {
		t.Errorf("docking = %+v", d)
	}
	if d.Timeout != 45*time.Minute {
		t.Errorf("timeout = %v", d.Timeout)
	}
	if cfg.RMSD.Reference != "/data/ref.pdb" || cfg.RMSD.Threshold != 50 || cfg.RMSD.Backend != "obrms" {
		t.Errorf("rmsd = %+v", cfg.RMSD)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
	centers, err := cfg.Grid.Centers()
	if err != nil {
		t.Fatal(err)
	}
	if len(centers) != 125 {
		t.Errorf("centers = %d, want 125", len(centers))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	p := cfg.Docking.Params("")
	if p.Ligand != d.Ligand || p.Seed != 7 {
		t.Errorf("Params() = %+v", p)
	}
	if cfg.Docking.Params("/other.pdbqt").Ligand != "/other.pdbqt" {
		t.Error("Params should use the given ligand")
	}
}

func TestLoad_SingleCenter(t *testing.T) {
	path := writeConfig(t, `
docking:
  receptor: r.pdbqt
grid:
  center: "75, -30, -60"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Output.Basename != DefaultSingleBasename {
		t.Errorf("basename = %q", cfg.Output.Basename)
	}
	centers, err := cfg.Grid.Centers()
	if err != nil {
		t.Fatal(err)
	}
	if len(centers) != 1 || centers[0] != (models.Center{X: 75, Y: -30, Z: -60}) {
		t.Errorf("centers = %v", centers)
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	path := writeConfig(t, `
storage:
  database_path: "./data/runs.db"
watch:
  directories: ["./incoming"]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	dir := filepath.Dir(path)
	if want := filepath.Join(dir, "data", "runs.db"); cfg.Storage.DatabasePath != want {
		t.Errorf("database_path = %s, want %s", cfg.Storage.DatabasePath, want)
	}
	if len(cfg.Watch.Directories) != 1 || cfg.Watch.Directories[0] != filepath.Join(dir, "incoming") {
		t.Errorf("watch directories = %v", cfg.Watch.Directories)
	}
	if cfg.Watch.Recursive == nil || !*cfg.Watch.Recursive {
		t.Error("recursive should default to true when directories are set")
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeConfig(t, "docking: [")); err == nil {
		t.Error("expected parse error")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Workers <= 0 {
		t.Errorf("workers = %d", cfg.Workers)
	}
	d := cfg.Docking
	if d.Binary != "vina" || d.BoxSize != (models.BoxSize{X: 18, Y: 10, Z: 13}) {
		t.Errorf("docking defaults = %+v", d)
	}
	if d.Exhaustiveness != 8 || d.NumPoses != 1 || d.Repeats != 3 {
		t.Errorf("docking defaults = %+v", d)
	}
	if cfg.Output.Basename != DefaultBasename {
		t.Errorf("basename = %q", cfg.Output.Basename)
	}
	if len(cfg.Output.Formats) != 2 {
		t.Errorf("formats = %v", cfg.Output.Formats)
	}
	if cfg.Server.Host != "localhost" || cfg.Server.Port != 8080 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if len(cfg.Watch.Extensions) != 1 || cfg.Watch.Extensions[0] != ".pdbqt" {
		t.Errorf("watch extensions = %v", cfg.Watch.Extensions)
	}
	if cfg.Watch.Recursive != nil {
		t.Error("recursive should stay unset without directories")
	}
}

func TestDefault(t *testing.T) {
	dir := t.TempDir()
	cfg := Default(dir)
	if cfg.Output.PoseDir != filepath.Join(dir, "poses") {
		t.Errorf("pose dir = %q", cfg.Output.PoseDir)
	}
	if !filepath.IsAbs(cfg.Storage.DatabasePath) {
		t.Errorf("database path should be absolute: %q", cfg.Storage.DatabasePath)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default(t.TempDir())
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors for empty config")
	}
	for _, want := range []string{"docking.receptor", "grid"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}

	cfg.Docking.Receptor = "/r.pdbqt"
	cfg.Grid.Center = "1,2,3"
	cfg.RMSD.Enabled = true
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "rmsd.reference") {
		t.Errorf("Validate() = %v, want rmsd.reference error", err)
	}
	cfg.RMSD.Reference = "/ref.pdb"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestWatchConfig_Defaults(t *testing.T) {
	w := &WatchConfig{}
	if !w.RecursiveOrDefault() || !w.SkipDockedOrDefault() {
		t.Error("unset flags should default to true")
	}
	f := false
	w = &WatchConfig{Recursive: &f, SkipDocked: &f}
	if w.RecursiveOrDefault() || w.SkipDockedOrDefault() {
		t.Error("explicit false should be honoured")
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := &Config{
		Server:  ServerConfig{Host: "localhost", Port: 9090},
		Docking: DockingConfig{Receptor: "/r.pdbqt", Repeats: 2},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9090 || loaded.Docking.Repeats != 2 {
		t.Errorf("loaded = %+v", loaded)
	}
}
