package main

import (
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hyperjump/vinagrid/internal/config"
	"github.com/hyperjump/vinagrid/internal/models"
)

func TestArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after run id are moved first",
			args:     []string{"1b9d6bcd", "-output", "json"},
			expected: []string{"-output", "json", "1b9d6bcd"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-output", "json", "1b9d6bcd"},
			expected: []string{"-output", "json", "1b9d6bcd"},
		},
		{
			name:     "run id only returns unchanged",
			args:     []string{"1b9d6bcd"},
			expected: []string{"1b9d6bcd"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "double-dash flag",
			args:     []string{"1b9d6bcd", "--config", "/tmp/c.yaml"},
			expected: []string{"--config", "/tmp/c.yaml", "1b9d6bcd"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := argsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("argsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"tsv,csv", []string{"tsv", "csv"}},
		{" TSV , xlsx ,", []string{"tsv", "xlsx"}},
		{"", nil},
	}
	for _, tt := range tests {
		if got := splitList(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWatchBasename(t *testing.T) {
	if got := watchBasename("/data/in/aspirin.pdbqt", "affinity_results"); got != "aspirin_affinity_results" {
		t.Errorf("watchBasename() = %q", got)
	}
}

func parseRunFlags(t *testing.T, args ...string) (*flag.FlagSet, *runFlags) {
	t.Helper()
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	var rf runFlags
	rf.register(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return fs, &rf
}

func TestRunFlags_OverrideOnlySetValues(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Docking.Exhaustiveness = 16

	fs, rf := parseRunFlags(t, "-ligand", "lig.pdbqt", "-repeats", "5", "-box", "20,20,20", "-format", "tsv,xlsx", "-workers", "1")
	if err := rf.apply(fs, cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Docking.Ligand != "lig.pdbqt" || cfg.Docking.Repeats != 5 || cfg.Workers != 1 {
		t.Errorf("docking config = %+v, workers = %d", cfg.Docking, cfg.Workers)
	}
	if cfg.Docking.BoxSize != (models.BoxSize{X: 20, Y: 20, Z: 20}) {
		t.Errorf("box = %+v", cfg.Docking.BoxSize)
	}
	if !reflect.DeepEqual(cfg.Output.Formats, []string{"tsv", "xlsx"}) {
		t.Errorf("formats = %v", cfg.Output.Formats)
	}
	if cfg.Docking.Exhaustiveness != 16 {
		t.Errorf("unset flag overrode exhaustiveness: %d", cfg.Docking.Exhaustiveness)
	}
	if cfg.Output.Basename != config.DefaultBasename {
		t.Errorf("basename = %q, want %q", cfg.Output.Basename, config.DefaultBasename)
	}
}

func TestRunFlags_SingleCenterBasename(t *testing.T) {
	cfg := config.Default(t.TempDir())
	fs, rf := parseRunFlags(t, "-center", "75,-30,-60")
	if err := rf.apply(fs, cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Output.Basename != config.DefaultSingleBasename {
		t.Errorf("basename = %q, want %q", cfg.Output.Basename, config.DefaultSingleBasename)
	}
	centers, err := cfg.Grid.Centers()
	if err != nil {
		t.Fatal(err)
	}
	if len(centers) != 1 || centers[0] != (models.Center{X: 75, Y: -30, Z: -60}) {
		t.Errorf("centers = %v", centers)
	}

	cfg = config.Default(t.TempDir())
	fs, rf = parseRunFlags(t, "-center", "75,-30,-60", "-basename", "mine")
	if err := rf.apply(fs, cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Output.Basename != "mine" {
		t.Errorf("explicit basename replaced: %q", cfg.Output.Basename)
	}
}

func TestRunFlags_InvalidValues(t *testing.T) {
	for _, args := range [][]string{
		{"-center", "75,-30"},
		{"-box", "a,b,c"},
	} {
		cfg := config.Default(t.TempDir())
		fs, rf := parseRunFlags(t, args...)
		if err := rf.apply(fs, cfg); err == nil {
			t.Errorf("apply(%v) should fail", args)
		}
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
docking:
  receptor: "receptor.pdbqt"
  repeats: 2
storage:
  database_path: "test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// On macOS, cwd can be /private/var/... while configPath from t.TempDir() is /var/...; compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s (canon %s), want %s (canon %s)", resolved, resolvedCanon, configPath, configPathCanon)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
	if cfg.Docking.Repeats != 2 {
		t.Errorf("repeats = %d, want 2", cfg.Docking.Repeats)
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
storage:
  database_path: "test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
}

func TestLoadConfig_defaultsWithoutFile(t *testing.T) {
	if _, err := os.Stat(defaultConfigPath); err == nil {
		t.Skip("system config present")
	}
	dir := t.TempDir()
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != "" {
		t.Errorf("resolved path = %q, want built-in defaults", resolved)
	}
	if cfg.Docking.Repeats != 3 || cfg.Docking.Binary != "vina" {
		t.Errorf("unexpected defaults: %+v", cfg.Docking)
	}
}

func TestLoadConfig_missingExplicitPath(t *testing.T) {
	if _, _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}
