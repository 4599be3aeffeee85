package config

import (
	"runtime"
	"time"

	"github.com/hyperjump/vinagrid/internal/models"
	"github.com/hyperjump/vinagrid/internal/rmsd"
	"github.com/hyperjump/vinagrid/internal/results"
)

// Default output basenames for grid and single-center runs.
const (
	DefaultBasename       = "affinity_results"
	DefaultSingleBasename = "affinity_results_single"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}

	d := &cfg.Docking
	if d.Binary == "" {
		d.Binary = "vina"
	}
	if d.BoxSize == (models.BoxSize{}) {
		d.BoxSize = models.BoxSize{X: 18, Y: 10, Z: 13}
	}
	if d.Exhaustiveness == 0 {
		d.Exhaustiveness = 8
	}
	if d.NumPoses == 0 {
		d.NumPoses = 1
	}
	if d.Repeats == 0 {
		d.Repeats = 3
	}
	if d.Timeout == 0 {
		d.Timeout = time.Hour
	}

	r := &cfg.RMSD
	if r.Backend == "" {
		r.Backend = rmsd.BackendOBRMS
	}
	if r.Binary == "" {
		r.Binary = "obrms"
	}
	if r.ObabelBinary == "" {
		r.ObabelBinary = "obabel"
	}
	if r.Threshold == 0 {
		r.Threshold = rmsd.DefaultThreshold
	}

	o := &cfg.Output
	if o.Dir == "" {
		o.Dir = "."
	}
	if o.PoseDir == "" {
		o.PoseDir = "poses"
	}
	if o.Basename == "" {
		o.Basename = DefaultBasename
		if cfg.Grid.Single() {
			o.Basename = DefaultSingleBasename
		}
	}
	if o.Formats == nil {
		o.Formats = []string{results.FormatTSV, results.FormatCSV}
	}

	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = ".vinagrid/runs.db"
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}

	if cfg.Watch.Extensions == nil {
		cfg.Watch.Extensions = []string{".pdbqt"}
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 2 * time.Second
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Watch.Directories) > 0 && cfg.Watch.Recursive == nil {
		t := true
		cfg.Watch.Recursive = &t
	}
}
