// Package config provides configuration loading and structs for vinagrid.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyperjump/vinagrid/internal/grid"
	"github.com/hyperjump/vinagrid/internal/models"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Workers int           `yaml:"workers"`
	Docking DockingConfig `yaml:"docking"`
	Grid    GridConfig    `yaml:"grid"`
	RMSD    RMSDConfig    `yaml:"rmsd"`
	Output  OutputConfig  `yaml:"output"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
	Watch   WatchConfig   `yaml:"watch"`
}

// DockingConfig holds engine settings shared by every center.
type DockingConfig struct {
	Binary         string         `yaml:"binary"`
	Receptor       string         `yaml:"receptor"`
	Ligand         string         `yaml:"ligand"`
	BoxSize        models.BoxSize `yaml:"box_size"`
	Exhaustiveness int            `yaml:"exhaustiveness"`
	NumPoses       int            `yaml:"num_poses"`
	Repeats        int            `yaml:"repeats"`
	Seed           int64          `yaml:"seed"`
	CPU            int            `yaml:"cpu"`
	Scoring        string         `yaml:"scoring"`
	Timeout        time.Duration  `yaml:"timeout"`
}

// Params returns the docking parameters for ligand (the configured one when empty).
func (d *DockingConfig) Params(ligand string) models.DockingParams {
	if ligand == "" {
		ligand = d.Ligand
	}
	return models.DockingParams{
		Receptor:       d.Receptor,
		Ligand:         ligand,
		Box:            d.BoxSize,
		Exhaustiveness: d.Exhaustiveness,
		NumPoses:       d.NumPoses,
		Repeats:        d.Repeats,
		Seed:           d.Seed,
	}
}

// GridConfig selects either a single center or a three-axis grid.
type GridConfig struct {
	// Center, when set as "x,y,z", docks at that point only.
	Center string    `yaml:"center"`
	X      grid.Axis `yaml:"x"`
	Y      grid.Axis `yaml:"y"`
	Z      grid.Axis `yaml:"z"`
}

// Single reports whether the grid is a single explicit center.
func (g *GridConfig) Single() bool {
	return strings.TrimSpace(g.Center) != ""
}

// Centers returns the centers to dock at.
func (g *GridConfig) Centers() ([]models.Center, error) {
	if g.Single() {
		c, err := models.ParseCenter(g.Center)
		if err != nil {
			return nil, err
		}
		return grid.Single(c), nil
	}
	spec := grid.Spec{X: g.X, Y: g.Y, Z: g.Z}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return grid.Centers(spec), nil
}

// RMSDConfig holds pose RMSD settings.
type RMSDConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Backend      string   `yaml:"backend"`
	Binary       string   `yaml:"binary"`
	ObabelBinary string   `yaml:"obabel_binary"`
	Convert      bool     `yaml:"convert"`
	ConvertArgs  []string `yaml:"convert_args"`
	Reference    string   `yaml:"reference"`
	Threshold    float64  `yaml:"threshold"`
}

// OutputConfig holds result and pose file locations.
type OutputConfig struct {
	Dir        string   `yaml:"dir"`
	PoseDir    string   `yaml:"pose_dir"`
	Basename   string   `yaml:"basename"`
	Formats    []string `yaml:"formats"`
	SplitPoses bool     `yaml:"split_poses"`
}

// StorageConfig holds the run history database path.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// WatchConfig holds ligand drop directory settings.
type WatchConfig struct {
	Directories []string      `yaml:"directories"`
	Extensions  []string      `yaml:"extensions"`
	Recursive   *bool         `yaml:"recursive"`
	Debounce    time.Duration `yaml:"debounce"`
	// SkipDocked skips ligands whose content was already docked in a stored run.
	SkipDocked *bool `yaml:"skip_docked"`
}

// RecursiveOrDefault returns whether to watch recursively; defaults to true when unset.
func (w *WatchConfig) RecursiveOrDefault() bool {
	if w.Recursive != nil {
		return *w.Recursive
	}
	return true
}

// SkipDockedOrDefault returns whether to skip already docked ligands; defaults to true when unset.
func (w *WatchConfig) SkipDockedOrDefault() bool {
	if w.SkipDocked != nil {
		return *w.SkipDocked
	}
	return true
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	cfg.resolvePaths(filepath.Dir(path))
	return &cfg, nil
}

// Default returns a config with defaults applied and relative paths resolved against dir.
func Default(dir string) *Config {
	var cfg Config
	ApplyDefaults(&cfg)
	cfg.resolvePaths(dir)
	return &cfg
}

func (c *Config) resolvePaths(dir string) {
	c.Storage.DatabasePath = expandPath(c.Storage.DatabasePath, dir)
	c.Docking.Receptor = relativeTo(c.Docking.Receptor, dir)
	c.Docking.Ligand = relativeTo(c.Docking.Ligand, dir)
	c.RMSD.Reference = relativeTo(c.RMSD.Reference, dir)
	c.Output.Dir = relativeTo(c.Output.Dir, dir)
	c.Output.PoseDir = relativeTo(c.Output.PoseDir, dir)
	for i := range c.Watch.Directories {
		c.Watch.Directories[i] = relativeTo(c.Watch.Directories[i], dir)
	}
}

// Validate checks the settings needed to start a docking run.
func (c *Config) Validate() error {
	var errs []error
	if c.Docking.Receptor == "" {
		errs = append(errs, errors.New("docking.receptor is required"))
	}
	if !c.Docking.BoxSize.Valid() {
		errs = append(errs, fmt.Errorf("docking.box_size must be positive, got %s", c.Docking.BoxSize))
	}
	if c.Docking.Repeats <= 0 {
		errs = append(errs, fmt.Errorf("docking.repeats must be positive, got %d", c.Docking.Repeats))
	}
	if c.RMSD.Enabled && c.RMSD.Reference == "" {
		errs = append(errs, errors.New("rmsd.reference is required when rmsd is enabled"))
	}
	if c.RMSD.Threshold < 0 {
		errs = append(errs, fmt.Errorf("rmsd.threshold must not be negative, got %g", c.RMSD.Threshold))
	}
	if _, err := c.Grid.Centers(); err != nil {
		errs = append(errs, fmt.Errorf("grid: %w", err))
	}
	return errors.Join(errs...)
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}

// relativeTo resolves an input or output path against configDir. "~/" expands to home.
func relativeTo(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return filepath.Join(configDir, path)
}
