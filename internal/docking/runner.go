// Package docking runs a ligand against a receptor at every center of a grid, repeating each
// docking call, and reduces the trials to per-center affinity statistics.
package docking

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/vinagrid/internal/metrics"
	"github.com/hyperjump/vinagrid/internal/models"
	"github.com/hyperjump/vinagrid/internal/pdbqt"
	"github.com/hyperjump/vinagrid/internal/rmsd"
	"github.com/hyperjump/vinagrid/internal/vina"
	"github.com/hyperjump/vinagrid/pkg/utils"
	"go.uber.org/zap"
)

// Config holds the per-run settings of a Runner.
type Config struct {
	Params models.DockingParams
	// PoseDir receives one output PDBQT per trial.
	PoseDir string
	// CPU is passed to every engine call; zero leaves it to the engine.
	CPU int
	// Workers bounds concurrent centers. Zero means runtime.NumCPU(), one runs sequentially.
	Workers int
	// RMSDThreshold drops RMSD values at or above it. Zero means rmsd.DefaultThreshold.
	RMSDThreshold float64
	// SplitPoses writes each pose of the last trial to its own file under PoseDir/poses.
	SplitPoses bool
}

// Runner docks over grid centers. A Runner is safe for concurrent use once built.
type Runner struct {
	engine    vina.Engine
	calc      rmsd.Calculator // optional
	reference string
	cfg       Config
	logger    *zap.Logger
	now       func() time.Time
	progress  func(done, total int, p *models.PointResult)
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets a logger for trial failures and progress.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithRMSD enables RMSD of the docked poses against reference.
func WithRMSD(calc rmsd.Calculator, reference string) Option {
	return func(r *Runner) {
		r.calc = calc
		r.reference = reference
	}
}

// WithProgress registers a callback invoked after each center completes.
// It may be called from several goroutines at once.
func WithProgress(fn func(done, total int, p *models.PointResult)) Option {
	return func(r *Runner) { r.progress = fn }
}

// WithClock overrides time.Now for row timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// NewRunner validates cfg and returns a Runner using engine.
func NewRunner(engine vina.Engine, cfg Config, opts ...Option) (*Runner, error) {
	if engine == nil {
		return nil, errors.New("docking engine is required")
	}
	p := cfg.Params
	switch {
	case p.Receptor == "":
		return nil, errors.New("receptor is required")
	case p.Ligand == "":
		return nil, errors.New("ligand is required")
	case !p.Box.Valid():
		return nil, fmt.Errorf("box size must be positive, got %s", p.Box)
	case p.Repeats <= 0:
		return nil, fmt.Errorf("repeats must be positive, got %d", p.Repeats)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.RMSDThreshold == 0 {
		cfg.RMSDThreshold = rmsd.DefaultThreshold
	}
	if cfg.PoseDir == "" {
		cfg.PoseDir = "."
	}
	r := &Runner{engine: engine, cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r, nil
}

// Config returns the effective configuration after defaults were applied.
func (r *Runner) Config() Config {
	return r.cfg
}

// Run docks at every center and returns the run with one point per completed center, in the
// order of centers. If ctx is cancelled, centers not yet started are skipped and the partial
// run is returned together with ctx.Err().
func (r *Runner) Run(ctx context.Context, centers []models.Center) (*models.Run, error) {
	run := &models.Run{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
		Params:    r.cfg.Params,
		WithRMSD:  r.calc != nil && r.reference != "",
	}
	if err := os.MkdirAll(r.cfg.PoseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create pose directory: %w", err)
	}

	metrics.RunsInFlight.Inc()
	defer metrics.RunsInFlight.Dec()

	r.logger.Info("Starting docking run",
		zap.String("run_id", run.ID),
		zap.String("ligand", r.cfg.Params.Ligand),
		zap.Int("centers", len(centers)),
		zap.Int("repeats", r.cfg.Params.Repeats),
		zap.Int("workers", r.cfg.Workers),
	)

	var done atomic.Int64
	total := len(centers)
	points := parMap(ctx, centers, r.cfg.Workers, func(i int, c models.Center) *models.PointResult {
		p := r.DockPoint(ctx, c)
		if len(p.Trials) == 0 {
			// cancelled before the first trial started
			return nil
		}
		p.Index = i
		n := int(done.Add(1))
		r.logger.Info("Docked grid point",
			zap.Int("done", n),
			zap.Int("total", total),
			zap.String("center", c.String()),
			zap.String("mean_affinity", p.MeanCell()),
		)
		if r.progress != nil {
			r.progress(n, total, p)
		}
		return p
	})

	for _, p := range points {
		if p != nil {
			run.Points = append(run.Points, p)
		}
	}
	run.FinishedAt = time.Now()
	r.logger.Info("Docking run finished",
		zap.String("run_id", run.ID),
		zap.Int("points", len(run.Points)),
		zap.Duration("elapsed", run.Duration()),
	)
	if err := ctx.Err(); err != nil {
		return run, err
	}
	return run, nil
}

// DockPoint runs the configured number of trials at center and reduces them. Failed trials are
// logged and skipped. When no trial succeeds the point has HasPose == false and no scores.
func (r *Runner) DockPoint(ctx context.Context, center models.Center) *models.PointResult {
	p := r.cfg.Params
	point := &models.PointResult{Center: center}
	var lastOutput string

	for rep := 1; rep <= p.Repeats; rep++ {
		if ctx.Err() != nil {
			break
		}
		trial := models.Trial{Repeat: rep, OutputPath: r.PosePath(center, rep)}
		req := vina.Request{
			Receptor:       p.Receptor,
			Ligand:         p.Ligand,
			Center:         center,
			Box:            p.Box,
			Exhaustiveness: p.Exhaustiveness,
			NumPoses:       p.NumPoses,
			Seed:           trialSeed(p.Seed, rep),
			CPU:            r.cfg.CPU,
			Output:         trial.OutputPath,
		}

		start := time.Now()
		res, err := r.engine.Dock(ctx, req)
		metrics.TrialDuration.Observe(time.Since(start).Seconds())
		if err == nil && len(res.Poses) == 0 {
			err = vina.ErrNoPoses
		}
		if err != nil {
			metrics.TrialsTotal.WithLabelValues("error").Inc()
			trial.Error = err.Error()
			point.Trials = append(point.Trials, trial)
			r.logger.Warn("Docking trial failed",
				zap.String("center", center.String()),
				zap.Int("repeat", rep),
				zap.Error(err),
			)
			continue
		}
		metrics.TrialsTotal.WithLabelValues("ok").Inc()
		if res.Output != "" {
			trial.OutputPath = res.Output
		}
		trial.Poses = res.Poses
		point.Trials = append(point.Trials, trial)
		point.Affinities = append(point.Affinities, trial.BestAffinity())
		lastOutput = trial.OutputPath
		r.logger.Debug("Docking trial done",
			zap.String("center", center.String()),
			zap.Int("repeat", rep),
			zap.Float64("affinity", trial.BestAffinity()),
			zap.Duration("elapsed", time.Since(start)),
		)
	}

	point.Timestamp = r.now()
	if len(point.Affinities) == 0 {
		metrics.PointsTotal.WithLabelValues("no_pose").Inc()
		return point
	}
	metrics.PointsTotal.WithLabelValues("pose").Inc()
	point.HasPose = true
	point.Mean = utils.Mean(point.Affinities)
	point.StdDev = utils.StdDev(point.Affinities)
	point.RMSDs = r.computeRMSD(ctx, center, lastOutput)
	if r.cfg.SplitPoses {
		r.splitPoses(center, lastOutput)
	}
	return point
}

// PosePath is the output file of one trial: <ligand>_docked_<x>_<y>_<z>_rep<N>.pdbqt.
func (r *Runner) PosePath(center models.Center, repeat int) string {
	name := ligandStem(r.cfg.Params.Ligand) + "_docked_" + center.Slug() + "_rep" + strconv.Itoa(repeat) + ".pdbqt"
	return filepath.Join(r.cfg.PoseDir, name)
}

func (r *Runner) computeRMSD(ctx context.Context, center models.Center, output string) []float64 {
	if r.calc == nil || r.reference == "" || output == "" {
		return nil
	}
	values, err := r.calc.Compute(ctx, r.reference, output)
	if err != nil {
		metrics.RMSDTotal.WithLabelValues("error").Inc()
		r.logger.Warn("RMSD calculation failed",
			zap.String("center", center.String()),
			zap.String("poses", output),
			zap.Error(err),
		)
		return nil
	}
	metrics.RMSDTotal.WithLabelValues("ok").Inc()
	kept := rmsd.Filter(values, r.cfg.RMSDThreshold)
	if dropped := len(values) - len(kept); dropped > 0 {
		metrics.RMSDFiltered.Add(float64(dropped))
		r.logger.Debug("Dropped RMSD values above threshold",
			zap.String("center", center.String()),
			zap.Int("dropped", dropped),
			zap.Float64("threshold", r.cfg.RMSDThreshold),
		)
	}
	return kept
}

func (r *Runner) splitPoses(center models.Center, output string) {
	dir := filepath.Join(r.cfg.PoseDir, "poses")
	prefix := strings.TrimSuffix(filepath.Base(output), filepath.Ext(output))
	paths, err := pdbqt.SplitPoses(output, dir, prefix)
	if err != nil {
		r.logger.Warn("Failed to split poses",
			zap.String("center", center.String()),
			zap.String("file", output),
			zap.Error(err),
		)
		return
	}
	r.logger.Debug("Split poses", zap.String("file", output), zap.Int("count", len(paths)))
}

// trialSeed derives a distinct seed per repeat from a fixed base. A zero base leaves seeding
// to the engine.
func trialSeed(base int64, repeat int) int64 {
	if base == 0 {
		return 0
	}
	return base + int64(repeat-1)
}

func ligandStem(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if stem == "" || stem == "." {
		return "ligand"
	}
	return stem
}
