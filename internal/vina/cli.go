package vina

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hyperjump/vinagrid/internal/models"
	"github.com/hyperjump/vinagrid/internal/pdbqt"
	"go.uber.org/zap"
)

// CLI runs the vina executable once per Dock call.
type CLI struct {
	binary    string
	scoring   string
	timeout   time.Duration
	extraArgs []string
	logger    *zap.Logger // optional
}

// CLIOption configures a CLI engine.
type CLIOption func(*CLI)

// WithTimeout kills a docking call that runs longer than d. Zero disables the limit.
func WithTimeout(d time.Duration) CLIOption {
	return func(c *CLI) { c.timeout = d }
}

// WithScoring selects the scoring function (vina, vinardo, ad4).
func WithScoring(sf string) CLIOption {
	return func(c *CLI) { c.scoring = sf }
}

// WithExtraArgs appends raw arguments to every invocation.
func WithExtraArgs(args ...string) CLIOption {
	return func(c *CLI) { c.extraArgs = append(c.extraArgs, args...) }
}

// WithLogger sets a logger for debug output (command lines, durations).
func WithLogger(l *zap.Logger) CLIOption {
	return func(c *CLI) { c.logger = l }
}

// NewCLI returns an engine invoking binary (resolved through PATH when not absolute).
func NewCLI(binary string, opts ...CLIOption) *CLI {
	if binary == "" {
		binary = "vina"
	}
	c := &CLI{binary: binary}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Args returns the command-line arguments for req.
func (c *CLI) Args(req Request) []string {
	args := []string{
		"--receptor", req.Receptor,
		"--ligand", req.Ligand,
		"--center_x", formatFloat(req.Center.X),
		"--center_y", formatFloat(req.Center.Y),
		"--center_z", formatFloat(req.Center.Z),
		"--size_x", formatFloat(req.Box.X),
		"--size_y", formatFloat(req.Box.Y),
		"--size_z", formatFloat(req.Box.Z),
		"--exhaustiveness", strconv.Itoa(req.Exhaustiveness),
		"--num_modes", strconv.Itoa(req.NumPoses),
		"--out", req.Output,
	}
	if c.scoring != "" {
		args = append(args, "--scoring", c.scoring)
	}
	if req.Seed != 0 {
		args = append(args, "--seed", strconv.FormatInt(req.Seed, 10))
	}
	if req.CPU > 0 {
		args = append(args, "--cpu", strconv.Itoa(req.CPU))
	}
	return append(args, c.extraArgs...)
}

// Dock runs the engine and reads the energy table from the written pose file, falling
// back to the mode table printed on stdout.
func (c *CLI) Dock(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid docking request: %w", err)
	}
	if dir := filepath.Dir(req.Output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := c.Args(req)
	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.WaitDelay = 2 * time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if c.logger != nil {
		c.logger.Debug("vina starting", zap.String("binary", c.binary), zap.Strings("args", args))
	}
	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("vina at %s: %w", req.Center, ctxErr)
		}
		return nil, fmt.Errorf("vina at %s: %w: %s", req.Center, err, lastLine(stderr.String()))
	}
	if c.logger != nil {
		c.logger.Debug("vina finished", zap.Stringer("center", req.Center), zap.Duration("took", time.Since(start)))
	}

	res := &Result{Output: req.Output, Stdout: stdout.String()}
	ms, err := pdbqt.ReadFile(req.Output)
	switch {
	case err == nil:
		res.Poses = pdbqt.Poses(ms)
	case errors.Is(err, os.ErrNotExist), errors.Is(err, pdbqt.ErrNoModels):
	default:
		return nil, fmt.Errorf("read poses: %w", err)
	}
	if len(res.Poses) == 0 {
		res.Poses = ParseModeTable(res.Stdout)
	}
	if len(res.Poses) == 0 {
		return res, ErrNoPoses
	}
	return res, nil
}

// ParseModeTable extracts the energy table vina prints after the
// "-----+------------+----------+----------" separator:
//
//	   1       -7.512          0          0
func ParseModeTable(out string) []models.Pose {
	var poses []models.Pose
	inTable := false
	for _, line := range strings.Split(out, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "-----+") {
			inTable = true
			continue
		}
		if !inTable {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) < 2 {
			break
		}
		mode, err := strconv.Atoi(fields[0])
		if err != nil {
			break
		}
		p := models.Pose{Mode: mode}
		vals := []*float64{&p.Affinity, &p.RMSDLowerBound, &p.RMSDUpperBound}
		ok := true
		for i := 1; i < len(fields) && i <= len(vals); i++ {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				ok = false
				break
			}
			*vals[i-1] = v
		}
		if !ok {
			break
		}
		poses = append(poses, p)
	}
	return poses
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
