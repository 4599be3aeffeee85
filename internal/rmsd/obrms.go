package rmsd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// OBRMS runs "obrms -f <reference> <poses>", optionally converting both inputs to MOL2
// with obabel first.
type OBRMS struct {
	binary      string
	obabel      string
	convert     bool
	convertArgs []string
	maxPoses    int
}

// OBRMSOption configures an OBRMS calculator.
type OBRMSOption func(*OBRMS)

// WithConversion converts reference and poses to MOL2 with obabel before comparing.
// args are appended after "-O <file>.mol2"; when empty, "--addh" is used.
func WithConversion(obabel string, args ...string) OBRMSOption {
	return func(o *OBRMS) {
		o.convert = true
		if obabel != "" {
			o.obabel = obabel
		}
		if len(args) > 0 {
			o.convertArgs = args
		}
	}
}

// WithMaxPoses keeps at most n values from the tool output. Zero keeps all.
func WithMaxPoses(n int) OBRMSOption {
	return func(o *OBRMS) { o.maxPoses = n }
}

// NewOBRMS returns an obrms-backed calculator.
func NewOBRMS(binary string, opts ...OBRMSOption) *OBRMS {
	if binary == "" {
		binary = "obrms"
	}
	o := &OBRMS{binary: binary, obabel: "obabel", convertArgs: []string{"--addh"}}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Compute implements Calculator. Temporary MOL2 files are removed on every return path.
func (o *OBRMS) Compute(ctx context.Context, reference, poses string) ([]float64, error) {
	ref, cand := reference, poses
	if o.convert {
		tmp, err := os.MkdirTemp("", "vinagrid-rmsd-*")
		if err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
		defer os.RemoveAll(tmp)
		if ref, err = o.toMol2(ctx, reference, filepath.Join(tmp, "reference.mol2")); err != nil {
			return nil, err
		}
		if cand, err = o.toMol2(ctx, poses, filepath.Join(tmp, "poses.mol2")); err != nil {
			return nil, err
		}
	}

	cmd := exec.CommandContext(ctx, o.binary, "-f", ref, cand)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("obrms: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return ParseOBRMS(stdout.String(), o.maxPoses), nil
}

func (o *OBRMS) toMol2(ctx context.Context, in, out string) (string, error) {
	args := append([]string{in, "-O", out}, o.convertArgs...)
	cmd := exec.CommandContext(ctx, o.obabel, args...)
	if msg, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("obabel %s: %w: %s", filepath.Base(in), err, strings.TrimSpace(string(msg)))
	}
	if _, err := os.Stat(out); err != nil {
		return "", fmt.Errorf("obabel produced no output for %s: %w", filepath.Base(in), err)
	}
	return out, nil
}

// ParseOBRMS reads one value per output line, taken from the last whitespace-separated
// field when it is a non-negative decimal such as "1.234". Only the first limit lines are
// considered when limit > 0.
func ParseOBRMS(out string, limit int) []float64 {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if limit > 0 && len(lines) > limit {
		lines = lines[:limit]
	}
	var values []float64
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		last := fields[len(fields)-1]
		if !isUnsignedDecimal(last) {
			continue
		}
		v, err := strconv.ParseFloat(last, 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values
}

// isUnsignedDecimal accepts digits with at most one '.', and at least one digit.
func isUnsignedDecimal(s string) bool {
	digits, dots := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}
