// Package pdbqt reads the multi-model PDBQT files the docking engine writes: MODEL/ENDMDL
// blocks, ATOM/HETATM coordinates and the per-pose "REMARK VINA RESULT" energy lines.
package pdbqt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hyperjump/vinagrid/internal/models"
)

// ErrNoModels is returned when a file contains no atoms or models.
var ErrNoModels = errors.New("no models found")

const vinaResultPrefix = "REMARK VINA RESULT:"

// Atom is one ATOM/HETATM record.
type Atom struct {
	Serial  int
	Name    string
	Element string
	X, Y, Z float64
}

// Hydrogen reports whether the atom is a hydrogen, by element or AutoDock type (H, HD, HS).
func (a Atom) Hydrogen() bool {
	switch strings.ToUpper(a.Element) {
	case "H", "HD", "HS":
		return true
	}
	return false
}

// Model is one MODEL block (one pose).
type Model struct {
	Number int
	Lines  []string
	Atoms  []Atom
	// Result is set when the block carries a "REMARK VINA RESULT" line.
	Result *models.Pose
}

// ReadModels parses r into models. A file without MODEL records is a single model.
func ReadModels(r io.Reader) ([]*Model, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	var out []*Model
	var cur *Model
	for sc.Scan() {
		line := sc.Text()
		record := recordName(line)
		switch record {
		case "MODEL":
			cur = &Model{Number: len(out) + 1}
			if n, err := strconv.Atoi(strings.TrimSpace(line[min(len(line), 5):])); err == nil {
				cur.Number = n
			}
			cur.Lines = append(cur.Lines, line)
			continue
		case "ENDMDL":
			if cur != nil {
				cur.Lines = append(cur.Lines, line)
				out = append(out, cur)
			}
			cur = nil
			continue
		}
		if cur == nil {
			cur = &Model{Number: len(out) + 1}
		}
		cur.Lines = append(cur.Lines, line)
		switch {
		case record == "ATOM" || record == "HETATM":
			atom, err := parseAtom(line)
			if err != nil {
				return nil, err
			}
			cur.Atoms = append(cur.Atoms, atom)
		case strings.HasPrefix(line, vinaResultPrefix):
			pose, err := parseVinaResult(line)
			if err != nil {
				return nil, err
			}
			pose.Mode = cur.Number
			cur.Result = &pose
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	// Single-model files and a final block missing its ENDMDL.
	if cur != nil && len(cur.Atoms) > 0 {
		out = append(out, cur)
	}
	if len(out) == 0 {
		return nil, ErrNoModels
	}
	return out, nil
}

// ReadFile parses the PDBQT (or PDB) file at path.
func ReadFile(path string) ([]*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ms, err := ReadModels(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ms, nil
}

// Poses returns the energy table of the given models, in file order. Models without a
// VINA RESULT remark are skipped.
func Poses(ms []*Model) []models.Pose {
	var out []models.Pose
	for _, m := range ms {
		if m.Result != nil {
			out = append(out, *m.Result)
		}
	}
	return out
}

// HeavyAtoms returns atoms that are not hydrogens.
func HeavyAtoms(atoms []Atom) []Atom {
	out := make([]Atom, 0, len(atoms))
	for _, a := range atoms {
		if !a.Hydrogen() {
			out = append(out, a)
		}
	}
	return out
}

func recordName(line string) string {
	if len(line) > 6 {
		return strings.TrimSpace(line[:6])
	}
	return strings.TrimSpace(line)
}

// parseAtom reads fixed PDB columns: serial 7-11, name 13-16, x/y/z 31-54. The element is
// the last token after column 66 (PDB element or PDBQT AutoDock type), falling back to the
// first letter of the atom name.
func parseAtom(line string) (Atom, error) {
	if len(line) < 54 {
		return Atom{}, fmt.Errorf("short atom record: %q", line)
	}
	var a Atom
	a.Serial, _ = strconv.Atoi(strings.TrimSpace(line[6:11]))
	a.Name = strings.TrimSpace(line[12:16])
	var err error
	if a.X, err = strconv.ParseFloat(strings.TrimSpace(line[30:38]), 64); err != nil {
		return Atom{}, fmt.Errorf("atom %d x: %w", a.Serial, err)
	}
	if a.Y, err = strconv.ParseFloat(strings.TrimSpace(line[38:46]), 64); err != nil {
		return Atom{}, fmt.Errorf("atom %d y: %w", a.Serial, err)
	}
	if a.Z, err = strconv.ParseFloat(strings.TrimSpace(line[46:54]), 64); err != nil {
		return Atom{}, fmt.Errorf("atom %d z: %w", a.Serial, err)
	}
	if len(line) > 66 {
		if fields := strings.Fields(line[66:]); len(fields) > 0 {
			a.Element = fields[len(fields)-1]
		}
	}
	if a.Element == "" || isNumeric(a.Element) {
		a.Element = strings.TrimLeft(a.Name, "0123456789")
		if len(a.Element) > 1 {
			a.Element = a.Element[:1]
		}
	}
	return a, nil
}

func parseVinaResult(line string) (models.Pose, error) {
	fields := strings.Fields(strings.TrimPrefix(line, vinaResultPrefix))
	if len(fields) == 0 {
		return models.Pose{}, fmt.Errorf("empty vina result: %q", line)
	}
	vals := make([]float64, 3)
	for i := 0; i < len(fields) && i < 3; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return models.Pose{}, fmt.Errorf("vina result %q: %w", line, err)
		}
		vals[i] = v
	}
	return models.Pose{Affinity: vals[0], RMSDLowerBound: vals[1], RMSDUpperBound: vals[2]}, nil
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
