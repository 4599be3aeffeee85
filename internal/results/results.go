// Package results writes per-center docking results as a tab-separated text table, CSV and XLSX.
// Every file is written wholesale from the complete list of points.
package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/vinagrid/internal/models"
)

// Formats understood by Writer.
const (
	FormatTSV  = "tsv"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

var (
	tsvHeader    = []string{"Timestamp", "Grid Center", "Mean Affinity", "Std Dev", "All Affinities"}
	tsvSeparator = []string{"---------", "-----------", "--------------", "--------", "----------------"}
	csvHeader    = []string{"Timestamp", "Grid Center", "Mean Affinity", "Std Dev", "Affinities"}
)

// TSVHeader returns the text table header, with the RMSD column when withRMSD is set.
func TSVHeader(withRMSD bool) []string {
	h := append([]string(nil), tsvHeader...)
	if withRMSD {
		h = append(h, "RMSDs per Pose")
	}
	return h
}

// CSVHeader returns the CSV header, with the RMSD column when withRMSD is set.
func CSVHeader(withRMSD bool) []string {
	h := append([]string(nil), csvHeader...)
	if withRMSD {
		h = append(h, "RMSDs")
	}
	return h
}

// WriteTSV writes the header, a dashes separator line and one tab-separated row per point.
func WriteTSV(w io.Writer, points []*models.PointResult, withRMSD bool) error {
	sep := append([]string(nil), tsvSeparator...)
	if withRMSD {
		sep = append(sep, "--------------")
	}
	lines := [][]string{TSVHeader(withRMSD), sep}
	for _, p := range points {
		lines = append(lines, p.Cells(withRMSD))
	}
	for _, l := range lines {
		if _, err := io.WriteString(w, strings.Join(l, "\t")+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes the header and one row per point.
func WriteCSV(w io.Writer, points []*models.PointResult, withRMSD bool) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader(withRMSD)); err != nil {
		return err
	}
	for _, p := range points {
		if err := cw.Write(p.Cells(withRMSD)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Writer writes a run's table to <dir>/<basename>.{txt,csv,xlsx} for the enabled formats.
type Writer struct {
	dir      string
	basename string
	formats  []string
}

// NewWriter returns a writer for formats. Unknown format names are rejected.
func NewWriter(dir, basename string, formats ...string) (*Writer, error) {
	if basename == "" {
		return nil, fmt.Errorf("output basename is required")
	}
	for _, f := range formats {
		switch f {
		case FormatTSV, FormatCSV, FormatXLSX:
		default:
			return nil, fmt.Errorf("unknown output format %q", f)
		}
	}
	return &Writer{dir: dir, basename: basename, formats: formats}, nil
}

// Path returns the file a format is written to.
func (w *Writer) Path(format string) string {
	ext := format
	if format == FormatTSV {
		ext = "txt"
	}
	return filepath.Join(w.dir, w.basename+"."+ext)
}

// Write writes every enabled format and returns the paths written.
func (w *Writer) Write(run *models.Run) ([]string, error) {
	if w.dir != "" {
		if err := os.MkdirAll(w.dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	var paths []string
	for _, f := range w.formats {
		path := w.Path(f)
		var err error
		switch f {
		case FormatTSV:
			err = writeFile(path, func(out io.Writer) error { return WriteTSV(out, run.Points, run.WithRMSD) })
		case FormatCSV:
			err = writeFile(path, func(out io.Writer) error { return WriteCSV(out, run.Points, run.WithRMSD) })
		case FormatXLSX:
			err = WriteXLSX(path, run)
		}
		if err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writeFile writes to a temporary sibling and renames it over path once complete.
func writeFile(path string, fn func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := fn(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
