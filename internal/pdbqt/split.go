package pdbqt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SplitPoses writes every model of the file at path to its own file named
// "<prefix>_pose<N>.pdbqt" in dir, N counting from 1 in file order. It returns the
// written paths.
func SplitPoses(path, dir, prefix string) ([]string, error) {
	ms, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create pose directory: %w", err)
	}
	paths := make([]string, 0, len(ms))
	for i, m := range ms {
		out := filepath.Join(dir, fmt.Sprintf("%s_pose%d.pdbqt", prefix, i+1))
		if err := os.WriteFile(out, []byte(strings.Join(m.Lines, "\n")+"\n"), 0644); err != nil {
			return paths, fmt.Errorf("write pose %d: %w", i+1, err)
		}
		paths = append(paths, out)
	}
	return paths, nil
}
