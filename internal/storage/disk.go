package storage

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Usage summarizes files on disk.
type Usage struct {
	Files int   `json:"files"`
	Bytes int64 `json:"bytes"`
}

// DiskUsage sums the files at path. A directory is walked recursively and only files whose
// extension is in exts are counted (all files when exts is empty). A missing path yields
// zero usage.
func DiskUsage(path string, exts ...string) (Usage, error) {
	var u Usage
	if path == "" {
		return u, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return u, nil
		}
		return u, err
	}
	if !info.IsDir() {
		return Usage{Files: 1, Bytes: info.Size()}, nil
	}
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !matchExt(p, exts) {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		u.Files++
		u.Bytes += fi.Size()
		return nil
	})
	return u, err
}

func matchExt(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}
