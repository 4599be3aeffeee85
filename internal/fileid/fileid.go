// Package fileid derives stable identifiers for ligand files so a ligand already docked is
// recognised when it is dropped into a watched directory again.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

const prefix = "ligand:"

// LigandID returns an ID derived from the file content. Copies and renames of the same
// ligand yield the same ID.
func LigandID(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open ligand: %w", err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash ligand: %w", err)
	}
	return prefix + hex.EncodeToString(h.Sum(nil)), nil
}
