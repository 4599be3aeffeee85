// Package storage defines the persistence interface for docking runs and their grid points.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/vinagrid/internal/models"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("not found")

// Storage defines run history operations.
type Storage interface {
	// Run operations
	SaveRun(ctx context.Context, run *models.Run) error
	GetRun(ctx context.Context, id string) (*models.Run, error)
	DeleteRun(ctx context.Context, id string) error
	ListRuns(ctx context.Context, offset, limit int) ([]*models.RunSummary, error)

	// Lookups
	HasLigand(ctx context.Context, ligandID string) (bool, error)

	// Stats
	CountRuns(ctx context.Context) (int64, error)
	CountPoints(ctx context.Context) (int64, error)

	Close() error
}
