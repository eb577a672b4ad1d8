package dataset

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a dataset file does not exist.
var ErrNotFound = errors.New("dataset not found")

// Store defines persistence operations for a dataset.
type Store interface {
	// Load reads the dataset. Returns ErrNotFound if it does not exist.
	Load(ctx context.Context) (Dataset, error)
	// Save writes the dataset.
	Save(ctx context.Context, d Dataset) error
}
