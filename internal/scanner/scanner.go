package scanner

import (
	"context"

	"github.com/lumipallolabs/foldergrid/internal/model"
)

// Batch is a group of entries delivered by a listing. The final batch of a
// listing has Done or Canceled set.
type Batch struct {
	Entries  []model.Entry
	Done     bool
	Canceled bool
	Err      error
}

// Lister lists the entries of one directory asynchronously
type Lister interface {
	// List starts listing dir. The channel is closed after the final batch.
	List(ctx context.Context, dir string) (<-chan Batch, error)
}
