package repository

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrNotFound = goerr.New("entity not found")
	ErrNoOwner  = goerr.New("no signed-in user owns the data")
)

// Client persists wire records of one entity type on the backend
type Client[W any] interface {
	// Create stores a new record and returns it with the backend assigned id
	Create(ctx context.Context, record W) (W, error)

	// Get retrieves a record by id
	Get(ctx context.Context, id string) (W, error)

	// Update replaces the stored record wholesale and returns the stored result
	Update(ctx context.Context, id string, record W) (W, error)

	// Delete removes a record
	Delete(ctx context.Context, id string) error

	// List retrieves records owned by parentID. Empty parentID lists all.
	List(ctx context.Context, parentID string) ([]W, error)
}

// Owner reports the user whose data a backend reads and writes
type Owner interface {
	UserID() (string, bool)
}
