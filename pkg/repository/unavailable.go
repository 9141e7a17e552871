package repository

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

var ErrNoBackend = goerr.New("no backend configured")

// Unavailable is the Client of a session without a configured backend. Every
// call fails with ErrNoBackend.
type Unavailable[W any] struct{}

func (Unavailable[W]) Create(context.Context, W) (W, error) {
	var zero W
	return zero, goerr.Wrap(ErrNoBackend, "cannot create")
}

func (Unavailable[W]) Get(_ context.Context, id string) (W, error) {
	var zero W
	return zero, goerr.Wrap(ErrNoBackend, "cannot get", goerr.V("id", id))
}

func (Unavailable[W]) Update(_ context.Context, id string, _ W) (W, error) {
	var zero W
	return zero, goerr.Wrap(ErrNoBackend, "cannot update", goerr.V("id", id))
}

func (Unavailable[W]) Delete(_ context.Context, id string) error {
	return goerr.Wrap(ErrNoBackend, "cannot delete", goerr.V("id", id))
}

func (Unavailable[W]) List(context.Context, string) ([]W, error) {
	return nil, goerr.Wrap(ErrNoBackend, "cannot list")
}
