package entity

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/cache"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
)

// Get returns an entity from the cache, reading it on a miss
func (u *UseCase[U, W, P]) Get(ctx context.Context, id model.EntityID) (U, error) {
	var zero U
	b, err := u.route(id)
	if err != nil {
		return zero, err
	}

	key := u.itemKey(id)
	if v, ok := cache.Lookup[U](u.cache(), key); ok {
		return v, nil
	}

	ticket := u.cache().Reserve(key)
	v, err := u.read(ctx, b, id)
	if err != nil {
		return zero, err
	}
	u.cache().Commit(ticket, v)
	return v, nil
}

// current returns the value an update is based on: the cached entity when
// present, otherwise a fresh read
func (u *UseCase[U, W, P]) current(ctx context.Context, b backend, id model.EntityID) (U, error) {
	if v, ok := cache.Lookup[U](u.cache(), u.itemKey(id)); ok {
		return v, nil
	}
	return u.read(ctx, b, id)
}

func (u *UseCase[U, W, P]) read(ctx context.Context, b backend, id model.EntityID) (U, error) {
	var zero U

	switch b {
	case backendDraft:
		d, ok := u.drafts.GetDraft(ctx, u.Type(), id)
		if !ok {
			return zero, goerr.Wrap(ErrNotFound, "no such draft", goerr.V("type", u.Type()), goerr.V("id", id))
		}
		return u.decodeDraft(d)

	default:
		w, err := u.remote.Get(ctx, string(id))
		if err != nil {
			return zero, goerr.Wrap(err, "failed to get entity", goerr.V("type", u.Type()), goerr.V("id", id))
		}
		return u.mapping.ToUI(w), nil
	}
}
