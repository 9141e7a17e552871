package entity

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
)

// Delete removes an entity and its cache entry. A corrupted draft is removed
// too.
func (u *UseCase[U, W, P]) Delete(ctx context.Context, id model.EntityID) error {
	b, err := u.route(id)
	if err != nil {
		return err
	}

	switch b {
	case backendDraft:
		if !u.drafts.HasDraft(ctx, u.Type(), id) {
			return goerr.Wrap(ErrNotFound, "no such draft", goerr.V("type", u.Type()), goerr.V("id", id))
		}
		u.drafts.RemoveDraft(ctx, u.Type(), id)
	default:
		if err := u.remote.Delete(ctx, string(id)); err != nil {
			return goerr.Wrap(err, "failed to delete entity", goerr.V("type", u.Type()), goerr.V("id", id))
		}
	}

	u.cache().Delete(u.itemKey(id))
	u.invalidateLists()
	return nil
}
