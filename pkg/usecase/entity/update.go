package entity

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/merge"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/utils/logging"
)

// Update applies a partial update. Top-level fields named in patch replace the
// current values wholesale and every other field keeps its current value;
// nested structures are never merged, so an edit of one list element resupplies
// the whole list. patch is a model patch struct, a map or raw JSON using the UI
// field names.
//
// The cache changes only after the write succeeded. When updates of one entity
// overlap, the result of the update issued last is the one left in the cache.
func (u *UseCase[U, W, P]) Update(ctx context.Context, id model.EntityID, patch any) (U, error) {
	var zero U
	b, err := u.route(id)
	if err != nil {
		return zero, err
	}

	key := u.itemKey(id)
	ticket := u.cache().Reserve(key)

	current, err := u.current(ctx, b, id)
	if err != nil {
		return zero, err
	}

	merged, err := merge.Apply(current, patch)
	if err != nil {
		return zero, goerr.Wrap(err, "invalid update", goerr.V("type", u.Type()), goerr.V("id", id))
	}
	p := P(&merged)
	p.SetID(id)
	p.Touch(u.now())

	w := u.mapping.ToWire(merged)

	switch b {
	case backendDraft:
		if !u.drafts.PutDraft(ctx, u.Type(), id, w) {
			return zero, goerr.Wrap(ErrDraftStore, "failed to write draft", goerr.V("type", u.Type()), goerr.V("id", id))
		}
	default:
		w, err = u.remote.Update(ctx, string(id), w)
		if err != nil {
			return zero, goerr.Wrap(err, "failed to update entity", goerr.V("type", u.Type()), goerr.V("id", id))
		}
	}

	updated := u.mapping.ToUI(w)
	if !u.cache().Commit(ticket, updated) {
		logging.From(ctx).Debug("superseded update not cached", "type", u.Type(), "id", id, "backend", b.String())
	}
	u.invalidateLists()
	return updated, nil
}
