package entity

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/cache"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/utils/logging"
)

// List returns the entities owned by parent, all entities of the type when
// parent is empty
func (u *UseCase[U, W, P]) List(ctx context.Context, parent model.EntityID) ([]U, error) {
	key := u.listKey(parent)
	if v, ok := cache.Lookup[[]U](u.cache(), key); ok {
		return v, nil
	}
	ticket := u.cache().Reserve(key)

	var out []U
	if _, signedIn := u.resolver.Identity(); signedIn {
		if parent.IsTemp() {
			return nil, goerr.Wrap(ErrDraftOutsidePlayground, "cannot list by draft owner", goerr.V("type", u.Type()), goerr.V("parent", parent))
		}
		records, err := u.remote.List(ctx, string(parent))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list entities", goerr.V("type", u.Type()))
		}
		out = make([]U, 0, len(records))
		for _, w := range records {
			out = append(out, u.mapping.ToUI(w))
		}
	} else {
		out = []U{}
		for _, d := range u.drafts.GetDrafts(ctx, u.Type()) {
			v, err := u.decodeDraft(d)
			if err != nil {
				logging.From(ctx).Warn("skip undecodable draft", "error", err)
				continue
			}
			if parent == "" || P(&v).ParentID() == parent {
				out = append(out, v)
			}
		}
	}

	u.cache().Commit(ticket, out)
	return out, nil
}
