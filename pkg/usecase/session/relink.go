package session

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/cache"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/draft"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/merge"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
)

// Relink applies a committed mapping of temp ids to stable ids to all local
// state. In one Draft Store batch promoted drafts are removed and references
// held by remaining drafts are rewritten; then every cache key and value is
// rewritten under the cache lock. The cache is left alone if the draft batch
// fails.
func (u *UseCase) Relink(ctx context.Context, ids model.IDMap) error {
	if len(ids) == 0 {
		return nil
	}

	ok := u.drafts.Rewrite(ctx, func(d draft.Draft) (draft.Action, merge.Fields, error) {
		if _, promoted := ids[d.ID]; promoted {
			return draft.Discard, nil, nil
		}
		e, found := u.entitiesOf(d.Type)
		if !found {
			return draft.Keep, nil, nil
		}
		f, changed := e.RelinkFields(d.Data, ids)
		if !changed {
			return draft.Keep, nil, nil
		}
		return draft.Replace, f, nil
	})
	if !ok {
		return goerr.Wrap(ErrRelink, "draft batch rejected", goerr.V("ids", len(ids)))
	}

	u.resolver.Cache().Rewrite(func(k cache.Key, v any) (cache.Key, any, bool) {
		base := k.Base()
		for i, s := range base {
			base[i] = string(ids.Resolve(model.EntityID(s)))
		}
		if t, err := model.ParseEntityType(base[0]); err == nil {
			if e, found := u.entitiesOf(t); found {
				v, _ = e.RelinkValue(v, ids)
			}
		}
		return k.WithBase(base...), v, true
	})
	return nil
}
