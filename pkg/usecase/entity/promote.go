package entity

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/utils/logging"
)

// PromoteDrafts creates every draft of the type on the backend. Owner
// references are resolved through ids, which must already hold the stable ids
// of promoted owners. The returned map holds the temp to stable id pairs of
// this call; on failure it holds the pairs committed before the error. Drafts
// are left in place.
func (u *UseCase[U, W, P]) PromoteDrafts(ctx context.Context, ids model.IDMap) (model.IDMap, error) {
	promoted := model.IDMap{}
	if _, signedIn := u.resolver.Identity(); !signedIn {
		return promoted, goerr.Wrap(ErrNotAuthenticated, "cannot promote drafts", goerr.V("type", u.Type()))
	}

	for _, d := range u.drafts.GetDrafts(ctx, u.Type()) {
		if _, done := ids[d.ID]; done {
			continue
		}

		v, err := u.decodeDraft(d)
		if err != nil {
			logging.From(ctx).Warn("skip undecodable draft", "error", err)
			continue
		}

		p := P(&v)
		p.Relink(ids)
		if parent := p.ParentID(); parent.IsTemp() {
			return promoted, goerr.Wrap(ErrDraftOutsidePlayground, "owner of draft was not promoted",
				goerr.V("type", u.Type()),
				goerr.V("id", d.ID),
				goerr.V("parent", parent),
			)
		}
		p.SetID("")

		ticket := u.cache().Reserve(u.typeKey())
		w, err := u.remote.Create(ctx, u.mapping.ToWire(v))
		if err != nil {
			return promoted, goerr.Wrap(err, "failed to promote draft", goerr.V("type", u.Type()), goerr.V("id", d.ID))
		}
		created := u.mapping.ToUI(w)
		stable := P(&created).EntityID()
		promoted[d.ID] = stable
		if !u.cache().Commit(ticket.For(string(u.Type()), string(stable)), created) {
			logging.From(ctx).Debug("scope changed, promoted entity not cached", "type", u.Type(), "id", stable)
		}

		logging.From(ctx).Debug("draft promoted", "type", u.Type(), "temp_id", d.ID, "id", stable)
	}

	if len(promoted) > 0 {
		u.invalidateLists()
	}
	return promoted, nil
}
