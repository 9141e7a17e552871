package session

import (
	"context"
	"maps"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/utils/logging"
)

// SignInOptions controls SignIn
type SignInOptions struct {
	// Promote creates the playground drafts on the backend before they are cleared
	Promote bool
}

// SignIn switches the session to identity. With Promote the drafts are created
// on the backend owners first, each level relinked before the next one. The
// playground is cleared once every draft is promoted. When a promotion fails
// the committed part is relinked, the remaining drafts are kept and the error
// is returned together with the ids promoted so far. Promoted ids are recorded
// in the Draft Store, so a retry by the same user skips drafts that already
// exist on the backend even when relinking them failed.
func (u *UseCase) SignIn(ctx context.Context, identity model.Identity, token string, opts SignInOptions) (model.IDMap, error) {
	if identity.ID == "" || token == "" {
		return nil, goerr.New("identity and token are required")
	}

	u.creds.Set(identity, token)
	u.resolver.Observe(ctx, u.creds.Signal())

	all := model.IDMap{}
	if opts.Promote {
		// drafts created on the backend by an earlier attempt are not created again
		all = u.drafts.Promotions(ctx, identity.ID)
		if err := u.Relink(ctx, all); err != nil {
			return all, goerr.Wrap(err, "cannot resume promotion", goerr.V("promoted", len(all)))
		}

		for _, t := range model.EntityTypes {
			e, ok := u.entitiesOf(t)
			if !ok {
				return all, goerr.Wrap(ErrUnknownEntities, "cannot promote drafts", goerr.V("type", t))
			}

			promoted, err := e.PromoteDrafts(ctx, all)
			maps.Copy(all, promoted)
			if len(promoted) > 0 {
				u.drafts.RecordPromotions(ctx, identity.ID, all)
			}
			if relinkErr := u.Relink(ctx, promoted); relinkErr != nil {
				if err == nil {
					err = relinkErr
				}
			}
			if err != nil {
				return all, goerr.Wrap(err, "sign-in promotion stopped", goerr.V("type", t), goerr.V("promoted", len(all)))
			}
		}
	}

	removed := u.drafts.ClearAllPlayground(ctx)
	logging.From(ctx).Info("signed in",
		"user_id", identity.ID,
		"promoted", len(all),
		"drafts_cleared", removed,
	)
	return all, nil
}

// SignOut tears down the user scope of the cache and forgets the credentials
func (u *UseCase) SignOut(ctx context.Context) {
	u.resolver.Observe(ctx, model.Anonymous())
	u.creds.Clear()
	logging.From(ctx).Info("signed out")
}

// Reset starts a new top-level analysis by discarding every draft and playground
// cache entry
func (u *UseCase) Reset(ctx context.Context) (drafts, entries int) {
	drafts = u.drafts.ClearAllPlayground(ctx)
	entries = u.resolver.ClearPlaygroundCache()
	logging.From(ctx).Info("playground reset", "drafts", drafts, "cache_entries", entries)
	return drafts, entries
}
