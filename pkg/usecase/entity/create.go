package entity

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/utils/logging"
)

// Create stores a new entity: as a draft while anonymous, on the backend while
// signed in. Any id set on v is replaced.
func (u *UseCase[U, W, P]) Create(ctx context.Context, v U) (U, error) {
	var zero U
	p := P(&v)

	if _, owned := u.Type().Parent(); owned {
		parent := p.ParentID()
		if parent == "" {
			return zero, goerr.Wrap(ErrMissingParent, "cannot create entity", goerr.V("type", u.Type()))
		}
		if _, err := u.route(parent); err != nil {
			return zero, goerr.Wrap(err, "owner is not reachable", goerr.V("type", u.Type()), goerr.V("parent", parent))
		}
	}

	p.SetID("")
	p.Touch(u.now())

	// bound to the scope the entity is created in
	ticket := u.cache().Reserve(u.typeKey())

	var created U
	if _, signedIn := u.resolver.Identity(); signedIn {
		w, err := u.remote.Create(ctx, u.mapping.ToWire(v))
		if err != nil {
			return zero, goerr.Wrap(err, "failed to create entity", goerr.V("type", u.Type()))
		}
		created = u.mapping.ToUI(w)
	} else {
		id, ok := u.drafts.SaveDraft(ctx, u.Type(), u.mapping.ToWire(v))
		if !ok {
			return zero, goerr.Wrap(ErrDraftStore, "failed to save draft", goerr.V("type", u.Type()))
		}
		p.SetID(id)
		created = u.mapping.ToUI(u.mapping.ToWire(v))
	}

	id := P(&created).EntityID()
	if !u.cache().Commit(ticket.For(string(u.Type()), string(id)), created) {
		logging.From(ctx).Debug("scope changed, created entity not cached", "type", u.Type(), "id", id)
	}
	u.invalidateLists()
	return created, nil
}
