// Package session runs identity transitions: sign-in with optional promotion
// of drafts, sign-out and the explicit reset of the playground.
package session

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/auth"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/cache"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/draft"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/merge"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
)

var (
	ErrRelink          = goerr.New("failed to relink drafts")
	ErrUnknownEntities = goerr.New("no use case for entity type")
)

// Entities is the part of an entity use case a session drives
type Entities interface {
	Type() model.EntityType
	PromoteDrafts(ctx context.Context, ids model.IDMap) (model.IDMap, error)
	RelinkFields(f merge.Fields, ids model.IDMap) (merge.Fields, bool)
	RelinkValue(v any, ids model.IDMap) (any, bool)
}

// Input holds the collaborators of UseCase
type Input struct {
	Drafts      *draft.Store
	Resolver    *cache.Resolver
	Credentials *auth.Credentials
	Companies   Entities
	Accounts    Entities
	Personas    Entities
}

// UseCase provides session operations
type UseCase struct {
	drafts   *draft.Store
	resolver *cache.Resolver
	creds    *auth.Credentials
	entities []Entities
}

// New creates a session UseCase
func New(in Input) *UseCase {
	return &UseCase{
		drafts:   in.Drafts,
		resolver: in.Resolver,
		creds:    in.Credentials,
		entities: []Entities{in.Companies, in.Accounts, in.Personas},
	}
}

func (u *UseCase) entitiesOf(t model.EntityType) (Entities, bool) {
	for _, e := range u.entities {
		if e != nil && e.Type() == t {
			return e, true
		}
	}
	return nil, false
}
