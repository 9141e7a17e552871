// Package entity implements reads and writes of one entity type against the
// Draft Store while anonymous and the backend while signed in. Results are
// cached under keys scoped to the current identity.
package entity

import (
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/cache"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/draft"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/mapper"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/repository"
)

var (
	ErrNotAuthenticated       = goerr.New("entity with stable id requires a signed-in user")
	ErrDraftOutsidePlayground = goerr.New("draft entity cannot be used while signed in")
	ErrNotFound               = goerr.New("entity not found")
	ErrDraftStore             = goerr.New("draft store rejected the write")
	ErrMissingParent          = goerr.New("entity requires an owner")
	ErrEmptyID                = goerr.New("entity id is empty")
)

const listSegment = "list"

// Record is a pointer to a UI model
type Record[U any] interface {
	*U
	model.Mutable
}

// UseCase provides operations on one entity type. U is the UI model and W
// the wire model.
type UseCase[U, W any, P Record[U]] struct {
	mapping  mapper.Mapping[U, W]
	drafts   *draft.Store
	resolver *cache.Resolver
	remote   repository.Client[W]
	now      func() time.Time
}

type options struct {
	now func() time.Time
}

// Option is a functional option for UseCase
type Option func(*options)

// WithClock sets the time source for entity timestamps
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// New creates a UseCase for the entity type of mapping
func New[U, W any, P Record[U]](
	mapping mapper.Mapping[U, W],
	drafts *draft.Store,
	resolver *cache.Resolver,
	remote repository.Client[W],
	opts ...Option,
) *UseCase[U, W, P] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	return &UseCase[U, W, P]{
		mapping:  mapping,
		drafts:   drafts,
		resolver: resolver,
		remote:   remote,
		now:      o.now,
	}
}

// Type returns the entity type handled by u
func (u *UseCase[U, W, P]) Type() model.EntityType {
	return u.mapping.Type
}

type backend int

const (
	backendDraft backend = iota
	backendRemote
)

func (b backend) String() string {
	if b == backendDraft {
		return "draft"
	}
	return "remote"
}

// route decides where an entity lives from the kind of its id and the
// current identity
func (u *UseCase[U, W, P]) route(id model.EntityID) (backend, error) {
	if id == "" {
		return 0, goerr.Wrap(ErrEmptyID, "cannot route entity", goerr.V("type", u.Type()))
	}

	_, signedIn := u.resolver.Identity()
	switch {
	case id.IsTemp() && !signedIn:
		return backendDraft, nil
	case !id.IsTemp() && signedIn:
		return backendRemote, nil
	case id.IsTemp():
		return 0, goerr.Wrap(ErrDraftOutsidePlayground, "cannot route entity", goerr.V("type", u.Type()), goerr.V("id", id))
	default:
		return 0, goerr.Wrap(ErrNotAuthenticated, "cannot route entity", goerr.V("type", u.Type()), goerr.V("id", id))
	}
}

func (u *UseCase[U, W, P]) itemKey(id model.EntityID) cache.Key {
	return u.resolver.ScopedKey(string(u.Type()), string(id))
}

// typeKey addresses the entity type as a whole in the current scope
func (u *UseCase[U, W, P]) typeKey() cache.Key {
	return u.resolver.ScopedKey(string(u.Type()))
}

func (u *UseCase[U, W, P]) listKey(parent model.EntityID) cache.Key {
	return u.resolver.ScopedKey(string(u.Type()), listSegment, string(parent))
}

func (u *UseCase[U, W, P]) invalidateLists() {
	u.resolver.InvalidateBase(string(u.Type()), listSegment)
}

func (u *UseCase[U, W, P]) cache() *cache.Cache {
	return u.resolver.Cache()
}

// decodeDraft translates a stored draft record into the UI model
func (u *UseCase[U, W, P]) decodeDraft(d draft.Draft) (U, error) {
	var w W
	if err := d.Decode(&w); err != nil {
		var zero U
		return zero, goerr.Wrap(err, "failed to decode draft", goerr.V("type", u.Type()), goerr.V("id", d.ID))
	}
	return u.mapping.ToUI(w), nil
}

func stringField(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
