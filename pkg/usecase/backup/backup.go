// Package backup copies the playground drafts to object storage and back
package backup

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/adapter"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/draft"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/utils/logging"
)

var ErrImportRejected = goerr.New("draft store rejected the snapshot")

// UseCase provides backup operations
type UseCase struct {
	drafts  *draft.Store
	storage adapter.Storage
	now     func() time.Time
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithClock sets the time source used for default object names
func WithClock(now func() time.Time) Option {
	return func(u *UseCase) {
		u.now = now
	}
}

// New creates a backup UseCase
func New(drafts *draft.Store, storage adapter.Storage, opts ...Option) *UseCase {
	u := &UseCase{
		drafts:  drafts,
		storage: storage,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// ObjectName returns the default object name for a backup taken now
func (u *UseCase) ObjectName() string {
	return "drafts-" + u.now().UTC().Format("20060102T150405Z") + ".json"
}

// Push writes a snapshot of every draft and returns the number of drafts saved
func (u *UseCase) Push(ctx context.Context, key string) (int, error) {
	snapshot := u.drafts.Export(ctx)

	w, err := u.storage.Put(ctx, key)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to open backup object", goerr.V("key", key))
	}
	if err := snapshot.Encode(w); err != nil {
		_ = w.Close()
		return 0, goerr.Wrap(err, "failed to write backup", goerr.V("key", key))
	}
	if err := w.Close(); err != nil {
		return 0, goerr.Wrap(err, "failed to finish backup", goerr.V("key", key))
	}

	logging.From(ctx).Info("drafts backed up", "key", key, "drafts", len(snapshot.Drafts))
	return len(snapshot.Drafts), nil
}

// Pull replaces every draft with the contents of a snapshot and returns the
// number of drafts restored
func (u *UseCase) Pull(ctx context.Context, key string) (int, error) {
	r, err := u.storage.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	snapshot, err := draft.DecodeSnapshot(r)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to read backup", goerr.V("key", key))
	}
	if !u.drafts.Import(ctx, snapshot) {
		return 0, goerr.Wrap(ErrImportRejected, "cannot restore backup", goerr.V("key", key))
	}

	logging.From(ctx).Info("drafts restored", "key", key, "drafts", len(snapshot.Drafts))
	return len(snapshot.Drafts), nil
}
