package draft

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/kv"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/merge"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/utils/logging"
)

// Action is what a RewriteFunc decides for one draft
type Action int

const (
	Keep Action = iota
	Replace
	Discard
)

// RewriteFunc inspects one draft. For Replace it returns the new record. An
// error aborts the whole rewrite.
type RewriteFunc func(d Draft) (Action, merge.Fields, error)

// Rewrite visits every readable draft of every type and commits all
// replacements and removals in one batch. Nothing is written if fn fails or
// the batch is rejected.
func (s *Store) Rewrite(ctx context.Context, fn RewriteFunc) bool {
	if err := s.rewrite(ctx, fn); err != nil {
		logging.From(ctx).Warn("failed to rewrite drafts", "error", err)
		return false
	}
	return true
}

func (s *Store) rewrite(ctx context.Context, fn RewriteFunc) error {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list drafts")
	}

	var ops []kv.Op
	for _, k := range keys {
		key, ok := ParseKey(k)
		if !ok {
			continue
		}
		d, found, err := s.load(ctx, key)
		if err != nil {
			logging.From(ctx).Warn("skip corrupted draft", "error", err, "key", k)
			continue
		}
		if !found {
			continue
		}

		action, data, err := fn(d)
		if err != nil {
			return goerr.Wrap(err, "rewrite aborted", goerr.V("key", k))
		}
		switch action {
		case Keep:
		case Discard:
			ops = append(ops, kv.Remove(k))
		case Replace:
			raw, err := s.encode(key.Type, key.ID, data)
			if err != nil {
				return goerr.Wrap(err, "invalid replacement", goerr.V("key", k))
			}
			ops = append(ops, kv.Put(k, raw))
		default:
			return goerr.New("unknown rewrite action", goerr.V("action", action))
		}
	}

	if len(ops) == 0 {
		return nil
	}
	if err := s.kv.Apply(ctx, ops...); err != nil {
		return goerr.Wrap(err, "failed to commit rewrite")
	}
	return nil
}
