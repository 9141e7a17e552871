package entity

import (
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/merge"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model/wire"
)

// RelinkFields rewrites the id and owner reference of a stored wire record
// through ids. The input is not modified.
func (u *UseCase[U, W, P]) RelinkFields(f merge.Fields, ids model.IDMap) (merge.Fields, bool) {
	out := merge.Shallow(f, nil)
	changed := false

	for _, name := range []string{"id", wire.ParentField(u.Type())} {
		if name == "" {
			continue
		}
		raw, ok := out[name]
		if !ok {
			continue
		}
		ref, ok := stringField(raw)
		if !ok {
			continue
		}
		if resolved := ids.Resolve(model.EntityID(ref)); string(resolved) != ref {
			if err := out.Set(name, resolved); err != nil {
				continue
			}
			changed = true
		}
	}
	return out, changed
}

// RelinkValue rewrites references inside a cached value of this type, either a
// single entity or a list
func (u *UseCase[U, W, P]) RelinkValue(v any, ids model.IDMap) (any, bool) {
	switch x := v.(type) {
	case U:
		changed := P(&x).Relink(ids)
		return x, changed

	case []U:
		out := make([]U, len(x))
		changed := false
		for i := range x {
			out[i] = x[i]
			if P(&out[i]).Relink(ids) {
				changed = true
			}
		}
		return out, changed

	default:
		return v, false
	}
}
