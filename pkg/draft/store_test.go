package draft_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/draft"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/kv"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/merge"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
)

func fixedClock() time.Time {
	return time.UnixMilli(1000)
}

func newStore(t *testing.T, store kv.Store, opts ...draft.Option) *draft.Store {
	t.Helper()
	opts = append([]draft.Option{
		draft.WithClock(fixedClock),
		draft.WithSuffix(func() string { return "x1" }),
	}, opts...)
	return draft.New(store, opts...)
}

func field(t *testing.T, d draft.Draft, key string) string {
	t.Helper()
	var s string
	gt.NoError(t, json.Unmarshal(d.Data[key], &s))
	return s
}

func TestSaveAndUpdatePreservesFields(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, kv.NewMemory())

	id, ok := s.SaveDraft(ctx, model.EntityTypeAccount, map[string]any{"name": "Acme"})
	gt.True(t, ok)
	gt.Equal(t, id, model.EntityID("temp_1000_x1"))

	drafts := s.GetDrafts(ctx, model.EntityTypeAccount)
	gt.A(t, drafts).Length(1)
	gt.Equal(t, drafts[0].ID, id)
	gt.Equal(t, field(t, drafts[0], "name"), "Acme")
	gt.Equal(t, field(t, drafts[0], "id"), "temp_1000_x1")

	gt.True(t, s.UpdateDraftPreserveFields(ctx, model.EntityTypeAccount, id, map[string]any{"description": "test"}))

	drafts = s.GetDrafts(ctx, model.EntityTypeAccount)
	gt.A(t, drafts).Length(1)
	gt.Equal(t, field(t, drafts[0], "name"), "Acme")
	gt.Equal(t, field(t, drafts[0], "description"), "test")
}

func TestUpdateMissingDraft(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	s := newStore(t, store)

	_, ok := s.SaveDraft(ctx, model.EntityTypeAccount, map[string]any{"name": "Acme"})
	gt.True(t, ok)
	before, err := store.Keys(ctx)
	gt.NoError(t, err)

	gt.False(t, s.UpdateDraftPreserveFields(ctx, model.EntityTypeAccount, "nonexistent", map[string]any{"name": "x"}))
	gt.False(t, s.PutDraft(ctx, model.EntityTypeAccount, "nonexistent", map[string]any{"name": "x"}))

	after, err := store.Keys(ctx)
	gt.NoError(t, err)
	gt.Equal(t, after, before)
	drafts := s.GetDrafts(ctx, model.EntityTypeAccount)
	gt.A(t, drafts).Length(1)
	gt.Equal(t, field(t, drafts[0], "name"), "Acme")
}

func TestUpdatePinsID(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, kv.NewMemory())

	id, ok := s.SaveDraft(ctx, model.EntityTypeCompany, map[string]any{"name": "Acme"})
	gt.True(t, ok)
	gt.True(t, s.UpdateDraftPreserveFields(ctx, model.EntityTypeCompany, id, map[string]any{"id": "other"}))

	d, ok := s.GetDraft(ctx, model.EntityTypeCompany, id)
	gt.True(t, ok)
	gt.Equal(t, field(t, d, "id"), id.String())
}

func TestPutDraftReplacesRecord(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, kv.NewMemory())

	id, ok := s.SaveDraft(ctx, model.EntityTypeCompany, map[string]any{"name": "Acme", "url": "https://acme.test"})
	gt.True(t, ok)
	gt.True(t, s.PutDraft(ctx, model.EntityTypeCompany, id, map[string]any{"name": "Acme 2"}))

	d, ok := s.GetDraft(ctx, model.EntityTypeCompany, id)
	gt.True(t, ok)
	gt.Equal(t, field(t, d, "name"), "Acme 2")
	gt.Map(t, d.Data).NotHasKey("url")
}

func TestHasDraftSeesCorruptedEntries(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	gt.NoError(t, store.Set(ctx, "playground_company_temp_1000_x1", []byte(`[broken`)))
	s := newStore(t, store)

	_, ok := s.GetDraft(ctx, model.EntityTypeCompany, "temp_1000_x1")
	gt.False(t, ok)
	gt.True(t, s.HasDraft(ctx, model.EntityTypeCompany, "temp_1000_x1"))
	gt.False(t, s.HasDraft(ctx, model.EntityTypeCompany, "temp_1000_x2"))

	s.RemoveDraft(ctx, model.EntityTypeCompany, "temp_1000_x1")
	gt.False(t, s.HasDraft(ctx, model.EntityTypeCompany, "temp_1000_x1"))
}

func TestDraftIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	gt.NoError(t, store.Set(ctx, "playground_company_temp_1000_x1", []byte(`{"id":"temp_1000_x1"}`)))
	s := newStore(t, store)

	first, ok := s.SaveDraft(ctx, model.EntityTypeCompany, map[string]any{"name": "a"})
	gt.True(t, ok)
	gt.Equal(t, first, model.EntityID("temp_1001_x1"))

	second, ok := s.SaveDraft(ctx, model.EntityTypeCompany, map[string]any{"name": "b"})
	gt.True(t, ok)
	gt.Equal(t, second, model.EntityID("temp_1002_x1"))
	gt.True(t, first.IsTemp())
	gt.True(t, second.IsTemp())
}

func TestDraftsAreGroupedByType(t *testing.T) {
	ctx := context.Background()
	s := draft.New(kv.NewMemory())

	_, ok := s.SaveDraft(ctx, model.EntityTypeCompany, map[string]any{"name": "c1"})
	gt.True(t, ok)
	_, ok = s.SaveDraft(ctx, model.EntityTypeAccount, map[string]any{"name": "a1"})
	gt.True(t, ok)
	_, ok = s.SaveDraft(ctx, model.EntityTypeAccount, map[string]any{"name": "a2"})
	gt.True(t, ok)

	accounts := s.GetDrafts(ctx, model.EntityTypeAccount)
	gt.A(t, accounts).Length(2)
	gt.Equal(t, field(t, accounts[0], "name"), "a1")
	gt.Equal(t, field(t, accounts[1], "name"), "a2")
	gt.A(t, s.GetDrafts(ctx, model.EntityTypeCompany)).Length(1)
	gt.A(t, s.GetDrafts(ctx, model.EntityTypePersona)).Length(0)
}

func TestClearAllPlaygroundKeepsOtherKeys(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	gt.NoError(t, store.Set(ctx, "auth_credentials", []byte(`{"token":"t"}`)))
	gt.NoError(t, store.Set(ctx, "playgroundish", []byte(`1`)))
	s := newStore(t, store)

	for _, et := range model.EntityTypes {
		_, ok := s.SaveDraft(ctx, et, map[string]any{"name": "n"})
		gt.True(t, ok)
	}

	gt.Equal(t, s.ClearAllPlayground(ctx), 3)
	for _, et := range model.EntityTypes {
		gt.A(t, s.GetDrafts(ctx, et)).Length(0)
	}

	keys, err := store.Keys(ctx)
	gt.NoError(t, err)
	gt.Equal(t, keys, []string{"auth_credentials", "playgroundish"})
	gt.Equal(t, s.ClearAllPlayground(ctx), 0)
}

func TestRemoveDraft(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, kv.NewMemory())

	id, ok := s.SaveDraft(ctx, model.EntityTypePersona, map[string]any{"name": "p"})
	gt.True(t, ok)
	s.RemoveDraft(ctx, model.EntityTypePersona, id)
	s.RemoveDraft(ctx, model.EntityTypePersona, id)

	_, ok = s.GetDraft(ctx, model.EntityTypePersona, id)
	gt.False(t, ok)
}

func TestStorageFailuresAreAbsorbed(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	s := newStore(t, store)
	id, ok := s.SaveDraft(ctx, model.EntityTypeCompany, map[string]any{"name": "Acme"})
	gt.True(t, ok)

	store.FailWith(errors.New("disk gone"))

	_, ok = s.SaveDraft(ctx, model.EntityTypeCompany, map[string]any{"name": "b"})
	gt.False(t, ok)
	gt.A(t, s.GetDrafts(ctx, model.EntityTypeCompany)).Length(0)
	gt.False(t, s.UpdateDraftPreserveFields(ctx, model.EntityTypeCompany, id, map[string]any{"name": "c"}))
	gt.Equal(t, s.ClearAllPlayground(ctx), 0)
	s.RemoveDraft(ctx, model.EntityTypeCompany, id)

	store.FailWith(nil)
	d, ok := s.GetDraft(ctx, model.EntityTypeCompany, id)
	gt.True(t, ok)
	gt.Equal(t, field(t, d, "name"), "Acme")
}

func TestQuotaExceeded(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, kv.NewMemory(kv.WithQuota(16)))

	_, ok := s.SaveDraft(ctx, model.EntityTypeCompany, map[string]any{"name": "a very long company name"})
	gt.False(t, ok)
	gt.A(t, s.GetDrafts(ctx, model.EntityTypeCompany)).Length(0)
}

func TestSaveRejectsNonObject(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, kv.NewMemory())

	_, ok := s.SaveDraft(ctx, model.EntityTypeCompany, []string{"a"})
	gt.False(t, ok)
	_, ok = s.SaveDraft(ctx, model.EntityType("lead"), map[string]any{"name": "a"})
	gt.False(t, ok)
}

func TestCorruptedEntriesAreSkipped(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	validators, err := draft.WireValidators()
	gt.NoError(t, err)
	s := newStore(t, store, draft.WithValidators(validators))

	id, ok := s.SaveDraft(ctx, model.EntityTypeAccount, map[string]any{"name": "Acme"})
	gt.True(t, ok)
	gt.NoError(t, store.Set(ctx, "playground_account_temp_1_broken", []byte("{not json")))
	gt.NoError(t, store.Set(ctx, "playground_account_temp_2_wrong", []byte(`{"id":5}`)))

	drafts := s.GetDrafts(ctx, model.EntityTypeAccount)
	gt.A(t, drafts).Length(1)
	gt.Equal(t, drafts[0].ID, id)

	_, ok = s.GetDraft(ctx, model.EntityTypeAccount, "temp_2_wrong")
	gt.False(t, ok)

	_, ok = s.SaveDraft(ctx, model.EntityTypeAccount, map[string]any{"name": 42})
	gt.False(t, ok)
}

func TestRewrite(t *testing.T) {
	ctx := context.Background()
	s := draft.New(kv.NewMemory())

	keep, ok := s.SaveDraft(ctx, model.EntityTypeAccount, map[string]any{"name": "keep", "company_id": "temp_c"})
	gt.True(t, ok)
	drop, ok := s.SaveDraft(ctx, model.EntityTypeCompany, map[string]any{"name": "drop"})
	gt.True(t, ok)

	ok = s.Rewrite(ctx, func(d draft.Draft) (draft.Action, merge.Fields, error) {
		if d.Type == model.EntityTypeCompany {
			return draft.Discard, nil, nil
		}
		out := merge.Shallow(d.Data, nil)
		gt.NoError(t, out.Set("company_id", "c-1"))
		return draft.Replace, out, nil
	})
	gt.True(t, ok)

	_, ok = s.GetDraft(ctx, model.EntityTypeCompany, drop)
	gt.False(t, ok)
	d, ok := s.GetDraft(ctx, model.EntityTypeAccount, keep)
	gt.True(t, ok)
	gt.Equal(t, field(t, d, "company_id"), "c-1")
	gt.Equal(t, field(t, d, "name"), "keep")
}

func TestRewriteAbortsOnError(t *testing.T) {
	ctx := context.Background()
	s := draft.New(kv.NewMemory())

	a, ok := s.SaveDraft(ctx, model.EntityTypeCompany, map[string]any{"name": "a"})
	gt.True(t, ok)
	_, ok = s.SaveDraft(ctx, model.EntityTypeCompany, map[string]any{"name": "b"})
	gt.True(t, ok)

	ok = s.Rewrite(ctx, func(d draft.Draft) (draft.Action, merge.Fields, error) {
		if d.ID == a {
			return draft.Discard, nil, nil
		}
		return draft.Keep, nil, errors.New("stop")
	})
	gt.False(t, ok)
	gt.A(t, s.GetDrafts(ctx, model.EntityTypeCompany)).Length(2)
}
