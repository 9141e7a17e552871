package merge_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/merge"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
)

type abc struct {
	A string   `json:"a"`
	B string   `json:"b"`
	C []string `json:"c"`
}

func TestApplyPreservesAbsentFields(t *testing.T) {
	current := abc{A: "a", B: "b", C: []string{"c1", "c2"}}

	merged, err := merge.Apply(current, map[string]any{"b": "new"})
	gt.NoError(t, err)
	gt.Equal(t, merged, abc{A: "a", B: "new", C: []string{"c1", "c2"}})

	// input is untouched
	gt.Equal(t, current.B, "b")
}

func TestApplyReplacesNestedWholesale(t *testing.T) {
	current := model.Company{
		Name: "Acme",
		Positioning: model.Positioning{
			KeyMarketBelief: "belief",
			UniqueApproach:  "approach",
			Differentiators: []string{"x", "y"},
		},
	}

	merged, err := merge.Apply(current, map[string]any{
		"positioning": map[string]any{"uniqueApproach": "other"},
	})
	gt.NoError(t, err)

	// siblings inside the nested object are not deep merged
	gt.Equal(t, merged.Positioning.UniqueApproach, "other")
	gt.Equal(t, merged.Positioning.KeyMarketBelief, "")
	gt.A(t, merged.Positioning.Differentiators).Length(0)
	gt.Equal(t, merged.Name, "Acme")
}

func TestApplyTypedPatch(t *testing.T) {
	current := model.Account{
		ID:        "acc_1",
		CompanyID: "co_1",
		Name:      "Acme",
		Rationale: []string{"r1"},
		BuyingSignals: []model.BuyingSignal{
			{Title: "s1"},
		},
	}

	desc := "test"
	signals := []model.BuyingSignal{{Title: "s1"}, {Title: "s2"}}
	merged, err := merge.Apply(current, model.AccountPatch{
		Description:   &desc,
		BuyingSignals: &signals,
	})
	gt.NoError(t, err)

	gt.Equal(t, merged.Name, "Acme")
	gt.Equal(t, merged.Description, "test")
	gt.A(t, merged.BuyingSignals).Length(2)
	gt.Equal(t, merged.Rationale, []string{"r1"})
	gt.Equal(t, merged.CompanyID, model.EntityID("co_1"))
}

func TestApplyEmptyListClearsField(t *testing.T) {
	current := abc{A: "a", C: []string{"c"}}
	empty := []string{}

	merged, err := merge.Apply(current, struct {
		C *[]string `json:"c,omitempty"`
	}{C: &empty})
	gt.NoError(t, err)
	gt.A(t, merged.C).Length(0)
	gt.Equal(t, merged.A, "a")
}

func TestApplyRejectsUnknownField(t *testing.T) {
	_, err := merge.Apply(abc{}, map[string]any{"d": 1})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, merge.ErrUnknownField))
}

func TestApplyRejectsNonObject(t *testing.T) {
	_, err := merge.Apply(abc{}, []string{"a"})
	gt.Error(t, err)
	gt.True(t, errors.Is(err, merge.ErrNotObject))
}

func TestShallow(t *testing.T) {
	current := merge.Fields{
		"a": json.RawMessage(`1`),
		"b": json.RawMessage(`{"x":1,"y":2}`),
	}
	update := merge.Fields{
		"b": json.RawMessage(`{"x":3}`),
		"c": json.RawMessage(`"new"`),
	}

	out := merge.Shallow(current, update)
	gt.Equal(t, string(out["a"]), `1`)
	gt.Equal(t, string(out["b"]), `{"x":3}`)
	gt.Equal(t, string(out["c"]), `"new"`)
	gt.Equal(t, len(current), 2)
}

func TestFieldsRoundTrip(t *testing.T) {
	f, err := merge.ToFields(abc{A: "a"})
	gt.NoError(t, err)
	gt.NoError(t, f.Set("b", "bee"))

	var out abc
	gt.NoError(t, f.Decode(&out))
	gt.Equal(t, out.A, "a")
	gt.Equal(t, out.B, "bee")

	parsed, err := merge.Parse([]byte(` {"a":"z"}`))
	gt.NoError(t, err)
	gt.Equal(t, string(parsed["a"]), `"z"`)
}
