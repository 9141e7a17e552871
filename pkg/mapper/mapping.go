// Package mapper is the only place where entities are translated between the
// backend wire shape (package wire) and the UI-facing shape (package model).
package mapper

import (
	"maps"
	"slices"

	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model/wire"
)

// Extra carries values that are not part of the UI model but need to be sent
// with a write
type Extra struct {
	// ParentID overrides the owner reference of the UI model when set
	ParentID model.EntityID
	// Metadata keys are added to the entity metadata, replacing existing keys
	Metadata map[string]any
}

// Mapping bundles the two translation functions of one entity type.
// ToUI(ToWire(v)) equals v; nil lists and maps stay nil and empty ones stay
// empty. The distinction is lost once a record passes through JSON, where
// both are omitted.
type Mapping[U, W any] struct {
	Type   model.EntityType
	ToUI   func(W) U
	ToWire func(U, ...Extra) W
}

var (
	Company = Mapping[model.Company, wire.Company]{
		Type:   model.EntityTypeCompany,
		ToUI:   CompanyToUI,
		ToWire: CompanyToWire,
	}
	Account = Mapping[model.Account, wire.Account]{
		Type:   model.EntityTypeAccount,
		ToUI:   AccountToUI,
		ToWire: AccountToWire,
	}
	Persona = Mapping[model.Persona, wire.Persona]{
		Type:   model.EntityTypePersona,
		ToUI:   PersonaToUI,
		ToWire: PersonaToWire,
	}
)

func parentOf(current model.EntityID, extras []Extra) model.EntityID {
	for _, e := range extras {
		if e.ParentID != "" {
			current = e.ParentID
		}
	}
	return current
}

func metadataOf(base map[string]any, extras []Extra) map[string]any {
	out := maps.Clone(base)
	for _, e := range extras {
		if len(e.Metadata) == 0 {
			continue
		}
		if out == nil {
			out = make(map[string]any, len(e.Metadata))
		}
		maps.Copy(out, e.Metadata)
	}
	return out
}

func metadataToUI(m map[string]any) map[string]any {
	return maps.Clone(m)
}

func copyStrings(s []string) []string {
	return slices.Clone(s)
}

func criteriaToUI(c *wire.Criteria) []model.Criterion {
	if c == nil {
		return nil
	}
	out := make([]model.Criterion, 0, len(c.Criteria))
	for _, v := range c.Criteria {
		out = append(out, model.Criterion{Name: v.Attribute, Values: copyStrings(v.Values)})
	}
	return out
}

func criteriaToWire(c []model.Criterion) *wire.Criteria {
	if c == nil {
		return nil
	}
	out := &wire.Criteria{Criteria: make([]wire.Criterion, 0, len(c))}
	for _, v := range c {
		out.Criteria = append(out.Criteria, wire.Criterion{Attribute: v.Name, Values: copyStrings(v.Values)})
	}
	return out
}

func signalsToUI(s []wire.BuyingSignal) []model.BuyingSignal {
	if s == nil {
		return nil
	}
	out := make([]model.BuyingSignal, 0, len(s))
	for _, v := range s {
		out = append(out, model.BuyingSignal{
			Title:           v.Title,
			Description:     v.Description,
			Priority:        v.Priority,
			Type:            v.SignalType,
			DetectionMethod: v.DetectionMethod,
		})
	}
	return out
}

func signalsToWire(s []model.BuyingSignal) []wire.BuyingSignal {
	if s == nil {
		return nil
	}
	out := make([]wire.BuyingSignal, 0, len(s))
	for _, v := range s {
		out = append(out, wire.BuyingSignal{
			Title:           v.Title,
			Description:     v.Description,
			Priority:        v.Priority,
			SignalType:      v.Type,
			DetectionMethod: v.DetectionMethod,
		})
	}
	return out
}

func useCasesToUI(u []wire.UseCase) []model.UseCase {
	if u == nil {
		return nil
	}
	out := make([]model.UseCase, 0, len(u))
	for _, v := range u {
		out = append(out, model.UseCase{
			UseCase:        v.UseCase,
			PainPoints:     v.PainPoints,
			Capability:     v.Capability,
			DesiredOutcome: v.DesiredOutcome,
		})
	}
	return out
}

func useCasesToWire(u []model.UseCase) []wire.UseCase {
	if u == nil {
		return nil
	}
	out := make([]wire.UseCase, 0, len(u))
	for _, v := range u {
		out = append(out, wire.UseCase{
			UseCase:        v.UseCase,
			PainPoints:     v.PainPoints,
			Capability:     v.Capability,
			DesiredOutcome: v.DesiredOutcome,
		})
	}
	return out
}
