package mapper

import (
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model/wire"
)

func PersonaToUI(w wire.Persona) model.Persona {
	data := w.Data
	if data == nil {
		data = &wire.PersonaData{}
	}

	return model.Persona{
		ID:                  model.EntityID(w.ID),
		AccountID:           model.EntityID(w.AccountID),
		Name:                w.Name,
		Description:         w.Description,
		DemographicCriteria: criteriaToUI(data.Demographics),
		UseCases:            useCasesToUI(data.UseCases),
		BuyingSignals:       signalsToUI(data.BuyingSignals),
		Objections:          copyStrings(data.Objections),
		Goals:               copyStrings(data.Goals),
		Metadata:            metadataToUI(w.Metadata),
		CreatedAt:           wire.ParseTime(w.CreatedAt),
		UpdatedAt:           wire.ParseTime(w.UpdatedAt),
	}
}

func PersonaToWire(p model.Persona, extras ...Extra) wire.Persona {
	return wire.Persona{
		ID:          string(p.ID),
		AccountID:   string(parentOf(p.AccountID, extras)),
		Name:        p.Name,
		Description: p.Description,
		Data: &wire.PersonaData{
			Demographics:  criteriaToWire(p.DemographicCriteria),
			UseCases:      useCasesToWire(p.UseCases),
			BuyingSignals: signalsToWire(p.BuyingSignals),
			Objections:    copyStrings(p.Objections),
			Goals:         copyStrings(p.Goals),
		},
		Metadata:  metadataOf(p.Metadata, extras),
		CreatedAt: wire.FormatTime(p.CreatedAt),
		UpdatedAt: wire.FormatTime(p.UpdatedAt),
	}
}
