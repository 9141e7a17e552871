package mapper

import (
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model/wire"
)

func AccountToUI(w wire.Account) model.Account {
	data := w.Data
	if data == nil {
		data = &wire.AccountData{}
	}

	return model.Account{
		ID:                   model.EntityID(w.ID),
		CompanyID:            model.EntityID(w.CompanyID),
		Name:                 w.Name,
		Description:          w.Description,
		FirmographicCriteria: criteriaToUI(data.Firmographics),
		BuyingSignals:        signalsToUI(data.BuyingSignals),
		Rationale:            copyStrings(data.Rationale),
		Metadata:             metadataToUI(w.Metadata),
		CreatedAt:            wire.ParseTime(w.CreatedAt),
		UpdatedAt:            wire.ParseTime(w.UpdatedAt),
	}
}

func AccountToWire(a model.Account, extras ...Extra) wire.Account {
	return wire.Account{
		ID:          string(a.ID),
		CompanyID:   string(parentOf(a.CompanyID, extras)),
		Name:        a.Name,
		Description: a.Description,
		Data: &wire.AccountData{
			Firmographics: criteriaToWire(a.FirmographicCriteria),
			BuyingSignals: signalsToWire(a.BuyingSignals),
			Rationale:     copyStrings(a.Rationale),
		},
		Metadata:  metadataOf(a.Metadata, extras),
		CreatedAt: wire.FormatTime(a.CreatedAt),
		UpdatedAt: wire.FormatTime(a.UpdatedAt),
	}
}
