package mapper

import (
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model/wire"
)

func CompanyToUI(w wire.Company) model.Company {
	data := w.Data
	if data == nil {
		data = &wire.CompanyData{}
	}
	positioning := data.Positioning
	if positioning == nil {
		positioning = &wire.Positioning{}
	}

	return model.Company{
		ID:           model.EntityID(w.ID),
		Name:         w.Name,
		URL:          w.URL,
		Description:  data.Description,
		Capabilities: copyStrings(data.Capabilities),
		Positioning: model.Positioning{
			KeyMarketBelief: positioning.KeyMarketBelief,
			UniqueApproach:  positioning.UniqueApproach,
			Differentiators: copyStrings(positioning.Differentiators),
		},
		UseCases:  useCasesToUI(data.UseCases),
		Metadata:  metadataToUI(w.Metadata),
		CreatedAt: wire.ParseTime(w.CreatedAt),
		UpdatedAt: wire.ParseTime(w.UpdatedAt),
	}
}

// CompanyToWire translates a Company. Companies have no owner, so
// Extra.ParentID is ignored.
func CompanyToWire(c model.Company, extras ...Extra) wire.Company {
	return wire.Company{
		ID:   string(c.ID),
		Name: c.Name,
		URL:  c.URL,
		Data: &wire.CompanyData{
			Description:  c.Description,
			Capabilities: copyStrings(c.Capabilities),
			Positioning: &wire.Positioning{
				KeyMarketBelief: c.Positioning.KeyMarketBelief,
				UniqueApproach:  c.Positioning.UniqueApproach,
				Differentiators: copyStrings(c.Positioning.Differentiators),
			},
			UseCases: useCasesToWire(c.UseCases),
		},
		Metadata:  metadataOf(c.Metadata, extras),
		CreatedAt: wire.FormatTime(c.CreatedAt),
		UpdatedAt: wire.FormatTime(c.UpdatedAt),
	}
}
