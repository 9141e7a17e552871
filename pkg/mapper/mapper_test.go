package mapper_test

import (
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/mapper"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model/wire"
)

var (
	created = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	updated = time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)
)

func sampleCompany() model.Company {
	return model.Company{
		ID:           "co_1",
		Name:         "Blossomer",
		URL:          "https://blossomer.io",
		Description:  "GTM intelligence",
		Capabilities: []string{"icp discovery", "persona research"},
		Positioning: model.Positioning{
			KeyMarketBelief: "outbound is broken",
			UniqueApproach:  "evidence-backed targeting",
			Differentiators: []string{"fast", "grounded"},
		},
		UseCases: []model.UseCase{
			{UseCase: "find ICP", PainPoints: "guesswork", Capability: "analysis", DesiredOutcome: "focus"},
		},
		Metadata:  map[string]any{"source": "wizard"},
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

func sampleAccount() model.Account {
	return model.Account{
		ID:          "acc_1",
		CompanyID:   "co_1",
		Name:        "Mid-market SaaS",
		Description: "B2B software, 50-500 employees",
		FirmographicCriteria: []model.Criterion{
			{Name: "industry", Values: []string{"software"}},
			{Name: "employees", Values: []string{"50-500"}},
		},
		BuyingSignals: []model.BuyingSignal{
			{Title: "Hiring SDRs", Description: "job posts", Priority: "high", Type: "hiring", DetectionMethod: "job boards"},
		},
		Rationale: []string{"short sales cycle"},
		Metadata:  map[string]any{"score": 0.8},
		CreatedAt: created,
		UpdatedAt: updated,
	}
}

func samplePersona() model.Persona {
	return model.Persona{
		ID:          "per_1",
		AccountID:   "acc_1",
		Name:        "VP Sales",
		Description: "Owns pipeline",
		DemographicCriteria: []model.Criterion{
			{Name: "seniority", Values: []string{"vp", "director"}},
		},
		UseCases: []model.UseCase{
			{UseCase: "pipeline", PainPoints: "low reply rates", Capability: "targeting", DesiredOutcome: "meetings"},
		},
		BuyingSignals: []model.BuyingSignal{
			{Title: "New VP", Priority: "medium", Type: "leadership change"},
		},
		Objections: []string{"budget"},
		Goals:      []string{"hit quota"},
		Metadata:   map[string]any{},
		CreatedAt:  created,
		UpdatedAt:  updated,
	}
}

func TestCompanyRoundTrip(t *testing.T) {
	ui := sampleCompany()
	got := mapper.CompanyToUI(mapper.CompanyToWire(ui))
	gt.Equal(t, got, ui)
}

func TestAccountRoundTrip(t *testing.T) {
	ui := sampleAccount()
	got := mapper.AccountToUI(mapper.AccountToWire(ui))
	gt.Equal(t, got, ui)
}

func TestPersonaRoundTrip(t *testing.T) {
	ui := samplePersona()
	got := mapper.PersonaToUI(mapper.PersonaToWire(ui))
	gt.Equal(t, got, ui)
}

func TestRoundTripEmptyEntity(t *testing.T) {
	// an empty wire record survives a round trip too
	company := mapper.CompanyToUI(wire.Company{})
	gt.Equal(t, mapper.CompanyToUI(mapper.CompanyToWire(company)), company)

	account := mapper.AccountToUI(wire.Account{})
	gt.Equal(t, mapper.AccountToUI(mapper.AccountToWire(account)), account)
	gt.A(t, account.FirmographicCriteria).Length(0)

	persona := mapper.PersonaToUI(wire.Persona{})
	gt.Equal(t, mapper.PersonaToUI(mapper.PersonaToWire(persona)), persona)
}

func TestRoundTripKeepsNilAndEmpty(t *testing.T) {
	nilCompany := model.Company{ID: "co_2", Name: "Bare", CreatedAt: created, UpdatedAt: updated}
	gotCompany := mapper.CompanyToUI(mapper.CompanyToWire(nilCompany))
	gt.Equal(t, gotCompany, nilCompany)
	gt.True(t, gotCompany.Metadata == nil)
	gt.True(t, gotCompany.Capabilities == nil)
	gt.True(t, gotCompany.UseCases == nil)

	nilAccount := model.Account{ID: "acc_2", CompanyID: "co_2", Name: "Bare"}
	gotAccount := mapper.AccountToUI(mapper.AccountToWire(nilAccount))
	gt.Equal(t, gotAccount, nilAccount)
	gt.True(t, gotAccount.FirmographicCriteria == nil)
	gt.True(t, gotAccount.BuyingSignals == nil)

	nilPersona := model.Persona{ID: "per_2", AccountID: "acc_2"}
	gotPersona := mapper.PersonaToUI(mapper.PersonaToWire(nilPersona))
	gt.Equal(t, gotPersona, nilPersona)
	gt.True(t, gotPersona.Goals == nil)

	emptyAccount := model.Account{
		ID:                   "acc_3",
		CompanyID:            "co_2",
		FirmographicCriteria: []model.Criterion{},
		BuyingSignals:        []model.BuyingSignal{},
		Rationale:            []string{},
		Metadata:             map[string]any{},
	}
	gotEmpty := mapper.AccountToUI(mapper.AccountToWire(emptyAccount))
	gt.Equal(t, gotEmpty, emptyAccount)
	gt.True(t, gotEmpty.FirmographicCriteria != nil)
	gt.True(t, gotEmpty.Metadata != nil)
}

func TestAccountWireShape(t *testing.T) {
	w := mapper.AccountToWire(sampleAccount())

	gt.Equal(t, w.CompanyID, "co_1")
	gt.NotNil(t, w.Data)
	gt.NotNil(t, w.Data.Firmographics)
	gt.Equal(t, w.Data.Firmographics.Criteria[0].Attribute, "industry")
	gt.Equal(t, w.Data.BuyingSignals[0].SignalType, "hiring")
	gt.Equal(t, w.CreatedAt, "2026-03-01T09:30:00Z")
}

func TestToWireExtra(t *testing.T) {
	p := samplePersona()
	w := mapper.PersonaToWire(p, mapper.Extra{
		ParentID: "acc_stable",
		Metadata: map[string]any{"origin": "playground"},
	})

	gt.Equal(t, w.AccountID, "acc_stable")
	gt.Equal(t, w.Metadata["origin"], any("playground"))
	// the UI value is not modified
	gt.Equal(t, p.AccountID, model.EntityID("acc_1"))
	gt.Equal(t, len(p.Metadata), 0)
}

func TestMappingRegistry(t *testing.T) {
	gt.Equal(t, mapper.Company.Type, model.EntityTypeCompany)
	gt.Equal(t, mapper.Account.Type, model.EntityTypeAccount)
	gt.Equal(t, mapper.Persona.Type, model.EntityTypePersona)

	a := sampleAccount()
	gt.Equal(t, mapper.Account.ToUI(mapper.Account.ToWire(a)), a)
}

func TestToUIParsesTimestamps(t *testing.T) {
	c := mapper.CompanyToUI(wire.Company{
		ID:        "co_9",
		CreatedAt: "2026-03-01T09:30:00Z",
		UpdatedAt: "not a timestamp",
	})
	gt.True(t, c.CreatedAt.Equal(created))
	gt.True(t, c.UpdatedAt.IsZero())
}
