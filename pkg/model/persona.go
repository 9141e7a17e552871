package model

import "time"

// Persona is a buyer persona owned by an Account
type Persona struct {
	ID                  EntityID       `json:"id"`
	AccountID           EntityID       `json:"accountId"`
	Name                string         `json:"name"`
	Description         string         `json:"description"`
	DemographicCriteria []Criterion    `json:"demographicCriteria"`
	UseCases            []UseCase      `json:"useCases"`
	BuyingSignals       []BuyingSignal `json:"buyingSignals"`
	Objections          []string       `json:"objections"`
	Goals               []string       `json:"goals"`
	Metadata            map[string]any `json:"metadata"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PersonaPatch is a partial update of a Persona, see CompanyPatch
type PersonaPatch struct {
	AccountID           *EntityID       `json:"accountId,omitempty"`
	Name                *string         `json:"name,omitempty"`
	Description         *string         `json:"description,omitempty"`
	DemographicCriteria *[]Criterion    `json:"demographicCriteria,omitempty"`
	UseCases            *[]UseCase      `json:"useCases,omitempty"`
	BuyingSignals       *[]BuyingSignal `json:"buyingSignals,omitempty"`
	Objections          *[]string       `json:"objections,omitempty"`
	Goals               *[]string       `json:"goals,omitempty"`
	Metadata            *map[string]any `json:"metadata,omitempty"`
}

func (p Persona) Kind() EntityType   { return EntityTypePersona }
func (p Persona) EntityID() EntityID { return p.ID }
func (p Persona) ParentID() EntityID { return p.AccountID }

func (p *Persona) SetID(id EntityID) { p.ID = id }

func (p *Persona) Touch(now time.Time) { touch(&p.CreatedAt, &p.UpdatedAt, now) }

func (p *Persona) Relink(ids IDMap) bool {
	self := relink(&p.ID, ids)
	parent := relink(&p.AccountID, ids)
	return self || parent
}
