package model

import "time"

// Account is a target account segment owned by a Company
type Account struct {
	ID                   EntityID       `json:"id"`
	CompanyID            EntityID       `json:"companyId"`
	Name                 string         `json:"name"`
	Description          string         `json:"description"`
	FirmographicCriteria []Criterion    `json:"firmographicCriteria"`
	BuyingSignals        []BuyingSignal `json:"buyingSignals"`
	Rationale            []string       `json:"rationale"`
	Metadata             map[string]any `json:"metadata"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AccountPatch is a partial update of an Account, see CompanyPatch
type AccountPatch struct {
	CompanyID            *EntityID       `json:"companyId,omitempty"`
	Name                 *string         `json:"name,omitempty"`
	Description          *string         `json:"description,omitempty"`
	FirmographicCriteria *[]Criterion    `json:"firmographicCriteria,omitempty"`
	BuyingSignals        *[]BuyingSignal `json:"buyingSignals,omitempty"`
	Rationale            *[]string       `json:"rationale,omitempty"`
	Metadata             *map[string]any `json:"metadata,omitempty"`
}

func (a Account) Kind() EntityType   { return EntityTypeAccount }
func (a Account) EntityID() EntityID { return a.ID }
func (a Account) ParentID() EntityID { return a.CompanyID }

func (a *Account) SetID(id EntityID) { a.ID = id }

func (a *Account) Touch(now time.Time) { touch(&a.CreatedAt, &a.UpdatedAt, now) }

func (a *Account) Relink(ids IDMap) bool {
	self := relink(&a.ID, ids)
	parent := relink(&a.CompanyID, ids)
	return self || parent
}
