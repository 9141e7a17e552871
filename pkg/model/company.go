package model

import "time"

type Positioning struct {
	KeyMarketBelief string   `json:"keyMarketBelief"`
	UniqueApproach  string   `json:"uniqueApproach"`
	Differentiators []string `json:"differentiators"`
}

// Company is the user's own business, the root of an analysis
type Company struct {
	ID           EntityID       `json:"id"`
	Name         string         `json:"name"`
	URL          string         `json:"url"`
	Description  string         `json:"description"`
	Capabilities []string       `json:"capabilities"`
	Positioning  Positioning    `json:"positioning"`
	UseCases     []UseCase      `json:"useCases"`
	Metadata     map[string]any `json:"metadata"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CompanyPatch is a partial update. Nil fields are left untouched; non-nil
// fields replace the whole top-level field.
type CompanyPatch struct {
	Name         *string         `json:"name,omitempty"`
	URL          *string         `json:"url,omitempty"`
	Description  *string         `json:"description,omitempty"`
	Capabilities *[]string       `json:"capabilities,omitempty"`
	Positioning  *Positioning    `json:"positioning,omitempty"`
	UseCases     *[]UseCase      `json:"useCases,omitempty"`
	Metadata     *map[string]any `json:"metadata,omitempty"`
}

func (c Company) Kind() EntityType   { return EntityTypeCompany }
func (c Company) EntityID() EntityID { return c.ID }
func (c Company) ParentID() EntityID { return "" }

func (c *Company) SetID(id EntityID) { c.ID = id }

func (c *Company) Touch(now time.Time) { touch(&c.CreatedAt, &c.UpdatedAt, now) }

func (c *Company) Relink(ids IDMap) bool {
	return relink(&c.ID, ids)
}
