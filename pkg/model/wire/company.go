package wire

import "time"

type Positioning struct {
	KeyMarketBelief string   `json:"key_market_belief,omitempty" firestore:"key_market_belief"`
	UniqueApproach  string   `json:"unique_approach,omitempty" firestore:"unique_approach"`
	Differentiators []string `json:"differentiators,omitempty" firestore:"differentiators"`
}

type UseCase struct {
	UseCase        string `json:"use_case,omitempty" firestore:"use_case"`
	PainPoints     string `json:"pain_points,omitempty" firestore:"pain_points"`
	Capability     string `json:"capability,omitempty" firestore:"capability"`
	DesiredOutcome string `json:"desired_outcome,omitempty" firestore:"desired_outcome"`
}

type CompanyData struct {
	Description  string       `json:"description,omitempty" firestore:"description"`
	Capabilities []string     `json:"capabilities,omitempty" firestore:"capabilities"`
	Positioning  *Positioning `json:"positioning,omitempty" firestore:"positioning"`
	UseCases     []UseCase    `json:"use_cases,omitempty" firestore:"use_cases"`
}

type Company struct {
	ID        string         `json:"id,omitempty" firestore:"id"`
	Name      string         `json:"name,omitempty" firestore:"name"`
	URL       string         `json:"url,omitempty" firestore:"url"`
	Data      *CompanyData   `json:"data,omitempty" firestore:"data"`
	Metadata  map[string]any `json:"metadata,omitempty" firestore:"metadata"`
	CreatedAt string         `json:"created_at,omitempty" firestore:"created_at"`
	UpdatedAt string         `json:"updated_at,omitempty" firestore:"updated_at"`
}

func (c Company) RecordID() string  { return c.ID }
func (c Company) ParentRef() string { return "" }

func (c Company) CreatedStamp() string { return c.CreatedAt }

func (c *Company) Stamp(id string, now time.Time) {
	stamp(&c.ID, &c.CreatedAt, &c.UpdatedAt, id, now)
}

func (c *Company) Restamp(id, createdAt string, now time.Time) {
	restamp(&c.ID, &c.CreatedAt, &c.UpdatedAt, id, createdAt, now)
}

func (c *Company) SetParentRef(string) {}
