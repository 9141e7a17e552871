package wire

import "time"

type PersonaData struct {
	Demographics  *Criteria      `json:"demographics,omitempty" firestore:"demographics"`
	UseCases      []UseCase      `json:"use_cases,omitempty" firestore:"use_cases"`
	BuyingSignals []BuyingSignal `json:"buying_signals,omitempty" firestore:"buying_signals"`
	Objections    []string       `json:"objections,omitempty" firestore:"objections"`
	Goals         []string       `json:"goals,omitempty" firestore:"goals"`
}

type Persona struct {
	ID          string         `json:"id,omitempty" firestore:"id"`
	AccountID   string         `json:"account_id,omitempty" firestore:"account_id"`
	Name        string         `json:"name,omitempty" firestore:"name"`
	Description string         `json:"description,omitempty" firestore:"description"`
	Data        *PersonaData   `json:"data,omitempty" firestore:"data"`
	Metadata    map[string]any `json:"metadata,omitempty" firestore:"metadata"`
	CreatedAt   string         `json:"created_at,omitempty" firestore:"created_at"`
	UpdatedAt   string         `json:"updated_at,omitempty" firestore:"updated_at"`
}

func (p Persona) RecordID() string  { return p.ID }
func (p Persona) ParentRef() string { return p.AccountID }

func (p Persona) CreatedStamp() string { return p.CreatedAt }

func (p *Persona) Stamp(id string, now time.Time) {
	stamp(&p.ID, &p.CreatedAt, &p.UpdatedAt, id, now)
}

func (p *Persona) Restamp(id, createdAt string, now time.Time) {
	restamp(&p.ID, &p.CreatedAt, &p.UpdatedAt, id, createdAt, now)
}

func (p *Persona) SetParentRef(id string) { p.AccountID = id }
