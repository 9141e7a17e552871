package wire

import "time"

type Criterion struct {
	Attribute string   `json:"attribute,omitempty" firestore:"attribute"`
	Values    []string `json:"values,omitempty" firestore:"values"`
}

type Criteria struct {
	Criteria []Criterion `json:"criteria,omitempty" firestore:"criteria"`
}

type BuyingSignal struct {
	Title           string `json:"title,omitempty" firestore:"title"`
	Description     string `json:"description,omitempty" firestore:"description"`
	Priority        string `json:"priority,omitempty" firestore:"priority"`
	SignalType      string `json:"signal_type,omitempty" firestore:"signal_type"`
	DetectionMethod string `json:"detection_method,omitempty" firestore:"detection_method"`
}

type AccountData struct {
	Firmographics *Criteria      `json:"firmographics,omitempty" firestore:"firmographics"`
	BuyingSignals []BuyingSignal `json:"buying_signals,omitempty" firestore:"buying_signals"`
	Rationale     []string       `json:"rationale,omitempty" firestore:"rationale"`
}

type Account struct {
	ID          string         `json:"id,omitempty" firestore:"id"`
	CompanyID   string         `json:"company_id,omitempty" firestore:"company_id"`
	Name        string         `json:"name,omitempty" firestore:"name"`
	Description string         `json:"description,omitempty" firestore:"description"`
	Data        *AccountData   `json:"data,omitempty" firestore:"data"`
	Metadata    map[string]any `json:"metadata,omitempty" firestore:"metadata"`
	CreatedAt   string         `json:"created_at,omitempty" firestore:"created_at"`
	UpdatedAt   string         `json:"updated_at,omitempty" firestore:"updated_at"`
}

func (a Account) RecordID() string  { return a.ID }
func (a Account) ParentRef() string { return a.CompanyID }

func (a Account) CreatedStamp() string { return a.CreatedAt }

func (a *Account) Stamp(id string, now time.Time) {
	stamp(&a.ID, &a.CreatedAt, &a.UpdatedAt, id, now)
}

func (a *Account) Restamp(id, createdAt string, now time.Time) {
	restamp(&a.ID, &a.CreatedAt, &a.UpdatedAt, id, createdAt, now)
}

func (a *Account) SetParentRef(id string) { a.CompanyID = id }
