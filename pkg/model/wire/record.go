// Package wire defines the entity shapes exchanged with the backend API. Field
// names and nesting follow the backend contract and are translated to the UI
// models only by package mapper.
package wire

import (
	"time"

	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
)

// Record is implemented by every wire entity
type Record interface {
	RecordID() string
	ParentRef() string
	CreatedStamp() string
}

// Stampable is a pointer to a wire entity that a backend can assign ids and
// timestamps to
type Stampable[W any] interface {
	*W
	Record
	Stamp(id string, now time.Time)
	Restamp(id, createdAt string, now time.Time)
	SetParentRef(id string)
}

// Collection returns the REST collection name of an entity type
func Collection(t model.EntityType) string {
	switch t {
	case model.EntityTypeCompany:
		return "companies"
	case model.EntityTypeAccount:
		return "accounts"
	case model.EntityTypePersona:
		return "personas"
	default:
		return string(t) + "s"
	}
}

// ParentField returns the field carrying the owner reference, empty for companies
func ParentField(t model.EntityType) string {
	switch t {
	case model.EntityTypeAccount:
		return "company_id"
	case model.EntityTypePersona:
		return "account_id"
	default:
		return ""
	}
}

// FormatTime renders a timestamp in the wire format. Zero time is empty.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTime reads a wire timestamp. Empty or malformed input yields zero time.
func ParseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func stamp(id *string, createdAt, updatedAt *string, newID string, now time.Time) {
	if *id == "" {
		*id = newID
	}
	if *createdAt == "" {
		*createdAt = FormatTime(now)
	}
	*updatedAt = FormatTime(now)
}

func restamp(id, createdAt, updatedAt *string, newID, created string, now time.Time) {
	*id = newID
	if created != "" {
		*createdAt = created
	} else if *createdAt == "" {
		*createdAt = FormatTime(now)
	}
	*updatedAt = FormatTime(now)
}
