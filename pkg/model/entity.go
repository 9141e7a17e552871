package model

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrInvalidEntityType = goerr.New("invalid entity type")
)

// EntityType names one kind of business entity
type EntityType string

const (
	EntityTypeCompany EntityType = "company"
	EntityTypeAccount EntityType = "account"
	EntityTypePersona EntityType = "persona"
)

// EntityTypes lists all entity types in dependency order, owners first
var EntityTypes = []EntityType{
	EntityTypeCompany,
	EntityTypeAccount,
	EntityTypePersona,
}

// Validate checks if the entity type is known
func (t EntityType) Validate() error {
	switch t {
	case EntityTypeCompany, EntityTypeAccount, EntityTypePersona:
		return nil
	default:
		return goerr.Wrap(ErrInvalidEntityType, "unknown entity type", goerr.V("type", t))
	}
}

// Parent returns the owning entity type. Company has no owner.
func (t EntityType) Parent() (EntityType, bool) {
	switch t {
	case EntityTypeAccount:
		return EntityTypeCompany, true
	case EntityTypePersona:
		return EntityTypeAccount, true
	default:
		return "", false
	}
}

// ParseEntityType converts user input such as "accounts" or "Account" into an EntityType
func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// TempIDPrefix marks identifiers allocated locally for drafts
const TempIDPrefix = "temp_"

// EntityID is either a stable backend identifier or a temporary draft identifier
type EntityID string

// IsTemp reports whether the id was allocated locally and never persisted
func (id EntityID) IsTemp() bool {
	return strings.HasPrefix(string(id), TempIDPrefix)
}

func (id EntityID) String() string {
	return string(id)
}

// IDMap maps temporary ids to the stable ids assigned on persistence
type IDMap map[EntityID]EntityID

// Resolve returns the stable id for a temporary id, or id itself when unmapped
func (m IDMap) Resolve(id EntityID) EntityID {
	if stable, ok := m[id]; ok {
		return stable
	}
	return id
}

// Entity is implemented by every UI-facing entity model
type Entity interface {
	Kind() EntityType
	EntityID() EntityID
	ParentID() EntityID
}

// Mutable is implemented by pointers to UI-facing entity models
type Mutable interface {
	Entity
	SetID(id EntityID)
	Touch(now time.Time)
	Relink(ids IDMap) bool
}

func relink(ref *EntityID, ids IDMap) bool {
	if *ref == "" {
		return false
	}
	resolved := ids.Resolve(*ref)
	if resolved == *ref {
		return false
	}
	*ref = resolved
	return true
}

func touch(createdAt, updatedAt *time.Time, now time.Time) {
	if createdAt.IsZero() {
		*createdAt = now
	}
	*updatedAt = now
}
