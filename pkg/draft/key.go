package draft

import (
	"strings"

	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
)

// PartitionTag reserves the part of the key-value store that holds drafts
const PartitionTag = "playground"

// Key addresses one draft in the key-value store
type Key struct {
	Type model.EntityType
	ID   model.EntityID
}

// NewKey is the only constructor of Key
func NewKey(t model.EntityType, id model.EntityID) Key {
	return Key{Type: t, ID: id}
}

// String serializes the key as {partition}_{entityType}_{id}
func (k Key) String() string {
	return PartitionTag + "_" + string(k.Type) + "_" + string(k.ID)
}

// ParseKey reads a serialized key. ok is false for keys outside the partition.
func ParseKey(s string) (Key, bool) {
	rest, found := strings.CutPrefix(s, PartitionTag+"_")
	if !found {
		return Key{}, false
	}
	t, id, found := strings.Cut(rest, "_")
	if !found || id == "" {
		return Key{}, false
	}
	if err := model.EntityType(t).Validate(); err != nil {
		return Key{}, false
	}
	return NewKey(model.EntityType(t), model.EntityID(id)), true
}
