// Package merge implements the field-preserving update rule: a partial update
// replaces the top-level fields it names, wholesale, and carries every other
// top-level field over unchanged. Nested objects and lists are never merged;
// a caller editing one element of a list resupplies the whole list.
package merge

import (
	"bytes"
	"encoding/json"
	"maps"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrNotObject    = goerr.New("value is not a JSON object")
	ErrUnknownField = goerr.New("unknown field in update")
)

// Fields is a JSON object split at the top level
type Fields map[string]json.RawMessage

// ToFields marshals v and splits the resulting JSON object into its top-level fields
func ToFields(v any) (Fields, error) {
	if f, ok := v.(Fields); ok {
		return maps.Clone(f), nil
	}

	raw, ok := v.(json.RawMessage)
	if !ok {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to marshal value")
		}
		raw = b
	}
	return Parse(raw)
}

// Parse splits raw JSON into top-level fields
func Parse(raw []byte) (Fields, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return nil, goerr.Wrap(ErrNotObject, "failed to parse fields", goerr.V("head", head(raw)))
	}
	var f Fields
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, goerr.Wrap(err, "failed to parse fields")
	}
	if f == nil {
		f = Fields{}
	}
	return f, nil
}

// Bytes encodes the fields back into a JSON object
func (f Fields) Bytes() ([]byte, error) {
	if f == nil {
		return []byte("{}"), nil
	}
	b, err := json.Marshal(map[string]json.RawMessage(f))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal fields")
	}
	return b, nil
}

// Decode unmarshals the fields into v
func (f Fields) Decode(v any) error {
	b, err := f.Bytes()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return goerr.Wrap(err, "failed to decode fields")
	}
	return nil
}

// Set stores the JSON encoding of v under key
func (f Fields) Set(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal field", goerr.V("key", key))
	}
	f[key] = b
	return nil
}

// Shallow returns current overlaid with update at the top level only. Neither
// input is modified.
func Shallow(current, update Fields) Fields {
	out := make(Fields, len(current)+len(update))
	maps.Copy(out, current)
	maps.Copy(out, update)
	return out
}

// Apply merges patch into current with the shallow rule and decodes the result
// back into T. Top-level keys of patch that T does not know are rejected.
func Apply[T any](current T, patch any) (T, error) {
	var zero T

	base, err := ToFields(current)
	if err != nil {
		return zero, goerr.Wrap(err, "failed to split current value")
	}
	update, err := ToFields(patch)
	if err != nil {
		return zero, goerr.Wrap(err, "failed to split update")
	}

	merged, err := Shallow(base, update).Bytes()
	if err != nil {
		return zero, err
	}

	var out T
	dec := json.NewDecoder(bytes.NewReader(merged))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		if strings.Contains(err.Error(), "unknown field") {
			return zero, goerr.Wrap(ErrUnknownField, err.Error())
		}
		return zero, goerr.Wrap(err, "failed to decode merged value")
	}
	return out, nil
}

func head(raw []byte) string {
	const n = 16
	if len(raw) > n {
		return string(raw[:n])
	}
	return string(raw)
}
