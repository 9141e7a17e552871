package draft

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/merge"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model/wire"
)

// Validator checks that a stored record is well formed
type Validator func(fields merge.Fields) error

// SchemaValidator derives a JSON schema from the Go type W and validates
// records against it
func SchemaValidator[W any]() (Validator, error) {
	schema, err := jsonschema.For[W](nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to infer schema")
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to resolve schema")
	}

	return func(fields merge.Fields) error {
		raw, err := fields.Bytes()
		if err != nil {
			return err
		}
		var instance any
		if err := json.Unmarshal(raw, &instance); err != nil {
			return goerr.Wrap(err, "failed to decode record")
		}
		if err := resolved.Validate(instance); err != nil {
			return goerr.Wrap(err, "record does not match schema")
		}
		return nil
	}, nil
}

// WireValidators returns validators for the wire shape of every entity type
func WireValidators() (map[model.EntityType]Validator, error) {
	company, err := SchemaValidator[wire.Company]()
	if err != nil {
		return nil, goerr.Wrap(err, "company schema")
	}
	account, err := SchemaValidator[wire.Account]()
	if err != nil {
		return nil, goerr.Wrap(err, "account schema")
	}
	persona, err := SchemaValidator[wire.Persona]()
	if err != nil {
		return nil, goerr.Wrap(err, "persona schema")
	}

	return map[model.EntityType]Validator{
		model.EntityTypeCompany: company,
		model.EntityTypeAccount: account,
		model.EntityTypePersona: persona,
	}, nil
}
