package snapshot

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

var (
	schemaOnce     sync.Once
	schema         *jsonschema.Schema
	resolvedSchema *jsonschema.Resolved
	schemaErr      error
)

func loadSchema() (*jsonschema.Resolved, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.For[File](nil)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("failed to infer snapshot schema: %w", schemaErr)
			return
		}
		schema.Title = "CRM business data snapshot"
		resolvedSchema, schemaErr = schema.Resolve(nil)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("failed to resolve snapshot schema: %w", schemaErr)
		}
	})
	return resolvedSchema, schemaErr
}

// Schema returns the JSON schema of the snapshot file format.
func Schema() (*jsonschema.Schema, error) {
	if _, err := loadSchema(); err != nil {
		return nil, err
	}
	return schema, nil
}

// SchemaJSON returns the indented JSON schema document.
func SchemaJSON() ([]byte, error) {
	s, err := Schema()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(s, "", "  ")
}

// Validate checks a raw snapshot document against the schema.
func Validate(data []byte) error {
	resolved, err := loadSchema()
	if err != nil {
		return err
	}

	var instance map[string]any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if err := resolved.Validate(instance); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	return nil
}
