package config

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaErr      error
)

// Schema returns the embedded configuration JSON Schema.
func Schema() string {
	return schemaJSON
}

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	})
	return compiledSchema, schemaErr
}

// validateSchema checks one raw configuration layer against the embedded schema
func validateSchema(raw map[string]any, source string) error {
	schema, err := loadSchema()
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		var b strings.Builder
		fmt.Fprintf(&b, "schema validation failed for %s:", source)
		for _, desc := range result.Errors() {
			fmt.Fprintf(&b, "\n  - %s: %s", desc.Field(), desc.Description())
		}
		return fmt.Errorf("%s", b.String())
	}

	return nil
}
