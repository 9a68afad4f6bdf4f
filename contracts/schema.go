// Package contracts checks cleaned documents against the published
// property schema before they leave the process.
package contracts

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "property.schema.json"

//go:embed schemas/property.schema.json
var propertySchema []byte

// ErrContract is returned when a cleaned document does not match the
// property schema.
var ErrContract = errors.New("output does not match the property contract")

var compiled = mustCompile()

func mustCompile() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, bytes.NewReader(propertySchema)); err != nil {
		panic(fmt.Sprintf("contracts: add schema: %v", err))
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		panic(fmt.Sprintf("contracts: compile schema: %v", err))
	}
	return schema
}

// ValidateDocument checks an encoded cleaned document, either a single
// property object or an array of them.
func ValidateDocument(body []byte) error {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("%w: body is not valid JSON: %v", ErrContract, err)
	}
	if err := compiled.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", ErrContract, err)
	}
	return nil
}
