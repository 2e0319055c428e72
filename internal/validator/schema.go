package validator

import (
	"bytes"
	"context"
	"embed"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	titleSchema    = mustCompile("title.json")
	emailSchema    = mustCompile("email.json")
	passwordSchema = mustCompile("password.json")
)

func mustCompile(name string) *jsonschema.Schema {
	raw, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		panic(fmt.Sprintf("validator: read schema %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	url := "mem://schemas/" + name
	if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
		panic(fmt.Sprintf("validator: add schema %s: %v", name, err))
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("validator: compile schema %s: %v", name, err))
	}
	return schema
}

// Shape requires the body to satisfy schema; any schema violation is
// reported as a single failure on field.
func Shape(field string, schema *jsonschema.Schema, message string) Rule {
	return Rule{
		Field:   field,
		Message: message,
		Check: func(_ context.Context, in Input) (bool, error) {
			return schema.Validate(in.Body) == nil, nil
		},
	}
}
