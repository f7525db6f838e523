package utils

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/kaptinlin/jsonschema"

	"github.com/parallelme/parallelme/parallelme/apperror"
)

// Schema names accepted by Bind.
const (
	SchemaRegister      = "register"
	SchemaLogin         = "login"
	SchemaPersonaCreate = "persona_create"
	SchemaPersonaUpdate = "persona_update"
	SchemaQuestComplete = "quest_complete"
	SchemaQuestSnippet  = "quest_snippet"
	SchemaBatchChapter  = "batch_chapter"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

var requestSchemas = mustCompileSchemas()

func mustCompileSchemas() map[string]*jsonschema.Schema {
	entries, err := schemaFiles.ReadDir("schemas")
	if err != nil {
		panic(fmt.Sprintf("failed to read request schemas: %v", err))
	}

	compiler := jsonschema.NewCompiler()
	compiled := make(map[string]*jsonschema.Schema, len(entries))
	for _, entry := range entries {
		data, err := schemaFiles.ReadFile(path.Join("schemas", entry.Name()))
		if err != nil {
			panic(fmt.Sprintf("failed to read schema %s: %v", entry.Name(), err))
		}
		schema, err := compiler.Compile(data)
		if err != nil {
			panic(fmt.Sprintf("failed to compile schema %s: %v", entry.Name(), err))
		}
		compiled[strings.TrimSuffix(entry.Name(), ".json")] = schema
	}
	return compiled
}

// Bind validates the request body against the named schema and decodes it
// into out. Failures are validation errors carrying one detail per keyword.
func Bind(c *fiber.Ctx, schemaName string, out interface{}) error {
	schema, ok := requestSchemas[schemaName]
	if !ok {
		return fmt.Errorf("unknown request schema %q", schemaName)
	}

	body := c.Body()
	if len(body) == 0 {
		return apperror.New(apperror.KindValidation, "Request body is required")
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return apperror.Wrap(apperror.KindValidation, "Request body must be valid JSON", err)
	}

	result := schema.Validate(doc)
	if !result.IsValid() {
		details := make(map[string]string, len(result.Errors))
		for field, evalErr := range result.Errors {
			details[field] = evalErr.Error()
		}
		return apperror.New(apperror.KindValidation, "Request validation failed").WithDetails(details)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return apperror.Wrap(apperror.KindValidation, "Request body does not match the expected shape", err)
	}
	return nil
}
