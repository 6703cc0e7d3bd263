package normalize

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/propma/affordability/internal/domain"
)

//go:embed result.schema.json
var resultSchemaJSON []byte

var (
	compileOnce     sync.Once
	resultSchema    *jsonschema.Schema
	resultSchemaErr error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("result.schema.json", bytes.NewReader(resultSchemaJSON)); err != nil {
			resultSchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		resultSchema, resultSchemaErr = compiler.Compile("result.schema.json")
	})
	return resultSchema, resultSchemaErr
}

// ValidateResult checks result against the published response schema.
func ValidateResult(result domain.NormalizedResult) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	m, err := result.AsMap()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrResultSchemaViolation, err)
	}

	if err := schema.Validate(m); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrResultSchemaViolation, err)
	}
	return nil
}

// ResultSchema returns the raw JSON schema document.
func ResultSchema() []byte {
	out := make([]byte, len(resultSchemaJSON))
	copy(out, resultSchemaJSON)
	return out
}
