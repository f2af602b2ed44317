package transport

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"quizpilot/internal/question"
)

//go:embed suggestion.schema.json
var suggestionSchema string

const suggestionSchemaURL = "quizpilot://suggestion.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(suggestionSchemaURL, strings.NewReader(suggestionSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(suggestionSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
})

// ParseOutput extracts the answer object from raw model output, checks its
// shape, and decodes it leniently.
func ParseOutput(output string) (question.Suggestion, error) {
	fragment, err := question.ExtractAnswerJSON(output)
	if err != nil {
		return question.Suggestion{}, err
	}
	var parsed any
	if err := json.Unmarshal([]byte(fragment), &parsed); err != nil {
		return question.Suggestion{}, fmt.Errorf("parse answer json: %w", err)
	}
	schema, err := compiledSchema()
	if err != nil {
		return question.Suggestion{}, err
	}
	if err := schema.Validate(parsed); err != nil {
		return question.Suggestion{}, fmt.Errorf("answer does not match schema: %w", err)
	}
	return question.ParseSuggestion(fragment)
}
