// Package scalar provides the custom GraphQL scalars used by derived types.
package scalar

import (
	"github.com/goccy/go-json"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
)

// JSON is the escape hatch for unstructured hashes. Values travel as a JSON
// encoded string at the boundary, so any structure below the field is lost to
// the schema.
var JSON = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "JSON",
	Description: "A valid JSON document, transported as a string",
	Serialize:   serializeJSON,
	ParseValue:  parseJSON,
	ParseLiteral: func(valueAST ast.Value) interface{} {
		switch valueAST := valueAST.(type) {
		case *ast.StringValue:
			return parseJSON(valueAST.Value)
		}
		return nil
	},
})

func serializeJSON(value interface{}) interface{} {
	switch value := value.(type) {
	case nil:
		return nil
	case json.RawMessage:
		return string(value)
	}
	buf, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	return string(buf)
}

func parseJSON(value interface{}) interface{} {
	var raw []byte
	switch value := value.(type) {
	case string:
		raw = []byte(value)
	case *string:
		if value == nil {
			return nil
		}
		raw = []byte(*value)
	case []byte:
		raw = value
	default:
		return nil
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// Passthrough returns a scalar named name that serializes and parses values
// unchanged. String literals are accepted as is.
func Passthrough(name, description string) *graphql.Scalar {
	return graphql.NewScalar(graphql.ScalarConfig{
		Name:        name,
		Description: description,
		Serialize:   identity,
		ParseValue:  identity,
		ParseLiteral: func(valueAST ast.Value) interface{} {
			switch valueAST := valueAST.(type) {
			case *ast.StringValue:
				return valueAST.Value
			case *ast.IntValue:
				return valueAST.Value
			case *ast.FloatValue:
				return valueAST.Value
			case *ast.BooleanValue:
				return valueAST.Value
			}
			return nil
		},
	})
}

func identity(value interface{}) interface{} { return value }
