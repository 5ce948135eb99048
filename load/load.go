// Package load reads entity descriptions from YAML documents.
//
// A document declares custom scalars and a list of entities:
//
//	scalars:
//	  Email: String
//	  Cursor: ""
//	types:
//	  - name: User
//	    model: example.com/app/model.User
//	    skip: [password]
//	    fields:
//	      id: {type: int, primary_key: true}
//	      name: string?
//	      email: Email
//	      tags: "[]string"
//	      password: string
//	      address:
//	        fields:
//	          city: string
//	      group: {ref: Group, optional: true}
//
// Field shorthands are a type keyword, a custom scalar name or a ref to
// another entity. A "[]" prefix makes a list and a "?" suffix makes the field
// optional.
package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Document is a parsed description file.
type Document struct {
	// Scalars maps custom scalar names to the builtin scalar they are
	// transported as. An empty value declares a pass-through scalar.
	Scalars map[string]string `yaml:"scalars"`

	// Types lists the entities in declaration order.
	Types []TypeSpec `yaml:"types" validate:"min=1,dive"`
}

// TypeSpec declares one entity.
type TypeSpec struct {
	Name        string   `yaml:"name" validate:"required"`
	GraphQLName string   `yaml:"graphql_name"`
	Model       string   `yaml:"model"`
	Only        []string `yaml:"only"`
	Skip        []string `yaml:"skip" validate:"excluded_with=Only"`
	Deep        bool     `yaml:"deep"`
	Fields      Fields   `yaml:"fields" validate:"min=1,dive"`
}

// Fields is an ordered set of fields.
type Fields []Field

// Field is a named field.
type Field struct {
	Name string `validate:"required"`
	Spec FieldSpec
}

// FieldSpec describes the type of a field.
type FieldSpec struct {
	// Type is a type keyword or a custom scalar name. It is implied by Of,
	// Fields or Ref when empty.
	Type string `yaml:"type"`
	// Of is the member of a list.
	Of *FieldSpec `yaml:"of"`
	// Fields are the keys of an inline object.
	Fields Fields `yaml:"fields" validate:"omitempty,dive"`
	// Ref names another entity of the document.
	Ref         string `yaml:"ref"`
	Optional    bool   `yaml:"optional"`
	PrimaryKey  bool   `yaml:"primary_key"`
	ForeignKey  bool   `yaml:"foreign_key"`
	GraphQLType string `yaml:"graphql_type"`
	Constraint  string `yaml:"constraint"`
	Coercible   bool   `yaml:"coercible"`
}

// UnmarshalYAML decodes a mapping of field names, keeping their order.
func (fs *Fields) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: fields must be a mapping", node.Line)
	}
	seen := make(map[string]bool, len(node.Content)/2)
	out := make(Fields, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if seen[key.Value] {
			return fmt.Errorf("line %d: duplicate field %q", key.Line, key.Value)
		}
		seen[key.Value] = true
		var spec FieldSpec
		if err := value.Decode(&spec); err != nil {
			return fmt.Errorf("field %q: %w", key.Value, err)
		}
		out = append(out, Field{Name: key.Value, Spec: spec})
	}
	*fs = out
	return nil
}

// UnmarshalYAML accepts the shorthand string form or a mapping.
func (f *FieldSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*f = shorthand(node.Value)
		return nil
	}
	type plain FieldSpec
	return node.Decode((*plain)(f))
}

func shorthand(s string) FieldSpec {
	s = strings.TrimSpace(s)
	optional := strings.HasSuffix(s, "?")
	s = strings.TrimSuffix(s, "?")
	var spec FieldSpec
	if rest, ok := strings.CutPrefix(s, "[]"); ok {
		member := shorthand(rest)
		spec = FieldSpec{Type: TypeArray, Of: &member}
	} else {
		spec = FieldSpec{Type: s}
	}
	spec.Optional = optional
	return spec
}

// Parse reads a document from r. Unknown keys are rejected.
func Parse(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("load: empty document")
		}
		return nil, fmt.Errorf("load: %w", err)
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("load: invalid document: %w", err)
	}
	return &doc, nil
}

// LoadFile reads the document at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	doc, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return doc, nil
}
