// Package gqlgen binds derived schemas into a gqlgen project.
//
// It reads and updates gqlgen.yml: the schema file list, the custom scalar
// models and the model bindings of entities that declare a Go type. Saving a
// loaded config edits the original document, so keys and comments this
// package does not model are kept.
package gqlgen

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// Config is the part of gqlgen.yml this package reads and writes.
type Config struct {
	// Schema lists the GraphQL schema files.
	Schema StringList `yaml:"schema,omitempty"`

	// Exec configures the generated executor.
	Exec PackageConfig `yaml:"exec,omitempty"`

	// Model configures the generated models.
	Model PackageConfig `yaml:"model,omitempty"`

	// Resolver configures the resolver generation.
	Resolver ResolverConfig `yaml:"resolver,omitempty"`

	// Autobind lists packages to autobind types from.
	Autobind []string `yaml:"autobind,omitempty"`

	// Models maps GraphQL type names to Go models.
	Models map[string]ModelEntry `yaml:"models,omitempty"`

	// Generator flags.
	OmitSliceElementPointers      bool `yaml:"omit_slice_element_pointers,omitempty"`
	OmitGetters                   bool `yaml:"omit_getters,omitempty"`
	OmitComplexity                bool `yaml:"omit_complexity,omitempty"`
	OmitRootModels                bool `yaml:"omit_root_models,omitempty"`
	StructFieldsAlwaysPointers    bool `yaml:"struct_fields_always_pointers,omitempty"`
	ReturnPointersInUmarshalInput bool `yaml:"return_pointers_in_unmarshalinput,omitempty"`
	ResolversAlwaysReturnPointers bool `yaml:"resolvers_always_return_pointers,omitempty"`
	NullableInputOmittable        bool `yaml:"nullable_input_omittable,omitempty"`
	EnableModelJSONOmitemptyTag   bool `yaml:"enable_model_json_omitempty_tag,omitempty"`

	// doc is the document the config was loaded from, if any.
	doc *yaml.Node
}

// PackageConfig names a generated file and its package.
type PackageConfig struct {
	Filename string `yaml:"filename,omitempty"`
	Package  string `yaml:"package,omitempty"`
}

// ResolverConfig configures the resolver generation.
type ResolverConfig struct {
	Filename         string `yaml:"filename,omitempty"`
	Package          string `yaml:"package,omitempty"`
	Layout           string `yaml:"layout,omitempty"`
	DirName          string `yaml:"dir,omitempty"`
	FilenameTemplate string `yaml:"filename_template,omitempty"`
}

// ModelEntry binds one GraphQL type.
type ModelEntry struct {
	Model       StringList            `yaml:"model,omitempty"`
	Fields      map[string]FieldEntry `yaml:"fields,omitempty"`
	ExtraFields map[string]FieldEntry `yaml:"extraFields,omitempty"`
}

// FieldEntry configures one field of a bound type.
type FieldEntry struct {
	Resolver  bool   `yaml:"resolver,omitempty"`
	FieldName string `yaml:"fieldName,omitempty"`
}

// StringList is a YAML string or list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("gqlgen: expected string or list at line %d", node.Line)
	}
}

// MarshalYAML implements yaml.Marshaler.
func (s StringList) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	return []string(s), nil
}

// Load reads a gqlgen.yml file. A missing file yields an empty config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{Models: make(map[string]ModelEntry)}, nil
		}
		return nil, fmt.Errorf("gqlgen: read config: %w", err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("gqlgen: parse config: %w", err)
	}
	cfg := &Config{}
	if len(doc.Content) > 0 {
		if err := doc.Decode(cfg); err != nil {
			return nil, fmt.Errorf("gqlgen: parse config: %w", err)
		}
		cfg.doc = &doc
	}
	if cfg.Models == nil {
		cfg.Models = make(map[string]ModelEntry)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the parent directory. A config read by
// Load is merged into the document it came from.
func Save(path string, cfg *Config) error {
	var fresh yaml.Node
	if err := fresh.Encode(cfg); err != nil {
		return fmt.Errorf("gqlgen: marshal config: %w", err)
	}
	out := &fresh
	if cfg.doc != nil && len(cfg.doc.Content) > 0 {
		if err := merge(cfg.doc.Content[0], &fresh); err != nil {
			return err
		}
		out = cfg.doc
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("gqlgen: marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("gqlgen: create directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// merge copies the entries of the mapping src into the mapping dst. Nested
// mappings are merged; other values replace the ones in dst.
func merge(dst, src *yaml.Node) error {
	if dst.Kind != yaml.MappingNode || src.Kind != yaml.MappingNode {
		return errors.New("gqlgen: config is not a mapping")
	}
	for i := 0; i+1 < len(src.Content); i += 2 {
		key, value := src.Content[i], src.Content[i+1]
		j := lookup(dst, key.Value)
		switch {
		case j < 0:
			dst.Content = append(dst.Content, key, value)
		case dst.Content[j+1].Kind == yaml.MappingNode && value.Kind == yaml.MappingNode:
			if err := merge(dst.Content[j+1], value); err != nil {
				return err
			}
		default:
			dst.Content[j+1] = value
		}
	}
	return nil
}

// lookup returns the index of key in the mapping m, or -1.
func lookup(m *yaml.Node, key string) int {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return i
		}
	}
	return -1
}

// AddSchemaPath adds path to the schema list if missing.
func (c *Config) AddSchemaPath(path string) {
	if !slices.Contains(c.Schema, path) {
		c.Schema = append(c.Schema, path)
	}
}

// SetModel binds typeName to the Go type model, keeping existing bindings.
func (c *Config) SetModel(typeName, model string) {
	if c.Models == nil {
		c.Models = make(map[string]ModelEntry)
	}
	entry := c.Models[typeName]
	if !slices.Contains(entry.Model, model) {
		entry.Model = append(entry.Model, model)
	}
	c.Models[typeName] = entry
}
