package gqlshape

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/syssam/gqlshape/schema/types"
)

const (
	// Separator joins the levels of a generated type name, and replaces
	// namespace separators in host type names.
	Separator = "__"

	// GeneratedTypePrefix marks host types that wrap another entity. It is
	// stripped from host names before they are used as a name level.
	GeneratedTypePrefix = "GeneratedTypeFor"
)

var (
	validName     = regexp.MustCompile(`^[_a-zA-Z][_a-zA-Z0-9]*$`)
	namespaceSeps = strings.NewReplacer("::", Separator, ".", Separator, "/", Separator)
	errEmptyName  = errors.New("no name found in the parent chain")
)

// generateName walks the parent chain and joins one name per level, root to
// leaf. Levels below the root are field names and are camelized.
func (c *reduction) generateName() (string, error) {
	var levels []string
	for p := c; p != nil; p = p.parent {
		level, err := p.levelName()
		if err != nil {
			return "", NewNameGenerationError(c.node, err)
		}
		levels = append(levels, level)
	}
	slices.Reverse(levels)
	name := strings.Join(levels, Separator)
	if !validName.MatchString(name) {
		return "", NewNameGenerationError(c.node, fmt.Errorf("invalid name %q", name))
	}
	return name, nil
}

func (c *reduction) levelName() (string, error) {
	raw := c.name
	if c.parent == nil {
		switch n := c.node.(type) {
		case types.GraphQLNamer:
			if raw == "" {
				raw = n.GraphQLName()
			}
		case reflect.Type:
			if raw == "" {
				raw = n.Name()
			}
		}
	} else {
		raw = inflect.Camelize(raw)
	}
	name := sanitize(raw)
	if name == "" {
		if raw == "" {
			return "", errEmptyName
		}
		return "", fmt.Errorf("%q has no usable characters", raw)
	}
	return name, nil
}

// sanitize turns a host type name into a GraphQL name fragment.
func sanitize(name string) string {
	name = strings.TrimPrefix(name, GeneratedTypePrefix)
	name = namespaceSeps.Replace(name)
	if ascii, _, err := transform.String(transliterator(), name); err == nil {
		name = ascii
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '_', r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			return r
		}
		return -1
	}, name)
	// Names starting with "__" are reserved for introspection.
	return strings.TrimLeft(name, "_")
}

func transliterator() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// GraphQLName converts a host type name into a GraphQL type name.
// Namespace separators become "__" and accents are folded to ASCII.
func GraphQLName(name string) string {
	return sanitize(name)
}
