package sdl_test

import (
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/syssam/gqlshape"
	"github.com/syssam/gqlshape/schema/types"
	"github.com/syssam/gqlshape/sdl"
)

func nestedUser(t *testing.T) *graphql.Object {
	t.Helper()
	s := gqlshape.NewStruct("User",
		types.Attr("tags", types.Strict(types.ArrayOf(types.Strict(types.String())))),
		types.Attr("meta", types.Map()),
		types.Attr("info", types.Object(
			types.Attr("name", types.Optional(types.Strict(types.String()))),
			types.Attr("age", types.Coercible(types.Int())),
		)),
	)
	obj, err := s.GraphQLType()
	require.NoError(t, err)
	return obj
}

func TestDocument(t *testing.T) {
	doc, err := sdl.Document(sdl.Query(nestedUser(t)))
	require.NoError(t, err)

	var names []string
	for _, def := range doc.Definitions {
		names = append(names, def.Name)
	}
	assert.Equal(t, []string{"JSON", "Query", "User", "User__Info"}, names)

	user := doc.Definitions.ForName("User")
	require.NotNil(t, user)
	assert.Equal(t, ast.Object, user.Kind)
	var fields []string
	for _, f := range user.Fields {
		fields = append(fields, f.Name+": "+f.Type.String())
	}
	assert.Equal(t, []string{"info: User__Info!", "meta: JSON!", "tags: [String!]!"}, fields)

	info := doc.Definitions.ForName("User__Info")
	require.NotNil(t, info)
	assert.Equal(t, "Int!", info.Fields.ForName("age").Type.String())
	assert.Equal(t, "String", info.Fields.ForName("name").Type.String())

	json := doc.Definitions.ForName("JSON")
	require.NotNil(t, json)
	assert.Equal(t, ast.Scalar, json.Kind)
	assert.Equal(t, "A valid JSON document, transported as a string", json.Description)
}

func TestString(t *testing.T) {
	out, err := sdl.String(sdl.Query(nestedUser(t)))
	require.NoError(t, err)
	for _, want := range []string{
		"scalar JSON",
		"type Query {",
		"user: User!",
		"type User {",
		"info: User__Info!",
		"meta: JSON!",
		"tags: [String!]!",
		"type User__Info {",
		"age: Int!",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "scalar String")
}

func TestValidate(t *testing.T) {
	schema, err := sdl.Validate(sdl.Query(nestedUser(t)))
	require.NoError(t, err)
	require.NotNil(t, schema.Query)
	assert.Equal(t, "User!", schema.Query.Fields.ForName("user").Type.String())
	assert.Equal(t, "[String!]!", schema.Types["User"].Fields.ForName("tags").Type.String())
	assert.Contains(t, schema.Types, "User__Info")
}

func TestDocument_DateTimeAndEnum(t *testing.T) {
	status := graphql.NewEnum(graphql.EnumConfig{
		Name: "Status",
		Values: graphql.EnumValueConfigMap{
			"ACTIVE":   &graphql.EnumValueConfig{Value: 1},
			"DISABLED": &graphql.EnumValueConfig{Value: 2},
		},
	})
	s := gqlshape.NewStruct("Account",
		types.Attr("created_at", types.Time()),
		types.Attr("status", types.Int().With(types.Meta{GraphQLType: status})),
	)
	obj, err := s.GraphQLType()
	require.NoError(t, err)

	doc, err := sdl.Document(obj)
	require.NoError(t, err)
	require.NotNil(t, doc.Definitions.ForName("DateTime"))
	enum := doc.Definitions.ForName("Status")
	require.NotNil(t, enum)
	assert.Len(t, enum.EnumValues, 2)

	_, err = sdl.Validate(sdl.Query(obj))
	require.NoError(t, err)
}

func TestDocument_Errors(t *testing.T) {
	empty := graphql.NewObject(graphql.ObjectConfig{Name: "Empty", Fields: graphql.Fields{}})
	_, err := sdl.Document(empty)
	assert.Error(t, err)

	iface := graphql.NewInterface(graphql.InterfaceConfig{
		Name:   "Node",
		Fields: graphql.Fields{"id": &graphql.Field{Type: graphql.ID}},
	})
	_, err = sdl.Document(iface)
	assert.Error(t, err)

	doc, err := sdl.Document(nil, graphql.String)
	require.NoError(t, err)
	assert.Empty(t, doc.Definitions)
}

func TestDocument_NameClash(t *testing.T) {
	a, err := gqlshape.NewStruct("User", types.Attr("name", types.String())).GraphQLType()
	require.NoError(t, err)
	b, err := gqlshape.NewStruct("User", types.Attr("age", types.Int())).GraphQLType()
	require.NoError(t, err)

	_, err = sdl.Document(a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "distinct types share the name User")

	// The same object reached twice is emitted once.
	doc, err := sdl.Document(a, graphql.NewList(a))
	require.NoError(t, err)
	assert.Len(t, doc.Definitions, 1)
}

func TestQuery(t *testing.T) {
	q := sdl.Query(nestedUser(t))
	assert.Equal(t, "Query", q.Name())
	assert.Contains(t, q.Fields(), "user")
}
