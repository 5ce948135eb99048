package gqlshape_test

import (
	"sync"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/gqlshape"
	"github.com/syssam/gqlshape/registry"
	"github.com/syssam/gqlshape/scalar"
	"github.com/syssam/gqlshape/schema/types"
)

func userStruct() *gqlshape.Struct {
	return gqlshape.NewStruct("User",
		types.Attr("id", types.Strict(types.Int()).With(types.Meta{PrimaryKey: true})),
		types.Attr("uuid", types.Strict(types.String()).With(types.Meta{GraphQLType: graphql.ID})),
		types.Attr("name", types.Optional(types.Strict(types.String()))),
		types.Attr("age", types.Coercible(types.Int())),
		types.Attr("created_at", types.DateOnly()),
	)
}

func nestedUserStruct() *gqlshape.Struct {
	return gqlshape.NewStruct("User",
		types.Attr("tags", types.Strict(types.ArrayOf(types.Strict(types.String())))),
		types.Attr("meta", types.Map()),
		types.Attr("info", types.Object(
			types.Attr("name", types.Optional(types.Strict(types.String()))),
			types.Attr("age", types.Coercible(types.Int())),
		)),
	)
}

func fieldNames(obj *graphql.Object) []string {
	var names []string
	for name := range obj.Fields() {
		names = append(names, name)
	}
	return names
}

func fieldType(t *testing.T, obj *graphql.Object, name string) graphql.Output {
	t.Helper()
	f, ok := obj.Fields()[name]
	require.True(t, ok, "field %q not found", name)
	return f.Type
}

func TestStruct_FieldNames(t *testing.T) {
	obj, err := userStruct().GraphQLType()
	require.NoError(t, err)
	require.NoError(t, obj.Error())
	assert.ElementsMatch(t, []string{"name", "age", "createdAt", "uuid", "id"}, fieldNames(obj))
}

func TestStruct_FieldFilters(t *testing.T) {
	t.Run("Only", func(t *testing.T) {
		obj, err := userStruct().GraphQLType(gqlshape.Only("name"))
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"name"}, fieldNames(obj))
	})

	t.Run("Skip", func(t *testing.T) {
		obj, err := userStruct().GraphQLType(gqlshape.Skip("name", "id"))
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"age", "createdAt", "uuid"}, fieldNames(obj))
	})

	t.Run("MatchesDeclaredName", func(t *testing.T) {
		obj, err := userStruct().GraphQLType(gqlshape.Only("created_at"))
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"createdAt"}, fieldNames(obj))
	})

	t.Run("Both", func(t *testing.T) {
		s := userStruct()
		obj, err := s.GraphQLType(gqlshape.Only("name"), gqlshape.Skip("age"))
		require.Error(t, err)
		assert.Nil(t, obj)
		assert.True(t, gqlshape.IsInvalidOptions(err))

		// The failure is not cached.
		obj, err = s.GraphQLType(gqlshape.Only("name"))
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"name"}, fieldNames(obj))
	})

	t.Run("ShallowByDefault", func(t *testing.T) {
		obj, err := nestedUserStruct().GraphQLType(gqlshape.Only("info", "age"))
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"info"}, fieldNames(obj))

		info := fieldType(t, obj, "info").(*graphql.NonNull).OfType.(*graphql.Object)
		assert.ElementsMatch(t, []string{"name", "age"}, fieldNames(info))
	})

	t.Run("Deep", func(t *testing.T) {
		obj, err := nestedUserStruct().GraphQLType(gqlshape.Only("info", "age"), gqlshape.Deep())
		require.NoError(t, err)
		info := fieldType(t, obj, "info").(*graphql.NonNull).OfType.(*graphql.Object)
		assert.ElementsMatch(t, []string{"age"}, fieldNames(info))
	})
}

func TestStruct_Nullability(t *testing.T) {
	obj, err := userStruct().GraphQLType()
	require.NoError(t, err)

	assert.Equal(t, graphql.String, fieldType(t, obj, "name"))
	age, ok := fieldType(t, obj, "age").(*graphql.NonNull)
	require.True(t, ok)
	assert.Equal(t, graphql.Int, age.OfType)
	created, ok := fieldType(t, obj, "createdAt").(*graphql.NonNull)
	require.True(t, ok)
	assert.Equal(t, graphql.DateTime, created.OfType)
}

func TestStruct_Metadata(t *testing.T) {
	obj, err := userStruct().GraphQLType()
	require.NoError(t, err)

	t.Run("Override", func(t *testing.T) {
		uuid := fieldType(t, obj, "uuid").(*graphql.NonNull)
		assert.Equal(t, graphql.ID, uuid.OfType)
	})

	t.Run("PrimaryKey", func(t *testing.T) {
		id := fieldType(t, obj, "id").(*graphql.NonNull)
		assert.Equal(t, graphql.ID, id.OfType)
	})

	t.Run("OverrideWinsOverKey", func(t *testing.T) {
		node := types.Int().With(types.Meta{PrimaryKey: true, GraphQLType: graphql.Float})
		out, err := gqlshape.Derive(node, "")
		require.NoError(t, err)
		assert.Equal(t, graphql.Float, out)
	})

	t.Run("OverrideWinsOverShape", func(t *testing.T) {
		node := types.ArrayOf(types.String()).With(types.Meta{GraphQLType: scalar.JSON})
		out, err := gqlshape.Derive(node, "")
		require.NoError(t, err)
		assert.Equal(t, scalar.JSON, out)
	})

	t.Run("ForeignKeyThroughWrapper", func(t *testing.T) {
		node := types.Coercible(types.Int().With(types.Meta{ForeignKey: true}))
		out, err := gqlshape.Derive(node, "")
		require.NoError(t, err)
		assert.Equal(t, graphql.ID, out)
	})

	t.Run("NullableKey", func(t *testing.T) {
		s := gqlshape.NewStruct("Post",
			types.Attr("author_id", types.Optional(types.Int()).With(types.Meta{ForeignKey: true})),
		)
		obj, err := s.GraphQLType()
		require.NoError(t, err)
		assert.Equal(t, graphql.ID, fieldType(t, obj, "authorId"))
	})
}

func TestStruct_Name(t *testing.T) {
	obj, err := userStruct().GraphQLType()
	require.NoError(t, err)
	assert.Equal(t, "User", obj.Name())

	s := gqlshape.NewStruct("Admin::User", types.Attr("name", types.String()))
	obj, err = s.GraphQLType()
	require.NoError(t, err)
	assert.Equal(t, "Admin__User", obj.Name())

	s = gqlshape.NewStruct("Admin::User", types.Attr("name", types.String())).WithGraphQLName("Administrator")
	obj, err = s.GraphQLType()
	require.NoError(t, err)
	assert.Equal(t, "Administrator", obj.Name())
	assert.Equal(t, "Admin::User", s.TypeName())
}

func TestStruct_Memoization(t *testing.T) {
	s := userStruct()
	first, err := s.GraphQLType()
	require.NoError(t, err)
	second, err := s.GraphQLType()
	require.NoError(t, err)
	assert.Same(t, first, second)

	only, err := s.GraphQLType(gqlshape.Only("name"))
	require.NoError(t, err)
	assert.NotSame(t, first, only)

	again, err := s.GraphQLType(gqlshape.Only("name"))
	require.NoError(t, err)
	assert.Same(t, only, again)

	s.Reset()
	fresh, err := s.GraphQLType()
	require.NoError(t, err)
	assert.NotSame(t, first, fresh)
}

func TestStruct_ConcurrentFirstCall(t *testing.T) {
	s := userStruct()
	results := make([]*graphql.Object, 16)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			obj, err := s.GraphQLType()
			assert.NoError(t, err)
			results[i] = obj
		}()
	}
	wg.Wait()
	for _, obj := range results {
		assert.Same(t, results[0], obj)
	}
}

func TestStruct_Nested(t *testing.T) {
	obj, err := nestedUserStruct().GraphQLType()
	require.NoError(t, err)

	tags := fieldType(t, obj, "tags").(*graphql.NonNull)
	list, ok := tags.OfType.(*graphql.List)
	require.True(t, ok)
	member, ok := list.OfType.(*graphql.NonNull)
	require.True(t, ok)
	assert.Equal(t, graphql.String, member.OfType)

	meta := fieldType(t, obj, "meta").(*graphql.NonNull)
	assert.Equal(t, scalar.JSON, meta.OfType)

	info, ok := fieldType(t, obj, "info").(*graphql.NonNull).OfType.(*graphql.Object)
	require.True(t, ok)
	assert.Equal(t, "User__Info", info.Name())
	assert.Equal(t, graphql.String, fieldType(t, info, "name"))
	assert.Equal(t, graphql.NewNonNull(graphql.Int).String(), fieldType(t, info, "age").String())
}

func TestStruct_NestedNames(t *testing.T) {
	address := gqlshape.NewStruct("Address",
		types.Attr("city", types.String()),
		types.Attr("geo", types.Object(types.Attr("lat", types.Float()))),
	)
	s := gqlshape.NewStruct("User",
		types.Attr("home", address),
		types.Attr("work", types.Optional(address)),
		types.Attr("previous_addresses", types.ArrayOf(types.Optional(address))),
	)
	obj, err := s.GraphQLType()
	require.NoError(t, err)

	home := fieldType(t, obj, "home").(*graphql.NonNull).OfType.(*graphql.Object)
	assert.Equal(t, "User__Home", home.Name())
	geo := fieldType(t, home, "geo").(*graphql.NonNull).OfType.(*graphql.Object)
	assert.Equal(t, "User__Home__Geo", geo.Name())

	work, ok := fieldType(t, obj, "work").(*graphql.Object)
	require.True(t, ok)
	assert.Equal(t, "User__Work", work.Name())

	prev := fieldType(t, obj, "previousAddresses").(*graphql.NonNull).OfType.(*graphql.List)
	member, ok := prev.OfType.(*graphql.Object)
	require.True(t, ok, "nullable members are not wrapped")
	assert.Equal(t, "User__PreviousAddresses", member.Name())
}

func TestStruct_Unions(t *testing.T) {
	t.Run("TwoConcreteArms", func(t *testing.T) {
		s := gqlshape.NewStruct("Value", types.Attr("v", types.Or(types.String(), types.Int())))
		obj, err := s.GraphQLType()
		require.NoError(t, err)
		assert.Equal(t, graphql.NewNonNull(graphql.Int).String(), fieldType(t, obj, "v").String())
	})

	t.Run("ThreeArms", func(t *testing.T) {
		node := types.Or(types.Nil(), types.Or(types.String(), types.Int()))
		_, err := gqlshape.Derive(node, "")
		require.Error(t, err)
		assert.True(t, gqlshape.IsTypeMapping(err))
		assert.Contains(t, err.Error(), "more than two arms")
	})

	t.Run("WrappedNullArm", func(t *testing.T) {
		node := types.Or(types.Strict(types.Nil()), types.String())
		s := gqlshape.NewStruct("Value", types.Attr("v", node))
		obj, err := s.GraphQLType()
		require.NoError(t, err)
		assert.Equal(t, graphql.String, fieldType(t, obj, "v"))
	})
}

func TestStruct_Errors(t *testing.T) {
	t.Run("TypeMapping", func(t *testing.T) {
		s := gqlshape.NewStruct("Invoice", types.Attr("total", types.Unknown("Money")))
		obj, err := s.GraphQLType()
		require.Error(t, err)
		assert.Nil(t, obj)
		assert.True(t, gqlshape.IsTypeMapping(err))
		assert.Contains(t, err.Error(), "cannot map Money")
		assert.Contains(t, err.Error(), "gqlshape.RegisterTypeMapping(Money, MyGraphQLType)")
	})

	t.Run("NotCached", func(t *testing.T) {
		money := types.Unknown("Money")
		s := gqlshape.NewStruct("Invoice", types.Attr("total", money))
		_, err := s.GraphQLType()
		require.Error(t, err)

		s.Attribute("total", types.Float())
		obj, err := s.GraphQLType()
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"total"}, fieldNames(obj))
	})

	t.Run("UnmappedPrimitive", func(t *testing.T) {
		_, err := gqlshape.Derive(types.Bytes(), "")
		require.Error(t, err)
		assert.True(t, gqlshape.IsTypeMapping(err))
		assert.Contains(t, err.Error(), "[]uint8")
	})

	t.Run("NilAttribute", func(t *testing.T) {
		s := gqlshape.NewStruct("Broken", types.Attr("x", nil))
		_, err := s.GraphQLType()
		assert.True(t, gqlshape.IsTypeMapping(err))
	})

	t.Run("InvalidFieldName", func(t *testing.T) {
		s := gqlshape.NewStruct("Broken", types.Attr("first-name", types.String()))
		_, err := s.GraphQLType(gqlshape.WithFieldNamer(func(s string) string { return s }))
		require.Error(t, err)
		assert.True(t, gqlshape.IsNameGeneration(err))
	})

	t.Run("FieldCollision", func(t *testing.T) {
		s := gqlshape.NewStruct("Broken",
			types.Attr("user_id", types.Int()),
			types.Attr("userId", types.Int()),
		)
		_, err := s.GraphQLType()
		require.Error(t, err)
		assert.True(t, gqlshape.IsNameGeneration(err))
		assert.Contains(t, err.Error(), `both map to field "userId"`)
	})

	t.Run("NestedTypeCollision", func(t *testing.T) {
		city := types.Object(types.Attr("city", types.String()))
		s := gqlshape.NewStruct("User",
			types.Attr("foo_bar", city),
			types.Attr("fooBar", types.ArrayOf(city)),
		)
		_, err := s.GraphQLType(
			gqlshape.WithRegistry(registry.New()),
			gqlshape.WithFieldNamer(func(s string) string { return s }),
		)
		require.Error(t, err)
		assert.True(t, gqlshape.IsNameGeneration(err))
		assert.Contains(t, err.Error(), `both produce type "User__FooBar"`)
	})

	t.Run("SharedRegisteredType", func(t *testing.T) {
		reg := registry.New()
		geo := gqlshape.NewStruct("Geo", types.Attr("lat", types.Float()))
		shared := graphql.NewObject(graphql.ObjectConfig{
			Name:   "Geo",
			Fields: graphql.Fields{"lat": &graphql.Field{Type: graphql.Float}},
		})
		require.NoError(t, gqlshape.MapFromRegistry(reg, shared, geo))
		obj, err := gqlshape.NewStruct("Trip",
			types.Attr("from", geo),
			types.Attr("to", geo),
		).GraphQLType(gqlshape.WithRegistry(reg))
		require.NoError(t, err)
		assert.Len(t, obj.Fields(), 2)
	})

	t.Run("NoFields", func(t *testing.T) {
		_, err := gqlshape.NewStruct("User", types.Attr("info", types.Object())).GraphQLType()
		require.Error(t, err)
		assert.True(t, gqlshape.IsTypeMapping(err))
		assert.Contains(t, err.Error(), "record User__Info has no fields")

		_, err = userStruct().GraphQLType(gqlshape.Only())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "record User has no fields")

		_, err = userStruct().GraphQLType(gqlshape.Only("missing"))
		assert.True(t, gqlshape.IsTypeMapping(err))
	})

	t.Run("EmptyName", func(t *testing.T) {
		_, err := gqlshape.Derive(types.Object(types.Attr("a", types.Int())), "")
		require.Error(t, err)
		assert.True(t, gqlshape.IsNameGeneration(err))
	})

	t.Run("UnusableName", func(t *testing.T) {
		_, err := gqlshape.NewStruct("日本", types.Attr("a", types.Int())).GraphQLType()
		require.Error(t, err)
		assert.True(t, gqlshape.IsNameGeneration(err))
	})
}

func TestStruct_Registry(t *testing.T) {
	t.Run("RegisteredNode", func(t *testing.T) {
		reg := registry.New()
		money := types.Named("Money", types.Int64Type)
		require.NoError(t, reg.Register(money, graphql.Float))

		s := gqlshape.NewStruct("Invoice",
			types.Attr("total", money),
			types.Attr("count", types.Int64()),
		)
		obj, err := s.GraphQLType(gqlshape.WithRegistry(reg))
		require.NoError(t, err)
		assert.Equal(t, graphql.NewNonNull(graphql.Float).String(), fieldType(t, obj, "total").String())
		assert.Equal(t, graphql.NewNonNull(graphql.Int).String(), fieldType(t, obj, "count").String())
	})

	t.Run("RegisteredPrimitive", func(t *testing.T) {
		reg := registry.New()
		require.NoError(t, reg.Register(types.BytesType, graphql.String))
		out, err := gqlshape.Derive(types.Bytes(), "", gqlshape.WithRegistry(reg))
		require.NoError(t, err)
		assert.Equal(t, graphql.String, out)
	})

	t.Run("MapFrom", func(t *testing.T) {
		reg := registry.New()
		address := gqlshape.NewStruct("Address", types.Attr("city", types.String()))
		existing := graphql.NewObject(graphql.ObjectConfig{
			Name:   "PostalAddress",
			Fields: graphql.Fields{"city": &graphql.Field{Type: graphql.String}},
		})
		require.NoError(t, gqlshape.MapFromRegistry(reg, existing, address))

		s := gqlshape.NewStruct("User", types.Attr("home", address))
		obj, err := s.GraphQLType(gqlshape.WithRegistry(reg))
		require.NoError(t, err)
		home := fieldType(t, obj, "home").(*graphql.NonNull)
		assert.Same(t, existing, home.OfType)
	})

	t.Run("RegistryIsPartOfCacheKey", func(t *testing.T) {
		s := userStruct()
		a, err := s.GraphQLType(gqlshape.WithRegistry(registry.New()))
		require.NoError(t, err)
		b, err := s.GraphQLType(gqlshape.WithRegistry(registry.New()))
		require.NoError(t, err)
		assert.NotSame(t, a, b)
	})
}

func TestDerive(t *testing.T) {
	t.Run("Scalar", func(t *testing.T) {
		out, err := gqlshape.Derive(types.String(), "ignored")
		require.NoError(t, err)
		assert.Equal(t, graphql.String, out)
	})

	t.Run("Keys", func(t *testing.T) {
		out, err := gqlshape.Derive(types.Keys{types.Attr("x", types.Float())}, "Point")
		require.NoError(t, err)
		obj, ok := out.(*graphql.Object)
		require.True(t, ok)
		assert.Equal(t, "Point", obj.Name())
	})

	t.Run("NotCached", func(t *testing.T) {
		desc := types.Object(types.Attr("x", types.Float()))
		a, err := gqlshape.Derive(desc, "Point")
		require.NoError(t, err)
		b, err := gqlshape.Derive(desc, "Point")
		require.NoError(t, err)
		assert.NotSame(t, a, b)
	})

	t.Run("StructName", func(t *testing.T) {
		out, err := gqlshape.Derive(userStruct(), "")
		require.NoError(t, err)
		assert.Equal(t, "User", out.Name())
	})

	t.Run("AlreadyReduced", func(t *testing.T) {
		obj, err := userStruct().GraphQLType()
		require.NoError(t, err)
		out, err := gqlshape.Derive(obj, "")
		require.NoError(t, err)
		assert.Same(t, obj, out)
	})

	t.Run("InvalidOptions", func(t *testing.T) {
		_, err := gqlshape.Derive(types.String(), "", gqlshape.Only("a"), gqlshape.Skip("b"))
		assert.True(t, gqlshape.IsInvalidOptions(err))
	})
}

func TestStruct_Execute(t *testing.T) {
	user, err := userStruct().GraphQLType()
	require.NoError(t, err)

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name: "Query",
			Fields: graphql.Fields{
				"user": &graphql.Field{
					Type: graphql.NewNonNull(user),
					Resolve: func(graphql.ResolveParams) (interface{}, error) {
						return map[string]interface{}{"id": 1, "age": 42}, nil
					},
				},
			},
		}),
	})
	require.NoError(t, err)

	res := graphql.Do(graphql.Params{Schema: schema, RequestString: `{ user { id name age } }`})
	require.Empty(t, res.Errors)
	assert.Equal(t, map[string]interface{}{
		"user": map[string]interface{}{"id": "1", "name": nil, "age": 42},
	}, res.Data)
}
