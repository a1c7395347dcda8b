package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_RequiresQueryRoot(t *testing.T) {
	_, err := New(Config{})
	var be BuildError
	require.ErrorAs(t, err, &be)
	require.Len(t, be, 1)
	require.Equal(t, "schema", be[0].Subject)
}

func TestNew_ReportsEveryViolation(t *testing.T) {
	empty := &Object{Name: "Empty"}
	badName := &Object{
		Name:   "No Spaces",
		Fields: []*Field{{Name: "ok", Type: String}},
	}
	doubleWrapped := &Object{
		Name:   "Wrapped",
		Fields: []*Field{{Name: "v", Type: NewNonNull(NewNonNull(String))}},
	}
	query := &Object{
		Name: "Query",
		Fields: []*Field{
			{Name: "empty", Type: empty},
			{Name: "bad", Type: badName},
			{Name: "wrapped", Type: doubleWrapped},
		},
	}

	_, err := New(Config{Query: query})
	var be BuildError
	require.ErrorAs(t, err, &be)
	require.Len(t, be, 3)

	subjects := make([]string, len(be))
	for i, v := range be {
		subjects[i] = v.Subject
	}
	require.Equal(t, []string{"Wrapped.v", "type Empty", "type No Spaces"}, subjects)
}

func TestNew_RejectsReservedNames(t *testing.T) {
	query := &Object{
		Name:   "Query",
		Fields: []*Field{{Name: "__hidden", Type: String}},
	}
	_, err := New(Config{Query: query})
	require.Error(t, err)
	require.Contains(t, err.Error(), "reserved")

	_, err = New(Config{Query: query, AllowReservedNames: true})
	require.NoError(t, err)
}

func TestNew_MaterializesRecursiveThunks(t *testing.T) {
	var person *Object
	person = &Object{
		Name: "Person",
		FieldsFn: func() []*Field {
			return []*Field{
				{Name: "name", Type: NewNonNull(String)},
				{Name: "friends", Type: NewList(NewNonNull(person))},
			}
		},
	}
	query := &Object{
		Name:   "Query",
		Fields: []*Field{{Name: "me", Type: person}},
	}

	s, err := New(Config{Query: query})
	require.NoError(t, err)

	got := s.Type("Person").(*Object)
	require.Nil(t, got.FieldsFn)
	require.Len(t, got.Fields, 2)
	require.Equal(t, "[Person!]", got.Fields[1].Type.String())
}

func TestNew_DiscoversOrphansThroughConfigTypes(t *testing.T) {
	animal := &Interface{
		Name:   "Animal",
		Fields: []*Field{{Name: "name", Type: String}},
	}
	dog := &Object{
		Name:       "Dog",
		Interfaces: []*Interface{animal},
		Fields:     []*Field{{Name: "name", Type: String}},
	}
	query := &Object{
		Name:   "Query",
		Fields: []*Field{{Name: "animal", Type: animal}},
	}

	s, err := New(Config{Query: query, Types: []Type{dog}})
	require.NoError(t, err)
	require.NotNil(t, s.Type("Dog"))

	possible := s.PossibleTypes(animal)
	require.Len(t, possible, 1)
	require.Equal(t, "Dog", possible[0].Name)
}

func TestNew_ChecksInterfaceImplementations(t *testing.T) {
	animal := &Interface{
		Name: "Animal",
		Fields: []*Field{
			{Name: "name", Type: NewNonNull(String)},
			{Name: "sound", Type: String, Args: []*InputValue{{Name: "volume", Type: Int}}},
		},
	}
	cat := &Object{
		Name:       "Cat",
		Interfaces: []*Interface{animal},
		Fields: []*Field{
			{Name: "name", Type: String}, // nullable where interface requires non-null
			// sound is missing entirely
		},
	}
	query := &Object{
		Name:   "Query",
		Fields: []*Field{{Name: "pet", Type: animal}},
	}

	_, err := New(Config{Query: query, Types: []Type{cat}})
	var be BuildError
	require.ErrorAs(t, err, &be)
	require.Len(t, be, 2)
	require.Contains(t, err.Error(), "not compatible")
	require.Contains(t, err.Error(), `missing field "sound"`)
}

func TestIsSubtypeOf(t *testing.T) {
	named := &Interface{Name: "Named", Fields: []*Field{{Name: "name", Type: String}}}
	user := &Object{
		Name:       "User",
		Interfaces: []*Interface{named},
		Fields:     []*Field{{Name: "name", Type: String}},
	}
	group := &Object{Name: "Group", Fields: []*Field{{Name: "name", Type: String}}}
	target := &Union{Name: "Target", Types: []*Object{user}}
	query := &Object{
		Name: "Query",
		Fields: []*Field{
			{Name: "named", Type: named},
			{Name: "target", Type: target},
		},
	}
	s, err := New(Config{Query: query, Types: []Type{user, group}})
	require.NoError(t, err)

	require.True(t, s.IsSubtypeOf(user, named), "interface implementation")
	require.True(t, s.IsSubtypeOf(user, target), "union membership")
	require.False(t, s.IsSubtypeOf(group, named))
	require.False(t, s.IsSubtypeOf(group, target))

	// Covariance through wrappers: a non-null candidate satisfies a
	// nullable target, never the reverse.
	require.True(t, s.IsSubtypeOf(NewNonNull(user), named))
	require.True(t, s.IsSubtypeOf(NewList(NewNonNull(user)), NewList(named)))
	require.False(t, s.IsSubtypeOf(NewList(user), NewList(NewNonNull(named))))
}

func TestEnum_InternalValues(t *testing.T) {
	e := &Enum{
		Name: "Level",
		Values: []*EnumValue{
			{Name: "LOW", Value: 1},
			{Name: "HIGH", Value: 10},
			{Name: "DEFAULTED"},
		},
	}
	require.Equal(t, 10, e.Value("HIGH").InternalValue())
	require.Equal(t, "DEFAULTED", e.Value("DEFAULTED").InternalValue())
	require.Equal(t, "HIGH", e.ValueOf(10).Name)
	require.Nil(t, e.ValueOf(99))
}

func TestBuiltinScalarCoercion(t *testing.T) {
	v, err := Int.CoerceUserInput(float64(42))
	require.NoError(t, err)
	require.Equal(t, 42, v)

	_, err = Int.CoerceUserInput(float64(1.5))
	require.Error(t, err, "fractional values must not silently truncate")

	_, err = Int.CoerceUserInput(int64(1) << 40)
	require.Error(t, err, "values beyond 32 bits must be rejected")

	v, err = ID.CoerceUserInput(7)
	require.NoError(t, err)
	require.Equal(t, "7", v)

	_, err = Boolean.CoerceUserInput("true")
	require.Error(t, err, "Boolean does not accept strings")

	_, err = String.CoerceUserInput(3)
	require.Error(t, err, "String does not accept numbers")

	v, err = Float.CoerceUserInput(3)
	require.NoError(t, err)
	require.Equal(t, float64(3), v)
}

func TestSchema_DeterministicNameOrder(t *testing.T) {
	query := &Object{
		Name: "Query",
		Fields: []*Field{
			{Name: "b", Type: &Object{Name: "Beta", Fields: []*Field{{Name: "x", Type: String}}}},
			{Name: "a", Type: &Object{Name: "Alpha", Fields: []*Field{{Name: "x", Type: String}}}},
		},
	}
	s, err := New(Config{Query: query})
	require.NoError(t, err)

	require.Equal(t, []string{"Alpha", "Beta", "Boolean", "Float", "ID", "Int", "Query", "String"}, s.TypeNames())
	require.Equal(t, []string{"deprecated", "include", "skip"}, s.DirectiveNames())
}

func TestBuildError_IsAnError(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	require.True(t, errors.As(err, new(BuildError)))
	require.Contains(t, err.Error(), "schema build failed")
}
