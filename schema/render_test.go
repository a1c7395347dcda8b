package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestRender_GoldenSDL(t *testing.T) {
	dateTime := &Scalar{
		Name:           "DateTime",
		Description:    "An RFC 3339 timestamp.",
		SpecifiedByURL: "https://datetime.example",
	}
	role := &Enum{
		Name: "Role",
		Values: []*EnumValue{
			{Name: "ADMIN"},
			{Name: "MEMBER"},
			{Name: "GUEST", DeprecationReason: "use MEMBER"},
		},
	}
	node := &Interface{
		Name:   "Node",
		Fields: []*Field{{Name: "id", Type: NewNonNull(ID)}},
	}
	post := &Object{
		Name: "Post",
		Fields: []*Field{
			{Name: "id", Type: NewNonNull(ID)},
			{Name: "title", Type: String},
			{Name: "createdAt", Type: dateTime},
		},
	}
	var user *Object
	user = &Object{
		Name:       "User",
		Interfaces: []*Interface{node},
		FieldsFn: func() []*Field {
			return []*Field{
				{Name: "id", Type: NewNonNull(ID)},
				{Name: "name", Type: String},
				{Name: "role", Type: role},
				{Name: "friends", Type: NewList(NewNonNull(user)), Args: []*InputValue{
					{Name: "first", Type: Int, Default: 5},
				}},
			}
		},
	}
	searchResult := &Union{Name: "SearchResult", Types: []*Object{post, user}}
	userFilter := &InputObject{
		Name: "UserFilter",
		Fields: []*InputValue{
			{Name: "limit", Type: Int, Default: 10},
			{Name: "name", Type: String},
		},
	}
	query := &Object{
		Name: "Query",
		Fields: []*Field{
			{Name: "node", Type: node, Args: []*InputValue{{Name: "id", Type: NewNonNull(ID)}}},
			{Name: "search", Type: NewList(searchResult), Args: []*InputValue{
				{Name: "term", Type: NewNonNull(String)},
				{Name: "filter", Type: userFilter},
			}},
		},
	}
	cacheControl := &Directive{
		Name:      "cacheControl",
		Locations: []string{"FIELD_DEFINITION", "OBJECT"},
		Args:      []*InputValue{{Name: "maxAge", Type: Int, Default: 60}},
	}

	s, err := New(Config{Query: query, Directives: []*Directive{cacheControl}})
	require.NoError(t, err)

	want := `"""
An RFC 3339 timestamp.
"""
scalar DateTime @specifiedBy(url: "https://datetime.example")

interface Node {
  id: ID!
}

type Post {
  id: ID!
  title: String
  createdAt: DateTime
}

type Query {
  node(id: ID!): Node
  search(term: String!, filter: UserFilter): [SearchResult]
}

enum Role {
  ADMIN
  MEMBER
  GUEST @deprecated(reason: "use MEMBER")
}

union SearchResult = Post | User

type User implements Node {
  id: ID!
  name: String
  role: Role
  friends(first: Int = 5): [User!]
}

input UserFilter {
  limit: Int = 10
  name: String
}

directive @cacheControl(maxAge: Int = 60) on FIELD_DEFINITION | OBJECT
`

	if diff := cmp.Diff(want, Render(s)); diff != "" {
		t.Fatalf("rendered SDL mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_OmitsBuiltinsAndMetaTypes(t *testing.T) {
	query := &Object{
		Name:   "Query",
		Fields: []*Field{{Name: "ok", Type: String}},
	}
	s, err := New(Config{Query: query})
	require.NoError(t, err)

	got := Render(s)
	require.NotContains(t, got, "scalar Int")
	require.NotContains(t, got, "directive @skip")
	require.Contains(t, got, "type Query")
}

func TestRenderValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{"it said \"hi\"", `"it said \"hi\""`},
		{42, "42"},
		{1.5, "1.5"},
		{true, "true"},
		{[]any{1, "a"}, `[1, "a"]`},
		{map[string]any{"b": 2, "a": 1}, "{a: 1, b: 2}"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, RenderValue(c.in), "value %v", c.in)
	}
}
