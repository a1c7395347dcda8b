package executor

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/hanpama/gqlexec/schema"
)

func TestCoerceVariableValues_ReportsEveryViolationAtOnce(t *testing.T) {
	s := mustBuildSchema(t, schema.Config{
		Query: &schema.Object{
			Name:   "Query",
			Fields: []*schema.Field{{Name: "ok", Type: schema.String}},
		},
	})
	doc := mustParseQuery(t, `query($count: Int!, $name: String!, $flag: Boolean) { ok }`)
	op := doc.Operations[0]

	_, errs := coerceVariableValues(s, op, map[string]any{
		"name": 7,            // wrong type
		"flag": "not a bool", // wrong type
		// $count missing entirely
	})

	require.Len(t, errs, 3)
	messages := make([]string, len(errs))
	for i, e := range errs {
		messages[i] = e.Message
		require.NotEmpty(t, e.Locations, "variable errors carry definition positions")
	}
	require.Contains(t, messages[0], "$count")
	require.Contains(t, messages[0], "was not provided")
	require.Contains(t, messages[1], "$name")
	require.Contains(t, messages[2], "$flag")
}

func TestCoerceVariableValues_AppliesDefaults(t *testing.T) {
	s := mustBuildSchema(t, schema.Config{
		Query: &schema.Object{
			Name:   "Query",
			Fields: []*schema.Field{{Name: "ok", Type: schema.String}},
		},
	})
	doc := mustParseQuery(t, `query($limit: Int = 10, $tags: [String!] = ["a"]) { ok }`)
	op := doc.Operations[0]

	coerced, errs := coerceVariableValues(s, op, nil)
	require.Empty(t, errs)
	require.Equal(t, map[string]any{"limit": 10, "tags": []any{"a"}}, coerced)
}

func TestCoerceVariableValues_ListSingletonWrap(t *testing.T) {
	s := mustBuildSchema(t, schema.Config{
		Query: &schema.Object{
			Name:   "Query",
			Fields: []*schema.Field{{Name: "ok", Type: schema.String}},
		},
	})
	doc := mustParseQuery(t, `query($ids: [ID!]) { ok }`)
	op := doc.Operations[0]

	coerced, errs := coerceVariableValues(s, op, map[string]any{"ids": "solo"})
	require.Empty(t, errs)
	require.Equal(t, map[string]any{"ids": []any{"solo"}}, coerced)
}

func TestExecute_VariableViolationsAbortBeforeResolution(t *testing.T) {
	resolved := false
	s := mustBuildSchema(t, schema.Config{
		Query: &schema.Object{
			Name: "Query",
			Fields: []*schema.Field{
				{Name: "ok", Type: schema.String, Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
					resolved = true
					return "ran", nil
				}},
			},
		},
	})
	exec := New(s, Options{})
	doc := mustParseQuery(t, `query($a: Int!, $b: Int!) { ok }`)

	resp := exec.Execute(context.Background(), doc, "", nil, nil)

	require.False(t, resolved, "no resolver may run after variable coercion fails")
	require.Len(t, resp.Errors, 2)

	// The serialized response has no data entry at all.
	got := responseJSON(t, resp)
	require.NotContains(t, got, `"data"`)
}

func TestExecute_InputObjectFieldDefaultApplies(t *testing.T) {
	filter := &schema.InputObject{
		Name: "Filter",
		Fields: []*schema.InputValue{
			{Name: "country", Type: schema.String, Default: "USA"},
			{Name: "city", Type: schema.String},
		},
	}
	s := mustBuildSchema(t, schema.Config{
		Query: &schema.Object{
			Name: "Query",
			Fields: []*schema.Field{
				{
					Name: "where",
					Type: schema.String,
					Args: []*schema.InputValue{{Name: "filter", Type: filter}},
					Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
						f := args["filter"].(map[string]any)
						country, _ := f["country"].(string)
						return country, nil
					},
				},
			},
		},
	})
	exec := New(s, Options{})
	doc := mustParseQuery(t, `{ where(filter: {}) }`)

	got := responseJSON(t, exec.Execute(context.Background(), doc, "", nil, nil))
	want := `{"data":{"where":"USA"}}`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute_UnknownInputObjectFieldIsFieldError(t *testing.T) {
	filter := &schema.InputObject{
		Name:   "Filter",
		Fields: []*schema.InputValue{{Name: "country", Type: schema.String}},
	}
	s := mustBuildSchema(t, schema.Config{
		Query: &schema.Object{
			Name: "Query",
			Fields: []*schema.Field{
				{
					Name:    "where",
					Type:    schema.String,
					Args:    []*schema.InputValue{{Name: "filter", Type: filter}},
					Resolve: valueResolver("never"),
				},
			},
		},
	})
	exec := New(s, Options{})
	doc := mustParseQuery(t, `{ where(filter: {planet: "Mars"}) }`)

	resp := exec.Execute(context.Background(), doc, "", nil, nil)
	require.Len(t, resp.Errors, 1)
	require.Contains(t, resp.Errors[0].Message, `unknown field "planet"`)
	require.Equal(t, []any{"where"}, resp.Errors[0].Path)

	data, err := resp.Data.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"where":null}`, string(data))
}

func TestExecute_ArgumentCoercionFailureIsFieldError(t *testing.T) {
	s := mustBuildSchema(t, schema.Config{
		Query: &schema.Object{
			Name: "Query",
			Fields: []*schema.Field{
				{
					Name:    "greet",
					Type:    schema.String,
					Args:    []*schema.InputValue{{Name: "times", Type: schema.NewNonNull(schema.Int)}},
					Resolve: valueResolver("hi"),
				},
				{Name: "other", Type: schema.String, Resolve: valueResolver("fine")},
			},
		},
	})
	exec := New(s, Options{MaxConcurrency: 1})
	doc := mustParseQuery(t, `{ greet(times: "lots") other }`)

	resp := exec.Execute(context.Background(), doc, "", nil, nil)
	require.Len(t, resp.Errors, 1)
	require.Contains(t, resp.Errors[0].Message, "argument times")
	require.Equal(t, []any{"greet"}, resp.Errors[0].Path)

	data, err := resp.Data.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"greet":null,"other":"fine"}`, string(data))
}

func TestExecute_MissingRequiredArgumentIsFieldError(t *testing.T) {
	s := mustBuildSchema(t, schema.Config{
		Query: &schema.Object{
			Name: "Query",
			Fields: []*schema.Field{
				{
					Name:    "greet",
					Type:    schema.String,
					Args:    []*schema.InputValue{{Name: "times", Type: schema.NewNonNull(schema.Int)}},
					Resolve: valueResolver("hi"),
				},
			},
		},
	})
	exec := New(s, Options{})
	doc := mustParseQuery(t, `{ greet }`)

	resp := exec.Execute(context.Background(), doc, "", nil, nil)
	require.Len(t, resp.Errors, 1)
	require.Contains(t, resp.Errors[0].Message, `"times"`)
	require.Contains(t, resp.Errors[0].Message, "was not provided")
}

func TestExecute_VariableSubstitutionInArguments(t *testing.T) {
	s := mustBuildSchema(t, schema.Config{
		Query: &schema.Object{
			Name: "Query",
			Fields: []*schema.Field{
				{
					Name: "add",
					Type: schema.Int,
					Args: []*schema.InputValue{
						{Name: "a", Type: schema.NewNonNull(schema.Int)},
						{Name: "b", Type: schema.Int, Default: 1},
					},
					Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
						return args["a"].(int) + args["b"].(int), nil
					},
				},
			},
		},
	})
	exec := New(s, Options{})

	// Provided variable flows through; the absent one falls back to the
	// argument default.
	doc := mustParseQuery(t, `query($a: Int!, $b: Int) { add(a: $a, b: $b) }`)
	got := responseJSON(t, exec.Execute(context.Background(), doc, "", map[string]any{"a": 4}, nil))
	want := `{"data":{"add":5}}`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute_VariableArgumentKeepsEnumInternalValue(t *testing.T) {
	color := &schema.Enum{
		Name: "Color",
		Values: []*schema.EnumValue{
			{Name: "RED", Value: 1},
			{Name: "GREEN", Value: 2},
		},
	}
	var seen any
	s := mustBuildSchema(t, schema.Config{
		Query: &schema.Object{
			Name: "Query",
			Fields: []*schema.Field{
				{
					Name: "echo",
					Type: color,
					Args: []*schema.InputValue{{Name: "c", Type: schema.NewNonNull(color)}},
					Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
						seen = args["c"]
						return args["c"], nil
					},
				},
			},
		},
	})
	exec := New(s, Options{})
	doc := mustParseQuery(t, `query($c: Color!) { echo(c: $c) }`)

	got := responseJSON(t, exec.Execute(context.Background(), doc, "", map[string]any{"c": "GREEN"}, nil))
	want := `{"data":{"echo":"GREEN"}}`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}
	// The resolver sees the declared internal representation, not the name.
	require.Equal(t, 2, seen)
}

func TestExecute_VariableArgumentNotRecoerced(t *testing.T) {
	type sessionToken struct{ raw string }
	// User input turns a string into a token once; handing a token back in
	// would fail, so a second coercion pass is observable.
	token := &schema.Scalar{
		Name: "Token",
		CoerceUserInput: func(value any) (any, error) {
			s, ok := value.(string)
			if !ok {
				return nil, fmt.Errorf("Token expects a string, got %T", value)
			}
			return sessionToken{raw: s}, nil
		},
		CoerceOutput: func(value any) (any, error) {
			tok, ok := value.(sessionToken)
			if !ok {
				return nil, fmt.Errorf("not a token: %T", value)
			}
			return tok.raw, nil
		},
	}
	s := mustBuildSchema(t, schema.Config{
		Query: &schema.Object{
			Name: "Query",
			Fields: []*schema.Field{
				{
					Name: "session",
					Type: token,
					Args: []*schema.InputValue{{Name: "t", Type: schema.NewNonNull(token)}},
					Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
						return args["t"], nil
					},
				},
			},
		},
	})
	exec := New(s, Options{})
	doc := mustParseQuery(t, `query($t: Token!) { session(t: $t) }`)

	got := responseJSON(t, exec.Execute(context.Background(), doc, "", map[string]any{"t": "abc123"}, nil))
	want := `{"data":{"session":"abc123"}}`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestExecute_NullVariableForNonNullArgumentIsFieldError(t *testing.T) {
	s := mustBuildSchema(t, schema.Config{
		Query: &schema.Object{
			Name: "Query",
			Fields: []*schema.Field{
				{
					Name:    "greet",
					Type:    schema.String,
					Args:    []*schema.InputValue{{Name: "times", Type: schema.NewNonNull(schema.Int)}},
					Resolve: valueResolver("hi"),
				},
			},
		},
	})
	exec := New(s, Options{})
	doc := mustParseQuery(t, `query($n: Int) { greet(times: $n) }`)

	resp := exec.Execute(context.Background(), doc, "", map[string]any{"n": nil}, nil)
	require.Len(t, resp.Errors, 1)
	require.Contains(t, resp.Errors[0].Message, "argument times")
	require.Contains(t, resp.Errors[0].Message, "cannot be null")
	require.Equal(t, []any{"greet"}, resp.Errors[0].Path)
}

func TestExecute_OutOfRangeIntLiteralIsFieldError(t *testing.T) {
	s := mustBuildSchema(t, schema.Config{
		Query: &schema.Object{
			Name: "Query",
			Fields: []*schema.Field{
				{
					Name:    "greet",
					Type:    schema.String,
					Args:    []*schema.InputValue{{Name: "times", Type: schema.NewNonNull(schema.Int)}},
					Resolve: valueResolver("hi"),
				},
			},
		},
	})
	exec := New(s, Options{})
	doc := mustParseQuery(t, `{ greet(times: 99999999999999999999) }`)

	resp := exec.Execute(context.Background(), doc, "", nil, nil)
	require.Len(t, resp.Errors, 1)
	require.Contains(t, resp.Errors[0].Message, "argument times")
	require.Contains(t, resp.Errors[0].Message, "99999999999999999999")

	data, err := resp.Data.MarshalJSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"greet":null}`, string(data))
}
