// Package introspection grafts the GraphQL introspection surface onto a
// schema and can reconstruct a schema from introspection query results.
package introspection

import (
	"context"
	"strings"

	"github.com/hanpama/gqlexec/schema"
)

// Extend returns a new schema equal to s plus the introspection meta types
// and the __schema and __type entry fields on the query root. The input
// schema is not modified; extending an already-extended schema fails on the
// duplicate meta fields.
func Extend(s *schema.Schema) (*schema.Schema, error) {
	original := s.QueryType()
	query := &schema.Object{
		Name:        original.Name,
		Description: original.Description,
		Interfaces:  original.Interfaces,
		IsTypeOf:    original.IsTypeOf,
		Fields: append(append([]*schema.Field{}, original.Fields...),
			schemaMetaField(),
			typeMetaField(),
		),
	}

	var types []schema.Type
	for _, name := range s.TypeNames() {
		if name == original.Name {
			continue
		}
		types = append(types, s.Type(name))
	}
	var directives []*schema.Directive
	for _, name := range s.DirectiveNames() {
		directives = append(directives, s.Directive(name))
	}

	return schema.New(schema.Config{
		Description:        s.Description,
		Query:              query,
		Mutation:           s.MutationType(),
		Subscription:       s.SubscriptionType(),
		Types:              types,
		Directives:         directives,
		AllowReservedNames: true,
	})
}

func schemaMetaField() *schema.Field {
	return &schema.Field{
		Name:        "__schema",
		Description: "Access the current type schema of this server.",
		Type:        schema.NewNonNull(schemaType),
		Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
			return info.Schema, nil
		},
	}
}

func typeMetaField() *schema.Field {
	return &schema.Field{
		Name:        "__type",
		Description: "Request the type information of a single type.",
		Args: []*schema.InputValue{
			{Name: "name", Description: "The name of the type to look up.", Type: schema.NewNonNull(schema.String)},
		},
		Type: typeType,
		Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
			name, _ := args["name"].(string)
			return info.Schema.Type(name), nil
		},
	}
}

// The meta types reference each other and themselves, which Go rejects as an
// initialization cycle inside var initializers, so the vars are declared bare
// and their lazy field lists attach in init. They materialize on the first
// Extend.

var schemaType = &schema.Object{
	Name:        "__Schema",
	Description: "A GraphQL Schema defines the capabilities of a GraphQL server.",
}

var typeType = &schema.Object{
	Name:        "__Type",
	Description: "The fundamental unit of any GraphQL Schema is the type.",
}

var fieldType = &schema.Object{Name: "__Field"}

var inputValueType = &schema.Object{Name: "__InputValue"}

var enumValueType = &schema.Object{Name: "__EnumValue"}

var directiveType = &schema.Object{Name: "__Directive"}

func init() {
	schemaType.FieldsFn = schemaTypeFields
	typeType.FieldsFn = typeTypeFields
	fieldType.FieldsFn = fieldTypeFields
	inputValueType.FieldsFn = inputValueTypeFields
	enumValueType.FieldsFn = enumValueTypeFields
	directiveType.FieldsFn = directiveTypeFields
}

func schemaTypeFields() []*schema.Field {
	return []*schema.Field{
		{
			Name:        "description",
			Description: "A description of the schema.",
			Type:        schema.String,
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				return nullableString(source.(*schema.Schema).Description), nil
			},
		},
		{
			Name:        "types",
			Description: "A list of all types supported by this server.",
			Type:        schema.NewNonNull(schema.NewList(schema.NewNonNull(typeType))),
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				s := source.(*schema.Schema)
				out := make([]any, 0, len(s.TypeNames()))
				for _, name := range s.TypeNames() {
					out = append(out, s.Type(name))
				}
				return out, nil
			},
		},
		{
			Name:        "queryType",
			Description: "The type that query operations will be rooted at.",
			Type:        schema.NewNonNull(typeType),
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				return schema.Type(source.(*schema.Schema).QueryType()), nil
			},
		},
		{
			Name:        "mutationType",
			Description: "If this server supports mutation, the type that mutation operations will be rooted at.",
			Type:        typeType,
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				if t := source.(*schema.Schema).MutationType(); t != nil {
					return schema.Type(t), nil
				}
				return nil, nil
			},
		},
		{
			Name:        "subscriptionType",
			Description: "If this server supports subscription, the type that subscription operations will be rooted at.",
			Type:        typeType,
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				if t := source.(*schema.Schema).SubscriptionType(); t != nil {
					return schema.Type(t), nil
				}
				return nil, nil
			},
		},
		{
			Name:        "directives",
			Description: "A list of all directives supported by this server.",
			Type:        schema.NewNonNull(schema.NewList(schema.NewNonNull(directiveType))),
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				s := source.(*schema.Schema)
				out := make([]any, 0, len(s.DirectiveNames()))
				for _, name := range s.DirectiveNames() {
					out = append(out, s.Directive(name))
				}
				return out, nil
			},
		},
	}
}

func typeTypeFields() []*schema.Field {
	return []*schema.Field{
		{
			Name: "kind",
			Type: schema.NewNonNull(typeKindEnum),
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				return string(source.(schema.Type).Kind()), nil
			},
		},
		{
			Name: "name",
			Type: schema.String,
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				return nullableString(schema.TypeName(source.(schema.Type))), nil
			},
		},
		{
			Name: "description",
			Type: schema.String,
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				return nullableString(typeDescription(source.(schema.Type))), nil
			},
		},
		{
			Name: "specifiedByURL",
			Type: schema.String,
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				if t, ok := source.(*schema.Scalar); ok {
					return nullableString(t.SpecifiedByURL), nil
				}
				return nil, nil
			},
		},
		{
			Name: "fields",
			Args: includeDeprecatedArg(),
			Type: schema.NewList(schema.NewNonNull(fieldType)),
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				var fields []*schema.Field
				switch t := source.(type) {
				case *schema.Object:
					fields = t.Fields
				case *schema.Interface:
					fields = t.Fields
				default:
					return nil, nil
				}
				include := argBool(args, "includeDeprecated")
				out := make([]any, 0, len(fields))
				for _, f := range fields {
					// The grafted __schema and __type entry fields are meta
					// fields and never appear in field listings.
					if strings.HasPrefix(f.Name, "__") {
						continue
					}
					if !include && f.DeprecationReason != "" {
						continue
					}
					out = append(out, f)
				}
				return out, nil
			},
		},
		{
			Name: "interfaces",
			Type: schema.NewList(schema.NewNonNull(typeType)),
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				switch t := source.(type) {
				case *schema.Object:
					out := make([]any, 0, len(t.Interfaces))
					for _, i := range t.Interfaces {
						out = append(out, schema.Type(i))
					}
					return out, nil
				case *schema.Interface:
					return []any{}, nil
				}
				return nil, nil
			},
		},
		{
			Name: "possibleTypes",
			Type: schema.NewList(schema.NewNonNull(typeType)),
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				t := source.(schema.Type)
				if !schema.IsAbstract(t) {
					return nil, nil
				}
				members := info.Schema.PossibleTypes(t)
				out := make([]any, 0, len(members))
				for _, m := range members {
					out = append(out, schema.Type(m))
				}
				return out, nil
			},
		},
		{
			Name: "enumValues",
			Args: includeDeprecatedArg(),
			Type: schema.NewList(schema.NewNonNull(enumValueType)),
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				t, ok := source.(*schema.Enum)
				if !ok {
					return nil, nil
				}
				include := argBool(args, "includeDeprecated")
				out := make([]any, 0, len(t.Values))
				for _, v := range t.Values {
					if !include && v.DeprecationReason != "" {
						continue
					}
					out = append(out, v)
				}
				return out, nil
			},
		},
		{
			Name: "inputFields",
			Args: includeDeprecatedArg(),
			Type: schema.NewList(schema.NewNonNull(inputValueType)),
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				t, ok := source.(*schema.InputObject)
				if !ok {
					return nil, nil
				}
				include := argBool(args, "includeDeprecated")
				out := make([]any, 0, len(t.Fields))
				for _, f := range t.Fields {
					if !include && f.DeprecationReason != "" {
						continue
					}
					out = append(out, f)
				}
				return out, nil
			},
		},
		{
			Name: "ofType",
			Type: typeType,
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				switch t := source.(type) {
				case *schema.List:
					return t.OfType, nil
				case *schema.NonNull:
					return t.OfType, nil
				}
				return nil, nil
			},
		},
	}
}

func fieldTypeFields() []*schema.Field {
	return []*schema.Field{
		{
			Name: "name",
			Type: schema.NewNonNull(schema.String),
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				return source.(*schema.Field).Name, nil
			},
		},
		{
			Name: "description",
			Type: schema.String,
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				return nullableString(source.(*schema.Field).Description), nil
			},
		},
		{
			Name: "args",
			Args: includeDeprecatedArg(),
			Type: schema.NewNonNull(schema.NewList(schema.NewNonNull(inputValueType))),
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				f := source.(*schema.Field)
				include := argBool(args, "includeDeprecated")
				out := make([]any, 0, len(f.Args))
				for _, a := range f.Args {
					if !include && a.DeprecationReason != "" {
						continue
					}
					out = append(out, a)
				}
				return out, nil
			},
		},
		{
			Name: "type",
			Type: schema.NewNonNull(typeType),
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				return source.(*schema.Field).Type, nil
			},
		},
		{
			Name: "isDeprecated",
			Type: schema.NewNonNull(schema.Boolean),
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				return source.(*schema.Field).DeprecationReason != "", nil
			},
		},
		{
			Name: "deprecationReason",
			Type: schema.String,
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				return nullableString(source.(*schema.Field).DeprecationReason), nil
			},
		},
	}
}

func inputValueTypeFields() []*schema.Field {
	return []*schema.Field{
		{
			Name: "name",
			Type: schema.NewNonNull(schema.String),
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				return source.(*schema.InputValue).Name, nil
			},
		},
		{
			Name: "description",
			Type: schema.String,
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				return nullableString(source.(*schema.InputValue).Description), nil
			},
		},
		{
			Name: "type",
			Type: schema.NewNonNull(typeType),
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				return source.(*schema.InputValue).Type, nil
			},
		},
		{
			Name:        "defaultValue",
			Description: "A GraphQL-formatted string representing the default value for this input value.",
			Type:        schema.String,
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				iv := source.(*schema.InputValue)
				if iv.Default == nil {
					return nil, nil
				}
				return schema.RenderValue(iv.Default), nil
			},
		},
		{
			Name: "isDeprecated",
			Type: schema.NewNonNull(schema.Boolean),
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				return source.(*schema.InputValue).DeprecationReason != "", nil
			},
		},
		{
			Name: "deprecationReason",
			Type: schema.String,
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				return nullableString(source.(*schema.InputValue).DeprecationReason), nil
			},
		},
	}
}

func enumValueTypeFields() []*schema.Field {
	return []*schema.Field{
		{
			Name: "name",
			Type: schema.NewNonNull(schema.String),
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				return source.(*schema.EnumValue).Name, nil
			},
		},
		{
			Name: "description",
			Type: schema.String,
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				return nullableString(source.(*schema.EnumValue).Description), nil
			},
		},
		{
			Name: "isDeprecated",
			Type: schema.NewNonNull(schema.Boolean),
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				return source.(*schema.EnumValue).DeprecationReason != "", nil
			},
		},
		{
			Name: "deprecationReason",
			Type: schema.String,
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				return nullableString(source.(*schema.EnumValue).DeprecationReason), nil
			},
		},
	}
}

func directiveTypeFields() []*schema.Field {
	return []*schema.Field{
		{
			Name: "name",
			Type: schema.NewNonNull(schema.String),
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				return source.(*schema.Directive).Name, nil
			},
		},
		{
			Name: "description",
			Type: schema.String,
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				return nullableString(source.(*schema.Directive).Description), nil
			},
		},
		{
			Name: "isRepeatable",
			Type: schema.NewNonNull(schema.Boolean),
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				return source.(*schema.Directive).IsRepeatable, nil
			},
		},
		{
			Name: "locations",
			Type: schema.NewNonNull(schema.NewList(schema.NewNonNull(directiveLocationEnum))),
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				return source.(*schema.Directive).Locations, nil
			},
		},
		{
			Name: "args",
			Args: includeDeprecatedArg(),
			Type: schema.NewNonNull(schema.NewList(schema.NewNonNull(inputValueType))),
			Resolve: func(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
				d := source.(*schema.Directive)
				include := argBool(args, "includeDeprecated")
				out := make([]any, 0, len(d.Args))
				for _, a := range d.Args {
					if !include && a.DeprecationReason != "" {
						continue
					}
					out = append(out, a)
				}
				return out, nil
			},
		},
	}
}

var typeKindEnum = &schema.Enum{
	Name:        "__TypeKind",
	Description: "An enum describing what kind of type a given `__Type` is.",
	Values: []*schema.EnumValue{
		{Name: "SCALAR"},
		{Name: "OBJECT"},
		{Name: "INTERFACE"},
		{Name: "UNION"},
		{Name: "ENUM"},
		{Name: "INPUT_OBJECT"},
		{Name: "LIST"},
		{Name: "NON_NULL"},
	},
}

var directiveLocationEnum = &schema.Enum{
	Name:        "__DirectiveLocation",
	Description: "A Directive can be adjacent to many parts of the GraphQL language, a __DirectiveLocation describes one such possible adjacency.",
	Values: []*schema.EnumValue{
		{Name: "QUERY"},
		{Name: "MUTATION"},
		{Name: "SUBSCRIPTION"},
		{Name: "FIELD"},
		{Name: "FRAGMENT_DEFINITION"},
		{Name: "FRAGMENT_SPREAD"},
		{Name: "INLINE_FRAGMENT"},
		{Name: "VARIABLE_DEFINITION"},
		{Name: "SCHEMA"},
		{Name: "SCALAR"},
		{Name: "OBJECT"},
		{Name: "FIELD_DEFINITION"},
		{Name: "ARGUMENT_DEFINITION"},
		{Name: "INTERFACE"},
		{Name: "UNION"},
		{Name: "ENUM"},
		{Name: "ENUM_VALUE"},
		{Name: "INPUT_OBJECT"},
		{Name: "INPUT_FIELD_DEFINITION"},
	},
}

func includeDeprecatedArg() []*schema.InputValue {
	return []*schema.InputValue{
		{Name: "includeDeprecated", Type: schema.Boolean, Default: false},
	}
}

func argBool(args map[string]any, name string) bool {
	b, _ := args[name].(bool)
	return b
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func typeDescription(t schema.Type) string {
	switch t := t.(type) {
	case *schema.Scalar:
		return t.Description
	case *schema.Enum:
		return t.Description
	case *schema.Object:
		return t.Description
	case *schema.Interface:
		return t.Description
	case *schema.Union:
		return t.Description
	case *schema.InputObject:
		return t.Description
	default:
		return ""
	}
}
