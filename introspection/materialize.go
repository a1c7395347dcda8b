package introspection

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hanpama/gqlexec/language"
	"github.com/hanpama/gqlexec/schema"
)

// Materialize reconstructs a schema from the result of an introspection
// query. data is the decoded data object (or the __schema object itself).
// The reconstructed schema carries no resolvers or coercion hooks beyond the
// built-in scalars; it describes shape, not behavior. Meta types and built-in
// directives are skipped, so extending the result reproduces the original
// introspection output.
func Materialize(data map[string]any) (*schema.Schema, error) {
	raw := data
	if inner, ok := data["__schema"].(map[string]any); ok {
		raw = inner
	}
	types, ok := raw["types"].([]any)
	if !ok {
		return nil, fmt.Errorf("introspection data has no types list")
	}

	m := &materializer{shells: make(map[string]schema.Type)}
	for _, name := range []string{"Int", "Float", "String", "Boolean", "ID"} {
		m.shells[name] = builtinScalar(name)
	}

	// First pass registers a shell per named type so references resolve
	// regardless of declaration order; the second pass fills the bodies.
	var members []map[string]any
	for _, t := range types {
		tm, ok := t.(map[string]any)
		if !ok {
			continue
		}
		name := str(tm["name"])
		if name == "" || strings.HasPrefix(name, "__") {
			continue
		}
		if _, builtin := m.shells[name]; builtin {
			continue
		}
		shell, err := m.newShell(name, str(tm["kind"]), tm)
		if err != nil {
			return nil, err
		}
		m.shells[name] = shell
		members = append(members, tm)
	}
	for _, tm := range members {
		if err := m.fill(tm); err != nil {
			return nil, err
		}
	}

	cfg := schema.Config{Description: str(raw["description"])}
	var err error
	if cfg.Query, err = m.rootObject(raw, "queryType"); err != nil {
		return nil, err
	}
	if cfg.Query == nil {
		return nil, fmt.Errorf("introspection data declares no query root")
	}
	if cfg.Mutation, err = m.rootObject(raw, "mutationType"); err != nil {
		return nil, err
	}
	if cfg.Subscription, err = m.rootObject(raw, "subscriptionType"); err != nil {
		return nil, err
	}
	for _, t := range m.shells {
		cfg.Types = append(cfg.Types, t)
	}

	if dirs, ok := raw["directives"].([]any); ok {
		for _, d := range dirs {
			dm, ok := d.(map[string]any)
			if !ok {
				continue
			}
			switch str(dm["name"]) {
			case "include", "skip", "deprecated":
				continue
			}
			dir, err := m.directive(dm)
			if err != nil {
				return nil, err
			}
			cfg.Directives = append(cfg.Directives, dir)
		}
	}

	return schema.New(cfg)
}

type materializer struct {
	shells map[string]schema.Type
}

func (m *materializer) newShell(name, kind string, tm map[string]any) (schema.Type, error) {
	desc := str(tm["description"])
	switch kind {
	case "SCALAR":
		return &schema.Scalar{Name: name, Description: desc, SpecifiedByURL: str(tm["specifiedByURL"])}, nil
	case "OBJECT":
		return &schema.Object{Name: name, Description: desc}, nil
	case "INTERFACE":
		return &schema.Interface{Name: name, Description: desc}, nil
	case "UNION":
		return &schema.Union{Name: name, Description: desc}, nil
	case "ENUM":
		return &schema.Enum{Name: name, Description: desc}, nil
	case "INPUT_OBJECT":
		return &schema.InputObject{Name: name, Description: desc}, nil
	default:
		return nil, fmt.Errorf("type %s has unsupported kind %q", name, kind)
	}
}

func (m *materializer) fill(tm map[string]any) error {
	name := str(tm["name"])
	switch t := m.shells[name].(type) {
	case *schema.Object:
		fields, err := m.fields(name, tm["fields"])
		if err != nil {
			return err
		}
		t.Fields = fields
		if ifaces, ok := tm["interfaces"].([]any); ok {
			for _, i := range ifaces {
				ref, err := m.namedType(name, i)
				if err != nil {
					return err
				}
				iface, ok := ref.(*schema.Interface)
				if !ok {
					return fmt.Errorf("type %s implements non-interface %s", name, ref)
				}
				t.Interfaces = append(t.Interfaces, iface)
			}
		}
	case *schema.Interface:
		fields, err := m.fields(name, tm["fields"])
		if err != nil {
			return err
		}
		t.Fields = fields
	case *schema.Union:
		if possible, ok := tm["possibleTypes"].([]any); ok {
			for _, p := range possible {
				ref, err := m.namedType(name, p)
				if err != nil {
					return err
				}
				obj, ok := ref.(*schema.Object)
				if !ok {
					return fmt.Errorf("union %s has non-object member %s", name, ref)
				}
				t.Types = append(t.Types, obj)
			}
		}
	case *schema.Enum:
		if values, ok := tm["enumValues"].([]any); ok {
			for _, v := range values {
				vm, ok := v.(map[string]any)
				if !ok {
					continue
				}
				t.Values = append(t.Values, &schema.EnumValue{
					Name:              str(vm["name"]),
					Description:       str(vm["description"]),
					DeprecationReason: str(vm["deprecationReason"]),
				})
			}
		}
	case *schema.InputObject:
		if fields, ok := tm["inputFields"].([]any); ok {
			for _, f := range fields {
				fm, ok := f.(map[string]any)
				if !ok {
					continue
				}
				iv, err := m.inputValue(name, fm)
				if err != nil {
					return err
				}
				t.Fields = append(t.Fields, iv)
			}
		}
	}
	return nil
}

func (m *materializer) fields(owner string, raw any) ([]*schema.Field, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, nil
	}
	out := make([]*schema.Field, 0, len(list))
	for _, f := range list {
		fm, ok := f.(map[string]any)
		if !ok {
			continue
		}
		ft, err := m.typeRef(owner, fm["type"])
		if err != nil {
			return nil, err
		}
		field := &schema.Field{
			Name:              str(fm["name"]),
			Description:       str(fm["description"]),
			Type:              ft,
			DeprecationReason: str(fm["deprecationReason"]),
		}
		if args, ok := fm["args"].([]any); ok {
			for _, a := range args {
				am, ok := a.(map[string]any)
				if !ok {
					continue
				}
				iv, err := m.inputValue(owner, am)
				if err != nil {
					return nil, err
				}
				field.Args = append(field.Args, iv)
			}
		}
		out = append(out, field)
	}
	return out, nil
}

func (m *materializer) inputValue(owner string, im map[string]any) (*schema.InputValue, error) {
	t, err := m.typeRef(owner, im["type"])
	if err != nil {
		return nil, err
	}
	iv := &schema.InputValue{
		Name:              str(im["name"]),
		Description:       str(im["description"]),
		Type:              t,
		DeprecationReason: str(im["deprecationReason"]),
	}
	if literal := str(im["defaultValue"]); literal != "" {
		v, err := literalValue(literal)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: bad default value %q: %w", owner, iv.Name, literal, err)
		}
		iv.Default = v
	}
	return iv, nil
}

func (m *materializer) directive(dm map[string]any) (*schema.Directive, error) {
	name := str(dm["name"])
	d := &schema.Directive{
		Name:        name,
		Description: str(dm["description"]),
	}
	if repeatable, ok := dm["isRepeatable"].(bool); ok {
		d.IsRepeatable = repeatable
	}
	if locs, ok := dm["locations"].([]any); ok {
		for _, l := range locs {
			d.Locations = append(d.Locations, str(l))
		}
	}
	if args, ok := dm["args"].([]any); ok {
		for _, a := range args {
			am, ok := a.(map[string]any)
			if !ok {
				continue
			}
			iv, err := m.inputValue("@"+name, am)
			if err != nil {
				return nil, err
			}
			d.Args = append(d.Args, iv)
		}
	}
	return d, nil
}

// typeRef decodes a {kind, name, ofType} reference chain into a type,
// resolving named types against the shell table.
func (m *materializer) typeRef(owner string, raw any) (schema.Type, error) {
	rm, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: missing type reference", owner)
	}
	switch str(rm["kind"]) {
	case "NON_NULL":
		inner, err := m.typeRef(owner, rm["ofType"])
		if err != nil {
			return nil, err
		}
		return schema.NewNonNull(inner), nil
	case "LIST":
		inner, err := m.typeRef(owner, rm["ofType"])
		if err != nil {
			return nil, err
		}
		return schema.NewList(inner), nil
	default:
		return m.namedType(owner, raw)
	}
}

func (m *materializer) namedType(owner string, raw any) (schema.Type, error) {
	rm, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: missing type reference", owner)
	}
	name := str(rm["name"])
	t, ok := m.shells[name]
	if !ok {
		return nil, fmt.Errorf("%s references unknown type %q", owner, name)
	}
	return t, nil
}

func (m *materializer) rootObject(raw map[string]any, key string) (*schema.Object, error) {
	rm, ok := raw[key].(map[string]any)
	if !ok {
		return nil, nil
	}
	t, err := m.namedType(key, rm)
	if err != nil {
		return nil, err
	}
	obj, ok := t.(*schema.Object)
	if !ok {
		return nil, fmt.Errorf("%s %s is not an object type", key, t)
	}
	return obj, nil
}

func builtinScalar(name string) *schema.Scalar {
	switch name {
	case "Int":
		return schema.Int
	case "Float":
		return schema.Float
	case "String":
		return schema.String
	case "Boolean":
		return schema.Boolean
	default:
		return schema.ID
	}
}

// literalValue decodes a GraphQL literal (the defaultValue wire form) into a
// plain Go value by parsing it in variable-definition position.
func literalValue(literal string) (any, error) {
	doc, err := language.ParseQuery("query ($v: String = " + literal + ") { __typename }")
	if err != nil {
		return nil, err
	}
	ops := doc.Operations
	if len(ops) == 0 || len(ops[0].VariableDefinitions) == 0 {
		return nil, fmt.Errorf("unparseable literal")
	}
	return astLiteralToGo(ops[0].VariableDefinitions[0].DefaultValue)
}

func astLiteralToGo(value *language.Value) (any, error) {
	if value == nil {
		return nil, fmt.Errorf("unparseable literal")
	}
	switch value.Kind {
	case language.IntValue:
		return strconv.Atoi(value.Raw)
	case language.FloatValue:
		return strconv.ParseFloat(value.Raw, 64)
	case language.StringValue, language.BlockValue, language.EnumValue:
		return value.Raw, nil
	case language.BooleanValue:
		return value.Raw == "true", nil
	case language.NullValue:
		return nil, nil
	case language.ListValue:
		out := make([]any, len(value.Children))
		for i, child := range value.Children {
			v, err := astLiteralToGo(child.Value)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case language.ObjectValue:
		obj := make(map[string]any, len(value.Children))
		for _, child := range value.Children {
			v, err := astLiteralToGo(child.Value)
			if err != nil {
				return nil, err
			}
			obj[child.Name] = v
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported literal kind")
	}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}
