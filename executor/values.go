package executor

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/hanpama/gqlexec/language"
	"github.com/hanpama/gqlexec/schema"
)

// coerceVariableValues coerces externally supplied variable values against
// the operation's variable definitions. Every violation is collected before
// returning so a caller sees all problems in one pass; any violation aborts
// the operation before resolution begins.
func coerceVariableValues(s *schema.Schema, op *language.OperationDefinition, variables map[string]any) (map[string]any, []*GraphQLError) {
	coerced := make(map[string]any)
	var errs []*GraphQLError

	addViolation := func(vd *language.VariableDefinition, msg string) {
		err := &GraphQLError{Message: fmt.Sprintf("variable $%s %s", vd.Variable, msg)}
		if vd.Position != nil {
			err.Locations = []Location{{Line: vd.Position.Line, Column: vd.Position.Column}}
		}
		errs = append(errs, err)
	}

	for _, vd := range op.VariableDefinitions {
		t, err := resolveASTType(s, vd.Type)
		if err != nil {
			addViolation(vd, err.Error())
			continue
		}

		val, provided := variables[vd.Variable]
		external := true
		if !provided {
			if vd.DefaultValue != nil {
				val = astValueToGo(vd.DefaultValue)
				external = false
			} else if schema.IsNonNull(t) {
				addViolation(vd, fmt.Sprintf("of required type %s was not provided", t))
				continue
			} else {
				continue
			}
		}

		c := &inputCoercer{schema: s, external: external}
		cv := c.coerce(val, t, "$"+vd.Variable)
		if len(c.violations) > 0 {
			for _, v := range c.violations {
				err := &GraphQLError{Message: "variable " + v}
				if vd.Position != nil {
					err.Locations = []Location{{Line: vd.Position.Line, Column: vd.Position.Column}}
				}
				errs = append(errs, err)
			}
			continue
		}
		coerced[vd.Variable] = cv
	}
	return coerced, errs
}

// coerceArgumentValues coerces one field's arguments. Literal values go
// through CoerceInput; a referenced variable was already coerced against its
// own declared type, so its value substitutes directly with only a
// structural null/list check, never a second pass through the coercers.
// Violations are field errors: they null the field but never abort siblings.
func coerceArgumentValues(state *executionState, fieldDef *schema.Field, astField *language.Field, path []any) (map[string]any, bool) {
	coerced := make(map[string]any)
	handled := make(map[string]bool)
	ok := true

	addViolation := func(msg string) {
		err := &GraphQLError{Message: msg, Path: path}
		if astField.Position != nil {
			err.Locations = []Location{{Line: astField.Position.Line, Column: astField.Position.Column}}
		}
		state.errs.add(err)
		ok = false
	}

	for _, arg := range astField.Arguments {
		argDef := fieldDef.Arg(arg.Name)
		if argDef == nil {
			continue
		}

		if arg.Value != nil && arg.Value.Kind == language.Variable {
			v, provided := state.variables[arg.Value.Raw]
			if !provided {
				continue // absent variable: fall through to the default below
			}
			handled[arg.Name] = true
			if v == nil && schema.IsNonNull(argDef.Type) {
				addViolation(fmt.Sprintf("argument %s: cannot be null for non-null type %s", arg.Name, argDef.Type))
				continue
			}
			coerced[arg.Name] = fitListPosition(v, argDef.Type)
			continue
		}

		handled[arg.Name] = true
		c := &inputCoercer{schema: state.schema}
		cv := c.coerce(astValueToGo(arg.Value), argDef.Type, arg.Name)
		if len(c.violations) > 0 {
			for _, v := range c.violations {
				addViolation(fmt.Sprintf("argument %s", v))
			}
			continue
		}
		coerced[arg.Name] = cv
	}

	for _, argDef := range fieldDef.Args {
		if handled[argDef.Name] {
			continue
		}
		if argDef.Default != nil {
			coerced[argDef.Name] = argDef.Default
		} else if schema.IsNonNull(argDef.Type) {
			addViolation(fmt.Sprintf("argument %q of required type %s was not provided", argDef.Name, argDef.Type))
		}
	}
	return coerced, ok
}

// fitListPosition wraps a substituted variable value into a singleton when an
// item-typed variable lands in a list position, mirroring literal list
// coercion. The value itself is already coerced and is not touched.
func fitListPosition(value any, t schema.Type) any {
	if nn, ok := t.(*schema.NonNull); ok {
		t = nn.OfType
	}
	if _, ok := t.(*schema.List); !ok || value == nil {
		return value
	}
	if _, isSlice := asSlice(value); isSlice {
		return value
	}
	return []any{value}
}

// inputCoercer converts one input value tree against a declared input type,
// accumulating every violation instead of stopping at the first.
type inputCoercer struct {
	schema     *schema.Schema
	external   bool // externally supplied value vs document literal
	violations []string
}

func (c *inputCoercer) addf(at, format string, args ...any) {
	c.violations = append(c.violations, at+": "+fmt.Sprintf(format, args...))
}

func (c *inputCoercer) coerce(value any, t schema.Type, at string) any {
	if nn, ok := t.(*schema.NonNull); ok {
		if value == nil {
			c.addf(at, "cannot be null for non-null type %s", t)
			return nil
		}
		return c.coerce(value, nn.OfType, at)
	}
	if value == nil {
		return nil
	}

	switch t := t.(type) {
	case *schema.List:
		return c.coerceList(value, t, at)
	case *schema.Scalar:
		return c.coerceScalar(value, t, at)
	case *schema.Enum:
		return c.coerceEnum(value, t, at)
	case *schema.InputObject:
		return c.coerceInputObject(value, t, at)
	default:
		c.addf(at, "%s is not an input type", t)
		return nil
	}
}

// coerceList coerces each element independently; a non-list value becomes a
// singleton list of its coerced self.
func (c *inputCoercer) coerceList(value any, t *schema.List, at string) any {
	items, ok := asSlice(value)
	if !ok {
		return []any{c.coerce(value, t.OfType, at)}
	}
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = c.coerce(item, t.OfType, at+"["+strconv.Itoa(i)+"]")
	}
	return out
}

func (c *inputCoercer) coerceScalar(value any, t *schema.Scalar, at string) any {
	fn := t.CoerceInput
	if c.external {
		fn = t.CoerceUserInput
	}
	if fn == nil {
		return value
	}
	cv, err := fn(value)
	if err != nil {
		c.addf(at, "%s", err)
		return nil
	}
	return cv
}

func (c *inputCoercer) coerceEnum(value any, t *schema.Enum, at string) any {
	name, ok := value.(string)
	if !ok {
		c.addf(at, "enum %s cannot represent value %v (%T)", t.Name, value, value)
		return nil
	}
	v := t.Value(name)
	if v == nil {
		c.addf(at, "value %q does not exist in enum %s", name, t.Name)
		return nil
	}
	return v.InternalValue()
}

// coerceInputObject coerces each declared field by name, substitutes
// declared defaults for omitted optional fields, and rejects unknown names.
func (c *inputCoercer) coerceInputObject(value any, t *schema.InputObject, at string) any {
	m, ok := value.(map[string]any)
	if !ok {
		c.addf(at, "expected input object %s, got %T", t.Name, value)
		return nil
	}
	out := make(map[string]any, len(t.Fields))
	for name := range m {
		if t.Field(name) == nil {
			c.addf(at, "unknown field %q on input object %s", name, t.Name)
		}
	}
	for _, f := range t.Fields {
		fv, present := m[f.Name]
		switch {
		case present:
			out[f.Name] = c.coerce(fv, f.Type, at+"."+f.Name)
		case f.Default != nil:
			out[f.Name] = f.Default
		case schema.IsNonNull(f.Type):
			c.addf(at+"."+f.Name, "field of required type %s was not provided", f.Type)
		}
	}
	return out
}

// resolveASTType maps a document type reference to the schema's type.
func resolveASTType(s *schema.Schema, t *language.Type) (schema.Type, error) {
	if t == nil {
		return nil, fmt.Errorf("missing type reference")
	}
	var inner schema.Type
	var err error
	switch {
	case t.NamedType != "":
		inner = s.Type(t.NamedType)
		if inner == nil {
			err = fmt.Errorf("references unknown type %q", t.NamedType)
		}
	case t.Elem != nil:
		inner, err = resolveASTType(s, t.Elem)
		inner = schema.NewList(inner)
	default:
		err = fmt.Errorf("malformed type reference")
	}
	if err != nil {
		return nil, err
	}
	if t.NonNull {
		return schema.NewNonNull(inner), nil
	}
	return inner, nil
}

// valueFromAST converts an AST value to a Go value, substituting coerced
// variables.
func valueFromAST(value *language.Value, variables map[string]any) any {
	if value == nil {
		return nil
	}
	if value.Kind == language.Variable {
		return variables[value.Raw]
	}
	return astValueToGo(value)
}

// astValueToGo converts a document literal to its plain Go representation.
func astValueToGo(value *language.Value) any {
	if value == nil {
		return nil
	}
	switch value.Kind {
	case language.IntValue:
		iv, err := strconv.Atoi(value.Raw)
		if err != nil {
			// Out-of-range literal: hand the raw text to scalar coercion,
			// which rejects it with a proper violation.
			return value.Raw
		}
		return iv
	case language.FloatValue:
		fv, _ := strconv.ParseFloat(value.Raw, 64)
		return fv
	case language.StringValue, language.BlockValue:
		return value.Raw
	case language.BooleanValue:
		return value.Raw == "true"
	case language.NullValue:
		return nil
	case language.EnumValue:
		return value.Raw
	case language.ListValue:
		out := make([]any, len(value.Children))
		for i, child := range value.Children {
			out[i] = astValueToGo(child.Value)
		}
		return out
	case language.ObjectValue:
		m := make(map[string]any, len(value.Children))
		for _, child := range value.Children {
			m[child.Name] = astValueToGo(child.Value)
		}
		return m
	default:
		return nil
	}
}

// asSlice normalizes any slice value to []any.
func asSlice(value any) ([]any, bool) {
	if direct, ok := value.([]any); ok {
		return direct, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}
