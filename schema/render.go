package schema

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Render produces SDL from the schema.
// Deterministic ordering: type/directive names sorted lexicographically.
func Render(s *Schema) string {
	if s == nil {
		return ""
	}
	var b strings.Builder

	typeNames := make([]string, 0, len(s.types))
	for name, t := range s.types {
		switch t {
		case Int, Float, String, Boolean, ID:
			continue
		}
		if strings.HasPrefix(name, "__") {
			continue
		}
		typeNames = append(typeNames, name)
	}
	sort.Strings(typeNames)

	for _, name := range typeNames {
		switch t := s.types[name].(type) {
		case *Scalar:
			renderScalar(&b, t)
		case *Enum:
			renderEnum(&b, t)
		case *InputObject:
			renderInputObject(&b, t)
		case *Object:
			renderObject(&b, t)
		case *Interface:
			renderInterface(&b, t)
		case *Union:
			renderUnion(&b, t)
		}
	}

	dirNames := make([]string, 0, len(s.directives))
	for name, d := range s.directives {
		switch d {
		case IncludeDirective, SkipDirective, DeprecatedDirective:
			continue
		}
		dirNames = append(dirNames, name)
	}
	sort.Strings(dirNames)
	for _, name := range dirNames {
		renderDirective(&b, s.directives[name])
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// ----- render helpers -----

func renderDescription(b *strings.Builder, desc string) {
	if desc == "" {
		return
	}
	b.WriteString("\"\"\"\n")
	b.WriteString(strings.ReplaceAll(desc, "\"", "\\\""))
	b.WriteString("\n\"\"\"\n")
}

func renderScalar(b *strings.Builder, t *Scalar) {
	renderDescription(b, t.Description)
	b.WriteString("scalar ")
	b.WriteString(t.Name)
	if t.SpecifiedByURL != "" {
		b.WriteString(" @specifiedBy(url: \"")
		b.WriteString(t.SpecifiedByURL)
		b.WriteString("\")")
	}
	b.WriteString("\n\n")
}

func renderEnum(b *strings.Builder, t *Enum) {
	renderDescription(b, t.Description)
	b.WriteString("enum ")
	b.WriteString(t.Name)
	b.WriteString(" {\n")
	for _, val := range t.Values {
		renderDescription(b, val.Description)
		b.WriteString("  ")
		b.WriteString(val.Name)
		renderDeprecation(b, val.DeprecationReason)
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
}

func renderInputObject(b *strings.Builder, t *InputObject) {
	renderDescription(b, t.Description)
	b.WriteString("input ")
	b.WriteString(t.Name)
	b.WriteString(" {\n")
	for _, field := range t.Fields {
		renderDescription(b, field.Description)
		b.WriteString("  ")
		b.WriteString(field.Name)
		b.WriteString(": ")
		b.WriteString(field.Type.String())
		if field.Default != nil {
			b.WriteString(" = ")
			b.WriteString(RenderValue(field.Default))
		}
		renderDeprecation(b, field.DeprecationReason)
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
}

func renderObject(b *strings.Builder, t *Object) {
	renderDescription(b, t.Description)
	b.WriteString("type ")
	b.WriteString(t.Name)
	if len(t.Interfaces) > 0 {
		b.WriteString(" implements ")
		for i, iface := range t.Interfaces {
			if i > 0 {
				b.WriteString(" & ")
			}
			b.WriteString(iface.Name)
		}
	}
	b.WriteString(" {\n")
	for _, field := range t.Fields {
		renderField(b, field)
	}
	b.WriteString("}\n\n")
}

func renderInterface(b *strings.Builder, t *Interface) {
	renderDescription(b, t.Description)
	b.WriteString("interface ")
	b.WriteString(t.Name)
	b.WriteString(" {\n")
	for _, field := range t.Fields {
		renderField(b, field)
	}
	b.WriteString("}\n\n")
}

func renderUnion(b *strings.Builder, t *Union) {
	renderDescription(b, t.Description)
	b.WriteString("union ")
	b.WriteString(t.Name)
	b.WriteString(" = ")
	for i, m := range t.Types {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(m.Name)
	}
	b.WriteString("\n\n")
}

func renderField(b *strings.Builder, field *Field) {
	renderDescription(b, field.Description)
	b.WriteString("  ")
	b.WriteString(field.Name)
	if len(field.Args) > 0 {
		b.WriteString("(")
		for i, arg := range field.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.Name)
			b.WriteString(": ")
			b.WriteString(arg.Type.String())
			if arg.Default != nil {
				b.WriteString(" = ")
				b.WriteString(RenderValue(arg.Default))
			}
		}
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(field.Type.String())
	renderDeprecation(b, field.DeprecationReason)
	b.WriteString("\n")
}

func renderDeprecation(b *strings.Builder, reason string) {
	if reason == "" {
		return
	}
	b.WriteString(" @deprecated(reason: \"")
	b.WriteString(reason)
	b.WriteString("\")")
}

func renderDirective(b *strings.Builder, d *Directive) {
	renderDescription(b, d.Description)
	b.WriteString("directive @")
	b.WriteString(d.Name)
	if len(d.Args) > 0 {
		b.WriteString("(")
		for i, arg := range d.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.Name)
			b.WriteString(": ")
			b.WriteString(arg.Type.String())
			if arg.Default != nil {
				b.WriteString(" = ")
				b.WriteString(RenderValue(arg.Default))
			}
		}
		b.WriteString(")")
	}
	if d.IsRepeatable {
		b.WriteString(" repeatable")
	}
	b.WriteString(" on ")
	b.WriteString(strings.Join(d.Locations, " | "))
	b.WriteString("\n\n")
}

// RenderValue renders a plain Go value as a GraphQL literal (default values,
// directive arguments).
func RenderValue(value any) string {
	if value == nil {
		return "null"
	}
	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = RenderValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + RenderValue(v[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprint(v)
	}
}
