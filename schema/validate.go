package schema

import (
	"fmt"
	"regexp"
	"strings"
)

// Violation is a single problem found while building a schema.
type Violation struct {
	Subject string // what the violation is about, e.g. "type Dog" or "Dog.name"
	Message string
}

// BuildError reports every violation found during New in one error value.
type BuildError []*Violation

func (e BuildError) Error() string {
	var b strings.Builder
	b.WriteString("schema build failed:\n")
	for _, v := range e {
		b.WriteString("- ")
		if v.Subject != "" {
			b.WriteString(v.Subject)
			b.WriteString(": ")
		}
		b.WriteString(v.Message)
		b.WriteString("\n")
	}
	return b.String()
}

var nameRe = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)

type validator struct {
	schema        *Schema
	allowReserved bool
	violations    []*Violation
}

func (v *validator) addf(subjectFormat, subjectArg string, format string, args ...any) {
	subject := subjectFormat
	if subjectArg != "" {
		subject = fmt.Sprintf(subjectFormat, subjectArg)
	}
	v.violations = append(v.violations, &Violation{
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
	})
}

// validate runs after discovery, once every reachable type is registered and
// materialized.
func (v *validator) validate() {
	for name, t := range v.schema.types {
		v.checkName("type %s", name, name)
		switch t := t.(type) {
		case *Scalar:
			// coercers may be nil; the executor falls back to identity.
		case *Enum:
			v.checkEnum(t)
		case *Object:
			v.checkFields(t.Name, t.Fields)
			v.checkImplementations(t)
		case *Interface:
			v.checkFields(t.Name, t.Fields)
		case *Union:
			v.checkUnion(t)
		case *InputObject:
			v.checkInputObject(t)
		}
	}
	for name, d := range v.schema.directives {
		v.checkName("directive @%s", name, name)
		v.checkInputValues("@"+name, d.Args)
	}
}

// checkName validates the bare name while reporting against the full
// subject, which may carry its own qualification ("Query.a").
func (v *validator) checkName(subjectFormat, subject, name string) {
	if !nameRe.MatchString(name) {
		v.addf(subjectFormat, subject, "invalid name %q", name)
		return
	}
	if strings.HasPrefix(name, "__") && !v.allowReserved {
		v.addf(subjectFormat, subject, "names beginning with %q are reserved", "__")
	}
}

func (v *validator) checkFields(typeName string, fields []*Field) {
	if len(fields) == 0 {
		v.addf("type %s", typeName, "must declare at least one field")
		return
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		subject := typeName + "." + f.Name
		v.checkName("field %s", subject, f.Name)
		if seen[f.Name] {
			v.addf("field %s", subject, "duplicate field name")
		}
		seen[f.Name] = true
		if f.Type == nil {
			v.addf("field %s", subject, "field type is missing")
		} else {
			v.checkWrapping(subject, f.Type)
			if !IsOutputType(f.Type) {
				v.addf("field %s", subject, "%s is not an output type", f.Type)
			}
		}
		v.checkInputValues(subject, f.Args)
	}
}

func (v *validator) checkInputValues(owner string, args []*InputValue) {
	seen := make(map[string]bool, len(args))
	for _, a := range args {
		subject := owner + "(" + a.Name + ":)"
		v.checkName("argument %s", subject, a.Name)
		if seen[a.Name] {
			v.addf("argument %s", subject, "duplicate argument name")
		}
		seen[a.Name] = true
		if a.Type == nil {
			v.addf("argument %s", subject, "argument type is missing")
		} else {
			v.checkWrapping(subject, a.Type)
			if !IsInputType(a.Type) {
				v.addf("argument %s", subject, "%s is not an input type", a.Type)
			}
		}
	}
}

// checkWrapping rejects NonNull wrapped directly in NonNull anywhere in a
// type reference.
func (v *validator) checkWrapping(subject string, t Type) {
	for {
		switch w := t.(type) {
		case *NonNull:
			if _, ok := w.OfType.(*NonNull); ok {
				v.addf("%s", subject, "non-null type cannot wrap another non-null type")
			}
			t = w.OfType
		case *List:
			t = w.OfType
		default:
			return
		}
	}
}

func (v *validator) checkEnum(t *Enum) {
	if len(t.Values) == 0 {
		v.addf("enum %s", t.Name, "must declare at least one value")
		return
	}
	seen := make(map[string]bool, len(t.Values))
	for _, val := range t.Values {
		if seen[val.Name] {
			v.addf("enum %s", t.Name, "duplicate value %q", val.Name)
		}
		seen[val.Name] = true
	}
}

func (v *validator) checkUnion(t *Union) {
	if len(t.Types) == 0 {
		v.addf("union %s", t.Name, "must declare at least one member type")
		return
	}
	seen := make(map[string]bool, len(t.Types))
	for _, m := range t.Types {
		if seen[m.Name] {
			v.addf("union %s", t.Name, "duplicate member type %q", m.Name)
		}
		seen[m.Name] = true
	}
}

func (v *validator) checkInputObject(t *InputObject) {
	if len(t.Fields) == 0 {
		v.addf("input %s", t.Name, "must declare at least one input field")
		return
	}
	seen := make(map[string]bool, len(t.Fields))
	for _, f := range t.Fields {
		subject := t.Name + "." + f.Name
		v.checkName("input field %s", subject, f.Name)
		if seen[f.Name] {
			v.addf("input field %s", subject, "duplicate input field name")
		}
		seen[f.Name] = true
		if f.Type == nil {
			v.addf("input field %s", subject, "input field type is missing")
		} else {
			v.checkWrapping(subject, f.Type)
			if !IsInputType(f.Type) {
				v.addf("input field %s", subject, "%s is not an input type", f.Type)
			}
		}
	}
}

// checkImplementations verifies that obj satisfies each declared interface:
// every interface field must be present with a covariant-compatible type and
// an identical argument contract, and any additional arguments the object
// declares must be optional.
func (v *validator) checkImplementations(obj *Object) {
	for _, iface := range obj.Interfaces {
		for _, ifield := range iface.Fields {
			ofield := obj.Field(ifield.Name)
			subject := obj.Name + "." + ifield.Name
			if ofield == nil {
				v.addf("type %s", obj.Name, "missing field %q required by interface %s", ifield.Name, iface.Name)
				continue
			}
			if ofield.Type != nil && ifield.Type != nil && !v.schema.IsSubtypeOf(ofield.Type, ifield.Type) {
				v.addf("field %s", subject, "type %s is not compatible with %s declared by interface %s",
					ofield.Type, ifield.Type, iface.Name)
			}
			for _, iarg := range ifield.Args {
				oarg := ofield.Arg(iarg.Name)
				if oarg == nil {
					v.addf("field %s", subject, "missing argument %q required by interface %s", iarg.Name, iface.Name)
					continue
				}
				if oarg.Type != nil && iarg.Type != nil && oarg.Type.String() != iarg.Type.String() {
					v.addf("field %s", subject, "argument %q must have type %s declared by interface %s, not %s",
						iarg.Name, iarg.Type, iface.Name, oarg.Type)
				}
			}
			for _, oarg := range ofield.Args {
				if ifield.Arg(oarg.Name) == nil && IsNonNull(oarg.Type) && oarg.Default == nil {
					v.addf("field %s", subject, "additional argument %q must be optional", oarg.Name)
				}
			}
		}
	}
}
