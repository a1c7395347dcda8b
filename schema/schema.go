// Package schema implements the GraphQL type-system model: named types,
// fields, arguments, directives and their coercion hooks. A Schema is built
// once from a Config, validated as a whole, and is immutable afterwards, so
// any number of concurrent operations may read it without locking.
package schema

import "context"

// Kind identifies the variant of a Type.
type Kind string

const (
	KindScalar      Kind = "SCALAR"
	KindObject      Kind = "OBJECT"
	KindInterface   Kind = "INTERFACE"
	KindUnion       Kind = "UNION"
	KindEnum        Kind = "ENUM"
	KindInputObject Kind = "INPUT_OBJECT"
	KindList        Kind = "LIST"
	KindNonNull     Kind = "NON_NULL"
)

// Type is implemented by every type of the model: the six named kinds plus
// the List and NonNull wrappers. Consumers dispatch exhaustively on Kind.
type Type interface {
	Kind() Kind
	String() string
}

// CoerceFunc converts a value between its external and internal
// representation. Returning an error rejects the value.
type CoerceFunc func(value any) (any, error)

// Resolver produces the value of a field. Returning (Thunk, nil) suspends
// the field: the executor schedules the thunk together with its siblings and
// joins the results in selection order.
type Resolver func(ctx context.Context, source any, args map[string]any, info *ResolveInfo) (any, error)

// Thunk is a suspended field computation.
type Thunk func(ctx context.Context) (any, error)

// ResolveInfo carries the static context of one field resolution.
type ResolveInfo struct {
	Schema     *Schema
	ParentType *Object
	Field      *Field
	Path       []any
	Variables  map[string]any
}

// Scalar is a leaf type with caller-supplied coercion functions.
// CoerceInput handles literals from the document, CoerceUserInput handles
// externally supplied (variable) values, and CoerceOutput serializes an
// internal value into a response leaf.
type Scalar struct {
	Name            string
	Description     string
	SpecifiedByURL  string
	CoerceOutput    CoerceFunc
	CoerceInput     CoerceFunc
	CoerceUserInput CoerceFunc
}

func (t *Scalar) Kind() Kind     { return KindScalar }
func (t *Scalar) String() string { return t.Name }

// EnumValue is one declared value of an Enum. Value is the internal
// representation handed to resolvers; it defaults to the name itself.
type EnumValue struct {
	Name              string
	Description       string
	Value             any
	DeprecationReason string
}

// InternalValue returns the internal representation for the value.
func (v *EnumValue) InternalValue() any {
	if v.Value == nil {
		return v.Name
	}
	return v.Value
}

// Enum is a leaf type with an ordered, closed set of values.
type Enum struct {
	Name        string
	Description string
	Values      []*EnumValue
}

func (t *Enum) Kind() Kind     { return KindEnum }
func (t *Enum) String() string { return t.Name }

// Value returns the declared value with the given name, or nil.
func (t *Enum) Value(name string) *EnumValue {
	for _, v := range t.Values {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// ValueOf returns the declared value whose internal representation equals
// internal, or nil.
func (t *Enum) ValueOf(internal any) *EnumValue {
	for _, v := range t.Values {
		if v.InternalValue() == internal {
			return v
		}
	}
	return nil
}

// Field is an output field of an Object or Interface.
type Field struct {
	Name              string
	Description       string
	Type              Type
	Args              []*InputValue
	Resolve           Resolver
	DeprecationReason string
}

// Arg returns the declared argument with the given name, or nil.
func (f *Field) Arg(name string) *InputValue {
	for _, a := range f.Args {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// InputValue declares an argument or an input-object field. A nil Default
// means the value has no default.
type InputValue struct {
	Name              string
	Description       string
	Type              Type
	Default           any
	DeprecationReason string
}

// Object is a concrete output type. Fields may be declared lazily through
// FieldsFn so mutually recursive types can reference each other before the
// schema is built; the build materializes the thunk exactly once.
// IsTypeOf optionally classifies runtime values when the object appears
// behind an interface or union without its own ResolveType classifier.
type Object struct {
	Name        string
	Description string
	Fields      []*Field
	FieldsFn    func() []*Field
	Interfaces  []*Interface
	IsTypeOf    func(ctx context.Context, value any) bool
}

func (t *Object) Kind() Kind     { return KindObject }
func (t *Object) String() string { return t.Name }

// Field returns the declared field with the given name, or nil.
func (t *Object) Field(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Interface is an abstract output type. ResolveType, when set, maps a
// runtime value to the name of one of its implementing objects; an empty
// string means the value could not be classified.
type Interface struct {
	Name        string
	Description string
	Fields      []*Field
	FieldsFn    func() []*Field
	ResolveType func(ctx context.Context, value any) string
}

func (t *Interface) Kind() Kind     { return KindInterface }
func (t *Interface) String() string { return t.Name }

// Field returns the declared field with the given name, or nil.
func (t *Interface) Field(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Union is an abstract output type over an ordered set of object members.
type Union struct {
	Name        string
	Description string
	Types       []*Object
	TypesFn     func() []*Object
	ResolveType func(ctx context.Context, value any) string
}

func (t *Union) Kind() Kind     { return KindUnion }
func (t *Union) String() string { return t.Name }

// InputObject is a composite input type.
type InputObject struct {
	Name        string
	Description string
	Fields      []*InputValue
	FieldsFn    func() []*InputValue
}

func (t *InputObject) Kind() Kind     { return KindInputObject }
func (t *InputObject) String() string { return t.Name }

// Field returns the declared input field with the given name, or nil.
func (t *InputObject) Field(name string) *InputValue {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// List wraps an element type.
type List struct {
	OfType Type
}

func (t *List) Kind() Kind     { return KindList }
func (t *List) String() string { return "[" + t.OfType.String() + "]" }

// NonNull marks its inner type as required. Wrapping a NonNull in another
// NonNull is rejected at build time.
type NonNull struct {
	OfType Type
}

func (t *NonNull) Kind() Kind     { return KindNonNull }
func (t *NonNull) String() string { return t.OfType.String() + "!" }

// NewList wraps t in a List.
func NewList(t Type) *List { return &List{OfType: t} }

// NewNonNull wraps t in a NonNull.
func NewNonNull(t Type) *NonNull { return &NonNull{OfType: t} }

// Directive declares a directive and where it may appear. The executor
// consumes @skip and @include; everything else is metadata.
type Directive struct {
	Name         string
	Description  string
	Locations    []string
	Args         []*InputValue
	IsRepeatable bool
}

// Arg returns the declared argument with the given name, or nil.
func (d *Directive) Arg(name string) *InputValue {
	for _, a := range d.Args {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Schema is the immutable type-system graph shared by all operations.
type Schema struct {
	Description string

	query        *Object
	mutation     *Object
	subscription *Object

	types      map[string]Type
	typeNames  []string // sorted for deterministic iteration
	directives map[string]*Directive
	dirNames   []string

	possible map[string][]*Object // abstract type name -> ordered members
}

// QueryType returns the root query type.
func (s *Schema) QueryType() *Object { return s.query }

// MutationType returns the root mutation type, or nil.
func (s *Schema) MutationType() *Object { return s.mutation }

// SubscriptionType returns the root subscription type, or nil.
func (s *Schema) SubscriptionType() *Object { return s.subscription }

// Type returns the named type registered under name, or nil.
func (s *Schema) Type(name string) Type { return s.types[name] }

// TypeNames returns all registered type names in lexical order.
func (s *Schema) TypeNames() []string { return s.typeNames }

// Directive returns the directive registered under name, or nil.
func (s *Schema) Directive(name string) *Directive { return s.directives[name] }

// DirectiveNames returns all registered directive names in lexical order.
func (s *Schema) DirectiveNames() []string { return s.dirNames }

// PossibleTypes returns the concrete object types a value of the given
// abstract type may classify to. For an Object it returns the object itself;
// for non-composite types it returns nil.
func (s *Schema) PossibleTypes(t Type) []*Object {
	switch t := t.(type) {
	case *Object:
		return []*Object{t}
	case *Interface:
		return s.possible[t.Name]
	case *Union:
		return s.possible[t.Name]
	default:
		return nil
	}
}

// IsSubtypeOf reports whether candidate is acceptable where target is
// expected: identity, interface implementation, union membership, and the
// usual covariance through List and NonNull wrappers (a NonNull candidate
// satisfies a nullable target).
func (s *Schema) IsSubtypeOf(candidate, target Type) bool {
	if candidate == target {
		return true
	}
	switch tt := target.(type) {
	case *NonNull:
		ct, ok := candidate.(*NonNull)
		return ok && s.IsSubtypeOf(ct.OfType, tt.OfType)
	case *List:
		if ct, ok := candidate.(*NonNull); ok {
			return s.IsSubtypeOf(ct.OfType, target)
		}
		ct, ok := candidate.(*List)
		return ok && s.IsSubtypeOf(ct.OfType, tt.OfType)
	}
	if ct, ok := candidate.(*NonNull); ok {
		return s.IsSubtypeOf(ct.OfType, target)
	}
	cn, tn := TypeName(candidate), TypeName(target)
	if cn != "" && cn == tn {
		return true
	}
	obj, ok := candidate.(*Object)
	if !ok {
		return false
	}
	switch tt := target.(type) {
	case *Interface:
		for _, i := range obj.Interfaces {
			if i.Name == tt.Name {
				return true
			}
		}
	case *Union:
		for _, m := range s.possible[tt.Name] {
			if m.Name == obj.Name {
				return true
			}
		}
	}
	return false
}

// TypeName returns the name of a named type and "" for wrappers.
func TypeName(t Type) string {
	switch t := t.(type) {
	case *Scalar:
		return t.Name
	case *Enum:
		return t.Name
	case *Object:
		return t.Name
	case *Interface:
		return t.Name
	case *Union:
		return t.Name
	case *InputObject:
		return t.Name
	default:
		return ""
	}
}

// NamedOf unwraps List and NonNull and returns the innermost named type.
func NamedOf(t Type) Type {
	for {
		switch w := t.(type) {
		case *List:
			t = w.OfType
		case *NonNull:
			t = w.OfType
		default:
			return t
		}
	}
}

// IsNonNull reports whether t is a NonNull wrapper.
func IsNonNull(t Type) bool {
	_, ok := t.(*NonNull)
	return ok
}

// Unwrap removes one layer of List or NonNull wrapping.
func Unwrap(t Type) Type {
	switch w := t.(type) {
	case *List:
		return w.OfType
	case *NonNull:
		return w.OfType
	default:
		return t
	}
}

// IsInputType reports whether t may appear in an argument or input-field
// position.
func IsInputType(t Type) bool {
	switch NamedOf(t).(type) {
	case *Scalar, *Enum, *InputObject:
		return true
	default:
		return false
	}
}

// IsOutputType reports whether t may appear in a field position.
func IsOutputType(t Type) bool {
	switch NamedOf(t).(type) {
	case *Scalar, *Enum, *Object, *Interface, *Union:
		return true
	default:
		return false
	}
}

// IsAbstract reports whether t is an Interface or Union.
func IsAbstract(t Type) bool {
	switch t.(type) {
	case *Interface, *Union:
		return true
	default:
		return false
	}
}
