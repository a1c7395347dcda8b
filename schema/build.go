package schema

import "sort"

// Config declares the roots of a schema. Types lists additional named types
// that are reachable only through interface membership or runtime
// classification; everything referenced from a root is discovered
// automatically.
type Config struct {
	Description  string
	Query        *Object
	Mutation     *Object
	Subscription *Object
	Types        []Type
	Directives   []*Directive

	// AllowReservedNames permits "__"-prefixed type and field names. It is
	// set by the introspection package when it grafts the meta types onto a
	// user schema; user code should leave it false.
	AllowReservedNames bool
}

// New builds and validates a schema. The build runs in two phases: first
// every reachable named type is registered by name and its lazy field/member
// thunks are materialized (so mutually recursive declarations resolve), then
// the whole graph is checked. All violations found are reported together in
// a single BuildError rather than one at a time.
func New(cfg Config) (*Schema, error) {
	s := &Schema{
		Description: cfg.Description,
		types:       make(map[string]Type),
		directives:  make(map[string]*Directive),
		possible:    make(map[string][]*Object),
	}

	v := &validator{schema: s, allowReserved: cfg.AllowReservedNames}

	for _, t := range []*Scalar{Int, Float, String, Boolean, ID} {
		s.types[t.Name] = t
	}
	for _, d := range []*Directive{IncludeDirective, SkipDirective, DeprecatedDirective} {
		s.directives[d.Name] = d
	}
	for _, d := range cfg.Directives {
		if prev, ok := s.directives[d.Name]; ok && prev != d {
			v.addf("directive @%s", d.Name, "duplicate directive name")
			continue
		}
		s.directives[d.Name] = d
	}

	s.query = cfg.Query
	s.mutation = cfg.Mutation
	s.subscription = cfg.Subscription
	if cfg.Query == nil {
		v.addf("schema", "", "the query root type is required")
	}

	var roots []Type
	for _, o := range []*Object{cfg.Query, cfg.Mutation, cfg.Subscription} {
		if o != nil {
			roots = append(roots, o)
		}
	}
	roots = append(roots, cfg.Types...)
	for _, d := range s.directives {
		for _, a := range d.Args {
			if a.Type != nil {
				roots = append(roots, a.Type)
			}
		}
	}
	for _, r := range roots {
		v.discover(r)
	}

	s.indexPossibleTypes()
	v.validate()

	if len(v.violations) > 0 {
		sort.SliceStable(v.violations, func(i, j int) bool {
			return v.violations[i].Subject < v.violations[j].Subject
		})
		return nil, BuildError(v.violations)
	}

	sortedNames := make([]string, 0, len(s.types))
	for name := range s.types {
		sortedNames = append(sortedNames, name)
	}
	sort.Strings(sortedNames)
	s.typeNames = sortedNames

	dirNames := make([]string, 0, len(s.directives))
	for name := range s.directives {
		dirNames = append(dirNames, name)
	}
	sort.Strings(dirNames)
	s.dirNames = dirNames

	return s, nil
}

// discover registers every named type reachable from t, materializing lazy
// declarations along the way. Cycles terminate because a type is registered
// before its references are followed.
func (v *validator) discover(t Type) {
	switch t := t.(type) {
	case *List:
		v.discover(t.OfType)
		return
	case *NonNull:
		v.discover(t.OfType)
		return
	}

	name := TypeName(t)
	if name == "" {
		return
	}
	if prev, ok := v.schema.types[name]; ok {
		if prev != t {
			v.addf("type %s", name, "duplicate type name")
		}
		return
	}
	v.schema.types[name] = t

	switch t := t.(type) {
	case *Object:
		materializeFields(&t.Fields, &t.FieldsFn)
		for _, i := range t.Interfaces {
			v.discover(i)
		}
		v.discoverFields(t.Fields)
	case *Interface:
		materializeFields(&t.Fields, &t.FieldsFn)
		v.discoverFields(t.Fields)
	case *Union:
		if t.TypesFn != nil && t.Types == nil {
			t.Types = t.TypesFn()
			t.TypesFn = nil
		}
		for _, m := range t.Types {
			v.discover(m)
		}
	case *InputObject:
		if t.FieldsFn != nil && t.Fields == nil {
			t.Fields = t.FieldsFn()
			t.FieldsFn = nil
		}
		for _, f := range t.Fields {
			if f.Type != nil {
				v.discover(f.Type)
			}
		}
	}
}

func (v *validator) discoverFields(fields []*Field) {
	for _, f := range fields {
		if f.Type != nil {
			v.discover(f.Type)
		}
		for _, a := range f.Args {
			if a.Type != nil {
				v.discover(a.Type)
			}
		}
	}
}

func materializeFields(fields *[]*Field, fn *func() []*Field) {
	if *fn != nil && *fields == nil {
		*fields = (*fn)()
		*fn = nil
	}
}

// indexPossibleTypes records union membership directly and interface
// implementations by scanning registered objects, preserving registration
// order via the sorted name pass below.
func (s *Schema) indexPossibleTypes() {
	names := make([]string, 0, len(s.types))
	for name := range s.types {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if u, ok := s.types[name].(*Union); ok {
			s.possible[u.Name] = append([]*Object(nil), u.Types...)
		}
	}
	for _, name := range names {
		obj, ok := s.types[name].(*Object)
		if !ok {
			continue
		}
		for _, i := range obj.Interfaces {
			s.possible[i.Name] = append(s.possible[i.Name], obj)
		}
	}
}
