package executor

import (
	"github.com/hanpama/gqlexec/language"
	"github.com/hanpama/gqlexec/schema"
)

// fieldGroups preserves response-key order from the original query. All AST
// fields that target the same response key are grouped so their subselections
// merge before deeper planning.
type fieldGroups struct {
	groups []fieldGroup
	index  map[string]int
}

type fieldGroup struct {
	ResponseKey string
	Fields      []*language.Field
}

func newFieldGroups() *fieldGroups {
	return &fieldGroups{index: make(map[string]int)}
}

func (g *fieldGroups) add(responseKey string, field *language.Field) {
	if idx, ok := g.index[responseKey]; ok {
		g.groups[idx].Fields = append(g.groups[idx].Fields, field)
		return
	}
	g.index[responseKey] = len(g.groups)
	g.groups = append(g.groups, fieldGroup{ResponseKey: responseKey, Fields: []*language.Field{field}})
}

func (g *fieldGroups) ordered() []fieldGroup {
	return g.groups
}

// collectFields expands fragments and directives into the merged selection
// set for one concrete object type. It runs fresh at every node of the
// result tree: an abstract-typed position can carry a different concrete
// type per instance, so the merge cannot be memoized globally.
func collectFields(state *executionState, objectType *schema.Object, selectionSet language.SelectionSet) *fieldGroups {
	grouped := newFieldGroups()
	visited := make(map[string]bool)
	collectFieldsImpl(state, objectType, selectionSet, grouped, visited)
	return grouped
}

func collectFieldsImpl(state *executionState, objectType *schema.Object, selectionSet language.SelectionSet, grouped *fieldGroups, visitedFragments map[string]bool) {
	for _, selection := range selectionSet {
		switch sel := selection.(type) {
		case *language.Field:
			if !shouldIncludeNode(state, sel.Directives) {
				continue
			}
			responseKey := sel.Alias
			if responseKey == "" {
				responseKey = sel.Name
			}
			grouped.add(responseKey, sel)

		case *language.InlineFragment:
			if !shouldIncludeNode(state, sel.Directives) {
				continue
			}
			if !typeConditionApplies(state, sel.TypeCondition, objectType) {
				continue
			}
			collectFieldsImpl(state, objectType, sel.SelectionSet, grouped, visitedFragments)

		case *language.FragmentSpread:
			if !shouldIncludeNode(state, sel.Directives) {
				continue
			}
			if visitedFragments[sel.Name] {
				continue
			}
			visitedFragments[sel.Name] = true

			fragment := state.document.Fragments.ForName(sel.Name)
			if fragment == nil {
				continue
			}
			if !typeConditionApplies(state, fragment.TypeCondition, objectType) {
				continue
			}
			if !shouldIncludeNode(state, fragment.Directives) {
				continue
			}
			collectFieldsImpl(state, objectType, fragment.SelectionSet, grouped, visitedFragments)
		}
	}
}

// typeConditionApplies reports whether a fragment with the given type
// condition contributes fields to the concrete type: the condition names the
// type itself, an interface it implements, or a union it belongs to. An
// absent condition always applies.
func typeConditionApplies(state *executionState, condition string, objectType *schema.Object) bool {
	if condition == "" || condition == objectType.Name {
		return true
	}
	target := state.schema.Type(condition)
	if target == nil {
		return false
	}
	return state.schema.IsSubtypeOf(objectType, target)
}

// shouldIncludeNode evaluates @skip and @include against the coerced
// variables. An excluded node is omitted silently, even when the field's
// declared type is non-null.
func shouldIncludeNode(state *executionState, directives language.DirectiveList) bool {
	if skip := directives.ForName("skip"); skip != nil {
		if v, ok := directiveIfArgument(state, skip); ok && v {
			return false
		}
	}
	if include := directives.ForName("include"); include != nil {
		if v, ok := directiveIfArgument(state, include); ok && !v {
			return false
		}
	}
	return true
}

func directiveIfArgument(state *executionState, directive *language.Directive) (value, ok bool) {
	for _, arg := range directive.Arguments {
		if arg.Name != "if" {
			continue
		}
		v := valueFromAST(arg.Value, state.variables)
		b, ok := v.(bool)
		return b, ok
	}
	return false, false
}
