package executor

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/hanpama/gqlexec/eventbus"
	"github.com/hanpama/gqlexec/events"
	"github.com/hanpama/gqlexec/language"
	"github.com/hanpama/gqlexec/reqid"
	"github.com/hanpama/gqlexec/schema"
)

// Options tunes how one executor schedules resolver work.
type Options struct {
	// MaxConcurrency bounds how many suspended field resolutions run at
	// once within a selection set. 0 means unbounded; 1 forces a
	// sequential, fully deterministic schedule.
	MaxConcurrency int
	// CancelOnFatal cancels the context seen by in-flight sibling
	// resolvers once a non-null field has failed and the enclosing
	// result is already doomed. Cancellation is advisory.
	CancelOnFatal bool
}

// Executor runs operations from validated query documents against one
// schema. The schema is immutable after construction, so a single Executor
// serves any number of concurrent operations.
type Executor struct {
	schema *schema.Schema
	opts   Options
}

// New returns an executor over s with the given options.
func New(s *schema.Schema, opts Options) *Executor {
	return &Executor{schema: s, opts: opts}
}

// executionState carries the per-operation context shared by every node of
// the result tree.
type executionState struct {
	ctx       context.Context
	schema    *schema.Schema
	document  *language.QueryDocument
	variables map[string]any
	opts      Options
	errs      *collector
}

// Execute runs one operation from document and produces its response.
// Documents are expected to be statically validated beforehand; the executor
// re-checks only what resolution itself depends on.
//
// Operation selection is lenient: a missing operationName on a
// multi-operation document and a name that matches no operation both fall
// back to the first operation in the document.
// TODO: turn both fallbacks into request errors once known clients send
// exact operation names.
func (e *Executor) Execute(ctx context.Context, document *language.QueryDocument, operationName string, variables map[string]any, rootValue any) *Response {
	if _, ok := reqid.FromContext(ctx); !ok {
		ctx, _ = reqid.NewContext(ctx)
	}

	operation := selectOperation(document, operationName)
	if operation == nil {
		return &Response{
			Errors:   []*GraphQLError{{Message: "document contains no operations"}},
			omitData: true,
		}
	}

	started := time.Now()
	eventbus.Publish(ctx, events.ExecutionStart{
		OperationName: operation.Name,
		OperationType: string(operation.Operation),
	})
	resp := e.executeOperation(ctx, document, operation, variables, rootValue)
	eventbus.Publish(ctx, events.ExecutionFinish{
		OperationName: operation.Name,
		OperationType: string(operation.Operation),
		ErrorCount:    len(resp.Errors),
		Duration:      time.Since(started),
	})
	return resp
}

func (e *Executor) executeOperation(ctx context.Context, document *language.QueryDocument, operation *language.OperationDefinition, variables map[string]any, rootValue any) *Response {
	coerced, varErrs := coerceVariableValues(e.schema, operation, variables)
	if len(varErrs) > 0 {
		return &Response{Errors: varErrs, omitData: true}
	}

	var rootType *schema.Object
	switch operation.Operation {
	case language.Query:
		rootType = e.schema.QueryType()
	case language.Mutation:
		rootType = e.schema.MutationType()
	case language.Subscription:
		rootType = e.schema.SubscriptionType()
	}
	if rootType == nil {
		return &Response{
			Errors:   []*GraphQLError{{Message: fmt.Sprintf("schema does not support %s operations", operation.Operation)}},
			omitData: true,
		}
	}

	state := &executionState{
		ctx:       ctx,
		schema:    e.schema,
		document:  document,
		variables: coerced,
		opts:      e.opts,
		errs:      &collector{},
	}

	serial := operation.Operation == language.Mutation
	data := executeSelectionSet(state, rootType, operation.SelectionSet, rootValue, nil, serial)
	return &Response{Data: data, Errors: state.errs.all()}
}

func selectOperation(document *language.QueryDocument, operationName string) *language.OperationDefinition {
	if operationName != "" {
		if op := document.Operations.ForName(operationName); op != nil {
			return op
		}
	}
	if len(document.Operations) > 0 {
		return document.Operations[0]
	}
	return nil
}

// resolvedField is one response key's resolution in flight: resolver invoked,
// completion pending.
type resolvedField struct {
	group      fieldGroup
	fieldDef   *schema.Field
	path       []any
	isTypename bool
	skipped    bool
	value      any
	thunk      schema.Thunk
	errored    bool
}

// executeSelectionSet resolves and completes one selection set against a
// concrete object type, returning nil when a non-null child forces the whole
// object to null.
//
// In the concurrent mode every resolver is invoked in selection order, the
// suspended ones then run together, and completion joins them back in
// selection order so the response shape and error order stay deterministic.
// serial mode (mutation roots) finishes each field entirely before starting
// the next so side effects observe document order.
func executeSelectionSet(state *executionState, objectType *schema.Object, selectionSet language.SelectionSet, source any, path []any, serial bool) *ResultMap {
	groups := collectFields(state, objectType, selectionSet).ordered()

	if serial {
		result := NewResultMap()
		for _, group := range groups {
			rf := invokeField(state, objectType, source, group, appendPath(path, group.ResponseKey))
			if rf.thunk != nil && !rf.errored {
				value, err := rf.thunk(state.ctx)
				rf.value = value
				if err != nil {
					state.errs.add(fieldError(rf.group.Fields[0], rf.path, "%s", err))
					rf.errored = true
				}
			}
			if !writeField(state, result, objectType, &rf) {
				return nil
			}
		}
		return result
	}

	fields := make([]resolvedField, len(groups))
	for i, group := range groups {
		fields[i] = invokeField(state, objectType, source, group, appendPath(path, group.ResponseKey))
	}

	var tasks []task
	var taskIndex []int
	for i := range fields {
		if fields[i].thunk == nil || fields[i].errored {
			continue
		}
		thunk := fields[i].thunk
		tasks = append(tasks, task{
			run:   func(ctx context.Context) (any, error) { return thunk(ctx) },
			fatal: schema.IsNonNull(fields[i].fieldDef.Type),
		})
		taskIndex = append(taskIndex, i)
	}
	if len(tasks) > 0 {
		outcomes := runAll(state.ctx, state.opts.MaxConcurrency, state.opts.CancelOnFatal, tasks)
		for j, out := range outcomes {
			rf := &fields[taskIndex[j]]
			rf.value = out.value
			if out.err != nil {
				state.errs.add(fieldError(rf.group.Fields[0], rf.path, "%s", out.err))
				rf.errored = true
			}
		}
	}

	result := NewResultMap()
	for i := range fields {
		if !writeField(state, result, objectType, &fields[i]) {
			return nil
		}
	}
	return result
}

// invokeField coerces arguments and invokes the field's resolver. It returns
// without completing: the value may still be a suspended thunk.
func invokeField(state *executionState, objectType *schema.Object, source any, group fieldGroup, path []any) resolvedField {
	rf := resolvedField{group: group, path: path}
	field := group.Fields[0]

	if field.Name == "__typename" {
		rf.isTypename = true
		return rf
	}

	rf.fieldDef = objectType.Field(field.Name)
	if rf.fieldDef == nil {
		state.errs.add(fieldError(field, path, "cannot query field %q on type %q", field.Name, objectType.Name))
		rf.skipped = true
		return rf
	}

	args, ok := coerceArgumentValues(state, rf.fieldDef, field, path)
	if !ok {
		rf.errored = true
		return rf
	}

	resolve := rf.fieldDef.Resolve
	if resolve == nil {
		resolve = defaultResolver
	}
	info := &schema.ResolveInfo{
		Schema:     state.schema,
		ParentType: objectType,
		Field:      rf.fieldDef,
		Path:       path,
		Variables:  state.variables,
	}

	eventbus.Publish(state.ctx, events.ResolveStart{
		ParentType: objectType.Name,
		Field:      field.Name,
		Path:       pathString(path),
	})
	started := time.Now()
	value, err := safeResolve(state.ctx, resolve, source, args, info)
	eventbus.Publish(state.ctx, events.ResolveFinish{
		ParentType: objectType.Name,
		Field:      field.Name,
		Path:       pathString(path),
		Err:        err,
		Duration:   time.Since(started),
	})

	if err != nil {
		state.errs.add(fieldError(field, path, "%s", err))
		rf.errored = true
		return rf
	}
	if thunk, ok := value.(schema.Thunk); ok {
		rf.thunk = thunk
		return rf
	}
	rf.value = value
	return rf
}

// safeResolve converts a resolver panic into a field error so one faulty
// resolver cannot take down sibling resolutions.
func safeResolve(ctx context.Context, resolve schema.Resolver, source any, args map[string]any, info *schema.ResolveInfo) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in resolver %s.%s: %v", info.ParentType.Name, info.Field.Name, r)
		}
	}()
	return resolve(ctx, source, args, info)
}

// writeField completes one resolved field into the result map. It reports
// false when a null non-null field must collapse the enclosing object.
func writeField(state *executionState, result *ResultMap, objectType *schema.Object, rf *resolvedField) bool {
	if rf.skipped {
		return true
	}
	if rf.isTypename {
		result.Set(rf.group.ResponseKey, objectType.Name)
		return true
	}

	var completed any
	if !rf.errored {
		completed = completeValue(state, rf.fieldDef.Type, rf.group.Fields, rf.value, rf.path)
	}

	if schema.IsNonNull(rf.fieldDef.Type) && isNullish(completed) {
		// The error sits at its originating path; the null bubbles here.
		return false
	}
	if isNullish(completed) {
		result.Set(rf.group.ResponseKey, nil)
	} else {
		result.Set(rf.group.ResponseKey, completed)
	}
	return true
}

// completeValue converts one resolved value to its response form. A non-null
// wrapper records its error only when the resolved value itself is null;
// nulls produced deeper already carry their own error and propagate silently
// to the nearest nullable ancestor.
func completeValue(state *executionState, fieldType schema.Type, fields []*language.Field, result any, path []any) any {
	if nn, ok := fieldType.(*schema.NonNull); ok {
		if isNullish(result) {
			if !state.errs.hasAtPath(path) {
				state.errs.add(&GraphQLError{
					Message: fmt.Sprintf("cannot return null for non-nullable field %s", pathString(path)),
					Path:    path,
				})
			}
			return nil
		}
		completed := completeValue(state, nn.OfType, fields, result, path)
		if isNullish(completed) {
			return nil
		}
		return completed
	}

	if isNullish(result) {
		return nil
	}

	switch t := fieldType.(type) {
	case *schema.List:
		return completeListValue(state, t, fields, result, path)
	case *schema.Scalar:
		return completeScalarValue(state, t, result, path)
	case *schema.Enum:
		return completeEnumValue(state, t, result, path)
	case *schema.Object:
		sub := executeSelectionSet(state, t, mergeSelectionSets(fields), result, path, false)
		if sub == nil {
			return nil
		}
		return sub
	case *schema.Interface, *schema.Union:
		return completeAbstractValue(state, fieldType, fields, result, path)
	default:
		state.errs.add(&GraphQLError{
			Message: fmt.Sprintf("cannot complete value of type %s", fieldType),
			Path:    path,
		})
		return nil
	}
}

// completeListValue completes each element at its indexed path. When the
// element type is non-null, a failed element nulls the entire list; every
// element still completes so each failure is reported at its own index.
func completeListValue(state *executionState, listType *schema.List, fields []*language.Field, result any, path []any) any {
	items, ok := asSlice(result)
	if !ok {
		state.errs.add(&GraphQLError{
			Message: fmt.Sprintf("expected a list at %s, got %T", pathString(path), result),
			Path:    path,
		})
		return nil
	}

	completed := make([]any, len(items))
	nulled := false
	for i, item := range items {
		elemPath := appendPath(path, i)
		if thunk, ok := item.(schema.Thunk); ok {
			v, err := thunk(state.ctx)
			if err != nil {
				state.errs.add(&GraphQLError{Message: err.Error(), Path: elemPath})
				item = nil
			} else {
				item = v
			}
		}
		v := completeValue(state, listType.OfType, fields, item, elemPath)
		if schema.IsNonNull(listType.OfType) && isNullish(v) {
			nulled = true
			continue
		}
		if isNullish(v) {
			completed[i] = nil
		} else {
			completed[i] = v
		}
	}
	if nulled {
		return nil
	}
	return completed
}

func completeScalarValue(state *executionState, t *schema.Scalar, result any, path []any) any {
	if t.CoerceOutput == nil {
		return result
	}
	v, err := t.CoerceOutput(result)
	if err != nil {
		state.errs.add(&GraphQLError{Message: err.Error(), Path: path})
		return nil
	}
	return v
}

func completeEnumValue(state *executionState, t *schema.Enum, result any, path []any) any {
	ev := t.ValueOf(result)
	if ev == nil {
		state.errs.add(&GraphQLError{
			Message: fmt.Sprintf("enum %s cannot represent value %v", t.Name, result),
			Path:    path,
		})
		return nil
	}
	return ev.Name
}

// completeAbstractValue classifies a value behind an interface or union into
// one of its possible object types, then completes it as that object. The
// type's ResolveType classifier wins; without one, possible types are probed
// through their IsTypeOf predicates.
func completeAbstractValue(state *executionState, abstractType schema.Type, fields []*language.Field, result any, path []any) any {
	var typeName string
	switch t := abstractType.(type) {
	case *schema.Interface:
		if t.ResolveType != nil {
			typeName = t.ResolveType(state.ctx, result)
		}
	case *schema.Union:
		if t.ResolveType != nil {
			typeName = t.ResolveType(state.ctx, result)
		}
	}
	if typeName == "" {
		for _, candidate := range state.schema.PossibleTypes(abstractType) {
			if candidate.IsTypeOf != nil && candidate.IsTypeOf(state.ctx, result) {
				typeName = candidate.Name
				break
			}
		}
	}
	if typeName == "" {
		state.errs.add(&GraphQLError{
			Message: fmt.Sprintf("abstract type %s could not classify value of type %T", schema.TypeName(abstractType), result),
			Path:    path,
		})
		return nil
	}

	objectType, ok := state.schema.Type(typeName).(*schema.Object)
	if !ok {
		state.errs.add(&GraphQLError{
			Message: fmt.Sprintf("abstract type %s resolved to %q, which is not an object type", schema.TypeName(abstractType), typeName),
			Path:    path,
		})
		return nil
	}
	if !state.schema.IsSubtypeOf(objectType, abstractType) {
		state.errs.add(&GraphQLError{
			Message: fmt.Sprintf("type %s is not a possible type of %s", typeName, schema.TypeName(abstractType)),
			Path:    path,
		})
		return nil
	}
	sub := executeSelectionSet(state, objectType, mergeSelectionSets(fields), result, path, false)
	if sub == nil {
		return nil
	}
	return sub
}

// defaultResolver reads the field by name from a map source or, via
// reflection, from an exported struct field with a matching name.
func defaultResolver(ctx context.Context, source any, args map[string]any, info *schema.ResolveInfo) (any, error) {
	if m, ok := source.(map[string]any); ok {
		return m[info.Field.Name], nil
	}
	rv := reflect.ValueOf(source)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, nil
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.IsExported() && strings.EqualFold(f.Name, info.Field.Name) {
			return rv.Field(i).Interface(), nil
		}
	}
	return nil, nil
}

func mergeSelectionSets(fields []*language.Field) language.SelectionSet {
	var merged language.SelectionSet
	for _, f := range fields {
		merged = append(merged, f.SelectionSet...)
	}
	return merged
}

func fieldError(field *language.Field, path []any, format string, args ...any) *GraphQLError {
	err := &GraphQLError{Message: fmt.Sprintf(format, args...), Path: path}
	if field.Position != nil {
		err.Locations = []Location{{Line: field.Position.Line, Column: field.Position.Column}}
	}
	return err
}

func appendPath(path []any, elem any) []any {
	next := make([]any, len(path)+1)
	copy(next, path)
	next[len(path)] = elem
	return next
}

func pathString(path []any) string {
	var b strings.Builder
	for i, elem := range path {
		switch v := elem.(type) {
		case string:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(v)
		case int:
			fmt.Fprintf(&b, "[%d]", v)
		}
	}
	return b.String()
}

// isNullish treats nil interfaces and typed nils alike.
func isNullish(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Interface, reflect.Ptr, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
