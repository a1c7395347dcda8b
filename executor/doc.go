// Package executor evaluates GraphQL operations against a schema built with
// the schema package, resolving fields concurrently while keeping the
// response shape, field order, and error order deterministic.
//
// # Preparation
//
// Before any field resolves, the executor:
//  1. Selects the operation from the document, by name when one is given.
//     Both an unmatched name and a missing name on a multi-operation document
//     fall back to the first operation.
//  2. Coerces the supplied variables against the operation's variable
//     definitions. Every violation is reported together, and any violation
//     stops the request before resolution begins, with the data entry absent
//     from the response.
//  3. Picks the root object type for the operation kind and fails the request
//     when the schema declares no such root.
//
// # Execution Model
//
// Each object node of the result tree is produced by one selection-set pass:
//
//	A. Collection. Fragments and @skip/@include directives are expanded into
//	   groups of AST fields per response key, preserving the order in which
//	   keys first appear in the document. Fragment type conditions are
//	   matched against the concrete object type through the schema's subtype
//	   relation, so interface and union conditions apply to implementors and
//	   members.
//
//	B. Resolution. Resolvers are invoked in selection order. A resolver may
//	   return its value directly or return a schema.Thunk to suspend; all
//	   suspended siblings of the selection set then run together, bounded by
//	   Options.MaxConcurrency. Resolver panics become field errors.
//
//	C. Completion. Outcomes are joined back in selection order and completed
//	   against their declared types, so results and errors land
//	   deterministically regardless of which thunk finished first.
//
// Mutation root fields bypass phase B's overlap entirely: each root field
// resolves and completes before the next begins, so a later mutation observes
// the side effects of an earlier one.
//
// # Value Completion
//
//   - Non-Null: a null resolved value records an error at the field's path
//     and propagates null to the nearest nullable ancestor. Nulls that arrive
//     from deeper completions already carry their own error and propagate
//     silently.
//   - List: elements complete at index-aware paths. When the element type is
//     non-null, one failed element nulls the entire list.
//   - Leaf: scalars serialize through their CoerceOutput function; enums
//     serialize internal values back to their names.
//   - Abstract: interface and union values classify through the abstract
//     type's ResolveType or, failing that, the possible types' IsTypeOf
//     predicates, then complete as the concrete object.
//
// # Errors and Partial Success
//
// Field errors null their field and never abort siblings. Errors accumulate
// with message, path, and source location, in detection order; with
// MaxConcurrency set to 1 the schedule, and therefore the error order, is
// fully deterministic. Options.CancelOnFatal additionally cancels the context
// seen by in-flight siblings once a non-null field failure has doomed the
// enclosing result; cancellation is advisory and resolvers remain free to
// ignore it.
package executor
