// Package language exposes the query-document AST consumed by the executor.
//
// The engine does not lex or parse on its own; callers hand it a
// *QueryDocument produced by gqlparser (or any equivalent pipeline) after
// static validation. The aliases here keep the rest of the module decoupled
// from the parser import path.
package language

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// ParseQuery parses a query document from source. It is a convenience for
// tests and embedding code; validation is still the caller's concern.
func ParseQuery(source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}
