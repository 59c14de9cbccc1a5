// Package gqlpartition splits a parsed GraphQL operation along a dotted
// field path into two operations whose selection sets are disjoint and
// together cover the original, and decides structural equivalence between
// two operations independent of selection-set or argument order.
//
// It operates directly on github.com/vektah/gqlparser/v2's ast types. That
// library's parser.ParseQuery performs no schema validation, which is
// exactly the property this package needs: it never needs a schema to
// reason about selection structure.
package gqlpartition

import "github.com/vektah/gqlparser/v2/ast"

// Fields returns the selection set's field selections, in original
// insertion order. It re-reads set on every call rather than caching a
// projection, so there is nothing to keep in sync if set is mutated
// between calls.
func Fields(set ast.SelectionSet) []*ast.Field {
	var out []*ast.Field
	for _, sel := range set {
		if f, ok := sel.(*ast.Field); ok {
			out = append(out, f)
		}
	}
	return out
}

// FragmentSpreads returns the selection set's named-fragment spreads, in
// original insertion order.
func FragmentSpreads(set ast.SelectionSet) []*ast.FragmentSpread {
	var out []*ast.FragmentSpread
	for _, sel := range set {
		if s, ok := sel.(*ast.FragmentSpread); ok {
			out = append(out, s)
		}
	}
	return out
}

// InlineFragments returns the selection set's inline fragments, in
// original insertion order.
func InlineFragments(set ast.SelectionSet) []*ast.InlineFragment {
	var out []*ast.InlineFragment
	for _, sel := range set {
		if f, ok := sel.(*ast.InlineFragment); ok {
			out = append(out, f)
		}
	}
	return out
}

// FieldIdentity returns the identity a field is matched by during
// partitioning and equivalence: its alias if it has one, otherwise its
// name. gqlparser's parser already sets Field.Alias to Field.Name when no
// alias was written in the source, so reading Alias alone is sufficient.
func FieldIdentity(f *ast.Field) string {
	return f.Alias
}
