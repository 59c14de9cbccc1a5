package gqlpartition

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
)

// Equivalent decides whether two operations would produce the same result
// set against any backend: same name, same directives, same variable
// definitions, and structurally equal (order-insensitive) selection sets.
// It returns true with an empty reason on success, or false with a
// diagnostic string identifying the first mismatch found — never a panic,
// and never an error return, since "not equivalent" is an expected,
// everyday result rather than a failure of the comparison itself.
//
// An inline fragment in a selection set the comparison reaches makes it
// inconclusive rather than silently wrong; callers should treat a non-nil
// error as "equivalence undecidable", distinct from both true and false. A
// mismatch found before any inline fragment is reached (such as differing
// item counts) still returns false with a nil error.
func Equivalent(want, got *ast.OperationDefinition) (bool, string, error) {
	if want.Name != got.Name {
		return false, fmt.Sprintf("operation name mismatch: %q vs %q", want.Name, got.Name), nil
	}

	if ok, reason := directivesEquivalent(want.Directives, got.Directives); !ok {
		return false, reason, nil
	}

	if ok, reason := variableDefinitionsEquivalent(want.VariableDefinitions, got.VariableDefinitions); !ok {
		return false, reason, nil
	}

	return selectionSetsEquivalent(want.SelectionSet, got.SelectionSet)
}

func variableDefinitionsEquivalent(want, got ast.VariableDefinitionList) (bool, string) {
	if len(want) != len(got) {
		return false, fmt.Sprintf("variable definition count mismatch: %d vs %d", len(want), len(got))
	}
	for _, w := range want {
		g := got.ForName(w.Variable)
		if g == nil {
			return false, fmt.Sprintf("variable $%s missing", w.Variable)
		}
		if typeString(w.Type) != typeString(g.Type) {
			return false, fmt.Sprintf("variable $%s type mismatch: %s vs %s", w.Variable, typeString(w.Type), typeString(g.Type))
		}
		if !valuesEqual(w.DefaultValue, g.DefaultValue) {
			return false, fmt.Sprintf("variable $%s default value mismatch", w.Variable)
		}
	}
	return true, ""
}

func typeString(t *ast.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}

func directivesEquivalent(want, got ast.DirectiveList) (bool, string) {
	if len(want) != len(got) {
		return false, fmt.Sprintf("directive count mismatch: %d vs %d", len(want), len(got))
	}
	for _, w := range want {
		found := false
		for _, g := range got {
			if g.Name != w.Name {
				continue
			}
			if ok, _ := argumentsEquivalent(w.Arguments, g.Arguments); ok {
				found = true
				break
			}
		}
		if !found {
			return false, fmt.Sprintf("directive @%s missing or argument mismatch", w.Name)
		}
	}
	return true, ""
}

func argumentsEquivalent(want, got ast.ArgumentList) (bool, string) {
	if len(want) != len(got) {
		return false, fmt.Sprintf("argument count mismatch: %d vs %d", len(want), len(got))
	}
	for _, w := range want {
		g := got.ForName(w.Name)
		if g == nil {
			return false, fmt.Sprintf("argument %s missing", w.Name)
		}
		if !valuesEqual(w.Value, g.Value) {
			return false, fmt.Sprintf("argument %s value mismatch", w.Name)
		}
	}
	return true, ""
}

func valuesEqual(a, b *ast.Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ast.Variable:
		return a.Raw == b.Raw
	case ast.ListValue:
		if len(a.Children) != len(b.Children) {
			return false
		}
		for i := range a.Children {
			if !valuesEqual(a.Children[i].Value, b.Children[i].Value) {
				return false
			}
		}
		return true
	case ast.ObjectValue:
		if len(a.Children) != len(b.Children) {
			return false
		}
		for _, ac := range a.Children {
			var match *ast.ChildValue
			for i := range b.Children {
				if b.Children[i].Name == ac.Name {
					match = &b.Children[i]
					break
				}
			}
			if match == nil || !valuesEqual(ac.Value, match.Value) {
				return false
			}
		}
		return true
	default:
		return a.Raw == b.Raw
	}
}

func selectionSetsEquivalent(want, got ast.SelectionSet) (bool, string, error) {
	if len(want) != len(got) {
		return false, fmt.Sprintf("selection set item count mismatch: %d vs %d", len(want), len(got)), nil
	}

	wantInline, gotInline := InlineFragments(want), InlineFragments(got)
	if len(wantInline) > 0 || len(gotInline) > 0 {
		return false, "", unsupportedf("inline fragments are not supported in equivalence comparison")
	}

	wantSpreads, gotSpreads := FragmentSpreads(want), FragmentSpreads(got)
	if len(wantSpreads) != len(gotSpreads) {
		return false, fmt.Sprintf("fragment spread count mismatch: %d vs %d", len(wantSpreads), len(gotSpreads)), nil
	}
	for _, w := range wantSpreads {
		found := false
		for _, g := range gotSpreads {
			if g.Name == w.Name {
				found = true
				break
			}
		}
		if !found {
			return false, fmt.Sprintf("fragment spread ...%s missing", w.Name), nil
		}
	}

	wantFields, gotFields := Fields(want), Fields(got)
	if len(wantFields) != len(gotFields) {
		return false, fmt.Sprintf("field count mismatch: %d vs %d", len(wantFields), len(gotFields)), nil
	}
	for _, w := range wantFields {
		var match *ast.Field
		for _, g := range gotFields {
			if FieldIdentity(g) == FieldIdentity(w) {
				match = g
				break
			}
		}
		if match == nil {
			return false, fmt.Sprintf("field %s missing", FieldIdentity(w)), nil
		}
		ok, reason, err := fieldsEquivalent(w, match)
		if err != nil {
			return false, "", err
		}
		if !ok {
			return false, reason, nil
		}
	}

	return true, "", nil
}

func fieldsEquivalent(want, got *ast.Field) (bool, string, error) {
	if want.Name != got.Name {
		return false, fmt.Sprintf("field name mismatch under identity %s: %q vs %q", FieldIdentity(want), want.Name, got.Name), nil
	}
	if want.Alias != got.Alias {
		return false, fmt.Sprintf("field alias mismatch: %q vs %q", want.Alias, got.Alias), nil
	}
	if ok, reason := directivesEquivalent(want.Directives, got.Directives); !ok {
		return false, fmt.Sprintf("field %s: %s", FieldIdentity(want), reason), nil
	}
	if ok, reason := argumentsEquivalent(want.Arguments, got.Arguments); !ok {
		return false, fmt.Sprintf("field %s: %s", FieldIdentity(want), reason), nil
	}
	ok, reason, err := selectionSetsEquivalent(want.SelectionSet, got.SelectionSet)
	if err != nil {
		return false, "", err
	}
	if !ok {
		return false, fmt.Sprintf("field %s: %s", FieldIdentity(want), reason), nil
	}
	return true, "", nil
}
