package gqlpartition

import "github.com/vektah/gqlparser/v2/ast"

// CloneSelectionSet deep-copies a selection set so that two derived
// operations never alias each other's mutable tree. Position information is
// carried over by reference (positions are not semantically significant,
// per the data model) rather than regenerated.
func CloneSelectionSet(set ast.SelectionSet) ast.SelectionSet {
	if set == nil {
		return nil
	}
	out := make(ast.SelectionSet, len(set))
	for i, sel := range set {
		out[i] = cloneSelection(sel)
	}
	return out
}

func cloneSelection(sel ast.Selection) ast.Selection {
	switch s := sel.(type) {
	case *ast.Field:
		return CloneField(s)
	case *ast.FragmentSpread:
		return CloneFragmentSpread(s)
	case *ast.InlineFragment:
		return CloneInlineFragment(s)
	default:
		return sel
	}
}

// CloneField deep-copies a field, including its nested selection set.
func CloneField(f *ast.Field) *ast.Field {
	if f == nil {
		return nil
	}
	clone := *f
	clone.Arguments = cloneArguments(f.Arguments)
	clone.Directives = cloneDirectives(f.Directives)
	clone.SelectionSet = CloneSelectionSet(f.SelectionSet)
	return &clone
}

// CloneFragmentSpread deep-copies a fragment spread.
func CloneFragmentSpread(s *ast.FragmentSpread) *ast.FragmentSpread {
	if s == nil {
		return nil
	}
	clone := *s
	clone.Directives = cloneDirectives(s.Directives)
	return &clone
}

// CloneInlineFragment deep-copies an inline fragment, including its nested
// selection set.
func CloneInlineFragment(f *ast.InlineFragment) *ast.InlineFragment {
	if f == nil {
		return nil
	}
	clone := *f
	clone.Directives = cloneDirectives(f.Directives)
	clone.SelectionSet = CloneSelectionSet(f.SelectionSet)
	return &clone
}

func cloneArguments(args ast.ArgumentList) ast.ArgumentList {
	if args == nil {
		return nil
	}
	out := make(ast.ArgumentList, len(args))
	for i, a := range args {
		clone := *a
		out[i] = &clone
	}
	return out
}

func cloneDirectives(dirs ast.DirectiveList) ast.DirectiveList {
	if dirs == nil {
		return nil
	}
	out := make(ast.DirectiveList, len(dirs))
	for i, d := range dirs {
		clone := *d
		clone.Arguments = cloneArguments(d.Arguments)
		out[i] = &clone
	}
	return out
}
