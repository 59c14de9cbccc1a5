package gqlpartition

import "github.com/vektah/gqlparser/v2/ast"

// Partition splits op along path into a (left, right) pair: left contains
// exactly the root-to-leaf chain targeted by path, right contains
// everything else. ok is false when path does not resolve against op's
// selection set (a "valid path, no match" result — never an error). right
// is nil, with ok true, when path names the operation's entire selection
// set and nothing is left over: the caller should treat that as "no second
// subrequest needed", distinct from "path not found".
//
// Name, variable definitions, and top-level directives are duplicated
// verbatim onto both halves. fragments is accepted but not consumed here:
// fragment definitions are never split, only carried along read-only by
// the caller (see package gqlrequest), so Partition's only job with
// respect to them is to leave the caller free to attach the same
// FragmentDefinitionList to both halves.
func Partition(op *ast.OperationDefinition, fragments ast.FragmentDefinitionList, path Path) (left, right *ast.OperationDefinition, ok bool, err error) {
	if len(path) == 0 {
		return nil, nil, false, &InvalidPathError{Input: "", Element: ""}
	}
	if op.Operation != "" && op.Operation != ast.Query {
		return nil, nil, false, unsupportedf("cannot partition a %s operation", op.Operation)
	}

	leftSet, rightSet, ok, err := partitionSet(op.SelectionSet, path)
	if err != nil {
		return nil, nil, false, err
	}
	if !ok {
		return nil, nil, false, nil
	}

	leftOp := cloneShell(op)
	leftOp.SelectionSet = leftSet

	if len(rightSet) == 0 {
		return leftOp, nil, true, nil
	}

	rightOp := cloneShell(op)
	rightOp.SelectionSet = rightSet

	return leftOp, rightOp, true, nil
}

// partitionSet descends set along segments. It returns the targeted chain
// (left), the remainder of set with that chain removed (right), and
// whether the path resolved at all.
func partitionSet(set ast.SelectionSet, segments []string) (left, right ast.SelectionSet, ok bool, err error) {
	if len(segments) == 0 {
		return nil, nil, false, nil
	}
	if len(InlineFragments(set)) > 0 {
		return nil, nil, false, unsupportedf("cannot partition through an inline fragment")
	}

	head, tail := segments[0], segments[1:]

	var target *ast.Field
	for _, f := range Fields(set) {
		if FieldIdentity(f) == head {
			target = f
			break
		}
	}
	if target == nil {
		return nil, nil, false, nil
	}

	remainder := removeField(set, target)

	if len(tail) == 0 {
		return ast.SelectionSet{CloneField(target)}, remainder, true, nil
	}

	innerLeft, innerRight, ok, err := partitionSet(target.SelectionSet, tail)
	if err != nil {
		return nil, nil, false, err
	}
	if !ok {
		return nil, nil, false, nil
	}

	fLeft := CloneField(target)
	fLeft.SelectionSet = innerLeft

	if len(innerRight) > 0 {
		fRight := CloneField(target)
		fRight.SelectionSet = innerRight
		remainder = append(remainder, fRight)
	}

	return ast.SelectionSet{fLeft}, remainder, true, nil
}

// removeField returns a clone of set with the selection matching remove
// (by pointer identity) omitted. Every other selection is cloned so that
// left and right never alias each other's tree.
func removeField(set ast.SelectionSet, remove *ast.Field) ast.SelectionSet {
	out := make(ast.SelectionSet, 0, len(set))
	for _, sel := range set {
		if f, isField := sel.(*ast.Field); isField && f == remove {
			continue
		}
		out = append(out, cloneSelection(sel))
	}
	return out
}

func cloneShell(op *ast.OperationDefinition) *ast.OperationDefinition {
	clone := *op
	clone.VariableDefinitions = cloneVariableDefinitions(op.VariableDefinitions)
	clone.Directives = cloneDirectives(op.Directives)
	clone.SelectionSet = nil
	return &clone
}

func cloneVariableDefinitions(defs ast.VariableDefinitionList) ast.VariableDefinitionList {
	if defs == nil {
		return nil
	}
	out := make(ast.VariableDefinitionList, len(defs))
	for i, d := range defs {
		clone := *d
		out[i] = &clone
	}
	return out
}
