package cacherhttp

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/samsarahq/graphql-cacher/instructions"
)

// resolved carries the outcome of resolving a POST body's processing
// instruction, plus the parsed document when resolution required parsing
// (so the caller doesn't parse the query string twice).
type resolved struct {
	instruction instructions.Instruction
	operation   *ast.OperationDefinition
	fragments   ast.FragmentDefinitionList
	name        string
}

// resolveInstruction implements the §4.8 resolution table for a POST body.
func resolveInstruction(body requestBody) resolved {
	if body.Query == nil {
		return resolved{instruction: instructions.Instruction{How: instructions.DoNotProcess}}
	}
	if body.isPersistedQuery() {
		return resolved{instruction: instructions.Instruction{How: instructions.DoNotProcess}}
	}

	if body.OperationName != nil && *body.OperationName != "" {
		return resolved{
			instruction: instructions.Lookup(*body.OperationName),
			name:        *body.OperationName,
		}
	}

	doc, err := parser.ParseQuery(&ast.Source{Input: *body.Query})
	if err != nil || len(doc.Operations) != 1 {
		return resolved{instruction: instructions.Instruction{How: instructions.DoNotProcess}}
	}

	op := doc.Operations[0]
	if op.Operation != "" && op.Operation != ast.Query {
		return resolved{instruction: instructions.Instruction{How: instructions.DoNotProcess}}
	}

	return resolved{
		instruction: instructions.Lookup(op.Name),
		operation:   op,
		fragments:   doc.Fragments,
		name:        op.Name,
	}
}
