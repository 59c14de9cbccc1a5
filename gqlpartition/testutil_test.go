package gqlpartition

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/parser"
)

func mustParse(t *testing.T, src string) *ast.QueryDocument {
	t.Helper()
	doc, err := parser.ParseQuery(&ast.Source{Input: src})
	require.Nil(t, err)
	return doc
}

func mustParseOperation(t *testing.T, src string) *ast.OperationDefinition {
	t.Helper()
	doc := mustParse(t, src)
	require.Len(t, doc.Operations, 1)
	return doc.Operations[0]
}

// render formats op (plus any fragments it depends on) back into a
// document string, normalized for whitespace-insensitive comparison in
// tests.
func render(t *testing.T, op *ast.OperationDefinition, fragments ast.FragmentDefinitionList) string {
	t.Helper()
	var buf strings.Builder
	f := formatter.NewFormatter(&buf)
	f.FormatQueryDocument(&ast.QueryDocument{
		Operations: ast.OperationList{op},
		Fragments:  fragments,
	})
	return normalizeWhitespace(buf.String())
}

func normalizeWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
