package gqlpartition

import (
	"fmt"
	"regexp"
	"strings"
)

// Path is a validated, non-empty sequence of GraphQL Name tokens, produced
// by ParsePath. Its serialized dotted form (e.g. "myQuery.alpha.two") is
// the external surface used in instructions.Table; internally components
// always work with the token sequence.
type Path []string

// String renders the path back to its dotted form.
func (p Path) String() string {
	return strings.Join(p, ".")
}

var nameToken = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)

// InvalidPathError reports that a dotted path string could not be parsed,
// naming the first element that failed the GraphQL Name production.
type InvalidPathError struct {
	Input   string
	Element string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("gqlpartition: invalid path %q: element %q is not a valid GraphQL name", e.Input, e.Element)
}

// ParsePath splits a dotted path string into its component tokens,
// validating each against the GraphQL Name production
// (^[_A-Za-z][_0-9A-Za-z]*$). An empty string, a string with no elements
// passing validation, or any individual element failing validation returns
// an *InvalidPathError naming the offending element. A leading or trailing
// "." produces an empty element, which fails validation the same way.
func ParsePath(input string) (Path, error) {
	if input == "" {
		return nil, &InvalidPathError{Input: input, Element: ""}
	}

	elements := strings.Split(input, ".")
	path := make(Path, 0, len(elements))
	for _, el := range elements {
		if !nameToken.MatchString(el) {
			return nil, &InvalidPathError{Input: input, Element: el}
		}
		path = append(path, el)
	}
	return path, nil
}
