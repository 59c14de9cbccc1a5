package gqlpartition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	cases := []struct {
		Case    string
		Input   string
		Want    Path
		WantErr bool
	}{
		{Case: "single element", Input: "myQuery", Want: Path{"myQuery"}},
		{Case: "multi element", Input: "myQuery.alpha.two", Want: Path{"myQuery", "alpha", "two"}},
		{Case: "underscore leading", Input: "_private.field", Want: Path{"_private", "field"}},
		{Case: "empty string", Input: "", WantErr: true},
		{Case: "leading dot", Input: ".myQuery", WantErr: true},
		{Case: "trailing dot", Input: "myQuery.", WantErr: true},
		{Case: "invalid leading digit", Input: "1field", WantErr: true},
		{Case: "invalid character", Input: "my-query", WantErr: true},
	}

	for _, c := range cases {
		t.Run(c.Case, func(t *testing.T) {
			got, err := ParsePath(c.Input)
			if c.WantErr {
				require.Error(t, err)
				var invalid *InvalidPathError
				assert.ErrorAs(t, err, &invalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.Want, got)
		})
	}
}

func TestInvalidPathErrorNamesOffendingElement(t *testing.T) {
	_, err := ParsePath("myQuery..two")
	require.Error(t, err)

	var invalid *InvalidPathError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "", invalid.Element)
}

func TestPathString(t *testing.T) {
	p := Path{"myQuery", "alpha", "two"}
	assert.Equal(t, "myQuery.alpha.two", p.String())
}
