// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mderrors "github.com/pdiddy/markdown-tool/internal/errors"
	"github.com/pdiddy/markdown-tool/pkg/types"
)

func TestParseInput(t *testing.T) {
	tests := []struct {
		token string
		want  types.InputFormat
	}{
		{"markdown", types.InputMarkdown},
		{"Markdown", types.InputMarkdown},
		{"AST-JSON", types.InputASTJSON},
		{" ast-yaml ", types.InputASTYAML},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := ParseInput(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInput_Unsupported(t *testing.T) {
	for _, token := range []string{"xml", "html", "latex", ""} {
		t.Run(token, func(t *testing.T) {
			_, err := ParseInput(token)
			require.Error(t, err)
			assert.ErrorIs(t, err, mderrors.ErrUnsupportedFormat)

			var ufe *mderrors.UnsupportedFormatError
			require.True(t, errors.As(err, &ufe))
			assert.Equal(t, token, ufe.Token)
			assert.Equal(t, "input", ufe.Direction)
			assert.Equal(t, []string{"markdown", "ast-json", "ast-yaml"}, ufe.Accepted)
		})
	}
}

func TestParseOutput(t *testing.T) {
	for _, f := range Outputs() {
		got, err := ParseOutput(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	got, err := ParseOutput("LaTeX")
	require.NoError(t, err)
	assert.Equal(t, types.OutputLaTeX, got)

	_, err = ParseOutput("pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"pdf"`)
	assert.Contains(t, err.Error(), "markdown, html, latex, ast-json, ast-yaml")
}

func TestStructuredVariant(t *testing.T) {
	v, ok := StructuredVariant(types.InputASTJSON)
	assert.True(t, ok)
	assert.Equal(t, types.VariantJSON, v)

	v, ok = StructuredVariant(types.InputASTYAML)
	assert.True(t, ok)
	assert.Equal(t, types.VariantYAML, v)

	_, ok = StructuredVariant(types.InputMarkdown)
	assert.False(t, ok)
}

func TestListsAreCopies(t *testing.T) {
	in := Inputs()
	in[0] = "mutated"
	assert.Equal(t, types.InputMarkdown, Inputs()[0])
}
