// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mderrors "github.com/pdiddy/markdown-tool/internal/errors"
	"github.com/pdiddy/markdown-tool/pkg/types"
)

func TestComposeText_Defaults(t *testing.T) {
	cfg, err := ComposeText(TextOptions{})
	require.NoError(t, err)
	assert.Equal(t, types.TextConfig{Width: 80, SpacesBeforeListItem: 1, EmptyLineBeforeList: true}, cfg)
}

func TestComposeText_ExplicitZeroValuesKept(t *testing.T) {
	cfg, err := ComposeText(TextOptions{
		Width:                Int(0),
		SpacesBeforeListItem: Int(0),
		EmptyLineBeforeList:  Bool(false),
	})
	require.NoError(t, err)
	assert.Equal(t, types.TextConfig{}, cfg)
}

func TestComposeText_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		opts   TextOptions
		option string
		value  string
	}{
		{"negative width", TextOptions{Width: Int(-1)}, "width", "-1"},
		{"indent too deep", TextOptions{SpacesBeforeListItem: Int(4)}, "spaces-before-list-item", "4"},
		{"negative indent", TextOptions{SpacesBeforeListItem: Int(-2)}, "spaces-before-list-item", "-2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComposeText(tt.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, mderrors.ErrInvalidOption)

			var ioe *mderrors.InvalidOptionError
			require.True(t, errors.As(err, &ioe))
			assert.Equal(t, tt.option, ioe.Option)
			assert.Equal(t, tt.value, ioe.Value)
			assert.NotEmpty(t, ioe.Accepted)
		})
	}
}

func TestComposeHTML(t *testing.T) {
	cfg, err := ComposeHTML(HTMLOptions{})
	require.NoError(t, err)
	assert.Equal(t, types.HTMLConfig{Width: 80}, cfg)

	cfg, err = ComposeHTML(HTMLOptions{Width: Int(40), AnchorPrefix: String("doc-")})
	require.NoError(t, err)
	assert.Equal(t, types.HTMLConfig{Width: 40, AnchorPrefix: "doc-"}, cfg)

	_, err = ComposeHTML(HTMLOptions{Width: Int(-5)})
	assert.ErrorIs(t, err, mderrors.ErrInvalidOption)
}

func TestComposeLatex(t *testing.T) {
	cfg, err := ComposeLatex(LatexOptions{})
	require.NoError(t, err)
	assert.Equal(t, types.LatexConfig{Width: 80, TableStyle: types.TableTabular, CodeStyle: types.CodeVerbatim}, cfg)

	cfg, err = ComposeLatex(LatexOptions{TableStyle: String("BookTabs"), CodeStyle: String("minted")})
	require.NoError(t, err)
	assert.Equal(t, types.TableBooktabs, cfg.TableStyle)
	assert.Equal(t, types.CodeMinted, cfg.CodeStyle)
}

func TestComposeLatex_InvalidTableStyle(t *testing.T) {
	_, err := ComposeLatex(LatexOptions{TableStyle: String("fancy")})
	require.Error(t, err)

	var ioe *mderrors.InvalidOptionError
	require.True(t, errors.As(err, &ioe))
	assert.Equal(t, "table-style", ioe.Option)
	assert.Equal(t, "fancy", ioe.Value)
	assert.Equal(t, []string{"tabular", "longtabu", "booktabs"}, ioe.Accepted)
	assert.Contains(t, err.Error(), "tabular, longtabu, booktabs")
}

func TestComposeLatex_InvalidCodeStyle(t *testing.T) {
	_, err := ComposeLatex(LatexOptions{CodeStyle: String("pygments")})
	var ioe *mderrors.InvalidOptionError
	require.True(t, errors.As(err, &ioe))
	assert.Equal(t, "code-style", ioe.Option)
	assert.Equal(t, []string{"verbatim", "listings", "minted"}, ioe.Accepted)
}

func TestComposeStructured(t *testing.T) {
	cfg, err := ComposeStructured(types.OutputASTJSON)
	require.NoError(t, err)
	assert.Equal(t, types.OutputASTJSON, cfg.OutputFormat())

	cfg, err = ComposeStructured(types.OutputASTYAML)
	require.NoError(t, err)
	assert.Equal(t, types.OutputASTYAML, cfg.OutputFormat())

	_, err = ComposeStructured(types.OutputHTML)
	assert.ErrorIs(t, err, mderrors.ErrInternal)
}
