// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format maps command-line tokens to the closed sets of input and
// output encodings.
package format

import (
	"strings"

	mderrors "github.com/pdiddy/markdown-tool/internal/errors"
	"github.com/pdiddy/markdown-tool/pkg/types"
)

var inputs = []types.InputFormat{
	types.InputMarkdown,
	types.InputASTJSON,
	types.InputASTYAML,
}

var outputs = []types.OutputFormat{
	types.OutputMarkdown,
	types.OutputHTML,
	types.OutputLaTeX,
	types.OutputASTJSON,
	types.OutputASTYAML,
}

// Inputs returns the supported input formats in canonical order.
func Inputs() []types.InputFormat {
	return append([]types.InputFormat(nil), inputs...)
}

// Outputs returns the supported output formats in canonical order.
func Outputs() []types.OutputFormat {
	return append([]types.OutputFormat(nil), outputs...)
}

// InputTokens returns the accepted input tokens.
func InputTokens() []string {
	tokens := make([]string, len(inputs))
	for i, f := range inputs {
		tokens[i] = string(f)
	}
	return tokens
}

// OutputTokens returns the accepted output tokens.
func OutputTokens() []string {
	tokens := make([]string, len(outputs))
	for i, f := range outputs {
		tokens[i] = string(f)
	}
	return tokens
}

// ParseInput resolves a case-insensitive token to an input format.
func ParseInput(token string) (types.InputFormat, error) {
	key := normalize(token)
	for _, f := range inputs {
		if string(f) == key {
			return f, nil
		}
	}
	return "", &mderrors.UnsupportedFormatError{
		Direction: "input",
		Token:     token,
		Accepted:  InputTokens(),
	}
}

// ParseOutput resolves a case-insensitive token to an output format.
func ParseOutput(token string) (types.OutputFormat, error) {
	key := normalize(token)
	for _, f := range outputs {
		if string(f) == key {
			return f, nil
		}
	}
	return "", &mderrors.UnsupportedFormatError{
		Direction: "output",
		Token:     token,
		Accepted:  OutputTokens(),
	}
}

// StructuredVariant reports the AST serialization behind an input format,
// and false for markdown.
func StructuredVariant(f types.InputFormat) (types.StructuredVariant, bool) {
	switch f {
	case types.InputASTJSON:
		return types.VariantJSON, true
	case types.InputASTYAML:
		return types.VariantYAML, true
	}
	return "", false
}

func normalize(token string) string {
	return strings.ToLower(strings.TrimSpace(token))
}
