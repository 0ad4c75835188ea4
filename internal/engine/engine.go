// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine is the document engine: it parses markdown into the
// canonical AST, serializes the AST to JSON or YAML and back, and renders
// it as markdown, HTML or LaTeX under a per-target configuration.
package engine

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/pdiddy/markdown-tool/pkg/types"
)

// Engine is the boundary the conversion and formatting pipelines depend on.
// Decoders return an error for malformed input; encoders are total over
// well-formed documents except for the structured encoder, which fails
// only when the document breaks its own invariants.
type Engine interface {
	DecodeText(text string) (*types.Document, error)
	DecodeStructured(data []byte, variant types.StructuredVariant) (*types.Document, error)
	EncodeStructured(doc *types.Document, variant types.StructuredVariant) ([]byte, error)
	EncodeText(doc *types.Document, cfg types.TextConfig) string
	EncodeHTML(doc *types.Document, cfg types.HTMLConfig) string
	EncodeLatex(doc *types.Document, cfg types.LatexConfig) string
}

// Goldmark implements Engine on top of the goldmark CommonMark parser with
// the GFM and footnote extensions enabled.
type Goldmark struct {
	md goldmark.Markdown
}

var _ Engine = (*Goldmark)(nil)

// New returns a ready-to-use engine. It holds no per-document state and
// may be reused across calls.
func New() *Goldmark {
	return &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Footnote),
		),
	}
}
