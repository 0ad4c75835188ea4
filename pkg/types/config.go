// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// InputFormat identifies a representation the tool can decode.
type InputFormat string

const (
	InputMarkdown InputFormat = "markdown"
	InputASTJSON  InputFormat = "ast-json"
	InputASTYAML  InputFormat = "ast-yaml"
)

// OutputFormat identifies a representation the tool can encode.
// HTML and LaTeX are output-only: the engine has no parser for them.
type OutputFormat string

const (
	OutputMarkdown OutputFormat = "markdown"
	OutputHTML     OutputFormat = "html"
	OutputLaTeX    OutputFormat = "latex"
	OutputASTJSON  OutputFormat = "ast-json"
	OutputASTYAML  OutputFormat = "ast-yaml"
)

// StructuredVariant selects the serialization used for the AST.
type StructuredVariant string

const (
	VariantJSON StructuredVariant = "json"
	VariantYAML StructuredVariant = "yaml"
)

// RenderConfig is the per-target configuration handed to an encoder. Each
// implementation belongs to exactly one output format, so a configuration
// value also selects the encoder.
type RenderConfig interface {
	OutputFormat() OutputFormat
	sealed()
}

// TextConfig holds settings for canonical markdown output.
type TextConfig struct {
	// Width is the wrap column for paragraph text; 0 disables wrapping.
	Width int `json:"width" yaml:"width"`

	// SpacesBeforeListItem is the indentation before a list marker (0-3).
	SpacesBeforeListItem int `json:"spaces_before_list_item" yaml:"spaces_before_list_item"`

	// EmptyLineBeforeList separates a paragraph from a following list.
	EmptyLineBeforeList bool `json:"empty_line_before_list" yaml:"empty_line_before_list"`
}

func (TextConfig) OutputFormat() OutputFormat { return OutputMarkdown }
func (TextConfig) sealed()                    {}

// HTMLConfig holds settings for HTML output.
type HTMLConfig struct {
	// Width is the wrap column for paragraph text; 0 disables wrapping.
	Width int `json:"width" yaml:"width"`

	// AnchorPrefix is prepended to generated anchor ids (footnotes).
	AnchorPrefix string `json:"anchor_prefix,omitempty" yaml:"anchor_prefix,omitempty"`
}

func (HTMLConfig) OutputFormat() OutputFormat { return OutputHTML }
func (HTMLConfig) sealed()                    {}

// TableStyle selects the LaTeX table environment.
type TableStyle string

const (
	TableTabular  TableStyle = "tabular"
	TableLongtabu TableStyle = "longtabu"
	TableBooktabs TableStyle = "booktabs"
)

// CodeBlockStyle selects the LaTeX environment for code blocks.
type CodeBlockStyle string

const (
	CodeVerbatim CodeBlockStyle = "verbatim"
	CodeListings CodeBlockStyle = "listings"
	CodeMinted   CodeBlockStyle = "minted"
)

// LatexConfig holds settings for LaTeX output.
type LatexConfig struct {
	// Width is the wrap column for paragraph text; 0 disables wrapping.
	Width int `json:"width" yaml:"width"`

	TableStyle TableStyle     `json:"table_style" yaml:"table_style"`
	CodeStyle  CodeBlockStyle `json:"code_style" yaml:"code_style"`
}

func (LatexConfig) OutputFormat() OutputFormat { return OutputLaTeX }
func (LatexConfig) sealed()                    {}

// StructuredConfig selects AST serialization output. It carries no options:
// the encoding is canonical and lossless.
type StructuredConfig struct {
	Variant StructuredVariant `json:"variant" yaml:"variant"`
}

func (c StructuredConfig) OutputFormat() OutputFormat {
	if c.Variant == VariantYAML {
		return OutputASTYAML
	}
	return OutputASTJSON
}
func (StructuredConfig) sealed() {}
