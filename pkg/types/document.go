// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
)

// Document is the canonical abstract syntax tree shared by every decoder
// and encoder. Once decoded it is treated as immutable.
type Document struct {
	// FrontMatter is the metadata block that preceded the markdown body,
	// kept verbatim. Nil when the source had none.
	FrontMatter *FrontMatter `json:"front_matter,omitempty" yaml:"front_matter,omitempty"`

	// Blocks is the top-level block sequence. Never nil for decoded documents.
	Blocks []Block `json:"blocks" yaml:"blocks"`
}

// FrontMatter is a delimited metadata block (YAML "---" or TOML "+++").
type FrontMatter struct {
	// Raw is the block including its opening and closing delimiter lines,
	// without a trailing newline.
	Raw string `json:"raw" yaml:"raw"`
}

// BlockKind discriminates Block values.
type BlockKind string

const (
	BlockParagraph          BlockKind = "paragraph"
	BlockHeading            BlockKind = "heading"
	BlockQuote              BlockKind = "blockquote"
	BlockList               BlockKind = "list"
	BlockCode               BlockKind = "code_block"
	BlockHTML               BlockKind = "html_block"
	BlockThematicBreak      BlockKind = "thematic_break"
	BlockTable              BlockKind = "table"
	BlockFootnoteDefinition BlockKind = "footnote_definition"
)

// Block is one node of the block structure. Only the fields relevant to
// Kind are set:
//
//	paragraph            Content
//	heading              Level, Content
//	blockquote           Blocks
//	list                 List
//	code_block           Info, Literal
//	html_block           Literal
//	thematic_break       -
//	table                Table
//	footnote_definition  Label, Blocks
type Block struct {
	Kind    BlockKind `json:"kind" yaml:"kind"`
	Level   int       `json:"level,omitempty" yaml:"level,omitempty"`
	Content []Inline  `json:"content,omitempty" yaml:"content,omitempty"`
	Blocks  []Block   `json:"blocks,omitempty" yaml:"blocks,omitempty"`
	List    *List     `json:"list,omitempty" yaml:"list,omitempty"`
	Info    string    `json:"info,omitempty" yaml:"info,omitempty"`
	Literal string    `json:"literal,omitempty" yaml:"literal,omitempty"`
	Table   *Table    `json:"table,omitempty" yaml:"table,omitempty"`
	Label   string    `json:"label,omitempty" yaml:"label,omitempty"`
}

// MaxListStart is the largest ordered list start number markdown can
// express (nine digits).
const MaxListStart = 999999999

// List is an ordered or bullet list.
type List struct {
	Ordered bool       `json:"ordered,omitempty" yaml:"ordered,omitempty"`
	Start   int        `json:"start,omitempty" yaml:"start,omitempty"`
	Tight   bool       `json:"tight,omitempty" yaml:"tight,omitempty"`
	Items   []ListItem `json:"items" yaml:"items"`
}

// ListItem is one entry of a List. Task is non-nil for task list items and
// reports whether the box is checked.
type ListItem struct {
	Task   *bool   `json:"task,omitempty" yaml:"task,omitempty"`
	Blocks []Block `json:"blocks,omitempty" yaml:"blocks,omitempty"`
}

// Alignment is the horizontal alignment of a table column.
type Alignment string

const (
	AlignNone   Alignment = ""
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// Table is a GFM pipe table. Every row has len(Align) cells.
type Table struct {
	Align  []Alignment `json:"align" yaml:"align"`
	Header []TableCell `json:"header" yaml:"header"`
	Rows   []TableRow  `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// TableRow is one body row of a Table.
type TableRow struct {
	Cells []TableCell `json:"cells" yaml:"cells"`
}

// TableCell holds the inline content of one cell.
type TableCell struct {
	Content []Inline `json:"content,omitempty" yaml:"content,omitempty"`
}

// InlineKind discriminates Inline values.
type InlineKind string

const (
	InlineText          InlineKind = "text"
	InlineEmphasis      InlineKind = "emphasis"
	InlineStrong        InlineKind = "strong"
	InlineStrikethrough InlineKind = "strikethrough"
	InlineCode          InlineKind = "code"
	InlineLink          InlineKind = "link"
	InlineImage         InlineKind = "image"
	InlineAutolink      InlineKind = "autolink"
	InlineHTML          InlineKind = "html"
	InlineSoftBreak     InlineKind = "soft_break"
	InlineHardBreak     InlineKind = "hard_break"
	InlineFootnoteRef   InlineKind = "footnote_reference"
)

// Inline is one node of inline content. Only the fields relevant to Kind
// are set:
//
//	text, code, html             Text
//	emphasis, strong, strikethrough  Children
//	link, image                  Children, URL, Title
//	autolink                     URL
//	footnote_reference           Label
//	soft_break, hard_break       -
type Inline struct {
	Kind     InlineKind `json:"kind" yaml:"kind"`
	Text     string     `json:"text,omitempty" yaml:"text,omitempty"`
	Children []Inline   `json:"children,omitempty" yaml:"children,omitempty"`
	URL      string     `json:"url,omitempty" yaml:"url,omitempty"`
	Title    string     `json:"title,omitempty" yaml:"title,omitempty"`
	Label    string     `json:"label,omitempty" yaml:"label,omitempty"`
}

// Validate checks the structural invariants encoders rely on: known kinds,
// heading levels in 1..6, list and table payloads present, rectangular
// tables. Decoders of structured input call it before returning.
func (d *Document) Validate() error {
	if d == nil {
		return fmt.Errorf("document is nil")
	}
	return validateBlocks(d.Blocks, "blocks")
}

func validateBlocks(blocks []Block, path string) error {
	for i, b := range blocks {
		at := fmt.Sprintf("%s[%d]", path, i)
		if err := validateBlock(b, at); err != nil {
			return err
		}
	}
	return nil
}

func validateBlock(b Block, at string) error {
	switch b.Kind {
	case BlockParagraph:
		return validateInlines(b.Content, at+".content")
	case BlockHeading:
		if b.Level < 1 || b.Level > 6 {
			return fmt.Errorf("%s: heading level %d out of range 1-6", at, b.Level)
		}
		return validateInlines(b.Content, at+".content")
	case BlockQuote:
		return validateBlocks(b.Blocks, at+".blocks")
	case BlockFootnoteDefinition:
		if b.Label == "" {
			return fmt.Errorf("%s: footnote definition without label", at)
		}
		return validateBlocks(b.Blocks, at+".blocks")
	case BlockList:
		if b.List == nil {
			return fmt.Errorf("%s: list block without list", at)
		}
		if b.List.Ordered && (b.List.Start < 0 || b.List.Start > MaxListStart) {
			return fmt.Errorf("%s: list start %d out of range 0-%d", at, b.List.Start, MaxListStart)
		}
		for j, item := range b.List.Items {
			if err := validateBlocks(item.Blocks, fmt.Sprintf("%s.list.items[%d].blocks", at, j)); err != nil {
				return err
			}
		}
		return nil
	case BlockTable:
		return validateTable(b.Table, at)
	case BlockCode, BlockHTML, BlockThematicBreak:
		return nil
	default:
		return fmt.Errorf("%s: unknown block kind %q", at, b.Kind)
	}
}

func validateTable(t *Table, at string) error {
	if t == nil {
		return fmt.Errorf("%s: table block without table", at)
	}
	if len(t.Header) != len(t.Align) {
		return fmt.Errorf("%s: table header has %d cells, want %d", at, len(t.Header), len(t.Align))
	}
	for j, c := range t.Header {
		if err := validateInlines(c.Content, fmt.Sprintf("%s.table.header[%d]", at, j)); err != nil {
			return err
		}
	}
	for r, row := range t.Rows {
		if len(row.Cells) != len(t.Align) {
			return fmt.Errorf("%s: table row %d has %d cells, want %d", at, r, len(row.Cells), len(t.Align))
		}
		for j, c := range row.Cells {
			if err := validateInlines(c.Content, fmt.Sprintf("%s.table.rows[%d][%d]", at, r, j)); err != nil {
				return err
			}
		}
	}
	for _, a := range t.Align {
		switch a {
		case AlignNone, AlignLeft, AlignCenter, AlignRight:
		default:
			return fmt.Errorf("%s: unknown table alignment %q", at, a)
		}
	}
	return nil
}

func validateInlines(inlines []Inline, path string) error {
	for i, in := range inlines {
		at := fmt.Sprintf("%s[%d]", path, i)
		switch in.Kind {
		case InlineText, InlineCode, InlineHTML, InlineSoftBreak, InlineHardBreak:
		case InlineAutolink:
			if in.URL == "" {
				return fmt.Errorf("%s: autolink without url", at)
			}
		case InlineFootnoteRef:
			if in.Label == "" {
				return fmt.Errorf("%s: footnote reference without label", at)
			}
		case InlineEmphasis, InlineStrong, InlineStrikethrough, InlineLink, InlineImage:
			if err := validateInlines(in.Children, at+".children"); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%s: unknown inline kind %q", at, in.Kind)
		}
	}
	return nil
}
