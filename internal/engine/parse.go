// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/adrg/frontmatter"
	gast "github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	gtext "github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/pdiddy/markdown-tool/pkg/types"
)

// DecodeText parses markdown into a Document. A leading front matter block
// that parses as YAML or TOML is kept verbatim; anything else is markdown.
// The only rejected input is text that is not valid UTF-8.
func (g *Goldmark) DecodeText(text string) (*types.Document, error) {
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("input is not valid UTF-8 (invalid byte at offset %d)", invalidOffset(text))
	}

	doc := &types.Document{Blocks: []types.Block{}}
	body := text
	if raw, rest, ok := splitFrontMatter(text); ok {
		doc.FrontMatter = &types.FrontMatter{Raw: raw}
		body = rest
	}

	src := []byte(body)
	root := g.md.Parser().Parse(gtext.NewReader(src))

	c := &converter{src: src, footnotes: map[int]string{}}
	c.collectFootnotes(root)
	doc.Blocks = append(doc.Blocks, c.blocks(root)...)
	return doc, nil
}

func invalidOffset(s string) int {
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size <= 1 {
				return i
			}
		}
	}
	return len(s)
}

// splitFrontMatter detects a metadata block delimited by "---" (YAML) or
// "+++" (TOML) lines at the very start of text. The block is accepted only
// when its content unmarshals; raw keeps both delimiter lines.
func splitFrontMatter(text string) (raw, rest string, ok bool) {
	first := strings.IndexByte(text, '\n')
	if first < 0 {
		return "", text, false
	}
	delim := strings.TrimRight(text[:first], "\r")
	if delim != "---" && delim != "+++" {
		return "", text, false
	}

	pos := first + 1
	for pos < len(text) {
		line := text[pos:]
		next := len(text)
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
			next = pos + i + 1
		}
		if strings.TrimRight(line, " \t\r") == delim {
			raw = strings.TrimRight(text[:pos+len(line)], "\r")
			break
		}
		pos = next
	}
	if raw == "" {
		return "", text, false
	}

	var meta map[string]any
	if _, err := frontmatter.MustParse(strings.NewReader(raw+"\n"), &meta); err != nil {
		return "", text, false
	}
	return raw, text[min(len(text), len(raw)+1):], true
}

// converter turns a goldmark tree into the canonical AST.
type converter struct {
	src       []byte
	footnotes map[int]string // footnote index -> label
}

func (c *converter) collectFootnotes(root gast.Node) {
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		list, ok := n.(*east.FootnoteList)
		if !ok {
			continue
		}
		for fn := list.FirstChild(); fn != nil; fn = fn.NextSibling() {
			if f, ok := fn.(*east.Footnote); ok {
				c.footnotes[f.Index] = string(f.Ref)
			}
		}
	}
}

func (c *converter) blocks(parent gast.Node) []types.Block {
	var out []types.Block
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if list, ok := n.(*east.FootnoteList); ok {
			for fn := list.FirstChild(); fn != nil; fn = fn.NextSibling() {
				f, ok := fn.(*east.Footnote)
				if !ok {
					continue
				}
				out = append(out, types.Block{
					Kind:   types.BlockFootnoteDefinition,
					Label:  string(f.Ref),
					Blocks: c.blocks(f),
				})
			}
			continue
		}
		if b, ok := c.block(n); ok {
			out = append(out, b)
		}
	}
	return out
}

func (c *converter) block(n gast.Node) (types.Block, bool) {
	switch n := n.(type) {
	case *gast.Paragraph, *gast.TextBlock:
		content := trimBreaks(c.inlines(n))
		if len(content) == 0 {
			return types.Block{}, false
		}
		return types.Block{Kind: types.BlockParagraph, Content: content}, true

	case *gast.Heading:
		return types.Block{
			Kind:    types.BlockHeading,
			Level:   n.Level,
			Content: trimBreaks(c.inlines(n)),
		}, true

	case *gast.Blockquote:
		return types.Block{Kind: types.BlockQuote, Blocks: c.blocks(n)}, true

	case *gast.List:
		return types.Block{Kind: types.BlockList, List: c.list(n)}, true

	case *gast.FencedCodeBlock:
		var info string
		if n.Info != nil {
			info = strings.TrimSpace(unescape(n.Info.Segment.Value(c.src)))
		}
		return types.Block{Kind: types.BlockCode, Info: info, Literal: c.lines(n.Lines())}, true

	case *gast.CodeBlock:
		return types.Block{Kind: types.BlockCode, Literal: c.lines(n.Lines())}, true

	case *gast.HTMLBlock:
		literal := c.lines(n.Lines())
		if n.HasClosure() {
			literal += string(n.ClosureLine.Value(c.src))
		}
		return types.Block{Kind: types.BlockHTML, Literal: literal}, true

	case *gast.ThematicBreak:
		return types.Block{Kind: types.BlockThematicBreak}, true

	case *east.Table:
		return types.Block{Kind: types.BlockTable, Table: c.table(n)}, true
	}
	return types.Block{}, false
}

func (c *converter) list(n *gast.List) *types.List {
	l := &types.List{Ordered: n.IsOrdered(), Tight: n.IsTight}
	if l.Ordered {
		l.Start = n.Start
	}
	for it := n.FirstChild(); it != nil; it = it.NextSibling() {
		item := types.ListItem{Task: taskState(it)}
		item.Blocks = c.blocks(it)
		if item.Task != nil && len(item.Blocks) > 0 && item.Blocks[0].Kind == types.BlockParagraph {
			item.Blocks[0].Content = trimLeadingSpace(item.Blocks[0].Content)
			if len(item.Blocks[0].Content) == 0 {
				item.Blocks = item.Blocks[1:]
				if len(item.Blocks) == 0 {
					item.Blocks = nil
				}
			}
		}
		l.Items = append(l.Items, item)
	}
	return l
}

// taskState reports the checkbox of a task list item, nil for plain items.
func taskState(item gast.Node) *bool {
	first := item.FirstChild()
	if first == nil || first.FirstChild() == nil {
		return nil
	}
	box, ok := first.FirstChild().(*east.TaskCheckBox)
	if !ok {
		return nil
	}
	checked := box.IsChecked
	return &checked
}

func (c *converter) table(n *east.Table) *types.Table {
	t := &types.Table{}
	for _, a := range n.Alignments {
		t.Align = append(t.Align, alignment(a))
	}
	for row := n.FirstChild(); row != nil; row = row.NextSibling() {
		cells := c.cells(row, len(t.Align))
		if _, ok := row.(*east.TableHeader); ok {
			t.Header = cells
			continue
		}
		t.Rows = append(t.Rows, types.TableRow{Cells: cells})
	}
	if t.Header == nil {
		t.Header = make([]types.TableCell, len(t.Align))
	}
	return t
}

// cells converts one table row, padding or truncating it to width columns.
func (c *converter) cells(row gast.Node, width int) []types.TableCell {
	cells := make([]types.TableCell, 0, width)
	for cell := row.FirstChild(); cell != nil && len(cells) < width; cell = cell.NextSibling() {
		cells = append(cells, types.TableCell{Content: trimBreaks(c.inlines(cell))})
	}
	for len(cells) < width {
		cells = append(cells, types.TableCell{})
	}
	return cells
}

func alignment(a east.Alignment) types.Alignment {
	switch a {
	case east.AlignLeft:
		return types.AlignLeft
	case east.AlignCenter:
		return types.AlignCenter
	case east.AlignRight:
		return types.AlignRight
	}
	return types.AlignNone
}

func (c *converter) lines(segs *gtext.Segments) string {
	var b strings.Builder
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		b.Write(seg.Value(c.src))
	}
	return b.String()
}

func (c *converter) inlines(parent gast.Node) []types.Inline {
	var out []types.Inline
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = c.inline(out, n)
	}
	return mergeText(out)
}

func (c *converter) inline(out []types.Inline, n gast.Node) []types.Inline {
	switch n := n.(type) {
	case *gast.Text:
		if v := unescape(n.Segment.Value(c.src)); v != "" {
			out = append(out, types.Inline{Kind: types.InlineText, Text: v})
		}
		switch {
		case n.HardLineBreak():
			out = append(out, types.Inline{Kind: types.InlineHardBreak})
		case n.SoftLineBreak():
			out = append(out, types.Inline{Kind: types.InlineSoftBreak})
		}
		return out

	case *gast.String:
		if len(n.Value) == 0 {
			return out
		}
		return append(out, types.Inline{Kind: types.InlineText, Text: string(n.Value)})

	case *gast.CodeSpan:
		return append(out, types.Inline{Kind: types.InlineCode, Text: c.codeSpan(n)})

	case *gast.Emphasis:
		kind := types.InlineEmphasis
		if n.Level >= 2 {
			kind = types.InlineStrong
		}
		return append(out, types.Inline{Kind: kind, Children: c.inlines(n)})

	case *east.Strikethrough:
		return append(out, types.Inline{Kind: types.InlineStrikethrough, Children: c.inlines(n)})

	case *gast.Link:
		return append(out, types.Inline{
			Kind:     types.InlineLink,
			Children: c.inlines(n),
			URL:      unescape(n.Destination),
			Title:    unescape(n.Title),
		})

	case *gast.Image:
		return append(out, types.Inline{
			Kind:     types.InlineImage,
			Children: c.inlines(n),
			URL:      unescape(n.Destination),
			Title:    unescape(n.Title),
		})

	case *gast.AutoLink:
		return append(out, types.Inline{Kind: types.InlineAutolink, URL: string(n.Label(c.src))})

	case *gast.RawHTML:
		var b strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(c.src))
		}
		return append(out, types.Inline{Kind: types.InlineHTML, Text: strings.ReplaceAll(b.String(), "\n", " ")})

	case *east.FootnoteLink:
		return append(out, types.Inline{Kind: types.InlineFootnoteRef, Label: c.footnotes[n.Index]})

	case *east.TaskCheckBox, *east.FootnoteBacklink:
		return out
	}

	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		out = c.inline(out, child)
	}
	return out
}

// codeSpan joins the raw segments of a code span; line endings become
// spaces.
func (c *converter) codeSpan(n *gast.CodeSpan) string {
	var b strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		var v []byte
		switch t := child.(type) {
		case *gast.Text:
			v = t.Segment.Value(c.src)
		case *gast.String:
			v = t.Value
		default:
			continue
		}
		if len(v) > 0 && v[len(v)-1] == '\n' {
			b.Write(v[:len(v)-1])
			b.WriteByte(' ')
			continue
		}
		b.Write(v)
	}
	return b.String()
}

// unescape resolves backslash escapes, numeric character references and
// entity names the way the CommonMark renderer does. Escaped punctuation is
// never considered part of a reference.
func unescape(v []byte) string {
	if len(v) == 0 {
		return ""
	}
	var out []byte
	start := 0
	for i := 0; i < len(v); i++ {
		if v[i] == '\\' && i+1 < len(v) && util.IsPunct(v[i+1]) {
			out = append(out, resolve(v[start:i])...)
			out = append(out, v[i+1])
			i++
			start = i + 1
		}
	}
	out = append(out, resolve(v[start:])...)
	return string(out)
}

func resolve(v []byte) []byte {
	if len(v) == 0 {
		return nil
	}
	return util.ResolveEntityNames(util.ResolveNumericReferences(v))
}

// mergeText joins adjacent text nodes so the tree does not depend on where
// the parser happened to split a run of text.
func mergeText(in []types.Inline) []types.Inline {
	var out []types.Inline
	for _, n := range in {
		if n.Kind == types.InlineText && len(out) > 0 && out[len(out)-1].Kind == types.InlineText {
			out[len(out)-1].Text += n.Text
			continue
		}
		out = append(out, n)
	}
	return out
}

func trimBreaks(in []types.Inline) []types.Inline {
	for len(in) > 0 {
		k := in[len(in)-1].Kind
		if k != types.InlineSoftBreak && k != types.InlineHardBreak {
			break
		}
		in = in[:len(in)-1]
	}
	if len(in) == 0 {
		return nil
	}
	return in
}

// trimLeadingSpace strips the whitespace and line breaks that separate a
// task checkbox from the item text.
func trimLeadingSpace(in []types.Inline) []types.Inline {
	for len(in) > 0 {
		switch in[0].Kind {
		case types.InlineSoftBreak, types.InlineHardBreak:
			in = in[1:]
			continue
		case types.InlineText:
			text := strings.TrimLeft(in[0].Text, " \t")
			if text == "" {
				in = in[1:]
				continue
			}
			out := append([]types.Inline(nil), in...)
			out[0].Text = text
			return out
		}
		return in
	}
	return nil
}
