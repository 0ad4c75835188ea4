// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"strconv"
	"strings"

	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/pdiddy/markdown-tool/pkg/types"
)

// EncodeHTML renders doc as an HTML fragment. Front matter becomes a
// comment, footnotes are collected into a trailing section whose anchors
// carry cfg.AnchorPrefix.
func (g *Goldmark) EncodeHTML(doc *types.Document, cfg types.HTMLConfig) string {
	if doc == nil {
		return ""
	}
	h := &htmlPrinter{cfg: cfg, notes: numberFootnotes(doc.Blocks), refs: map[string]int{}}

	var out []string
	if doc.FrontMatter != nil && doc.FrontMatter.Raw != "" {
		out = append(out, "<!--\n"+doc.FrontMatter.Raw+"\n-->")
	}
	out = append(out, h.blocks(doc.Blocks, false)...)
	out = append(out, h.footnoteSection(doc.Blocks)...)
	return strings.Join(out, "\n")
}

// numberFootnotes assigns 1-based numbers to footnote definitions in
// document order.
func numberFootnotes(blocks []types.Block) map[string]int {
	notes := map[string]int{}
	for _, b := range blocks {
		if b.Kind == types.BlockFootnoteDefinition {
			if _, ok := notes[b.Label]; !ok {
				notes[b.Label] = len(notes) + 1
			}
		}
	}
	return notes
}

type htmlPrinter struct {
	cfg   types.HTMLConfig
	notes map[string]int // footnote label -> number
	refs  map[string]int // footnote label -> references seen so far
}

func (h *htmlPrinter) blocks(blocks []types.Block, tight bool) []string {
	var out []string
	for _, b := range blocks {
		out = append(out, h.block(b, tight)...)
	}
	return out
}

func (h *htmlPrinter) block(b types.Block, tight bool) []string {
	switch b.Kind {
	case types.BlockParagraph:
		if tight {
			return h.wrapped("", b.Content, "")
		}
		return h.wrapped("<p>", b.Content, "</p>")

	case types.BlockHeading:
		tag := "h" + strconv.Itoa(max(1, min(b.Level, 6)))
		return []string{"<" + tag + ">" + h.line(b.Content) + "</" + tag + ">"}

	case types.BlockQuote:
		out := []string{"<blockquote>"}
		out = append(out, h.blocks(b.Blocks, false)...)
		return append(out, "</blockquote>")

	case types.BlockList:
		return h.list(b.List)

	case types.BlockCode:
		open := "<pre><code>"
		if lang := language(b.Info); lang != "" {
			open = `<pre><code class="language-` + escapeHTML(lang) + `">`
		}
		return []string{open + escapeHTML(b.Literal) + "</code></pre>"}

	case types.BlockHTML:
		return []string{strings.TrimRight(b.Literal, "\n")}

	case types.BlockThematicBreak:
		return []string{"<hr />"}

	case types.BlockTable:
		return h.table(b.Table)
	}
	// Footnote definitions are emitted by footnoteSection.
	return nil
}

func (h *htmlPrinter) list(l *types.List) []string {
	if l == nil {
		return nil
	}
	tag, open := "ul", "<ul>"
	if l.Ordered {
		tag, open = "ol", "<ol>"
		if l.Start != 1 {
			open = `<ol start="` + strconv.Itoa(l.Start) + `">`
		}
	}

	out := []string{open}
	for _, item := range l.Items {
		box := ""
		if item.Task != nil {
			box = `<input type="checkbox" disabled="" /> `
			if *item.Task {
				box = `<input type="checkbox" checked="" disabled="" /> `
			}
		}
		if l.Tight && len(item.Blocks) == 1 && item.Blocks[0].Kind == types.BlockParagraph {
			out = append(out, h.wrapped("<li>"+box, item.Blocks[0].Content, "</li>")...)
			continue
		}
		if len(item.Blocks) == 0 {
			out = append(out, "<li>"+strings.TrimSpace(box)+"</li>")
			continue
		}
		out = append(out, "<li>"+strings.TrimSpace(box))
		out = append(out, h.blocks(item.Blocks, l.Tight)...)
		out = append(out, "</li>")
	}
	return append(out, "</"+tag+">")
}

func (h *htmlPrinter) table(t *types.Table) []string {
	if t == nil {
		return nil
	}
	row := func(cells []types.TableCell, tag string) []string {
		out := []string{"<tr>"}
		for j, c := range cells {
			open := "<" + tag + ">"
			if j < len(t.Align) && t.Align[j] != types.AlignNone {
				open = "<" + tag + ` align="` + string(t.Align[j]) + `">`
			}
			out = append(out, open+h.line(c.Content)+"</"+tag+">")
		}
		return append(out, "</tr>")
	}

	out := []string{"<table>", "<thead>"}
	out = append(out, row(t.Header, "th")...)
	out = append(out, "</thead>")
	if len(t.Rows) > 0 {
		out = append(out, "<tbody>")
		for _, r := range t.Rows {
			out = append(out, row(r.Cells, "td")...)
		}
		out = append(out, "</tbody>")
	}
	return append(out, "</table>")
}

func (h *htmlPrinter) footnoteSection(blocks []types.Block) []string {
	var defs []types.Block
	seen := map[string]bool{}
	for _, b := range blocks {
		if b.Kind == types.BlockFootnoteDefinition && !seen[b.Label] {
			seen[b.Label] = true
			defs = append(defs, b)
		}
	}
	if len(defs) == 0 {
		return nil
	}

	p := h.cfg.AnchorPrefix
	out := []string{`<section class="footnotes">`, "<hr />", "<ol>"}
	for _, d := range defs {
		n := strconv.Itoa(h.notes[d.Label])
		back := `<a href="#` + escapeHTML(p) + "fnref:" + n + `" class="footnote-backref">&#x21a9;&#xfe0e;</a>`
		out = append(out, `<li id="`+escapeHTML(p)+"fn:"+n+`">`)
		body := h.blocks(d.Blocks, false)
		if k := len(body) - 1; k >= 0 && strings.HasSuffix(body[k], "</p>") {
			body[k] = strings.TrimSuffix(body[k], "</p>") + " " + back + "</p>"
		} else {
			body = append(body, back)
		}
		out = append(out, body...)
		out = append(out, "</li>")
	}
	return append(out, "</ol>", "</section>")
}

// wrapped renders inline content between open and close, wrapped at the
// configured width.
func (h *htmlPrinter) wrapped(open string, content []types.Inline, close string) []string {
	var b lineBuilder
	b.word(open)
	h.inlines(&b, content)
	b.word(close)
	return b.lines(layout{width: h.cfg.Width})
}

// line renders inline content on a single line.
func (h *htmlPrinter) line(content []types.Inline) string {
	var b lineBuilder
	h.inlines(&b, content)
	return strings.Join(b.lines(layout{}), "\n")
}

func (h *htmlPrinter) inlines(b *lineBuilder, in []types.Inline) {
	for _, n := range in {
		switch n.Kind {
		case types.InlineText:
			b.text(escapeHTML(n.Text))
		case types.InlineEmphasis:
			h.tagged(b, "i", n.Children)
		case types.InlineStrong:
			h.tagged(b, "b", n.Children)
		case types.InlineStrikethrough:
			h.tagged(b, "del", n.Children)
		case types.InlineCode:
			b.word("<code>" + escapeHTML(n.Text) + "</code>")
		case types.InlineLink:
			open := `<a href="` + safeURL(n.URL) + `"`
			if n.Title != "" {
				open += ` title="` + escapeHTML(n.Title) + `"`
			}
			b.word(open + ">")
			h.inlines(b, n.Children)
			b.word("</a>")
		case types.InlineImage:
			img := `<img src="` + safeURL(n.URL) + `" alt="` + escapeHTML(plainText(n.Children)) + `"`
			if n.Title != "" {
				img += ` title="` + escapeHTML(n.Title) + `"`
			}
			b.word(img + " />")
		case types.InlineAutolink:
			b.word(`<a href="` + safeURL(autolinkTarget(n.URL)) + `">` + escapeHTML(n.URL) + "</a>")
		case types.InlineHTML:
			b.word(n.Text)
		case types.InlineSoftBreak:
			b.space()
		case types.InlineHardBreak:
			b.lineBreak("<br />", "")
		case types.InlineFootnoteRef:
			b.word(h.footnoteRef(n.Label))
		}
	}
}

func (h *htmlPrinter) tagged(b *lineBuilder, tag string, children []types.Inline) {
	b.word("<" + tag + ">")
	h.inlines(b, children)
	b.word("</" + tag + ">")
}

func (h *htmlPrinter) footnoteRef(label string) string {
	num, ok := h.notes[label]
	if !ok {
		return escapeHTML("[^" + label + "]")
	}
	h.refs[label]++
	p := escapeHTML(h.cfg.AnchorPrefix)
	n := strconv.Itoa(num)
	id := p + "fnref:" + n
	if k := h.refs[label]; k > 1 {
		id = p + "fnref" + strconv.Itoa(k) + ":" + n
	}
	return `<sup id="` + id + `"><a href="#` + p + "fn:" + n + `">` + n + "</a></sup>"
}

// autolinkTarget adds the scheme a bare autolink label implies.
func autolinkTarget(label string) string {
	lower := strings.ToLower(label)
	switch {
	case strings.HasPrefix(lower, "www."):
		return "http://" + label
	case strings.Contains(label, "@") && !strings.Contains(label, ":"):
		return "mailto:" + label
	}
	return label
}

func safeURL(u string) string {
	if html.IsDangerousURL([]byte(u)) {
		return ""
	}
	return string(util.EscapeHTML(util.URLEscape([]byte(u), false)))
}

func escapeHTML(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}

// language is the first word of a code block info string.
func language(info string) string {
	if f := strings.Fields(info); len(f) > 0 {
		return f[0]
	}
	return ""
}

// plainText flattens inline content to its text, as used for image alt
// attributes.
func plainText(in []types.Inline) string {
	var b strings.Builder
	for _, n := range in {
		switch n.Kind {
		case types.InlineText, types.InlineCode:
			b.WriteString(n.Text)
		case types.InlineAutolink:
			b.WriteString(n.URL)
		case types.InlineSoftBreak, types.InlineHardBreak:
			b.WriteByte(' ')
		default:
			b.WriteString(plainText(n.Children))
		}
	}
	return b.String()
}
