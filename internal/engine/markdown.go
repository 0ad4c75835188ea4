// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/pdiddy/markdown-tool/pkg/types"
)

// EncodeText renders doc as canonical markdown. The output has no trailing
// newline and is a fixed point: decoding and re-encoding it with the same
// configuration yields the same text.
func (g *Goldmark) EncodeText(doc *types.Document, cfg types.TextConfig) string {
	if doc == nil {
		return ""
	}
	p := &mdPrinter{cfg: cfg}

	var out []string
	if doc.FrontMatter != nil && doc.FrontMatter.Raw != "" {
		out = append(out, doc.FrontMatter.Raw)
		if len(doc.Blocks) > 0 {
			out = append(out, "")
		}
	}
	out = append(out, p.blocks(doc.Blocks, cfg.Width, container{root: true})...)
	return strings.Join(out, "\n")
}

type mdPrinter struct {
	cfg types.TextConfig
}

// container describes where a block sequence sits.
type container struct {
	root  bool // the document itself
	item  bool // a list item
	tight bool // a tight list item: blocks are joined without blank lines
}

func (p *mdPrinter) blocks(blocks []types.Block, width int, c container) []string {
	var out []string
	alt := false
	for i, b := range blocks {
		ctx := blockCtx{in: c, first: i == 0}
		if i > 0 {
			prev := blocks[i-1]
			joined := c.tight || p.joinsList(prev, b)
			if !joined {
				out = append(out, "")
			}
			ctx.afterParagraph = joined && prev.Kind == types.BlockParagraph
			if b.Kind == types.BlockList && prev.Kind == types.BlockList && sameListType(prev.List, b.List) {
				alt = !alt
			} else {
				alt = false
			}
		}
		ctx.alt = alt
		out = append(out, p.block(b, width, ctx)...)
	}
	return out
}

// blockCtx carries what a block needs to know about its position.
type blockCtx struct {
	in             container
	first          bool // first block of its container
	afterParagraph bool // directly below a paragraph line
	alt            bool // list uses the alternate marker
}

// joinsList reports whether a list may follow a paragraph without a blank
// line: only when configured so and when the list can interrupt a
// paragraph.
func (p *mdPrinter) joinsList(prev, next types.Block) bool {
	if p.cfg.EmptyLineBeforeList || prev.Kind != types.BlockParagraph || next.Kind != types.BlockList {
		return false
	}
	l := next.List
	if l == nil || len(l.Items) == 0 || len(l.Items[0].Blocks) == 0 {
		return false
	}
	return !l.Ordered || l.Start == 1
}

func sameListType(a, b *types.List) bool {
	return a != nil && b != nil && a.Ordered == b.Ordered
}

func (p *mdPrinter) block(b types.Block, width int, ctx blockCtx) []string {
	switch b.Kind {
	case types.BlockParagraph:
		return p.paragraph(b.Content, width)
	case types.BlockHeading:
		return []string{p.heading(b)}
	case types.BlockQuote:
		return p.blockquote(b.Blocks, width)
	case types.BlockList:
		return p.list(b.List, width, ctx.alt)
	case types.BlockCode:
		return codeFence(b.Info, b.Literal)
	case types.BlockHTML:
		return strings.Split(strings.TrimRight(b.Literal, "\n"), "\n")
	case types.BlockThematicBreak:
		return []string{thematicBreak(ctx)}
	case types.BlockTable:
		return p.table(b.Table)
	case types.BlockFootnoteDefinition:
		return p.footnote(b, width)
	}
	return nil
}

// thematicBreak spells a rule so it cannot be read as something else:
// "---" opening a document looks like front matter and under a paragraph
// line like a setext underline, and behind a list marker only "___" never
// shares the marker character.
func thematicBreak(ctx blockCtx) string {
	switch {
	case ctx.in.item && ctx.first:
		return "___"
	case ctx.in.root && ctx.first, ctx.afterParagraph:
		return "***"
	}
	return "---"
}

func (p *mdPrinter) paragraph(content []types.Inline, width int) []string {
	var b lineBuilder
	p.inlines(&b, content, false)
	return b.lines(layout{width: width, canStart: canStartLine, lead: escapeLead})
}

func (p *mdPrinter) heading(b types.Block) string {
	marks := strings.Repeat("#", max(1, min(b.Level, 6)))
	var lb lineBuilder
	p.inlines(&lb, b.Content, false)
	if text := lb.single(); text != "" {
		return marks + " " + text
	}
	return marks
}

func (p *mdPrinter) blockquote(blocks []types.Block, width int) []string {
	inner := p.blocks(blocks, available(width, 2), container{})
	if len(inner) == 0 {
		return []string{">"}
	}
	out := make([]string, len(inner))
	for i, line := range inner {
		if line == "" {
			out[i] = ">"
			continue
		}
		out[i] = "> " + line
	}
	return out
}

func (p *mdPrinter) list(l *types.List, width int, alt bool) []string {
	if l == nil {
		return nil
	}
	indent := strings.Repeat(" ", max(0, p.cfg.SpacesBeforeListItem))
	var out []string
	for i, item := range l.Items {
		if i > 0 && !l.Tight {
			out = append(out, "")
		}
		prefix := indent + listMarker(l, i, alt) + " "
		pad := strings.Repeat(" ", len(prefix))
		task := ""
		if item.Task != nil {
			task = "[ ] "
			if *item.Task {
				task = "[x] "
			}
		}

		body := p.blocks(item.Blocks, available(width, len(prefix)+len(task)), container{item: true, tight: l.Tight})
		if len(body) == 0 {
			out = append(out, strings.TrimRight(prefix+task, " "))
			continue
		}
		for j, line := range body {
			switch {
			case j == 0:
				out = append(out, strings.TrimRight(prefix+task+line, " "))
			case line == "":
				out = append(out, "")
			default:
				out = append(out, pad+line)
			}
		}
	}
	return out
}

func listMarker(l *types.List, i int, alt bool) string {
	if !l.Ordered {
		if alt {
			return "*"
		}
		return "-"
	}
	delim := "."
	if alt {
		delim = ")"
	}
	// Markers past nine digits are not list markers; repeat the last
	// valid number instead.
	return strconv.Itoa(min(l.Start+i, types.MaxListStart)) + delim
}

// codeFence always fences, choosing a fence longer than any run of the
// fence character in the literal.
func codeFence(info, literal string) []string {
	ch := byte('`')
	if strings.ContainsRune(info, '`') {
		ch = '~'
	}
	fence := strings.Repeat(string(ch), max(3, longestRun(literal, ch)+1))
	out := []string{fence + info}
	if literal != "" {
		out = append(out, strings.Split(strings.TrimSuffix(literal, "\n"), "\n")...)
	}
	return append(out, fence)
}

func longestRun(s string, ch byte) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == ch {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return longest
}

func (p *mdPrinter) table(t *types.Table) []string {
	if t == nil || len(t.Align) == 0 {
		return nil
	}
	cols := len(t.Align)
	cell := func(c types.TableCell) string {
		var b lineBuilder
		p.inlines(&b, c.Content, true)
		return b.single()
	}

	grid := make([][]string, 0, len(t.Rows)+1)
	header := make([]string, cols)
	for j := 0; j < cols && j < len(t.Header); j++ {
		header[j] = cell(t.Header[j])
	}
	grid = append(grid, header)
	for _, r := range t.Rows {
		row := make([]string, cols)
		for j := 0; j < cols && j < len(r.Cells); j++ {
			row[j] = cell(r.Cells[j])
		}
		grid = append(grid, row)
	}

	widths := make([]int, cols)
	for j := range widths {
		widths[j] = 3
		for _, row := range grid {
			widths[j] = max(widths[j], runewidth.StringWidth(row[j]))
		}
	}

	out := make([]string, 0, len(grid)+1)
	out = append(out, tableRow(grid[0], widths, t.Align))
	delims := make([]string, cols)
	for j, w := range widths {
		delims[j] = delimiterCell(t.Align[j], w)
	}
	out = append(out, "| "+strings.Join(delims, " | ")+" |")
	for _, row := range grid[1:] {
		out = append(out, tableRow(row, widths, t.Align))
	}
	return out
}

func tableRow(cells []string, widths []int, align []types.Alignment) string {
	padded := make([]string, len(cells))
	for j, c := range cells {
		gap := widths[j] - runewidth.StringWidth(c)
		switch align[j] {
		case types.AlignRight:
			padded[j] = strings.Repeat(" ", gap) + c
		case types.AlignCenter:
			left := gap / 2
			padded[j] = strings.Repeat(" ", left) + c + strings.Repeat(" ", gap-left)
		default:
			padded[j] = c + strings.Repeat(" ", gap)
		}
	}
	return "| " + strings.Join(padded, " | ") + " |"
}

func delimiterCell(a types.Alignment, w int) string {
	switch a {
	case types.AlignLeft:
		return ":" + strings.Repeat("-", w-1)
	case types.AlignCenter:
		return ":" + strings.Repeat("-", w-2) + ":"
	case types.AlignRight:
		return strings.Repeat("-", w-1) + ":"
	}
	return strings.Repeat("-", w)
}

func (p *mdPrinter) footnote(b types.Block, width int) []string {
	head := "[^" + b.Label + "]:"
	inner := p.blocks(b.Blocks, available(width, 4), container{})
	if len(inner) == 0 {
		return []string{head}
	}
	out := make([]string, 0, len(inner))
	out = append(out, head+" "+inner[0])
	for _, line := range inner[1:] {
		if line == "" {
			out = append(out, "")
			continue
		}
		out = append(out, "    "+line)
	}
	return out
}

func (p *mdPrinter) inlines(b *lineBuilder, in []types.Inline, table bool) {
	p.inlineRun(b, in, table, false)
}

// inlineRun prints a run of sibling inlines. inStrong is set when the run
// is the direct content of a strong span.
func (p *mdPrinter) inlineRun(b *lineBuilder, in []types.Inline, table, inStrong bool) {
	for i, n := range in {
		switch n.Kind {
		case types.InlineText:
			s := escapeText(n.Text)
			if i+1 < len(in) && in[i+1].Kind == types.InlineLink && strings.HasSuffix(s, "!") {
				s = s[:len(s)-1] + `\!`
			}
			if i > 0 && in[i-1].Kind == types.InlineFootnoteRef && strings.HasPrefix(s, ":") {
				s = `\` + s
			}
			b.text(s)

		case types.InlineEmphasis:
			delim := emphasisDelim(in, i, inStrong)
			b.word(delim)
			p.inlines(b, n.Children, table)
			b.word(delim)

		case types.InlineStrong:
			b.word("**")
			p.inlineRun(b, n.Children, table, true)
			b.word("**")

		case types.InlineStrikethrough:
			b.word("~~")
			p.inlines(b, n.Children, table)
			b.word("~~")

		case types.InlineCode:
			b.word(codeSpan(n.Text, table))

		case types.InlineLink, types.InlineImage:
			open := "["
			if n.Kind == types.InlineImage {
				open = "!["
			}
			b.word(open)
			p.inlines(b, n.Children, table)
			b.word("](" + linkDestination(n.URL) + linkTitle(n.Title) + ")")

		case types.InlineAutolink:
			if strings.HasPrefix(strings.ToLower(n.URL), "www.") {
				b.word(n.URL)
			} else {
				b.word("<" + n.URL + ">")
			}

		case types.InlineHTML:
			b.word(n.Text)

		case types.InlineSoftBreak:
			b.space()

		case types.InlineHardBreak:
			if table {
				b.space()
			} else {
				b.lineBreak(`\`, "  ")
			}

		case types.InlineFootnoteRef:
			b.word("[^" + n.Label + "]")
		}
	}
}

// emphasisDelim picks the delimiter for the emphasis at in[i]. Emphasis
// touching a strong span, inside or around it, uses "_" so the delimiters
// never merge into a "***" run, which re-parses with the nesting inverted.
// An underscore cannot open or close next to a letter or digit, so those
// positions keep "*".
func emphasisDelim(in []types.Inline, i int, inStrong bool) string {
	if startsOrEndsWith(in[i].Children, types.InlineStrong) {
		return "_"
	}
	if !inStrong || (i != 0 && i != len(in)-1) {
		return "*"
	}
	if i > 0 && in[i-1].Kind == types.InlineText && endsAlnum(in[i-1].Text) {
		return "*"
	}
	if i+1 < len(in) && in[i+1].Kind == types.InlineText && startsAlnum(in[i+1].Text) {
		return "*"
	}
	return "_"
}

func startsAlnum(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && isAlnum(r)
}

func endsAlnum(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r != utf8.RuneError && isAlnum(r)
}

func startsOrEndsWith(in []types.Inline, kind types.InlineKind) bool {
	return len(in) > 0 && (in[0].Kind == kind || in[len(in)-1].Kind == kind)
}

// escapeText backslash-escapes the characters that could otherwise open
// inline or block syntax. Underscores inside words are left alone.
func escapeText(s string) string {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range rs {
		var prev, next rune
		if i > 0 {
			prev = rs[i-1]
		}
		if i+1 < len(rs) {
			next = rs[i+1]
		}
		switch r {
		case '\\', '`', '*', '[', ']', '~', '|':
			b.WriteByte('\\')
		case '_':
			if !isAlnum(prev) || !isAlnum(next) {
				b.WriteByte('\\')
			}
		case '<':
			if unicode.IsLetter(next) || next == '/' || next == '!' || next == '?' {
				b.WriteByte('\\')
			}
		case '&':
			if unicode.IsLetter(next) || next == '#' {
				b.WriteByte('\\')
			}
		case '#', '>':
			if i == 0 || unicode.IsSpace(prev) {
				b.WriteByte('\\')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// blockMarker reports whether word, alone at the start of a line, could be
// read as a list marker, a setext underline or a thematic break.
func blockMarker(word string) bool {
	if word == "" {
		return false
	}
	if c := word[0]; (c == '-' || c == '=' || c == '+') && strings.Count(word, string(c)) == len(word) {
		return true
	}
	i := 0
	for i < len(word) && word[i] >= '0' && word[i] <= '9' {
		i++
	}
	return i > 0 && i <= 9 && i == len(word)-1 && (word[i] == '.' || word[i] == ')')
}

func canStartLine(word string) bool {
	return !strings.HasPrefix(word, "<") && !blockMarker(word)
}

// escapeLead neutralizes a block marker that has to start a line.
func escapeLead(word string) string {
	if !blockMarker(word) {
		return word
	}
	if last := len(word) - 1; word[last] == '.' || word[last] == ')' {
		return word[:last] + `\` + word[last:]
	}
	return `\` + word
}

// codeSpan picks a backtick fence longer than any run inside s and pads
// the content when it would otherwise merge with the fence or lose its
// surrounding spaces.
func codeSpan(s string, table bool) string {
	if table {
		s = strings.ReplaceAll(s, "|", `\|`)
	}
	fence := strings.Repeat("`", longestRun(s, '`')+1)
	pad := ""
	switch {
	case s == "":
		pad = " "
	case strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`"):
		pad = " "
	case len(s) >= 2 && s[0] == ' ' && s[len(s)-1] == ' ' && strings.Trim(s, " ") != "":
		pad = " "
	}
	return fence + pad + s + pad + fence
}

func linkDestination(u string) string {
	if u == "" {
		return ""
	}
	if strings.ContainsAny(u, " \t()<>") {
		r := strings.NewReplacer(`\`, `\\`, "<", `\<`, ">", `\>`)
		return "<" + r.Replace(u) + ">"
	}
	return strings.ReplaceAll(u, `\`, `\\`)
}

func linkTitle(t string) string {
	if t == "" {
		return ""
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return ` "` + r.Replace(t) + `"`
}
