// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"strconv"
	"strings"

	"github.com/pdiddy/markdown-tool/pkg/types"
)

// EncodeLatex renders doc as a LaTeX body fragment (no preamble). Raw HTML
// and front matter have no LaTeX counterpart and are dropped; footnotes are
// inlined at their references.
func (g *Goldmark) EncodeLatex(doc *types.Document, cfg types.LatexConfig) string {
	if doc == nil {
		return ""
	}
	l := &latexPrinter{cfg: cfg, notes: map[string][]types.Block{}}
	for _, b := range doc.Blocks {
		if b.Kind == types.BlockFootnoteDefinition {
			if _, ok := l.notes[b.Label]; !ok {
				l.notes[b.Label] = b.Blocks
			}
		}
	}
	return strings.Join(l.blocks(doc.Blocks, cfg.Width), "\n")
}

var sectioning = []string{"section", "subsection", "subsubsection", "paragraph", "subparagraph", "subparagraph"}

type latexPrinter struct {
	cfg   types.LatexConfig
	notes map[string][]types.Block // footnote label -> definition
	depth int                      // footnote nesting guard
}

func (l *latexPrinter) blocks(blocks []types.Block, width int) []string {
	var out []string
	for _, b := range blocks {
		lines := l.block(b, width)
		if len(lines) == 0 {
			continue
		}
		if len(out) > 0 {
			out = append(out, "")
		}
		out = append(out, lines...)
	}
	return out
}

func (l *latexPrinter) block(b types.Block, width int) []string {
	switch b.Kind {
	case types.BlockParagraph:
		var lb lineBuilder
		l.inlines(&lb, b.Content)
		return lb.lines(layout{width: width})

	case types.BlockHeading:
		cmd := sectioning[max(1, min(b.Level, 6))-1]
		return []string{`\` + cmd + "{" + l.line(b.Content) + "}"}

	case types.BlockQuote:
		out := []string{`\begin{quote}`}
		out = append(out, l.blocks(b.Blocks, available(width, 2))...)
		return append(out, `\end{quote}`)

	case types.BlockList:
		return l.list(b.List, width)

	case types.BlockCode:
		return l.code(b)

	case types.BlockThematicBreak:
		return []string{`\noindent\rule{\linewidth}{0.4pt}`}

	case types.BlockTable:
		return l.table(b.Table)
	}
	// HTML blocks are dropped; footnote definitions are inlined at their
	// references.
	return nil
}

func (l *latexPrinter) list(list *types.List, width int) []string {
	if list == nil {
		return nil
	}
	env := "itemize"
	if list.Ordered {
		env = "enumerate"
	}
	out := []string{`\begin{` + env + "}"}
	if list.Ordered && list.Start != 1 {
		out = append(out, `\setcounter{enumi}{`+strconv.Itoa(list.Start-1)+"}")
	}
	for _, item := range list.Items {
		head := `\item`
		if item.Task != nil {
			head = `\item[$\square$]`
			if *item.Task {
				head = `\item[$\boxtimes$]`
			}
		}
		body := l.blocks(item.Blocks, available(width, 6))
		if len(body) == 0 {
			out = append(out, head)
			continue
		}
		out = append(out, head+" "+body[0])
		out = append(out, body[1:]...)
	}
	return append(out, `\end{`+env+"}")
}

func (l *latexPrinter) code(b types.Block) []string {
	lang := language(b.Info)
	var begin, end string
	switch l.cfg.CodeStyle {
	case types.CodeListings:
		begin, end = `\begin{lstlisting}`, `\end{lstlisting}`
		if lang != "" {
			begin += "[language=" + lang + "]"
		}
	case types.CodeMinted:
		if lang == "" {
			lang = "text"
		}
		begin, end = `\begin{minted}{`+lang+"}", `\end{minted}`
	default:
		begin, end = `\begin{verbatim}`, `\end{verbatim}`
	}
	var lines []string
	if b.Literal != "" {
		lines = strings.Split(strings.TrimSuffix(b.Literal, "\n"), "\n")
	}

	// A line containing the closing command would end the environment
	// early. Such lines are set with \verb between separate environments.
	var out []string
	open := false
	for _, line := range lines {
		if strings.Contains(line, end) {
			if open {
				out = append(out, end)
				open = false
			}
			d := verbDelimiter(line)
			out = append(out, `\noindent\verb`+d+line+d+`\par`)
			continue
		}
		if !open {
			out = append(out, begin)
			open = true
		}
		out = append(out, line)
	}
	if len(out) == 0 {
		return []string{begin, end}
	}
	if open {
		out = append(out, end)
	}
	return out
}

// verbDelimiter returns a \verb delimiter that does not occur in s.
func verbDelimiter(s string) string {
	for _, d := range `|!+=@#;:,.-/'"?^<>` {
		if !strings.ContainsRune(s, d) {
			return string(d)
		}
	}
	return "|"
}

func (l *latexPrinter) table(t *types.Table) []string {
	if t == nil || len(t.Align) == 0 {
		return nil
	}
	cols := make([]string, len(t.Align))
	for j, a := range t.Align {
		cols[j] = columnSpec(a)
	}
	row := func(cells []types.TableCell) string {
		parts := make([]string, len(cells))
		for j, c := range cells {
			parts[j] = l.line(c.Content)
		}
		return strings.Join(parts, " & ") + ` \\`
	}

	var out []string
	switch l.cfg.TableStyle {
	case types.TableBooktabs:
		out = append(out, `\begin{tabular}{`+strings.Join(cols, "")+"}", `\toprule`, row(t.Header), `\midrule`)
		for _, r := range t.Rows {
			out = append(out, row(r.Cells))
		}
		return append(out, `\bottomrule`, `\end{tabular}`)
	case types.TableLongtabu:
		out = append(out, `\begin{longtabu}{|`+strings.Join(cols, "|")+"|}", `\hline`, row(t.Header), `\hline`, `\endhead`)
		for _, r := range t.Rows {
			out = append(out, row(r.Cells), `\hline`)
		}
		return append(out, `\end{longtabu}`)
	}
	out = append(out, `\begin{tabular}{|`+strings.Join(cols, "|")+"|}", `\hline`, row(t.Header), `\hline`)
	for _, r := range t.Rows {
		out = append(out, row(r.Cells), `\hline`)
	}
	return append(out, `\end{tabular}`)
}

func columnSpec(a types.Alignment) string {
	switch a {
	case types.AlignCenter:
		return "c"
	case types.AlignRight:
		return "r"
	}
	return "l"
}

// line renders inline content without wrapping.
func (l *latexPrinter) line(content []types.Inline) string {
	var b lineBuilder
	l.inlines(&b, content)
	return strings.Join(b.lines(layout{}), "\n")
}

func (l *latexPrinter) inlines(b *lineBuilder, in []types.Inline) {
	for _, n := range in {
		switch n.Kind {
		case types.InlineText:
			b.text(escapeLatex(n.Text))
		case types.InlineEmphasis:
			l.command(b, "textit", n.Children)
		case types.InlineStrong:
			l.command(b, "textbf", n.Children)
		case types.InlineStrikethrough:
			l.command(b, "sout", n.Children)
		case types.InlineCode:
			b.word(`\texttt{` + escapeLatex(n.Text) + "}")
		case types.InlineLink:
			b.word(`\href{` + escapeLatexURL(n.URL) + "}{")
			l.inlines(b, n.Children)
			b.word("}")
		case types.InlineImage:
			b.word(`\includegraphics{` + escapeLatexURL(n.URL) + "}")
		case types.InlineAutolink:
			b.word(`\url{` + escapeLatexURL(autolinkTarget(n.URL)) + "}")
		case types.InlineSoftBreak:
			b.space()
		case types.InlineHardBreak:
			b.lineBreak(`\\`, "")
		case types.InlineFootnoteRef:
			l.footnote(b, n.Label)
		}
		// Inline HTML has no LaTeX rendering.
	}
}

func (l *latexPrinter) command(b *lineBuilder, name string, children []types.Inline) {
	b.word(`\` + name + "{")
	l.inlines(b, children)
	b.word("}")
}

// footnote renders the definition of label as a \footnote at the point of
// reference. Paragraphs of a multi-paragraph note are separated with \par.
func (l *latexPrinter) footnote(b *lineBuilder, label string) {
	def, ok := l.notes[label]
	if !ok || l.depth > 0 {
		b.text(escapeLatex("[^" + label + "]"))
		return
	}
	l.depth++
	defer func() { l.depth-- }()

	b.word(`\footnote{`)
	for i, blk := range def {
		if i > 0 {
			b.space()
			b.word(`\par`)
			b.space()
		}
		if blk.Kind == types.BlockParagraph {
			l.inlines(b, blk.Content)
			continue
		}
		b.word(strings.Join(l.block(blk, 0), "\n"))
	}
	b.word("}")
}

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	"{", `\{`,
	"}", `\}`,
	"#", `\#`,
	"$", `\$`,
	"%", `\%`,
	"&", `\&`,
	"_", `\_`,
	"~", `\textasciitilde{}`,
	"^", `\textasciicircum{}`,
)

func escapeLatex(s string) string {
	return latexEscaper.Replace(s)
}

var latexURLEscaper = strings.NewReplacer(
	`\`, `\\`,
	"#", `\#`,
	"%", `\%`,
	"{", `\{`,
	"}", `\}`,
)

func escapeLatexURL(s string) string {
	return latexURLEscaper.Replace(s)
}
