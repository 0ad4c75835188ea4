// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/markdown-tool/pkg/types"
)

// flat is a configuration without list indentation, used where exact
// output is asserted.
var flat = types.TextConfig{Width: 80, SpacesBeforeListItem: 0, EmptyLineBeforeList: true}

func canonical(t *testing.T, e *Goldmark, src string, cfg types.TextConfig) string {
	t.Helper()
	doc, err := e.DecodeText(src)
	require.NoError(t, err)
	return e.EncodeText(doc, cfg)
}

func TestEncodeText_Canonical(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"inline emphasis", "Some *emphasis* and **strong** text.", "Some *emphasis* and **strong** text."},
		{"underscore emphasis", "_under_ and __over__", "*under* and **over**"},
		{"setext heading", "Title\n=====", "# Title"},
		{"setext level two", "Setext\n---", "## Setext"},
		{"closing hashes", "## Title ##", "## Title"},
		{"bullets", "* one\n* two", "- one\n- two"},
		{"ordered", "1) a\n2) b", "1. a\n2. b"},
		{"ordered numbers stop at nine digits", "999999998. a\n1. b\n1. c", "999999998. a\n999999999. b\n999999999. c"},
		{"indented code", "    code\n", "```\ncode\n```"},
		{"fenced code", "```go\nfmt.Println(\"hi\")\n```", "```go\nfmt.Println(\"hi\")\n```"},
		{"thematic break", "a\n\n___\n\nb", "a\n\n---\n\nb"},
		{"leading thematic break", "* * *\n\nb", "***\n\nb"},
		{"table", "| a | b |\n|:-|-:|\n| 1 | 2 |", "| a   |   b |\n| :-- | --: |\n| 1   |   2 |"},
		{"intraword underscore kept", "snake_case and 2 * 3", `snake_case and 2 \* 3`},
		{"escaped heading marker", `\# not heading`, `\# not heading`},
		{"escaped ordered marker", `1986\. A great year`, `1986\. A great year`},
		{"escaped bullet", `\- not a list`, `\- not a list`},
		{"hard break", "a  \nb", "a\\\nb"},
		{"soft break joins", "one\ntwo", "one two"},
		{"link with spaces", "[x](<a b>)", "[x](<a b>)"},
		{"link with title", `[text](https://example.com "Title")`, `[text](https://example.com "Title")`},
		{"autolink", "<https://example.com>", "<https://example.com>"},
		{"bare www link", "see www.example.com", "see www.example.com"},
		{"code span with backtick", "`` a`b ``", "``a`b``"},
		{"blockquote", "> quoted\n> text", "> quoted text"},
		{"blockquote paragraphs", "> a\n>\n> b", "> a\n>\n> b"},
		{"task list", "- [ ] todo\n- [x] done", "- [ ] todo\n- [x] done"},
		{"loose list", "- a\n\n- b", "- a\n\n- b"},
		{"nested list", "- one\n- two\n  - nested", "- one\n- two\n  - nested"},
		{"adjacent lists alternate", "- a\n\n\n* b", "- a\n\n* b"},
		{"list after paragraph", "intro\n- a\n- b", "intro\n\n- a\n- b"},
		{"footnote", "Note[^n].\n\n[^n]: Detail.", "Note[^n].\n\n[^n]: Detail."},
		{"front matter", "---\ntitle: x\n---\n# H", "---\ntitle: x\n---\n\n# H"},
		{"html block", "<div>\nhi\n</div>", "<div>\nhi\n</div>"},
		{"strikethrough", "~~gone~~", "~~gone~~"},
		{"strong around emphasis", "**_both_**", "**_both_**"},
		{"strong around asterisk emphasis", "***both** too*", "_**both** too_"},
		{"emphasis around strong", "***both***", "_**both**_"},
		{"strong with leading emphasis", "**_a_ and b**", "**_a_ and b**"},
		{"heading strong around emphasis", "# **_h_**", "# **_h_**"},
		{"pipe in text", "a | b", `a \| b`},
		{"empty document", "", ""},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, canonical(t, e, tt.in, flat))
		})
	}
}

func TestEncodeText_ListOptions(t *testing.T) {
	e := New()
	src := "intro\n- a\n- b"

	got := canonical(t, e, src, types.TextConfig{Width: 80, SpacesBeforeListItem: 1, EmptyLineBeforeList: false})
	assert.Equal(t, "intro\n - a\n - b", got)

	got = canonical(t, e, src, types.TextConfig{Width: 80, SpacesBeforeListItem: 3, EmptyLineBeforeList: true})
	assert.Equal(t, "intro\n\n   - a\n   - b", got)
}

// An ordered list not starting at 1 cannot interrupt a paragraph, so the
// blank line stays regardless of the option.
func TestEncodeText_OrderedListKeepsBlankLine(t *testing.T) {
	e := New()
	got := canonical(t, e, "intro\n\n3. c\n4. d", types.TextConfig{Width: 80, EmptyLineBeforeList: false})
	assert.Equal(t, "intro\n\n3. c\n4. d", got)
}

var idempotenceCorpus = []string{
	"# Hello World\n\nSome *emphasis* and **strong** text.",
	"***both*** and *a **b** c*",
	"A paragraph with `code`, [a link](https://example.com/path?q=1 \"t\"), ![img *alt*](a.png) and <https://example.com>.",
	"- item\n\n  ```\n  code\n  ```\n- other",
	"1. first\n2. second\n   - nested bullet\n   - another\n3. third",
	"> quote with a list\n> - a\n> - b\n>\n> and text",
	"| Name | Qty |\n|:----:|----:|\n| apple | 3 |\n| 日本語 | 12 |",
	"Text with a footnote[^1] and another[^long].\n\n[^1]: First note.\n\n[^long]: A note\n\n    with two paragraphs.",
	"---\ntitle: Example\ntags: [a, b]\n---\n\nBody text.",
	"+++\ntitle = \"toml\"\n+++\n\nBody text.",
	"Entities &copy; &amp; &#35; and AT&T and 1 < 2 > 0.",
	"<span>inline</span> html and <!-- comment --> here",
	"<div>\nblock html\n</div>\n\nafter",
	"line one\\\nline two  \nline three",
	"- [ ] todo with a long description that will need wrapping at narrow widths\n- [x] done",
	"Lorem ipsum dolor sit amet - consectetur adipiscing elit + sed do 1. eiusmod tempor 2) incididunt === ut labore --- et dolore magna aliqua.",
	"- a\n\n\n* b\n\n\n- c",
	"1. a\n\n\n1) b",
	"Paragraph\n\n***\n\n- list\n\n---\n\nend",
	"- ***\n- b",
	"    indented code\n    block\n\nfollowed by text",
	"~~~ with `backticks`\ncode\n~~~",
	"````\n```\nnested fence\n```\n````",
	"snake_case _emph_ __strong__ a_b_c *",
	"Email me at someone@example.com or visit www.example.org today.",
	"Setext\n======\n\nSub\n---",
	"\\# \\> \\- \\+ \\* \\_ \\` \\[ \\] \\\\ \\< \\&amp;",
	"Trailing backslash \\\\\\\nnext line",
	"[^x]: orphan definition\n\nno reference here",
	"Nested > quote\n\n> > inner\n> outer",
	"**_x_**",
	"# **_h_**",
	"- **_item_**\n- [**_link_**](https://example.com)",
	"a **b _c_** and **_d_ e** and _**f**_",
	"***x***",
}

func TestEncodeText_Idempotent(t *testing.T) {
	configs := []types.TextConfig{
		{Width: 80, SpacesBeforeListItem: 1, EmptyLineBeforeList: true},
		{Width: 20, SpacesBeforeListItem: 0, EmptyLineBeforeList: false},
		{Width: 0, SpacesBeforeListItem: 3, EmptyLineBeforeList: true},
	}
	e := New()
	for _, cfg := range configs {
		for _, src := range idempotenceCorpus {
			first := canonical(t, e, src, cfg)
			second := canonical(t, e, first, cfg)
			assert.Equal(t, first, second, "not a fixed point (width %d) for %q", cfg.Width, src)
		}
	}
}

func TestEncodeText_WrapsAtWidth(t *testing.T) {
	e := New()
	src := strings.Repeat("word ", 40)
	got := canonical(t, e, src, types.TextConfig{Width: 30})

	lines := strings.Split(got, "\n")
	require.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, runewidth.StringWidth(line), 30, "line %q", line)
	}

	unwrapped := canonical(t, e, src, types.TextConfig{Width: 0})
	assert.NotContains(t, unwrapped, "\n")
}

func TestEncodeText_NoLineStartsWithBlockMarker(t *testing.T) {
	e := New()
	src := "aaaaaaaaa - b aaaaaaaa + c aaaaaaa 1. d aaaaaaaa === e aaaaaaaaa <span>x</span>"
	got := canonical(t, e, src, types.TextConfig{Width: 10})

	for _, line := range strings.Split(got, "\n") {
		word, _, _ := strings.Cut(line, " ")
		assert.False(t, blockMarker(word), "line %q starts with a block marker", line)
		assert.False(t, strings.HasPrefix(line, "<"), "line %q starts with html", line)
	}

	doc, err := e.DecodeText(got)
	require.NoError(t, err)
	require.Len(t, doc.Blocks, 1)
	assert.Equal(t, types.BlockParagraph, doc.Blocks[0].Kind)
}

func TestEscapeLead(t *testing.T) {
	tests := map[string]string{
		"-":     `\-`,
		"+":     `\+`,
		"===":   `\===`,
		"---":   `\---`,
		"1.":    `1\.`,
		"12)":   `12\)`,
		"1.5":   "1.5",
		"-foo":  "-foo",
		"hello": "hello",
	}
	for in, want := range tests {
		assert.Equal(t, want, escapeLead(in), in)
	}
}

func TestCodeSpan(t *testing.T) {
	assert.Equal(t, "`x`", codeSpan("x", false))
	assert.Equal(t, "``a`b``", codeSpan("a`b", false))
	assert.Equal(t, "`` `x ``", codeSpan("`x", false))
	assert.Equal(t, "`  a  `", codeSpan(" a ", false))
	assert.Equal(t, "` `", codeSpan(" ", false))
	assert.Equal(t, "`a\\|b`", codeSpan("a|b", true))
}
