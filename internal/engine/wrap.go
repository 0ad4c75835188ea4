// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type segKind int

const (
	segWord  segKind = iota // glued to the word being built
	segSpace                // breakable whitespace
	segBreak                // forced line break
)

type segment struct {
	kind segKind
	text string
	// alt replaces text for a break when the line already ends with a
	// backslash, where a backslash break would read as an escape.
	alt string
}

// lineBuilder collects inline output as words and breakable spaces and lays
// it out into lines. All three renderers share it so wrapping behaves the
// same everywhere.
type lineBuilder struct {
	segs []segment
}

// word appends s to the current word without allowing a break inside it.
func (b *lineBuilder) word(s string) {
	if s != "" {
		b.segs = append(b.segs, segment{kind: segWord, text: s})
	}
}

// text appends s, allowing breaks at ASCII whitespace. Other spaces, such
// as U+00A0, stay inside their word.
func (b *lineBuilder) text(s string) {
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			b.word(s[start:i])
			b.space()
			start = i + 1
		}
	}
	b.word(s[start:])
}

func (b *lineBuilder) space() {
	if n := len(b.segs); n > 0 && b.segs[n-1].kind == segSpace {
		return
	}
	b.segs = append(b.segs, segment{kind: segSpace})
}

// lineBreak ends the current line with suffix.
func (b *lineBuilder) lineBreak(suffix, alt string) {
	b.segs = append(b.segs, segment{kind: segBreak, text: suffix, alt: alt})
}

// words coalesces glued segments into whole words.
func (b *lineBuilder) words() []segment {
	var out []segment
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, segment{kind: segWord, text: cur.String()})
			cur.Reset()
		}
	}
	for _, s := range b.segs {
		if s.kind == segWord {
			cur.WriteString(s.text)
			continue
		}
		flush()
		out = append(out, s)
	}
	flush()
	return out
}

// layout describes how a run of inline content is broken into lines.
type layout struct {
	// width is the display width available to the text; 0 disables
	// wrapping.
	width int
	// canStart reports whether a word may begin a wrapped line. Nil allows
	// every word.
	canStart func(word string) bool
	// lead rewrites the word that begins the content or follows a forced
	// break. Nil leaves it unchanged.
	lead func(word string) string
}

// lines lays the builder out greedily. Spaces at line boundaries are
// dropped; a word wider than the available width gets a line of its own.
func (b *lineBuilder) lines(l layout) []string {
	var lines []string
	var line strings.Builder
	lineWidth := 0
	space := false

	for _, t := range b.words() {
		switch t.kind {
		case segSpace:
			space = line.Len() > 0
		case segBreak:
			suffix := t.text
			if t.alt != "" && strings.HasSuffix(line.String(), `\`) {
				suffix = t.alt
			}
			line.WriteString(suffix)
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
			space = false
		default:
			text := t.text
			w := runewidth.StringWidth(text)
			switch {
			case line.Len() == 0:
				if l.lead != nil {
					text = l.lead(text)
					w = runewidth.StringWidth(text)
				}
				line.WriteString(text)
				lineWidth = w
			case space && l.width > 0 && lineWidth+1+w > l.width && (l.canStart == nil || l.canStart(text)):
				lines = append(lines, line.String())
				line.Reset()
				line.WriteString(text)
				lineWidth = w
			case space:
				line.WriteByte(' ')
				line.WriteString(text)
				lineWidth += 1 + w
			default:
				line.WriteString(text)
				lineWidth += w
			}
			space = false
		}
	}
	return append(lines, line.String())
}

// single renders the builder on one line, turning forced breaks into
// spaces.
func (b *lineBuilder) single() string {
	var parts []string
	for _, t := range b.words() {
		if t.kind == segWord {
			parts = append(parts, t.text)
		}
	}
	return strings.Join(parts, " ")
}

// available narrows width by an indentation, keeping a small floor so deep
// nesting still wraps sensibly. A zero width stays zero.
func available(width, indent int) int {
	if width <= 0 {
		return 0
	}
	return max(width-indent, min(width, 20))
}
