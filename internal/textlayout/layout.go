/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package textlayout breaks node text into lines that fit a node box and
// marks syntax keywords so renderers can colour them.
package textlayout

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"cleardialogue/internal/dialogue"
)

// Provider supplies the face text is measured with.
type Provider interface {
	Face() font.Face
}

// BasicProvider uses x/image/basicfont Face7x13; deterministic and
// available without font files.
type BasicProvider struct{}

func (BasicProvider) Face() font.Face { return basicfont.Face7x13 }

// Run is a piece of a line drawn in one style.
type Run struct {
	Text    string
	Keyword bool
}

// Line is one laid out line.
type Line struct {
	Runs  []Run
	Width float64
}

// String returns the plain text of the line.
func (l Line) String() string {
	var b strings.Builder
	for _, r := range l.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// Box is the result of laying out text into a width.
type Box struct {
	Lines      []Line
	Width      float64
	Height     float64
	LineHeight float64
}

// Layouter breaks on spaces and newlines. It does no shaping or
// hyphenation; a word wider than the box gets a line of its own.
type Layouter struct{ Provider Provider }

func New(p Provider) *Layouter { return &Layouter{Provider: p} }

func (l *Layouter) face() font.Face {
	if l.Provider == nil {
		return BasicProvider{}.Face()
	}
	return l.Provider.Face()
}

// LineHeight is the distance between baselines.
func (l *Layouter) LineHeight() float64 {
	return float64(l.face().Metrics().Height.Ceil())
}

// Measure returns the advance width of s in pixels.
func (l *Layouter) Measure(s string) float64 {
	d := &font.Drawer{Face: l.face()}
	return float64(d.MeasureString(s).Ceil())
}

// Layout wraps text into maxWidth (0 means unbounded) and marks keyword runs.
func (l *Layouter) Layout(text string, keywords []string, maxWidth float64) Box {
	spans := dialogue.Highlights(text, keywords)
	box := Box{LineHeight: l.LineHeight()}
	space := l.Measure(" ")
	var cur Line
	addLine := func() {
		// drop the trailing space run left by the last word
		if n := len(cur.Runs); n > 0 && cur.Runs[n-1].Text == " " {
			cur.Runs = cur.Runs[:n-1]
			cur.Width -= space
		}
		box.Lines = append(box.Lines, cur)
		box.Width = max(box.Width, cur.Width)
		box.Height += box.LineHeight
		cur = Line{}
	}

	start := 0
	for i := 0; i <= len(text); i++ {
		if i < len(text) && text[i] != ' ' && text[i] != '\n' {
			continue
		}
		if start < i {
			word := text[start:i]
			w := l.Measure(word)
			if cur.Width > 0 && maxWidth > 0 && cur.Width+w > maxWidth {
				addLine()
			}
			cur.Runs = append(cur.Runs, runs(text, start, i, spans)...)
			cur.Width += w
		}
		if i < len(text) {
			if text[i] == '\n' {
				addLine()
			} else if cur.Width > 0 {
				cur.Runs = append(cur.Runs, Run{Text: " "})
				cur.Width += space
			}
		}
		start = i + 1
	}
	if len(cur.Runs) > 0 || len(box.Lines) == 0 {
		addLine()
	}
	return box
}

// Truncate shortens s with a trailing "..." so it fits maxWidth.
func (l *Layouter) Truncate(s string, maxWidth float64) string {
	if l.Measure(s) <= maxWidth {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		if c := string(r) + "..."; l.Measure(c) <= maxWidth {
			return c
		}
	}
	return ""
}

// runs splits text[from:to] at keyword span boundaries.
func runs(text string, from, to int, spans []dialogue.Span) []Run {
	var out []Run
	pos := from
	for _, sp := range spans {
		if sp.End <= pos || sp.Start >= to {
			continue
		}
		if sp.Start > pos {
			out = append(out, Run{Text: text[pos:sp.Start]})
			pos = sp.Start
		}
		end := min(sp.End, to)
		out = append(out, Run{Text: text[pos:end], Keyword: true})
		pos = end
	}
	if pos < to {
		out = append(out, Run{Text: text[pos:to]})
	}
	return out
}
