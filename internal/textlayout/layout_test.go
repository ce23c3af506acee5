/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import "testing"

func TestWordWrap(t *testing.T) {
	l := New(BasicProvider{})
	box := l.Layout("Hello world from Go", nil, 50)
	if len(box.Lines) < 2 {
		t.Fatalf("expected wrapping into multiple lines, got %d", len(box.Lines))
	}
	if box.Width <= 0 || box.Height != float64(len(box.Lines))*box.LineHeight {
		t.Fatalf("unexpected box size: %+v", box)
	}
	for _, ln := range box.Lines {
		if s := ln.String(); s == "" || s[len(s)-1] == ' ' {
			t.Fatalf("line has trailing space or is empty: %q", s)
		}
	}
}

func TestNewlinesAndEmptyText(t *testing.T) {
	l := New(nil)
	box := l.Layout("one\ntwo", nil, 0)
	if len(box.Lines) != 2 || box.Lines[0].String() != "one" || box.Lines[1].String() != "two" {
		t.Fatalf("unexpected lines: %+v", box.Lines)
	}
	if box := l.Layout("", nil, 100); len(box.Lines) != 1 {
		t.Fatalf("empty text should give one empty line, got %d", len(box.Lines))
	}
}

func TestKeywordRuns(t *testing.T) {
	l := New(BasicProvider{})
	box := l.Layout("say GOTO end", []string{"GOTO"}, 0)
	if len(box.Lines) != 1 {
		t.Fatalf("expected one line, got %d", len(box.Lines))
	}
	var kw []string
	for _, r := range box.Lines[0].Runs {
		if r.Keyword {
			kw = append(kw, r.Text)
		}
	}
	if len(kw) != 1 || kw[0] != "GOTO" {
		t.Fatalf("keyword runs = %v", kw)
	}

	// keyword inside a word splits the word
	got := runs("xGOTOy", 0, 6, nil)
	if len(got) != 1 {
		t.Fatalf("no spans should give one run, got %v", got)
	}
	box = l.Layout("xGOTOy", []string{"GOTO"}, 0)
	if r := box.Lines[0].Runs; len(r) != 3 || !r[1].Keyword || r[0].Text != "x" || r[2].Text != "y" {
		t.Fatalf("unexpected split: %+v", r)
	}
}

func TestMeasureAndTruncate(t *testing.T) {
	l := New(BasicProvider{})
	if l.Measure("ABC") != 3*l.Measure("A") {
		t.Fatalf("basic font should be monospaced")
	}
	s := l.Truncate("A very long node title", 70)
	if l.Measure(s) > 70 || s[len(s)-3:] != "..." {
		t.Fatalf("truncate = %q", s)
	}
	if got := l.Truncate("short", 500); got != "short" {
		t.Fatalf("short text must be kept, got %q", got)
	}
}
