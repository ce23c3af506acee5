/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// terminal implements the editor's Dialogs and Prompt on a line based
// console. An empty answer to a file chooser, or end of input, cancels.
type terminal struct {
	in  *bufio.Reader
	out io.Writer
	err io.Writer
}

func newTerminal(in io.Reader, out, errOut io.Writer) *terminal {
	return &terminal{in: bufio.NewReader(in), out: out, err: errOut}
}

func (t *terminal) Info(title, message string) {
	_, _ = fmt.Fprintf(t.out, "%s: %s\n", title, message)
}

func (t *terminal) Error(title, message string) {
	_, _ = fmt.Fprintf(t.err, "%s: %s\n", title, message)
}

func (t *terminal) readLine() (string, bool) {
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

func (t *terminal) choose(title, dir, filter string, exts []string) (string, bool) {
	_, _ = fmt.Fprintf(t.out, "%s\n%s (%s) in %s\n> ", title, filter, strings.Join(exts, ", "), dir)
	line, ok := t.readLine()
	line = strings.TrimSpace(line)
	if !ok || line == "" {
		return "", false
	}
	if !filepath.IsAbs(line) {
		line = filepath.Join(dir, line)
	}
	return line, true
}

func (t *terminal) OpenFile(title, dir, filter string, exts []string) (string, bool) {
	return t.choose(title, dir, filter, exts)
}

func (t *terminal) SaveFile(title, dir, filter string, ext string) (string, bool) {
	return t.choose(title, dir, filter, []string{ext})
}

// Ask shows message and reads one line. An empty line keeps initial.
func (t *terminal) Ask(title, message, initial string) (string, bool) {
	_, _ = fmt.Fprintf(t.out, "%s\n%s\n[%s] > ", title, message, initial)
	line, ok := t.readLine()
	if !ok {
		return "", false
	}
	if line == "" {
		return initial, true
	}
	return line, true
}

// answer is a Prompt that always replies with the value given on the
// command line.
type answer string

func (a answer) Ask(string, string, string) (string, bool) { return string(a), true }
