/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"bufio"
	"regexp"
	"slices"
	"strings"
)

var (
	reScene    = regexp.MustCompile(`^(#+)\s*(.*)$`)
	reSceneAlt = regexp.MustCompile(`^(?i)\s*Scene:\s*(.+)$`)
	reName     = regexp.MustCompile(`^([A-Za-z0-9_\- ]{1,64})\s*:\s*(.*)$`)
	reChoice   = regexp.MustCompile(`^[>*]\s*(.*)$`)
	reTag      = regexp.MustCompile(`(?i)@([a-z0-9_\-]+)`) // tags like @tag-name
)

// extractTags returns the sorted, de-duplicated @tags in s.
func extractTags(s string) []string {
	var out []string
	for _, f := range reTag.FindAllStringSubmatch(s, -1) {
		if t := strings.ToLower(strings.TrimSpace(f[1])); t != "" {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

func mergeTags(a, b []string) []string {
	out := append(slices.Clone(a), b...)
	slices.Sort(out)
	return slices.Compact(out)
}

// Parse parses a script text into a structured Script.
// Supported syntax:
// - Scene headings: lines starting with "#" or "Scene:". The rest of the line is the title.
// - Dialogue: NAME: text (NAME is upper-cased).
// - Caption: CAPTION: text or NARRATION: text.
// - Choices: "> text" or "* text".
// - Continuation lines indented by 2+ spaces are appended to the previous dialogue, caption or choice.
// - Notes: lines starting with ';'.
//
// A choice with no line before it in its scene is kept but reported.
func Parse(input string) (Script, []Error) {
	s := Script{Scenes: []Scene{}}
	var errs []Error

	scanner := bufio.NewScanner(strings.NewReader(input))
	lineNo := 0
	currentScene := Scene{}
	var lastLine *Line

	flushScene := func() {
		if strings.TrimSpace(currentScene.Title) != "" || len(currentScene.Lines) > 0 {
			s.Scenes = append(s.Scenes, currentScene)
		}
	}
	add := func(ln Line) {
		currentScene.Lines = append(currentScene.Lines, ln)
		lastLine = &currentScene.Lines[len(currentScene.Lines)-1]
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")

		// indented continuation of the previous spoken line
		if strings.HasPrefix(line, "  ") && lastLine != nil && lastLine.Type != LineNote && lastLine.Type != LineUnknown {
			if cont := strings.TrimSpace(line); cont != "" {
				lastLine.Text += "\n" + cont
				lastLine.Tags = mergeTags(lastLine.Tags, extractTags(cont))
			}
			continue
		}

		trim := strings.TrimSpace(line)
		if trim == "" {
			lastLine = nil
			continue
		}

		if m := reScene.FindStringSubmatch(trim); m != nil {
			flushScene()
			currentScene = Scene{Title: strings.TrimSpace(m[2])}
			lastLine = nil
			continue
		}
		if m := reSceneAlt.FindStringSubmatch(trim); m != nil {
			flushScene()
			currentScene = Scene{Title: strings.TrimSpace(m[1])}
			lastLine = nil
			continue
		}

		if strings.HasPrefix(trim, ";") {
			currentScene.Lines = append(currentScene.Lines, Line{Type: LineNote, Text: strings.TrimSpace(strings.TrimPrefix(trim, ";")), LineNo: lineNo})
			lastLine = nil
			continue
		}

		if m := reChoice.FindStringSubmatch(trim); m != nil {
			text := strings.TrimSpace(m[1])
			if !hasSpoken(currentScene.Lines) {
				errs = append(errs, Error{Line: lineNo, Column: 1, Message: "choice without a line to answer"})
			}
			add(Line{Type: LineChoice, Text: text, Tags: extractTags(text), LineNo: lineNo})
			continue
		}

		if m := reName.FindStringSubmatch(trim); m != nil {
			upper := strings.ToUpper(strings.TrimSpace(m[1]))
			text := strings.TrimSpace(m[2])
			lt := LineDialogue
			if upper == "CAPTION" || upper == "NARRATION" {
				lt = LineCaption
			}
			add(Line{Type: lt, Character: upper, Text: text, Tags: extractTags(text), LineNo: lineNo})
			continue
		}

		// no scene yet: start an implicit one
		if len(s.Scenes) == 0 && strings.TrimSpace(currentScene.Title) == "" && len(currentScene.Lines) == 0 {
			currentScene.Title = "Untitled"
		}
		// keep unknown text so nothing is lost
		add(Line{Type: LineUnknown, Text: trim, Tags: extractTags(trim), LineNo: lineNo})
	}
	flushScene()

	if err := scanner.Err(); err != nil {
		errs = append(errs, Error{Line: lineNo, Column: 1, Message: err.Error()})
	}
	return s, errs
}

func hasSpoken(lines []Line) bool {
	for _, l := range lines {
		if l.Type != LineNote {
			return true
		}
	}
	return false
}
