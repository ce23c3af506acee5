/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "fmt"

// Script is a plain-text dialogue script split into scenes.
//
//	# Tavern
//	INNKEEPER: Welcome, traveller. @friendly
//	> Any rooms?
//	> Just a drink.
//	INNKEEPER: Coming right up.
//
// Speaker lines become text nodes, a run of "> " lines becomes one
// response node answering the line before it.
type Script struct {
	Scenes []Scene
}

type Scene struct {
	Title string
	Lines []Line
}

// LineType indicates the kind of a script line.
// Dialogue: SPEAKER: text
// Caption:  CAPTION: text or NARRATION: text
// Choice:   "> text" or "* text", one response of the choice that follows a line
// Note:     lines starting with ";" are author notes and not imported

type LineType int

const (
	LineUnknown LineType = iota
	LineDialogue
	LineCaption
	LineNote
	LineChoice
)

func (t LineType) String() string {
	switch t {
	case LineDialogue:
		return "dialogue"
	case LineCaption:
		return "caption"
	case LineNote:
		return "note"
	case LineChoice:
		return "choice"
	}
	return "unknown"
}

// Line captures a single logical line (possibly with continuations) in a scene.
// For Dialogue, Character holds the upper-cased speaker name.
// For Caption, Character holds the label ("CAPTION" or "NARRATION").

type Line struct {
	Type      LineType
	Character string
	Text      string
	Tags      []string
	LineNo    int // 1-based starting line number in the source
}

// Error represents a parse problem with position context.

type Error struct {
	Line    int
	Column  int
	Message string
}

func (e Error) Error() string { return fmt.Sprintf("line %d:%d: %s", e.Line, e.Column, e.Message) }
