/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"fmt"
	"strings"

	"cleardialogue/internal/dialogue"
)

// Layout of imported nodes: one row per scene, one column per step.
const (
	ColumnSpacing = 300
	RowSpacing    = 320
)

// Build turns a parsed script into a project. Each scene is a chain
// starting at the left of its own row: every line links to the next, and
// every response of a choice links to the line after the choice. Scene
// titles and @tags become node tags, comma separated.
func Build(s Script, name string) (*dialogue.Project, error) {
	p := dialogue.NewProject(name)
	for row, sc := range s.Scenes {
		y := float64(row * RowSpacing)
		col := 0
		var pending []string
		next := func(in string) error {
			for _, out := range pending {
				if _, err := p.Connect(out, in); err != nil {
					return fmt.Errorf("scene %q: %w", sc.Title, err)
				}
			}
			return nil
		}

		lines := sc.Lines
		for i := 0; i < len(lines); i++ {
			ln := lines[i]
			x := float64(col * ColumnSpacing)
			switch ln.Type {
			case LineNote:
				continue
			case LineChoice:
				n := p.AddResponseNode("", x, y)
				var tags []string
				for ; i < len(lines) && lines[i].Type == LineChoice; i++ {
					if _, err := p.AddResponse(n.ID, lines[i].Text); err != nil {
						return nil, err
					}
					tags = mergeTags(tags, lines[i].Tags)
				}
				i--
				n.Tag = tagFor(sc.Title, tags)
				if err := next(n.In.ID); err != nil {
					return nil, err
				}
				pending = pending[:0]
				for _, c := range n.OutConnectors() {
					pending = append(pending, c.ID)
				}
			default:
				n := p.AddTextNode(ln.Character, x, y)
				n.Text = ln.Text
				n.Tag = tagFor(sc.Title, ln.Tags)
				if err := next(n.In.ID); err != nil {
					return nil, err
				}
				pending = append(pending[:0], n.Out.ID)
			}
			col++
		}
	}
	return p, nil
}

// Import parses input and builds a project from it. Parse problems are
// returned alongside the project; they never stop the import.
func Import(input, name string) (*dialogue.Project, []Error, error) {
	s, errs := Parse(input)
	p, err := Build(s, name)
	return p, errs, err
}

func tagFor(scene string, tags []string) string {
	parts := make([]string, 0, len(tags)+1)
	if scene = strings.TrimSpace(scene); scene != "" {
		parts = append(parts, scene)
	}
	return strings.Join(append(parts, tags...), ",")
}
