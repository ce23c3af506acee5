/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders dialogue projects for people: Mermaid flowcharts,
// printable PDF scripts and PNG snapshots of the canvas.
package export

import (
	"fmt"
	"strings"

	"cleardialogue/internal/dialogue"
)

// Mermaid produces a left-to-right Mermaid flowchart of the project:
// text nodes are rectangles, response nodes are rhombi and response
// links carry the response text as edge label. Nodes listed in highlight
// get the "selected" class.
func Mermaid(p *dialogue.Project, highlight ...string) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, n := range p.Nodes {
		opener, closer := "[", "]"
		if n.Kind == dialogue.KindResponse {
			opener, closer = "{", "}"
		}
		label := mermaidText(nodeLabel(n))
		if n.Tag != "" {
			label += " <br/> " + mermaidText(n.Tag)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", mermaidID(n.ID), opener, label, closer)
	}

	for _, l := range p.Links {
		from, to, ok := linkEnds(p, l)
		if !ok {
			continue
		}
		arrow := "-->"
		if from.resp != nil && from.resp.Text != "" {
			arrow = fmt.Sprintf("-- \"%s\" -->", mermaidText(from.resp.Text))
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", mermaidID(from.node.ID), arrow, mermaidID(to.ID))
	}

	if len(highlight) > 0 {
		sb.WriteString("\n    classDef selected fill:#ffeb3b,stroke:#fbc02d,stroke-width:3px,color:#000;\n")
		seen := make(map[string]bool, len(highlight))
		for _, id := range highlight {
			if _, ok := p.Node(id); !ok || seen[id] {
				continue
			}
			seen[id] = true
			fmt.Fprintf(&sb, "    class %s selected;\n", mermaidID(id))
		}
	}
	return sb.String()
}

type source struct {
	node *dialogue.Node
	resp *dialogue.Response
}

func linkEnds(p *dialogue.Project, l dialogue.Link) (source, *dialogue.Node, bool) {
	n, r, err := p.ConnectorOwner(l.From)
	if err != nil {
		return source{}, nil, false
	}
	in, ok := p.Connector(l.To)
	if !ok {
		return source{}, nil, false
	}
	to, ok := p.Node(in.NodeID)
	if !ok {
		return source{}, nil, false
	}
	return source{node: n, resp: r}, to, true
}

func nodeLabel(n *dialogue.Node) string {
	if n.Title != "" {
		return n.Title
	}
	return "(untitled " + string(n.Kind) + ")"
}

// mermaidID turns a node ID into a Mermaid identifier.
func mermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_")
	return "n_" + r.Replace(id)
}

// mermaidText keeps labels from breaking the quoted Mermaid string.
func mermaidText(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.ReplaceAll(s, "\n", " ")
}
