/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dialogue

import (
	"errors"
	"fmt"
)

// Validate checks structural consistency of a decoded project: unique IDs,
// connector ownership, node kind payloads and link endpoint typing.
// All problems are reported together, wrapped in ErrInvalidProject.
func (p *Project) Validate() error {
	var problems []error
	nodes := make(map[string]bool, len(p.Nodes))
	conns := make(map[string]Connector, len(p.Nodes)*2)

	addConn := func(c Connector, wantType ConnectorType, nodeID, responseID string) {
		switch {
		case c.ID == "":
			problems = append(problems, fmt.Errorf("node %s: connector without id", nodeID))
			return
		case conns[c.ID].ID != "":
			problems = append(problems, fmt.Errorf("duplicate connector id %s", c.ID))
			return
		case c.Type != wantType:
			problems = append(problems, fmt.Errorf("connector %s: type %q, want %q", c.ID, c.Type, wantType))
		case c.NodeID != nodeID || c.ResponseID != responseID:
			problems = append(problems, fmt.Errorf("connector %s: owner mismatch", c.ID))
		}
		conns[c.ID] = c
	}

	for i, n := range p.Nodes {
		if n == nil {
			problems = append(problems, fmt.Errorf("node #%d is null", i))
			continue
		}
		if n.ID == "" {
			problems = append(problems, fmt.Errorf("node #%d: missing id", i))
			continue
		}
		if nodes[n.ID] {
			problems = append(problems, fmt.Errorf("duplicate node id %s", n.ID))
			continue
		}
		nodes[n.ID] = true
		addConn(n.In, In, n.ID, "")
		switch n.Kind {
		case KindText:
			if n.Out == nil {
				problems = append(problems, fmt.Errorf("text node %s: missing out connector", n.ID))
			} else {
				addConn(*n.Out, Out, n.ID, "")
			}
			if len(n.Responses) > 0 {
				problems = append(problems, fmt.Errorf("text node %s: has responses", n.ID))
			}
		case KindResponse:
			if n.Out != nil {
				problems = append(problems, fmt.Errorf("response node %s: unexpected node-level out connector", n.ID))
			}
			for _, r := range n.Responses {
				if r == nil || r.ID == "" {
					problems = append(problems, fmt.Errorf("response node %s: response without id", n.ID))
					continue
				}
				addConn(r.Out, Out, n.ID, r.ID)
			}
		default:
			problems = append(problems, fmt.Errorf("node %s: unknown kind %q", n.ID, n.Kind))
		}
	}

	links := make(map[string]bool, len(p.Links))
	fanOut := make(map[string]int, len(p.Links))
	for _, l := range p.Links {
		if links[l.ID] {
			problems = append(problems, fmt.Errorf("duplicate link id %s", l.ID))
		}
		links[l.ID] = true
		from, okFrom := conns[l.From]
		to, okTo := conns[l.To]
		if !okFrom || !okTo {
			problems = append(problems, fmt.Errorf("link %s: dangling endpoint: %w", l.ID, ErrConnectorNotFound))
			continue
		}
		if from.Type != Out || to.Type != In {
			problems = append(problems, fmt.Errorf("link %s: %w", l.ID, ErrConnectorTypes))
			continue
		}
		fanOut[l.From]++
		if fanOut[l.From] == 2 {
			problems = append(problems, fmt.Errorf("out connector %s has more than one link", l.From))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidProject, errors.Join(problems...))
	}
	return nil
}
