/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package interact

import "cleardialogue/internal/dialogue"

// ViewID identifies a transient connector view built by a front-end.
// Views are rebuilt whenever a node refreshes; connector IDs are stable.
type ViewID uint64

// Views tracks which connector each live view represents.
type Views struct {
	next   ViewID
	byView map[ViewID]string
	byConn map[string]ViewID
}

// NewViews returns an empty registry.
func NewViews() *Views {
	return &Views{byView: map[ViewID]string{}, byConn: map[string]ViewID{}}
}

// Build registers fresh views for every connector of n, retiring the
// previous ones, and returns the new connector-to-view mapping.
func (v *Views) Build(n *dialogue.Node) map[string]ViewID {
	fresh := make(map[string]ViewID)
	for _, c := range n.Connectors() {
		if old, ok := v.byConn[c.ID]; ok {
			delete(v.byView, old)
		}
		v.next++
		v.byView[v.next] = c.ID
		v.byConn[c.ID] = v.next
		fresh[c.ID] = v.next
	}
	return fresh
}

// Forget retires every view of a removed node.
func (v *Views) Forget(n *dialogue.Node) {
	for _, c := range n.Connectors() {
		v.ForgetConnector(c.ID)
	}
}

// ForgetConnector retires the view of a single removed connector.
func (v *Views) ForgetConnector(connectorID string) {
	if id, ok := v.byConn[connectorID]; ok {
		delete(v.byView, id)
		delete(v.byConn, connectorID)
	}
}

// Connector resolves a view to its connector.
func (v *Views) Connector(id ViewID) (string, bool) {
	c, ok := v.byView[id]
	return c, ok
}

// View returns the live view for a connector.
func (v *Views) View(connectorID string) (ViewID, bool) {
	id, ok := v.byConn[connectorID]
	return id, ok
}

// Endpoint is one end of a rendered line.
type Endpoint struct {
	Connector string
	View      ViewID
}

// Line is a rendered link.
type Line struct {
	LinkID   string
	From, To Endpoint
}

// Lines builds one line per project link using the live views.
func (v *Views) Lines(p *dialogue.Project) []Line {
	lines := make([]Line, 0, len(p.Links))
	for _, l := range p.Links {
		lines = append(lines, Line{
			LinkID: l.ID,
			From:   Endpoint{Connector: l.From, View: v.byConn[l.From]},
			To:     Endpoint{Connector: l.To, View: v.byConn[l.To]},
		})
	}
	return lines
}

// Rebind re-points line endpoints at freshly built views. Endpoints are
// matched by connector ID, each side independently; no line is added or
// dropped. It returns the number of endpoints that moved.
func Rebind(lines []Line, fresh map[string]ViewID) int {
	moved := 0
	for i := range lines {
		for _, e := range []*Endpoint{&lines[i].From, &lines[i].To} {
			if id, ok := fresh[e.Connector]; ok && id != e.View {
				e.View = id
				moved++
			}
		}
	}
	return moved
}
