/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

import (
	"math"

	"cleardialogue/internal/dialogue"
)

// Node geometry in canvas units.
const (
	NodeWidth       = 200
	NodeHeight      = 200
	TitleHeight     = 30
	ResponseRowH    = 40
	ConnectorRadius = 20
)

// NodeRect is the canvas rectangle a node occupies. Response nodes grow
// one row per response once the rows outgrow the default height.
func NodeRect(n *dialogue.Node) Rect {
	h := float64(NodeHeight)
	if n.Kind == dialogue.KindResponse {
		h = math.Max(float64(TitleHeight+10+len(n.Responses)*ResponseRowH), NodeHeight)
	}
	return R(n.X, n.Y, NodeWidth, h)
}

// ConnectorAnchor is the canvas point a link line attaches to. IN sits on
// the left edge, OUT on the right; response OUTs line up with their row.
func ConnectorAnchor(n *dialogue.Node, connectorID string) (Pt, bool) {
	r := NodeRect(n)
	if n.In.ID == connectorID {
		return Pt{r.X, r.Y + r.H/2}, true
	}
	if n.Out != nil && n.Out.ID == connectorID {
		return Pt{r.X + r.W, r.Y + r.H/2}, true
	}
	for i, resp := range n.Responses {
		if resp.Out.ID == connectorID {
			y := r.Y + TitleHeight + float64(i*ResponseRowH) + ResponseRowH/2
			return Pt{r.X + r.W, y}, true
		}
	}
	return Pt{}, false
}

// LinkSegment returns both anchors of a link.
func LinkSegment(p *dialogue.Project, l dialogue.Link) (from, to Pt, ok bool) {
	from, ok = anchorOf(p, l.From)
	if !ok {
		return Pt{}, Pt{}, false
	}
	to, ok = anchorOf(p, l.To)
	return from, to, ok
}

func anchorOf(p *dialogue.Project, connectorID string) (Pt, bool) {
	n, _, err := p.ConnectorOwner(connectorID)
	if err != nil {
		return Pt{}, false
	}
	return ConnectorAnchor(n, connectorID)
}

// HitNode returns the top-most node containing pt. Later nodes draw on top.
func HitNode(p *dialogue.Project, pt Pt) (*dialogue.Node, bool) {
	for i := p.NumNodes() - 1; i >= 0; i-- {
		n := p.NodeAt(i)
		if NodeRect(n).Contains(pt) {
			return n, true
		}
	}
	return nil, false
}

// HitConnectors lists every connector whose disc contains pt, top-most node first.
func HitConnectors(p *dialogue.Project, pt Pt) []string {
	var hits []string
	for i := p.NumNodes() - 1; i >= 0; i-- {
		n := p.NodeAt(i)
		for _, c := range n.Connectors() {
			a, ok := ConnectorAnchor(n, c.ID)
			if ok && a.Dist(pt) <= ConnectorRadius {
				hits = append(hits, c.ID)
			}
		}
	}
	return hits
}

// Highlight returns the nodes whose rectangle intersects sel, in project order.
func Highlight(p *dialogue.Project, sel Rect) []*dialogue.Node {
	var out []*dialogue.Node
	for _, n := range p.Nodes {
		if NodeRect(n).Intersects(sel) {
			out = append(out, n)
		}
	}
	return out
}

// ContentBounds is the union of all node rectangles.
func ContentBounds(p *dialogue.Project) (Rect, bool) {
	if p.NumNodes() == 0 {
		return Rect{}, false
	}
	b := NodeRect(p.NodeAt(0))
	for _, n := range p.Nodes[1:] {
		b = b.Union(NodeRect(n))
	}
	return b, true
}
