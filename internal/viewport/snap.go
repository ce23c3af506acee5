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

// Snapping of dragged nodes against the other nodes on the canvas.
// Snapping happens independently in X and Y.

// SnapOptions controls which guide candidates are considered.
type SnapOptions struct {
	// Threshold is the maximum canvas distance at which snapping occurs.
	// Zero disables snapping.
	Threshold     float64
	SnapToEdges   bool
	SnapToCenters bool
}

// Guide is an alignment line to show while dragging. Vertical guides sit
// at x = Position, horizontal ones at y = Position.
type Guide struct {
	Vertical bool
	Center   bool
	Position float64
	From, To Pt
}

type candidate struct {
	delta float64
	dist  float64
	guide Guide
}

func (c *candidate) consider(delta, threshold float64, g Guide) {
	d := math.Abs(delta)
	if d <= threshold && d < c.dist {
		*c = candidate{delta: delta, dist: d, guide: g}
	}
}

// Snap aligns moving to the closest edge or centre of the anchors within
// the threshold and returns the adjusted rectangle with the guides that
// caused the adjustment.
func Snap(moving Rect, anchors []Rect, opt SnapOptions) (Rect, []Guide) {
	if opt.Threshold <= 0 || len(anchors) == 0 {
		return moving, nil
	}
	bx := candidate{dist: math.Inf(1)}
	by := candidate{dist: math.Inf(1)}
	mL, mR, mT, mB := moving.X, moving.X+moving.W, moving.Y, moving.Y+moving.H
	mc := moving.Center()

	for _, a := range anchors {
		aL, aR, aT, aB := a.X, a.X+a.W, a.Y, a.Y+a.H
		ac := a.Center()
		if opt.SnapToEdges {
			// same edges, then abutting edges
			bx.consider(mL-aL, opt.Threshold, vertical(aL, moving, a, false))
			bx.consider(mR-aR, opt.Threshold, vertical(aR, moving, a, false))
			bx.consider(mL-aR, opt.Threshold, vertical(aR, moving, a, false))
			bx.consider(mR-aL, opt.Threshold, vertical(aL, moving, a, false))
			by.consider(mT-aT, opt.Threshold, horizontal(aT, moving, a, false))
			by.consider(mB-aB, opt.Threshold, horizontal(aB, moving, a, false))
			by.consider(mT-aB, opt.Threshold, horizontal(aB, moving, a, false))
			by.consider(mB-aT, opt.Threshold, horizontal(aT, moving, a, false))
		}
		if opt.SnapToCenters {
			bx.consider(mc.X-ac.X, opt.Threshold, vertical(ac.X, moving, a, true))
			by.consider(mc.Y-ac.Y, opt.Threshold, horizontal(ac.Y, moving, a, true))
		}
	}

	var guides []Guide
	out := moving
	if !math.IsInf(bx.dist, 1) {
		out.X -= bx.delta
		guides = append(guides, bx.guide)
	}
	if !math.IsInf(by.dist, 1) {
		out.Y -= by.delta
		guides = append(guides, by.guide)
	}
	return out, guides
}

func vertical(x float64, a, b Rect, center bool) Guide {
	return Guide{
		Vertical: true,
		Center:   center,
		Position: x,
		From:     Pt{x, min(a.Y, b.Y)},
		To:       Pt{x, max(a.Y+a.H, b.Y+b.H)},
	}
}

func horizontal(y float64, a, b Rect, center bool) Guide {
	return Guide{
		Center:   center,
		Position: y,
		From:     Pt{min(a.X, b.X), y},
		To:       Pt{max(a.X+a.W, b.X+b.W), y},
	}
}

// SnapNode snaps node id, placed at (x, y), against every other node.
func SnapNode(p *dialogue.Project, id string, x, y float64, opt SnapOptions) (float64, float64, []Guide) {
	n, ok := p.Node(id)
	if !ok || opt.Threshold <= 0 {
		return x, y, nil
	}
	r := NodeRect(n)
	r.X, r.Y = x, y
	anchors := make([]Rect, 0, len(p.Nodes))
	for _, o := range p.Nodes {
		if o.ID != id {
			anchors = append(anchors, NodeRect(o))
		}
	}
	s, guides := Snap(r, anchors, opt)
	return s.X, s.Y, guides
}
