/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"fmt"
	"log/slog"
	"slices"

	"cleardialogue/internal/dialogue"
	"cleardialogue/internal/interact"
	"cleardialogue/internal/viewport"
)

// AddTextNode places a text node at canvas position (x, y).
func (e *Editor) AddTextNode(title string, x, y float64) *dialogue.Node {
	var n *dialogue.Node
	_ = e.mutate(LabelAddNode, func() error {
		n = e.project.AddTextNode(title, x, y)
		e.views.Build(n)
		return nil
	})
	return n
}

// AddResponseNode places an empty response node at canvas position (x, y).
func (e *Editor) AddResponseNode(title string, x, y float64) *dialogue.Node {
	var n *dialogue.Node
	_ = e.mutate(LabelAddNode, func() error {
		n = e.project.AddResponseNode(title, x, y)
		e.views.Build(n)
		return nil
	})
	return n
}

// AddNodeAt places a node under a scene point such as the pointer.
func (e *Editor) AddNodeAt(kind dialogue.NodeKind, title string, scene viewport.Pt) (*dialogue.Node, error) {
	c := e.View.ToCanvas(scene)
	switch kind {
	case dialogue.KindText:
		return e.AddTextNode(title, c.X, c.Y), nil
	case dialogue.KindResponse:
		return e.AddResponseNode(title, c.X, c.Y), nil
	}
	return nil, fmt.Errorf("add node: %w", dialogue.ErrWrongKind)
}

// RemoveNode deletes a node and every link touching it.
func (e *Editor) RemoveNode(id string) error {
	n, ok := e.project.Node(id)
	if !ok {
		return fmt.Errorf("remove %s: %w", id, dialogue.ErrNodeNotFound)
	}
	if _, sel := e.sel.State(); sel != "" {
		if c, ok := e.project.Connector(sel); ok && c.NodeID == id {
			e.sel.Cancel()
		}
	}
	return e.mutate(LabelRemoveNode, func() error {
		dropped, err := e.project.RemoveNode(id)
		if err != nil {
			return err
		}
		e.views.Forget(n)
		e.selected = slices.DeleteFunc(e.selected, func(s string) bool { return s == id })
		e.log.Debug("node removed", slog.String("node", id), slog.Int("links", dropped))
		return nil
	})
}

// MoveNode sets a node's canvas position. Consecutive moves of a drag
// collapse into one undo step.
func (e *Editor) MoveNode(id string, x, y float64) error {
	e.guides = nil
	return e.mutate(LabelMoveNode, func() error { return e.project.SetPosition(id, x, y) })
}

// DragNode moves a node by a scene-space pointer delta. With a snap
// threshold configured the node lines up with nearby nodes and Guides
// reports the alignment.
func (e *Editor) DragNode(id string, delta viewport.Pt) error {
	n, ok := e.project.Node(id)
	if !ok {
		return fmt.Errorf("drag %s: %w", id, dialogue.ErrNodeNotFound)
	}
	s := e.View.Scale
	x, y, guides := viewport.SnapNode(e.project, id, n.X+delta.X/s, n.Y+delta.Y/s, viewport.SnapOptions{
		Threshold:     e.cfg.Canvas.SnapThreshold,
		SnapToEdges:   true,
		SnapToCenters: true,
	})
	if err := e.MoveNode(id, x, y); err != nil {
		return err
	}
	e.guides = guides
	return nil
}

// Guides are the alignment lines of the last drag.
func (e *Editor) Guides() []viewport.Guide { return e.guides }

func (e *Editor) editNode(label, id string, fn func(n *dialogue.Node) error) error {
	n, ok := e.project.Node(id)
	if !ok {
		return fmt.Errorf("%s %s: %w", label, id, dialogue.ErrNodeNotFound)
	}
	return e.mutate(label, func() error { return fn(n) })
}

// SetTitle renames a node.
func (e *Editor) SetTitle(id, title string) error {
	return e.editNode(LabelEditTitle, id, func(n *dialogue.Node) error {
		n.Title = title
		return nil
	})
}

// SetTag replaces a node's tag text.
func (e *Editor) SetTag(id, tag string) error {
	return e.editNode(LabelEditTag, id, func(n *dialogue.Node) error {
		n.Tag = tag
		return nil
	})
}

// SetText replaces a text node's body.
func (e *Editor) SetText(id, text string) error {
	return e.editNode(LabelEditText, id, func(n *dialogue.Node) error {
		if n.Kind != dialogue.KindText {
			return fmt.Errorf("set text on %s: %w", id, dialogue.ErrWrongKind)
		}
		n.Text = text
		return nil
	})
}

// SetResponseText replaces the text of one response.
func (e *Editor) SetResponseText(nodeID, responseID, text string) error {
	return e.editNode(LabelEditText, nodeID, func(n *dialogue.Node) error {
		r, _, ok := n.Response(responseID)
		if !ok {
			return fmt.Errorf("set response %s: %w", responseID, dialogue.ErrResponseNotFound)
		}
		r.Text = text
		return nil
	})
}

// AddResponse appends a response row. The node grows, so its connector
// views are rebuilt once layout runs.
func (e *Editor) AddResponse(nodeID, text string) (*dialogue.Response, error) {
	var r *dialogue.Response
	err := e.mutate(LabelAddResponse, func() error {
		var err error
		r, err = e.project.AddResponse(nodeID, text)
		return err
	})
	if err != nil {
		return nil, err
	}
	e.refreshLater(nodeID)
	return r, nil
}

// RemoveResponse deletes a response row and its link.
func (e *Editor) RemoveResponse(nodeID, responseID string) error {
	if _, sel := e.sel.State(); sel != "" {
		if c, ok := e.project.Connector(sel); ok && c.ResponseID == responseID {
			e.sel.Cancel()
		}
	}
	if err := e.mutate(LabelRemoveResponse, func() error {
		var out string
		if n, ok := e.project.Node(nodeID); ok {
			if r, _, ok := n.Response(responseID); ok {
				out = r.Out.ID
			}
		}
		if err := e.project.RemoveResponse(nodeID, responseID); err != nil {
			return err
		}
		e.views.ForgetConnector(out)
		return nil
	}); err != nil {
		return err
	}
	e.refreshLater(nodeID)
	return nil
}

// MoveResponse reorders response rows.
func (e *Editor) MoveResponse(nodeID string, from, to int) error {
	if err := e.mutate(LabelMoveResponse, func() error {
		return e.project.MoveResponse(nodeID, from, to)
	}); err != nil {
		return err
	}
	e.refreshLater(nodeID)
	return nil
}

// Disconnect removes one link.
func (e *Editor) Disconnect(linkID string) error {
	return e.mutate(LabelUnlink, func() error { return e.project.Disconnect(linkID) })
}

// EnterConnector handles the pointer entering a connector.
func (e *Editor) EnterConnector(id string) interact.Outcome { return e.sel.Enter(id) }

// ConnectorExited handles the pointer leaving a connector.
func (e *Editor) ConnectorExited(id string) interact.Outcome { return e.sel.Exit(id) }

// CancelConnector abandons a pending link selection.
func (e *Editor) CancelConnector() interact.Outcome { return e.sel.Cancel() }

// SelectorState returns the selector state and the selecting connector.
func (e *Editor) SelectorState() (interact.State, string) { return e.sel.State() }

// Grab gives interaction focus to a non-connector widget.
func (e *Editor) Grab(owner string) error { return e.sel.Grab(owner) }

// Release returns focus taken with Grab.
func (e *Editor) Release(owner string) { e.sel.Release(owner) }

// PressConnector feeds a primary press on a connector into the selector.
// hovered lists every connector under the pointer. Links dropped or
// created by the press form one undo step.
func (e *Editor) PressConnector(pressed string, hovered []string) interact.Outcome {
	blob, cerr := e.capture()
	out := e.sel.Press(e.project, pressed, hovered)
	if out.Err != nil {
		e.log.Debug("connector press rejected", slog.String("connector", pressed), slog.Any("err", out.Err))
	}
	switch {
	case out.Link != nil:
		e.record(LabelLink, blob, cerr)
	case out.Dropped > 0:
		e.record(LabelUnlink, blob, cerr)
	}
	return out
}

// PressAt resolves a scene point to connectors and presses the top-most one.
func (e *Editor) PressAt(scene viewport.Pt) (interact.Outcome, bool) {
	hovered := viewport.HitConnectors(e.project, e.View.ToCanvas(scene))
	if len(hovered) == 0 {
		return interact.Outcome{}, false
	}
	return e.PressConnector(hovered[0], hovered), true
}

// Lines is the current set of rendered link lines.
func (e *Editor) Lines() []interact.Line { return slices.Clone(e.lines) }

// ViewOf returns the live view for a connector.
func (e *Editor) ViewOf(connectorID string) (interact.ViewID, bool) { return e.views.View(connectorID) }

// Refresh rebuilds a node's connector views and points existing lines at
// them. It returns how many line endpoints moved.
func (e *Editor) Refresh(nodeID string) (int, error) {
	n, ok := e.project.Node(nodeID)
	if !ok {
		return 0, fmt.Errorf("refresh %s: %w", nodeID, dialogue.ErrNodeNotFound)
	}
	fresh := e.views.Build(n)
	return interact.Rebind(e.lines, fresh), nil
}

// RefreshAll rebuilds every node.
func (e *Editor) RefreshAll() int {
	moved := 0
	for _, n := range e.project.Nodes {
		m, _ := e.Refresh(n.ID)
		moved += m
	}
	return moved
}

func (e *Editor) refreshLater(nodeID string) {
	e.sched.Later(func() {
		if _, err := e.Refresh(nodeID); err != nil {
			e.log.Debug("deferred refresh skipped", slog.Any("err", err))
		}
	})
}

// syncLines drops lines of removed links and adds lines for new ones,
// keeping surviving lines and their views as they are.
func (e *Editor) syncLines() {
	live := make(map[string]bool, len(e.project.Links))
	for _, l := range e.project.Links {
		live[l.ID] = true
	}
	have := make(map[string]bool, len(e.lines))
	kept := e.lines[:0]
	for _, ln := range e.lines {
		if live[ln.LinkID] {
			kept = append(kept, ln)
			have[ln.LinkID] = true
		}
	}
	e.lines = kept
	for _, ln := range e.views.Lines(e.project) {
		if !have[ln.LinkID] {
			e.lines = append(e.lines, ln)
		}
	}
}

// PointerPressed starts a pan (primary) or a highlight drag (secondary).
func (e *Editor) PointerPressed(b viewport.Buttons, scene viewport.Pt) { e.View.Press(b, scene) }

// PointerDragged continues the current viewport gesture.
func (e *Editor) PointerDragged(b viewport.Buttons, scene viewport.Pt) { e.View.Drag(b, scene) }

// PointerReleased ends the gesture. A highlight drag selects the nodes it covers.
func (e *Editor) PointerReleased(scene viewport.Pt) []*dialogue.Node {
	r, ok := e.View.Release(scene)
	if !ok {
		return nil
	}
	return e.HighlightSelect(r)
}

// Zoom scales the canvas one step per scroll event, anchored at the pointer.
func (e *Editor) Zoom(delta float64, scene viewport.Pt) { e.View.ZoomAt(delta, scene) }

// FitView frames all nodes inside a view of the given size.
func (e *Editor) FitView(view viewport.Size) {
	if r, ok := viewport.ContentBounds(e.project); ok {
		e.View.Fit(r, view, 40)
	}
}

// HighlightSelect replaces the selection with the nodes meeting r (canvas coordinates).
func (e *Editor) HighlightSelect(r viewport.Rect) []*dialogue.Node {
	nodes := viewport.Highlight(e.project, r)
	e.selected = e.selected[:0]
	for _, n := range nodes {
		e.selected = append(e.selected, n.ID)
	}
	return nodes
}

// Select replaces the selection. Unknown IDs are an error and leave the
// selection unchanged.
func (e *Editor) Select(ids ...string) error {
	for _, id := range ids {
		if _, ok := e.project.Node(id); !ok {
			return fmt.Errorf("select %s: %w", id, dialogue.ErrNodeNotFound)
		}
	}
	seen := make(map[string]bool, len(ids))
	e.selected = e.selected[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			e.selected = append(e.selected, id)
		}
	}
	return nil
}

// SelectAll selects every node.
func (e *Editor) SelectAll() {
	e.selected = e.selected[:0]
	for _, n := range e.project.Nodes {
		e.selected = append(e.selected, n.ID)
	}
}

// ClearSelection empties the selection.
func (e *Editor) ClearSelection() { e.selected = nil }

// Selection returns the selected nodes in selection order.
func (e *Editor) Selection() []*dialogue.Node {
	out := make([]*dialogue.Node, 0, len(e.selected))
	for _, id := range e.selected {
		if n, ok := e.project.Node(id); ok {
			out = append(out, n)
		}
	}
	return out
}
