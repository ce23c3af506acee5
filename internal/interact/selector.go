/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package interact holds the connector selection state machine and the
// bookkeeping that keeps rendered link lines attached to connector views.
// It carries no rendering code; a front-end feeds it pointer events and
// applies the returned cursor hints.
package interact

import (
	"errors"
	"fmt"
	"slices"

	"cleardialogue/internal/dialogue"
)

// State of the selector.
type State int

const (
	Idle State = iota
	Selecting
)

func (s State) String() string {
	if s == Selecting {
		return "selecting"
	}
	return "idle"
}

// Cursor is a hint for the front-end pointer shape.
type Cursor int

const (
	CursorArrow Cursor = iota
	CursorHand
	CursorResize
)

// Policy decides which links are dropped when a connector starts selecting.
type Policy int

const (
	// DropOutOnly drops the single link of an OUT connector and keeps IN links.
	DropOutOnly Policy = iota
	// DropAll drops every link on the pressed connector regardless of type.
	DropAll
)

// ParsePolicy maps a config value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "drop_out_only":
		return DropOutOnly, nil
	case "drop_all":
		return DropAll, nil
	}
	return DropOutOnly, fmt.Errorf("unknown selection policy %q", s)
}

// ErrFocusHeld is reported when another widget holds exclusive focus.
var ErrFocusHeld = errors.New("interaction focus held by another widget")

// Outcome reports what a single event did.
type Outcome struct {
	State     State
	Selecting string
	// Link is set when the event created a link.
	Link *dialogue.Link
	// Dropped counts links removed as a side effect.
	Dropped int
	Cursor  Cursor
	Err     error
}

// Selector owns the pending-selection state for one canvas.
// The zero value is idle with the DropOutOnly policy.
type Selector struct {
	Policy Policy

	selecting string
	// focus is the widget holding interaction focus: a hovered or
	// selecting connector, or a foreign owner registered with Grab.
	focus   string
	foreign bool
}

// State returns the current state and the selecting connector, if any.
func (s *Selector) State() (State, string) {
	if s.selecting != "" {
		return Selecting, s.selecting
	}
	return Idle, ""
}

func (s *Selector) outcome(c Cursor) Outcome {
	st, id := s.State()
	return Outcome{State: st, Selecting: id, Cursor: c}
}

func (s *Selector) canFocus(id string) bool {
	return s.focus == "" || (!s.foreign && s.focus == id)
}

// Grab gives exclusive focus to a non-connector widget (a text field
// being edited, a node being dragged). It fails while a connector is selecting.
func (s *Selector) Grab(owner string) error {
	if s.selecting != "" || (s.foreign && s.focus != owner) {
		return ErrFocusHeld
	}
	s.focus, s.foreign = owner, true
	return nil
}

// Release returns focus taken with Grab.
func (s *Selector) Release(owner string) {
	if s.foreign && s.focus == owner {
		s.focus, s.foreign = "", false
	}
}

// Enter handles the pointer entering a connector.
func (s *Selector) Enter(id string) Outcome {
	if s.canFocus(id) || s.selecting != "" {
		if s.focus == "" {
			s.focus = id
		}
		return s.outcome(CursorHand)
	}
	return s.outcome(CursorArrow)
}

// Exit handles the pointer leaving a connector. A connector that is not
// selecting gives its hover focus back; a pending selection keeps going.
func (s *Selector) Exit(id string) Outcome {
	if s.canFocus(id) && s.selecting != id {
		if s.focus == id {
			s.focus = ""
		}
		return s.outcome(CursorArrow)
	}
	if s.selecting != "" {
		return s.outcome(CursorResize)
	}
	return s.outcome(CursorArrow)
}

// Cancel forces the selector back to idle.
func (s *Selector) Cancel() Outcome {
	s.end()
	return s.outcome(CursorArrow)
}

func (s *Selector) end() {
	s.selecting = ""
	if !s.foreign {
		s.focus = ""
	}
}

// Press handles a primary-button press on connector pressed. hovered lists
// every connector under the pointer at the time of the press.
func (s *Selector) Press(p *dialogue.Project, pressed string, hovered []string) Outcome {
	switch {
	case s.selecting == pressed:
		for _, h := range hovered {
			if h != pressed {
				// the other connector's own press completes the gesture
				return s.outcome(CursorResize)
			}
		}
		return s.Cancel()

	case s.selecting != "":
		return s.connect(p, s.selecting, pressed)
	}

	if !slices.Contains(hovered, pressed) {
		return s.outcome(CursorArrow)
	}
	if !s.canFocus(pressed) {
		out := s.outcome(CursorArrow)
		out.Err = ErrFocusHeld
		return out
	}
	c, ok := p.Connector(pressed)
	if !ok {
		out := s.outcome(CursorArrow)
		out.Err = fmt.Errorf("press %s: %w", pressed, dialogue.ErrConnectorNotFound)
		return out
	}
	dropped := 0
	if c.Type == dialogue.Out || s.Policy == DropAll {
		dropped = p.DisconnectAll(c.ID)
	}
	s.selecting, s.focus, s.foreign = c.ID, c.ID, false
	out := s.outcome(CursorResize)
	out.Dropped = dropped
	return out
}

func (s *Selector) connect(p *dialogue.Project, source, target string) Outcome {
	s.end()
	l, err := p.Connect(source, target)
	if err != nil {
		out := s.outcome(CursorArrow)
		out.Err = fmt.Errorf("link %s -> %s: %w", source, target, err)
		return out
	}
	out := s.outcome(CursorArrow)
	out.Link = &l
	return out
}
