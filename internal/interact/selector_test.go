/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package interact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleardialogue/internal/dialogue"
)

func twoNodes() (*dialogue.Project, *dialogue.Node, *dialogue.Node) {
	p := dialogue.NewProject("p")
	a := p.AddTextNode("A", 0, 0)
	b := p.AddTextNode("B", 300, 0)
	return p, a, b
}

func TestPressThenPressConnects(t *testing.T) {
	p, a, b := twoNodes()
	var s Selector

	out := s.Press(p, a.Out.ID, []string{a.Out.ID})
	require.NoError(t, out.Err)
	assert.Equal(t, Selecting, out.State)
	assert.Equal(t, a.Out.ID, out.Selecting)
	assert.Equal(t, CursorResize, out.Cursor)

	out = s.Press(p, b.In.ID, []string{b.In.ID})
	require.NoError(t, out.Err)
	require.NotNil(t, out.Link)
	assert.Equal(t, a.Out.ID, out.Link.From)
	assert.Equal(t, b.In.ID, out.Link.To)
	assert.Equal(t, Idle, out.State)
	assert.Equal(t, CursorArrow, out.Cursor)
	assert.Equal(t, 1, p.NumLinks())
}

func TestConnectFromInDropsOldOutLink(t *testing.T) {
	p, a, b := twoNodes()
	c := p.AddTextNode("C", 0, 300)
	_, err := p.Connect(a.Out.ID, c.In.ID)
	require.NoError(t, err)

	var s Selector
	s.Press(p, b.In.ID, []string{b.In.ID})
	out := s.Press(p, a.Out.ID, []string{a.Out.ID})
	require.NoError(t, out.Err)

	links := p.LinksOf(a.Out.ID)
	require.Len(t, links, 1)
	assert.Equal(t, b.In.ID, links[0].To)
}

func TestPressSameConnectorCancels(t *testing.T) {
	p, a, _ := twoNodes()
	var s Selector
	s.Press(p, a.Out.ID, []string{a.Out.ID})
	out := s.Press(p, a.Out.ID, []string{a.Out.ID})
	assert.Equal(t, Idle, out.State)
	assert.Zero(t, p.NumLinks())
}

func TestPressSelectingIgnoredOverOtherConnector(t *testing.T) {
	p, a, b := twoNodes()
	var s Selector
	s.Press(p, a.Out.ID, []string{a.Out.ID})
	out := s.Press(p, a.Out.ID, []string{a.Out.ID, b.In.ID})
	assert.Equal(t, Selecting, out.State)
	assert.Equal(t, a.Out.ID, out.Selecting)
}

func TestPressNotHoveredIgnored(t *testing.T) {
	p, a, _ := twoNodes()
	var s Selector
	out := s.Press(p, a.Out.ID, nil)
	assert.Equal(t, Idle, out.State)
	assert.NoError(t, out.Err)
}

func TestSameTypeLinkRejected(t *testing.T) {
	p, a, b := twoNodes()
	var s Selector
	s.Press(p, a.In.ID, []string{a.In.ID})
	out := s.Press(p, b.In.ID, []string{b.In.ID})
	require.ErrorIs(t, out.Err, dialogue.ErrConnectorTypes)
	assert.Equal(t, Idle, out.State)
	assert.Nil(t, out.Link)
	assert.Zero(t, p.NumLinks())
}

func TestSelectionPolicy(t *testing.T) {
	tests := []struct {
		name      string
		policy    Policy
		wantLinks int
	}{
		{"drop out only keeps in links", DropOutOnly, 2},
		{"drop all clears in links", DropAll, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, a, b := twoNodes()
			c := p.AddTextNode("C", 0, 0)
			_, err := p.Connect(a.Out.ID, c.In.ID)
			require.NoError(t, err)
			_, err = p.Connect(b.Out.ID, c.In.ID)
			require.NoError(t, err)

			s := Selector{Policy: tt.policy}
			out := s.Press(p, c.In.ID, []string{c.In.ID})
			require.NoError(t, out.Err)
			assert.Equal(t, tt.wantLinks, p.NumLinks())
			assert.Equal(t, 2-tt.wantLinks, out.Dropped)
		})
	}
}

func TestSelectingOutDropsItsLink(t *testing.T) {
	p, a, b := twoNodes()
	_, err := p.Connect(a.Out.ID, b.In.ID)
	require.NoError(t, err)
	var s Selector
	out := s.Press(p, a.Out.ID, []string{a.Out.ID})
	assert.Equal(t, 1, out.Dropped)
	assert.Zero(t, p.NumLinks())
}

func TestFocusGrabBlocksSelection(t *testing.T) {
	p, a, _ := twoNodes()
	var s Selector
	require.NoError(t, s.Grab("title-field"))
	out := s.Press(p, a.Out.ID, []string{a.Out.ID})
	assert.ErrorIs(t, out.Err, ErrFocusHeld)
	assert.Equal(t, Idle, out.State)

	s.Release("title-field")
	out = s.Press(p, a.Out.ID, []string{a.Out.ID})
	require.NoError(t, out.Err)
	assert.Equal(t, Selecting, out.State)
	assert.ErrorIs(t, s.Grab("title-field"), ErrFocusHeld)
}

func TestHoverCursor(t *testing.T) {
	p, a, b := twoNodes()
	var s Selector
	assert.Equal(t, CursorHand, s.Enter(a.Out.ID).Cursor)
	assert.Equal(t, CursorArrow, s.Exit(a.Out.ID).Cursor)

	s.Enter(a.Out.ID)
	s.Press(p, a.Out.ID, []string{a.Out.ID})
	assert.Equal(t, CursorResize, s.Exit(a.Out.ID).Cursor)
	assert.Equal(t, CursorHand, s.Enter(b.In.ID).Cursor)
	assert.Equal(t, CursorResize, s.Exit(b.In.ID).Cursor)
	st, id := s.State()
	assert.Equal(t, Selecting, st)
	assert.Equal(t, a.Out.ID, id)
}

func TestParsePolicy(t *testing.T) {
	pol, err := ParsePolicy("drop_all")
	require.NoError(t, err)
	assert.Equal(t, DropAll, pol)
	pol, err = ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, DropOutOnly, pol)
	_, err = ParsePolicy("bogus")
	assert.Error(t, err)
}
