/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleardialogue/internal/dialogue"
)

func TestNodeRectGrowsWithResponses(t *testing.T) {
	p := dialogue.NewProject("p")
	q := p.AddResponseNode("Q", 10, 20)
	assert.Equal(t, R(10, 20, NodeWidth, NodeHeight), NodeRect(q))
	for i := 0; i < 6; i++ {
		_, err := p.AddResponse(q.ID, "r")
		require.NoError(t, err)
	}
	assert.Equal(t, float64(TitleHeight+10+6*ResponseRowH), NodeRect(q).H)
}

func TestConnectorHitTesting(t *testing.T) {
	p := dialogue.NewProject("p")
	a := p.AddTextNode("A", 0, 0)
	q := p.AddResponseNode("Q", 400, 0)
	r, err := p.AddResponse(q.ID, "yes")
	require.NoError(t, err)

	in, ok := ConnectorAnchor(a, a.In.ID)
	require.True(t, ok)
	assert.Equal(t, Pt{0, 100}, in)
	out, ok := ConnectorAnchor(q, r.Out.ID)
	require.True(t, ok)
	assert.Equal(t, Pt{600, TitleHeight + ResponseRowH/2}, out)

	assert.Equal(t, []string{a.In.ID}, HitConnectors(p, Pt{5, 95}))
	assert.Equal(t, []string{r.Out.ID}, HitConnectors(p, out))
	assert.Empty(t, HitConnectors(p, Pt{100, 100}))

	_, ok = ConnectorAnchor(a, r.Out.ID)
	assert.False(t, ok)
}

func TestHitNodeTopMost(t *testing.T) {
	p := dialogue.NewProject("p")
	a := p.AddTextNode("A", 0, 0)
	b := p.AddTextNode("B", 100, 100)
	n, ok := HitNode(p, Pt{150, 150})
	require.True(t, ok)
	assert.Equal(t, b.ID, n.ID)
	n, ok = HitNode(p, Pt{50, 50})
	require.True(t, ok)
	assert.Equal(t, a.ID, n.ID)
	_, ok = HitNode(p, Pt{-1, -1})
	assert.False(t, ok)
}

func TestHighlightSelectsIntersecting(t *testing.T) {
	p := dialogue.NewProject("p")
	a := p.AddTextNode("A", 0, 0)
	p.AddTextNode("B", 1000, 0)
	c := p.AddTextNode("C", 0, 400)
	got := Highlight(p, Corners(Pt{150, 150}, Pt{50, 450}))
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, c.ID, got[1].ID)

	b, ok := ContentBounds(p)
	require.True(t, ok)
	assert.Equal(t, R(0, 0, 1200, 600), b)
}

func TestLinkSegment(t *testing.T) {
	p := dialogue.NewProject("p")
	a := p.AddTextNode("A", 0, 0)
	b := p.AddTextNode("B", 300, 0)
	l, err := p.Connect(a.Out.ID, b.In.ID)
	require.NoError(t, err)
	from, to, ok := LinkSegment(p, l)
	require.True(t, ok)
	assert.Equal(t, Pt{200, 100}, from)
	assert.Equal(t, Pt{300, 100}, to)
}
