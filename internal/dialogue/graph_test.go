/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dialogue

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectNormalisesDirection(t *testing.T) {
	p := NewProject("p")
	a := p.AddTextNode("A", 0, 0)
	b := p.AddTextNode("B", 300, 0)

	l, err := p.Connect(b.In.ID, a.Out.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Out.ID, l.From)
	assert.Equal(t, b.In.ID, l.To)

	target, ok := p.Target(a.Out.ID)
	require.True(t, ok)
	assert.Equal(t, b.ID, target.ID)
}

func TestConnectRejectsSameType(t *testing.T) {
	p := NewProject("p")
	a := p.AddTextNode("A", 0, 0)
	b := p.AddTextNode("B", 0, 0)

	_, err := p.Connect(a.In.ID, b.In.ID)
	require.ErrorIs(t, err, ErrConnectorTypes)
	_, err = p.Connect(a.Out.ID, b.Out.ID)
	require.ErrorIs(t, err, ErrConnectorTypes)
	assert.Zero(t, p.NumLinks())

	_, err = p.Connect(a.Out.ID, "missing")
	require.ErrorIs(t, err, ErrConnectorNotFound)
}

func TestOutConnectorKeepsSingleLink(t *testing.T) {
	p := NewProject("p")
	a := p.AddTextNode("A", 0, 0)
	b := p.AddTextNode("B", 0, 0)
	c := p.AddTextNode("C", 0, 0)

	_, err := p.Connect(a.Out.ID, b.In.ID)
	require.NoError(t, err)
	_, err = p.Connect(a.Out.ID, c.In.ID)
	require.NoError(t, err)

	links := p.LinksOf(a.Out.ID)
	require.Len(t, links, 1)
	assert.Equal(t, c.In.ID, links[0].To)
	assert.Empty(t, p.LinksOf(b.In.ID))
}

func TestSelfLoopAllowed(t *testing.T) {
	p := NewProject("p")
	a := p.AddTextNode("A", 0, 0)
	_, err := p.Connect(a.Out.ID, a.In.ID)
	require.NoError(t, err)
	require.NoError(t, p.Validate())
}

// randomGraph performs a random sequence of connects and returns every
// connector it used.
func randomGraph(t *testing.T, seed int64) (*Project, []Connector, []Connector) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	p := NewProject("random")
	var outs, ins []Connector
	for i := 0; i < 6; i++ {
		n := p.AddTextNode("t", float64(i), 0)
		outs = append(outs, *n.Out)
		ins = append(ins, n.In)
		rn := p.AddResponseNode("r", float64(i), 100)
		ins = append(ins, rn.In)
		for j := 0; j < 3; j++ {
			r, err := p.AddResponse(rn.ID, "choice")
			require.NoError(t, err)
			outs = append(outs, r.Out)
		}
	}
	for i := 0; i < 200; i++ {
		o := outs[rng.Intn(len(outs))]
		in := ins[rng.Intn(len(ins))]
		if rng.Intn(2) == 0 {
			_, err := p.Connect(o.ID, in.ID)
			require.NoError(t, err)
		} else {
			_, err := p.Connect(in.ID, o.ID)
			require.NoError(t, err)
		}
	}
	return p, outs, ins
}

func TestLinkCardinalityAfterRandomConnects(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		p, outs, ins := randomGraph(t, seed)
		for _, o := range outs {
			assert.LessOrEqual(t, len(p.LinksOf(o.ID)), 1)
		}
		for _, in := range ins {
			sources := map[string]bool{}
			for _, l := range p.Links {
				if l.To == in.ID {
					sources[l.From] = true
				}
			}
			assert.Equal(t, len(sources), len(p.LinksOf(in.ID)))
		}
		require.NoError(t, p.Validate())
	}
}

func TestRemoveNodeCascades(t *testing.T) {
	p, _, _ := randomGraph(t, 42)
	for p.NumNodes() > 0 {
		victim := p.NodeAt(p.NumNodes() / 2)
		_, err := p.RemoveNode(victim.ID)
		require.NoError(t, err)
		for _, c := range victim.Connectors() {
			assert.Empty(t, p.LinksOf(c.ID))
			_, ok := p.Connector(c.ID)
			assert.False(t, ok)
		}
		require.NoError(t, p.Validate())
	}
	assert.Zero(t, p.NumLinks())

	_, err := p.RemoveNode("nope")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestRemoveNodeKeepsOrder(t *testing.T) {
	p := NewProject("p")
	a := p.AddTextNode("A", 0, 0)
	b := p.AddResponseNode("B", 0, 0)
	c := p.AddTextNode("C", 0, 0)
	_, err := p.RemoveNode(b.ID)
	require.NoError(t, err)
	require.Equal(t, 2, p.NumNodes())
	assert.Equal(t, a.ID, p.NodeAt(0).ID)
	assert.Equal(t, c.ID, p.NodeAt(1).ID)
}

func TestResponsesLifecycle(t *testing.T) {
	p := NewProject("p")
	q := p.AddResponseNode("Q", 0, 0)
	target := p.AddTextNode("T", 0, 0)
	r1, err := p.AddResponse(q.ID, "yes")
	require.NoError(t, err)
	r2, err := p.AddResponse(q.ID, "no")
	require.NoError(t, err)
	_, err = p.Connect(r1.Out.ID, target.In.ID)
	require.NoError(t, err)
	_, err = p.Connect(r2.Out.ID, target.In.ID)
	require.NoError(t, err)
	assert.Len(t, p.LinksOf(target.In.ID), 2)

	owner, resp, err := p.ConnectorOwner(r2.Out.ID)
	require.NoError(t, err)
	assert.Equal(t, q.ID, owner.ID)
	assert.Equal(t, r2.ID, resp.ID)

	require.NoError(t, p.MoveResponse(q.ID, 1, 0))
	assert.Equal(t, r2.ID, q.Responses[0].ID)
	assert.Len(t, p.LinksOf(target.In.ID), 2)

	require.NoError(t, p.RemoveResponse(q.ID, r1.ID))
	assert.Len(t, p.LinksOf(target.In.ID), 1)
	assert.Len(t, q.Responses, 1)

	_, err = p.AddResponse(target.ID, "nope")
	assert.ErrorIs(t, err, ErrWrongKind)
	assert.ErrorIs(t, p.RemoveResponse(q.ID, "missing"), ErrResponseNotFound)
	assert.ErrorIs(t, p.MoveResponse(q.ID, 0, 5), ErrResponseNotFound)
}

func TestDisconnect(t *testing.T) {
	p := NewProject("p")
	a := p.AddTextNode("A", 0, 0)
	b := p.AddTextNode("B", 0, 0)
	l, err := p.Connect(a.Out.ID, b.In.ID)
	require.NoError(t, err)
	require.NoError(t, p.Disconnect(l.ID))
	assert.ErrorIs(t, p.Disconnect(l.ID), ErrLinkNotFound)
	assert.Zero(t, p.NumLinks())
}

func TestCloneIsIndependent(t *testing.T) {
	p := NewProject("p")
	q := p.AddResponseNode("Q", 0, 0)
	r, err := p.AddResponse(q.ID, "yes")
	require.NoError(t, err)
	a := p.AddTextNode("A", 0, 0)
	_, err = p.Connect(r.Out.ID, a.In.ID)
	require.NoError(t, err)

	c := p.Clone()
	c.Nodes[0].Responses[0].Text = "changed"
	c.Nodes[1].Out.ID = "changed"
	c.DisconnectAll(r.Out.ID)

	assert.Equal(t, "yes", q.Responses[0].Text)
	assert.NotEqual(t, "changed", a.Out.ID)
	assert.Equal(t, 1, p.NumLinks())
}

func TestValidateReportsProblems(t *testing.T) {
	p := NewProject("p")
	a := p.AddTextNode("A", 0, 0)
	b := p.AddTextNode("B", 0, 0)
	p.Links = append(p.Links,
		Link{ID: "l1", From: a.Out.ID, To: b.In.ID},
		Link{ID: "l2", From: a.Out.ID, To: a.In.ID},
		Link{ID: "l3", From: b.In.ID, To: a.In.ID},
		Link{ID: "l4", From: "ghost", To: a.In.ID},
	)
	err := p.Validate()
	require.ErrorIs(t, err, ErrInvalidProject)
	assert.Contains(t, err.Error(), "more than one link")
	assert.ErrorIs(t, err, ErrConnectorTypes)
	assert.ErrorIs(t, err, ErrConnectorNotFound)
}
