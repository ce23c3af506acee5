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

func TestRebindPreservesLines(t *testing.T) {
	p := dialogue.NewProject("p")
	q := p.AddResponseNode("Q", 0, 0)
	a := p.AddTextNode("A", 300, 0)
	r1, err := p.AddResponse(q.ID, "one")
	require.NoError(t, err)
	r2, err := p.AddResponse(q.ID, "two")
	require.NoError(t, err)
	_, err = p.Connect(r1.Out.ID, a.In.ID)
	require.NoError(t, err)
	_, err = p.Connect(r2.Out.ID, a.In.ID)
	require.NoError(t, err)
	_, err = p.Connect(a.Out.ID, q.In.ID)
	require.NoError(t, err)

	v := NewViews()
	v.Build(q)
	v.Build(a)
	lines := v.Lines(p)
	require.Len(t, lines, 3)
	before := make([]Line, len(lines))
	copy(before, lines)

	// growing the response list rebuilds every view of q
	_, err = p.AddResponse(q.ID, "three")
	require.NoError(t, err)
	fresh := v.Build(q)
	moved := Rebind(lines, fresh)

	assert.Equal(t, 3, moved)
	require.Len(t, lines, len(before))
	for i, l := range lines {
		assert.Equal(t, before[i].LinkID, l.LinkID)
		assert.Equal(t, before[i].From.Connector, l.From.Connector)
		assert.Equal(t, before[i].To.Connector, l.To.Connector)
		for _, e := range []Endpoint{l.From, l.To} {
			c, ok := v.Connector(e.View)
			require.True(t, ok, "endpoint %s points at a retired view", e.Connector)
			assert.Equal(t, e.Connector, c)
		}
	}
}

func TestRebindOneSide(t *testing.T) {
	lines := []Line{{LinkID: "l", From: Endpoint{"o", 1}, To: Endpoint{"i", 2}}}
	moved := Rebind(lines, map[string]ViewID{"i": 7})
	assert.Equal(t, 1, moved)
	assert.Equal(t, ViewID(1), lines[0].From.View)
	assert.Equal(t, ViewID(7), lines[0].To.View)
}

func TestForgetRetiresViews(t *testing.T) {
	p := dialogue.NewProject("p")
	a := p.AddTextNode("A", 0, 0)
	v := NewViews()
	fresh := v.Build(a)
	v.Forget(a)
	_, ok := v.Connector(fresh[a.In.ID])
	assert.False(t, ok)
	_, ok = v.View(a.Out.ID)
	assert.False(t, ok)
}

func TestForgetConnectorKeepsSiblings(t *testing.T) {
	p := dialogue.NewProject("p")
	a := p.AddTextNode("A", 0, 0)
	v := NewViews()
	fresh := v.Build(a)
	v.ForgetConnector(a.Out.ID)
	_, ok := v.View(a.Out.ID)
	assert.False(t, ok)
	_, ok = v.Connector(fresh[a.Out.ID])
	assert.False(t, ok)
	_, ok = v.View(a.In.ID)
	assert.True(t, ok)
}
