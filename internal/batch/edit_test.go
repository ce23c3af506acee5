/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cleardialogue/internal/dialogue"
)

func TestMultiTitleReadingOrder(t *testing.T) {
	p := dialogue.NewProject("p")
	a := p.AddTextNode("A", 10, 50)
	b := p.AddTextNode("B", 10, 10)
	c := p.AddTextNode("C", 5, 10)

	res, err := MultiTitle([]*dialogue.Node{a, b, c}, "Line [[#NUM]]")
	require.NoError(t, err)
	assert.Equal(t, "Line 1", c.Title)
	assert.Equal(t, "Line 2", b.Title)
	assert.Equal(t, "Line 3", a.Title)
	assert.Equal(t, 3, res.Count)
	assert.Equal(t, `"Line [[#NUM]]" was set on 3 nodes.`, res.Message)
}

func TestMultiTitleWithoutToken(t *testing.T) {
	p := dialogue.NewProject("p")
	a := p.AddTextNode("A", 0, 0)
	b := p.AddResponseNode("B", 0, 10)
	_, err := MultiTitle([]*dialogue.Node{b, a}, "Intro")
	require.NoError(t, err)
	assert.Equal(t, "Intro", a.Title)
	assert.Equal(t, "Intro", b.Title)
}

func TestRemoveTag(t *testing.T) {
	p := dialogue.NewProject("p")
	tags := []string{"foo,bar", "bar,baz", "qux"}
	var nodes []*dialogue.Node
	for _, tag := range tags {
		n := p.AddTextNode("", 0, 0)
		n.Tag = tag
		nodes = append(nodes, n)
	}

	res, err := RemoveTag(nodes, "bar")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
	assert.False(t, res.NotFound)
	assert.Equal(t, "foo,", nodes[0].Tag)
	assert.Equal(t, ",baz", nodes[1].Tag)
	assert.Equal(t, "qux", nodes[2].Tag)
	assert.Equal(t, `"bar" was removed successfully from 2 nodes.`, res.Message)
}

func TestRemoveTagFirstOccurrenceOnly(t *testing.T) {
	n := &dialogue.Node{Tag: "a,a"}
	_, err := RemoveTag([]*dialogue.Node{n}, "a")
	require.NoError(t, err)
	assert.Equal(t, ",a", n.Tag)
}

func TestRemoveTagNotFound(t *testing.T) {
	n := &dialogue.Node{Tag: "qux"}
	res, err := RemoveTag([]*dialogue.Node{n}, "bar")
	require.NoError(t, err)
	assert.True(t, res.NotFound)
	assert.Zero(t, res.Count)
	assert.Equal(t, `"bar" wasn't found in any nodes.`, res.Message)
}

func TestAddTag(t *testing.T) {
	nodes := []*dialogue.Node{{Tag: "x"}, {}}
	res, err := AddTag(nodes, ",npc")
	require.NoError(t, err)
	assert.Equal(t, "x,npc", nodes[0].Tag)
	assert.Equal(t, ",npc", nodes[1].Tag)
	assert.Equal(t, ",npc was inserted successfully into 2 nodes.", res.Message)
}

func TestEmptyInput(t *testing.T) {
	nodes := []*dialogue.Node{{Tag: "x"}}
	for name, fn := range map[string]func([]*dialogue.Node, string) (Result, error){
		"add":    AddTag,
		"remove": RemoveTag,
		"title":  MultiTitle,
	} {
		_, err := fn(nodes, "")
		assert.ErrorIs(t, err, ErrNoInput, name)
	}
	assert.Equal(t, "x", nodes[0].Tag)
}

func TestRefactor(t *testing.T) {
	p := dialogue.NewProject("p")
	a := p.AddTextNode("Hero speaks", 0, 0)
	a.Text = "Hero: hi Hero"
	a.Tag = "hero"
	q := p.AddResponseNode("Ask", 0, 0)
	_, err := p.AddResponse(q.ID, "Ask the Hero")
	require.NoError(t, err)
	_, err = p.AddResponse(q.ID, "Walk away")
	require.NoError(t, err)

	assert.Equal(t, 3, Refactor(p, "Hero", "Villain"))
	assert.Equal(t, "Villain speaks", a.Title)
	assert.Equal(t, "Villain: hi Villain", a.Text)
	assert.Equal(t, "hero", a.Tag)
	assert.Equal(t, "Ask the Villain", q.Responses[0].Text)
	assert.Equal(t, "Walk away", q.Responses[1].Text)
	assert.Zero(t, Refactor(p, "", "x"))
}

func TestRefactorIsLiteral(t *testing.T) {
	p := dialogue.NewProject("p")
	q := p.AddResponseNode("Q", 0, 0)
	_, err := p.AddResponse(q.ID, "a.b axb")
	require.NoError(t, err)
	assert.Equal(t, 1, Refactor(p, "a.b", "c"))
	assert.Equal(t, "c axb", q.Responses[0].Text)
}
