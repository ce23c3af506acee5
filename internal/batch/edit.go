/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package batch applies tag and title edits to a selection of nodes and
// find/replace refactors to whole projects.
package batch

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"cleardialogue/internal/dialogue"
)

// AutoNumber is replaced by the 1-based reading-order index in MultiTitle.
const AutoNumber = "[[#NUM]]"

// Dialog titles and prompts shown by front-ends.
const (
	AddTagTitle     = "Multi-Tag (Insertion)"
	AddTagPrompt    = "Input a tag to insert into all of the selected DialogueNodes.\n\n*Note: Spaces must be added manually."
	AddTagInitial   = "New Tag"
	RemoveTagTitle  = "Multi-Tag (Removal)"
	RemoveTagPrompt = "Input a tag to remove from all of the selected DialogueNodes.\n\n*Note: Spaces must be added manually."
	TitleTitle      = "Multi-Title"
	TitlePrompt     = "Input a title for the selected dialogue nodes.\n\n*Note: You can add " + AutoNumber +
		" to the name to automatically add the node's number to the name.\n\nFor example, Node " + AutoNumber +
		" would result in Node 1, Node 2, so on."
	TitleInitial = "New Title " + AutoNumber
)

// NoInputMessage is shown when a prompt was cancelled or left empty.
const NoInputMessage = "No tag was inputted."

// ErrNoInput is returned for an empty tag or title.
var ErrNoInput = errors.New("no input")

// Result summarises a batch edit.
type Result struct {
	Count    int
	NotFound bool
	Message  string
}

// AddTag appends tag to the tag of every node.
func AddTag(nodes []*dialogue.Node, tag string) (Result, error) {
	if tag == "" {
		return Result{}, ErrNoInput
	}
	for _, n := range nodes {
		n.Tag += tag
	}
	return Result{
		Count:   len(nodes),
		Message: fmt.Sprintf("%s was inserted successfully into %d nodes.", tag, len(nodes)),
	}, nil
}

// RemoveTag removes the first occurrence of tag from every node whose tag
// contains it. Zero matches is reported through NotFound, not an error.
func RemoveTag(nodes []*dialogue.Node, tag string) (Result, error) {
	if tag == "" {
		return Result{}, ErrNoInput
	}
	n := 0
	for _, node := range nodes {
		if strings.Contains(node.Tag, tag) {
			node.Tag = strings.Replace(node.Tag, tag, "", 1)
			n++
		}
	}
	if n == 0 {
		return Result{NotFound: true, Message: fmt.Sprintf("%q wasn't found in any nodes.", tag)}, nil
	}
	return Result{Count: n, Message: fmt.Sprintf("%q was removed successfully from %d nodes.", tag, n)}, nil
}

// ReadingOrder sorts nodes top to bottom, then left to right. The sort is
// stable so nodes at the same position keep selection order.
func ReadingOrder(nodes []*dialogue.Node) {
	slices.SortStableFunc(nodes, func(a, b *dialogue.Node) int {
		return cmp.Or(cmp.Compare(a.Y, b.Y), cmp.Compare(a.X, b.X))
	})
}

// MultiTitle sorts nodes into reading order and titles them from template,
// substituting AutoNumber with each node's 1-based position.
func MultiTitle(nodes []*dialogue.Node, template string) (Result, error) {
	if template == "" {
		return Result{}, ErrNoInput
	}
	ReadingOrder(nodes)
	for i, n := range nodes {
		n.Title = strings.ReplaceAll(template, AutoNumber, strconv.Itoa(i+1))
	}
	return Result{
		Count:   len(nodes),
		Message: fmt.Sprintf("%q was set on %d nodes.", template, len(nodes)),
	}, nil
}
