/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"errors"
	"log/slog"
	"slices"

	"cleardialogue/internal/batch"
	"cleardialogue/internal/dialogue"
)

// AddTagToSelection asks for a tag and appends it to every selected node.
func (e *Editor) AddTagToSelection() (batch.Result, error) {
	return e.multiEdit(batch.AddTagTitle, batch.AddTagPrompt, batch.AddTagInitial, batch.AddTag)
}

// RemoveTagFromSelection asks for a tag and removes it from every
// selected node that carries it.
func (e *Editor) RemoveTagFromSelection() (batch.Result, error) {
	return e.multiEdit(batch.RemoveTagTitle, batch.RemoveTagPrompt, "", batch.RemoveTag)
}

// TitleSelection asks for a title template and retitles the selection in
// reading order.
func (e *Editor) TitleSelection() (batch.Result, error) {
	return e.multiEdit(batch.TitleTitle, batch.TitlePrompt, batch.TitleInitial, batch.MultiTitle)
}

func (e *Editor) multiEdit(title, message, initial string, op func([]*dialogue.Node, string) (batch.Result, error)) (batch.Result, error) {
	input, ok := e.prompt.Ask(title, message, initial)
	if !ok {
		input = ""
	}
	// op may reorder its slice; the selection keeps its own order
	nodes := slices.Clone(e.Selection())
	blob, cerr := e.capture()
	res, err := op(nodes, input)
	if errors.Is(err, batch.ErrNoInput) {
		e.dialogs.Error(title, batch.NoInputMessage)
		return res, err
	}
	if err != nil {
		return res, e.fail("batch", err)
	}
	if res.Count > 0 {
		e.record(LabelBatch, blob, cerr)
	}
	e.dialogs.Info(title, res.Message)
	e.log.Info("batch edit", slog.String("op", title), slog.Int("count", res.Count), slog.Bool("not_found", res.NotFound))
	e.sched.Later(func() { e.RefreshAll() })
	return res, nil
}

// Refactor replaces find with replace across the whole project and
// returns the number of fields changed.
func (e *Editor) Refactor(find, replace string) (int, error) {
	if find == "" {
		return 0, batch.ErrNoInput
	}
	blob, cerr := e.capture()
	n := batch.Refactor(e.project, find, replace)
	if n > 0 {
		e.record(LabelRefactor, blob, cerr)
		e.sched.Later(func() { e.RefreshAll() })
	}
	return n, nil
}
