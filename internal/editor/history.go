/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"log/slog"

	"cleardialogue/internal/storage"
	"cleardialogue/internal/undo"
)

// Undo labels. Edits with the same label inside the history window
// collapse into one step.
const (
	LabelAddNode        = "add node"
	LabelRemoveNode     = "remove node"
	LabelMoveNode       = "move node"
	LabelEditTitle      = "edit title"
	LabelEditTag        = "edit tag"
	LabelEditText       = "edit text"
	LabelAddResponse    = "add response"
	LabelRemoveResponse = "remove response"
	LabelMoveResponse   = "move response"
	LabelLink           = "link"
	LabelUnlink         = "unlink"
	LabelBatch          = "batch edit"
	LabelRefactor       = "refactor"
)

func (e *Editor) capture() ([]byte, error) {
	return storage.EncodeJSON(e.project)
}

// mutate runs fn as one undoable edit. fn must validate before it changes
// anything so a failed edit leaves no trace.
func (e *Editor) mutate(label string, fn func() error) error {
	blob, cerr := e.capture()
	if err := fn(); err != nil {
		return err
	}
	e.record(label, blob, cerr)
	return nil
}

func (e *Editor) record(label string, blob []byte, captureErr error) {
	e.dirty = true
	e.sched.Later(e.syncLines)
	if captureErr != nil {
		e.log.Warn("edit not undoable", slog.String("label", label), slog.Any("err", captureErr))
		return
	}
	e.history.Push(undo.Snapshot{Label: label, Blob: blob, TS: e.now()})
}

// Undo reverts the latest edit. It reports false when there is nothing to undo.
func (e *Editor) Undo() bool {
	return e.travel(e.history.Undo)
}

// Redo reapplies the latest undone edit.
func (e *Editor) Redo() bool {
	return e.travel(e.history.Redo)
}

func (e *Editor) travel(step func([]byte) (undo.Snapshot, bool)) bool {
	cur, err := e.capture()
	if err != nil {
		e.log.Error("capture before undo failed", slog.Any("err", err))
		return false
	}
	s, ok := step(cur)
	if !ok {
		return false
	}
	p, err := storage.DecodeJSON(s.Blob)
	if err != nil {
		e.log.Error("history snapshot unreadable", slog.String("label", s.Label), slog.Any("err", err))
		return false
	}
	keep := e.selected
	e.load(p, e.location, e.format)
	for _, id := range keep {
		if _, ok := p.Node(id); ok {
			e.selected = append(e.selected, id)
		}
	}
	e.dirty = true
	return true
}
