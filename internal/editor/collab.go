/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

// Dialogs shows messages and file choosers. OpenFile and SaveFile report
// false when the user cancels.
type Dialogs interface {
	Info(title, message string)
	Error(title, message string)
	OpenFile(title, dir, filter string, exts []string) (string, bool)
	SaveFile(title, dir, filter string, ext string) (string, bool)
}

// Prompt asks for a single line of text.
type Prompt interface {
	Ask(title, message, initial string) (string, bool)
}

// Scheduler defers layout work until the current mutation completes.
// Callbacks run on the goroutine that calls Flush, in queue order;
// callbacks queued while flushing run in the same Flush.
type Scheduler struct {
	queue []func()
}

// Later queues fn.
func (s *Scheduler) Later(fn func()) {
	if fn != nil {
		s.queue = append(s.queue, fn)
	}
}

// Pending reports the number of queued callbacks.
func (s *Scheduler) Pending() int { return len(s.queue) }

// Flush runs queued callbacks until the queue is empty and returns how many ran.
func (s *Scheduler) Flush() int {
	n := 0
	for len(s.queue) > 0 {
		fn := s.queue[0]
		s.queue = s.queue[1:]
		fn()
		n++
	}
	return n
}

type nopDialogs struct{}

func (nopDialogs) Info(string, string)  {}
func (nopDialogs) Error(string, string) {}
func (nopDialogs) OpenFile(string, string, string, []string) (string, bool) {
	return "", false
}
func (nopDialogs) SaveFile(string, string, string, string) (string, bool) {
	return "", false
}

type nopPrompt struct{}

func (nopPrompt) Ask(string, string, string) (string, bool) { return "", false }
