/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package batch

import (
	"strings"

	"cleardialogue/internal/dialogue"
)

// Refactor replaces every exact occurrence of find in titles, tags, text
// and response text across the project. It returns how many fields changed.
func Refactor(p *dialogue.Project, find, replace string) int {
	if find == "" {
		return 0
	}
	changed := 0
	sub := func(s *string) {
		if r := strings.ReplaceAll(*s, find, replace); r != *s {
			*s = r
			changed++
		}
	}
	for _, n := range p.Nodes {
		sub(&n.Title)
		sub(&n.Tag)
		switch n.Kind {
		case dialogue.KindText:
			sub(&n.Text)
		case dialogue.KindResponse:
			for _, r := range n.Responses {
				sub(&r.Text)
			}
		}
	}
	return changed
}
