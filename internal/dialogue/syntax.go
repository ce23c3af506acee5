/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package dialogue

import "strings"

// Keywords splits a syntax definition into highlight keywords.
// Entries are separated by commas or newlines; blanks and duplicates are dropped.
func Keywords(syntax string) []string {
	fields := strings.FieldsFunc(syntax, func(r rune) bool { return r == ',' || r == '\n' || r == '\r' })
	seen := make(map[string]bool, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// Span is a half-open byte range [Start, End).
type Span struct {
	Start, End int
	Keyword    string
}

// Highlights returns non-overlapping keyword occurrences in s, left to right.
// At any position the longest matching keyword wins.
func Highlights(s string, keywords []string) []Span {
	var spans []Span
	for i := 0; i < len(s); {
		best := ""
		for _, k := range keywords {
			if len(k) > len(best) && strings.HasPrefix(s[i:], k) {
				best = k
			}
		}
		if best == "" {
			i++
			continue
		}
		spans = append(spans, Span{Start: i, End: i + len(best), Keyword: best})
		i += len(best)
	}
	return spans
}
