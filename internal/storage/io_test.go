/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"errors"
	"testing"
)

func TestForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a/b/story.json", "json"},
		{"story.JSON", "json"},
		{"story.yaml", "yaml"},
		{"story.yml", "yaml"},
	}
	for _, tt := range tests {
		io, err := ForPath(tt.path)
		if err != nil {
			t.Fatalf("ForPath(%q): %v", tt.path, err)
		}
		if io.TypeName() != tt.want {
			t.Fatalf("ForPath(%q) = %s, want %s", tt.path, io.TypeName(), tt.want)
		}
	}
	if _, err := ForPath("story.dialogue"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := ByName("toml"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestEnsureExtension(t *testing.T) {
	if got := EnsureExtension("out/story", JSONIO{}); got != "out/story.json" {
		t.Fatalf("got %q", got)
	}
	if got := EnsureExtension("story.yml", YAMLIO{}); got != "story.yml" {
		t.Fatalf("got %q", got)
	}
	if got := EnsureExtension("story.json", YAMLIO{}); got != "story.json.yaml" {
		t.Fatalf("got %q", got)
	}
}

func TestChooserFilters(t *testing.T) {
	if got := FilterDescription(JSONIO{}); got != "json Files" {
		t.Fatalf("got %q", got)
	}
	pats := Patterns(YAMLIO{})
	if len(pats) != 2 || pats[0] != "*.yaml" || pats[1] != "*.yml" {
		t.Fatalf("got %v", pats)
	}
}
