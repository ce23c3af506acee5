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
	"os"
	"path/filepath"
	"testing"

	"cleardialogue/internal/batch"
)

func TestRefactorFiles(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "a.json")
	yamlPath := filepath.Join(dir, "b.yaml")
	otherPath := filepath.Join(dir, "notes.txt")
	for _, path := range []string{jsonPath, yamlPath} {
		if err := Export(sampleProject(t), path); err != nil {
			t.Fatalf("Export: %v", err)
		}
	}
	if err := os.WriteFile(otherPath, []byte("NPC"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	reports, err := RefactorFiles([]string{jsonPath, yamlPath, otherPath}, "NPC", "Guard")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format for %s, got %v", otherPath, err)
	}
	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}
	for _, r := range reports[:2] {
		if r.Err != nil {
			t.Fatalf("%s: %v", r.Path, r.Err)
		}
		if r.Changed != 1 {
			t.Fatalf("%s: changed %d fields, want 1", r.Path, r.Changed)
		}
		if _, err := os.Stat(r.Backup); err != nil {
			t.Fatalf("backup missing for %s: %v", r.Path, err)
		}
		p, err := Import(r.Path)
		if err != nil {
			t.Fatalf("re-import %s: %v", r.Path, err)
		}
		if p.NodeAt(0).Text != "Guard: Hello there." {
			t.Fatalf("%s: text not refactored: %q", r.Path, p.NodeAt(0).Text)
		}
		if p.NumLinks() != 3 {
			t.Fatalf("%s: links changed by refactor: %d", r.Path, p.NumLinks())
		}
	}

	old, err := JSONIO{}.Import(BackupPath(jsonPath))
	if err != nil {
		t.Fatalf("import backup: %v", err)
	}
	if old.NodeAt(0).Text != "NPC: Hello there." {
		t.Fatalf("backup should hold the original text, got %q", old.NodeAt(0).Text)
	}

	if _, err := RefactorFiles([]string{jsonPath}, "", "x"); !errors.Is(err, batch.ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
}
