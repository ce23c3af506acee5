/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"cleardialogue/internal/dialogue"
)

// YAMLIO stores projects as YAML.
type YAMLIO struct{}

func (YAMLIO) TypeName() string     { return "yaml" }
func (YAMLIO) Extensions() []string { return []string{".yaml", ".yml"} }

func (YAMLIO) Import(path string) (*dialogue.Project, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	var p dialogue.Project
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse project %s: %w", path, err)
	}
	return decoded(&p, path)
}

func (YAMLIO) Export(p *dialogue.Project, path string) error {
	normalize(p)
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}
	return writeAtomic(path, buf.Bytes())
}
