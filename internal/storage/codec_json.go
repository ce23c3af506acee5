/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"cleardialogue/internal/dialogue"
)

//go:embed project.schema.json
var projectSchema []byte

// ProjectSchema returns the JSON Schema project files must conform to.
func ProjectSchema() []byte { return projectSchema }

var schemaLoader = gojsonschema.NewBytesLoader(projectSchema)

// ErrSchema wraps schema violations.
var ErrSchema = errors.New("project does not conform to schema")

// ValidateSchema checks raw JSON against the project schema.
func ValidateSchema(data []byte) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrSchema, strings.Join(msgs, "; "))
}

// JSONIO stores projects as indented JSON.
type JSONIO struct{}

func (JSONIO) TypeName() string     { return "json" }
func (JSONIO) Extensions() []string { return []string{".json"} }

func (JSONIO) Import(path string) (*dialogue.Project, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project: %w", err)
	}
	p, err := DecodeJSON(b)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", path, err)
	}
	return p, nil
}

func (JSONIO) Export(p *dialogue.Project, path string) error {
	data, err := EncodeJSON(p)
	if err != nil {
		return err
	}
	return writeAtomic(path, data)
}

// EncodeJSON marshals a project in the on-disk JSON form.
func EncodeJSON(p *dialogue.Project) ([]byte, error) {
	normalize(p)
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal project: %w", err)
	}
	return append(data, '\n'), nil
}

// DecodeJSON validates and unmarshals a JSON project.
func DecodeJSON(data []byte) (*dialogue.Project, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}
	var p dialogue.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	return decoded(&p, "json")
}
