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
	"fmt"
	"path/filepath"
	"strings"

	"cleardialogue/internal/dialogue"
)

// ErrUnsupportedFormat is returned when no codec handles a file extension.
var ErrUnsupportedFormat = errors.New("unsupported project format")

// IO imports and exports projects in one file format.
type IO interface {
	// TypeName is the short format name, also used as the default extension.
	TypeName() string
	// Extensions lists accepted extensions including the leading dot.
	Extensions() []string
	Import(path string) (*dialogue.Project, error)
	Export(p *dialogue.Project, path string) error
}

// Registry lists every available codec. The first entry is the default.
var Registry = []IO{JSONIO{}, YAMLIO{}}

// ByName returns the codec with the given type name.
func ByName(name string) (IO, error) {
	for _, io := range Registry {
		if strings.EqualFold(io.TypeName(), name) {
			return io, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// ForPath picks the codec for a file by its extension.
func ForPath(path string) (IO, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, io := range Registry {
		for _, e := range io.Extensions() {
			if e == ext {
				return io, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// FilterDescription renders the file chooser label for a codec, e.g. "json Files".
func FilterDescription(io IO) string {
	return io.TypeName() + " Files"
}

// Patterns returns glob patterns for a file chooser, e.g. "*.yaml", "*.yml".
func Patterns(io IO) []string {
	exts := io.Extensions()
	out := make([]string, len(exts))
	for i, e := range exts {
		out[i] = "*" + e
	}
	return out
}

// EnsureExtension appends ".<type>" unless path already ends in one of the
// codec's extensions.
func EnsureExtension(path string, io IO) string {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range io.Extensions() {
		if e == ext {
			return path
		}
	}
	return path + "." + io.TypeName()
}

// Import reads a project choosing the codec by extension.
func Import(path string) (*dialogue.Project, error) {
	io, err := ForPath(path)
	if err != nil {
		return nil, err
	}
	return io.Import(path)
}

// Export writes a project choosing the codec by extension.
func Export(p *dialogue.Project, path string) error {
	io, err := ForPath(path)
	if err != nil {
		return err
	}
	return io.Export(p, path)
}

// normalize gives decoded projects the same shape as freshly built ones
// and rebuilds the connector index.
func normalize(p *dialogue.Project) {
	if p.Nodes == nil {
		p.Nodes = []*dialogue.Node{}
	}
	if p.Links == nil {
		p.Links = []dialogue.Link{}
	}
	for _, n := range p.Nodes {
		if n != nil && n.Kind == dialogue.KindResponse && n.Responses == nil {
			n.Responses = []*dialogue.Response{}
		}
	}
	p.Reindex()
}

// decoded finishes a project after unmarshalling.
func decoded(p *dialogue.Project, source string) (*dialogue.Project, error) {
	normalize(p)
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", source, err)
	}
	return p, nil
}
