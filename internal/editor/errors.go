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
	"reflect"
	"strings"

	"cleardialogue/internal/batch"
	"cleardialogue/internal/dialogue"
	"cleardialogue/internal/storage"
)

var sentinelKinds = []struct {
	err  error
	kind string
}{
	{storage.ErrSchema, "SchemaError"},
	{storage.ErrUnsupportedFormat, "UnsupportedFormatError"},
	{dialogue.ErrInvalidProject, "InvalidProjectError"},
	{dialogue.ErrConnectorTypes, "ConnectorTypeError"},
	{dialogue.ErrNodeNotFound, "NodeNotFoundError"},
	{dialogue.ErrConnectorNotFound, "ConnectorNotFoundError"},
	{dialogue.ErrLinkNotFound, "LinkNotFoundError"},
	{batch.ErrNoInput, "NoInputError"},
}

// ErrorKind names an error for a "Caught <Kind>" dialog title: a known
// sentinel's name, else the outermost named type in the chain.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	for _, s := range sentinelKinds {
		if errors.Is(err, s.err) {
			return s.kind
		}
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		if name := typeName(e); name != "" {
			return name
		}
	}
	return "Error"
}

// typeName returns the exported type name of e, skipping the anonymous
// wrappers produced by fmt.Errorf and errors.New.
func typeName(e error) string {
	t := reflect.TypeOf(e)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	name := t.Name()
	if name == "" || !isExported(name) {
		return ""
	}
	return name
}

func isExported(name string) bool {
	return strings.ToUpper(name[:1]) == name[:1]
}
