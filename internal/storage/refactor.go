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

	"cleardialogue/internal/batch"
)

// RefactorReport describes the outcome for one file.
type RefactorReport struct {
	Path    string
	Backup  string
	Changed int
	Err     error
}

// RefactorFiles imports each project, replaces every exact occurrence of
// find with replace, backs the original up and writes the result in
// place. Files without a matching codec are reported and skipped; one
// failing file does not stop the others. The returned error joins all
// per-file failures.
func RefactorFiles(paths []string, find, replace string) ([]RefactorReport, error) {
	if find == "" {
		return nil, batch.ErrNoInput
	}
	reports := make([]RefactorReport, 0, len(paths))
	var errs []error
	for _, path := range paths {
		r := refactorFile(path, find, replace)
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
		reports = append(reports, r)
	}
	return reports, errors.Join(errs...)
}

func refactorFile(path, find, replace string) RefactorReport {
	r := RefactorReport{Path: path}
	io, err := ForPath(path)
	if err != nil {
		r.Err = err
		return r
	}
	p, err := io.Import(path)
	if err != nil {
		r.Err = err
		return r
	}
	r.Changed = batch.Refactor(p, find, replace)
	if r.Backup, err = Backup(path); err != nil {
		r.Err = err
		return r
	}
	if err := io.Export(p, path); err != nil {
		r.Err = fmt.Errorf("refactor %s: %w", path, err)
	}
	return r
}
