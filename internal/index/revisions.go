/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package index

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// language=SQL
// dialect=SQLite
const insertRevisionSQL = `INSERT INTO revisions(ts, label, blob) VALUES (?, ?, ?)`

// language=SQL
// dialect=SQLite
const selectLatestRevisionSQL = `SELECT ts, label, blob FROM revisions ORDER BY ts DESC, id DESC LIMIT 1`

// language=SQL
// dialect=SQLite
const listRevisionsSQL = `SELECT ts, label, blob FROM revisions ORDER BY ts DESC, id DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const pruneRevisionsSQL = `DELETE FROM revisions WHERE id NOT IN (
	SELECT id FROM revisions ORDER BY ts DESC, id DESC LIMIT ?
)`

// Revision is a saved project state.
type Revision struct {
	TS    time.Time
	Label string
	Blob  []byte
}

// SaveRevision records a project blob with a timestamp.
func (ix *Index) SaveRevision(ctx context.Context, label string, blob []byte, ts time.Time) error {
	_, err := ix.db.ExecContext(ctx, insertRevisionSQL, ts.UTC().Format(time.RFC3339Nano), label, blob)
	return err
}

// LatestRevision returns the newest revision, or ok=false if there is none.
func (ix *Index) LatestRevision(ctx context.Context) (Revision, bool, error) {
	var r Revision
	var tsStr string
	err := ix.db.QueryRowContext(ctx, selectLatestRevisionSQL).Scan(&tsStr, &r.Label, &r.Blob)
	if errors.Is(err, sql.ErrNoRows) {
		return Revision{}, false, nil
	}
	if err != nil {
		return Revision{}, false, err
	}
	// keep the blob even if the timestamp is unreadable
	r.TS, _ = time.Parse(time.RFC3339Nano, tsStr)
	return r, true, nil
}

// ListRevisions returns up to limit revisions, newest first.
func (ix *Index) ListRevisions(ctx context.Context, limit int) ([]Revision, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := ix.db.QueryContext(ctx, listRevisionsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Revision
	for rows.Next() {
		var r Revision
		var tsStr string
		if err := rows.Scan(&tsStr, &r.Label, &r.Blob); err != nil {
			return nil, err
		}
		r.TS, _ = time.Parse(time.RFC3339Nano, tsStr)
		out = append(out, r)
	}
	return out, rows.Err()
}

// PruneRevisions keeps the newest keepLast revisions and deletes older ones.
func (ix *Index) PruneRevisions(ctx context.Context, keepLast int) (int64, error) {
	if keepLast <= 0 {
		return 0, nil
	}
	res, err := ix.db.ExecContext(ctx, pruneRevisionsSQL, keepLast)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
