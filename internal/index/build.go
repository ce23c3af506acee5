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
	"fmt"
	"log/slog"
	"os"
	"strings"

	"cleardialogue/internal/dialogue"
	applog "cleardialogue/internal/log"
)

// Document types stored in the index.
const (
	TypeProject  = "project"
	TypeTitle    = "title"
	TypeTag      = "tag"
	TypeText     = "text"
	TypeResponse = "response"
)

type docRow struct {
	typ        string
	nodeID     string
	responseID sql.NullString
	path       string
	text       string
}

func nodePath(n *dialogue.Node) string { return "node:" + n.ID }

func documentsFor(p *dialogue.Project) []docRow {
	rows := make([]docRow, 0, len(p.Nodes)*3+1)
	if s := strings.TrimSpace(p.Name); s != "" {
		rows = append(rows, docRow{typ: TypeProject, path: "project:name", text: s})
	}
	for _, n := range p.Nodes {
		base := docRow{nodeID: n.ID, path: nodePath(n)}
		add := func(typ, text string) {
			if s := strings.TrimSpace(text); s != "" {
				r := base
				r.typ, r.text = typ, s
				rows = append(rows, r)
			}
		}
		add(TypeTitle, n.Title)
		add(TypeTag, n.Tag)
		add(TypeText, n.Text)
		for _, resp := range n.Responses {
			if s := strings.TrimSpace(resp.Text); s != "" {
				rows = append(rows, docRow{
					typ:        TypeResponse,
					nodeID:     n.ID,
					responseID: sql.NullString{String: resp.ID, Valid: true},
					path:       nodePath(n) + "/response:" + resp.ID,
					text:       s,
				})
			}
		}
	}
	return rows
}

// Update replaces the indexed documents and edges with the project content.
func (ix *Index) Update(ctx context.Context, p *dialogue.Project) error {
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fill(ctx, tx, p); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func fill(ctx context.Context, tx *sql.Tx, p *dialogue.Project) error {
	for _, q := range []string{"DELETE FROM documents;", "DELETE FROM edges;"} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("clear index: %w", err)
		}
	}
	ins, err := tx.PrepareContext(ctx, "INSERT INTO documents(type, node_id, response_id, path, text) VALUES(?,?,?,?,?);")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()
	for _, r := range documentsFor(p) {
		if _, err := ins.ExecContext(ctx, r.typ, r.nodeID, r.responseID, r.path, r.text); err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
	}
	edge, err := tx.PrepareContext(ctx, "INSERT INTO edges(link_id, from_node, response_id, to_node) VALUES(?,?,?,?);")
	if err != nil {
		return fmt.Errorf("prepare edge insert: %w", err)
	}
	defer edge.Close()
	for _, l := range p.Links {
		from, okFrom := p.Connector(l.From)
		to, okTo := p.Connector(l.To)
		if !okFrom || !okTo {
			continue
		}
		resp := sql.NullString{String: from.ResponseID, Valid: from.ResponseID != ""}
		if _, err := edge.ExecContext(ctx, l.ID, from.NodeID, resp, to.NodeID); err != nil {
			return fmt.Errorf("insert edge: %w", err)
		}
	}
	return nil
}

// Rebuild drops and recreates the derived tables and fills them from the
// project. Revisions are kept.
func (ix *Index) Rebuild(ctx context.Context, p *dialogue.Project) error {
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	drops := []string{
		"DROP TRIGGER IF EXISTS documents_ai;",
		"DROP TRIGGER IF EXISTS documents_ad;",
		"DROP TRIGGER IF EXISTS documents_au;",
		"DROP TABLE IF EXISTS fts_documents;",
		"DROP TABLE IF EXISTS documents;",
		"DROP TABLE IF EXISTS edges;",
	}
	for _, q := range drops {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("drop schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("drop commit: %w", err)
	}
	if err := ensureSchema(ctx, ix.db); err != nil {
		return err
	}
	return ix.Update(ctx, p)
}

// DetectAndRebuild opens the index at path and rebuilds it from the project
// when it is missing, unreadable or corrupt. A corrupt file is backed up
// first. It returns the open index and whether a rebuild happened.
func DetectAndRebuild(ctx context.Context, path string, p *dialogue.Project) (*Index, bool, error) {
	l := applog.WithOperation(applog.WithComponent("index"), "detect_rebuild").With(slog.String("path", path))
	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	ix, err := Open(path)
	if err == nil && !fresh && ix.Healthy(ctx) {
		return ix, false, nil
	}
	if err == nil && fresh {
		if rerr := ix.Update(ctx, p); rerr != nil {
			_ = ix.Close()
			return nil, false, rerr
		}
		return ix, true, nil
	}
	if ix != nil {
		_ = ix.Close()
	}
	l.Warn("index unusable, rebuilding", slog.Any("err", err))
	backupIndexFile(path)
	for _, suffix := range []string{"", "-wal", "-shm"} {
		_ = os.Remove(path + suffix)
	}
	ix, oerr := Open(path)
	if oerr != nil {
		return nil, false, fmt.Errorf("reopen after rebuild: %w (open err: %v)", oerr, err)
	}
	if rerr := ix.Rebuild(ctx, p); rerr != nil {
		_ = ix.Close()
		return nil, false, rerr
	}
	return ix, true, nil
}
