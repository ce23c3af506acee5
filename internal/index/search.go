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
	"strings"
)

// Query describes a search request. Text is split into terms that must all
// match; each term is quoted so punctuation is taken literally. With no
// Text every document passing the filters is returned.
type Query struct {
	Text   string
	Types  []string
	NodeID string
	Limit  int
	Offset int
}

// Hit is a single matching field. Snippet marks matches with [ ] when Text was used.
type Hit struct {
	DocID      int64
	Type       string
	NodeID     string
	ResponseID string
	Path       string
	Snippet    string
}

// ftsTerms turns free text into an AND of quoted FTS5 strings.
func ftsTerms(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		fields[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(fields, " ")
}

// Search runs a full-text search with optional filters.
func (ix *Index) Search(ctx context.Context, q Query) ([]Hit, error) {
	var args []any
	var sb strings.Builder
	terms := ftsTerms(q.Text)
	if terms != "" {
		sb.WriteString("SELECT d.doc_id, d.type, d.node_id, COALESCE(d.response_id,''), d.path, snippet(fts_documents, 0, '[', ']', '…', 10)\n")
		sb.WriteString("FROM fts_documents JOIN documents d ON fts_documents.rowid = d.doc_id\n")
		sb.WriteString("WHERE fts_documents MATCH ?\n")
		args = append(args, terms)
	} else {
		sb.WriteString("SELECT d.doc_id, d.type, d.node_id, COALESCE(d.response_id,''), d.path, ''\n")
		sb.WriteString("FROM documents d\nWHERE 1=1\n")
	}
	if len(q.Types) > 0 {
		sb.WriteString(" AND d.type IN (" + placeholders(len(q.Types)) + ")\n")
		for _, t := range q.Types {
			args = append(args, t)
		}
	}
	if q.NodeID != "" {
		sb.WriteString(" AND d.node_id = ?\n")
		args = append(args, q.NodeID)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := max(q.Offset, 0)
	sb.WriteString("ORDER BY d.doc_id\n")
	sb.WriteString("LIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	rows, err := ix.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()
	var out []Hit
	for rows.Next() {
		var h Hit
		var sn sql.NullString
		if err := rows.Scan(&h.DocID, &h.Type, &h.NodeID, &h.ResponseID, &h.Path, &sn); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		h.Snippet = sn.String
		out = append(out, h)
	}
	return out, rows.Err()
}

// Edge is an indexed link between two nodes.
type Edge struct {
	LinkID     string
	FromNode   string
	ResponseID string
	ToNode     string
	// FromTitle is the title of the source node, if it has one.
	FromTitle string
}

// Incoming lists the links that lead into a node, for "where is this reached from" lookups.
func (ix *Index) Incoming(ctx context.Context, nodeID string) ([]Edge, error) {
	const q = `SELECT e.link_id, e.from_node, COALESCE(e.response_id,''), e.to_node, COALESCE(d.text,'')
		FROM edges e
		LEFT JOIN documents d ON d.node_id = e.from_node AND d.type = 'title'
		WHERE e.to_node = ?
		ORDER BY e.from_node, e.link_id`
	rows, err := ix.db.QueryContext(ctx, q, nodeID)
	if err != nil {
		return nil, fmt.Errorf("incoming query: %w", err)
	}
	defer rows.Close()
	var out []Edge
	for rows.Next() {
		var e Edge
		if err := rows.Scan(&e.LinkID, &e.FromNode, &e.ResponseID, &e.ToNode, &e.FromTitle); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
