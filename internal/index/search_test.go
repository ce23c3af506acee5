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
	"strings"
	"testing"
	"time"
)

func TestSearchFindsFieldsWithSnippets(t *testing.T) {
	ix := openTemp(t)
	p, greet, ask, _ := sampleProject(t)
	ctx := context.Background()
	if err := ix.Rebuild(ctx, p); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	hits, err := ix.Search(ctx, Query{Text: "hello"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].NodeID != greet.ID || hits[0].Type != TypeText {
		t.Fatalf("unexpected hits: %+v", hits)
	}
	if !strings.Contains(hits[0].Snippet, "[Hello]") {
		t.Fatalf("snippet missing highlight: %q", hits[0].Snippet)
	}

	hits, err = ix.Search(ctx, Query{Text: "ale"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || hits[0].ResponseID != ask.Responses[0].ID || hits[0].Type != TypeResponse {
		t.Fatalf("unexpected response hits: %+v", hits)
	}

	// all terms must match
	hits, err = ix.Search(ctx, Query{Text: "NPC travels"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 1 || !strings.Contains(hits[0].Snippet, "[travels]") {
		t.Fatalf("unexpected AND hits: %+v", hits)
	}
}

func TestSearchFiltersAndPunctuation(t *testing.T) {
	ix := openTemp(t)
	p, greet, _, _ := sampleProject(t)
	ctx := context.Background()
	if err := ix.Update(ctx, p); err != nil {
		t.Fatalf("Update: %v", err)
	}
	hits, err := ix.Search(ctx, Query{Text: "NPC:", Types: []string{TypeText}})
	if err != nil {
		t.Fatalf("punctuation should be literal: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 text hits, got %+v", hits)
	}
	hits, err = ix.Search(ctx, Query{NodeID: greet.ID})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("expected title, tag and text of greeting, got %+v", hits)
	}
	hits, err = ix.Search(ctx, Query{Types: []string{TypeTitle}, Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected paginated titles, got %+v", hits)
	}
}

func TestUpdateReplacesContent(t *testing.T) {
	ix := openTemp(t)
	p, greet, _, _ := sampleProject(t)
	ctx := context.Background()
	if err := ix.Update(ctx, p); err != nil {
		t.Fatalf("Update: %v", err)
	}
	greet.Text = "NPC: Welcome."
	if err := ix.Update(ctx, p); err != nil {
		t.Fatalf("Update: %v", err)
	}
	hits, err := ix.Search(ctx, Query{Text: "hello"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("stale document still indexed: %+v", hits)
	}
}

func TestIncomingEdges(t *testing.T) {
	ix := openTemp(t)
	p, _, ask, bye := sampleProject(t)
	ctx := context.Background()
	if err := ix.Update(ctx, p); err != nil {
		t.Fatalf("Update: %v", err)
	}
	edges, err := ix.Incoming(ctx, bye.ID)
	if err != nil {
		t.Fatalf("Incoming: %v", err)
	}
	if len(edges) != 1 {
		t.Fatalf("expected one incoming edge, got %+v", edges)
	}
	e := edges[0]
	if e.FromNode != ask.ID || e.ResponseID != ask.Responses[0].ID || e.FromTitle != "Order" {
		t.Fatalf("unexpected edge %+v", e)
	}
}

func TestRevisions(t *testing.T) {
	ix := openTemp(t)
	ctx := context.Background()
	if _, ok, err := ix.LatestRevision(ctx); err != nil || ok {
		t.Fatalf("expected no revisions, got ok=%v err=%v", ok, err)
	}
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := ix.SaveRevision(ctx, "save", []byte{byte(i)}, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatalf("SaveRevision: %v", err)
		}
	}
	latest, ok, err := ix.LatestRevision(ctx)
	if err != nil || !ok {
		t.Fatalf("LatestRevision: %v", err)
	}
	if latest.Blob[0] != 4 || !latest.TS.Equal(base.Add(4*time.Minute)) {
		t.Fatalf("unexpected latest revision %+v", latest)
	}
	n, err := ix.PruneRevisions(ctx, 2)
	if err != nil || n != 3 {
		t.Fatalf("PruneRevisions = %d, %v", n, err)
	}
	list, err := ix.ListRevisions(ctx, 10)
	if err != nil {
		t.Fatalf("ListRevisions: %v", err)
	}
	if len(list) != 2 || list[0].Blob[0] != 4 || list[1].Blob[0] != 3 {
		t.Fatalf("unexpected revisions after prune: %+v", list)
	}
}
