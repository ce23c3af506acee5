/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestInitAndStructuredLoggingToFile verifies that Init with a file handler writes JSON logs
// and that static and contextual attributes are present.
func TestInitAndStructuredLoggingToFile(t *testing.T) {
	fpath := filepath.Join(t.TempDir(), "cd_log.json")
	var console bytes.Buffer
	Init(Options{Level: "debug", Format: "json", File: fpath, Output: &console})
	t.Cleanup(func() { Init(Options{Output: &bytes.Buffer{}}) })

	l := WithOperation(WithComponent("testcomp"), "op1")
	l.InfoContext(ContextWithProject(context.Background(), "/tmp/tavern.json"), "hello world", slog.String("k", "v"))

	b, err := os.ReadFile(fpath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	scanner := bufio.NewScanner(bytes.NewReader(b))
	var last string
	for scanner.Scan() {
		if s := strings.TrimSpace(scanner.Text()); s != "" {
			last = s
		}
	}
	if last == "" {
		t.Fatalf("no log lines found")
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("unmarshal json log: %v", err)
	}
	if m["app"] != "cleardialogue" {
		t.Fatalf("missing app attr: %v", m["app"])
	}
	if _, ok := m["ver"].(string); !ok {
		t.Fatalf("missing ver attr")
	}
	if m["component"] != "testcomp" || m["op"] != "op1" {
		t.Fatalf("context attrs mismatch: %v %v", m["component"], m["op"])
	}
	if m["project"] != "/tmp/tavern.json" {
		t.Fatalf("project attr mismatch: %v", m["project"])
	}
	if m["msg"] != "hello world" {
		t.Fatalf("msg mismatch: %v", m["msg"])
	}
	if !strings.Contains(console.String(), `"msg":"hello world"`) {
		t.Fatalf("console output missing record: %q", console.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Level: "warn", Output: &buf})
	t.Cleanup(func() { Init(Options{Output: &bytes.Buffer{}}) })

	L().Info("quiet")
	L().Warn("loud")
	out := buf.String()
	if strings.Contains(out, "quiet") || !strings.Contains(out, "WRN loud") {
		t.Fatalf("unexpected console output: %q", out)
	}
}

func TestProjectFromMissing(t *testing.T) {
	if _, ok := ProjectFrom(context.Background()); ok {
		t.Fatalf("empty context must not carry a project")
	}
	if _, ok := ProjectFrom(ContextWithProject(context.Background(), "")); ok {
		t.Fatalf("empty path must not count as a project")
	}
	if p, ok := ProjectFrom(ContextWithProject(context.Background(), "a.yaml")); !ok || p != "a.yaml" {
		t.Fatalf("ProjectFrom = %q %v", p, ok)
	}
}

func TestAttrValueString(t *testing.T) {
	cases := []struct {
		v    slog.Value
		want string
	}{
		{slog.StringValue("plain"), "plain"},
		{slog.StringValue("two words"), `"two words"`},
		{slog.Float64Value(3.14), "3.14"},
		{slog.Float64Value(2), "2"},
		{slog.BoolValue(false), "false"},
		{slog.AnyValue(errors.New("bad thing")), `"bad thing"`},
		{slog.TimeValue(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)), "2025-01-02T03:04:05Z"},
	}
	for _, c := range cases {
		if got := attrValueString(c.v); got != c.want {
			t.Fatalf("attrValueString(%v) = %q, want %q", c.v, got, c.want)
		}
	}
}
