package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"capfmt/internal/config"
)

func decodeBatch(t *testing.T, out *bytes.Buffer) []batchResult {
	t.Helper()
	var resp batchResponse
	if err := json.Unmarshal(out.Bytes(), &resp); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out.String())
	}
	return resp.Results
}

func TestRunBatch(t *testing.T) {
	in := `{
  "calls": [
    {"id": "a", "macro": "println", "format": "{} {:?}", "args": [{"expr": "x"}, {"expr": "y.len()"}]},
    {"id": "b", "macro": "format", "format": "{z}", "args": [], "scope": ["y"]},
    {"id": "c", "macro": "panic", "format": "{}", "args": [{"expr": "x"}], "edition": "2018"},
    {"id": "d", "macro": "println", "format": "{", "args": []},
    {"id": "e", "macro": "println", "format": "{n}", "args": [{"name": "n", "expr": "count"}]},
    {"id": "f", "macro": "println", "format": "{} {x}", "args": [{"expr": " x "}, {"name": " x", "expr": " y"}]},
    {"id": "g", "macro": "println", "format": "\\u{7b}\\x7d {}", "args": [{"expr": "a"}, {"expr": "b"}]}
  ]
}`
	var out bytes.Buffer
	if err := runBatch(strings.NewReader(in), &out, config.Default()); err != nil {
		t.Fatalf("runBatch: %v", err)
	}
	res := decodeBatch(t, &out)
	if len(res) != 7 {
		t.Fatalf("expected 7 results, got %d", len(res))
	}

	if res[0].Status != "rewritten" || res[0].Format != "{x} {:?}" {
		t.Fatalf("a: %+v", res[0])
	}
	if len(res[0].Args) != 1 || res[0].Args[0].Expr != "y.len()" {
		t.Fatalf("a args: %+v", res[0].Args)
	}
	if len(res[0].Removed) != 1 || res[0].Removed[0] != 0 {
		t.Fatalf("a removed: %v", res[0].Removed)
	}

	if res[1].Status != "unchanged" || res[1].Error == "" {
		t.Fatalf("b: expected unresolved name error, got %+v", res[1])
	}

	if res[2].Status != "unchanged" || !strings.Contains(res[2].Reason, "2021") {
		t.Fatalf("c: %+v", res[2])
	}

	if res[3].Error == "" || res[3].Format != "{" {
		t.Fatalf("d: expected malformed error, got %+v", res[3])
	}

	if res[4].Format != "{count}" || len(res[4].Args) != 0 {
		t.Fatalf("e: %+v", res[4])
	}

	if res[5].Format != "{x} {y}" || len(res[5].Args) != 0 {
		t.Fatalf("f: padded arguments must inline trimmed, got %+v", res[5])
	}

	if res[6].Status != "unchanged" || res[6].Error != "" || res[6].Format != `\u{7b}\x7d {}` || len(res[6].Args) != 2 {
		t.Fatalf("g: escaped braces must leave the call alone, got %+v", res[6])
	}
}

func TestRunBatchDefaults(t *testing.T) {
	in := `{"msrv": "1.57", "calls": [{"macro": "println", "format": "{}", "args": [{"expr": "x"}]}]}`
	var out bytes.Buffer
	if err := runBatch(strings.NewReader(in), &out, config.Default()); err != nil {
		t.Fatalf("runBatch: %v", err)
	}
	res := decodeBatch(t, &out)
	if res[0].Status != "unchanged" || !strings.Contains(res[0].Reason, "1.58") {
		t.Fatalf("expected version-gated result, got %+v", res[0])
	}

	in = `{"allow_mixed": false, "calls": [{"macro": "println", "format": "{} {}", "args": [{"expr": "x"}, {"expr": "y.z"}]}]}`
	out.Reset()
	if err := runBatch(strings.NewReader(in), &out, config.Default()); err != nil {
		t.Fatalf("runBatch: %v", err)
	}
	res = decodeBatch(t, &out)
	if res[0].Status != "unchanged" {
		t.Fatalf("mixed call must stay unchanged, got %+v", res[0])
	}
}

func TestRunBatchRejectsBadInput(t *testing.T) {
	for _, in := range []string{
		`{"calls": [`,
		`{"calls": [], "extra": 1}`,
		`{"msrv": "one", "calls": []}`,
	} {
		var out bytes.Buffer
		if err := runBatch(strings.NewReader(in), &out, config.Default()); err == nil {
			t.Errorf("expected error for %s", in)
		}
	}

	var out bytes.Buffer
	if err := runBatch(strings.NewReader(`{"calls": [{"format": "{}"}]}`), &out, config.Default()); err != nil {
		t.Fatalf("runBatch: %v", err)
	}
	if res := decodeBatch(t, &out); res[0].Error != errMissingMacro.Error() {
		t.Fatalf("expected missing macro error, got %+v", res[0])
	}
}

func TestParseLintFlags(t *testing.T) {
	got, err := parseLintFlags([]string{"clippy::uninlined_format_args=deny", " print_literal = allow"})
	if err != nil {
		t.Fatalf("parseLintFlags: %v", err)
	}
	if got["uninlined_format_args"] != "deny" || got["print_literal"] != "allow" {
		t.Fatalf("unexpected levels: %v", got)
	}
	if _, err := parseLintFlags([]string{"novalue"}); err == nil {
		t.Fatal("expected error for missing level")
	}
	if got, _ := parseLintFlags(nil); got != nil {
		t.Fatalf("expected nil map, got %v", got)
	}
}
