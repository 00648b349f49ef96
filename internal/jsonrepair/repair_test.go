package jsonrepair

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestExtract_CleanObject(t *testing.T) {
	msg, err := Extract(`{"title":"X","cost":5}`)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(msg, &doc); err != nil {
		t.Fatalf("result not parseable: %v", err)
	}
	if doc["title"] != "X" {
		t.Fatalf("expected title X, got %v", doc["title"])
	}
}

func TestExtract_FencedWithProse(t *testing.T) {
	raw := "Here is the proposal:\n```json\n{\"title\":\"Green Ports\"}\n```\nLet me know if you need changes."
	msg, err := Extract(raw)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(msg, &doc); err != nil {
		t.Fatalf("result not parseable: %v", err)
	}
	if doc["title"] != "Green Ports" {
		t.Fatalf("unexpected title: %v", doc["title"])
	}
}

func TestExtract_TruncatedMidString(t *testing.T) {
	// Token budget cut the value of the second field.
	msg, err := Extract(`{"title":"X","summary":"<p>Intro`)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	var doc map[string]string
	if err := json.Unmarshal(msg, &doc); err != nil {
		t.Fatalf("result not parseable: %v", err)
	}
	if doc["title"] != "X" {
		t.Fatalf("expected title to survive, got %v", doc)
	}
	if _, ok := doc["summary"]; ok {
		t.Fatalf("truncated field should have been dropped, got %v", doc)
	}
}

func TestExtract_TrailingComma(t *testing.T) {
	msg, err := Extract(`{"title":"X","risks":["a","b"],`)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(msg, &doc); err != nil {
		t.Fatalf("result not parseable: %v", err)
	}
}

func TestExtract_DanglingColon(t *testing.T) {
	msg, err := Extract(`{"title":"X","summary":`)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(msg, &doc); err != nil {
		t.Fatalf("result not parseable: %v", err)
	}
	if doc["title"] != "X" {
		t.Fatalf("expected title to survive, got %v", doc)
	}
}

func TestExtract_NestedTruncation(t *testing.T) {
	raw := `{"title":"X","budget":[{"label":"Staff","cost":100},{"label":"Trav`
	msg, err := Extract(raw)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	var doc struct {
		Title  string           `json:"title"`
		Budget []map[string]any `json:"budget"`
	}
	if err := json.Unmarshal(msg, &doc); err != nil {
		t.Fatalf("result not parseable: %v", err)
	}
	if doc.Title != "X" {
		t.Fatalf("expected title X, got %q", doc.Title)
	}
}

func TestExtract_TruncatedAfterNestedObject(t *testing.T) {
	// Only closing tokens are missing; every field must survive.
	raw := `{"title":"X","budget":[{"label":"Staff","cost":100},{"label":"Travel","cost":50}`
	msg, err := Extract(raw)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	var doc struct {
		Budget []struct {
			Label string `json:"label"`
			Cost  int64  `json:"cost"`
		} `json:"budget"`
	}
	if err := json.Unmarshal(msg, &doc); err != nil {
		t.Fatalf("result not parseable: %v", err)
	}
	if len(doc.Budget) != 2 || doc.Budget[1].Cost != 50 {
		t.Fatalf("expected both budget items intact, got %+v", doc.Budget)
	}
}

// Any truncation point after the first complete top-level field must
// still yield parseable JSON.
func TestExtract_TruncationSweep(t *testing.T) {
	full := `{"title":"Alpha","summary":"short","sections":{"intro":"<p>hi</p>","impact":"<p>big</p>"},"risks":["slip","cost"]}`
	firstField := strings.Index(full, `"summary"`)
	for cut := firstField; cut <= len(full); cut++ {
		raw := full[:cut]
		msg, err := Extract(raw)
		if err != nil {
			t.Fatalf("cut at %d: extract failed: %v (raw %q)", cut, err, raw)
		}
		var scratch any
		if err := json.Unmarshal(msg, &scratch); err != nil {
			t.Fatalf("cut at %d: result not parseable: %v", cut, err)
		}
	}
}

func TestExtract_Deterministic(t *testing.T) {
	raw := `noise {"title":"X","summary":"<p>Intro`
	a, err1 := Extract(raw)
	b, err2 := Extract(raw)
	if (err1 == nil) != (err2 == nil) {
		t.Fatalf("nondeterministic error behavior: %v vs %v", err1, err2)
	}
	if string(a) != string(b) {
		t.Fatalf("nondeterministic output: %q vs %q", a, b)
	}
}

func TestExtract_Unrepairable(t *testing.T) {
	raw := "the model refused and produced no structure at all"
	_, err := Extract(raw)
	if err == nil {
		t.Fatal("expected error for text without JSON")
	}
	var ue *UnrepairableError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnrepairableError, got %T", err)
	}
	if ue.TextLen != len(raw) {
		t.Fatalf("expected TextLen %d, got %d", len(raw), ue.TextLen)
	}
}

func TestUnmarshal_IntoStruct(t *testing.T) {
	var out struct {
		Title string `json:"title"`
	}
	if err := Unmarshal("```json\n{\"title\":\"Y\"}\n```", &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if out.Title != "Y" {
		t.Fatalf("expected Y, got %q", out.Title)
	}
}

func TestExtract_Array(t *testing.T) {
	msg, err := Extract(`ranked list: [{"name":"a"},{"name":"b"}]`)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	var out []map[string]string
	if err := json.Unmarshal(msg, &out); err != nil {
		t.Fatalf("result not parseable: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(out))
	}
}
