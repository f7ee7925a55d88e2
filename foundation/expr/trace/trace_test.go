// File: trace_test.go
// Title: Trace Rendering Unit Tests
// Description: Tests for the text renderer, recorder, fan-out and the
//              derivation tree encoders.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial test suite

package trace

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// events of "(a + 1)" traced in standard mode
func groupedSum() []Event {
	return []Event{
		Enter(RuleExpr),
		Enter(RuleTerm),
		Enter(RuleFactor),
		GroupOpen("("),
		Enter(RuleExpr),
		Enter(RuleTerm),
		Enter(RuleFactor),
		Leaf(RuleID, "a"),
		Exit(),
		Exit(),
		Symbol("+"),
		Enter(RuleTerm),
		Enter(RuleFactor),
		Leaf(RuleIntConstant, "1"),
		Exit(),
		Exit(),
		Exit(),
		GroupClose(")"),
		Exit(),
		Exit(),
		Exit(),
	}
}

func TestTextRenderer_Format(t *testing.T) {
	want := strings.Join([]string{
		"[expr",
		"   [term",
		"      [factor",
		"         [(]",
		"            [expr",
		"               [term",
		"                  [factor",
		"                     [id [a]]",
		"                  ]",
		"               ]",
		"               [+]",
		"               [term",
		"                  [factor",
		"                     [int_constant [1]]",
		"                  ]",
		"               ]",
		"            ]",
		"         [)]",
		"      ]",
		"   ]",
		"]",
	}, "\n") + "\n"

	var buf bytes.Buffer
	r := NewTextRenderer(&buf)
	for _, e := range groupedSum() {
		r.Emit(e)
	}

	if buf.String() != want {
		t.Errorf("trace mismatch\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
	if r.Depth() != 0 {
		t.Errorf("Depth() = %d after balanced events", r.Depth())
	}
	if r.Lines() != 21 {
		t.Errorf("Lines() = %d, want 21", r.Lines())
	}
}

func TestTextRenderer_StrayAndDiagnostic(t *testing.T) {
	got := Render([]Event{
		Enter(RuleExpr),
		Enter(RuleTerm),
		GroupOpen("("),
		GroupAbort(),
		Diagnostic("ERROR: Expected )"),
		StrayExit(),
		Exit(),
		Exit(),
	}, DefaultIndent)

	want := "[expr\n   [term\n      [(]\nERROR: Expected )\n      ]\n   ]\n]\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTextRenderer_CustomIndent(t *testing.T) {
	got := Render([]Event{Enter(RuleFactor), Leaf(RuleID, "x"), Exit()}, "\t")
	if got != "[factor\n\t[id [x]]\n]\n" {
		t.Errorf("got %q", got)
	}
}

func TestTextRenderer_DepthNeverNegative(t *testing.T) {
	r := NewTextRenderer(&bytes.Buffer{})
	r.Emit(Exit())
	r.Emit(GroupAbort())
	if r.Depth() != 0 {
		t.Errorf("Depth() = %d", r.Depth())
	}
}

type brokenWriter struct{ writes int }

func (w *brokenWriter) Write(p []byte) (int, error) {
	w.writes++
	return 0, errors.New("pipe closed")
}

func TestTextRenderer_WriteError(t *testing.T) {
	w := &brokenWriter{}
	r := NewTextRenderer(w)
	r.Emit(Enter(RuleExpr))
	r.Emit(Exit())

	if r.Err() == nil {
		t.Fatal("expected write error")
	}
	if w.writes != 1 {
		t.Errorf("writes after failure: %d", w.writes)
	}
	if r.Depth() != 0 {
		t.Errorf("depth must still be tracked, got %d", r.Depth())
	}
}

func TestRecorderAndTee(t *testing.T) {
	rec := NewRecorder()
	var count int
	sink := Tee(rec, nil, SinkFunc(func(Event) { count++ }))

	for _, e := range groupedSum() {
		sink.Emit(e)
	}
	if rec.Len() != len(groupedSum()) || count != rec.Len() {
		t.Fatalf("recorded %d, counted %d", rec.Len(), count)
	}

	var buf bytes.Buffer
	rec.Replay(NewTextRenderer(&buf))
	if buf.String() != Render(groupedSum(), DefaultIndent) {
		t.Error("replay differs from direct rendering")
	}

	rec.Reset()
	if rec.Len() != 0 {
		t.Error("Reset did not clear events")
	}
}

func TestBuildTree(t *testing.T) {
	root := BuildTree(groupedSum())

	if root.Rule != RuleRoot || len(root.Children) != 1 {
		t.Fatalf("root = %+v", root)
	}
	factor := root.Children[0].Children[0].Children[0]
	if factor.Rule != RuleFactor || len(factor.Children) != 1 {
		t.Fatalf("factor = %+v", factor)
	}
	group := factor.Children[0]
	if group.Rule != RuleGroup || group.Text != "(" || group.Incomplete {
		t.Fatalf("group = %+v", group)
	}

	inner := group.Children[0]
	if inner.Rule != RuleExpr || len(inner.Children) != 3 {
		t.Fatalf("inner expr = %+v", inner)
	}
	if op := inner.Children[1]; op.Rule != RuleSymbol || op.Text != "+" {
		t.Errorf("operator node = %+v", op)
	}
	if root.Size() != 13 {
		t.Errorf("Size() = %d, want 13", root.Size())
	}
}

func TestBuildTree_AbortedGroup(t *testing.T) {
	root := BuildTree([]Event{
		Enter(RuleExpr),
		Enter(RuleTerm),
		Enter(RuleFactor),
		GroupOpen("("),
		Enter(RuleExpr),
		Exit(),
		GroupAbort(),
		Diagnostic("expected ')'"),
		Exit(),
		Exit(),
		Exit(),
	})

	group := root.Children[0].Children[0].Children[0].Children[0]
	if !group.Incomplete {
		t.Errorf("group = %+v, want incomplete", group)
	}
}

func TestTreeEncoding(t *testing.T) {
	b := &TreeBuilder{}
	for _, e := range []Event{Enter(RuleFactor), Leaf(RuleID, "x"), Exit()} {
		b.Emit(e)
	}
	tree := b.Tree()

	var jsonBuf bytes.Buffer
	if err := WriteJSON(&jsonBuf, tree); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var decoded Node
	if err := json.Unmarshal(jsonBuf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Children[0].Children[0].Text != "x" {
		t.Errorf("decoded = %+v", decoded)
	}
	if strings.Contains(jsonBuf.String(), "incomplete") {
		t.Error("complete nodes must omit the incomplete flag")
	}

	var yamlBuf bytes.Buffer
	if err := WriteYAML(&yamlBuf, tree); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	var fromYAML Node
	if err := yaml.Unmarshal(yamlBuf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if fromYAML.Children[0].Children[0].Rule != RuleID {
		t.Errorf("yaml tree = %+v", fromYAML)
	}
}
