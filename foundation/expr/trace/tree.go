// File: tree.go
// Title: Derivation Tree
// Description: Builds a derivation tree from trace events and encodes it as
//              JSON or YAML.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-12
// Modified: 2026-10-12
//
// Change History:
// - 2026-10-12 v0.1.0: Initial implementation

package trace

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// Node rule names that do not come from the grammar
const (
	RuleRoot   = "trace"
	RuleGroup  = "group"
	RuleSymbol = "symbol"
)

// Node is one node of the derivation tree
type Node struct {
	Rule       string  `json:"rule" yaml:"rule"`
	Text       string  `json:"text,omitempty" yaml:"text,omitempty"`
	Incomplete bool    `json:"incomplete,omitempty" yaml:"incomplete,omitempty"`
	Children   []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// Add appends child and returns it
func (n *Node) Add(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// Size returns the number of nodes in the subtree rooted at n
func (n *Node) Size() int {
	size := 1
	for _, c := range n.Children {
		size += c.Size()
	}
	return size
}

// BuildTree folds events into a tree under a root node. Each top-level
// expression becomes a child of the root. Diagnostics and stray exits carry
// no structure and are skipped; an unclosed group is marked Incomplete.
func BuildTree(events []Event) *Node {
	root := &Node{Rule: RuleRoot}
	stack := []*Node{root}
	top := func() *Node { return stack[len(stack)-1] }
	pop := func() *Node {
		n := top()
		if len(stack) > 1 {
			stack = stack[:len(stack)-1]
		}
		return n
	}

	for _, e := range events {
		switch e.Kind {
		case EventEnter:
			stack = append(stack, top().Add(&Node{Rule: e.Rule}))
		case EventGroupOpen:
			stack = append(stack, top().Add(&Node{Rule: RuleGroup, Text: e.Text}))
		case EventExit, EventGroupClose:
			pop()
		case EventGroupAbort:
			if n := pop(); n != root {
				n.Incomplete = true
			}
		case EventLeaf:
			top().Add(&Node{Rule: e.Rule, Text: e.Text})
		case EventSymbol:
			top().Add(&Node{Rule: RuleSymbol, Text: e.Text})
		}
	}
	return root
}

// TreeBuilder is a Sink that builds the tree as events arrive
type TreeBuilder struct {
	rec Recorder
}

// Emit implements Sink
func (b *TreeBuilder) Emit(e Event) {
	b.rec.Emit(e)
}

// Tree returns the tree for the events received so far
func (b *TreeBuilder) Tree() *Node {
	return BuildTree(b.rec.events)
}

// WriteJSON writes n as indented JSON
func WriteJSON(w io.Writer, n *Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(n)
}

// WriteYAML writes n as YAML
func WriteYAML(w io.Writer, n *Node) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return err
	}
	return enc.Close()
}
