// Package cst describes the concrete syntax tree handed to the lowering stage.
//
// The tree is produced by an external parser and is read-only from the point
// of view of this module. Nodes are grammar shaped: the role of a child is
// given by its Kind, not by its position, so lookups go through First/All.
package cst

import (
	"slices"

	"ktfront/internal/source"
)

// Node is one CST node. Leaves (identifiers, keywords, operators, literals)
// carry their token text in Text.
type Node struct {
	Kind     Kind        `yaml:"kind" msgpack:"kind"`
	Text     string      `yaml:"text,omitempty" msgpack:"text,omitempty"`
	Span     source.Span `yaml:"span,omitempty" msgpack:"span,omitempty"`
	Children []*Node     `yaml:"children,omitempty" msgpack:"children,omitempty"`
}

// First returns the first direct child of the given kind or nil.
func (n *Node) First(kind Kind) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c != nil && c.Kind == kind {
			return c
		}
	}
	return nil
}

// All returns the direct children of the given kind in source order.
func (n *Node) All(kind Kind) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c != nil && c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// FirstMatch returns the first direct child accepted by pred.
func (n *Node) FirstMatch(pred func(Kind) bool) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c != nil && pred(c.Kind) {
			return c
		}
	}
	return nil
}

// Expressions returns the direct children in expression position.
func (n *Node) Expressions() []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c != nil && c.Kind.IsExpression() {
			out = append(out, c)
		}
	}
	return out
}

// Expression returns the first direct child in expression position.
func (n *Node) Expression() *Node {
	return n.FirstMatch(Kind.IsExpression)
}

// Name returns the text of the IDENTIFIER child, or "" if there is none.
func (n *Node) Name() string {
	if id := n.First(KindIdentifier); id != nil {
		return id.Text
	}
	return ""
}

// HasKeyword reports a KEYWORD child with the given text.
func (n *Node) HasKeyword(text string) bool {
	if n == nil {
		return false
	}
	return slices.ContainsFunc(n.Children, func(c *Node) bool {
		return c != nil && c.Kind == KindKeyword && c.Text == text
	})
}

// HasModifier reports a MODIFIER with the given text in the node's modifier list.
func (n *Node) HasModifier(text string) bool {
	ml := n.First(KindModifierList)
	if ml == nil {
		return false
	}
	return slices.ContainsFunc(ml.Children, func(c *Node) bool {
		return c != nil && c.Kind == KindModifier && c.Text == text
	})
}

// Annotations returns the annotation entries of the node's modifier list.
func (n *Node) Annotations() []*Node {
	return n.First(KindModifierList).All(KindAnnotationEntry)
}

// Walk visits n and its descendants depth first, pre-order. Returning false
// from fn skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// BindFile points every span in the subtree at file.
func (n *Node) BindFile(file source.FileID) {
	n.Walk(func(c *Node) bool {
		c.Span.File = file
		return true
	})
}
