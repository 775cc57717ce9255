package cst

// New builds an interior node. Nil children are dropped so optional parts can
// be passed inline.
func New(kind Kind, children ...*Node) *Node {
	n := &Node{Kind: kind}
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Leaf builds a token node.
func Leaf(kind Kind, text string) *Node {
	return &Node{Kind: kind, Text: text}
}

// Ident is shorthand for an IDENTIFIER leaf.
func Ident(name string) *Node { return Leaf(KindIdentifier, name) }

// Keyword is shorthand for a KEYWORD leaf.
func Keyword(text string) *Node { return Leaf(KindKeyword, text) }

// Ref is shorthand for a REFERENCE_EXPRESSION leaf.
func Ref(name string) *Node { return Leaf(KindReferenceExpression, name) }

// Op is shorthand for an OPERATION_REFERENCE leaf.
func Op(text string) *Node { return Leaf(KindOperationReference, text) }

// Modifiers builds a MODIFIER_LIST from modifier words.
func Modifiers(words ...string) *Node {
	ml := &Node{Kind: KindModifierList}
	for _, w := range words {
		ml.Children = append(ml.Children, Leaf(KindModifier, w))
	}
	return ml
}
