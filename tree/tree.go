// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tree

import (
	"fmt"
	"iter"

	"github.com/bufbuild/bslcore/source"
	"github.com/bufbuild/bslcore/token"
)

// Kind is a grammar-defined rule kind.
//
// Terminal nodes report the [token.Kind] of their token as a Kind, and the two
// numberings may overlap; check [Node.IsTerminal] before comparing kinds.
type Kind int32

// Tree is a finished parse tree.
type Tree struct {
	stream *token.Stream

	nodes []node
	edges []int32 // Child lists; node.children indexes into this.
	root  int32

	// Non-empty terminals in document order.
	terminals []int32

	remainder source.Range
	finished  bool
}

type node struct {
	kind     Kind
	tok      int32 // Token index; -1 for rules.
	parent   int32 // -1 if unattached.
	children struct{ start, end int32 }

	rng         source.Range
	first, last int32 // Token index range, inclusive; -1 if empty.
}

// Root returns the root node.
func (t *Tree) Root() Node {
	return Node{t, t.root}
}

// Stream returns the full token stream this tree was built over.
func (t *Tree) Stream() *token.Stream {
	return t.stream
}

// File returns the file this tree was parsed from.
func (t *Tree) File() *source.File {
	return t.stream.File()
}

// Len returns the number of nodes in this tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns the node with the given ID.
func (t *Tree) Node(id int) Node {
	if id < 0 || id >= len(t.nodes) {
		panic(fmt.Sprintf("bslcore/tree: node ID out of range: %d", id))
	}
	return Node{t, int32(id)}
}

// All returns an iterator over every node in the tree, in pre-order.
func (t *Tree) All() iter.Seq[Node] {
	return t.Root().PreOrder()
}

// NumTerminals returns the number of non-empty terminals in this tree.
func (t *Tree) NumTerminals() int {
	return len(t.terminals)
}

// Terminal returns the i-th non-empty terminal, in document order.
//
// Zero-width terminals, such as EOF, are not counted.
func (t *Tree) Terminal(i int) Node {
	return Node{t, t.terminals[i]}
}

// Terminals returns an iterator over the non-empty terminals, in document
// order.
func (t *Tree) Terminals() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, id := range t.terminals {
			if !yield(Node{t, id}) {
				return
			}
		}
	}
}

// Partial returns the range of input the parser did not consume, if the root
// does not cover the whole file.
func (t *Tree) Partial() (source.Range, bool) {
	return t.remainder, !t.remainder.IsZero()
}

// Node is a node in a [Tree]: either a rule node, with ordered children, or a
// terminal node wrapping exactly one token.
//
// The zero Node is the absence of a node.
type Node struct {
	tree *Tree
	id   int32
}

// IsZero returns whether this is the zero node.
func (n Node) IsZero() bool {
	return n.tree == nil
}

// Tree returns the tree this node belongs to.
func (n Node) Tree() *Tree {
	return n.tree
}

// ID returns this node's index in its tree.
func (n Node) ID() int {
	return int(n.id)
}

// Kind returns this node's rule kind, or its token's kind for terminals.
func (n Node) Kind() Kind {
	return n.raw().kind
}

// IsTerminal returns whether this is a terminal node.
func (n Node) IsTerminal() bool {
	return !n.IsZero() && n.raw().tok >= 0
}

// Token returns the token of a terminal node, or [token.Zero] for rules.
func (n Node) Token() token.Token {
	if !n.IsTerminal() {
		return token.Zero
	}
	return n.tree.stream.At(int(n.raw().tok))
}

// Parent returns this node's parent, or the zero node for the root.
func (n Node) Parent() Node {
	if n.IsZero() {
		return Node{}
	}
	p := n.raw().parent
	if p < 0 {
		return Node{}
	}
	return Node{n.tree, p}
}

// NumChildren returns the number of children. Terminals have none.
func (n Node) NumChildren() int {
	if n.IsZero() {
		return 0
	}
	c := n.raw().children
	return int(c.end - c.start)
}

// Child returns the i-th child.
func (n Node) Child(i int) Node {
	c := n.raw().children
	if i < 0 || i >= int(c.end-c.start) {
		panic(fmt.Sprintf("bslcore/tree: child index out of range: %d", i))
	}
	return Node{n.tree, n.tree.edges[int(c.start)+i]}
}

// Children returns an iterator over this node's children, in order.
func (n Node) Children() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for i := range n.NumChildren() {
			if !yield(n.Child(i)) {
				return
			}
		}
	}
}

// PreOrder returns an iterator over this node and all of its descendants, in
// depth-first pre-order.
func (n Node) PreOrder() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		if n.IsZero() {
			return
		}
		stack := []Node{n}
		for len(stack) > 0 {
			next := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(next) {
				return
			}
			for i := next.NumChildren() - 1; i >= 0; i-- {
				stack = append(stack, next.Child(i))
			}
		}
	}
}

// Range returns the range of original source this node spans.
func (n Node) Range() source.Range {
	if n.IsZero() {
		return source.Range{}
	}
	return n.raw().rng
}

// TokenRange returns the indices of the first and last tokens this node
// spans, inclusive. Both are -1 for empty rule nodes.
func (n Node) TokenRange() (first, last int) {
	raw := n.raw()
	return int(raw.first), int(raw.last)
}

// String implements [fmt.Stringer].
func (n Node) String() string {
	switch {
	case n.IsZero():
		return "<nil>"
	case n.IsTerminal():
		return n.Token().String()
	default:
		return fmt.Sprintf("rule(%d)@%s", n.Kind(), n.Range())
	}
}

func (n Node) raw() *node {
	return &n.tree.nodes[n.id]
}
