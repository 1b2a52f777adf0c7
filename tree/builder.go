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

	"github.com/bufbuild/bslcore/source"
	"github.com/bufbuild/bslcore/token"
)

// MalformedTreeError is returned when a grammar tries to build a tree that
// violates the structural invariants of this package. It always indicates a
// broken grammar integration.
type MalformedTreeError struct {
	Path   string
	Kind   Kind         // The rule being built, if any.
	Range  source.Range // Where the problem is, if known.
	Reason string
}

// Error implements [error].
func (e *MalformedTreeError) Error() string {
	if e.Range.IsZero() {
		return fmt.Sprintf("%s: malformed tree: rule %d: %s", e.Path, e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s:%d:%d: malformed tree: rule %d: %s",
		e.Path, e.Range.StartLine, e.Range.StartColumn, e.Kind, e.Reason)
}

// Options configures a [Builder].
type Options struct {
	// If set, siblings need not be contiguous: grammars that drop
	// hidden-channel tokens from their trees leave gaps between children.
	// Overlapping or out-of-order children are still rejected.
	AllowGaps bool
}

// Builder constructs a [Tree] bottom-up.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	tree *Tree
	opts Options
}

// NewBuilder returns a builder for a tree over the given stream, which must be
// frozen.
func NewBuilder(stream *token.Stream, opts Options) (*Builder, error) {
	if !stream.Frozen() {
		return nil, fmt.Errorf("bslcore/tree: %s: cannot build a tree over an unfrozen token stream", stream.File().Path())
	}
	return &Builder{tree: &Tree{stream: stream, root: -1}, opts: opts}, nil
}

// Stream returns the stream this builder builds over.
func (b *Builder) Stream() *token.Stream {
	return b.tree.stream
}

// Terminal creates a new terminal node for tok.
//
// Panics if tok is not from this builder's stream.
func (b *Builder) Terminal(tok token.Token) Node {
	b.assertOpen()
	if tok.Stream() != b.tree.stream {
		panic("bslcore/tree: terminal for a token from a different stream")
	}
	idx := int32(tok.Index())
	return b.push(node{
		kind:  Kind(tok.Kind()),
		tok:   idx,
		rng:   tok.Range(),
		first: idx,
		last:  idx,
	}, nil)
}

// Empty creates a rule node with no children. It spans the empty range at the
// start of the given token.
func (b *Builder) Empty(kind Kind, at token.Token) Node {
	b.assertOpen()
	start, _ := at.Offsets()
	return b.push(node{
		kind:  kind,
		tok:   -1,
		rng:   b.tree.File().Range(start, start),
		first: -1,
		last:  -1,
	}, nil)
}

// Rule creates a new rule node with the given children, whose range is the
// union of theirs.
//
// Returns a [*MalformedTreeError] if there are no children, if any child
// already has a parent, or if the children are out of order, overlap, or
// (unless [Options.AllowGaps] is set) leave gaps between each other.
func (b *Builder) Rule(kind Kind, children ...Node) (Node, error) {
	b.assertOpen()
	if len(children) == 0 {
		return Node{}, b.errorf(kind, source.Range{}, "rule has no children; use Builder.Empty")
	}

	rng := children[0].Range()
	first, last := int32(-1), int32(-1)
	seen := make(map[int32]struct{}, len(children))
	for i, child := range children {
		if child.tree != b.tree {
			return Node{}, b.errorf(kind, child.Range(), "child %d is from a different tree", i)
		}
		if _, dup := seen[child.id]; dup {
			return Node{}, b.errorf(kind, child.Range(), "child %d appears twice", i)
		}
		seen[child.id] = struct{}{}
		if child.raw().parent >= 0 {
			return Node{}, b.errorf(kind, child.Range(), "child %d already has a parent", i)
		}

		r := child.Range()
		if i > 0 {
			prev := children[i-1].Range()
			switch {
			case r.Start < prev.End:
				return Node{}, b.errorf(kind, r, "child %d overlaps or precedes child %d", i, i-1)
			case r.Start > prev.End && !b.opts.AllowGaps:
				return Node{}, b.errorf(kind, r, "gap between children %d and %d", i-1, i)
			}
			rng.End, rng.EndLine, rng.EndColumn = r.End, r.EndLine, r.EndColumn
		}

		f, l := child.TokenRange()
		if f >= 0 {
			if first < 0 {
				first = int32(f)
			}
			last = int32(l)
		}
	}

	return b.push(node{
		kind:  kind,
		tok:   -1,
		rng:   rng,
		first: first,
		last:  last,
	}, children), nil
}

// RuleSpanning is like [Builder.Rule], but additionally checks that the
// children span exactly the tokens from first to last, as the grammar
// declares.
func (b *Builder) RuleSpanning(kind Kind, first, last token.Token, children ...Node) (Node, error) {
	declared := source.Join(first.Range(), last.Range())

	// Validate the children before touching the arena, so that a mismatch
	// leaves no half-attached rule behind.
	if len(children) > 0 {
		union := source.Join(children[0].Range(), children[len(children)-1].Range())
		if union.Start != declared.Start || union.End != declared.End {
			return Node{}, b.errorf(kind, declared,
				"declared span %s does not match children's span %s", declared, union)
		}
	}
	return b.Rule(kind, children...)
}

// Finish completes the tree with the given root.
//
// Every node other than root must have been attached to a parent, and root
// must begin at the start of the input. If root ends before the end of the
// input, the tree records a partial parse; see [Tree.Partial]. With
// [Options.AllowGaps], tokens off the code channel may precede or follow
// root.
//
// The builder may not be used afterwards.
func (b *Builder) Finish(root Node) (*Tree, error) {
	b.assertOpen()
	t := b.tree
	if root.tree != t {
		return nil, b.errorf(0, source.Range{}, "root is from a different tree")
	}
	if root.raw().parent >= 0 {
		return nil, b.errorf(root.Kind(), root.Range(), "root has a parent")
	}

	file := t.File()
	rng := root.Range()
	start := file.Offsets().Normalized(rng.Start)
	if start != 0 && !b.trivia(0, start) {
		return nil, b.errorf(root.Kind(), rng, "root does not start at the beginning of the input")
	}

	var orphans int
	for i := range t.nodes {
		if int32(i) != root.id && t.nodes[i].parent < 0 {
			orphans++
		}
	}
	if orphans > 0 {
		return nil, b.errorf(root.Kind(), source.Range{}, "%d nodes are not attached to the tree", orphans)
	}
	if end := file.Offsets().Normalized(rng.End); end < file.Len() && !b.trivia(end, file.Len()) {
		t.remainder = file.Range(end, file.Len())
	}

	t.root = root.id
	for n := range root.PreOrder() {
		if n.IsTerminal() && !n.Range().IsEmpty() {
			t.terminals = append(t.terminals, n.id)
		}
	}
	t.finished = true
	return t, nil
}

// trivia reports whether the normalized span [start, end) holds only tokens
// off the code channel and gaps are allowed. Grammars that drop hidden tokens
// may leave such spans outside the root.
func (b *Builder) trivia(start, end int) bool {
	if !b.opts.AllowGaps {
		return false
	}
	for tok := range b.tree.stream.All() {
		tokStart, tokEnd := tok.Offsets()
		if tokEnd <= start || tokStart == tokEnd {
			continue
		}
		if tokStart >= end {
			break
		}
		if tok.Channel() == token.Code {
			return false
		}
	}
	return true
}

func (b *Builder) push(n node, children []Node) Node {
	t := b.tree
	id := int32(len(t.nodes))
	n.parent = -1
	n.children.start = int32(len(t.edges))
	for _, child := range children {
		t.edges = append(t.edges, child.id)
		t.nodes[child.id].parent = id
	}
	n.children.end = int32(len(t.edges))
	t.nodes = append(t.nodes, n)
	return Node{t, id}
}

func (b *Builder) assertOpen() {
	if b.tree.finished {
		panic("bslcore/tree: builder used after Finish")
	}
}

func (b *Builder) errorf(kind Kind, rng source.Range, format string, args ...any) error {
	return &MalformedTreeError{
		Path:   b.tree.File().Path(),
		Kind:   kind,
		Range:  rng,
		Reason: fmt.Sprintf(format, args...),
	}
}
