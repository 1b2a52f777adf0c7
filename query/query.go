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

package query

import (
	"iter"
	"slices"

	"github.com/bufbuild/bslcore/token"
	"github.com/bufbuild/bslcore/tree"
)

// FindAncestor returns the closest proper ancestor of n for which pred
// returns true.
//
// Returns false if no ancestor matches, which includes n being the root.
func FindAncestor(n tree.Node, pred func(tree.Node) bool) (tree.Node, bool) {
	for p := n.Parent(); !p.IsZero(); p = p.Parent() {
		if pred(p) {
			return p, true
		}
	}
	return tree.Node{}, false
}

// Ancestors returns an iterator over the proper ancestors of n, innermost
// first.
func Ancestors(n tree.Node) iter.Seq[tree.Node] {
	return func(yield func(tree.Node) bool) {
		for p := n.Parent(); !p.IsZero(); p = p.Parent() {
			if !yield(p) {
				return
			}
		}
	}
}

// FindDescendants returns an iterator over the proper descendants of n for
// which pred returns true, in depth-first pre-order.
//
// The iterator may be ranged over any number of times.
func FindDescendants(n tree.Node, pred func(tree.Node) bool) iter.Seq[tree.Node] {
	return func(yield func(tree.Node) bool) {
		for d := range n.PreOrder() {
			if d == n || !pred(d) {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

// OfKind returns a predicate matching rule nodes of any of the given kinds.
// Terminals never match, even when their token kind has the same number; use
// [OfTokenKind] for those.
func OfKind(kinds ...tree.Kind) func(tree.Node) bool {
	return func(n tree.Node) bool {
		if n.IsZero() || n.IsTerminal() {
			return false
		}
		return slices.Contains(kinds, n.Kind())
	}
}

// OfTokenKind returns a predicate matching terminal nodes whose token is of
// any of the given kinds.
func OfTokenKind(kinds ...token.Kind) func(tree.Node) bool {
	return func(n tree.Node) bool {
		if n.IsZero() || !n.IsTerminal() {
			return false
		}
		return slices.Contains(kinds, n.Token().Kind())
	}
}

// TextOf returns the original source text spanned by n, byte for byte.
//
// For transcoded inputs this is the decoded text of the span; see
// [source.File.Slice].
func TextOf(n tree.Node) string {
	if n.IsZero() {
		return ""
	}
	return n.Tree().File().Slice(n.Range())
}
