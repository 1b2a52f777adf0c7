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
	"fmt"
	"sort"

	"github.com/bufbuild/bslcore/tree"
)

// Direction selects which side of an offset [NearestTerminal] searches.
type Direction int8

const (
	Before Direction = iota
	After
)

// String implements [fmt.Stringer].
func (d Direction) String() string {
	switch d {
	case Before:
		return "before"
	case After:
		return "after"
	default:
		return fmt.Sprintf("Direction(%d)", int8(d))
	}
}

// NodeAt returns the deepest node containing the given original byte offset.
//
// Containment is half-open: an offset on the boundary between two siblings
// resolves to the one that starts there. Zero-width nodes are never returned
// unless the tree has nothing else.
//
// If the offset falls in a gap between siblings, which only trees built with
// [tree.Options.AllowGaps] can have, the nearest preceding sibling is
// descended into instead. The same rule makes the offset one past the end of
// the input resolve to the last non-empty terminal.
//
// Returns the zero node if offset lies outside the root's range.
func NodeAt(t *tree.Tree, offset int) tree.Node {
	n := t.Root()
	rng := n.Range()
	if offset < rng.Start || offset > rng.End {
		return tree.Node{}
	}
	for {
		child := childAt(n, offset)
		if child.IsZero() {
			return n
		}
		n = child
	}
}

// childAt returns the last non-empty child of n starting at or before offset.
func childAt(n tree.Node, offset int) tree.Node {
	i := sort.Search(n.NumChildren(), func(i int) bool {
		return n.Child(i).Range().Start > offset
	})
	for i--; i >= 0; i-- {
		if child := n.Child(i); !child.Range().IsEmpty() {
			return child
		}
	}
	return tree.Node{}
}

// NearestTerminal returns the closest non-empty terminal that ends at or
// before offset, or starts at or after it, depending on dir.
//
// Returns false if there is no terminal on that side.
func NearestTerminal(t *tree.Tree, offset int, dir Direction) (tree.Node, bool) {
	n := t.NumTerminals()
	switch dir {
	case Before:
		i := sort.Search(n, func(i int) bool {
			return t.Terminal(i).Range().End > offset
		})
		if i == 0 {
			return tree.Node{}, false
		}
		return t.Terminal(i - 1), true
	case After:
		i := sort.Search(n, func(i int) bool {
			return t.Terminal(i).Range().Start >= offset
		})
		if i == n {
			return tree.Node{}, false
		}
		return t.Terminal(i), true
	default:
		panic(fmt.Sprintf("bslcore/query: invalid direction: %v", dir))
	}
}
