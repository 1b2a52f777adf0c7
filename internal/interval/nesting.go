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

// Package interval provides collections of integer intervals.
package interval

import (
	"fmt"
	"iter"

	"github.com/tidwall/btree"
	"golang.org/x/exp/constraints" //nolint:exptostd // Tries to replace w/ cmp.
)

// Endpoint is a type that may be used as an interval endpoint.
type Endpoint = constraints.Integer

// Entry is an interval in a [Nesting], with its associated value.
type Entry[K Endpoint, V any] struct {
	Start, End K // The interval range, inclusive.
	Value      V
}

// Contains returns whether an entry contains a given point.
func (e Entry[K, V]) Contains(point K) bool {
	return e.Start <= point && point <= e.End
}

// Nesting is a collection of properly nested intervals: any two of them are
// either disjoint, or one contains the other. Such intervals arise from
// bracketing constructs, like paired preprocessor directives.
//
// Intervals are stored by depth, and each depth is a set of disjoint
// intervals keyed by their ends, so finding every interval containing a
// point takes O(d log n) for depth d.
//
// A zero value is ready to use.
type Nesting[K Endpoint, V any] struct {
	levels []*btree.Map[K, *Entry[K, V]]
	len    int
}

// Len returns the number of intervals in the collection.
func (n *Nesting[K, V]) Len() int {
	return n.len
}

// Depth returns the number of nesting levels.
func (n *Nesting[K, V]) Depth() int {
	return len(n.levels)
}

// Insert adds a new interval to the collection and returns its depth.
//
// An interval must be inserted after every interval containing it; inserting
// in order of start, outermost first, satisfies this. Returns an error if
// the interval crosses one already present, or contains one.
func (n *Nesting[K, V]) Insert(start, end K, value V) (int, error) {
	if start > end {
		panic(fmt.Sprintf("interval: start (%#v) > end (%#v)", start, end))
	}

	depth := 0
	for ; depth < len(n.levels); depth++ {
		iter := n.levels[depth].Iter()
		if !iter.Seek(start) {
			break // Everything at this depth ends before us.
		}

		// [c, d] is the first interval at this depth with start <= d. Either
		// it lies wholly after us, or it must contain us.
		c, d := iter.Value().Start, iter.Value().End
		if start < c {
			if c <= end {
				return 0, fmt.Errorf("interval: [%v, %v] overlaps [%v, %v]", start, end, c, d)
			}
			break
		}
		if end > d {
			return 0, fmt.Errorf("interval: [%v, %v] crosses [%v, %v]", start, end, c, d)
		}
	}

	if depth == len(n.levels) {
		n.levels = append(n.levels, new(btree.Map[K, *Entry[K, V]]))
	}
	n.levels[depth].Set(end, &Entry[K, V]{Start: start, End: end, Value: value})
	n.len++
	return depth, nil
}

// Containing returns an iterator over the intervals containing point,
// outermost first.
func (n *Nesting[K, V]) Containing(point K) iter.Seq[Entry[K, V]] {
	return func(yield func(Entry[K, V]) bool) {
		for _, level := range n.levels {
			iter := level.Iter()
			if !iter.Seek(point) || point < iter.Value().Start {
				return
			}
			if !yield(*iter.Value()) {
				return
			}
		}
	}
}
