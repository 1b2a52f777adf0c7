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

// Package preproc indexes the regions delimited by paired preprocessor
// directives, such as #Если/#КонецЕсли and #Область/#КонецОбласти.
//
// Directives live on the [token.Preprocessor] channel, outside of any parse
// tree, so consumers that need to know which #Область an offset is in query
// an [Index] instead of the tree.
package preproc

import (
	"fmt"
	"iter"

	"github.com/bufbuild/bslcore/internal/interval"
	"github.com/bufbuild/bslcore/source"
	"github.com/bufbuild/bslcore/token"
)

// Pair is a pair of token kinds that open and close a region.
type Pair struct {
	Open, Close token.Kind
}

// Region is the text between an opening directive and its closing one,
// both included.
type Region struct {
	Open, Close token.Token
	Depth       int // Number of regions enclosing this one.
}

// Range returns the range of the region.
func (r Region) Range() source.Range {
	return source.Join(r.Open, r.Close)
}

// String implements [fmt.Stringer].
func (r Region) String() string {
	return fmt.Sprintf("%q@%s", r.Open.Text(), r.Range())
}

// UnbalancedError is returned by [Build] for a directive without a partner.
type UnbalancedError struct {
	Path      string
	Directive token.Token
	// The closing kind that was expected: EOF for a stray closing
	// directive, or the directive's own kind for one never closed.
	Expected token.Kind
}

// Error implements [error].
func (e *UnbalancedError) Error() string {
	if e.Directive.IsZero() {
		return fmt.Sprintf("%s: unbalanced preprocessor directive", e.Path)
	}
	r := e.Directive.Range()
	switch e.Expected {
	case token.EOF:
		return fmt.Sprintf("%s:%d:%d: %q closes no region", e.Path, r.StartLine, r.StartColumn, e.Directive.Text())
	case e.Directive.Kind():
		return fmt.Sprintf("%s:%d:%d: %q is never closed", e.Path, r.StartLine, r.StartColumn, e.Directive.Text())
	default:
		return fmt.Sprintf("%s:%d:%d: found %q where %s was expected",
			e.Path, r.StartLine, r.StartColumn, e.Directive.Text(),
			e.Directive.Stream().Table().KindName(e.Expected))
	}
}

// Index is the set of regions in a token stream.
type Index struct {
	regions []Region // In order of opening directive.
	nesting interval.Nesting[int, int]
}

// Build pairs up the directives on the stream's preprocessor channel.
//
// Returns an [*UnbalancedError] if a closing directive does not match the
// innermost open region, or if a region is never closed.
func Build(stream *token.Stream, pairs ...Pair) (*Index, error) {
	opens := make(map[token.Kind]token.Kind, len(pairs))
	closes := make(map[token.Kind]bool, len(pairs))
	for _, p := range pairs {
		opens[p.Open] = p.Close
		closes[p.Close] = true
	}

	idx := new(Index)
	var stack []int // Indices into idx.regions.
	for tok := range stream.View(token.Preprocessor).All() {
		kind := tok.Kind()
		if _, ok := opens[kind]; ok {
			stack = append(stack, len(idx.regions))
			idx.regions = append(idx.regions, Region{Open: tok, Depth: len(stack) - 1})
		} else if closes[kind] {
			if len(stack) == 0 {
				return nil, &UnbalancedError{Path: stream.File().Path(), Directive: tok, Expected: token.EOF}
			}
			top := &idx.regions[stack[len(stack)-1]]
			if want := opens[top.Open.Kind()]; want != kind {
				return nil, &UnbalancedError{Path: stream.File().Path(), Directive: tok, Expected: want}
			}
			top.Close = tok
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		open := idx.regions[stack[len(stack)-1]].Open
		return nil, &UnbalancedError{Path: stream.File().Path(), Directive: open, Expected: open.Kind()}
	}

	// Regions are in order of their opening directives, so each is inserted
	// after every region containing it.
	for i, r := range idx.regions {
		rng := r.Range()
		if _, err := idx.nesting.Insert(rng.Start, rng.End-1, i); err != nil {
			panic(fmt.Sprintf("bslcore/preproc: balanced directives did not nest: %v", err))
		}
	}
	return idx, nil
}

// Len returns the number of regions.
func (i *Index) Len() int {
	return len(i.regions)
}

// Depth returns the deepest nesting of regions: zero with no regions, one
// when none is nested in another.
func (i *Index) Depth() int {
	return i.nesting.Depth()
}

// Regions returns an iterator over every region, in order of their opening
// directives.
func (i *Index) Regions() iter.Seq[Region] {
	return func(yield func(Region) bool) {
		for _, r := range i.regions {
			if !yield(r) {
				return
			}
		}
	}
}

// Containing returns an iterator over the regions containing the given
// original byte offset, outermost first.
func (i *Index) Containing(offset int) iter.Seq[Region] {
	return func(yield func(Region) bool) {
		for e := range i.nesting.Containing(offset) {
			if !yield(i.regions[e.Value]) {
				return
			}
		}
	}
}

// Innermost returns the innermost region containing the given original byte
// offset.
func (i *Index) Innermost(offset int) (Region, bool) {
	var (
		found Region
		ok    bool
	)
	for r := range i.Containing(offset) {
		found, ok = r, true
	}
	return found, ok
}
