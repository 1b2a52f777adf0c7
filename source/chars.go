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

package source

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Fold selects how a [Chars] view re-cases characters for the lexer.
type Fold byte

const (
	FoldNone  Fold = iota // Case-sensitive matching.
	FoldUpper             // Compare upper-cased characters.
	FoldLower             // Compare lower-cased characters.
)

// String implements [fmt.Stringer].
func (f Fold) String() string {
	switch f {
	case FoldNone:
		return "none"
	case FoldUpper:
		return "upper"
	case FoldLower:
		return "lower"
	default:
		return fmt.Sprintf("source.Fold(%d)", int(f))
	}
}

// Rune applies this folding to a single rune.
func (f Fold) Rune(r rune) rune {
	switch f {
	case FoldUpper:
		return unicode.ToUpper(r)
	case FoldLower:
		return unicode.ToLower(r)
	default:
		return r
	}
}

// Chars is a lexer's cursor over the normalized text of a [File].
//
// Each call yields the rune at the current position, re-cased according to
// the view's [Fold], along with the size of the *unfolded* rune in the
// normalized text. Positions therefore always refer to the normalized text,
// no matter how folding changes a rune's encoded length.
type Chars struct {
	file   *File
	fold   Fold
	offset int
}

// Chars returns a new cursor at the start of this file, with the given
// folding applied.
func (f *File) Chars(fold Fold) *Chars {
	return &Chars{file: f, fold: fold}
}

// File returns the file this cursor is over.
func (c *Chars) File() *File {
	return c.file
}

// Fold returns this view's folding.
func (c *Chars) Fold() Fold {
	return c.fold
}

// Offset returns the current normalized offset.
func (c *Chars) Offset() int {
	return c.offset
}

// Done returns whether the cursor has reached the end of the text.
func (c *Chars) Done() bool {
	return c.offset >= len(c.file.text)
}

// Peek returns the folded rune at the cursor, without advancing. Returns -1 at
// the end of the text.
func (c *Chars) Peek() rune {
	r, _ := c.at(c.offset)
	return r
}

// PeekAt returns the folded rune n runes ahead of the cursor, or -1 if the
// text ends first.
func (c *Chars) PeekAt(n int) rune {
	offset := c.offset
	for range n {
		_, size := c.at(offset)
		if size == 0 {
			return -1
		}
		offset += size
	}
	r, _ := c.at(offset)
	return r
}

// Next returns the folded rune at the cursor and advances past it. Returns -1
// at the end of the text.
func (c *Chars) Next() rune {
	r, size := c.at(c.offset)
	c.offset += size
	return r
}

// Take advances the cursor while p holds for the folded runes, and returns
// the number of normalized bytes consumed.
func (c *Chars) Take(p func(rune) bool) int {
	start := c.offset
	for {
		r, size := c.at(c.offset)
		if size == 0 || !p(r) {
			return c.offset - start
		}
		c.offset += size
	}
}

// HasPrefix returns whether the text at the cursor starts with word, with
// this view's folding applied to both sides.
func (c *Chars) HasPrefix(word string) bool {
	offset := c.offset
	for _, want := range word {
		got, size := c.at(offset)
		if size == 0 || got != c.fold.Rune(want) {
			return false
		}
		offset += size
	}
	return true
}

// Seek moves the cursor to a normalized offset.
//
// Panics if offset is out of bounds or not at the start of a rune.
func (c *Chars) Seek(offset int) {
	if offset < 0 || offset > len(c.file.text) ||
		(offset < len(c.file.text) && !utf8.RuneStart(c.file.text[offset])) {
		panic(fmt.Sprintf("bslcore/source: cannot seek to %d", offset))
	}
	c.offset = offset
}

func (c *Chars) at(offset int) (rune, int) {
	if offset >= len(c.file.text) {
		return -1, 0
	}
	r, size := utf8.DecodeRuneInString(c.file.text[offset:])
	return c.fold.Rune(r), size
}
