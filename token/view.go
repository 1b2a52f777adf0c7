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

package token

import "iter"

// View is a channel-filtered view of a [Stream].
//
// A view is just a stream and a set of channels: it never copies or reorders
// the stream, so any number of views may coexist. Iterating a view always
// starts from the beginning of the stream.
type View struct {
	stream   *Stream
	channels Channels
}

// Stream returns the stream this view filters.
func (v View) Stream() *Stream {
	return v.stream
}

// Channels returns the channels this view selects.
func (v View) Channels() Channels {
	return v.channels
}

// Has returns whether tok is visible through this view.
func (v View) Has(tok Token) bool {
	return !tok.IsZero() && tok.stream == v.stream && v.channels.Has(tok.Channel())
}

// All returns an iterator over the tokens in this view.
//
// [Token.Index] of each yielded token is its position in the full stream.
func (v View) All() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for _, tok := range v.Indexed() {
			if !yield(tok) {
				return
			}
		}
	}
}

// Indexed is like [View.All], but also yields each token's position within
// this view.
func (v View) Indexed() iter.Seq2[int, Token] {
	return func(yield func(int, Token) bool) {
		if v.stream == nil {
			return
		}
		var n int
		for i := range v.stream.toks {
			if !v.channels.Has(v.stream.toks[i].channel) {
				continue
			}
			if !yield(n, Token{v.stream, i}) {
				return
			}
			n++
		}
	}
}

// Len counts the tokens in this view.
//
// This operation is O(n) in the size of the stream.
func (v View) Len() int {
	var n int
	for range v.All() {
		n++
	}
	return n
}

// Cursor returns a new cursor at the start of this view.
func (v View) Cursor() *Cursor {
	return &Cursor{view: v}
}

// Cursor walks a stream for a parser.
//
// Tokens outside of the cursor's [View] are "skippable": [Cursor.Next] and
// [Cursor.Peek] step over them, while the *Skippable variants return every
// token in turn.
type Cursor struct {
	view View
	idx  int
}

// CursorMark is a position a [Cursor] can be rewound to.
type CursorMark struct {
	owner *Cursor
	idx   int
}

// View returns the view this cursor filters with.
func (c *Cursor) View() View {
	return c.view
}

// Done returns whether every token has been consumed.
func (c *Cursor) Done() bool {
	return c.view.stream == nil || c.idx >= len(c.view.stream.toks)
}

// Mark returns a mark for the cursor's current position.
func (c *Cursor) Mark() CursorMark {
	return CursorMark{owner: c, idx: c.idx}
}

// Rewind moves the cursor back to a mark.
//
// Panics if the mark was made by a different cursor.
func (c *Cursor) Rewind(mark CursorMark) {
	if mark.owner != c {
		panic("bslcore/token: rewound cursor using the wrong cursor's mark")
	}
	c.idx = mark.idx
}

// PeekSkippable returns the next token, visible or not, without consuming
// it. Returns [Zero] at the end of the stream.
func (c *Cursor) PeekSkippable() Token {
	if c.Done() {
		return Zero
	}
	return Token{c.view.stream, c.idx}
}

// NextSkippable is like [Cursor.PeekSkippable], but consumes the token.
func (c *Cursor) NextSkippable() Token {
	tok := c.PeekSkippable()
	if !tok.IsZero() {
		c.idx++
	}
	return tok
}

// Peek returns the next visible token without consuming anything. Returns
// [Zero] if no visible tokens remain.
func (c *Cursor) Peek() Token {
	if c.view.stream == nil {
		return Zero
	}
	for i := c.idx; i < len(c.view.stream.toks); i++ {
		if c.view.channels.Has(c.view.stream.toks[i].channel) {
			return Token{c.view.stream, i}
		}
	}
	return Zero
}

// Next returns the next visible token, consuming it and any skippable tokens
// before it.
func (c *Cursor) Next() Token {
	tok := c.Peek()
	if tok.IsZero() {
		if c.view.stream != nil {
			c.idx = len(c.view.stream.toks)
		}
		return Zero
	}
	c.idx = tok.index + 1
	return tok
}

// Rest returns an iterator over the remaining visible tokens. Iterating it
// consumes them.
func (c *Cursor) Rest() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			tok := c.Next()
			if tok.IsZero() || !yield(tok) {
				return
			}
		}
	}
}
