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

import (
	"fmt"
	"iter"
	"math"
	"sort"

	"github.com/bufbuild/bslcore/source"
)

// Stream is the full token buffer for one file.
//
// A lexer fills a stream with [Stream.Push] and then calls [Stream.Freeze].
// Once frozen, a stream is immutable and safe for concurrent reads.
type Stream struct {
	file  *source.File
	table *Table

	toks   []rawToken
	frozen bool
}

// NewStream returns an empty stream over file, classifying tokens with table.
//
// Returns an [*UnregisteredGrammarError] if table is nil.
func NewStream(file *source.File, table *Table) (*Stream, error) {
	if err := table.Check(); err != nil {
		return nil, err
	}
	return &Stream{file: file, table: table}, nil
}

// File returns the file this stream is over.
func (s *Stream) File() *source.File {
	return s.file
}

// Table returns the table tokens are classified with.
func (s *Stream) Table() *Table {
	return s.table
}

// Len returns the number of tokens in this stream, including EOF.
func (s *Stream) Len() int {
	return len(s.toks)
}

// At returns the token at the given index.
//
// Panics if the index is out of bounds.
func (s *Stream) At(index int) Token {
	if index < 0 || index >= len(s.toks) {
		panic(fmt.Sprintf("bslcore/token: index out of range: %d not in [0, %d)", index, len(s.toks)))
	}
	return Token{s, index}
}

// All returns an iterator over every token in this stream, in order.
func (s *Stream) All() iter.Seq[Token] {
	return s.View(Code, Comment, Preprocessor, Hidden).All()
}

// Push mints the next token, which covers the next length bytes of the
// normalized text. Tokens are contiguous: each one starts where the last
// ended.
//
// Panics if this stream is frozen, if length is not positive, or if the token
// would run past the end of the text.
func (s *Stream) Push(kind Kind, length int) Token {
	if s.frozen {
		panic("bslcore/token: attempted to mutate frozen stream")
	}
	if length <= 0 || length > math.MaxInt32 {
		panic(fmt.Sprintf("bslcore/token: Push() called with invalid length: %d", length))
	}

	start := s.end()
	end := start + length
	if end > s.file.Len() {
		panic(fmt.Sprintf("bslcore/token: Push() overflowed backing text: %d > %d", end, s.file.Len()))
	}

	s.toks = append(s.toks, rawToken{
		start:   int32(start),
		end:     int32(end),
		kind:    kind,
		channel: s.table.Classify(kind),
	})
	return Token{s, len(s.toks) - 1}
}

// Freeze completes lexing: it appends a zero-width [EOF] token on the
// [Hidden] channel and forbids further pushes. Calling Freeze again does
// nothing.
//
// Returns an error if the pushed tokens do not cover the whole text.
func (s *Stream) Freeze() error {
	if s.frozen {
		return nil
	}
	if end := s.end(); end != s.file.Len() {
		return fmt.Errorf("bslcore/token: %s: lexer stopped at offset %d of %d", s.file.Path(), end, s.file.Len())
	}

	end := int32(s.file.Len())
	s.toks = append(s.toks, rawToken{start: end, end: end, kind: EOF, channel: Hidden})
	s.frozen = true
	return nil
}

// Frozen returns whether [Stream.Freeze] has been called.
func (s *Stream) Frozen() bool {
	return s.frozen
}

// EOF returns the EOF token, or [Zero] if the stream is not frozen yet.
func (s *Stream) EOF() Token {
	if !s.frozen {
		return Zero
	}
	return Token{s, len(s.toks) - 1}
}

// Around returns the tokens around the given original offset. It has the
// following potential return values:
//
//  1. offset is at the start of the text: [Zero], first token.
//  2. offset is at the end of the text: last token, [Zero].
//  3. offset is the end of a token: the tokens ending and starting at offset.
//  4. offset is inside of a token tok: tok, tok.
//
// The EOF token is never returned.
func (s *Stream) Around(offset int) (Token, Token) {
	n := len(s.toks)
	if s.frozen {
		n-- // Skip EOF.
	}
	if n == 0 {
		return Zero, Zero
	}

	norm := s.file.Offsets().Normalized(offset)
	if norm <= 0 {
		return Zero, Token{s, 0}
	}
	if norm >= int(s.toks[n-1].end) {
		return Token{s, n - 1}, Zero
	}

	i := sort.Search(n, func(i int) bool { return int(s.toks[i].end) >= norm })
	if int(s.toks[i].end) == norm {
		return Token{s, i}, Token{s, i + 1}
	}
	return Token{s, i}, Token{s, i}
}

// View returns a view of the tokens on the given channels.
func (s *Stream) View(channels ...Channel) View {
	return View{stream: s, channels: ChannelSet(channels...)}
}

func (s *Stream) end() int {
	if len(s.toks) == 0 {
		return 0
	}
	return int(s.toks[len(s.toks)-1].end)
}
