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

package token_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/bslcore/source"
	"github.com/bufbuild/bslcore/token"
)

const (
	ident token.Kind = iota + 1
	space
	eq
	number
	semi
	comment
	directive
)

func newTable(t *testing.T) *token.Table {
	t.Helper()
	table, err := token.NewTable(token.TableConfig{
		Grammar:      "test",
		Comment:      []token.Kind{comment},
		Preprocessor: []token.Kind{directive},
		Hidden:       []token.Kind{space},
		Names: map[token.Kind]string{
			ident: "IDENT", space: "WS", eq: "EQ", number: "NUM",
			semi: "SEMI", comment: "COMMENT", directive: "DIRECTIVE",
		},
	})
	require.NoError(t, err)
	return table
}

// lex pushes tokens for "А = 1; // к\n".
func lex(t *testing.T) *token.Stream {
	t.Helper()
	s, err := token.NewStream(source.NewFile("test.bsl", "А = 1; // к\n"), newTable(t))
	require.NoError(t, err)

	s.Push(ident, 2)
	s.Push(space, 1)
	s.Push(eq, 1)
	s.Push(space, 1)
	s.Push(number, 1)
	s.Push(semi, 1)
	s.Push(space, 1)
	s.Push(comment, 5)
	s.Push(space, 1)
	require.NoError(t, s.Freeze())
	return s
}

func texts(seq func(func(token.Token) bool)) []string {
	var out []string
	for tok := range seq {
		out = append(out, tok.Text())
	}
	return out
}

func TestStream(t *testing.T) {
	t.Parallel()
	s := lex(t)

	assert.Equal(t, 10, s.Len())
	assert.Equal(t, []string{"А", " ", "=", " ", "1", ";", " ", "// к", "\n", ""}, texts(s.All()))

	eof := s.EOF()
	assert.Equal(t, token.EOF, eof.Kind())
	assert.Equal(t, token.Hidden, eof.Channel())
	assert.Equal(t, 9, eof.Index())
	assert.True(t, eof.Range().IsEmpty())

	tok := s.At(7)
	assert.Equal(t, token.Comment, tok.Channel())
	assert.Equal(t, source.Range{Start: 8, End: 13, StartLine: 1, StartColumn: 8, EndLine: 1, EndColumn: 12}, tok.Range())
	assert.Equal(t, `COMMENT@7(comment)"// к"`, tok.String())

	assert.Panics(t, func() { s.Push(ident, 1) })
	assert.NoError(t, s.Freeze(), "freezing twice is a no-op")
}

func TestCommentChannel(t *testing.T) {
	t.Parallel()
	s := lex(t)

	code := s.View(token.Code)
	assert.Equal(t, []string{"А", "=", "1", ";"}, texts(code.All()))
	for tok := range code.All() {
		assert.NotEqual(t, comment, tok.Kind())
	}

	// The comment is still in the full buffer, at its original index.
	assert.Equal(t, comment, s.At(7).Kind())
	comments := slices.Collect(s.View(token.Comment).All())
	require.Len(t, comments, 1)
	assert.Equal(t, 7, comments[0].Index())
}

func TestViewRestartable(t *testing.T) {
	t.Parallel()
	s := lex(t)
	code := s.View(token.Code)

	first := slices.Collect(code.All())
	second := slices.Collect(code.All())
	assert.Equal(t, first, second)
	assert.Equal(t, 4, code.Len())

	// Filtered positions translate back to stream indices.
	var indices []int
	for pos, tok := range code.Indexed() {
		assert.Equal(t, tok, s.At(tok.Index()))
		indices = append(indices, pos, tok.Index())
	}
	assert.Equal(t, []int{0, 0, 1, 2, 2, 4, 3, 5}, indices)

	// Independent views interleave without interfering.
	var mixed []string
	for c := range code.All() {
		for h := range s.View(token.Hidden).All() {
			if h.Index() == c.Index()+1 {
				mixed = append(mixed, c.Text()+"|"+h.Text())
			}
		}
	}
	assert.Equal(t, []string{"А| ", "=| ", ";| "}, mixed)
}

func TestAround(t *testing.T) {
	t.Parallel()
	s := lex(t)

	tests := []struct {
		offset        int
		before, after int // Token indices, -1 for Zero.
	}{
		{0, -1, 0},
		{1, 0, 0},
		{2, 0, 1},
		{10, 7, 7},
		{13, 7, 8},
		{14, 8, -1},
	}
	for _, test := range tests {
		before, after := s.Around(test.offset)
		assert.Equal(t, test.before, before.Index(), "before %d", test.offset)
		assert.Equal(t, test.after, after.Index(), "after %d", test.offset)
	}
}

func TestCursor(t *testing.T) {
	t.Parallel()
	s := lex(t)

	c := s.View(token.Code).Cursor()
	assert.Equal(t, "А", c.Next().Text())
	assert.Equal(t, " ", c.PeekSkippable().Text())
	mark := c.Mark()
	assert.Equal(t, "=", c.Peek().Text())
	assert.Equal(t, "=", c.Next().Text())
	assert.Equal(t, " ", c.NextSkippable().Text())
	c.Rewind(mark)
	assert.Equal(t, " ", c.NextSkippable().Text())

	assert.Equal(t, []string{"=", "1", ";"}, texts(c.Rest()))
	assert.True(t, c.Next().IsZero())
	assert.True(t, c.Done())

	other := s.View(token.Code).Cursor()
	assert.Panics(t, func() { other.Rewind(mark) })
}

func TestIncompleteLex(t *testing.T) {
	t.Parallel()

	s, err := token.NewStream(source.NewFile("test.bsl", "abc"), newTable(t))
	require.NoError(t, err)
	s.Push(ident, 2)
	assert.Error(t, s.Freeze())
	assert.False(t, s.Frozen())
	assert.Panics(t, func() { s.Push(ident, 2) }, "overflow")
}
