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

package bslcore_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/bslcore"
	"github.com/bufbuild/bslcore/internal/minibsl"
	"github.com/bufbuild/bslcore/source"
	"github.com/bufbuild/bslcore/token"
	"github.com/bufbuild/bslcore/tree"
)

// noTable is a grammar that never registered a channel table.
type noTable struct {
	minibsl.Grammar
}

func (noTable) Table() *token.Table { return nil }

// silent is a grammar whose lexer emits nothing.
type silent struct {
	minibsl.Grammar
}

func (silent) Lex(*source.Chars, *token.Stream) error { return nil }

func TestTokenizerOnce(t *testing.T) {
	t.Parallel()

	tz := bslcore.NewTokenizer(minibsl.Grammar{}, "once.bsl", []byte("А = 1;\n"), source.Unknown)
	assert.Equal(t, "once.bsl", tz.Path())
	assert.Equal(t, "minibsl", tz.Grammar().Name())

	var wg sync.WaitGroup
	trees := make([]*tree.Tree, 8)
	for i := range trees {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr, err := tz.Tree()
			assert.NoError(t, err)
			trees[i] = tr
		}()
	}
	wg.Wait()
	for _, tr := range trees[1:] {
		assert.Same(t, trees[0], tr)
	}

	file, err := tz.File()
	require.NoError(t, err)
	stream, err := tz.Tokens()
	require.NoError(t, err)
	assert.Same(t, file, stream.File())
	again, err := tz.File()
	require.NoError(t, err)
	assert.Same(t, file, again)
}

func TestTokenizerErrors(t *testing.T) {
	t.Parallel()

	t.Run("unregistered", func(t *testing.T) {
		t.Parallel()
		tz := bslcore.NewTokenizer(noTable{}, "x.bsl", []byte("А;"), source.Unknown)
		_, err := tz.File()
		require.NoError(t, err)
		_, err = tz.Tokens()
		var unregistered *token.UnregisteredGrammarError
		require.ErrorAs(t, err, &unregistered)
		assert.Equal(t, "minibsl", unregistered.Grammar)
		assert.EqualError(t, err, "bslcore/token: grammar minibsl has no registered channel table")
		_, err = tz.Tree()
		require.ErrorAs(t, err, &unregistered)
	})

	t.Run("untiled", func(t *testing.T) {
		t.Parallel()
		tz := bslcore.NewTokenizer(silent{}, "x.bsl", []byte("А;"), source.Unknown)
		_, err := tz.Tokens()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "grammar minibsl")
		assert.Contains(t, err.Error(), "lexer stopped at offset 0")
	})

	t.Run("decode", func(t *testing.T) {
		t.Parallel()
		tz := bslcore.NewTokenizer(minibsl.Grammar{}, "x.bsl", []byte{'a', 0x98}, source.Windows1251)
		_, err := tz.Tree()
		var decodeErr *source.DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.Equal(t, 1, decodeErr.Offset)
	})
}
