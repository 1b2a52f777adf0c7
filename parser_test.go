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
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/bslcore"
	"github.com/bufbuild/bslcore/internal/minibsl"
	"github.com/bufbuild/bslcore/reporter"
	"github.com/bufbuild/bslcore/source"
	"github.com/bufbuild/bslcore/token"
)

// collect returns a reporter that tolerates every error and records
// everything reported to it.
func collect() (reporter.Reporter, func() (errs, warnings []reporter.ErrorWithPos)) {
	var mu sync.Mutex
	var errs, warnings []reporter.ErrorWithPos
	rep := reporter.NewReporter(
		func(err reporter.ErrorWithPos) error {
			mu.Lock()
			defer mu.Unlock()
			errs = append(errs, err)
			return nil
		},
		func(err reporter.ErrorWithPos) {
			mu.Lock()
			defer mu.Unlock()
			warnings = append(warnings, err)
		},
	)
	return rep, func() ([]reporter.ErrorWithPos, []reporter.ErrorWithPos) {
		mu.Lock()
		defer mu.Unlock()
		return errs, warnings
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	p := bslcore.Parser{Grammar: minibsl.Grammar{}}
	res, err := p.Parse("ok.bsl", []byte("Если А Тогда\n\tБ = 1;\nКонецЕсли;\n"))
	require.NoError(t, err)
	assert.Equal(t, source.UTF8, res.File.Encoding())
	assert.Same(t, res.File, res.Tokens.File())
	_, partial := res.Tree.Partial()
	assert.False(t, partial)
	assert.Equal(t, minibsl.File, res.Tree.Root().Kind())
}

func TestParseNoGrammar(t *testing.T) {
	t.Parallel()

	var p bslcore.Parser
	_, err := p.Parse("x.bsl", nil)
	require.Error(t, err)
}

func TestParseEncodingConflict(t *testing.T) {
	t.Parallel()

	rep, reported := collect()
	p := bslcore.Parser{Grammar: minibsl.Grammar{}, Encoding: source.Windows1251, Reporter: rep}
	raw := append([]byte{0xef, 0xbb, 0xbf}, "А = 1;"...)
	res, err := p.Parse("bom.bsl", raw)
	require.NoError(t, err)
	assert.Equal(t, source.UTF8, res.File.Encoding())

	errs, warnings := reported()
	assert.Empty(t, errs)
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], source.ErrEncodingConflict)
	assert.Equal(t, "bom.bsl", warnings[0].Path())
	assert.Contains(t, warnings[0].Error(), "declared windows-1251, found utf-8")
}

func TestParseDecodeError(t *testing.T) {
	t.Parallel()

	p := bslcore.Parser{Grammar: minibsl.Grammar{}, Encoding: source.Windows1251}
	_, err := p.Parse("legacy.bsl", []byte{'a', '\n', 'b', 0x98})
	require.Error(t, err)
	assert.EqualError(t, err, "legacy.bsl:2:2: invalid windows-1251 byte sequence")

	var ewp reporter.ErrorWithPos
	require.ErrorAs(t, err, &ewp)
	assert.Equal(t, 3, ewp.Range().Start)

	var decodeErr *source.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, source.Windows1251, decodeErr.Encoding)
}

func TestParsePartial(t *testing.T) {
	t.Parallel()

	raw := []byte("А = 1;\nКонецЕсли;\n")

	t.Run("fatal", func(t *testing.T) {
		t.Parallel()
		p := bslcore.Parser{Grammar: minibsl.Grammar{}}
		res, err := p.Parse("partial.bsl", raw)
		assert.Nil(t, res)
		require.ErrorIs(t, err, bslcore.ErrPartialParse)
		var ewp reporter.ErrorWithPos
		require.ErrorAs(t, err, &ewp)
		assert.Equal(t, 1, ewp.Range().StartLine)
		assert.Equal(t, 7, ewp.Range().StartColumn)
	})

	t.Run("tolerated", func(t *testing.T) {
		t.Parallel()
		rep, reported := collect()
		p := bslcore.Parser{Grammar: minibsl.Grammar{}, Reporter: rep}
		res, err := p.Parse("partial.bsl", raw)
		require.NoError(t, err)
		rest, partial := res.Tree.Partial()
		assert.True(t, partial)
		assert.Equal(t, 7, rest.Start)

		errs, _ := reported()
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], bslcore.ErrPartialParse)
	})
}

func TestParseSyntaxError(t *testing.T) {
	t.Parallel()

	raw := []byte("Если А\nКонецЕсли;\n")

	p := bslcore.Parser{Grammar: minibsl.Grammar{}}
	_, err := p.Parse("error.bsl", raw)
	assert.EqualError(t, err, `error.bsl:2:1: expected Тогда, found "КонецЕсли"`)

	rep, reported := collect()
	p.Reporter = rep
	res, err := p.Parse("error.bsl", raw)
	assert.Nil(t, res)
	require.ErrorIs(t, err, reporter.ErrInvalidSource)
	errs, _ := reported()
	assert.Len(t, errs, 1)
}

func TestParseAll(t *testing.T) {
	t.Parallel()

	srcs := map[string]string{
		"a.bsl": "А = 1;",
		"b.bsl": "Если А Тогда\nКонецЕсли;",
		"c.bsl": "",
	}
	p := bslcore.Parser{
		Grammar:        minibsl.Grammar{},
		Resolver:       &bslcore.SourceResolver{Accessor: bslcore.SourceAccessorFromMap(srcs)},
		MaxParallelism: 2,
	}

	t.Run("ordered", func(t *testing.T) {
		t.Parallel()
		paths := []string{"c.bsl", "a.bsl", "b.bsl"}
		results, err := p.ParseAll(context.Background(), paths...)
		require.NoError(t, err)
		require.Len(t, results, len(paths))
		for i, res := range results {
			assert.Equal(t, paths[i], res.File.Path())
		}
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		results, err := p.ParseAll(context.Background())
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		_, err := p.ParseAll(context.Background(), "a.bsl", "nope.bsl")
		require.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("canceled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := p.ParseAll(ctx, "a.bsl", "b.bsl")
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestParseAllUnregistered(t *testing.T) {
	t.Parallel()

	var opened atomic.Int32
	p := bslcore.Parser{
		Grammar: noTable{},
		Resolver: bslcore.ResolverFunc(func(string) (io.ReadCloser, error) {
			opened.Add(1)
			return io.NopCloser(strings.NewReader("А;")), nil
		}),
	}
	_, err := p.ParseAll(context.Background(), "a.bsl", "b.bsl")
	var unregistered *token.UnregisteredGrammarError
	require.ErrorAs(t, err, &unregistered)
	assert.Equal(t, "minibsl", unregistered.Grammar)
	assert.Zero(t, opened.Load(), "no source is opened")

	_, err = p.ParseAll(context.Background())
	require.ErrorAs(t, err, &unregistered)

	var none bslcore.Parser
	_, err = none.ParseAll(context.Background(), "a.bsl")
	require.Error(t, err)
}

func TestResolvers(t *testing.T) {
	t.Parallel()

	read := func(t *testing.T, r bslcore.Resolver, path string) string {
		t.Helper()
		rc, err := r.FindFileByPath(path)
		require.NoError(t, err)
		defer rc.Close()
		var buf [64]byte
		n, _ := rc.Read(buf[:])
		return string(buf[:n])
	}

	search := &bslcore.SourceResolver{
		SearchPaths: []string{"lib", "src"},
		Accessor: bslcore.SourceAccessorFromMap(map[string]string{
			"src/a.bsl": "src",
			"lib/b.bsl": "lib",
			"src/b.bsl": "shadowed",
		}),
	}
	assert.Equal(t, "src", read(t, search, "a.bsl"))
	assert.Equal(t, "lib", read(t, search, "b.bsl"))
	_, err := search.FindFileByPath("c.bsl")
	require.ErrorIs(t, err, fs.ErrNotExist)

	broken := errors.New("broken")
	composite := bslcore.CompositeResolver{
		bslcore.ResolverFunc(func(string) (io.ReadCloser, error) { return nil, broken }),
		search,
	}
	assert.Equal(t, "src", read(t, composite, "a.bsl"))
	_, err = composite.FindFileByPath("c.bsl")
	require.ErrorIs(t, err, broken)

	_, err = bslcore.CompositeResolver{}.FindFileByPath("a.bsl")
	require.ErrorIs(t, err, fs.ErrNotExist)
}
