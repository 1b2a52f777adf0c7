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

package bslcore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bufbuild/bslcore/internal/logging"
	"github.com/bufbuild/bslcore/reporter"
	"github.com/bufbuild/bslcore/source"
	"github.com/bufbuild/bslcore/token"
	"github.com/bufbuild/bslcore/tree"
)

// ErrPartialParse is the error reported when a grammar's tree does not cover
// the whole input.
var ErrPartialParse = errors.New("syntax error: input not parsed")

// Parser parses BSL sources with a [Grammar].
type Parser struct {
	// The grammar to parse with. This field is required.
	Grammar Grammar
	// Opens the paths given to ParseAll. If unspecified, paths are opened from
	// the file system.
	Resolver Resolver
	// The encoding sources are declared to be in. A byte-order mark takes
	// precedence over it; see [source.Read].
	Encoding source.Encoding
	// The maximum number of files ParseAll parses at once. If unspecified or
	// set to a non-positive value, then min(runtime.NumCPU(),
	// runtime.GOMAXPROCS(-1)) will be used.
	MaxParallelism int
	// A custom error and warning reporter. If unspecified, a default reporter
	// is used, which fails the parse on any error and ignores warnings.
	Reporter reporter.Reporter
}

// Result is the output of parsing one source: the three artifacts consumers
// depend on.
type Result struct {
	File   *source.File
	Tokens *token.Stream
	Tree   *tree.Tree
}

// Parse parses one in-memory source.
//
// Errors with a position are passed to the reporter. If it tolerates a
// partial parse, the result holds the partial tree; see [tree.Tree.Partial].
func (p *Parser) Parse(path string, raw []byte) (*Result, error) {
	if p.Grammar == nil {
		return nil, fmt.Errorf("bslcore: parser has no grammar")
	}
	h := reporter.NewHandler(p.Reporter)
	tok := NewTokenizer(p.Grammar, path, raw, p.Encoding)

	file, err := tok.File()
	if err != nil {
		var decodeErr *source.DecodeError
		if errors.As(err, &decodeErr) {
			rng := source.Range{
				Start: decodeErr.Offset, End: decodeErr.Offset,
				StartLine: decodeErr.Line, StartColumn: decodeErr.Column,
				EndLine: decodeErr.Line, EndColumn: decodeErr.Column,
			}
			err = reporter.Error(path, rng, decodeFailure{decodeErr})
		}
		return nil, h.HandleError(err)
	}
	if file.EncodingConflict() {
		h.HandleWarning(path, source.Range{}, fmt.Errorf("%w: declared %s, found %s",
			source.ErrEncodingConflict, file.DeclaredEncoding(), file.Encoding()))
	}

	t, err := tok.Tree()
	if err != nil {
		if err := h.HandleError(err); err != nil {
			return nil, err
		}
		return nil, h.Error()
	}
	stream, _ := tok.Tokens()

	if rest, partial := t.Partial(); partial {
		if err := h.HandleError(reporter.Error(path, rest, ErrPartialParse)); err != nil {
			return nil, err
		}
	}
	return &Result{File: file, Tokens: stream, Tree: t}, nil
}

// ParseAll opens and parses the sources at the given paths, several at a
// time. Results are in the order of paths.
//
// A grammar without a channel table fails before any source is opened. The
// first fatal error stops the remaining parses from starting and is
// returned. Cancelling ctx does the same; parses already running finish.
func (p *Parser) ParseAll(ctx context.Context, paths ...string) ([]*Result, error) {
	if p.Grammar == nil {
		return nil, fmt.Errorf("bslcore: parser has no grammar")
	}
	if err := checkGrammar(p.Grammar); err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}

	par := p.MaxParallelism
	if par <= 0 {
		par = min(runtime.GOMAXPROCS(-1), runtime.NumCPU())
	}
	logger := logging.FromContext(ctx)
	logger.Debug("parsing", logging.FieldFiles, len(paths), logging.FieldGrammar, p.Grammar.Name())

	results := make([]*Result, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(par)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			raw, err := p.load(path)
			if err != nil {
				return err
			}
			res, err := p.Parse(path, raw)
			if err != nil {
				logger.Debug("parse failed", logging.FieldPath, path, logging.FieldError, err)
				return err
			}
			logger.Debug("parsed",
				logging.FieldPath, path,
				logging.FieldEncoding, res.File.Encoding(),
				logging.FieldTokens, res.Tokens.Len(),
				logging.FieldNodes, res.Tree.Len(),
				logging.FieldElapsed, time.Since(start),
			)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (p *Parser) load(path string) ([]byte, error) {
	res := p.Resolver
	if res == nil {
		res = &SourceResolver{}
	}
	r, err := res.FindFileByPath(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// decodeFailure is a [source.DecodeError] without the position, which
// [reporter.ErrorWithPos] already carries.
type decodeFailure struct {
	err *source.DecodeError
}

func (e decodeFailure) Error() string {
	return fmt.Sprintf("invalid %s byte sequence", e.err.Encoding)
}

func (e decodeFailure) Unwrap() error {
	return e.err
}
