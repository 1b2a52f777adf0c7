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
	"fmt"
	"sync"

	"github.com/bufbuild/bslcore/source"
	"github.com/bufbuild/bslcore/token"
	"github.com/bufbuild/bslcore/tree"
)

// Tokenizer runs a [Grammar] over one input, computing each stage of the
// pipeline at most once and only when first asked for.
//
// A Tokenizer is safe for concurrent use.
type Tokenizer struct {
	grammar  Grammar
	path     string
	raw      []byte
	declared source.Encoding

	file   func() (*source.File, error)
	tokens func() (*token.Stream, error)
	tree   func() (*tree.Tree, error)
}

// NewTokenizer returns a tokenizer for raw, which is read with the given
// declared encoding ([source.Unknown] if there is none).
//
// The tokenizer takes ownership of raw.
func NewTokenizer(g Grammar, path string, raw []byte, declared source.Encoding) *Tokenizer {
	t := &Tokenizer{grammar: g, path: path, raw: raw, declared: declared}
	t.file = sync.OnceValues(t.computeFile)
	t.tokens = sync.OnceValues(t.computeTokens)
	t.tree = sync.OnceValues(t.computeTree)
	return t
}

// Grammar returns the grammar this tokenizer runs.
func (t *Tokenizer) Grammar() Grammar {
	return t.grammar
}

// Path returns the path of the input.
func (t *Tokenizer) Path() string {
	return t.path
}

// File returns the decoded input.
func (t *Tokenizer) File() (*source.File, error) {
	return t.file()
}

// Tokens returns the full, frozen token stream.
func (t *Tokenizer) Tokens() (*token.Stream, error) {
	return t.tokens()
}

// Tree returns the parse tree.
func (t *Tokenizer) Tree() (*tree.Tree, error) {
	return t.tree()
}

func (t *Tokenizer) computeFile() (*source.File, error) {
	raw := t.raw
	t.raw = nil // The file keeps its own reference.
	return source.Read(t.path, raw, t.declared)
}

func (t *Tokenizer) computeTokens() (*token.Stream, error) {
	file, err := t.file()
	if err != nil {
		return nil, err
	}
	if err := checkGrammar(t.grammar); err != nil {
		return nil, err
	}
	stream, err := token.NewStream(file, t.grammar.Table())
	if err != nil {
		return nil, err
	}
	if err := t.grammar.Lex(file.Chars(t.grammar.Fold()), stream); err != nil {
		return nil, err
	}
	if err := stream.Freeze(); err != nil {
		return nil, fmt.Errorf("bslcore: grammar %s: %w", t.grammar.Name(), err)
	}
	return stream, nil
}

func (t *Tokenizer) computeTree() (*tree.Tree, error) {
	stream, err := t.tokens()
	if err != nil {
		return nil, err
	}
	b, err := tree.NewBuilder(stream, treeOptions(t.grammar))
	if err != nil {
		return nil, err
	}
	root, err := t.grammar.Parse(stream, b)
	if err != nil {
		return nil, err
	}
	return b.Finish(root)
}
