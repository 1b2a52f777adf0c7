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
	"errors"

	"github.com/bufbuild/bslcore/source"
	"github.com/bufbuild/bslcore/token"
	"github.com/bufbuild/bslcore/tree"
)

// Grammar is what a grammar module provides to plug into this package.
//
// Implementations must be safe for concurrent use: one Grammar value serves
// every parse run by a [Parser].
type Grammar interface {
	// Name identifies the grammar in logs and errors.
	Name() string

	// Table returns the grammar's channel classification table. It must
	// return the same table every time.
	Table() *token.Table

	// Fold returns how the lexer's character view re-cases the text. BSL
	// grammars match keywords case-insensitively and use [source.FoldUpper].
	Fold() source.Fold

	// Lex pushes tokens for the text under the cursor onto the stream. The
	// tokens must tile the text; the caller freezes the stream afterwards.
	Lex(*source.Chars, *token.Stream) error

	// Parse builds a tree over a frozen stream and returns its root, which
	// must start at the beginning of the input. A root ending early is a
	// partial parse.
	Parse(*token.Stream, *tree.Builder) (tree.Node, error)
}

// TreeOptioner may be implemented by a [Grammar] whose trees need
// non-default builder options, such as one that leaves hidden tokens out of
// its trees.
type TreeOptioner interface {
	TreeOptions() tree.Options
}

func treeOptions(g Grammar) tree.Options {
	if o, ok := g.(TreeOptioner); ok {
		return o.TreeOptions()
	}
	return tree.Options{}
}

// checkGrammar reports a grammar that never registered its channel table,
// naming it.
func checkGrammar(g Grammar) error {
	err := g.Table().Check()
	var unregistered *token.UnregisteredGrammarError
	if errors.As(err, &unregistered) && unregistered.Grammar == "" {
		unregistered.Grammar = g.Name()
	}
	return err
}
