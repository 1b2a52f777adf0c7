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

package minibsl

import (
	"github.com/bufbuild/bslcore/source"
	"github.com/bufbuild/bslcore/token"
	"github.com/bufbuild/bslcore/tree"
)

// Grammar is the minibsl grammar. The zero value matches keywords
// case-insensitively, as BSL does.
type Grammar struct {
	// If set, keywords must be spelled exactly as in the language reference.
	CaseSensitive bool
}

// Name returns the grammar's name.
func (Grammar) Name() string {
	return "minibsl"
}

// Table returns the grammar's channel table.
func (Grammar) Table() *token.Table {
	t, err := table()
	if err != nil {
		panic(err) // The table is embedded; this is a build problem.
	}
	return t
}

// Fold returns how the lexer re-cases characters.
func (g Grammar) Fold() source.Fold {
	if g.CaseSensitive {
		return source.FoldNone
	}
	return source.FoldUpper
}

// Lex tokenizes the text under c into s.
func (Grammar) Lex(c *source.Chars, s *token.Stream) error {
	return lex(c, s)
}

// Parse parses a frozen stream into a lossless tree.
func (Grammar) Parse(s *token.Stream, b *tree.Builder) (tree.Node, error) {
	return parse(s, b)
}
