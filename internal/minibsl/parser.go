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
	"fmt"

	"github.com/bufbuild/bslcore/reporter"
	"github.com/bufbuild/bslcore/token"
	"github.com/bufbuild/bslcore/tree"
)

// parser is a recursive-descent parser over the code channel. Tokens on
// other channels are attached to whichever rule consumes the next code token,
// so the tree has no gaps.
type parser struct {
	stream *token.Stream
	cursor *token.Cursor
	b      *tree.Builder
}

func parse(s *token.Stream, b *tree.Builder) (tree.Node, error) {
	p := &parser{stream: s, cursor: s.View(token.Code).Cursor(), b: b}
	return p.file()
}

// file parses statements until the end of input. A stray block terminator
// at the top level ends the parse early, leaving the rest unparsed.
func (p *parser) file() (tree.Node, error) {
	var children []tree.Node
	for {
		tok := p.cursor.Peek()
		if tok.IsZero() {
			p.take(&children) // Trailing trivia and EOF.
			break
		}
		if endsBlock(tok.Kind()) {
			break
		}
		stmt, err := p.statement()
		if err != nil {
			return tree.Node{}, err
		}
		children = append(children, stmt)
	}
	if len(children) == 0 {
		return p.b.Empty(File, p.cursor.PeekSkippable()), nil
	}
	return p.b.Rule(File, children...)
}

func (p *parser) statement() (tree.Node, error) {
	switch p.cursor.Peek().Kind() {
	case If:
		return p.ifStatement()
	case Semicolon:
		var children []tree.Node
		p.take(&children)
		return p.b.Rule(EmptyStmt, children...)
	default:
		return p.simpleStatement()
	}
}

func (p *parser) simpleStatement() (tree.Node, error) {
	lhs, err := p.expression(func(k token.Kind) bool { return k == Assign || endsStatement(k) })
	if err != nil {
		return tree.Node{}, err
	}
	children := []tree.Node{lhs}

	kind := Statement
	if p.cursor.Peek().Kind() == Assign {
		kind = Assignment
		p.take(&children)
		rhs, err := p.expression(endsStatement)
		if err != nil {
			return tree.Node{}, err
		}
		children = append(children, rhs)
	}
	if p.cursor.Peek().Kind() == Semicolon {
		p.take(&children)
	}
	return p.b.Rule(kind, children...)
}

func (p *parser) ifStatement() (tree.Node, error) {
	var children []tree.Node
	p.take(&children)

	clause := func(children *[]tree.Node) error {
		cond, err := p.expression(endsStatement)
		if err != nil {
			return err
		}
		*children = append(*children, cond)
		if err := p.expect(children, Then); err != nil {
			return err
		}
		block, err := p.block()
		if err != nil {
			return err
		}
		*children = append(*children, block)
		return nil
	}
	if err := clause(&children); err != nil {
		return tree.Node{}, err
	}

	for p.cursor.Peek().Kind() == ElsIf {
		var elsif []tree.Node
		p.take(&elsif)
		if err := clause(&elsif); err != nil {
			return tree.Node{}, err
		}
		node, err := p.b.Rule(ElsIfClause, elsif...)
		if err != nil {
			return tree.Node{}, err
		}
		children = append(children, node)
	}

	if p.cursor.Peek().Kind() == Else {
		var els []tree.Node
		p.take(&els)
		block, err := p.block()
		if err != nil {
			return tree.Node{}, err
		}
		node, err := p.b.Rule(ElseClause, append(els, block)...)
		if err != nil {
			return tree.Node{}, err
		}
		children = append(children, node)
	}

	if err := p.expect(&children, EndIf); err != nil {
		return tree.Node{}, err
	}
	if p.cursor.Peek().Kind() == Semicolon {
		p.take(&children)
	}
	return p.b.Rule(IfStmt, children...)
}

// block parses statements up to the next block terminator. An empty block
// is a zero-width rule.
func (p *parser) block() (tree.Node, error) {
	var children []tree.Node
	for {
		tok := p.cursor.Peek()
		if tok.IsZero() || endsBlock(tok.Kind()) {
			break
		}
		stmt, err := p.statement()
		if err != nil {
			return tree.Node{}, err
		}
		children = append(children, stmt)
	}
	if len(children) == 0 {
		return p.b.Empty(Block, p.cursor.PeekSkippable()), nil
	}
	return p.b.Rule(Block, children...)
}

// expression consumes code tokens up to one for which stop returns true.
// Expressions are not parsed further.
func (p *parser) expression(stop func(token.Kind) bool) (tree.Node, error) {
	var children []tree.Node
	for {
		tok := p.cursor.Peek()
		if tok.IsZero() || stop(tok.Kind()) {
			if len(children) == 0 {
				return tree.Node{}, p.errorf(tok, "expected expression, found %s", describe(tok))
			}
			return p.b.Rule(Expr, children...)
		}
		p.take(&children)
	}
}

func (p *parser) expect(children *[]tree.Node, kind token.Kind) error {
	tok := p.cursor.Peek()
	if tok.Kind() != kind {
		return p.errorf(tok, "expected %s, found %s", spelling[kind], describe(tok))
	}
	p.take(children)
	return nil
}

// take consumes skippable tokens and then the next code token, appending a
// terminal for each to children. If no code tokens remain, it consumes the
// rest of the stream.
func (p *parser) take(children *[]tree.Node) token.Token {
	for {
		tok := p.cursor.NextSkippable()
		if tok.IsZero() {
			return tok
		}
		*children = append(*children, p.b.Terminal(tok))
		if tok.Channel() == token.Code {
			return tok
		}
	}
}

func (p *parser) errorf(at token.Token, format string, args ...any) error {
	if at.IsZero() {
		at = p.stream.EOF()
	}
	return reporter.Errorf(p.stream.File().Path(), at.Range(), format, args...)
}

var spelling = map[token.Kind]string{
	Then:  "Тогда",
	EndIf: "КонецЕсли",
}

func describe(tok token.Token) string {
	if tok.IsZero() {
		return "end of file"
	}
	return fmt.Sprintf("%q", tok.Text())
}

func endsBlock(k token.Kind) bool {
	return k == ElsIf || k == Else || k == EndIf
}

func endsStatement(k token.Kind) bool {
	return k == Semicolon || k == If || k == Then || endsBlock(k)
}
