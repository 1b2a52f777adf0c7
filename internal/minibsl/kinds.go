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

// Package minibsl is a small BSL grammar: enough of the language's lexical
// structure and control flow to exercise the token, tree and query packages
// with real-looking modules.
//
// The parser builds a lossless tree: every token, including whitespace,
// comments and preprocessor lines, is a terminal in the tree.
package minibsl

import (
	_ "embed"
	"sync"

	"github.com/bufbuild/bslcore/preproc"
	"github.com/bufbuild/bslcore/token"
	"github.com/bufbuild/bslcore/tree"
)

// Token kinds.
const (
	WS token.Kind = iota + 1
	Newline
	LineComment

	PreprocIf
	PreprocEndIf
	PreprocRegion
	PreprocEndRegion
	PreprocOther

	If
	Then
	ElsIf
	Else
	EndIf

	Ident
	Number
	String
	Date
	Semicolon
	Assign
	Punct
	Unknown
)

// Rule kinds.
const (
	File tree.Kind = iota + 1000
	Block
	IfStmt
	ElsIfClause
	ElseClause
	Assignment
	Statement
	EmptyStmt
	Expr
)

// Directives are the paired preprocessor directives, for [preproc.Build].
var Directives = []preproc.Pair{
	{Open: PreprocIf, Close: PreprocEndIf},
	{Open: PreprocRegion, Close: PreprocEndRegion},
}

var vocabulary = map[string]token.Kind{
	"WS":                 WS,
	"NEWLINE":            Newline,
	"LINE_COMMENT":       LineComment,
	"PREPROC_IF":         PreprocIf,
	"PREPROC_ENDIF":      PreprocEndIf,
	"PREPROC_REGION":     PreprocRegion,
	"PREPROC_END_REGION": PreprocEndRegion,
	"PREPROC_OTHER":      PreprocOther,
	"IF_KEYWORD":         If,
	"THEN_KEYWORD":       Then,
	"ELSIF_KEYWORD":      ElsIf,
	"ELSE_KEYWORD":       Else,
	"ENDIF_KEYWORD":      EndIf,
	"IDENTIFIER":         Ident,
	"NUMBER":             Number,
	"STRING":             String,
	"DATETIME":           Date,
	"SEMICOLON":          Semicolon,
	"ASSIGN":             Assign,
	"PUNCT":              Punct,
	"UNKNOWN":            Unknown,
	"EOF":                token.EOF,
}

var ruleNames = map[tree.Kind]string{
	File:        "file",
	Block:       "block",
	IfStmt:      "ifStatement",
	ElsIfClause: "elsifClause",
	ElseClause:  "elseClause",
	Assignment:  "assignment",
	Statement:   "statement",
	EmptyStmt:   "emptyStatement",
	Expr:        "expression",
}

//go:embed channels.yaml
var channelsYAML []byte

var table = sync.OnceValues(func() (*token.Table, error) {
	return token.ParseTable(channelsYAML, vocabulary)
})

// KindName returns a printable name for a node kind, terminal or rule.
func KindName(n tree.Node) string {
	if n.IsTerminal() {
		return n.Token().Stream().Table().KindName(n.Token().Kind())
	}
	if name, ok := ruleNames[n.Kind()]; ok {
		return name
	}
	return "rule"
}
