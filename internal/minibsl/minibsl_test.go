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

package minibsl_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bufbuild/bslcore"
	"github.com/bufbuild/bslcore/internal/corpora"
	"github.com/bufbuild/bslcore/internal/minibsl"
	"github.com/bufbuild/bslcore/reporter"
	"github.com/bufbuild/bslcore/source"
	"github.com/bufbuild/bslcore/token"
)

type summary struct {
	Encoding string         `yaml:"encoding"`
	BOM      bool           `yaml:"bom"`
	Tokens   map[string]int `yaml:"tokens"`
	Partial  string         `yaml:"partial,omitempty"`
	Error    string         `yaml:"error,omitempty"`
}

func TestCorpus(t *testing.T) {
	t.Parallel()

	corpora.Corpus{
		Root:      "testdata",
		Refresh:   "BSLCORE_REFRESH",
		Extension: "bsl",
		Outputs: []corpora.Output{
			{Extension: "tree"},
			{Extension: "yaml", Compare: corpora.CompareYAML},
		},
		Test: func(t *testing.T, path string, input []byte) []string {
			tz := bslcore.NewTokenizer(minibsl.Grammar{}, path, input, source.Unknown)
			stream, err := tz.Tokens()
			require.NoError(t, err)
			file := stream.File()

			sum := summary{
				Encoding: file.Encoding().String(),
				BOM:      file.HadBOM(),
				Tokens:   make(map[string]int),
			}
			for _, c := range []token.Channel{token.Code, token.Comment, token.Preprocessor, token.Hidden} {
				sum.Tokens[c.String()] = 0
			}
			for tok := range stream.All() {
				sum.Tokens[tok.Channel().String()]++
			}

			var outline string
			tr, err := tz.Tree()
			if err != nil {
				sum.Error = err.Error()
			} else {
				outline = minibsl.Outline(tr)
				if rest, ok := tr.Partial(); ok {
					sum.Partial = fmt.Sprintf("%d:%d-%d:%d", rest.StartLine, rest.StartColumn, rest.EndLine, rest.EndColumn)
				}
			}

			out, err := yaml.Marshal(sum)
			require.NoError(t, err)
			return []string{outline, string(out)}
		},
	}.Run(t)
}

func codeKinds(t *testing.T, g minibsl.Grammar, text string) []token.Kind {
	t.Helper()
	stream, err := bslcore.NewTokenizer(g, "test.bsl", []byte(text), source.Unknown).Tokens()
	require.NoError(t, err)
	var kinds []token.Kind
	for tok := range stream.View(token.Code).All() {
		kinds = append(kinds, tok.Kind())
	}
	return kinds
}

func TestKeywords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		g    minibsl.Grammar
		text string
		want []token.Kind
	}{
		{
			name: "russian",
			text: "Если А Тогда ИначеЕсли Б Тогда Иначе КонецЕсли",
			want: []token.Kind{minibsl.If, minibsl.Ident, minibsl.Then, minibsl.ElsIf, minibsl.Ident,
				minibsl.Then, minibsl.Else, minibsl.EndIf},
		},
		{
			name: "english",
			text: "If A Then ElsIf B Then Else EndIf",
			want: []token.Kind{minibsl.If, minibsl.Ident, minibsl.Then, minibsl.ElsIf, minibsl.Ident,
				minibsl.Then, minibsl.Else, minibsl.EndIf},
		},
		{
			name: "mixed-case",
			text: "еСЛИ а тогДА конецесли",
			want: []token.Kind{minibsl.If, minibsl.Ident, minibsl.Then, minibsl.EndIf},
		},
		{
			name: "case-sensitive",
			g:    minibsl.Grammar{CaseSensitive: true},
			text: "еСЛИ а Тогда",
			want: []token.Kind{minibsl.Ident, minibsl.Ident, minibsl.Then},
		},
		{
			name: "keyword-prefix",
			text: "Если2 ЕслиНет",
			want: []token.Kind{minibsl.Ident, minibsl.Ident},
		},
		{
			name: "literals",
			text: `Д = '20240101'; С = "а""б"; Ч = 3.14 + 2.;`,
			want: []token.Kind{
				minibsl.Ident, minibsl.Assign, minibsl.Date, minibsl.Semicolon,
				minibsl.Ident, minibsl.Assign, minibsl.String, minibsl.Semicolon,
				minibsl.Ident, minibsl.Assign, minibsl.Number, minibsl.Punct, minibsl.Number, minibsl.Punct, minibsl.Semicolon,
			},
		},
		{
			name: "operators",
			text: "А <> Б <= В >= Г < Д @",
			want: []token.Kind{
				minibsl.Ident, minibsl.Punct, minibsl.Ident, minibsl.Punct, minibsl.Ident,
				minibsl.Punct, minibsl.Ident, minibsl.Punct, minibsl.Ident, minibsl.Unknown,
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, test.want, codeKinds(t, test.g, test.text))
		})
	}
}

func TestChannels(t *testing.T) {
	t.Parallel()

	text := "#Если Сервер Тогда\r\n// комментарий\n#Иначе\n#КонецЕсли"
	stream, err := bslcore.NewTokenizer(minibsl.Grammar{}, "test.bsl", []byte(text), source.Unknown).Tokens()
	require.NoError(t, err)

	var got []string
	for tok := range stream.All() {
		got = append(got, fmt.Sprintf("%s %s", stream.Table().KindName(tok.Kind()), tok.Channel()))
	}
	assert.Equal(t, []string{
		"PREPROC_IF preprocessor",
		"NEWLINE hidden",
		"LINE_COMMENT comment",
		"NEWLINE hidden",
		"PREPROC_OTHER preprocessor",
		"NEWLINE hidden",
		"PREPROC_ENDIF preprocessor",
		"EOF hidden",
	}, got)
	assert.Equal(t, "\r\n", stream.At(1).Text())
	assert.Zero(t, stream.View(token.Code).Len())
}

func TestLexErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text, message string
		line, column  int
	}{
		{"А = \"без конца;\n", "unterminated string literal", 1, 5},
		{"Д = '2024\n';", "unterminated date literal", 1, 5},
	}
	for _, test := range tests {
		t.Run(test.message, func(t *testing.T) {
			t.Parallel()
			_, err := bslcore.NewTokenizer(minibsl.Grammar{}, "test.bsl", []byte(test.text), source.Unknown).Tokens()
			var ewp reporter.ErrorWithPos
			require.ErrorAs(t, err, &ewp)
			assert.Equal(t, test.message, ewp.Unwrap().Error())
			assert.Equal(t, test.line, ewp.Range().StartLine)
			assert.Equal(t, test.column, ewp.Range().StartColumn)
		})
	}
}

func TestParseIf(t *testing.T) {
	t.Parallel()

	text := "Если А Тогда\nИначеЕсли Б Тогда\n\tВ = 1;\nИначе\nКонецЕсли"
	tr, err := bslcore.NewTokenizer(minibsl.Grammar{}, "test.bsl", []byte(text), source.Unknown).Tree()
	require.NoError(t, err)

	assert.Equal(t, `file 1:1-5:10
  ifStatement 1:1-5:10
    IF_KEYWORD "Если"
    expression 1:5-1:7
      IDENTIFIER "А"
    THEN_KEYWORD "Тогда"
    block 1:13-1:13
    elsifClause 1:13-3:8
      ELSIF_KEYWORD "ИначеЕсли"
      expression 2:10-2:12
        IDENTIFIER "Б"
      THEN_KEYWORD "Тогда"
      block 2:18-3:8
        assignment 2:18-3:8
          expression 2:18-3:3
            IDENTIFIER "В"
          ASSIGN "="
          expression 3:5-3:7
            NUMBER "1"
          SEMICOLON ";"
    elseClause 3:8-4:6
      ELSE_KEYWORD "Иначе"
      block 4:6-4:6
    ENDIF_KEYWORD "КонецЕсли"
`, minibsl.Outline(tr))

	_, partial := tr.Partial()
	assert.False(t, partial)
	assert.Equal(t, text, tr.File().Slice(tr.Root().Range()))
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text, want string
	}{
		{"Если А Б", `test.bsl:1:9: expected Тогда, found end of file`},
		{"Если Тогда КонецЕсли", `test.bsl:1:6: expected expression, found "Тогда"`},
		{"А = ;", `test.bsl:1:5: expected expression, found ";"`},
		{"Если А Тогда Б = 1;", `test.bsl:1:20: expected КонецЕсли, found end of file`},
	}
	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			t.Parallel()
			_, err := bslcore.NewTokenizer(minibsl.Grammar{}, "test.bsl", []byte(test.text), source.Unknown).Tree()
			require.Error(t, err)
			assert.Equal(t, test.want, err.Error())
		})
	}
}
