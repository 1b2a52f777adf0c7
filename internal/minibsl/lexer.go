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
	"errors"
	"strings"
	"unicode"

	"github.com/bufbuild/bslcore/reporter"
	"github.com/bufbuild/bslcore/source"
	"github.com/bufbuild/bslcore/token"
)

var keywords = map[string]token.Kind{
	"Если": If, "If": If,
	"Тогда": Then, "Then": Then,
	"ИначеЕсли": ElsIf, "ElsIf": ElsIf,
	"Иначе": Else, "Else": Else,
	"КонецЕсли": EndIf, "EndIf": EndIf,
}

var directives = map[string]token.Kind{
	"Если": PreprocIf, "If": PreprocIf,
	"КонецЕсли": PreprocEndIf, "EndIf": PreprocEndIf,
	"Область": PreprocRegion, "Region": PreprocRegion,
	"КонецОбласти": PreprocEndRegion, "EndRegion": PreprocEndRegion,
}

// foldWords re-cases the keys of words the way a lexer's view does, so that
// they can be compared against words read from it.
func foldWords(words map[string]token.Kind, fold source.Fold) map[string]token.Kind {
	folded := make(map[string]token.Kind, len(words))
	for word, kind := range words {
		folded[strings.Map(fold.Rune, word)] = kind
	}
	return folded
}

type lexer struct {
	*source.Chars
	keywords, directives map[string]token.Kind
}

// lex tokenizes the rest of c into s. The tokens tile the text exactly.
func lex(c *source.Chars, s *token.Stream) error {
	l := &lexer{
		Chars:      c,
		keywords:   foldWords(keywords, c.Fold()),
		directives: foldWords(directives, c.Fold()),
	}
	for !l.Done() {
		start := l.Offset()
		kind, err := l.next()
		if err != nil {
			file := l.File()
			return reporter.Error(file.Path(), file.Range(start, l.Offset()), err)
		}
		s.Push(kind, l.Offset()-start)
	}
	return nil
}

var (
	errUnterminatedString = errors.New("unterminated string literal")
	errUnterminatedDate   = errors.New("unterminated date literal")
)

func (l *lexer) next() (token.Kind, error) {
	r := l.Next()
	switch {
	case isSpace(r):
		l.Take(isSpace)
		return WS, nil

	case r == '\r':
		if l.Peek() == '\n' {
			l.Next()
		}
		return Newline, nil
	case r == '\n':
		return Newline, nil

	case r == '/' && l.Peek() == '/':
		l.Take(notNewline)
		return LineComment, nil

	case r == '#':
		l.Take(isSpace)
		kind, ok := l.directives[l.word()]
		if !ok {
			kind = PreprocOther
		}
		l.Take(notNewline)
		return kind, nil

	case r == '"':
		for {
			switch l.Next() {
			case -1:
				return 0, errUnterminatedString
			case '"':
				if l.Peek() != '"' {
					return String, nil
				}
				l.Next() // Escaped quote.
			}
		}

	case r == '\'':
		l.Take(func(r rune) bool { return r != '\'' && r != '\n' && r != '\r' })
		if l.Next() != '\'' {
			return 0, errUnterminatedDate
		}
		return Date, nil

	case unicode.IsDigit(r):
		l.Take(unicode.IsDigit)
		if l.Peek() == '.' && unicode.IsDigit(l.PeekAt(1)) {
			l.Next()
			l.Take(unicode.IsDigit)
		}
		return Number, nil

	case isIdentStart(r):
		word := string(r) + l.word()
		if kind, ok := l.keywords[word]; ok {
			return kind, nil
		}
		return Ident, nil

	case r == ';':
		return Semicolon, nil
	case r == '=':
		return Assign, nil
	case r == '<':
		if p := l.Peek(); p == '=' || p == '>' {
			l.Next()
		}
		return Punct, nil
	case r == '>':
		if l.Peek() == '=' {
			l.Next()
		}
		return Punct, nil
	case strings.ContainsRune("+-*/%()[],.?&~:", r):
		return Punct, nil

	default:
		return Unknown, nil
	}
}

// word consumes identifier characters and returns them, folded.
func (l *lexer) word() string {
	var buf strings.Builder
	l.Take(func(r rune) bool {
		if !isIdentPart(r) {
			return false
		}
		buf.WriteRune(r)
		return true
	})
	return buf.String()
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\f' || r == '\v' || r == '\u00a0' || r == '\ufeff'
}

func notNewline(r rune) bool {
	return r != '\n' && r != '\r'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
