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

package token

import (
	"fmt"

	"github.com/bufbuild/bslcore/source"
)

// Zero is the zero [Token], used to denote the absence of a token.
var Zero Token

// Token is a lexical element of a BSL module.
//
// A Token is a handle into the [Stream] that produced it; tokens are
// immutable and cheap to copy. The zero value is [Zero].
type Token struct {
	stream *Stream
	index  int
}

// IsZero returns whether this is the zero token.
func (t Token) IsZero() bool {
	return t.stream == nil
}

// Stream returns the stream this token belongs to.
func (t Token) Stream() *Stream {
	return t.stream
}

// Index returns the position of this token in its stream's full buffer,
// regardless of which [View] it was obtained from.
//
// Returns -1 for [Zero].
func (t Token) Index() int {
	if t.IsZero() {
		return -1
	}
	return t.index
}

// Kind returns the grammar-defined kind of this token. [Zero] has kind [EOF].
func (t Token) Kind() Kind {
	if t.IsZero() {
		return EOF
	}
	return t.raw().kind
}

// Channel returns the channel this token was classified into. [Zero] is
// [Hidden].
func (t Token) Channel() Channel {
	if t.IsZero() {
		return Hidden
	}
	return t.raw().channel
}

// Offsets returns the normalized byte offsets of this token, i.e., offsets
// into the text the lexer saw.
func (t Token) Offsets() (start, end int) {
	if t.IsZero() {
		return 0, 0
	}
	raw := t.raw()
	return int(raw.start), int(raw.end)
}

// Range returns the range of the original source this token spans.
func (t Token) Range() source.Range {
	if t.IsZero() {
		return source.Range{}
	}
	start, end := t.Offsets()
	return t.stream.file.Range(start, end)
}

// Text returns the original text of this token.
func (t Token) Text() string {
	if t.IsZero() {
		return ""
	}
	return t.stream.file.Slice(t.Range())
}

// String implements [fmt.Stringer].
func (t Token) String() string {
	if t.IsZero() {
		return "Zero"
	}
	return fmt.Sprintf("%s@%d(%s)%q", t.stream.table.KindName(t.Kind()), t.index, t.Channel(), t.Text())
}

func (t Token) raw() *rawToken {
	return &t.stream.toks[t.index]
}

type rawToken struct {
	start, end int32
	kind       Kind
	channel    Channel
}
