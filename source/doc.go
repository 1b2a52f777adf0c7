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

// Package source turns raw BSL module bytes into normalized text and provides
// the range model every later stage reports positions with.
//
// [Read] detects a byte-order mark, decodes the input and produces a [File].
// A [File] keeps the untouched raw bytes next to the normalized UTF-8 text,
// and an [OffsetMap] between the two: lexers work in normalized offsets, while
// every [Range] handed to consumers is expressed in original byte offsets, so
// BOM stripping and decoding never shift a diagnostic.
//
// Grammars that match keywords case-insensitively lex through a folded
// [Chars] view. Folding happens per rune and is visible only to the lexer's
// comparisons; token text and ranges always come from the original input.
package source
