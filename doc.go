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

// Package bslcore is the grammar-independent core of a parser for BSL, the
// scripting language of the 1C:Enterprise platform.
//
// Parsing a module goes through four stages, each in its own package:
//
//   - [source] reads raw bytes, strips any byte-order mark and decodes them
//     into normalized UTF-8 text, keeping a map back to original offsets.
//   - A grammar's lexer walks a case-folded view of that text and pushes
//     tokens onto a [token.Stream], which sorts them into channels: code,
//     comments, preprocessor directives and hidden trivia.
//   - The grammar's parser builds a [tree.Tree] over the stream, whose
//     construction checks that every rule spans exactly its children.
//   - Consumers navigate the result with [query].
//
// This package ties the stages together for a [Grammar]: [Tokenizer] runs
// them lazily for a single input, and [Parser] runs them for many inputs in
// parallel, routing problems through a [reporter.Reporter].
package bslcore
