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

// Package token provides the channelized token stream shared by every BSL
// grammar.
//
// # Channels
//
// Every token lives on exactly one [Channel]: code, comments, preprocessor
// directives, or hidden (whitespace and the like). Which grammar token kinds
// go where is the only grammar-specific input this package needs; grammars
// describe it with a [Table], passed explicitly when a [Stream] is created.
// Kinds a table does not mention are code.
//
// # Views
//
// A [Stream] is a lossless buffer: its tokens tile the file's text, and each
// token's index is its position in that buffer. A [View] selects some
// channels of a stream without copying or reordering it; views are cheap
// values, may be iterated any number of times, and may be used concurrently
// once the stream is frozen.
package token
