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

package source

import (
	"slices"
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// File is a decoded BSL module: its raw bytes, the normalized text lexers
// consume, and the book-keeping needed to turn offsets into [Range]s.
//
// Files are immutable once created and safe for concurrent use.
type File struct {
	path string
	raw  []byte
	text string

	encoding, declared Encoding
	bom                int
	offsets            OffsetMap

	once sync.Once
	// Normalized offset just after each '\n' in text, prefixed with zero.
	// Given a byte offset, a binary search over this slice finds its line.
	lines []int
}

// Path returns the path this file was read from. It need not be a real path.
func (f *File) Path() string {
	if f == nil {
		return ""
	}
	return f.path
}

// Raw returns the original bytes, byte-order mark included.
func (f *File) Raw() []byte {
	if f == nil {
		return nil
	}
	return f.raw
}

// Text returns the normalized text.
func (f *File) Text() string {
	if f == nil {
		return ""
	}
	return f.text
}

// Len returns the length of the normalized text, in bytes.
func (f *File) Len() int {
	return len(f.Text())
}

// Encoding returns the encoding the file was decoded with.
func (f *File) Encoding() Encoding {
	return f.encoding
}

// DeclaredEncoding returns the encoding the caller declared when reading.
func (f *File) DeclaredEncoding() Encoding {
	return f.declared
}

// HadBOM returns whether the raw input started with a byte-order mark.
func (f *File) HadBOM() bool {
	return f.bom > 0
}

// EncodingConflict returns whether a byte-order mark overrode a different,
// explicitly declared encoding.
func (f *File) EncodingConflict() bool {
	return f.bom > 0 && f.declared != Unknown && f.declared != f.encoding
}

// Offsets returns the map from normalized to original offsets.
func (f *File) Offsets() OffsetMap {
	return f.offsets
}

// Range builds the range for the normalized byte offsets [start, end).
//
// Panics if the offsets are out of bounds or start > end.
func (f *File) Range(start, end int) Range {
	if start > end {
		panic("bslcore/source: range start after end")
	}
	sl, sc := f.lineCol(start)
	el, ec := f.lineCol(end)
	return Range{
		Start:     f.offsets.Original(start),
		End:       f.offsets.Original(end),
		StartLine: sl, StartColumn: sc,
		EndLine: el, EndColumn: ec,
	}
}

// EOF returns the empty range at the very end of the file.
func (f *File) EOF() Range {
	return f.Range(f.Len(), f.Len())
}

// Slice returns the original text spanned by r.
//
// For UTF-8 input this is exactly the bytes of the raw input. For transcoded
// input it is the decoding of those bytes.
func (f *File) Slice(r Range) string {
	if f.offsets.table == nil {
		return string(f.raw[r.Start:r.End])
	}
	return f.text[f.offsets.Normalized(r.Start):f.offsets.Normalized(r.End)]
}

// LineByOffset returns the 0-indexed line containing the given normalized
// offset.
//
// This operation is O(log n).
func (f *File) LineByOffset(offset int) int {
	lines := f.lineIndex()
	line, exact := slices.BinarySearch(lines, offset)
	if !exact {
		line--
	}
	return line
}

// Line returns the 1-indexed line, including its trailing newline.
func (f *File) Line(line int) string {
	lines := f.lineIndex()
	if line == len(lines) {
		return f.text[lines[line-1]:]
	}
	return f.text[lines[line-1]:lines[line]]
}

// Column returns the 1-indexed column of a normalized offset, measured in the
// given units.
func (f *File) Column(offset int, units Unit) int {
	start := f.lineIndex()[f.LineByOffset(offset)]
	chunk := f.text[start:offset]

	var column int
	switch units {
	case Runes:
		column = utf8.RuneCountInString(chunk)
	case Bytes:
		column = len(chunk)
	case UTF16:
		for _, r := range chunk {
			column += utf16.RuneLen(r)
		}
	case TermWidth:
		column = uniseg.StringWidth(chunk)
	}
	return column + 1
}

// Location returns the user-displayable location for a normalized offset.
// The returned offset is the original one.
func (f *File) Location(offset int, units Unit) Location {
	return Location{
		Offset: f.offsets.Original(offset),
		Line:   f.LineByOffset(offset) + 1,
		Column: f.Column(offset, units),
	}
}

func (f *File) lineCol(offset int) (int, int) {
	if offset < 0 || offset > len(f.text) {
		panic("bslcore/source: offset out of range")
	}
	return f.LineByOffset(offset) + 1, f.Column(offset, Runes)
}

func (f *File) lineIndex() []int {
	f.once.Do(func() {
		f.lines = []int{0}
		text := f.text
		next := 0
		for {
			newline := strings.IndexByte(text, '\n') + 1
			if newline == 0 {
				break
			}
			text = text[newline:]
			next += newline
			f.lines = append(f.lines, next)
		}
	})
	return f.lines
}
