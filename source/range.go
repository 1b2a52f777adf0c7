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
	"fmt"
	"iter"
	"slices"
)

// Ranger is any type with a [Range].
type Ranger interface {
	Range() Range
}

// Range is a contiguous span of a source file.
//
// Offsets are byte offsets into the original input (see [File.Raw]) and are
// half-open. Lines and columns are 1-indexed; columns count code points.
//
// The zero Range has a zero StartLine, which is used as a sentinel for "no
// range".
type Range struct {
	Start, End int

	StartLine, StartColumn int
	EndLine, EndColumn     int
}

// Location is a user-displayable position within a source file.
type Location struct {
	// Original byte offset.
	Offset int

	// 1-indexed line and column. The units column is measured in depend on the
	// [Unit] used to construct it.
	Line, Column int
}

// Unit is a unit of measurement for columns.
type Unit byte

const (
	Runes     Unit = iota // Unicode code points.
	Bytes                 // UTF-8 bytes.
	UTF16                 // UTF-16 code units, as used by LSP clients.
	TermWidth             // Approximate display width in a terminal.
)

// String implements [fmt.Stringer].
func (u Unit) String() string {
	switch u {
	case Runes:
		return "runes"
	case Bytes:
		return "bytes"
	case UTF16:
		return "utf16"
	case TermWidth:
		return "termwidth"
	default:
		return fmt.Sprintf("source.Unit(%d)", int(u))
	}
}

// IsZero returns whether this is the zero range.
func (r Range) IsZero() bool {
	return r.StartLine == 0
}

// IsEmpty returns whether this range spans no bytes.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Len returns the length of this range in original bytes.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains returns whether the original offset falls inside this range.
// Empty ranges contain nothing.
func (r Range) Contains(offset int) bool {
	return r.Start <= offset && offset < r.End
}

// StartLoc returns the location of the start of this range.
func (r Range) StartLoc() Location {
	return Location{Offset: r.Start, Line: r.StartLine, Column: r.StartColumn}
}

// Range implements [Ranger].
func (r Range) Range() Range {
	return r
}

// String implements [fmt.Stringer].
func (r Range) String() string {
	return fmt.Sprintf("%d:%d-%d:%d[%d:%d]",
		r.StartLine, r.StartColumn, r.EndLine, r.EndColumn, r.Start, r.End)
}

// Join returns the smallest range containing all of the given ranges.
//
// Zero ranges are ignored. If every range is zero, returns the zero range.
func Join(ranges ...Ranger) Range {
	return JoinSeq(slices.Values(ranges))
}

// JoinSeq is like [Join], but takes a sequence of any ranged type.
func JoinSeq[R Ranger](seq iter.Seq[R]) Range {
	var joined Range
	for ranger := range seq {
		r := ranger.Range()
		switch {
		case r.IsZero():
			continue
		case joined.IsZero():
			joined = r
			continue
		}

		if r.Start < joined.Start {
			joined.Start, joined.StartLine, joined.StartColumn = r.Start, r.StartLine, r.StartColumn
		}
		if r.End > joined.End {
			joined.End, joined.EndLine, joined.EndColumn = r.End, r.EndLine, r.EndColumn
		}
	}
	return joined
}
