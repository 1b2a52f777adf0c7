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
	"sort"
)

// OffsetMap maps byte offsets in a [File]'s normalized text back to byte
// offsets in the raw input it was decoded from.
//
// Every normalized offset, including the one just past the end of the text,
// maps to exactly one original offset; the mapping is monotonic. Offsets in
// the middle of a multi-byte character map to the start of that character's
// original encoding.
//
// When the input was already UTF-8, the map is a constant shift by the length
// of the stripped BOM and carries no table.
type OffsetMap struct {
	shift int
	n     int     // Length of the normalized text.
	table []int32 // len(table) == n+1 when non-nil.
}

func shiftMap(n, shift int) OffsetMap {
	return OffsetMap{shift: shift, n: n}
}

// Len returns the length of the normalized text this map covers.
func (m OffsetMap) Len() int {
	return m.n
}

// Original returns the original byte offset for a normalized offset.
//
// This operation is O(1). Panics if norm is not in [0, Len()].
func (m OffsetMap) Original(norm int) int {
	if norm < 0 || norm > m.n {
		panic(fmt.Sprintf("bslcore/source: normalized offset out of range: %d not in [0, %d]", norm, m.n))
	}
	if m.table == nil {
		return norm + m.shift
	}
	return int(m.table[norm])
}

// Normalized inverts [OffsetMap.Original]: it returns the smallest normalized
// offset whose original offset is at least orig.
//
// Offsets before the start of the text (i.e. inside a BOM) clamp to zero, and
// offsets past the end clamp to Len().
//
// This operation is O(log n) for transcoded input, and O(1) otherwise.
func (m OffsetMap) Normalized(orig int) int {
	if m.table == nil {
		return min(max(orig-m.shift, 0), m.n)
	}
	return sort.Search(m.n, func(i int) bool { return int(m.table[i]) >= orig })
}
