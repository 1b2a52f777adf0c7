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

package source_test

import (
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bufbuild/bslcore/source"
)

func encodeUTF16(text string, bigEndian bool) []byte {
	var order binary.AppendByteOrder = binary.LittleEndian
	if bigEndian {
		order = binary.BigEndian
	}
	var out []byte
	for _, u := range utf16.Encode([]rune(text)) {
		out = order.AppendUint16(out, u)
	}
	return out
}

func TestReadBOM(t *testing.T) {
	t.Parallel()

	const content = "Если А Тогда"
	tests := []struct {
		name string
		enc  source.Encoding
		body []byte
	}{
		{"utf8", source.UTF8, []byte(content)},
		{"utf16le", source.UTF16LE, encodeUTF16(content, false)},
		{"utf16be", source.UTF16BE, encodeUTF16(content, true)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			raw := append(append([]byte{}, test.enc.BOM()...), test.body...)
			f, err := source.Read("test.bsl", raw, source.Unknown)
			require.NoError(t, err)

			assert.True(t, f.HadBOM())
			assert.Equal(t, test.enc, f.Encoding())
			assert.False(t, f.EncodingConflict())
			assert.Equal(t, content, f.Text())
			assert.Equal(t, 'Е', []rune(f.Text())[0])

			// Normalized offsets map past the BOM, and the end maps to the
			// end of the raw input.
			assert.Equal(t, len(test.enc.BOM()), f.Offsets().Original(0))
			assert.Equal(t, len(raw), f.Offsets().Original(f.Len()))
			assert.Equal(t, content, f.Slice(f.Range(0, f.Len())))
		})
	}
}

func TestReadUTF8Shift(t *testing.T) {
	t.Parallel()

	raw := append([]byte{0xef, 0xbb, 0xbf}, "Процедура А()"...)
	f, err := source.Read("test.bsl", raw, source.Unknown)
	require.NoError(t, err)

	assert.Equal(t, len(raw)-3, f.Len())
	for i := range f.Len() + 1 {
		assert.Equal(t, i+3, f.Offsets().Original(i))
		assert.Equal(t, i, f.Offsets().Normalized(i+3))
	}
	assert.Equal(t, 0, f.Offsets().Normalized(1), "offsets inside the BOM clamp")
}

func TestReadNoBOM(t *testing.T) {
	t.Parallel()

	f, err := source.Read("test.bsl", []byte("А = 1;"), source.Unknown)
	require.NoError(t, err)
	assert.False(t, f.HadBOM())
	assert.Equal(t, source.UTF8, f.Encoding())
	assert.Equal(t, 0, f.Offsets().Original(0))
}

func TestReadConflict(t *testing.T) {
	t.Parallel()

	raw := append([]byte{0xef, 0xbb, 0xbf}, "А"...)
	f, err := source.Read("test.bsl", raw, source.Windows1251)
	require.NoError(t, err)
	assert.Equal(t, source.UTF8, f.Encoding())
	assert.Equal(t, source.Windows1251, f.DeclaredEncoding())
	assert.True(t, f.EncodingConflict())
	assert.Equal(t, "А", f.Text())

	// Declaring the encoding the BOM agrees with is not a conflict.
	f, err = source.Read("test.bsl", raw, source.UTF8)
	require.NoError(t, err)
	assert.False(t, f.EncodingConflict())
}

func TestReadWindows1251(t *testing.T) {
	t.Parallel()

	// "Если\n" in windows-1251.
	raw := []byte{0xc5, 0xf1, 0xeb, 0xe8, '\n'}
	f, err := source.Read("legacy.bsl", raw, source.Windows1251)
	require.NoError(t, err)
	assert.Equal(t, "Если\n", f.Text())

	// Each two-byte normalized rune maps to one original byte.
	assert.Equal(t, 1, f.Offsets().Original(2))
	assert.Equal(t, 1, f.Offsets().Original(3))
	assert.Equal(t, 2, f.Offsets().Normalized(1))
	assert.Equal(t, 5, f.Offsets().Original(f.Len()))

	r := f.Range(2, 4)
	assert.Equal(t, source.Range{Start: 1, End: 2, StartLine: 1, StartColumn: 2, EndLine: 1, EndColumn: 3}, r)
	assert.Equal(t, "с", f.Slice(r))
}

func TestReadDecodeError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      []byte
		declared source.Encoding
		want     source.DecodeError
	}{
		{
			name: "utf8",
			raw:  append([]byte{0xef, 0xbb, 0xbf}, "ab\nЯ\xffc"...),
			want: source.DecodeError{Encoding: source.UTF8, Offset: 8, Line: 2, Column: 2},
		},
		{
			name:     "utf16-dangling",
			raw:      append(encodeUTF16("ab", false), 'c'),
			declared: source.UTF16LE,
			want:     source.DecodeError{Encoding: source.UTF16LE, Offset: 4, Line: 1, Column: 3},
		},
		{
			name:     "utf16-lone-low-surrogate",
			raw:      append([]byte{0xfe, 0xff, 0x00, 'x'}, 0xdc, 0x00),
			declared: source.Unknown,
			want:     source.DecodeError{Encoding: source.UTF16BE, Offset: 4, Line: 1, Column: 2},
		},
		{
			name:     "windows1251-undefined",
			raw:      []byte{'a', '\n', 'b', 0x98},
			declared: source.Windows1251,
			want:     source.DecodeError{Encoding: source.Windows1251, Offset: 3, Line: 2, Column: 2},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			_, err := source.Read("bad.bsl", test.raw, test.declared)
			var decodeErr *source.DecodeError
			require.ErrorAs(t, err, &decodeErr)

			test.want.Path = "bad.bsl"
			assert.Equal(t, test.want, *decodeErr)
		})
	}
}

func TestParseEncoding(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]source.Encoding{
		"":             source.Unknown,
		"UTF-8":        source.UTF8,
		"utf-16le":     source.UTF16LE,
		"UTF-16BE":     source.UTF16BE,
		"cp1251":       source.Windows1251,
		"windows-1251": source.Windows1251,
	} {
		got, err := source.ParseEncoding(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := source.ParseEncoding("koi8-r")
	assert.Error(t, err)
}
