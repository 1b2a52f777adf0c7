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
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrEncodingConflict is the warning reported when a byte-order mark
// contradicts the encoding a caller declared. The BOM wins.
var ErrEncodingConflict = errors.New("byte-order mark contradicts declared encoding")

// DecodeError is returned by [Read] when the input is not valid in the
// encoding it was decoded with. The reader does not attempt recovery.
type DecodeError struct {
	Path     string
	Encoding Encoding

	// Byte offset of the first invalid sequence in the raw input, counting
	// any byte-order mark.
	Offset int

	// 1-indexed position of the invalid sequence within the text decoded so
	// far. Column counts code points.
	Line, Column int
}

// Error implements [error].
func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s:%d:%d: invalid %s byte sequence at offset %d",
		e.Path, e.Line, e.Column, e.Encoding, e.Offset)
}

// Read decodes raw into a new [File].
//
// A leading byte-order mark selects the encoding and is stripped; it overrides
// declared, which is then recorded as a conflict (see
// [File.EncodingConflict]). Without a BOM, declared is used, and [Unknown]
// means UTF-8.
//
// raw must not be modified after calling Read.
func Read(path string, raw []byte, declared Encoding) (*File, error) {
	enc, bom := sniff(raw)
	if enc == Unknown {
		enc = declared
		if enc == Unknown {
			enc = UTF8
		}
	}

	f := &File{
		path:     path,
		raw:      raw,
		encoding: enc,
		declared: declared,
		bom:      bom,
	}

	d := decoder{f: f, body: raw[bom:]}
	var err error
	switch enc {
	case UTF8:
		err = d.utf8()
	case UTF16LE, UTF16BE:
		err = d.utf16(enc == UTF16BE)
	case Windows1251:
		err = d.singleByte(charmap.Windows1251)
	default:
		return nil, fmt.Errorf("bslcore/source: cannot decode %s", enc)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// NewFile constructs a file directly from UTF-8 text, as if it had been read
// from a BOM-less UTF-8 input.
//
// Panics if text is not valid UTF-8.
func NewFile(path, text string) *File {
	f, err := Read(path, []byte(text), UTF8)
	if err != nil {
		panic(err)
	}
	return f
}

type decoder struct {
	f    *File
	body []byte

	text  strings.Builder
	table []int32
}

func (d *decoder) fail(at int) error {
	text := d.text.String()
	line := strings.Count(text, "\n") + 1
	col := utf8.RuneCountInString(text[strings.LastIndexByte(text, '\n')+1:]) + 1
	return &DecodeError{
		Path:     d.f.path,
		Encoding: d.f.encoding,
		Offset:   d.f.bom + at,
		Line:     line,
		Column:   col,
	}
}

// emit appends r, which starts at offset at in the body, to the text.
func (d *decoder) emit(r rune, at int) {
	n, _ := d.text.WriteRune(r)
	orig := int32(d.f.bom + at)
	for range n {
		d.table = append(d.table, orig)
	}
}

func (d *decoder) finish() {
	d.f.text = d.text.String()
	d.table = append(d.table, int32(len(d.f.raw)))
	d.f.offsets = OffsetMap{n: len(d.f.text), table: d.table}
}

func (d *decoder) utf8() error {
	if !utf8.Valid(d.body) {
		for i := 0; i < len(d.body); {
			r, n := utf8.DecodeRune(d.body[i:])
			if r == utf8.RuneError && n <= 1 {
				d.text.Write(d.body[:i])
				return d.fail(i)
			}
			i += n
		}
	}

	// No transcoding happened, so the map is just the BOM shift.
	d.f.text = string(d.body)
	d.f.offsets = shiftMap(len(d.f.text), d.f.bom)
	return nil
}

func (d *decoder) utf16(bigEndian bool) error {
	unit := func(i int) uint16 {
		if bigEndian {
			return uint16(d.body[i])<<8 | uint16(d.body[i+1])
		}
		return uint16(d.body[i+1])<<8 | uint16(d.body[i])
	}

	for i := 0; i < len(d.body); {
		if i+1 >= len(d.body) {
			return d.fail(i) // Dangling half of a code unit.
		}
		u := rune(unit(i))
		switch {
		case !utf16.IsSurrogate(u):
			d.emit(u, i)
			i += 2
		case u >= 0xdc00:
			return d.fail(i) // Low surrogate without a high one.
		default:
			if i+3 >= len(d.body) {
				return d.fail(i)
			}
			r := utf16.DecodeRune(u, rune(unit(i+2)))
			if r == utf8.RuneError {
				return d.fail(i)
			}
			d.emit(r, i)
			i += 4
		}
	}

	d.finish()
	return nil
}

func (d *decoder) singleByte(cm *charmap.Charmap) error {
	for i, b := range d.body {
		r := cm.DecodeByte(b)
		if r == utf8.RuneError {
			return d.fail(i)
		}
		d.emit(r, i)
	}

	d.finish()
	return nil
}
