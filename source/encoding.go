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
	"bytes"
	"fmt"
	"strings"
)

// Encoding is a character encoding a BSL module may be stored in.
type Encoding byte

const (
	Unknown Encoding = iota // Not declared; UTF-8 is assumed.

	UTF8
	UTF16LE
	UTF16BE
	Windows1251 // Legacy single-byte Cyrillic encoding used by older regional exports.
)

var boms = [...]struct {
	enc Encoding
	bom []byte
}{
	{UTF8, []byte{0xef, 0xbb, 0xbf}},
	{UTF16LE, []byte{0xff, 0xfe}},
	{UTF16BE, []byte{0xfe, 0xff}},
}

// ParseEncoding parses an encoding name, such as "utf-8" or "cp1251".
//
// The empty string parses as [Unknown].
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return Unknown, nil
	case "utf-8", "utf8":
		return UTF8, nil
	case "utf-16le", "utf16le":
		return UTF16LE, nil
	case "utf-16be", "utf16be":
		return UTF16BE, nil
	case "windows-1251", "cp1251", "win1251":
		return Windows1251, nil
	default:
		return Unknown, fmt.Errorf("bslcore/source: unsupported encoding %q", name)
	}
}

// BOM returns the byte-order mark for this encoding, or nil if it has none.
func (e Encoding) BOM() []byte {
	for _, b := range boms {
		if b.enc == e {
			return b.bom
		}
	}
	return nil
}

// String implements [fmt.Stringer].
func (e Encoding) String() string {
	switch e {
	case Unknown:
		return "unknown"
	case UTF8:
		return "utf-8"
	case UTF16LE:
		return "utf-16le"
	case UTF16BE:
		return "utf-16be"
	case Windows1251:
		return "windows-1251"
	default:
		return fmt.Sprintf("source.Encoding(%d)", int(e))
	}
}

// sniff returns the encoding whose BOM raw starts with, and the BOM's length.
func sniff(raw []byte) (Encoding, int) {
	for _, b := range boms {
		if bytes.HasPrefix(raw, b.bom) {
			return b.enc, len(b.bom)
		}
	}
	return Unknown, 0
}
