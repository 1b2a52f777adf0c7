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
	"strings"
)

// Kind is a grammar-defined token type.
//
// Kinds are opaque to this package, except for [EOF].
type Kind int32

// EOF is the kind of the zero-width token [Stream.Freeze] appends.
const EOF Kind = -1

// Channel is a logical partition of a token stream.
type Channel byte

const (
	Code         Channel = iota // Tokens the parser consumes.
	Comment                     // Comments.
	Preprocessor                // Preprocessor and conditional-compilation directives.
	Hidden                      // Whitespace, EOF, and anything else nobody parses.

	numChannels
)

// String implements [fmt.Stringer].
func (c Channel) String() string {
	switch c {
	case Code:
		return "code"
	case Comment:
		return "comment"
	case Preprocessor:
		return "preprocessor"
	case Hidden:
		return "hidden"
	default:
		return fmt.Sprintf("token.Channel(%d)", int(c))
	}
}

// ParseChannel is the inverse of [Channel.String].
func ParseChannel(name string) (Channel, error) {
	for c := range numChannels {
		if strings.EqualFold(c.String(), name) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("bslcore/token: unknown channel %q", name)
}

// Channels is a set of [Channel]s.
type Channels uint8

// AllChannels contains every channel.
const AllChannels = Channels(1<<numChannels - 1)

// ChannelSet returns a set containing the given channels.
func ChannelSet(channels ...Channel) Channels {
	var set Channels
	for _, c := range channels {
		set |= 1 << c
	}
	return set
}

// Has returns whether c is in this set.
func (s Channels) Has(c Channel) bool {
	return s&(1<<c) != 0
}

// String implements [fmt.Stringer].
func (s Channels) String() string {
	var names []string
	for c := range numChannels {
		if s.Has(c) {
			names = append(names, c.String())
		}
	}
	return "{" + strings.Join(names, ", ") + "}"
}
