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

package minibsl

import (
	"fmt"
	"strings"

	"github.com/bufbuild/bslcore/token"
	"github.com/bufbuild/bslcore/tree"
)

// Outline renders a tree as indented text: one line per rule with its range,
// and one per terminal that is not hidden trivia.
func Outline(t *tree.Tree) string {
	var buf strings.Builder
	var depth int
	_ = tree.Walk(t.Root(), func(n tree.Node) error {
		if n.IsTerminal() {
			tok := n.Token()
			if tok.Channel() == token.Hidden {
				return nil
			}
			fmt.Fprintf(&buf, "%s%s %q", strings.Repeat("  ", depth), KindName(n), tok.Text())
			if tok.Channel() != token.Code {
				fmt.Fprintf(&buf, " (%s)", tok.Channel())
			}
			buf.WriteByte('\n')
			return nil
		}
		r := n.Range()
		fmt.Fprintf(&buf, "%s%s %d:%d-%d:%d\n", strings.Repeat("  ", depth), KindName(n),
			r.StartLine, r.StartColumn, r.EndLine, r.EndColumn)
		depth++
		return nil
	}, func(n tree.Node) error {
		if !n.IsTerminal() {
			depth--
		}
		return nil
	})
	return buf.String()
}
