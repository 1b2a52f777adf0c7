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

package tree

import "errors"

// SkipChildren may be returned by an enter callback passed to [Walk] to avoid
// descending into the current node. Its exit callback still runs.
var SkipChildren = errors.New("skip children") //nolint:revive,errname // Sentinel, not a failure.

// Walk visits n and its descendants depth-first, calling enter before a
// node's children and exit (if non-nil) after them. If either callback
// returns an error, the walk stops and returns it.
func Walk(n Node, enter, exit func(Node) error) error {
	if n.IsZero() {
		return nil
	}
	err := enter(n)
	switch {
	case errors.Is(err, SkipChildren):
	case err != nil:
		return err
	default:
		for child := range n.Children() {
			if err := Walk(child, enter, exit); err != nil {
				return err
			}
		}
	}
	if exit != nil {
		return exit(n)
	}
	return nil
}
